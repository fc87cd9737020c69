package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rzbill/logtail/internal/handler"
	"github.com/rzbill/logtail/internal/logbuffer"
	tailsvc "github.com/rzbill/logtail/internal/services/tail"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

// Request types

// ingestReq is one log record submitted by a producer.
type ingestReq struct {
	Level       string `json:"level"`
	Namespace   string `json:"namespace"`
	Message     string `json:"message"`
	TimestampMs int64  `json:"ts_ms"`
}

// defineCategoryReq maps a namespace prefix to a category name.
type defineCategoryReq struct {
	Prefix   string `json:"prefix"`
	Category string `json:"category"`
}

// Helper responses

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}

func parseBool(s string) bool {
	return s == "true" || s == "1"
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_serving"})
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req ingestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	e, err := s.rt.Handler().Handle(handler.Record{
		Level:       req.Level,
		Namespace:   req.Namespace,
		Message:     req.Message,
		TimestampMs: req.TimestampMs,
	})
	if err != nil {
		s.logger.Error("ingest failed", logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to store entry")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]int64{"id": e.ID})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "Missing client id")
		return
	}
	entries, err := s.svc.Poll(r.Context(), clientID, tailsvc.Options{
		Filter: r.URL.Query().Get("filter"),
		Limit:  parseLimit(r.URL.Query().Get("limit")),
	})
	switch {
	case errors.Is(err, tailsvc.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Rate limited")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if entries == nil {
		entries = []logbuffer.Entry{}
	}
	writeJSON(w, map[string]any{"entries": entries})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.Snapshot(
		parseLimit(r.URL.Query().Get("limit")),
		parseBool(r.URL.Query().Get("reverse")),
	)
	if entries == nil {
		entries = []logbuffer.Entry{}
	}
	writeJSON(w, map[string]any{"entries": entries})
}

func (s *Server) handleDefineCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req defineCategoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Prefix == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "prefix and category are required")
		return
	}
	s.rt.Store().DefineCategory(req.Prefix, req.Category)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"categories": s.rt.Store().Categories()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Stats())
}
