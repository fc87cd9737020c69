package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rzbill/logtail/internal/logbuffer"
	tailsvc "github.com/rzbill/logtail/internal/services/tail"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

// sseSink implements the tail Sink interface for Server-Sent Events.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

// Send formats and sends a log entry as an SSE data event.
func (s sseSink) Send(e logbuffer.Entry) error {
	b, _ := json.Marshal(e)
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("\n\n")); err != nil {
		return err
	}
	return nil
}

// Context returns the request context for cancellation.
func (s sseSink) Context() context.Context {
	return s.r.Context()
}

// Flush flushes the HTTP response writer so events reach the client
// immediately.
func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// handleTailSSE streams entries the client has not yet seen as SSE events
// until the client disconnects or the optional limit is reached.
func (s *Server) handleTailSSE(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "Missing client id")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	err := s.svc.Subscribe(sseSink{w: w, r: r}, clientID, tailsvc.Options{
		Filter: r.URL.Query().Get("filter"),
		Limit:  parseLimit(r.URL.Query().Get("limit")),
	})
	if err != nil {
		s.logger.Debug("tail stream ended", logpkg.Str("client", clientID), logpkg.Err(err))
	}
}
