package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cfgpkg "github.com/rzbill/logtail/internal/config"
	"github.com/rzbill/logtail/internal/logbuffer"
	"github.com/rzbill/logtail/internal/runtime"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel), logpkg.WithOutput(logpkg.NullOutput{}))
	cfg := cfgpkg.Default()
	cfg.Capacity = 100
	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return New(rt, logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestInstanceHeaderOnEveryResponse(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/healthz", "")
	if got := w.Header().Get("X-Logtail-Instance"); got == "" {
		t.Fatalf("missing instance header")
	}
	w2 := do(t, s, http.MethodGet, "/v1/stats", "")
	if w.Header().Get("X-Logtail-Instance") != w2.Header().Get("X-Logtail-Instance") {
		t.Fatalf("instance header not stable")
	}
}

func TestIngestAndPoll(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/logs", `{"level":"INFO","message":"hello"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("ingest status: %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodGet, "/v1/logs/poll?client=web-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("poll status: %d", w.Code)
	}
	var resp struct {
		Entries []logbuffer.Entry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Message != "hello" {
		t.Fatalf("unexpected poll result: %+v", resp.Entries)
	}

	// second poll from the same client is empty
	w = do(t, s, http.MethodGet, "/v1/logs/poll?client=web-1", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 0 {
		t.Fatalf("want empty second poll, got %+v", resp.Entries)
	}
}

func TestPollRequiresClient(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/logs/poll", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestPollBadFilterRejected(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/logs/poll?client=c&filter=level+%3D%3D", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestDefineCategoryAndIngest(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/categories/define", `{"prefix":"app/net","category":"Networking"}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("define status: %d", w.Code)
	}

	w = do(t, s, http.MethodPost, "/v1/logs", `{"level":"WARN","namespace":"app/net/http","message":"timeout"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("ingest status: %d", w.Code)
	}

	w = do(t, s, http.MethodGet, "/v1/logs/poll?client=c", "")
	var resp struct {
		Entries []logbuffer.Entry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Category != "Networking" {
		t.Fatalf("category not applied: %+v", resp.Entries)
	}
}

func TestSnapshotReverse(t *testing.T) {
	s := newTestServer(t)
	for _, msg := range []string{"a", "b", "c"} {
		do(t, s, http.MethodPost, "/v1/logs", `{"level":"INFO","message":"`+msg+`"}`)
	}
	w := do(t, s, http.MethodGet, "/v1/logs/snapshot?reverse=true&limit=2", "")
	var resp struct {
		Entries []logbuffer.Entry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 2 || resp.Entries[0].Message != "c" {
		t.Fatalf("snapshot: %+v", resp.Entries)
	}
}

func TestStatsHandler(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/logs", `{"level":"INFO","message":"x"}`)
	w := do(t, s, http.MethodGet, "/v1/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var stats struct {
		Size     int    `json:"size"`
		Capacity int    `json:"capacity"`
		Instance string `json:"instance_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Size != 1 || stats.Capacity != 100 || stats.Instance == "" {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestTailSSEDeliversAndStopsAtLimit(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/logs", `{"level":"INFO","message":"one"}`)
	do(t, s, http.MethodPost, "/v1/logs", `{"level":"INFO","message":"two"}`)

	w := do(t, s, http.MethodGet, "/v1/logs/tail?client=sse-1&limit=2", "")
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %s", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"message":"one"`) || !strings.Contains(body, `"message":"two"`) {
		t.Fatalf("sse body: %q", body)
	}
	if strings.Count(body, "data: ") != 2 {
		t.Fatalf("want 2 events, body: %q", body)
	}
}
