package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rzbill/logtail/internal/runtime"
	tailsvc "github.com/rzbill/logtail/internal/services/tail"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

// Server exposes the log store to web clients over HTTP and SSE.
type Server struct {
	rt     *runtime.Runtime
	svc    *tailsvc.Service
	logger logpkg.Logger
	srv    *http.Server
	lis    net.Listener
}

// New builds a Server with a tail service derived from the runtime config.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	cfg := rt.Config()
	svc := tailsvc.NewWithLogger(rt.Store(), tailsvc.Config{
		ClientRatePerSec: cfg.ClientRatePerSec,
		ClientRateBurst:  cfg.ClientRateBurst,
	}, logger)
	return NewWithService(rt, svc, logger)
}

// NewWithService builds a Server around an existing tail service.
func NewWithService(rt *runtime.Runtime, svc *tailsvc.Service, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("http"))
	}
	mux := http.NewServeMux()
	s := &Server{
		rt:     rt,
		svc:    svc,
		logger: logger,
	}
	s.srv = &http.Server{Handler: cors(s.instanceHeader(mux))}

	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/logs", s.handleIngest)
	mux.HandleFunc("/v1/logs/poll", s.handlePoll)
	mux.HandleFunc("/v1/logs/tail", s.handleTailSSE)
	mux.HandleFunc("/v1/logs/snapshot", s.handleSnapshot)
	mux.HandleFunc("/v1/categories", s.handleListCategories)
	mux.HandleFunc("/v1/categories/define", s.handleDefineCategory)
	mux.HandleFunc("/v1/stats", s.handleStats)
	return s
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close closes the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

// instanceHeader stamps every response with the store instance id so clients
// can detect a restart and reset their cursor to 0.
func (s *Server) instanceHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Logtail-Instance", s.rt.Store().InstanceID())
		next.ServeHTTP(w, r)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Expose-Headers", "X-Logtail-Instance")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
