package serverrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cfgpkg "github.com/rzbill/logtail/internal/config"
	"github.com/rzbill/logtail/internal/handler"
	"github.com/rzbill/logtail/internal/runtime"
	httpserver "github.com/rzbill/logtail/internal/server/http"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Options configures the server process.
type Options struct {
	HTTPAddr string
	Config   cfgpkg.Config
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so callers that
	// don't pass a signal-aware context still shut down cleanly.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	if opts.HTTPAddr != "" {
		cfg.HTTPAddr = opts.HTTPAddr
	}

	// Process-wide logger; defaults: level=info, format=text.
	level := getenvDefault("LOGTAIL_LOG_LEVEL", "info")
	format := getenvDefault("LOGTAIL_LOG_FORMAT", "text")
	procLogger, err := logpkg.ApplyConfig(&logpkg.Config{Level: level, Format: format})
	if err != nil {
		procLogger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{
		Config: cfg,
		Logger: procLogger.With(logpkg.Component("store")),
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	if cfg.SelfLog {
		// Rebuild the process logger with a second output feeding the store,
		// so the server's own logs are tailable like any other entries.
		lvl, perr := logpkg.ParseLevel(level)
		if perr != nil {
			lvl = logpkg.InfoLevel
		}
		var formatter logpkg.Formatter = &logpkg.TextFormatter{}
		if format == "json" {
			formatter = &logpkg.JSONFormatter{}
		}
		procLogger = logpkg.NewLogger(
			logpkg.WithLevel(lvl),
			logpkg.WithFormatter(formatter),
			logpkg.WithOutput(logpkg.NewConsoleOutput()),
			logpkg.WithOutput(handler.NewStoreOutput(rt.Handler(), "logtail")),
		)
	}

	procLogger.Info("Starting logtail server",
		logpkg.Str("http", cfg.HTTPAddr),
		logpkg.Int("capacity", cfg.Capacity),
		logpkg.Int64("cursor_ttl_ms", cfg.CursorTTLMs),
		logpkg.Str("level", level),
		logpkg.Str("format", format),
		logpkg.Bool("self_log", cfg.SelfLog),
		logpkg.Str("instance", rt.Store().InstanceID()),
	)

	hsrv := httpserver.New(rt, procLogger.With(logpkg.Component("http")))

	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- hsrv.ListenAndServe(sctx, cfg.HTTPAddr)
	}()

	var runErr error
	select {
	case <-sctx.Done():
	case runErr = <-errCh:
		if runErr != nil {
			procLogger.Error("http server error", logpkg.Err(runErr))
		}
	}
	hsrv.Close()
	wg.Wait()
	procLogger.Info("logtail server stopped")
	return runErr
}
