package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/rzbill/logtail/internal/config"
	"github.com/rzbill/logtail/internal/handler"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

func newTestRuntime(t *testing.T, cfg cfgpkg.Config) *Runtime {
	t.Helper()
	logger := logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel), logpkg.WithOutput(logpkg.NullOutput{}))
	rt, err := Open(Options{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestOpenAppliesConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Capacity = 7
	cfg.Categories = map[string]string{"app": "Application"}
	rt := newTestRuntime(t, cfg)

	if rt.Store().Capacity() != 7 {
		t.Fatalf("capacity not applied: %d", rt.Store().Capacity())
	}
	if got := rt.Store().ResolveCategory("app/x"); got != "Application" {
		t.Fatalf("boot categories not applied: %q", got)
	}
}

func TestOpenRejectsBadCapacity(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Capacity = -1
	logger := logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel), logpkg.WithOutput(logpkg.NullOutput{}))
	if _, err := Open(Options{Config: cfg, Logger: logger}); err == nil {
		t.Fatalf("expected error for negative capacity")
	}
}

func TestIngestThroughRuntime(t *testing.T) {
	rt := newTestRuntime(t, cfgpkg.Default())
	if _, err := rt.Handler().Handle(handler.Record{Level: "INFO", Message: "hi"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := rt.Store().Next("c", 0); len(got) != 1 {
		t.Fatalf("entry not stored: %v", got)
	}
}

func TestCheckHealth(t *testing.T) {
	rt := newTestRuntime(t, cfgpkg.Default())
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}
