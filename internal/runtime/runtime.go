package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/rzbill/logtail/internal/config"
	"github.com/rzbill/logtail/internal/handler"
	"github.com/rzbill/logtail/internal/store"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
}

// Runtime wires the store, ingestion handler, and config for a single-node
// instance. The owner constructs it once and hands references to the
// transports; nothing here is a process-wide singleton.
type Runtime struct {
	store   *store.Store
	handler *handler.Handler
	config  cfgpkg.Config
}

// Open builds the store and ingestion handler from config and returns a
// Runtime.
func Open(opts Options) (*Runtime, error) {
	st, err := store.New(store.Options{
		Capacity:  opts.Config.Capacity,
		CursorTTL: time.Duration(opts.Config.CursorTTLMs) * time.Millisecond,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	for prefix, name := range opts.Config.Categories {
		st.DefineCategory(prefix, name)
	}
	h := handler.New(st, opts.Logger)
	return &Runtime{store: st, handler: h, config: opts.Config}, nil
}

// Close releases runtime resources. The store is in-memory, so this is
// currently a no-op kept for lifecycle symmetry with the transports.
func (r *Runtime) Close() error { return nil }

// CheckHealth performs a simple liveness check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.store == nil {
		return errors.New("store not open")
	}
	return ctx.Err()
}

// Store exposes the log store.
func (r *Runtime) Store() *store.Store { return r.store }

// Handler exposes the ingestion handler.
func (r *Runtime) Handler() *handler.Handler { return r.handler }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
