package handler

import (
	"time"

	"github.com/rzbill/logtail/internal/logbuffer"
	"github.com/rzbill/logtail/internal/store"
	"github.com/rzbill/logtail/pkg/id"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

// Record is one raw log event handed to the ingestion pipeline before an id
// has been assigned.
type Record struct {
	Level     string
	Namespace string
	Message   string
	// TimestampMs is stamped from the wall clock when zero.
	TimestampMs int64
}

// Handler is the single producer feeding the store. It assigns strictly
// increasing entry ids, resolves the category from the record's namespace,
// and appends the finished entry. The owner that constructs the store also
// constructs the Handler and hands it to whichever pipeline emits records;
// there is no registration framework.
type Handler struct {
	store  *store.Store
	seq    *id.Sequence
	logger logpkg.Logger
}

// New creates a Handler appending into st.
func New(st *store.Store, logger logpkg.Logger) *Handler {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("handler"))
	}
	return &Handler{store: st, seq: id.NewSequence(), logger: logger}
}

// Handle assigns an id, resolves the category, and appends the record.
// It returns the stored entry.
func (h *Handler) Handle(rec Record) (logbuffer.Entry, error) {
	ts := rec.TimestampMs
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	e := logbuffer.Entry{
		ID:          h.seq.Next(),
		Level:       rec.Level,
		Category:    h.store.ResolveCategory(rec.Namespace),
		Message:     rec.Message,
		TimestampMs: ts,
	}
	if err := h.store.Append(e); err != nil {
		// Duplicate ids cannot come out of the sequence; any failure here is
		// an invariant violation worth shouting about.
		h.logger.Error("append failed", logpkg.Int64("id", e.ID), logpkg.Err(err))
		return logbuffer.Entry{}, err
	}
	return e, nil
}

// StoreOutput adapts the Handler to the pkg/log Output interface so the
// process's own structured logs can be tailed through the store.
type StoreOutput struct {
	h *Handler
	// Namespace tags self-logged entries for category resolution.
	Namespace string
}

// NewStoreOutput creates an Output feeding h.
func NewStoreOutput(h *Handler, namespace string) *StoreOutput {
	return &StoreOutput{h: h, Namespace: namespace}
}

// Write converts a log entry to a Record and ingests it. Errors are dropped
// on the floor: a failing self-log must never take down the logging path.
func (o *StoreOutput) Write(entry *logpkg.Entry, _ []byte) error {
	_, _ = o.h.Handle(Record{
		Level:       entry.Level.String(),
		Namespace:   o.Namespace,
		Message:     entry.Message,
		TimestampMs: entry.Timestamp.UnixMilli(),
	})
	return nil
}

// Close is a no-op.
func (o *StoreOutput) Close() error { return nil }
