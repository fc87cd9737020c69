package store

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rzbill/logtail/internal/category"
	"github.com/rzbill/logtail/internal/logbuffer"
	"github.com/rzbill/logtail/pkg/id"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

// DefaultCapacity is the buffer capacity used when none is configured.
const DefaultCapacity = 1024

// Options configures a Store.
type Options struct {
	// Capacity bounds the number of retained entries. Zero selects
	// DefaultCapacity; negative values are rejected.
	Capacity int
	// CursorTTL expires idle client cursors. Zero disables expiry.
	CursorTTL time.Duration
	// Logger receives store diagnostics. A default logger is built when nil.
	Logger logpkg.Logger
}

// Store owns the ordered log buffer, the per-client cursor table, and the
// category mapping. All producer and consumer access funnels through it; no
// other component holds a second handle on the buffer or cursors.
type Store struct {
	buf        *logbuffer.Buffer
	cursors    *cursorTable
	categories *category.Table
	instance   id.ID
	logger     logpkg.Logger

	// mu serializes the evict-then-insert step in Append and guards the
	// notify channel swap.
	mu       sync.Mutex
	notifyCh chan struct{}
}

// New creates a Store with an empty buffer of the configured capacity.
func New(opts Options) (*Store, error) {
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	buf, err := logbuffer.New(capacity)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("store"))
	}
	return &Store{
		buf:        buf,
		cursors:    newCursorTable(opts.CursorTTL),
		categories: category.NewTable(),
		instance:   id.NewGenerator().Next(),
		logger:     logger,
		notifyCh:   make(chan struct{}),
	}, nil
}

// InstanceID returns a stable process-lifetime identifier for this store.
// Transports send it to clients so a restart (which invalidates all cursors)
// is detectable.
func (s *Store) InstanceID() string { return s.instance.String() }

// Capacity returns the fixed buffer capacity.
func (s *Store) Capacity() int { return s.buf.Capacity() }

// Append ingests one entry. While the buffer is at capacity the smallest-id
// entry is evicted first, so the oldest entries are discarded and the bound
// always holds. A duplicate id is a producer bug and is surfaced unchanged.
func (s *Store) Append(e logbuffer.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.buf.Size() >= s.buf.Capacity() {
		if _, err := s.buf.EvictMin(); err != nil {
			// Unreachable given the size check above; a failure here means
			// the buffer invariants are broken.
			s.logger.Error("evict on full buffer failed", logpkg.Err(err))
			return fmt.Errorf("store: capacity eviction: %w", err)
		}
	}
	if err := s.buf.Insert(e); err != nil {
		return err
	}

	// wake tailing consumers
	close(s.notifyCh)
	s.notifyCh = make(chan struct{})
	return nil
}

// Next returns entries the client has not yet received, ascending by id, and
// advances the client's cursor to the last returned id. A positive limit caps
// the batch; the cursor only ever moves past entries actually returned, so a
// capped call never skips anything and the remainder is delivered by later
// calls. A client id never seen before starts at cursor 0 and receives the
// full buffered backlog. Entries evicted before a slow client polls are
// permanently lost to it; the contract is best-effort tail bounded by
// capacity.
func (s *Store) Next(clientID string, limit int) []logbuffer.Entry {
	c := s.cursors.acquire(clientID)
	c.mu.Lock()
	defer c.mu.Unlock()

	results := s.buf.Range(c.lastID+1, math.MaxInt64)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if len(results) > 0 {
		c.lastID = results[len(results)-1].ID
	}
	return results
}

// DefineCategory maps a namespace prefix to a category name. Pure
// configuration; has no effect on buffer semantics.
func (s *Store) DefineCategory(prefix, name string) {
	s.categories.Define(prefix, name)
}

// ResolveCategory returns the category for the longest defined prefix of
// namespace, or "" when none matches.
func (s *Store) ResolveCategory(namespace string) string {
	name, _ := s.categories.Resolve(namespace)
	return name
}

// Categories returns a copy of the current prefix-to-category mapping.
func (s *Store) Categories() map[string]string {
	return s.categories.Defined()
}

// Snapshot returns up to limit buffered entries without touching any cursor.
// Reverse yields newest-first ordering; this is a display concern only, the
// cursor path in Next is always ascending.
func (s *Store) Snapshot(limit int, reverse bool) []logbuffer.Entry {
	all := s.buf.Range(1, math.MaxInt64)
	if reverse {
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// Stats summarizes the store for transports and diagnostics.
type Stats struct {
	InstanceID string `json:"instance_id"`
	Size       int    `json:"size"`
	Capacity   int    `json:"capacity"`
	MinID      int64  `json:"min_id"`
	MaxID      int64  `json:"max_id"`
	Clients    int    `json:"clients"`
}

// Stats returns a point-in-time summary.
func (s *Store) Stats() Stats {
	return Stats{
		InstanceID: s.InstanceID(),
		Size:       s.buf.Size(),
		Capacity:   s.buf.Capacity(),
		MinID:      s.buf.MinID(),
		MaxID:      s.buf.MaxID(),
		Clients:    s.cursors.len(),
	}
}
