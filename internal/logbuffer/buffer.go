package logbuffer

import (
	"errors"
	"math"
	"sync"

	"github.com/google/btree"
)

// Entry is a single ingested log record. The ID is assigned by the producer,
// is strictly increasing across the process lifetime, and doubles as both
// primary key and ordering key. Entries are never mutated once inserted.
type Entry struct {
	ID          int64  `json:"id"`
	Level       string `json:"level"`
	Category    string `json:"category,omitempty"`
	Message     string `json:"message"`
	TimestampMs int64  `json:"ts_ms"`
}

var (
	// ErrDuplicateID is returned by Insert when an entry with the same id is
	// already present. Duplicates indicate a producer bug and are rejected
	// rather than silently overwritten.
	ErrDuplicateID = errors.New("logbuffer: duplicate entry id")
	// ErrEmpty is returned by EvictMin when the buffer has no entries.
	ErrEmpty = errors.New("logbuffer: buffer is empty")
)

// btreeDegree is the branching factor for the backing B-tree.
const btreeDegree = 16

// Buffer is an id-ordered collection of entries with a fixed capacity.
// Eviction of the smallest id is driven by the owning store; the buffer
// itself only validates and records the configured capacity.
//
// All operations are serialized by a single mutex so a reader never observes
// a partially applied insert or eviction.
type Buffer struct {
	mu       sync.Mutex
	tree     *btree.BTreeG[Entry]
	capacity int
}

// New creates an empty Buffer with the given capacity.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, errors.New("logbuffer: capacity must be positive")
	}
	less := func(a, b Entry) bool { return a.ID < b.ID }
	return &Buffer{
		tree:     btree.NewG(btreeDegree, less),
		capacity: capacity,
	}, nil
}

// Capacity returns the fixed capacity set at construction.
func (b *Buffer) Capacity() int { return b.capacity }

// Insert adds an entry keyed by id. It fails with ErrDuplicateID if an entry
// with the same id already exists.
func (b *Buffer) Insert(e Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tree.Has(Entry{ID: e.ID}) {
		return ErrDuplicateID
	}
	b.tree.ReplaceOrInsert(e)
	return nil
}

// EvictMin removes and returns the entry with the smallest id. It fails with
// ErrEmpty if the buffer has no entries.
func (b *Buffer) EvictMin() (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.tree.DeleteMin()
	if !ok {
		return Entry{}, ErrEmpty
	}
	return e, nil
}

// Range returns all entries with id in [lo, hi], ascending by id. The result
// is a snapshot taken under the buffer lock; concurrent mutation never shows
// through in the returned slice.
func (b *Buffer) Range(lo, hi int64) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if hi < lo {
		return nil
	}
	var out []Entry
	collect := func(e Entry) bool {
		out = append(out, e)
		return true
	}
	if hi == math.MaxInt64 {
		b.tree.AscendGreaterOrEqual(Entry{ID: lo}, collect)
	} else {
		// AscendRange is [gte, lt), so bump the upper pivot by one.
		b.tree.AscendRange(Entry{ID: lo}, Entry{ID: hi + 1}, collect)
	}
	return out
}

// Size returns the current entry count.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree.Len()
}

// MinID returns the smallest stored id, or 0 if the buffer is empty.
func (b *Buffer) MinID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.tree.Min(); ok {
		return e.ID
	}
	return 0
}

// MaxID returns the largest stored id, or 0 if the buffer is empty.
func (b *Buffer) MaxID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.tree.Max(); ok {
		return e.ID
	}
	return 0
}
