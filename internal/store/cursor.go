package store

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// cursor is a single client's delivery watermark. Its mutex is held across
// the read-range-advance critical section in Next so two concurrent polls
// from the same client can never both read the old watermark and deliver the
// same entries twice.
type cursor struct {
	mu     sync.Mutex
	lastID int64
}

// cursorTable maps client ids to cursors. Cursors are created lazily on
// first poll. When a TTL is configured, idle cursors expire and the client is
// treated as new on its next poll; with TTL zero cursors never expire.
type cursorTable struct {
	mu sync.Mutex

	// exactly one of the two backings is non-nil
	static   map[string]*cursor
	expiring *expirable.LRU[string, *cursor]
}

func newCursorTable(ttl time.Duration) *cursorTable {
	if ttl <= 0 {
		return &cursorTable{static: make(map[string]*cursor)}
	}
	// size 0 means the LRU is bounded by TTL only
	return &cursorTable{expiring: expirable.NewLRU[string, *cursor](0, nil, ttl)}
}

// acquire returns the cursor for clientID, creating it if absent or expired.
func (t *cursorTable) acquire(clientID string) *cursor {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.static != nil {
		if c, ok := t.static[clientID]; ok {
			return c
		}
		c := &cursor{}
		t.static[clientID] = c
		return c
	}
	if c, ok := t.expiring.Get(clientID); ok {
		// re-add to refresh the TTL so expiry tracks idleness, not age
		t.expiring.Add(clientID, c)
		return c
	}
	c := &cursor{}
	t.expiring.Add(clientID, c)
	return c
}

// len returns the number of tracked clients.
func (t *cursorTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.static != nil {
		return len(t.static)
	}
	return t.expiring.Len()
}
