package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/rzbill/logtail/internal/logbuffer"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

func newTestStore(t *testing.T, capacity int) *Store {
	t.Helper()
	logger := logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel), logpkg.WithOutput(logpkg.NullOutput{}))
	s, err := New(Options{Capacity: capacity, Logger: logger})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func appendN(t *testing.T, s *Store, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		if err := s.Append(logbuffer.Entry{ID: id}); err != nil {
			t.Fatalf("append %d: %v", id, err)
		}
	}
}

func idsOf(entries []logbuffer.Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a []int64, b ...int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLimitedNextDeliversRemainderLater(t *testing.T) {
	s := newTestStore(t, 100)
	appendN(t, s, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	first := s.Next("c", 3)
	if !equalIDs(idsOf(first), 1, 2, 3) {
		t.Fatalf("limited batch: %v", idsOf(first))
	}
	// the cursor must not have moved past the cap
	rest := s.Next("c", 0)
	if !equalIDs(idsOf(rest), 4, 5, 6, 7, 8, 9, 10) {
		t.Fatalf("remainder lost: %v", idsOf(rest))
	}
	if again := s.Next("c", 0); len(again) != 0 {
		t.Fatalf("want empty after drain, got %v", idsOf(again))
	}
}

func TestNewRejectsBadCapacity(t *testing.T) {
	if _, err := New(Options{Capacity: -1}); err == nil {
		t.Fatalf("expected error for negative capacity")
	}
}

func TestDefaultCapacity(t *testing.T) {
	s := newTestStore(t, 0)
	if s.Capacity() != DefaultCapacity {
		t.Fatalf("want default capacity %d, got %d", DefaultCapacity, s.Capacity())
	}
}

func TestCapacityBoundAfterAnyPrefix(t *testing.T) {
	s := newTestStore(t, 3)
	for id := int64(1); id <= 50; id++ {
		if err := s.Append(logbuffer.Entry{ID: id}); err != nil {
			t.Fatalf("append: %v", err)
		}
		if got := s.Stats().Size; got > 3 {
			t.Fatalf("capacity exceeded after id %d: size=%d", id, got)
		}
	}
}

func TestOldestEvictedFirst(t *testing.T) {
	// capacity=3, log 1..4: buffer must hold exactly {2,3,4}
	s := newTestStore(t, 3)
	appendN(t, s, 1, 2, 3, 4)

	got := s.Next("fresh-client", 0)
	if !equalIDs(idsOf(got), 2, 3, 4) {
		t.Fatalf("want [2 3 4], got %v", idsOf(got))
	}
	// cursor is now 4; nothing new before the next append
	if again := s.Next("fresh-client", 0); len(again) != 0 {
		t.Fatalf("want empty poll, got %v", idsOf(again))
	}
}

func TestPerClientExactlyOnceAcrossPolls(t *testing.T) {
	s := newTestStore(t, 100)
	appendN(t, s, 1, 2, 3, 4, 5)

	a1 := s.Next("A", 0)
	if !equalIDs(idsOf(a1), 1, 2, 3, 4, 5) {
		t.Fatalf("first poll: %v", idsOf(a1))
	}

	appendN(t, s, 6)
	a2 := s.Next("A", 0)
	if !equalIDs(idsOf(a2), 6) {
		t.Fatalf("second poll: %v", idsOf(a2))
	}

	// a client that never polled gets the whole backlog
	b1 := s.Next("B", 0)
	if !equalIDs(idsOf(b1), 1, 2, 3, 4, 5, 6) {
		t.Fatalf("client B backlog: %v", idsOf(b1))
	}
}

func TestCursorsAreIndependent(t *testing.T) {
	s := newTestStore(t, 100)
	appendN(t, s, 1, 2, 3)

	_ = s.Next("A", 0) // advances A to 3
	got := s.Next("B", 0)
	if !equalIDs(idsOf(got), 1, 2, 3) {
		t.Fatalf("advancing A affected B: %v", idsOf(got))
	}
}

func TestDuplicateIDSurfaced(t *testing.T) {
	s := newTestStore(t, 10)
	appendN(t, s, 7)
	err := s.Append(logbuffer.Entry{ID: 7})
	if !errors.Is(err, logbuffer.ErrDuplicateID) {
		t.Fatalf("want ErrDuplicateID, got %v", err)
	}
}

func TestSnapshotReverseIsDisplayOnly(t *testing.T) {
	s := newTestStore(t, 10)
	appendN(t, s, 1, 2, 3)

	rev := s.Snapshot(0, true)
	if !equalIDs(idsOf(rev), 3, 2, 1) {
		t.Fatalf("reverse snapshot: %v", idsOf(rev))
	}
	// snapshot must not advance any cursor
	got := s.Next("viewer", 0)
	if !equalIDs(idsOf(got), 1, 2, 3) {
		t.Fatalf("snapshot advanced a cursor: %v", idsOf(got))
	}
	limited := s.Snapshot(2, true)
	if !equalIDs(idsOf(limited), 3, 2) {
		t.Fatalf("limited snapshot: %v", idsOf(limited))
	}
}

func TestDefineAndResolveCategory(t *testing.T) {
	s := newTestStore(t, 10)
	s.DefineCategory("app/net", "Networking")
	s.DefineCategory("app", "Application")
	if got := s.ResolveCategory("app/net/http"); got != "Networking" {
		t.Fatalf("want Networking, got %q", got)
	}
	if got := s.ResolveCategory("other"); got != "" {
		t.Fatalf("want empty, got %q", got)
	}
}

func TestInstanceIDStable(t *testing.T) {
	s := newTestStore(t, 10)
	if s.InstanceID() == "" {
		t.Fatalf("empty instance id")
	}
	if s.InstanceID() != s.InstanceID() {
		t.Fatalf("instance id not stable")
	}
	s2 := newTestStore(t, 10)
	if s.InstanceID() == s2.InstanceID() {
		t.Fatalf("two stores share an instance id")
	}
}

func TestConcurrentAppendAndPoll(t *testing.T) {
	s := newTestStore(t, 10_000)
	const total = 2000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for id := int64(1); id <= total; id++ {
			if err := s.Append(logbuffer.Entry{ID: id}); err != nil {
				t.Errorf("append %d: %v", id, err)
				return
			}
		}
	}()

	// Reader polls concurrently; across all polls it must see the full
	// ascending sequence with no duplicates and no gaps.
	var seen []int64
	for len(seen) < total {
		batch := s.Next("reader", 0)
		seen = append(seen, idsOf(batch)...)
	}
	wg.Wait()

	for i, id := range seen {
		if id != int64(i+1) {
			t.Fatalf("gap or duplicate at %d: got id %d", i, id)
		}
	}
}

func TestConcurrentPollsSameClientNoDuplicates(t *testing.T) {
	s := newTestStore(t, 10_000)
	for id := int64(1); id <= 1000; id++ {
		appendN(t, s, id)
	}

	const pollers = 8
	results := make(chan []int64, pollers*4)
	var wg sync.WaitGroup
	for p := 0; p < pollers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 4; i++ {
				results <- idsOf(s.Next("shared", 0))
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for batch := range results {
		for _, id := range batch {
			if seen[id] {
				t.Fatalf("entry %d delivered twice to the same client", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != 1000 {
		t.Fatalf("want 1000 unique entries delivered, got %d", len(seen))
	}
}
