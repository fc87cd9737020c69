// Package logbuffer implements the id-ordered, capacity-bounded entry
// container at the core of the log store.
//
// # Overview
//
// Entries are keyed by a producer-assigned, strictly increasing int64 id and
// held in a B-tree, giving O(log n) insert and evict-min and O(log n + k)
// inclusive range queries. Capacity enforcement (evict the smallest id when
// an insert would exceed capacity) is driven by the owning store so that
// eviction policy and cursor bookkeeping live in one place.
//
// API surface (internal)
//
//	b, _ := logbuffer.New(1024)
//	_ = b.Insert(logbuffer.Entry{ID: 1, Message: "hello"})
//	evicted, _ := b.EvictMin()
//	entries := b.Range(2, math.MaxInt64)
package logbuffer
