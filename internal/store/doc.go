// Package store implements the bounded, order-preserving log store.
//
// # Overview
//
// A Store accepts entries from a single ingestion path (ids assigned by the
// producer, strictly increasing) and serves an arbitrary number of
// independently polling clients. Each client's cursor records the highest id
// already delivered to it; a poll returns only entries above the cursor, in
// ascending id order, and advances the cursor to the last id returned.
//
// Capacity is fixed at construction. When an append would exceed it, the
// entry with the smallest id is evicted first, so memory stays bounded and
// the oldest entries are discarded. Entries evicted before a slow client
// polls are permanently lost to that client.
//
// API surface (internal)
//
//	s, _ := store.New(store.Options{Capacity: 1024})
//	_ = s.Append(logbuffer.Entry{ID: 1, Message: "hello"})
//
//	// Per-client tail: only entries not yet delivered to "web-1"
//	entries := s.Next("web-1", 0)
//
//	// Blocking wait/notify for tailing transports
//	woke := s.WaitForAppend(200 * time.Millisecond)
//	_ = woke
//
//	// Display dump, newest-first
//	latest := s.Snapshot(100, true)
//
// All buffer mutations are serialized, range reads are stable snapshots, and
// each client's read-then-advance is atomic per client, so concurrent polls
// from the same client never double-deliver.
package store
