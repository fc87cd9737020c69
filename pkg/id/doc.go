// Package id provides process-lifetime identifiers for the log store.
//
// Two kinds are offered:
//
//   - ID, a 128-bit lexicographically sortable instance identifier
//     (16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence]).
//     Transports use it to detect store restarts, since client cursors
//     are meaningless across a restart.
//   - Sequence, a strictly increasing int64 generator used to assign
//     entry ids on the ingestion path.
//
// Both are safe for concurrent use and never regress if the system clock
// steps backwards.
//
// Usage
//
//	g := id.NewGenerator()
//	instance := g.Next().String()
//
//	seq := id.NewSequence()
//	entryID := seq.Next()
package id
