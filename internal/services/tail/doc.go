// Package tailsvc provides the client-facing tail operations built on the
// internal log store: cursor-based polling, CEL-filtered streaming to a
// transport Sink, display snapshots, and stats. Per-client token buckets
// protect the store from poll-happy clients.
package tailsvc
