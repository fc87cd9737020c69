// Package httpserver exposes the log store to web clients: JSON ingestion
// and polling, SSE tailing, snapshots, category configuration, and stats.
// Every response carries the X-Logtail-Instance header so clients can detect
// a store restart and reset their cursor.
package httpserver
