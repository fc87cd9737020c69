package tailsvc

import (
	"context"

	"github.com/rzbill/logtail/internal/logbuffer"
)

// Options controls a poll or subscribe call.
type Options struct {
	// Filter is an optional CEL expression evaluated per entry
	// (variables: id, level, category, message, ts_ms, now_ms).
	// When empty, all entries are delivered. Filtered-out entries still
	// advance the client's cursor; the filter shapes delivery, not position.
	Filter string
	// Limit caps delivery. For Poll it bounds how many entries are consumed
	// from the buffer in one call; anything past the cap stays behind the
	// cursor for the next poll. For Subscribe it is the number of entries
	// sent before the stream ends. 0 means no cap.
	Limit int
}

// Sink is implemented by transports to receive streamed entries.
type Sink interface {
	Send(logbuffer.Entry) error
	Context() context.Context
	Flush() error
}
