package tailsvc

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rzbill/logtail/internal/logbuffer"
	"github.com/rzbill/logtail/internal/store"
	logpkg "github.com/rzbill/logtail/pkg/log"
)

// ErrRateLimited is returned by Poll when a client exceeds its poll budget.
var ErrRateLimited = errors.New("tail: client rate limited")

// subscribeWait bounds how long a subscribe loop blocks on the store before
// re-checking its context.
const subscribeWait = 250 * time.Millisecond

// Config holds service-level tunables.
type Config struct {
	// ClientRatePerSec caps poll calls per client per second. 0 disables
	// rate limiting.
	ClientRatePerSec float64
	// ClientRateBurst is the token-bucket burst; defaults to the rate when 0.
	ClientRateBurst int
}

// Service provides per-client tail operations over the store: cursor-based
// polling, filtered streaming to a Sink, snapshots, and stats.
type Service struct {
	store  *store.Store
	logger logpkg.Logger
	cfg    Config

	limMu    sync.Mutex
	limiters map[string]*rate.Limiter
}

// New returns a Service using a default logger.
func New(st *store.Store, cfg Config) *Service {
	return NewWithLogger(st, cfg, nil)
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(st *store.Store, cfg Config, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("tail"))
	}
	return &Service{
		store:    st,
		logger:   logger,
		cfg:      cfg,
		limiters: map[string]*rate.Limiter{},
	}
}

// limiterFor returns the token bucket for a client, creating it on first use.
// Returns nil when rate limiting is disabled.
func (s *Service) limiterFor(clientID string) *rate.Limiter {
	if s.cfg.ClientRatePerSec <= 0 {
		return nil
	}
	s.limMu.Lock()
	defer s.limMu.Unlock()
	if l, ok := s.limiters[clientID]; ok {
		return l
	}
	burst := s.cfg.ClientRateBurst
	if burst <= 0 {
		burst = int(s.cfg.ClientRatePerSec)
		if burst < 1 {
			burst = 1
		}
	}
	l := rate.NewLimiter(rate.Limit(s.cfg.ClientRatePerSec), burst)
	s.limiters[clientID] = l
	return l
}

// Poll returns the entries the client has not yet received, filtered and
// capped per opts. The limit caps how many entries are consumed from the
// buffer; entries past the cap stay behind the cursor for the next poll. The
// cursor advances past every consumed entry, including ones the filter
// dropped.
func (s *Service) Poll(ctx context.Context, clientID string, opts Options) ([]logbuffer.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l := s.limiterFor(clientID); l != nil && !l.Allow() {
		return nil, ErrRateLimited
	}
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	batch := s.store.Next(clientID, opts.Limit)
	out := make([]logbuffer.Entry, 0, len(batch))
	for _, e := range batch {
		if filter.Eval(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Subscribe streams new entries for clientID to sink until the sink's context
// is done or opts.Limit entries have been delivered. Between polls it blocks
// on the store's append notification.
func (s *Service) Subscribe(sink Sink, clientID string, opts Options) error {
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return err
	}
	ctx := sink.Context()
	delivered := 0

	s.logger.Debug("subscribe started", logpkg.Str("client", clientID))
	defer s.logger.Debug("subscribe ended", logpkg.Str("client", clientID))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		// Fetch no more than the remaining budget so the cursor never moves
		// past an entry this subscription will not deliver.
		remaining := 0
		if opts.Limit > 0 {
			remaining = opts.Limit - delivered
		}
		batch := s.store.Next(clientID, remaining)
		sent := 0
		for _, e := range batch {
			if !filter.Eval(e) {
				continue
			}
			if err := sink.Send(e); err != nil {
				return err
			}
			sent++
			delivered++
		}
		if sent > 0 {
			if err := sink.Flush(); err != nil {
				return err
			}
		}
		if opts.Limit > 0 && delivered >= opts.Limit {
			return nil
		}
		if len(batch) == 0 {
			s.store.WaitForAppend(subscribeWait)
		}
	}
}

// Snapshot returns up to limit buffered entries without touching cursors.
// Reverse yields newest-first ordering.
func (s *Service) Snapshot(limit int, reverse bool) []logbuffer.Entry {
	return s.store.Snapshot(limit, reverse)
}

// Stats returns a point-in-time store summary.
func (s *Service) Stats() store.Stats {
	return s.store.Stats()
}
