package store

import (
	"time"
)

// WaitForAppend blocks until either a new append occurs or timeout elapses.
// It returns true if woken by an append, false on timeout. A non-positive
// timeout waits indefinitely.
func (s *Store) WaitForAppend(timeout time.Duration) bool {
	s.mu.Lock()
	ch := s.notifyCh
	s.mu.Unlock()

	if timeout <= 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
