// Package notice schedules the auto-dismissal of versioned notices.
package notice

import (
	"sync"
	"time"
)

// DefaultTTL is how long the order confirmation stays visible.
const DefaultTTL = 3 * time.Second

// ExpireFunc is called with the version of a notice whose TTL elapsed.
type ExpireFunc func(version uint64)

// Scheduler keeps at most one pending expiry. Scheduling a newer version
// cancels the older timer, and a timer that already fired for an older
// version is dropped, so a stale timer never clears a newer notice.
type Scheduler struct {
	ttl    time.Duration
	expire ExpireFunc

	mu      sync.Mutex
	timer   *time.Timer
	pending uint64
	stopped bool
}

// New creates a Scheduler. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration, expire ExpireFunc) *Scheduler {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Scheduler{ttl: ttl, expire: expire}
}

// TTL returns the configured display duration.
func (s *Scheduler) TTL() time.Duration {
	return s.ttl
}

// Schedule arranges for version to expire after the TTL, replacing any
// pending expiry. Versions at or below the latest scheduled one are
// ignored, so callers racing to schedule cannot leave a newer notice
// without a timer.
func (s *Scheduler) Schedule(version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || version <= s.pending {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = version
	s.timer = time.AfterFunc(s.ttl, func() { s.fire(version) })
}

func (s *Scheduler) fire(version uint64) {
	s.mu.Lock()
	if s.stopped || s.pending != version {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.expire(version)
}

// Pending reports the version awaiting expiry, if any.
func (s *Scheduler) Pending() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.timer != nil
}

// Stop cancels the pending expiry. Later Schedule calls are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
