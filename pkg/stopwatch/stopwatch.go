// Package stopwatch keeps track of timed intervals, like a countdown for a
// valve sequence step.
package stopwatch

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// StopWatch times a single interval. The zero value is not usable, use New.
type StopWatch struct {
	clock clock.Clock

	mu    sync.RWMutex
	start time.Time
	stop  time.Time
}

// New returns a stopwatch on the wall clock.
func New() *StopWatch {
	return WithClock(clock.New())
}

// WithClock returns a stopwatch reading time from c.
func WithClock(c clock.Clock) *StopWatch {
	now := c.Now()
	return &StopWatch{clock: c, start: now, stop: now}
}

// Start starts a timer running for d.
func (s *StopWatch) Start(d time.Duration) {
	now := s.clock.Now()

	s.mu.Lock()
	s.start = now
	s.stop = now.Add(d)
	s.mu.Unlock()
}

// Active returns true while the timer is running. The end of the interval
// still counts as running.
func (s *StopWatch) Active() bool {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return !now.Before(s.start) && !now.After(s.stop)
}

// Elapsed returns the time since the timer was started.
func (s *StopWatch) Elapsed() time.Duration {
	s.mu.RLock()
	start := s.start
	s.mu.RUnlock()

	return s.clock.Now().Sub(start)
}

// Remaining returns the time left before the timer stops, or 0 once it has.
func (s *StopWatch) Remaining() time.Duration {
	s.mu.RLock()
	stop := s.stop
	s.mu.RUnlock()

	return max(stop.Sub(s.clock.Now()), 0)
}

// Sleep blocks for d or until ctx is done.
func (s *StopWatch) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := s.clock.Timer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
