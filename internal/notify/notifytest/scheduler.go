// Package notifytest provides a manual clock for driving toast timers in tests.
package notifytest

import (
	"sort"
	"sync"
	"time"

	"github.com/jcmexdev/maison-storefront/internal/notify"
)

var _ notify.Scheduler = (*ManualScheduler)(nil)

// ManualScheduler fires callbacks only when Advance moves its clock past
// their deadline.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s        *ManualScheduler
	seq      int
	deadline time.Duration
	f        func()
	stopped  bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) notify.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTimer{s: s, seq: s.seq, deadline: s.now + d, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock forward and runs every due callback in deadline
// order, including callbacks scheduled by other callbacks.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		next.stopped = true
		s.now = next.deadline
		s.mu.Unlock()

		next.f()
	}
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.pending = live

	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].deadline != s.pending[j].deadline {
			return s.pending[i].deadline < s.pending[j].deadline
		}
		return s.pending[i].seq < s.pending[j].seq
	})
	if len(s.pending) == 0 || s.pending[0].deadline > target {
		return nil
	}
	return s.pending[0]
}
