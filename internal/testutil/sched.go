// Package testutil provides deterministic test doubles for the dispatch
// scheduler and the host surfaces.
package testutil

import (
	"sort"
	"time"

	"github.com/roach88/tabfling/internal/sched"
)

// ManualScheduler is a sched.Scheduler driven by virtual time.
//
// Nothing fires until the test calls Advance; timers due within the
// advanced span run in due order, ties in arming order, and callbacks
// that arm new timers participate in the same Advance when their
// deadline falls inside it. This makes an 80ms x 12 poll cycle a plain
// synchronous loop in tests.
//
// Not safe for concurrent use: the scheduler stands in for the dispatch
// goroutine, so tests drive it from a single goroutine exactly like
// production code runs on one.
type ManualScheduler struct {
	now    time.Duration
	nextID sched.TimerID
	seq    int
	timers map[sched.TimerID]*manualTimer
}

type manualTimer struct {
	id  sched.TimerID
	due time.Duration
	seq int
	fn  func()
}

// NewManualScheduler creates a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[sched.TimerID]*manualTimer)}
}

// ScheduleOnce implements sched.Scheduler.
func (s *ManualScheduler) ScheduleOnce(delay time.Duration, fn func()) sched.TimerID {
	s.nextID++
	s.seq++
	id := s.nextID
	s.timers[id] = &manualTimer{id: id, due: s.now + delay, seq: s.seq, fn: fn}
	return id
}

// Cancel implements sched.Scheduler.
func (s *ManualScheduler) Cancel(id sched.TimerID) {
	delete(s.timers, id)
}

// Now implements sched.Scheduler.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Advance moves virtual time forward by d, firing every timer that
// comes due along the way.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		// Time jumps to the deadline so callbacks that read Now and re-arm
		// land on the right schedule.
		s.now = t.due
		delete(s.timers, t.id)
		t.fn()
	}
	s.now = target
}

// SetNow jumps virtual time without firing anything. Used to seed
// debounce tests that only care about Now readings.
func (s *ManualScheduler) SetNow(now time.Duration) {
	s.now = now
}

// Pending returns the number of armed timers.
func (s *ManualScheduler) Pending() int {
	return len(s.timers)
}

func (s *ManualScheduler) nextDue(limit time.Duration) *manualTimer {
	var candidates []*manualTimer
	for _, t := range s.timers {
		if t.due <= limit {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].due != candidates[j].due {
			return candidates[i].due < candidates[j].due
		}
		return candidates[i].seq < candidates[j].seq
	})
	return candidates[0]
}
