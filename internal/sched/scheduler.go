package sched

import "time"

// TimerID identifies one scheduled callback. The zero value means
// "no timer outstanding" and is what engine state holds between cycles.
type TimerID uint64

// None is the zero TimerID.
const None TimerID = 0

// Scheduler schedules single-shot callbacks on the dispatch goroutine.
//
// ScheduleOnce arms a one-shot timer; the callback runs on the same
// goroutine that delivers input events, never concurrently with them.
// Cancel is idempotent and safe to call with an id that already fired;
// after Cancel returns, a callback that has not yet started will never
// start (one already dispatched runs to completion - cancellation is
// cooperative, not preemptive).
//
// Now returns a monotonic reading used for debounce arithmetic. It is
// never compared across process restarts.
type Scheduler interface {
	ScheduleOnce(delay time.Duration, fn func()) TimerID
	Cancel(id TimerID)
	Now() time.Duration
}
