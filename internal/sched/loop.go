package sched

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop is the production dispatch loop.
//
// All engine entry points execute on the goroutine that calls Run. External
// producers (the platform input hook) submit work with Post; timers armed
// with ScheduleOnce post their callbacks back onto the same queue when they
// expire, so timer fires interleave with input events instead of racing them.
//
// Thread-safety model:
//   - Post, ScheduleOnce, Cancel, Now: safe from any goroutine
//   - Run: must be called from exactly one goroutine
type Loop struct {
	queue *taskQueue
	epoch time.Time

	mu     sync.Mutex
	nextID TimerID
	timers map[TimerID]*time.Timer
}

// NewLoop creates an idle loop. Run must be called to drain it.
func NewLoop() *Loop {
	return &Loop{
		queue:  newTaskQueue(),
		epoch:  time.Now(),
		timers: make(map[TimerID]*time.Timer),
	}
}

// Post submits a task for execution on the dispatch goroutine.
// Returns false if the loop has been stopped.
func (l *Loop) Post(fn func()) bool {
	return l.queue.push(fn)
}

// ScheduleOnce arms a one-shot timer. The callback runs on the dispatch
// goroutine after at least delay has elapsed.
func (l *Loop) ScheduleOnce(delay time.Duration, fn func()) TimerID {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.timers[id] = time.AfterFunc(delay, func() {
		// The expiry runs on the runtime timer goroutine; hand the callback
		// to the dispatch queue and re-check registration at dequeue time
		// so a Cancel that lands between expiry and dispatch still wins.
		l.queue.push(func() {
			if l.take(id) {
				fn()
			}
		})
	})
	l.mu.Unlock()
	return id
}

// Cancel disarms a timer. Safe to call with None or an id that already
// fired; a callback that has not started yet will never start.
func (l *Loop) Cancel(id TimerID) {
	if id == None {
		return
	}
	l.mu.Lock()
	if t, ok := l.timers[id]; ok {
		t.Stop()
		delete(l.timers, id)
	}
	l.mu.Unlock()
}

// take consumes a timer registration, returning false if it was cancelled.
func (l *Loop) take(id TimerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.timers[id]; !ok {
		return false
	}
	delete(l.timers, id)
	return true
}

// Now returns the monotonic time since the loop was created.
func (l *Loop) Now() time.Duration {
	return time.Since(l.epoch)
}

// Run drains the queue until the context is cancelled or Stop is called.
// Must be called from exactly one goroutine.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("dispatch loop starting")

	for {
		fn, ok := l.queue.pop()
		if ok {
			fn()
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("dispatch loop stopping: context cancelled")
			l.queue.close()
			return ctx.Err()

		case <-l.queue.wait():
			if l.queue.isClosed() && l.queue.len() == 0 {
				slog.Info("dispatch loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue; Run drains remaining tasks and returns.
func (l *Loop) Stop() {
	l.queue.close()
}

// Pending returns the number of queued tasks. Used by tests.
func (l *Loop) Pending() int {
	return l.queue.len()
}
