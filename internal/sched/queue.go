package sched

import "sync"

// taskQueue is a thread-safe FIFO queue of pending dispatch tasks.
//
// The queue is unbounded: the input hook must never block on the engine,
// and a burst of pointer-move events can outrun one poll cycle without
// back-pressure mattering.
//
// A buffered signal channel (size 1) lets Run wait for work without
// spinning and without missing a wakeup; the channel closes when the
// queue is closed so Run can drain and exit.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks:  make([]func(), 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// push appends a task. Returns false if the queue is closed.
func (q *taskQueue) push(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, fn)

	// Non-blocking signal: one pending notification is enough.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// pop removes and returns the oldest task, if any.
func (q *taskQueue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}
	fn := q.tasks[0]
	q.tasks = q.tasks[1:]
	return fn, true
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// close marks the queue closed and wakes any waiter.
// Already-queued tasks remain poppable so Run can drain them.
func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

// wait returns the signal channel for select-based waiting.
func (q *taskQueue) wait() <-chan struct{} {
	return q.signal
}

func (q *taskQueue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
