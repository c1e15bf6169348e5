// Package sched provides the serialized event/timer dispatch layer.
//
// The engine's concurrency model is single-threaded and cooperative: pointer
// events, keyboard events, and timer fires are all delivered one at a time
// on one goroutine, so the engine's state record needs no locking. sched
// owns that goroutine.
//
// Two pieces:
//
// Scheduler is the narrow interface the engine depends on - schedule one
// callback after a delay, cancel it by id, read a monotonic clock. The
// production implementation is Loop; tests use a manual scheduler that
// advances time explicitly (internal/testutil).
//
// Loop is the production dispatch loop: a FIFO task queue drained by Run
// on a single goroutine. Posting is safe from any goroutine (the platform
// input hook runs elsewhere); timer callbacks are posted back onto the
// same queue, which gives the ordering guarantee the engine relies on -
// a fire scheduled before a cancellation either runs to completion before
// the cancellation is observed, or never runs because the timer was
// cancelled first.
package sched
