// Package engine reacts to raw input events on behalf of a closed
// tabbed-window host.
//
// The heart of the package is the drag-to-new-tab reordering engine: when
// the user drags a tab out of the strip, the host creates a new window
// that immediately becomes a new tab. The engine detects that tab by
// diffing polled snapshots against a baseline captured at drag start,
// moves it to the end of the strip one step at a time, and optionally
// restores the previously selected tab. The host offers no change
// notifications, so the whole cycle is built from bounded polling and
// fire-and-forget commands.
//
// The surrounding handlers - wheel tab switching, double/right/middle
// click closing with keep-last-tab, bookmark interception, keyboard
// shortcuts - are stateless or near-stateless reactions to single events
// and share the same collaborators.
//
// ARCHITECTURE:
//
// Single-threaded cooperative model. Every entry point - pointer events,
// key events, poll fires, restore fires - executes on one serialized
// dispatch goroutine (internal/sched). No entry point blocks, no two run
// concurrently, and the session record needs no locking. The only
// asynchrony is the scheduler's deferred callbacks, which the same
// goroutine drains.
//
// Timer discipline: the existing timer handle is always cancelled before
// a new one is armed or state is cleared, so at most one poll timer and
// one restore timer are ever outstanding.
//
// ERROR HANDLING:
//
// Collaborator calls return empty/failure results, never errors. Every
// step treats "not found" as "not yet true"; the poll loop's bounded
// attempt budget is the sole recovery mechanism. Exhausting the budget
// abandons the session silently - a dragged-out tab left where the host
// put it is preferable to commands issued against stale state.
package engine
