// Package journal persists a per-session trace of engine activity.
//
// Every drag-to-new-tab session gets a UUIDv7 token; everything the engine
// saw (gestures, host observations) and did (commands, the final outcome)
// is appended as one row per event with a monotonic per-session seq. The
// journal exists for after-the-fact diagnosis - the engine fails silently
// by design, and the journal is the only place a swallowed failure shows up.
//
// Storage is SQLite in WAL mode with a single writer connection. Writes
// are best-effort: a journal error is logged and dropped, never allowed
// to disturb the engine.
package journal
