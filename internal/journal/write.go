package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Event kinds. Detail payloads are free-form JSON objects; the kind tells
// a reader how to interpret them.
const (
	// KindGesture records a classified pointer or key event.
	KindGesture = "gesture"
	// KindObservation records what a Probe query returned.
	KindObservation = "observation"
	// KindCommand records a command handed to the Issuer.
	KindCommand = "command"
	// KindOutcome records the terminal state of a session.
	KindOutcome = "outcome"
)

// BeginSession inserts the session row. Idempotent on token.
func (j *Journal) BeginSession(ctx context.Context, token, mode string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (token, mode) VALUES (?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, mode)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// Append writes one event row. The detail map is serialized to JSON.
func (j *Journal) Append(ctx context.Context, token, kind string, detail map[string]any) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("append event: marshal detail: %w", err)
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO events (session_token, seq, kind, detail)
		VALUES (?, ?, ?, ?)
	`, token, j.nextSeq(token), kind, string(payload))
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// FinishSession records the terminal outcome of a session.
func (j *Journal) FinishSession(ctx context.Context, token, outcome string) error {
	_, err := j.db.ExecContext(ctx, `
		UPDATE sessions SET outcome = ? WHERE token = ?
	`, outcome, token)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// Recorder adapts the journal to the engine's write-only view.
//
// All methods log and swallow storage errors: the engine must keep
// running no matter what the journal does.
type Recorder struct {
	j *Journal
}

// Recorder returns the engine-facing adapter.
func (j *Journal) Recorder() *Recorder { return &Recorder{j: j} }

// SessionStarted implements engine.Recorder.
func (r *Recorder) SessionStarted(token, mode string) {
	if err := r.j.BeginSession(context.Background(), token, mode); err != nil {
		slog.Error("journal write failed", "op", "session_started", "token", token, "error", err)
	}
}

// Event implements engine.Recorder.
func (r *Recorder) Event(token, kind string, detail map[string]any) {
	if err := r.j.Append(context.Background(), token, kind, detail); err != nil {
		slog.Error("journal write failed", "op", "event", "token", token, "kind", kind, "error", err)
	}
}

// SessionEnded implements engine.Recorder.
func (r *Recorder) SessionEnded(token, outcome string) {
	if err := r.j.FinishSession(context.Background(), token, outcome); err != nil {
		slog.Error("journal write failed", "op", "session_ended", "token", token, "error", err)
	}
}
