package journal

import (
	"context"
	"encoding/json"
	"fmt"
)

// Session summarizes one journaled session.
type Session struct {
	Token   string `json:"token"`
	Mode    string `json:"mode"`
	Outcome string `json:"outcome"`
}

// Event is one trace row read back from the journal.
type Event struct {
	Seq    int64          `json:"seq"`
	Kind   string         `json:"kind"`
	Detail map[string]any `json:"detail"`
}

// ListSessions returns all sessions, newest first. UUIDv7 tokens sort
// by creation time, so ordering by token descending is chronological.
func (j *Journal) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT token, mode, outcome FROM sessions
		ORDER BY token DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.Token, &s.Mode, &s.Outcome); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadSession returns the session row and its events in seq order.
func (j *Journal) ReadSession(ctx context.Context, token string) (Session, []Event, error) {
	var s Session
	err := j.db.QueryRowContext(ctx, `
		SELECT token, mode, outcome FROM sessions WHERE token = ?
	`, token).Scan(&s.Token, &s.Mode, &s.Outcome)
	if err != nil {
		return Session{}, nil, fmt.Errorf("read session %s: %w", token, err)
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, kind, detail FROM events
		WHERE session_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return Session{}, nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var (
			ev  Event
			raw string
		)
		if err := rows.Scan(&ev.Seq, &ev.Kind, &raw); err != nil {
			return Session{}, nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &ev.Detail); err != nil {
			return Session{}, nil, fmt.Errorf("decode event detail: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return Session{}, nil, fmt.Errorf("iterate events: %w", err)
	}
	return s, events, nil
}
