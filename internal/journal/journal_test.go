package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSessionRoundTrip(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.BeginSession(ctx, "tok-1", "move-to-end"))
	require.NoError(t, j.Append(ctx, "tok-1", KindGesture, map[string]any{"phase": "drop"}))
	require.NoError(t, j.Append(ctx, "tok-1", KindCommand, map[string]any{"steps": 2}))
	require.NoError(t, j.FinishSession(ctx, "tok-1", "moved"))

	s, events, err := j.ReadSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "tok-1", Mode: "move-to-end", Outcome: "moved"}, s)

	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, KindGesture, events[0].Kind)
	assert.Equal(t, "drop", events[0].Detail["phase"])
	assert.Equal(t, int64(2), events[1].Seq)
	assert.Equal(t, KindCommand, events[1].Kind)
	// JSON numbers come back as float64.
	assert.Equal(t, float64(2), events[1].Detail["steps"])
}

func TestBeginSessionIsIdempotent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.BeginSession(ctx, "tok-1", "move-to-end"))
	require.NoError(t, j.BeginSession(ctx, "tok-1", "move-and-restore"))

	s, _, err := j.ReadSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "move-to-end", s.Mode, "second begin must not overwrite")
}

func TestReadSessionUnknownToken(t *testing.T) {
	j := openTestJournal(t)
	_, _, err := j.ReadSession(context.Background(), "missing")
	assert.Error(t, err)
}

func TestListSessionsNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	// UUIDv7-style tokens sort lexically by creation time.
	require.NoError(t, j.BeginSession(ctx, "0001-a", "move-to-end"))
	require.NoError(t, j.BeginSession(ctx, "0003-c", "move-to-end"))
	require.NoError(t, j.BeginSession(ctx, "0002-b", "move-and-restore"))

	sessions, err := j.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "0003-c", sessions[0].Token)
	assert.Equal(t, "0002-b", sessions[1].Token)
	assert.Equal(t, "0001-a", sessions[2].Token)
}

func TestListSessionsEmpty(t *testing.T) {
	j := openTestJournal(t)
	sessions, err := j.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.NotNil(t, sessions)
}

func TestUnfinishedSessionHasEmptyOutcome(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.BeginSession(ctx, "tok-1", "move-to-end"))
	s, events, err := j.ReadSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "", s.Outcome)
	assert.Empty(t, events)
}

func TestSeqIsPerSession(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.BeginSession(ctx, "tok-1", "move-to-end"))
	require.NoError(t, j.BeginSession(ctx, "tok-2", "move-to-end"))
	require.NoError(t, j.Append(ctx, "tok-1", KindObservation, nil))
	require.NoError(t, j.Append(ctx, "tok-2", KindObservation, nil))
	require.NoError(t, j.Append(ctx, "tok-2", KindObservation, nil))

	_, e1, err := j.ReadSession(ctx, "tok-1")
	require.NoError(t, err)
	_, e2, err := j.ReadSession(ctx, "tok-2")
	require.NoError(t, err)

	require.Len(t, e1, 1)
	assert.Equal(t, int64(1), e1[0].Seq)
	require.Len(t, e2, 2)
	assert.Equal(t, int64(1), e2[0].Seq)
	assert.Equal(t, int64(2), e2[1].Seq)
}

func TestRecorderWritesThrough(t *testing.T) {
	j := openTestJournal(t)
	rec := j.Recorder()

	rec.SessionStarted("tok-1", "move-and-restore")
	rec.Event("tok-1", KindOutcome, map[string]any{"outcome": "moved-restoring"})
	rec.SessionEnded("tok-1", "moved-restoring")

	s, events, err := j.ReadSession(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "moved-restoring", s.Outcome)
	require.Len(t, events, 1)
	assert.Equal(t, KindOutcome, events[0].Kind)
}

func TestRecorderSwallowsStorageErrors(t *testing.T) {
	j := openTestJournal(t)
	rec := j.Recorder()
	require.NoError(t, j.Close())

	// Must not panic; errors are logged and dropped.
	rec.SessionStarted("tok-1", "move-to-end")
	rec.Event("tok-1", KindGesture, nil)
	rec.SessionEnded("tok-1", "moved")
}
