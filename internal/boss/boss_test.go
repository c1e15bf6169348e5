package boss

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/testutil"
)

type fakeWindows struct {
	order  []host.WindowRef // z-order, frontmost last
	fg     host.WindowRef
	haveFg bool
	hidden map[host.WindowRef]bool
	gone   map[host.WindowRef]bool
	trace  []string
}

func newFakeWindows(ids ...uint64) *fakeWindows {
	f := &fakeWindows{
		hidden: make(map[host.WindowRef]bool),
		gone:   make(map[host.WindowRef]bool),
	}
	for _, id := range ids {
		f.order = append(f.order, host.WindowRef{ID: id})
	}
	if len(f.order) > 0 {
		f.fg = f.order[len(f.order)-1]
		f.haveFg = true
	}
	return f
}

func (f *fakeWindows) VisibleWindows() []host.WindowRef {
	var out []host.WindowRef
	for _, w := range f.order {
		if !f.hidden[w] && !f.gone[w] {
			out = append(out, w)
		}
	}
	return out
}

func (f *fakeWindows) ForegroundWindow() (host.WindowRef, bool) {
	return f.fg, f.haveFg
}

func (f *fakeWindows) Hide(win host.WindowRef) {
	f.hidden[win] = true
	f.trace = append(f.trace, fmt.Sprintf("hide %d", win.ID))
}

func (f *fakeWindows) Show(win host.WindowRef) {
	f.hidden[win] = false
	f.trace = append(f.trace, fmt.Sprintf("show %d", win.ID))
}

func (f *fakeWindows) Raise(win host.WindowRef) {
	f.trace = append(f.trace, fmt.Sprintf("raise %d", win.ID))
}

func (f *fakeWindows) Exists(win host.WindowRef) bool {
	return !f.gone[win]
}

type fakeSession struct {
	muted bool
	known bool
}

type fakeAudio struct {
	order        []SessionID
	state        map[SessionID]*fakeSession
	rejectMute   map[SessionID]bool
	rejectUnmute map[SessionID]bool
	noWatch      bool
	watchFn      func(SessionID)
	setCalls     int
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{
		state:        make(map[SessionID]*fakeSession),
		rejectMute:   make(map[SessionID]bool),
		rejectUnmute: make(map[SessionID]bool),
	}
}

func (f *fakeAudio) addSession(id SessionID, muted, known bool) {
	f.order = append(f.order, id)
	f.state[id] = &fakeSession{muted: muted, known: known}
}

func (f *fakeAudio) Sessions() []SessionID {
	out := make([]SessionID, len(f.order))
	copy(out, f.order)
	return out
}

func (f *fakeAudio) Muted(id SessionID) (bool, bool) {
	s, ok := f.state[id]
	if !ok {
		return false, false
	}
	return s.muted, s.known
}

func (f *fakeAudio) SetMuted(id SessionID, muted bool) bool {
	f.setCalls++
	if muted && f.rejectMute[id] {
		return false
	}
	if !muted && f.rejectUnmute[id] {
		return false
	}
	s, ok := f.state[id]
	if !ok {
		return false
	}
	s.muted = muted
	return true
}

func (f *fakeAudio) Watch(fn func(SessionID)) (func(), bool) {
	if f.noWatch {
		return nil, false
	}
	f.watchFn = fn
	return func() { f.watchFn = nil }, true
}

func (f *fakeAudio) emitCreated(id SessionID) {
	if f.watchFn != nil {
		f.watchFn(id)
	}
}

func newBossFixture(wins *fakeWindows, audio *fakeAudio) (*Controller, *testutil.ManualScheduler) {
	clock := testutil.NewManualScheduler()
	return NewController(wins, audio, clock), clock
}

func TestToggleHidesAndShowsInZOrder(t *testing.T) {
	wins := newFakeWindows(1, 2, 3) // 3 is frontmost and foreground
	c, _ := newBossFixture(wins, newFakeAudio())

	c.Toggle()
	assert.True(t, c.Hidden())
	assert.Equal(t, []string{"hide 1", "hide 2", "hide 3"}, wins.trace)
	assert.Empty(t, wins.VisibleWindows())

	wins.trace = nil
	c.Toggle()
	assert.False(t, c.Hidden())
	assert.Equal(t, []string{"show 3", "show 2", "show 1", "raise 3"}, wins.trace)
	assert.Len(t, wins.VisibleWindows(), 3)
}

func TestShowRaisesLastActiveWindow(t *testing.T) {
	wins := newFakeWindows(1, 2, 3)
	wins.fg = host.WindowRef{ID: 2} // a background window was active
	c, _ := newBossFixture(wins, newFakeAudio())

	c.Toggle()
	wins.trace = nil
	c.Toggle()
	assert.Contains(t, wins.trace, "raise 2")
}

func TestShowFallsBackToFrontmostWhenActiveGone(t *testing.T) {
	wins := newFakeWindows(1, 2, 3)
	wins.fg = host.WindowRef{ID: 2}
	c, _ := newBossFixture(wins, newFakeAudio())

	c.Toggle()
	wins.gone[host.WindowRef{ID: 2}] = true
	c.Toggle()
	assert.Contains(t, wins.trace, "raise 3")
}

func TestMuteSavesAndRestoresPerSession(t *testing.T) {
	wins := newFakeWindows(1)
	audio := newFakeAudio()
	audio.addSession("music", false, true) // playing
	audio.addSession("video", true, true)  // muted by the user
	c, clock := newBossFixture(wins, audio)

	c.Toggle()
	assert.True(t, audio.state["music"].muted)
	assert.True(t, audio.state["video"].muted)

	c.Toggle()
	assert.False(t, audio.state["music"].muted, "playing session restored")
	assert.True(t, audio.state["video"].muted, "user mute preserved")
	assert.Zero(t, clock.Pending(), "clean restore needs no retries")
}

func TestLateSessionFollowsSavedStates(t *testing.T) {
	t.Run("unmuted when sound was on", func(t *testing.T) {
		wins := newFakeWindows(1)
		audio := newFakeAudio()
		audio.addSession("music", false, true)
		c, _ := newBossFixture(wins, audio)

		c.Toggle()
		// A session created while hidden starts muted.
		audio.addSession("late", true, true)
		c.Toggle()
		assert.False(t, audio.state["late"].muted)
	})

	t.Run("left muted when everything was muted", func(t *testing.T) {
		wins := newFakeWindows(1)
		audio := newFakeAudio()
		audio.addSession("video", true, true)
		c, _ := newBossFixture(wins, audio)

		c.Toggle()
		audio.addSession("late", true, true)
		c.Toggle()
		assert.True(t, audio.state["late"].muted)
	})
}

func TestUnmuteRetriesUntilBackendAccepts(t *testing.T) {
	wins := newFakeWindows(1)
	audio := newFakeAudio()
	audio.addSession("music", false, true)
	audio.rejectUnmute["music"] = true
	c, clock := newBossFixture(wins, audio)

	c.Toggle()
	c.Toggle()
	assert.True(t, audio.state["music"].muted, "unmute rejected at show")
	require.Equal(t, 1, clock.Pending(), "retry timer armed")

	// Two failing fast retries.
	clock.Advance(2 * retryFastDelay)
	assert.True(t, audio.state["music"].muted)
	require.Equal(t, 1, clock.Pending())

	// Backend recovers; the next fire unmutes, the one after stops.
	audio.rejectUnmute["music"] = false
	clock.Advance(retryFastDelay)
	assert.False(t, audio.state["music"].muted)

	clock.Advance(retryFastDelay)
	assert.Zero(t, clock.Pending())
}

func TestRetrySlowsDownAfterFastBudget(t *testing.T) {
	wins := newFakeWindows(1)
	audio := newFakeAudio()
	audio.addSession("music", false, true)
	audio.rejectUnmute["music"] = true
	c, clock := newBossFixture(wins, audio)

	c.Toggle()
	c.Toggle()

	// Burn the whole fast budget.
	clock.Advance(time.Duration(retryFastMax) * retryFastDelay)
	require.Equal(t, 1, clock.Pending())

	calls := audio.setCalls
	// A fast-cadence interval no longer fires anything.
	clock.Advance(retryFastDelay)
	assert.Equal(t, calls, audio.setCalls)
	// The slow cadence does.
	clock.Advance(retrySlowDelay)
	assert.Greater(t, audio.setCalls, calls)
}

func TestSlowBudgetReentersWhileStillPending(t *testing.T) {
	wins := newFakeWindows(1)
	audio := newFakeAudio()
	audio.addSession("music", false, true)
	audio.rejectUnmute["music"] = true
	c, clock := newBossFixture(wins, audio)

	c.Toggle()
	c.Toggle()

	// Exhaust fast and slow budgets with the backend still broken.
	clock.Advance(time.Duration(retryFastMax) * retryFastDelay)
	clock.Advance(time.Duration(retrySlowMax) * retrySlowDelay)
	assert.Equal(t, 1, clock.Pending(), "cycle re-enters the slow phase while pending")
}

func TestHideAgainStopsRetries(t *testing.T) {
	wins := newFakeWindows(1)
	audio := newFakeAudio()
	audio.addSession("music", false, true)
	audio.rejectUnmute["music"] = true
	c, clock := newBossFixture(wins, audio)

	c.Toggle()
	c.Toggle()
	require.Equal(t, 1, clock.Pending())

	c.Toggle() // hidden again
	assert.Zero(t, clock.Pending())
	assert.Nil(t, audio.watchFn, "watch dismantled on hide")
}

func TestWatchUnmutesSessionCreatedBetweenRetries(t *testing.T) {
	wins := newFakeWindows(1)
	audio := newFakeAudio()
	audio.addSession("music", false, true)
	audio.rejectUnmute["music"] = true
	c, clock := newBossFixture(wins, audio)

	c.Toggle()
	c.Toggle()
	require.NotNil(t, audio.watchFn)

	audio.addSession("late", true, true)
	audio.rejectUnmute["music"] = false
	audio.emitCreated("late")

	assert.False(t, audio.state["late"].muted)
	assert.False(t, c.pendingUnmute)

	// The next fire observes the settled state and winds the cycle down.
	clock.Advance(retryFastDelay)
	assert.Zero(t, clock.Pending())
}

func TestWatchUnavailableStillRetries(t *testing.T) {
	wins := newFakeWindows(1)
	audio := newFakeAudio()
	audio.addSession("music", false, true)
	audio.rejectUnmute["music"] = true
	audio.noWatch = true
	c, clock := newBossFixture(wins, audio)

	c.Toggle()
	c.Toggle()
	require.Equal(t, 1, clock.Pending())

	audio.rejectUnmute["music"] = false
	clock.Advance(retryFastDelay)
	assert.False(t, audio.state["music"].muted)
}

func TestToggleWithNoWindowsOrAudio(t *testing.T) {
	wins := newFakeWindows()
	c, clock := newBossFixture(wins, newFakeAudio())

	c.Toggle()
	assert.True(t, c.Hidden())
	c.Toggle()
	assert.False(t, c.Hidden())
	assert.Zero(t, clock.Pending())
	assert.Empty(t, wins.trace)
}
