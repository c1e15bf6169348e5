package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/sched"
)

func TestAdvanceFiresDueTimersInOrder(t *testing.T) {
	s := NewManualScheduler()

	var got []string
	s.ScheduleOnce(30*time.Millisecond, func() { got = append(got, "c") })
	s.ScheduleOnce(10*time.Millisecond, func() { got = append(got, "a") })
	s.ScheduleOnce(20*time.Millisecond, func() { got = append(got, "b") })

	s.Advance(25 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, s.Pending())

	s.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, s.Pending())
}

func TestAdvanceBreaksTiesByArmingOrder(t *testing.T) {
	s := NewManualScheduler()

	var got []string
	s.ScheduleOnce(10*time.Millisecond, func() { got = append(got, "first") })
	s.ScheduleOnce(10*time.Millisecond, func() { got = append(got, "second") })

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestAdvanceRunsReArmedTimersInSameSpan(t *testing.T) {
	s := NewManualScheduler()

	// A self-re-arming 10ms timer models the engine's poll cycle.
	fires := 0
	var fire func()
	fire = func() {
		fires++
		if fires < 5 {
			s.ScheduleOnce(10*time.Millisecond, fire)
		}
	}
	s.ScheduleOnce(10*time.Millisecond, fire)

	s.Advance(50 * time.Millisecond)
	assert.Equal(t, 5, fires)
	assert.Zero(t, s.Pending())
}

func TestCallbackSeesDeadlineAsNow(t *testing.T) {
	s := NewManualScheduler()

	var at time.Duration
	s.ScheduleOnce(10*time.Millisecond, func() { at = s.Now() })

	s.Advance(time.Hour)
	assert.Equal(t, 10*time.Millisecond, at)
	assert.Equal(t, time.Hour, s.Now())
}

func TestCancelPreventsFiring(t *testing.T) {
	s := NewManualScheduler()

	fired := false
	id := s.ScheduleOnce(10*time.Millisecond, func() { fired = true })
	require.NotEqual(t, sched.None, id)

	s.Cancel(id)
	s.Advance(time.Second)
	assert.False(t, fired)
	assert.Zero(t, s.Pending())
}

func TestAdvanceWithoutTimersMovesClock(t *testing.T) {
	s := NewManualScheduler()
	s.Advance(time.Second)
	assert.Equal(t, time.Second, s.Now())

	s.SetNow(time.Minute)
	assert.Equal(t, time.Minute, s.Now())
}

func TestFakeHostCommandsMutateWorld(t *testing.T) {
	f := NewFakeHost()
	w := f.AddWindow(1, 3)
	require.Equal(t, host.TabRef{ID: 1}, w.Selected)

	f.Execute(host.CmdSelectNextTab, w.Ref)
	assert.Equal(t, host.TabRef{ID: 2}, w.Selected)

	f.Execute(host.CmdMoveTabNext, w.Ref)
	assert.Equal(t, []host.TabRef{{ID: 1}, {ID: 3}, {ID: 2}}, w.Tabs)

	f.Execute(host.CmdCloseTab, w.Ref)
	assert.Equal(t, []host.TabRef{{ID: 1}, {ID: 3}}, w.Tabs)

	assert.Equal(t, []string{
		"execute select-next-tab win=1",
		"execute move-tab-next win=1",
		"execute close-tab win=1",
	}, f.Trace)
}

func TestFakeHostHitTesting(t *testing.T) {
	f := NewFakeHost()
	w := f.AddWindow(1, 2)
	strip := host.Point{X: 10, Y: 10}
	tab := host.Point{X: 20, Y: 10}
	f.Place(strip, w.Ref, RegionTabStrip)
	f.Place(tab, w.Ref, RegionTab)

	assert.True(t, f.OnTabStrip(w.Container, strip))
	assert.True(t, f.OnTabStrip(w.Container, tab), "tabs sit on the strip")
	assert.True(t, f.OnTab(w.Container, tab))
	assert.False(t, f.OnTab(w.Container, strip))

	got, ok := f.WindowAt(tab)
	require.True(t, ok)
	assert.Equal(t, w.Ref, got)

	_, ok = f.WindowAt(host.Point{X: 999, Y: 999})
	assert.False(t, ok)
}
