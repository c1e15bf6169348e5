// Package boss hides and shows every host window at once and keeps the
// host's audio silenced while hidden.
//
// Muting is the hard part: the host creates audio sessions lazily, so a
// session that did not exist at hide time can start playing, muted or
// unmuted, at any point after the windows are shown again. Unmute
// therefore runs as a bounded retry cycle on a fast-then-slow cadence,
// backed by a session-created watch that catches late sessions between
// retries.
package boss

import (
	"log/slog"
	"time"

	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/sched"
)

// Unmute retry cadence. The fast phase covers the common case of a
// session appearing right after show; the slow phase catches sessions
// created minutes later without keeping a hot timer around.
const (
	retryFastDelay = 200 * time.Millisecond
	retryFastMax   = 20
	retrySlowDelay = 2 * time.Second
	retrySlowMax   = 60
)

// Windows enumerates and manipulates the host's top-level windows.
// Implementations wrap the platform window system; tests use fakes.
type Windows interface {
	// VisibleWindows returns the host's visible top-level windows in
	// z-order, frontmost last.
	VisibleWindows() []host.WindowRef

	// ForegroundWindow returns the active window if it belongs to the host.
	ForegroundWindow() (host.WindowRef, bool)

	// Hide removes a window from the screen without closing it.
	Hide(win host.WindowRef)

	// Show makes a hidden window visible again.
	Show(win host.WindowRef)

	// Raise brings a window to the foreground and gives it focus.
	Raise(win host.WindowRef)

	// Exists reports whether a window handle is still alive.
	Exists(win host.WindowRef) bool
}

// SessionID identifies one audio session instance. IDs are stable for
// the lifetime of a session but a recreated session gets a fresh ID.
type SessionID string

// Audio exposes the host's audio sessions.
//
// Muted returns (state, known); known is false when the backend cannot
// read the session, in which case callers write blindly. Watch installs
// a session-created callback and returns a stop function; callbacks are
// delivered on the dispatch goroutine, never concurrently with other
// controller entry points.
type Audio interface {
	Sessions() []SessionID
	Muted(id SessionID) (muted, known bool)
	SetMuted(id SessionID, muted bool) bool
	Watch(fn func(SessionID)) (stop func(), ok bool)
}

// Controller implements the boss-key toggle.
//
// All methods and timer callbacks run on the scheduler's dispatch
// goroutine, the same cooperative model as the drag engine.
type Controller struct {
	windows Windows
	audio   Audio
	sched   sched.Scheduler

	hidden     bool
	hiddenList []host.WindowRef
	lastActive host.WindowRef
	haveActive bool

	// Mute bookkeeping across one hide/show round trip.
	savedMute     map[SessionID]bool
	savedAny      bool
	hadUnmuted    bool
	pendingUnmute bool

	retryTimer    sched.TimerID
	retryFastLeft int
	retrySlowLeft int

	watchStop func()
}

// NewController creates a Controller. The scheduler must be the same
// one driving the engine so all callbacks serialize on one goroutine.
func NewController(windows Windows, audio Audio, scheduler sched.Scheduler) *Controller {
	return &Controller{
		windows:   windows,
		audio:     audio,
		sched:     scheduler,
		savedMute: make(map[SessionID]bool),
	}
}

// Hidden reports whether the host windows are currently hidden.
func (c *Controller) Hidden() bool { return c.hidden }

// Toggle hides every visible host window and mutes the host's audio, or
// shows the windows again and restores the audio, depending on the
// current state.
func (c *Controller) Toggle() {
	if !c.hidden {
		c.hide()
	} else {
		c.show()
	}
	c.hidden = !c.hidden
}

func (c *Controller) hide() {
	c.stopRetries(false)
	c.stopWatch(false)
	c.resetTracking()

	if fg, ok := c.windows.ForegroundWindow(); ok {
		c.lastActive = fg
		c.haveActive = true
	} else {
		c.haveActive = false
	}

	c.hiddenList = c.windows.VisibleWindows()
	for _, win := range c.hiddenList {
		c.windows.Hide(win)
	}

	res := c.muteAll()
	c.pendingUnmute = res.didMute
	slog.Debug("boss hide", "windows", len(c.hiddenList), "muted", res.didMute)
}

func (c *Controller) show() {
	// Reverse order restores the z-order the windows had when hidden.
	for i := len(c.hiddenList) - 1; i >= 0; i-- {
		c.windows.Show(c.hiddenList[i])
	}
	target, ok := c.raiseTarget()
	if ok {
		c.windows.Raise(target)
	}
	c.hiddenList = nil

	res := c.unmute(false)
	c.settlePending(res)
	if c.pendingUnmute {
		c.startRetries()
		c.startWatch()
	}
	slog.Debug("boss show", "pending_unmute", c.pendingUnmute)
}

// raiseTarget picks the window to refocus after show: the window that
// was active at hide time if it still exists, else the frontmost of the
// hidden set.
func (c *Controller) raiseTarget() (host.WindowRef, bool) {
	if c.haveActive && c.windows.Exists(c.lastActive) {
		return c.lastActive, true
	}
	if n := len(c.hiddenList); n > 0 {
		return c.hiddenList[n-1], true
	}
	return host.WindowRef{}, false
}

// muteResult summarizes one pass over the audio sessions.
type muteResult struct {
	sawSession bool
	anyKnown   bool
	hadMuted   bool
	didMute    bool
	didUnmute  bool
}

// muteAll silences every session, saving each session's prior state so
// show can put it back.
func (c *Controller) muteAll() muteResult {
	var res muteResult
	for _, id := range c.audio.Sessions() {
		res.sawSession = true
		muted, known := c.audio.Muted(id)
		if known {
			res.anyKnown = true
			if muted {
				res.hadMuted = true
			}
			c.savedAny = true
			if !muted {
				c.hadUnmuted = true
			}
			c.savedMute[id] = muted
		}
		if !known || !muted {
			if c.audio.SetMuted(id, true) {
				res.didMute = true
			}
		}
	}
	return res
}

// unmute reverses muteAll. In the tracked mode (force false) each
// session is restored to its saved state; a session with no saved state
// was created after the hide, and is unmuted only when the saved states
// suggest the user had sound on. Force mode unmutes everything and is
// used by the retry cycle, where a stuck mute is the failure being
// repaired.
func (c *Controller) unmute(force bool) muteResult {
	var res muteResult
	for _, id := range c.audio.Sessions() {
		res.sawSession = true
		muted, known := c.audio.Muted(id)
		if known {
			res.anyKnown = true
			if muted {
				res.hadMuted = true
			}
		}

		should := true
		if !force {
			if saved, ok := c.savedMute[id]; ok {
				should = !saved
			} else {
				should = c.shouldUnmuteUnknown()
			}
		} else {
			should = !known || muted
		}
		if should {
			if c.audio.SetMuted(id, false) && (!known || muted) {
				res.didUnmute = true
			}
		}
	}
	if !force {
		c.clearTrackingIfIdle()
	}
	return res
}

// shouldUnmuteUnknown decides the fate of a session with no saved
// state. With no saved sessions at all there is nothing to preserve, so
// unmute. Otherwise unmute only if at least one session had sound on
// before the hide.
func (c *Controller) shouldUnmuteUnknown() bool {
	if !c.savedAny {
		return true
	}
	return c.hadUnmuted
}

// settlePending clears the pending-unmute flag once a pass proves every
// reachable session is audible again.
func (c *Controller) settlePending(res muteResult) {
	if !res.sawSession {
		return
	}
	if res.didUnmute || (res.anyKnown && !res.hadMuted) {
		c.pendingUnmute = false
	}
}

func (c *Controller) resetTracking() {
	c.savedMute = make(map[SessionID]bool)
	c.savedAny = false
	c.hadUnmuted = false
}

// clearTrackingIfIdle drops the saved states once nothing can still use
// them. While retries or the watch are live the states must survive.
func (c *Controller) clearTrackingIfIdle() {
	if c.retryFastLeft > 0 || c.retrySlowLeft > 0 || c.watchStop != nil {
		return
	}
	c.resetTracking()
}

func (c *Controller) startRetries() {
	c.stopRetries(false)
	c.retryFastLeft = retryFastMax
	c.retrySlowLeft = retrySlowMax
	c.retryTimer = c.sched.ScheduleOnce(retryFastDelay, c.retryFire)
}

func (c *Controller) stopRetries(clearState bool) {
	if c.retryTimer != sched.None {
		c.sched.Cancel(c.retryTimer)
		c.retryTimer = sched.None
	}
	c.retryFastLeft = 0
	c.retrySlowLeft = 0
	if clearState {
		c.clearTrackingIfIdle()
	}
}

// retryFire runs one unmute retry and re-arms on the current cadence.
// The cycle ends when the windows are hidden again, the pending flag
// settles, or the slow budget runs out with nothing left to fix. A
// still-pending unmute at budget exhaustion re-enters the slow phase:
// a session may yet appear, and a 2s probe is cheap.
func (c *Controller) retryFire() {
	c.retryTimer = sched.None

	if c.hidden || !c.pendingUnmute {
		c.stopRetries(true)
		return
	}

	res := c.unmute(true)
	c.settlePending(res)

	if c.watchStop == nil {
		c.startWatch()
	}

	if c.retryFastLeft > 0 {
		c.retryFastLeft--
	} else if c.retrySlowLeft > 0 {
		c.retrySlowLeft--
	}

	if c.retryFastLeft <= 0 && c.retrySlowLeft <= 0 {
		if c.pendingUnmute {
			c.retrySlowLeft = retrySlowMax
		} else {
			c.stopRetries(true)
			return
		}
	}

	delay := retrySlowDelay
	if c.retryFastLeft > 0 {
		delay = retryFastDelay
	}
	c.retryTimer = c.sched.ScheduleOnce(delay, c.retryFire)
}

func (c *Controller) startWatch() {
	c.stopWatch(false)
	stop, ok := c.audio.Watch(c.onSessionCreated)
	if !ok {
		return
	}
	c.watchStop = stop
}

func (c *Controller) stopWatch(clearState bool) {
	if c.watchStop != nil {
		c.watchStop()
		c.watchStop = nil
	}
	if clearState {
		c.clearTrackingIfIdle()
	}
}

// onSessionCreated unmutes a session that appeared between retries.
// The session-created path exists because a session created right after
// the slow cadence fires would otherwise stay muted for up to 2s.
func (c *Controller) onSessionCreated(id SessionID) {
	if c.watchStop == nil || c.hidden || !c.pendingUnmute {
		return
	}
	muted, known := c.audio.Muted(id)
	if known && !muted {
		c.pendingUnmute = false
		return
	}
	if c.audio.SetMuted(id, false) && (!known || muted) {
		c.pendingUnmute = false
	}
}
