package engine

import (
	"log/slog"
	"time"

	"github.com/roach88/tabfling/internal/config"
	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/sched"
)

// Polling cadence for the drag-to-new-tab verifier. The host exposes no
// change notifications, so the engine re-queries on a fixed interval and
// gives up after a bounded number of attempts.
const (
	checkInterval      = 80 * time.Millisecond
	maxPollAttempts    = 12
	maxRestoreAttempts = 4
	defaultDragSlopPx  = 4
)

// Recorder receives the engine's session lifecycle and per-step detail.
// Implemented by journal.Recorder (production) and by test doubles.
// A nil Recorder disables recording entirely.
type Recorder interface {
	SessionStarted(token, mode string)
	Event(token, kind string, detail map[string]any)
	SessionEnded(token, outcome string)
}

// Engine is the single-writer input-augmentation engine.
//
// The engine receives pointer and keyboard events from the host hook,
// consults the Probe for current window state, and reacts by issuing
// commands through the Issuer. Its headline feature is the
// drag-to-new-tab verifier: after a tab is dragged out of the strip and
// dropped back onto it, the engine polls for the replacement tab the
// host creates and relocates it to the end of the strip.
//
// ARCHITECTURE:
//   - Every entry point (HandlePointer, HandleKey, timer callbacks) runs
//     on the scheduler's dispatch goroutine. Session state is therefore
//     mutated without locks.
//   - Timers are one-shot. A recurring check is expressed by the fired
//     callback explicitly re-arming itself, and an existing handle is
//     always cancelled before a new one is armed, so at most one poll
//     timer and one restore timer are ever outstanding.
//   - Tabs are tracked by identity (host.TabRef), never by index.
//
// ERROR HANDLING: host queries and commands fail silently from the
// engine's point of view (invalid refs, false returns). The engine logs
// at debug level and moves on; a missed reorder is strictly better than
// a wedged input hook.
type Engine struct {
	probe  host.Probe
	issuer host.Issuer
	sched  sched.Scheduler
	cfg    config.Source
	rec    Recorder
	tokens TokenGenerator

	session             dragSession
	pollTimer           sched.TimerID
	restoreTimer        sched.TimerID
	restoreAttemptsLeft int

	// Pointer bookkeeping outside the drag verifier.
	buttonDownPoint      host.Point
	wheelSwitchWithRight bool
	lastCloseTick        time.Duration
	haveCloseTick        bool

	dragSlop   int
	bossAction func()
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithRecorder attaches a session recorder. Default: no recording.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.rec = r
	}
}

// WithTokenGenerator overrides the session token generator.
// Tests use FixedGenerator for deterministic tokens.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(e *Engine) {
		e.tokens = g
	}
}

// WithDragSlop sets the pointer distance, in pixels per axis, below
// which a press-release pair is treated as a click rather than a drag.
func WithDragSlop(px int) Option {
	return func(e *Engine) {
		e.dragSlop = px
	}
}

// WithBossAction installs the callback invoked when the boss-key chord
// matches. Typically boss.Controller.Toggle.
func WithBossAction(fn func()) Option {
	return func(e *Engine) {
		e.bossAction = fn
	}
}

// New creates an Engine over the given host surfaces and scheduler.
//
// The scheduler is both the timer source and the serialization point:
// callers must deliver HandlePointer and HandleKey on the scheduler's
// dispatch goroutine (sched.Loop.Post does this).
func New(probe host.Probe, issuer host.Issuer, scheduler sched.Scheduler, cfg config.Source, opts ...Option) *Engine {
	e := &Engine{
		probe:           probe,
		issuer:          issuer,
		sched:           scheduler,
		cfg:             cfg,
		tokens:          UUIDv7Generator{},
		dragSlop:        defaultDragSlopPx,
		buttonDownPoint: host.NoPoint,
	}
	e.session = dragSession{dropPoint: host.NoPoint, startSelectedIndex: -1}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// newToken generates a session token for journal correlation.
func (e *Engine) newToken() string {
	return e.tokens.Generate()
}

// HandlePointer processes one pointer event. Must be called on the
// scheduler's dispatch goroutine. The return value reports whether the
// event was consumed and should be withheld from the host.
func (e *Engine) HandlePointer(ev PointerEvent) bool {
	if ev.Synthetic {
		// Events the engine itself injected must pass through untouched
		// or the hook would feed back into itself.
		return false
	}

	switch ev.Kind {
	case PointerMove:
		e.trackDragArming(ev)
		return false

	case PointerDown:
		switch ev.Button {
		case ButtonLeft:
			return e.handleLeftDown(ev)
		case ButtonRight:
			e.wheelSwitchWithRight = false
		}
		return false

	case PointerUp:
		switch ev.Button {
		case ButtonLeft:
			return e.handleLeftUp(ev)
		case ButtonRight:
			return e.handleRightUp(ev)
		case ButtonMiddle:
			return e.handleMiddleUp(ev)
		}
		return false

	case PointerDoubleClick:
		// Never swallowed: eating the double-click breaks rapid repeated
		// double-closes and the keep-last-tab conversion.
		e.handleDoubleClick(ev)
		return false

	case PointerWheel:
		return e.handleWheel(ev)
	}

	return false
}

// handleLeftDown records the press point for drag detection and performs
// the partial cancel of an in-flight drag session: a fresh press means
// the previous gesture is over, so the armed/pending state, the attempt
// budget, the snapshot, and the poll timer are all discarded. The
// restore timer is deliberately left running - a restore verification
// already in progress should finish even if the user immediately starts
// a new gesture.
func (e *Engine) handleLeftDown(ev PointerEvent) bool {
	e.buttonDownPoint = ev.Point

	e.session.armed = false
	if e.pollTimer != sched.None {
		e.sched.Cancel(e.pollTimer)
		e.pollTimer = sched.None
	}
	if e.session.pending {
		slog.Debug("drag session interrupted by pointer press",
			"token", e.session.token)
	}
	if e.session.token != "" {
		// The snapshot is dropped below, so the bound journal session can
		// never complete; close it out rather than leaving its outcome
		// empty and its token live for the next gesture to reuse.
		if e.rec != nil {
			e.rec.SessionEnded(e.session.token, "interrupted")
		}
		e.session.token = ""
	}
	e.session.pending = false
	e.session.attemptsLeft = 0
	e.session.startTabs = nil

	return false
}

// trackDragArming arms a drag session while the pointer, with the left
// button held, is over a tab strip. Arming only snapshots state;
// nothing is scheduled until the drop. The snapshot is taken once per
// gesture and refreshed only when the pointer crosses to a different
// window.
func (e *Engine) trackDragArming(ev PointerEvent) {
	if ev.Held&HeldLeft == 0 {
		return
	}
	if !e.cfg.Current().DragNewTab.Enabled() {
		return
	}
	win, ok := e.probe.WindowAt(ev.Point)
	if !ok {
		return
	}
	container, ok := e.probe.Container(win)
	if !ok || !e.probe.OnTabStrip(container, ev.Point) {
		return
	}
	e.session.armed = true
	if len(e.session.startTabs) == 0 || e.session.window != win {
		e.initSession(win, container)
	}
}

// handleLeftUp finishes either a drag drop or a click-shaped release.
// A release on a tab strip, away from the new-tab button, after an
// armed session or a movement past the drag slop, is a drop and starts
// the verification cycle. Anything else falls through to bookmark
// handling.
func (e *Engine) handleLeftUp(ev PointerEvent) bool {
	if e.cfg.Current().DragNewTab.Enabled() {
		if win, ok := e.probe.WindowAt(ev.Point); ok {
			container, ok := e.probe.Container(win)
			if ok &&
				e.probe.OnTabStrip(container, ev.Point) &&
				!e.probe.OnNewTabButton(container, ev.Point) &&
				(e.session.armed || e.movedPastSlop(ev.Point)) {
				e.queueCheck(win, container, ev.Point)
				e.session.armed = false
				e.buttonDownPoint = host.NoPoint
				return false
			}
		}
	}
	e.session.armed = false
	e.buttonDownPoint = host.NoPoint
	return e.handleBookmark(ev)
}

// movedPastSlop reports whether pt has travelled past the drag slop
// from the recorded press point on either axis. Returns false when no
// press was recorded.
func (e *Engine) movedPastSlop(pt host.Point) bool {
	if e.buttonDownPoint == host.NoPoint {
		return false
	}
	dx := pt.X - e.buttonDownPoint.X
	if dx < 0 {
		dx = -dx
	}
	dy := pt.Y - e.buttonDownPoint.Y
	if dy < 0 {
		dy = -dy
	}
	return dx > e.dragSlop || dy > e.dragSlop
}
