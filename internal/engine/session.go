package engine

import (
	"log/slog"

	"github.com/roach88/tabfling/internal/config"
	"github.com/roach88/tabfling/internal/host"
)

// dragSession is the engine's single mutable state record. Exactly one
// instance exists; concurrent drags across windows are not tracked.
//
// Lifecycle: created (or re-armed) on a qualifying pointer move, populated
// at drop, driven to completion or abandonment by the poll timer, and
// reset on success, on exhausting the attempt budget, or on a new primary
// button press.
//
// Invariant: startTabs is non-empty whenever pending is true.
type dragSession struct {
	mode      config.DragNewTabMode
	window    host.WindowRef
	container host.ContainerRef
	dropPoint host.Point

	// Baseline snapshot, captured when the pointer is first seen pressed
	// over the tab strip, or lazily at drop time if arming was missed.
	startTabCount      int
	startSelectedTab   host.TabRef
	startSelectedIndex int
	startTabs          []host.TabRef

	attemptsLeft int
	armed        bool
	pending      bool

	// token identifies the session in the journal. Empty when no journal
	// is attached or no session has been bound yet.
	token string
}

// resetSession clears the session and any outstanding restore work.
// The restore timer is killed here because a full reset invalidates the
// target the ticket refers to.
func (e *Engine) resetSession(outcome string) {
	if e.session.token != "" && e.rec != nil && outcome != "" {
		e.rec.SessionEnded(e.session.token, outcome)
	}
	e.session = dragSession{
		dropPoint:          host.NoPoint,
		startSelectedIndex: -1,
	}
	e.sched.Cancel(e.restoreTimer)
	e.restoreTimer = 0
	e.restoreAttemptsLeft = 0
}

// initSession binds the session to a window and captures the baseline
// snapshot. Returns false when the snapshot is unusable (zero tabs, dead
// refs, feature off) - callers must not queue a check in that case.
func (e *Engine) initSession(win host.WindowRef, container host.ContainerRef) bool {
	mode := e.cfg.Current().DragNewTab
	if !mode.Enabled() {
		e.resetSession("")
		return false
	}
	if !win.Valid() || !container.Valid() {
		e.resetSession("")
		return false
	}

	tabs := e.probe.Tabs(container)
	selected, _ := e.probe.SelectedTab(container)

	e.session.mode = mode
	e.session.window = win
	e.session.container = container
	e.session.startTabCount = len(tabs)
	e.session.startSelectedTab = selected
	e.session.startTabs = tabs
	e.session.startSelectedIndex = tabIndex(tabs, selected)

	if len(tabs) == 0 {
		return false
	}

	if e.rec != nil {
		if e.session.token == "" {
			e.session.token = e.newToken()
			e.rec.SessionStarted(e.session.token, mode.String())
		}
		e.rec.Event(e.session.token, "observation", map[string]any{
			"phase":          "snapshot",
			"tab_count":      len(tabs),
			"selected_index": e.session.startSelectedIndex,
		})
	}

	slog.Debug("drag session bound",
		"window", win.ID,
		"tabs", len(tabs),
		"selected_index", e.session.startSelectedIndex,
		"mode", mode.String(),
	)
	return true
}
