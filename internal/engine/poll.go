package engine

import (
	"log/slog"

	"github.com/roach88/tabfling/internal/config"
	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/sched"
)

// queueCheck transitions the session to pending and arms the first poll.
// The check is delayed rather than run inline because the host creates
// the replacement tab asynchronously after the drop; polling starts one
// interval later and re-arms until the tab shows up or the attempt
// budget runs out.
//
// Queuing a new check invalidates any restore verification still in
// flight from a previous session.
func (e *Engine) queueCheck(win host.WindowRef, container host.ContainerRef, pt host.Point) {
	mode := e.cfg.Current().DragNewTab
	if !mode.Enabled() {
		e.resetSession("disabled")
		return
	}
	e.session.mode = mode
	if len(e.session.startTabs) == 0 || e.session.window != win {
		if !e.initSession(win, container) {
			return
		}
	}

	if e.restoreTimer != sched.None {
		e.sched.Cancel(e.restoreTimer)
		e.restoreTimer = sched.None
	}
	e.restoreAttemptsLeft = 0

	e.session.dropPoint = pt
	e.session.pending = true
	e.session.attemptsLeft = maxPollAttempts

	if e.rec != nil && e.session.token != "" {
		e.rec.Event(e.session.token, "gesture", map[string]any{
			"phase":  "drop",
			"drop_x": pt.X,
			"drop_y": pt.Y,
		})
	}
	slog.Debug("drag check queued",
		"token", e.session.token,
		"mode", mode.String(),
		"attempts", e.session.attemptsLeft)

	e.rearmPoll()
}

// rearmPoll cancels any outstanding poll timer and schedules the next
// fire. Keeping the cancel here means at most one poll timer ever
// exists, no matter how often callers re-arm.
func (e *Engine) rearmPoll() {
	if e.pollTimer != sched.None {
		e.sched.Cancel(e.pollTimer)
	}
	e.pollTimer = e.sched.ScheduleOnce(checkInterval, e.pollFire)
}

// pollFire runs one verification attempt. It releases its timer handle
// before doing anything else so that a re-arm from within is never
// shadowed by the handle of the fire in progress.
func (e *Engine) pollFire() {
	e.pollTimer = sched.None

	if !e.session.pending {
		return
	}
	if e.session.attemptsLeft <= 0 {
		e.resetSession("attempts-exhausted")
		return
	}
	e.session.attemptsLeft--

	mode := e.cfg.Current().DragNewTab
	if !mode.Enabled() {
		e.resetSession("disabled")
		return
	}
	e.session.mode = mode
	container, ok := e.probe.Container(e.session.window)
	if !ok {
		e.resetSession("window-gone")
		return
	}
	if len(e.session.startTabs) == 0 {
		e.resetSession("no-snapshot")
		return
	}

	tabs := e.probe.Tabs(container)
	selected, _ := e.probe.SelectedTab(container)

	newTab := findNewTab(e.session.startTabs, tabs)
	if !newTab.Valid() && selected.Valid() && !tabInList(e.session.startTabs, selected) {
		// The strip can report the replacement tab as selected before it
		// shows up in the enumeration.
		newTab = selected
	}

	if !newTab.Valid() {
		e.recordAttempt("no-new-tab", len(tabs))
		e.rearmPoll()
		return
	}

	moveSteps := moveStepsToEnd(tabs, newTab)
	newTabSelected := e.ensureSelected(container, selected, newTab)
	if !newTabSelected {
		// Selection is still settling. Retry while there is work left to
		// do; in move-to-end mode retry even with zero steps so the final
		// state is verified at least once more.
		if moveSteps > 0 || e.session.mode == config.DragNewTabMoveToEnd {
			e.recordAttempt("selection-unsettled", len(tabs))
			e.rearmPoll()
			return
		}
	}

	if moveSteps > 0 && newTabSelected {
		for i := 0; i < moveSteps; i++ {
			e.issuer.Execute(host.CmdMoveTabNext, e.session.window)
		}
		if e.rec != nil && e.session.token != "" {
			e.rec.Event(e.session.token, "command", map[string]any{
				"command": host.CmdMoveTabNext.String(),
				"steps":   moveSteps,
			})
		}
		tabs = e.probe.Tabs(container)
	}

	outcome := "moved"
	if e.session.mode == config.DragNewTabMoveAndRestore {
		restore := resolveRestoreTab(tabs, e.session.startSelectedTab, e.session.startSelectedIndex)
		if restore.Valid() && (!selected.Valid() || selected != restore || newTabSelected) {
			e.issuer.SelectTab(restore)
			e.queueRestore(restore)
			outcome = "moved-restoring"
		}
	} else if !newTabSelected {
		e.issuer.SelectTab(newTab)
	}

	e.endPending(outcome)
}

// ensureSelected makes newTab the selected tab and verifies the host
// accepted the command. The pre-fire selection is passed in to avoid a
// redundant query on the common path.
func (e *Engine) ensureSelected(container host.ContainerRef, selected, newTab host.TabRef) bool {
	if !newTab.Valid() {
		return false
	}
	if selected.Valid() && selected == newTab {
		return true
	}
	if !e.issuer.SelectTab(newTab) {
		return false
	}
	now, ok := e.probe.SelectedTab(container)
	return ok && now == newTab
}

// endPending closes out the verification phase while keeping the window
// binding and the baseline selection. The restore timer needs both to
// re-resolve its target on every fire, so only resetSession may clear
// them.
func (e *Engine) endPending(outcome string) {
	if e.rec != nil && e.session.token != "" {
		e.rec.SessionEnded(e.session.token, outcome)
	}
	slog.Debug("drag session finished",
		"token", e.session.token,
		"outcome", outcome)
	e.session.pending = false
	e.session.attemptsLeft = 0
	e.session.startTabs = nil
	e.session.armed = false
	e.session.token = ""
}

// recordAttempt journals one inconclusive poll for later diagnosis.
func (e *Engine) recordAttempt(reason string, tabCount int) {
	if e.rec == nil || e.session.token == "" {
		return
	}
	e.rec.Event(e.session.token, "observation", map[string]any{
		"phase":         "poll",
		"reason":        reason,
		"tab_count":     tabCount,
		"attempts_left": e.session.attemptsLeft,
	})
}

// queueRestore starts the restore verification cycle for the given tab.
// Any previous cycle is abandoned first.
func (e *Engine) queueRestore(tab host.TabRef) {
	if e.restoreTimer != sched.None {
		e.sched.Cancel(e.restoreTimer)
		e.restoreTimer = sched.None
	}
	e.restoreAttemptsLeft = 0
	if !tab.Valid() {
		return
	}
	e.restoreAttemptsLeft = maxRestoreAttempts
	e.restoreTimer = e.sched.ScheduleOnce(checkInterval, e.restoreFire)
}

// restoreFire re-asserts the restored selection. The host can bounce
// selection back to the relocated tab for a few frames after the move,
// so the target is re-resolved and re-selected on every fire until the
// attempt budget runs out.
func (e *Engine) restoreFire() {
	e.restoreTimer = sched.None

	if e.restoreAttemptsLeft <= 0 {
		return
	}
	e.restoreAttemptsLeft--

	if !e.session.window.Valid() {
		e.restoreAttemptsLeft = 0
		return
	}

	container, ok := e.probe.Container(e.session.window)
	if !ok {
		e.rearmRestore()
		return
	}
	tabs := e.probe.Tabs(container)
	restore := resolveRestoreTab(tabs, e.session.startSelectedTab, e.session.startSelectedIndex)
	if !restore.Valid() {
		e.rearmRestore()
		return
	}
	selected, ok := e.probe.SelectedTab(container)
	if !ok || selected != restore {
		e.issuer.SelectTab(restore)
	}
	e.rearmRestore()
}

// rearmRestore schedules the next restore fire while budget remains.
func (e *Engine) rearmRestore() {
	if e.restoreAttemptsLeft <= 0 {
		return
	}
	e.restoreTimer = e.sched.ScheduleOnce(checkInterval, e.restoreFire)
}
