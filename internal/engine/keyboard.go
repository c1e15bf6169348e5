package engine

import (
	"log/slog"

	"github.com/roach88/tabfling/internal/config"
	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/hotkey"
)

// HandleKey processes one key press. Must be called on the scheduler's
// dispatch goroutine. The return value reports whether the press was
// consumed and should be withheld from the host.
func (e *Engine) HandleKey(ev KeyEvent) bool {
	if ev.Synthetic {
		return false
	}

	if e.handleKeepTab(ev) {
		return true
	}
	if e.handleOpenURLNewTab(ev) {
		return true
	}
	if e.handleTranslateKey(ev) {
		return true
	}
	if e.handleSwitchTabKey(ev) {
		return true
	}
	if e.handleBossKey(ev) {
		return true
	}
	return false
}

// handleKeepTab intercepts the close-tab shortcuts (Ctrl+W without
// Shift, and Ctrl+F4) when they would close the window's last tab.
// Fullscreen is exited first because the tab strip is unreachable in
// fullscreen, and the find bar is dismissed for the same reason as in
// the click path.
func (e *Engine) handleKeepTab(ev KeyEvent) bool {
	ctrlW := ev.Key == "W" && ev.Mods.Has(hotkey.ModCtrl) && !ev.Mods.Has(hotkey.ModShift)
	ctrlF4 := ev.Key == "F4" && ev.Mods.Has(hotkey.ModCtrl)
	if !ctrlW && !ctrlF4 {
		return false
	}

	win, ok := e.probe.FocusedWindow()
	if !ok {
		return false
	}

	if e.probe.Fullscreen(win) {
		e.issuer.Execute(host.CmdToggleFullscreen, win)
	}
	e.issuer.Execute(host.CmdCloseFindBar, win)

	container, ok := e.probe.Container(win)
	if !ok || !e.isNeedKeep(container) {
		return false
	}

	e.keepWindowOpen(win)
	return true
}

// handleOpenURLNewTab redirects Enter in the omnibox to open in a new
// tab. Alt+Enter is the host's own new-tab accelerator and passes
// through, as does Enter on the new-tab page, whose navigation already
// replaces nothing.
func (e *Engine) handleOpenURLNewTab(ev KeyEvent) bool {
	mode := e.cfg.Current().OpenURLNewTab
	if mode == config.NewTabOff || ev.Key != "ENTER" || ev.Mods.Has(hotkey.ModAlt) {
		return false
	}

	win, ok := e.probe.ForegroundWindow()
	if !ok {
		return false
	}
	container, ok := e.probe.Container(win)
	if !ok {
		return false
	}
	if !e.probe.OmniboxFocused(container) || e.probe.OnNewTabPage(container) {
		return false
	}

	switch mode {
	case config.NewTabForeground:
		e.issuer.SendKeys(host.KeyAlt, host.KeyEnter)
	case config.NewTabBackground:
		e.issuer.SendKeys(host.KeyShift, host.KeyAlt, host.KeyEnter)
	}
	return true
}

// handleTranslateKey opens the translate pane on the configured chord.
// The trailing right-arrow moves focus onto the pane's primary action.
func (e *Engine) handleTranslateKey(ev KeyEvent) bool {
	if !e.matchChord(e.cfg.Current().TranslateKey, ev) {
		return false
	}

	win, ok := e.probe.ForegroundWindow()
	if !ok {
		return false
	}
	e.issuer.Execute(host.CmdShowTranslate, win)
	e.issuer.SendKeys(host.KeyRight)
	return true
}

// handleSwitchTabKey switches tabs on the configured global chords.
func (e *Engine) handleSwitchTabKey(ev KeyEvent) bool {
	cfg := e.cfg.Current()

	var cmd host.Command
	switch {
	case e.matchChord(cfg.SwitchToPrevTabKey, ev):
		cmd = host.CmdSelectPreviousTab
	case e.matchChord(cfg.SwitchToNextTabKey, ev):
		cmd = host.CmdSelectNextTab
	default:
		return false
	}

	win, ok := e.probe.ForegroundWindow()
	if !ok {
		return false
	}
	e.issuer.Execute(cmd, win)
	return true
}

// handleBossKey forwards the boss chord to the installed action.
func (e *Engine) handleBossKey(ev KeyEvent) bool {
	if e.bossAction == nil {
		return false
	}
	if !e.matchChord(e.cfg.Current().BossKey, ev) {
		return false
	}
	e.bossAction()
	return true
}

// matchChord parses a configured chord string and matches it against a
// press. Parsing happens per press so a settings reload takes effect
// immediately; a malformed chord is logged once per press and treated
// as disabled.
func (e *Engine) matchChord(spec string, ev KeyEvent) bool {
	if spec == "" {
		return false
	}
	chord, err := hotkey.Parse(spec)
	if err != nil {
		slog.Debug("ignoring malformed hotkey", "hotkey", spec, "error", err)
		return false
	}
	return chord.Match(ev.Key, ev.Mods)
}
