package engine

import (
	"time"

	"github.com/roach88/tabfling/internal/config"
	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/hotkey"
)

// containerAt resolves the tab-strip container for click handling. When
// the container is not reachable the find-in-page bar may be open and
// focused: a click on the bar itself is left alone, any other click
// dismisses the bar and retries. Dismissing the bar is usually side
// effect free, it just means clicks elsewhere also close it.
func (e *Engine) containerAt(win host.WindowRef, pt host.Point) (host.ContainerRef, bool) {
	container, ok := e.probe.Container(win)
	if ok {
		return container, true
	}
	if e.probe.OnFindBar(pt) {
		return host.ContainerRef{}, false
	}
	e.issuer.Execute(host.CmdCloseFindBar, win)
	return e.probe.Container(win)
}

// isNeedKeep reports whether a tab close should be converted into a
// keep-the-window sequence. Beyond the single-tab case it tolerates fast
// repeated closes: when two closes land between 50ms and 250ms apart and
// two tabs remain, the second close is about to hit the last tab, so it
// is treated as if it already had.
func (e *Engine) isNeedKeep(container host.ContainerRef) bool {
	if !e.cfg.Current().KeepLastTab {
		return false
	}

	tabCount := len(e.probe.Tabs(container))
	keep := tabCount == 1

	now := e.sched.Now()
	var tick time.Duration
	if e.haveCloseTick {
		tick = now - e.lastCloseTick
	}
	e.lastCloseTick = now
	e.haveCloseTick = true

	if tick > 50*time.Millisecond && tick <= 250*time.Millisecond && tabCount == 2 {
		keep = true
	}
	return keep
}

// keepWindowOpen replaces a close of the last tab with open-new-then-
// close-others, which leaves the window alive showing a fresh tab.
func (e *Engine) keepWindowOpen(win host.WindowRef) {
	e.issuer.Execute(host.CmdNewTab, win)
	e.issuer.Execute(host.CmdCloseOtherTabs, win)
}

// handleWheel switches tabs on wheel rotation, either over the tab strip
// or anywhere while the right button is held. A right-held switch sets
// wheelSwitchWithRight so the release that ends the gesture can be
// swallowed instead of opening the context menu.
func (e *Engine) handleWheel(ev PointerEvent) bool {
	cfg := e.cfg.Current()
	if !cfg.WheelTab && !cfg.WheelTabWhenPressRightButton {
		return false
	}

	win, ok := e.probe.FocusedWindow()
	if !ok {
		return false
	}

	switchTabs := func() bool {
		if ev.WheelDelta > 0 {
			e.issuer.Execute(host.CmdSelectPreviousTab, win)
		} else {
			e.issuer.Execute(host.CmdSelectNextTab, win)
		}
		e.wheelSwitchWithRight = ev.Held.Has(HeldRight)
		return true
	}

	if cfg.WheelTab {
		if container, ok := e.probe.Container(win); ok && e.probe.OnTabStrip(container, ev.Point) {
			return switchTabs()
		}
	}
	if cfg.WheelTabWhenPressRightButton && ev.Held.Has(HeldRight) {
		return switchTabs()
	}
	return false
}

// handleDoubleClick closes the tab under a double-click. With
// keep-last-tab on, the close of the last tab becomes a keep sequence;
// otherwise it closes the window like any other close. The caller must
// not swallow the event even on success: eating the double-click makes
// rapid repeated double-clicks misfire and defeats the keep-last-tab
// path.
func (e *Engine) handleDoubleClick(ev PointerEvent) bool {
	if !e.cfg.Current().DoubleClickClose {
		return false
	}

	win, ok := e.probe.WindowAt(ev.Point)
	if !ok {
		return false
	}
	container, ok := e.containerAt(win, ev.Point)
	if !ok {
		return false
	}
	if !e.probe.OnTab(container, ev.Point) || e.probe.OnTabCloseButton(container, ev.Point) {
		return false
	}

	if e.cfg.Current().KeepLastTab && len(e.probe.Tabs(container)) == 1 {
		e.keepWindowOpen(win)
	} else {
		e.issuer.Execute(host.CmdCloseTab, win)
	}
	return true
}

// handleRightUp closes the tab under a right-click. Holding Shift passes
// the click through so the native menu remains reachable. The close is
// synthesized as a middle click rather than a close command so the host
// applies its own close semantics for the tab under the pointer.
func (e *Engine) handleRightUp(ev PointerEvent) bool {
	if e.wheelSwitchWithRight {
		// This release ends a right-held wheel switch; swallow it so the
		// context menu does not open. Only releases that follow an actual
		// switch are eaten, a plain right click still works.
		e.wheelSwitchWithRight = false
		return true
	}

	if ev.Mods.Has(hotkey.ModShift) || !e.cfg.Current().RightClickClose {
		return false
	}

	win, ok := e.probe.WindowAt(ev.Point)
	if !ok {
		return false
	}
	container, ok := e.containerAt(win, ev.Point)
	if !ok {
		return false
	}
	if !e.probe.OnTab(container, ev.Point) {
		return false
	}

	if e.isNeedKeep(container) {
		e.keepWindowOpen(win)
	} else {
		e.issuer.SendKeys(host.KeyMiddleButton)
	}
	return true
}

// handleMiddleUp preserves the window when the middle button closes the
// last tab. Ordinary middle closes pass through to the host.
func (e *Engine) handleMiddleUp(ev PointerEvent) bool {
	win, ok := e.probe.WindowAt(ev.Point)
	if !ok {
		return false
	}
	container, ok := e.containerAt(win, ev.Point)
	if !ok {
		return false
	}

	if e.probe.OnTab(container, ev.Point) && e.isNeedKeep(container) {
		e.keepWindowOpen(win)
		return true
	}
	return false
}

// handleBookmark redirects a plain left click on a bookmark into a new
// tab, foreground or background per configuration. Ctrl and Shift
// clicks already carry explicit dispositions and pass through.
func (e *Engine) handleBookmark(ev PointerEvent) bool {
	mode := e.cfg.Current().BookmarkNewTab
	if mode == config.NewTabOff || ev.Mods.Has(hotkey.ModCtrl) || ev.Mods.Has(hotkey.ModShift) {
		return false
	}

	win, ok := e.probe.WindowAt(ev.Point)
	if !ok || !e.probe.OnBookmark(win, ev.Point) {
		return false
	}
	if e.probe.OnExpandedDropdown(win, ev.Point) {
		// Clicks on address-bar suggestion rows can hit-test through to a
		// bookmark underneath.
		return false
	}

	// The focused window, not the window under the pointer: clicks inside
	// an expanded bookmark folder resolve their container only through
	// focus.
	focused, ok := e.probe.FocusedWindow()
	if !ok {
		return false
	}
	container, hasContainer := e.probe.Container(focused)
	if hasContainer && e.probe.OnNewTabPage(container) {
		// Already on the new-tab page; opening another tab would leave a
		// stray blank tab behind.
		return false
	}

	e.sendBookmarkOpen(mode)
	return true
}

func (e *Engine) sendBookmarkOpen(mode config.NewTabDisposition) {
	switch mode {
	case config.NewTabForeground:
		e.issuer.SendKeys(host.KeyShift, host.KeyMiddleButton)
	case config.NewTabBackground:
		e.issuer.SendKeys(host.KeyMiddleButton)
	}
}
