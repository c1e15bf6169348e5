package testutil

import (
	"fmt"
	"strings"

	"github.com/roach88/tabfling/internal/host"
)

// Region classifies what lies under a hit-test point in the fake world.
type Region int

const (
	// RegionNone hits nothing of interest.
	RegionNone Region = iota
	// RegionTabStrip hits the strip background between tabs.
	RegionTabStrip
	// RegionTab hits an individual tab.
	RegionTab
	// RegionTabClose hits a tab's close button.
	RegionTabClose
	// RegionNewTabButton hits the new-tab button.
	RegionNewTabButton
	// RegionBookmark hits a bookmark item.
	RegionBookmark
	// RegionDropdown hits an expanded address-bar dropdown.
	RegionDropdown
	// RegionFindBar hits the find-in-page bar.
	RegionFindBar
)

// FakeWindow is one window in the fake world. Fields are exported so
// tests mutate them directly between events.
type FakeWindow struct {
	Ref       host.WindowRef
	Container host.ContainerRef

	// ContainerGone simulates a window whose tab strip is unreachable
	// (fullscreen transition, teardown, find bar focus).
	ContainerGone bool

	Tabs     []host.TabRef
	Selected host.TabRef

	Fullscreen bool
	Omnibox    bool
	NewTabPage bool
}

type placement struct {
	win    host.WindowRef
	region Region
}

// FakeHost is a scripted host.Probe and host.Issuer sharing one mutable
// world. Issued commands both append to Trace and take effect on the
// world, so poll cycles observe their own moves like they would against
// the real host.
//
// The zero value is not usable; construct with NewFakeHost.
type FakeHost struct {
	windows map[host.WindowRef]*FakeWindow
	byCont  map[host.ContainerRef]*FakeWindow
	points  map[host.Point]placement

	focused    host.WindowRef
	hasFocused bool
	foreground host.WindowRef
	hasFg      bool

	nextTab uint64

	// RejectSelects makes the next N SelectTab calls return false without
	// touching selection, simulating a host that ignores the command.
	RejectSelects int

	// Trace records every command, select, and key injection in order.
	Trace []string
}

// NewFakeHost creates an empty world.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		windows: make(map[host.WindowRef]*FakeWindow),
		byCont:  make(map[host.ContainerRef]*FakeWindow),
		points:  make(map[host.Point]placement),
	}
}

// AddWindow creates a window with the given number of tabs and returns
// it. Tab refs are allocated sequentially across the whole world so
// identities never collide between windows.
func (f *FakeHost) AddWindow(id uint64, tabCount int) *FakeWindow {
	w := &FakeWindow{
		Ref:       host.WindowRef{ID: id},
		Container: host.ContainerRef{ID: id},
	}
	for i := 0; i < tabCount; i++ {
		w.Tabs = append(w.Tabs, f.NewTabRef())
	}
	if len(w.Tabs) > 0 {
		w.Selected = w.Tabs[0]
	}
	f.windows[w.Ref] = w
	f.byCont[w.Container] = w
	if !f.hasFocused {
		f.SetFocused(w.Ref)
		f.SetForeground(w.Ref)
	}
	return w
}

// NewTabRef allocates a fresh tab identity.
func (f *FakeHost) NewTabRef() host.TabRef {
	f.nextTab++
	return host.TabRef{ID: f.nextTab}
}

// Window returns a window added earlier.
func (f *FakeHost) Window(ref host.WindowRef) *FakeWindow {
	return f.windows[ref]
}

// Place registers what lies at a point: the window under it and the
// region within that window.
func (f *FakeHost) Place(pt host.Point, win host.WindowRef, region Region) {
	f.points[pt] = placement{win: win, region: region}
}

// SetFocused sets the keyboard-focus window.
func (f *FakeHost) SetFocused(win host.WindowRef) {
	f.focused = win
	f.hasFocused = true
}

// SetForeground sets the active window.
func (f *FakeHost) SetForeground(win host.WindowRef) {
	f.foreground = win
	f.hasFg = true
}

func (f *FakeHost) regionAt(pt host.Point) (placement, bool) {
	p, ok := f.points[pt]
	return p, ok
}

// WindowAt implements host.Probe.
func (f *FakeHost) WindowAt(pt host.Point) (host.WindowRef, bool) {
	p, ok := f.regionAt(pt)
	if !ok {
		return host.WindowRef{}, false
	}
	return p.win, p.win.Valid()
}

// FocusedWindow implements host.Probe.
func (f *FakeHost) FocusedWindow() (host.WindowRef, bool) {
	return f.focused, f.hasFocused
}

// ForegroundWindow implements host.Probe.
func (f *FakeHost) ForegroundWindow() (host.WindowRef, bool) {
	return f.foreground, f.hasFg
}

// Container implements host.Probe.
func (f *FakeHost) Container(win host.WindowRef) (host.ContainerRef, bool) {
	w, ok := f.windows[win]
	if !ok || w.ContainerGone {
		return host.ContainerRef{}, false
	}
	return w.Container, true
}

// Tabs implements host.Probe.
func (f *FakeHost) Tabs(c host.ContainerRef) []host.TabRef {
	w, ok := f.byCont[c]
	if !ok {
		return nil
	}
	out := make([]host.TabRef, len(w.Tabs))
	copy(out, w.Tabs)
	return out
}

// SelectedTab implements host.Probe.
func (f *FakeHost) SelectedTab(c host.ContainerRef) (host.TabRef, bool) {
	w, ok := f.byCont[c]
	if !ok || !w.Selected.Valid() {
		return host.TabRef{}, false
	}
	return w.Selected, true
}

// OnTabStrip implements host.Probe. A point on a tab or on the new-tab
// button is also on the strip, matching how the real strip hit-tests.
func (f *FakeHost) OnTabStrip(c host.ContainerRef, pt host.Point) bool {
	p, ok := f.regionAt(pt)
	if !ok {
		return false
	}
	w := f.byCont[c]
	if w == nil || p.win != w.Ref {
		return false
	}
	switch p.region {
	case RegionTabStrip, RegionTab, RegionTabClose, RegionNewTabButton:
		return true
	}
	return false
}

// OnNewTabButton implements host.Probe.
func (f *FakeHost) OnNewTabButton(c host.ContainerRef, pt host.Point) bool {
	return f.regionIs(c, pt, RegionNewTabButton)
}

// OnTab implements host.Probe.
func (f *FakeHost) OnTab(c host.ContainerRef, pt host.Point) bool {
	return f.regionIs(c, pt, RegionTab) || f.regionIs(c, pt, RegionTabClose)
}

// OnTabCloseButton implements host.Probe.
func (f *FakeHost) OnTabCloseButton(c host.ContainerRef, pt host.Point) bool {
	return f.regionIs(c, pt, RegionTabClose)
}

func (f *FakeHost) regionIs(c host.ContainerRef, pt host.Point, region Region) bool {
	p, ok := f.regionAt(pt)
	if !ok {
		return false
	}
	w := f.byCont[c]
	return w != nil && p.win == w.Ref && p.region == region
}

// OnBookmark implements host.Probe.
func (f *FakeHost) OnBookmark(win host.WindowRef, pt host.Point) bool {
	p, ok := f.regionAt(pt)
	return ok && p.win == win && p.region == RegionBookmark
}

// OnExpandedDropdown implements host.Probe.
func (f *FakeHost) OnExpandedDropdown(win host.WindowRef, pt host.Point) bool {
	p, ok := f.regionAt(pt)
	return ok && p.win == win && p.region == RegionDropdown
}

// OnFindBar implements host.Probe.
func (f *FakeHost) OnFindBar(pt host.Point) bool {
	p, ok := f.regionAt(pt)
	return ok && p.region == RegionFindBar
}

// OmniboxFocused implements host.Probe.
func (f *FakeHost) OmniboxFocused(c host.ContainerRef) bool {
	w, ok := f.byCont[c]
	return ok && w.Omnibox
}

// OnNewTabPage implements host.Probe.
func (f *FakeHost) OnNewTabPage(c host.ContainerRef) bool {
	w, ok := f.byCont[c]
	return ok && w.NewTabPage
}

// Fullscreen implements host.Probe.
func (f *FakeHost) Fullscreen(win host.WindowRef) bool {
	w, ok := f.windows[win]
	return ok && w.Fullscreen
}

// Execute implements host.Issuer. Commands mutate the world so that
// re-queries inside a poll cycle see their effects.
func (f *FakeHost) Execute(cmd host.Command, win host.WindowRef) {
	f.Trace = append(f.Trace, fmt.Sprintf("execute %s win=%d", cmd, win.ID))

	w, ok := f.windows[win]
	if !ok {
		return
	}
	switch cmd {
	case host.CmdMoveTabNext:
		f.moveSelectedNext(w)
	case host.CmdSelectPreviousTab:
		f.shiftSelection(w, -1)
	case host.CmdSelectNextTab:
		f.shiftSelection(w, +1)
	case host.CmdNewTab:
		tab := f.NewTabRef()
		w.Tabs = append(w.Tabs, tab)
		w.Selected = tab
	case host.CmdCloseTab:
		f.closeTab(w, w.Selected)
	case host.CmdCloseOtherTabs:
		if w.Selected.Valid() {
			w.Tabs = []host.TabRef{w.Selected}
		}
	case host.CmdToggleFullscreen:
		w.Fullscreen = !w.Fullscreen
	}
}

// SelectTab implements host.Issuer.
func (f *FakeHost) SelectTab(tab host.TabRef) bool {
	f.Trace = append(f.Trace, fmt.Sprintf("select-tab %d", tab.ID))
	if f.RejectSelects > 0 {
		f.RejectSelects--
		return false
	}
	for _, w := range f.windows {
		for _, t := range w.Tabs {
			if t == tab {
				w.Selected = tab
				return true
			}
		}
	}
	return false
}

// SendKeys implements host.Issuer.
func (f *FakeHost) SendKeys(keys ...host.Key) {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	f.Trace = append(f.Trace, "sendkeys "+strings.Join(names, "+"))
}

func (f *FakeHost) moveSelectedNext(w *FakeWindow) {
	for i, t := range w.Tabs {
		if t == w.Selected && i+1 < len(w.Tabs) {
			w.Tabs[i], w.Tabs[i+1] = w.Tabs[i+1], w.Tabs[i]
			return
		}
	}
}

func (f *FakeHost) shiftSelection(w *FakeWindow, delta int) {
	for i, t := range w.Tabs {
		if t == w.Selected {
			j := i + delta
			if j >= 0 && j < len(w.Tabs) {
				w.Selected = w.Tabs[j]
			}
			return
		}
	}
}

func (f *FakeHost) closeTab(w *FakeWindow, tab host.TabRef) {
	for i, t := range w.Tabs {
		if t == tab {
			w.Tabs = append(w.Tabs[:i], w.Tabs[i+1:]...)
			if w.Selected == tab {
				if i < len(w.Tabs) {
					w.Selected = w.Tabs[i]
				} else if len(w.Tabs) > 0 {
					w.Selected = w.Tabs[len(w.Tabs)-1]
				} else {
					w.Selected = host.TabRef{}
				}
			}
			return
		}
	}
}
