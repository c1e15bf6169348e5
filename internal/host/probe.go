package host

// Probe answers point-in-time questions about the host's UI tree.
//
// Every method is a snapshot query: results reflect the host's internal
// state at call time, which may lag a recent user action by tens to
// hundreds of milliseconds. Callers must treat "not found" as "not yet
// true" and retry on their own schedule rather than assume a hard failure.
//
// All methods are called from the single dispatch goroutine; implementations
// do not need to be safe for concurrent use.
type Probe interface {
	// WindowAt resolves the top-level window under a screen point.
	WindowAt(pt Point) (WindowRef, bool)

	// FocusedWindow returns the window that currently owns keyboard focus.
	FocusedWindow() (WindowRef, bool)

	// ForegroundWindow returns the active top-level window.
	ForegroundWindow() (WindowRef, bool)

	// Container resolves the tab-strip container of a window.
	// Fails while the window is fullscreen or mid-teardown.
	Container(win WindowRef) (ContainerRef, bool)

	// Tabs returns the ordered tab list of a container.
	// The returned slice is owned by the caller.
	Tabs(c ContainerRef) []TabRef

	// SelectedTab returns the currently selected tab of a container.
	SelectedTab(c ContainerRef) (TabRef, bool)

	// OnTabStrip reports whether a point lies on the container's tab strip.
	OnTabStrip(c ContainerRef, pt Point) bool

	// OnNewTabButton reports whether a point lies on the new-tab button.
	OnNewTabButton(c ContainerRef, pt Point) bool

	// OnTab reports whether a point lies on an individual tab control.
	OnTab(c ContainerRef, pt Point) bool

	// OnTabCloseButton reports whether a point lies on a tab's close button.
	OnTabCloseButton(c ContainerRef, pt Point) bool

	// OnBookmark reports whether a point lies on a bookmark item of a window.
	OnBookmark(win WindowRef, pt Point) bool

	// OnExpandedDropdown reports whether a point lies on an expanded
	// dropdown (address-bar suggestions and similar overlays). Clicks there
	// can hit-test through to a bookmark underneath.
	OnExpandedDropdown(win WindowRef, pt Point) bool

	// OnFindBar reports whether a point lies on the find-in-page bar.
	OnFindBar(pt Point) bool

	// OmniboxFocused reports whether the container's address box has focus.
	OmniboxFocused(c ContainerRef) bool

	// OnNewTabPage reports whether the container's selected tab shows the
	// host's new-tab page.
	OnNewTabPage(c ContainerRef) bool

	// Fullscreen reports whether a window is in fullscreen mode.
	Fullscreen(win WindowRef) bool
}
