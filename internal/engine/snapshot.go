package engine

import "github.com/roach88/tabfling/internal/host"

// Snapshot/diff helpers. All comparisons are identity comparisons; a
// tab's index is meaningless across queries because the host shifts
// indices as tabs are created, moved, and closed.

// tabIndex returns the position of target in tabs, or -1.
func tabIndex(tabs []host.TabRef, target host.TabRef) int {
	if !target.Valid() {
		return -1
	}
	for i, t := range tabs {
		if t == target {
			return i
		}
	}
	return -1
}

// tabInList reports whether target appears in tabs.
func tabInList(tabs []host.TabRef, target host.TabRef) bool {
	return tabIndex(tabs, target) >= 0
}

// tabAt returns the tab at index, or the zero ref when out of range.
func tabAt(tabs []host.TabRef, index int) host.TabRef {
	if index < 0 || index >= len(tabs) {
		return host.TabRef{}
	}
	return tabs[index]
}

// findNewTab returns the first tab in current whose identity is absent
// from the start snapshot. Returns the zero ref when the snapshot is
// empty (nothing to diff against) or no new identity is present yet -
// the host may not have finished creating the tab when we polled.
func findNewTab(start, current []host.TabRef) host.TabRef {
	if len(start) == 0 {
		return host.TabRef{}
	}
	for _, tab := range current {
		if !tabInList(start, tab) {
			return tab
		}
	}
	return host.TabRef{}
}

// moveStepsToEnd returns how many single-position moves bring target to
// the end of tabs. Zero when target is already last or not present.
func moveStepsToEnd(tabs []host.TabRef, target host.TabRef) int {
	index := tabIndex(tabs, target)
	if index < 0 {
		return 0
	}
	last := len(tabs) - 1
	if last > index {
		return last - index
	}
	return 0
}

// resolveRestoreTab picks the tab to re-select after the move: the
// original selected identity if it still exists, else whatever tab now
// occupies the original selected index. The fallback covers the case
// where the original selection itself was the tab that got dragged out
// or closed.
func resolveRestoreTab(tabs []host.TabRef, startSelected host.TabRef, startIndex int) host.TabRef {
	if startSelected.Valid() {
		if i := tabIndex(tabs, startSelected); i >= 0 {
			return tabs[i]
		}
	}
	return tabAt(tabs, startIndex)
}
