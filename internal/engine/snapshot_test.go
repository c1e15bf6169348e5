package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/tabfling/internal/host"
)

func refs(ids ...uint64) []host.TabRef {
	out := make([]host.TabRef, len(ids))
	for i, id := range ids {
		out[i] = host.TabRef{ID: id}
	}
	return out
}

func TestFindNewTab(t *testing.T) {
	tests := []struct {
		name    string
		start   []host.TabRef
		current []host.TabRef
		want    uint64 // 0 means none
	}{
		{"new tab at end", refs(1, 2, 3), refs(1, 3, 4), 4},
		{"new tab at front", refs(1, 2, 3), refs(4, 1, 3), 4},
		{"no new tab yet", refs(1, 2, 3), refs(1, 3), 0},
		{"identical lists", refs(1, 2, 3), refs(1, 2, 3), 0},
		{"empty snapshot", nil, refs(1, 2), 0},
		{"first new wins", refs(1), refs(4, 5, 1), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findNewTab(tt.start, tt.current)
			assert.Equal(t, host.TabRef{ID: tt.want}, got)
		})
	}
}

func TestMoveStepsToEnd(t *testing.T) {
	tabs := refs(4, 1, 3)

	assert.Equal(t, 2, moveStepsToEnd(tabs, host.TabRef{ID: 4}))
	assert.Equal(t, 1, moveStepsToEnd(tabs, host.TabRef{ID: 1}))
	assert.Equal(t, 0, moveStepsToEnd(tabs, host.TabRef{ID: 3}), "already last")
	assert.Equal(t, 0, moveStepsToEnd(tabs, host.TabRef{ID: 9}), "not present")
	assert.Equal(t, 0, moveStepsToEnd(nil, host.TabRef{ID: 4}))
}

func TestResolveRestoreTab(t *testing.T) {
	tabs := refs(1, 3, 4)

	// Original selection still present: restore by identity.
	got := resolveRestoreTab(tabs, host.TabRef{ID: 3}, 2)
	assert.Equal(t, host.TabRef{ID: 3}, got)

	// Original selection gone: fall back to the original index.
	got = resolveRestoreTab(tabs, host.TabRef{ID: 2}, 1)
	assert.Equal(t, host.TabRef{ID: 3}, got)

	// Index out of range too: nothing to restore.
	got = resolveRestoreTab(refs(1), host.TabRef{ID: 2}, 5)
	assert.Equal(t, host.TabRef{}, got)

	// No selection recorded at all.
	got = resolveRestoreTab(tabs, host.TabRef{}, -1)
	assert.Equal(t, host.TabRef{}, got)
}

func TestTabIndex(t *testing.T) {
	tabs := refs(5, 6, 7)

	assert.Equal(t, 1, tabIndex(tabs, host.TabRef{ID: 6}))
	assert.Equal(t, -1, tabIndex(tabs, host.TabRef{ID: 9}))
	assert.Equal(t, -1, tabIndex(tabs, host.TabRef{}), "zero ref never matches")
	assert.True(t, tabInList(tabs, host.TabRef{ID: 5}))
	assert.False(t, tabInList(tabs, host.TabRef{ID: 8}))
}
