package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabfling/internal/config"
)

func intp(i int) *int { return &i }

func dragScenario() *Scenario {
	return &Scenario{
		Name:     "inline-drag",
		Settings: config.Settings{DragNewTab: config.DragNewTabMoveToEnd},
		Windows:  []WindowSpec{{ID: 1, Tabs: 3, Selected: intp(1)}},
		Points: map[string]PointSpec{
			"tab":   {X: 100, Y: 10, Window: 1, Region: "tab"},
			"strip": {X: 200, Y: 10, Window: 1, Region: "tab-strip"},
		},
		Steps: []Step{
			{Pointer: &PointerStep{Kind: "down", Button: "left", At: "tab"}},
			{Pointer: &PointerStep{Kind: "move", At: "strip", Held: []string{"left"}}},
			{World: &WorldStep{Window: 1, RemoveTab: intp(1), AddTab: intp(0), SelectNew: true}},
			{Pointer: &PointerStep{Kind: "up", Button: "left", At: "strip"}},
			{Advance: "80ms"},
		},
	}
}

func TestRunDragScenario(t *testing.T) {
	s := dragScenario()
	s.Assertions = []Assertion{
		{Type: AssertTraceOrder, Lines: []string{"execute move-tab-next win=1", "execute move-tab-next win=1"}},
		{Type: AssertTabOrder, Window: 1, Tabs: []uint64{1, 3, 4}},
		{Type: AssertSelectedTab, Window: 1, Tab: 4},
		{Type: AssertSessionOutcome, Outcome: "moved"},
		{Type: AssertTraceAbsent, Contains: "select-tab"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []bool{false, false, false}, result.Swallowed)
	require.Len(t, result.Windows, 1)
	assert.Equal(t, WindowState{ID: 1, Tabs: []uint64{1, 3, 4}, Selected: 4}, result.Windows[0])
}

func TestRunReportsAssertionFailures(t *testing.T) {
	s := dragScenario()
	s.Assertions = []Assertion{
		{Type: AssertSelectedTab, Window: 1, Tab: 99},
		{Type: AssertTraceContains, Contains: "no-such-command"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 2)
}

func TestRunRejectsBadWorldStep(t *testing.T) {
	s := dragScenario()
	s.Steps = append(s.Steps, Step{World: &WorldStep{Window: 1, RemoveTab: intp(99)}})

	_, err := Run(s)
	assert.Error(t, err)
}

func TestParseScenarioValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", `
windows:
  - {id: 1, tabs: 2}
`},
		{"no windows", `
name: x
`},
		{"bad region", `
name: x
windows:
  - {id: 1, tabs: 2}
points:
  p: {x: 1, y: 1, window: 1, region: toolbar}
`},
		{"unknown point in step", `
name: x
windows:
  - {id: 1, tabs: 2}
steps:
  - pointer: {kind: up, button: left, at: nowhere}
`},
		{"empty step", `
name: x
windows:
  - {id: 1, tabs: 2}
steps:
  - {}
`},
		{"two actions in one step", `
name: x
windows:
  - {id: 1, tabs: 2}
steps:
  - advance: 80ms
    world: {window: 1}
`},
		{"bad advance", `
name: x
windows:
  - {id: 1, tabs: 2}
steps:
  - advance: soon
`},
		{"unknown assertion type", `
name: x
windows:
  - {id: 1, tabs: 2}
assertions:
  - type: trace_equals
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/drag_move_and_restore.yaml")
	require.NoError(t, err)
	assert.Equal(t, "drag-move-and-restore", s.Name)
	assert.Len(t, s.Steps, 6)
}

func TestDragMoveAndRestoreGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/drag_move_and_restore.yaml")
	require.NoError(t, err)
	RunWithGolden(t, s)
}
