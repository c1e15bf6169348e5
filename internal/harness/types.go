package harness

import "github.com/roach88/tabfling/internal/config"

// Scenario is one scripted input scenario.
type Scenario struct {
	// Name uniquely identifies the scenario; it is also the golden file name.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Settings is the engine configuration for the run.
	Settings config.Settings `yaml:"settings"`

	// Windows is the initial world.
	Windows []WindowSpec `yaml:"windows"`

	// Points names hit-test locations referenced by steps.
	Points map[string]PointSpec `yaml:"points,omitempty"`

	// Tokens are the session tokens handed out in order. Defaults to
	// a single "session-1" so traces stay deterministic.
	Tokens []string `yaml:"tokens,omitempty"`

	// Steps is the input script.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final world.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// WindowSpec seeds one window. Tabs are allocated sequential identities
// starting from 1 across the whole scenario, in declaration order.
type WindowSpec struct {
	ID       uint64 `yaml:"id"`
	Tabs     int    `yaml:"tabs"`
	Selected *int   `yaml:"selected,omitempty"` // index; default 0
}

// PointSpec places a named point in the world.
type PointSpec struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Window uint64 `yaml:"window"`
	// Region is one of: tab-strip, tab, tab-close, new-tab-button,
	// bookmark, dropdown, find-bar, none.
	Region string `yaml:"region"`
}

// Step is one scripted action. Exactly one field is set.
type Step struct {
	Pointer *PointerStep `yaml:"pointer,omitempty"`
	Key     *KeyStep     `yaml:"key,omitempty"`
	// Advance moves virtual time forward, firing due timers ("80ms").
	Advance string `yaml:"advance,omitempty"`
	// World mutates the fake world mid-scenario, standing in for
	// host-side activity like the drag actually creating a tab.
	World *WorldStep `yaml:"world,omitempty"`
}

// PointerStep delivers one pointer event.
type PointerStep struct {
	// Kind is one of: move, down, up, double-click, wheel.
	Kind string `yaml:"kind"`
	// Button is one of: left, right, middle. Ignored for move/wheel.
	Button string `yaml:"button,omitempty"`
	// At names a point from the scenario's Points map.
	At string `yaml:"at"`
	// Held lists buttons held during the event.
	Held []string `yaml:"held,omitempty"`
	// Mods lists held modifiers: ctrl, shift, alt, win.
	Mods []string `yaml:"mods,omitempty"`
	// Wheel is the wheel delta, positive away from the user.
	Wheel int `yaml:"wheel,omitempty"`
}

// KeyStep delivers one key press.
type KeyStep struct {
	Key  string   `yaml:"key"`
	Mods []string `yaml:"mods,omitempty"`
}

// WorldStep mutates one window of the fake world.
type WorldStep struct {
	Window uint64 `yaml:"window"`
	// RemoveTab deletes the tab at this index.
	RemoveTab *int `yaml:"remove_tab,omitempty"`
	// AddTab inserts a fresh tab identity at this index.
	AddTab *int `yaml:"add_tab,omitempty"`
	// SelectTab selects the tab at this index.
	SelectTab *int `yaml:"select_tab,omitempty"`
	// SelectNew selects the tab most recently added by AddTab.
	SelectNew bool `yaml:"select_new,omitempty"`
	// RejectSelects makes the next N selection commands fail.
	RejectSelects int `yaml:"reject_selects,omitempty"`
}

// Assertion validates one aspect of the finished run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`
	// Contains is a substring expected in some trace line (trace_contains)
	// or forbidden in every line (trace_absent).
	Contains string `yaml:"contains,omitempty"`
	// Lines are substrings expected in relative order (trace_order).
	Lines []string `yaml:"lines,omitempty"`
	// Window scopes tab_order and selected_tab.
	Window uint64 `yaml:"window,omitempty"`
	// Tabs is the expected final tab identity order (tab_order).
	Tabs []uint64 `yaml:"tabs,omitempty"`
	// Tab is the expected selected tab identity (selected_tab).
	Tab uint64 `yaml:"tab,omitempty"`
	// Outcome is the expected session outcome (session_outcome).
	Outcome string `yaml:"outcome,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains  = "trace_contains"
	AssertTraceAbsent    = "trace_absent"
	AssertTraceOrder     = "trace_order"
	AssertTabOrder       = "tab_order"
	AssertSelectedTab    = "selected_tab"
	AssertSessionOutcome = "session_outcome"
)

// Result is the outcome of one scenario run.
type Result struct {
	Pass bool `json:"pass"`

	// Trace is the ordered command trace from the fake issuer.
	Trace []string `json:"trace"`

	// Sessions is the ordered session lifecycle, one line per recorder
	// callback.
	Sessions []string `json:"sessions"`

	// Swallowed records, per input step index, whether the engine
	// consumed the event.
	Swallowed []bool `json:"swallowed"`

	// Windows is the final world, by window ID.
	Windows []WindowState `json:"windows"`

	Errors []string `json:"errors,omitempty"`
}

// WindowState is the final layout of one window.
type WindowState struct {
	ID       uint64   `json:"id"`
	Tabs     []uint64 `json:"tabs"`
	Selected uint64   `json:"selected"`
}

// AddError records a failed assertion.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
