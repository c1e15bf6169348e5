package harness

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roach88/tabfling/internal/config"
	"github.com/roach88/tabfling/internal/engine"
	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/hotkey"
	"github.com/roach88/tabfling/internal/testutil"
)

// Run executes a scenario and evaluates its assertions.
func Run(s *Scenario) (*Result, error) {
	run, err := newRun(s)
	if err != nil {
		return nil, err
	}
	if err := run.play(); err != nil {
		return nil, err
	}
	run.capture()
	run.assert()
	return run.result, nil
}

type runState struct {
	scenario *Scenario
	fake     *testutil.FakeHost
	clock    *testutil.ManualScheduler
	eng      *engine.Engine
	rec      *sessionRecorder
	result   *Result

	lastAdded host.TabRef
}

func newRun(s *Scenario) (*runState, error) {
	fake := testutil.NewFakeHost()
	clock := testutil.NewManualScheduler()
	rec := &sessionRecorder{}

	for _, w := range s.Windows {
		fw := fake.AddWindow(w.ID, w.Tabs)
		if w.Selected != nil {
			if *w.Selected < 0 || *w.Selected >= len(fw.Tabs) {
				return nil, fmt.Errorf("window %d: selected index %d out of range", w.ID, *w.Selected)
			}
			fw.Selected = fw.Tabs[*w.Selected]
		}
	}
	for _, pt := range s.Points {
		region, err := parseRegion(pt.Region)
		if err != nil {
			return nil, err
		}
		fake.Place(host.Point{X: pt.X, Y: pt.Y}, host.WindowRef{ID: pt.Window}, region)
	}

	tokens := s.Tokens
	if len(tokens) == 0 {
		tokens = []string{"session-1"}
	}

	eng := engine.New(fake, fake, clock, config.Static(s.Settings),
		engine.WithRecorder(rec),
		engine.WithTokenGenerator(engine.NewFixedGenerator(tokens...)),
	)

	return &runState{
		scenario: s,
		fake:     fake,
		clock:    clock,
		eng:      eng,
		rec:      rec,
		result:   &Result{Pass: true},
	}, nil
}

func (r *runState) play() error {
	for i, step := range r.scenario.Steps {
		switch {
		case step.Pointer != nil:
			ev, err := r.pointerEvent(step.Pointer)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			r.result.Swallowed = append(r.result.Swallowed, r.eng.HandlePointer(ev))

		case step.Key != nil:
			mods, err := parseMods(step.Key.Mods)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			ev := engine.KeyEvent{Key: strings.ToUpper(step.Key.Key), Mods: mods}
			r.result.Swallowed = append(r.result.Swallowed, r.eng.HandleKey(ev))

		case step.Advance != "":
			d, err := time.ParseDuration(step.Advance)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			r.clock.Advance(d)

		case step.World != nil:
			if err := r.mutateWorld(step.World); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return nil
}

func (r *runState) mutateWorld(w *WorldStep) error {
	fw := r.fake.Window(host.WindowRef{ID: w.Window})
	if fw == nil {
		return fmt.Errorf("unknown window %d", w.Window)
	}
	if w.RemoveTab != nil {
		i := *w.RemoveTab
		if i < 0 || i >= len(fw.Tabs) {
			return fmt.Errorf("remove_tab index %d out of range", i)
		}
		removed := fw.Tabs[i]
		fw.Tabs = append(fw.Tabs[:i], fw.Tabs[i+1:]...)
		if fw.Selected == removed {
			fw.Selected = host.TabRef{}
			if len(fw.Tabs) > 0 {
				if i < len(fw.Tabs) {
					fw.Selected = fw.Tabs[i]
				} else {
					fw.Selected = fw.Tabs[len(fw.Tabs)-1]
				}
			}
		}
	}
	if w.AddTab != nil {
		i := *w.AddTab
		if i < 0 || i > len(fw.Tabs) {
			return fmt.Errorf("add_tab index %d out of range", i)
		}
		tab := r.fake.NewTabRef()
		fw.Tabs = append(fw.Tabs[:i], append([]host.TabRef{tab}, fw.Tabs[i:]...)...)
		r.lastAdded = tab
	}
	if w.SelectTab != nil {
		i := *w.SelectTab
		if i < 0 || i >= len(fw.Tabs) {
			return fmt.Errorf("select_tab index %d out of range", i)
		}
		fw.Selected = fw.Tabs[i]
	}
	if w.SelectNew {
		if !r.lastAdded.Valid() {
			return fmt.Errorf("select_new before any add_tab")
		}
		fw.Selected = r.lastAdded
	}
	if w.RejectSelects > 0 {
		r.fake.RejectSelects += w.RejectSelects
	}
	return nil
}

func (r *runState) pointerEvent(p *PointerStep) (engine.PointerEvent, error) {
	spec := r.scenario.Points[p.At]
	kind, err := parsePointerKind(p.Kind)
	if err != nil {
		return engine.PointerEvent{}, err
	}
	button, err := parseButton(p.Button)
	if err != nil {
		return engine.PointerEvent{}, err
	}
	held, err := parseHeld(p.Held)
	if err != nil {
		return engine.PointerEvent{}, err
	}
	mods, err := parseMods(p.Mods)
	if err != nil {
		return engine.PointerEvent{}, err
	}
	return engine.PointerEvent{
		Kind:       kind,
		Button:     button,
		Point:      host.Point{X: spec.X, Y: spec.Y},
		WheelDelta: p.Wheel,
		Held:       held,
		Mods:       mods,
	}, nil
}

// capture copies the finished world into the result.
func (r *runState) capture() {
	r.result.Trace = r.fake.Trace
	r.result.Sessions = r.rec.lines

	for _, w := range r.scenario.Windows {
		fw := r.fake.Window(host.WindowRef{ID: w.ID})
		state := WindowState{ID: w.ID, Selected: fw.Selected.ID}
		for _, t := range fw.Tabs {
			state.Tabs = append(state.Tabs, t.ID)
		}
		r.result.Windows = append(r.result.Windows, state)
	}
}

func (r *runState) assert() {
	for i, a := range r.scenario.Assertions {
		switch a.Type {
		case AssertTraceContains:
			assertTraceContains(r.result, i, a.Contains)
		case AssertTraceAbsent:
			assertTraceAbsent(r.result, i, a.Contains)
		case AssertTraceOrder:
			assertTraceOrder(r.result, i, a.Lines)
		case AssertTabOrder:
			assertTabOrder(r.result, i, a.Window, a.Tabs)
		case AssertSelectedTab:
			assertSelectedTab(r.result, i, a.Window, a.Tab)
		case AssertSessionOutcome:
			assertSessionOutcome(r.result, i, a.Outcome)
		}
	}
}

// sessionRecorder flattens recorder callbacks into deterministic lines.
type sessionRecorder struct {
	lines []string
}

func (r *sessionRecorder) SessionStarted(token, mode string) {
	r.lines = append(r.lines, fmt.Sprintf("started token=%s mode=%s", token, mode))
}

func (r *sessionRecorder) Event(token, kind string, detail map[string]any) {
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, detail[k]))
	}
	r.lines = append(r.lines, fmt.Sprintf("event token=%s kind=%s %s", token, kind, strings.Join(parts, " ")))
}

func (r *sessionRecorder) SessionEnded(token, outcome string) {
	r.lines = append(r.lines, fmt.Sprintf("ended token=%s outcome=%s", token, outcome))
}

func parseRegion(s string) (testutil.Region, error) {
	switch s {
	case "tab-strip":
		return testutil.RegionTabStrip, nil
	case "tab":
		return testutil.RegionTab, nil
	case "tab-close":
		return testutil.RegionTabClose, nil
	case "new-tab-button":
		return testutil.RegionNewTabButton, nil
	case "bookmark":
		return testutil.RegionBookmark, nil
	case "dropdown":
		return testutil.RegionDropdown, nil
	case "find-bar":
		return testutil.RegionFindBar, nil
	case "none", "":
		return testutil.RegionNone, nil
	}
	return 0, fmt.Errorf("unknown region %q", s)
}

func parsePointerKind(s string) (engine.PointerKind, error) {
	switch s {
	case "move":
		return engine.PointerMove, nil
	case "down":
		return engine.PointerDown, nil
	case "up":
		return engine.PointerUp, nil
	case "double-click":
		return engine.PointerDoubleClick, nil
	case "wheel":
		return engine.PointerWheel, nil
	}
	return 0, fmt.Errorf("unknown pointer kind %q", s)
}

func parseButton(s string) (engine.Button, error) {
	switch s {
	case "":
		return engine.ButtonNone, nil
	case "left":
		return engine.ButtonLeft, nil
	case "right":
		return engine.ButtonRight, nil
	case "middle":
		return engine.ButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

func parseHeld(names []string) (engine.ButtonMask, error) {
	var m engine.ButtonMask
	for _, n := range names {
		switch n {
		case "left":
			m |= engine.HeldLeft
		case "right":
			m |= engine.HeldRight
		case "middle":
			m |= engine.HeldMiddle
		default:
			return 0, fmt.Errorf("unknown held button %q", n)
		}
	}
	return m, nil
}

func parseMods(names []string) (hotkey.ModMask, error) {
	var m hotkey.ModMask
	for _, n := range names {
		switch n {
		case "ctrl":
			m |= hotkey.ModCtrl
		case "shift":
			m |= hotkey.ModShift
		case "alt":
			m |= hotkey.ModAlt
		case "win":
			m |= hotkey.ModWin
		default:
			return 0, fmt.Errorf("unknown modifier %q", n)
		}
	}
	return m, nil
}
