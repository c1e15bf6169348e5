package harness

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(s.Windows) == 0 {
		return fmt.Errorf("scenario %q has no windows", s.Name)
	}
	for name, pt := range s.Points {
		if _, err := parseRegion(pt.Region); err != nil {
			return fmt.Errorf("scenario %q point %q: %w", s.Name, name, err)
		}
	}
	for i, step := range s.Steps {
		if err := step.validate(s); err != nil {
			return fmt.Errorf("scenario %q step %d: %w", s.Name, i, err)
		}
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertTraceContains, AssertTraceAbsent, AssertTraceOrder,
			AssertTabOrder, AssertSelectedTab, AssertSessionOutcome:
		default:
			return fmt.Errorf("scenario %q assertion %d: unknown type %q", s.Name, i, a.Type)
		}
	}
	return nil
}

func (st *Step) validate(s *Scenario) error {
	set := 0
	if st.Pointer != nil {
		set++
		if _, ok := s.Points[st.Pointer.At]; !ok {
			return fmt.Errorf("unknown point %q", st.Pointer.At)
		}
	}
	if st.Key != nil {
		set++
	}
	if st.Advance != "" {
		set++
		if _, err := time.ParseDuration(st.Advance); err != nil {
			return fmt.Errorf("bad advance %q: %w", st.Advance, err)
		}
	}
	if st.World != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("step must set exactly one of pointer, key, advance, world")
	}
	return nil
}
