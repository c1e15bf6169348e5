package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the canonical serialized form of a scenario run,
// compared byte for byte against the golden file.
type TraceSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	Trace        []string      `json:"trace"`
	Sessions     []string      `json:"sessions"`
	Windows      []WindowState `json:"windows"`
}

// Snapshot builds the golden snapshot for a finished run.
func Snapshot(name string, result *Result) ([]byte, error) {
	snap := TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Sessions:     result.Sessions,
		Windows:      result.Windows,
	}
	if snap.Trace == nil {
		snap.Trace = []string{}
	}
	if snap.Sessions == nil {
		snap.Sessions = []string{}
	}
	return json.MarshalIndent(snap, "", "  ")
}

// RunWithGolden executes a scenario, fails the test on any assertion
// error, and compares the trace snapshot against
// testdata/golden/<name>.golden.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		t.Fatalf("scenario %s: %v", s.Name, err)
	}
	for _, e := range result.Errors {
		t.Errorf("scenario %s: %s", s.Name, e)
	}

	data, err := Snapshot(s.Name, result)
	if err != nil {
		t.Fatalf("scenario %s: snapshot: %v", s.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, data)
}
