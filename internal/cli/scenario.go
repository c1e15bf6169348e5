package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabfling/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <scenario.yaml>...",
		Short: "Run scripted input scenarios against the engine",
		Long: `Run one or more scenario files and report their assertions.

Each scenario drives the engine with scripted input on a virtual clock
and checks the resulting command trace and tab layout. Exit code is 1
when any assertion fails.

Example:
  tabfling scenario ./scenarios/drag-move-to-end.yaml
  tabfling scenario --format json ./scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	return cmd
}

// scenarioReport is the per-scenario result in command output.
type scenarioReport struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Trace  []string `json:"trace,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func runScenarios(opts *ScenarioOptions, paths []string, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	var reports []scenarioReport
	failed := 0
	for _, path := range paths {
		s, err := harness.LoadScenario(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}
		result, err := harness.Run(s)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s failed to run", s.Name), err)
		}

		report := scenarioReport{Name: s.Name, Pass: result.Pass, Errors: result.Errors}
		if opts.Verbose {
			report.Trace = result.Trace
		}
		reports = append(reports, report)
		if !result.Pass {
			failed++
		}
	}

	if opts.Format == "json" {
		if err := out.Success(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			status := "PASS"
			if !r.Pass {
				status = "FAIL"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", status, r.Name)
			for _, e := range r.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", e)
			}
			if opts.Verbose {
				for _, line := range r.Trace {
					fmt.Fprintf(cmd.OutOrStdout(), "  trace: %s\n", line)
				}
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", failed, len(reports)))
	}
	return nil
}
