package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabfling/internal/config"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <settings.yaml>",
		Short: "Validate a settings file against the schema",
		Long: `Validate a tabfling settings file.

The file is checked against the embedded CUE schema and then decoded, so
both unknown keys and malformed mode strings are reported.

Example:
  tabfling validate ./tabfling.yaml
  tabfling validate --format json ./tabfling.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	settings, err := config.Load(path)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			_ = out.Error("E100", "settings file is invalid", verr.Error())
			return NewExitError(ExitFailure, "validation failed")
		}
		return WrapExitError(ExitCommandError, "failed to load settings", err)
	}

	if opts.Format == "json" {
		return out.Success(settings)
	}
	return out.Success(fmt.Sprintf("%s: valid (drag_new_tab=%s)", path, settings.DragNewTab))
}
