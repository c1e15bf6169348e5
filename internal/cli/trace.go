package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabfling/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [session-token]",
		Short: "Inspect recorded drag sessions",
		Long: `List recorded drag sessions, or dump one session's event trace.

Without arguments every session is listed newest first. With a session
token the session's events are printed in sequence order.

Example:
  tabfling trace --journal ./tabfling.db
  tabfling trace --journal ./tabfling.db 01890c2e-4e1c-7a33-9eaa-1af1a8a3e0a1`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runTraceSession(opts, args[0], cmd)
			}
			return runTraceList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the journal database (required)")
	_ = cmd.MarkFlagRequired("journal")

	return cmd
}

func runTraceList(opts *TraceOptions, cmd *cobra.Command) error {
	j, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	sessions, err := j.ListSessions(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	if opts.Format == "json" {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return out.Success(sessions)
	}
	for _, s := range sessions {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  mode=%s  outcome=%s\n", s.Token, s.Mode, s.Outcome)
	}
	return nil
}

// traceDump is the JSON payload for a single session dump.
type traceDump struct {
	Session journal.Session `json:"session"`
	Events  []journal.Event `json:"events"`
}

func runTraceSession(opts *TraceOptions, token string, cmd *cobra.Command) error {
	j, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	session, events, err := j.ReadSession(cmd.Context(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	if opts.Format == "json" {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return out.Success(traceDump{Session: session, Events: events})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "session %s  mode=%s  outcome=%s\n", session.Token, session.Mode, session.Outcome)
	for _, ev := range events {
		fmt.Fprintf(cmd.OutOrStdout(), "  %4d  %-12s %v\n", ev.Seq, ev.Kind, ev.Detail)
	}
	return nil
}
