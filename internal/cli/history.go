package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/parityhq/parity/internal/store"
)

// HistoryResult holds history output for JSON format.
type HistoryResult struct {
	Runs       []store.Run               `json:"runs,omitempty"`
	Run        *store.Run                `json:"run,omitempty"`
	Violations []store.RecordedViolation `json:"violations,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath, runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded verification runs",
		Long: `List the verification runs recorded with "check --record", most recent
first. With --run, show one run's violations instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, cmd, dbPath, runID)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "history database path (required)")
	cmd.Flags().StringVar(&runID, "run", "", "show one run's violations")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *RootOptions, cmd *cobra.Command, dbPath, runID string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, err.Error())
	}
	defer db.Close()

	if runID != "" {
		return showRun(formatter, cmd, db, runID)
	}
	return listRuns(formatter, cmd, db)
}

func listRuns(formatter *OutputFormatter, cmd *cobra.Command, db *store.Store) error {
	runs, err := db.ListRuns(cmd.Context())
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Runs: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no recorded runs")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  %d rule(s)  %d violation(s)  iface %.12s\n",
			run.ID,
			run.CreatedAt.Format(time.RFC3339),
			run.RuleCount,
			run.ViolationCount,
			run.InterfaceHash,
		)
	}
	return nil
}

func showRun(formatter *OutputFormatter, cmd *cobra.Command, db *store.Store, runID string) error {
	run, err := db.GetRun(cmd.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("run not found: %s", runID))
	}
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	violations, err := db.RunViolations(cmd.Context(), runID)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Run: &run, Violations: violations})
	}

	fmt.Fprintf(formatter.Writer, "run %s  %s  %s\n",
		run.ID, run.CreatedAt.Format(time.RFC3339), run.InterfacePath)
	if len(violations) == 0 {
		fmt.Fprintln(formatter.Writer, "✓ no violations")
		return nil
	}
	for _, v := range violations {
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintln(formatter.Writer, v.Message)
	}
	return nil
}
