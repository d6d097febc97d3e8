package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rkistner/dataprov/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Long: `List runs recorded by "dataprov run --db".

Example:
  dataprov history --db ./dataprov.db
  dataprov history --db ./dataprov.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Format == "json" {
		if err := f.JSON(runs); err != nil {
			return WrapExitError(ExitCommandError, "failed to encode output", err)
		}
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(f.Writer, "no recorded runs")
		return nil
	}
	for _, r := range runs {
		verdict := "ok"
		if r.Failed > 0 {
			verdict = "FAIL"
		}
		fmt.Fprintf(f.Writer, "%s  %s  %s  %d rows, %d failed [%s]\n",
			r.ID, r.StartedAt.UTC().Format(time.RFC3339), r.Case, r.Total, r.Failed, verdict)
	}
	return nil
}
