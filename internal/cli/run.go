package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/rkistner/dataprov/internal/report"
	"github.com/rkistner/dataprov/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// Clock allows overriding the time source (for testing).
	// If nil, defaults to time.Now.
	Clock func() time.Time

	// NewID allows overriding run-ID generation (for testing).
	// If nil, defaults to report.NewID.
	NewID func() string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <casefile>...",
		Short: "Run case files and optionally record the results",
		Long: `Run data-provider case files through argument conversion and
produce timed, identified run reports.

Like check, every row is converted against the declared signature; in
addition each run gets a UUIDv7 identifier and timestamps, and with
--db the report is recorded to a SQLite history database (created if
it does not exist).

Example:
  dataprov run cases/addition.yaml
  dataprov run cases/*.yaml --db ./dataprov.db --verbose`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (optional)")

	return cmd
}

func runRun(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)

	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = report.NewID
	}

	var st *store.Store
	if opts.Database != "" {
		logger.Debug("opening history database", "path", opts.Database)
		var err error
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Use the command's context if available (for testing), otherwise
	// fall back to Background.
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reports := make([]*report.Report, 0, len(paths))
	failed := false
	for _, path := range paths {
		startedAt := now()
		rep, err := checkFile(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to run %s", path), err)
		}
		rep.ID = newID()
		rep.StartedAt = startedAt
		rep.FinishedAt = now()

		logger.Info("case completed",
			"case", rep.Case,
			"run_id", rep.ID,
			"rows", rep.Total,
			"failed", rep.Failed,
		)

		if st != nil {
			if err := st.WriteReport(ctx, rep); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("failed to record run for %s", path), err)
			}
		}

		if !rep.Passed() {
			failed = true
		}
		reports = append(reports, rep)
	}

	if opts.Format == "json" {
		if err := f.JSON(reports); err != nil {
			return WrapExitError(ExitCommandError, "failed to encode output", err)
		}
	} else {
		for _, rep := range reports {
			if err := rep.RenderText(f.Writer); err != nil {
				return WrapExitError(ExitCommandError, "failed to render output", err)
			}
		}
	}

	if failed {
		return NewExitError(ExitFailure, "one or more case files failed")
	}
	return nil
}
