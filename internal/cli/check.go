package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rkistner/dataprov/internal/report"
	"github.com/rkistner/dataprov/internal/rows"
	"github.com/rkistner/dataprov/internal/runner"
	"github.com/rkistner/dataprov/internal/sig"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <casefile>...",
		Short: "Validate case files against their declared signatures",
		Long: `Validate data-provider case files without invoking anything.

Each file is parsed, checked against the case-file schema, and every
row is converted against the declared parameter signature, applying
the same variadic packing and widening rules the runner applies at
test time.

Example:
  dataprov check cases/addition.yaml
  dataprov check cases/*.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *CheckOptions, paths []string, cmd *cobra.Command) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reports := make([]*report.Report, 0, len(paths))
	failed := false
	for _, path := range paths {
		f.VerboseLog("checking %s", path)
		rep, err := checkFile(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to check %s", path), err)
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
		return NewExitError(ExitFailure, "one or more case files failed validation")
	}
	return nil
}

// checkFile loads a case file and converts every row against its
// declared signature, producing an unrecorded report.
func checkFile(path string) (*report.Report, error) {
	cf, err := rows.LoadCaseFile(path)
	if err != nil {
		return nil, err
	}

	declared, err := sig.Parse(cf.Signature)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid signature: %w", path, err)
	}

	decoded, err := cf.Decode(declared)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return report.New(cf.Name, runner.Validate(declared, decoded)), nil
}
