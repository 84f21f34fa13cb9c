package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/habitcheck/internal/config"
	"github.com/JonMunkholm/habitcheck/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Write   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// usageLine is printed when no path is given.
const usageLine = "Usage: habitcheck <path-to-csv> [--write]"

// NewRootCommand creates the habitcheck command. cfg drives logging and
// the serve subcommand; nil means defaults. cfgErr is the error from
// loading cfg, if any. Only serve refuses to run with one; checking a
// file never depends on the server settings.
func NewRootCommand(cfg *config.Config, cfgErr error) *cobra.Command {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "habitcheck <path-to-csv>",
		Short: "Validate a habit-tracking CSV file",
		Long: `Validate a habit-tracking CSV against the fixed habit schema.

Checks the column set, numeric ranges, integer-only fields, missing and
duplicate dates, and the stability value derived from clarity, calm and
routine. With --write the file is rewritten with cleaned values, the
canonical column set, and any missing stability values filled in.

Exit status is 0 when no issues were found, 1 when issues were found and
2 when the file could not be read or written.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Verbose {
				logging.Setup("debug", cfg.Logging.Format, cmd.ErrOrStderr())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), usageLine)
				return NewExitError(ExitCommandError, "")
			}
			return runCheck(cmd, opts, args[0])
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logs on stderr)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.Flags().BoolVar(&opts.Write, "write", false, "write cleaned rows back to the file")

	cmd.AddCommand(NewServeCommand(cfg, cfgErr))

	return cmd
}

// Execute runs the command line in args and returns the process exit code.
func Execute(ctx context.Context, cfg *config.Config, cfgErr error, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(cfg, cfgErr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && err.Error() != "" {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return GetExitCode(err)
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
