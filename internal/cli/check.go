package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/habitcheck/internal/core"
	"github.com/JonMunkholm/habitcheck/internal/logging"
)

func runCheck(cmd *cobra.Command, opts *RootOptions, arg string) error {
	formatter := &OutputFormatter{
		Format: opts.Format,
		Writer: cmd.OutOrStdout(),
	}

	path := filepath.Clean(expandHome(arg))

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		notFound := &fs.PathError{Op: "open", Path: path, Err: core.ErrFileNotFound}
		if ferr := formatter.Error(notFound, "File not found: "+path); ferr != nil {
			return WrapExitError(ExitCommandError, "writing output", ferr)
		}
		return NewExitError(ExitCommandError, "")
	}

	runID := logging.NewRunID()
	ctx := logging.ContextWithRunID(cmd.Context(), runID)
	logger := logging.WithFields(ctx, "path", path, "write", opts.Write)
	logger.Debug("validation started")

	v := core.NewValidator(nil)
	result, err := v.ValidateFile(ctx, path, core.FileOptions{WriteBack: opts.Write})
	if result == nil {
		logger.Error("validation failed", "error", err)
		if ferr := formatter.Error(err, core.FormatUserError(err)); ferr != nil {
			return WrapExitError(ExitCommandError, "writing output", ferr)
		}
		return NewExitError(ExitCommandError, "")
	}

	report := Report{
		RunID:   runID,
		Path:    path,
		Rows:    result.RowCount,
		Issues:  result.Issues,
		Written: opts.Write && err == nil && result.Header != nil,
	}
	if ferr := formatter.Report(report); ferr != nil {
		return WrapExitError(ExitCommandError, "writing output", ferr)
	}

	if err != nil {
		// Validation finished but the write-back did not.
		logger.Error("write-back failed", "error", err)
		return WrapExitError(ExitCommandError, core.MapError(err).Message, err)
	}

	logger.Debug("validation finished", "rows", result.RowCount, "issues", len(result.Issues))
	if !result.OK() {
		return NewExitError(ExitFailure, "")
	}
	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
