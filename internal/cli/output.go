package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/habitcheck/internal/core"
)

// Exit codes for the habitcheck command.
const (
	ExitSuccess      = 0 // Validation completed with zero issues
	ExitFailure      = 1 // Validation completed with one or more issues
	ExitCommandError = 2 // Usage error, missing file, unreadable or unwritable file
)

// ExitError represents an error with a specific exit code.
// An empty Message means the output has already been written.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Errors that are not ExitErrors come from flag or argument parsing and
// map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // report payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`             // "FILE001", "FILE002", etc.
	Message string `json:"message"`          // human-readable message
	Action  string `json:"action,omitempty"` // what to do about it
}

// Report is the outcome of checking one file.
type Report struct {
	RunID   string       `json:"run_id"`
	Path    string       `json:"path"`
	Rows    int          `json:"rows"`
	Issues  []core.Issue `json:"issues"`
	Written bool         `json:"written"`
}

// Text lines of the human-readable report.
const (
	msgNoIssues  = "✅ No issues found."
	msgWroteBack = "✅ Wrote back computed stability values (if any were missing)."
	issuesPrefix = "⚠️ Issues: "
)

// Report writes r in the configured format.
func (f *OutputFormatter) Report(r Report) error {
	if f.Format == "json" {
		status := "ok"
		if len(r.Issues) > 0 {
			status = "error"
		}
		if r.Issues == nil {
			r.Issues = []core.Issue{}
		}
		return f.encode(CLIResponse{Status: status, Data: r})
	}

	fmt.Fprintf(f.Writer, "Checked: %s\n", r.Path)
	fmt.Fprintf(f.Writer, "Rows: %d\n", r.Rows)

	if len(r.Issues) == 0 {
		fmt.Fprintln(f.Writer, msgNoIssues)
		if r.Written {
			fmt.Fprintln(f.Writer, msgWroteBack)
		}
		return nil
	}

	fmt.Fprintf(f.Writer, "%s%d\n", issuesPrefix, len(r.Issues))
	for _, is := range r.Issues {
		fmt.Fprintln(f.Writer, FormatIssue(is))
	}
	return nil
}

// Error writes an environment error in the configured format.
func (f *OutputFormatter) Error(err error, text string) error {
	if f.Format == "json" {
		msg := core.MapError(err)
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: msg.Code, Message: err.Error(), Action: msg.Action},
		})
	}
	_, werr := fmt.Fprintln(f.Writer, text)
	return werr
}

func (f *OutputFormatter) encode(v CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatIssue renders one issue as a report line.
func FormatIssue(is core.Issue) string {
	if is.IsHeader() {
		return "[HEADER] " + is.Message
	}
	return fmt.Sprintf("[Line %d] %s: %s", is.Row, is.Column, is.Message)
}
