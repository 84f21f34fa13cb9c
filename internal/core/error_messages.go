package core

// error_messages.go maps environment errors to user-facing messages.
//
// Data problems are Issues, not errors, so this catalog only covers
// failures around the file itself. Each entry carries a code that can be
// quoted when reporting a problem:
//
//	FILE001 - File not found: The CSV path does not exist
//	          Action: Check the path and try again
//	FILE002 - Invalid CSV: The file could not be parsed as CSV
//	          Action: Ensure the file is comma-separated text
//	FILE003 - Encoding error: The file is not valid UTF-8
//	          Action: Re-save the file as UTF-8
//	FILE004 - Write failed: Cleaned rows could not be written back
//	          Action: Check that the file and its directory are writable
//	FILE005 - File too large: Upload exceeds the size limit
//	          Action: Split the file or raise UPLOAD_MAX_FILE_SIZE
//	FILE006 - No file: The upload did not include a file
//	          Action: Attach the CSV as form field "file"
//	SRV001  - Busy: All validation slots are in use
//	          Action: Retry after a short delay
//
// Anything else maps to ERR000.

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by this package. Wrap with %w to add context.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidCSV   = errors.New("invalid csv")
	ErrEncoding     = errors.New("encoding error: input is not valid UTF-8")
	ErrWriteBack    = errors.New("write-back failed")
	ErrFileTooLarge = errors.New("file too large")
	ErrNoFile       = errors.New("no file provided")
	ErrBusy         = errors.New("too many concurrent validations")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorEntry pairs a sentinel with its message. The first entry whose
// sentinel matches via errors.Is wins.
type errorEntry struct {
	err error
	msg UserMessage
}

var errorCatalog = []errorEntry{
	{ErrFileNotFound, UserMessage{"File not found", "Check the path and try again", "FILE001"}},
	{ErrInvalidCSV, UserMessage{"The file could not be parsed as CSV", "Ensure the file is comma-separated text", "FILE002"}},
	{ErrEncoding, UserMessage{"The file is not valid UTF-8", "Re-save the file as UTF-8", "FILE003"}},
	{ErrWriteBack, UserMessage{"Cleaned rows could not be written back", "Check that the file and its directory are writable", "FILE004"}},
	{ErrFileTooLarge, UserMessage{"File exceeds the upload size limit", "Split the file or raise UPLOAD_MAX_FILE_SIZE", "FILE005"}},
	{ErrNoFile, UserMessage{"No file was uploaded", `Attach the CSV as form field "file"`, "FILE006"}},
	{ErrBusy, UserMessage{"The server is busy validating other files", "Retry after a short delay", "SRV001"}},
}

// defaultMessage is returned when no entry matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for details",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, e := range errorCatalog {
		if errors.Is(err, e.err) {
			return e.msg
		}
	}
	// http.MaxBytesReader reports oversize bodies by message only.
	if strings.Contains(strings.ToLower(err.Error()), "request body too large") {
		return MapError(ErrFileTooLarge)
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific catalog entry.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
