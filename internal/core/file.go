package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/JonMunkholm/habitcheck/internal/logging"
)

// FileOptions controls ValidateFile.
type FileOptions struct {
	// WriteBack rewrites the file with cleaned rows after validation,
	// whether or not issues were found.
	WriteBack bool
}

// ValidateFile validates the CSV at path and optionally writes it back.
//
// The whole file is read and validated before anything is written. An
// empty file produces the no-header issue and is never rewritten.
func (v *Validator) ValidateFile(ctx context.Context, path string, opts FileOptions) (*Result, error) {
	logger := logging.WithFields(ctx, "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Debug("file read", "bytes", len(data))

	result, err := v.ValidateBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}

	if !opts.WriteBack || result.Header == nil {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("write-back cancelled: %w", err)
	}
	if err := WriteFile(path, v.schema.Columns(), result.Rows); err != nil {
		return result, err
	}
	logger.Info("wrote cleaned rows", "rows", len(result.Rows))

	return result, nil
}
