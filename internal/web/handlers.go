package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/habitcheck/internal/core"
	"github.com/JonMunkholm/habitcheck/internal/logging"
	"github.com/JonMunkholm/habitcheck/internal/web/templates"
)

// ValidateResponse is the JSON body returned by /api/validate.
type ValidateResponse struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   ValidateReport `json:"data"`
}

// ValidateReport is the outcome of validating one upload.
type ValidateReport struct {
	RunID    string       `json:"run_id"`
	Filename string       `json:"filename"`
	Rows     int          `json:"rows"`
	Issues   []core.Issue `json:"issues"`
}

// upload is a CSV file read from a multipart request.
type upload struct {
	filename string
	data     []byte
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.UploadPage(s.validator.Schema().Columns(), s.cfg.Upload.MaxFileSize)
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render upload page", "error", err)
	}
}

// handleHealth reports liveness and the validation slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"validations": s.limiter.status(),
	})
}

// handleValidate validates an uploaded CSV and returns the issues as JSON.
// Data issues are part of a successful response; only failures to read
// the upload are errors.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	up, result, runID, err := s.validateUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	issues := result.Issues
	if issues == nil {
		issues = []core.Issue{}
	}
	status := "ok"
	if !result.OK() {
		status = "error"
	}

	writeJSON(w, http.StatusOK, ValidateResponse{
		Status: status,
		Data: ValidateReport{
			RunID:    runID,
			Filename: up.filename,
			Rows:     result.RowCount,
			Issues:   issues,
		},
	})
}

// handleNormalize validates an uploaded CSV and returns the cleaned file:
// canonical columns, trimmed values, missing stability filled in. The
// issue count is reported in X-Issue-Count.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	up, result, runID, err := s.validateUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// An empty upload has nothing to normalize.
	if result.Header == nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{
			Status: "error",
			Data:   ValidateReport{RunID: runID, Filename: up.filename, Issues: result.Issues},
		})
		return
	}

	var buf bytes.Buffer
	if err := core.WriteRows(&buf, s.validator.Schema().Columns(), result.Rows); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": up.filename}))
	w.Header().Set("X-Issue-Count", strconv.Itoa(len(result.Issues)))
	w.Header().Set("X-Run-ID", runID)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Error("write normalized csv", "error", err)
	}
}

// validateUpload reads the "file" form field and validates it while
// holding a validation slot.
func (s *Server) validateUpload(w http.ResponseWriter, r *http.Request) (*upload, *core.Result, string, error) {
	runID := logging.NewRunID()
	ctx := logging.ContextWithRunID(r.Context(), runID)

	up, err := s.readUpload(w, r)
	if err != nil {
		return nil, nil, runID, err
	}

	if err := s.limiter.acquire(ctx); err != nil {
		return nil, nil, runID, err
	}
	defer s.limiter.release()

	logging.WithFields(ctx, "filename", up.filename, "bytes", len(up.data)).Debug("validating upload")

	result, err := s.validator.ValidateBytes(ctx, up.data)
	if err != nil {
		return nil, nil, runID, err
	}
	return up, result, runID, nil
}

// readUpload enforces the size limit and reads the uploaded file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if isTooLarge(err) {
			return nil, fmt.Errorf("%w: limit %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			return nil, fmt.Errorf("%w: limit %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "habits.csv"
	}
	return &upload{filename: name, data: data}, nil
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}
