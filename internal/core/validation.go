package core

// validation.go runs the single validation pass over a habit CSV.
//
// Validation is exhaustive: header problems do not stop row processing,
// and a row keeps going through every check after its first issue. Only
// an empty file (no header record) short-circuits, with a single issue.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/habitcheck/internal/logging"
	"github.com/JonMunkholm/habitcheck/internal/schema"
)

// Issue messages that are matched on by callers and tests.
const (
	MsgNoHeader    = "CSV has no header row"
	MsgMissingDate = "Missing date"
)

// HeaderColumn is the Column value of header-level issues.
const HeaderColumn = "header"

// Validator checks habit CSV data against a schema.
type Validator struct {
	schema *schema.Schema
	ranged []schema.FieldSpec
}

// NewValidator creates a validator for s. A nil schema selects [schema.Habits].
func NewValidator(s *schema.Schema) *Validator {
	if s == nil {
		s = schema.Habits()
	}
	return &Validator{
		schema: s,
		ranged: s.Ranged(),
	}
}

// Schema returns the schema the validator checks against.
func (v *Validator) Schema() *schema.Schema {
	return v.schema
}

// Validate reads CSV data from r and validates it.
// The returned error is non-nil only when r cannot be read or is not
// valid UTF-8 CSV; data problems are reported in Result.Issues.
func (v *Validator) Validate(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(NewBOMSkippingReader(r))
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return v.ValidateBytes(ctx, data)
}

// ValidateBytes validates an in-memory CSV file.
func (v *Validator) ValidateBytes(ctx context.Context, data []byte) (*Result, error) {
	data = StripBOM(data)
	if !utf8.Valid(data) {
		return nil, ErrEncoding
	}

	records, err := readRecords(data)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)

	if len(records) == 0 {
		logger.Debug("csv has no header row")
		return &Result{Issues: []Issue{{Row: 0, Column: "", Message: MsgNoHeader}}}, nil
	}

	header, body := records[0], records[1:]
	result := &Result{Header: header, Rows: make([]Row, 0, len(body))}
	result.Issues = append(result.Issues, v.ValidateHeader(header)...)
	logger.Debug("header checked", "columns", len(header), "issues", len(result.Issues))

	p := &pass{v: v, result: result, seenDates: make(map[string]struct{})}
	for i, rec := range body {
		lineNum := i + 2 // 1 = header, so data starts at line 2
		before := len(result.Issues)
		p.row(lineNum, cleanRecord(header, rec))
		if n := len(result.Issues) - before; n > 0 {
			logger.Debug("row has issues", "line", lineNum, "issues", n)
		}
	}

	logger.Debug("validation pass complete", "rows", result.RowCount, "issues", len(result.Issues))
	return result, nil
}

// ValidateHeader compares header against the required column set.
// Column order is not checked.
func (v *Validator) ValidateHeader(header []string) []Issue {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing, extras []string
	for _, col := range v.schema.Columns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	for _, h := range header {
		if !v.schema.Has(h) {
			extras = append(extras, h)
		}
	}

	var issues []Issue
	if len(missing) > 0 {
		issues = append(issues, Issue{
			Row:     0,
			Column:  HeaderColumn,
			Message: "Missing columns: " + strings.Join(missing, ", "),
		})
	}
	if len(extras) > 0 {
		issues = append(issues, Issue{
			Row:     0,
			Column:  HeaderColumn,
			Message: "Unexpected extra columns: " + strings.Join(extras, ", "),
		})
	}
	return issues
}

// pass holds the state of one validation run.
type pass struct {
	v         *Validator
	result    *Result
	seenDates map[string]struct{}
}

func (p *pass) row(lineNum int, row Row) {
	p.checkDate(lineNum, row)
	values := p.checkNumeric(lineNum, row)
	p.checkStability(lineNum, row, values)

	p.result.Rows = append(p.result.Rows, row)
	p.result.RowCount++
}

func (p *pass) checkDate(lineNum int, row Row) {
	date := row[schema.ColDate]
	if isBlank(date) {
		p.result.add(lineNum, schema.ColDate, MsgMissingDate)
		return
	}
	if _, seen := p.seenDates[date]; seen {
		p.result.add(lineNum, schema.ColDate, "Duplicate date: "+date)
	}
	p.seenDates[date] = struct{}{}
}

// checkNumeric validates every ranged column and returns the parsed
// values. Blank and unparsable cells are absent from the map.
func (p *pass) checkNumeric(lineNum int, row Row) map[string]float64 {
	values := make(map[string]float64, len(p.v.ranged))

	for _, spec := range p.v.ranged {
		raw := row[spec.Name]
		if isBlank(raw) {
			continue
		}

		f, ok := ParseNumber(raw)
		if !ok {
			p.result.add(lineNum, spec.Name, fmt.Sprintf("Not a number: '%s'", raw))
			continue
		}

		if !spec.Range.Contains(f) {
			p.result.add(lineNum, spec.Name, fmt.Sprintf("Out of range %s–%s: %s",
				FormatNumber(spec.Range.Lo), FormatNumber(spec.Range.Hi), FormatNumber(f)))
		}
		values[spec.Name] = f

		if spec.Integer && !IsInteger(f) {
			p.result.add(lineNum, spec.Name, "Expected integer, got: "+FormatNumber(f))
		}
	}

	return values
}

// checkStability fills a blank stability or flags a mismatched one.
// Rows missing any of clarity, calm or routine are left untouched.
func (p *pass) checkStability(lineNum int, row Row, values map[string]float64) {
	clarity, ok1 := values[schema.ColClarity]
	calm, ok2 := values[schema.ColCalm]
	routine, ok3 := values[schema.ColRoutine]
	if !ok1 || !ok2 || !ok3 {
		return
	}

	computed := ComputeStability(clarity, calm, routine)
	existing, ok := values[schema.ColStability]
	if !ok {
		row[schema.ColStability] = FormatTenths(computed)
		return
	}

	if !stabilityMatches(existing, computed) {
		p.result.add(lineNum, schema.ColStability, fmt.Sprintf(
			"Does not match (clarity+calm+routine)/3. Existing=%s, Computed=%s",
			FormatTenths(existing), FormatTenths(computed)))
	}
}

// cleanRecord maps rec onto header names with whitespace trimmed.
// Header names without a cell in rec are left out; when a name repeats
// the last position wins.
func cleanRecord(header, rec []string) Row {
	row := make(Row, len(header))
	for i, name := range header {
		if i < len(rec) {
			row[name] = CleanCell(rec[i])
		} else {
			delete(row, name)
		}
	}
	return row
}

// readRecords parses all CSV records. Blank lines are skipped, ragged
// rows and stray quotes are tolerated.
func readRecords(data []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		records = append(records, rec)
	}
}
