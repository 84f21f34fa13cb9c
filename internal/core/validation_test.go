package core

import (
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/habitcheck/internal/schema"
)

const habitHeader = "date,clarity,calm,routine,stability,sleep_hours,sleep_quality,exercise_minutes,caffeine_units,social_minutes,stressors,notes"

// validRow is the reference row: clarity 8, calm 7, routine 9, stability blank.
const validRow = "2024-01-01,8,7,9,,7,4,30,1,60,1,"

func csvOf(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func mustValidate(t *testing.T, input string) *Result {
	t.Helper()
	result, err := NewValidator(nil).Validate(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return result
}

// rowIssues returns the issues recorded for one line.
func rowIssues(r *Result, line int) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Row == line {
			out = append(out, is)
		}
	}
	return out
}

func TestValidate_ValidRowFillsStability(t *testing.T) {
	result := mustValidate(t, csvOf(habitHeader, validRow))

	if !result.OK() {
		t.Fatalf("expected no issues, got %v", result.Issues)
	}
	if result.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", result.RowCount)
	}
	if got := result.Rows[0]["stability"]; got != "8.0" {
		t.Errorf("stability = %q, want %q", got, "8.0")
	}
}

func TestValidate_StabilityMismatch(t *testing.T) {
	row := "2024-01-01,8,7,9,5.0,7,4,30,1,60,1,"
	result := mustValidate(t, csvOf(habitHeader, row))

	if len(result.Issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(result.Issues), result.Issues)
	}
	want := Issue{
		Row:     2,
		Column:  "stability",
		Message: "Does not match (clarity+calm+routine)/3. Existing=5.0, Computed=8.0",
	}
	if result.Issues[0] != want {
		t.Errorf("got %+v, want %+v", result.Issues[0], want)
	}
	if got := result.Rows[0]["stability"]; got != "5.0" {
		t.Errorf("stored stability was modified: %q", got)
	}
}

func TestValidate_StabilityTolerance(t *testing.T) {
	tests := []struct {
		name      string
		stability string
		wantIssue bool
	}{
		{"equal", "1.0", false},
		{"exactly 0.1 off", "1.1", false},
		{"exactly 0.1 under", "0.9", false},
		{"just over tolerance", "1.10001", true},
		{"far off", "3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := "2024-01-01,1,1,1," + tt.stability + ",7,4,30,1,60,1,"
			result := mustValidate(t, csvOf(habitHeader, row))
			if got := len(result.Issues) > 0; got != tt.wantIssue {
				t.Errorf("issue = %v, want %v (%v)", got, tt.wantIssue, result.Issues)
			}
		})
	}
}

func TestValidate_StabilityNeedsAllComponents(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"clarity blank", "2024-01-01,,7,9,,7,4,30,1,60,1,"},
		{"calm blank", "2024-01-01,8,,9,,7,4,30,1,60,1,"},
		{"routine unparsable", "2024-01-01,8,7,x,,7,4,30,1,60,1,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mustValidate(t, csvOf(habitHeader, tt.row))
			if got := result.Rows[0]["stability"]; got != "" {
				t.Errorf("stability = %q, want untouched blank", got)
			}
			for _, is := range result.Issues {
				if is.Column == "stability" {
					t.Errorf("unexpected stability issue: %+v", is)
				}
			}
		})
	}
}

func TestValidate_StabilityUsesOutOfRangeComponents(t *testing.T) {
	// clarity 13 is out of range but still feeds the computation.
	row := "2024-01-01,13,7,10,,7,4,30,1,60,1,"
	result := mustValidate(t, csvOf(habitHeader, row))

	if len(result.Issues) != 1 || result.Issues[0].Column != "clarity" {
		t.Fatalf("want one clarity issue, got %v", result.Issues)
	}
	if got := result.Rows[0]["stability"]; got != "10.0" {
		t.Errorf("stability = %q, want %q", got, "10.0")
	}
}

func TestValidate_UnparsableStabilityIsRefilled(t *testing.T) {
	row := "2024-01-01,8,7,9,high,7,4,30,1,60,1,"
	result := mustValidate(t, csvOf(habitHeader, row))

	if len(result.Issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(result.Issues), result.Issues)
	}
	if result.Issues[0].Message != "Not a number: 'high'" {
		t.Errorf("message = %q", result.Issues[0].Message)
	}
	if got := result.Rows[0]["stability"]; got != "8.0" {
		t.Errorf("stability = %q, want %q", got, "8.0")
	}
}

func TestValidate_InfiniteStabilityMessages(t *testing.T) {
	t.Run("overflowing stored stability", func(t *testing.T) {
		result := mustValidate(t, csvOf(habitHeader, "2024-01-01,8,7,9,1e400,7,4,30,1,60,1,"))

		got := rowIssues(result, 2)
		want := []string{
			"Out of range 0.0–10.0: inf",
			"Does not match (clarity+calm+routine)/3. Existing=inf, Computed=8.0",
		}
		if len(got) != len(want) {
			t.Fatalf("got %d issues %v, want %d", len(got), got, len(want))
		}
		for i := range want {
			if got[i].Message != want[i] {
				t.Errorf("issue %d = %q, want %q", i, got[i].Message, want[i])
			}
		}
	})

	t.Run("overflowing component fills inf", func(t *testing.T) {
		result := mustValidate(t, csvOf(habitHeader, "2024-01-01,1e400,7,9,,7,4,30,1,60,1,"))

		if got := result.Rows[0][schema.ColStability]; got != "inf" {
			t.Errorf("stability = %q, want %q", got, "inf")
		}
	})
}

func TestValidateHeader(t *testing.T) {
	v := NewValidator(nil)
	cols := strings.Split(habitHeader, ",")

	reversed := make([]string, len(cols))
	for i, c := range cols {
		reversed[len(cols)-1-i] = c
	}

	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"exact", cols, nil},
		{"any order", reversed, nil},
		{
			"missing two",
			cols[2:],
			[]string{"Missing columns: date, clarity"},
		},
		{
			"extras",
			append(append([]string{}, cols...), "mood", "weather"),
			[]string{"Unexpected extra columns: mood, weather"},
		},
		{
			"missing and extra",
			append([]string{"Date"}, cols[1:]...),
			[]string{"Missing columns: date", "Unexpected extra columns: Date"},
		},
		{
			"whitespace is significant",
			append([]string{" date"}, cols[1:]...),
			[]string{"Missing columns: date", "Unexpected extra columns:  date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := v.ValidateHeader(tt.header)
			if len(issues) != len(tt.want) {
				t.Fatalf("got %d issues, want %d: %v", len(issues), len(tt.want), issues)
			}
			for i, is := range issues {
				if is.Row != 0 || is.Column != HeaderColumn {
					t.Errorf("issue %d at (%d, %q), want (0, %q)", i, is.Row, is.Column, HeaderColumn)
				}
				if is.Message != tt.want[i] {
					t.Errorf("issue %d = %q, want %q", i, is.Message, tt.want[i])
				}
			}
		})
	}
}

func TestValidate_HeaderIssuesDoNotBlockRows(t *testing.T) {
	header := habitHeader + ",mood"
	row := validRow + ",good"
	result := mustValidate(t, csvOf(header, row, "2024-01-01,8,7,9,,7,4,30,1,60,1,,ok"))

	if result.RowCount != 2 {
		t.Errorf("RowCount = %d, want 2", result.RowCount)
	}
	if len(result.Issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(result.Issues), result.Issues)
	}
	if !result.Issues[0].IsHeader() {
		t.Errorf("first issue should be header-level: %+v", result.Issues[0])
	}
	if result.Issues[1].Message != "Duplicate date: 2024-01-01" {
		t.Errorf("second issue = %+v", result.Issues[1])
	}
}

func TestValidate_EmptyFile(t *testing.T) {
	for _, input := range []string{"", "\n\n"} {
		result := mustValidate(t, input)

		if result.RowCount != 0 {
			t.Errorf("RowCount = %d, want 0", result.RowCount)
		}
		want := Issue{Row: 0, Column: "", Message: MsgNoHeader}
		if len(result.Issues) != 1 || result.Issues[0] != want {
			t.Errorf("got %v, want [%+v]", result.Issues, want)
		}
		if result.Header != nil {
			t.Errorf("Header = %v, want nil", result.Header)
		}
	}
}

func TestValidate_HeaderOnly(t *testing.T) {
	result := mustValidate(t, csvOf(habitHeader))
	if !result.OK() || result.RowCount != 0 {
		t.Errorf("got issues=%v rows=%d, want none/0", result.Issues, result.RowCount)
	}
}

func TestValidate_MissingDate(t *testing.T) {
	row := " ,8,7,9,,7,4,30,1,60,1,"
	result := mustValidate(t, csvOf(habitHeader, row))

	want := []Issue{{Row: 2, Column: "date", Message: MsgMissingDate}}
	if len(result.Issues) != 1 || result.Issues[0] != want[0] {
		t.Errorf("got %v, want %v", result.Issues, want)
	}
}

func TestValidate_DuplicateDate(t *testing.T) {
	result := mustValidate(t, csvOf(
		habitHeader,
		validRow,
		"2024-01-02,8,7,9,,7,4,30,1,60,1,",
		"  2024-01-01  ,8,7,9,,7,4,30,1,60,1,",
		"2024-1-1,8,7,9,,7,4,30,1,60,1,",
	))

	if got := rowIssues(result, 2); len(got) != 0 {
		t.Errorf("first occurrence flagged: %v", got)
	}
	got := rowIssues(result, 4)
	if len(got) != 1 || got[0].Message != "Duplicate date: 2024-01-01" {
		t.Errorf("line 4 issues = %v", got)
	}
	if got := rowIssues(result, 5); len(got) != 0 {
		t.Errorf("differently formatted date flagged as duplicate: %v", got)
	}
}

func TestValidate_DuplicateDateEveryRepeat(t *testing.T) {
	result := mustValidate(t, csvOf(habitHeader, validRow, validRow, validRow))
	if len(result.Issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(result.Issues), result.Issues)
	}
	if result.Issues[0].Row != 3 || result.Issues[1].Row != 4 {
		t.Errorf("rows = %d, %d; want 3, 4", result.Issues[0].Row, result.Issues[1].Row)
	}
}

func TestValidate_NumericChecks(t *testing.T) {
	tests := []struct {
		name       string
		column     string
		value      string
		wantIssues []string
	}{
		{"non-integer in range", "exercise_minutes", "30.5", []string{"Expected integer, got: 30.5"}},
		{"integral float accepted", "exercise_minutes", "30.0", nil},
		{"out of range", "exercise_minutes", "400", []string{"Out of range 0.0–300.0: 400.0"}},
		{"out of range and non-integer", "exercise_minutes", "400.5", []string{
			"Out of range 0.0–300.0: 400.5", "Expected integer, got: 400.5",
		}},
		{"below minimum", "sleep_quality", "0", []string{"Out of range 1.0–5.0: 0.0"}},
		{"not a number", "sleep_hours", "seven", []string{"Not a number: 'seven'"}},
		{"float column allows fraction", "sleep_hours", "7.25", nil},
		{"negative", "caffeine_units", "-1", []string{"Out of range 0.0–20.0: -1.0"}},
		{"upper bound inclusive", "social_minutes", "1440", nil},
		{"stressors too high", "stressors", "4", []string{"Out of range 0.0–3.0: 4.0"}},
		{"blank allowed", "sleep_hours", "", nil},
	}

	cols := strings.Split(habitHeader, ",")
	base := strings.Split(validRow, ",")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := append([]string{}, base...)
			for i, c := range cols {
				if c == tt.column {
					fields[i] = tt.value
				}
			}
			result := mustValidate(t, csvOf(habitHeader, strings.Join(fields, ",")))

			if len(result.Issues) != len(tt.wantIssues) {
				t.Fatalf("got %d issues, want %d: %v", len(result.Issues), len(tt.wantIssues), result.Issues)
			}
			for i, is := range result.Issues {
				if is.Column != tt.column || is.Row != 2 {
					t.Errorf("issue %d at (%d, %q), want (2, %q)", i, is.Row, is.Column, tt.column)
				}
				if is.Message != tt.wantIssues[i] {
					t.Errorf("issue %d = %q, want %q", i, is.Message, tt.wantIssues[i])
				}
			}
		})
	}
}

func TestValidate_ManyIssuesOneRow(t *testing.T) {
	row := ",11,x,9,,20,6,30.5,1,60,1,"
	result := mustValidate(t, csvOf(habitHeader, row))

	wantCols := []string{"date", "clarity", "calm", "sleep_hours", "sleep_quality", "exercise_minutes"}
	if len(result.Issues) != len(wantCols) {
		t.Fatalf("got %d issues, want %d: %v", len(result.Issues), len(wantCols), result.Issues)
	}
	for i, col := range wantCols {
		if result.Issues[i].Column != col {
			t.Errorf("issue %d column = %q, want %q", i, result.Issues[i].Column, col)
		}
	}
	if len(result.Rows) != 1 {
		t.Errorf("row not kept: %d rows", len(result.Rows))
	}
}

func TestValidate_CleansWhitespace(t *testing.T) {
	row := " 2024-01-01 , 8 ,7,9,,7,4,30,1,60,1,  felt fine  "
	result := mustValidate(t, csvOf(habitHeader, row))

	if !result.OK() {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
	got := result.Rows[0]
	if got["date"] != "2024-01-01" || got["clarity"] != "8" || got["notes"] != "felt fine" {
		t.Errorf("row not cleaned: %v", got)
	}
}

func TestValidate_QuotedFields(t *testing.T) {
	row := `2024-01-01,8,7,9,,7,4,30,1,60,1,"long day, ""tired"""`
	result := mustValidate(t, csvOf(habitHeader, row))

	if !result.OK() {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
	if got := result.Rows[0]["notes"]; got != `long day, "tired"` {
		t.Errorf("notes = %q", got)
	}
}

func TestValidate_ShortRow(t *testing.T) {
	result := mustValidate(t, csvOf(habitHeader, "2024-01-01,8,7,9"))

	if !result.OK() {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
	row := result.Rows[0]
	if _, ok := row["notes"]; ok {
		t.Errorf("absent cell should not be present in row: %v", row)
	}
	if row["stability"] != "8.0" {
		t.Errorf("stability = %q, want filled", row["stability"])
	}
}

func TestValidate_LineNumbersCountRecords(t *testing.T) {
	input := habitHeader + "\n\n" + " ,8,7,9,,7,4,30,1,60,1,\n"
	result := mustValidate(t, input)

	if len(result.Issues) != 1 || result.Issues[0].Row != 2 {
		t.Errorf("got %v, want one issue on line 2", result.Issues)
	}
}

func TestValidate_BOM(t *testing.T) {
	input := "\xEF\xBB\xBF" + csvOf(habitHeader, validRow)
	result := mustValidate(t, input)

	if !result.OK() {
		t.Errorf("BOM leaked into header: %v", result.Issues)
	}
}

func TestValidate_InvalidUTF8(t *testing.T) {
	input := csvOf(habitHeader, "2024-01-01,8,7,9,,7,4,30,1,60,1,caf\xe9")
	_, err := NewValidator(nil).Validate(context.Background(), strings.NewReader(input))
	if err == nil {
		t.Fatal("expected encoding error")
	}
	if MapError(err).Code != "FILE003" {
		t.Errorf("code = %q, want FILE003", MapError(err).Code)
	}
}

func TestValidate_AlternateSchema(t *testing.T) {
	s := schema.MustNew([]schema.FieldSpec{
		{Name: "date", Type: schema.FieldDate},
		{Name: "steps", Type: schema.FieldNumeric, Range: &schema.Range{Lo: 0, Hi: 50000}, Integer: true},
	})
	v := NewValidator(s)

	result, err := v.Validate(context.Background(), strings.NewReader(csvOf("date,steps", "2024-01-01,60000", "2024-01-02,12.5")))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want := []string{"Out of range 0.0–50000.0: 60000.0", "Expected integer, got: 12.5"}
	if len(result.Issues) != len(want) {
		t.Fatalf("got %v", result.Issues)
	}
	for i := range want {
		if result.Issues[i].Message != want[i] {
			t.Errorf("issue %d = %q, want %q", i, result.Issues[i].Message, want[i])
		}
	}
}
