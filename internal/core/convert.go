package core

// convert.go turns raw cell text into numbers and back.
//
// Number parsing accepts what a person types into a spreadsheet: an
// optional sign, decimals, exponents and inf. NaN and hex floats are
// rejected. Formatting mirrors the shortest round-trip form with a
// trailing ".0" on integral values, so messages read "30.5" and "400.0".

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// stabilityTolerance is the largest accepted gap between a stored and a
// computed stability. The slack absorbs float noise so 8.1 vs 8.0 passes.
const (
	stabilityTolerance = 0.1
	toleranceSlack     = 1e-9
)

// CleanCell trims surrounding whitespace from a cell value.
func CleanCell(s string) string {
	return strings.TrimSpace(s)
}

// isBlank reports whether a cleaned value carries no data.
func isBlank(s string) bool {
	return s == ""
}

// ParseNumber parses a cleaned cell as a float.
// Returns false for blank or unparsable input.
func ParseNumber(s string) (float64, bool) {
	if isBlank(s) || strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Overflow still yields ±Inf, which the range check reports.
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, false
		}
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsInteger reports whether f has no fractional part.
func IsInteger(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// formatNonFinite spells inf and nan the way the rest of the messages do.
func formatNonFinite(f float64) (string, bool) {
	switch {
	case math.IsInf(f, 1):
		return "inf", true
	case math.IsInf(f, -1):
		return "-inf", true
	case math.IsNaN(f):
		return "nan", true
	}
	return "", false
}

// FormatNumber renders f for issue messages.
func FormatNumber(f float64) string {
	if s, ok := formatNonFinite(f); ok {
		return s
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatTenths renders f with exactly one decimal place.
func FormatTenths(f float64) string {
	if s, ok := formatNonFinite(f); ok {
		return s
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// ComputeStability returns (clarity+calm+routine)/3 rounded to one decimal.
//
// Rounding is applied to the exact binary value of the mean, with exact
// ties going to the even digit.
func ComputeStability(clarity, calm, routine float64) float64 {
	mean := (clarity + calm + routine) / 3.0
	rounded, err := strconv.ParseFloat(FormatTenths(mean), 64)
	if err != nil {
		return mean
	}
	return rounded
}

// stabilityMatches reports whether existing is within tolerance of computed.
func stabilityMatches(existing, computed float64) bool {
	return math.Abs(existing-computed) <= stabilityTolerance+toleranceSlack
}
