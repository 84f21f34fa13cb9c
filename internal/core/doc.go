// Package core validates habit-tracking CSV files.
//
// This package holds all domain logic independent of the CLI or HTTP
// surface. A single linear pass reads the file, checks the header against
// the fixed [schema.Schema], and runs every data row through the same
// sequence of checks:
//
//  1. Clean: trim surrounding whitespace from every value
//  2. Date: missing or repeated dates
//  3. Numeric: parse, range and integer checks for ranged columns
//  4. Stability: fill a blank stability from (clarity+calm+routine)/3 or
//     flag a stored value that disagrees with it
//
// # Issues vs errors
//
// Problems found in the data are collected as [Issue] values and never
// stop the pass; a row can carry any number of them. Go errors are
// reserved for environment failures: the file cannot be opened, read or
// written. These are wrapped around the sentinels in this package and
// mapped to user-facing messages with [MapError].
//
// # Write-back
//
// When requested, the cleaned rows are written back in canonical column
// order once the whole file has been read. [WriteFile] writes to a
// temporary sibling and renames it over the target, so a failure never
// leaves a half-written file behind.
package core
