package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/resultstodb/internal/database"
)

// FieldType represents the expected data type for a column.
type FieldType int

const (
	FieldText    FieldType = iota
	FieldCount             // non-negative integer
	FieldPort              // integer 0-65535
	FieldFlag              // integer 0 or 1
	FieldLogTime           // "MM-DD HH:MM:SS.ffffff", no year
)

// FieldSpec describes a single column of an input format.
type FieldSpec struct {
	Name string    // Column name used in logs and reports
	Type FieldType // Expected data type
}

// FormatInfo contains display information about a format.
type FormatInfo struct {
	Kind        string // Unique identifier: "transmissions"
	Label       string // Display name
	Description string
}

// RunState is the per-file state shared by every row of one import run.
type RunState struct {
	// Now is the reference instant for year inference.
	Now time.Time

	// Releases resolves release ids for this file only.
	Releases *ReleaseResolver
}

// ParseFunc validates one row and resolves its release.
//
// A malformed field yields a RowResult with Skip set and a nil error.
// A returned error is fatal for the whole file.
type ParseFunc func(ctx context.Context, row []string, st *RunState) (RowResult, error)

// Format contains everything needed to import one kind of file.
type Format struct {
	Info       FormatInfo
	FieldSpecs []FieldSpec
	Parse      ParseFunc
}

// Columns returns the exact number of columns a row must have.
func (f Format) Columns() int {
	return len(f.FieldSpecs)
}

// ColumnNames returns the column names in file order.
func (f Format) ColumnNames() []string {
	names := make([]string, len(f.FieldSpecs))
	for i, spec := range f.FieldSpecs {
		names[i] = spec.Name
	}
	return names
}

// Record is a validated row with its release resolved, ready to be stored.
type Record interface {
	Persist(ctx context.Context, q database.Querier) error
}

// RowResult is the outcome of parsing one row. Exactly one of Record and
// Skip is set.
type RowResult struct {
	Record Record
	Skip   *ValidationError
}

// Accept wraps a parsed record.
func Accept(r Record) RowResult {
	return RowResult{Record: r}
}

// Skip marks the row as skipped for the given reason.
func Skip(err *ValidationError) RowResult {
	return RowResult{Skip: err}
}

// Skipped reports whether the row was rejected.
func (r RowResult) Skipped() bool {
	return r.Skip != nil
}

// SkippedRow contains information about a row that was not imported.
type SkippedRow struct {
	LineNumber int
	Reason     string
	Data       []string
}

// ImportResult contains the final tally of one import run.
type ImportResult struct {
	RunID          string
	Format         string
	FileName       string
	DryRun         bool
	TotalRows      int
	Accepted       int // rows that passed validation and release resolution
	Persisted      int // rows committed; 0 in dry-run or after a fatal error
	Skipped        []SkippedRow
	ReleaseLookups int
	SkippedReport  string // path of the skipped-row report, if one was written
	Duration       time.Duration
}

// Row outcome labels reported to a Recorder.
const (
	OutcomePersisted = "persisted"
	OutcomeValidated = "validated" // accepted in dry-run
	OutcomeSkipped   = "skipped"
)

// Recorder receives run statistics once a file is done. See internal/metrics.
type Recorder interface {
	ObserveRows(format, outcome string, n int)
	ObserveLookups(format string, n int)
	ObserveRun(format string, d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRows(string, string, int)         {}
func (nopRecorder) ObserveLookups(string, int)              {}
func (nopRecorder) ObserveRun(string, time.Duration, error) {}
