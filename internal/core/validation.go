package core

// validation.go provides row-level validation for parsers.
//
// Validation happens at two levels:
//  1. Shape: CheckColumns rejects rows of the wrong width. This is fatal,
//     since it means the file is not what the generator produces.
//  2. Cells: FieldReader decodes cells one by one and keeps the first
//     failure, which becomes the row's skip reason.

import (
	"fmt"
	"time"
)

// CheckColumns returns an ErrColumnCount error unless row has exactly one
// cell per spec.
func CheckColumns(row []string, specs []FieldSpec) error {
	if len(row) != len(specs) {
		return fmt.Errorf("%w: expected %d columns, got %d (%q)", ErrColumnCount, len(specs), len(row), row)
	}
	return nil
}

// FieldReader decodes the cells of one row in order. After the first
// failure every accessor returns the zero value and Err reports that failure.
//
// Callers must run CheckColumns first; indexes are not bounds checked.
type FieldReader struct {
	row   []string
	specs []FieldSpec
	now   time.Time
	err   *ValidationError
}

// NewFieldReader returns a reader over row. now is the reference instant
// for log timestamps.
func NewFieldReader(row []string, specs []FieldSpec, now time.Time) *FieldReader {
	return &FieldReader{row: row, specs: specs, now: now}
}

// Err returns the first field failure, or nil.
func (r *FieldReader) Err() *ValidationError {
	return r.err
}

func (r *FieldReader) fail(i int, err error) {
	r.err = &ValidationError{Field: r.specs[i].Name, Value: r.row[i], Err: err}
}

// Text returns the raw cell.
func (r *FieldReader) Text(i int) string {
	if r.err != nil {
		return ""
	}
	return r.row[i]
}

// Count returns the cell as a non-negative integer.
func (r *FieldReader) Count(i int) int64 {
	if r.err != nil {
		return 0
	}
	n, err := ParseCount(r.row[i])
	if err != nil {
		r.fail(i, err)
		return 0
	}
	return n
}

// Port returns the cell as a port number.
func (r *FieldReader) Port(i int) int32 {
	if r.err != nil {
		return 0
	}
	n, err := ParsePort(r.row[i])
	if err != nil {
		r.fail(i, err)
		return 0
	}
	return n
}

// Flag returns the cell as a 0/1 boolean.
func (r *FieldReader) Flag(i int) bool {
	if r.err != nil {
		return false
	}
	b, err := ParseFlag(r.row[i])
	if err != nil {
		r.fail(i, err)
		return false
	}
	return b
}

// LogTime returns the cell resolved with ResolveLogTimestamp.
func (r *FieldReader) LogTime(i int) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	t, err := ResolveLogTimestamp(r.row[i], r.now)
	if err != nil {
		r.fail(i, err)
		return time.Time{}
	}
	return t
}

// fieldTypeName returns a human-readable name for a field type.
func fieldTypeName(ft FieldType) string {
	switch ft {
	case FieldText:
		return "text"
	case FieldCount:
		return "count"
	case FieldPort:
		return "port"
	case FieldFlag:
		return "flag (0/1)"
	case FieldLogTime:
		return "log timestamp"
	default:
		return "value"
	}
}

// String returns "name (type)".
func (s FieldSpec) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, fieldTypeName(s.Type))
}
