package core

// convert.go turns raw cells into typed values.
//
// The log files come from an external generator, so the rules are narrower
// than for hand-edited CSV: integers are plain base-10 numbers (surrounding
// blanks tolerated), flags are 0 or 1, and timestamps have exactly one shape.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// logTimestampRegex matches "06-06 15:39:47.707": month-day, 24h time and
// one to six fractional digits. Range checks are left to time.Parse.
var logTimestampRegex = regexp.MustCompile(`^\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{1,6}$`)

// logTimestampLayout has no fraction: time.Parse accepts a fractional second
// right after the seconds field even when the layout omits it.
const logTimestampLayout = "01-02 15:04:05"

// UnsetTimestamp is the zero timestamp stored for permissions that were
// never used. Its Unix() value is 0.
var UnsetTimestamp = time.Unix(0, 0).UTC()

// ResolveLogTimestamp converts a year-less UTC log timestamp to an absolute
// time, assuming log entries never lie in the future relative to now.
//
// The current year of now is tried first; if that puts the entry after now,
// the previous year is used. 02-29 is invalid whenever the year it lands in
// is not a leap year. The result is UTC and truncated to whole seconds.
func ResolveLogTimestamp(s string, now time.Time) (time.Time, error) {
	if !logTimestampRegex.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q is not MM-DD HH:MM:SS.ffffff", ErrInvalidTimestamp, s)
	}

	// Year 0 is a leap year, so 02-29 survives this parse.
	parsed, err := time.Parse(logTimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}

	now = now.UTC()
	t, err := inYear(parsed, now.Year())
	if err == nil && t.After(now) {
		t, err = inYear(parsed, now.Year()-1)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %v", ErrInvalidTimestamp, s, err)
	}

	return t.Truncate(time.Second), nil
}

// inYear places a parsed month-day timestamp in year. time.Date normalizes
// 02-29 of a common year to 03-01, which is reported as an error.
func inYear(parsed time.Time, year int) (time.Time, error) {
	t := time.Date(year, parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(), time.UTC)
	if t.Month() != parsed.Month() {
		return time.Time{}, fmt.Errorf("does not exist in %d", year)
	}
	return t, nil
}

// ParseInteger parses a base-10 integer, ignoring surrounding whitespace.
func ParseInteger(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrInvalidInteger
	}
	return n, nil
}

// ParseCount parses a non-negative integer such as a version code.
func ParseCount(s string) (int64, error) {
	n, err := ParseInteger(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrOutOfRange
	}
	return n, nil
}

// ParsePort parses a TCP/UDP port number.
func ParsePort(s string) (int32, error) {
	n, err := ParseInteger(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 65535 {
		return 0, ErrOutOfRange
	}
	return int32(n), nil
}

// ParseFlag parses a 0/1 integer flag.
func ParseFlag(s string) (bool, error) {
	n, err := ParseInteger(s)
	if err != nil {
		return false, err
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidFlag
	}
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid (NULL) if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
