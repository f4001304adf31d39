package core

// errors.go defines the import error taxonomy and the coded messages shown
// to operators.
//
// # Error Codes Reference
//
// Import errors (IMP001-IMP099), all fatal for the file:
//
//	IMP001 - Column count: a row does not have the expected number of columns
//	         Action: Check that the file was produced by the matching parser
//	IMP002 - Release not found: the app/version has no release row
//	         Action: Register the release before importing its results
//	IMP003 - Input not found: the input file does not exist
//	         Action: Check the --packetfile / --permfile path
//
// Validation errors (VAL001-VAL099), the row is skipped:
//
//	VAL001 - Invalid timestamp
//	VAL002 - Invalid integer
//	VAL003 - Invalid flag (must be 0 or 1)
//	VAL004 - Value out of range
//
// Database errors (DB004-DB099) are matched on the error text, first match
// wins. ERR000 is the fallback.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Fatal errors. Any of these aborts the file being imported.
var (
	ErrColumnCount     = errors.New("unexpected column count")
	ErrReleaseNotFound = errors.New("release not found")
	ErrInputNotFound   = errors.New("input file not found")
)

// Field errors. These are wrapped in a ValidationError and only skip the row.
var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidInteger   = errors.New("invalid integer")
	ErrInvalidFlag      = errors.New("invalid flag")
	ErrOutOfRange       = errors.New("value out of range")
)

// ValidationError describes why a single field rejected its row.
type ValidationError struct {
	Field string // Column name
	Value string // The raw cell
	Err   error  // Wraps one of the field errors above
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (value %q)", e.Field, e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UserMessage provides operator-facing error information.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{ErrColumnCount, UserMessage{
		Message: "A row does not have the expected number of columns",
		Action:  "Check that the file was produced by the matching parser",
		Code:    "IMP001",
	}},
	{ErrReleaseNotFound, UserMessage{
		Message: "The app/version has not been registered as a release",
		Action:  "Register the release before importing its results",
		Code:    "IMP002",
	}},
	{ErrInputNotFound, UserMessage{
		Message: "The input file does not exist",
		Action:  "Check the --packetfile / --permfile path",
		Code:    "IMP003",
	}},
	{ErrInvalidTimestamp, UserMessage{
		Message: "Invalid log timestamp",
		Action:  "Expected MM-DD HH:MM:SS.ffffff",
		Code:    "VAL001",
	}},
	{ErrInvalidInteger, UserMessage{
		Message: "Invalid integer",
		Action:  "Numeric columns must contain whole numbers",
		Code:    "VAL002",
	}},
	{ErrInvalidFlag, UserMessage{
		Message: "Invalid flag",
		Action:  "Flag columns must be 0 or 1",
		Code:    "VAL003",
	}},
	{ErrOutOfRange, UserMessage{
		Message: "Value out of range",
		Action:  "Check version codes are non-negative and ports are 0-65535",
		Code:    "VAL004",
	}},
	{context.Canceled, UserMessage{
		Message: "Import was cancelled",
		Action:  "Re-run the import; the cancelled file was rolled back",
		Code:    "UPL004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "A database operation timed out",
		Action:  "Check database load or raise DB_QUERY_TIMEOUT",
		Code:    "UPL005",
	}},
}

// errorPatterns are matched case-insensitively against the error text when
// no sentinel matched.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Check the host and port in the credentials file",
		Code:    "DB004",
	}},
	{"password authentication failed", UserMessage{
		Message: "Database rejected the credentials",
		Action:  "Check user and password in the credentials file",
		Code:    "DB008",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for the underlying error",
	Code:    "ERR000",
}

// MapError converts an error to a coded operator message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats an error as "[CODE] message. action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Code == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s. %s", msg.Code, msg.Message, msg.Action)
}
