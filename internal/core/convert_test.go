package core

import (
	"errors"
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ResolveLogTimestamp Tests
// ----------------------------------------------------------------------------

func TestResolveLogTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		now   time.Time
		want  time.Time
	}{
		{
			name:  "entry after reference falls back one year",
			input: "06-06 15:39:47.707",
			now:   time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2020, 6, 6, 15, 39, 47, 0, time.UTC),
		},
		{
			name:  "entry before reference keeps current year",
			input: "06-06 15:39:47.707",
			now:   time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2021, 6, 6, 15, 39, 47, 0, time.UTC),
		},
		{
			name:  "entry equal to reference keeps current year",
			input: "03-15 12:00:00.0",
			now:   time.Date(2022, 3, 15, 12, 0, 0, 0, time.UTC),
			want:  time.Date(2022, 3, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "year boundary",
			input: "12-31 23:59:59.999999",
			now:   time.Date(2023, 1, 1, 0, 5, 0, 0, time.UTC),
			want:  time.Date(2022, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:  "six fractional digits",
			input: "01-02 03:04:05.123456",
			now:   time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			name:  "reference in another zone is converted to UTC",
			input: "06-01 23:30:00.0",
			now:   time.Date(2021, 6, 2, 1, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			want:  time.Date(2020, 6, 1, 23, 30, 0, 0, time.UTC),
		},
		{
			name:  "leap day in a leap year",
			input: "02-29 10:00:00.0",
			now:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day falls back into a leap year",
			input: "02-29 10:00:00.0",
			now:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLogTimestamp(tt.input, tt.now)
			if err != nil {
				t.Fatalf("ResolveLogTimestamp(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ResolveLogTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ResolveLogTimestamp(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}

func TestResolveLogTimestamp_EpochSeconds(t *testing.T) {
	got, err := ResolveLogTimestamp("06-06 15:39:47.707", time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2020-06-06T15:39:47Z
	if got.Unix() != 1591457987 {
		t.Errorf("Unix() = %d, want 1591457987", got.Unix())
	}
}

func TestResolveLogTimestamp_NeverAfterReference(t *testing.T) {
	now := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)
	inputs := []string{
		"01-01 00:00:00.0",
		"06-15 11:59:59.999",
		"06-15 12:00:00.5",
		"06-15 12:00:01.0",
		"12-31 23:59:59.999999",
	}

	for _, in := range inputs {
		got, err := ResolveLogTimestamp(in, now)
		if err != nil {
			t.Fatalf("ResolveLogTimestamp(%q) unexpected error: %v", in, err)
		}
		if got.After(now) {
			t.Errorf("ResolveLogTimestamp(%q) = %v, after reference %v", in, got, now)
		}
		if got.Format("01-02 15:04:05") != in[:14] {
			t.Errorf("ResolveLogTimestamp(%q) = %v, month/day/time changed", in, got)
		}
	}
}

func TestResolveLogTimestamp_Invalid(t *testing.T) {
	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	inputs := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"placeholder zero", "0"},
		{"day 32", "01-32 00:00:00.0"},
		{"month 13", "13-01 00:00:00.0"},
		{"hour 24", "01-01 24:00:00.0"},
		{"feb 30", "02-30 00:00:00.0"},
		{"missing fraction", "06-06 15:39:47"},
		{"too many fractional digits", "06-06 15:39:47.1234567"},
		{"with year", "2021-06-06 15:39:47.707"},
		{"single digit month", "6-06 15:39:47.707"},
		{"trailing space", "06-06 15:39:47.707 "},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveLogTimestamp(tt.input, now)
			if err == nil {
				t.Fatalf("ResolveLogTimestamp(%q) expected error, got nil", tt.input)
			}
			if !errors.Is(err, ErrInvalidTimestamp) {
				t.Errorf("ResolveLogTimestamp(%q) error = %v, want ErrInvalidTimestamp", tt.input, err)
			}
		})
	}
}

func TestResolveLogTimestamp_LeapDayOutsideLeapYear(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"common year, entry before reference", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"common year, entry after reference", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"leap year, entry after reference", time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLogTimestamp("02-29 10:00:00.0", tt.now)
			if !errors.Is(err, ErrInvalidTimestamp) {
				t.Fatalf("ResolveLogTimestamp() = %v, %v, want ErrInvalidTimestamp", got, err)
			}
			if code := MapError(err).Code; code != "VAL001" {
				t.Errorf("MapError() code = %q, want VAL001", code)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Integer Parsing Tests
// ----------------------------------------------------------------------------

func TestParseInteger(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr error
	}{
		{"0", 0, nil},
		{"42", 42, nil},
		{"-7", -7, nil},
		{" 443 ", 443, nil},
		{"+5", 5, nil},
		{"", 0, ErrInvalidInteger},
		{"http", 0, ErrInvalidInteger},
		{"1.5", 0, ErrInvalidInteger},
		{"1e3", 0, ErrInvalidInteger},
		{"99999999999999999999", 0, ErrInvalidInteger},
	}

	for _, tt := range tests {
		got, err := ParseInteger(tt.input)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseInteger(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInteger(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseCount(t *testing.T) {
	if got, err := ParseCount("1200"); err != nil || got != 1200 {
		t.Errorf("ParseCount(1200) = %d, %v", got, err)
	}
	if _, err := ParseCount("-1"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ParseCount(-1) error = %v, want ErrOutOfRange", err)
	}
	if _, err := ParseCount("abc"); !errors.Is(err, ErrInvalidInteger) {
		t.Errorf("ParseCount(abc) error = %v, want ErrInvalidInteger", err)
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int32
		wantErr error
	}{
		{"0", 0, nil},
		{"443", 443, nil},
		{"65535", 65535, nil},
		{"65536", 0, ErrOutOfRange},
		{"-1", 0, ErrOutOfRange},
		{"http", 0, ErrInvalidInteger},
	}

	for _, tt := range tests {
		got, err := ParsePort(tt.input)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParsePort(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePort(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr error
	}{
		{"0", false, nil},
		{"1", true, nil},
		{" 1", true, nil},
		{"2", false, ErrInvalidFlag},
		{"-1", false, ErrInvalidFlag},
		{"true", false, ErrInvalidInteger},
		{"", false, ErrInvalidInteger},
	}

	for _, tt := range tests {
		got, err := ParseFlag(tt.input)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseFlag(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// ToPgText Tests
// ----------------------------------------------------------------------------

func TestToPgText(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		wantValue string
	}{
		{"api.example.com", true, "api.example.com"},
		{"  api.example.com ", true, "api.example.com"},
		{"", false, ""},
		{"   ", false, ""},
	}

	for _, tt := range tests {
		got := ToPgText(tt.input)
		if got.Valid != tt.wantValid || got.String != tt.wantValue {
			t.Errorf("ToPgText(%q) = {%q, %v}, want {%q, %v}", tt.input, got.String, got.Valid, tt.wantValue, tt.wantValid)
		}
	}
}
