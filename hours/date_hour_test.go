package hours

import (
	"testing"
	"time"
)

func TestDateHourString(t *testing.T) {
	dh := DateHour{Date: "2025-01-01", Hour: 5}
	expected := "2025-01-01 05"
	if s := dh.String(); s != expected {
		t.Errorf("String() expected %q, got %q", expected, s)
	}
}

func TestDateHourIsoString(t *testing.T) {
	dh := DateHour{Date: "2025-01-01", Hour: 15}
	expected := "2025-01-01T15:00:00Z"
	if s := dh.IsoString(); s != expected {
		t.Errorf("IsoString() expected %q, got %q", expected, s)
	}
}

func TestDateHourToTime(t *testing.T) {
	dh := DateHour{Date: "2025-01-01", Hour: 15}
	expected := time.Date(2025, time.January, 1, 15, 0, 0, 0, time.UTC)
	if got := dh.ToTime(); !got.Equal(expected) {
		t.Errorf("ToTime() expected %v, got %v", expected, got)
	}

	var zero DateHour
	if !zero.ToTime().IsZero() {
		t.Errorf("ToTime() on zero DateHour expected zero time")
	}
}

func TestDateHourAdd(t *testing.T) {
	tests := []struct {
		name     string
		input    DateHour
		addHours int
		expected DateHour
	}{
		{
			name:     "add within same day",
			input:    DateHour{Date: "2025-01-01", Hour: 10},
			addHours: 2,
			expected: DateHour{Date: "2025-01-01", Hour: 12},
		},
		{
			name:     "add crossing midnight",
			input:    DateHour{Date: "2025-01-01", Hour: 23},
			addHours: 2,
			expected: DateHour{Date: "2025-01-02", Hour: 1},
		},
		{
			name:     "add negative hours (subtract)",
			input:    DateHour{Date: "2025-01-01", Hour: 1},
			addHours: -2,
			expected: DateHour{Date: "2024-12-31", Hour: 23},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.input.Add(tt.addHours)
			if result != tt.expected {
				t.Errorf("Add(%d) expected %+v, got %+v", tt.addHours, tt.expected, result)
			}
		})
	}
}

func TestDateHourIsZero(t *testing.T) {
	var dh DateHour
	if !dh.IsZero() {
		t.Errorf("expected a zero value DateHour to be zero")
	}
	dh = DateHour{Date: "2025-01-01", Hour: 0}
	if dh.IsZero() {
		t.Errorf("expected a non-zero DateHour (non-empty Date) not to be zero")
	}
}

func TestFromTime(t *testing.T) {
	tm := time.Date(2025, time.January, 1, 15, 30, 0, 0, time.UTC)
	dh := FromTime(tm)
	expected := DateHour{Date: "2025-01-01", Hour: 15}
	if dh != expected {
		t.Errorf("FromTime() expected %+v, got %+v", expected, dh)
	}

	var zero time.Time
	if !FromTime(zero).IsZero() {
		t.Errorf("FromTime() with zero time expected a zero DateHour")
	}
}

func TestNextWholeHour(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "mid hour",
			input:    time.Date(2025, time.January, 1, 10, 42, 13, 0, time.UTC),
			expected: time.Date(2025, time.January, 1, 11, 0, 0, 0, time.UTC),
		},
		{
			name:     "exactly on the hour",
			input:    time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC),
			expected: time.Date(2025, time.January, 1, 11, 0, 0, 0, time.UTC),
		},
		{
			name:     "crossing midnight",
			input:    time.Date(2025, time.January, 1, 23, 59, 59, 0, time.UTC),
			expected: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextWholeHour(tt.input); !got.Equal(tt.expected) {
				t.Errorf("NextWholeHour() expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMarketDay(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in CET.
	tm := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.UTC)
	if got := MarketDay(tm); got != "2025-01-02" {
		t.Errorf("MarketDay() expected 2025-01-02, got %s", got)
	}
}
