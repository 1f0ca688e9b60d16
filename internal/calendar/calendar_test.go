package calendar

import (
	"testing"
	"time"
)

func TestTodayUsesReferenceZone(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in UTC+8.
	now := func() time.Time {
		return time.Date(2024, time.January, 1, 23, 30, 0, 0, time.UTC)
	}
	got := Today(now)
	want := NewDate(2024, time.January, 2)
	if got != want {
		t.Errorf("Today() = %v, want %v", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	d, err := Parse("2024-02-29")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("round trip = %q, want %q", d.String(), "2024-02-29")
	}

	if _, err := Parse("not-a-date"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestWeekday(t *testing.T) {
	// 2024-01-07 is a Sunday.
	if got := NewDate(2024, time.January, 7).Weekday(); got != 0 {
		t.Errorf("Weekday() = %d, want 0", got)
	}
	if got := NewDate(2024, time.January, 8).Weekday(); got != 1 {
		t.Errorf("Weekday() = %d, want 1", got)
	}
}

func TestClampToMonthEnd(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
		want  Date
	}{
		{2023, time.February, 31, NewDate(2023, time.February, 28)},
		{2024, time.February, 31, NewDate(2024, time.February, 29)},
		{2024, time.April, 31, NewDate(2024, time.April, 30)},
		{2024, time.January, 15, NewDate(2024, time.January, 15)},
	}
	for _, tt := range tests {
		if got := ClampToMonthEnd(tt.year, tt.month, tt.day); got != tt.want {
			t.Errorf("ClampToMonthEnd(%d, %v, %d) = %v, want %v", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}

func TestAddMonthsClamps(t *testing.T) {
	// Jan 31 + 1 month stays in February.
	got := NewDate(2023, time.January, 31).AddMonths(1)
	if got != NewDate(2023, time.February, 28) {
		t.Errorf("AddMonths(1) = %v, want 2023-02-28", got)
	}

	// December rolls the year.
	got = NewDate(2023, time.December, 15).AddMonths(1)
	if got != NewDate(2024, time.January, 15) {
		t.Errorf("AddMonths(1) = %v, want 2024-01-15", got)
	}
}

func TestAddYearsLeapDay(t *testing.T) {
	got := NewDate(2024, time.February, 29).AddYears(1)
	if got != NewDate(2025, time.February, 28) {
		t.Errorf("AddYears(1) = %v, want 2025-02-28", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := NewDate(2024, time.February, 28)
	b := NewDate(2024, time.March, 1)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("DaysBetween = %d, want 2 (leap year)", got)
	}
	if got := DaysBetween(b, a); got != -2 {
		t.Errorf("DaysBetween reversed = %d, want -2", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("DaysBetween same day = %d, want 0", got)
	}
}

func TestBeforeAfter(t *testing.T) {
	a := NewDate(2024, time.March, 1)
	b := NewDate(2024, time.March, 2)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before ordering wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After ordering wrong")
	}
	if a.Before(a) {
		t.Error("date should not be before itself")
	}
}
