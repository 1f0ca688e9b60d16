package recur

import (
	"testing"
	"time"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
)

// 2024-01-08 is a Monday.
var monday = calendar.NewDate(2024, time.January, 8)

func TestComputeInitialDaily(t *testing.T) {
	got, period := ComputeInitial(models.CycleDaily, "", monday)
	if got != monday.AddDays(1) {
		t.Errorf("daily initial = %v, want %v", got, monday.AddDays(1))
	}
	if period != "" {
		t.Errorf("daily period = %q, want empty", period)
	}
}

func TestComputeInitialWeekly(t *testing.T) {
	// Same weekday never schedules today; it rolls a full week.
	got, _ := ComputeInitial(models.CycleWeekly, "1", monday)
	if got != monday.AddDays(7) {
		t.Errorf("weekly same-day initial = %v, want %v", got, monday.AddDays(7))
	}

	// Monday targeting Wednesday lands two days out.
	got, _ = ComputeInitial(models.CycleWeekly, "3", monday)
	if got != monday.AddDays(2) {
		t.Errorf("weekly initial = %v, want %v", got, monday.AddDays(2))
	}

	// Monday targeting Sunday wraps to six days out.
	got, _ = ComputeInitial(models.CycleWeekly, "0", monday)
	if got != monday.AddDays(6) {
		t.Errorf("weekly wrap initial = %v, want %v", got, monday.AddDays(6))
	}
}

func TestComputeInitialWeeklyInvalidPeriod(t *testing.T) {
	// Garbage falls back to Monday.
	_, period := ComputeInitial(models.CycleWeekly, "banana", monday)
	if period != "1" {
		t.Errorf("normalized period = %q, want %q", period, "1")
	}
	_, period = ComputeInitial(models.CycleWeekly, "9", monday)
	if period != "1" {
		t.Errorf("out-of-range period = %q, want %q", period, "1")
	}
}

func TestComputeInitialMonthly(t *testing.T) {
	feb15 := calendar.NewDate(2023, time.February, 15)

	// Day 31 in February clamps to the 28th, not March.
	got, _ := ComputeInitial(models.CycleMonthly, "31", feb15)
	if got != calendar.NewDate(2023, time.February, 28) {
		t.Errorf("monthly clamp = %v, want 2023-02-28", got)
	}

	// Leap year clamps to the 29th.
	got, _ = ComputeInitial(models.CycleMonthly, "31", calendar.NewDate(2024, time.February, 15))
	if got != calendar.NewDate(2024, time.February, 29) {
		t.Errorf("monthly leap clamp = %v, want 2024-02-29", got)
	}

	// Past day rolls to next month.
	got, _ = ComputeInitial(models.CycleMonthly, "10", feb15)
	if got != calendar.NewDate(2023, time.March, 10) {
		t.Errorf("monthly rollover = %v, want 2023-03-10", got)
	}

	// December rolls the year.
	got, _ = ComputeInitial(models.CycleMonthly, "5", calendar.NewDate(2023, time.December, 20))
	if got != calendar.NewDate(2024, time.January, 5) {
		t.Errorf("monthly year rollover = %v, want 2024-01-05", got)
	}

	// Same day schedules this month.
	got, _ = ComputeInitial(models.CycleMonthly, "15", feb15)
	if got != feb15 {
		t.Errorf("monthly same-day = %v, want %v", got, feb15)
	}
}

func TestComputeInitialYearly(t *testing.T) {
	// Feb 29 on a non-leap reference year clamps to Feb 28.
	ref := calendar.NewDate(2023, time.January, 10)
	got, period := ComputeInitial(models.CycleYearly, "2-29", ref)
	if got != calendar.NewDate(2023, time.February, 28) {
		t.Errorf("yearly leap clamp = %v, want 2023-02-28", got)
	}
	if period != "2-29" {
		t.Errorf("normalized period = %q, want %q", period, "2-29")
	}

	// A slot already past rolls to next year.
	ref = calendar.NewDate(2023, time.June, 10)
	got, _ = ComputeInitial(models.CycleYearly, "3-15", ref)
	if got != calendar.NewDate(2024, time.March, 15) {
		t.Errorf("yearly rollover = %v, want 2024-03-15", got)
	}

	// Malformed pair falls back to Jan 1 (of next year when Jan 1 passed).
	_, period = ComputeInitial(models.CycleYearly, "not-a-pair", ref)
	if period != "1-1" {
		t.Errorf("fallback period = %q, want %q", period, "1-1")
	}
}

func TestAdvanceFixedOffset(t *testing.T) {
	ref := calendar.NewDate(2024, time.January, 10)

	if got := Advance(models.CycleDaily, ref); got != ref.AddDays(1) {
		t.Errorf("daily advance = %v", got)
	}
	if got := Advance(models.CycleWeekly, ref); got != ref.AddDays(7) {
		t.Errorf("weekly advance = %v", got)
	}
	if got := Advance(models.CycleMonthly, ref); got != calendar.NewDate(2024, time.February, 10) {
		t.Errorf("monthly advance = %v", got)
	}
	if got := Advance(models.CycleYearly, ref); got != calendar.NewDate(2025, time.January, 10) {
		t.Errorf("yearly advance = %v", got)
	}
}

func TestAdvanceRollsOverflow(t *testing.T) {
	// Advancing from Jan 31 rolls into March, matching setMonth-style
	// normalization rather than a month-end clamp.
	got := Advance(models.CycleMonthly, calendar.NewDate(2023, time.January, 31))
	if got != calendar.NewDate(2023, time.March, 3) {
		t.Errorf("monthly overflow advance = %v, want 2023-03-03", got)
	}
}
