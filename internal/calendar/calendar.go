// Package calendar provides pure date arithmetic under a fixed UTC+8
// reference clock. It is the sole source of "now" for the task layer;
// only the pomodoro timer reads wall-clock time elsewhere.
package calendar

import (
	"fmt"
	"time"
)

// Beijing is the fixed reference zone for all date computations.
var Beijing = time.FixedZone("UTC+8", 8*60*60)

// DateLayout is the canonical YYYY-MM-DD form used in records.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date without normalization. Use Clamp or the Add
// methods when the components may overflow.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Today returns the current date in the reference zone. The now function
// is injectable so the task layer never reads the wall clock directly;
// nil selects the wall clock.
func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	t := now().In(Beijing)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Parse converts a YYYY-MM-DD string to a Date.
func Parse(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, Beijing)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String renders the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, Beijing)
}

// Weekday returns the weekday index, 0 = Sunday.
func (d Date) Weekday() int {
	return int(d.time().Weekday())
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	t := d.time().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// AddMonths returns d shifted by n months. Overflow past the target
// month end is clamped to the last day of that month rather than rolled
// forward, matching ClampToMonthEnd.
func (d Date) AddMonths(n int) Date {
	year, month := d.Year, int(d.Month)+n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	return ClampToMonthEnd(year, time.Month(month), d.Day)
}

// AddYears returns d shifted by n years, clamping Feb 29 on non-leap
// targets to Feb 28.
func (d Date) AddYears(n int) Date {
	return ClampToMonthEnd(d.Year+n, d.Month, d.Day)
}

// RollMonths returns d shifted by n months with time.AddDate
// normalization: overflow past the target month end rolls into the next
// month (Jan 31 + 1 month = Mar 2 or 3). Cycle advancement depends on
// this rolling behavior; use AddMonths where clamping is wanted.
func (d Date) RollMonths(n int) Date {
	t := d.time().AddDate(0, n, 0)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// RollYears returns d shifted by n years with time.AddDate
// normalization (Feb 29 + 1 year = Mar 1).
func (d Date) RollYears(n int) Date {
	t := d.time().AddDate(n, 0, 0)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DaysBetween returns the number of whole days from a to b, negative
// when b is earlier.
func DaysBetween(a, b Date) int {
	return int(b.time().Sub(a.time()) / (24 * time.Hour))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, Beijing)
	return t.Day()
}

// ClampToMonthEnd constructs (year, month, day), substituting the last
// valid day of the month when day overflows. It never rolls into the
// next month.
func ClampToMonthEnd(year int, month time.Month, day int) Date {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return Date{Year: year, Month: month, Day: day}
}
