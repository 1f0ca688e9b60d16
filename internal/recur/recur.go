// Package recur computes and advances the execution dates of repeating
// tasks.
package recur

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
)

// Defaults substituted for invalid cycle periods. Task creation proceeds
// with the default instead of failing.
const (
	defaultWeekday  = 1 // Monday
	defaultMonthDay = 1
	defaultYearPair = "1-1"
)

// ComputeInitial determines the first execution date of a new repeating
// task relative to ref, which is never scheduled as the first
// occurrence. It returns the execution date together with the
// normalized cycle period (invalid input is replaced by a documented
// default and logged).
func ComputeInitial(cycle models.Cycle, period string, ref calendar.Date) (calendar.Date, string) {
	switch cycle {
	case models.CycleWeekly:
		target, err := parseIndex(period, 0, 6)
		if err != nil {
			slog.Warn("invalid weekly cycle period, using Monday", "period", period)
			target = defaultWeekday
		}
		delta := (target - ref.Weekday() + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return ref.AddDays(delta), strconv.Itoa(target)

	case models.CycleMonthly:
		target, err := parseIndex(period, 1, 31)
		if err != nil {
			slog.Warn("invalid monthly cycle period, using day 1", "period", period)
			target = defaultMonthDay
		}
		year, month := ref.Year, ref.Month
		if target < ref.Day {
			month++
			if month > time.December {
				month = time.January
				year++
			}
		}
		return calendar.ClampToMonthEnd(year, month, target), strconv.Itoa(target)

	case models.CycleYearly:
		month, day, err := parsePair(period)
		if err != nil {
			slog.Warn("invalid yearly cycle period, using Jan 1", "period", period)
			month, day = time.January, 1
		}
		year := ref.Year
		if month < ref.Month || (month == ref.Month && day < ref.Day) {
			year++
		}
		return calendar.ClampToMonthEnd(year, month, day), fmt.Sprintf("%d-%d", int(month), day)

	default: // daily
		return ref.AddDays(1), ""
	}
}

// Advance steps a repeating task's execution date by one cycle unit from
// ref, the completion-time reference date. It deliberately does not
// re-anchor to the nominal weekday or day-of-month slot: completing an
// "every Monday" task on a Wednesday shifts future occurrences to
// Wednesdays. This mirrors the observed plugin behavior.
func Advance(cycle models.Cycle, ref calendar.Date) calendar.Date {
	switch cycle {
	case models.CycleWeekly:
		return ref.AddDays(7)
	case models.CycleMonthly:
		return ref.RollMonths(1)
	case models.CycleYearly:
		return ref.RollYears(1)
	default:
		return ref.AddDays(1)
	}
}

func parseIndex(s string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < min || n > max {
		return 0, fmt.Errorf("value %d out of range [%d, %d]", n, min, max)
	}
	return n, nil
}

func parsePair(s string) (time.Month, int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed month-day pair %q", s)
	}
	month, err := parseIndex(parts[0], 1, 12)
	if err != nil {
		return 0, 0, err
	}
	day, err := parseIndex(parts[1], 1, 31)
	if err != nil {
		return 0, 0, err
	}
	return time.Month(month), day, nil
}
