package worktime

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT - Computed duration with display unit
// =============================================================================

// Unit is the display unit of a computed duration.
type Unit string

const (
	UnitHours Unit = "Hours"
	UnitDays  Unit = "Days"
)

// HoursPerDay converts between the two display units: one leave day is
// eight paid hours regardless of schedule variant.
const HoursPerDay = 8

// Result is a computed leave duration. Below HoursPerDay the value is in
// hours; at or above it the value is converted to days.
type Result struct {
	Value decimal.Decimal
	Unit  Unit
}

// ZeroResult is returned for empty, inverted, or fully off-schedule ranges.
func ZeroResult() Result {
	return Result{Value: decimal.Zero, Unit: UnitHours}
}

// IsZero reports whether the result carries no duration.
func (r Result) IsZero() bool { return r.Value.IsZero() }

// String renders the result for display: integral values without a decimal
// point ("1 Days"), fractional values with one decimal ("1.5 Days").
func (r Result) String() string {
	if r.Value.IsInteger() {
		return r.Value.StringFixed(0) + " " + string(r.Unit)
	}
	return r.Value.StringFixed(1) + " " + string(r.Unit)
}

// =============================================================================
// DURATION CALCULATION
// =============================================================================

const minutesPerDay = 24 * 60

// Compute returns the business duration between two instants under the
// given schedule. It is pure: same inputs, same result.
//
// Every calendar day from start's date through end's date is enumerated.
// The first day's window is clamped to begin at start, the last day's to
// end at end; each window is intersected with the schedule's intervals and
// the overlaps are summed. Weekends receive no special treatment.
func Compute(start, end time.Time, schedule Schedule) Result {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return ZeroResult()
	}

	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	totalMinutes := 0
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		lo := 0
		hi := minutesPerDay
		if day.Equal(startDay) {
			lo = minutesOfDay(start)
		}
		if day.Equal(endDay) {
			hi = minutesOfDay(end)
		}
		totalMinutes += schedule.OverlapMinutes(lo, hi)
	}

	hours := decimal.NewFromInt(int64(totalMinutes)).
		Div(decimal.NewFromInt(60)).
		Round(1)

	if hours.LessThan(decimal.NewFromInt(HoursPerDay)) {
		return Result{Value: hours, Unit: UnitHours}
	}
	days := hours.Div(decimal.NewFromInt(HoursPerDay)).Round(1)
	return Result{Value: days, Unit: UnitDays}
}

// ComputeRange parses the form's raw date ("2006-01-02") and clock ("15:04")
// fields and computes the duration. Any missing or malformed input yields
// the zero result, matching the form's display-only contract.
func ComputeRange(startDate, startTime, endDate, endTime string, schedule Schedule) Result {
	if startDate == "" || startTime == "" || endDate == "" || endTime == "" {
		return ZeroResult()
	}
	start, err := combine(startDate, startTime)
	if err != nil {
		return ZeroResult()
	}
	end, err := combine(endDate, endTime)
	if err != nil {
		return ZeroResult()
	}
	return Compute(start, end, schedule)
}

func combine(date, clock string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	c, err := ParseClockTime(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(c.Minutes()) * time.Minute), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
