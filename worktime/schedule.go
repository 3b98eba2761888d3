/*
Package worktime implements business-hours-aware leave-duration calculation.

PURPOSE:
  Given a start and end date-time pair and a daily business-hour schedule,
  compute how much paid working time the range covers. The result is
  expressed in hours below a full working day and in days at or above it.

KEY CONCEPTS:
  - ClockTime: A time of day with minute precision (no date, no zone)
  - Interval:  A half-open [start, end) window within a single day
  - Schedule:  The named set of daily intervals that count as paid time
  - Result:    The computed duration with its display unit

SCHEDULES:
  Two schedule variants exist in the field. StandardSchedule ends the
  afternoon block at 17:00 (an exact 8-hour day); ExtendedSchedule ends at
  17:10. StandardSchedule is canonical; the variant is selectable through
  configuration rather than hidden in a literal.

DESIGN:
  All calculation is deterministic and side-effect-free. Weekends are
  ordinary calendar days: only the intersection with business intervals
  decides what counts.
*/
package worktime

import (
	"fmt"
)

// =============================================================================
// CLOCK TIME - Minute-precision time of day
// =============================================================================

// ClockTime is a time of day, stored as minutes since midnight.
type ClockTime int

// NewClockTime builds a ClockTime from an hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses "15:04" formatted input.
func ParseClockTime(s string) (ClockTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return NewClockTime(hour, minute), nil
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int { return int(c) }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// =============================================================================
// INTERVAL - A single business-hour block
// =============================================================================

// Interval is a daily business-hour block [Start, End).
type Interval struct {
	Start ClockTime
	End   ClockTime
}

// Overlap returns how many minutes of [lo, hi) fall inside the interval.
// lo and hi are minutes since midnight.
func (iv Interval) Overlap(lo, hi int) int {
	from := max(lo, iv.Start.Minutes())
	to := min(hi, iv.End.Minutes())
	if to <= from {
		return 0
	}
	return to - from
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}

// =============================================================================
// SCHEDULE - Named set of daily intervals
// =============================================================================

// Schedule is the set of daily intervals counted toward leave duration.
type Schedule struct {
	Name      string
	Intervals []Interval
}

var (
	// StandardSchedule is the canonical working day: 08:00-12:00 and
	// 13:00-17:00, exactly eight paid hours.
	StandardSchedule = Schedule{
		Name: "standard",
		Intervals: []Interval{
			{Start: NewClockTime(8, 0), End: NewClockTime(12, 0)},
			{Start: NewClockTime(13, 0), End: NewClockTime(17, 0)},
		},
	}

	// ExtendedSchedule is the legacy variant whose afternoon block runs to
	// 17:10.
	ExtendedSchedule = Schedule{
		Name: "extended",
		Intervals: []Interval{
			{Start: NewClockTime(8, 0), End: NewClockTime(12, 0)},
			{Start: NewClockTime(13, 0), End: NewClockTime(17, 10)},
		},
	}
)

// ScheduleByName resolves a configured variant name to its schedule.
func ScheduleByName(name string) (Schedule, bool) {
	switch name {
	case StandardSchedule.Name, "":
		return StandardSchedule, true
	case ExtendedSchedule.Name:
		return ExtendedSchedule, true
	}
	return Schedule{}, false
}

// DayMinutes returns the total paid minutes in one full scheduled day.
func (s Schedule) DayMinutes() int {
	total := 0
	for _, iv := range s.Intervals {
		total += iv.Overlap(0, 24*60)
	}
	return total
}

// OverlapMinutes returns how many minutes of the day-window [lo, hi) count
// as paid time under the schedule.
func (s Schedule) OverlapMinutes(lo, hi int) int {
	total := 0
	for _, iv := range s.Intervals {
		total += iv.Overlap(lo, hi)
	}
	return total
}
