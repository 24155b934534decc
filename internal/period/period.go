// Package period implements the reporting window logic: date-range
// membership, weekday normalization, the workday hour window, business-hour
// arithmetic and holiday lookups. All timestamps are naive local times.
package period

import (
	"fmt"
	"time"
)

// DateLayout is the date format used for period bounds and report output.
const DateLayout = "01/02/2006 15:04"

// HolidayLayout is the format of entries in the holiday file.
const HolidayLayout = "02-01-2006"

// ParseDate parses a date string in DateLayout. Blank input yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a timestamp in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Range is a reporting period. A nil End means "up to now", evaluated at
// each membership test.
type Range struct {
	Start time.Time
	End   *time.Time
}

// effectiveEnd resolves the upper bound, falling back to the current time.
func (r Range) effectiveEnd() time.Time {
	if r.End != nil {
		return *r.End
	}
	return time.Now()
}

// Contains tests a task anchor date against the period. A nil timestamp is
// out of range. Bounds are inclusive.
func (r Range) Contains(ts *time.Time) bool {
	if ts == nil {
		return false
	}
	if ts.Before(r.Start) {
		return false
	}
	if ts.After(r.effectiveEnd()) {
		return false
	}
	return true
}

// ContainsString tests a raw config date string against the period. A blank
// or unparseable date is counted as an immediate entry and is in range by
// default. This deliberately differs from Contains: config-level dates
// default in, per-task anchor dates default out.
func (r Range) ContainsString(date, layout string) bool {
	if date == "" {
		return true
	}
	ts, err := time.ParseInLocation(layout, date, time.Local)
	if err != nil {
		return true
	}
	if ts.Before(r.Start) || ts.After(r.effectiveEnd()) {
		return false
	}
	return true
}

// EndTime resolves the upper bound, materializing "now" for open ranges.
func (r Range) EndTime() time.Time { return r.effectiveEnd() }

// StartString renders the lower bound.
func (r Range) StartString() string { return FormatDate(r.Start) }

// EndString renders the upper bound, materializing "now" for open ranges.
func (r Range) EndString() string { return FormatDate(r.effectiveEnd()) }

// IsWeekend reports whether the timestamp falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextWeekday advances a weekend timestamp to the following Monday;
// weekday timestamps are returned unchanged.
func NextWeekday(t time.Time) time.Time {
	for IsWeekend(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// NormalizeRange parses the period bounds, advancing weekend bounds to the
// next weekday. A blank end leaves the range open. Returned notices
// describe any adjustment and are printed to the console by the caller.
func NormalizeRange(start, end string) (Range, []string, error) {
	var notices []string

	startTime, err := ParseDate(start)
	if err != nil {
		return Range{}, nil, fmt.Errorf("parse start date %q: %w", start, err)
	}
	if startTime == nil {
		return Range{}, nil, fmt.Errorf("start date is required")
	}
	if adjusted := NextWeekday(*startTime); !adjusted.Equal(*startTime) {
		notices = append(notices, fmt.Sprintf(
			"Specified start date %s is not on a weekday, advancing start date to %s",
			start, FormatDate(adjusted)))
		startTime = &adjusted
	}

	endTime, err := ParseDate(end)
	if err != nil {
		return Range{}, nil, fmt.Errorf("parse end date %q: %w", end, err)
	}
	if endTime != nil {
		if adjusted := NextWeekday(*endTime); !adjusted.Equal(*endTime) {
			notices = append(notices, fmt.Sprintf(
				"Specified end date %s is not on a weekday, advancing end date to %s",
				end, FormatDate(adjusted)))
			endTime = &adjusted
		}
	}

	return Range{Start: *startTime, End: endTime}, notices, nil
}

// CurrentYear returns the range spanning the current calendar year.
func CurrentYear() Range {
	year := time.Now().Year()
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, 12, 31, 23, 59, 0, 0, time.Local)
	return Range{Start: start, End: &end}
}

// Workday is the daily working-hour window on non-weekend days.
type Workday struct {
	StartHour int
	EndHour   int
}

// DefaultWorkday is an 8:00-17:00 window (the end hour is inclusive plus
// one, matching the window used for meeting classification).
var DefaultWorkday = Workday{StartHour: 8, EndHour: 16}

// Contains reports whether a timestamp falls inside working hours on a
// weekday. A nil timestamp is outside.
func (w Workday) Contains(ts *time.Time) bool {
	if ts == nil {
		return false
	}
	if IsWeekend(*ts) {
		return false
	}
	h := ts.Hour()
	return w.StartHour <= h && h <= w.EndHour+1
}

// HoursPerDay is the workable hours in one full working day.
func (w Workday) HoursPerDay() float64 {
	return float64(w.EndHour - w.StartHour)
}

// WorkableHours returns the total workable hours between two timestamps,
// counting only the daily window on non-weekend days. Partial first and
// last days are clamped to the window.
func WorkableHours(from, to time.Time, w Workday) float64 {
	if !to.After(from) {
		return 0
	}
	var hours float64
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for !day.After(to) {
		if !IsWeekend(day) {
			open := day.Add(time.Duration(w.StartHour) * time.Hour)
			close := day.Add(time.Duration(w.EndHour) * time.Hour)
			lo, hi := open, close
			if from.After(lo) {
				lo = from
			}
			if to.Before(hi) {
				hi = to
			}
			if hi.After(lo) {
				hours += hi.Sub(lo).Hours()
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return hours
}
