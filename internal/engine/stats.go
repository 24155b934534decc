package engine

import (
	"sort"
	"strings"

	"github.com/sadopc/planwise/internal/period"
)

// CalendarHoursPerEmployee is the business-hour capacity of one employee
// over the period, before subtracting holidays, vacation and meetings.
func (e *Engine) CalendarHoursPerEmployee(r period.Range) float64 {
	return period.WorkableHours(r.Start, r.EndTime(), e.workday)
}

// HolidayHoursPerEmployee is the company holiday hours falling inside the
// period, eight per holiday.
func (e *Engine) HolidayHoursPerEmployee(r period.Range) float64 {
	return e.holidays.HoursPerEmployee(r)
}

// WorkableHoursForEmployee is one employee's remaining capacity after
// holidays and their own reported vacation and meeting time. The caller
// supplies aggregates from a completed unplanned pass.
func (e *Engine) WorkableHoursForEmployee(name string, r period.Range, agg *Aggregates) float64 {
	h := agg.employee(name)
	deductions := e.HolidayHoursPerEmployee(r) +
		Hours(h.VacationSeconds) + Hours(h.MeetingSeconds)
	return e.CalendarHoursPerEmployee(r) - deductions
}

// TotalWorkableHours is the team capacity for a period after holidays and
// vacation. A nil range means the whole current year with the full
// vacation allowance deducted; a concrete range deducts the vacation
// actually reported inside it, rebuilding agg with an unplanned pass.
func (e *Engine) TotalWorkableHours(r *period.Range, agg *Aggregates) float64 {
	employees := float64(e.Roster.Len())

	var window period.Range
	var vacationHours float64
	if r == nil {
		window = period.CurrentYear()
		vacationHours = e.Roster.MaxVacationHours()
	} else {
		window = *r
		e.AccumulateUnplanned(window, agg)
		vacationHours = agg.TotalVacationHours
	}

	calendarHours := e.CalendarHoursPerEmployee(window) * employees
	holidayHours := e.holidays.HoursForAllEmployees(window, e.Roster.Len())
	return calendarHours - (holidayHours + vacationHours)
}

// DeptHours is one department's accumulated seconds.
type DeptHours struct {
	PlannedSeconds   int64
	UnplannedSeconds int64
	VacationSeconds  int64
	MeetingSeconds   int64
}

// DeptNames lists every department of the unplanned superset table, the
// synthetic meeting department last.
func (e *Engine) DeptNames() []string {
	names := make([]string, 0, len(e.unplanned))
	for name := range e.unplanned {
		if name != e.meetingDept {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append(names, e.meetingDept)
}

// DeptCodeFor returns the issue key code of a department name.
func (e *Engine) DeptCodeFor(dept string) string {
	return e.unplanned[dept]
}

// DeptBreakdown folds completed employee aggregates into per-department
// totals. A department collects the hours of every employee whose roster
// department matches it; the meeting department instead collects meeting
// time across the whole roster.
func (e *Engine) DeptBreakdown(agg *Aggregates) map[string]*DeptHours {
	breakdown := make(map[string]*DeptHours, len(e.unplanned))
	for _, dept := range e.DeptNames() {
		dh := &DeptHours{}
		breakdown[dept] = dh
		for _, name := range e.Roster.Names() {
			h := agg.employee(name)
			if dept == e.meetingDept {
				dh.MeetingSeconds += h.MeetingSeconds
				continue
			}
			emp, ok := e.Roster.Employee(name)
			if !ok || !strings.Contains(emp.Dept, dept) {
				continue
			}
			dh.PlannedSeconds += h.PlannedSeconds
			dh.UnplannedSeconds += h.UnplannedSeconds
			dh.VacationSeconds += h.VacationSeconds
		}
	}
	return breakdown
}

// UnplannedHours is a department's combined unplanned time: unplanned
// work plus vacation plus meetings.
func (d *DeptHours) UnplannedHours() float64 {
	return Hours(d.UnplannedSeconds + d.VacationSeconds + d.MeetingSeconds)
}

// Statistics is the data behind the work-statistics report. Percentage
// fields are nil when their denominator is zero and the line is omitted.
type Statistics struct {
	Employees int

	YearCalendarHours float64
	MaxVacationHours  float64
	YearHolidayHours  float64
	YearWorkableHours float64

	PeriodWorkableHours float64
	TotalUnplannedHours float64
	TotalPlannedHours   float64
	TotalWorkedHours    float64

	UnplannedToWorkable *float64 // unplanned / workable
	UnplannedShare      *float64 // unplanned / (unplanned + planned)
	UnplannedToPlanned  *float64 // unplanned / planned
}

// Percentage guards a ratio against a zero denominator.
func Percentage(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den * 100
	return &v
}

// ComputeStatistics runs both aggregation passes and derives the yearly
// and period work statistics.
func (e *Engine) ComputeStatistics(r period.Range, agg *Aggregates) Statistics {
	year := period.CurrentYear()
	employees := e.Roster.Len()

	s := Statistics{
		Employees:         employees,
		YearCalendarHours: e.CalendarHoursPerEmployee(year) * float64(employees),
		MaxVacationHours:  e.Roster.MaxVacationHours(),
		YearHolidayHours:  e.holidays.HoursForAllEmployees(year, employees),
		YearWorkableHours: e.TotalWorkableHours(nil, agg),
	}

	s.TotalUnplannedHours = e.AccumulateUnplanned(r, agg)
	s.TotalPlannedHours = e.AccumulatePlanned(r, agg)
	s.TotalWorkedHours = s.TotalPlannedHours + s.TotalUnplannedHours

	periodCalendar := e.CalendarHoursPerEmployee(r) * float64(employees)
	periodHolidays := e.holidays.HoursForAllEmployees(r, employees)
	s.PeriodWorkableHours = periodCalendar - (periodHolidays + agg.TotalVacationHours)

	s.UnplannedToWorkable = Percentage(s.TotalUnplannedHours, s.PeriodWorkableHours)
	s.UnplannedShare = Percentage(s.TotalUnplannedHours, s.TotalWorkedHours)
	s.UnplannedToPlanned = Percentage(s.TotalUnplannedHours, s.TotalPlannedHours)
	return s
}
