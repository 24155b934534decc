package engine

import (
	"sort"
	"strings"

	"github.com/sadopc/planwise/internal/period"
)

const secondsPerHour = 3600

// Hours converts a seconds count to fractional hours.
func Hours(seconds int64) float64 {
	return float64(seconds) / secondsPerHour
}

// EmployeeHours is one employee's accumulated seconds for a period.
type EmployeeHours struct {
	PlannedSeconds   int64
	UnplannedSeconds int64
	VacationSeconds  int64
	MeetingSeconds   int64
}

// Aggregates is the result of the accumulation passes. It is an explicit
// value threaded through report calls rather than state held on the
// engine, so repeated passes over unchanged inputs always reproduce the
// same numbers.
type Aggregates struct {
	ByEmployee       map[string]*EmployeeHours
	PlannedEmployees []string // employees with planned work, surname order

	TotalPlannedHours   float64
	TotalUnplannedHours float64 // includes vacation, holiday and meeting hours
	TotalVacationHours  float64
	TotalMeetingHours   float64
	TotalHolidayHours   float64
}

// NewAggregates returns a zeroed aggregate table covering the given
// employees.
func NewAggregates(names []string) *Aggregates {
	a := &Aggregates{ByEmployee: make(map[string]*EmployeeHours, len(names))}
	for _, n := range names {
		a.ByEmployee[n] = &EmployeeHours{}
	}
	return a
}

func (a *Aggregates) employee(name string) *EmployeeHours {
	h, ok := a.ByEmployee[name]
	if !ok {
		h = &EmployeeHours{}
		a.ByEmployee[name] = h
	}
	return h
}

// AccumulatePlanned rebuilds the planned counters of agg from the task
// table and returns total planned hours. Only tasks from planned
// departments that are in schedule, anchored inside the period and
// assigned to a roster employee count. Tasks with no recorded time are
// annotated instead of counted.
func (e *Engine) AccumulatePlanned(r period.Range, agg *Aggregates) float64 {
	for _, name := range e.Roster.Names() {
		agg.employee(name).PlannedSeconds = 0
	}
	agg.PlannedEmployees = nil

	var totalSeconds int64
	for _, issueKey := range e.Table.Keys() {
		if !e.IsPlannedDept(issueKey) {
			continue
		}
		t, _ := e.Table.Get(issueKey)
		assignee := e.Roster.Normalize(t.AssigneeName())

		if !e.InSchedule(issueKey) {
			continue
		}
		if !r.Contains(e.AnchorDate(issueKey)) {
			continue
		}
		if !e.Roster.IsEmployee(assignee) {
			continue
		}

		agg.addPlannedEmployee(assignee)

		if effective := t.EffectiveSeconds(); effective > 0 {
			agg.employee(assignee).PlannedSeconds += effective
			totalSeconds += effective
		} else {
			e.Table.Annotate(issueKey, "Error: no time recorded by "+assignee)
		}
	}

	agg.TotalPlannedHours = Hours(totalSeconds)
	return agg.TotalPlannedHours
}

func (a *Aggregates) addPlannedEmployee(name string) {
	for _, n := range a.PlannedEmployees {
		if n == name {
			return
		}
	}
	a.PlannedEmployees = append(a.PlannedEmployees, name)
	sort.Slice(a.PlannedEmployees, func(i, j int) bool {
		return surname(a.PlannedEmployees[i]) < surname(a.PlannedEmployees[j])
	})
}

func surname(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return name
	}
	return parts[len(parts)-1]
}

// AccumulateUnplanned rebuilds the unplanned, vacation and meeting
// counters of agg and returns the total unplanned hours for the period:
// unplanned work plus vacation plus company holidays for every employee
// plus meetings. Vacation time is attributed to the reporter, and a
// meeting counts only when it starts inside working hours on a weekday.
func (e *Engine) AccumulateUnplanned(r period.Range, agg *Aggregates) float64 {
	for _, name := range e.Roster.Names() {
		h := agg.employee(name)
		h.UnplannedSeconds = 0
		h.VacationSeconds = 0
		h.MeetingSeconds = 0
	}

	var unplannedSeconds, vacationSeconds, meetingSeconds int64
	for _, issueKey := range e.Table.Keys() {
		if !e.IsUnplannedDept(issueKey) {
			continue
		}
		t, _ := e.Table.Get(issueKey)
		assignee := e.Roster.Normalize(t.AssigneeName())
		reporter := e.Roster.Normalize(t.ReporterName())

		if e.InSchedule(issueKey) {
			continue
		}
		if !r.Contains(e.AnchorDate(issueKey)) {
			continue
		}

		vacation := e.IsVacation(t.Type())
		meeting := e.IsMeeting(issueKey)
		if !t.Unplanned && !vacation && !meeting {
			continue
		}

		effective := t.EffectiveSeconds()

		if vacation {
			// Vacation is reported by the person taking it.
			assignee = reporter
			if e.Roster.IsEmployee(assignee) {
				agg.employee(assignee).VacationSeconds += effective
				vacationSeconds += effective
			}
		} else if e.Roster.IsEmployee(assignee) {
			if meeting {
				if e.workday.Contains(t.StartDate) {
					agg.employee(assignee).MeetingSeconds += effective
					meetingSeconds += effective
				} else {
					e.Table.Annotate(issueKey, "Info: recorded time outside work hours, ignored")
				}
			} else {
				agg.employee(assignee).UnplannedSeconds += effective
				unplannedSeconds += effective
			}
		}

		if effective == 0 {
			e.Table.Annotate(issueKey, "Error: no time recorded by "+assignee)
		}
	}

	agg.TotalMeetingHours = Hours(meetingSeconds)
	agg.TotalVacationHours = Hours(vacationSeconds)
	agg.TotalHolidayHours = e.holidays.HoursForAllEmployees(r, e.Roster.Len())
	agg.TotalUnplannedHours = Hours(unplannedSeconds) +
		agg.TotalVacationHours + agg.TotalHolidayHours + agg.TotalMeetingHours
	return agg.TotalUnplannedHours
}

// PlannedTaskKeys lists the planned tasks of one employee for the period,
// applying the same filters as AccumulatePlanned without touching any
// aggregate table.
func (e *Engine) PlannedTaskKeys(r period.Range, employee string) []string {
	var keys []string
	for _, issueKey := range e.Table.Keys() {
		if !e.IsPlannedDept(issueKey) {
			continue
		}
		t, _ := e.Table.Get(issueKey)
		assignee := e.Roster.Normalize(t.AssigneeName())
		if assignee != employee {
			continue
		}
		if !e.InSchedule(issueKey) {
			continue
		}
		if !r.Contains(e.AnchorDate(issueKey)) {
			continue
		}
		if !e.Roster.IsEmployee(assignee) {
			continue
		}
		if t.EffectiveSeconds() == 0 {
			e.Table.Annotate(issueKey, "Error: no time recorded by "+assignee)
		}
		keys = append(keys, issueKey)
	}
	return keys
}

// UnplannedTaskKeys lists the unplanned tasks attributed to one employee
// for the period: tasks assigned to them, plus vacation entries they
// reported.
func (e *Engine) UnplannedTaskKeys(r period.Range, employee string) []string {
	var keys []string
	for _, issueKey := range e.Table.Keys() {
		if !e.IsUnplannedDept(issueKey) {
			continue
		}
		t, _ := e.Table.Get(issueKey)
		assignee := e.Roster.Normalize(t.AssigneeName())
		reporter := e.Roster.Normalize(t.ReporterName())
		if assignee != employee && reporter != employee {
			continue
		}
		if e.InSchedule(issueKey) {
			continue
		}
		if !r.Contains(e.AnchorDate(issueKey)) {
			continue
		}

		vacation := e.IsVacation(t.Type())
		meeting := e.IsMeeting(issueKey)
		if !t.Unplanned && !vacation && !meeting {
			continue
		}

		attributed := assignee
		if vacation {
			attributed = reporter
		}
		if t.EffectiveSeconds() == 0 {
			e.Table.Annotate(issueKey, "Error: no time recorded by "+attributed)
		}
		if attributed == employee {
			keys = append(keys, issueKey)
		}
	}
	return keys
}

// ErrorTaskKeys lists annotated tasks of one employee whose relevant date
// falls inside the period: the start date for planned tasks, the created
// date for unplanned ones.
func (e *Engine) ErrorTaskKeys(r period.Range, employee string) []string {
	var keys []string
	for _, issueKey := range e.Table.Keys() {
		t, _ := e.Table.Get(issueKey)
		if t.Problem == nil {
			continue
		}
		if e.Roster.Normalize(t.AssigneeName()) != employee {
			continue
		}
		date := t.CreatedDate
		if !t.Unplanned {
			date = t.StartDate
		}
		if r.Contains(date) {
			keys = append(keys, issueKey)
		}
	}
	return keys
}

// DeptTaskKeys lists the tasks of one department code whose assignee is a
// roster employee.
func (e *Engine) DeptTaskKeys(code string) []string {
	var keys []string
	for _, issueKey := range e.Table.Keys() {
		if !strings.EqualFold(DeptCode(issueKey), code) {
			continue
		}
		t, _ := e.Table.Get(issueKey)
		if e.Roster.IsEmployee(e.Roster.Normalize(t.AssigneeName())) {
			keys = append(keys, issueKey)
		}
	}
	return keys
}
