// Package engine reconciles task records from the issue tracker, the
// schedule sheet and calendar exports into one task table, classifies each
// task as planned, unplanned, vacation or meeting, and aggregates hours per
// employee and department over a reporting period.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/planwise/internal/calendar"
	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/roster"
	"github.com/sadopc/planwise/internal/sheet"
	"github.com/sadopc/planwise/internal/task"
	"github.com/sadopc/planwise/internal/tracker"
)

// Params configures a new engine.
type Params struct {
	Roster       *roster.Roster
	Planned      map[string]string // dept name -> issue key code
	Unplanned    map[string]string // dept name -> issue key code
	MeetingCode  string
	MeetingDept  string // dept name used for the synthetic meeting department
	VacationType string
	Workday      period.Workday
	Holidays     *period.Holidays
}

// Engine holds the unified task table and the static classification
// configuration. The table is populated once by the Load methods and is
// read-only afterwards except for problem annotations.
type Engine struct {
	Roster *roster.Roster
	Table  *task.Table

	planned      map[string]string
	unplanned    map[string]string // superset: unplanned + planned + meeting
	meetingCode  string
	meetingDept  string
	vacationType string
	workday      period.Workday
	holidays     *period.Holidays

	scheduleKeys map[string]struct{}
	workLogged   map[string]int64
	meetingSeq   int
}

// New builds an engine. The unplanned department table is extended to a
// superset that also carries every planned code plus the synthetic meeting
// department, so the unplanned pass sees every task the planned pass saw.
func New(p Params) *Engine {
	meetingDept := p.MeetingDept
	if meetingDept == "" {
		meetingDept = "meeting"
	}
	unplanned := make(map[string]string, len(p.Unplanned)+len(p.Planned)+1)
	for name, code := range p.Unplanned {
		unplanned[name] = code
	}
	for name, code := range p.Planned {
		unplanned[name] = code
	}
	unplanned[meetingDept] = p.MeetingCode

	e := &Engine{
		Roster:       p.Roster,
		Table:        task.NewTable(),
		planned:      p.Planned,
		unplanned:    unplanned,
		meetingCode:  p.MeetingCode,
		meetingDept:  meetingDept,
		vacationType: p.VacationType,
		workday:      p.Workday,
		holidays:     p.Holidays,
		scheduleKeys: make(map[string]struct{}),
		workLogged:   make(map[string]int64),
	}
	if e.holidays == nil {
		e.holidays = period.NewHolidays()
	}
	return e
}

// LoadTracker merges fetched tracker issues into the task table and folds
// their per-author logged-work totals.
func (e *Engine) LoadTracker(res *tracker.Result) {
	for _, issue := range res.Issues {
		e.Table.Upsert(issue.Key, issue.Unplanned, issue.Update)
	}
	for name, seconds := range res.WorkLogged {
		e.workLogged[name] += seconds
	}
}

// LoadSchedule records the schedule membership set and merges start/end
// dates into tasks already known from the tracker. The sheet is
// authoritative for dates and planned status only; a sheet row without a
// tracker task is not a task at all and is ignored. The existing work log
// is passed back through the upsert so the wholesale replacement does not
// lose it.
func (e *Engine) LoadSchedule(res *sheet.Result) {
	e.scheduleKeys = res.Keys()
	for issueKey, st := range res.Tasks {
		t, ok := e.Table.Get(issueKey)
		if !ok {
			continue
		}
		e.Table.Upsert(issueKey, false, task.Update{
			StartDate: st.StartDate,
			EndDate:   st.EndDate,
			WorkLog:   t.WorkLog,
		})
	}
}

// LoadMeetings turns accepted calendar entries into synthetic meeting
// tasks. The sequence number advances for every entry, but only meetings
// starting inside the reporting period become tasks. The organizer is
// recorded as reporter and the meeting duration as both estimate and time
// spent.
func (e *Engine) LoadMeetings(meetings []calendar.Meeting, r period.Range) {
	for _, m := range meetings {
		e.meetingSeq++
		if !r.Contains(&m.Start) {
			continue
		}
		key := fmt.Sprintf("%s-%d", e.meetingCode, e.meetingSeq)
		e.Table.Upsert(key, true, task.Update{
			IssueType:        task.String("Meeting"),
			Summary:          task.String(m.Subject),
			Assignee:         task.String(m.Assignee),
			Reporter:         task.String(m.Organizer),
			Description:      task.String(m.Description),
			StartDate:        task.Time(m.Start),
			EndDate:          task.Time(m.End),
			CreatedDate:      task.Time(m.Start),
			OriginalEstimate: task.Seconds(m.Seconds),
			TimeSpent:        task.Seconds(m.Seconds),
		})
	}
}

// LoadSnapshot replaces the table with one restored from a previous run's
// snapshot and rebuilds the per-author logged-work totals from the stored
// work logs. Schedule membership is not persisted; restored planned tasks
// are treated as scheduled by InSchedule's fallback.
func (e *Engine) LoadSnapshot(table *task.Table) {
	e.Table = table
	e.workLogged = make(map[string]int64)
	for _, key := range table.Keys() {
		t, _ := table.Get(key)
		for _, l := range t.WorkLog {
			e.workLogged[l.Assignee] += l.TimeSpent
		}
	}
}

// WorkLogged returns total logged seconds per work-log author.
func (e *Engine) WorkLogged() map[string]int64 { return e.workLogged }

// DeptCode extracts the department token of an issue key: the prefix
// before the first dash.
func DeptCode(issueKey string) string {
	code, _, _ := strings.Cut(issueKey, "-")
	return code
}

// IsVacation reports whether the issue type is the configured vacation
// type.
func (e *Engine) IsVacation(issueType string) bool {
	return issueType == e.vacationType
}

// IsMeeting reports whether the issue key belongs to the synthetic meeting
// department.
func (e *Engine) IsMeeting(issueKey string) bool {
	return strings.EqualFold(DeptCode(issueKey), e.meetingCode)
}

// IsUnplanned reports whether a task counts as unplanned work: explicitly
// flagged, a vacation entry, or a meeting.
func (e *Engine) IsUnplanned(t *task.Task) bool {
	if t.Unplanned {
		return true
	}
	if e.IsVacation(t.Type()) {
		return true
	}
	return t.Type() == "Meeting"
}

func inCodeTable(issueKey string, depts map[string]string) bool {
	code := DeptCode(issueKey)
	for _, c := range depts {
		if strings.EqualFold(code, c) {
			return true
		}
	}
	return false
}

// IsPlannedDept reports whether the issue key's department is a planned
// department.
func (e *Engine) IsPlannedDept(issueKey string) bool {
	return inCodeTable(issueKey, e.planned)
}

// IsUnplannedDept reports whether the issue key's department is in the
// unplanned superset table.
func (e *Engine) IsUnplannedDept(issueKey string) bool {
	return inCodeTable(issueKey, e.unplanned)
}

// InSchedule decides whether a task counts as scheduled planned work.
// Unplanned tasks never do. A planned task found in the schedule sheet is
// in schedule even when it lacks dates, and a planned task missing from
// the sheet entirely is still treated as planned; both cases are
// annotated for the errors report.
func (e *Engine) InSchedule(issueKey string) bool {
	t, ok := e.Table.Get(issueKey)
	if !ok {
		return false
	}
	if e.IsUnplanned(t) {
		return false
	}

	if _, ok := e.scheduleKeys[issueKey]; ok {
		if t.StartDate == nil || t.EndDate == nil {
			e.Table.Annotate(issueKey, "Info: unplanned task found in schedule")
		}
		return true
	}

	e.Table.Annotate(issueKey, "Info: planned task that is not found in a schedule")
	return true
}

// AnchorDate resolves the date used for period membership: the start date
// when the schedule supplied one, else the tracker created date. A task
// with neither is annotated and unresolvable.
func (e *Engine) AnchorDate(issueKey string) *time.Time {
	t, ok := e.Table.Get(issueKey)
	if !ok {
		return nil
	}
	if t.StartDate != nil {
		return t.StartDate
	}
	if t.CreatedDate != nil {
		return t.CreatedDate
	}
	e.Table.Annotate(issueKey, "Warning: missing recorded start or created date time.")
	return nil
}
