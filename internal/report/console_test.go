package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/planwise/internal/engine"
	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/roster"
	"github.com/sadopc/planwise/internal/sheet"
	"github.com/sadopc/planwise/internal/task"
	"github.com/sadopc/planwise/internal/tracker"
)

func testConsole(t *testing.T) (*Console, *bytes.Buffer, period.Range) {
	t.Helper()
	r := roster.New([]roster.Employee{
		{Name: "Jane Doe", Dept: "software", VacationDays: 22},
		{Name: "John Smith", Dept: "sustaining", VacationDays: 17},
	}, nil)
	eng := engine.New(engine.Params{
		Roster:       r,
		Planned:      map[string]string{"software": "SOF"},
		Unplanned:    map[string]string{"sustaining": "SUS"},
		MeetingCode:  "MEET",
		VacationType: "Vacation",
		Workday:      period.DefaultWorkday,
		Holidays:     period.NewHolidays("25-12-2018"),
	})

	start := time.Date(2018, 12, 20, 9, 0, 0, 0, time.Local)
	end := time.Date(2018, 12, 21, 17, 0, 0, 0, time.Local)
	eng.LoadTracker(&tracker.Result{
		Issues: []tracker.IssueRecord{
			{Key: "SOF-1", Update: task.Update{
				Assignee:  task.String("Jane Doe"),
				Summary:   task.String("Build the widget"),
				TimeSpent: task.Seconds(7200),
			}},
			{Key: "SUS-1", Unplanned: true, Update: task.Update{
				Assignee:    task.String("John Smith"),
				Summary:     task.String("Hotfix"),
				TimeSpent:   task.Seconds(3600),
				CreatedDate: task.Time(start),
			}},
		},
		WorkLogged: map[string]int64{"Jane Doe": 7200},
	})
	eng.LoadSchedule(&sheet.Result{Tasks: map[string]sheet.ScheduledTask{
		"SOF-1": {StartDate: &start, EndDate: &end},
	}})

	rng, _, err := period.NormalizeRange("12/20/2018 00:00", "12/26/2018 23:59")
	require.NoError(t, err)

	var buf bytes.Buffer
	c := &Console{
		Engine:    eng,
		Formatter: &Formatter{Normalize: r.Normalize},
		Out:       &buf,
	}
	return c, &buf, rng
}

func TestPlannedReport(t *testing.T) {
	c, buf, rng := testConsole(t)
	c.Planned(rng)

	out := buf.String()
	assert.Contains(t, out, "All Planned Report for Period")
	assert.Contains(t, out, "Start Date: 12/20/2018 00:00")
	assert.Contains(t, out, "Employee Name: Jane Doe")
	assert.Contains(t, out, "SOF-1")
	assert.NotContains(t, out, "SUS-1", "unplanned tasks stay out of the planned report")
}

func TestUnplannedReport(t *testing.T) {
	c, buf, rng := testConsole(t)
	c.Unplanned(rng)

	out := buf.String()
	assert.Contains(t, out, "All Unplanned Report for Period")
	assert.Contains(t, out, "Meeting Hours: 0.00")
	assert.Contains(t, out, "Vacation Hours: 0.00")
	assert.Contains(t, out, "SUS-1")
	assert.NotContains(t, out, "SOF-1,")
}

func TestSummaryReport(t *testing.T) {
	c, buf, rng := testConsole(t)
	c.Summary(rng)

	out := buf.String()
	assert.Contains(t, out, "Employee Hours Summary for Period")
	assert.Contains(t, out, "Name, Unplanned, Planned, Vacation")
	assert.Contains(t, out, "Jane Doe,0.00,2.00,0.00")
	assert.Contains(t, out, "John Smith,1.00,0.00,0.00")
}

func TestWorkLoggedReport(t *testing.T) {
	c, buf, rng := testConsole(t)
	c.WorkLogged(rng)

	out := buf.String()
	assert.Contains(t, out, "Work Logged Report for Period")
	assert.Contains(t, out, "Assignee,Logged Hours,Workable Hours")
	assert.Contains(t, out, "Jane Doe,2.00,")
}

func TestDeptBreakdownReport(t *testing.T) {
	c, buf, rng := testConsole(t)
	c.DeptBreakdown(rng)

	out := buf.String()
	assert.Contains(t, out, "Department Breakdown for Period")
	assert.Contains(t, out, "Dept: Software")
	assert.Contains(t, out, "Dept: Sustaining")
	assert.Contains(t, out, "Dept: Meeting")
	assert.Contains(t, out, "Planned Hours: 2.00")
}

func TestPlannedEmployeesReport(t *testing.T) {
	c, buf, rng := testConsole(t)
	c.PlannedEmployees(rng)

	out := buf.String()
	assert.Contains(t, out, "worked on scheduled projects")
	assert.Contains(t, out, "Jane Doe")
	lines := strings.Split(out, "\n")
	for _, l := range lines {
		assert.NotEqual(t, "John Smith", strings.TrimSpace(l))
	}
}

func TestStatisticsReport(t *testing.T) {
	c, buf, rng := testConsole(t)
	c.Statistics(rng)

	out := buf.String()
	assert.Contains(t, out, "Task Statistics")
	assert.Contains(t, out, "Total Number of Employees: 2")
	assert.Contains(t, out, "Total Planned Hours (Scheduled Projects): 2")
	assert.Contains(t, out, "Unplanned Percentage Range")
}

func TestErrorsReport(t *testing.T) {
	c, buf, rng := testConsole(t)
	// Give Jane a scheduled task with no time so the passes annotate it.
	c.Engine.LoadTracker(&tracker.Result{Issues: []tracker.IssueRecord{
		{Key: "SOF-2", Update: task.Update{Assignee: task.String("Jane Doe")}},
	}})
	start := time.Date(2018, 12, 20, 9, 0, 0, 0, time.Local)
	end := time.Date(2018, 12, 21, 17, 0, 0, 0, time.Local)
	c.Engine.LoadSchedule(&sheet.Result{Tasks: map[string]sheet.ScheduledTask{
		"SOF-1": {StartDate: &start, EndDate: &end},
		"SOF-2": {StartDate: &start, EndDate: &end},
	}})

	c.Errors(rng)
	out := buf.String()
	assert.Contains(t, out, "Task Errors Report for Period")
	assert.Contains(t, out, "SOF-2")
	assert.Contains(t, out, "no time recorded by Jane Doe")
}
