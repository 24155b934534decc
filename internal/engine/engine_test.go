package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/planwise/internal/calendar"
	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/roster"
	"github.com/sadopc/planwise/internal/sheet"
	"github.com/sadopc/planwise/internal/task"
	"github.com/sadopc/planwise/internal/tracker"
)

func testRoster() *roster.Roster {
	return roster.New([]roster.Employee{
		{Name: "Jane Doe", Dept: "software", VacationDays: 22},
		{Name: "John Smith", Dept: "sustaining", VacationDays: 17},
		{Name: "Amy Albright", Dept: "software", VacationDays: 27},
	}, []string{"company.com"})
}

func testEngine() *Engine {
	return New(Params{
		Roster:       testRoster(),
		Planned:      map[string]string{"software": "SOF"},
		Unplanned:    map[string]string{"sustaining": "SUS"},
		MeetingCode:  "MEET",
		VacationType: "Vacation",
		Workday:      period.DefaultWorkday,
		Holidays:     period.NewHolidays("25-12-2018"),
	})
}

func testRange(t *testing.T) period.Range {
	t.Helper()
	r, _, err := period.NormalizeRange("12/20/2018 00:00", "12/26/2018 23:59")
	require.NoError(t, err)
	return r
}

func localDate(day, hour int) time.Time {
	return time.Date(2018, 12, day, hour, 0, 0, 0, time.Local)
}

func issue(key string, unplanned bool, u task.Update) tracker.IssueRecord {
	return tracker.IssueRecord{Key: key, Unplanned: unplanned, Update: u}
}

func TestDeptCode(t *testing.T) {
	assert.Equal(t, "SOF", DeptCode("SOF-123"))
	assert.Equal(t, "MEET", DeptCode("MEET-1"))
	assert.Equal(t, "NODASH", DeptCode("NODASH"))
}

func TestDeptTables(t *testing.T) {
	e := testEngine()

	assert.True(t, e.IsPlannedDept("SOF-1"))
	assert.False(t, e.IsPlannedDept("SUS-1"))

	// The unplanned table is a superset: its own codes, the planned codes
	// and the meeting code.
	assert.True(t, e.IsUnplannedDept("SUS-1"))
	assert.True(t, e.IsUnplannedDept("SOF-1"))
	assert.True(t, e.IsUnplannedDept("MEET-3"))
	assert.False(t, e.IsUnplannedDept("OTHER-1"))

	// Case-insensitive code match.
	assert.True(t, e.IsPlannedDept("sof-1"))
}

func TestClassification(t *testing.T) {
	e := testEngine()

	assert.True(t, e.IsVacation("Vacation"))
	assert.False(t, e.IsVacation("Task"))
	assert.True(t, e.IsMeeting("MEET-1"))
	assert.False(t, e.IsMeeting("SOF-1"))

	vacation := &task.Task{IssueType: task.String("Vacation")}
	meeting := &task.Task{IssueType: task.String("Meeting")}
	flagged := &task.Task{Unplanned: true}
	plain := &task.Task{}
	assert.True(t, e.IsUnplanned(vacation))
	assert.True(t, e.IsUnplanned(meeting))
	assert.True(t, e.IsUnplanned(flagged))
	assert.False(t, e.IsUnplanned(plain))
}

func TestLoadScheduleMergesDatesIntoKnownTasks(t *testing.T) {
	e := testEngine()
	log := []task.WorkLogEntry{{Assignee: "Jane Doe", TimeSpent: 600}}
	e.LoadTracker(&tracker.Result{Issues: []tracker.IssueRecord{
		issue("SOF-1", false, task.Update{
			Assignee: task.String("Jane Doe"),
			WorkLog:  log,
		}),
	}})

	start := localDate(20, 9)
	end := localDate(21, 17)
	e.LoadSchedule(&sheet.Result{Tasks: map[string]sheet.ScheduledTask{
		"SOF-1":   {Assignee: "Jane Doe", StartDate: &start, EndDate: &end},
		"SOF-999": {Assignee: "Jane Doe", StartDate: &start, EndDate: &end},
	}})

	got, ok := e.Table.Get("SOF-1")
	require.True(t, ok)
	assert.Equal(t, start, *got.StartDate)
	assert.Equal(t, end, *got.EndDate)
	assert.Len(t, got.WorkLog, 1, "schedule merge must not drop the work log")

	// A sheet row without a tracker task is not a task at all.
	assert.False(t, e.Table.Has("SOF-999"))
}

func TestInScheduleDiagnostics(t *testing.T) {
	e := testEngine()
	start := localDate(20, 9)
	end := localDate(21, 17)
	e.LoadTracker(&tracker.Result{Issues: []tracker.IssueRecord{
		issue("SOF-1", false, task.Update{Assignee: task.String("Jane Doe")}),
		issue("SOF-2", false, task.Update{Assignee: task.String("Jane Doe")}),
		issue("SOF-3", false, task.Update{Assignee: task.String("Jane Doe")}),
		issue("SUS-1", true, task.Update{Assignee: task.String("John Smith")}),
	}})
	e.LoadSchedule(&sheet.Result{Tasks: map[string]sheet.ScheduledTask{
		"SOF-1": {StartDate: &start, EndDate: &end},
		"SOF-2": {StartDate: &start}, // missing end date
	}})

	// Scheduled with both dates: in schedule, no diagnostic.
	assert.True(t, e.InSchedule("SOF-1"))
	got, _ := e.Table.Get("SOF-1")
	assert.Nil(t, got.Problem)

	// Scheduled but missing a date: still in schedule, diagnosed.
	assert.True(t, e.InSchedule("SOF-2"))
	got, _ = e.Table.Get("SOF-2")
	require.NotNil(t, got.Problem)
	assert.Contains(t, *got.Problem, "found in schedule")

	// Planned task absent from the sheet: still planned, diagnosed.
	assert.True(t, e.InSchedule("SOF-3"))
	got, _ = e.Table.Get("SOF-3")
	require.NotNil(t, got.Problem)
	assert.Contains(t, *got.Problem, "not found in a schedule")

	// Unplanned tasks are never in schedule.
	assert.False(t, e.InSchedule("SUS-1"))
}

func TestAnchorDate(t *testing.T) {
	e := testEngine()
	start := localDate(20, 9)
	created := localDate(19, 8)
	e.LoadTracker(&tracker.Result{Issues: []tracker.IssueRecord{
		issue("SOF-1", false, task.Update{StartDate: &start, CreatedDate: &created}),
		issue("SOF-2", false, task.Update{CreatedDate: &created}),
		issue("SOF-3", false, task.Update{}),
	}})

	assert.Equal(t, start, *e.AnchorDate("SOF-1"))
	assert.Equal(t, created, *e.AnchorDate("SOF-2"))

	assert.Nil(t, e.AnchorDate("SOF-3"))
	got, _ := e.Table.Get("SOF-3")
	require.NotNil(t, got.Problem)
	assert.Contains(t, *got.Problem, "missing recorded start or created date")
}

func loadPlannedFixture(e *Engine) {
	start := localDate(20, 9)
	end := localDate(21, 17)
	e.LoadTracker(&tracker.Result{Issues: []tracker.IssueRecord{
		// effective = max(0, 3600) = 1h
		issue("SOF-1", false, task.Update{
			Assignee:         task.String("Jane Doe"),
			TimeSpent:        task.Seconds(0),
			OriginalEstimate: task.Seconds(3600),
		}),
		// 2h spent
		issue("SOF-2", false, task.Update{
			Assignee:  task.String("Amy Albright"),
			TimeSpent: task.Seconds(7200),
		}),
		// no time at all: annotated, not counted
		issue("SOF-3", false, task.Update{
			Assignee: task.String("Jane Doe"),
		}),
		// outside the period
		issue("SOF-4", false, task.Update{
			Assignee:  task.String("Jane Doe"),
			TimeSpent: task.Seconds(3600),
			StartDate: task.Time(localDate(1, 9)),
		}),
		// not a roster employee
		issue("SOF-5", false, task.Update{
			Assignee:  task.String("Contractor Person"),
			TimeSpent: task.Seconds(3600),
		}),
	}})
	e.LoadSchedule(&sheet.Result{Tasks: map[string]sheet.ScheduledTask{
		"SOF-1": {StartDate: &start, EndDate: &end},
		"SOF-2": {StartDate: &start, EndDate: &end},
		"SOF-3": {StartDate: &start, EndDate: &end},
		"SOF-5": {StartDate: &start, EndDate: &end},
	}})
	// SOF-4 keeps its own start date; the others take the schedule dates.
}

func TestAccumulatePlanned(t *testing.T) {
	e := testEngine()
	loadPlannedFixture(e)
	r := testRange(t)

	agg := NewAggregates(e.Roster.Names())
	total := e.AccumulatePlanned(r, agg)

	assert.InDelta(t, 3.0, total, 0.001, "1h effective + 2h spent")
	assert.EqualValues(t, 3600, agg.ByEmployee["Jane Doe"].PlannedSeconds)
	assert.EqualValues(t, 7200, agg.ByEmployee["Amy Albright"].PlannedSeconds)
	assert.EqualValues(t, 0, agg.ByEmployee["John Smith"].PlannedSeconds)

	// Zero-time task is annotated instead of counted.
	got, _ := e.Table.Get("SOF-3")
	require.NotNil(t, got.Problem)
	assert.Contains(t, *got.Problem, "no time recorded by Jane Doe")

	// Surname order: Albright before Doe.
	assert.Equal(t, []string{"Amy Albright", "Jane Doe"}, agg.PlannedEmployees)
}

func TestAccumulatePlannedIdempotent(t *testing.T) {
	e := testEngine()
	loadPlannedFixture(e)
	r := testRange(t)

	agg := NewAggregates(e.Roster.Names())
	first := e.AccumulatePlanned(r, agg)
	second := e.AccumulatePlanned(r, agg)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 3600, agg.ByEmployee["Jane Doe"].PlannedSeconds,
		"counters must reset, not double")
}

func loadUnplannedFixture(e *Engine, r period.Range) {
	e.LoadTracker(&tracker.Result{Issues: []tracker.IssueRecord{
		// 2h unplanned work by John
		issue("SUS-1", true, task.Update{
			Assignee:    task.String("John Smith"),
			TimeSpent:   task.Seconds(7200),
			CreatedDate: task.Time(localDate(20, 10)),
		}),
		// 8h vacation reported by Jane, attributed to the reporter
		issue("SUS-2", true, task.Update{
			Assignee:         task.String("Unassigned"),
			Reporter:         task.String("Jane Doe"),
			IssueType:        task.String("Vacation"),
			OriginalEstimate: task.Seconds(28800),
			CreatedDate:      task.Time(localDate(20, 8)),
		}),
	}})
	e.LoadMeetings([]calendar.Meeting{
		// 1h meeting inside working hours
		{
			Assignee: "John Smith", Organizer: "Jane Doe", Subject: "Review",
			Start: localDate(20, 10), End: localDate(20, 11), Seconds: 3600,
		},
		// meeting at 22:00: loaded but excluded from totals
		{
			Assignee: "Jane Doe", Organizer: "John Smith", Subject: "Late sync",
			Start: localDate(20, 22), End: localDate(20, 23), Seconds: 3600,
		},
	}, r)
}

func TestAccumulateUnplanned(t *testing.T) {
	e := testEngine()
	r := testRange(t)
	loadUnplannedFixture(e, r)

	agg := NewAggregates(e.Roster.Names())
	total := e.AccumulateUnplanned(r, agg)

	// 2h unplanned + 8h vacation + 8h holiday x 3 employees + 1h meeting.
	assert.InDelta(t, 2+8+24+1, total, 0.001)

	assert.EqualValues(t, 7200, agg.ByEmployee["John Smith"].UnplannedSeconds)
	assert.EqualValues(t, 28800, agg.ByEmployee["Jane Doe"].VacationSeconds)
	assert.EqualValues(t, 3600, agg.ByEmployee["John Smith"].MeetingSeconds)
	assert.EqualValues(t, 0, agg.ByEmployee["Jane Doe"].MeetingSeconds,
		"a meeting outside working hours does not count")

	assert.InDelta(t, 8.0, agg.TotalVacationHours, 0.001)
	assert.InDelta(t, 24.0, agg.TotalHolidayHours, 0.001)
	assert.InDelta(t, 1.0, agg.TotalMeetingHours, 0.001)

	// The late meeting is diagnosed.
	got, _ := e.Table.Get("MEET-2")
	require.NotNil(t, got.Problem)
	assert.Contains(t, *got.Problem, "outside work hours")
}

func TestAccumulateUnplannedIdempotent(t *testing.T) {
	e := testEngine()
	r := testRange(t)
	loadUnplannedFixture(e, r)

	agg := NewAggregates(e.Roster.Names())
	first := e.AccumulateUnplanned(r, agg)
	second := e.AccumulateUnplanned(r, agg)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 28800, agg.ByEmployee["Jane Doe"].VacationSeconds)
}

func TestLoadMeetingsSequenceAndPeriod(t *testing.T) {
	e := testEngine()
	r := testRange(t)
	e.LoadMeetings([]calendar.Meeting{
		{Assignee: "Jane Doe", Subject: "Old", Start: localDate(1, 10), End: localDate(1, 11), Seconds: 3600},
		{Assignee: "Jane Doe", Subject: "Current", Start: localDate(20, 10), End: localDate(20, 11), Seconds: 3600},
	}, r)

	// The sequence number advances for every entry, so the in-period
	// meeting is the second key.
	assert.False(t, e.Table.Has("MEET-1"))
	got, ok := e.Table.Get("MEET-2")
	require.True(t, ok)
	assert.Equal(t, "Meeting", got.Type())
	assert.Equal(t, "Current", *got.Summary)
	assert.EqualValues(t, 3600, got.EffectiveSeconds())
	assert.True(t, got.Unplanned)
}

func TestTaskKeyListers(t *testing.T) {
	e := testEngine()
	r := testRange(t)
	loadPlannedFixture(e)
	loadUnplannedFixture(e, r)

	assert.ElementsMatch(t, []string{"SOF-1", "SOF-3"}, e.PlannedTaskKeys(r, "Jane Doe"))
	assert.ElementsMatch(t, []string{"SOF-2"}, e.PlannedTaskKeys(r, "Amy Albright"))

	// John gets his unplanned task and his in-hours meeting; Jane gets the
	// vacation she reported plus her late meeting.
	assert.ElementsMatch(t, []string{"SUS-1", "MEET-1"}, e.UnplannedTaskKeys(r, "John Smith"))
	assert.ElementsMatch(t, []string{"SUS-2", "MEET-2"}, e.UnplannedTaskKeys(r, "Jane Doe"))
}

func TestErrorTaskKeys(t *testing.T) {
	e := testEngine()
	r := testRange(t)
	loadPlannedFixture(e)

	agg := NewAggregates(e.Roster.Names())
	e.AccumulatePlanned(r, agg)

	keys := e.ErrorTaskKeys(r, "Jane Doe")
	assert.Contains(t, keys, "SOF-3")
}

func TestDeptTaskKeys(t *testing.T) {
	e := testEngine()
	loadPlannedFixture(e)

	keys := e.DeptTaskKeys("SOF")
	assert.Contains(t, keys, "SOF-1")
	assert.NotContains(t, keys, "SOF-5", "non-roster assignees are excluded")
}

func TestLoadSnapshot(t *testing.T) {
	e := testEngine()
	e.LoadTracker(&tracker.Result{
		Issues:     []tracker.IssueRecord{issue("SOF-9", false, task.Update{})},
		WorkLogged: map[string]int64{"Jane Doe": 100},
	})

	created := localDate(20, 10)
	restored := task.NewTable()
	restored.Upsert("SOF-1", false, task.Update{
		Assignee: task.String("Jane Doe"),
		WorkLog: []task.WorkLogEntry{
			{Assignee: "Jane Doe", Created: &created, TimeSpent: 1800},
			{Assignee: "John Smith", TimeSpent: 3600},
		},
	})
	e.LoadSnapshot(restored)

	assert.Equal(t, []string{"SOF-1"}, e.Table.Keys(), "snapshot replaces the live table")
	assert.EqualValues(t, 1800, e.WorkLogged()["Jane Doe"], "logged totals rebuilt from stored work logs")
	assert.EqualValues(t, 3600, e.WorkLogged()["John Smith"])
}
