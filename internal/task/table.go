package task

import "sort"

// Table maps issue keys to unified task records. It is populated once from
// the sources and read-only afterwards except for problem annotations.
type Table struct {
	tasks map[string]*Task
}

// NewTable returns an empty task table.
func NewTable() *Table {
	return &Table{tasks: make(map[string]*Task)}
}

// Upsert merges an incoming record into the table.
//
// A new issue key creates a record with the given fields. An existing record
// keeps every scalar field that is already set; only unset (nil) fields take
// the incoming value. Two exceptions:
//
//   - Unplanned is written only when the incoming value is false. A planned
//     source can demote a previously unplanned task, but nothing ever
//     promotes a planned task back to unplanned.
//   - WorkLog is replaced wholesale with whatever the caller passes, so the
//     latest source supplying a log wins. Callers must pass the merged log
//     to avoid loss.
//
// Upsert is idempotent: repeating the same call changes nothing after the
// first application.
func (tb *Table) Upsert(issueKey string, unplanned bool, u Update) {
	t, ok := tb.tasks[issueKey]
	if !ok {
		log := u.WorkLog
		if log == nil {
			log = []WorkLogEntry{}
		}
		tb.tasks[issueKey] = &Task{
			Assignee:          u.Assignee,
			Reporter:          u.Reporter,
			IssueType:         u.IssueType,
			Unplanned:         unplanned,
			Epic:              u.Epic,
			Summary:           u.Summary,
			Description:       u.Description,
			Resolution:        u.Resolution,
			StartDate:         u.StartDate,
			EndDate:           u.EndDate,
			CreatedDate:       u.CreatedDate,
			OriginalEstimate:  u.OriginalEstimate,
			RemainingEstimate: u.RemainingEstimate,
			TimeSpent:         u.TimeSpent,
			Progress:          u.Progress,
			Problem:           u.Problem,
			WorkLog:           log,
		}
		return
	}

	if !unplanned {
		t.Unplanned = false
	}
	if t.Assignee == nil {
		t.Assignee = u.Assignee
	}
	if t.Reporter == nil {
		t.Reporter = u.Reporter
	}
	if t.IssueType == nil {
		t.IssueType = u.IssueType
	}
	if t.Epic == nil {
		t.Epic = u.Epic
	}
	if t.Summary == nil {
		t.Summary = u.Summary
	}
	if t.Description == nil {
		t.Description = u.Description
	}
	if t.Resolution == nil {
		t.Resolution = u.Resolution
	}
	if t.StartDate == nil {
		t.StartDate = u.StartDate
	}
	if t.EndDate == nil {
		t.EndDate = u.EndDate
	}
	if t.CreatedDate == nil {
		t.CreatedDate = u.CreatedDate
	}
	if t.OriginalEstimate == nil {
		t.OriginalEstimate = u.OriginalEstimate
	}
	if t.RemainingEstimate == nil {
		t.RemainingEstimate = u.RemainingEstimate
	}
	if t.TimeSpent == nil {
		t.TimeSpent = u.TimeSpent
	}
	if t.Progress == nil {
		t.Progress = u.Progress
	}
	if t.Problem == nil {
		t.Problem = u.Problem
	}
	if u.WorkLog == nil {
		t.WorkLog = []WorkLogEntry{}
	} else {
		t.WorkLog = u.WorkLog
	}
}

// Get returns the record for an issue key.
func (tb *Table) Get(issueKey string) (*Task, bool) {
	t, ok := tb.tasks[issueKey]
	return t, ok
}

// Has reports whether the table holds the issue key.
func (tb *Table) Has(issueKey string) bool {
	_, ok := tb.tasks[issueKey]
	return ok
}

// Keys returns all issue keys in sorted order so every pass over the table
// is deterministic.
func (tb *Table) Keys() []string {
	keys := make([]string, 0, len(tb.tasks))
	for k := range tb.tasks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of records.
func (tb *Table) Len() int { return len(tb.tasks) }

// Annotate attaches a diagnostic to an existing task. Diagnostics are
// non-fatal and surface only in the task errors report. The latest
// annotation wins.
func (tb *Table) Annotate(issueKey, problem string) {
	if t, ok := tb.tasks[issueKey]; ok {
		t.Problem = &problem
	}
}
