// Package task holds the unified task record built from the issue tracker,
// the schedule sheet and calendar exports, together with the merge table
// that reconciles them.
package task

import "time"

// WorkLogEntry is one logged unit of work against a task.
type WorkLogEntry struct {
	Assignee  string
	Created   *time.Time
	TimeSpent int64 // seconds
}

// Task is a unified task record. Scalar fields are pointers so the merge
// can tell "unset" apart from an explicit zero value.
type Task struct {
	Assignee          *string
	Reporter          *string
	IssueType         *string
	Unplanned         bool
	Epic              *string
	Summary           *string
	Description       *string
	Resolution        *string
	StartDate         *time.Time
	EndDate           *time.Time
	CreatedDate       *time.Time
	OriginalEstimate  *int64 // seconds
	RemainingEstimate *int64 // seconds
	TimeSpent         *int64 // seconds
	Progress          *float64
	Problem           *string // diagnostic written during analysis, not a source field
	WorkLog           []WorkLogEntry
}

// AssigneeName returns the assignee, or "Unassigned" when unset.
func (t *Task) AssigneeName() string {
	if t.Assignee == nil {
		return "Unassigned"
	}
	return *t.Assignee
}

// ReporterName returns the reporter, or "Unassigned" when unset.
func (t *Task) ReporterName() string {
	if t.Reporter == nil {
		return "Unassigned"
	}
	return *t.Reporter
}

// Type returns the issue type, or "" when unset.
func (t *Task) Type() string {
	if t.IssueType == nil {
		return ""
	}
	return *t.IssueType
}

// TimeSpentSeconds returns the recorded time spent, absent meaning zero.
func (t *Task) TimeSpentSeconds() int64 {
	if t.TimeSpent == nil {
		return 0
	}
	return *t.TimeSpent
}

// OriginalEstimateSeconds returns the original estimate, absent meaning zero.
func (t *Task) OriginalEstimateSeconds() int64 {
	if t.OriginalEstimate == nil {
		return 0
	}
	return *t.OriginalEstimate
}

// EffectiveSeconds is the time attributed to a task wherever "hours worked"
// is needed: the greater of time spent and original estimate.
func (t *Task) EffectiveSeconds() int64 {
	spent := t.TimeSpentSeconds()
	if est := t.OriginalEstimateSeconds(); spent < est {
		return est
	}
	return spent
}

// Update carries incoming field values for Table.Upsert. Nil fields are
// "not supplied by this source".
type Update struct {
	Assignee          *string
	Reporter          *string
	IssueType         *string
	Epic              *string
	Summary           *string
	Description       *string
	Resolution        *string
	StartDate         *time.Time
	EndDate           *time.Time
	CreatedDate       *time.Time
	OriginalEstimate  *int64
	RemainingEstimate *int64
	TimeSpent         *int64
	Progress          *float64
	Problem           *string
	WorkLog           []WorkLogEntry
}

// String is a convenience for building optional string fields.
func String(s string) *string { return &s }

// Seconds is a convenience for building optional duration fields.
func Seconds(n int64) *int64 { return &n }

// Fraction is a convenience for building optional progress fields.
func Fraction(f float64) *float64 { return &f }

// Time is a convenience for building optional timestamp fields.
func Time(t time.Time) *time.Time { return &t }
