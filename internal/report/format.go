// Package report renders the task table: fixed-order comma-delimited rows
// for the console reports and the CSV dump files. It holds no business
// logic; classification and aggregation happen in the engine.
package report

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/task"
)

// Formatter renders task rows in the canonical column order. Name columns
// are passed through the normalizer so raw tracker spellings never reach
// the output.
type Formatter struct {
	Normalize func(string) string
}

// Header renders the header row for the canonical columns minus the
// excluded set.
func (f *Formatter) Header(exclude task.FieldSet) string {
	var cells []string
	for _, col := range task.Columns {
		if !exclude[col] {
			cells = append(cells, string(col))
		}
	}
	return csvRow(cells)
}

// Row renders one task. The cell order mirrors Header for the same
// exclusion set.
func (f *Formatter) Row(issueKey string, t *task.Task, exclude task.FieldSet) string {
	var cells []string
	for _, col := range task.Columns {
		if !exclude[col] {
			cells = append(cells, f.cell(issueKey, t, col))
		}
	}
	return csvRow(cells)
}

// LogHeader renders the header row for work-log listings.
func (f *Formatter) LogHeader() string {
	var cells []string
	for _, col := range task.LogColumns {
		cells = append(cells, string(col))
	}
	return csvRow(cells)
}

// LogRows renders one line per work-log entry of a task.
func (f *Formatter) LogRows(issueKey string, t *task.Task) []string {
	var rows []string
	for _, entry := range t.WorkLog {
		created := ""
		if entry.Created != nil {
			created = entry.Created.Format(period.DateLayout)
		}
		rows = append(rows, csvRow([]string{
			issueKey,
			f.Normalize(entry.Assignee),
			created,
			hours(entry.TimeSpent),
		}))
	}
	return rows
}

func (f *Formatter) cell(issueKey string, t *task.Task, col task.Field) string {
	switch {
	case col == task.FieldIssueKey:
		return issueKey

	case col == task.FieldEpic:
		if t.Epic == nil {
			return "None"
		}
		return *t.Epic

	case col == task.FieldAssignee:
		return f.Normalize(t.AssigneeName())

	case col == task.FieldReporter:
		return f.Normalize(t.ReporterName())

	case col == task.FieldUnplanned:
		return strconv.FormatBool(t.Unplanned)

	case col == task.FieldWorkLog:
		// rendered separately via LogRows
		return ""

	case col == task.FieldProgress:
		if t.Progress == nil {
			return "0.00"
		}
		return fmt.Sprintf("%1.2f", *t.Progress)

	case task.DateFields[col]:
		ts := dateValue(t, col)
		if ts == nil {
			return ""
		}
		return ts.Format(period.DateLayout)

	case task.TimeFields[col]:
		return hours(timeValue(t, col))

	default:
		return stringValue(t, col)
	}
}

func dateValue(t *task.Task, col task.Field) *time.Time {
	switch col {
	case task.FieldStartDate:
		return t.StartDate
	case task.FieldEndDate:
		return t.EndDate
	case task.FieldCreatedDate:
		return t.CreatedDate
	}
	return nil
}

func timeValue(t *task.Task, col task.Field) int64 {
	var v *int64
	switch col {
	case task.FieldOriginalEstimate:
		v = t.OriginalEstimate
	case task.FieldRemainingEstimate:
		v = t.RemainingEstimate
	case task.FieldTimeSpent:
		v = t.TimeSpent
	}
	if v == nil {
		return 0
	}
	return *v
}

func stringValue(t *task.Task, col task.Field) string {
	var v *string
	switch col {
	case task.FieldSummary:
		v = t.Summary
	case task.FieldIssueType:
		v = t.IssueType
	case task.FieldResolution:
		v = t.Resolution
	case task.FieldDescription:
		v = t.Description
	case task.FieldProblem:
		v = t.Problem
	}
	if v == nil {
		return ""
	}
	return *v
}

// hours renders a seconds count as hours with two decimals.
func hours(seconds int64) string {
	return fmt.Sprintf("%1.2f", float64(seconds)/3600)
}

// csvRow renders one comma-delimited line without a trailing newline.
func csvRow(cells []string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(cells)
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
