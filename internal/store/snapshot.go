package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/task"
)

// SaveTask inserts one task row plus its work-log rows. A duplicate issue
// key is logged to the console and skipped; the run continues.
func (s *Store) SaveTask(issueKey string, t *task.Task, normalize func(string) string) error {
	_, err := s.db.Exec(
		`INSERT INTO tasks (
			issue_key, epic, summary, assignee, issue_type, unplanned,
			resolution, created_date, reporter, description,
			original_estimate, remaining_estimate, time_spent,
			start_date, end_date, progress, problem
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		issueKey,
		t.Epic,
		t.Summary,
		normalize(t.AssigneeName()),
		t.IssueType,
		boolToInt(t.Unplanned),
		t.Resolution,
		dateText(t.CreatedDate),
		normalize(t.ReporterName()),
		t.Description,
		secondsReal(t.OriginalEstimate),
		secondsReal(t.RemainingEstimate),
		secondsReal(t.TimeSpent),
		dateText(t.StartDate),
		dateText(t.EndDate),
		t.Progress,
		t.Problem,
	)
	if err != nil {
		if isDuplicateKey(err) {
			fmt.Printf("Duplicate task %s already in snapshot, skipping\n", issueKey)
			return nil
		}
		return fmt.Errorf("insert task %s: %w", issueKey, err)
	}

	for _, entry := range t.WorkLog {
		_, err := s.db.Exec(
			`INSERT INTO task_logs (issue_key, assignee, created_date, time_spent)
			 VALUES (?, ?, ?, ?)`,
			issueKey,
			normalize(entry.Assignee),
			dateText(entry.Created),
			float64(entry.TimeSpent),
		)
		if err != nil {
			return fmt.Errorf("insert task log %s: %w", issueKey, err)
		}
	}
	return nil
}

// SaveTable snapshots the whole task table.
func (s *Store) SaveTable(table *task.Table, normalize func(string) string) error {
	for _, issueKey := range table.Keys() {
		t, _ := table.Get(issueKey)
		if err := s.SaveTask(issueKey, t, normalize); err != nil {
			return err
		}
	}
	return nil
}

// LoadTable reads the snapshot back into a task table, used by the
// report-from-snapshot path.
func (s *Store) LoadTable() (*task.Table, error) {
	rows, err := s.db.Query(
		`SELECT issue_key, epic, summary, assignee, issue_type, unplanned,
			resolution, created_date, reporter, description,
			original_estimate, remaining_estimate, time_spent,
			start_date, end_date, progress, problem
		 FROM tasks ORDER BY issue_key`)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	table := task.NewTable()
	for rows.Next() {
		var issueKey string
		var epic, summary, assignee, issueType sql.NullString
		var resolution, createdDate, reporter, description sql.NullString
		var startDate, endDate, problem sql.NullString
		var originalEstimate, remainingEstimate, timeSpent sql.NullFloat64
		var progress sql.NullFloat64
		var unplanned int

		err := rows.Scan(&issueKey, &epic, &summary, &assignee, &issueType,
			&unplanned, &resolution, &createdDate, &reporter, &description,
			&originalEstimate, &remainingEstimate, &timeSpent,
			&startDate, &endDate, &progress, &problem)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}

		u := task.Update{
			Epic:              nullString(epic),
			Summary:           nullString(summary),
			Assignee:          nullString(assignee),
			IssueType:         nullString(issueType),
			Resolution:        nullString(resolution),
			Reporter:          nullString(reporter),
			Description:       nullString(description),
			CreatedDate:       parseDate(createdDate),
			StartDate:         parseDate(startDate),
			EndDate:           parseDate(endDate),
			OriginalEstimate:  nullSeconds(originalEstimate),
			RemainingEstimate: nullSeconds(remainingEstimate),
			TimeSpent:         nullSeconds(timeSpent),
			Problem:           nullString(problem),
		}
		if progress.Valid {
			u.Progress = &progress.Float64
		}
		table.Upsert(issueKey, unplanned == 1, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadLogs(table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *Store) loadLogs(table *task.Table) error {
	rows, err := s.db.Query(
		`SELECT issue_key, assignee, created_date, time_spent FROM task_logs`)
	if err != nil {
		return fmt.Errorf("select task logs: %w", err)
	}
	defer rows.Close()

	logs := make(map[string][]task.WorkLogEntry)
	for rows.Next() {
		var issueKey string
		var assignee, createdDate sql.NullString
		var timeSpent sql.NullFloat64
		if err := rows.Scan(&issueKey, &assignee, &createdDate, &timeSpent); err != nil {
			return fmt.Errorf("scan task log: %w", err)
		}
		entry := task.WorkLogEntry{
			Assignee: assignee.String,
			Created:  parseDate(createdDate),
		}
		if timeSpent.Valid {
			entry.TimeSpent = int64(timeSpent.Float64)
		}
		logs[issueKey] = append(logs[issueKey], entry)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for issueKey, entries := range logs {
		if !table.Has(issueKey) {
			continue
		}
		table.Upsert(issueKey, true, task.Update{WorkLog: entries})
	}
	return nil
}

func secondsReal(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dateText(ts *time.Time) *string {
	if ts == nil {
		return nil
	}
	s := ts.Format(period.DateLayout)
	return &s
}

func parseDate(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	ts, err := time.ParseInLocation(period.DateLayout, v.String, time.Local)
	if err != nil {
		return nil
	}
	return &ts
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullSeconds(v sql.NullFloat64) *int64 {
	if !v.Valid {
		return nil
	}
	n := int64(v.Float64)
	return &n
}

func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
