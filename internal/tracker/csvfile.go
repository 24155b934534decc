package tracker

import (
	"io"

	"github.com/sadopc/planwise/internal/csvtab"
	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/task"
)

// Column names as they appear in the tracker's CSV export.
var csvColumns = []string{
	"Issue key",
	"Assignee",
	"Summary",
	"Description",
	"Issue Type",
	"Original Estimate",
	"Remaining Estimate",
	"Time Spent",
	"Created",
	"Reporter",
	"Resolution",
	"Custom field (Epic Link)",
	"Custom field (Unplanned Activity?)",
}

// LoadCSV is the offline counterpart of FetchTasks: it reads a tracker CSV
// export. Non-numeric estimates and malformed dates default to zero values
// and never abort the load.
func LoadCSV(r io.Reader, vacationIssueType string, normalize func(string) string) (*Result, error) {
	tab, err := csvtab.Read(r, csvColumns)
	if err != nil {
		return nil, err
	}

	res := &Result{WorkLogged: make(map[string]int64)}
	for _, row := range tab.Rows {
		key := tab.Cell(row, "Issue key")
		if key == "" {
			continue
		}

		issueType := tab.Cell(row, "Issue Type")
		unplanned := tab.Cell(row, "Custom field (Unplanned Activity?)") == "Unplanned"
		if issueType == vacationIssueType {
			unplanned = true
		}

		u := task.Update{
			Assignee:          task.String(normalize(tab.Cell(row, "Assignee"))),
			Reporter:          task.String(normalize(tab.Cell(row, "Reporter"))),
			IssueType:         task.String(issueType),
			OriginalEstimate:  task.Seconds(parseSeconds(tab.Cell(row, "Original Estimate"))),
			RemainingEstimate: task.Seconds(parseSeconds(tab.Cell(row, "Remaining Estimate"))),
			TimeSpent:         task.Seconds(parseSeconds(tab.Cell(row, "Time Spent"))),
		}
		if s := tab.Cell(row, "Summary"); s != "" {
			u.Summary = task.String(s)
		}
		if s := tab.Cell(row, "Description"); s != "" {
			u.Description = task.String(s)
		}
		if s := tab.Cell(row, "Resolution"); s != "" {
			u.Resolution = task.String(s)
		}
		if s := tab.Cell(row, "Custom field (Epic Link)"); s != "" {
			u.Epic = task.String(s)
		}
		if created, err := period.ParseDate(tab.Cell(row, "Created")); err == nil {
			u.CreatedDate = created
		}

		res.Issues = append(res.Issues, IssueRecord{Key: key, Unplanned: unplanned, Update: u})
	}
	return res, nil
}

func parseSeconds(s string) int64 {
	var n int64
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0
		}
		n = n*10 + int64(ch-'0')
	}
	return n
}
