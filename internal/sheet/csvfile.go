package sheet

import (
	"io"
	"time"

	"github.com/sadopc/planwise/internal/csvtab"
)

// Column names as they appear in the schedule-sheet CSV export.
var csvColumns = []string{
	"Issue Key",
	"Summary",
	"Start Date",
	"End Date",
	"Assignee",
	"Original Time Estimated",
	"Remaining Time Estimated",
	"Time Spent",
	"Progress",
}

const csvDateLayout = "01/02/06"

// LoadCSV is the offline counterpart of FetchTasks: it reads a sheet CSV
// export. Malformed durations default to zero.
func LoadCSV(r io.Reader, normalize func(string) string) (*Result, error) {
	tab, err := csvtab.Read(r, csvColumns)
	if err != nil {
		return nil, err
	}

	res := &Result{Tasks: make(map[string]ScheduledTask)}
	for _, row := range tab.Rows {
		issueKey := tab.Cell(row, "Issue Key")
		if issueKey == "" {
			continue
		}
		assignee := tab.Cell(row, "Assignee")
		if assignee == "" {
			// roll-up row
			continue
		}

		st := ScheduledTask{
			Assignee:  normalize(assignee),
			Summary:   tab.Cell(row, "Summary"),
			StartDate: parseCSVDate(tab.Cell(row, "Start Date")),
			EndDate:   parseCSVDate(tab.Cell(row, "End Date")),
		}
		st.OriginalEstimate, _ = TimeToSeconds(tab.Cell(row, "Original Time Estimated"))
		st.RemainingEstimate, _ = TimeToSeconds(tab.Cell(row, "Remaining Time Estimated"))
		st.TimeSpent, _ = TimeToSeconds(tab.Cell(row, "Time Spent"))
		res.Tasks[issueKey] = st
	}
	return res, nil
}

func parseCSVDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.ParseInLocation(csvDateLayout, s, time.Local); err == nil {
		return &t
	}
	return nil
}
