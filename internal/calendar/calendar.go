// Package calendar ingests per-employee calendar CSV exports. Each file is
// named <first>_<last>_calendar.csv; the employee is derived from the
// filename since the export itself does not carry an owner column.
package calendar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/planwise/internal/csvtab"
)

// Meeting is one accepted calendar entry.
type Meeting struct {
	Assignee    string
	Subject     string
	Organizer   string
	Description string
	Start       time.Time
	End         time.Time
	Seconds     int64
}

var columns = []string{
	"Subject",
	"Start Date",
	"Start Time",
	"End Date",
	"End Time",
	"Meeting Organizer",
	"Required Attendees",
	"Description",
	"Categories",
	"All day event",
	"Private",
	"Location",
}

// LoadGlob reads every calendar file matching the pattern. Entries are
// dropped when they are holidays, private, agile ceremonies, all-day
// events or cancellations, or when either timestamp cannot be parsed.
func LoadGlob(pattern string, normalize func(string) string) ([]Meeting, error) {
	filenames, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob calendars: %w", err)
	}

	var meetings []Meeting
	for _, filename := range filenames {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("open calendar: %w", err)
		}
		assignee := normalize(assigneeFromFilename(filename))
		fileMeetings, err := load(f, assignee)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read calendar %s: %w", filename, err)
		}
		meetings = append(meetings, fileMeetings...)
	}
	return meetings, nil
}

func load(r *os.File, assignee string) ([]Meeting, error) {
	tab, err := csvtab.Read(r, columns)
	if err != nil {
		return nil, err
	}

	var meetings []Meeting
	for _, row := range tab.Rows {
		subject := tab.Cell(row, "Subject")
		if tab.Cell(row, "Categories") == "Holiday" {
			continue
		}
		if tab.Cell(row, "Private") == "TRUE" {
			continue
		}
		if strings.Contains(strings.ToLower(subject), "agile") {
			continue
		}
		if tab.Cell(row, "All day event") == "TRUE" {
			continue
		}
		if strings.Contains(subject, "Canceled") {
			continue
		}

		start := parseDateTime(tab.Cell(row, "Start Date"), tab.Cell(row, "Start Time"))
		end := parseDateTime(tab.Cell(row, "End Date"), tab.Cell(row, "End Time"))
		if start == nil || end == nil {
			continue
		}

		meetings = append(meetings, Meeting{
			Assignee:    assignee,
			Subject:     subject,
			Organizer:   tab.Cell(row, "Meeting Organizer"),
			Description: tab.Cell(row, "Description"),
			Start:       *start,
			End:         *end,
			Seconds:     int64(end.Sub(*start).Seconds()),
		})
	}
	return meetings, nil
}

// assigneeFromFilename turns jane_doe_calendar.csv into "Jane Doe".
func assigneeFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	tokens := strings.Split(base, "_")
	if len(tokens) < 2 {
		return base
	}
	return titleCase(tokens[0]) + " " + titleCase(tokens[1])
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func parseDateTime(date, clock string) *time.Time {
	s := strings.TrimSpace(date + " " + clock)
	if strings.TrimSpace(date) == "" {
		return nil
	}
	for _, layout := range []string{
		"1/2/2006 3:04:05 PM",
		"1/2/2006 3:04 PM",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
