// Package sheet is a thin client for the schedule-sheet service: paginated
// row fetches keyed by a column-name map, plus an optional progress
// push-back.
package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ScheduledTask is one schedule row keyed by issue key.
type ScheduledTask struct {
	Assignee          string
	Summary           string
	StartDate         *time.Time
	EndDate           *time.Time
	OriginalEstimate  int64 // seconds
	RemainingEstimate int64 // seconds
	TimeSpent         int64 // seconds
}

// Result holds every scheduled task across the configured sheets.
type Result struct {
	Tasks map[string]ScheduledTask
}

// Keys returns the set of issue keys present in the schedule.
func (r *Result) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(r.Tasks))
	for k := range r.Tasks {
		keys[k] = struct{}{}
	}
	return keys
}

// Client talks to the schedule-sheet REST API with a bearer token.
type Client struct {
	BaseURL string
	Token   string

	HTTPClient *http.Client
	PageSize   int
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return 100
}

type sheetPage struct {
	TotalRowCount int `json:"totalRowCount"`
	Columns       []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"columns"`
	Rows []sheetRow `json:"rows"`
}

type sheetRow struct {
	ID    int64 `json:"id"`
	Cells []struct {
		ColumnID     int64  `json:"columnId"`
		Value        any    `json:"value"`
		DisplayValue string `json:"displayValue"`
	} `json:"cells"`
}

// FetchTasks pulls every row of every configured sheet, page by page. Rows
// without an issue key are not schedule entries; rows without an assignee
// are roll-ups. Both are skipped. When updateProgress is set, a progress
// fraction derived from spent and remaining time is pushed back per row.
func (c *Client) FetchTasks(projects map[string]string, normalize func(string) string, updateProgress bool) (*Result, error) {
	res := &Result{Tasks: make(map[string]ScheduledTask)}

	for name, sheetID := range projects {
		if err := c.fetchSheet(sheetID, normalize, updateProgress, res); err != nil {
			return nil, fmt.Errorf("fetch sheet %q: %w", name, err)
		}
	}
	return res, nil
}

func (c *Client) fetchSheet(sheetID string, normalize func(string) string, updateProgress bool, res *Result) error {
	columns := make(map[string]int64)

	for page := 1; ; page++ {
		var sp sheetPage
		path := fmt.Sprintf("/2.0/sheets/%s?pageSize=%d&page=%d", sheetID, c.pageSize(), page)
		if err := c.get(path, &sp); err != nil {
			return err
		}
		if page == 1 {
			for _, col := range sp.Columns {
				columns[col.Title] = col.ID
			}
		}

		for _, row := range sp.Rows {
			c.mapRow(sheetID, row, columns, normalize, updateProgress, res)
		}

		if len(sp.Rows) < c.pageSize() {
			return nil
		}
	}
}

func (c *Client) mapRow(sheetID string, row sheetRow, columns map[string]int64, normalize func(string) string, updateProgress bool, res *Result) {
	cell := func(title string) string {
		id, ok := columns[title]
		if !ok {
			return ""
		}
		for _, cl := range row.Cells {
			if cl.ColumnID == id {
				if cl.DisplayValue != "" {
					return cl.DisplayValue
				}
				if s, ok := cl.Value.(string); ok {
					return s
				}
				return ""
			}
		}
		return ""
	}

	issueKey := cell("Issue Key")
	if issueKey == "" {
		return
	}
	assignee := cell("Assignee")
	if assignee == "" {
		return
	}

	st := ScheduledTask{
		Assignee:  normalize(assignee),
		Summary:   cell("Summary"),
		StartDate: parseSheetDate(cell("Start Date")),
		EndDate:   parseSheetDate(cell("End Date")),
	}
	st.OriginalEstimate, _ = TimeToSeconds(cell("Original Time Estimated"))
	st.RemainingEstimate, _ = TimeToSeconds(cell("Remaining Time Estimated"))
	st.TimeSpent, _ = TimeToSeconds(cell("Time Spent"))
	res.Tasks[issueKey] = st

	if updateProgress {
		progress := 1.0
		if st.RemainingEstimate != 0 {
			progress = float64(st.TimeSpent) / float64(st.RemainingEstimate+st.TimeSpent)
		}
		// A failed push-back is reported but never aborts the fetch.
		if err := c.updateRowProgress(sheetID, row.ID, columns["Progress"], progress); err != nil {
			fmt.Printf("warning: update progress for %s: %v\n", issueKey, err)
		}
	}
}

func (c *Client) updateRowProgress(sheetID string, rowID, columnID int64, progress float64) error {
	body, err := json.Marshal([]map[string]any{{
		"id": rowID,
		"cells": []map[string]any{{
			"columnId": columnID,
			"value":    progress,
			"strict":   true,
		}},
	}})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPut,
		strings.TrimSuffix(c.BaseURL, "/")+"/2.0/sheets/"+sheetID+"/rows",
		bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func (c *Client) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, strings.TrimSuffix(c.BaseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseSheetDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "01/02/06", "01/02/2006"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
