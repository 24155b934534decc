// Package tracker is a thin client for the issue-tracker REST API: a
// paginated JQL search plus per-issue work logs, mapped onto unified task
// updates.
package tracker

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sadopc/planwise/internal/task"
)

// IssueRecord is one fetched issue ready to merge into the task table.
type IssueRecord struct {
	Key       string
	Unplanned bool
	Update    task.Update
}

// Result is everything a tracker fetch produces: issues in retrieval order
// and total logged seconds per work-log author.
type Result struct {
	Issues     []IssueRecord
	WorkLogged map[string]int64
}

// Client talks to one tracker site with basic auth.
type Client struct {
	BaseURL           string
	Username          string
	Token             string
	UnplannedField    string
	EpicField         string
	VacationIssueType string

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

type searchResponse struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []issueJSON `json:"issues"`
}

type issueJSON struct {
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

type worklogResponse struct {
	Worklogs []worklogJSON `json:"worklogs"`
}

type worklogJSON struct {
	Author struct {
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Created          string `json:"created"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
}

// FetchTasks runs the JQL search page by page and, when includeWorkLogs is
// set, pulls the work log of every issue. Names pass through normalize. A
// failed request aborts the fetch; the run is regenerated wholesale on the
// next invocation, so there is no retry.
func (c *Client) FetchTasks(jql string, normalize func(string) string, includeWorkLogs bool) (*Result, error) {
	res := &Result{WorkLogged: make(map[string]int64)}

	startAt := 0
	for {
		page, err := c.search(jql, startAt)
		if err != nil {
			return nil, err
		}
		for _, issue := range page.Issues {
			rec := c.mapIssue(issue, normalize)
			if includeWorkLogs {
				logs, err := c.worklogs(issue.Key, normalize)
				if err != nil {
					return nil, err
				}
				rec.Update.WorkLog = logs
				for _, l := range logs {
					res.WorkLogged[l.Assignee] += l.TimeSpent
				}
			}
			res.Issues = append(res.Issues, rec)
		}
		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}
	return res, nil
}

func (c *Client) search(jql string, startAt int) (*searchResponse, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", fmt.Sprintf("%d", startAt))
	q.Set("maxResults", fmt.Sprintf("%d", c.pageSize()))

	var page searchResponse
	if err := c.get("/rest/api/2/search?"+q.Encode(), &page); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	return &page, nil
}

func (c *Client) worklogs(issueKey string, normalize func(string) string) ([]task.WorkLogEntry, error) {
	var resp worklogResponse
	if err := c.get("/rest/api/2/issue/"+url.PathEscape(issueKey)+"/worklog", &resp); err != nil {
		return nil, fmt.Errorf("worklogs for %s: %w", issueKey, err)
	}
	entries := make([]task.WorkLogEntry, 0, len(resp.Worklogs))
	for _, w := range resp.Worklogs {
		entries = append(entries, task.WorkLogEntry{
			Assignee:  normalize(w.Author.DisplayName),
			Created:   ParseTimestamp(w.Created),
			TimeSpent: w.TimeSpentSeconds,
		})
	}
	return entries, nil
}

func (c *Client) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, strings.TrimSuffix(c.BaseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.Username, c.Token)
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

// mapIssue converts one raw issue into an IssueRecord. Missing names fall
// back to "Unassigned"; absent estimates count as zero; the vacation issue
// type always marks the record unplanned.
func (c *Client) mapIssue(issue issueJSON, normalize func(string) string) IssueRecord {
	f := issue.Fields

	assignee := "Unassigned"
	if name := nestedString(f, "assignee", "displayName"); name != "" {
		assignee = normalize(name)
	}
	reporter := "Unassigned"
	if name := nestedString(f, "reporter", "displayName"); name != "" {
		reporter = normalize(name)
	}

	issueType := nestedString(f, "issuetype", "name")

	unplanned := false
	if values, ok := f[c.UnplannedField].([]any); ok && len(values) > 0 {
		if entry, ok := values[0].(map[string]any); ok {
			unplanned = entry["value"] == "Unplanned"
		}
	}
	if issueType == c.VacationIssueType {
		unplanned = true
	}

	u := task.Update{
		Assignee:          task.String(assignee),
		Reporter:          task.String(reporter),
		IssueType:         task.String(issueType),
		Summary:           stringField(f, "summary"),
		Description:       stringField(f, "description"),
		CreatedDate:       ParseTimestamp(asString(f["created"])),
		OriginalEstimate:  task.Seconds(intField(f, "timeoriginalestimate")),
		RemainingEstimate: task.Seconds(intField(f, "timeestimate")),
		TimeSpent:         task.Seconds(intField(f, "timespent")),
	}
	if name := nestedString(f, "resolution", "name"); name != "" {
		u.Resolution = task.String(name)
	}
	if epic := asString(f[c.EpicField]); epic != "" {
		u.Epic = task.String(epic)
	}

	return IssueRecord{Key: issue.Key, Unplanned: unplanned, Update: u}
}

func stringField(fields map[string]any, name string) *string {
	if s := asString(fields[name]); s != "" {
		return task.String(s)
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func nestedString(fields map[string]any, name, inner string) string {
	obj, ok := fields[name].(map[string]any)
	if !ok {
		return ""
	}
	return asString(obj[inner])
}

func intField(fields map[string]any, name string) int64 {
	if n, ok := fields[name].(float64); ok {
		return int64(n)
	}
	return 0
}

// ParseTimestamp parses the tracker's ISO-ish timestamps, stripping the
// trailing zone offset so the result stays in naive local time. Malformed
// input yields nil rather than an error.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Strip a trailing +hhmm / -hhmm offset or Z suffix.
	if i := strings.LastIndexAny(s, "+-"); i > 10 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range []string{
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
