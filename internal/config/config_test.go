package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
company = "Acme"
holidays_file = "holidays.txt"
calendar_glob = "calendars/*_calendar.csv"
mail_domains = ["acme.com"]

[tracker]
base_url = "https://tracker.acme.com"
username = "bot"
token = "secret"
unplanned_field = "customfield_10"
epic_field = "customfield_11"

[sheet]
base_url = "https://sheets.acme.com"
token = "secret"
update_progress = true

[sheet.projects]
widgets = "123"

[departments.planned]
software = "SOF"

[departments.unplanned]
sustaining = "SUS"

[period]
start = "12/20/2018 00:00"
end = "12/26/2018 23:59"

[[employees]]
name = "Jane Doe"
group = "dev"
dept = "software"
vacation_days = 22
aliases = ["jdoe"]

[[employees]]
name = "John Smith"
dept = "mechanical"
vacation_days = 17
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planwise.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.Company)
	assert.Equal(t, "https://tracker.acme.com", cfg.Tracker.BaseURL)
	assert.Equal(t, "customfield_10", cfg.Tracker.UnplannedField)
	assert.Equal(t, map[string]string{"widgets": "123"}, cfg.Sheet.Projects)
	assert.True(t, cfg.Sheet.UpdateProgress)
	assert.Equal(t, "SOF", cfg.Departments.Planned["software"])
	assert.Equal(t, "SUS", cfg.Departments.Unplanned["sustaining"])
	assert.Equal(t, "12/20/2018 00:00", cfg.Period.Start)

	require.Len(t, cfg.Employees, 2)
	assert.Equal(t, "Jane Doe", cfg.Employees[0].Name)
	assert.Equal(t, 22, cfg.Employees[0].VacationDays)
	assert.Equal(t, []string{"jdoe"}, cfg.Employees[0].Aliases)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "tasks.sqlite", cfg.Database)
	assert.Equal(t, "Vacation", cfg.Tracker.VacationIssueType)
	assert.Equal(t, "MEET", cfg.Departments.MeetingCode)
	assert.Equal(t, Workday{StartHour: 8, EndHour: 16}, cfg.Workday)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "no employees",
			body: `
[departments.planned]
software = "SOF"
[period]
start = "12/20/2018 00:00"
`,
			want: "at least one employee",
		},
		{
			name: "unnamed employee",
			body: `
[departments.planned]
software = "SOF"
[period]
start = "12/20/2018 00:00"
[[employees]]
dept = "software"
`,
			want: "has no name",
		},
		{
			name: "no planned departments",
			body: `
[period]
start = "12/20/2018 00:00"
[[employees]]
name = "Jane Doe"
`,
			want: "planned department",
		},
		{
			name: "inverted workday",
			body: `
[departments.planned]
software = "SOF"
[workday]
start_hour = 16
end_hour = 8
[period]
start = "12/20/2018 00:00"
[[employees]]
name = "Jane Doe"
`,
			want: "end hour",
		},
		{
			name: "missing period start",
			body: `
[departments.planned]
software = "SOF"
[[employees]]
name = "Jane Doe"
`,
			want: "period start",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadBadTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "company = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
