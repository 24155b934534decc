// Package config loads the planwise TOML configuration: service
// credentials, department code tables, the employee roster and the
// reporting defaults.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	Company      string   `toml:"company"`
	Database     string   `toml:"database"`
	HolidaysFile string   `toml:"holidays_file"`
	CalendarGlob string   `toml:"calendar_glob"`
	MailDomains  []string `toml:"mail_domains"`

	Tracker     Tracker     `toml:"tracker"`
	Sheet       Sheet       `toml:"sheet"`
	Departments Departments `toml:"departments"`
	Workday     Workday     `toml:"workday"`
	Period      Period      `toml:"period"`

	Employees []Employee `toml:"employees"`
}

// Tracker holds the issue-tracker connection and custom-field names.
type Tracker struct {
	BaseURL           string `toml:"base_url"`
	Username          string `toml:"username"`
	Token             string `toml:"token"`
	UnplannedField    string `toml:"unplanned_field"`
	EpicField         string `toml:"epic_field"`
	VacationIssueType string `toml:"vacation_issue_type"`
}

// Sheet holds the schedule-sheet connection and the sheets to pull.
type Sheet struct {
	BaseURL        string            `toml:"base_url"`
	Token          string            `toml:"token"`
	Projects       map[string]string `toml:"projects"` // project name -> sheet id
	UpdateProgress bool              `toml:"update_progress"`
}

// Departments maps department names to issue-key code prefixes.
type Departments struct {
	Planned     map[string]string `toml:"planned"`
	Unplanned   map[string]string `toml:"unplanned"`
	MeetingCode string            `toml:"meeting_code"`
}

// Workday is the daily working-hour window.
type Workday struct {
	StartHour int `toml:"start_hour"`
	EndHour   int `toml:"end_hour"`
}

// Period is the default reporting window. End may be blank for a rolling
// "up to now" window.
type Period struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// Employee is one roster entry.
type Employee struct {
	Name         string   `toml:"name"`
	Group        string   `toml:"group"`
	Dept         string   `toml:"dept"`
	VacationDays int      `toml:"vacation_days"`
	Aliases      []string `toml:"aliases"`
}

// Load reads and validates a config file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database == "" {
		c.Database = "tasks.sqlite"
	}
	if c.Tracker.VacationIssueType == "" {
		c.Tracker.VacationIssueType = "Vacation"
	}
	if c.Departments.MeetingCode == "" {
		c.Departments.MeetingCode = "MEET"
	}
	if c.Workday.StartHour == 0 && c.Workday.EndHour == 0 {
		c.Workday = Workday{StartHour: 8, EndHour: 16}
	}
}

func (c *Config) validate() error {
	if len(c.Employees) == 0 {
		return fmt.Errorf("config: at least one employee is required")
	}
	for i, e := range c.Employees {
		if e.Name == "" {
			return fmt.Errorf("config: employee %d has no name", i)
		}
	}
	if len(c.Departments.Planned) == 0 {
		return fmt.Errorf("config: at least one planned department is required")
	}
	if c.Workday.EndHour <= c.Workday.StartHour {
		return fmt.Errorf("config: workday end hour must be after start hour")
	}
	if c.Period.Start == "" {
		return fmt.Errorf("config: period start date is required")
	}
	return nil
}
