package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sadopc/planwise/internal/calendar"
	"github.com/sadopc/planwise/internal/config"
	"github.com/sadopc/planwise/internal/engine"
	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/report"
	"github.com/sadopc/planwise/internal/roster"
	"github.com/sadopc/planwise/internal/sheet"
	"github.com/sadopc/planwise/internal/store"
	"github.com/sadopc/planwise/internal/tracker"
)

const jqlDateLayout = "2006/01/02"

// app is one reconciliation run: config, roster, loaded engine and the
// normalized reporting period.
type app struct {
	cfg     *config.Config
	roster  *roster.Roster
	engine  *engine.Engine
	console *report.Console
	rng     period.Range
}

// buildApp loads config, normalizes the period, pulls every source into
// the engine and snapshots the merged table.
func buildApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	start, end := cfg.Period.Start, cfg.Period.End
	if startFlag != "" {
		start = startFlag
	}
	if endFlag != "" {
		end = endFlag
	}
	rng, notices, err := period.NormalizeRange(start, end)
	if err != nil {
		return nil, err
	}
	for _, n := range notices {
		fmt.Println(n)
	}

	employees := make([]roster.Employee, len(cfg.Employees))
	for i, e := range cfg.Employees {
		employees[i] = roster.Employee{
			Name:         e.Name,
			Group:        e.Group,
			Dept:         e.Dept,
			VacationDays: e.VacationDays,
			Aliases:      e.Aliases,
		}
	}
	r := roster.New(employees, cfg.MailDomains)

	holidays, err := period.LoadHolidays(cfg.HolidaysFile)
	if err != nil {
		return nil, err
	}

	eng := engine.New(engine.Params{
		Roster:       r,
		Planned:      cfg.Departments.Planned,
		Unplanned:    cfg.Departments.Unplanned,
		MeetingCode:  cfg.Departments.MeetingCode,
		VacationType: cfg.Tracker.VacationIssueType,
		Workday: period.Workday{
			StartHour: cfg.Workday.StartHour,
			EndHour:   cfg.Workday.EndHour,
		},
		Holidays: holidays,
	})

	a := &app{
		cfg:    cfg,
		roster: r,
		engine: eng,
		rng:    rng,
		console: &report.Console{
			Engine:    eng,
			Formatter: &report.Formatter{Normalize: r.Normalize},
			Out:       os.Stdout,
		},
	}

	if fromSnap {
		if err := a.restoreSnapshot(); err != nil {
			return nil, err
		}
		return a, nil
	}

	if err := a.loadTracker(); err != nil {
		return nil, err
	}
	if err := a.loadSchedule(); err != nil {
		return nil, err
	}
	if err := a.loadCalendars(); err != nil {
		return nil, err
	}

	if !noSnapshot {
		if err := a.snapshot(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) restoreSnapshot() error {
	s, err := store.OpenExisting(a.cfg.Database)
	if err != nil {
		return err
	}
	defer s.Close()
	table, err := s.LoadTable()
	if err != nil {
		return err
	}
	a.engine.LoadSnapshot(table)
	return nil
}

func (a *app) loadTracker() error {
	if trackerCSV != "" {
		f, err := os.Open(trackerCSV)
		if err != nil {
			return fmt.Errorf("open tracker export: %w", err)
		}
		defer f.Close()
		res, err := tracker.LoadCSV(f, a.cfg.Tracker.VacationIssueType, a.roster.Normalize)
		if err != nil {
			return err
		}
		a.engine.LoadTracker(res)
		return nil
	}

	client := &tracker.Client{
		BaseURL:           a.cfg.Tracker.BaseURL,
		Username:          a.cfg.Tracker.Username,
		Token:             a.cfg.Tracker.Token,
		UnplannedField:    a.cfg.Tracker.UnplannedField,
		EpicField:         a.cfg.Tracker.EpicField,
		VacationIssueType: a.cfg.Tracker.VacationIssueType,
	}
	res, err := client.FetchTasks(a.jql(), a.roster.Normalize, true)
	if err != nil {
		return err
	}
	a.engine.LoadTracker(res)
	return nil
}

// jql builds the issue query covering every configured department over the
// reporting period.
func (a *app) jql() string {
	var codes []string
	for _, code := range a.cfg.Departments.Planned {
		codes = append(codes, code)
	}
	for _, code := range a.cfg.Departments.Unplanned {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return fmt.Sprintf(
		"project in (%s) and createdDate >= '%s' and createdDate <= '%s' ORDER BY created DESC",
		strings.Join(codes, ", "),
		a.rng.Start.Format(jqlDateLayout),
		a.rng.EndTime().Format(jqlDateLayout))
}

func (a *app) loadSchedule() error {
	if sheetCSV != "" {
		f, err := os.Open(sheetCSV)
		if err != nil {
			return fmt.Errorf("open schedule export: %w", err)
		}
		defer f.Close()
		res, err := sheet.LoadCSV(f, a.roster.Normalize)
		if err != nil {
			return err
		}
		a.engine.LoadSchedule(res)
		return nil
	}

	if len(a.cfg.Sheet.Projects) == 0 {
		return nil
	}
	client := &sheet.Client{
		BaseURL: a.cfg.Sheet.BaseURL,
		Token:   a.cfg.Sheet.Token,
	}
	res, err := client.FetchTasks(a.cfg.Sheet.Projects, a.roster.Normalize, a.cfg.Sheet.UpdateProgress)
	if err != nil {
		return err
	}
	a.engine.LoadSchedule(res)
	return nil
}

func (a *app) loadCalendars() error {
	if a.cfg.CalendarGlob == "" {
		return nil
	}
	meetings, err := calendar.LoadGlob(a.cfg.CalendarGlob, a.roster.Normalize)
	if err != nil {
		return err
	}
	a.engine.LoadMeetings(meetings, a.rng)
	return nil
}

func (a *app) snapshot() error {
	s, err := store.Open(a.cfg.Database)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveTable(a.engine.Table, a.roster.Normalize)
}
