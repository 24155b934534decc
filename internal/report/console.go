package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/planwise/internal/engine"
	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/task"
)

var (
	colorHeading = lipgloss.Color("#7AA2F7")
	colorMuted   = lipgloss.Color("#666666")

	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorHeading)
	separatorStyle = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle     = lipgloss.NewStyle().Bold(true)
)

const separator = "==================================="

// Field sets suppressed per report type. The listing reports show only the
// identifying and time columns; everything else is noise at console width.
var (
	plannedIgnore = task.NewFieldSet(
		task.FieldDescription, task.FieldProgress, task.FieldUnplanned,
		task.FieldReporter, task.FieldEndDate, task.FieldStartDate,
		task.FieldResolution, task.FieldIssueType, task.FieldWorkLog,
	)
	unplannedIgnore = plannedIgnore.With(task.FieldEpic)
	errorsIgnore    = plannedIgnore.With(task.FieldEpic)
	deptIgnore      = plannedIgnore.With(task.FieldEpic)
)

// Console writes the fixed-layout reports to one writer. Every report is
// self-contained: it runs the aggregation passes it needs so repeated
// calls always print from fresh numbers.
type Console struct {
	Engine    *engine.Engine
	Formatter *Formatter
	Out       io.Writer
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *Console) separator() {
	fmt.Fprintln(c.Out, separatorStyle.Render(separator))
}

func (c *Console) periodHeader(title string, r period.Range) {
	fmt.Fprintln(c.Out)
	c.separator()
	fmt.Fprintln(c.Out, headingStyle.Render(title))
	c.printf("  Start Date: %s", r.StartString())
	c.printf("  End Date: %s", r.EndString())
}

// Planned prints every employee's planned tasks for the period.
func (c *Console) Planned(r period.Range) {
	agg := engine.NewAggregates(c.Engine.Roster.Names())
	c.Engine.AccumulatePlanned(r, agg)

	c.periodHeader("All Planned Report for Period", r)
	rowIgnore := plannedIgnore.With(task.FieldAssignee)
	for _, employee := range c.Engine.Roster.Names() {
		fmt.Fprintln(c.Out)
		c.printf("%s %s", labelStyle.Render("Employee Name:"), employee)
		c.printf("Tasks:")
		c.printf("%s", c.Formatter.Header(plannedIgnore))
		for _, issueKey := range c.Engine.PlannedTaskKeys(r, employee) {
			t, _ := c.Engine.Table.Get(issueKey)
			c.printf("%s", c.Formatter.Row(issueKey, t, rowIgnore))
		}
	}
	c.separator()
}

// Unplanned prints every employee's unplanned tasks for the period,
// prefixed with their meeting and vacation hours.
func (c *Console) Unplanned(r period.Range) {
	agg := engine.NewAggregates(c.Engine.Roster.Names())
	c.Engine.AccumulateUnplanned(r, agg)

	c.periodHeader("All Unplanned Report for Period", r)
	rowIgnore := unplannedIgnore.With(task.FieldAssignee)
	for _, employee := range c.Engine.Roster.Names() {
		h := agg.ByEmployee[employee]
		fmt.Fprintln(c.Out)
		c.printf("%s %s", labelStyle.Render("Employee Name:"), employee)
		c.printf("Meeting Hours: %1.2f", engine.Hours(h.MeetingSeconds))
		c.printf("Vacation Hours: %1.2f", engine.Hours(h.VacationSeconds))
		c.printf("Tasks:")
		c.printf("%s", c.Formatter.Header(unplannedIgnore))
		for _, issueKey := range c.Engine.UnplannedTaskKeys(r, employee) {
			t, _ := c.Engine.Table.Get(issueKey)
			c.printf("%s", c.Formatter.Row(issueKey, t, rowIgnore))
		}
	}
	c.separator()
}

// Errors prints every task that carries a problem annotation, grouped by
// employee. Both aggregation passes run first so the annotations from
// classification and accumulation are all present.
func (c *Console) Errors(r period.Range) {
	agg := engine.NewAggregates(c.Engine.Roster.Names())
	c.Engine.AccumulatePlanned(r, agg)
	c.Engine.AccumulateUnplanned(r, agg)

	c.periodHeader("Task Errors Report for Period", r)
	rowIgnore := errorsIgnore.With(task.FieldAssignee)
	for _, employee := range c.Engine.Roster.Names() {
		fmt.Fprintln(c.Out)
		c.printf("%s %s", labelStyle.Render("Employee Name:"), employee)
		c.printf("Errors:")
		c.printf("%s", c.Formatter.Header(errorsIgnore))
		for _, issueKey := range c.Engine.ErrorTaskKeys(r, employee) {
			t, _ := c.Engine.Table.Get(issueKey)
			c.printf("%s", c.Formatter.Row(issueKey, t, rowIgnore))
		}
	}
	c.separator()
}

// WorkLogged prints logged hours against workable hours per employee.
func (c *Console) WorkLogged(r period.Range) {
	agg := engine.NewAggregates(c.Engine.Roster.Names())
	c.Engine.AccumulateUnplanned(r, agg)

	c.periodHeader("Work Logged Report for Period", r)
	c.printf("%s", csvRow([]string{"Assignee", "Logged Hours", "Workable Hours"}))

	logged := c.Engine.WorkLogged()
	names := make([]string, 0, len(logged))
	for name := range logged {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !c.Engine.Roster.IsEmployee(name) {
			continue
		}
		workable := c.Engine.WorkableHoursForEmployee(name, r, agg)
		c.printf("%s", csvRow([]string{
			name,
			fmt.Sprintf("%1.2f", engine.Hours(logged[name])),
			fmt.Sprintf("%1.2f", workable),
		}))
	}
	c.separator()
}

// DeptBreakdown prints per-department hour totals, the unplanned ratio
// percentages and the department's task listing.
func (c *Console) DeptBreakdown(r period.Range) {
	agg := engine.NewAggregates(c.Engine.Roster.Names())
	c.Engine.AccumulatePlanned(r, agg)
	c.Engine.AccumulateUnplanned(r, agg)
	breakdown := c.Engine.DeptBreakdown(agg)

	fmt.Fprintln(c.Out)
	for _, dept := range c.Engine.DeptNames() {
		dh := breakdown[dept]
		c.separator()
		fmt.Fprintln(c.Out, headingStyle.Render("Department Breakdown for Period"))
		c.printf("Start Date: %s", r.StartString())
		c.printf("End Date: %s", r.EndString())
		c.printf("Dept: %s", capitalize(dept))
		c.printf("Unplanned Hours: %1.2f", engine.Hours(dh.UnplannedSeconds))
		c.printf("Planned Hours: %1.2f", engine.Hours(dh.PlannedSeconds))
		c.printf("Vacation Hours: %1.2f", engine.Hours(dh.VacationSeconds))
		c.printf("Meeting Hours: %1.2f", engine.Hours(dh.MeetingSeconds))

		planned := engine.Hours(dh.PlannedSeconds)
		allUnplanned := dh.UnplannedHours()
		if p := engine.Percentage(allUnplanned, planned); p != nil {
			c.printf("Percentage Unplanned to Planned: %1.2f%%", *p)
		}
		if p := engine.Percentage(allUnplanned, planned+allUnplanned); p != nil {
			c.printf("Percentage Unplanned to (Planned + Unplanned): %1.2f%%", *p)
		}

		c.printf("Tasks:")
		c.printf("%s", c.Formatter.Header(deptIgnore))
		for _, issueKey := range c.Engine.DeptTaskKeys(c.Engine.DeptCodeFor(dept)) {
			t, _ := c.Engine.Table.Get(issueKey)
			c.printf("%s", c.Formatter.Row(issueKey, t, deptIgnore))
		}
	}
	c.separator()
}

// Summary prints one line per employee with their unplanned, planned and
// vacation hour totals.
func (c *Console) Summary(r period.Range) {
	agg := engine.NewAggregates(c.Engine.Roster.Names())
	c.Engine.AccumulatePlanned(r, agg)
	c.Engine.AccumulateUnplanned(r, agg)

	fmt.Fprintln(c.Out)
	c.separator()
	fmt.Fprintln(c.Out, headingStyle.Render("Employee Hours Summary for Period"))
	c.printf("Start Date: %s", r.StartString())
	c.printf("End Date: %s", r.EndString())
	c.printf("Name, Unplanned, Planned, Vacation")
	for _, employee := range c.Engine.Roster.Names() {
		h := agg.ByEmployee[employee]
		c.printf("%s,%1.2f,%1.2f,%1.2f", employee,
			engine.Hours(h.UnplannedSeconds),
			engine.Hours(h.PlannedSeconds),
			engine.Hours(h.VacationSeconds))
	}
	c.separator()
}

// PlannedEmployees prints the employees who logged planned work in the
// period, surname order.
func (c *Console) PlannedEmployees(r period.Range) {
	agg := engine.NewAggregates(c.Engine.Roster.Names())
	c.Engine.AccumulatePlanned(r, agg)
	c.Engine.AccumulateUnplanned(r, agg)

	fmt.Fprintln(c.Out)
	c.separator()
	fmt.Fprintln(c.Out, headingStyle.Render("Employee(s) who have worked on scheduled projects in Period:"))
	c.printf("Start Date: %s", r.StartString())
	c.printf("End Date: %s", r.EndString())
	for _, employee := range agg.PlannedEmployees {
		fmt.Fprintln(c.Out, employee)
	}
	c.separator()
}

// Statistics prints the yearly and period work statistics. Percentage
// lines with a zero denominator are omitted.
func (c *Console) Statistics(r period.Range) {
	agg := engine.NewAggregates(c.Engine.Roster.Names())
	s := c.Engine.ComputeStatistics(r, agg)

	fmt.Fprintln(c.Out)
	c.separator()
	fmt.Fprintln(c.Out, headingStyle.Render("Task Statistics"))
	c.printf("Total Number of Employees: %d", s.Employees)
	c.printf("All statistics below are for all employees for a year")
	c.printf("Maximum Work Hours (Excludes Weekends): %d", int(s.YearCalendarHours))
	c.printf("Maximum Vacation Hours: %d", int(s.MaxVacationHours))
	c.printf("Maximum Holiday Hours: %d", int(s.YearHolidayHours))
	c.printf("Maximum Work Hours (Calendar Hours - (Vacation and Holidays)) for Year: %d",
		int(s.YearWorkableHours))
	fmt.Fprintln(c.Out)
	c.printf("All statistics below are for all Employees during specified period")
	c.printf("Start Date: %s", r.StartString())
	c.printf("End Date: %s", r.EndString())
	c.printf("Total Calendar Hours - (Reported Vacation and Holidays): %d", int(s.PeriodWorkableHours))
	c.printf("Total Unplanned Hours (Includes Vacations and Holidays): %d", int(s.TotalUnplannedHours))
	c.printf("Total Planned Hours (Scheduled Projects): %d", int(s.TotalPlannedHours))
	c.printf("Total Planned + Unplanned Worked Hours = %d", int(s.TotalWorkedHours))

	if s.UnplannedToWorkable != nil {
		c.printf("Total Percentage of all unplanned in relation to max possible hours that could be worked: %1.2f%%",
			*s.UnplannedToWorkable)
	}
	if s.UnplannedShare != nil {
		c.printf("Total percentage of all reported work that is unplanned (unplanned/(unplanned+planned)) = %1.2f%%",
			*s.UnplannedShare)
	}
	if s.UnplannedToPlanned != nil {
		c.printf("Total percentage of all unplanned in relation to all planned (unplanned/planned) = %1.2f%%",
			*s.UnplannedToPlanned)
	}
	if s.UnplannedShare != nil && s.UnplannedToPlanned != nil {
		c.printf("Unplanned Percentage Range: (%d%% - %d%%)",
			int(*s.UnplannedShare), int(*s.UnplannedToPlanned))
		c.printf("Unplanned Percentage Range Midpoint: %d%%",
			int((*s.UnplannedShare+*s.UnplannedToPlanned)/2))
	}
	c.separator()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
