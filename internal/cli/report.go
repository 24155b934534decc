package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reportTypes = []string{
	"planned",
	"unplanned",
	"errors",
	"work-logged",
	"dept-breakdown",
	"summary",
	"employees",
	"statistics",
}

var reportCmd = &cobra.Command{
	Use:       "report <type>",
	Short:     "Print a console report for the period",
	Long:      "Report types: " + strings.Join(reportTypes, ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: reportTypes,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		switch args[0] {
		case "planned":
			a.console.Planned(a.rng)
		case "unplanned":
			a.console.Unplanned(a.rng)
		case "errors":
			a.console.Errors(a.rng)
		case "work-logged":
			a.console.WorkLogged(a.rng)
		case "dept-breakdown":
			a.console.DeptBreakdown(a.rng)
		case "summary":
			a.console.Summary(a.rng)
		case "employees":
			a.console.PlannedEmployees(a.rng)
		case "statistics":
			a.console.Statistics(a.rng)
		default:
			return fmt.Errorf("unknown report type %q, want one of: %s",
				args[0], strings.Join(reportTypes, ", "))
		}
		return nil
	},
}
