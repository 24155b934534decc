// Package cli wires the planwise commands: fetch and reconcile the task
// sources, snapshot the result to SQLite, then print reports or write CSV
// dumps.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	startFlag  string
	endFlag    string
	trackerCSV string
	sheetCSV   string
	noSnapshot bool
	fromSnap   bool
)

var rootCmd = &cobra.Command{
	Use:           "planwise",
	Short:         "Reconcile tracker, schedule and calendar data into planned/unplanned reports",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "planwise.toml", "path to the config file")
	pf.StringVar(&startFlag, "start", "", "period start (MM/DD/YYYY HH:MM), overrides config")
	pf.StringVar(&endFlag, "end", "", "period end (MM/DD/YYYY HH:MM), overrides config")
	pf.StringVar(&trackerCSV, "tracker-csv", "", "load tracker issues from a CSV export instead of the API")
	pf.StringVar(&sheetCSV, "sheet-csv", "", "load the schedule from a CSV export instead of the API")
	pf.BoolVar(&noSnapshot, "no-snapshot", false, "skip writing the SQLite snapshot")
	pf.BoolVar(&fromSnap, "from-snapshot", false, "report from the last SQLite snapshot instead of fetching sources")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
