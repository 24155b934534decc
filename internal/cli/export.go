package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportInPeriod bool

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the task table as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.console.DumpToFile(args[0], a.rng, exportInPeriod); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportInPeriod, "in-period", false,
		"only tasks whose anchor date falls inside the period")
}
