package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/planwise/internal/period"
	"github.com/sadopc/planwise/internal/task"
)

// The dump excludes the work-log column; log entries get their own table
// in the snapshot instead.
var dumpIgnore = task.NewFieldSet(task.FieldIssueKey, task.FieldWorkLog)

// DumpAll writes every task as CSV, the issue key first.
func (c *Console) DumpAll(w io.Writer) error {
	return c.dump(w, nil)
}

// DumpInPeriod writes only the tasks whose anchor date falls inside the
// period.
func (c *Console) DumpInPeriod(w io.Writer, r period.Range) error {
	return c.dump(w, &r)
}

func (c *Console) dump(w io.Writer, r *period.Range) error {
	cw := csv.NewWriter(w)

	header := []string{string(task.FieldIssueKey)}
	for _, col := range task.Columns {
		if !dumpIgnore[col] {
			header = append(header, string(col))
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, issueKey := range c.Engine.Table.Keys() {
		if r != nil && !r.Contains(c.Engine.AnchorDate(issueKey)) {
			continue
		}
		t, _ := c.Engine.Table.Get(issueKey)
		row := []string{issueKey}
		for _, col := range task.Columns {
			if !dumpIgnore[col] {
				row = append(row, c.Formatter.cell(issueKey, t, col))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// DumpToFile writes a task dump to path, restricted to the period when
// inPeriod is set.
func (c *Console) DumpToFile(path string, r period.Range, inPeriod bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump file: %w", err)
	}
	defer f.Close()

	if inPeriod {
		return c.DumpInPeriod(f, r)
	}
	return c.DumpAll(f)
}
