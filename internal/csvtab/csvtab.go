// Package csvtab reads column-indexed CSV exports. The tracker, schedule
// sheet and calendar exports all share the same shape: zero or more preamble
// rows, then a header row naming the columns, then data rows. One reader
// parameterized by the expected header names serves all three.
package csvtab

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is a parsed CSV export: a header-name position map plus the data
// rows following the header.
type Table struct {
	Columns map[string]int
	Rows    [][]string
}

// Read scans for the first row containing every required column name,
// builds the position map and collects the remaining non-empty rows.
func Read(r io.Reader, required []string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var header map[string]int
	var rows [][]string

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if isEmpty(record) {
			continue
		}
		if header == nil {
			header = matchHeader(record, required)
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return nil, fmt.Errorf("header row with columns %v not found", required)
	}
	return &Table{Columns: header, Rows: rows}, nil
}

// matchHeader returns a name->index map when the record contains every
// required column, nil otherwise. A UTF-8 BOM on the first cell is ignored.
func matchHeader(record, required []string) map[string]int {
	index := make(map[string]int, len(record))
	for i, cell := range record {
		index[strings.TrimPrefix(strings.TrimSpace(cell), "\ufeff")] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil
		}
	}
	return index
}

func isEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Cell returns the named column of a row, or "" when the row is short or
// the column unknown. Values are whitespace-trimmed.
func (t *Table) Cell(row []string, column string) string {
	i, ok := t.Columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
