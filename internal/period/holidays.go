package period

import (
	"fmt"
	"os"
	"strings"
)

// Holidays is the set of company holiday dates loaded from the holiday
// file: whitespace-separated DD-MM-YYYY entries.
type Holidays struct {
	dates []string
}

// LoadHolidays reads the holiday file. A missing path yields an empty set.
func LoadHolidays(path string) (*Holidays, error) {
	if path == "" {
		return &Holidays{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holidays file: %w", err)
	}
	return &Holidays{dates: strings.Fields(string(data))}, nil
}

// NewHolidays builds a set from raw DD-MM-YYYY date strings, for tests and
// callers that do not read from disk.
func NewHolidays(dates ...string) *Holidays {
	return &Holidays{dates: dates}
}

// HoursPerEmployee returns eight hours for every holiday falling inside the
// period.
func (h *Holidays) HoursPerEmployee(r Range) float64 {
	var hours float64
	for _, d := range h.dates {
		if r.ContainsString(d, HolidayLayout) {
			hours += 8
		}
	}
	return hours
}

// HoursForAllEmployees multiplies the per-employee holiday hours by the
// employee count.
func (h *Holidays) HoursForAllEmployees(r Range, employees int) float64 {
	return h.HoursPerEmployee(r) * float64(employees)
}
