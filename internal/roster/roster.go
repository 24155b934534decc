// Package roster maps raw assignee and reporter strings coming from the
// external services onto the configured employee identities.
package roster

import (
	"fmt"
	"sort"
	"strings"
)

// Employee is one configured team member.
type Employee struct {
	Name         string
	Group        string
	Dept         string
	VacationDays int
	Aliases      []string
}

// Roster holds the employee table plus the alias lookup built at startup.
type Roster struct {
	employees map[string]Employee
	names     []string          // canonical names sorted by surname
	aliases   map[string]string // alias -> canonical name
}

// New builds a roster. The alias table combines each employee's configured
// aliases with synthesized firstname.lastname@domain addresses for every
// mail domain.
func New(employees []Employee, mailDomains []string) *Roster {
	r := &Roster{
		employees: make(map[string]Employee, len(employees)),
		aliases:   make(map[string]string),
	}
	for _, e := range employees {
		r.employees[e.Name] = e
		r.names = append(r.names, e.Name)
		for _, a := range e.Aliases {
			r.aliases[a] = e.Name
		}
		parts := strings.Fields(e.Name)
		if len(parts) >= 2 {
			for _, domain := range mailDomains {
				alias := fmt.Sprintf("%s.%s@%s",
					strings.ToLower(parts[0]),
					strings.ToLower(parts[len(parts)-1]),
					strings.ToLower(domain))
				r.aliases[alias] = e.Name
			}
		}
	}
	sort.Slice(r.names, func(i, j int) bool {
		return surname(r.names[i]) < surname(r.names[j])
	})
	return r
}

func surname(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return name
	}
	return parts[len(parts)-1]
}

// capwords title-cases each whitespace-separated word.
func capwords(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}

// Normalize maps a raw name to a canonical employee name. Unrecognized
// names pass through unchanged so they can still be displayed; they will
// fail roster membership tests. Normalize never fails.
func (r *Roster) Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	if _, ok := r.employees[raw]; ok {
		return raw
	}
	if cap := capwords(raw); r.has(cap) {
		return cap
	}
	dotted := capwords(strings.ReplaceAll(raw, ".", " "))
	if r.has(dotted) {
		return dotted
	}
	if canonical, ok := r.aliases[dotted]; ok {
		return canonical
	}
	if canonical, ok := r.aliases[raw]; ok {
		return canonical
	}
	return raw
}

func (r *Roster) has(name string) bool {
	_, ok := r.employees[name]
	return ok
}

// IsEmployee reports whether the name is a configured employee or a known
// alias of one.
func (r *Roster) IsEmployee(name string) bool {
	if r.has(name) {
		return true
	}
	_, ok := r.aliases[name]
	return ok
}

// Names returns the canonical employee names sorted by surname.
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Employee returns the configured record for a canonical name.
func (r *Roster) Employee(name string) (Employee, bool) {
	e, ok := r.employees[name]
	return e, ok
}

// Len returns the number of configured employees.
func (r *Roster) Len() int { return len(r.employees) }

// MaxVacationHours is the total vacation allowance across the roster, at
// eight hours per configured vacation day.
func (r *Roster) MaxVacationHours() float64 {
	var total float64
	for _, e := range r.employees {
		total += float64(e.VacationDays) * 8
	}
	return total
}
