package task

// Field names one column of a task record as it appears in reports and the
// persisted snapshot. Using a typed constant instead of bare strings keeps
// report exclusion lists checkable at compile time.
type Field string

const (
	FieldEpic              Field = "Epic"
	FieldIssueKey          Field = "Issue Key"
	FieldSummary           Field = "Summary"
	FieldAssignee          Field = "Assignee"
	FieldIssueType         Field = "Issue Type"
	FieldUnplanned         Field = "Unplanned"
	FieldResolution        Field = "Resolution"
	FieldCreatedDate       Field = "Created Date"
	FieldReporter          Field = "Reporter"
	FieldDescription       Field = "Description"
	FieldOriginalEstimate  Field = "Original Estimate"
	FieldRemainingEstimate Field = "Remaining Estimate"
	FieldTimeSpent         Field = "Time Spent"
	FieldWorkLog           Field = "Work Log"
	FieldStartDate         Field = "Start Date"
	FieldEndDate           Field = "End Date"
	FieldProgress          Field = "Progress"
	FieldProblem           Field = "Problem"
)

// Columns is the canonical column order used by every report and by the
// snapshot tables. Header rows and data rows must both be driven off this
// slice so they cannot drift apart.
var Columns = []Field{
	FieldEpic,
	FieldIssueKey,
	FieldSummary,
	FieldAssignee,
	FieldIssueType,
	FieldUnplanned,
	FieldResolution,
	FieldCreatedDate,
	FieldReporter,
	FieldDescription,
	FieldOriginalEstimate,
	FieldRemainingEstimate,
	FieldTimeSpent,
	FieldWorkLog,
	FieldStartDate,
	FieldEndDate,
	FieldProgress,
	FieldProblem,
}

// LogColumns is the column order for work-log rows.
var LogColumns = []Field{
	FieldIssueKey,
	FieldAssignee,
	FieldCreatedDate,
	FieldTimeSpent,
}

// DateFields are rendered as MM/DD/YYYY HH:MM.
var DateFields = map[Field]bool{
	FieldStartDate:   true,
	FieldEndDate:     true,
	FieldCreatedDate: true,
}

// TimeFields are rendered as hours with two decimal places.
var TimeFields = map[Field]bool{
	FieldRemainingEstimate: true,
	FieldOriginalEstimate:  true,
	FieldTimeSpent:         true,
	FieldProgress:          true,
}

// NameFields are passed through the roster normalizer on output.
var NameFields = map[Field]bool{
	FieldAssignee: true,
	FieldReporter: true,
}

// FieldSet is an exclusion set for report rendering.
type FieldSet map[Field]bool

// NewFieldSet builds a set from the given fields.
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = true
	}
	return s
}

// With returns a copy of the set extended with more fields.
func (s FieldSet) With(fields ...Field) FieldSet {
	out := make(FieldSet, len(s)+len(fields))
	for f := range s {
		out[f] = true
	}
	for _, f := range fields {
		out[f] = true
	}
	return out
}
