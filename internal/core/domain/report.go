package domain

// ReportRow is one line of the ticket to group report.
type ReportRow struct {
	TicketID  string
	Title     string
	Status    string
	GroupID   string
	GroupName string
}

// HasGroup reports whether a group was resolved for the ticket.
func (r ReportRow) HasGroup() bool {
	return r.GroupID != "" && r.GroupID != NotAvailable
}

// Report is the result of one group resolution run.
type Report struct {
	Strategy  string
	Rows      []ReportRow
	Processed int
}

// WithGroup counts tickets that resolved to a group.
func (r *Report) WithGroup() int {
	n := 0
	for _, row := range r.Rows {
		if row.HasGroup() {
			n++
		}
	}
	return n
}

// WithoutGroup counts tickets left as N/A.
func (r *Report) WithoutGroup() int {
	return len(r.Rows) - r.WithGroup()
}
