package models

import "time"

// Logical table keys used by the status ledger.
const (
	TableGradeResults    = "grade_results"
	TableCourseDefs      = "course_defs"
	TableSupervisors     = "supervisors"
	TableScholarships    = "scholarships"
	TableAssociatedRoles = "associated_roles"
	TableStudentDates    = "student_dates"
)

// TableStatus is the per-table progress/error ledger entry. A non-nil
// message means an import is in flight ("Importing...", "Imported N
// rows...") or has failed (the error text); a nil message with a fresh
// timestamp marks the last successful load.
type TableStatus struct {
	Table     string    `db:"table_name"`
	Message   *string   `db:"message"`
	Timestamp time.Time `db:"timestamp"`
}
