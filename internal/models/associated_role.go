package models

import "time"

// AssociatedRole is one person-entity role relation from the research
// office export (chief supervisors, panel members and the like).
// Student and program are parsed out of the free-text entity path when
// it references an award enrolment.
type AssociatedRole struct {
	Role      string     `db:"role"`
	Person    string     `db:"person"`
	Entity    string     `db:"entity"`
	ValidFrom *time.Time `db:"valid_from"`
	ValidTo   *time.Time `db:"valid_to"`
	Active    bool       `db:"active"`
	StudentID *string    `db:"student_id"`
	Student   *string    `db:"student"`
	Program   *Program   `db:"program"`
}
