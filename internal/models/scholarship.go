package models

// Scholarship is one scholarship application fact from the research
// office export.
type Scholarship struct {
	StudentID string `db:"student_id"`
	Name      string `db:"name"`
	Status    string `db:"status"`
	Decision  string `db:"decision"`
	Year      *int   `db:"year"`
}
