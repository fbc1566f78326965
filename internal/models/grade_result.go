package models

import "time"

// ProgramEnrolmentRow is the slice of a grade record consumed by the
// student-dates derivation. Grade records are written through the
// declarative import mapping (see internal/etl), so only the derived
// queries need a struct view.
type ProgramEnrolmentRow struct {
	Year                int        `db:"year"`
	PaperOccurrence     string     `db:"paper_occurrence"`
	Credits             *float64   `db:"credits"`
	StudentCreditPoints *float64   `db:"student_credit_points"`
	CreditsPerStudent   *float64   `db:"credits_per_student"`
	OccurrenceStartDate *time.Time `db:"occurrence_startdate"`
	OccurrenceEndDate   *time.Time `db:"occurrence_enddate"`
	OwningSchool        *string    `db:"owning_school_clevel"`
	OwningDepartment    *string    `db:"owning_department_clevel"`
	FinalGrade          *string    `db:"final_grade"`
	FinalGradeStatus    *string    `db:"final_grade_status"`
}
