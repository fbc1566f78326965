package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-reporting-etl/internal/etl"
	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

// GradeResultsRepository manages persistence for the grade-results
// table. Inserts go through the declarative import mapping, so the
// column list lives in one place; reads serve the student-dates
// derivation.
type GradeResultsRepository struct {
	db     *sqlx.DB
	insert string
}

// NewGradeResultsRepository constructs a GradeResultsRepository whose
// insert statement is generated from the import mapping. The year
// column is the import partition key and is prepended by the importer.
func NewGradeResultsRepository(db *sqlx.DB, mapping *etl.Mapping) *GradeResultsRepository {
	return &GradeResultsRepository{
		db:     db,
		insert: mapping.InsertStatement("grade_results", "year"),
	}
}

// DeleteYear removes all grade records of one enrolment year, the unit
// of replacement for a grade-results import.
func (r *GradeResultsRepository) DeleteYear(ctx context.Context, year int) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM grade_results WHERE year = $1", year); err != nil {
		return fmt.Errorf("delete grade results year %d: %w", year, err)
	}
	return nil
}

// Insert persists one mapped grade record under the given year.
func (r *GradeResultsRepository) Insert(ctx context.Context, year int, values map[string]interface{}) error {
	values["year"] = year
	if _, err := r.db.NamedExecContext(ctx, r.insert, values); err != nil {
		return fmt.Errorf("insert grade result: %w", err)
	}
	return nil
}

// ProgramRows returns the grade records of one student within one
// program classification, the read model of the student-dates
// derivation. One query per (student, program) replaces the per-metric
// aggregate round trips; the aggregation happens in the deriver.
func (r *GradeResultsRepository) ProgramRows(ctx context.Context, studentID string, program models.Program) ([]models.ProgramEnrolmentRow, error) {
	query := `SELECT year, COALESCE(paper_occurrence, '') AS paper_occurrence, credits,
        student_credit_points, credits_per_student, occurrence_startdate, occurrence_enddate,
        owning_school_clevel, owning_department_clevel, final_grade, final_grade_status
        FROM grade_results WHERE student_id = $1 AND programme_type_code = $2`
	var rows []models.ProgramEnrolmentRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID, program); err != nil {
		return nil, fmt.Errorf("grade rows for %s/%s: %w", studentID, program, err)
	}
	return rows, nil
}
