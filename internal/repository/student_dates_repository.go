package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

// StudentDatesRepository manages persistence for derived enrolment
// intervals.
type StudentDatesRepository struct {
	db *sqlx.DB
}

// NewStudentDatesRepository constructs a StudentDatesRepository.
func NewStudentDatesRepository(db *sqlx.DB) *StudentDatesRepository {
	return &StudentDatesRepository{db: db}
}

// DeleteAll empties the student-dates table. Every derivation run
// truncates first so the table never holds a mix of old and new rows.
func (r *StudentDatesRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM student_dates"); err != nil {
		return fmt.Errorf("delete student dates: %w", err)
	}
	return nil
}

// Insert persists one derived interval.
func (r *StudentDatesRepository) Insert(ctx context.Context, d *models.StudentDates) error {
	query := `INSERT INTO student_dates (student_id, program, start_date, end_date, months,
        school, department, full_time, status)
        VALUES (:student_id, :program, :start_date, :end_date, :months,
        :school, :department, :full_time, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("insert student dates: %w", err)
	}
	return nil
}

// List returns all derived intervals ordered by student and program.
func (r *StudentDatesRepository) List(ctx context.Context) ([]models.StudentDates, error) {
	query := `SELECT student_id, program, start_date, end_date, months, school, department,
        full_time, status
        FROM student_dates ORDER BY student_id, program`
	var dates []models.StudentDates
	if err := r.db.SelectContext(ctx, &dates, query); err != nil {
		return nil, fmt.Errorf("list student dates: %w", err)
	}
	return dates, nil
}
