package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-reporting-etl/internal/etl"
)

// CourseDefsRepository manages persistence for the course-definitions
// table, partitioned by import year like the grade results.
type CourseDefsRepository struct {
	db     *sqlx.DB
	insert string
}

// NewCourseDefsRepository constructs a CourseDefsRepository with the
// insert statement generated from the import mapping.
func NewCourseDefsRepository(db *sqlx.DB, mapping *etl.Mapping) *CourseDefsRepository {
	return &CourseDefsRepository{
		db:     db,
		insert: mapping.InsertStatement("course_defs", "year"),
	}
}

// DeleteYear removes all course definitions of one year.
func (r *CourseDefsRepository) DeleteYear(ctx context.Context, year int) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM course_defs WHERE year = $1", year); err != nil {
		return fmt.Errorf("delete course defs year %d: %w", year, err)
	}
	return nil
}

// Insert persists one mapped course definition under the given year.
func (r *CourseDefsRepository) Insert(ctx context.Context, year int, values map[string]interface{}) error {
	values["year"] = year
	if _, err := r.db.NamedExecContext(ctx, r.insert, values); err != nil {
		return fmt.Errorf("insert course def: %w", err)
	}
	return nil
}
