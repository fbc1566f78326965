package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

// ScholarshipsRepository manages persistence for scholarship records.
type ScholarshipsRepository struct {
	db *sqlx.DB
}

// NewScholarshipsRepository constructs a ScholarshipsRepository.
func NewScholarshipsRepository(db *sqlx.DB) *ScholarshipsRepository {
	return &ScholarshipsRepository{db: db}
}

// DeleteAll empties the scholarships table; every import replaces it
// wholesale.
func (r *ScholarshipsRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM scholarships"); err != nil {
		return fmt.Errorf("delete scholarships: %w", err)
	}
	return nil
}

// Insert persists one scholarship record.
func (r *ScholarshipsRepository) Insert(ctx context.Context, s *models.Scholarship) error {
	query := `INSERT INTO scholarships (student_id, name, status, decision, year)
        VALUES (:student_id, :name, :status, :decision, :year)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("insert scholarship: %w", err)
	}
	return nil
}
