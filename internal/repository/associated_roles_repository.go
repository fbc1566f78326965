package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

// AssociatedRolesRepository manages persistence for person-entity role
// records.
type AssociatedRolesRepository struct {
	db *sqlx.DB
}

// NewAssociatedRolesRepository constructs an AssociatedRolesRepository.
func NewAssociatedRolesRepository(db *sqlx.DB) *AssociatedRolesRepository {
	return &AssociatedRolesRepository{db: db}
}

// DeleteAll empties the associated-roles table; every import replaces
// it wholesale.
func (r *AssociatedRolesRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM associated_roles"); err != nil {
		return fmt.Errorf("delete associated roles: %w", err)
	}
	return nil
}

// Insert persists one role record.
func (r *AssociatedRolesRepository) Insert(ctx context.Context, role *models.AssociatedRole) error {
	query := `INSERT INTO associated_roles (role, person, entity, valid_from, valid_to,
        active, student_id, student, program)
        VALUES (:role, :person, :entity, :valid_from, :valid_to,
        :active, :student_id, :student, :program)`
	if _, err := r.db.NamedExecContext(ctx, query, role); err != nil {
		return fmt.Errorf("insert associated role: %w", err)
	}
	return nil
}
