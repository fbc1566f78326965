package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

// SupervisorsRepository manages persistence for supervision-agreement
// records.
type SupervisorsRepository struct {
	db *sqlx.DB
}

// NewSupervisorsRepository constructs a SupervisorsRepository.
func NewSupervisorsRepository(db *sqlx.DB) *SupervisorsRepository {
	return &SupervisorsRepository{db: db}
}

// DeleteAll empties the supervisors table; every import replaces it
// wholesale.
func (r *SupervisorsRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM supervisors"); err != nil {
		return fmt.Errorf("delete supervisors: %w", err)
	}
	return nil
}

// Insert persists one supervision-agreement record.
func (r *SupervisorsRepository) Insert(ctx context.Context, s *models.Supervisor) error {
	query := `INSERT INTO supervisors (student_id, student, supervisor, active_roles, entity,
        agreement_status, date_agreed, completion_date, proposed_enrolment_date,
        proposed_research_topic, title, quals, comments, active, program)
        VALUES (:student_id, :student, :supervisor, :active_roles, :entity,
        :agreement_status, :date_agreed, :completion_date, :proposed_enrolment_date,
        :proposed_research_topic, :title, :quals, :comments, :active, :program)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("insert supervisor: %w", err)
	}
	return nil
}

// DistinctStudentIDs returns the identifiers of every supervised
// student, the universe of the student-dates derivation. IDs are
// whitespace-trimmed; the source pads some of them.
func (r *SupervisorsRepository) DistinctStudentIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, "SELECT DISTINCT student_id FROM supervisors"); err != nil {
		return nil, fmt.Errorf("distinct supervised students: %w", err)
	}
	for i, id := range ids {
		ids[i] = strings.TrimSpace(id)
	}
	return ids, nil
}

// ActiveAgreements returns a student's active supervision agreements
// within one program classification.
func (r *SupervisorsRepository) ActiveAgreements(ctx context.Context, studentID string, program models.Program) ([]models.Supervisor, error) {
	query := `SELECT student_id, student, supervisor, active_roles, entity, agreement_status,
        date_agreed, completion_date, proposed_enrolment_date, proposed_research_topic,
        title, quals, comments, active, program
        FROM supervisors WHERE student_id = $1 AND active = true AND program = $2`
	var agreements []models.Supervisor
	if err := r.db.SelectContext(ctx, &agreements, query, studentID, program); err != nil {
		return nil, fmt.Errorf("active agreements for %s/%s: %w", studentID, program, err)
	}
	return agreements, nil
}
