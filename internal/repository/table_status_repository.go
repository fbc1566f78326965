package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

// TableStatusRepository manages the per-table status ledger. Each
// table has at most one row; a transition replaces it rather than
// updating in place, so the timestamp always reflects the transition.
type TableStatusRepository struct {
	db *sqlx.DB
}

// NewTableStatusRepository constructs a TableStatusRepository.
func NewTableStatusRepository(db *sqlx.DB) *TableStatusRepository {
	return &TableStatusRepository{db: db}
}

// Set records the current status of a table. A nil message marks a
// successful load; anything else is in-flight progress or an error.
func (r *TableStatusRepository) Set(ctx context.Context, table string, message *string) error {
	return r.SetAt(ctx, table, message, time.Now().UTC())
}

// SetAt records a status with an explicit timestamp. The grade-results
// import backdates its success entry to the extract's query date so
// the ledger reflects data freshness, not load time.
func (r *TableStatusRepository) SetAt(ctx context.Context, table string, message *string, ts time.Time) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM table_status WHERE table_name = $1", table); err != nil {
		return fmt.Errorf("clear status of %s: %w", table, err)
	}
	query := "INSERT INTO table_status (table_name, message, timestamp) VALUES ($1, $2, $3)"
	if _, err := r.db.ExecContext(ctx, query, table, message, ts); err != nil {
		return fmt.Errorf("set status of %s: %w", table, err)
	}
	return nil
}

// Get returns the status of one table, or nil when none was ever
// recorded.
func (r *TableStatusRepository) Get(ctx context.Context, table string) (*models.TableStatus, error) {
	query := "SELECT table_name, message, timestamp FROM table_status WHERE table_name = $1"
	var status models.TableStatus
	if err := r.db.GetContext(ctx, &status, query, table); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get status of %s: %w", table, err)
	}
	return &status, nil
}

// List returns the status of every table that has one.
func (r *TableStatusRepository) List(ctx context.Context) ([]models.TableStatus, error) {
	var statuses []models.TableStatus
	if err := r.db.SelectContext(ctx, &statuses, "SELECT table_name, message, timestamp FROM table_status ORDER BY table_name"); err != nil {
		return nil, fmt.Errorf("list table statuses: %w", err)
	}
	return statuses, nil
}
