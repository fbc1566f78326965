package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

func TestTableStatusRepositorySetReplacesRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTableStatusRepository(db)

	msg := "Importing..."
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM table_status WHERE table_name = $1")).
		WithArgs(models.TableGradeResults).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO table_status (table_name, message, timestamp) VALUES ($1, $2, $3)")).
		WithArgs(models.TableGradeResults, &msg, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Set(context.Background(), models.TableGradeResults, &msg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableStatusRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTableStatusRepository(db)

	ts := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"table_name", "message", "timestamp"}).
		AddRow(models.TableSupervisors, nil, ts)
	mock.ExpectQuery("SELECT table_name, message, timestamp FROM table_status WHERE").
		WithArgs(models.TableSupervisors).
		WillReturnRows(rows)

	status, err := repo.Get(context.Background(), models.TableSupervisors)
	require.NoError(t, err)
	require.NotNil(t, status)
	require.Nil(t, status.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableStatusRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTableStatusRepository(db)

	mock.ExpectQuery("SELECT table_name, message, timestamp FROM table_status WHERE").
		WithArgs("never_loaded").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "message", "timestamp"}))

	status, err := repo.Get(context.Background(), "never_loaded")
	require.NoError(t, err)
	require.Nil(t, status)
	require.NoError(t, mock.ExpectationsWereMet())
}
