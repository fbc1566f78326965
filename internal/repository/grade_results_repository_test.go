package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-reporting-etl/internal/etl"
	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGradeResultsRepositoryDeleteYear(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeResultsRepository(db, etl.GradeResultsMapping(etl.NewDateParser(nil)))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grade_results WHERE year = $1")).
		WithArgs(2016).
		WillReturnResult(sqlmock.NewResult(0, 120000))

	require.NoError(t, repo.DeleteYear(context.Background(), 2016))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeResultsRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	// A reduced mapping keeps the expected argument list readable; the
	// real mapping only differs in column count.
	mapping := &etl.Mapping{Fields: []etl.Field{
		{Column: "student_id", Kind: etl.KindString, Required: true},
		{Column: "credits", Kind: etl.KindFloat},
	}}
	repo := NewGradeResultsRepository(db, mapping)

	mock.ExpectExec("INSERT INTO grade_results").
		WithArgs(2016, "1234567", 15.0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	vals := map[string]interface{}{"student_id": "1234567", "credits": 15.0}
	require.NoError(t, repo.Insert(context.Background(), 2016, vals))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeResultsRepositoryProgramRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeResultsRepository(db, etl.GradeResultsMapping(etl.NewDateParser(nil)))

	start := time.Date(2015, time.March, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"year", "paper_occurrence", "credits", "student_credit_points", "credits_per_student",
		"occurrence_startdate", "occurrence_enddate", "owning_school_clevel",
		"owning_department_clevel", "final_grade", "final_grade_status",
	}).AddRow(2015, "COMP593-15A (HAM)", 120.0, nil, 120.0, start, nil, "FCMS", "DCS", "A", "C")

	mock.ExpectQuery("SELECT year, COALESCE").
		WithArgs("1234567", models.ProgramMasters).
		WillReturnRows(rows)

	got, err := repo.ProgramRows(context.Background(), "1234567", models.ProgramMasters)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "COMP593-15A (HAM)", got[0].PaperOccurrence)
	require.NotNil(t, got[0].Credits)
	require.Equal(t, 120.0, *got[0].Credits)
	require.Nil(t, got[0].OccurrenceEndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}
