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

func TestStudentDatesRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentDatesRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_dates")).
		WillReturnResult(sqlmock.NewResult(0, 3000))

	require.NoError(t, repo.DeleteAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentDatesRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentDatesRepository(db)

	mock.ExpectExec("INSERT INTO student_dates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	months := 36.0
	status := models.StatusCurrent
	require.NoError(t, repo.Insert(context.Background(), &models.StudentDates{
		StudentID: "1234567",
		Program:   models.ProgramDoctoral,
		StartDate: time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
		Months:    &months,
		School:    "FCMS",
		Status:    &status,
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentDatesRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentDatesRepository(db)

	rows := sqlmock.NewRows([]string{
		"student_id", "program", "start_date", "end_date", "months",
		"school", "department", "full_time", "status",
	}).AddRow("1234567", models.ProgramDoctoral,
		time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
		36.0, "FCMS", "DCS", true, models.StatusCurrent)

	mock.ExpectQuery("SELECT (.+) FROM student_dates ORDER BY student_id, program").
		WillReturnRows(rows)

	dates, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, dates, 1)
	require.Equal(t, models.ProgramDoctoral, dates[0].Program)
	require.NotNil(t, dates[0].Status)
	require.Equal(t, models.StatusCurrent, *dates[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
