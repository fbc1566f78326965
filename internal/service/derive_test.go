package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-reporting-etl/internal/etl"
	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

func fp(v float64) *float64     { return &v }
func sp(v string) *string       { return &v }
func tp(v time.Time) *time.Time { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMastersInterval(t *testing.T) {
	rows := []models.ProgramEnrolmentRow{
		{
			Year:                2015,
			PaperOccurrence:     "COMP593-15A (HAM)",
			Credits:             fp(90),
			OccurrenceStartDate: tp(date(2015, time.March, 2)),
			OccurrenceEndDate:   tp(date(2015, time.November, 1)),
			OwningSchool:        sp("FCMS"),
			OwningDepartment:    sp("DCS"),
			FinalGrade:          sp("A"),
			FinalGradeStatus:    sp("C"),
		},
		{
			Year:                2016,
			PaperOccurrence:     "COMP594-16A (HAM)",
			Credits:             fp(60),
			OccurrenceStartDate: tp(date(2016, time.March, 1)),
			OccurrenceEndDate:   tp(date(2016, time.November, 5)),
			FinalGrade:          nil, // ungraded: cannot mark completion
			FinalGradeStatus:    sp("N"),
		},
		// Not occurrence-coded for the Master's cohort series, still
		// counts toward the full-time average.
		{Year: 2015, PaperOccurrence: "COMP101-15A (HAM)", Credits: fp(210)},
	}

	got := mastersInterval("1234567", rows, 120)
	require.NotNil(t, got)
	require.Equal(t, models.ProgramMasters, got.Program)

	// 90/3/30*12 + 60/4/30*12
	require.NotNil(t, got.Months)
	require.InDelta(t, 18.0, *got.Months, 1e-9)

	require.True(t, got.StartDate.Equal(date(2015, time.March, 2)))
	require.Equal(t, "FCMS", got.School)
	require.Equal(t, "DCS", got.Department)

	// The 2016 row is ungraded, so the 2015 end date wins.
	require.True(t, got.EndDate.Equal(date(2015, time.November, 1)))

	// avg(90, 60, 210) = 120, at the threshold.
	require.NotNil(t, got.FullTime)
	require.True(t, *got.FullTime)

	// Most recent cohort row (2016) decides: N maps to current.
	require.NotNil(t, got.Status)
	require.Equal(t, models.StatusCurrent, *got.Status)
}

func TestMastersIntervalNoCohortRows(t *testing.T) {
	rows := []models.ProgramEnrolmentRow{
		{Year: 2015, PaperOccurrence: "COMP101-15A (HAM)", Credits: fp(15), OccurrenceStartDate: tp(date(2015, time.March, 2))},
	}
	require.Nil(t, mastersInterval("1234567", rows, 120))
}

func TestMastersIntervalZeroCredits(t *testing.T) {
	rows := []models.ProgramEnrolmentRow{
		{Year: 2015, PaperOccurrence: "COMP593-15A (HAM)", Credits: fp(0), OccurrenceStartDate: tp(date(2015, time.March, 2))},
		{Year: 2015, PaperOccurrence: "COMP593-15B (HAM)", Credits: fp(0)},
		{Year: 2015, PaperOccurrence: "COMP593-15C (HAM)", Credits: fp(0)},
	}

	got := mastersInterval("1234567", rows, 120)
	require.NotNil(t, got)
	require.NotNil(t, got.Months)
	require.Equal(t, 0.0, *got.Months)
	require.True(t, got.EndDate.Equal(etl.OpenEndedDate))
}

func TestMastersIntervalWithdrawnOverride(t *testing.T) {
	rows := []models.ProgramEnrolmentRow{
		{
			Year:                2016,
			PaperOccurrence:     "LAWS594-16A (HAM)",
			Credits:             fp(120),
			OccurrenceStartDate: tp(date(2016, time.March, 1)),
			FinalGrade:          sp("WD"),
			FinalGradeStatus:    sp("C"), // the status code says finished, WD still wins
		},
	}

	got := mastersInterval("1234567", rows, 120)
	require.NotNil(t, got)
	require.NotNil(t, got.Status)
	require.Equal(t, models.StatusWithdrawn, *got.Status)
}

func TestDoctoralInterval(t *testing.T) {
	rows := []models.ProgramEnrolmentRow{
		{
			Year:                2016,
			Credits:             fp(120),
			StudentCreditPoints: fp(120),
			CreditsPerStudent:   fp(120),
			OccurrenceStartDate: tp(date(2016, time.March, 1)),
			OccurrenceEndDate:   tp(date(2016, time.December, 20)),
			OwningSchool:        sp("FSEN"),
			OwningDepartment:    sp("DENG"),
			FinalGrade:          sp("..."), // placeholder, no completion signal
			FinalGradeStatus:    sp("N"),
		},
		{
			Year:              2017,
			Credits:           fp(120),
			CreditsPerStudent: fp(60), // fallback when student_credit_points missing
			OccurrenceEndDate: tp(date(2017, time.December, 20)),
			FinalGradeStatus:  sp("N"),
		},
		// Zero occurrence credits must not divide.
		{Year: 2018, Credits: fp(0), StudentCreditPoints: fp(60)},
	}

	got := doctoralInterval("1234567", rows, nil, 120)
	require.NotNil(t, got)
	require.Equal(t, models.ProgramDoctoral, got.Program)

	// 120/120*12 + 60/120*12
	require.NotNil(t, got.Months)
	require.InDelta(t, 18.0, *got.Months, 1e-9)

	require.True(t, got.StartDate.Equal(date(2016, time.March, 1)))
	require.Equal(t, "FSEN", got.School)

	// No concluded agreement: latest occurrence end date is the fallback.
	require.True(t, got.EndDate.Equal(date(2017, time.December, 20)))

	// All final grades are placeholders, so the default applies.
	require.NotNil(t, got.Status)
	require.Equal(t, models.StatusCurrent, *got.Status)

	// avg(120, 60) = 90 < 120
	require.NotNil(t, got.FullTime)
	require.False(t, *got.FullTime)
}

func TestDoctoralIntervalAgreementPrecedence(t *testing.T) {
	rows := []models.ProgramEnrolmentRow{
		{
			Year:                2014,
			Credits:             fp(120),
			CreditsPerStudent:   fp(120),
			OccurrenceStartDate: tp(date(2014, time.March, 1)),
			OccurrenceEndDate:   tp(date(2014, time.December, 20)),
			OwningSchool:        sp("FASS"),
		},
	}
	agreements := []models.Supervisor{
		{
			// Concluded agreement: its proposed date supersedes the
			// older grade-record start, and its completion date is the
			// preferred end.
			CompletionDate:        tp(date(2019, time.June, 30)),
			ProposedEnrolmentDate: tp(date(2016, time.January, 10)),
		},
		{
			// Open agreement (sentinel completion date): no say in
			// either candidate.
			CompletionDate:        tp(etl.UnknownDate),
			ProposedEnrolmentDate: tp(date(2020, time.January, 1)),
		},
	}

	got := doctoralInterval("1234567", rows, agreements, 120)
	require.NotNil(t, got)
	require.True(t, got.StartDate.Equal(date(2016, time.January, 10)))
	require.True(t, got.EndDate.Equal(date(2019, time.June, 30)))
	// School comes from the grade rows even when the agreement supplies
	// the start date.
	require.Equal(t, "FASS", got.School)
}

func TestDoctoralIntervalStartFromAgreementOnly(t *testing.T) {
	agreements := []models.Supervisor{
		{
			CompletionDate:        tp(date(2018, time.May, 1)),
			ProposedEnrolmentDate: tp(date(2015, time.February, 1)),
		},
	}

	got := doctoralInterval("1234567", nil, agreements, 120)
	require.NotNil(t, got)
	require.True(t, got.StartDate.Equal(date(2015, time.February, 1)))
	require.True(t, got.EndDate.Equal(date(2018, time.May, 1)))
	require.Nil(t, got.Months)
	require.Nil(t, got.FullTime)
	require.Equal(t, "", got.School)
}

func TestDoctoralIntervalNoStart(t *testing.T) {
	// Rows without start dates and no concluded agreement: no interval.
	rows := []models.ProgramEnrolmentRow{
		{Year: 2016, Credits: fp(120), CreditsPerStudent: fp(120)},
	}
	require.Nil(t, doctoralInterval("1234567", rows, nil, 120))
}

func TestDoctoralIntervalWithdrawn(t *testing.T) {
	rows := []models.ProgramEnrolmentRow{
		{
			Year:                2017,
			Credits:             fp(120),
			OccurrenceStartDate: tp(date(2017, time.March, 1)),
			FinalGrade:          sp("WD"),
			FinalGradeStatus:    sp(""),
		},
	}

	got := doctoralInterval("1234567", rows, nil, 120)
	require.NotNil(t, got)
	require.NotNil(t, got.Status)
	require.Equal(t, models.StatusWithdrawn, *got.Status)
}

func TestLatestStatusUnmappedCode(t *testing.T) {
	rows := []models.ProgramEnrolmentRow{
		{Year: 2018, FinalGrade: sp("B"), FinalGradeStatus: sp("X")},
	}
	// Unmapped codes are unknown, not guessed.
	require.Nil(t, latestStatus(rows, nil))
}
