package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
	"github.com/noah-isme/uni-reporting-etl/pkg/config"
	"github.com/noah-isme/uni-reporting-etl/pkg/maintenance"
)

type fakeSupervisedReader struct {
	ids        []string
	agreements map[string][]models.Supervisor
}

func (f *fakeSupervisedReader) DistinctStudentIDs(context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeSupervisedReader) ActiveAgreements(_ context.Context, sid string, _ models.Program) ([]models.Supervisor, error) {
	return f.agreements[sid], nil
}

type fakeGradeReader struct {
	rows map[string][]models.ProgramEnrolmentRow // keyed by sid + "/" + program
	errs map[string]error
}

func (f *fakeGradeReader) ProgramRows(_ context.Context, sid string, p models.Program) ([]models.ProgramEnrolmentRow, error) {
	key := sid + "/" + string(p)
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.rows[key], nil
}

type fakeIntervalWriter struct {
	truncated bool
	insertErr error
	inserted  []*models.StudentDates
}

func (f *fakeIntervalWriter) DeleteAll(context.Context) error { f.truncated = true; return nil }
func (f *fakeIntervalWriter) Insert(_ context.Context, d *models.StudentDates) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, d)
	return nil
}
func (f *fakeIntervalWriter) List(context.Context) ([]models.StudentDates, error) { return nil, nil }

func newDatesFixture(sup *fakeSupervisedReader, grades *fakeGradeReader) (*StudentDatesService, *fakeIntervalWriter, *fakeLedger) {
	intervals := &fakeIntervalWriter{}
	ledger := &fakeLedger{}
	svc := NewStudentDatesService(sup, grades, intervals, ledger,
		maintenance.NewMemoryGate(), nil, nil,
		config.DerivationConfig{FullTimeCredits: 120, ProgressEvery: 1})
	return svc, intervals, ledger
}

func TestDeriveEmptyUniverseStillTruncates(t *testing.T) {
	svc, intervals, _ := newDatesFixture(
		&fakeSupervisedReader{},
		&fakeGradeReader{},
	)

	require.NoError(t, svc.Derive(context.Background()))
	// Post-condition is an empty table, not a stale one.
	require.True(t, intervals.truncated)
	require.Empty(t, intervals.inserted)
}

func TestDeriveWritesIntervals(t *testing.T) {
	start := time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC)
	sup := &fakeSupervisedReader{ids: []string{"1234567"}}
	grades := &fakeGradeReader{rows: map[string][]models.ProgramEnrolmentRow{
		"1234567/DP": {{
			Year:                2016,
			Credits:             fp(120),
			CreditsPerStudent:   fp(120),
			OccurrenceStartDate: &start,
		}},
	}}

	svc, intervals, ledger := newDatesFixture(sup, grades)
	require.NoError(t, svc.Derive(context.Background()))

	require.Len(t, intervals.inserted, 1)
	require.Equal(t, models.ProgramDoctoral, intervals.inserted[0].Program)
	require.True(t, intervals.inserted[0].StartDate.Equal(start))

	msg, ok := ledger.last(models.TableStudentDates)
	require.True(t, ok)
	require.NotNil(t, msg)
	require.Equal(t, "Processed 1 students...", *msg)
}

func TestDeriveSkipsBadStudent(t *testing.T) {
	start := time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC)
	sup := &fakeSupervisedReader{ids: []string{"bad", "good"}}
	grades := &fakeGradeReader{
		rows: map[string][]models.ProgramEnrolmentRow{
			"good/DP": {{
				Year:                2016,
				Credits:             fp(120),
				CreditsPerStudent:   fp(120),
				OccurrenceStartDate: &start,
			}},
		},
		errs: map[string]error{"bad/MD": errors.New("corrupt rows")},
	}

	svc, intervals, _ := newDatesFixture(sup, grades)
	// One student's bad data never aborts the run.
	require.NoError(t, svc.Derive(context.Background()))
	require.Len(t, intervals.inserted, 1)
	require.Equal(t, "good", intervals.inserted[0].StudentID)
}

func TestDeriveFailureLogsCandidates(t *testing.T) {
	start := time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC)
	sup := &fakeSupervisedReader{ids: []string{"1234567"}}
	grades := &fakeGradeReader{rows: map[string][]models.ProgramEnrolmentRow{
		"1234567/DP": {{
			Year:                2016,
			Credits:             fp(120),
			CreditsPerStudent:   fp(120),
			OccurrenceStartDate: &start,
		}},
	}}
	intervals := &fakeIntervalWriter{insertErr: errors.New("disk full")}

	core, logs := observer.New(zapcore.ErrorLevel)
	svc := NewStudentDatesService(sup, grades, intervals, &fakeLedger{},
		maintenance.NewMemoryGate(), nil, zap.New(core),
		config.DerivationConfig{FullTimeCredits: 120, ProgressEvery: 1})

	require.NoError(t, svc.Derive(context.Background()))

	// The failure entry carries the computed interval, not just the error.
	entries := logs.FilterMessage("student derivation failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "1234567", fields["student_id"])
	doctoral, ok := fields["doctoral"].(*models.StudentDates)
	require.True(t, ok)
	require.Equal(t, models.ProgramDoctoral, doctoral.Program)
	require.True(t, doctoral.StartDate.Equal(start))
}
