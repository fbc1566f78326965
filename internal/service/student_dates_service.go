package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
	"github.com/noah-isme/uni-reporting-etl/pkg/config"
	"github.com/noah-isme/uni-reporting-etl/pkg/maintenance"
)

type supervisedStudentsReader interface {
	DistinctStudentIDs(ctx context.Context) ([]string, error)
	ActiveAgreements(ctx context.Context, studentID string, program models.Program) ([]models.Supervisor, error)
}

type gradeRowsReader interface {
	ProgramRows(ctx context.Context, studentID string, program models.Program) ([]models.ProgramEnrolmentRow, error)
}

type intervalWriter interface {
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, d *models.StudentDates) error
	List(ctx context.Context) ([]models.StudentDates, error)
}

// StudentDatesService recomputes the derived enrolment intervals. The
// supervised-student set is the universe: a student with no supervision
// record has no research-degree timeline to infer. The whole table is
// truncated and repopulated on every run; source data gets corrected
// retroactively, so incremental maintenance would quietly keep stale
// conclusions alive.
type StudentDatesService struct {
	supervisors supervisedStudentsReader
	grades      gradeRowsReader
	intervals   intervalWriter
	status      statusLedger
	gate        maintenance.Gate
	metrics     *Metrics
	logger      *zap.Logger
	cfg         config.DerivationConfig
}

// NewStudentDatesService constructs a StudentDatesService.
func NewStudentDatesService(
	supervisors supervisedStudentsReader,
	grades gradeRowsReader,
	intervals intervalWriter,
	status statusLedger,
	gate maintenance.Gate,
	metrics *Metrics,
	logger *zap.Logger,
	cfg config.DerivationConfig,
) *StudentDatesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FullTimeCredits <= 0 {
		cfg.FullTimeCredits = 120
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 1000
	}
	return &StudentDatesService{
		supervisors: supervisors,
		grades:      grades,
		intervals:   intervals,
		status:      status,
		gate:        gate,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// Derive recomputes every supervised student's enrolment intervals.
// A single student's bad data is logged and skipped; infrastructure
// failures (truncate, enumeration) abort the run.
func (s *StudentDatesService) Derive(ctx context.Context) error {
	release, err := s.gate.Begin(ctx)
	if err != nil {
		return fmt.Errorf("raise maintenance flag: %w", err)
	}
	defer release()

	if err := s.intervals.DeleteAll(ctx); err != nil {
		return err
	}

	ids, err := s.supervisors.DistinctStudentIDs(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, sid := range ids {
		count++
		if doctoral, masters, err := s.deriveStudent(ctx, sid); err != nil {
			// The candidates computed before the failure go into the log;
			// diagnosing a bad student needs the partial values, not just
			// the error.
			s.logger.Sugar().Errorw("student derivation failed",
				"student_id", sid,
				"doctoral", doctoral,
				"masters", masters,
				"error", err)
		}
		if count%s.cfg.ProgressEvery == 0 {
			msg := fmt.Sprintf("Processed %d students...", count)
			if serr := s.status.Set(ctx, models.TableStudentDates, &msg); serr != nil {
				s.logger.Sugar().Warnw("failed to write progress", "error", serr)
			}
		}
	}

	s.metrics.AddDerivedStudents(count)
	s.logger.Sugar().Infow("student dates derived", "students", count)
	return nil
}

// List returns the current derived intervals.
func (s *StudentDatesService) List(ctx context.Context) ([]models.StudentDates, error) {
	return s.intervals.List(ctx)
}

// deriveStudent computes and stores the Master's and Doctoral intervals
// of one student. A per-program interval is only written when a start
// date could be established for it. The candidates computed so far are
// returned alongside any error so the caller can log them.
func (s *StudentDatesService) deriveStudent(ctx context.Context, sid string) (*models.StudentDates, *models.StudentDates, error) {
	mastersRows, err := s.grades.ProgramRows(ctx, sid, models.ProgramMasters)
	if err != nil {
		return nil, nil, err
	}
	doctoralRows, err := s.grades.ProgramRows(ctx, sid, models.ProgramDoctoral)
	if err != nil {
		return nil, nil, err
	}
	agreements, err := s.supervisors.ActiveAgreements(ctx, sid, models.ProgramDoctoral)
	if err != nil {
		return nil, nil, err
	}

	doctoral := doctoralInterval(sid, doctoralRows, agreements, s.cfg.FullTimeCredits)
	masters := mastersInterval(sid, mastersRows, s.cfg.FullTimeCredits)

	if doctoral != nil {
		if err := s.intervals.Insert(ctx, doctoral); err != nil {
			return doctoral, masters, fmt.Errorf("doctoral interval: %w", err)
		}
	}
	if masters != nil {
		if err := s.intervals.Insert(ctx, masters); err != nil {
			return doctoral, masters, fmt.Errorf("masters interval: %w", err)
		}
	}
	return doctoral, masters, nil
}
