package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-reporting-etl/internal/etl"
	"github.com/noah-isme/uni-reporting-etl/internal/models"
	"github.com/noah-isme/uni-reporting-etl/pkg/config"
	"github.com/noah-isme/uni-reporting-etl/pkg/jobs"
	"github.com/noah-isme/uni-reporting-etl/pkg/maintenance"
	"github.com/noah-isme/uni-reporting-etl/pkg/notify"
)

type gradeResultsWriter interface {
	DeleteYear(ctx context.Context, year int) error
	Insert(ctx context.Context, year int, values map[string]interface{}) error
}

type courseDefsWriter interface {
	DeleteYear(ctx context.Context, year int) error
	Insert(ctx context.Context, year int, values map[string]interface{}) error
}

type supervisorsWriter interface {
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, s *models.Supervisor) error
}

type scholarshipsWriter interface {
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, s *models.Scholarship) error
}

type associatedRolesWriter interface {
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, r *models.AssociatedRole) error
}

type statusLedger interface {
	Set(ctx context.Context, table string, message *string) error
	SetAt(ctx context.Context, table string, message *string, ts time.Time) error
	Get(ctx context.Context, table string) (*models.TableStatus, error)
	List(ctx context.Context) ([]models.TableStatus, error)
}

type intervalDeriver interface {
	Derive(ctx context.Context) error
}

type enqueuer interface {
	Enqueue(job jobs.Job) (string, error)
}

// ImportFile locates one source extract and how to read it.
type ImportFile struct {
	Path     string
	Gzipped  bool
	Encoding string
	// Retain keeps the source file after the import. Bulk runs retain
	// their constituent files; the manifest owner cleans up.
	Retain bool
}

// Job type tags understood by the import queue.
const (
	JobGradeResults    = "grade_results"
	JobCourseDefs      = "course_defs"
	JobSupervisors     = "supervisors"
	JobScholarships    = "scholarships"
	JobAssociatedRoles = "associated_roles"
	JobBulk            = "bulk"
	JobStudentDates    = "student_dates"
)

// YearImportJob is the payload for year-partitioned imports.
type YearImportJob struct {
	Year  int
	File  ImportFile
	Email string
}

// TableImportJob is the payload for whole-table replacement imports.
type TableImportJob struct {
	File  ImportFile
	Email string
}

// BulkImportJob is the payload for a manifest-driven bulk run.
type BulkImportJob struct {
	Path  string
	Email string
}

// DeriveJob is the payload for a student-dates recalculation.
type DeriveJob struct {
	Email string
}

// ImportService runs the CSV imports that feed the normalized tables
// and sequences bulk loads. Imports are single-threaded, blocking and
// restartable: each one deletes its slice of the table first, so a
// failed run is recovered by running it again.
type ImportService struct {
	grades       gradeResultsWriter
	courses      courseDefsWriter
	supervisors  supervisorsWriter
	scholarships scholarshipsWriter
	roles        associatedRolesWriter
	status       statusLedger
	deriver      intervalDeriver
	gate         maintenance.Gate
	queue        enqueuer
	notifier     notify.Notifier
	metrics      *Metrics
	logger       *zap.Logger
	validate     *validator.Validate
	cfg          config.ImportConfig

	gradeMapping  *etl.Mapping
	courseMapping *etl.Mapping
	dates         *etl.DateParser
}

// NewImportService constructs an ImportService.
func NewImportService(
	grades gradeResultsWriter,
	courses courseDefsWriter,
	supervisors supervisorsWriter,
	scholarships scholarshipsWriter,
	roles associatedRolesWriter,
	status statusLedger,
	deriver intervalDeriver,
	gate maintenance.Gate,
	queue enqueuer,
	notifier notify.Notifier,
	metrics *Metrics,
	logger *zap.Logger,
	cfg config.ImportConfig,
) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFieldLen <= 0 {
		cfg.MaxFieldLen = 250
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 1000
	}
	dates := etl.NewDateParser(logger)
	return &ImportService{
		grades:        grades,
		courses:       courses,
		supervisors:   supervisors,
		scholarships:  scholarships,
		roles:         roles,
		status:        status,
		deriver:       deriver,
		gate:          gate,
		queue:         queue,
		notifier:      notifier,
		metrics:       metrics,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
		gradeMapping:  etl.GradeResultsMapping(dates),
		courseMapping: etl.CourseDefsMapping(dates),
		dates:         dates,
	}
}

// TableStatus returns the ledger entry of one table, nil when the
// table was never loaded.
func (s *ImportService) TableStatus(ctx context.Context, table string) (*models.TableStatus, error) {
	return s.status.Get(ctx, table)
}

// TableStatuses returns the ledger entries of every table.
func (s *ImportService) TableStatuses(ctx context.Context) ([]models.TableStatus, error) {
	return s.status.List(ctx)
}

// ImportGradeResults loads one year of grade results, replacing that
// year's slice of the table. Returns the extract's query date (from the
// first row carrying one) so callers can backdate the status entry.
func (s *ImportService) ImportGradeResults(ctx context.Context, year int, file ImportFile) (*time.Time, error) {
	start := time.Now()
	release, err := s.gate.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("raise maintenance flag: %w", err)
	}
	defer release()

	if err := s.grades.DeleteYear(ctx, year); err != nil {
		return nil, err
	}

	var queryDate *time.Time
	count := 0
	importErr := s.eachRow(ctx, file, func(row etl.Row) error {
		values, err := s.gradeMapping.Apply(row)
		if err != nil {
			return err
		}
		if queryDate == nil {
			if qd, ok := values["query_date"].(time.Time); ok {
				queryDate = &qd
			}
		}
		if err := s.grades.Insert(ctx, year, values); err != nil {
			return err
		}
		count++
		s.progress(ctx, models.TableGradeResults, count)
		return nil
	})

	importErr = s.cleanup(file, importErr)
	s.metrics.AddRows(models.TableGradeResults, count)
	s.metrics.ObserveRun(models.TableGradeResults, start, importErr)
	if importErr != nil {
		return nil, importErr
	}
	s.logger.Sugar().Infow("grade results imported", "year", year, "rows", count)
	return queryDate, nil
}

// ImportCourseDefs loads one year of course definitions.
func (s *ImportService) ImportCourseDefs(ctx context.Context, year int, file ImportFile) error {
	start := time.Now()
	release, err := s.gate.Begin(ctx)
	if err != nil {
		return fmt.Errorf("raise maintenance flag: %w", err)
	}
	defer release()

	if err := s.courses.DeleteYear(ctx, year); err != nil {
		return err
	}

	count := 0
	importErr := s.eachRow(ctx, file, func(row etl.Row) error {
		values, err := s.courseMapping.Apply(row)
		if err != nil {
			return err
		}
		if err := s.courses.Insert(ctx, year, values); err != nil {
			return err
		}
		count++
		s.progress(ctx, models.TableCourseDefs, count)
		return nil
	})

	importErr = s.cleanup(file, importErr)
	s.metrics.AddRows(models.TableCourseDefs, count)
	s.metrics.ObserveRun(models.TableCourseDefs, start, importErr)
	if importErr == nil {
		s.logger.Sugar().Infow("course definitions imported", "year", year, "rows", count)
	}
	return importErr
}

// ImportSupervisors replaces the supervisors table from a research
// office export.
func (s *ImportService) ImportSupervisors(ctx context.Context, file ImportFile) error {
	start := time.Now()
	release, err := s.gate.Begin(ctx)
	if err != nil {
		return fmt.Errorf("raise maintenance flag: %w", err)
	}
	defer release()

	if err := s.supervisors.DeleteAll(ctx); err != nil {
		return err
	}

	count := 0
	importErr := s.eachRow(ctx, file, func(row etl.Row) error {
		sup, err := etl.SupervisorFromRow(row, s.dates)
		if err != nil {
			return err
		}
		if err := s.supervisors.Insert(ctx, sup); err != nil {
			return err
		}
		count++
		s.progress(ctx, models.TableSupervisors, count)
		return nil
	})

	importErr = s.cleanup(file, importErr)
	s.metrics.AddRows(models.TableSupervisors, count)
	s.metrics.ObserveRun(models.TableSupervisors, start, importErr)
	if importErr == nil {
		s.logger.Sugar().Infow("supervisors imported", "rows", count)
	}
	return importErr
}

// ImportScholarships replaces the scholarships table.
func (s *ImportService) ImportScholarships(ctx context.Context, file ImportFile) error {
	start := time.Now()
	release, err := s.gate.Begin(ctx)
	if err != nil {
		return fmt.Errorf("raise maintenance flag: %w", err)
	}
	defer release()

	if err := s.scholarships.DeleteAll(ctx); err != nil {
		return err
	}

	count := 0
	importErr := s.eachRow(ctx, file, func(row etl.Row) error {
		sch, err := etl.ScholarshipFromRow(row)
		if err != nil {
			return err
		}
		if err := s.scholarships.Insert(ctx, sch); err != nil {
			return err
		}
		count++
		s.progress(ctx, models.TableScholarships, count)
		return nil
	})

	importErr = s.cleanup(file, importErr)
	s.metrics.AddRows(models.TableScholarships, count)
	s.metrics.ObserveRun(models.TableScholarships, start, importErr)
	if importErr == nil {
		s.logger.Sugar().Infow("scholarships imported", "rows", count)
	}
	return importErr
}

// ImportAssociatedRoles replaces the associated-roles table.
func (s *ImportService) ImportAssociatedRoles(ctx context.Context, file ImportFile) error {
	start := time.Now()
	release, err := s.gate.Begin(ctx)
	if err != nil {
		return fmt.Errorf("raise maintenance flag: %w", err)
	}
	defer release()

	if err := s.roles.DeleteAll(ctx); err != nil {
		return err
	}

	count := 0
	importErr := s.eachRow(ctx, file, func(row etl.Row) error {
		role, err := etl.AssociatedRoleFromRow(row, s.dates)
		if err != nil {
			return err
		}
		if err := s.roles.Insert(ctx, role); err != nil {
			return err
		}
		count++
		s.progress(ctx, models.TableAssociatedRoles, count)
		return nil
	})

	importErr = s.cleanup(file, importErr)
	s.metrics.AddRows(models.TableAssociatedRoles, count)
	s.metrics.ObserveRun(models.TableAssociatedRoles, start, importErr)
	if importErr == nil {
		s.logger.Sugar().Infow("associated roles imported", "rows", count)
	}
	return importErr
}

// ImportBulk runs every import listed in a manifest file and, only if
// all of them succeeded, triggers the student-dates derivation once.
// Individual failures are collected into one combined report; one bad
// file does not stop the remaining imports from running.
//
// Manifest layout (headers must match):
//
//	type,year,file,isgzip,encoding
//	graderesults,2007,/data/2007.csv.gz,True,iso-8859-1
//	supervisors,,/data/supervisors.csv,False,utf-8
func (s *ImportService) ImportBulk(ctx context.Context, path string) error {
	release, err := s.gate.Begin(ctx)
	if err != nil {
		return fmt.Errorf("raise maintenance flag: %w", err)
	}
	defer release()

	var failures []string

	reader, err := etl.Open(path, false, "")
	if err != nil {
		failures = append(failures, err.Error())
	} else {
		defer reader.Close()
		for {
			row, err := reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				failures = append(failures, err.Error())
				break
			}
			// Malformed or blank manifest lines are skipped, not failed.
			if row["type"] == "" && row["file"] == "" {
				continue
			}
			if msg := s.runBulkEntry(ctx, row); msg != "" {
				failures = append(failures, msg)
			}
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%s", strings.Join(failures, "\n"))
	}

	s.logger.Info("bulk import complete, deriving student dates")
	if err := s.deriver.Derive(ctx); err != nil {
		return err
	}
	return s.status.Set(ctx, models.TableStudentDates, nil)
}

// manifestEntry is one parsed bulk-manifest row.
type manifestEntry struct {
	Kind     string `validate:"required"`
	Year     string `validate:"omitempty,numeric"`
	File     string `validate:"required"`
	Gzipped  bool
	Encoding string
}

// runBulkEntry dispatches one manifest row, returning a failure message
// or "" on success. Source files are retained; the manifest owner
// decides their lifecycle.
func (s *ImportService) runBulkEntry(ctx context.Context, row etl.Row) string {
	entry := manifestEntry{
		Kind:     row["type"],
		Year:     row["year"],
		File:     row["file"],
		Gzipped:  row["isgzip"] == "True",
		Encoding: row["encoding"],
	}
	if err := s.validate.Struct(entry); err != nil {
		return fmt.Sprintf("bad manifest entry %v: %v", row, err)
	}

	file := ImportFile{
		Path:     entry.File,
		Gzipped:  entry.Gzipped,
		Encoding: entry.Encoding,
		Retain:   true,
	}
	kind := entry.Kind
	s.logger.Sugar().Infow("bulk entry", "type", kind, "file", file.Path)

	switch kind {
	case "graderesults":
		year, err := strconv.Atoi(entry.Year)
		if err != nil {
			return fmt.Sprintf("bad year %q for grade results: %v", entry.Year, err)
		}
		if _, err := s.ImportGradeResults(ctx, year, file); err != nil {
			return err.Error()
		}
		return s.markLoaded(ctx, models.TableGradeResults)
	case "coursedefs":
		year, err := strconv.Atoi(entry.Year)
		if err != nil {
			return fmt.Sprintf("bad year %q for course defs: %v", entry.Year, err)
		}
		if err := s.ImportCourseDefs(ctx, year, file); err != nil {
			return err.Error()
		}
		return s.markLoaded(ctx, models.TableCourseDefs)
	case "supervisors":
		if err := s.ImportSupervisors(ctx, file); err != nil {
			return err.Error()
		}
		return s.markLoaded(ctx, models.TableSupervisors)
	case "scholarships":
		if err := s.ImportScholarships(ctx, file); err != nil {
			return err.Error()
		}
		return s.markLoaded(ctx, models.TableScholarships)
	case "associatedrole":
		if err := s.ImportAssociatedRoles(ctx, file); err != nil {
			return err.Error()
		}
		return s.markLoaded(ctx, models.TableAssociatedRoles)
	default:
		return "Unhandled file type: " + kind
	}
}

func (s *ImportService) markLoaded(ctx context.Context, table string) string {
	if err := s.status.Set(ctx, table, nil); err != nil {
		return err.Error()
	}
	return ""
}

// eachRow streams a source file through fn, aborting on the first
// error. Every string field is clipped to the storage width before fn
// sees the row.
func (s *ImportService) eachRow(ctx context.Context, file ImportFile, fn func(etl.Row) error) error {
	reader, err := etl.Open(file.Path, file.Gzipped, file.Encoding)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		row, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", file.Path, err)
		}
		row.TruncateStrings(s.cfg.MaxFieldLen)
		if err := fn(row); err != nil {
			return err
		}
	}
}

// cleanup removes the source file unless retention is requested. A
// cleanup failure is only surfaced when the import itself succeeded;
// an import error always takes precedence.
func (s *ImportService) cleanup(file ImportFile, importErr error) error {
	if file.Retain || s.cfg.RetainFiles {
		return importErr
	}
	if err := os.Remove(file.Path); err != nil {
		s.logger.Sugar().Errorw("failed to remove source file", "path", file.Path, "error", err)
		if importErr == nil {
			return fmt.Errorf("remove %s: %w", file.Path, err)
		}
	}
	return importErr
}

// progress writes a status checkpoint every N rows so operators can
// watch a multi-hour import move.
func (s *ImportService) progress(ctx context.Context, table string, count int) {
	if count%s.cfg.ProgressEvery != 0 {
		return
	}
	msg := fmt.Sprintf("Imported %d rows...", count)
	if err := s.status.Set(ctx, table, &msg); err != nil {
		s.logger.Sugar().Warnw("failed to write progress", "table", table, "error", err)
	}
}
