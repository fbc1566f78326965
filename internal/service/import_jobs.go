package service

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
	"github.com/noah-isme/uni-reporting-etl/pkg/jobs"
)

// The Queue* methods are the asynchronous face of the service: each
// marks the table as importing, hands the work to the job queue and
// returns the job ID immediately. Progress and completion are observed
// through the status ledger. Concurrent imports against the same table
// are not locked out here; the "Importing..." marker is the signal for
// callers to stay away.

var importing = "Importing..."
var processing = "Processing..."

// QueueGradeResults schedules a grade-results import.
func (s *ImportService) QueueGradeResults(ctx context.Context, year int, file ImportFile, email string) (string, error) {
	if err := s.status.Set(ctx, models.TableGradeResults, &importing); err != nil {
		return "", err
	}
	return s.queue.Enqueue(jobs.Job{Type: JobGradeResults, Payload: YearImportJob{Year: year, File: file, Email: email}})
}

// QueueCourseDefs schedules a course-definitions import.
func (s *ImportService) QueueCourseDefs(ctx context.Context, year int, file ImportFile, email string) (string, error) {
	if err := s.status.Set(ctx, models.TableCourseDefs, &importing); err != nil {
		return "", err
	}
	return s.queue.Enqueue(jobs.Job{Type: JobCourseDefs, Payload: YearImportJob{Year: year, File: file, Email: email}})
}

// QueueSupervisors schedules a supervisors import.
func (s *ImportService) QueueSupervisors(ctx context.Context, file ImportFile, email string) (string, error) {
	if err := s.status.Set(ctx, models.TableSupervisors, &importing); err != nil {
		return "", err
	}
	return s.queue.Enqueue(jobs.Job{Type: JobSupervisors, Payload: TableImportJob{File: file, Email: email}})
}

// QueueScholarships schedules a scholarships import.
func (s *ImportService) QueueScholarships(ctx context.Context, file ImportFile, email string) (string, error) {
	if err := s.status.Set(ctx, models.TableScholarships, &importing); err != nil {
		return "", err
	}
	return s.queue.Enqueue(jobs.Job{Type: JobScholarships, Payload: TableImportJob{File: file, Email: email}})
}

// QueueAssociatedRoles schedules an associated-roles import.
func (s *ImportService) QueueAssociatedRoles(ctx context.Context, file ImportFile, email string) (string, error) {
	if err := s.status.Set(ctx, models.TableAssociatedRoles, &importing); err != nil {
		return "", err
	}
	return s.queue.Enqueue(jobs.Job{Type: JobAssociatedRoles, Payload: TableImportJob{File: file, Email: email}})
}

// QueueBulk schedules a manifest-driven bulk import.
func (s *ImportService) QueueBulk(ctx context.Context, path, email string) (string, error) {
	return s.queue.Enqueue(jobs.Job{Type: JobBulk, Payload: BulkImportJob{Path: path, Email: email}})
}

// QueueDerive schedules a student-dates recalculation.
func (s *ImportService) QueueDerive(ctx context.Context, email string) (string, error) {
	if err := s.status.Set(ctx, models.TableStudentDates, &processing); err != nil {
		return "", err
	}
	return s.queue.Enqueue(jobs.Job{Type: JobStudentDates, Payload: DeriveJob{Email: email}})
}

// HandleJob is the queue handler: it runs the blocking import behind a
// queued job, records the terminal status and sends the optional
// notification.
func (s *ImportService) HandleJob(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case JobGradeResults:
		p, ok := job.Payload.(YearImportJob)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.Type, job.Payload)
		}
		queryDate, err := s.ImportGradeResults(ctx, p.Year, p.File)
		// A current-year load is stamped with the extract's query date:
		// the ledger then answers "how fresh is the data", not "when did
		// the load run".
		if err == nil && queryDate != nil && queryDate.Year() == time.Now().Year() {
			if serr := s.status.SetAt(ctx, models.TableGradeResults, nil, *queryDate); serr != nil {
				return serr
			}
		} else if serr := s.recordOutcome(ctx, models.TableGradeResults, err); serr != nil {
			return serr
		}
		s.sendNotice(ctx, p.Email, "Import: grade results", err)
		return err

	case JobCourseDefs:
		p, ok := job.Payload.(YearImportJob)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.Type, job.Payload)
		}
		err := s.ImportCourseDefs(ctx, p.Year, p.File)
		if serr := s.recordOutcome(ctx, models.TableCourseDefs, err); serr != nil {
			return serr
		}
		s.sendNotice(ctx, p.Email, "Import: course definitions", err)
		return err

	case JobSupervisors:
		p, ok := job.Payload.(TableImportJob)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.Type, job.Payload)
		}
		err := s.ImportSupervisors(ctx, p.File)
		if serr := s.recordOutcome(ctx, models.TableSupervisors, err); serr != nil {
			return serr
		}
		s.sendNotice(ctx, p.Email, "Import: supervisors", err)
		return err

	case JobScholarships:
		p, ok := job.Payload.(TableImportJob)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.Type, job.Payload)
		}
		err := s.ImportScholarships(ctx, p.File)
		if serr := s.recordOutcome(ctx, models.TableScholarships, err); serr != nil {
			return serr
		}
		s.sendNotice(ctx, p.Email, "Import: scholarships", err)
		return err

	case JobAssociatedRoles:
		p, ok := job.Payload.(TableImportJob)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.Type, job.Payload)
		}
		err := s.ImportAssociatedRoles(ctx, p.File)
		if serr := s.recordOutcome(ctx, models.TableAssociatedRoles, err); serr != nil {
			return serr
		}
		s.sendNotice(ctx, p.Email, "Import: associated roles", err)
		return err

	case JobBulk:
		p, ok := job.Payload.(BulkImportJob)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.Type, job.Payload)
		}
		err := s.ImportBulk(ctx, p.Path)
		s.sendNotice(ctx, p.Email, "Import: bulk", err)
		return err

	case JobStudentDates:
		p, ok := job.Payload.(DeriveJob)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.Type, job.Payload)
		}
		err := s.deriver.Derive(ctx)
		if serr := s.recordOutcome(ctx, models.TableStudentDates, err); serr != nil {
			return serr
		}
		s.sendNotice(ctx, p.Email, "Student dates", err)
		return err

	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}

// recordOutcome writes the terminal ledger entry: nil for success, the
// error text for failure.
func (s *ImportService) recordOutcome(ctx context.Context, table string, runErr error) error {
	var msg *string
	if runErr != nil {
		m := runErr.Error()
		msg = &m
	}
	return s.status.Set(ctx, table, msg)
}

// sendNotice delivers the optional completion email. Best effort only.
func (s *ImportService) sendNotice(ctx context.Context, email, subject string, runErr error) {
	if email == "" || s.notifier == nil {
		return
	}
	body := "Import succeeded"
	if runErr != nil {
		body = "Import failed: " + runErr.Error()
	}
	if err := s.notifier.Notify(ctx, email, subject, body); err != nil {
		s.logger.Sugar().Warnw("notification failed", "to", email, "subject", subject, "error", err)
	}
}
