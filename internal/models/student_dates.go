package models

import "time"

// StudentDates is the derived enrolment interval for one student and
// program: when they started, when they finished (or the open-ended
// sentinel), how many full-time-equivalent months the enrolment spans,
// and where the enrolment sits organizationally. The whole table is
// recomputed from the normalized sources on every derivation run.
type StudentDates struct {
	StudentID  string            `db:"student_id"`
	Program    Program           `db:"program"`
	StartDate  time.Time         `db:"start_date"`
	EndDate    time.Time         `db:"end_date"`
	Months     *float64          `db:"months"`
	School     string            `db:"school"`
	Department string            `db:"department"`
	FullTime   *bool             `db:"full_time"`
	Status     *CompletionStatus `db:"status"`
}
