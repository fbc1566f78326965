package service

import (
	"regexp"
	"sort"
	"time"

	"github.com/noah-isme/uni-reporting-etl/internal/etl"
	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

// Master's research enrolments are coded into the paper occurrence:
// a subject prefix, the 59x series, and a cohort digit between 3 and 9
// that scales the credit weighting (eg "COMP593-15A (HAM)").
var mastersCohortPattern = regexp.MustCompile(`[A-Z]+59([3-9])-`)

// mastersInterval derives the Master's enrolment interval of one
// student from their grade records. Returns nil when no start date can
// be established.
func mastersInterval(studentID string, rows []models.ProgramEnrolmentRow, fullTimeCredits float64) *models.StudentDates {
	cohort := make([]models.ProgramEnrolmentRow, 0, len(rows))
	for _, row := range rows {
		if mastersCohortPattern.MatchString(row.PaperOccurrence) {
			cohort = append(cohort, row)
		}
	}

	// Months: each cohort occurrence contributes its credits scaled
	// down by the cohort digit, at 30 credits per year.
	var months *float64
	for _, row := range cohort {
		if row.Credits == nil {
			continue
		}
		digit := float64(mastersCohortPattern.FindStringSubmatch(row.PaperOccurrence)[1][0] - '0')
		m := *row.Credits / digit / 30 * 12
		if months == nil {
			months = new(float64)
		}
		*months += m
	}

	var start *time.Time
	school, dept := "", ""
	for _, row := range cohort {
		if row.OccurrenceStartDate == nil {
			continue
		}
		if start == nil || row.OccurrenceStartDate.Before(*start) {
			start = row.OccurrenceStartDate
			school = deref(row.OwningSchool)
			dept = deref(row.OwningDepartment)
		}
	}
	if start == nil {
		return nil
	}

	// Completion requires a graded occurrence; an ungraded one cannot
	// mark the end of the enrolment.
	end := etl.OpenEndedDate
	found := false
	for _, row := range cohort {
		if row.FinalGrade == nil || row.OccurrenceEndDate == nil {
			continue
		}
		if !found || row.OccurrenceEndDate.After(end) {
			end = *row.OccurrenceEndDate
			found = true
		}
	}

	return &models.StudentDates{
		StudentID:  studentID,
		Program:    models.ProgramMasters,
		StartDate:  *start,
		EndDate:    end,
		Months:     months,
		School:     school,
		Department: dept,
		FullTime:   averageAtLeast(creditValues(rows), fullTimeCredits),
		Status:     latestStatus(cohort, nil),
	}
}

// doctoralInterval derives the Doctoral enrolment interval of one
// student from their grade records and active supervision agreements.
// Returns nil when no start date can be established.
func doctoralInterval(studentID string, rows []models.ProgramEnrolmentRow, agreements []models.Supervisor, fullTimeCredits float64) *models.StudentDates {
	// Months: credit points (with the per-student fallback) over the
	// occurrence credit weight, in years of 12.
	var months *float64
	for _, row := range rows {
		points := row.StudentCreditPoints
		if points == nil {
			points = row.CreditsPerStudent
		}
		if points == nil || row.Credits == nil || *row.Credits == 0 {
			continue
		}
		m := *points / *row.Credits * 12
		if months == nil {
			months = new(float64)
		}
		*months += m
	}

	var start *time.Time
	school, dept := "", ""
	for _, row := range rows {
		if row.OccurrenceStartDate == nil {
			continue
		}
		if start == nil || row.OccurrenceStartDate.Before(*start) {
			start = row.OccurrenceStartDate
			school = deref(row.OwningSchool)
			dept = deref(row.OwningDepartment)
		}
	}

	// A concluded agreement's proposed enrolment date supersedes the
	// grade-record date when it is later; a re-enrolment shows up there
	// before it shows up in grade records.
	var agreedEnd *time.Time
	for _, a := range agreements {
		if a.CompletionDate == nil || !etl.IsRealDate(*a.CompletionDate) {
			continue
		}
		if agreedEnd == nil || a.CompletionDate.After(*agreedEnd) {
			agreedEnd = a.CompletionDate
		}
		if a.ProposedEnrolmentDate != nil {
			if start == nil || a.ProposedEnrolmentDate.After(*start) {
				start = a.ProposedEnrolmentDate
			}
		}
	}
	if start == nil {
		return nil
	}

	end := etl.OpenEndedDate
	if agreedEnd != nil {
		end = *agreedEnd
	} else {
		found := false
		for _, row := range rows {
			if row.OccurrenceEndDate == nil {
				continue
			}
			if !found || row.OccurrenceEndDate.After(end) {
				end = *row.OccurrenceEndDate
				found = true
			}
		}
	}

	// Doctoral enrolments without a terminal grade row are current, not
	// unknown: the degree is in progress until the records say finished.
	current := models.StatusCurrent

	return &models.StudentDates{
		StudentID:  studentID,
		Program:    models.ProgramDoctoral,
		StartDate:  *start,
		EndDate:    end,
		Months:     months,
		School:     school,
		Department: dept,
		FullTime:   averageAtLeast(creditsPerStudentValues(rows), fullTimeCredits),
		Status:     latestStatus(gradedRows(rows), &current),
	}
}

// gradedRows drops rows whose final grade is a placeholder; they carry
// no completion signal.
func gradedRows(rows []models.ProgramEnrolmentRow) []models.ProgramEnrolmentRow {
	out := make([]models.ProgramEnrolmentRow, 0, len(rows))
	for _, row := range rows {
		if row.FinalGrade == nil || *row.FinalGrade == "" || *row.FinalGrade == "..." {
			continue
		}
		out = append(out, row)
	}
	return out
}

// latestStatus maps the most recent row's final-grade-status onto a
// completion status, falling back to def when there are no rows.
func latestStatus(rows []models.ProgramEnrolmentRow, def *models.CompletionStatus) *models.CompletionStatus {
	if len(rows) == 0 {
		return def
	}
	sorted := make([]models.ProgramEnrolmentRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year > sorted[j].Year })
	latest := sorted[0]
	return models.MapCompletionStatus(deref(latest.FinalGradeStatus), deref(latest.FinalGrade))
}

// averageAtLeast reports whether the mean of vals reaches threshold,
// or nil when there are no values to average.
func averageAtLeast(vals []float64, threshold float64) *bool {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	b := sum/float64(len(vals)) >= threshold
	return &b
}

func creditValues(rows []models.ProgramEnrolmentRow) []float64 {
	vals := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.Credits != nil {
			vals = append(vals, *row.Credits)
		}
	}
	return vals
}

func creditsPerStudentValues(rows []models.ProgramEnrolmentRow) []float64 {
	vals := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.CreditsPerStudent != nil {
			vals = append(vals, *row.CreditsPerStudent)
		}
	}
	return vals
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
