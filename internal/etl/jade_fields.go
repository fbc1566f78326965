package etl

import (
	"fmt"
	"strings"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

// The research-office (Jade) exports carry composite free-text columns
// that the normalized tables split apart: the student ID rides at the
// end of the "student" display string, and the program classification
// hides inside the entity path. These builders do that surgery; they
// are separate from the declarative mappings because each output field
// can draw on several input columns.

// NormalizeSupervisorTitle collapses the free-text title column into a
// small set of comparable tokens ("prof", "aprof", "dr", ...). The
// replacement chain runs in order; later steps rely on earlier ones.
func NormalizeSupervisorTitle(title string) string {
	t := strings.ToLower(title)
	t = strings.ReplaceAll(t, ".", "")
	t = strings.ReplaceAll(t, "/", "")
	t = strings.ReplaceAll(t, " ", "")
	t = strings.ReplaceAll(t, "associate", "a")
	t = strings.ReplaceAll(t, "assoc", "a")
	t = strings.ReplaceAll(t, "professor", "prof")
	t = strings.ReplaceAll(t, "pro", "prof")
	t = strings.ReplaceAll(t, "proff", "prof")
	t = strings.ReplaceAll(t, "doctor", "dr")
	t = strings.ReplaceAll(t, "sir", "")
	return t
}

// entityAward pulls the award token out of an entity path: the segment
// after the last slash, cut at the first space, uppercased.
// "Enrolment/PhD Computer Science" yields "PHD".
func entityAward(entity string) string {
	if i := strings.LastIndex(entity, "/"); i >= 0 {
		entity = entity[i+1:]
	}
	if i := strings.Index(entity, " "); i >= 0 {
		entity = entity[:i]
	}
	return strings.ToUpper(entity)
}

// SupervisorFromRow builds one supervision-agreement record.
func SupervisorFromRow(row Row, dates *DateParser) (*models.Supervisor, error) {
	student, ok := row["student"]
	if !ok {
		return nil, fmt.Errorf("required column %q not found", "student")
	}

	s := &models.Supervisor{
		Student:               student,
		Supervisor:            row["supervisor"],
		ActiveRoles:           row["active_roles"],
		Entity:                row["entity"],
		AgreementStatus:       row["agreement_status"],
		DateAgreed:            dates.SupervisionDate("date_agreed", row["date_agreed"]),
		CompletionDate:        dates.SupervisionDate("completion_date", row["completion_date"]),
		ProposedEnrolmentDate: dates.SupervisionDate("proposed_enrolment_date", row["proposed_enrolment_date"]),
		ProposedResearchTopic: row["proposed_research_topic"],
		Quals:                 row["quals"],
		Comments:              row["comments"],
	}

	// The display string ends with the student ID.
	s.StudentID = student[strings.LastIndex(student, " ")+1:]

	s.Title = NormalizeSupervisorTitle(row["title"])
	// A supervisor stays active until the title marks them out.
	s.Active = !strings.Contains(s.Title, "removed") &&
		!strings.Contains(s.Title, "replaced") &&
		!strings.Contains(s.Title, "informal")

	s.Program = models.ProgramForAward(entityAward(s.Entity))
	return s, nil
}

// ScholarshipFromRow builds one scholarship-application record.
func ScholarshipFromRow(row Row) (*models.Scholarship, error) {
	id, ok := row["person_id"]
	if !ok {
		return nil, fmt.Errorf("required column %q not found", "person_id")
	}
	year, err := row.IntCell([]string{"year"}, nil)
	if err != nil {
		return nil, err
	}
	s := &models.Scholarship{
		StudentID: id,
		Name:      row["template"],
		Status:    row["status"],
		Decision:  row["decision"],
	}
	if year != nil {
		y := int(*year)
		s.Year = &y
	}
	return s, nil
}

// AssociatedRoleFromRow builds one person-entity role record. Student
// identity and program are only available when the entity path points
// at an award enrolment; otherwise those columns stay NULL.
func AssociatedRoleFromRow(row Row, dates *DateParser) (*models.AssociatedRole, error) {
	entity, ok := row["entity"]
	if !ok {
		return nil, fmt.Errorf("required column %q not found", "entity")
	}

	r := &models.AssociatedRole{
		Role:      row["role"],
		Person:    row["person"],
		Entity:    entity,
		ValidFrom: dates.RoleDate("valid_from", row["valid_from"]),
		ValidTo:   dates.RoleDate("valid_to", row["valid_to"]),
		Active:    strings.TrimSpace(row["valid_to"]) == "",
	}

	if i := strings.Index(entity, " - "); i >= 0 {
		id := entity[i+3:]
		r.StudentID = &id
	}
	if i := strings.Index(entity, "Award/"); i >= 0 {
		rest := entity[i+len("Award/"):]
		if j := strings.Index(rest, " "); j >= 0 {
			p := models.ProgramForAward(strings.ToUpper(rest[:j]))
			r.Program = &p
			student := rest[j+1:]
			r.Student = &student
		}
	}
	return r, nil
}
