package models

import "time"

// Supervisor is one supervision-agreement relation from the research
// office export: one row per student-supervisor-entity combination.
type Supervisor struct {
	StudentID             string     `db:"student_id"`
	Student               string     `db:"student"`
	Supervisor            string     `db:"supervisor"`
	ActiveRoles           string     `db:"active_roles"`
	Entity                string     `db:"entity"`
	AgreementStatus       string     `db:"agreement_status"`
	DateAgreed            *time.Time `db:"date_agreed"`
	CompletionDate        *time.Time `db:"completion_date"`
	ProposedEnrolmentDate *time.Time `db:"proposed_enrolment_date"`
	ProposedResearchTopic string     `db:"proposed_research_topic"`
	Title                 string     `db:"title"`
	Quals                 string     `db:"quals"`
	Comments              string     `db:"comments"`
	Active                bool       `db:"active"`
	Program               Program    `db:"program"`
}
