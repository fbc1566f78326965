package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
)

func TestNormalizeSupervisorTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Professor", "prof"},
		{"Assoc. Professor", "aprof"},
		{"Associate Professor", "aprof"},
		{"Dr.", "dr"},
		{"Doctor", "dr"},
		{"Prof", "prof"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, NormalizeSupervisorTitle(tc.in), tc.in)
	}
}

func TestSupervisorFromRow(t *testing.T) {
	row := Row{
		"student":          "Smith, John 1234567",
		"supervisor":       "Jones, Mary",
		"active_roles":     "Chief Supervisor",
		"entity":           "Enrolment/PhD Computer Science",
		"agreement_status": "Signed",
		"date_agreed":      "14/3/2016",
		"completion_date":  "*invalid*",
		"title":            "Assoc. Professor",
	}

	s, err := SupervisorFromRow(row, NewDateParser(nil))
	require.NoError(t, err)

	require.Equal(t, "1234567", s.StudentID)
	require.Equal(t, "aprof", s.Title)
	require.True(t, s.Active)
	require.Equal(t, models.ProgramDoctoral, s.Program)
	require.True(t, s.DateAgreed.Equal(time.Date(2016, time.March, 14, 0, 0, 0, 0, time.UTC)))
	require.True(t, s.CompletionDate.Equal(UnknownDate))
}

func TestSupervisorFromRowInactiveTitles(t *testing.T) {
	for _, title := range []string{"Removed", "Replaced Supervisor", "Informal"} {
		row := Row{"student": "Smith, John 1234567", "entity": "Enrolment/MPhil Law", "title": title}
		s, err := SupervisorFromRow(row, NewDateParser(nil))
		require.NoError(t, err)
		require.False(t, s.Active, title)
		require.Equal(t, models.ProgramMasters, s.Program)
	}
}

func TestSupervisorFromRowMissingStudent(t *testing.T) {
	_, err := SupervisorFromRow(Row{"entity": "Enrolment/PhD X"}, NewDateParser(nil))
	require.Error(t, err)
}

func TestScholarshipFromRow(t *testing.T) {
	s, err := ScholarshipFromRow(Row{
		"person_id": "1234567",
		"template":  "Doctoral Scholarship",
		"status":    "Offered",
		"decision":  "Accepted",
		"year":      "2016",
	})
	require.NoError(t, err)
	require.Equal(t, "1234567", s.StudentID)
	require.Equal(t, "Doctoral Scholarship", s.Name)
	require.NotNil(t, s.Year)
	require.Equal(t, 2016, *s.Year)

	_, err = ScholarshipFromRow(Row{"person_id": "1", "year": "not a year"})
	require.Error(t, err)

	// A blank year stays NULL; older extracts omit it entirely.
	s, err = ScholarshipFromRow(Row{"person_id": "2", "year": ""})
	require.NoError(t, err)
	require.Nil(t, s.Year)
}

func TestAssociatedRoleFromRow(t *testing.T) {
	row := Row{
		"role":       "Chief Supervisor",
		"person":     "Jones, Mary",
		"entity":     "Research/Award/PHD Smith, John - 1234567",
		"valid_from": "1/2/2019",
		"valid_to":   "",
	}

	r, err := AssociatedRoleFromRow(row, NewDateParser(nil))
	require.NoError(t, err)

	require.True(t, r.Active)
	require.NotNil(t, r.StudentID)
	require.Equal(t, "1234567", *r.StudentID)
	require.NotNil(t, r.Program)
	require.Equal(t, models.ProgramDoctoral, *r.Program)
	require.NotNil(t, r.Student)
	require.Equal(t, "Smith, John - 1234567", *r.Student)
	require.True(t, r.ValidTo.Equal(UnknownDate))
}

func TestAssociatedRoleFromRowNonAwardEntity(t *testing.T) {
	row := Row{
		"role":       "Panel Member",
		"person":     "Jones, Mary",
		"entity":     "Committee/Higher Degrees",
		"valid_from": "1/2/2019",
		"valid_to":   "31/12/2020",
	}

	r, err := AssociatedRoleFromRow(row, NewDateParser(nil))
	require.NoError(t, err)

	require.False(t, r.Active)
	require.Nil(t, r.StudentID)
	require.Nil(t, r.Program)
	require.Nil(t, r.Student)
}
