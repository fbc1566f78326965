package models

// Program classifies a research enrolment by degree level. The codes
// come from the student-information system and are kept verbatim in
// the normalized tables.
type Program string

const (
	// ProgramDoctoral covers PhD-level enrolments (code DP).
	ProgramDoctoral Program = "DP"
	// ProgramMasters covers Master's-level enrolments (code MD).
	ProgramMasters Program = "MD"
	// ProgramOther covers everything else (IPC, certificates, ...).
	ProgramOther Program = "Other"
)

// ProgramForAward maps a raw award token (eg "PHD", "MPHIL") onto the
// program classification.
func ProgramForAward(award string) Program {
	switch award {
	case "PHD", "DMA", "EDD", "SJD":
		return ProgramDoctoral
	case "MPHIL":
		return ProgramMasters
	default:
		return ProgramOther
	}
}

// CompletionStatus is the derived state of a student's enrolment in a
// program. The source system only supplies the raw single-letter codes;
// anything unmapped is treated as unknown rather than guessed at.
type CompletionStatus string

const (
	StatusCurrent   CompletionStatus = "current"
	StatusFinished  CompletionStatus = "finished"
	StatusWithdrawn CompletionStatus = "withdrawn"
)

const (
	// FinalGradeStatusFinished is the raw code for a completed enrolment.
	FinalGradeStatusFinished = "C"
	// FinalGradeStatusCurrent is the raw code for an ongoing enrolment.
	FinalGradeStatusCurrent = "N"
	// FinalGradeWithdrawn is the final-grade code that forces the
	// withdrawn status regardless of the status code on the same row.
	FinalGradeWithdrawn = "WD"
)

// MapCompletionStatus translates the raw final-grade-status code and
// final grade of a grade record into a CompletionStatus. A "WD" final
// grade always wins. Returns nil for blank or unmapped codes.
func MapCompletionStatus(rawStatus, finalGrade string) *CompletionStatus {
	var status *CompletionStatus
	switch rawStatus {
	case FinalGradeStatusFinished:
		s := StatusFinished
		status = &s
	case FinalGradeStatusCurrent:
		s := StatusCurrent
		status = &s
	default:
		// Blank and unmapped codes are both "unknown": downstream
		// reports must not mistake an unrecognised code for a state.
		status = nil
	}
	if finalGrade == FinalGradeWithdrawn {
		s := StatusWithdrawn
		status = &s
	}
	return status
}
