package etl

// FixOrgUnit canonicalizes an organizational-unit code. The
// institution restructured its schools into faculties; the extract
// still carries the pre-restructure codes for historical rows and was
// never backfilled.
func FixOrgUnit(unit string) string {
	switch unit {
	case "SASS", "SHUM":
		return "FASS"
	case "SCMS":
		return "FCMS"
	case "SEDU":
		return "FEDU"
	case "SLAW":
		return "FLAW"
	case "SMST":
		return "FMGT"
	case "SMPD", "PVCM":
		return "FMIS"
	case "SSEN", "SSTE":
		return "FSEN"
	default:
		return unit
	}
}

// GradeResultsMapping declares the grade-results (Brio/Hyperion)
// import schema. Alias lists cover every column rename the export has
// gone through; the first present alias wins.
func GradeResultsMapping(dates *DateParser) *Mapping {
	return &Mapping{
		Dates: dates.GradeDate,
		Fields: []Field{
			{Column: "student_id", Kind: KindString, Required: true},
			{Column: "name", Kind: KindString},
			{Column: "title", Kind: KindString},
			{Column: "prefered_given_name", Kind: KindString, Default: ""},
			{Column: "given_name", Kind: KindString, Default: ""},
			{Column: "other_given_names", Kind: KindString, Default: ""},
			{Column: "family_name", Kind: KindString, Default: ""},
			{Column: "previous_name", Kind: KindString},
			{Column: "address1", Aliases: []string{"address1", "address_line_1"}, Kind: KindString},
			{Column: "address2", Aliases: []string{"address2", "address_line_2"}, Kind: KindString},
			{Column: "address2a", Kind: KindString},
			{Column: "address2b", Kind: KindString},
			{Column: "address3", Aliases: []string{"address3", "address_line_3"}, Kind: KindString},
			{Column: "address4", Aliases: []string{"address4", "address_line_4"}, Kind: KindString},
			{Column: "postcode", Aliases: []string{"postcode", "postal_area_code"}, Kind: KindString},
			{Column: "telephone", Aliases: []string{"telephone", "perm_phone_number"}, Kind: KindString},
			{Column: "cellphone", Aliases: []string{"cellphone", "perm_cellphone_number"}, Kind: KindString},
			{Column: "email", Aliases: []string{"email", "perm_email_address"}, Kind: KindString},
			{Column: "hasdisability", Kind: KindInt},
			{Column: "isdomestic", Aliases: []string{"isdomestic", "domestic_indicator"}, Kind: KindInt},
			{Column: "is_domiciled_locally", Kind: KindInt},
			{Column: "citizenship", Kind: KindString},
			{Column: "residency_status", Kind: KindString},
			{Column: "origin", Kind: KindString},
			{Column: "gender", Kind: KindString},
			{Column: "ethnicity", Kind: KindString},
			{Column: "ethnic_group", Kind: KindString},
			{Column: "all_ethnicities_string", Kind: KindString},
			{Column: "all_iwi_string", Kind: KindString},
			{Column: "dateofbirth", Aliases: []string{"dateofbirth", "date_of_birth"}, Kind: KindDate},
			{Column: "dateofdeath", Kind: KindString},
			{Column: "waikato_1st", Kind: KindInt},
			{Column: "nz_1st", Kind: KindInt},
			{Column: "last_year_sec", Kind: KindInt},
			{Column: "sec_qual_year", Kind: KindInt},
			{Column: "last_sec_school", Kind: KindString},
			{Column: "last_sec_school_region", Kind: KindString},
			{Column: "highest_sec_qual", Kind: KindString},
			{Column: "main_activity", Kind: KindString},
			{Column: "award_title", Aliases: []string{"award_title", "award"}, Kind: KindString},
			{Column: "prog_abbr", Aliases: []string{"prog_abbr", "prog_-_abbr"}, Kind: KindString},
			{Column: "programme", Kind: KindString},
			{Column: "programme_type_code", Kind: KindString},
			{Column: "programme_type", Kind: KindString},
			{Column: "ishigherdegree", Kind: KindInt},
			{Column: "school_of_study", Kind: KindString},
			{Column: "school_of_study_clevel", Kind: KindString, Post: FixOrgUnit},
			{Column: "paper_master_code", Aliases: []string{"paper_master_code", "paper_master"}, Kind: KindString},
			{Column: "paper_occurrence", Kind: KindString},
			{Column: "paper_title", Kind: KindString},
			{Column: "occurrence_startdate", Kind: KindDate},
			{Column: "occurrence_startyear", Kind: KindInt},
			{Column: "occurrence_startweek", Kind: KindInt},
			{Column: "occurrence_enddate", Kind: KindDate},
			{Column: "stage", Kind: KindInt},
			{Column: "credits", Kind: KindFloat},
			{Column: "student_credit_points", Aliases: []string{"student_credit_points", "student_credits"}, Kind: KindFloat},
			{Column: "iscancelled", Kind: KindInt},
			{Column: "isoncampus", Kind: KindInt},
			{Column: "issemesteracourse", Kind: KindInt},
			{Column: "issemesterbcourse", Kind: KindInt},
			{Column: "iswholeyearcourse", Kind: KindInt},
			{Column: "location_code", Kind: KindString},
			{Column: "location", Kind: KindString},
			{Column: "owning_school_clevel", Kind: KindString, Post: FixOrgUnit},
			{Column: "owning_school", Kind: KindString},
			{Column: "owning_department_clevel", Kind: KindString},
			{Column: "owning_department", Kind: KindString},
			{Column: "owning_level4_clevel", Kind: KindString},
			{Column: "owning_level4_department", Kind: KindString},
			{Column: "owning_level4or3_department", Kind: KindString},
			{Column: "owning_level4or3_clevel", Kind: KindString},
			{Column: "delivery_mode_code", Kind: KindString},
			{Column: "delivery_mode", Kind: KindString},
			{Column: "semester_code", Kind: KindString},
			{Column: "semester_description", Kind: KindString},
			{Column: "isselfpaced", Kind: KindInt},
			{Column: "source_of_funding", Kind: KindString},
			{Column: "funding_category_code", Kind: KindString},
			{Column: "funding_category", Kind: KindString},
			{Column: "cost_category_code", Kind: KindString},
			{Column: "cost_category", Kind: KindString},
			{Column: "research_supplement_code", Kind: KindInt},
			{Column: "research_supplement", Kind: KindString},
			{Column: "classification_code", Kind: KindFloat},
			{Column: "classification", Kind: KindString},
			{Column: "division", Kind: KindString},
			{Column: "division_code", Kind: KindString},
			{Column: "specified_programme", Kind: KindString},
			{Column: "major", Kind: KindString},
			{Column: "second_major", Kind: KindString},
			{Column: "major2", Kind: KindString},
			{Column: "second_major2", Kind: KindString},
			{Column: "main_subject", Kind: KindString},
			{Column: "second_subject", Kind: KindString},
			{Column: "supporting_subject", Kind: KindString},
			{Column: "teaching_1", Kind: KindString},
			{Column: "teaching_2", Kind: KindString},
			{Column: "teaching_3", Kind: KindString},
			{Column: "teaching_4", Kind: KindString},
			{Column: "subject", Kind: KindString},
			{Column: "field", Kind: KindString},
			{Column: "specialisation", Kind: KindString},
			{Column: "stream", Kind: KindString},
			{Column: "endorsement", Kind: KindString},
			{Column: "award_year", Kind: KindInt},
			{Column: "award_completion_status", Kind: KindString},
			{Column: "award_completion_date", Kind: KindDate},
			{Column: "award_completion_confirmed_date", Kind: KindDate},
			{Column: "admission_year", Kind: KindInt},
			{Column: "admission_reason", Kind: KindString},
			{Column: "admission_criteria", Kind: KindString},
			{Column: "admission_status", Kind: KindString},
			{Column: "grade", Kind: KindString},
			{Column: "grade_status", Kind: KindString},
			{Column: "result_status_code", Kind: KindString},
			{Column: "result_status", Kind: KindString},
			{Column: "grade_ranking", Kind: KindInt},
			{Column: "mark", Kind: KindFloat},
			{Column: "moe_completion_code", Kind: KindInt},
			{Column: "iscontinuinggrade", Kind: KindInt},
			{Column: "ispassgrade", Kind: KindInt},
			{Column: "query_date", Kind: KindDate},
			{Column: "enr_year", Aliases: []string{"enr_year", "enrolment_year"}, Kind: KindInt},
			{Column: "enrolment_status", Kind: KindString},
			{Column: "final_grade", Kind: KindString},
			{Column: "final_grade_ranking", Kind: KindInt},
			{Column: "final_grade_status", Kind: KindString},
			{Column: "final_grade_result_status", Kind: KindString},
			{Column: "papers_per_student", Kind: KindInt},
			{Column: "credits_per_student", Kind: KindFloat},
			{Column: "gpa", Kind: KindFloat},
			{Column: "ones", Kind: KindInt},
			{Column: "allgradeones", Kind: KindInt},
			{Column: "passgradeones", Kind: KindInt},
			{Column: "retentionones", Kind: KindInt},
			{Column: "award_completion_year", Kind: KindInt},
			{Column: "personoid", Kind: KindFloat},
			{Column: "courseoccurrenceoid", Kind: KindFloat},
			{Column: "awardenrolmentoid", Kind: KindFloat},
			{Column: "enrolmentorcosuoid", Kind: KindFloat},
			{Column: "isformalprogramme", Kind: KindInt},
			{Column: "citizenship_simple", Aliases: []string{"citizenship_simple", "citizenship_code"}, Kind: KindString},
			{Column: "moe_pbrf_code", Kind: KindString},
			{Column: "moe_pbrf", Kind: KindString},
			{Column: "achievement_date", Kind: KindDate},
			{Column: "te_reo", Kind: KindInt},
		},
	}
}
