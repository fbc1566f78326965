package etl

// CourseDefsMapping declares the course-definitions (Brio/Hyperion)
// import schema. The export prefixes most columns with "paper"; the
// normalized table drops the prefix.
func CourseDefsMapping(dates *DateParser) *Mapping {
	return &Mapping{
		Dates: dates.GradeDate,
		Fields: []Field{
			{Column: "code", Aliases: []string{"papercode"}, Kind: KindString, Required: true},
			{Column: "title", Aliases: []string{"papertitle"}, Kind: KindString},
			{Column: "description", Aliases: []string{"paperdescription"}, Kind: KindString},
			{Column: "type", Aliases: []string{"papertype"}, Kind: KindString},
			{Column: "stage", Aliases: []string{"paperstage"}, Kind: KindInt},
			{Column: "points", Aliases: []string{"paperpoints"}, Kind: KindFloat},
			{Column: "delivery_mode", Aliases: []string{"paperdeliverymode"}, Kind: KindString},
			{Column: "owning_programme", Aliases: []string{"paperowningprogramme"}, Kind: KindString},
			{Column: "owning_programme_title", Aliases: []string{"paperowningprogrammetitle"}, Kind: KindString},
			{Column: "fw_level", Aliases: []string{"paperfwlevel"}, Kind: KindInt},
			{Column: "hours_contact", Aliases: []string{"paperhourscontact"}, Kind: KindInt},
			{Column: "hours_self_directed", Aliases: []string{"paperhoursselfdirected"}, Kind: KindInt},
			{Column: "hours_other_directed", Aliases: []string{"paperhoursotherdirected"}, Kind: KindInt},
			{Column: "funding_source", Aliases: []string{"paperfundingsource"}, Kind: KindString},
			{Column: "course_factor", Aliases: []string{"papercoursefactor"}, Kind: KindFloat},
			{Column: "cost_category_code", Aliases: []string{"papercostcategorycode"}, Kind: KindString},
			{Column: "cost_category", Aliases: []string{"papercostcategory"}, Kind: KindString},
			{Column: "funding_class_code", Aliases: []string{"paperfundingclasscode"}, Kind: KindString},
			{Column: "funding_class", Aliases: []string{"paperfundingclass"}, Kind: KindString},
			{Column: "individual_efts", Aliases: []string{"paperindividualefts"}, Kind: KindInt},
			{Column: "nzsced_code", Aliases: []string{"nzscedcode"}, Kind: KindString},
			{Column: "nzsced_category", Aliases: []string{"nzscedcategory"}, Kind: KindString},
			{Column: "delivering_school_code", Aliases: []string{"paperdeliveringschoolcode"}, Kind: KindString},
			{Column: "delivering_school", Aliases: []string{"paperdeliveringschool"}, Kind: KindString},
			{Column: "delivering_dept_code", Aliases: []string{"paperdeliveringdeptcode"}, Kind: KindString},
			{Column: "delivering_dept", Aliases: []string{"paperdeliveringdept"}, Kind: KindString},
			{Column: "delivering_unit_code", Aliases: []string{"paperdeliveringunitcode"}, Kind: KindString},
			{Column: "delivering_unit", Aliases: []string{"paperdeliveringunit"}, Kind: KindString},
			{Column: "owning_school_code", Aliases: []string{"paperowningschoolcode"}, Kind: KindString},
			{Column: "owning_school", Aliases: []string{"paperowningschool"}, Kind: KindString},
			{Column: "owning_dept_code", Aliases: []string{"paperowningdepartmentcode"}, Kind: KindString},
			{Column: "owning_dept", Aliases: []string{"paperowningdepartment"}, Kind: KindString},
			{Column: "owning_unit_code", Aliases: []string{"paperowningunitcode"}, Kind: KindString},
			{Column: "owning_unit", Aliases: []string{"paperowningunit"}, Kind: KindString},
			{Column: "self_paced", Aliases: []string{"paperselfpaced"}, Kind: KindBool},
			{Column: "online", Aliases: []string{"paperonline"}, Kind: KindBool},
			{Column: "active", Aliases: []string{"paperactive"}, Kind: KindBool},
			{Column: "pending", Aliases: []string{"paperpending"}, Kind: KindBool},
			{Column: "sub_status", Aliases: []string{"papersubstatus"}, Kind: KindString},
			{Column: "grade_method_code", Aliases: []string{"grademethodcode"}, Kind: KindString},
			{Column: "pbrf_eligibility", Aliases: []string{"pbrfeligibility"}, Kind: KindString},
			{Column: "coe_policy", Aliases: []string{"coepolicy"}, Kind: KindString},
			{Column: "report_academic_result", Aliases: []string{"reportacademicresult"}, Kind: KindBool},
			{Column: "internet_based", Aliases: []string{"paperinternetbased"}, Kind: KindString},
		},
	}
}
