package etl

import (
	"time"

	"go.uber.org/zap"
)

// Sentinel dates used instead of NULL so interval comparisons stay
// total: UnknownDate marks a value the extract did not supply,
// OpenEndedDate marks an enrolment with no completion signal yet, and
// RealDateFloor separates genuine dates from the unknown sentinel.
var (
	UnknownDate   = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	OpenEndedDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	RealDateFloor = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// IsRealDate reports whether d is an actual date rather than the
// unknown sentinel (or anything else implausibly old).
func IsRealDate(d time.Time) bool {
	return d.After(RealDateFloor)
}

// DateParser converts source-specific date strings into canonical
// dates. The extract source changed its export format several times
// over the years without any version marker; the field name is the
// only stable signal for which format to expect, hence the per-field
// dispatch below.
type DateParser struct {
	logger *zap.Logger
}

// NewDateParser builds a parser that logs format mismatches.
func NewDateParser(logger *zap.Logger) *DateParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DateParser{logger: logger}
}

// Per-field formats of the grade-results (Brio/Hyperion) extract.
var gradeDateFormats = map[string]string{
	"achievement_date":                "1/2/06",
	"query_date":                      "2 January 2006",
	"dateofbirth":                     "2-Jan-2006",
	"dateofdeath":                     "2-Jan-2006",
	"occurrence_startdate":            "2-Jan-2006",
	"occurrence_enddate":              "2-Jan-2006",
	"award_completion_date":           "2-Jan-2006",
	"award_completion_confirmed_date": "2-Jan-2006",
}

const gradeDateDefaultFormat = "2/1/06"

// GradeDate parses a date field of the grade-results extract. Blank
// input yields the unknown sentinel; a format mismatch is logged and
// yields nil, leaving the abort decision to the caller.
func (p *DateParser) GradeDate(field, value string) *time.Time {
	if value == "" {
		return &UnknownDate
	}
	format, ok := gradeDateFormats[field]
	if !ok {
		format = gradeDateDefaultFormat
	}
	return p.parse(field, value, format)
}

// SupervisionDate parses a date field of the supervision-agreement
// (Jade) extract, which uses its own pair of formats and emits the
// literal "*invalid*" for dates it could not resolve.
func (p *DateParser) SupervisionDate(field, value string) *time.Time {
	if value == "" || value == "*invalid*" {
		return &UnknownDate
	}
	format := "2 Jan 2006"
	if field == "date_agreed" {
		format = "2/1/2006"
	}
	return p.parse(field, value, format)
}

// RoleDate parses a date field of the associated-role extract.
func (p *DateParser) RoleDate(field, value string) *time.Time {
	if value == "" || value == "*invalid*" {
		return &UnknownDate
	}
	return p.parse(field, value, "2/1/2006")
}

func (p *DateParser) parse(field, value, format string) *time.Time {
	d, err := time.Parse(format, value)
	if err != nil {
		p.logger.Sugar().Warnw("unparseable date",
			"field", field, "value", value, "format", format)
		return nil
	}
	return &d
}
