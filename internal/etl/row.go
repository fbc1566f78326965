package etl

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one record of a delimited extract, keyed by normalized column
// name. Header normalization plus alias lists make the importers
// tolerant of the column renames the source system has gone through
// over the years.
type Row map[string]string

// NormalizeHeader lowercases a column name and replaces spaces with
// underscores, the canonical key form used for alias lookup.
func NormalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// TruncateStrings clips every field to at most maxLen characters. It
// runs over all fields, consumed or not: the extracts grow columns
// faster than the importers learn about them, and anything over the
// storage width would fail the insert. The cut counts runes, not
// bytes: the transcoded extracts carry multi-byte characters and a
// byte-level cut could leave invalid UTF-8 the database rejects.
func (r Row) TruncateStrings(maxLen int) {
	for k, v := range r {
		if len(v) <= maxLen {
			continue
		}
		if runes := []rune(v); len(runes) > maxLen {
			r[k] = string(runes[:maxLen])
		}
	}
}

// StringCell returns the first present alias's value, or def.
func (r Row) StringCell(aliases []string, def *string) *string {
	for _, name := range aliases {
		if v, ok := r[name]; ok {
			return &v
		}
	}
	return def
}

// IntCell returns the first present alias's value parsed as an
// integer, or def. Values are parsed through a float so embedded
// decimal artifacts ("3.0") survive, and grouping commas are stripped.
// A present-but-blank cell means "use the default", not a parse error.
func (r Row) IntCell(aliases []string, def *int64) (*int64, error) {
	for _, name := range aliases {
		v, ok := r[name]
		if !ok {
			continue
		}
		if v == "" {
			return def, nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: cannot parse %q as int", name, v)
		}
		n := int64(f)
		return &n, nil
	}
	return def, nil
}

// FloatCell returns the first present alias's value parsed as a float,
// or def. Grouping commas are stripped before parsing.
func (r Row) FloatCell(aliases []string, def *float64) (*float64, error) {
	for _, name := range aliases {
		v, ok := r[name]
		if !ok {
			continue
		}
		if v == "" {
			return def, nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: cannot parse %q as float", name, v)
		}
		return &f, nil
	}
	return def, nil
}

// BoolCell returns the first present alias's value as a boolean, or
// def. "0" and "1" are the documented encodings; any other non-empty
// text coerces to true.
func (r Row) BoolCell(aliases []string, def *bool) *bool {
	for _, name := range aliases {
		v, ok := r[name]
		if !ok {
			continue
		}
		if v == "" {
			return def
		}
		b := v != "0"
		return &b
	}
	return def
}
