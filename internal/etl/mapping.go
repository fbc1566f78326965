package etl

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects the coercion applied to a mapped field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindDate
)

// Field declares how one target column is filled from a source row:
// which aliases may carry it, how the text is coerced, and an optional
// post-processor for domain fixups (eg canonicalizing renamed org
// units). The alias lists, not any single header layout, are the
// binding contract with the upstream extracts.
type Field struct {
	Column  string
	Aliases []string
	Kind    Kind
	// Default is used when no alias is present, or when a present cell
	// is blank (for numeric kinds). Nil maps to SQL NULL.
	Default interface{}
	// Required aborts the row when no alias matched and no default is
	// set; used for identity columns the schema cannot do without.
	Required bool
	// Post rewrites a coerced string value (string kind only).
	Post func(string) string
}

// DateFunc parses one date field; nil result maps to SQL NULL.
type DateFunc func(field, value string) *time.Time

// Mapping is a declarative import schema: a list of field rules plus
// the date policy for the extract family. One generic loop replaces
// the per-field assignment of ~100 attributes.
type Mapping struct {
	Fields []Field
	Dates  DateFunc
}

// Columns lists the target columns in declaration order.
func (m *Mapping) Columns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = f.Column
	}
	return cols
}

// InsertStatement renders the named INSERT for the mapping's columns,
// with extra columns (partition keys set by the importer) prepended.
func (m *Mapping) InsertStatement(table string, extra ...string) string {
	cols := append(append([]string{}, extra...), m.Columns()...)
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(named, ", "))
}

// Apply coerces one source row into a named-parameter map. Missing
// optional fields become their default; a missing required field or an
// unparseable numeric aborts the row with a diagnostic the importer
// surfaces as the file's terminal error.
func (m *Mapping) Apply(row Row) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m.Fields))
	for _, f := range m.Fields {
		aliases := f.Aliases
		if aliases == nil {
			aliases = []string{f.Column}
		}

		switch f.Kind {
		case KindString:
			var def *string
			if f.Default != nil {
				s := f.Default.(string)
				def = &s
			}
			v := row.StringCell(aliases, def)
			if v == nil {
				if f.Required {
					return nil, fmt.Errorf("required column %q not found (aliases %v)", f.Column, aliases)
				}
				out[f.Column] = nil
				continue
			}
			s := *v
			if f.Post != nil {
				s = f.Post(s)
			}
			out[f.Column] = s

		case KindInt:
			var def *int64
			if f.Default != nil {
				n := int64(f.Default.(int))
				def = &n
			}
			v, err := row.IntCell(aliases, def)
			if err != nil {
				return nil, err
			}
			if v == nil {
				if f.Required {
					return nil, fmt.Errorf("required column %q not found (aliases %v)", f.Column, aliases)
				}
				out[f.Column] = nil
				continue
			}
			out[f.Column] = *v

		case KindFloat:
			var def *float64
			if f.Default != nil {
				x := f.Default.(float64)
				def = &x
			}
			v, err := row.FloatCell(aliases, def)
			if err != nil {
				return nil, err
			}
			if v == nil {
				if f.Required {
					return nil, fmt.Errorf("required column %q not found (aliases %v)", f.Column, aliases)
				}
				out[f.Column] = nil
				continue
			}
			out[f.Column] = *v

		case KindBool:
			var def *bool
			if f.Default != nil {
				b := f.Default.(bool)
				def = &b
			}
			v := row.BoolCell(aliases, def)
			if v == nil {
				if f.Required {
					return nil, fmt.Errorf("required column %q not found (aliases %v)", f.Column, aliases)
				}
				out[f.Column] = nil
				continue
			}
			out[f.Column] = *v

		case KindDate:
			// An absent date column behaves like a blank cell: the
			// unknown sentinel, not NULL, so interval comparisons
			// downstream stay total.
			blank := ""
			raw := row.StringCell(aliases, &blank)
			d := m.Dates(f.Column, *raw)
			if d == nil {
				out[f.Column] = nil
				continue
			}
			out[f.Column] = *d

		default:
			return nil, fmt.Errorf("column %q: unknown field kind %d", f.Column, f.Kind)
		}
	}
	return out, nil
}
