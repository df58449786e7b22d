// Package schema defines per-tool input schemas with field constraints and
// validates raw argument maps against them. Validation is strict: unknown
// fields are rejected, and every violation is reported, not just the first.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Type enumerates the accepted field value types.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeNumber
	TypeBool
	TypeStringList
	TypeObjectList
	TypeRowList
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "integer"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeStringList:
		return "string list"
	case TypeObjectList:
		return "object list"
	case TypeRowList:
		return "row list"
	default:
		return "unknown"
	}
}

// Field describes a single tool argument and its constraints.
type Field struct {
	Name        string
	Description string
	Type        Type
	Required    bool

	// String constraints. MaxLen of 0 means unbounded.
	MinLen  int
	MaxLen  int
	Pattern *regexp.Regexp

	// Numeric bounds, inclusive.
	Min *float64
	Max *float64

	// Enum restricts string values to a closed set.
	Enum []string

	// Default is applied when an optional field is absent.
	Default any
}

// Schema is the immutable field set for one tool.
type Schema struct {
	fields []Field
	byName map[string]Field
}

// New builds a schema from an ordered field list. Duplicate names panic,
// since schemas are constructed once at process start.
func New(fields ...Field) *Schema {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		if _, dup := byName[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate field %q", f.Name))
		}
		byName[f.Name] = f
	}
	return &Schema{fields: fields, byName: byName}
}

// Fields returns the ordered field definitions.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Violation records one failed constraint for one field.
type Violation struct {
	Field      string
	Constraint string
	Message    string
}

// ValidationError aggregates every violation found in one Validate pass.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "invalid arguments: " + strings.Join(msgs, "; ")
}

// Values holds validated, normalized argument values. It only ever contains
// fields declared by the schema.
type Values map[string]any

// String returns the named string value, or "" when absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the named integer value, or 0 when absent.
func (v Values) Int(name string) int {
	i, _ := v[name].(int)
	return i
}

// Float returns the named number value, or 0 when absent.
func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// Bool returns the named boolean value, or false when absent.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// StringList returns the named string-list value, or nil when absent.
func (v Values) StringList(name string) []string {
	l, _ := v[name].([]string)
	return l
}

// ObjectList returns the named object-list value, or nil when absent.
func (v Values) ObjectList(name string) []map[string]any {
	l, _ := v[name].([]map[string]any)
	return l
}

// RowList returns the named row-list value, or nil when absent.
func (v Values) RowList(name string) [][]any {
	l, _ := v[name].([][]any)
	return l
}

// Has reports whether the field was supplied by the caller or defaulted.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Validate checks a raw argument map against the schema. On success it
// returns the normalized values with defaults applied. On failure it returns
// a *ValidationError listing every violated field and constraint.
func (s *Schema) Validate(args map[string]any) (Values, error) {
	var violations []Violation

	// Unknown fields first, in stable order for deterministic messages.
	unknown := make([]string, 0)
	for name := range args {
		if _, ok := s.byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		violations = append(violations, Violation{
			Field:      name,
			Constraint: "unknown",
			Message:    "unrecognized field",
		})
	}

	values := make(Values, len(s.fields))
	for _, f := range s.fields {
		raw, present := args[f.Name]
		if !present || raw == nil {
			if f.Required {
				violations = append(violations, Violation{
					Field:      f.Name,
					Constraint: "required",
					Message:    "required field is missing",
				})
			} else if f.Default != nil {
				values[f.Name] = f.Default
			}
			continue
		}

		value, vs := f.check(raw)
		if len(vs) > 0 {
			violations = append(violations, vs...)
			continue
		}
		values[f.Name] = value
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return values, nil
}

func (f Field) check(raw any) (any, []Violation) {
	switch f.Type {
	case TypeString:
		return f.checkString(raw)
	case TypeInt:
		return f.checkInt(raw)
	case TypeNumber:
		return f.checkNumber(raw)
	case TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, f.typeMismatch(raw)
		}
		return b, nil
	case TypeStringList:
		return f.checkStringList(raw)
	case TypeObjectList:
		return f.checkObjectList(raw)
	case TypeRowList:
		return f.checkRowList(raw)
	}
	return nil, []Violation{{Field: f.Name, Constraint: "type", Message: "unsupported field type"}}
}

func (f Field) typeMismatch(raw any) []Violation {
	return []Violation{{
		Field:      f.Name,
		Constraint: "type",
		Message:    fmt.Sprintf("expected %s, got %T", f.Type, raw),
	}}
}

func (f Field) checkString(raw any) (any, []Violation) {
	s, ok := raw.(string)
	if !ok {
		return nil, f.typeMismatch(raw)
	}
	s = strings.TrimSpace(s)

	var vs []Violation
	if len(s) < f.MinLen {
		vs = append(vs, Violation{
			Field:      f.Name,
			Constraint: "min_length",
			Message:    fmt.Sprintf("must be at least %d characters", f.MinLen),
		})
	}
	if f.MaxLen > 0 && len(s) > f.MaxLen {
		vs = append(vs, Violation{
			Field:      f.Name,
			Constraint: "max_length",
			Message:    fmt.Sprintf("must be at most %d characters", f.MaxLen),
		})
	}
	if f.Pattern != nil && s != "" && !f.Pattern.MatchString(s) {
		vs = append(vs, Violation{
			Field:      f.Name,
			Constraint: "pattern",
			Message:    fmt.Sprintf("must match %s", f.Pattern.String()),
		})
	}
	if len(f.Enum) > 0 {
		found := false
		for _, e := range f.Enum {
			if s == e {
				found = true
				break
			}
		}
		if !found {
			vs = append(vs, Violation{
				Field:      f.Name,
				Constraint: "enum",
				Message:    fmt.Sprintf("must be one of: %s", strings.Join(f.Enum, ", ")),
			})
		}
	}
	if len(vs) > 0 {
		return nil, vs
	}
	return s, nil
}

func (f Field) checkInt(raw any) (any, []Violation) {
	var v float64
	switch x := raw.(type) {
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case float64:
		// JSON decoding yields float64; accept only integral values.
		if x != math.Trunc(x) {
			return nil, f.typeMismatch(raw)
		}
		v = x
	default:
		return nil, f.typeMismatch(raw)
	}
	// Bounds and representability are checked on the float value so an
	// out-of-range input never reaches the int conversion.
	if v >= 1<<63 || v < -(1<<63) {
		return nil, []Violation{{
			Field:      f.Name,
			Constraint: "range",
			Message:    "out of integer range",
		}}
	}
	if vs := f.checkBounds(v); len(vs) > 0 {
		return nil, vs
	}
	return int(v), nil
}

func (f Field) checkNumber(raw any) (any, []Violation) {
	var n float64
	switch v := raw.(type) {
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		n = v
	default:
		return nil, f.typeMismatch(raw)
	}
	if vs := f.checkBounds(n); len(vs) > 0 {
		return nil, vs
	}
	return n, nil
}

func (f Field) checkBounds(n float64) []Violation {
	var vs []Violation
	if f.Min != nil && n < *f.Min {
		vs = append(vs, Violation{
			Field:      f.Name,
			Constraint: "min",
			Message:    fmt.Sprintf("must be at least %v", *f.Min),
		})
	}
	if f.Max != nil && n > *f.Max {
		vs = append(vs, Violation{
			Field:      f.Name,
			Constraint: "max",
			Message:    fmt.Sprintf("must be at most %v", *f.Max),
		})
	}
	return vs
}

func (f Field) checkStringList(raw any) (any, []Violation) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, f.typeMismatch(item)
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out, nil
	default:
		return nil, f.typeMismatch(raw)
	}
}

func (f Field) checkObjectList(raw any) (any, []Violation) {
	switch v := raw.(type) {
	case []map[string]any:
		return v, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, f.typeMismatch(item)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, f.typeMismatch(raw)
	}
}

func (f Field) checkRowList(raw any) (any, []Violation) {
	switch v := raw.(type) {
	case [][]any:
		return v, nil
	case []any:
		out := make([][]any, 0, len(v))
		for _, item := range v {
			row, ok := item.([]any)
			if !ok {
				return nil, f.typeMismatch(item)
			}
			out = append(out, row)
		}
		return out, nil
	default:
		return nil, f.typeMismatch(raw)
	}
}

// F returns a pointer to v, for use as a Min/Max bound.
func F(v float64) *float64 {
	return &v
}
