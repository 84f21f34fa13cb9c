// Package schema defines the fixed column layout of a habit-tracking CSV.
//
// A Schema is built once from a list of FieldSpecs and never mutated
// afterwards. Habits returns the schema used by the validator; tests may
// construct alternate schemas with New.
package schema

import "fmt"

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
)

// Range is an inclusive numeric bound for a column.
type Range struct {
	Lo float64
	Hi float64
}

// Contains reports whether v lies within [Lo, Hi].
func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// FieldSpec defines validation rules for a single CSV column.
type FieldSpec struct {
	Name    string    // Column header name (must match CSV exactly)
	Type    FieldType // Expected data type
	Range   *Range    // Inclusive bounds, FieldNumeric only
	Integer bool      // Value must have no fractional part
}

// Schema is an immutable ordered set of field specs.
type Schema struct {
	specs   []FieldSpec
	columns []string
	index   map[string]int
}

// New builds a Schema from specs. Column order is the order of specs.
// Returns an error if a name repeats or a numeric field has no range.
func New(specs []FieldSpec) (*Schema, error) {
	s := &Schema{
		specs:   make([]FieldSpec, len(specs)),
		columns: make([]string, len(specs)),
		index:   make(map[string]int, len(specs)),
	}

	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := s.index[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", spec.Name)
		}
		if spec.Type == FieldNumeric && spec.Range == nil {
			return nil, fmt.Errorf("numeric field %q has no range", spec.Name)
		}
		if spec.Range != nil {
			r := *spec.Range
			if r.Lo > r.Hi {
				return nil, fmt.Errorf("field %q: range %v-%v is inverted", spec.Name, r.Lo, r.Hi)
			}
			spec.Range = &r
		}
		s.specs[i] = spec
		s.columns[i] = spec.Name
		s.index[spec.Name] = i
	}

	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(specs []FieldSpec) *Schema {
	s, err := New(specs)
	if err != nil {
		panic(fmt.Sprintf("invalid schema: %v", err))
	}
	return s
}

// Columns returns the required column names in canonical output order.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Has reports whether name is a required column.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Field returns the spec for name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return s.specs[i], true
}

// Ranged returns the specs that carry a numeric range, in column order.
func (s *Schema) Ranged() []FieldSpec {
	var out []FieldSpec
	for _, spec := range s.specs {
		if spec.Range != nil {
			out = append(out, spec)
		}
	}
	return out
}
