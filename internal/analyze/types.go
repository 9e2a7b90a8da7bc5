package analyze

import (
	"reflect"
)

// FieldDescriptor describes one exported field of a record type.
type FieldDescriptor struct {
	Name        string            // Go field name
	Type        reflect.Type      // Declared type
	IsValueType bool              // Whether assignments are wrapped in an explicit conversion
	Index       []int             // Index path for reflect.Value.FieldByIndex
	Tag         reflect.StructTag // Raw struct tag
	Embedded    bool              // Whether the field is embedded (anonymous)
}

// Promoted returns true if the field is promoted from an embedded struct.
func (f FieldDescriptor) Promoted() bool {
	return len(f.Index) > 1
}

// Column returns the `db` tag name if present, otherwise the field name.
func (f FieldDescriptor) Column() string {
	if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
		for i := range len(tag) {
			if tag[i] == ',' {
				return tag[:i]
			}
		}

		return tag
	}

	return f.Name
}

// Shape is the reflected layout of a record type.
type Shape struct {
	Type    reflect.Type // Requested type, struct or pointer to struct
	Struct  reflect.Type // Struct type behind Type
	Pointer bool         // True if Type is a pointer to Struct
	Fields  []FieldDescriptor

	byName map[string]int
}

// Field returns the descriptor of the exported field with the given name.
// Matching is exact and case-sensitive.
func (s *Shape) Field(name string) (FieldDescriptor, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldDescriptor{}, false
	}

	return s.Fields[i], true
}

// Names returns the field names in declaration order.
func (s *Shape) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}

	return names
}

// New returns a freshly allocated zero instance of s.Type whose fields are settable.
func (s *Shape) New() reflect.Value {
	if s.Pointer {
		return reflect.New(s.Struct)
	}

	return reflect.New(s.Struct).Elem()
}

// IsValueType reports whether t is copied by value and needs an explicit
// conversion to be well-typed: numbers, booleans, complex numbers, named
// basic types (enums), structs and arrays. Plain strings and reference kinds
// are passed through.
func IsValueType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Struct, reflect.Array:
		return true
	case reflect.String:
		return t.PkgPath() != ""
	default:
		return false
	}
}
