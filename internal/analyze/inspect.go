package analyze

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var ErrNotStruct = errors.New("type is not a struct or pointer to struct")

// shapes caches inspected types; a Shape is never mutated after it is stored.
var shapes sync.Map // map[reflect.Type]*Shape

// Inspect returns the Shape of a struct or pointer-to-struct type.
func Inspect(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrNotStruct)
	}

	if cached, ok := shapes.Load(t); ok {
		return cached.(*Shape), nil
	}

	shape := &Shape{Type: t, Struct: t}
	if t.Kind() == reflect.Pointer {
		shape.Pointer = true
		shape.Struct = t.Elem()
	}

	if shape.Struct.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	shape.byName = make(map[string]int)

	for _, sf := range reflect.VisibleFields(shape.Struct) {
		if !sf.IsExported() || unreachable(shape.Struct, sf.Index) {
			continue
		}

		shape.byName[sf.Name] = len(shape.Fields)
		shape.Fields = append(shape.Fields, FieldDescriptor{
			Name:        sf.Name,
			Type:        sf.Type,
			IsValueType: IsValueType(sf.Type),
			Index:       sf.Index,
			Tag:         sf.Tag,
			Embedded:    sf.Anonymous,
		})
	}

	actual, _ := shapes.LoadOrStore(t, shape)

	return actual.(*Shape), nil
}

// MustInspect is like Inspect but panics on error.
func MustInspect(t reflect.Type) *Shape {
	s, err := Inspect(t)
	if err != nil {
		panic(err)
	}

	return s
}

// unreachable reports whether a promoted field is reached through an
// embedded pointer, which cannot be read or set without allocation, or
// through an unexported embedded struct, which reflection cannot set.
func unreachable(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer || !f.IsExported() {
			return true
		}

		t = f.Type
	}

	return false
}
