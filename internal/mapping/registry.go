package mapping

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"slices"
	"strings"
)

var (
	ErrUnknownType      = errors.New("unknown type")
	ErrAmbiguousType    = errors.New("ambiguous type name")
	ErrUnknownTransform = errors.New("unknown transform")
	ErrInvalidTransform = errors.New("invalid transform")
)

var errorType = reflect.TypeFor[error]()

// Registry holds the named types and transform functions a profile may
// refer to.
type Registry struct {
	types map[string]reflect.Type // full "import/path.Name" -> type
	funcs map[string]reflect.Value
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]reflect.Type),
		funcs: make(map[string]reflect.Value),
	}
}

// Register adds T to r.
func Register[T any](r *Registry) {
	r.AddType(reflect.TypeFor[T]())
}

// AddType adds a named type to the registry.
func (r *Registry) AddType(t reflect.Type) {
	r.types[t.PkgPath()+"."+t.Name()] = t
}

// AddFunc registers a transform function of shape func(args...) T or
// func(args...) (T, error).
func (r *Registry) AddFunc(name string, fn any) error {
	v := reflect.ValueOf(fn)
	if fn == nil || v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("%w: %s is not a function", ErrInvalidTransform, name)
	}

	ft := v.Type()

	switch {
	case ft.IsVariadic():
		return fmt.Errorf("%w: %s is variadic", ErrInvalidTransform, name)
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return fmt.Errorf("%w: %s must return T or (T, error)", ErrInvalidTransform, name)
	}

	r.funcs[name] = v

	return nil
}

// Func returns the transform registered under name.
func (r *Registry) Func(name string) (any, bool) {
	v, ok := r.funcs[name]
	if !ok {
		return nil, false
	}

	return v.Interface(), true
}

// FuncNames returns the sorted names of the registered transforms.
func (r *Registry) FuncNames() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// TypeNames returns the short "pkg.Name" identifiers of the registered types, sorted.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.types))
	for _, t := range r.types {
		names = append(names, shortName(t))
	}

	slices.Sort(names)

	return names
}

// Type resolves a type identifier:
//   - "expression-mapper/store.Order" (full)
//   - "store.Order" (short)
//   - "Order" (name only, when unique)
//
// A leading "*" resolves to the pointer type.
func (r *Registry) Type(id string) (reflect.Type, error) {
	if rest, ok := strings.CutPrefix(id, "*"); ok {
		t, err := r.Type(rest)
		if err != nil {
			return nil, err
		}

		return reflect.PointerTo(t), nil
	}

	if t, ok := r.types[id]; ok {
		return t, nil
	}

	var matches []reflect.Type

	for full, t := range r.types {
		if !strings.Contains(id, ".") {
			if t.Name() == id {
				matches = append(matches, t)
			}

			continue
		}

		if shortName(t) == id || strings.HasSuffix(full, "/"+id) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d types", ErrAmbiguousType, id, len(matches))
	}
}

func shortName(t reflect.Type) string {
	return path.Base(t.PkgPath()) + "." + t.Name()
}
