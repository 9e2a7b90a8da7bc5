package expr

import (
	"fmt"
	"reflect"

	"expression-mapper/internal/analyze"
)

// Field reads an exported field off its target. Pointer targets are
// dereferenced; a nil pointer is a runtime fault.
type Field struct {
	target Expr
	desc   analyze.FieldDescriptor
}

// FieldOf builds target.name. The target must evaluate to a struct or a
// pointer to a struct that has an exported field with exactly that name.
func FieldOf(target Expr, name string) (*Field, error) {
	shape, err := analyze.Inspect(target.Type())
	if err != nil {
		return nil, fmt.Errorf("selecting %q from %s: %w", name, target, err)
	}

	desc, ok := shape.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no exported field %q", ErrNoSuchField, target.Type(), name)
	}

	return &Field{target: target, desc: desc}, nil
}

func (f *Field) Kind() NodeKind     { return KindField }
func (f *Field) Type() reflect.Type { return f.desc.Type }
func (f *Field) String() string     { return f.target.String() + "." + f.desc.Name }

// Target returns the expression the field is read from.
func (f *Field) Target() Expr { return f.target }

// Name returns the field name.
func (f *Field) Name() string { return f.desc.Name }

// Column returns the storage column name, taken from the `db` tag if present.
func (f *Field) Column() string { return f.desc.Column() }

func (f *Field) compile(c *compiler) (eval, error) {
	target, err := f.target.compile(c)
	if err != nil {
		return nil, err
	}

	index := f.desc.Index
	text := f.String()

	return func(arg reflect.Value) (reflect.Value, error) {
		v, err := target(arg)
		if err != nil {
			return reflect.Value{}, err
		}

		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: reading %s", ErrNilDereference, text)
			}

			v = v.Elem()
		}

		return v.FieldByIndex(index), nil
	}, nil
}
