package expr

import (
	"fmt"
	"reflect"
	"strings"

	"expression-mapper/internal/analyze"
)

// New constructs a record: either the zero value of a struct (or a freshly
// allocated pointer to one), or the result of a constructor function.
type New struct {
	shape *analyze.Shape
	ctor  *Call
}

// NewOf builds the parameterless construction of t, a struct or pointer to struct.
func NewOf(t reflect.Type) (*New, error) {
	shape, err := analyze.Inspect(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotRecord, err)
	}

	return &New{shape: shape}, nil
}

// Construct builds a call to a constructor function returning a struct or a
// pointer to a struct, optionally with an error.
func Construct(name string, ctor any, args ...Expr) (*New, error) {
	call, err := CallFunc(name, ctor, args...)
	if err != nil {
		return nil, err
	}

	shape, err := analyze.Inspect(call.Type())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotRecord, name, err)
	}

	return &New{shape: shape, ctor: call}, nil
}

func (n *New) Kind() NodeKind     { return KindNew }
func (n *New) Type() reflect.Type { return n.shape.Type }

func (n *New) String() string {
	if n.ctor != nil {
		return n.ctor.String()
	}

	if n.shape.Pointer {
		return "&" + n.shape.Struct.String() + "{}"
	}

	return n.shape.Struct.String() + "{}"
}

// Constructor returns the constructor call, or nil for zero construction.
func (n *New) Constructor() *Call { return n.ctor }

func (n *New) compile(c *compiler) (eval, error) {
	shape := n.shape
	if n.ctor == nil {
		return func(reflect.Value) (reflect.Value, error) {
			return shape.New(), nil
		}, nil
	}

	ctor, err := n.ctor.compile(c)
	if err != nil {
		return nil, err
	}

	text := n.ctor.String()

	return func(arg reflect.Value) (reflect.Value, error) {
		v, err := ctor(arg)
		if err != nil {
			return reflect.Value{}, err
		}

		if shape.Pointer {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: %s returned nil", ErrNilDereference, text)
			}

			return v, nil
		}

		// copy into an addressable value so bindings can be set
		out := shape.New()
		out.Set(v)

		return out, nil
	}, nil
}

// Binding assigns the value of an expression to a destination field.
type Binding struct {
	Name  string
	Value Expr

	field analyze.FieldDescriptor
}

// Bind pairs a destination field name with a value; the field is resolved by Init.
func Bind(name string, value Expr) Binding {
	return Binding{Name: name, Value: value}
}

// FieldType returns the declared type of the destination field, once resolved by Init.
func (b Binding) FieldType() reflect.Type { return b.field.Type }

// Column returns the storage column of the destination field, taken from the
// `db` tag if present.
func (b Binding) Column() string { return b.field.Column() }

// MemberInit is a construction followed by field assignments, keyed by field name.
type MemberInit struct {
	newExpr  *New
	bindings []Binding
	byName   map[string]int
}

// Init attaches bindings to a construction. Every binding must name a
// distinct exported field of the constructed type and carry a value
// assignable to that field.
func Init(n *New, bindings ...Binding) (*MemberInit, error) {
	m := &MemberInit{
		newExpr:  n,
		bindings: make([]Binding, 0, len(bindings)),
		byName:   make(map[string]int, len(bindings)),
	}

	for _, b := range bindings {
		if _, dup := m.byName[b.Name]; dup {
			return nil, fmt.Errorf("%w: field %q", ErrDuplicateBinding, b.Name)
		}

		desc, ok := n.shape.Field(b.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no exported field %q", ErrNoSuchField, n.shape.Type, b.Name)
		}

		if b.Value == nil || !b.Value.Type().AssignableTo(desc.Type) {
			return nil, fmt.Errorf("%w: %s = %v for field of type %s", ErrNotAssignable, b.Name, b.Value, desc.Type)
		}

		b.field = desc
		m.byName[b.Name] = len(m.bindings)
		m.bindings = append(m.bindings, b)
	}

	return m, nil
}

func (m *MemberInit) Kind() NodeKind     { return KindMemberInit }
func (m *MemberInit) Type() reflect.Type { return m.newExpr.Type() }

func (m *MemberInit) String() string {
	parts := make([]string, 0, len(m.bindings))
	for _, b := range m.bindings {
		parts = append(parts, b.Name+": "+b.Value.String())
	}

	head := m.newExpr.String()
	if m.newExpr.ctor == nil {
		head = strings.TrimSuffix(head, "{}")
	}

	return head + "{" + strings.Join(parts, ", ") + "}"
}

// Constructor returns the construction the bindings are applied to.
func (m *MemberInit) Constructor() *New { return m.newExpr }

// Bindings returns a copy of the bindings in order.
func (m *MemberInit) Bindings() []Binding { return append([]Binding(nil), m.bindings...) }

// Binding returns the binding for a field name.
func (m *MemberInit) Binding(name string) (Binding, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Binding{}, false
	}

	return m.bindings[i], true
}

func (m *MemberInit) compile(c *compiler) (eval, error) {
	construct, err := m.newExpr.compile(c)
	if err != nil {
		return nil, err
	}

	type setter struct {
		index []int
		value eval
	}

	setters := make([]setter, 0, len(m.bindings))

	for _, b := range m.bindings {
		ev, err := b.Value.compile(c)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.Name, err)
		}

		setters = append(setters, setter{index: b.field.Index, value: ev})
	}

	pointer := m.newExpr.shape.Pointer

	return func(arg reflect.Value) (reflect.Value, error) {
		out, err := construct(arg)
		if err != nil {
			return reflect.Value{}, err
		}

		target := out
		if pointer {
			target = out.Elem()
		}

		for _, s := range setters {
			v, err := s.value(arg)
			if err != nil {
				return reflect.Value{}, err
			}

			field := target.FieldByIndex(s.index)
			if v.IsValid() {
				field.Set(v)
			} else {
				field.SetZero()
			}
		}

		return out, nil
	}, nil
}
