package expr

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var errorType = reflect.TypeFor[error]()

// Const is a literal value.
type Const struct {
	value reflect.Value
}

// Constant wraps v; v must not be an untyped nil (use TypedConstant).
func Constant(v any) *Const {
	if v == nil {
		panic("expr: Constant of untyped nil, use TypedConstant")
	}

	return &Const{value: reflect.ValueOf(v)}
}

// TypedConstant wraps v as a value of type t, which allows typed nils.
func TypedConstant(v any, t reflect.Type) (*Const, error) {
	if v == nil {
		return &Const{value: reflect.Zero(t)}, nil
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return nil, fmt.Errorf("%w: constant of type %s as %s", ErrNotAssignable, rv.Type(), t)
	}

	out := reflect.New(t).Elem()
	out.Set(rv)

	return &Const{value: out}, nil
}

func (c *Const) Kind() NodeKind     { return KindConst }
func (c *Const) Type() reflect.Type { return c.value.Type() }

func (c *Const) String() string {
	if c.value.Kind() == reflect.String {
		return strconv.Quote(c.value.String())
	}

	if c.value.Kind() == reflect.Pointer && c.value.IsNil() {
		return "nil"
	}

	return fmt.Sprintf("%v", c.value.Interface())
}

// Value returns the literal.
func (c *Const) Value() any { return c.value.Interface() }

func (c *Const) compile(*compiler) (eval, error) {
	v := c.value

	return func(reflect.Value) (reflect.Value, error) {
		return v, nil
	}, nil
}

// Call invokes a named Go function over argument expressions.
//
// Supports functions:
//   - func(args...) T
//   - func(args...) (T, error)
//
// A returned error is a runtime fault; so is a panic, which is only recovered
// when the call sits inside a Guard.
type Call struct {
	name   string
	fn     reflect.Value
	args   []Expr
	hasErr bool
}

// CallFunc builds name(args...). The name is used for the textual form and
// by query translators as the function name.
func CallFunc(name string, fn any, args ...Expr) (*Call, error) {
	fnVal := reflect.ValueOf(fn)
	if fn == nil || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFunction, name)
	}

	fnType := fnVal.Type()
	if fnType.IsVariadic() || fnType.NumIn() != len(args) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrNotCallable, name, fnType.NumIn(), len(args))
	}

	call := &Call{name: name, fn: fnVal, args: append([]Expr(nil), args...)}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return nil, fmt.Errorf("%w: %s second result must be error", ErrNotCallable, name)
		}

		call.hasErr = true
	default:
		return nil, fmt.Errorf("%w: %s must return T or (T, error)", ErrNotCallable, name)
	}

	for i, arg := range args {
		if !arg.Type().AssignableTo(fnType.In(i)) {
			return nil, fmt.Errorf("%w: %s argument %d is %s, want %s", ErrArgumentType, name, i, arg.Type(), fnType.In(i))
		}
	}

	return call, nil
}

func (c *Call) Kind() NodeKind     { return KindCall }
func (c *Call) Type() reflect.Type { return c.fn.Type().Out(0) }

func (c *Call) String() string {
	args := make([]string, 0, len(c.args))
	for _, a := range c.args {
		args = append(args, a.String())
	}

	return c.name + "(" + strings.Join(args, ", ") + ")"
}

// Name returns the function name.
func (c *Call) Name() string { return c.name }

// Args returns a copy of the argument expressions.
func (c *Call) Args() []Expr { return append([]Expr(nil), c.args...) }

func (c *Call) compile(comp *compiler) (eval, error) {
	args := make([]eval, 0, len(c.args))

	for _, a := range c.args {
		ev, err := a.compile(comp)
		if err != nil {
			return nil, err
		}

		args = append(args, ev)
	}

	fn, name, hasErr := c.fn, c.name, c.hasErr
	in := make([]reflect.Type, len(args))

	for i := range in {
		in[i] = c.fn.Type().In(i)
	}

	return func(arg reflect.Value) (reflect.Value, error) {
		values := make([]reflect.Value, len(args))

		for i, ev := range args {
			v, err := ev(arg)
			if err != nil {
				return reflect.Value{}, err
			}

			// nil interface results would make Call panic
			if !v.IsValid() {
				v = reflect.Zero(in[i])
			}

			values[i] = v
		}

		out := fn.Call(values)
		if hasErr && !out[1].IsNil() {
			return reflect.Value{}, fmt.Errorf("%s: %w", name, out[1].Interface().(error))
		}

		return out[0], nil
	}, nil
}
