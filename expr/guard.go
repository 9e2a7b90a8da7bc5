package expr

import (
	"fmt"
	"reflect"
)

// FieldFault is the error produced by a Guard when evaluating a binding
// value fails, either with an error or a panic.
type FieldFault struct {
	Field     string       // Destination field name
	FieldType reflect.Type // Destination field type
	Expr      string       // Textual form of the failing expression
	Err       error        // Cause
}

func (f *FieldFault) Error() string {
	return fmt.Sprintf("evaluating %s for field %s of type %s: %v", f.Expr, f.Field, f.FieldType, f.Err)
}

func (f *FieldFault) Unwrap() error { return f.Err }

// Guard isolates faults of the wrapped binding value: any error or panic is
// reported as a *FieldFault naming the destination field.
type Guard struct {
	operand   Expr
	field     string
	fieldType reflect.Type
}

// Guarded wraps e, the value bound to field of type fieldType.
func Guarded(e Expr, field string, fieldType reflect.Type) *Guard {
	return &Guard{operand: e, field: field, fieldType: fieldType}
}

func (g *Guard) Kind() NodeKind     { return KindGuard }
func (g *Guard) Type() reflect.Type { return g.operand.Type() }
func (g *Guard) String() string     { return "guard(" + g.operand.String() + ")" }

// Operand returns the guarded expression.
func (g *Guard) Operand() Expr { return g.operand }

// Field returns the destination field name.
func (g *Guard) Field() string { return g.field }

// FieldType returns the destination field type.
func (g *Guard) FieldType() reflect.Type { return g.fieldType }

func (g *Guard) compile(c *compiler) (eval, error) {
	operand, err := g.operand.compile(c)
	if err != nil {
		return nil, err
	}

	fault := func(cause error) *FieldFault {
		return &FieldFault{
			Field:     g.field,
			FieldType: g.fieldType,
			Expr:      g.operand.String(),
			Err:       cause,
		}
	}

	return func(arg reflect.Value) (out reflect.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				out = reflect.Value{}
				err = fault(panicError(r))
			}
		}()

		v, err := operand(arg)
		if err != nil {
			return reflect.Value{}, fault(err)
		}

		return v, nil
	}, nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanic, err)
	}

	return fmt.Errorf("%w: %v", ErrPanic, r)
}
