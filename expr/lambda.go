package expr

import (
	"fmt"
	"reflect"
)

// Func is a compiled lambda.
type Func func(arg reflect.Value) (reflect.Value, error)

// Lambda is a one-parameter function expression.
type Lambda struct {
	param *Param
	body  Expr
}

// NewLambda builds p => body.
func NewLambda(p *Param, body Expr) *Lambda {
	return &Lambda{param: p, body: body}
}

func (l *Lambda) Kind() NodeKind { return KindLambda }

// Type returns func(P) B.
func (l *Lambda) Type() reflect.Type {
	return reflect.FuncOf([]reflect.Type{l.param.typ}, []reflect.Type{l.body.Type()}, false)
}

func (l *Lambda) String() string {
	return fmt.Sprintf("func(%s %s) %s { return %s }", l.param.name, l.param.typ, l.body.Type(), l.body)
}

// Param returns the lambda's parameter.
func (l *Lambda) Param() *Param { return l.param }

// Body returns the lambda's body.
func (l *Lambda) Body() Expr { return l.body }

// Compile turns the lambda into a closure. The body must only reference the
// lambda's own parameter. The closure rejects arguments whose type is not
// assignable to the parameter type.
func (l *Lambda) Compile() (Func, error) {
	body, err := l.body.compile(&compiler{param: l.param})
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", l.param.name, err)
	}

	in := l.param.typ

	return func(arg reflect.Value) (reflect.Value, error) {
		if !arg.IsValid() || !arg.Type().AssignableTo(in) {
			return reflect.Value{}, fmt.Errorf("%w: argument of type %v, want %s", ErrArgumentType, typeOf(arg), in)
		}

		return body(arg)
	}, nil
}

func (l *Lambda) compile(*compiler) (eval, error) {
	return nil, fmt.Errorf("%w: nested lambda", ErrUnknownExpression)
}

func typeOf(v reflect.Value) any {
	if !v.IsValid() {
		return "<invalid>"
	}

	return v.Type()
}
