package expr

import (
	"fmt"
	"reflect"
)

// Param is a symbolic variable. Two parameters are the same variable only if
// they are the same pointer.
type Param struct {
	name string
	typ  reflect.Type
}

// Parameter creates a fresh symbolic variable of type t.
func Parameter(t reflect.Type, name string) *Param {
	return &Param{name: name, typ: t}
}

func (p *Param) Kind() NodeKind     { return KindParam }
func (p *Param) Type() reflect.Type { return p.typ }
func (p *Param) String() string     { return p.name }

// Name returns the variable name used in the textual form.
func (p *Param) Name() string { return p.name }

func (p *Param) compile(c *compiler) (eval, error) {
	if p != c.param {
		return nil, fmt.Errorf("%w: %s %s", ErrUnboundParameter, p.name, p.typ)
	}

	return func(arg reflect.Value) (reflect.Value, error) {
		return arg, nil
	}, nil
}
