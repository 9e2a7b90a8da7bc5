package expr

import (
	"fmt"
)

// Children returns the direct sub-expressions of e in evaluation order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *Field:
		return []Expr{n.target}
	case *Convert:
		return []Expr{n.operand}
	case *Call:
		return n.Args()
	case *New:
		if n.ctor != nil {
			return []Expr{n.ctor}
		}

		return nil
	case *MemberInit:
		out := make([]Expr, 0, len(n.bindings)+1)
		out = append(out, n.newExpr)

		for _, b := range n.bindings {
			out = append(out, b.Value)
		}

		return out
	case *Guard:
		return []Expr{n.operand}
	case *Lambda:
		return []Expr{n.param, n.body}
	default:
		return nil
	}
}

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	for _, child := range Children(e) {
		Walk(child, fn)
	}
}

// Rewrite rebuilds e. fn is offered every node before its children: a
// non-nil result replaces the node as a whole, nil means the node is kept and
// rebuilt from its rewritten children. Rebuilding goes through the regular
// constructors, so a replacement that breaks typing is reported as an error.
func Rewrite(e Expr, fn func(Expr) (Expr, error)) (Expr, error) {
	replaced, err := fn(e)
	if err != nil {
		return nil, err
	}

	if replaced != nil {
		return replaced, nil
	}

	switch n := e.(type) {
	case *Param, *Const:
		return e, nil
	case *Field:
		target, err := Rewrite(n.target, fn)
		if err != nil || target == n.target {
			return n, err
		}

		return FieldOf(target, n.desc.Name)
	case *Convert:
		operand, err := Rewrite(n.operand, fn)
		if err != nil || operand == n.operand {
			return n, err
		}

		return ConvertWith(operand, n.to, n.allowed)
	case *Call:
		return rewriteCall(n, fn)
	case *New:
		if n.ctor == nil {
			return n, nil
		}

		call, err := rewriteCall(n.ctor, fn)
		if err != nil || call == n.ctor {
			return n, err
		}

		return &New{shape: n.shape, ctor: call}, nil
	case *MemberInit:
		return rewriteMemberInit(n, fn)
	case *Guard:
		operand, err := Rewrite(n.operand, fn)
		if err != nil || operand == n.operand {
			return n, err
		}

		return Guarded(operand, n.field, n.fieldType), nil
	case *Lambda:
		body, err := Rewrite(n.body, fn)
		if err != nil || body == n.body {
			return n, err
		}

		return NewLambda(n.param, body), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownExpression, e)
	}
}

func rewriteCall(n *Call, fn func(Expr) (Expr, error)) (*Call, error) {
	args := make([]Expr, len(n.args))
	changed := false

	for i, a := range n.args {
		r, err := Rewrite(a, fn)
		if err != nil {
			return nil, err
		}

		args[i] = r
		changed = changed || r != a
	}

	if !changed {
		return n, nil
	}

	return CallFunc(n.name, n.fn.Interface(), args...)
}

func rewriteMemberInit(n *MemberInit, fn func(Expr) (Expr, error)) (Expr, error) {
	rebuilt, err := Rewrite(n.newExpr, fn)
	if err != nil {
		return nil, err
	}

	newExpr, ok := rebuilt.(*New)
	if !ok {
		return nil, fmt.Errorf("%w: constructor rewritten to %s", ErrTypeMismatch, rebuilt)
	}

	changed := newExpr != n.newExpr
	bindings := make([]Binding, len(n.bindings))

	for i, b := range n.bindings {
		value, err := Rewrite(b.Value, fn)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.Name, err)
		}

		bindings[i] = Bind(b.Name, value)
		changed = changed || value != b.Value
	}

	if !changed {
		return n, nil
	}

	return Init(newExpr, bindings...)
}

// Inline composes inner (S => M) and outer (M => D) into a single S => D
// lambda over inner's parameter. Reads of outer's parameter fields are
// replaced by the expression inner binds to that field when there is one,
// by the zero value when inner constructs M without binding it, and by a
// read off inner's body otherwise.
func Inline(outer, inner *Lambda) (*Lambda, error) {
	if outer.param.typ != inner.body.Type() {
		return nil, fmt.Errorf("%w: %s does not accept %s", ErrTypeMismatch, outer.Type(), inner.body.Type())
	}

	init, _ := inner.body.(*MemberInit)
	zero := isZeroConstruction(inner.body)

	body, err := Rewrite(outer.body, func(e Expr) (Expr, error) {
		switch n := e.(type) {
		case *Param:
			if n == outer.param {
				return inner.body, nil
			}
		case *Field:
			if n.target != outer.param {
				return nil, nil
			}

			if init != nil {
				if b, ok := init.Binding(n.desc.Name); ok {
					if b.Value.Type() == n.desc.Type {
						return b.Value, nil
					}

					return ConvertTo(b.Value, n.desc.Type)
				}
			}

			if zero {
				return TypedConstant(nil, n.desc.Type)
			}

			return FieldOf(inner.body, n.desc.Name)
		}

		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return NewLambda(inner.param, body), nil
}

func isZeroConstruction(e Expr) bool {
	switch n := e.(type) {
	case *New:
		return n.ctor == nil
	case *MemberInit:
		return n.newExpr.ctor == nil
	default:
		return false
	}
}
