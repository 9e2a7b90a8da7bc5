package expr

import (
	"errors"
	"reflect"
)

//go:generate go tool stringer -type=NodeKind -output=nodekind_string.go

// NodeKind identifies the variant of an expression node.
type NodeKind int

const (
	_ NodeKind = iota

	KindParam
	KindField
	KindConvert
	KindConst
	KindCall
	KindNew
	KindMemberInit
	KindGuard
	KindLambda
)

var (
	ErrNoSuchField       = errors.New("no such field")
	ErrNotConvertible    = errors.New("type is not convertible")
	ErrNotAssignable     = errors.New("value is not assignable to field")
	ErrDuplicateBinding  = errors.New("duplicate binding")
	ErrNotAFunction      = errors.New("provided function is not a function")
	ErrNotCallable       = errors.New("function has an unsupported signature")
	ErrArgumentType      = errors.New("argument type mismatch")
	ErrNotRecord         = errors.New("constructor does not produce a struct or pointer to struct")
	ErrUnboundParameter  = errors.New("expression references a parameter other than the lambda's")
	ErrNilDereference    = errors.New("nil pointer dereference")
	ErrPanic             = errors.New("panic during evaluation")
	ErrNotSelector       = errors.New("expression is not a field selection")
	ErrTypeMismatch      = errors.New("expression types do not compose")
	ErrUnknownExpression = errors.New("unknown expression")
)

// Expr is a node of the expression tree.
type Expr interface {
	// Kind returns the node variant.
	Kind() NodeKind
	// Type returns the static type of the value the node evaluates to.
	Type() reflect.Type
	// String returns the Go-like textual form of the node.
	String() string

	compile(c *compiler) (eval, error)
}

// eval evaluates a compiled node against the lambda argument.
type eval func(arg reflect.Value) (reflect.Value, error)

type compiler struct {
	param *Param
}
