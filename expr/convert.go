package expr

import (
	"fmt"
	"reflect"

	"expression-mapper/internal/match"
	"expression-mapper/primitive"
)

type convertMode int

const (
	convertIdentity convertMode = iota
	convertAssign
	convertNumeric
	convertNative
)

// Convert is an explicit conversion of its operand to another type.
type Convert struct {
	operand Expr
	to      reflect.Type
	allowed primitive.CategoryEnum
	mode    convertMode
	numeric primitive.ConvertFunc
}

// ConvertTo converts e to type to, allowing every numeric conversion category.
func ConvertTo(e Expr, to reflect.Type) (*Convert, error) {
	return ConvertWith(e, to, primitive.CategoryAll)
}

// ConvertWith converts e to type to. Numeric conversions must belong to one
// of the allowed categories; non-numeric conversions are accepted only between
// an enum and its base type (see match.ScoreTypeCompatibility).
func ConvertWith(e Expr, to reflect.Type, allowed primitive.CategoryEnum) (*Convert, error) {
	from := e.Type()
	c := &Convert{operand: e, to: to, allowed: allowed}

	compat := match.ScoreTypeCompatibility(from, to, allowed)

	switch {
	case compat.Compatibility == match.TypeIdentical:
		c.mode = convertIdentity
	case compat.Compatibility == match.TypeAssignable:
		c.mode = convertAssign
	case compat.Compatibility == match.TypeConvertible && compat.Numeric:
		fn, err := primitive.Converter(from, to, allowed)
		if err != nil {
			return nil, err
		}

		c.mode = convertNumeric
		c.numeric = fn
	case compat.Compatibility == match.TypeConvertible:
		c.mode = convertNative
	default:
		return nil, fmt.Errorf("%w: %s to %s (%s)", ErrNotConvertible, from, to, compat.Reason)
	}

	return c, nil
}

func (c *Convert) Kind() NodeKind     { return KindConvert }
func (c *Convert) Type() reflect.Type { return c.to }
func (c *Convert) String() string     { return c.to.String() + "(" + c.operand.String() + ")" }

// Operand returns the converted expression.
func (c *Convert) Operand() Expr { return c.operand }

// Identity reports whether the operand already has the destination type.
func (c *Convert) Identity() bool { return c.mode == convertIdentity }

func (c *Convert) compile(comp *compiler) (eval, error) {
	operand, err := c.operand.compile(comp)
	if err != nil {
		return nil, err
	}

	to := c.to

	switch c.mode {
	case convertIdentity:
		return operand, nil
	case convertAssign:
		return func(arg reflect.Value) (reflect.Value, error) {
			v, err := operand(arg)
			if err != nil {
				return reflect.Value{}, err
			}

			out := reflect.New(to).Elem()
			out.Set(v)

			return out, nil
		}, nil
	case convertNumeric:
		numeric := c.numeric

		return func(arg reflect.Value) (reflect.Value, error) {
			v, err := operand(arg)
			if err != nil {
				return reflect.Value{}, err
			}

			return numeric(v)
		}, nil
	default:
		return func(arg reflect.Value) (reflect.Value, error) {
			v, err := operand(arg)
			if err != nil {
				return reflect.Value{}, err
			}

			return v.Convert(to), nil
		}, nil
	}
}
