package query

import (
	"errors"
	"fmt"
	"reflect"

	"expression-mapper/expr"
)

var (
	ErrTypeMismatch   = errors.New("projection parameter does not match element type")
	ErrUntranslatable = errors.New("expression cannot be translated to SQL")
)

// Queryable is a source of elements that accepts projections.
type Queryable interface {
	// ElemType returns the type of the elements produced.
	ElemType() reflect.Type
	// Select returns a new Queryable producing the projection of every element.
	Select(projection *expr.Lambda) (Queryable, error)
}

func checkParam(q Queryable, projection *expr.Lambda) error {
	if projection == nil {
		return fmt.Errorf("%w: nil projection", ErrTypeMismatch)
	}

	if got := projection.Param().Type(); got != q.ElemType() {
		return fmt.Errorf("%w: projection takes %s, elements are %s", ErrTypeMismatch, got, q.ElemType())
	}

	return nil
}
