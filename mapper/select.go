package mapper

import (
	"fmt"
	"reflect"

	"expression-mapper/query"
)

// Select synthesizes the mapping from S to D and hands it, uncompiled, to q.
// Fault isolation is not forced: the consumer decides how to evaluate the
// expression.
func Select[S, D any](q query.Queryable, opts ...Option) (query.Queryable, error) {
	return Project(q, reflect.TypeFor[S](), reflect.TypeFor[D](), opts...)
}

// Project is Select for reflected types.
func Project(q query.Queryable, source, dest reflect.Type, opts ...Option) (query.Queryable, error) {
	if q.ElemType() != source {
		return nil, fmt.Errorf("%w: queryable produces %s, mapping reads %s", ErrTypeMismatch, q.ElemType(), source)
	}

	l, err := Synthesize(source, dest, opts...)
	if err != nil {
		return nil, err
	}

	return q.Select(l)
}
