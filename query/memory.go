package query

import (
	"fmt"
	"iter"
	"reflect"

	"expression-mapper/expr"
)

// Memory is an in-process Queryable. Projections are compiled once and
// applied lazily while the sequence is pulled.
type Memory struct {
	elem reflect.Type
	seq  iter.Seq2[reflect.Value, error]
}

// FromSlice returns a Memory over the elements of items.
func FromSlice[T any](items []T) *Memory {
	return FromSeq(func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	})
}

// FromSeq returns a Memory over seq. The Memory can be iterated again only
// if seq can.
func FromSeq[T any](seq iter.Seq[T]) *Memory {
	return &Memory{
		elem: reflect.TypeFor[T](),
		seq: func(yield func(reflect.Value, error) bool) {
			for item := range seq {
				if !yield(reflect.ValueOf(&item).Elem(), nil) {
					return
				}
			}
		},
	}
}

func (m *Memory) ElemType() reflect.Type { return m.elem }

// Select compiles the projection and returns a Memory applying it to every element.
func (m *Memory) Select(projection *expr.Lambda) (Queryable, error) {
	if err := checkParam(m, projection); err != nil {
		return nil, err
	}

	fn, err := projection.Compile()
	if err != nil {
		return nil, err
	}

	upstream := m.seq

	return &Memory{
		elem: projection.Body().Type(),
		seq: func(yield func(reflect.Value, error) bool) {
			for v, err := range upstream {
				if err == nil {
					v, err = fn(v)
				}

				if !yield(v, err) {
					return
				}
			}
		},
	}, nil
}

// Values returns the raw element sequence.
func (m *Memory) Values() iter.Seq2[reflect.Value, error] { return m.seq }

// All returns the elements of q as T. q must be a *Memory producing T.
func All[T any](q Queryable) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		m, ok := q.(*Memory)
		if !ok || m.elem != reflect.TypeFor[T]() {
			yield(zero, fmt.Errorf("%w: %T of %s is not an in-memory sequence of %s", ErrTypeMismatch, q, q.ElemType(), reflect.TypeFor[T]()))
			return
		}

		for v, err := range m.seq {
			if err != nil {
				if !yield(zero, err) {
					return
				}

				continue
			}

			if !yield(v.Interface().(T), nil) {
				return
			}
		}
	}
}

// Collect materializes q, stopping at the first element that fails.
func Collect[T any](q Queryable) ([]T, error) {
	var out []T

	for v, err := range All[T](q) {
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}
