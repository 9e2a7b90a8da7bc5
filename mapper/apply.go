package mapper

import (
	"context"
	"fmt"
	"iter"
	"reflect"

	"golang.org/x/sync/errgroup"
)

// Compile synthesizes and compiles the mapping from S to D. The result is
// cached in the package cache.
func Compile[S, D any](opts ...Option) (func(S) (D, error), error) {
	return compileIn[S, D](defaultCache, opts)
}

// CompileIn is Compile with an explicit cache.
func CompileIn[S, D any](cache *Cache, opts ...Option) (func(S) (D, error), error) {
	return compileIn[S, D](cache, opts)
}

func compileIn[S, D any](cache *Cache, opts []Option) (func(S) (D, error), error) {
	c, err := cache.Get(reflect.TypeFor[S](), reflect.TypeFor[D](), opts...)
	if err != nil {
		return nil, err
	}

	fn := c.Func

	return func(src S) (D, error) {
		var zero D

		out, err := fn(reflect.ValueOf(&src).Elem())
		if err != nil {
			return zero, err
		}

		return out.Interface().(D), nil
	}, nil
}

// isolated forces fault isolation on top of the caller's options.
func isolated(opts []Option) []Option {
	return append(append([]Option(nil), opts...), WithFaultIsolation())
}

// Map maps one source value with fault isolation.
func Map[S, D any](src S, opts ...Option) (D, error) {
	fn, err := compileIn[S, D](defaultCache, isolated(opts))
	if err != nil {
		var zero D
		return zero, err
	}

	return fn(src)
}

// MapInto maps one source value with fault isolation and stores the result
// in dst. dst is left untouched on failure.
func MapInto[S, D any](src S, dst *D, opts ...Option) error {
	if dst == nil {
		return ErrNilDestination
	}

	out, err := Map[S, D](src, opts...)
	if err != nil {
		return err
	}

	*dst = out

	return nil
}

// MapSeq lazily maps every element of seq with fault isolation. An element
// that fails is yielded with its error and the consumer decides whether to
// keep pulling. A synthesis failure is yielded once, before any element.
func MapSeq[S, D any](seq iter.Seq[S], opts ...Option) iter.Seq2[D, error] {
	fn, err := compileIn[S, D](defaultCache, isolated(opts))

	return func(yield func(D, error) bool) {
		if err != nil {
			var zero D

			yield(zero, err)

			return
		}

		for src := range seq {
			if !yield(fn(src)) {
				return
			}
		}
	}
}

// MapSlice maps a whole slice with fault isolation, running at most limit
// mappings at a time (no limit when limit <= 0). The first failing element
// aborts the batch.
func MapSlice[S, D any](ctx context.Context, src []S, limit int, opts ...Option) ([]D, error) {
	fn, err := compileIn[S, D](defaultCache, isolated(opts))
	if err != nil {
		return nil, err
	}

	out := make([]D, len(src))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, s := range src {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			d, err := fn(s)
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}

			out[i] = d

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
