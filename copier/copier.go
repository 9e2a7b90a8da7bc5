// Package copier copies same-named fields between struct instances
// imperatively, without building a mapping expression.
package copier

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"expression-mapper/internal/analyze"
)

var ErrNilDestination = errors.New("destination must be a non-nil pointer to a struct")

// Copy copies every field of S to the same-named field of *dst when the
// source value is assignable to it. Fields named in skip and fields without
// an assignable counterpart are left untouched. Field sets are taken from the
// static types S and D.
func Copy[S, D any](src S, dst *D, skip ...string) error {
	if dst == nil {
		return ErrNilDestination
	}

	return copyFields(reflect.ValueOf(&src).Elem(), reflect.ValueOf(dst).Elem(), skip)
}

// CopyInstance is Copy for the dynamic types of src and dst. src is a struct
// or a pointer to one; dst must be a non-nil pointer to a struct.
func CopyInstance(src, dst any, skip ...string) error {
	d := reflect.ValueOf(dst)
	if d.Kind() != reflect.Pointer || d.IsNil() {
		return fmt.Errorf("%w: got %T", ErrNilDestination, dst)
	}

	return copyFields(reflect.ValueOf(src), d.Elem(), skip)
}

func copyFields(src, dst reflect.Value, skip []string) error {
	for src.Kind() == reflect.Pointer || src.Kind() == reflect.Interface {
		if src.IsNil() {
			return nil
		}

		src = src.Elem()
	}

	for dst.Kind() == reflect.Pointer || dst.Kind() == reflect.Interface {
		if dst.IsNil() {
			return ErrNilDestination
		}

		dst = dst.Elem()
	}

	if !src.IsValid() {
		return nil
	}

	srcShape, err := analyze.Inspect(src.Type())
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}

	dstShape, err := analyze.Inspect(dst.Type())
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	for _, sf := range srcShape.Fields {
		if slices.Contains(skip, sf.Name) {
			continue
		}

		df, ok := dstShape.Field(sf.Name)
		if !ok || !sf.Type.AssignableTo(df.Type) {
			continue
		}

		field := dst.FieldByIndex(df.Index)
		if !field.CanSet() {
			continue
		}

		field.Set(src.FieldByIndex(sf.Index))
	}

	return nil
}
