package mapper

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrInvalidTemplateShape = errors.New("template must be a constructor call with optional field bindings")
	ErrMissingTemplate      = errors.New("template-only mapping requested without a template")
	ErrTypeMismatch         = errors.New("mapping does not produce the requested types")
	ErrNilDestination       = errors.New("nil destination")
)

// BindingError reports a failure to build the binding of one destination
// field. It aborts the whole synthesis.
type BindingError struct {
	Field     string
	FieldType reflect.Type
	Err       error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("binding field %s of type %s: %v", e.Field, e.FieldType, e.Err)
}

func (e *BindingError) Unwrap() error { return e.Err }
