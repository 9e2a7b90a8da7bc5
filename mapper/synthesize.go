package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"expression-mapper/expr"
	"expression-mapper/internal/analyze"
	"expression-mapper/internal/match"
)

// Synthesize builds the mapping expression from source to dest.
//
// Without a template the result constructs the zero value of dest over a
// fresh parameter of type source. With a template, its parameter and
// constructor are reused and its bindings are kept unless excluded. Every
// remaining destination field, in declaration order, is bound to the
// same-named source field when the types are compatible: identical,
// assignable, or convertible through an allowed numeric conversion or
// between an enum and its base type. Value-type destination fields always receive an explicit
// conversion.
func Synthesize(source, dest reflect.Type, opts ...Option) (*expr.Lambda, error) {
	return synthesize(source, dest, newConfig(opts), nil)
}

// Expression is Synthesize for static types.
func Expression[S, D any](opts ...Option) (*expr.Lambda, error) {
	return Synthesize(reflect.TypeFor[S](), reflect.TypeFor[D](), opts...)
}

func synthesize(source, dest reflect.Type, cfg *config, rec *recorder) (*expr.Lambda, error) {
	ctx := context.Background()
	log := cfg.logger.With(slog.String("source", typeName(source)), slog.String("dest", typeName(dest)))

	if cfg.templateOnly {
		if cfg.template == nil {
			return nil, ErrMissingTemplate
		}

		rec.templateOnly(cfg.template)
		log.DebugContext(ctx, "returning template unchanged", slog.String("template", cfg.template.String()))

		return cfg.template, nil
	}

	srcShape, err := analyze.Inspect(source)
	if err != nil {
		return nil, fmt.Errorf("source type: %w", err)
	}

	dstShape, err := analyze.Inspect(dest)
	if err != nil {
		return nil, fmt.Errorf("destination type: %w", err)
	}

	param, ctor, templateBindings, err := base(source, dest, cfg.template)
	if err != nil {
		return nil, err
	}

	set := newBindingSet(len(dstShape.Fields))

	for _, b := range templateBindings {
		if cfg.excluded(b.Name) {
			rec.templateDropped(b)
			log.DebugContext(ctx, "dropping excluded template binding", slog.String("field", b.Name))

			continue
		}

		set.set(b.Name, binding{value: b.Value, origin: fromTemplate})
	}

	for _, field := range dstShape.Fields {
		if cfg.excluded(field.Name) {
			rec.excluded(field)
			continue
		}

		if b, ok := set.get(field.Name); ok && b.origin == fromTemplate {
			rec.templateKept(field, b.value)
			log.DebugContext(ctx, "keeping template binding", slog.String("field", field.Name), slog.String("value", b.value.String()))

			continue
		}

		value, found, err := bindField(param, srcShape, field, cfg, rec)
		if err != nil {
			return nil, err
		}

		if value == nil {
			if !found {
				rec.noSource(field, srcShape.Names())
			}

			continue
		}

		set.set(field.Name, binding{value: value, origin: fromSource})
		log.DebugContext(ctx, "bound field", slog.String("field", field.Name), slog.String("value", value.String()))
	}

	body, err := expr.Init(ctor, set.bindings(dstShape.Names())...)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", typeName(dest), err)
	}

	log.DebugContext(ctx, "synthesized mapping", slog.Int("bindings", set.len()))

	return expr.NewLambda(param, body), nil
}

// base returns the parameter, the constructor and the explicit bindings the
// synthesis starts from.
func base(source, dest reflect.Type, template *expr.Lambda) (*expr.Param, *expr.New, []expr.Binding, error) {
	if template == nil {
		ctor, err := expr.NewOf(dest)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("destination type: %w", err)
		}

		return expr.Parameter(source, "src"), ctor, nil, nil
	}

	if template.Param().Type() != source {
		return nil, nil, nil, fmt.Errorf("%w: parameter is %s, want %s", ErrInvalidTemplateShape, template.Param().Type(), source)
	}

	if template.Body().Type() != dest {
		return nil, nil, nil, fmt.Errorf("%w: constructs %s, want %s", ErrInvalidTemplateShape, template.Body().Type(), dest)
	}

	switch body := template.Body().(type) {
	case *expr.New:
		return template.Param(), body, nil, nil
	case *expr.MemberInit:
		return template.Param(), body.Constructor(), body.Bindings(), nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: body is %s %s", ErrInvalidTemplateShape, body.Kind(), body)
	}
}

// bindField builds the value of one destination field from the same-named
// source field. A nil value with found set means the source field exists
// but its type is not compatible. Failures, panics included, are returned
// as *BindingError.
func bindField(
	param *expr.Param,
	src *analyze.Shape,
	field analyze.FieldDescriptor,
	cfg *config,
	rec *recorder,
) (value expr.Expr, found bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, fmt.Errorf("%w: %v", expr.ErrPanic, r)
		}

		if err != nil {
			err = &BindingError{Field: field.Name, FieldType: field.Type, Err: err}
		}
	}()

	srcField, found := src.Field(field.Name)
	if !found {
		return nil, false, nil
	}

	compat := match.ScoreTypeCompatibility(srcField.Type, field.Type, cfg.conversions)
	if !compat.Compatibility.Bindable() {
		rec.incompatible(field, compat)
		return nil, true, nil
	}

	read, err := expr.FieldOf(param, field.Name)
	if err != nil {
		return nil, true, err
	}

	value = read

	if field.IsValueType || compat.Compatibility < match.TypeAssignable {
		value, err = expr.ConvertWith(read, field.Type, cfg.conversions)
		if err != nil {
			return nil, true, err
		}
	}

	if cfg.faultIsolate {
		value = expr.Guarded(value, field.Name, field.Type)
	}

	rec.autoBound(field, srcField.Type, value, compat)

	return value, true, nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
