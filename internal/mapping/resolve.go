package mapping

import (
	"fmt"
	"reflect"
	"slices"

	"expression-mapper/expr"
	"expression-mapper/internal/analyze"
	"expression-mapper/internal/diagnostic"
	"expression-mapper/internal/match"
	"expression-mapper/mapper"
	"expression-mapper/primitive"
)

// Values of TypeMapping.Conversions.
const (
	ConversionsAll  = "all"
	ConversionsSafe = "safe"
	ConversionsNone = "none"
)

const (
	suggestionCount    = 3
	suggestionMinScore = 0.5
)

// Resolved is a type mapping turned into mapper input.
type Resolved struct {
	Source   reflect.Type
	Target   reflect.Type
	Template *expr.Lambda // nil when the mapping declares no rule
	Options  []mapper.Option
}

// Resolve builds the template and options of one type mapping. Any
// validation error fails the resolution.
func Resolve(tm *TypeMapping, reg *Registry) (*Resolved, error) {
	var diags diagnostic.Diagnostics

	res := newBuilder(tm, reg, &diags).build()
	if err := diags.Err(); err != nil {
		return nil, err
	}

	return res, nil
}

// ResolveAll resolves every type mapping of f.
func ResolveAll(f *File, reg *Registry) ([]*Resolved, error) {
	if diags := Validate(f, reg); diags.HasErrors() {
		return nil, diags.Err()
	}

	out := make([]*Resolved, 0, len(f.Mappings))

	for i := range f.Mappings {
		r, err := Resolve(&f.Mappings[i], reg)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, nil
}

type builder struct {
	tm    *TypeMapping
	reg   *Registry
	diags *diagnostic.Diagnostics
	pair  string

	param    *expr.Param
	src, dst *analyze.Shape
	bindings []expr.Binding
	bound    map[string]struct{}
	failed   bool
}

func newBuilder(tm *TypeMapping, reg *Registry, diags *diagnostic.Diagnostics) *builder {
	return &builder{
		tm:    tm,
		reg:   reg,
		diags: diags,
		pair:  tm.Pair(),
		bound: make(map[string]struct{}),
	}
}

func (b *builder) errorf(code, field string, suggestions []string, format string, args ...any) {
	b.failed = true
	b.diags.AddError(code, fmt.Sprintf(format, args...), b.pair, field, suggestions...)
}

func (b *builder) build() *Resolved {
	b.src = b.shape(b.tm.Source, "source")
	b.dst = b.shape(b.tm.Target, "target")

	if b.src == nil || b.dst == nil {
		return nil
	}

	b.param = expr.Parameter(b.src.Type, "src")

	for _, sp := range b.tm.renameSources() {
		target := b.tm.OneToOne[sp]

		if value := b.read(target, sp); value != nil {
			b.bind(target, value)
		}
	}

	for _, fm := range b.tm.Fields {
		if value := b.rule(fm); value != nil {
			b.bind(fm.Target, value)
		}
	}

	for _, name := range b.tm.Ignore {
		if _, ok := b.dst.Field(name); !ok {
			b.diags.AddWarning(diagnostic.CodeUnknownField, "ignored field does not exist", b.pair, name, b.suggest(name, b.dst)...)
			continue
		}

		if _, ok := b.bound[name]; ok {
			b.diags.AddWarning(diagnostic.CodeConflict, "field has a rule and is ignored, the rule is dropped", b.pair, name)
		}
	}

	conversions, ok := conversionCategories(b.tm.Conversions)
	if !ok {
		b.errorf(diagnostic.CodeBadOption, "", nil, "unknown conversions %q (want all, safe or none)", b.tm.Conversions)
	}

	if b.tm.TemplateOnly && len(b.bindings) == 0 {
		b.diags.AddWarning(diagnostic.CodeEmptyRule, "template_only without rules constructs zero values", b.pair, "")
	}

	if b.failed {
		return nil
	}

	res := &Resolved{Source: b.src.Type, Target: b.dst.Type}

	if len(b.bindings) > 0 || b.tm.TemplateOnly {
		ctor, err := expr.NewOf(b.dst.Type)
		if err != nil {
			b.errorf(diagnostic.CodeNotRecord, "", nil, "%v", err)
			return nil
		}

		body, err := expr.Init(ctor, b.bindings...)
		if err != nil {
			b.errorf(diagnostic.CodeConflict, "", nil, "%v", err)
			return nil
		}

		res.Template = expr.NewLambda(b.param, body)
		res.Options = append(res.Options, mapper.WithTemplate(res.Template))
	}

	res.Options = append(res.Options, mapper.WithExclusions(b.tm.Ignore...), mapper.WithConversions(conversions))

	if b.tm.FaultIsolation {
		res.Options = append(res.Options, mapper.WithFaultIsolation())
	}

	if b.tm.TemplateOnly {
		res.Options = append(res.Options, mapper.TemplateOnly())
	}

	return res
}

func (b *builder) shape(id, role string) *analyze.Shape {
	t, err := b.reg.Type(id)
	if err != nil {
		b.errorf(diagnostic.CodeUnknownType, "", match.Suggest(id, b.reg.TypeNames(), suggestionCount, suggestionMinScore),
			"%s type: %v", role, err)

		return nil
	}

	s, err := analyze.Inspect(t)
	if err != nil {
		b.errorf(diagnostic.CodeNotRecord, "", nil, "%s type: %v", role, err)
		return nil
	}

	return s
}

func (b *builder) suggest(name string, s *analyze.Shape) []string {
	return match.Suggest(name, s.Names(), suggestionCount, suggestionMinScore)
}

// read builds src.<path>, reporting the target field on failure.
func (b *builder) read(target, path string) expr.Expr {
	segments, err := ParsePath(path)
	if err != nil {
		b.errorf(diagnostic.CodeUnknownField, target, nil, "source: %v", err)
		return nil
	}

	value, err := expr.Path(b.param, path)
	if err != nil {
		b.errorf(diagnostic.CodeUnknownField, target, b.suggest(segments[0], b.src), "source %s: %v", path, err)
		return nil
	}

	return value
}

// rule builds the value of an explicit field rule.
func (b *builder) rule(fm FieldMapping) expr.Expr {
	if fm.Target == "" {
		b.errorf(diagnostic.CodeMissingTarget, "", nil, "field rule without target")
		return nil
	}

	field, ok := b.dst.Field(fm.Target)
	if !ok {
		b.errorf(diagnostic.CodeUnknownField, fm.Target, b.suggest(fm.Target, b.dst), "target field does not exist")
		return nil
	}

	switch {
	case fm.Default != nil && len(fm.Source) > 0:
		b.errorf(diagnostic.CodeConflict, fm.Target, nil, "rule has both a default and sources")
		return nil
	case fm.Default != nil:
		return b.constant(fm, field.Type)
	case len(fm.Source) == 0:
		b.errorf(diagnostic.CodeEmptyRule, fm.Target, nil, "rule has neither a default nor sources")
		return nil
	case fm.Transform == "" && len(fm.Source) > 1:
		b.errorf(diagnostic.CodeTransform, fm.Target, nil, "%d sources require a transform", len(fm.Source))
		return nil
	case fm.Transform == "":
		return b.read(fm.Target, fm.Source.First())
	}

	fn, ok := b.reg.Func(fm.Transform)
	if !ok {
		b.errorf(diagnostic.CodeTransform, fm.Target, match.Suggest(fm.Transform, b.reg.FuncNames(), suggestionCount, suggestionMinScore),
			"%v: %s", ErrUnknownTransform, fm.Transform)

		return nil
	}

	args := make([]expr.Expr, 0, len(fm.Source))

	for _, sp := range fm.Source {
		arg := b.read(fm.Target, sp)
		if arg == nil {
			return nil
		}

		args = append(args, arg)
	}

	call, err := expr.CallFunc(fm.Transform, fn, args...)
	if err != nil {
		b.errorf(diagnostic.CodeTransform, fm.Target, nil, "%v", err)
		return nil
	}

	return call
}

// constant decodes a default into the field type.
func (b *builder) constant(fm FieldMapping, t reflect.Type) expr.Expr {
	ptr := reflect.New(t)

	if err := fm.Default.Decode(ptr.Interface()); err != nil {
		b.errorf(diagnostic.CodeBadDefault, fm.Target, nil, "default does not decode into %s: %v", t, err)
		return nil
	}

	c, err := expr.TypedConstant(ptr.Elem().Interface(), t)
	if err != nil {
		b.errorf(diagnostic.CodeBadDefault, fm.Target, nil, "%v", err)
		return nil
	}

	return c
}

// bind records a rule, converting the value to the field type when needed.
func (b *builder) bind(target string, value expr.Expr) {
	field, ok := b.dst.Field(target)
	if !ok {
		b.errorf(diagnostic.CodeUnknownField, target, b.suggest(target, b.dst), "target field does not exist")
		return
	}

	if _, dup := b.bound[target]; dup {
		b.errorf(diagnostic.CodeDuplicate, target, nil, "target field has more than one rule")
		return
	}

	if value.Type() != field.Type && (field.IsValueType || !value.Type().AssignableTo(field.Type)) {
		conv, err := expr.ConvertTo(value, field.Type)
		if err != nil {
			b.errorf(diagnostic.CodeIncompatible, target, nil, "%v", err)
			return
		}

		value = conv
	}

	b.bound[target] = struct{}{}

	if !slices.Contains(b.tm.Ignore, target) {
		b.bindings = append(b.bindings, expr.Bind(target, value))
	}
}

func conversionCategories(name string) (primitive.CategoryEnum, bool) {
	switch name {
	case "", ConversionsAll:
		return primitive.CategoryAll, true
	case ConversionsSafe:
		return primitive.CategorySafe, true
	case ConversionsNone:
		return primitive.CategoryNone, true
	default:
		return 0, false
	}
}
