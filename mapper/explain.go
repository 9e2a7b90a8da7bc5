package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"expression-mapper/expr"
	"expression-mapper/internal/analyze"
	"expression-mapper/internal/diagnostic"
	"expression-mapper/internal/match"
	"expression-mapper/primitive"
)

const (
	suggestionCount    = 3
	suggestionMinScore = 0.5
)

// Explain synthesizes like Synthesize and reports the decision taken for
// every destination field. A synthesis failure is returned as the error and
// also recorded as an error diagnostic.
func Explain(source, dest reflect.Type, opts ...Option) (*expr.Lambda, *diagnostic.Diagnostics, error) {
	rec := &recorder{pair: typeName(source) + " -> " + typeName(dest)}

	l, err := synthesize(source, dest, newConfig(opts), rec)
	if err != nil {
		field := ""

		var be *BindingError
		if errors.As(err, &be) {
			field = be.Field
		}

		rec.diags.AddError(diagnostic.CodeSynthesisFailed, err.Error(), rec.pair, field)

		return nil, &rec.diags, err
	}

	return l, &rec.diags, nil
}

// recorder collects diagnostics during synthesis. A nil recorder ignores
// everything.
type recorder struct {
	pair  string
	diags diagnostic.Diagnostics
}

func (r *recorder) templateOnly(t *expr.Lambda) {
	if r == nil {
		return
	}

	r.diags.AddInfo(diagnostic.CodeTemplateOnly, "template returned unchanged: "+t.String(), r.pair, "")
}

func (r *recorder) templateDropped(b expr.Binding) {
	if r == nil {
		return
	}

	r.diags.AddWarning(diagnostic.CodeTemplateDropped,
		fmt.Sprintf("template binding %s dropped by exclusion", b.Value), r.pair, b.Name)
}

func (r *recorder) excluded(f analyze.FieldDescriptor) {
	if r == nil {
		return
	}

	r.diags.AddInfo(diagnostic.CodeExcluded, "excluded", r.pair, f.Name)
}

func (r *recorder) templateKept(f analyze.FieldDescriptor, value expr.Expr) {
	if r == nil {
		return
	}

	r.diags.AddInfo(diagnostic.CodeTemplateKept, "kept template binding "+value.String(), r.pair, f.Name)
}

func (r *recorder) noSource(f analyze.FieldDescriptor, candidates []string) {
	if r == nil {
		return
	}

	r.diags.AddWarning(diagnostic.CodeNoSource,
		fmt.Sprintf("no source field named %s, keeps the constructor value", f.Name),
		r.pair, f.Name, match.Suggest(f.Name, candidates, suggestionCount, suggestionMinScore)...)
}

func (r *recorder) incompatible(f analyze.FieldDescriptor, compat match.TypeCompatibilityResult) {
	if r == nil {
		return
	}

	r.diags.AddWarning(diagnostic.CodeIncompatible,
		fmt.Sprintf("source %s is %s to %s: %s", compat.SourceType, compat.Compatibility, compat.TargetType, compat.Reason),
		r.pair, f.Name)
}

func (r *recorder) autoBound(f analyze.FieldDescriptor, from reflect.Type, value expr.Expr, compat match.TypeCompatibilityResult) {
	if r == nil {
		return
	}

	r.diags.AddInfo(diagnostic.CodeAutoBound, fmt.Sprintf("bound to %s (%s)", value, compat.Compatibility), r.pair, f.Name)

	if compat.Numeric && !primitive.CanConvert(from, f.Type, primitive.CategorySafe) {
		r.diags.AddWarning(diagnostic.CodeNarrowing,
			fmt.Sprintf("%s to %s may overflow at runtime", compat.SourceType, compat.TargetType), r.pair, f.Name)
	}
}
