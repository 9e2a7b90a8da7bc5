package mapping

import (
	"os"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expression-mapper/internal/diagnostic"
	"expression-mapper/mapper"
)

type OrderStatus string

type sourceOrder struct {
	OrderID      int64
	CustomerName string
	Note         string
	Rank         int32
	InternalNote string
}

type targetOrder struct {
	ID           int64
	Customer     string
	Status       OrderStatus
	Label        string
	Priority     int64
	InternalNote string
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	reg := NewRegistry()
	Register[sourceOrder](reg)
	Register[targetOrder](reg)
	require.NoError(t, reg.AddFunc("label", func(name, note string) string { return name + ": " + note }))
	require.NoError(t, reg.AddFunc("itoa", func(i int64) (string, error) { return strconv.FormatInt(i, 10), nil }))

	return reg
}

func parseOne(t *testing.T, yaml string) *TypeMapping {
	t.Helper()

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.Len(t, f.Mappings, 1)

	return &f.Mappings[0]
}

const orderProfile = `
mappings:
  - source: mapping.sourceOrder
    target: targetOrder
    121:
      OrderID: ID
      CustomerName: Customer
    fields:
      - target: Status
        default: pending
      - target: Label
        source: [CustomerName, Note]
        transform: label
      - target: Priority
        source: Rank
    ignore: [InternalNote]
    fault_isolation: true
`

func TestResolve(t *testing.T) {
	reg := testRegistry(t)

	res, err := Resolve(parseOne(t, orderProfile), reg)
	require.NoError(t, err)

	assert.Equal(t, reflect.TypeFor[sourceOrder](), res.Source)
	assert.Equal(t, reflect.TypeFor[targetOrder](), res.Target)
	require.NotNil(t, res.Template)
	assert.Equal(t,
		`mapping.targetOrder{Customer: src.CustomerName, ID: src.OrderID, Status: "pending", Label: label(src.CustomerName, src.Note), Priority: int64(src.Rank)}`,
		res.Template.Body().String())

	out, err := mapper.Synthesize(res.Source, res.Target, res.Options...)
	require.NoError(t, err)
	assert.Equal(t, res.Template.Param(), out.Param())

	fn, err := out.Compile()
	require.NoError(t, err)

	v, err := fn(reflect.ValueOf(sourceOrder{OrderID: 7, CustomerName: "Ann", Note: "rush", Rank: 2, InternalNote: "secret"}))
	require.NoError(t, err)
	assert.Equal(t, targetOrder{ID: 7, Customer: "Ann", Status: "pending", Label: "Ann: rush", Priority: 2}, v.Interface())
}

func TestResolve_TemplateOnly(t *testing.T) {
	res, err := Resolve(parseOne(t, `
mappings:
  - source: sourceOrder
    target: targetOrder
    121: {CustomerName: Customer}
    template_only: true
    conversions: none
`), testRegistry(t))
	require.NoError(t, err)

	out, err := mapper.Synthesize(res.Source, res.Target, res.Options...)
	require.NoError(t, err)
	assert.Same(t, res.Template, out)
}

func TestResolve_NoRules(t *testing.T) {
	res, err := Resolve(parseOne(t, "mappings:\n  - source: sourceOrder\n    target: targetOrder\n"), testRegistry(t))
	require.NoError(t, err)
	assert.Nil(t, res.Template)

	l, err := mapper.Synthesize(res.Source, res.Target, res.Options...)
	require.NoError(t, err)
	assert.Contains(t, l.String(), "InternalNote: src.InternalNote")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		code  string
		field string
		hint  []string
	}{
		{
			name: "unknown source type",
			yaml: "mappings:\n  - source: sourceOrdr\n    target: targetOrder\n",
			code: diagnostic.CodeUnknownType,
			hint: []string{"mapping.sourceOrder"},
		},
		{
			name:  "unknown source field",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    121: {CustomerNme: Customer}\n",
			code:  diagnostic.CodeUnknownField,
			field: "Customer",
			hint:  []string{"CustomerName"},
		},
		{
			name:  "unknown target field",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    121: {CustomerName: Custmer}\n",
			code:  diagnostic.CodeUnknownField,
			field: "Custmer",
			hint:  []string{"Customer"},
		},
		{
			name:  "duplicate target",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    121: {Note: Label}\n    fields:\n      - target: Label\n        default: x\n",
			code:  diagnostic.CodeDuplicate,
			field: "Label",
		},
		{
			name:  "bad default",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    fields:\n      - target: Priority\n        default: high\n",
			code:  diagnostic.CodeBadDefault,
			field: "Priority",
		},
		{
			name:  "default and source",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    fields:\n      - target: Label\n        default: x\n        source: Note\n",
			code:  diagnostic.CodeConflict,
			field: "Label",
		},
		{
			name:  "empty rule",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    fields:\n      - target: Label\n",
			code:  diagnostic.CodeEmptyRule,
			field: "Label",
		},
		{
			name:  "sources without transform",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    fields:\n      - target: Label\n        source: [Note, CustomerName]\n",
			code:  diagnostic.CodeTransform,
			field: "Label",
		},
		{
			name:  "unknown transform",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    fields:\n      - target: Label\n        source: [Note, CustomerName]\n        transform: labels\n",
			code:  diagnostic.CodeTransform,
			field: "Label",
			hint:  []string{"label"},
		},
		{
			name:  "transform argument type",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    fields:\n      - target: Label\n        source: Note\n        transform: itoa\n",
			code:  diagnostic.CodeTransform,
			field: "Label",
		},
		{
			name:  "incompatible rename",
			yaml:  "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    121: {Note: Priority}\n",
			code:  diagnostic.CodeIncompatible,
			field: "Priority",
		},
		{
			name: "conversions",
			yaml: "mappings:\n  - source: sourceOrder\n    target: targetOrder\n    conversions: lossy\n",
			code: diagnostic.CodeBadOption,
		},
		{
			name: "duplicate pair",
			yaml: "mappings:\n  - source: sourceOrder\n    target: targetOrder\n  - source: sourceOrder\n    target: targetOrder\n",
			code: diagnostic.CodeDuplicate,
		},
	}

	reg := testRegistry(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			diags := Validate(f, reg)
			require.True(t, diags.HasErrors())
			require.ErrorIs(t, diags.Err(), diagnostic.ErrInvalid)

			first := diags.Errors[0]
			assert.Equal(t, tt.code, first.Code, first.String())
			assert.Equal(t, tt.field, first.FieldPath)

			if tt.hint != nil {
				assert.Equal(t, tt.hint, first.Suggestions)
			}

			_, err = ResolveAll(f, reg)
			require.ErrorIs(t, err, diagnostic.ErrInvalid)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	f, err := Parse([]byte(`
mappings:
  - source: sourceOrder
    target: targetOrder
    121: {Note: Label}
    ignore: [Label, Missing]
    template_only: true
`))
	require.NoError(t, err)

	diags := Validate(f, testRegistry(t))
	assert.False(t, diags.HasErrors())
	assert.Equal(t, []string{diagnostic.CodeConflict}, diags.Codes("Label"))
	assert.Equal(t, []string{diagnostic.CodeUnknownField}, diags.Codes("Missing"))
	assert.Equal(t, []string{diagnostic.CodeEmptyRule}, diags.Codes(""))

	resolved, err := ResolveAll(f, testRegistry(t))
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "mapping.targetOrder{}", resolved[0].Template.Body().String())
}

func TestValidate_Nil(t *testing.T) {
	assert.True(t, Validate(nil, NewRegistry()).HasErrors())
	assert.True(t, Validate(&File{}, nil).HasErrors())
}

func TestRegistry(t *testing.T) {
	reg := testRegistry(t)

	for _, id := range []string{"expression-mapper/internal/mapping.sourceOrder", "mapping.sourceOrder", "sourceOrder"} {
		typ, err := reg.Type(id)
		require.NoError(t, err, id)
		assert.Equal(t, reflect.TypeFor[sourceOrder](), typ)
	}

	ptr, err := reg.Type("*targetOrder")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*targetOrder](), ptr)

	_, err = reg.Type("other.sourceOrder")
	require.ErrorIs(t, err, ErrUnknownType)

	reg.AddType(reflect.TypeFor[diagnostic.Diagnostic]())
	reg.AddType(reflect.TypeFor[mapper.BindingError]())
	_, err = reg.Type("Diagnostic")
	require.NoError(t, err)

	assert.Equal(t, []string{"itoa", "label"}, reg.FuncNames())
	assert.Equal(t, []string{"diagnostic.Diagnostic", "mapper.BindingError", "mapping.sourceOrder", "mapping.targetOrder"}, reg.TypeNames())

	require.ErrorIs(t, reg.AddFunc("bad", 42), ErrInvalidTransform)
	require.ErrorIs(t, reg.AddFunc("variadic", func(...string) string { return "" }), ErrInvalidTransform)
	require.ErrorIs(t, reg.AddFunc("void", func() {}), ErrInvalidTransform)
}

func TestRegistry_Ambiguous(t *testing.T) {
	reg := testRegistry(t)
	Register[File](reg)
	Register[os.File](reg)

	_, err := reg.Type("File")
	require.ErrorIs(t, err, ErrAmbiguousType)

	typ, err := reg.Type("os.File")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[os.File](), typ)
}
