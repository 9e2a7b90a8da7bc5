package mapper_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"expression-mapper/expr"
	"expression-mapper/mapper"
	"expression-mapper/primitive"
)

func TestSynthesize_SameNamedFields(t *testing.T) {
	l, err := mapper.Expression[Person, PersonRef]()
	require.NoError(t, err)

	assert.Equal(t, []string{"Id", "Name"}, boundNames(t, l))
	assert.Equal(t, "func(src mapper_test.Person) mapper_test.PersonRef { return mapper_test.PersonRef{Id: int(src.Id), Name: src.Name} }", l.String())

	out, err := mapper.Map[Person, PersonRef](Person{Id: 1, Name: "Ann", Age: 30})
	require.NoError(t, err)
	assert.Equal(t, PersonRef{Id: 1, Name: "Ann"}, out)
}

func TestSynthesize_NumericToDecimal(t *testing.T) {
	l, err := mapper.Expression[Order, Invoice]()
	require.NoError(t, err)

	total, ok := binding(t, l, "Total")
	require.True(t, ok)

	conv, ok := total.Value.(*expr.Convert)
	require.True(t, ok, spew.Sdump(total.Value.String()))
	assert.False(t, conv.Identity())
	assert.Equal(t, "decimal.Decimal(src.Total)", conv.String())

	out, err := mapper.Map[Order, Invoice](Order{Id: 2, Total: 5})
	require.NoError(t, err)

	want := Invoice{Id: 2, Total: decimal.RequireFromString("5.0")}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("invoice mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_TemplateWithExclusions(t *testing.T) {
	template := fullNameTemplate(t, nil)
	templateFullName, _ := binding(t, template, "FullName")

	l, err := mapper.Expression[Customer, CustomerDTO](mapper.WithTemplate(template), mapper.WithExclusions("Age"))
	require.NoError(t, err)

	assert.Same(t, template.Param(), l.Param())
	assert.Equal(t, []string{"Id", "FullName"}, boundNames(t, l))

	fullName, ok := binding(t, l, "FullName")
	require.True(t, ok)
	assert.Same(t, templateFullName.Value, fullName.Value)

	_, ok = binding(t, l, "Age")
	assert.False(t, ok)

	out, err := mapper.Map[Customer, CustomerDTO](Customer{Id: 3, First: "Ann", Last: "Lee", Age: 41},
		mapper.WithTemplate(template), mapper.WithExclusions("Age"))
	require.NoError(t, err)
	assert.Equal(t, CustomerDTO{Id: 3, FullName: "Ann Lee"}, out)
}

func TestSynthesize_FaultIsolation(t *testing.T) {
	_, err := mapper.Map[Reading, CompactReading](Reading{Id: 1, Label: "probe", Value: 1000})
	require.Error(t, err)

	var fault *expr.FieldFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "Value", fault.Field)
	assert.Equal(t, reflect.TypeFor[int8](), fault.FieldType)
	assert.Equal(t, "int8(src.Value)", fault.Expr)
	require.ErrorIs(t, err, primitive.ErrOverflow)
	assert.Contains(t, err.Error(), "field Value of type int8")

	out, err := mapper.Map[Reading, CompactReading](Reading{Id: 1, Label: "probe", Value: 100})
	require.NoError(t, err)
	assert.Equal(t, CompactReading{Id: 1, Label: "probe", Value: 100}, out)
}

func TestSynthesize_FaultsPropagateWithoutIsolation(t *testing.T) {
	fn, err := mapper.CompileIn[Reading, CompactReading](mapper.NewCache())
	require.NoError(t, err)

	_, err = fn(Reading{Value: -129})
	require.ErrorIs(t, err, primitive.ErrOverflow)

	var fault *expr.FieldFault
	assert.False(t, errors.As(err, &fault))
}

func TestSynthesize_TemplatePrecedence(t *testing.T) {
	template := fullNameTemplate(t, expr.Constant(99))

	l, err := mapper.Expression[Customer, CustomerDTO](mapper.WithTemplate(template))
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "FullName", "Age"}, boundNames(t, l))

	age, ok := binding(t, l, "Age")
	require.True(t, ok)
	assert.Equal(t, "99", age.Value.String())

	out, err := mapper.Map[Customer, CustomerDTO](Customer{Id: 1, First: "A", Last: "B", Age: 20}, mapper.WithTemplate(template))
	require.NoError(t, err)
	assert.Equal(t, CustomerDTO{Id: 1, FullName: "A B", Age: 99}, out)

	excluded, err := mapper.Expression[Customer, CustomerDTO](mapper.WithTemplate(template), mapper.WithExclusions("FullName", "Age"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Id"}, boundNames(t, excluded))
}

func TestSynthesize_TemplateOnly(t *testing.T) {
	template := fullNameTemplate(t, nil)

	l, err := mapper.Expression[Customer, CustomerDTO](mapper.WithTemplate(template), mapper.TemplateOnly())
	require.NoError(t, err)
	assert.Same(t, template, l)

	_, err = mapper.Expression[Customer, CustomerDTO](mapper.TemplateOnly())
	require.ErrorIs(t, err, mapper.ErrMissingTemplate)
}

func TestSynthesize_InvalidTemplate(t *testing.T) {
	c := expr.Parameter(reflect.TypeFor[Customer](), "c")
	first, err := expr.FieldOf(c, "First")
	require.NoError(t, err)

	ctor, err := expr.NewOf(reflect.TypeFor[CustomerDTO]())
	require.NoError(t, err)

	p := expr.Parameter(reflect.TypeFor[Person](), "p")

	tests := []struct {
		name     string
		template *expr.Lambda
	}{
		{name: "field body", template: expr.NewLambda(c, first)},
		{name: "parameter type", template: expr.NewLambda(p, ctor)},
		{name: "constructed type", template: expr.NewLambda(c, mustNew(t, reflect.TypeFor[*CustomerDTO]()))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapper.Expression[Customer, CustomerDTO](mapper.WithTemplate(tt.template))
			require.ErrorIs(t, err, mapper.ErrInvalidTemplateShape)
		})
	}
}

func mustNew(t *testing.T, typ reflect.Type) *expr.New {
	t.Helper()

	n, err := expr.NewOf(typ)
	require.NoError(t, err)

	return n
}

func TestSynthesize_Compatibility(t *testing.T) {
	l, err := mapper.Expression[Mismatch, Person]()
	require.NoError(t, err)
	assert.Empty(t, boundNames(t, l))

	l, err = mapper.Expression[Account, AccountView]()
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Level", "Tags", "Owner"}, boundNames(t, l))

	owner, ok := binding(t, l, "Owner")
	require.True(t, ok)
	assert.Equal(t, expr.KindField, owner.Value.Kind(), "reference types are not converted")

	src := Account{Id: 7, Level: 3, Tags: []string{"a"}, Owner: &Person{Name: "Ann"}}
	out, err := mapper.Map[Account, AccountView](src)
	require.NoError(t, err)
	assert.Equal(t, AccountView{Id: 7, Level: 3, Tags: []string{"a"}, Owner: src.Owner}, out)

	safe, err := mapper.Expression[Reading, CompactReading](mapper.WithConversions(primitive.CategorySafe))
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Label"}, boundNames(t, safe))
}

func TestSynthesize_NotRecord(t *testing.T) {
	_, err := mapper.Synthesize(reflect.TypeFor[int](), reflect.TypeFor[Person]())
	require.Error(t, err)

	_, err = mapper.Synthesize(reflect.TypeFor[Person](), reflect.TypeFor[[]Person]())
	require.Error(t, err)
}

func TestSynthesize_Idempotent(t *testing.T) {
	template := fullNameTemplate(t, nil)
	opts := []mapper.Option{mapper.WithTemplate(template), mapper.WithExclusions("Age"), mapper.WithFaultIsolation()}

	first, err := mapper.Expression[Customer, CustomerDTO](opts...)
	require.NoError(t, err)

	var g errgroup.Group

	results := make([]string, 16)
	for i := range results {
		g.Go(func() error {
			l, err := mapper.Expression[Customer, CustomerDTO](opts...)
			if err != nil {
				return err
			}

			results[i] = l.String()

			return nil
		})
	}

	require.NoError(t, g.Wait())

	for _, got := range results {
		assert.Equal(t, first.String(), got)
	}

	assert.True(t, containsAll(first.String(), "guard(int(c.Id))", "FullName: concat(c.First, c.Last)"), first.String())
}

func TestBindingError(t *testing.T) {
	err := &mapper.BindingError{Field: "Total", FieldType: reflect.TypeFor[decimal.Decimal](), Err: expr.ErrNotConvertible}

	assert.Equal(t, "binding field Total of type decimal.Decimal: type is not convertible", err.Error())
	require.ErrorIs(t, err, expr.ErrNotConvertible)
}

type Shade string

type Position struct{ X, Y int }

type Spot struct{ X, Y int }

type Marker struct {
	Id   int
	At   Position
	Kind Shade
}

type MarkerView struct {
	Id   int
	At   Spot
	Kind string
}

func TestSynthesize_OnlyEnumsConvertOutsideNumbers(t *testing.T) {
	l, err := mapper.Expression[Marker, MarkerView]()
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Kind"}, boundNames(t, l))

	out, err := mapper.Map[Marker, MarkerView](Marker{Id: 1, At: Position{X: 2, Y: 3}, Kind: "dark"})
	require.NoError(t, err)
	assert.Equal(t, MarkerView{Id: 1, Kind: "dark"}, out)
}
