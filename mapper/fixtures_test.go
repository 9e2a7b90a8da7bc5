package mapper_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"expression-mapper/expr"
)

type Person struct {
	Id   int
	Name string
	Age  int
}

type PersonRef struct {
	Id   int
	Name string
}

type Order struct {
	Id    int
	Total int
}

type Invoice struct {
	Id    int
	Total decimal.Decimal
}

type Customer struct {
	Id    int
	First string
	Last  string
	Age   int
}

type CustomerDTO struct {
	Id       int
	FullName string
	Age      int
}

type Reading struct {
	Id    int
	Label string
	Value int64
}

type CompactReading struct {
	Id    int
	Label string
	Value int8
}

type Mismatch struct {
	Id  string
	Age string
}

type Level uint8

type Account struct {
	Id    int
	Level Level
	Tags  []string
	Owner *Person
}

type AccountView struct {
	Id    int64
	Level uint16
	Tags  []string
	Owner *Person
}

func concat(first, last string) string {
	return first + " " + last
}

// fullNameTemplate builds c => CustomerDTO{FullName: concat(c.First, c.Last), Age: <age>}.
func fullNameTemplate(t *testing.T, age expr.Expr) *expr.Lambda {
	t.Helper()

	c := expr.Parameter(reflect.TypeFor[Customer](), "c")

	first, err := expr.FieldOf(c, "First")
	require.NoError(t, err)

	last, err := expr.FieldOf(c, "Last")
	require.NoError(t, err)

	fullName, err := expr.CallFunc("concat", concat, first, last)
	require.NoError(t, err)

	ctor, err := expr.NewOf(reflect.TypeFor[CustomerDTO]())
	require.NoError(t, err)

	bindings := []expr.Binding{expr.Bind("FullName", fullName)}
	if age != nil {
		bindings = append(bindings, expr.Bind("Age", age))
	}

	body, err := expr.Init(ctor, bindings...)
	require.NoError(t, err)

	return expr.NewLambda(c, body)
}

func boundNames(t *testing.T, l *expr.Lambda) []string {
	t.Helper()

	init, ok := l.Body().(*expr.MemberInit)
	require.True(t, ok, "body is %s", l.Body())

	var names []string
	for _, b := range init.Bindings() {
		names = append(names, b.Name)
	}

	return names
}

func binding(t *testing.T, l *expr.Lambda, name string) (expr.Binding, bool) {
	t.Helper()

	init, ok := l.Body().(*expr.MemberInit)
	require.True(t, ok, "body is %s", l.Body())

	return init.Binding(name)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}

	return true
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
