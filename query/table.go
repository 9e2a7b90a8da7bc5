package query

import (
	"reflect"

	"expression-mapper/expr"
	"expression-mapper/internal/analyze"
)

// Table is a deferred Queryable over the rows of a database table. It only
// records projections; SQL renders them.
type Table struct {
	name       string
	row        reflect.Type
	projection *expr.Lambda
}

// From returns a Table named name whose rows have type T.
func From[T any](name string) (*Table, error) {
	return FromType(name, reflect.TypeFor[T]())
}

// FromType returns a Table named name whose rows have type row, a struct or
// pointer to struct.
func FromType(name string, row reflect.Type) (*Table, error) {
	if _, err := analyze.Inspect(row); err != nil {
		return nil, err
	}

	return &Table{name: name, row: row}, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

func (t *Table) ElemType() reflect.Type {
	if t.projection == nil {
		return t.row
	}

	return t.projection.Body().Type()
}

// Projection returns the composed projection over table rows, or nil if
// nothing was selected.
func (t *Table) Projection() *expr.Lambda { return t.projection }

// Select composes projection with the projections already recorded.
func (t *Table) Select(projection *expr.Lambda) (Queryable, error) {
	if err := checkParam(t, projection); err != nil {
		return nil, err
	}

	composed := projection

	if t.projection != nil {
		var err error

		composed, err = expr.Inline(projection, t.projection)
		if err != nil {
			return nil, err
		}
	}

	return &Table{name: t.name, row: t.row, projection: composed}, nil
}
