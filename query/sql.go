package query

import (
	"fmt"
	"reflect"
	"strings"

	"expression-mapper/expr"
	"expression-mapper/internal/analyze"
	"expression-mapper/primitive"
)

// Statement is a rendered SQL statement with positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// SQL renders the table and its projection as a SELECT statement.
//
// Columns are named after the `db` tag of the fields, falling back to the
// field name. Conversions other than identity or assignment become CAST,
// guards are transparent, constants become ? placeholders and calls become
// SQL function calls. Nested selections and constructor functions are
// rejected with ErrUntranslatable.
func (t *Table) SQL() (Statement, error) {
	alias := "t"
	if t.projection != nil {
		alias = t.projection.Param().Name()
	}

	tr := &translator{alias: alias}

	var columns []string

	switch {
	case t.projection == nil:
		shape := analyze.MustInspect(t.row)
		for _, f := range shape.Fields {
			if f.Embedded {
				continue
			}

			columns = append(columns, alias+"."+f.Column())
		}
	default:
		var err error

		columns, err = tr.projection(t.projection)
		if err != nil {
			return Statement{}, err
		}
	}

	if len(columns) == 0 {
		return Statement{}, fmt.Errorf("%w: empty projection", ErrUntranslatable)
	}

	sql := "SELECT " + strings.Join(columns, ", ") + " FROM " + t.name + " AS " + alias

	return Statement{SQL: sql, Args: tr.args}, nil
}

type translator struct {
	alias string
	param *expr.Param
	args  []any
}

func (tr *translator) projection(l *expr.Lambda) ([]string, error) {
	tr.param = l.Param()

	switch body := l.Body().(type) {
	case *expr.MemberInit:
		if body.Constructor().Constructor() != nil {
			return nil, fmt.Errorf("%w: constructor %s", ErrUntranslatable, body.Constructor())
		}

		columns := make([]string, 0, len(body.Bindings()))

		for _, b := range body.Bindings() {
			sql, err := tr.expr(b.Value)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", b.Column(), err)
			}

			columns = append(columns, sql+" AS "+b.Column())
		}

		return columns, nil
	case *expr.New:
		return nil, fmt.Errorf("%w: projection binds no column", ErrUntranslatable)
	default:
		sql, err := tr.expr(body)
		if err != nil {
			return nil, err
		}

		return []string{sql}, nil
	}
}

func (tr *translator) expr(e expr.Expr) (string, error) {
	switch n := e.(type) {
	case *expr.Field:
		if n.Target() != tr.param {
			return "", fmt.Errorf("%w: nested selection %s", ErrUntranslatable, n)
		}

		return tr.alias + "." + n.Column(), nil
	case *expr.Guard:
		return tr.expr(n.Operand())
	case *expr.Convert:
		inner, err := tr.expr(n.Operand())
		if err != nil {
			return "", err
		}

		if n.Identity() || n.Operand().Type().AssignableTo(n.Type()) {
			return inner, nil
		}

		sqlType, err := columnType(n.Type())
		if err != nil {
			return "", err
		}

		return "CAST(" + inner + " AS " + sqlType + ")", nil
	case *expr.Const:
		tr.args = append(tr.args, n.Value())
		return "?", nil
	case *expr.Call:
		args := make([]string, 0, len(n.Args()))

		for _, a := range n.Args() {
			sql, err := tr.expr(a)
			if err != nil {
				return "", err
			}

			args = append(args, sql)
		}

		return strings.ToUpper(n.Name()) + "(" + strings.Join(args, ", ") + ")", nil
	default:
		return "", fmt.Errorf("%w: %s %s", ErrUntranslatable, e.Kind(), e)
	}
}

func columnType(t reflect.Type) (string, error) {
	switch primitive.FromReflectType(t) {
	case primitive.KindInt, primitive.KindInt64, primitive.KindUint32, primitive.KindUint, primitive.KindUint64, primitive.KindDuration:
		return "BIGINT", nil
	case primitive.KindInt32, primitive.KindUint16:
		return "INTEGER", nil
	case primitive.KindInt8, primitive.KindInt16, primitive.KindUint8:
		return "SMALLINT", nil
	case primitive.KindFloat32:
		return "REAL", nil
	case primitive.KindFloat64:
		return "DOUBLE PRECISION", nil
	case primitive.KindDecimal:
		return "DECIMAL", nil
	case primitive.KindBool:
		return "BOOLEAN", nil
	case primitive.KindString:
		return "TEXT", nil
	case primitive.KindPrimitiveEnum:
		return columnType(baseType(t))
	default:
		return "", fmt.Errorf("%w: no column type for %s", ErrUntranslatable, t)
	}
}

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Int:    reflect.TypeFor[int](),
	reflect.Int8:   reflect.TypeFor[int8](),
	reflect.Int16:  reflect.TypeFor[int16](),
	reflect.Int32:  reflect.TypeFor[int32](),
	reflect.Int64:  reflect.TypeFor[int64](),
	reflect.Uint:   reflect.TypeFor[uint](),
	reflect.Uint8:  reflect.TypeFor[uint8](),
	reflect.Uint16: reflect.TypeFor[uint16](),
	reflect.Uint32: reflect.TypeFor[uint32](),
	reflect.Uint64: reflect.TypeFor[uint64](),
	reflect.Bool:   reflect.TypeFor[bool](),
	reflect.String: reflect.TypeFor[string](),
}

// baseType returns the predeclared type underlying a named basic type.
func baseType(t reflect.Type) reflect.Type {
	if b, ok := basicTypes[t.Kind()]; ok {
		return b
	}

	return t
}
