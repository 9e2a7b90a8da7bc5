package expr

import (
	"fmt"
	"reflect"
	"strings"
)

// Path builds target.A.B... from a dotted field path.
func Path(target Expr, path string) (Expr, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNoSuchField)
	}

	e := target

	for _, name := range strings.Split(path, ".") {
		f, err := FieldOf(e, name)
		if err != nil {
			return nil, err
		}

		e = f
	}

	return e, nil
}

// Selector builds x => x.A.B for a struct type t.
func Selector(t reflect.Type, path string) (*Lambda, error) {
	x := Parameter(t, "x")

	body, err := Path(x, path)
	if err != nil {
		return nil, err
	}

	return NewLambda(x, body), nil
}

// FieldPath returns the dotted path selected by a lambda of the form
// x => x.A.B, looking through conversions and guards.
func FieldPath(l *Lambda) (string, error) {
	names, err := selection(l)
	if err != nil {
		return "", err
	}

	return strings.Join(names, "."), nil
}

// LastFieldName returns the last field name selected by a lambda of the form
// x => x.A.B.
func LastFieldName(l *Lambda) (string, error) {
	names, err := selection(l)
	if err != nil {
		return "", err
	}

	return names[len(names)-1], nil
}

func selection(l *Lambda) ([]string, error) {
	e := unwrap(l.body)

	var names []string

	for {
		switch n := e.(type) {
		case *Field:
			names = append(names, n.desc.Name)
			e = unwrap(n.target)

			continue
		case *Param:
			if n == l.param && len(names) > 0 {
				for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
					names[i], names[j] = names[j], names[i]
				}

				return names, nil
			}
		}

		return nil, fmt.Errorf("%w: %s", ErrNotSelector, l.body)
	}
}

func unwrap(e Expr) Expr {
	for {
		switch n := e.(type) {
		case *Convert:
			e = n.operand
		case *Guard:
			e = n.operand
		default:
			return e
		}
	}
}
