package mapper

import (
	"slices"

	"expression-mapper/expr"
)

type origin int

const (
	fromTemplate origin = iota
	fromSource
)

func (o origin) String() string {
	if o == fromTemplate {
		return "template"
	}

	return "source"
}

type binding struct {
	value  expr.Expr
	origin origin
}

// bindingSet is the working set of bindings keyed by destination field
// name. Keys keep their first insertion position.
type bindingSet struct {
	keys    []string
	entries map[string]binding
}

func newBindingSet(capacity int) *bindingSet {
	return &bindingSet{
		keys:    make([]string, 0, capacity),
		entries: make(map[string]binding, capacity),
	}
}

func (s *bindingSet) get(name string) (binding, bool) {
	b, ok := s.entries[name]
	return b, ok
}

func (s *bindingSet) set(name string, b binding) {
	if _, ok := s.entries[name]; !ok {
		s.keys = append(s.keys, name)
	}

	s.entries[name] = b
}

func (s *bindingSet) len() int { return len(s.keys) }

// bindings returns the set as expression bindings, ordered by the given
// field order first and insertion order for anything left.
func (s *bindingSet) bindings(order []string) []expr.Binding {
	out := make([]expr.Binding, 0, len(s.keys))
	seen := make(map[string]struct{}, len(s.keys))

	for _, name := range slices.Concat(order, s.keys) {
		if _, done := seen[name]; done {
			continue
		}

		if b, ok := s.entries[name]; ok {
			out = append(out, expr.Bind(name, b.value))
			seen[name] = struct{}{}
		}
	}

	return out
}
