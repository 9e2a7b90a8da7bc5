package mapping

import (
	"expression-mapper/internal/diagnostic"
)

// Validate checks every type mapping of f against the registry: types and
// fields exist, rules are well-formed, defaults decode into their field
// type and transforms accept their sources. It never stops at the first
// problem.
func Validate(f *File, reg *Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if reg == nil {
		res.AddError("registry_is_nil", "type registry is nil", "", "")
		return res
	}

	seen := make(map[string]struct{}, len(f.Mappings))

	for i := range f.Mappings {
		tm := &f.Mappings[i]

		if _, dup := seen[tm.Pair()]; dup {
			res.AddError(diagnostic.CodeDuplicate, "type pair is mapped more than once", tm.Pair(), "")
			continue
		}

		seen[tm.Pair()] = struct{}{}

		newBuilder(tm, reg, res).build()
	}

	return res
}
