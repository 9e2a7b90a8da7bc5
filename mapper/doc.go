// Package mapper synthesizes mapping expressions between record types.
//
// Synthesize walks the destination fields once and binds every field that
// has a same-named, type-compatible source field, completing an optional
// caller template (a constructor plus explicit bindings) without ever
// overwriting the template's own bindings. The result is an *expr.Lambda
// that can be compiled (Compile, Map, MapInto, MapSeq, MapSlice) or handed
// untouched to a query engine (Select).
//
// Example:
//
//	type Customer struct{ ID int; First, Last string; Age int }
//	type CustomerDTO struct{ ID int; FullName string; Age int8 }
//
//	c := expr.Parameter(reflect.TypeFor[Customer](), "c")
//	... build a template binding FullName ...
//	dto, err := mapper.Map[Customer, CustomerDTO](customer,
//		mapper.WithTemplate(template), mapper.WithExclusions("Age"))
//
// Synthesis is a pure function of its inputs; compiled mappers are cached
// per configuration in a Cache.
package mapper
