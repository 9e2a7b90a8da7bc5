// Package query provides consumers for symbolic mappings.
//
// A Queryable accepts an *expr.Lambda as a projection. Memory compiles it
// and applies it lazily to an in-process sequence; Table keeps it symbolic,
// composes successive projections with expr.Inline and renders the result
// as a SQL SELECT statement without executing anything.
package query
