// Package diagnostic provides structured errors, warnings and "why this
// mapped" explanations for mapping synthesis and mapping profiles.
//
// Key capabilities:
//   - Per-field binding decisions (template kept, auto bound, excluded)
//   - Unmapped destination fields with closest-name suggestions
//   - Incompatible and narrowing conversions
//   - Profile validation errors
package diagnostic
