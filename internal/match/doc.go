// Package match decides whether a source field can feed a destination field
// and suggests near-miss names for diagnostics.
//
// Binding always requires exact, case-sensitive name equality; the fuzzy
// helpers here only feed "did you mean" suggestions.
//
// Key functions:
//   - ScoreTypeCompatibility: identical / assignable / convertible / incompatible
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidate names by similarity
package match
