package diagnostic

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

var ErrInvalid = errors.New("invalid mapping")

// Codes reported by mapper.Explain.
const (
	CodeTemplateKept    = "template_kept"
	CodeTemplateDropped = "template_dropped"
	CodeAutoBound       = "auto_bound"
	CodeNarrowing       = "narrowing_conversion"
	CodeExcluded        = "excluded"
	CodeTemplateOnly    = "template_only"
	CodeNoSource        = "no_source_field"
	CodeIncompatible    = "incompatible_types"
	CodeSynthesisFailed = "synthesis_failed"
)

// Codes reported by mapping profile validation.
const (
	CodeUnknownType   = "unknown_type"
	CodeUnknownField  = "unknown_field"
	CodeDuplicate     = "duplicate_field"
	CodeBadDefault    = "bad_default"
	CodeConflict      = "conflicting_rule"
	CodeMissingTarget = "missing_target"
	CodeEmptyRule     = "empty_rule"
	CodeTransform     = "invalid_transform"
	CodeBadOption     = "invalid_option"
	CodeNotRecord     = "not_a_record"
)

// Diagnostics holds all diagnostic information collected in one pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// TypePair identifies which type mapping this relates to (if any).
	TypePair string
	// FieldPath identifies which destination field this relates to (if any).
	FieldPath string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Add appends a diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typePair, fieldPath string, suggestions ...string) {
	d.Add(Diagnostic{SeverityError, code, message, typePair, fieldPath, suggestions})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typePair, fieldPath string, suggestions ...string) {
	d.Add(Diagnostic{SeverityWarning, code, message, typePair, fieldPath, suggestions})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typePair, fieldPath string) {
	d.Add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, TypePair: typePair, FieldPath: fieldPath})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	return slices.Concat(d.Errors, d.Warnings, d.Infos)
}

// ForField returns the diagnostics attached to a destination field path.
func (d *Diagnostics) ForField(path string) []Diagnostic {
	var out []Diagnostic

	for _, diag := range d.All() {
		if diag.FieldPath == path {
			out = append(out, diag)
		}
	}

	return out
}

// Codes returns the codes of the diagnostics attached to a field, in
// severity order.
func (d *Diagnostics) Codes(path string) []string {
	var codes []string
	for _, diag := range d.ForField(path) {
		codes = append(codes, diag.Code)
	}

	return codes
}

// Err returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(parts, "; "))
}

// WriteTo prints one diagnostic per line, errors first.
func (d *Diagnostics) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, diag := range d.All() {
		n, err := fmt.Fprintf(w, "%-7s %s\n", diag.Severity, diag)
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
