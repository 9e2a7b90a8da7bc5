package match

import (
	"fmt"
	"reflect"

	"expression-mapper/primitive"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion requires a custom function (pointer lifting, element mapping).
	TypeNeedsTransform
	// TypeConvertible means an explicit conversion produces the target type.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Bindable returns true if a value can be bound without a custom transform.
func (c TypeCompatibility) Bindable() bool {
	return c >= TypeConvertible
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Numeric       bool   // Conversion goes through primitive numeric conversion
	Reason        string // Human-readable explanation
	SourceType    string
	TargetType    string
}

// ScoreTypeCompatibility determines the compatibility between a source and
// target type. Numeric conversions are limited to the allowed categories;
// other conversions are accepted only between a named bool, string or
// complex type (an enum) and its predeclared base kind.
func ScoreTypeCompatibility(source, target reflect.Type, allowed primitive.CategoryEnum) TypeCompatibilityResult {
	res := TypeCompatibilityResult{
		SourceType: source.String(),
		TargetType: target.String(),
	}

	switch {
	case source == target:
		res.Compatibility = TypeIdentical
		res.Reason = "types are identical"
	case source.AssignableTo(target):
		res.Compatibility = TypeAssignable
		res.Reason = "source is assignable to target"
	case primitive.CanConvert(source, target, allowed):
		res.Compatibility = TypeConvertible
		res.Numeric = true
		res.Reason = "numeric conversion"
	case IsNumericType(source) && IsNumericType(target):
		res.Compatibility = TypeIncompatible
		res.Reason = fmt.Sprintf("numeric conversion %s to %s is not enabled", source, target)
	case isEnumPair(source, target):
		res.Compatibility = TypeConvertible
		res.Reason = "enum and its base type"
	case needsTransform(source, target):
		res.Compatibility = TypeNeedsTransform
		res.Reason = "types require a transform function"
	default:
		res.Compatibility = TypeIncompatible
		res.Reason = "types are not compatible"
	}

	return res
}

// family groups the basic kinds whose Go conversions never change the value's meaning.
func family(t reflect.Type) reflect.Kind {
	switch t.Kind() {
	case reflect.Bool, reflect.String:
		return t.Kind()
	case reflect.Complex64, reflect.Complex128:
		return reflect.Complex128
	default:
		return reflect.Invalid
	}
}

// isEnumPair reports whether one type is a named type of the other's basic
// family and the other is predeclared.
func isEnumPair(source, target reflect.Type) bool {
	if family(source) == reflect.Invalid || family(source) != family(target) {
		return false
	}

	if source.PkgPath() != "" && target.PkgPath() != "" {
		return false
	}

	return source.ConvertibleTo(target)
}

// needsTransform checks for cases that a custom function could bridge.
func needsTransform(source, target reflect.Type) bool {
	if source.Kind() == reflect.Pointer && target.Kind() != reflect.Pointer {
		// *T -> T (dereference possible if not nil)
		return ScoreTypeCompatibility(source.Elem(), target, primitive.CategoryAll).Compatibility.Bindable()
	}

	if source.Kind() != reflect.Pointer && target.Kind() == reflect.Pointer {
		// T -> *T (take address)
		return ScoreTypeCompatibility(source, target.Elem(), primitive.CategoryAll).Compatibility.Bindable()
	}

	if source.Kind() == reflect.Slice && target.Kind() == reflect.Slice {
		return ScoreTypeCompatibility(source.Elem(), target.Elem(), primitive.CategoryAll).Compatibility >= TypeNeedsTransform
	}

	// Struct to struct (might have compatible fields)
	return source.Kind() == reflect.Struct && target.Kind() == reflect.Struct
}

// IsNumericType returns true if the type is a number or decimal.Decimal.
func IsNumericType(t reflect.Type) bool {
	return primitive.CanConvert(t, t, primitive.CategoryAll)
}
