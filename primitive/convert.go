package primitive

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"
)

var (
	ErrNotConvertible = errors.New("conversion is not allowed")
	ErrOverflow       = errors.New("value does not fit destination type")
)

// ConvertFunc converts a value of the source type into a value of the destination type.
type ConvertFunc func(v reflect.Value) (reflect.Value, error)

// CanConvert reports whether a numeric conversion from -> to is enabled by allowed.
func CanConvert(from, to reflect.Type, allowed CategoryEnum) bool {
	pair := ConversionPair{numericKind(from), numericKind(to)}
	if pair.From == 0 || pair.To == 0 {
		return false
	}

	return Allows(allowed, pair)
}

// Converter returns the runtime conversion from -> to. Narrowing conversions
// truncate fractions but report ErrOverflow when the value is out of range.
func Converter(from, to reflect.Type, allowed CategoryEnum) (ConvertFunc, error) {
	if !CanConvert(from, to, allowed) {
		return nil, fmt.Errorf("%w: %s to %s", ErrNotConvertible, from, to)
	}

	fromKind := numericKind(from)

	switch {
	case numericKind(to) == KindDecimal:
		return toDecimal(fromKind), nil
	case fromKind == KindDecimal:
		return fromDecimal(to), nil
	default:
		return numberConverter(fromKind, to), nil
	}
}

func numberConverter(from KindEnum, to reflect.Type) ConvertFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		out := reflect.New(to).Elem()

		var err error

		switch {
		case from.IsSigned():
			err = setInt(out, v.Int())
		case from.IsUnsigned():
			err = setUint(out, v.Uint())
		case from.IsFloat():
			err = setFloat(out, v.Float())
		default:
			err = fmt.Errorf("%w: %s to %s", ErrNotConvertible, from, to)
		}

		if err != nil {
			return reflect.Value{}, err
		}

		return out, nil
	}
}

func setInt(out reflect.Value, i int64) error {
	switch {
	case out.CanInt():
		if out.OverflowInt(i) {
			return overflow(i, out.Type())
		}

		out.SetInt(i)
	case out.CanUint():
		if i < 0 || out.OverflowUint(uint64(i)) {
			return overflow(i, out.Type())
		}

		out.SetUint(uint64(i))
	default:
		out.SetFloat(float64(i))
	}

	return nil
}

func setUint(out reflect.Value, u uint64) error {
	switch {
	case out.CanInt():
		if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
			return overflow(u, out.Type())
		}

		out.SetInt(int64(u))
	case out.CanUint():
		if out.OverflowUint(u) {
			return overflow(u, out.Type())
		}

		out.SetUint(u)
	default:
		out.SetFloat(float64(u))
	}

	return nil
}

func setFloat(out reflect.Value, f float64) error {
	if out.CanFloat() {
		if out.OverflowFloat(f) {
			return overflow(f, out.Type())
		}

		out.SetFloat(f)

		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return overflow(f, out.Type())
	}

	// 2^63 and 2^64 are exactly representable as float64
	if out.CanInt() {
		if f < -(1<<63) || f >= 1<<63 || out.OverflowInt(int64(f)) {
			return overflow(f, out.Type())
		}

		out.SetInt(int64(f))

		return nil
	}

	if f <= -1 || f >= 1<<64 || out.OverflowUint(uint64(f)) {
		return overflow(f, out.Type())
	}

	out.SetUint(uint64(f))

	return nil
}

func toDecimal(from KindEnum) ConvertFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		var d decimal.Decimal

		switch {
		case from == KindDecimal:
			d = v.Interface().(decimal.Decimal)
		case from.IsSigned():
			d = decimal.NewFromInt(v.Int())
		case from.IsUnsigned():
			d = decimal.NewFromBigInt(new(big.Int).SetUint64(v.Uint()), 0)
		case from.IsFloat():
			f := v.Float()
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return reflect.Value{}, overflow(f, decimalType)
			}

			if from == KindFloat32 {
				d = decimal.NewFromFloat32(float32(f))
			} else {
				d = decimal.NewFromFloat(f)
			}
		default:
			return reflect.Value{}, fmt.Errorf("%w: %s to decimal", ErrNotConvertible, from)
		}

		return reflect.ValueOf(d), nil
	}
}

func fromDecimal(to reflect.Type) ConvertFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		d := v.Interface().(decimal.Decimal)
		out := reflect.New(to).Elem()

		switch {
		case out.CanFloat():
			f, _ := d.Float64()
			if out.OverflowFloat(f) {
				return reflect.Value{}, overflow(d, to)
			}

			out.SetFloat(f)
		case out.CanInt():
			b := d.BigInt()
			if !b.IsInt64() || out.OverflowInt(b.Int64()) {
				return reflect.Value{}, overflow(d, to)
			}

			out.SetInt(b.Int64())
		default:
			b := d.BigInt()
			if !b.IsUint64() || out.OverflowUint(b.Uint64()) {
				return reflect.Value{}, overflow(d, to)
			}

			out.SetUint(b.Uint64())
		}

		return out, nil
	}
}

func overflow(value any, to reflect.Type) error {
	return fmt.Errorf("%w: %v overflows %s", ErrOverflow, value, to)
}
