package primitive

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"typecaster/utils"
)

var (
	ErrNotConvertible = errors.New("value is not convertible")
	ErrOutOfRange     = errors.New("value is out of range")
	ErrFraction       = errors.New("value has a fractional part")
)

// ToFloat extracts a float64 from any Go numeric value or json.Number.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case *big.Int:
		if n == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	}

	k := Of(v)
	if !k.IsNumber() || k == KindDuration {
		return 0, false
	}

	rv := reflect.ValueOf(v)
	switch {
	case k.IsFloat():
		return rv.Float(), true
	case k.IsSigned():
		return float64(rv.Int()), true
	default:
		return float64(rv.Uint()), true
	}
}

// IsNumeric reports whether v is a Go numeric value or json.Number.
func IsNumeric(v any) bool {
	_, ok := ToFloat(v)
	return ok
}

// FormatNumber renders f the way JSON producers print numbers: no exponent
// for ordinary magnitudes, shortest round-trip digits.
func FormatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Convert places the dynamic primitive value v into a value of type to.
// Integer targets accept integral numbers only and are range checked.
func Convert(v any, to reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(to), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type() == to {
		return rv, nil
	}

	src, dst := Of(v), FromReflectType(to)
	if _, isNumber := v.(json.Number); isNumber {
		src = KindFloat64
	}

	switch {
	case src == 0 || dst == 0:
		return reflect.Value{}, fmt.Errorf("%w: %T to %s", ErrNotConvertible, v, to)

	case dst == KindBigInt:
		b, err := toBigInt(v, src)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil

	case dst.IsInteger() && (src.IsNumber() || src == KindBigInt):
		return toInteger(v, src, dst, to)

	case dst.IsFloat() && (src.IsNumber() || src == KindBigInt):
		f, _ := ToFloat(v)
		out := reflect.New(to).Elem()
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrOutOfRange, f, to)
		}
		out.SetFloat(f)
		return out, nil

	case dst == src && rv.Type().ConvertibleTo(to):
		return rv.Convert(to), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %T to %s", ErrNotConvertible, v, to)
}

func toInteger(v any, src, dst KindEnum, to reflect.Type) (reflect.Value, error) {
	out := reflect.New(to).Elem()

	if dst.IsUnsigned() {
		u, err := uintOf(v, src)
		if err != nil {
			return reflect.Value{}, err
		}

		if out.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("%w: %d for %s", ErrOutOfRange, u, to)
		}

		out.SetUint(u)
		return out, nil
	}

	i, err := intOf(v, src)
	if err != nil {
		return reflect.Value{}, err
	}

	if out.OverflowInt(i) {
		return reflect.Value{}, fmt.Errorf("%w: %d for %s", ErrOutOfRange, i, to)
	}

	out.SetInt(i)
	return out, nil
}

func intOf(v any, src KindEnum) (int64, error) {
	switch {
	case src == KindBigInt:
		b := v.(*big.Int)
		if !b.IsInt64() {
			return 0, fmt.Errorf("%w: %s", ErrOutOfRange, b)
		}
		return b.Int64(), nil
	case src.IsSigned():
		return reflect.ValueOf(v).Int(), nil
	case src.IsUnsigned():
		u := reflect.ValueOf(v).Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, u)
		}
		return int64(u), nil
	}

	f, _ := ToFloat(v)
	if !utils.IsIntegral(f) {
		return 0, fmt.Errorf("%w: %v", ErrFraction, f)
	}

	if f < -math.Ldexp(1, 63) || f >= math.Ldexp(1, 63) {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, f)
	}

	return int64(f), nil
}

func uintOf(v any, src KindEnum) (uint64, error) {
	switch {
	case src == KindBigInt:
		b := v.(*big.Int)
		if !b.IsUint64() {
			return 0, fmt.Errorf("%w: %s", ErrOutOfRange, b)
		}
		return b.Uint64(), nil
	case src.IsUnsigned():
		return reflect.ValueOf(v).Uint(), nil
	case src.IsSigned():
		i := reflect.ValueOf(v).Int()
		if i < 0 {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, i)
		}
		return uint64(i), nil
	}

	f, _ := ToFloat(v)
	if !utils.IsIntegral(f) {
		return 0, fmt.Errorf("%w: %v", ErrFraction, f)
	}

	if f < 0 || f >= math.Ldexp(1, 64) {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, f)
	}

	return uint64(f), nil
}

func toBigInt(v any, src KindEnum) (*big.Int, error) {
	switch {
	case src == KindBigInt:
		return new(big.Int).Set(v.(*big.Int)), nil
	case src.IsSigned():
		return big.NewInt(reflect.ValueOf(v).Int()), nil
	case src.IsUnsigned():
		return new(big.Int).SetUint64(reflect.ValueOf(v).Uint()), nil
	case src.IsFloat():
		f, _ := ToFloat(v)
		if !utils.IsIntegral(f) {
			return nil, fmt.Errorf("%w: %v", ErrFraction, f)
		}
		b, _ := big.NewFloat(f).Int(nil)
		return b, nil
	}

	return nil, fmt.Errorf("%w: %T to bigint", ErrNotConvertible, v)
}
