package primitive

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"typecaster/options"
	"typecaster/utils"
)

// The functions below turn a dynamic value into the internal representation
// of a scalar descriptor. With options.CategoryNone only values already of the
// right shape are accepted; every other category widens what is coerced.

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func notConvertible(v any, to string) error {
	return fmt.Errorf("%w: %T to %s", ErrNotConvertible, v, to)
}

// Number coerces v into a float64.
func Number(v any, allowed options.CategoryEnum) (float64, error) {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, notConvertible(v, "number")
		}
		return finite(f)
	case string:
		if !allowed.Has(options.CategoryTextNumber) {
			return 0, notConvertible(v, "number")
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q is not a number", ErrNotConvertible, x)
		}
		return f, nil
	case bool:
		if !allowed.Has(options.CategoryNumericBool) {
			return 0, notConvertible(v, "number")
		}
		if x {
			return 1, nil
		}
		return 0, nil
	case *big.Int:
		if x == nil || !allowed.Has(options.CategoryUnsafeNumber) {
			return 0, notConvertible(v, "number")
		}
	}

	if f, ok := ToFloat(v); ok {
		return finite(f)
	}

	return 0, notConvertible(v, "number")
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v is not a finite number", ErrNotConvertible, f)
	}

	return f, nil
}

// Integer coerces v into an integer held by kind. A fraction is truncated toward
// zero only when options.CategoryUnsafeNumber is allowed.
func Integer(v any, kind KindEnum, allowed options.CategoryEnum) (int64, error) {
	var i int64

	switch src := Of(v); {
	case src.IsInteger() && src != KindDuration, src == KindBigInt && v.(*big.Int) != nil:
		n, err := intOf(v, src)
		if err != nil {
			return 0, err
		}
		i = n

	default:
		f, err := Number(v, allowed)
		if err != nil {
			return 0, err
		}

		if !utils.IsIntegral(f) && allowed.Has(options.CategoryUnsafeNumber) {
			f = math.Trunc(f)
		}

		n, err := intOf(f, KindFloat64)
		if err != nil {
			return 0, err
		}
		i = n
	}

	lo, hi := kind.Range()
	if !utils.IsInRange(lo, float64(i), hi) {
		return 0, fmt.Errorf("%w: %d for %s", ErrOutOfRange, i, kind)
	}

	return i, nil
}

// Float32 coerces v into a number representable as float32, rounded to it.
func Float32(v any, allowed options.CategoryEnum) (float64, error) {
	f, err := Number(v, allowed)
	if err != nil {
		return 0, err
	}

	if math.Abs(f) > math.MaxFloat32 {
		return 0, fmt.Errorf("%w: %v for float32", ErrOutOfRange, f)
	}

	return float64(float32(f)), nil
}

// Boolean coerces v into a bool.
func Boolean(v any, allowed options.CategoryEnum) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		if !allowed.Has(options.CategoryTextualBool) {
			return false, notConvertible(v, "boolean")
		}

		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}

		return false, fmt.Errorf("%w: %q is not a boolean", ErrNotConvertible, x)
	}

	if Of(v) == KindBool {
		return reflect.ValueOf(v).Bool(), nil
	}

	if !allowed.Has(options.CategoryNumericBool) {
		return false, notConvertible(v, "boolean")
	}

	f, err := Number(v, options.CategoryNone)
	switch {
	case err != nil:
		return false, notConvertible(v, "boolean")
	case f == 1:
		return true, nil
	case f == 0:
		return false, nil
	}

	return false, fmt.Errorf("%w: %v is not 0 or 1", ErrNotConvertible, f)
}

// String coerces v into a string.
func String(v any, allowed options.CategoryEnum) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		if allowed.Has(options.CategoryTextNumber) {
			return x.String(), nil
		}
	case bool:
		if allowed.Has(options.CategoryTextualBool) {
			return strconv.FormatBool(x), nil
		}
	case *big.Int:
		if x != nil && allowed.Has(options.CategoryTextBigInt) {
			return x.String(), nil
		}
	default:
		k := Of(v)
		if k == KindString {
			return reflect.ValueOf(v).String(), nil
		}

		if !allowed.Has(options.CategoryTextNumber) {
			break
		}

		switch {
		case k == KindDuration:
		case k.IsSigned():
			n, _ := intOf(v, k)
			return strconv.FormatInt(n, 10), nil
		case k.IsUnsigned():
			n, _ := uintOf(v, k)
			return strconv.FormatUint(n, 10), nil
		case k.IsFloat():
			f, _ := ToFloat(v)
			return FormatNumber(f), nil
		}
	}

	return "", notConvertible(v, "string")
}

// BigInt coerces v into a *big.Int. The result never aliases v.
func BigInt(v any, allowed options.CategoryEnum) (*big.Int, error) {
	if b, ok := v.(*big.Int); ok && b != nil {
		return new(big.Int).Set(b), nil
	}

	if !allowed.Has(options.CategoryTextBigInt) {
		return nil, notConvertible(v, "bigint")
	}

	switch x := v.(type) {
	case string:
		b, ok := new(big.Int).SetString(strings.TrimSpace(x), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrNotConvertible, x)
		}
		return b, nil
	case json.Number:
		if b, ok := new(big.Int).SetString(x.String(), 10); ok {
			return b, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, notConvertible(v, "bigint")
		}
		return toBigInt(f, KindFloat64)
	}

	src := Of(v)
	if !src.IsNumber() || src == KindDuration {
		return nil, notConvertible(v, "bigint")
	}

	return toBigInt(v, src)
}

// UUID accepts strings in the canonical 8-4-4-4-12 hexadecimal form.
func UUID(v any, _ options.CategoryEnum) (string, error) {
	s, err := String(v, options.CategoryNone)
	if err != nil {
		return "", notConvertible(v, "uuid")
	}

	if !uuidPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not a uuid", ErrNotConvertible, s)
	}

	return s, nil
}
