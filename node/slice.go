package node

import (
	"fmt"
	"reflect"

	"typecaster/failure"
	"typecaster/value"
)

// slice fills slices and arrays from arrays, tuples and sets.
func (s *build) slice(t reflect.Type) Assigner {
	elem := s.assigner(t.Elem())
	isArray := t.Kind() == reflect.Array

	return func(dst reflect.Value, v any) error {
		if v == nil {
			dst.SetZero()
			return nil
		}

		items, ok := value.Items(v)
		if !ok {
			items, ok = value.SetMembers(v)
		}

		if !ok {
			return failure.Invalid(t.String(), v, fmt.Errorf("%T is not a sequence", v))
		}

		var out reflect.Value

		if isArray {
			if len(items) != t.Len() {
				return failure.Invalid(t.String(), v,
					fmt.Errorf("%w: %d items for array of %d", failure.ErrLength, len(items), t.Len()))
			}

			out = reflect.New(t).Elem()
		} else {
			out = reflect.MakeSlice(t, len(items), len(items))
		}

		for i, item := range items {
			if err := elem(out.Index(i), item); err != nil {
				return failure.Wrap(err, failure.Index(i))
			}
		}

		dst.Set(out)

		return nil
	}
}
