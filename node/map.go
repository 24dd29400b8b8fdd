package node

import (
	"fmt"
	"reflect"

	"typecaster/failure"
	"typecaster/value"
)

// mapping fills Go maps from maps and objects. A map with empty struct values
// is filled from sets and arrays as a set of its keys.
func (s *build) mapping(t reflect.Type) Assigner {
	key := s.assigner(t.Key())
	elem := s.assigner(t.Elem())
	isSet := t.Elem().Size() == 0

	return func(dst reflect.Value, v any) error {
		if v == nil {
			dst.SetZero()
			return nil
		}

		entries, ok := entriesOf(v, isSet)
		if !ok {
			return failure.Invalid(t.String(), v, fmt.Errorf("%T is not a map", v))
		}

		out := reflect.MakeMapWithSize(t, len(entries))

		for _, e := range entries {
			k := reflect.New(t.Key()).Elem()
			if err := key(k, e.Key); err != nil {
				return failure.Wrap(err, failure.Key(fmt.Sprint(e.Key)))
			}

			val := reflect.New(t.Elem()).Elem()
			if err := elem(val, e.Value); err != nil {
				return failure.Wrap(err, failure.Key(fmt.Sprint(e.Key)))
			}

			out.SetMapIndex(k, val)
		}

		dst.Set(out)

		return nil
	}
}

func entriesOf(v any, isSet bool) ([]value.Entry, bool) {
	if isSet {
		if members, ok := value.SetMembers(v); ok {
			return setEntries(members), true
		}

		if items, ok := value.Items(v); ok {
			return setEntries(items), true
		}
	}

	return value.MapEntries(v)
}

func setEntries(members []any) []value.Entry {
	entries := make([]value.Entry, len(members))
	for i, m := range members {
		entries[i] = value.Entry{Key: m}
	}

	return entries
}
