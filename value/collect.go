package value

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

// MapEntries returns the entries of a *Map in insertion order, or of a Go map
// with keys sorted so that the result is deterministic.
func MapEntries(v any) ([]Entry, bool) {
	if m, ok := v.(*Map); ok {
		if m == nil {
			return nil, false
		}
		return m.Entries(), true
	}

	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Map {
		return nil, false
	}

	entries := make([]Entry, 0, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		entries = append(entries, Entry{Key: it.Key().Interface(), Value: it.Value().Interface()})
	}

	slices.SortFunc(entries, func(a, b Entry) int { return compareKeys(a.Key, b.Key) })

	return entries, true
}

// SetMembers returns the members of a *Set in insertion order, or the keys of a
// Go map with empty struct values in sorted order.
func SetMembers(v any) ([]any, bool) {
	if s, ok := v.(*Set); ok {
		if s == nil {
			return nil, false
		}
		return s.Values(), true
	}

	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Map || rv.Type().Elem().Size() != 0 {
		return nil, false
	}

	members := make([]any, 0, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		members = append(members, it.Key().Interface())
	}

	slices.SortFunc(members, compareKeys)

	return members, true
}

func compareKeys(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	}

	ka, kb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ka.Kind() == kb.Kind() {
		switch {
		case ka.CanInt():
			return cmp.Compare(ka.Int(), kb.Int())
		case ka.CanUint():
			return cmp.Compare(ka.Uint(), kb.Uint())
		case ka.CanFloat():
			return cmp.Compare(ka.Float(), kb.Float())
		case ka.Kind() == reflect.String:
			return cmp.Compare(ka.String(), kb.String())
		}
	}

	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
