package value

import (
	"reflect"
)

// Items returns the elements of a slice or array value. It reports false for
// anything else, strings included.
func Items(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}

	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}

	return items, true
}
