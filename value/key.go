package value

import (
	"fmt"
	"maps"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"time"

	"typecaster/primitive"
)

type dateKey int64

type bigKey string

type renderedKey string

// KeyOf returns a comparable key under which v is deduplicated in a Set or Map.
// Pointers, including *Set, *Map and class instances, are keyed by identity,
// so a Set<Set<string>> keeps two distinct inner sets with equal elements.
func KeyOf(v any) any {
	switch x := v.(type) {
	case nil, string, bool:
		return x
	case time.Time:
		return dateKey(x.UnixNano())
	case *big.Int:
		if x == nil {
			return nil
		}
		return bigKey(x.String())
	}

	if f, ok := primitive.ToFloat(v); ok {
		return f
	}

	if reflect.TypeOf(v).Comparable() {
		return v
	}

	var b strings.Builder
	render(&b, v)

	return renderedKey(b.String())
}

func render(b *strings.Builder, v any) {
	switch x := v.(type) {
	case []any:
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			render(b, item)
		}
		b.WriteByte(']')
	case map[string]any:
		keys := slices.Sorted(maps.Keys(x))
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%q:", k)
			render(b, x[k])
		}
		b.WriteByte('}')
	default:
		if v != nil && reflect.TypeOf(v).Comparable() {
			v = KeyOf(v)
		}
		fmt.Fprintf(b, "%#v", v)
	}
}
