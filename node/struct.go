package node

import (
	"fmt"
	"iter"
	"reflect"
	"strings"

	"typecaster/failure"
	"typecaster/internal/match"
	"typecaster/value"
)

// object is the read view of a cast class value.
type object interface {
	Get(key string) (any, bool)
	All() iter.Seq2[string, any]
}

type plainObject map[string]any

func (o plainObject) Get(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

func (o plainObject) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for k, v := range o {
			if !yield(k, v) {
				return
			}
		}
	}
}

type fieldPlan struct {
	index  int
	name   string
	key    string
	assign Assigner
}

// structure fills structs from objects, matching keys to exported fields.
func (s *build) structure(t reflect.Type) Assigner {
	var fields []fieldPlan

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		key := JSONName(f)
		if key == "-" {
			continue
		}

		fields = append(fields, fieldPlan{index: i, name: f.Name, key: key, assign: s.assigner(f.Type)})
	}

	ptr := reflect.PointerTo(t)

	return func(dst reflect.Value, v any) error {
		if v == nil {
			dst.SetZero()
			return nil
		}

		rv := reflect.ValueOf(v)
		if rv.Type() == ptr {
			if rv.IsNil() {
				dst.SetZero()
			} else {
				dst.Set(rv.Elem())
			}

			return nil
		}

		var obj object

		switch x := v.(type) {
		case map[string]any:
			obj = plainObject(x)
		case *value.Record:
			obj = x
		default:
			return failure.Invalid(t.String(), v, fmt.Errorf("%T is not an object", v))
		}

		out := reflect.New(t).Elem()

		for _, fp := range fields {
			x, ok := matchField(obj, fp)
			if !ok {
				continue
			}

			if err := fp.assign(out.Field(fp.index), x); err != nil {
				return failure.Wrap(err, failure.Key(fp.key))
			}
		}

		dst.Set(out)

		return nil
	}
}

// matchField tries: json tag name, exact field name, case-insensitive name.
func matchField(obj object, fp fieldPlan) (any, bool) {
	if x, ok := obj.Get(fp.key); ok {
		return x, true
	}

	if fp.name != fp.key {
		if x, ok := obj.Get(fp.name); ok {
			return x, true
		}
	}

	folded := match.Fold(fp.name)
	for k, x := range obj.All() {
		if match.Fold(k) == folded {
			return x, true
		}
	}

	return nil, false
}

// JSONName returns the name a struct field is exchanged under: the json tag
// name if present, the field name otherwise, "-" for ignored fields.
func JSONName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "-"
	}

	// trim options
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}

	if tag == "" {
		return f.Name
	}

	return tag
}

// OmitEmpty reports whether the json tag of f carries omitempty or omitzero.
func OmitEmpty(f reflect.StructField) bool {
	_, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			return true
		}
	}

	return false
}
