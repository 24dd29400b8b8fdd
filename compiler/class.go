package compiler

import (
	"fmt"
	"reflect"

	"typecaster/descriptor"
	"typecaster/failure"
	"typecaster/internal/match"
	"typecaster/node"
	"typecaster/serializer"
	"typecaster/value"
)

type property struct {
	descriptor.Property

	typ    string
	conv   serializer.Func
	field  []int
	assign node.Assigner
}

// getter reads a property from an input object.
type getter func(p *property) (any, bool)

type class struct {
	typ      string
	identity reflect.Type
	props    []property
}

func (s *session) class(ref descriptor.Ref, n descriptor.Class) (serializer.Func, error) {
	c := &class{
		typ:      ref.String(),
		identity: n.Identity,
		props:    make([]property, len(n.Properties)),
	}

	for i, p := range n.Properties {
		conv, err := s.sub(p.Type)
		if err != nil {
			return nil, err
		}

		c.props[i] = property{Property: p, typ: ref.At(p.Type).String(), conv: conv}

		if n.Identity == nil {
			continue
		}

		f, ok := fieldFor(n.Identity, p.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrNoField, n.Identity, p.Name)
		}

		c.props[i].field = f.Index
		c.props[i].assign = s.c.reg.Nodes().For(f.Type)
	}

	if s.dir == serializer.Cast {
		return c.cast, nil
	}

	return c.serialize, nil
}

// fieldFor finds the exported field of t bound to a property: by json name,
// then by Go name, then by folded name.
func fieldFor(t reflect.Type, name string) (reflect.StructField, bool) {
	fields := make([]reflect.StructField, 0, t.NumField())
	for i := range t.NumField() {
		fields = append(fields, t.Field(i))
	}

	for _, eq := range []func(f reflect.StructField) bool{
		func(f reflect.StructField) bool { return node.JSONName(f) == name },
		func(f reflect.StructField) bool { return f.Name == name },
		func(f reflect.StructField) bool { return match.Fold(f.Name) == match.Fold(name) },
	} {
		for _, f := range fields {
			if f.IsExported() && !f.Anonymous && eq(f) {
				return f, true
			}
		}
	}

	return reflect.StructField{}, false
}

func (c *class) object(in any) (getter, bool) {
	switch m := in.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return func(p *property) (any, bool) {
			v, ok := m[p.Name]
			return v, ok
		}, true
	case *value.Record:
		if m == nil {
			return nil, false
		}

		return func(p *property) (any, bool) { return m.Get(p.Name) }, true
	}

	rv := reflect.ValueOf(in)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
		rv = rv.Elem()
	}

	switch {
	case c.identity != nil && rv.Type() == c.identity:
		return func(p *property) (any, bool) {
			return fieldValue(rv.FieldByIndex(p.field)), true
		}, true

	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		kt := rv.Type().Key()

		return func(p *property) (any, bool) {
			v := rv.MapIndex(reflect.ValueOf(p.Name).Convert(kt))
			if !v.IsValid() {
				return nil, false
			}

			return fieldValue(v), true
		}, true
	}

	return nil, false
}

// fieldValue unwraps a Go value read from a struct field or map entry. Nil
// references read as nil and pointers to scalars as the scalar.
func fieldValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		if v.IsNil() {
			return nil
		}
	}

	if v.Kind() == reflect.Pointer && v.Elem().Kind() != reflect.Struct {
		return v.Elem().Interface()
	}

	return v.Interface()
}

// resolve converts property p of an input object. It reports false when the
// property is left unset: absent or null on an optional property without a
// value to fall back to.
func (p *property) resolve(get getter) (any, bool, error) {
	raw, present := get(p)

	switch {
	case !present && p.HasDefault():
		raw = p.Default()
	case !present && p.Optional:
		return nil, false, nil
	case !present:
		return nil, false, failure.Missing(p.Name, p.typ)
	case raw == nil && p.Optional:
		return nil, false, nil
	case raw == nil && p.HasDefault():
		raw = p.Default()
	}

	v, err := p.conv(raw)
	if err != nil {
		return nil, false, failure.Wrap(err, failure.Key(p.Name))
	}

	return v, true, nil
}

func (c *class) cast(in any) (any, error) {
	get, ok := c.object(in)
	if !ok {
		return nil, failure.Invalid(c.typ, in, ErrNotObject)
	}

	if c.identity == nil {
		out := make(map[string]any, len(c.props))

		for i := range c.props {
			p := &c.props[i]

			v, _, err := p.resolve(get)
			if err != nil {
				return nil, err
			}

			out[p.Name] = v
		}

		return out, nil
	}

	out := reflect.New(c.identity)

	for i := range c.props {
		p := &c.props[i]

		v, set, err := p.resolve(get)
		if err != nil {
			return nil, err
		}

		if !set || v == nil {
			continue
		}

		if err := p.assign(out.Elem().FieldByIndex(p.field), v); err != nil {
			return nil, failure.Wrap(err, failure.Key(p.Name))
		}
	}

	return out.Interface(), nil
}

func (c *class) serialize(in any) (any, error) {
	get, ok := c.object(in)
	if !ok {
		return nil, failure.Invalid(c.typ, in, ErrNotObject)
	}

	out := value.NewRecord()

	for i := range c.props {
		p := &c.props[i]

		v, set, err := p.resolve(get)
		if err != nil {
			return nil, err
		}

		if set && (v != nil || !p.Optional) {
			out.Set(p.Name, v)
		}
	}

	return out, nil
}
