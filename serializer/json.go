package serializer

import (
	"errors"
	"fmt"
	"sync"

	"typecaster/descriptor"
	"typecaster/failure"
	"typecaster/options"
	"typecaster/primitive"
	"typecaster/value"
)

var (
	ErrNotCollection = errors.New("value is not a collection")
	ErrNotPair       = errors.New("map entry is not a [key, value] pair")
	ErrLiteral       = errors.New("value does not equal the literal")
)

var defaultRegistry = sync.OnceValue(func() *Registry {
	return JSON(DefaultConfig())
})

// Default returns the process-wide JSON dialect.
func Default() *Registry {
	return defaultRegistry()
}

// JSON creates the JSON dialect. Casting accepts JSON-compatible input and the
// coercions allowed by cfg. Serialization produces JSON-compatible output:
// integer brands as int64, bigint as a decimal string, dates as ISO-8601
// strings, sets as arrays and maps as arrays of [key, value] pairs.
func JSON(cfg Config) *Registry {
	r := NewRegistry(cfg)

	r.Register(descriptor.KindPrimitive, Factories{Cast: castPrimitive, Serialize: serializePrimitive})
	r.Register(descriptor.KindBranded, Factories{Cast: castBranded, Serialize: serializeBranded})
	r.Register(descriptor.KindLiteral, Factories{Cast: literalFactory, Serialize: literalFactory})
	r.Register(descriptor.KindDate, Factories{Cast: castDate, Serialize: serializeDate})
	r.Register(descriptor.KindCollection, Factories{Cast: castCollection, Serialize: serializeCollection})

	return r
}

// allowed returns the coercions of the direction being compiled.
func allowed(b Builder) options.CategoryEnum {
	return b.Guards().Allowed(b.Direction().Mode())
}

// coercion adapts a coercion function to a Func reporting ValidationErrors.
func coercion[T any](typ string, coerce func(any, options.CategoryEnum) (T, error), allowed options.CategoryEnum) Func {
	return func(in any) (any, error) {
		out, err := coerce(in, allowed)
		if err != nil {
			return nil, failure.Invalid(typ, in, err)
		}

		return out, nil
	}
}

func castPrimitive(b Builder, n descriptor.Node) (Func, error) {
	typ, allowed := b.Ref().String(), allowed(b)

	switch t := n.(descriptor.Primitive).Type; t {
	case descriptor.PrimitiveString:
		return coercion(typ, primitive.String, allowed), nil
	case descriptor.PrimitiveNumber:
		return coercion(typ, primitive.Number, allowed), nil
	case descriptor.PrimitiveBoolean:
		return coercion(typ, primitive.Boolean, allowed), nil
	case descriptor.PrimitiveBigInt:
		return coercion(typ, primitive.BigInt, allowed), nil
	case descriptor.PrimitiveAny:
		return identity, nil
	default:
		return nil, fmt.Errorf("unknown primitive %q", t)
	}
}

func serializePrimitive(b Builder, n descriptor.Node) (Func, error) {
	if n.(descriptor.Primitive).Type != descriptor.PrimitiveBigInt {
		return castPrimitive(b, n)
	}

	typ := b.Ref().String()

	return func(in any) (any, error) {
		i, err := primitive.BigInt(in, options.CategoryNone)
		if err != nil {
			return nil, failure.Invalid(typ, in, err)
		}

		return i.String(), nil
	}, nil
}

func identity(in any) (any, error) {
	return in, nil
}

func castBranded(b Builder, n descriptor.Node) (Func, error) {
	br := n.(descriptor.Branded).Brand
	typ, allowed := b.Ref().String(), allowed(b)

	switch k := br.Primitive(); {
	case br == descriptor.BrandUUID:
		return coercion(typ, primitive.UUID, allowed), nil
	case k == primitive.KindFloat32:
		return coercion(typ, primitive.Float32, allowed), nil
	case k.IsInteger():
		return coercion(typ, func(v any, allowed options.CategoryEnum) (int64, error) {
			return primitive.Integer(v, k, allowed)
		}, allowed), nil
	}

	return nil, &failure.UnsupportedTypeError{
		Kind:    n.Kind().String(),
		Brand:   string(br),
		Dialect: b.Config().Name,
	}
}

// Integer brands serialize as int64 and float32 as float64, which is what
// casting produces, so both directions share the factory.
func serializeBranded(b Builder, n descriptor.Node) (Func, error) {
	return castBranded(b, n)
}

func literalFactory(b Builder, n descriptor.Node) (Func, error) {
	lit := n.(descriptor.Literal).Value
	typ := b.Ref().String()

	g, err := b.Guards().Guard(b.Ref(), b.Direction().Mode())
	if err != nil {
		return nil, err
	}

	return func(in any) (any, error) {
		if !g(in) {
			return nil, failure.Invalid(typ, in, ErrLiteral)
		}

		return lit, nil
	}, nil
}

func castDate(b Builder, _ descriptor.Node) (Func, error) {
	return coercion(b.Ref().String(), value.AsDate, allowed(b)), nil
}

func serializeDate(b Builder, _ descriptor.Node) (Func, error) {
	typ := b.Ref().String()

	return func(in any) (any, error) {
		t, err := value.AsDate(in, options.CategoryNone)
		if err != nil {
			return nil, failure.Invalid(typ, in, err)
		}

		return value.FormatDate(t), nil
	}, nil
}

type collection struct {
	typ       string
	key, elem Func
	fromArray bool
}

func newCollection(b Builder, n descriptor.Collection) (*collection, error) {
	if n.Type != descriptor.CollectionSet && n.Type != descriptor.CollectionMap {
		return nil, fmt.Errorf("unknown collection kind %d", n.Type)
	}

	elem, err := b.Sub(n.Elem)
	if err != nil {
		return nil, err
	}

	c := &collection{
		typ:       b.Ref().String(),
		elem:      elem,
		fromArray: allowed(b).Has(options.CategoryCollections),
	}

	if n.Type == descriptor.CollectionMap {
		if c.key, err = b.Sub(n.Key); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func castCollection(b Builder, n descriptor.Node) (Func, error) {
	coll := n.(descriptor.Collection)

	c, err := newCollection(b, coll)
	if err != nil {
		return nil, err
	}

	if coll.Type == descriptor.CollectionSet {
		return c.castSet, nil
	}

	return c.castMap, nil
}

func serializeCollection(b Builder, n descriptor.Node) (Func, error) {
	coll := n.(descriptor.Collection)

	c, err := newCollection(b, coll)
	if err != nil {
		return nil, err
	}

	if coll.Type == descriptor.CollectionSet {
		return c.serializeSet, nil
	}

	return c.serializeMap, nil
}

func (c *collection) members(in any) ([]any, error) {
	if members, ok := value.SetMembers(in); ok {
		return members, nil
	}

	if items, ok := value.Items(in); ok && c.fromArray {
		return items, nil
	}

	return nil, failure.Invalid(c.typ, in, ErrNotCollection)
}

func (c *collection) castSet(in any) (any, error) {
	members, err := c.members(in)
	if err != nil {
		return nil, err
	}

	out := value.NewSet()

	for i, m := range members {
		v, err := c.elem(m)
		if err != nil {
			return nil, failure.Wrap(err, failure.Index(i))
		}

		out.Add(v)
	}

	return out, nil
}

func (c *collection) serializeSet(in any) (any, error) {
	members, ok := value.SetMembers(in)
	if !ok {
		return nil, failure.Invalid(c.typ, in, ErrNotCollection)
	}

	out := make([]any, len(members))

	for i, m := range members {
		v, err := c.elem(m)
		if err != nil {
			return nil, failure.Wrap(err, failure.Index(i))
		}

		out[i] = v
	}

	return out, nil
}

// pair is one map entry and the path segment locating it in the input.
type pair struct {
	seg        failure.Segment
	key, value any
}

func (c *collection) pairs(in any) ([]pair, error) {
	if entries, ok := value.MapEntries(in); ok {
		out := make([]pair, len(entries))
		for i, e := range entries {
			out[i] = pair{seg: failure.Key(fmt.Sprint(e.Key)), key: e.Key, value: e.Value}
		}

		return out, nil
	}

	items, ok := value.Items(in)
	if !ok || !c.fromArray {
		return nil, failure.Invalid(c.typ, in, ErrNotCollection)
	}

	out := make([]pair, len(items))

	for i, item := range items {
		kv, ok := value.Items(item)
		if !ok || len(kv) != 2 {
			return nil, failure.Wrap(failure.Invalid("[key, value]", item, ErrNotPair), failure.Index(i))
		}

		out[i] = pair{seg: failure.Index(i), key: kv[0], value: kv[1]}
	}

	return out, nil
}

func (c *collection) entry(p pair) (k, v any, err error) {
	if k, err = c.key(p.key); err != nil {
		return nil, nil, failure.Wrap(err, p.seg)
	}

	if v, err = c.elem(p.value); err != nil {
		return nil, nil, failure.Wrap(err, p.seg)
	}

	return k, v, nil
}

func (c *collection) castMap(in any) (any, error) {
	pairs, err := c.pairs(in)
	if err != nil {
		return nil, err
	}

	out := value.NewMap()

	for _, p := range pairs {
		k, v, err := c.entry(p)
		if err != nil {
			return nil, err
		}

		out.Set(k, v)
	}

	return out, nil
}

func (c *collection) serializeMap(in any) (any, error) {
	entries, ok := value.MapEntries(in)
	if !ok {
		return nil, failure.Invalid(c.typ, in, ErrNotCollection)
	}

	out := make([]any, len(entries))

	for i, e := range entries {
		k, v, err := c.entry(pair{seg: failure.Key(fmt.Sprint(e.Key)), key: e.Key, value: e.Value})
		if err != nil {
			return nil, err
		}

		out[i] = []any{k, v}
	}

	return out, nil
}
