package guard

import (
	"fmt"
	"reflect"

	"typecaster/descriptor"
	"typecaster/options"
	"typecaster/primitive"
	"typecaster/value"
)

type slot struct {
	fn Guard
}

// session compiles the guards of one root. Every node gets a slot before its
// children are visited, so a cycle back to it resolves to the slot.
type session struct {
	registry *Registry
	arena    *descriptor.Arena
	mode     Mode
	allowed  options.CategoryEnum
	slots    map[descriptor.ID]*slot
}

func (s *session) guard(id descriptor.ID) (Guard, error) {
	if g, ok := s.registry.guards.Load(key{ref: s.arena.Ref(id), mode: s.mode}); ok {
		return g.(Guard), nil
	}

	if sl, ok := s.slots[id]; ok {
		if sl.fn != nil {
			return sl.fn, nil
		}

		return func(v any) bool { return sl.fn(v) }, nil
	}

	sl := &slot{}
	s.slots[id] = sl

	n, err := s.arena.Node(id)
	if err != nil {
		return nil, err
	}

	g, err := s.build(n)
	if err != nil {
		return nil, err
	}

	sl.fn = g

	return g, nil
}

func (s *session) build(n descriptor.Node) (Guard, error) {
	switch n := n.(type) {
	case descriptor.Primitive:
		return s.primitive(n.Type)
	case descriptor.Branded:
		return s.branded(n)
	case descriptor.Literal:
		return s.literal(n.Value), nil
	case descriptor.Date:
		return accepts(value.AsDate, s.allowed), nil
	case descriptor.Array:
		return s.array(n)
	case descriptor.Tuple:
		return s.tuple(n)
	case descriptor.Collection:
		return s.collection(n)
	case descriptor.Class:
		return s.class(n)
	case descriptor.Union:
		return s.union(n)
	}

	return nil, fmt.Errorf("unsupported descriptor kind %s", n.Kind())
}

func accepts[T any](coerce func(any, options.CategoryEnum) (T, error), allowed options.CategoryEnum) Guard {
	return func(v any) bool {
		_, err := coerce(v, allowed)
		return err == nil
	}
}

func all(items []any, g Guard) bool {
	for _, item := range items {
		if !g(item) {
			return false
		}
	}

	return true
}

func (s *session) primitive(t descriptor.PrimitiveType) (Guard, error) {
	switch t {
	case descriptor.PrimitiveString:
		return accepts(primitive.String, s.allowed), nil
	case descriptor.PrimitiveNumber:
		return accepts(primitive.Number, s.allowed), nil
	case descriptor.PrimitiveBoolean:
		return accepts(primitive.Boolean, s.allowed), nil
	case descriptor.PrimitiveBigInt:
		return accepts(primitive.BigInt, s.allowed), nil
	case descriptor.PrimitiveAny:
		return func(any) bool { return true }, nil
	}

	return nil, fmt.Errorf("unknown primitive %q", t)
}

func (s *session) branded(n descriptor.Branded) (Guard, error) {
	allowed := s.allowed

	switch k := n.Brand.Primitive(); {
	case n.Brand == descriptor.BrandUUID:
		return accepts(primitive.UUID, allowed), nil
	case k == primitive.KindFloat32:
		return accepts(primitive.Float32, allowed), nil
	case k.IsInteger():
		return func(v any) bool {
			_, err := primitive.Integer(v, k, allowed)
			return err == nil
		}, nil
	}

	return s.registry.brand(n.Brand, s.mode)
}

func (s *session) literal(lit any) Guard {
	allowed := s.allowed

	switch want := lit.(type) {
	case nil:
		return func(v any) bool { return v == nil }
	case string:
		return func(v any) bool {
			got, err := primitive.String(v, allowed)
			return err == nil && got == want
		}
	case float64:
		return func(v any) bool {
			got, err := primitive.Number(v, allowed)
			return err == nil && got == want
		}
	case bool:
		return func(v any) bool {
			got, err := primitive.Boolean(v, allowed)
			return err == nil && got == want
		}
	}

	return func(any) bool { return false }
}

func (s *session) array(n descriptor.Array) (Guard, error) {
	elem, err := s.guard(n.Elem)
	if err != nil {
		return nil, err
	}

	return func(v any) bool {
		items, ok := value.Items(v)
		return ok && all(items, elem)
	}, nil
}

func (s *session) tuple(n descriptor.Tuple) (Guard, error) {
	elems := make([]Guard, len(n.Elements))
	for i, e := range n.Elements {
		g, err := s.guard(e.Type)
		if err != nil {
			return nil, err
		}

		elems[i] = g
	}

	return func(v any) bool {
		items, ok := value.Items(v)
		if !ok {
			return false
		}

		layout, ok := n.Layout(len(items))
		if !ok {
			return false
		}

		for i, item := range items {
			if !elems[layout[i]](item) {
				return false
			}
		}

		return true
	}, nil
}

func (s *session) collection(n descriptor.Collection) (Guard, error) {
	elem, err := s.guard(n.Elem)
	if err != nil {
		return nil, err
	}

	fromArray := s.allowed.Has(options.CategoryCollections)

	if n.Type == descriptor.CollectionSet {
		return func(v any) bool {
			if members, ok := value.SetMembers(v); ok {
				return all(members, elem)
			}

			items, ok := value.Items(v)

			return fromArray && ok && all(items, elem)
		}, nil
	}

	key, err := s.guard(n.Key)
	if err != nil {
		return nil, err
	}

	return func(v any) bool {
		if entries, ok := value.MapEntries(v); ok {
			for _, e := range entries {
				if !key(e.Key) || !elem(e.Value) {
					return false
				}
			}

			return true
		}

		items, ok := value.Items(v)
		if !fromArray || !ok {
			return false
		}

		for _, item := range items {
			pair, ok := value.Items(item)
			if !ok || len(pair) != 2 || !key(pair[0]) || !elem(pair[1]) {
				return false
			}
		}

		return true
	}, nil
}

type propGuard struct {
	name      string
	skippable bool
	guard     Guard
}

func (s *session) class(n descriptor.Class) (Guard, error) {
	props := make([]propGuard, len(n.Properties))
	for i, p := range n.Properties {
		g, err := s.guard(p.Type)
		if err != nil {
			return nil, err
		}

		props[i] = propGuard{name: p.Name, skippable: p.Optional || p.HasDefault(), guard: g}
	}

	var identity, identityPtr reflect.Type
	if n.Identity != nil {
		identity, identityPtr = n.Identity, reflect.PointerTo(n.Identity)
	}

	return func(v any) bool {
		if rt := reflect.TypeOf(v); identity != nil && (rt == identity || rt == identityPtr) {
			return true
		}

		var get func(string) (any, bool)

		switch m := v.(type) {
		case map[string]any:
			get = func(k string) (any, bool) {
				x, ok := m[k]
				return x, ok
			}
		case *value.Record:
			if m == nil {
				return false
			}
			get = m.Get
		default:
			return false
		}

		for _, p := range props {
			x, ok := get(p.name)

			switch {
			case !ok || x == nil:
				if p.skippable || (ok && p.guard(nil)) {
					continue
				}

				return false
			case !p.guard(x):
				return false
			}
		}

		return true
	}, nil
}

func (s *session) union(n descriptor.Union) (Guard, error) {
	members := make([]Guard, len(n.Members))
	for i, m := range n.Members {
		g, err := s.guard(m)
		if err != nil {
			return nil, err
		}

		members[i] = g
	}

	return func(v any) bool {
		_, ok := First(members, v)
		return ok
	}, nil
}
