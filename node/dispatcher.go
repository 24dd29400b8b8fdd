package node

import (
	"reflect"
	"sync"

	"typecaster/failure"
	"typecaster/primitive"
)

// Assigner writes the dynamic value v into the settable dst.
type Assigner func(dst reflect.Value, v any) error

// Builder compiles assigners and caches them per destination type. It is safe
// for concurrent use.
type Builder struct {
	mu        sync.RWMutex
	assigners map[reflect.Type]Assigner
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{assigners: make(map[reflect.Type]Assigner)}
}

// Dispatch classifies dst.
func Dispatch(dst reflect.Type) DispatcherEnum {
	if primitive.FromReflectType(dst) != 0 {
		return DispatcherPrimitive
	}

	switch dst.Kind() {
	case reflect.Interface:
		return DispatcherInterface
	case reflect.Ptr:
		return DispatcherPointer
	case reflect.Slice, reflect.Array:
		return DispatcherSlice
	case reflect.Map:
		return DispatcherMap
	case reflect.Struct:
		return DispatcherStruct
	default:
		return DispatcherUnknown
	}
}

// Assign writes v into dst using the assigner of dst's type.
func (b *Builder) Assign(dst reflect.Value, v any) error {
	return b.For(dst.Type())(dst, v)
}

// For returns the assigner of t. Recursive types are supported.
func (b *Builder) For(t reflect.Type) Assigner {
	b.mu.RLock()
	a, ok := b.assigners[t]
	b.mu.RUnlock()

	if ok {
		return a
	}

	s := &build{builder: b, slots: make(map[reflect.Type]*slot)}
	s.assigner(t)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.assigners == nil {
		b.assigners = make(map[reflect.Type]Assigner)
	}

	for st, sl := range s.slots {
		if _, exists := b.assigners[st]; !exists {
			b.assigners[st] = sl.fn
		}
	}

	return b.assigners[t]
}

type slot struct {
	fn Assigner
}

type build struct {
	builder *Builder
	slots   map[reflect.Type]*slot
}

func (s *build) assigner(t reflect.Type) Assigner {
	s.builder.mu.RLock()
	a, ok := s.builder.assigners[t]
	s.builder.mu.RUnlock()

	if ok {
		return a
	}

	if sl, ok := s.slots[t]; ok {
		if sl.fn != nil {
			return sl.fn
		}

		return func(dst reflect.Value, v any) error { return sl.fn(dst, v) }
	}

	sl := &slot{}
	s.slots[t] = sl

	var next Assigner

	switch Dispatch(t) {
	case DispatcherPrimitive:
		next = s.primitive(t)
	case DispatcherInterface:
		next = s.iface(t)
	case DispatcherPointer:
		next = s.pointer(t)
	case DispatcherSlice:
		next = s.slice(t)
	case DispatcherMap:
		next = s.mapping(t)
	case DispatcherStruct:
		next = s.structure(t)
	default:
		next = unsupported(t)
	}

	sl.fn = direct(t, next)

	return sl.fn
}

// direct assigns values that already have an assignable type without conversion.
func direct(t reflect.Type, next Assigner) Assigner {
	return func(dst reflect.Value, v any) error {
		if v != nil {
			if rv := reflect.ValueOf(v); rv.Type().AssignableTo(t) {
				dst.Set(rv)
				return nil
			}
		}

		return next(dst, v)
	}
}

func unsupported(t reflect.Type) Assigner {
	return func(dst reflect.Value, v any) error {
		if v == nil {
			dst.SetZero()
			return nil
		}

		return failure.Invalid(t.String(), v, primitive.ErrNotConvertible)
	}
}

func (s *build) iface(t reflect.Type) Assigner {
	return func(dst reflect.Value, v any) error {
		if v == nil {
			dst.SetZero()
			return nil
		}

		return failure.Invalid(t.String(), v, primitive.ErrNotConvertible)
	}
}

func (s *build) pointer(t reflect.Type) Assigner {
	elem := s.assigner(t.Elem())

	return func(dst reflect.Value, v any) error {
		if v == nil {
			dst.SetZero()
			return nil
		}

		p := reflect.New(t.Elem())
		if err := elem(p.Elem(), v); err != nil {
			return err
		}

		dst.Set(p)

		return nil
	}
}
