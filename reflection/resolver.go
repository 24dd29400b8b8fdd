package reflection

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"typecaster/descriptor"
	"typecaster/node"
)

var (
	ErrUnsupported = errors.New("go type has no descriptor")
	ErrBadDefault  = errors.New("invalid default tag")
)

var (
	timeType   = reflect.TypeFor[time.Time]()
	bigIntType = reflect.TypeFor[big.Int]()
)

// Resolver maps Go types to descriptors of one arena. Every type is resolved
// once; later calls return the same descriptor. It is safe for concurrent use.
type Resolver struct {
	mu    sync.Mutex
	arena *descriptor.Arena
	ids   map[reflect.Type]descriptor.ID
	names map[string]struct{}

	reserved []reflect.Type
}

// New creates a resolver adding descriptors to arena, or to a fresh arena
// when arena is nil.
func New(arena *descriptor.Arena) *Resolver {
	if arena == nil {
		arena = descriptor.NewArena()
	}

	names := make(map[string]struct{})
	for _, name := range arena.Names() {
		names[name] = struct{}{}
	}

	return &Resolver{
		arena: arena,
		ids:   make(map[reflect.Type]descriptor.ID),
		names: names,
	}
}

// Arena returns the arena descriptors are added to.
func (r *Resolver) Arena() *descriptor.Arena {
	return r.arena
}

// Resolve returns the descriptor of t.
func (r *Resolver) Resolve(t reflect.Type) (descriptor.Ref, error) {
	if t == nil {
		return descriptor.Ref{}, fmt.Errorf("%w: nil type", ErrUnsupported)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var structs node.Dealer[reflect.Type]

	r.reserved = r.reserved[:0]

	id, err := r.resolve(t, &structs)
	if err == nil {
		for st, ok := structs.NextNeeds(); ok && err == nil; st, ok = structs.NextNeeds() {
			err = r.define(st, &structs)
		}
	}

	if err != nil {
		r.forget()
		return descriptor.Ref{}, err
	}

	return r.arena.Ref(id), nil
}

// forget drops the structs reserved by a failed Resolve, so that they are
// resolved again next time instead of reaching undefined slots.
func (r *Resolver) forget() {
	for _, t := range r.reserved {
		delete(r.ids, t)
	}
}

func (r *Resolver) resolve(t reflect.Type, structs *node.Dealer[reflect.Type]) (descriptor.ID, error) {
	if id, ok := r.ids[t]; ok {
		return id, nil
	}

	a := r.arena

	switch t {
	case timeType:
		return a.Date(), nil
	case bigIntType:
		return a.BigInt(), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		return r.resolve(t.Elem(), structs)
	case reflect.Interface:
		return a.Any(), nil
	case reflect.String:
		return a.Str(), nil
	case reflect.Bool:
		return a.Boolean(), nil
	case reflect.Float64:
		return a.Number(), nil
	case reflect.Float32:
		return a.Brand(descriptor.BrandFloat32), nil
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return a.Integer(), nil
	case reflect.Int8:
		return a.Brand(descriptor.BrandInt8), nil
	case reflect.Uint8:
		return a.Brand(descriptor.BrandUint8), nil
	case reflect.Int16:
		return a.Brand(descriptor.BrandInt16), nil
	case reflect.Uint16:
		return a.Brand(descriptor.BrandUint16), nil
	case reflect.Int32:
		return a.Brand(descriptor.BrandInt32), nil
	case reflect.Uint32:
		return a.Brand(descriptor.BrandUint32), nil

	case reflect.Slice, reflect.Array:
		elem, err := r.resolve(t.Elem(), structs)
		if err != nil {
			return 0, err
		}

		return a.ArrayOf(elem), nil

	case reflect.Map:
		key, err := r.resolve(t.Key(), structs)
		if err != nil {
			return 0, err
		}

		if t.Elem().Kind() == reflect.Struct && t.Elem().Size() == 0 {
			return a.SetOf(key), nil
		}

		elem, err := r.resolve(t.Elem(), structs)
		if err != nil {
			return 0, err
		}

		return a.MapOf(key, elem), nil

	case reflect.Struct:
		id := a.Reserve(r.name(t))
		r.ids[t] = id
		r.reserved = append(r.reserved, t)
		structs.Needs(t)

		return id, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUnsupported, t)
}

// name picks a class name for t that is not used in the arena yet.
func (r *Resolver) name(t reflect.Type) string {
	stem := t.Name()
	if stem == "" {
		stem = "Anonymous"
	}

	return node.NewStem(stem, r.names).Take()
}

func (r *Resolver) define(st reflect.Type, structs *node.Dealer[reflect.Type]) error {
	var props []descriptor.Property

	for i := range st.NumField() {
		f := st.Field(i)

		name := node.JSONName(f)
		if !f.IsExported() || f.Anonymous || name == "-" {
			continue
		}

		typ, err := r.resolve(f.Type, structs)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", st, f.Name, err)
		}

		p := descriptor.Property{
			Name:     name,
			Type:     typ,
			Optional: f.Type.Kind() == reflect.Pointer || node.OmitEmpty(f),
		}

		if tag, ok := f.Tag.Lookup("default"); ok {
			def, err := parseDefault(tag)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", st, f.Name, err)
			}

			p = p.WithDefault(def)
		}

		props = append(props, p)
	}

	id := r.ids[st]

	return r.arena.Define(id, descriptor.Class{
		Name:       r.arena.Name(id),
		Identity:   st,
		Properties: props,
	})
}

// parseDefault decodes a default tag as a YAML value. Every call of the
// returned thunk decodes a fresh copy.
func parseDefault(tag string) (func() any, error) {
	decode := func() (any, error) {
		var v any
		if err := yaml.Unmarshal([]byte(tag), &v); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrBadDefault, tag, err)
		}

		return v, nil
	}

	if _, err := decode(); err != nil {
		return nil, err
	}

	return func() any {
		v, _ := decode()
		return v
	}, nil
}
