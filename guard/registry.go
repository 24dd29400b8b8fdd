package guard

import (
	"errors"
	"fmt"
	"sync"

	"typecaster/descriptor"
	"typecaster/options"
)

var ErrNoGuard = errors.New("no guard registered for brand")

// Guard reports whether v fits a descriptor.
type Guard func(v any) bool

type key struct {
	ref  descriptor.Ref
	mode Mode
}

type brandGuards struct {
	exact, loose Guard
}

// Registry compiles and caches guards per descriptor and mode.
type Registry struct {
	allowed options.CategoryEnum
	guards  sync.Map

	mu     sync.RWMutex
	brands map[descriptor.Brand]brandGuards
}

// New creates a registry whose loose guards accept the allowed coercions.
func New(allowed options.CategoryEnum) *Registry {
	return &Registry{
		allowed: allowed,
		brands:  make(map[descriptor.Brand]brandGuards),
	}
}

// Allowed returns the coercions accepted in mode.
func (r *Registry) Allowed(mode Mode) options.CategoryEnum {
	if mode == Loose {
		return r.allowed
	}

	return options.CategoryNone
}

// RegisterBrand installs the guards of a custom brand.
func (r *Registry) RegisterBrand(brand descriptor.Brand, exact, loose Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.brands[brand] = brandGuards{exact: exact, loose: loose}
}

func (r *Registry) brand(brand descriptor.Brand, mode Mode) (Guard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bg, ok := r.brands[brand]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoGuard, brand)
	}

	if mode == Loose {
		return bg.loose, nil
	}

	return bg.exact, nil
}

// Guard returns the guard of ref in mode, compiling it on first use.
// Cyclic descriptors compile to guards that call themselves through the cycle.
func (r *Registry) Guard(ref descriptor.Ref, mode Mode) (Guard, error) {
	if g, ok := r.guards.Load(key{ref: ref, mode: mode}); ok {
		return g.(Guard), nil
	}

	s := &session{
		registry: r,
		arena:    ref.Arena,
		mode:     mode,
		allowed:  r.Allowed(mode),
		slots:    make(map[descriptor.ID]*slot),
	}

	g, err := s.guard(ref.ID)
	if err != nil {
		return nil, fmt.Errorf("guard for %s: %w", descriptor.Describe(ref), err)
	}

	for id, sl := range s.slots {
		r.guards.LoadOrStore(key{ref: ref.At(id), mode: mode}, sl.fn)
	}

	actual, _ := r.guards.LoadOrStore(key{ref: ref, mode: mode}, g)

	return actual.(Guard), nil
}

// Guards returns the guards of members, in order.
func (r *Registry) Guards(members []descriptor.Ref, mode Mode) ([]Guard, error) {
	guards := make([]Guard, len(members))
	for i, m := range members {
		g, err := r.Guard(m, mode)
		if err != nil {
			return nil, err
		}

		guards[i] = g
	}

	return guards, nil
}

// Resolve returns the position of the first member whose guard accepts v.
// Members are tried in declaration order and the first match wins.
func (r *Registry) Resolve(v any, members []descriptor.Ref, mode Mode) (int, bool, error) {
	guards, err := r.Guards(members, mode)
	if err != nil {
		return -1, false, err
	}

	i, ok := First(guards, v)

	return i, ok, nil
}

// First returns the index of the first guard accepting v.
func First(guards []Guard, v any) (int, bool) {
	for i, g := range guards {
		if g(v) {
			return i, true
		}
	}

	return -1, false
}
