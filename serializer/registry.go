package serializer

import (
	"fmt"
	"reflect"
	"sync"

	"typecaster/descriptor"
	"typecaster/failure"
	"typecaster/guard"
	"typecaster/node"
)

// Registry is a serialization dialect. Factories are expected to be registered
// before the first compilation; converters already cached keep the factory
// they were built with.
type Registry struct {
	cfg Config

	mu     sync.RWMutex
	kinds  map[descriptor.Kind]Factories
	brands map[descriptor.Brand]Factories

	guards *guard.Registry
	nodes  *node.Builder
	cache  *Cache
}

// NewRegistry creates a dialect without factories.
func NewRegistry(cfg Config) *Registry {
	def := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}

	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}

	return &Registry{
		cfg:    cfg,
		kinds:  make(map[descriptor.Kind]Factories),
		brands: make(map[descriptor.Brand]Factories),
		guards: guard.New(cfg.Allowed),
		nodes:  node.NewBuilder(),
		cache:  &Cache{},
	}
}

func (r *Registry) Name() string            { return r.cfg.Name }
func (r *Registry) Config() Config          { return r.cfg }
func (r *Registry) Guards() *guard.Registry { return r.guards }
func (r *Registry) Nodes() *node.Builder    { return r.nodes }
func (r *Registry) Cache() *Cache           { return r.cache }

// Register sets the factories of a descriptor kind.
func (r *Registry) Register(kind descriptor.Kind, f Factories) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.kinds[kind] = f
}

// RegisterBrand sets the factories of a brand. Brand factories take
// precedence over the factories of KindBranded.
func (r *Registry) RegisterBrand(brand descriptor.Brand, f Factories) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.brands[brand] = f
}

// Factory returns the factory serving n in direction d.
func (r *Registry) Factory(n descriptor.Node, d Direction) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := n.(descriptor.Branded); ok {
		if f := r.brands[b.Brand].For(d); f != nil {
			return f, nil
		}
	}

	if f := r.kinds[n.Kind()].For(d); f != nil {
		return f, nil
	}

	return nil, r.unsupported(n)
}

func (r *Registry) unsupported(n descriptor.Node) error {
	err := &failure.UnsupportedTypeError{Kind: n.Kind().String(), Dialect: r.cfg.Name}
	if b, ok := n.(descriptor.Branded); ok {
		err.Brand = string(b.Brand)
	}

	return err
}

// RegisterCaster registers fn as the cast function of brand. fn has one of the
// shapes accepted by node.ParseCaster. Serialization passes values of fn's
// result type through unchanged.
func (r *Registry) RegisterCaster(brand descriptor.Brand, fn any) error {
	c, err := node.ParseCaster(fn)
	if err != nil {
		return fmt.Errorf("caster for brand %s: %w", brand, err)
	}

	exact := func(v any) bool {
		return v != nil && reflect.TypeOf(v) == c.Dst
	}

	r.guards.RegisterBrand(brand, exact, func(v any) bool {
		return exact(v) || c.Accepts(v)
	})

	r.RegisterBrand(brand, Factories{
		Cast: func(b Builder, _ descriptor.Node) (Func, error) {
			typ := b.Ref().String()

			return func(in any) (any, error) {
				if exact(in) {
					return in, nil
				}

				out, err := c.Invoke(in)
				if err != nil {
					return nil, failure.Invalid(typ, in, err)
				}

				return out, nil
			}, nil
		},
		Serialize: func(b Builder, _ descriptor.Node) (Func, error) {
			typ := b.Ref().String()

			return func(in any) (any, error) {
				if !exact(in) {
					return nil, failure.Invalid(typ, in, fmt.Errorf("value is not a %s", c.Dst))
				}

				return in, nil
			}, nil
		},
	})

	return nil
}
