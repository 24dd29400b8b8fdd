package typecaster

import (
	"fmt"
	"reflect"
	"sync"

	"typecaster/compiler"
	"typecaster/descriptor"
	"typecaster/reflection"
	"typecaster/serializer"
)

// Engine runs conversions of one dialect.
type Engine struct {
	compiler *compiler.Compiler
	resolver *reflection.Resolver
	types    sync.Map
}

// New creates an engine converting with reg. Descriptors of Go types are
// resolved into an arena owned by the engine.
func New(reg *serializer.Registry, opts ...compiler.Option) *Engine {
	return &Engine{
		compiler: compiler.New(reg, opts...),
		resolver: reflection.New(nil),
	}
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return New(serializer.Default())
})

// Default returns the engine of the default JSON dialect.
func Default() *Engine {
	return defaultEngine()
}

// Registry returns the dialect of e.
func (e *Engine) Registry() *serializer.Registry {
	return e.compiler.Registry()
}

// Arena returns the arena holding descriptors resolved from Go types.
func (e *Engine) Arena() *descriptor.Arena {
	return e.resolver.Arena()
}

// Resolve returns the descriptor of t.
func (e *Engine) Resolve(t reflect.Type) (descriptor.Ref, error) {
	if ref, ok := e.types.Load(t); ok {
		return ref.(descriptor.Ref), nil
	}

	ref, err := e.resolver.Resolve(t)
	if err != nil {
		return descriptor.Ref{}, fmt.Errorf("resolve %s: %w", t, err)
	}

	e.types.Store(t, ref)

	return ref, nil
}

// Cast converts external input into the internal value described by ref.
func (e *Engine) Cast(in any, ref descriptor.Ref) (any, error) {
	return e.compiler.Convert(in, ref, serializer.Cast)
}

// Serialize converts an internal value described by ref into its
// JSON-compatible form.
func (e *Engine) Serialize(in any, ref descriptor.Ref) (any, error) {
	return e.compiler.Convert(in, ref, serializer.Serialize)
}

type settings struct {
	engine *Engine
}

// Option configures a generic conversion.
type Option func(*settings)

// WithEngine selects the engine, and so the dialect, of a conversion.
func WithEngine(e *Engine) Option {
	return func(s *settings) {
		s.engine = e
	}
}

func engineOf(opts []Option) *Engine {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}

	if s.engine == nil {
		return Default()
	}

	return s.engine
}

// Cast converts in into a T. On error the zero T is returned.
func Cast[T any](in any, opts ...Option) (T, error) {
	var zero T

	e := engineOf(opts)
	t := reflect.TypeFor[T]()

	ref, err := e.Resolve(t)
	if err != nil {
		return zero, err
	}

	out, err := e.Cast(in, ref)
	if err != nil {
		return zero, err
	}

	dst := reflect.New(t)
	if err := e.Registry().Nodes().Assign(dst.Elem(), out); err != nil {
		return zero, err
	}

	return *dst.Interface().(*T), nil
}

// MustCast is like Cast but panics on error.
func MustCast[T any](in any, opts ...Option) T {
	out, err := Cast[T](in, opts...)
	if err != nil {
		panic(err)
	}

	return out
}

// Serialize converts in into its JSON-compatible form. A nil pointer
// serializes to nil.
func Serialize[T any](in T, opts ...Option) (any, error) {
	if v := reflect.ValueOf(&in).Elem(); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, nil
	}

	e := engineOf(opts)

	ref, err := e.Resolve(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	return e.Serialize(in, ref)
}
