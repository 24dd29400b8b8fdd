package serializer

import (
	"errors"
	"fmt"

	"typecaster/descriptor"
	"typecaster/guard"
	"typecaster/node"
)

var ErrUnbound = errors.New("converter is used before it is compiled")

// Func converts one value.
type Func func(in any) (any, error)

// Key identifies a converter within a dialect.
type Key struct {
	Ref       descriptor.Ref
	Direction Direction
}

func (k Key) String() string {
	return fmt.Sprintf("%p/%d/%s", k.Ref.Arena, k.Ref.ID, k.Direction)
}

// Converter is a compiled conversion routine of one descriptor and direction.
type Converter struct {
	Key Key
	fn  Func
}

// NewConverter wraps fn.
func NewConverter(key Key, fn Func) *Converter {
	return &Converter{Key: key, fn: fn}
}

// Placeholder returns a converter to be bound once its body is compiled.
// References to it may be captured before Bind.
func Placeholder(key Key) *Converter {
	return &Converter{Key: key}
}

// Bind sets the body of a placeholder.
func (c *Converter) Bind(fn Func) {
	c.fn = fn
}

// Bound reports whether the converter has a body.
func (c *Converter) Bound() bool {
	return c.fn != nil
}

// Convert runs the converter.
func (c *Converter) Convert(in any) (any, error) {
	if c.fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnbound, descriptor.Describe(c.Key.Ref))
	}

	return c.fn(in)
}

// Func returns the converter as a Func that resolves its body on every call.
func (c *Converter) Func() Func {
	return c.Convert
}

// Builder is what a Factory sees of the compilation in progress.
type Builder interface {
	// Ref is the descriptor being compiled.
	Ref() descriptor.Ref
	// Direction is the direction being compiled.
	Direction() Direction
	// Sub returns the converter of another node of the same arena.
	Sub(id descriptor.ID) (Func, error)
	// Guards is the guard registry of the dialect.
	Guards() *guard.Registry
	// Nodes is the assigner builder of the dialect.
	Nodes() *node.Builder
	// Config is the dialect configuration.
	Config() Config
}

// Factory builds the converter of a node.
type Factory func(b Builder, n descriptor.Node) (Func, error)

// Factories pairs the factories of both directions.
type Factories struct {
	Cast, Serialize Factory
}

// For returns the factory of direction d.
func (f Factories) For(d Direction) Factory {
	if d == Cast {
		return f.Cast
	}

	return f.Serialize
}
