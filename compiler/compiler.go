package compiler

import (
	"errors"
	"log/slog"

	"typecaster/descriptor"
	"typecaster/failure"
	"typecaster/guard"
	"typecaster/node"
	"typecaster/serializer"
)

var (
	ErrNotObject = errors.New("value is not an object")
	ErrNotArray  = errors.New("value is not an array")
	ErrNoField   = errors.New("identity has no field for property")
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger receiving a debug record per compiled node.
// The dialect logger is used by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// Compiler compiles converters of one dialect.
type Compiler struct {
	reg *serializer.Registry
	log *slog.Logger
}

func New(reg *serializer.Registry, opts ...Option) *Compiler {
	c := &Compiler{reg: reg, log: reg.Config().Logger}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Registry returns the dialect of c.
func (c *Compiler) Registry() *serializer.Registry {
	return c.reg
}

// Compile returns the converter of ref in direction dir. Concurrent first
// calls for the same key share one compilation; its result, converter or
// error, is returned to every later call.
func (c *Compiler) Compile(ref descriptor.Ref, dir serializer.Direction) (*serializer.Converter, error) {
	key := serializer.Key{Ref: ref, Direction: dir}

	return c.reg.Cache().Do(key, func() (*serializer.Converter, error) {
		if diags := descriptor.Validate(ref); diags.HasErrors() {
			return nil, &failure.CompilationError{Type: ref.String(), Diagnostics: diags}
		}

		s := &session{
			c:     c,
			arena: ref.Arena,
			dir:   dir,
			convs: make(map[descriptor.ID]*serializer.Converter),
		}

		conv, err := s.converter(ref.ID)
		if err != nil {
			return nil, &failure.CompilationError{Type: ref.String(), Err: err}
		}

		for _, fresh := range s.fresh {
			c.reg.Cache().Store(fresh)
		}

		return conv, nil
	})
}

// Convert compiles ref and runs the converter on in.
func (c *Compiler) Convert(in any, ref descriptor.Ref, dir serializer.Direction) (any, error) {
	conv, err := c.Compile(ref, dir)
	if err != nil {
		return nil, err
	}

	return conv.Convert(in)
}

// session compiles one root. Nodes get a placeholder before their children
// are compiled, so cycles resolve to the placeholder.
type session struct {
	c     *Compiler
	arena *descriptor.Arena
	dir   serializer.Direction
	convs map[descriptor.ID]*serializer.Converter
	fresh []*serializer.Converter
}

func (s *session) converter(id descriptor.ID) (*serializer.Converter, error) {
	if conv, ok := s.convs[id]; ok {
		return conv, nil
	}

	key := serializer.Key{Ref: s.arena.Ref(id), Direction: s.dir}

	if conv, err, ok := s.c.reg.Cache().Load(key); ok {
		if err != nil {
			return nil, err
		}

		s.convs[id] = conv

		return conv, nil
	}

	n, err := s.arena.Node(id)
	if err != nil {
		return nil, err
	}

	conv := serializer.Placeholder(key)
	s.convs[id] = conv

	fn, err := s.build(key.Ref, n)
	if err != nil {
		return nil, err
	}

	conv.Bind(fn)
	s.fresh = append(s.fresh, conv)

	s.c.log.Debug("compiled converter",
		"type", key.Ref.String(),
		"direction", s.dir.String(),
		"dialect", s.c.reg.Name(),
	)

	return conv, nil
}

func (s *session) sub(id descriptor.ID) (serializer.Func, error) {
	conv, err := s.converter(id)
	if err != nil {
		return nil, err
	}

	return conv.Func(), nil
}

func (s *session) build(ref descriptor.Ref, n descriptor.Node) (serializer.Func, error) {
	switch n := n.(type) {
	case descriptor.Class:
		return s.class(ref, n)
	case descriptor.Tuple:
		return s.tuple(ref, n)
	case descriptor.Array:
		return s.array(ref, n)
	case descriptor.Union:
		return s.union(ref, n)
	}

	f, err := s.c.reg.Factory(n, s.dir)
	if err != nil {
		return nil, err
	}

	return f(builder{s: s, ref: ref}, n)
}

// builder exposes a session to dialect factories.
type builder struct {
	s   *session
	ref descriptor.Ref
}

func (b builder) Ref() descriptor.Ref                           { return b.ref }
func (b builder) Direction() serializer.Direction               { return b.s.dir }
func (b builder) Sub(id descriptor.ID) (serializer.Func, error) { return b.s.sub(id) }
func (b builder) Guards() *guard.Registry                       { return b.s.c.reg.Guards() }
func (b builder) Nodes() *node.Builder                          { return b.s.c.reg.Nodes() }
func (b builder) Config() serializer.Config                     { return b.s.c.reg.Config() }
