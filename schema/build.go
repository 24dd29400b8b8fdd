package schema

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"typecaster/descriptor"
	"typecaster/internal/diagnostic"
	"typecaster/internal/match"
)

const (
	CodeVersion       = "unsupported_version"
	CodeSyntax        = "syntax"
	CodeUnknownType   = "unknown_type"
	CodeDuplicateType = "duplicate_type"
	CodeAliasCycle    = "alias_cycle"
	CodeBadDefault    = "bad_default"
)

const maxSuggestions = 3

var builtins = map[string]func(a *descriptor.Arena) descriptor.ID{
	"string":  (*descriptor.Arena).Str,
	"number":  (*descriptor.Arena).Number,
	"boolean": (*descriptor.Arena).Boolean,
	"bigint":  (*descriptor.Arena).BigInt,
	"any":     (*descriptor.Arena).Any,
	"Date":    (*descriptor.Arena).Date,
}

func init() {
	for _, b := range []descriptor.Brand{
		descriptor.BrandInteger,
		descriptor.BrandInt8,
		descriptor.BrandUint8,
		descriptor.BrandInt16,
		descriptor.BrandUint16,
		descriptor.BrandInt32,
		descriptor.BrandUint32,
		descriptor.BrandFloat32,
		descriptor.BrandUUID,
	} {
		builtins[string(b)] = func(a *descriptor.Arena) descriptor.ID { return a.Brand(b) }
	}
}

// Builtins returns the names of the built-in types, sorted.
func Builtins() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// Schema holds the descriptors of a schema file.
type Schema struct {
	Arena *descriptor.Arena

	names []string
	ids   map[string]descriptor.ID
}

// Names returns the type names in declaration order.
func (s *Schema) Names() []string {
	return slices.Clone(s.names)
}

// Ref returns the descriptor of a named type.
func (s *Schema) Ref(name string) (descriptor.Ref, bool) {
	id, ok := s.ids[name]
	if !ok {
		return descriptor.Ref{}, false
	}

	return s.Arena.Ref(id), true
}

type binder struct {
	schema *Schema
	diags  *diagnostic.Diagnostics
}

type alias struct {
	name   string
	target descriptor.ID
}

// Build turns f into descriptors. The schema is usable only when the
// returned diagnostics hold no errors.
func Build(f *File) (*Schema, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	s := &Schema{Arena: descriptor.NewArena(), ids: make(map[string]descriptor.ID)}

	if f.Version != Version {
		diags.AddError(CodeVersion, fmt.Sprintf("unsupported schema version %q", f.Version), "", "version")
	}

	defs := make([]TypeDef, 0, len(f.Types))

	for _, def := range f.Types {
		switch _, dup := s.ids[def.Name]; {
		case dup:
			diags.AddError(CodeDuplicateType, fmt.Sprintf("type %q is declared twice", def.Name), def.Name, "")
			continue
		case builtins[def.Name] != nil:
			diags.AddError(CodeDuplicateType, fmt.Sprintf("type %q shadows a built-in type", def.Name), def.Name, "")
			continue
		}

		s.ids[def.Name] = s.Arena.Reserve(def.Name)
		s.names = append(s.names, def.Name)
		defs = append(defs, def)
	}

	b := &binder{schema: s, diags: diags}

	var aliases []alias

	for _, def := range defs {
		if !def.IsClass() {
			aliases = append(aliases, alias{name: def.Name, target: b.bind(def.Alias, def.Name, "")})
			continue
		}

		props := make([]descriptor.Property, 0, len(def.Properties))

		for _, p := range def.Properties {
			prop := descriptor.Property{
				Name:     p.Name,
				Type:     b.bind(p.Type, def.Name, p.Name),
				Optional: p.Optional,
			}

			if p.Default != nil {
				fn, err := defaultOf(p.Default)
				if err != nil {
					diags.AddError(CodeBadDefault, err.Error(), def.Name, p.Name)
				} else {
					prop = prop.WithDefault(fn)
				}
			}

			props = append(props, prop)
		}

		_ = s.Arena.Define(s.ids[def.Name], descriptor.Class{Name: def.Name, Properties: props})
	}

	b.defineAliases(aliases)
	b.validate()

	return s, diags
}

// defineAliases copies the node of each alias target into the alias slot.
// An alias of another alias waits until that one is defined.
func (b *binder) defineAliases(pending []alias) {
	a := b.schema.Arena

	for len(pending) > 0 {
		var rest []alias

		for _, al := range pending {
			n, err := a.Node(al.target)
			if err != nil {
				rest = append(rest, al)
				continue
			}

			_ = a.Define(b.schema.ids[al.name], n)
		}

		if len(rest) == len(pending) {
			for _, al := range rest {
				b.diags.AddError(CodeAliasCycle,
					fmt.Sprintf("alias %s refers to itself through %s", al.name, a.Name(al.target)), al.name, "")
			}

			return
		}

		pending = rest
	}
}

// validate reports descriptor problems of every named type once.
func (b *binder) validate() {
	seen := make(map[string]struct{})

	for _, name := range b.schema.names {
		ref, _ := b.schema.Ref(name)

		found := descriptor.Validate(ref)
		for _, d := range found.Errors {
			if _, dup := seen[d.String()]; dup || d.Code == descriptor.CodeUndefined {
				continue
			}

			seen[d.String()] = struct{}{}
			b.diags.AddError(d.Code, d.Message, d.TypeName, d.Path, d.Suggestions...)
		}
	}
}

func (b *binder) bind(src, typeName, path string) descriptor.ID {
	e, err := parseExpr(src)
	if err != nil {
		b.diags.AddError(CodeSyntax, err.Error(), typeName, path)
		return b.schema.Arena.Any()
	}

	return b.node(e, typeName, path)
}

func (b *binder) node(e expr, typeName, path string) descriptor.ID {
	a := b.schema.Arena

	switch e := e.(type) {
	case nameExpr:
		if id, ok := b.schema.ids[e.name]; ok {
			return id
		}

		if mk, ok := builtins[e.name]; ok {
			return mk(a)
		}

		b.diags.AddError(CodeUnknownType, fmt.Sprintf("unknown type %q", e.name), typeName, path,
			match.Suggest(e.name, b.candidates(), maxSuggestions)...)

		return a.Any()

	case literalExpr:
		return a.Literal(e.value)

	case arrayExpr:
		return a.ArrayOf(b.node(e.elem, typeName, path))

	case unionExpr:
		members := make([]descriptor.ID, len(e.members))
		for i, m := range e.members {
			members[i] = b.node(m, typeName, path)
		}

		return a.UnionOf(members...)

	case tupleExpr:
		elems := make([]descriptor.TupleElement, len(e.elems))
		for i, el := range e.elems {
			elems[i] = descriptor.TupleElement{Name: el.name, Rest: el.rest, Type: b.node(el.typ, typeName, path)}
		}

		return a.TupleOf(elems...)

	case genericExpr:
		if e.name == "Set" {
			return a.SetOf(b.node(e.args[0], typeName, path))
		}

		return a.MapOf(b.node(e.args[0], typeName, path), b.node(e.args[1], typeName, path))
	}

	panic(fmt.Sprintf("unexpected expression %T", e))
}

func (b *binder) candidates() []string {
	out := slices.Clone(b.schema.names)
	for name := range builtins {
		out = append(out, name)
	}

	return out
}

// defaultOf returns a thunk decoding node afresh on every call.
func defaultOf(node *yaml.Node) (func() any, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid default: %w", err)
	}

	return func() any {
		var out any
		_ = node.Decode(&out)

		return out
	}, nil
}
