package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"
	"gopkg.in/yaml.v3"

	"typecaster/internal/diagnostic"
	"typecaster/node"
	"typecaster/schema"
)

// CodeUnsupported marks a Go type described as any.
const CodeUnsupported = "unsupported_type"

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedImports

var ErrPackages = errors.New("package errors")

var basics = map[types.BasicKind]string{
	types.String:  "string",
	types.Bool:    "boolean",
	types.Float64: "number",
	types.Float32: "float32",
	types.Int:     "integer",
	types.Int64:   "integer",
	types.Uint:    "integer",
	types.Uint64:  "integer",
	types.Int8:    "int8",
	types.Uint8:   "uint8",
	types.Int16:   "int16",
	types.Uint16:  "uint16",
	types.Int32:   "int32",
	types.Uint32:  "uint32",
}

// Analyzer describes Go types as schema types. Types accumulate over calls,
// so every returned file holds all types described so far.
type Analyzer struct {
	names   map[string]struct{}
	named   map[*types.TypeName]string
	anon    map[*types.Struct]string
	structs node.Dealer[types.Type]
	order   []string
	defs    map[string]schema.TypeDef
	diags   *diagnostic.Diagnostics
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	names := make(map[string]struct{})
	for _, name := range schema.Builtins() {
		names[name] = struct{}{}
	}

	return &Analyzer{
		names: names,
		named: make(map[*types.TypeName]string),
		anon:  make(map[*types.Struct]string),
		defs:  make(map[string]schema.TypeDef),
		diags: &diagnostic.Diagnostics{},
	}
}

// LoadPackages loads the specified packages and describes their types.
// Patterns are standard Go package patterns (e.g., "./models", "example.com/shop/...").
func (a *Analyzer) LoadPackages(patterns ...string) (*schema.File, *diagnostic.Diagnostics, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, nil, fmt.Errorf("%w: %w", ErrPackages, errors.Join(errs...))
	}

	checked := make([]*types.Package, len(pkgs))
	for i, pkg := range pkgs {
		checked[i] = pkg.Types
	}

	file, diags := a.Describe(checked...)

	return file, diags, nil
}

// Describe adds the exported named types of pkgs and everything they reach.
func (a *Analyzer) Describe(pkgs ...*types.Package) (*schema.File, *diagnostic.Diagnostics) {
	var roots []*types.Named

	for _, pkg := range pkgs {
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !obj.Exported() || obj.IsAlias() {
				continue
			}

			if named, ok := obj.Type().(*types.Named); ok && describable(named) {
				a.reserve(obj)
				roots = append(roots, named)
			}
		}
	}

	for _, named := range roots {
		if _, isStruct := named.Underlying().(*types.Struct); isStruct {
			a.structs.Needs(named)
			continue
		}

		name := a.named[named.Obj()]
		a.defs[name] = schema.TypeDef{
			Name:  name,
			Alias: a.expr(named.Underlying(), IDOf(named.Obj()).Qualified(), ""),
		}
	}

	for t, ok := a.structs.NextNeeds(); ok; t, ok = a.structs.NextNeeds() {
		a.class(t)
	}

	file := &schema.File{Version: schema.Version}
	for _, name := range a.order {
		file.Types = append(file.Types, a.defs[name])
	}

	return file, a.diags
}

func describable(named *types.Named) bool {
	if named.TypeParams().Len() > 0 {
		return false
	}

	switch named.Underlying().(type) {
	case *types.Struct, *types.Basic, *types.Slice, *types.Array, *types.Map:
		return true
	}

	return false
}

// reserve picks the schema name of obj. A name taken by another package is
// qualified with the package alias.
func (a *Analyzer) reserve(obj *types.TypeName) string {
	if name, ok := a.named[obj]; ok {
		return name
	}

	id := IDOf(obj)

	stem := id.Name
	if _, taken := a.names[stem]; taken {
		stem = id.Qualified()
	}

	name := node.NewStem(stem, a.names).Take()
	a.named[obj] = name
	a.order = append(a.order, name)

	return name
}

// expr renders t as a schema type expression. owner and path locate t for diagnostics.
func (a *Analyzer) expr(t types.Type, owner, path string) string {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		id := IDOf(t.Obj())

		switch {
		case id.is("time", "Time"):
			return "Date"
		case id.is("math/big", "Int"):
			return "bigint"
		case t.TypeArgs().Len() > 0:
			// instantiated generic types have no description
		default:
			if name, ok := a.named[t.Obj()]; ok {
				return name
			}

			if _, isStruct := t.Underlying().(*types.Struct); isStruct {
				name := a.reserve(t.Obj())
				a.structs.Needs(t)

				return name
			}

			return a.expr(t.Underlying(), owner, path)
		}

	case *types.Pointer:
		return a.expr(t.Elem(), owner, path)

	case *types.Basic:
		if name, ok := basics[t.Kind()]; ok {
			return name
		}

	case *types.Slice:
		return a.expr(t.Elem(), owner, path) + "[]"

	case *types.Array:
		return a.expr(t.Elem(), owner, path) + "[]"

	case *types.Map:
		key := a.expr(t.Key(), owner, path)
		if st, ok := t.Elem().Underlying().(*types.Struct); ok && st.NumFields() == 0 {
			return "Set<" + key + ">"
		}

		return "Map<" + key + ", " + a.expr(t.Elem(), owner, path) + ">"

	case *types.Interface:
		return "any"

	case *types.Struct:
		name, ok := a.anon[t]
		if !ok {
			name = node.NewStem("Anonymous", a.names).Take()
			a.anon[t] = name
			a.order = append(a.order, name)
			a.structs.Needs(t)
		}

		return name
	}

	a.diags.AddWarning(CodeUnsupported, fmt.Sprintf("%s has no description, using any", t), owner, path)

	return "any"
}

func (a *Analyzer) class(t types.Type) {
	var (
		name, owner string
		st          *types.Struct
	)

	switch t := t.(type) {
	case *types.Named:
		name, owner = a.named[t.Obj()], IDOf(t.Obj()).Qualified()
		st = t.Underlying().(*types.Struct)
	case *types.Struct:
		name, owner = a.anon[t], a.anon[t]
		st = t
	}

	def := schema.TypeDef{Name: name, Properties: []schema.PropertyDef{}}

	for i := range st.NumFields() {
		f := st.Field(i)
		sf := reflect.StructField{Name: f.Name(), Tag: reflect.StructTag(st.Tag(i))}

		prop := node.JSONName(sf)
		if !f.Exported() || f.Embedded() || prop == "-" {
			continue
		}

		_, isPointer := f.Type().Underlying().(*types.Pointer)

		p := schema.PropertyDef{
			Name:     prop,
			Type:     a.expr(f.Type(), owner, prop),
			Optional: isPointer || node.OmitEmpty(sf),
		}

		if tag, ok := sf.Tag.Lookup("default"); ok {
			value, err := parseDefault(tag)
			if err != nil {
				a.diags.AddError(schema.CodeBadDefault, err.Error(), owner, prop)
			} else {
				p.Default = value
			}
		}

		def.Properties = append(def.Properties, p)
	}

	a.defs[name] = def
}

func parseDefault(tag string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(tag), &doc); err != nil {
		return nil, fmt.Errorf("invalid default tag %q: %w", tag, err)
	}

	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("invalid default tag %q: no value", tag)
	}

	return doc.Content[0], nil
}
