package analyze

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecaster/compiler"
	"typecaster/schema"
	"typecaster/serializer"
)

const shopSrc = `package shop

import (
	"math/big"
	"time"
)

type Status string

type Tags map[string]struct{}

type Order struct {
	ID       int64                 "json:\"id\""
	Status   Status                "json:\"status\" default:\"pending\""
	Customer *Customer             "json:\"customer,omitempty\""
	Lines    []Line                "json:\"lines\""
	Placed   time.Time             "json:\"placed\""
	Total    *big.Int              "json:\"total\""
	Tags     Tags                  "json:\"tags,omitempty\""
	Meta     map[string]any        "json:\"meta\""
	Secret   string                "json:\"-\""
	Notify   chan string           "json:\"notify\""
	Extra    struct{ Note string } "json:\"extra\""
	internal int
}

type Customer struct {
	Name     string
	Referrer *Customer "json:\"referrer\""
}

type Line struct {
	SKU    string "json:\"sku\""
	Qty    uint16 "json:\"qty\""
	Weight float32
}

type Date struct{ Day int8 }

type Handler func()
`

func check(t *testing.T, path, src string) *types.Package {
	t.Helper()

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "src.go", src, 0)
	require.NoError(t, err)

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}

	pkg, err := conf.Check(path, fset, []*ast.File{f}, nil)
	require.NoError(t, err)

	return pkg
}

func props(def schema.TypeDef) map[string]string {
	out := make(map[string]string, len(def.Properties))
	for _, p := range def.Properties {
		name := p.Name
		if p.Optional {
			name += "?"
		}

		out[name] = p.Type
	}

	return out
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	file, diags := NewAnalyzer().Describe(check(t, "example.com/shop", shopSrc))
	require.False(t, diags.HasErrors(), diags.Error())

	var names []string
	for _, def := range file.Types {
		names = append(names, def.Name)
	}

	assert.Equal(t, []string{"Customer", "shop.Date", "Line", "Order", "Status", "Tags", "Anonymous"}, names)
	assert.Equal(t, schema.Version, file.Version)

	defs := make(map[string]schema.TypeDef)
	for _, def := range file.Types {
		defs[def.Name] = def
	}

	assert.Equal(t, map[string]string{
		"id":        "integer",
		"status":    "Status",
		"customer?": "Customer",
		"lines":     "Line[]",
		"placed":    "Date",
		"total?":    "bigint",
		"tags?":     "Tags",
		"meta":      "Map<string, any>",
		"notify":    "any",
		"extra":     "Anonymous",
	}, props(defs["Order"]))

	assert.Equal(t, map[string]string{"Name": "string", "referrer?": "Customer"}, props(defs["Customer"]))
	assert.Equal(t, map[string]string{"sku": "string", "qty": "uint16", "Weight": "float32"}, props(defs["Line"]))
	assert.Equal(t, map[string]string{"Day": "int8"}, props(defs["shop.Date"]))
	assert.Equal(t, map[string]string{"Note": "string"}, props(defs["Anonymous"]))
	assert.Equal(t, "string", defs["Status"].Alias)
	assert.Equal(t, "Set<string>", defs["Tags"].Alias)

	status := defs["Order"].Properties[1]
	require.NotNil(t, status.Default)
	assert.Equal(t, "pending", status.Default.Value)

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, CodeUnsupported, diags.Warnings[0].Code)
	assert.Equal(t, "shop.Order", diags.Warnings[0].TypeName)
	assert.Equal(t, "notify", diags.Warnings[0].Path)
}

func TestDescribeBuilds(t *testing.T) {
	t.Parallel()

	file, _ := NewAnalyzer().Describe(check(t, "example.com/shop", shopSrc))

	raw, err := schema.Marshal(file)
	require.NoError(t, err)

	parsed, err := schema.Parse(raw)
	require.NoError(t, err)

	s, diags := schema.Build(parsed)
	require.False(t, diags.HasErrors(), diags.Error())

	c := compiler.New(serializer.Default())

	for _, name := range s.Names() {
		ref, ok := s.Ref(name)
		require.True(t, ok)

		for _, dir := range []serializer.Direction{serializer.Cast, serializer.Serialize} {
			_, err := c.Compile(ref, dir)
			assert.NoError(t, err, "%s %s", name, dir)
		}
	}

	order, _ := s.Ref("Order")

	out, err := c.Convert(map[string]any{
		"id":     "7",
		"lines":  []any{},
		"placed": "2021-10-19",
		"total":  "12",
		"meta":   []any{},
		"notify": nil,
		"extra":  map[string]any{"Note": "fragile"},
	}, order, serializer.Cast)
	require.NoError(t, err)
	assert.Equal(t, "pending", out.(map[string]any)["status"])
}

func TestDescribeNameClash(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer()
	a.Describe(check(t, "example.com/billing", "package billing\n\ntype Item struct{ Cents int }\n"))

	file, _ := a.Describe(check(t, "example.com/stock", "package stock\n\ntype Item struct{ Count uint32 }\n"))
	require.Len(t, file.Types, 2)

	assert.Equal(t, "Item", file.Types[0].Name)
	assert.Equal(t, "stock.Item", file.Types[1].Name)
	assert.Equal(t, "uint32", file.Types[1].Properties[0].Type)
}

func TestDescribeBadDefault(t *testing.T) {
	t.Parallel()

	src := "package cfg\n\ntype Limits struct {\n\tMax int \"default:\\\"[1\\\"\"\n}\n"

	_, diags := NewAnalyzer().Describe(check(t, "example.com/cfg", src))
	require.True(t, diags.HasErrors())
	assert.Equal(t, schema.CodeBadDefault, diags.Errors[0].Code)
	assert.Equal(t, "Max", diags.Errors[0].Path)
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	t.Parallel()

	file, diags, err := NewAnalyzer().LoadPackages("./testdata/shop")
	require.NoError(t, err)
	assert.Empty(t, diags.Warnings)

	var names []string
	for _, def := range file.Types {
		names = append(names, def.Name)
	}

	assert.Equal(t, []string{"Customer", "Order", "Status"}, names)

	_, _, err = NewAnalyzer().LoadPackages("./testdata/missing")
	require.Error(t, err)
}

func TestTypeID(t *testing.T) {
	t.Parallel()

	id := TypeID{PkgPath: "example.com/shop", Name: "Order"}
	assert.Equal(t, "example.com/shop.Order", id.String())
	assert.Equal(t, "shop.Order", id.Qualified())

	// Empty package path
	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
	assert.Equal(t, "int", idNoPkg.Qualified())
}
