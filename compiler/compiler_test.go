package compiler_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecaster/compiler"
	"typecaster/descriptor"
	"typecaster/failure"
	"typecaster/options"
	"typecaster/serializer"
	"typecaster/value"
)

var created = time.Date(2021, 10, 19, 0, 22, 58, 257e6, time.UTC)

func newCompiler() *compiler.Compiler {
	return compiler.New(serializer.JSON(serializer.DefaultConfig()))
}

func cast(t *testing.T, c *compiler.Compiler, ref descriptor.Ref, in any) any {
	t.Helper()

	out, err := c.Convert(in, ref, serializer.Cast)
	require.NoError(t, err, spew.Sdump(in))

	return out
}

func TestCastPrimitives(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()

	tests := []struct {
		name string
		id   descriptor.ID
		in   any
		want any
	}{
		{name: "string", id: a.Str(), in: "123", want: "123"},
		{name: "string from number", id: a.Str(), in: 123, want: "123"},
		{name: "number", id: a.Number(), in: 123, want: 123.0},
		{name: "number from text", id: a.Number(), in: "123", want: 123.0},
		{name: "date", id: a.Date(), in: "2021-10-19T00:22:58.257Z", want: created},
		{name: "date from millis", id: a.Date(), in: float64(created.UnixMilli()), want: created},
		{name: "integer", id: a.Integer(), in: 123.456, want: int64(123)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cast(t, c, a.Ref(tt.id), tt.in))
		})
	}
}

func TestTuple(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()

	pair := a.TupleOf(descriptor.Elem(a.Str()), descriptor.Elem(a.Number()))
	tail := a.TupleOf(descriptor.Rest(a.Str()), descriptor.Elem(a.Number()))
	mid := a.TupleOf(descriptor.Elem(a.Boolean()), descriptor.Rest(a.Str()), descriptor.Elem(a.Number()))

	tests := []struct {
		name string
		id   descriptor.ID
		in   []any
		want []any
	}{
		{name: "pair", id: pair, in: []any{12, "13"}, want: []any{"12", 13.0}},
		{name: "rest first", id: tail, in: []any{12, "13"}, want: []any{"12", 13.0}},
		{name: "rest first spread", id: tail, in: []any{12, 13, "14"}, want: []any{"12", "13", 14.0}},
		{name: "rest middle", id: mid, in: []any{1, 12, "13"}, want: []any{true, "12", 13.0}},
		{name: "rest middle spread", id: mid, in: []any{1, 12, 13, "14"}, want: []any{true, "12", "13", 14.0}},
		{name: "rest empty", id: mid, in: []any{0, "14"}, want: []any{false, 14.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cast(t, c, a.Ref(tt.id), tt.in))
		})
	}

	_, err := c.Convert([]any{true}, a.Ref(mid), serializer.Cast)
	require.ErrorIs(t, err, failure.ErrLength)

	_, err = c.Convert([]any{"a", 1, 2}, a.Ref(pair), serializer.Cast)
	require.ErrorIs(t, err, failure.ErrLength)
}

func TestCollections(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()

	set := a.Ref(a.SetOf(a.Str()))
	assert.Equal(t, value.NewSet("a", "b"), cast(t, c, set, []any{"a", "a", "b"}))
	assert.Equal(t, value.NewSet("a", "2", "b"), cast(t, c, set, []any{"a", 2, "b"}))

	out, err := c.Convert(value.NewSet("a", "b"), set, serializer.Serialize)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out)

	m := a.Ref(a.MapOf(a.Str(), a.Number()))
	assert.Equal(t,
		value.NewMap(value.Entry{Key: "a", Value: 2.0}, value.Entry{Key: "b", Value: 3.0}),
		cast(t, c, m, []any{[]any{"a", 1}, []any{"a", 2}, []any{"b", 3}}),
	)
	assert.Equal(t,
		value.NewMap(value.Entry{Key: "a", Value: 1.0}, value.Entry{Key: "2", Value: 2.0}, value.Entry{Key: "b", Value: 3.0}),
		cast(t, c, m, []any{[]any{"a", 1}, []any{2, "2"}, []any{"b", 3}}),
	)

	out, err = c.Convert(value.NewMap(value.Entry{Key: "a", Value: 2.0}, value.Entry{Key: "b", Value: 3.0}), m, serializer.Serialize)
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"a", 2.0}, []any{"b", 3.0}}, out)
}

func TestUnion(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()

	strOrNum := a.Ref(a.UnionOf(a.Str(), a.Number()))
	strOrInt := a.Ref(a.UnionOf(a.Str(), a.Integer()))

	assert.Equal(t, "a", cast(t, c, strOrNum, "a"))
	assert.Equal(t, 2.0, cast(t, c, strOrNum, 2))
	assert.Equal(t, int64(2), cast(t, c, strOrInt, 2))
	assert.Equal(t, "2.2", cast(t, c, strOrInt, 2.2))

	_, err := c.Convert(true, a.Ref(a.UnionOf(a.Number(), a.Date())), serializer.Serialize)
	require.ErrorIs(t, err, failure.ErrNoUnionMember)
	assert.EqualError(t, err, "validation failed: no union member matches (expected number | Date, got true (bool))")
}

func userClass(a *descriptor.Arena) descriptor.ID {
	return a.Named("User", descriptor.Class{
		Name: "User",
		Properties: []descriptor.Property{
			descriptor.Required("username", a.Str()),
			descriptor.Required("created", a.Date()),
			descriptor.Required("logins", a.Integer()).WithDefault(func() any { return 0 }),
			descriptor.Optional("nickname", a.Str()),
			descriptor.Optional("score", a.Number()).WithDefault(func() any { return 2 }),
		},
	})
}

func TestClassCast(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()
	user := a.Ref(userClass(a))

	tests := []struct {
		name string
		in   map[string]any
		want map[string]any
	}{
		{
			name: "defaults",
			in:   map[string]any{"username": "Peter", "created": "2021-10-19T00:22:58.257Z"},
			want: map[string]any{"username": "Peter", "created": created, "logins": int64(0), "nickname": nil, "score": 2.0},
		},
		{
			name: "present",
			in:   map[string]any{"username": "Peter", "created": created, "logins": "3", "nickname": "pete", "score": 5},
			want: map[string]any{"username": "Peter", "created": created, "logins": int64(3), "nickname": "pete", "score": 5.0},
		},
		{
			name: "null clears optional default",
			in:   map[string]any{"username": "Peter", "created": created, "score": nil},
			want: map[string]any{"username": "Peter", "created": created, "logins": int64(0), "nickname": nil, "score": nil},
		},
		{
			name: "null on required default",
			in:   map[string]any{"username": "Peter", "created": created, "logins": nil, "extra": true},
			want: map[string]any{"username": "Peter", "created": created, "logins": int64(0), "nickname": nil, "score": 2.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cast(t, c, user, tt.in))
		})
	}

	_, err := c.Convert(map[string]any{"created": created}, user, serializer.Cast)
	require.ErrorIs(t, err, failure.ErrRequired)
	assert.EqualError(t, err, "validation failed at username: required property is missing")

	_, err = c.Convert("Peter", user, serializer.Cast)
	require.ErrorIs(t, err, compiler.ErrNotObject)
}

func TestClassSerialize(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()
	user := a.Ref(userClass(a))

	out, err := c.Convert(map[string]any{
		"created":  created,
		"username": "Peter",
		"logins":   int64(3),
		"nickname": nil,
	}, user, serializer.Serialize)
	require.NoError(t, err)

	rec, ok := out.(*value.Record)
	require.True(t, ok)
	assert.Equal(t, []string{"username", "created", "logins", "score"}, rec.Keys())

	raw, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"Peter","created":"2021-10-19T00:22:58.257Z","logins":3,"score":2}`, string(raw))
}

func TestErrorPath(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()

	group := a.Ref(a.Named("Group", descriptor.Class{
		Name:       "Group",
		Properties: []descriptor.Property{descriptor.Required("users", a.ArrayOf(userClass(a)))},
	}))

	users := []any{
		map[string]any{"username": "a", "created": created},
		map[string]any{"username": "b", "created": created},
		map[string]any{"username": "c", "created": "yesterday"},
	}

	_, err := c.Convert(map[string]any{"users": users}, group, serializer.Cast)

	var ve *failure.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "users[2].created", ve.Path.String())
	assert.Equal(t, "Date", ve.Type)
}

type account struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Tags    []string       `json:"tags,omitempty"`
	Limit   *int32         `json:"limit,omitempty"`
	Created time.Time      `json:"created"`
	Owner   *account       `json:"owner,omitempty"`
	Extra   map[string]int `json:"extra,omitempty"`
}

func accountClass(a *descriptor.Arena) descriptor.ID {
	id := a.Reserve("Account")

	err := a.Define(id, descriptor.Class{
		Name:     "Account",
		Identity: reflect.TypeFor[account](),
		Properties: []descriptor.Property{
			descriptor.Required("id", a.Integer()),
			descriptor.Required("name", a.Str()),
			descriptor.Optional("tags", a.ArrayOf(a.Str())),
			descriptor.Optional("limit", a.Brand(descriptor.BrandInt32)),
			descriptor.Required("created", a.Date()),
			descriptor.Optional("owner", id),
			descriptor.Optional("extra", a.MapOf(a.Str(), a.Integer())),
		},
	})
	if err != nil {
		panic(err)
	}

	return id
}

func TestIdentityClass(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()
	ref := a.Ref(accountClass(a))

	limit := int32(5)
	want := &account{
		ID:      7,
		Name:    "main",
		Tags:    []string{"a", "2"},
		Limit:   &limit,
		Created: created,
		Owner:   &account{ID: 1, Name: "root", Created: created},
		Extra:   map[string]int{"x": 1},
	}

	got := cast(t, c, ref, map[string]any{
		"id":      "7",
		"name":    "main",
		"tags":    []any{"a", 2},
		"limit":   5.0,
		"created": "2021-10-19T00:22:58.257Z",
		"owner":   map[string]any{"id": 1, "name": "root", "created": created},
		"extra":   []any{[]any{"x", 1}},
	})
	assert.Equal(t, want, got)

	out, err := c.Convert(want, ref, serializer.Serialize)
	require.NoError(t, err)

	raw, err := out.(*value.Record).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"name": "main",
		"tags": ["a", "2"],
		"limit": 5,
		"created": "2021-10-19T00:22:58.257Z",
		"owner": {"id": 1, "name": "root", "created": "2021-10-19T00:22:58.257Z"},
		"extra": [["x", 1]]
	}`, string(raw))
}

func TestRecursiveDescriptor(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()

	tree := a.Reserve("Tree")
	require.NoError(t, a.Define(tree, descriptor.Class{
		Name: "Tree",
		Properties: []descriptor.Property{
			descriptor.Required("value", a.Number()),
			descriptor.Optional("children", a.ArrayOf(tree)),
		},
	}))

	in := map[string]any{
		"value": "1",
		"children": []any{
			map[string]any{"value": 2},
			map[string]any{"value": 3, "children": []any{map[string]any{"value": 4}}},
		},
	}

	got := cast(t, c, a.Ref(tree), in)
	assert.Equal(t, map[string]any{
		"value": 1.0,
		"children": []any{
			map[string]any{"value": 2.0, "children": nil},
			map[string]any{"value": 3.0, "children": []any{map[string]any{"value": 4.0, "children": nil}}},
		},
	}, got)

	_, err := c.Convert(map[string]any{"value": 1, "children": []any{map[string]any{"value": "x"}}}, a.Ref(tree), serializer.Cast)

	var ve *failure.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "children[0].value", ve.Path.String())
}

func TestRecursiveUnion(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()

	jsonValue := a.Reserve("Value")
	require.NoError(t, a.Define(jsonValue, descriptor.Union{
		Members: []descriptor.ID{a.Number(), a.Str(), a.ArrayOf(jsonValue)},
	}))

	assert.Equal(t, []any{1.0, []any{"a", []any{}}}, cast(t, c, a.Ref(jsonValue), []any{1, []any{"a", []any{}}}))
}

func TestConcurrentFirstUse(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	reg := serializer.JSON(serializer.DefaultConfig())
	c := compiler.New(reg)
	ref := a.Ref(accountClass(a))

	var wg sync.WaitGroup

	convs := make([]*serializer.Converter, 32)

	for i := range convs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			conv, err := c.Compile(ref, serializer.Cast)
			assert.NoError(t, err)
			convs[i] = conv
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(1), reg.Cache().Compiles())

	for _, conv := range convs {
		assert.Same(t, convs[0], conv)
	}
}

func TestSubConvertersAreShared(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	reg := serializer.JSON(serializer.DefaultConfig())
	c := compiler.New(reg)

	names := a.ArrayOf(a.Str())

	_, err := c.Compile(a.Ref(a.TupleOf(descriptor.Elem(names))), serializer.Cast)
	require.NoError(t, err)

	conv, err, ok := reg.Cache().Load(serializer.Key{Ref: a.Ref(names), Direction: serializer.Cast})
	require.True(t, ok)
	require.NoError(t, err)

	again, err := c.Compile(a.Ref(names), serializer.Cast)
	require.NoError(t, err)
	assert.Same(t, conv, again)
	assert.Equal(t, int64(1), reg.Cache().Compiles())
}

func TestCompilationErrorIsCached(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	c := newCompiler()

	empty := a.Ref(a.Add(descriptor.Union{}))

	_, first := c.Compile(empty, serializer.Cast)

	var ce *failure.CompilationError
	require.ErrorAs(t, first, &ce)
	require.NotNil(t, ce.Diagnostics)

	_, second := c.Compile(empty, serializer.Cast)
	assert.Same(t, first, second)

	currency := a.Ref(a.Brand("currency"))

	_, err := c.Compile(currency, serializer.Serialize)

	var ute *failure.UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "currency", ute.Brand)
}

type money string

func TestDialectIsolation(t *testing.T) {
	t.Parallel()

	a := descriptor.NewArena()
	moneyRef := a.Ref(a.Brand("money"))

	plain := compiler.New(serializer.JSON(serializer.DefaultConfig()))

	custom := serializer.JSON(serializer.Config{Name: "money", Allowed: options.CategoryAll})
	require.NoError(t, custom.RegisterCaster("money", func(s string) (money, error) {
		return money("$" + s), nil
	}))

	got, err := compiler.New(custom).Convert("5", moneyRef, serializer.Cast)
	require.NoError(t, err)
	assert.Equal(t, money("$5"), got)

	_, err = plain.Convert("5", moneyRef, serializer.Cast)

	var ute *failure.UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "json", ute.Dialect)
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := compiler.New(serializer.JSON(serializer.DefaultConfig()), compiler.WithLogger(log))

	a := descriptor.NewArena()
	_, err := c.Compile(a.Ref(a.ArrayOf(a.Str())), serializer.Serialize)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `msg="compiled converter" type=string direction=Serialize dialect=json`)
	assert.Contains(t, buf.String(), `msg="compiled converter" type=string[] direction=Serialize dialect=json`)
}

func ExampleCompiler_Convert() {
	a := descriptor.NewArena()
	c := compiler.New(serializer.Default())

	point := a.TupleOf(descriptor.Elem(a.Integer()), descriptor.Elem(a.Integer()))

	out, err := c.Convert([]any{"3", 4.9}, a.Ref(point), serializer.Cast)
	fmt.Println(out, err)

	_, err = c.Convert([]any{"3"}, a.Ref(point), serializer.Cast)
	fmt.Println(err)
	// Output:
	// [3 4] <nil>
	// validation failed: length mismatch: 1 elements (expected [integer, integer], got [3] ([]interface {}))
}
