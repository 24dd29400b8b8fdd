package value_test

import (
	"encoding/json"
	"math"
	"math/big"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"typecaster/options"
	"typecaster/primitive"
	"typecaster/value"
)

func TestSet(t *testing.T) {
	t.Parallel()

	s := value.NewSet("a", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []any{"a", "b"}, s.Values())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Add("b"))
	assert.True(t, s.Add("c"))
	assert.Equal(t, []any{"a", "b", "c"}, slices.Collect(s.All()))

	assert.True(t, value.NewSet("b", "a").Equal(value.NewSet("a", "b")))
	assert.False(t, value.NewSet("a").Equal(value.NewSet("b")))
}

func TestSetKeys(t *testing.T) {
	t.Parallel()

	day := time.Date(2021, 10, 19, 0, 0, 0, 0, time.UTC)

	s := value.NewSet(
		day, day.In(time.FixedZone("CEST", 2*3600)),
		big.NewInt(5), big.NewInt(5),
		[]any{"x", 1.0}, []any{"x", 1.0},
		map[string]any{"a": 1.0}, map[string]any{"a": 1.0},
		int64(2), 2.0,
	)
	assert.Equal(t, 5, s.Len())
}

func TestSetNestedIdentity(t *testing.T) {
	t.Parallel()

	inner := value.NewSet("a")
	outer := value.NewSet(inner, value.NewSet("a"), inner)
	assert.Equal(t, 2, outer.Len())
	assert.True(t, outer.Has(inner))
	assert.False(t, outer.Has(value.NewSet("a")))
}

func TestMapLastWriteWins(t *testing.T) {
	t.Parallel()

	m := value.NewMap(
		value.Entry{Key: "a", Value: 1.0},
		value.Entry{Key: "a", Value: 2.0},
		value.Entry{Key: "b", Value: 3.0},
	)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []any{"a", "b"}, m.Keys())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = m.Get("c")
	assert.False(t, ok)

	assert.Equal(t, []value.Entry{{Key: "a", Value: 2.0}, {Key: "b", Value: 3.0}}, m.Entries())

	other := value.NewMap(value.Entry{Key: "b", Value: 3.0}, value.Entry{Key: "a", Value: 2.0})
	assert.True(t, m.Equal(other))

	other.Set("a", 5.0)
	assert.False(t, m.Equal(other))
}

func TestRecordMarshal(t *testing.T) {
	t.Parallel()

	r := value.NewRecord("username", "Peter", "created", "2021-10-19T00:22:58.257Z")
	r.Set("logins", 2)
	r.Set("username", "Paul")

	assert.Equal(t, []string{"username", "created", "logins"}, r.Keys())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"username":"Paul","created":"2021-10-19T00:22:58.257Z","logins":2}`, string(data))

	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, "username: Paul\ncreated: \"2021-10-19T00:22:58.257Z\"\nlogins: 2\n", string(out))

	assert.Equal(t, map[string]any{"username": "Paul", "created": "2021-10-19T00:22:58.257Z", "logins": 2}, r.ToMap())
}

func TestDates(t *testing.T) {
	t.Parallel()

	want := time.Date(2021, 10, 19, 0, 22, 58, 257_000_000, time.UTC)

	got, err := value.ParseDate("2021-10-19T00:22:58.257Z")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "2021-10-19T00:22:58.257Z", value.FormatDate(got))

	got, err = value.ParseDate("2021-10-19T02:22:58.257+02:00")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = value.ParseDate("2021-10-19")
	require.NoError(t, err)
	assert.Equal(t, "2021-10-19T00:00:00.000Z", value.FormatDate(got))

	assert.Equal(t, want, value.FromEpochMillis(float64(want.UnixMilli())))

	_, err = value.ParseDate("yesterday")
	assert.EqualError(t, err, `value is not convertible: "yesterday" is not an ISO-8601 date`)
}

func TestAsDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2021, 10, 19, 0, 22, 58, 257_000_000, time.UTC)

	got, err := value.AsDate("2021-10-19T00:22:58.257Z", options.CategoryDatetime)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = value.AsDate(float64(want.UnixMilli()), options.CategoryTimestamp)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = value.AsDate(want, options.CategoryNone)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = value.AsDate("2021-10-19T00:22:58.257Z", options.CategoryTimestamp)
	require.ErrorIs(t, err, primitive.ErrNotConvertible)

	_, err = value.AsDate(1634602978257.0, options.CategoryNone)
	require.ErrorIs(t, err, primitive.ErrNotConvertible)

	for _, ms := range []any{math.NaN(), math.Inf(1), math.Inf(-1), 9e15} {
		_, err = value.AsDate(ms, options.CategoryTimestamp)
		require.ErrorIs(t, err, primitive.ErrNotConvertible, "%v", ms)
	}
}

func TestItems(t *testing.T) {
	t.Parallel()

	items, ok := value.Items([]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, items)

	items, ok = value.Items([2]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, []any{1, 2}, items)

	_, ok = value.Items("ab")
	assert.False(t, ok)

	_, ok = value.Items(nil)
	assert.False(t, ok)
}

func TestCollectionViews(t *testing.T) {
	t.Parallel()

	entries, ok := value.MapEntries(map[string]int{"b": 2, "a": 1, "c": 3})
	require.True(t, ok)
	assert.Equal(t, []value.Entry{{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 3}}, entries)

	entries, ok = value.MapEntries(value.NewMap(value.Entry{Key: "z", Value: 1}, value.Entry{Key: "a", Value: 2}))
	require.True(t, ok)
	assert.Equal(t, []any{"z", "a"}, []any{entries[0].Key, entries[1].Key})

	_, ok = value.MapEntries([]any{})
	assert.False(t, ok)

	members, ok := value.SetMembers(map[int]struct{}{10: {}, 2: {}, 7: {}})
	require.True(t, ok)
	assert.Equal(t, []any{2, 7, 10}, members)

	_, ok = value.SetMembers(map[string]int{"a": 1})
	assert.False(t, ok)
}
