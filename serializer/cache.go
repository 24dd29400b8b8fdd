package serializer

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	conv *Converter
	err  error
}

// Cache retains at most one converter, or one compilation error, per key.
type Cache struct {
	entries  sync.Map
	group    singleflight.Group
	compiles atomic.Int64
}

// Load returns the cached converter or error of k.
func (c *Cache) Load(k Key) (*Converter, error, bool) {
	e, ok := c.entries.Load(k)
	if !ok {
		return nil, nil, false
	}

	return e.(*entry).conv, e.(*entry).err, true
}

// Store publishes conv unless a converter of the same key is already present,
// in which case the present one is returned.
func (c *Cache) Store(conv *Converter) *Converter {
	e, _ := c.entries.LoadOrStore(conv.Key, &entry{conv: conv})

	return e.(*entry).conv
}

// Fail records a compilation error of k and returns the recorded error.
func (c *Cache) Fail(k Key, err error) error {
	e, _ := c.entries.LoadOrStore(k, &entry{err: err})

	return e.(*entry).err
}

// Do returns the converter of k, running compile once across concurrent callers
// when k is not cached yet. compile is expected to publish its results.
func (c *Cache) Do(k Key, compile func() (*Converter, error)) (*Converter, error) {
	if conv, err, ok := c.Load(k); ok {
		return conv, err
	}

	v, err, _ := c.group.Do(k.String(), func() (any, error) {
		if conv, err, ok := c.Load(k); ok {
			return conv, err
		}

		c.compiles.Add(1)

		conv, err := compile()
		if err != nil {
			return nil, c.Fail(k, err)
		}

		return c.Store(conv), nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Converter), nil
}

// Compiles returns how many times Do ran a compilation.
func (c *Cache) Compiles() int64 {
	return c.compiles.Load()
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(any, any) bool {
		n++
		return true
	})

	return n
}
