package descriptor

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"sync"

	"typecaster/primitive"
)

var (
	ErrUnknownID = errors.New("unknown descriptor id")
	ErrUndefined = errors.New("descriptor is reserved but not defined")
	ErrRedefined = errors.New("descriptor is already defined")
	ErrNilNode   = errors.New("descriptor node is nil")
)

// ID addresses a node inside its Arena.
type ID int

// Ref identifies a descriptor across arenas. It is comparable and stable, so
// it serves as the converter cache key.
type Ref struct {
	Arena *Arena
	ID    ID
}

// Node returns the referenced node.
func (r Ref) Node() (Node, error) {
	if r.Arena == nil {
		return nil, fmt.Errorf("%w: %d (no arena)", ErrUnknownID, r.ID)
	}

	return r.Arena.Node(r.ID)
}

// At returns a reference to id in the same arena.
func (r Ref) At(id ID) Ref {
	return Ref{Arena: r.Arena, ID: id}
}

// IsZero reports whether r references nothing.
func (r Ref) IsZero() bool {
	return r.Arena == nil
}

func (r Ref) String() string {
	return Describe(r)
}

// Arena stores descriptor nodes. Nodes are only ever appended; a reserved slot
// is filled once by Define. It is safe for concurrent use.
type Arena struct {
	mu     sync.RWMutex
	nodes  []Node
	names  []string
	byName map[string]ID
	memo   map[string]ID
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		byName: make(map[string]ID),
		memo:   make(map[string]ID),
	}
}

// Add appends n and returns its id.
func (a *Arena) Add(n Node) ID {
	if n == nil {
		panic(ErrNilNode)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.push("", n)
}

// Named appends n under name. A later registration of the same name wins the lookup.
func (a *Arena) Named(name string, n Node) ID {
	if n == nil {
		panic(ErrNilNode)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.push(name, n)
}

// Reserve allocates a named slot to be filled by Define. References to the
// returned id may be used before the node exists, which is how cycles are built.
func (a *Arena) Reserve(name string) ID {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.push(name, nil)
}

// Define fills a slot allocated by Reserve.
func (a *Arena) Define(id ID, n Node) error {
	if n == nil {
		return ErrNilNode
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}

	if a.nodes[id] != nil {
		return fmt.Errorf("%w: %s", ErrRedefined, a.label(id))
	}

	a.nodes[id] = n

	return nil
}

// Node returns the node stored under id.
func (a *Arena) Node(id ID) (Node, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.has(id) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}

	if a.nodes[id] == nil {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, a.label(id))
	}

	return a.nodes[id], nil
}

// Ref returns a reference to id in a.
func (a *Arena) Ref(id ID) Ref {
	return Ref{Arena: a, ID: id}
}

// Len returns the number of slots, reserved ones included.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.nodes)
}

// Name returns the name id was registered under, or "".
func (a *Arena) Name(id ID) string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.has(id) {
		return ""
	}

	return a.names[id]
}

// Lookup finds a named node.
func (a *Arena) Lookup(name string) (ID, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	id, ok := a.byName[name]

	return id, ok
}

// Names returns all registered names in sorted order.
func (a *Arena) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return slices.Sorted(maps.Keys(a.byName))
}

func (a *Arena) Str() ID     { return a.shared("p:string", Primitive{Type: PrimitiveString}) }
func (a *Arena) Number() ID  { return a.shared("p:number", Primitive{Type: PrimitiveNumber}) }
func (a *Arena) Boolean() ID { return a.shared("p:boolean", Primitive{Type: PrimitiveBoolean}) }
func (a *Arena) BigInt() ID  { return a.shared("p:bigint", Primitive{Type: PrimitiveBigInt}) }
func (a *Arena) Any() ID     { return a.shared("p:any", Primitive{Type: PrimitiveAny}) }
func (a *Arena) Date() ID    { return a.shared("date", Date{}) }
func (a *Arena) Integer() ID { return a.Brand(BrandInteger) }

// Brand returns the branded node for b. Custom brands are based on PrimitiveAny.
func (a *Arena) Brand(b Brand) ID {
	base, ok := b.Base()
	if !ok {
		base = PrimitiveAny
	}

	return a.shared("b:"+string(b), Branded{Base: base, Brand: b})
}

// Literal returns the literal node for v. Go numbers are stored as float64.
func (a *Arena) Literal(v any) ID {
	if f, ok := primitive.ToFloat(v); ok {
		v = f
	}

	return a.shared(fmt.Sprintf("l:%T:%v", v, v), Literal{Value: v})
}

// ArrayOf returns the array node of elem.
func (a *Arena) ArrayOf(elem ID) ID {
	return a.shared("a:"+strconv.Itoa(int(elem)), Array{Elem: elem})
}

// SetOf returns the set node of elem.
func (a *Arena) SetOf(elem ID) ID {
	return a.shared("s:"+strconv.Itoa(int(elem)), Collection{Type: CollectionSet, Elem: elem})
}

// MapOf returns the map node from key to elem.
func (a *Arena) MapOf(key, elem ID) ID {
	return a.shared(
		"m:"+strconv.Itoa(int(key))+":"+strconv.Itoa(int(elem)),
		Collection{Type: CollectionMap, Key: key, Elem: elem},
	)
}

// TupleOf appends a tuple node.
func (a *Arena) TupleOf(elems ...TupleElement) ID {
	return a.Add(Tuple{Elements: elems})
}

// UnionOf appends a union node.
func (a *Arena) UnionOf(members ...ID) ID {
	return a.Add(Union{Members: members})
}

// Class appends a named class node.
func (a *Arena) Class(name string, identity reflect.Type, props ...Property) ID {
	return a.Named(name, Class{Name: name, Identity: identity, Properties: props})
}

func (a *Arena) shared(key string, n Node) ID {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.memo[key]; ok {
		return id
	}

	id := a.push("", n)
	a.memo[key] = id

	return id
}

func (a *Arena) push(name string, n Node) ID {
	if a.byName == nil {
		a.byName = make(map[string]ID)
		a.memo = make(map[string]ID)
	}

	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	a.names = append(a.names, name)

	if name != "" {
		a.byName[name] = id
	}

	return id
}

func (a *Arena) has(id ID) bool {
	return id >= 0 && int(id) < len(a.nodes)
}

func (a *Arena) label(id ID) string {
	if a.names[id] != "" {
		return a.names[id]
	}

	return "#" + strconv.Itoa(int(id))
}
