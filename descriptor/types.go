package descriptor

import (
	"reflect"

	"typecaster/primitive"
)

// Node is one descriptor variant. The set of variants is closed.
type Node interface {
	Kind() Kind
	node()
}

// PrimitiveType names a base scalar type.
type PrimitiveType string

const (
	PrimitiveString  PrimitiveType = "string"
	PrimitiveNumber  PrimitiveType = "number"
	PrimitiveBoolean PrimitiveType = "boolean"
	PrimitiveBigInt  PrimitiveType = "bigint"
	PrimitiveAny     PrimitiveType = "any"
)

// IsValid reports whether t is one of the known primitive types.
func (t PrimitiveType) IsValid() bool {
	switch t {
	case PrimitiveString, PrimitiveNumber, PrimitiveBoolean, PrimitiveBigInt, PrimitiveAny:
		return true
	}

	return false
}

// Brand narrows a primitive with an extra conversion rule.
type Brand string

const (
	BrandInteger Brand = "integer"
	BrandInt8    Brand = "int8"
	BrandUint8   Brand = "uint8"
	BrandInt16   Brand = "int16"
	BrandUint16  Brand = "uint16"
	BrandInt32   Brand = "int32"
	BrandUint32  Brand = "uint32"
	BrandFloat32 Brand = "float32"
	BrandUUID    Brand = "uuid"
)

var brandKinds = map[Brand]primitive.KindEnum{
	BrandInteger: primitive.KindInt64,
	BrandInt8:    primitive.KindInt8,
	BrandUint8:   primitive.KindUint8,
	BrandInt16:   primitive.KindInt16,
	BrandUint16:  primitive.KindUint16,
	BrandInt32:   primitive.KindInt32,
	BrandUint32:  primitive.KindUint32,
	BrandFloat32: primitive.KindFloat32,
	BrandUUID:    primitive.KindString,
}

// Base returns the primitive a known brand narrows. Custom brands report false.
func (b Brand) Base() (PrimitiveType, bool) {
	k, ok := brandKinds[b]
	switch {
	case !ok:
		return "", false
	case k == primitive.KindString:
		return PrimitiveString, true
	default:
		return PrimitiveNumber, true
	}
}

// Primitive returns the Go kind values of a known brand are held in, or 0.
func (b Brand) Primitive() primitive.KindEnum {
	return brandKinds[b]
}

// IsInteger reports whether b is one of the integer brands.
func (b Brand) IsInteger() bool {
	return brandKinds[b].IsInteger()
}

// CollectionKind selects between the Set and Map collection shapes.
type CollectionKind int

const (
	CollectionSet CollectionKind = iota + 1
	CollectionMap
)

// Primitive describes a plain scalar.
type Primitive struct {
	Type PrimitiveType
}

// Branded describes a primitive narrowed by a brand, e.g. integer.
type Branded struct {
	Base  PrimitiveType
	Brand Brand
}

// Literal describes a single value: a string, float64, bool or nil (null).
type Literal struct {
	Value any
}

// Base returns the primitive type of the literal value, PrimitiveAny for null.
func (l Literal) Base() PrimitiveType {
	switch l.Value.(type) {
	case string:
		return PrimitiveString
	case float64:
		return PrimitiveNumber
	case bool:
		return PrimitiveBoolean
	default:
		return PrimitiveAny
	}
}

// Class describes an object shape. A non-nil Identity is the struct type
// cast results are constructed as.
type Class struct {
	Name       string
	Identity   reflect.Type
	Properties []Property
}

// Property is a named member of a Class.
type Property struct {
	Name     string
	Type     ID
	Optional bool
	Default  func() any
}

// Required returns a required property.
func Required(name string, typ ID) Property {
	return Property{Name: name, Type: typ}
}

// Optional returns an optional property.
func Optional(name string, typ ID) Property {
	return Property{Name: name, Type: typ, Optional: true}
}

// WithDefault returns a copy of p producing fn() when the input lacks the property.
func (p Property) WithDefault(fn func() any) Property {
	p.Default = fn
	return p
}

// HasDefault reports whether a default thunk is declared.
func (p Property) HasDefault() bool {
	return p.Default != nil
}

// Tuple describes a fixed sequence; at most one element may be a rest element.
type Tuple struct {
	Elements []TupleElement
}

// TupleElement is a position of a Tuple. For a rest element Type is the type
// of each collected item.
type TupleElement struct {
	Name string
	Type ID
	Rest bool
}

// Elem returns a fixed tuple element.
func Elem(typ ID) TupleElement {
	return TupleElement{Type: typ}
}

// Rest returns a variadic tuple element whose items are of typ.
func Rest(typ ID) TupleElement {
	return TupleElement{Type: typ, Rest: true}
}

// RestIndex returns the position of the rest element or -1.
func (t Tuple) RestIndex() int {
	for i, e := range t.Elements {
		if e.Rest {
			return i
		}
	}

	return -1
}

// Layout maps each position of an input of length n to the index of the
// element converting it: leading elements bind by position, trailing elements
// bind from the end and the rest element takes the positions in between.
// It reports false when n does not fit the tuple.
func (t Tuple) Layout(n int) ([]int, bool) {
	rest := t.RestIndex()
	if rest < 0 {
		if n != len(t.Elements) {
			return nil, false
		}

		out := make([]int, n)
		for i := range out {
			out[i] = i
		}

		return out, true
	}

	fixed := len(t.Elements) - 1
	if n < fixed {
		return nil, false
	}

	trailing := fixed - rest
	out := make([]int, n)

	for i := range out {
		switch {
		case i < rest:
			out[i] = i
		case i >= n-trailing:
			out[i] = len(t.Elements) - (n - i)
		default:
			out[i] = rest
		}
	}

	return out, true
}

// Union describes a choice between members, resolved in declaration order.
type Union struct {
	Members []ID
}

// Collection describes a Set of Elem or a Map from Key to Elem.
type Collection struct {
	Type CollectionKind
	Key  ID
	Elem ID
}

// Array describes a homogeneous sequence.
type Array struct {
	Elem ID
}

// Date describes a point in time exchanged as an ISO-8601 string or epoch millis.
type Date struct{}

func (Primitive) Kind() Kind  { return KindPrimitive }
func (Branded) Kind() Kind    { return KindBranded }
func (Literal) Kind() Kind    { return KindLiteral }
func (Class) Kind() Kind      { return KindClass }
func (Tuple) Kind() Kind      { return KindTuple }
func (Union) Kind() Kind      { return KindUnion }
func (Collection) Kind() Kind { return KindCollection }
func (Array) Kind() Kind      { return KindArray }
func (Date) Kind() Kind       { return KindDate }

func (Primitive) node()  {}
func (Branded) node()    {}
func (Literal) node()    {}
func (Class) node()      {}
func (Tuple) node()      {}
func (Union) node()      {}
func (Collection) node() {}
func (Array) node()      {}
func (Date) node()       {}
