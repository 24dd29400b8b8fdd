// Package reflection derives descriptors from Go types.
//
// Structs become classes whose identity is the struct type. Properties are
// the exported, non-embedded fields under their json names; a field is
// optional when it is a pointer or tagged omitempty, and a `default` tag holds
// a YAML value used when the property is absent.
package reflection
