// Package node places dynamic values produced by a cast into Go-typed
// destinations. Assigners are compiled once per destination type and dispatch
// on its shape: primitive, interface, pointer, slice, map or struct.
package node
