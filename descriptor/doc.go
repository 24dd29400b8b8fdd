// Package descriptor holds the structural type model consumed by the converter
// compiler. Descriptors live in an append-only Arena and reference each other
// by ID, so self-referential types are plain index cycles.
package descriptor
