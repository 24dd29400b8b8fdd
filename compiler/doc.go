// Package compiler turns descriptors into converters.
//
// Classes, tuples, arrays and unions are compiled here; every other kind is
// delegated to the factories of the dialect. Each compiled node is published
// into the dialect cache, so a descriptor is compiled once per direction no
// matter how many roots reach it.
package compiler
