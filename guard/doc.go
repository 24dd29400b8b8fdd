// Package guard compiles runtime predicates that decide whether a value fits a
// descriptor. Exact guards accept values already in internal form and drive
// serialization; loose guards also accept values a cast could coerce.
package guard
