// Package value holds the container values produced by casting: insertion
// ordered sets, maps and records, plus ISO-8601 date helpers.
//
// Sets and maps compare members by a canonical key (see KeyOf): scalars and
// dates by value, slices and plain objects by their rendered contents, and
// pointers (records, nested sets, class instances) by identity.
package value
