// Package schema loads descriptors from YAML schema files.
//
// A schema file names types and describes them with type expressions, so
// descriptors can be kept next to the data they validate instead of being
// derived from Go types.
//
// # Schema Overview
//
//	version: "1"
//	options:
//	  dialect: json
//	  allow: [text-number, datetime, collections]
//	types:
//	  User:
//	    username: string
//	    created: Date
//	    logins:
//	      type: integer
//	      default: 0
//	    nickname?: string          # trailing ? marks an optional property
//	    manager?: User
//	  Tags: Set<string>            # a scalar defines an alias
//	  Row: "[boolean, ...string[], number]"
//
// A mapping under types defines a class whose properties keep their order.
//
// # Type Expressions
//
//   - Primitives: string, number, boolean, bigint, any
//   - Brands: integer, int8, uint8, int16, uint16, int32, uint32, float32, uuid
//   - Date
//   - Arrays: T[]; collections: Set<T>, Map<K, V>
//   - Unions: A | B, members tried in order
//   - Tuples: [A, B], with at most one rest element [A, ...B[], C] and
//     optional element names [x: number, y: number]
//   - Literals: 'x', "x", 1.5, true, false, null
//   - Grouping: (A | B)[]
//   - Names of other types in the file, including the type being defined
//
// # Options
//
// The options section configures the dialect the schema is meant for. allow
// lists coercion categories by name; when it is missing every category is
// allowed, an empty list allows none.
package schema
