// Package typecaster converts JSON-like data into typed values and back.
//
// Cast validates and converts external input against a descriptor, coercing
// where the dialect allows it. Serialize turns internal values into their
// JSON-compatible form. Descriptors come either from Go types, through
// reflection, or are built explicitly in a descriptor.Arena:
//
//	u, err := typecaster.Cast[User](map[string]any{"name": "Peter", "created": "2021-10-19T00:22:58.257Z"})
//
//	out, err := typecaster.Serialize(u)
//	raw, err := json.Marshal(out)
package typecaster
