// Package analyze derives schema files from Go source.
//
// It uses golang.org/x/tools/go/packages with go/types to walk the exported
// named types of the loaded packages and describe them the way the reflection
// package would at run time:
//   - structs become classes with one property per exported field,
//     named after the json tag
//   - named basic, slice and map types become aliases
//   - structs reached from fields are described too, wherever they live
//
// Types without a description (channels, funcs, complex numbers) are reported
// as warnings and described as any.
package analyze
