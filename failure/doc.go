// Package failure defines the errors returned by cast and serialize calls:
// ValidationError for input that does not fit a descriptor, UnsupportedTypeError
// for descriptor kinds a dialect cannot convert, and CompilationError for
// structurally invalid descriptors.
package failure
