package failure

import (
	"errors"
	"fmt"
	"strconv"

	"typecaster/internal/diagnostic"
)

var (
	ErrRequired      = errors.New("required property is missing")
	ErrLength        = errors.New("length mismatch")
	ErrNoUnionMember = errors.New("no union member matches")
)

// ValidationError reports an input value that cannot be converted to the
// descriptor found at Path.
type ValidationError struct {
	Path   Path
	Value  any
	Type   string
	Reason string
	Err    error
}

// Invalid creates a ValidationError for v not fitting typ. The reason is taken from err.
func Invalid(typ string, v any, err error) *ValidationError {
	return &ValidationError{Value: v, Type: typ, Reason: err.Error(), Err: err}
}

// Missing creates a ValidationError for the absent required property name.
func Missing(name, typ string) *ValidationError {
	return &ValidationError{
		Path:   Path{Key(name)},
		Type:   typ,
		Reason: ErrRequired.Error(),
		Err:    ErrRequired,
	}
}

func (e *ValidationError) Error() string {
	msg := "validation failed"
	if len(e.Path) > 0 {
		msg += " at " + e.Path.String()
	}

	msg += ": " + e.Reason

	if e.Type != "" && !errors.Is(e.Err, ErrRequired) {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Type, render(e.Value))
	}

	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Wrap prepends seg to the path of the ValidationError found in err's chain
// and returns err itself. The ValidationError is edited in place, so a wrapper
// that already rendered its message, like one built by fmt.Errorf, keeps the
// old path. Other errors are returned unchanged.
func Wrap(err error, seg Segment) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.Path = append(Path{seg}, ve.Path...)
	}

	return err
}

// UnsupportedTypeError reports a descriptor kind that has no converter factory
// registered in the dialect.
type UnsupportedTypeError struct {
	Kind    string
	Brand   string
	Dialect string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Brand != "" {
		return fmt.Sprintf("dialect %s has no converter for %s brand %q", e.Dialect, e.Kind, e.Brand)
	}

	return fmt.Sprintf("dialect %s has no converter for %s", e.Dialect, e.Kind)
}

// CompilationError reports a descriptor that cannot be compiled into a converter.
type CompilationError struct {
	Type        string
	Diagnostics *diagnostic.Diagnostics
	Err         error
}

func (e *CompilationError) Error() string {
	cause := e.Err
	if cause == nil && e.Diagnostics != nil {
		cause = e.Diagnostics.Error()
	}

	if cause == nil {
		return "cannot compile converter for " + e.Type
	}

	return fmt.Sprintf("cannot compile converter for %s: %v", e.Type, cause)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v (%T)", x, x)
	}
}
