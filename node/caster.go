package node

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"typecaster/primitive"
	"typecaster/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
	ErrCasterRejected       = errors.New("caster rejected the value")
)

var errorType = reflect.TypeFor[error]()

// Caster is a user supplied conversion function of a custom brand.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster struct if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	if fn == nil {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	// runtime name is "<import path>.<func>", the import path may contain dots
	leaf := utils.Second(path.Split(runtime.FuncForPC(fnVal.Pointer()).Name()))
	alias, name := utils.Unpack2(strings.SplitN(leaf, ".", 2))

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}
		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true
		return caster, nil
	}
}

// String renders the caster as pkg.Name.
func (c Caster) String() string {
	return c.PackageAlias + "." + c.Name
}

// Accepts reports whether v can be passed to the caster.
func (c Caster) Accepts(v any) bool {
	_, err := c.arg(v)
	return err == nil
}

// Invoke calls the caster with v, converting primitive arguments to Src first.
// A false bool result is reported as ErrCasterRejected.
func (c Caster) Invoke(v any) (any, error) {
	if !c.fn.IsValid() {
		return nil, ErrCasterIsNotAFunction
	}

	arg, err := c.arg(v)
	if err != nil {
		return nil, err
	}

	out := c.fn.Call([]reflect.Value{arg})

	if c.HasErr {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}

	if c.HasBool && !out[1].Bool() {
		return nil, fmt.Errorf("%w: %s", ErrCasterRejected, c)
	}

	return out[0].Interface(), nil
}

func (c Caster) arg(v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(c.Src), nil
	}

	if rv := reflect.ValueOf(v); rv.Type().AssignableTo(c.Src) {
		return rv, nil
	}

	return primitive.Convert(v, c.Src)
}

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Implements(errorType)
}
