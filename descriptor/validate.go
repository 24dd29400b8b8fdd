package descriptor

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"typecaster/internal/common"
	"typecaster/internal/diagnostic"
)

// Diagnostic codes reported by Validate.
const (
	CodeUnknownID         = "unknown_id"
	CodeUndefined         = "undefined_type"
	CodeUnknownPrimitive  = "unknown_primitive"
	CodeBrandBase         = "brand_base"
	CodeLiteralType       = "literal_type"
	CodeDuplicateProperty = "duplicate_property"
	CodeIdentityNotStruct = "identity_not_struct"
	CodeMultipleRest      = "multiple_rest"
	CodeEmptyUnion        = "empty_union"
	CodeCollectionKind    = "collection_kind"
)

// Validate checks the graph reachable from ref once, following cycles at most
// one time, and reports every structural problem found.
func Validate(ref Ref) *diagnostic.Diagnostics {
	v := validator{
		ref:   ref,
		seen:  make(map[ID]bool),
		diags: &diagnostic.Diagnostics{},
	}

	if ref.Arena == nil {
		v.diags.AddError(CodeUnknownID, "descriptor reference has no arena", common.UnknownStr, "")
		return v.diags
	}

	v.walk(ref.ID, "")

	return v.diags
}

type validator struct {
	ref   Ref
	seen  map[ID]bool
	diags *diagnostic.Diagnostics
}

func (v *validator) walk(id ID, path string) {
	if v.seen[id] {
		return
	}

	v.seen[id] = true

	n, err := v.ref.Arena.Node(id)
	switch {
	case errors.Is(err, ErrUndefined):
		name := v.ref.Arena.Name(id)
		v.diags.AddError(CodeUndefined, fmt.Sprintf("type %s is referenced but never defined", name), name, path)
		return
	case err != nil:
		v.diags.AddError(CodeUnknownID, err.Error(), common.UnknownStr, path)
		return
	}

	typeName := func() string { return Describe(v.ref.At(id)) }

	switch n := n.(type) {
	case Primitive:
		if !n.Type.IsValid() {
			v.diags.AddError(CodeUnknownPrimitive, fmt.Sprintf("unknown primitive %q", n.Type), typeName(), path)
		}

	case Branded:
		if !n.Base.IsValid() {
			v.diags.AddError(CodeUnknownPrimitive, fmt.Sprintf("unknown primitive %q", n.Base), typeName(), path)
		}

		if base, known := n.Brand.Base(); known && base != n.Base {
			v.diags.AddError(CodeBrandBase,
				fmt.Sprintf("brand %s is based on %s, not %s", n.Brand, base, n.Base), typeName(), path)
		}

	case Literal:
		switch n.Value.(type) {
		case nil, string, float64, bool:
		default:
			v.diags.AddError(CodeLiteralType,
				fmt.Sprintf("literal of type %T is not supported", n.Value), typeName(), path)
		}

	case Class:
		if n.Identity != nil && n.Identity.Kind() != reflect.Struct {
			v.diags.AddError(CodeIdentityNotStruct,
				fmt.Sprintf("identity %s is not a struct type", n.Identity), typeName(), path)
		}

		names := make(map[string]struct{}, len(n.Properties))
		for _, p := range n.Properties {
			if _, dup := names[p.Name]; dup {
				v.diags.AddError(CodeDuplicateProperty,
					fmt.Sprintf("property %q is declared twice", p.Name), typeName(), path)
			}

			names[p.Name] = struct{}{}
			v.walk(p.Type, joinKey(path, p.Name))
		}

	case Tuple:
		rest := 0
		for i, e := range n.Elements {
			if e.Rest {
				rest++
			}

			v.walk(e.Type, joinIndex(path, i))
		}

		if rest > 1 {
			v.diags.AddError(CodeMultipleRest,
				fmt.Sprintf("tuple has %d rest elements, at most one is allowed", rest), typeName(), path)
		}

	case Union:
		if common.IsEmpty(n.Members) {
			v.diags.AddError(CodeEmptyUnion, "union has no members", typeName(), path)
		}

		for _, m := range n.Members {
			v.walk(m, path)
		}

	case Collection:
		switch n.Type {
		case CollectionMap:
			v.walk(n.Key, joinKey(path, "<key>"))
		case CollectionSet:
		default:
			v.diags.AddError(CodeCollectionKind,
				fmt.Sprintf("unknown collection kind %d", n.Type), typeName(), path)
		}

		v.walk(n.Elem, joinKey(path, "<value>"))

	case Array:
		v.walk(n.Elem, path+"[]")

	case Date:
	}
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}

func joinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
