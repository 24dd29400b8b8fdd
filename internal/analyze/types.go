package analyze

import (
	"go/types"

	"typecaster/internal/common"
)

// TypeID identifies a Go type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "typecaster/internal/analyze/testdata/shop"
	Name    string // e.g., "Order"
}

// IDOf returns the TypeID of a type name object.
func IDOf(obj *types.TypeName) TypeID {
	if obj.Pkg() == nil {
		return TypeID{Name: obj.Name()}
	}

	return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
}

// String returns the full path of the type.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Qualified returns the type name prefixed by its package alias, e.g. shop.Order.
func (t TypeID) Qualified() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

func (t TypeID) is(pkgPath, name string) bool {
	return t.PkgPath == pkgPath && t.Name == name
}
