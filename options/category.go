package options

import (
	"fmt"
	"strings"
)

// CategoryEnum is a bit set of coercions a dialect may apply while casting.
// Serialization never coerces, it only accepts values of the exact shape.
type CategoryEnum int

const (
	CategoryTextNumber   CategoryEnum = 1 << iota // number <-> string: "12.5" casts to 12.5, 12.5 casts to "12.5"
	CategoryUnsafeNumber                          // number -> integer brands: fraction is truncated toward zero
	CategoryNumericBool                           // number <-> boolean: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> boolean: true/false, yes/no, on/off, 1/0
	CategoryDatetime                              // string(ISO-8601) -> Date
	CategoryTimestamp                             // number(epoch milliseconds) -> Date
	CategoryTextBigInt                            // string or integral number -> bigint
	CategoryCollections                           // array -> Set, array of [key, value] pairs -> Map

	CategoryAll  CategoryEnum = (1 << iota) - 1 // all categories combined
	CategoryNone CategoryEnum = 0               // no categories selected
)

var categoryNames = []struct {
	name     string
	category CategoryEnum
}{
	{"text-number", CategoryTextNumber},
	{"unsafe-number", CategoryUnsafeNumber},
	{"numeric-bool", CategoryNumericBool},
	{"textual-bool", CategoryTextualBool},
	{"datetime", CategoryDatetime},
	{"timestamp", CategoryTimestamp},
	{"text-bigint", CategoryTextBigInt},
	{"collections", CategoryCollections},
}

// Has reports whether every bit of other is set in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

// Names lists the names of the categories set in c, in declaration order.
func (c CategoryEnum) Names() []string {
	var names []string
	for _, cn := range categoryNames {
		if c.Has(cn.category) {
			names = append(names, cn.name)
		}
	}

	return names
}

// String renders c as a "|"-separated list of category names.
func (c CategoryEnum) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	default:
		return strings.Join(c.Names(), "|")
	}
}

// ParseCategories turns category names ("all", "none" or any of Names) into a bit set.
func ParseCategories(names []string) (CategoryEnum, error) {
	var res CategoryEnum

outer:
	for _, name := range names {
		switch name {
		case "all":
			res |= CategoryAll
			continue
		case "none":
			continue
		}

		for _, cn := range categoryNames {
			if cn.name == name {
				res |= cn.category
				continue outer
			}
		}

		return CategoryNone, fmt.Errorf("unknown coercion category %q", name)
	}

	return res, nil
}
