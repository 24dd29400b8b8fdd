package descriptor

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind tags the variant of a Node.
type Kind int

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindBranded
	KindLiteral
	KindClass
	KindTuple
	KindUnion
	KindCollection
	KindArray
	KindDate

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)
