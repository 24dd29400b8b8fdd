package guard

//go:generate go tool stringer -type=Mode -output=mode_string.go

// Mode selects the strictness of a guard.
type Mode int

const (
	_ Mode = iota

	Exact
	Loose
)
