package serializer

import "typecaster/guard"

//go:generate go tool stringer -type=Direction -output=direction_string.go

// Direction selects between converting external input into internal values
// and internal values into their wire form.
type Direction int

const (
	_ Direction = iota

	Cast
	Serialize
)

// Mode returns the guard strictness used in direction d.
func (d Direction) Mode() guard.Mode {
	if d == Cast {
		return guard.Loose
	}

	return guard.Exact
}
