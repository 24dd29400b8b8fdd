package failure

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: a property name or an element index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// Key returns a property segment.
func Key(name string) Segment {
	return Segment{Name: name}
}

// Index returns an element segment.
func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}

	return s.Name
}

// Path locates a sub-value inside the converted input, outermost segment first.
type Path []Segment

// String renders the path the way it would be written in code, e.g. users[2].created.
func (p Path) String() string {
	var b strings.Builder

	for i, seg := range p {
		if !seg.IsIndex && i > 0 {
			b.WriteByte('.')
		}

		b.WriteString(seg.String())
	}

	return b.String()
}
