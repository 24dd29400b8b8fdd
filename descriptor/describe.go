package descriptor

import (
	"strconv"
	"strings"

	"typecaster/internal/common"
	"typecaster/primitive"
)

const recursiveStr = "<recursive>"

// Describe renders ref as a TypeScript-like signature, e.g. [boolean, ...string[], number].
// Nested named nodes are rendered by name, which also terminates cycles.
func Describe(ref Ref) string {
	if ref.Arena == nil {
		return common.UnknownStr
	}

	d := describer{arena: ref.Arena, active: make(map[ID]bool)}
	d.write(ref.ID, true)

	return d.b.String()
}

type describer struct {
	arena  *Arena
	active map[ID]bool
	b      strings.Builder
}

func (d *describer) write(id ID, root bool) {
	name := d.arena.Name(id)
	if name != "" && (!root || d.active[id]) {
		d.b.WriteString(name)
		return
	}

	if d.active[id] {
		d.b.WriteString(recursiveStr)
		return
	}

	n, err := d.arena.Node(id)
	if err != nil {
		if name == "" {
			name = common.UnknownStr
		}

		d.b.WriteString(name)

		return
	}

	d.active[id] = true
	defer delete(d.active, id)

	switch n := n.(type) {
	case Primitive:
		d.b.WriteString(string(n.Type))
	case Branded:
		d.b.WriteString(string(n.Brand))
	case Literal:
		d.b.WriteString(FormatLiteral(n.Value))
	case Date:
		d.b.WriteString("Date")
	case Array:
		d.elem(n.Elem)
		d.b.WriteString("[]")
	case Collection:
		if n.Type == CollectionMap {
			d.b.WriteString("Map<")
			d.write(n.Key, false)
			d.b.WriteString(", ")
		} else {
			d.b.WriteString("Set<")
		}

		d.write(n.Elem, false)
		d.b.WriteByte('>')
	case Union:
		for i, m := range n.Members {
			if i > 0 {
				d.b.WriteString(" | ")
			}
			d.write(m, false)
		}
	case Tuple:
		d.b.WriteByte('[')
		for i, e := range n.Elements {
			if i > 0 {
				d.b.WriteString(", ")
			}

			if e.Name != "" {
				d.b.WriteString(e.Name + ": ")
			}

			if e.Rest {
				d.b.WriteString("...")
				d.elem(e.Type)
				d.b.WriteString("[]")
			} else {
				d.write(e.Type, false)
			}
		}
		d.b.WriteByte(']')
	case Class:
		if n.Name != "" {
			d.b.WriteString(n.Name)
			return
		}

		d.b.WriteByte('{')
		for i, p := range n.Properties {
			if i > 0 {
				d.b.WriteString("; ")
			}

			d.b.WriteString(p.Name)
			if p.Optional {
				d.b.WriteByte('?')
			}

			d.b.WriteString(": ")
			d.write(p.Type, false)
		}
		d.b.WriteByte('}')
	}
}

// elem writes an array element, parenthesizing anonymous unions.
func (d *describer) elem(id ID) {
	n, err := d.arena.Node(id)
	if _, isUnion := n.(Union); err == nil && isUnion && d.arena.Name(id) == "" {
		d.b.WriteByte('(')
		d.write(id, false)
		d.b.WriteByte(')')

		return
	}

	d.write(id, false)
}

// FormatLiteral renders a literal value: 'text', 12, true or null.
func FormatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(x, "'", `\'`) + "'"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return primitive.FormatNumber(x)
	default:
		return common.UnknownStr
	}
}
