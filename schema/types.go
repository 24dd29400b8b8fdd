package schema

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const optionalSuffix = "?"

// File is a parsed schema file.
type File struct {
	Version string  `yaml:"version"`
	Options Options `yaml:"options,omitempty"`
	Types   Types   `yaml:"types"`
}

// Options is the options section of a schema file.
type Options struct {
	Dialect string   `yaml:"dialect,omitempty"`
	Allow   []string `yaml:"allow,omitempty"`
}

// Types lists the named types of a file in declaration order.
type Types []TypeDef

// TypeDef is one named type: an alias of a type expression or a class.
type TypeDef struct {
	Name       string
	Alias      string
	Properties []PropertyDef
}

// IsClass reports whether the type defines a class.
func (t TypeDef) IsClass() bool {
	return t.Alias == ""
}

// PropertyDef is one property of a class.
type PropertyDef struct {
	Name     string
	Type     string
	Optional bool
	// Default is the YAML value used when the property is absent.
	Default *yaml.Node
}

// Keys of the long form of a property.
const (
	typeKey     = "type"
	optionalKey = "optional"
	defaultKey  = "default"
)

// UnmarshalYAML reads the types mapping keeping its order.
func (ts *Types) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: types must be a mapping", node.Line)
	}

	out := make(Types, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, body := node.Content[i], node.Content[i+1]

		def := TypeDef{Name: key.Value}

		switch body.Kind {
		case yaml.ScalarNode:
			def.Alias = body.Value
			if def.Alias == "" {
				return fmt.Errorf("line %d: type %s has an empty expression", body.Line, def.Name)
			}

		case yaml.MappingNode:
			props, err := unmarshalProperties(body)
			if err != nil {
				return fmt.Errorf("type %s: %w", def.Name, err)
			}

			def.Properties = props

		default:
			return fmt.Errorf("line %d: type %s must be an expression or a mapping of properties", body.Line, def.Name)
		}

		out = append(out, def)
	}

	*ts = out

	return nil
}

func unmarshalProperties(node *yaml.Node) ([]PropertyDef, error) {
	props := make([]PropertyDef, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, body := node.Content[i], node.Content[i+1]

		p := PropertyDef{Name: key.Value}
		if name, ok := strings.CutSuffix(p.Name, optionalSuffix); ok {
			p.Name, p.Optional = name, true
		}

		switch body.Kind {
		case yaml.ScalarNode:
			p.Type = body.Value

		case yaml.MappingNode:
			if err := unmarshalLong(body, &p); err != nil {
				return nil, fmt.Errorf("property %s: %w", p.Name, err)
			}

		default:
			return nil, fmt.Errorf("line %d: property %s must be an expression or a mapping", body.Line, p.Name)
		}

		if p.Type == "" {
			return nil, fmt.Errorf("line %d: property %s has no type", body.Line, p.Name)
		}

		props = append(props, p)
	}

	return props, nil
}

// unmarshalLong reads the type, optional and default keys of body. The
// default is kept as a node, whatever its YAML kind.
func unmarshalLong(body *yaml.Node, p *PropertyDef) error {
	for i := 0; i+1 < len(body.Content); i += 2 {
		key, val := body.Content[i], body.Content[i+1]

		switch key.Value {
		case typeKey:
			if err := val.Decode(&p.Type); err != nil {
				return err
			}
		case optionalKey:
			var optional bool
			if err := val.Decode(&optional); err != nil {
				return err
			}

			p.Optional = p.Optional || optional
		case defaultKey:
			p.Default = val
		default:
			return fmt.Errorf("line %d: unknown key %q", key.Line, key.Value)
		}
	}

	return nil
}

// MarshalYAML writes the types mapping in declaration order. Properties use
// the short form unless they carry a default.
func (ts Types) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}

	for _, def := range ts {
		if def.Name == "" {
			return nil, errors.New("type without a name")
		}

		body := &yaml.Node{Kind: yaml.ScalarNode, Value: def.Alias}

		if def.IsClass() {
			body = &yaml.Node{Kind: yaml.MappingNode}

			for _, p := range def.Properties {
				key := p.Name
				if p.Optional {
					key += optionalSuffix
				}

				val := scalar(p.Type)
				if p.Default != nil {
					val = &yaml.Node{
						Kind:    yaml.MappingNode,
						Content: []*yaml.Node{scalar(typeKey), scalar(p.Type), scalar(defaultKey), p.Default},
					}
				}

				body.Content = append(body.Content, scalar(key), val)
			}
		}

		out.Content = append(out.Content, scalar(def.Name), body)
	}

	return out, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}
