package value

import (
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// CharTag marks a YAML scalar as a character, e.g. `!char x`.
const CharTag = "!char"

// FromYAML converts a YAML node into a Value. Scalars are typed by their
// resolved tag, mappings become sequences of [key, value] pairs in document
// order, and aliases are followed.
func FromYAML(node *yaml.Node) (Value, error) {
	if node == nil || node.Kind == 0 {
		return Nil(), nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Nil(), nil
		}
		return FromYAML(node.Content[0])
	case yaml.AliasNode:
		return FromYAML(node.Alias)
	case yaml.SequenceNode:
		vals := make([]Value, len(node.Content))
		for i, n := range node.Content {
			v, err := FromYAML(n)
			if err != nil {
				return Nil(), err
			}
			vals[i] = v
		}
		return Seq(vals...), nil
	case yaml.MappingNode:
		vals := make([]Value, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, err := FromYAML(node.Content[i])
			if err != nil {
				return Nil(), err
			}
			v, err := FromYAML(node.Content[i+1])
			if err != nil {
				return Nil(), err
			}
			vals = append(vals, Seq(k, v))
		}
		return Seq(vals...), nil
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	}
	return Nil(), fmt.Errorf("value: unsupported YAML node kind %d at line %d", node.Kind, node.Line)
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Nil(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Nil(), err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := node.Decode(&u); err != nil {
			return Nil(), err
		}
		return Uint(u), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Nil(), err
		}
		return Float(f), nil
	case CharTag:
		r, size := utf8.DecodeRuneInString(node.Value)
		if size == 0 || size != len(node.Value) {
			return Nil(), fmt.Errorf("value: line %d: %s expects exactly one character, got %q", node.Line, CharTag, node.Value)
		}
		return Char(r), nil
	default:
		return String(node.Value), nil
	}
}

// ParseYAML decodes a YAML document into an argument list. A top-level
// sequence yields its elements; any other document yields a single argument.
func ParseYAML(data []byte) ([]Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	v, err := FromYAML(&doc)
	if err != nil {
		return nil, err
	}
	if elems, ok := v.Elements(); ok && doc.Content[0].Kind == yaml.SequenceNode {
		return elems, nil
	}
	return []Value{v}, nil
}
