package yml

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NodeToAny converts a node tree into a plain JSON-equivalent value
// (map[string]any / []any / scalars). Used for vendor-extension values and
// for feeding documents into the JSON-schema shape check.
func NodeToAny(node *yaml.Node) (any, error) {
	node = ResolveAlias(node)
	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return NodeToAny(node.Content[0])
	case yaml.MappingNode:
		m := make(map[string]any, len(node.Content)/2)
		for _, entry := range MapEntries(node) {
			key := fmt.Sprintf("%v", DecodeScalar(entry.Key))
			value, err := NodeToAny(entry.Value)
			if err != nil {
				return nil, err
			}
			m[key] = value
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := NodeToAny(item)
			if err != nil {
				return nil, err
			}
			s = append(s, value)
		}
		return s, nil
	case yaml.ScalarNode:
		return DecodeScalar(node), nil
	default:
		return nil, fmt.Errorf("unknown node kind: %s", NodeKindToString(node.Kind))
	}
}
