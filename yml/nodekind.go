package yml

import "gopkg.in/yaml.v3"

// IsMapping reports whether the node (after alias resolution) is a mapping.
func IsMapping(node *yaml.Node) bool {
	node = ResolveAlias(node)
	return node != nil && node.Kind == yaml.MappingNode
}

// IsSequence reports whether the node (after alias resolution) is a sequence.
func IsSequence(node *yaml.Node) bool {
	node = ResolveAlias(node)
	return node != nil && node.Kind == yaml.SequenceNode
}

// IsScalar reports whether the node (after alias resolution) is a scalar.
func IsScalar(node *yaml.Node) bool {
	node = ResolveAlias(node)
	return node != nil && node.Kind == yaml.ScalarNode
}

// NodeKindToString returns a human-readable name for a yaml.Kind, used in
// violation messages.
func NodeKindToString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
