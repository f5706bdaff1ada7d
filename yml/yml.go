// Package yml provides the document tree the parser operates on: a thin
// layer over yaml.v3 nodes covering parsing (JSON and YAML), alias
// resolution, mapping lookups, and scalar decoding.
package yml

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/errors"
)

const (
	// ErrInvalidDocument is returned when the input cannot be parsed as JSON or YAML.
	ErrInvalidDocument = errors.Error("invalid document")
	// ErrEmptyDocument is returned when the input parses to an empty document.
	ErrEmptyDocument = errors.Error("empty document")
)

// Parse parses raw text into a position-annotated node tree. YAML is a
// superset of JSON so a single decode path covers both input syntaxes.
// The returned node is the document's root content node, not the
// enclosing document node.
func Parse(text string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, ErrInvalidDocument.Wrap(err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	return ResolveAlias(doc.Content[0]), nil
}

// ResolveAlias follows alias nodes to their target.
func ResolveAlias(node *yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}

	for node.Kind == yaml.AliasNode {
		if node.Alias == nil {
			return nil
		}
		node = node.Alias
	}

	return node
}

// MapEntry is a single key/value pair of a mapping node.
type MapEntry struct {
	Key   *yaml.Node
	Value *yaml.Node
}

// MapEntries returns the key/value pairs of a mapping node in document
// order. Alias keys are resolved; a non-mapping node yields nil.
func MapEntries(node *yaml.Node) []MapEntry {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	entries := make([]MapEntry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		entries = append(entries, MapEntry{Key: ResolveAlias(node.Content[i]), Value: node.Content[i+1]})
	}

	return entries
}

// GetMapElement looks up key in a mapping node, returning the key node,
// the value node, and whether the key was present.
func GetMapElement(node *yaml.Node, key string) (*yaml.Node, *yaml.Node, bool) {
	for _, entry := range MapEntries(node) {
		if entry.Key != nil && entry.Key.Kind == yaml.ScalarNode && entry.Key.Value == key {
			return entry.Key, entry.Value, true
		}
	}

	return nil, nil, false
}

// SequenceItems returns the items of a sequence node, or nil for any other kind.
func SequenceItems(node *yaml.Node) []*yaml.Node {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}

	return node.Content
}

// AsString returns the string value of a scalar string node.
func AsString(node *yaml.Node) (string, bool) {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return "", false
	}
	if node.Tag != "" && node.Tag != "!!str" {
		return "", false
	}

	return node.Value, true
}

// AsBool returns the boolean value of a scalar bool node.
func AsBool(node *yaml.Node) (bool, bool) {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag != "!!bool" {
		return false, false
	}

	b, err := strconv.ParseBool(node.Value)
	if err != nil {
		return false, false
	}

	return b, true
}

// AsInt returns the integer value of a scalar int node.
func AsInt(node *yaml.Node) (int, bool) {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag != "!!int" {
		return 0, false
	}

	i, err := strconv.Atoi(node.Value)
	if err != nil {
		return 0, false
	}

	return i, true
}

// AsNumber returns the numeric value of a scalar int or float node.
func AsNumber(node *yaml.Node) (float64, bool) {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return 0, false
	}
	if node.Tag != "!!int" && node.Tag != "!!float" {
		return 0, false
	}

	f, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// IsNull reports whether the node is an explicit null scalar.
func IsNull(node *yaml.Node) bool {
	node = ResolveAlias(node)
	return node != nil && node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

// DecodeScalar decodes a scalar node into its plain Go value based on its
// resolved tag. Non-scalar nodes yield nil.
func DecodeScalar(node *yaml.Node) any {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return nil
	}

	switch node.Tag {
	case "!!bool":
		b, _ := strconv.ParseBool(node.Value)
		return b
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return node.Value
		}
		return i
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return node.Value
		}
		return f
	case "!!null":
		return nil
	default:
		return node.Value
	}
}
