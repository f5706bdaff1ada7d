package parser

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/ir"
	"github.com/basketry/openapi3/yml"
)

const extensionPrefix = "x-"

type extensible interface {
	Raw() *yaml.Node
}

// meta converts a node's vendor extensions into IR metadata, preserving
// document order and stripping the extension prefix from keys.
func (c *parseContext) meta(n extensible) []ir.MetaEntry {
	return c.metaFromNode(n.Raw())
}

func (c *parseContext) metaFromNode(raw *yaml.Node) []ir.MetaEntry {
	raw = yml.ResolveAlias(raw)
	if raw == nil || !yml.IsMapping(raw) {
		return nil
	}

	var entries []ir.MetaEntry
	for _, entry := range yml.MapEntries(raw) {
		if entry.Key == nil || !strings.HasPrefix(entry.Key.Value, extensionPrefix) {
			continue
		}
		value, err := yml.NodeToAny(entry.Value)
		if err != nil {
			continue
		}
		entries = append(entries, ir.MetaEntry{
			Key: ir.NewScalar(
				strings.TrimPrefix(entry.Key.Value, extensionPrefix),
				c.rangeOf(entry.Key),
			),
			Value: ir.Scalar[any]{
				Value: value,
				Loc:   ir.EncodeRange(c.rangeOf(entry.Value)),
			},
		})
	}
	return entries
}
