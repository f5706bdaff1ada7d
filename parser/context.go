// Package parser turns an OpenAPI 3.x document (JSON or YAML) into the
// Basketry service IR plus a list of structural violations.
package parser

import (
	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/ir"
	"github.com/basketry/openapi3/nodes"
	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

// parseContext owns the accumulation structures of one parse invocation:
// the named type/enum/union collections, the violation sink (via the node
// context), and the in-progress reference set that keeps self-referential
// pointers from recursing forever. It is created per Parse call and never
// shared between invocations.
type parseContext struct {
	n *nodes.Context

	types  map[string]*ir.Type
	enums  map[string]*ir.Enum
	unions map[string]*ir.Union

	// pointers currently being expanded by parseType
	resolving map[string]struct{}
}

func newParseContext(n *nodes.Context) *parseContext {
	return &parseContext{
		n:         n,
		types:     map[string]*ir.Type{},
		enums:     map[string]*ir.Enum{},
		unions:    map[string]*ir.Union{},
		resolving: map[string]struct{}{},
	}
}

func (c *parseContext) rangeOf(node *yaml.Node) yml.Range {
	return c.n.Range(node)
}

func (c *parseContext) report(code validation.Code, severity validation.Severity, message string, r yml.Range) {
	c.n.Report(code, severity, message, r)
}

// isDeclared reports whether name is registered in any of the named
// collections.
func (c *parseContext) isDeclared(name string) bool {
	if _, ok := c.types[name]; ok {
		return true
	}
	if _, ok := c.enums[name]; ok {
		return true
	}
	_, ok := c.unions[name]
	return ok
}
