package nodes

import (
	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

// Context carries the per-parse state shared by every typed node: the
// document root (for resolving references), the line index (for byte
// ranges), and the violation sink.
type Context struct {
	Root  *yaml.Node
	Index *yml.LineIndex
	Sink  *validation.Sink
}

// NewContext wraps a parsed document root for typed-node construction.
func NewContext(root *yaml.Node, index *yml.LineIndex, sink *validation.Sink) *Context {
	return &Context{Root: root, Index: index, Sink: sink}
}

// Range computes the source range of a raw node.
func (c *Context) Range(node *yaml.Node) yml.Range {
	return c.Index.NodeRange(node)
}

// Report records a violation.
func (c *Context) Report(code validation.Code, severity validation.Severity, message string, r yml.Range) {
	c.Sink.Report(code, severity, message, r)
}
