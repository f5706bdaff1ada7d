package yml

import (
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Range is a byte range into the original source text, along with the
// 1-based line/column of its start for display purposes.
type Range struct {
	Start  int
	End    int
	Line   int
	Column int
}

// LineIndex converts the line/column positions carried by yaml nodes into
// byte offsets in the original source text.
type LineIndex struct {
	text string
	// byte offset of the start of each 1-based line
	lineStart []int
}

// NewLineIndex builds a line index over the source text.
func NewLineIndex(text string) *LineIndex {
	starts := make([]int, 1, strings.Count(text, "\n")+2)
	starts[0] = 0 // line numbers are 1-based; slot 0 is unused padding

	offset := 0
	for {
		starts = append(starts, offset)
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			break
		}
		offset += i + 1
	}

	return &LineIndex{text: text, lineStart: starts}
}

// Offset converts a 1-based line/column position to a byte offset, clamped
// to the bounds of the source text. Columns count runes, the way the yaml
// scanner reports them, so lines containing multi-byte characters resolve
// to the correct byte.
func (ix *LineIndex) Offset(line, column int) int {
	if line < 1 || column < 1 {
		return 0
	}
	if line >= len(ix.lineStart) {
		return len(ix.text)
	}

	end := len(ix.text)
	if line+1 < len(ix.lineStart) {
		end = ix.lineStart[line+1]
	}

	offset := ix.lineStart[line]
	for i := 1; i < column && offset < end; i++ {
		_, size := utf8.DecodeRuneInString(ix.text[offset:])
		offset += size
	}

	return offset
}

// NodeRange computes the best-effort byte range covered by a node. Scalar
// ends are derived from the literal value length; container ends from the
// last descendant. Multi-line or folded scalars may under-report.
func (ix *LineIndex) NodeRange(node *yaml.Node) Range {
	node = ResolveAlias(node)
	if node == nil {
		return Range{}
	}

	start := ix.Offset(node.Line, node.Column)

	return Range{
		Start:  start,
		End:    ix.nodeEnd(node, start),
		Line:   node.Line,
		Column: node.Column,
	}
}

// EntryRange spans from a mapping key through the end of its value, falling
// back to whichever side is present.
func (ix *LineIndex) EntryRange(key, value *yaml.Node) Range {
	if key == nil {
		return ix.NodeRange(value)
	}

	r := ix.NodeRange(key)
	if value != nil {
		vr := ix.NodeRange(value)
		if vr.End > r.End {
			r.End = vr.End
		}
	}

	return r
}

func (ix *LineIndex) nodeEnd(node *yaml.Node, start int) int {
	switch node.Kind {
	case yaml.ScalarNode:
		end := start + len(node.Value)
		switch node.Style {
		case yaml.SingleQuotedStyle, yaml.DoubleQuotedStyle:
			end += 2
		}
		if end > len(ix.text) {
			return len(ix.text)
		}
		return end
	case yaml.AliasNode:
		end := start + len(node.Value) + 1 // "*anchor"
		if end > len(ix.text) {
			return len(ix.text)
		}
		return end
	case yaml.MappingNode, yaml.SequenceNode, yaml.DocumentNode:
		if len(node.Content) == 0 {
			return start
		}
		last := node.Content[len(node.Content)-1]
		lastStart := ix.Offset(last.Line, last.Column)
		end := ix.nodeEnd(last, lastStart)
		if end < start {
			return start
		}
		return end
	default:
		return start
	}
}
