package nodes

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

// ComponentSchemasPrefix is the pointer prefix of the document's named
// schema section.
const ComponentSchemasPrefix = "#/components/schemas/"

// Ref views a node shaped { $ref: string }.
type Ref struct {
	node
}

func NewRef(ctx *Context, raw, key *yaml.Node) *Ref {
	return &Ref{newNode(ctx, raw, key, NodeTypeRef)}
}

// Pointer returns the literal $ref value.
func (r *Ref) Pointer() (string, yml.Range, bool) {
	return r.getString("$ref")
}

// IsRef reports whether the raw node is reference shaped.
func IsRef(raw *yaml.Node) bool {
	_, _, ok := yml.GetMapElement(yml.ResolveAlias(raw), "$ref")
	return ok
}

// RefString returns the $ref value of a reference-shaped node.
func RefString(raw *yaml.Node) (string, bool) {
	_, value, ok := yml.GetMapElement(yml.ResolveAlias(raw), "$ref")
	if !ok {
		return "", false
	}
	return yml.AsString(value)
}

// SchemaRefName returns the named-schema name a pointer targets, when the
// pointer points directly into the document's schema section.
func SchemaRefName(pointer string) (string, bool) {
	if !strings.HasPrefix(pointer, ComponentSchemasPrefix) {
		return "", false
	}

	name := strings.TrimPrefix(pointer, ComponentSchemasPrefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}

	return unescapePointerSegment(name), true
}

// ResolveNode resolves a schema-or-reference node to its target. A
// non-reference input is returned unchanged. Every failure path degrades
// to an error violation plus a nil result; resolution never panics toward
// callers. The returned range is the best-known position of the target
// (the matched object key for resolved refs, the node itself otherwise).
func ResolveNode(ctx *Context, raw, key *yaml.Node) (*yaml.Node, yml.Range, bool) {
	raw = yml.ResolveAlias(raw)
	if raw == nil {
		return nil, ctx.Range(key), false
	}

	if !IsRef(raw) {
		return raw, ctx.Range(raw), true
	}

	ref := NewRef(ctx, raw, key)
	pointer, ptrRange, ok := ref.Pointer()
	if !ok {
		ctx.Report(validation.CodeInvalidSchema, validation.SeverityError,
			`"$ref" must be a string`, ref.Range())
		return nil, ref.Range(), false
	}

	target, refRange, found := walkPointer(ctx, pointer)
	if !found {
		ctx.Report(validation.CodeInvalidSchema, validation.SeverityError,
			fmt.Sprintf("cannot resolve reference %q", pointer), ptrRange)
		return nil, ptrRange, false
	}

	return target, refRange, true
}

// walkPointer walks a /-separated pointer against the document. The
// leading "#" segment resets to the root; each following segment matches
// the literal key of an object child. The first non-match aborts, but the
// range of the last matched key is preserved for error reporting.
func walkPointer(ctx *Context, pointer string) (*yaml.Node, yml.Range, bool) {
	segments := strings.Split(pointer, "/")
	if len(segments) == 0 || segments[0] != "#" {
		return nil, yml.Range{}, false
	}

	current := ctx.Root
	bestRange := ctx.Range(ctx.Root)

	for _, segment := range segments[1:] {
		keyNode, value, ok := yml.GetMapElement(current, unescapePointerSegment(segment))
		if !ok {
			return nil, bestRange, false
		}
		bestRange = ctx.Range(keyNode)
		current = yml.ResolveAlias(value)
	}

	return current, bestRange, true
}

func unescapePointerSegment(segment string) string {
	return strings.ReplaceAll(strings.ReplaceAll(segment, "~1", "/"), "~0", "~")
}

// ResolveSchema resolves a schema-or-reference node and re-classifies the
// result by its type keyword, since a ref may point at any schema variant.
func ResolveSchema(ctx *Context, raw, key *yaml.Node) (Schema, yml.Range, bool) {
	target, refRange, ok := ResolveNode(ctx, raw, key)
	if !ok {
		return nil, refRange, false
	}

	if target != raw {
		key = nil // resolved nodes get a fresh context: root only
	}

	schema, ok := ClassifySchema(ctx, target, key)
	return schema, refRange, ok
}

// ResolveParameter resolves a parameter-or-reference node.
func ResolveParameter(ctx *Context, raw, key *yaml.Node) (*Parameter, bool) {
	target, _, ok := ResolveNode(ctx, raw, key)
	if !ok {
		return nil, false
	}
	if target != raw {
		key = nil
	}
	return NewParameter(ctx, target, key), true
}

// ResolveResponse resolves a response-or-reference node.
func ResolveResponse(ctx *Context, raw, key *yaml.Node) (*Response, bool) {
	target, _, ok := ResolveNode(ctx, raw, key)
	if !ok {
		return nil, false
	}
	if target != raw {
		key = nil
	}
	return NewResponse(ctx, target, key), true
}

// ResolveRequestBody resolves a request-body-or-reference node.
func ResolveRequestBody(ctx *Context, raw, key *yaml.Node) (*RequestBody, bool) {
	target, _, ok := ResolveNode(ctx, raw, key)
	if !ok {
		return nil, false
	}
	if target != raw {
		key = nil
	}
	return NewRequestBody(ctx, target, key), true
}

// ResolvePathItem resolves a path-item-or-reference node.
func ResolvePathItem(ctx *Context, raw, key *yaml.Node) (*PathItem, bool) {
	target, _, ok := ResolveNode(ctx, raw, key)
	if !ok {
		return nil, false
	}
	if target != raw {
		key = nil
	}
	return NewPathItem(ctx, target, key), true
}
