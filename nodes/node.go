package nodes

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

// node is the read-only view shared by every typed wrapper. Constructing a
// node validates the underlying key set against the wrapper's key policy,
// reporting violations as a side effect; construction itself always
// succeeds.
type node struct {
	ctx *Context
	raw *yaml.Node
	key *yaml.Node // parent key node, used for ranges when raw has no position
	nt  NodeType
}

func newNode(ctx *Context, raw, key *yaml.Node, nt NodeType) node {
	raw = yml.ResolveAlias(raw)
	n := node{ctx: ctx, raw: raw, key: key, nt: nt}

	if policy, ok := policies[nt]; ok && yml.IsMapping(raw) {
		policy.check(ctx, raw)
	}

	return n
}

// NodeType returns the wrapper's discriminant.
func (n node) NodeType() NodeType {
	return n.nt
}

// Raw returns the underlying tree node.
func (n node) Raw() *yaml.Node {
	return n.raw
}

// KeyNode returns the parent key node, if any.
func (n node) KeyNode() *yaml.Node {
	return n.key
}

// Range returns the node's source range, falling back to the parent key's
// range when the node itself has no position.
func (n node) Range() yml.Range {
	if n.raw != nil {
		return n.ctx.Range(n.raw)
	}
	return n.ctx.Range(n.key)
}

// Extensions returns the vendor-extension (x- prefixed) entries of the
// underlying object.
func (n node) Extensions() []yml.MapEntry {
	var out []yml.MapEntry
	for _, entry := range yml.MapEntries(n.raw) {
		if entry.Key != nil && extensionPattern.MatchString(entry.Key.Value) {
			out = append(out, entry)
		}
	}
	return out
}

// child looks up a key in the underlying object.
func (n node) child(key string) (*yaml.Node, *yaml.Node, bool) {
	return yml.GetMapElement(n.raw, key)
}

func (n node) has(key string) bool {
	_, _, ok := n.child(key)
	return ok
}

// getString returns the string value of a key, reporting a warning when the
// key is present but not a string.
func (n node) getString(key string) (string, yml.Range, bool) {
	_, value, ok := n.child(key)
	if !ok {
		return "", yml.Range{}, false
	}

	s, ok := yml.AsString(value)
	if !ok {
		n.mismatch(key, "string", value)
		return "", yml.Range{}, false
	}

	return s, n.ctx.Range(value), true
}

// requireString is getString for mandatory keywords: absence is an
// error-severity violation. Callers must still treat the result
// defensively.
func (n node) requireString(key string) (string, yml.Range, bool) {
	if !n.has(key) {
		n.ctx.Report(validation.CodeInvalidSchema, validation.SeverityError,
			fmt.Sprintf("%s is missing required key %q", n.nt, key), n.Range())
		return "", yml.Range{}, false
	}
	return n.getString(key)
}

func (n node) getBool(key string) (bool, yml.Range, bool) {
	_, value, ok := n.child(key)
	if !ok {
		return false, yml.Range{}, false
	}

	b, ok := yml.AsBool(value)
	if !ok {
		n.mismatch(key, "boolean", value)
		return false, yml.Range{}, false
	}

	return b, n.ctx.Range(value), true
}

func (n node) getInt(key string) (int, yml.Range, bool) {
	_, value, ok := n.child(key)
	if !ok {
		return 0, yml.Range{}, false
	}

	i, ok := yml.AsInt(value)
	if !ok {
		n.mismatch(key, "integer", value)
		return 0, yml.Range{}, false
	}

	return i, n.ctx.Range(value), true
}

func (n node) getNumber(key string) (float64, yml.Range, bool) {
	_, value, ok := n.child(key)
	if !ok {
		return 0, yml.Range{}, false
	}

	f, ok := yml.AsNumber(value)
	if !ok {
		n.mismatch(key, "number", value)
		return 0, yml.Range{}, false
	}

	return f, n.ctx.Range(value), true
}

// getNode returns the raw value node for a key without any kind check.
func (n node) getNode(key string) (*yaml.Node, bool) {
	_, value, ok := n.child(key)
	return value, ok
}

// getMap returns the value node for a key when it is a mapping.
func (n node) getMap(key string) (*yaml.Node, bool) {
	_, value, ok := n.child(key)
	if !ok {
		return nil, false
	}
	if !yml.IsMapping(value) {
		n.mismatch(key, "object", value)
		return nil, false
	}
	return yml.ResolveAlias(value), true
}

// getSlice returns the items of a key when it is a sequence.
func (n node) getSlice(key string) ([]*yaml.Node, bool) {
	_, value, ok := n.child(key)
	if !ok {
		return nil, false
	}
	if !yml.IsSequence(value) {
		n.mismatch(key, "array", value)
		return nil, false
	}
	return yml.SequenceItems(value), true
}

func (n node) mismatch(key, want string, value *yaml.Node) {
	got := "null"
	if v := yml.ResolveAlias(value); v != nil {
		got = yml.NodeKindToString(v.Kind)
		if v.Kind == yaml.ScalarNode {
			got = fmt.Sprintf("scalar (%s)", v.Tag)
		}
	}
	n.ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
		fmt.Sprintf("%q must be a %s, found %s", key, want, got), n.ctx.Range(value))
}

// keyPolicy is the declarative key-validation table applied when a typed
// node is constructed. Checks run per key, in order: unsupported keys warn;
// when requiredPatterns are declared they fully govern the key; otherwise
// allowed keys and allowedPatterns pass and anything else warns.
type keyPolicy struct {
	unsupported        map[string]struct{}
	requiredPatterns   []*regexp.Regexp
	allowed            map[string]struct{}
	disallowedPatterns []*regexp.Regexp
	allowedPatterns    []*regexp.Regexp
}

func (p *keyPolicy) check(ctx *Context, raw *yaml.Node) {
	for _, entry := range yml.MapEntries(raw) {
		if entry.Key == nil || entry.Key.Kind != yaml.ScalarNode {
			continue
		}

		key := entry.Key.Value
		r := ctx.Range(entry.Key)

		if _, ok := p.unsupported[key]; ok {
			ctx.Report(validation.CodeUnsupportedFeature, validation.SeverityWarning,
				fmt.Sprintf("%q is not yet supported", key), r)
			continue
		}

		if len(p.requiredPatterns) > 0 {
			if !matchAny(p.requiredPatterns, key) {
				ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
					fmt.Sprintf("%q does not match the required key pattern", key), r)
			}
			continue
		}

		if _, ok := p.allowed[key]; ok {
			continue
		}

		if matchAny(p.disallowedPatterns, key) {
			ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
				fmt.Sprintf("%q is not allowed", key), r)
			continue
		}

		if matchAny(p.allowedPatterns, key) {
			continue
		}

		ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
			fmt.Sprintf("%q is not allowed", key), r)
	}
}

func matchAny(patterns []*regexp.Regexp, key string) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func keySet(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
