package nodes

import (
	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

// Schema is the sum of the five schema variants. Consumers switch on the
// concrete type (or NodeType) exhaustively.
type Schema interface {
	NodeType() NodeType
	Raw() *yaml.Node
	KeyNode() *yaml.Node
	Range() yml.Range
	Extensions() []yml.MapEntry

	TypeKeyword() (string, yml.Range, bool)
	Format() (string, yml.Range, bool)
	Enum() ([]*yaml.Node, bool)
	Const() (*yaml.Node, bool)
	Default() (*yaml.Node, bool)
	Description() (string, yml.Range, bool)
	Deprecated() (bool, yml.Range, bool)
}

// schemaNode implements the accessors shared by every schema variant.
type schemaNode struct {
	node
}

// TypeKeyword returns the literal type keyword value.
func (s schemaNode) TypeKeyword() (string, yml.Range, bool) {
	return s.getString("type")
}

func (s schemaNode) Format() (string, yml.Range, bool) {
	return s.getString("format")
}

func (s schemaNode) Enum() ([]*yaml.Node, bool) {
	return s.getSlice("enum")
}

func (s schemaNode) Const() (*yaml.Node, bool) {
	return s.getNode("const")
}

func (s schemaNode) Default() (*yaml.Node, bool) {
	return s.getNode("default")
}

func (s schemaNode) Description() (string, yml.Range, bool) {
	return s.getString("description")
}

func (s schemaNode) Deprecated() (bool, yml.Range, bool) {
	return s.getBool("deprecated")
}

// StringSchema views a schema with type: string.
type StringSchema struct {
	schemaNode
}

func NewStringSchema(ctx *Context, raw, key *yaml.Node) *StringSchema {
	return &StringSchema{schemaNode{newNode(ctx, raw, key, NodeTypeStringSchema)}}
}

func (s *StringSchema) MinLength() (int, yml.Range, bool) { return s.getInt("minLength") }
func (s *StringSchema) MaxLength() (int, yml.Range, bool) { return s.getInt("maxLength") }
func (s *StringSchema) Pattern() (string, yml.Range, bool) {
	return s.getString("pattern")
}

// NumberSchema views a schema with type: number or type: integer.
type NumberSchema struct {
	schemaNode
}

func NewNumberSchema(ctx *Context, raw, key *yaml.Node) *NumberSchema {
	return &NumberSchema{schemaNode{newNode(ctx, raw, key, NodeTypeNumberSchema)}}
}

func (s *NumberSchema) MultipleOf() (float64, yml.Range, bool) { return s.getNumber("multipleOf") }
func (s *NumberSchema) Minimum() (float64, yml.Range, bool)    { return s.getNumber("minimum") }
func (s *NumberSchema) Maximum() (float64, yml.Range, bool)    { return s.getNumber("maximum") }

// ExclusiveMinimum returns the raw exclusiveMinimum node: a boolean in
// OpenAPI 3.0, a number in 3.1.
func (s *NumberSchema) ExclusiveMinimum() (*yaml.Node, bool) { return s.getNode("exclusiveMinimum") }
func (s *NumberSchema) ExclusiveMaximum() (*yaml.Node, bool) { return s.getNode("exclusiveMaximum") }

// BooleanSchema views a schema with type: boolean.
type BooleanSchema struct {
	schemaNode
}

func NewBooleanSchema(ctx *Context, raw, key *yaml.Node) *BooleanSchema {
	return &BooleanSchema{schemaNode{newNode(ctx, raw, key, NodeTypeBooleanSchema)}}
}

// NullSchema views a schema with type: null.
type NullSchema struct {
	schemaNode
}

func NewNullSchema(ctx *Context, raw, key *yaml.Node) *NullSchema {
	return &NullSchema{schemaNode{newNode(ctx, raw, key, NodeTypeNullSchema)}}
}

// ArraySchema views a schema with type: array.
type ArraySchema struct {
	schemaNode
}

func NewArraySchema(ctx *Context, raw, key *yaml.Node) *ArraySchema {
	return &ArraySchema{schemaNode{newNode(ctx, raw, key, NodeTypeArraySchema)}}
}

func (s *ArraySchema) Items() (*yaml.Node, bool)          { return s.getNode("items") }
func (s *ArraySchema) MinItems() (int, yml.Range, bool)   { return s.getInt("minItems") }
func (s *ArraySchema) MaxItems() (int, yml.Range, bool)   { return s.getInt("maxItems") }
func (s *ArraySchema) UniqueItems() (bool, yml.Range, bool) {
	return s.getBool("uniqueItems")
}

// ObjectSchema views a schema with type: object, or with no type keyword at
// all; composition keywords (allOf/oneOf/anyOf) live only here.
type ObjectSchema struct {
	schemaNode
}

func NewObjectSchema(ctx *Context, raw, key *yaml.Node) *ObjectSchema {
	return &ObjectSchema{schemaNode{newNode(ctx, raw, key, NodeTypeObjectSchema)}}
}

// PropertyEntries returns the declared properties in document order.
func (s *ObjectSchema) PropertyEntries() []yml.MapEntry {
	props, ok := s.getMap("properties")
	if !ok {
		return nil
	}
	return yml.MapEntries(props)
}

// Required returns the raw items of the required array.
func (s *ObjectSchema) Required() []*yaml.Node {
	items, _ := s.getSlice("required")
	return items
}

// AdditionalProperties returns the raw node: a boolean or a schema/ref.
func (s *ObjectSchema) AdditionalProperties() (*yaml.Node, bool) {
	return s.getNode("additionalProperties")
}

func (s *ObjectSchema) PropertyNames() (*yaml.Node, bool) {
	return s.getNode("propertyNames")
}

func (s *ObjectSchema) MinProperties() (int, yml.Range, bool) { return s.getInt("minProperties") }
func (s *ObjectSchema) MaxProperties() (int, yml.Range, bool) { return s.getInt("maxProperties") }

func (s *ObjectSchema) AllOf() ([]*yaml.Node, bool) { return s.compositionList("allOf") }
func (s *ObjectSchema) OneOf() ([]*yaml.Node, bool) { return s.compositionList("oneOf") }
func (s *ObjectSchema) AnyOf() ([]*yaml.Node, bool) { return s.compositionList("anyOf") }

func (s *ObjectSchema) compositionList(key string) ([]*yaml.Node, bool) {
	if !s.has(key) {
		return nil, false
	}
	items, ok := s.getSlice(key)
	return items, ok
}

// Discriminator returns the typed discriminator object, if declared.
func (s *ObjectSchema) Discriminator() (*Discriminator, bool) {
	keyNode, value, ok := s.child("discriminator")
	if !ok || !yml.IsMapping(value) {
		return nil, false
	}
	return NewDiscriminator(s.ctx, value, keyNode), true
}

// Discriminator views an OpenAPI discriminator object.
type Discriminator struct {
	node
}

func NewDiscriminator(ctx *Context, raw, key *yaml.Node) *Discriminator {
	return &Discriminator{newNode(ctx, raw, key, NodeTypeDiscriminator)}
}

func (d *Discriminator) PropertyName() (string, yml.Range, bool) {
	return d.requireString("propertyName")
}

func (d *Discriminator) Mapping() (*yaml.Node, bool) {
	return d.getNode("mapping")
}

// ClassifySchema classifies a schema-shaped node into the correct variant
// by its literal type keyword. A node with no type keyword is treated as an
// Object schema. A 3.1-style type array is unsupported and falls back to
// Object; an unrecognized type literal or a non-object node yields no
// schema at all (the caller degrades to an untyped value).
func ClassifySchema(ctx *Context, raw, key *yaml.Node) (Schema, bool) {
	raw = yml.ResolveAlias(raw)
	if raw == nil || !yml.IsMapping(raw) {
		return nil, false
	}

	_, typeNode, hasType := yml.GetMapElement(raw, "type")
	if !hasType {
		return NewObjectSchema(ctx, raw, key), true
	}

	if yml.IsSequence(typeNode) {
		ctx.Report(validation.CodeUnsupportedFeature, validation.SeverityWarning,
			"type arrays are not yet supported", ctx.Range(typeNode))
		return NewObjectSchema(ctx, raw, key), true
	}

	literal, ok := yml.AsString(typeNode)
	if !ok {
		if yml.IsNull(typeNode) {
			return NewNullSchema(ctx, raw, key), true
		}
		return nil, false
	}

	switch literal {
	case "string":
		return NewStringSchema(ctx, raw, key), true
	case "number", "integer":
		return NewNumberSchema(ctx, raw, key), true
	case "boolean":
		return NewBooleanSchema(ctx, raw, key), true
	case "null":
		return NewNullSchema(ctx, raw, key), true
	case "array":
		return NewArraySchema(ctx, raw, key), true
	case "object":
		return NewObjectSchema(ctx, raw, key), true
	default:
		return nil, false
	}
}
