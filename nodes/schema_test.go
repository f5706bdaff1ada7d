package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketry/openapi3/nodes"
	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

func newTestContext(t *testing.T, text string) *nodes.Context {
	t.Helper()

	root, err := yml.Parse(text)
	require.NoError(t, err)

	return nodes.NewContext(root, yml.NewLineIndex(text), validation.NewSink())
}

func TestClassifySchema_Variants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want nodes.NodeType
	}{
		{name: "string", text: "type: string\n", want: nodes.NodeTypeStringSchema},
		{name: "number", text: "type: number\n", want: nodes.NodeTypeNumberSchema},
		{name: "integer", text: "type: integer\n", want: nodes.NodeTypeNumberSchema},
		{name: "boolean", text: "type: boolean\n", want: nodes.NodeTypeBooleanSchema},
		{name: "null", text: "type: \"null\"\n", want: nodes.NodeTypeNullSchema},
		{name: "array", text: "type: array\nitems:\n  type: string\n", want: nodes.NodeTypeArraySchema},
		{name: "object", text: "type: object\n", want: nodes.NodeTypeObjectSchema},
		{name: "no type defaults to object", text: "properties:\n  a:\n    type: string\n", want: nodes.NodeTypeObjectSchema},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := newTestContext(t, tt.text)
			schema, ok := nodes.ClassifySchema(ctx, ctx.Root, nil)
			require.True(t, ok)
			assert.Equal(t, tt.want, schema.NodeType())
		})
	}
}

func TestClassifySchema_TypeArrayFallsBackToObject(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, "type: [string, \"null\"]\n")

	schema, ok := nodes.ClassifySchema(ctx, ctx.Root, nil)
	require.True(t, ok)
	assert.Equal(t, nodes.NodeTypeObjectSchema, schema.NodeType())

	violations := ctx.Sink.Violations()
	require.Len(t, violations, 1)
	assert.Equal(t, validation.CodeUnsupportedFeature, violations[0].Code)
	assert.Equal(t, validation.SeverityWarning, violations[0].Severity)
	assert.Contains(t, violations[0].Message, "type arrays")
}

func TestClassifySchema_UnrecognizedType(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, "type: widget\n")

	_, ok := nodes.ClassifySchema(ctx, ctx.Root, nil)
	assert.False(t, ok)
}

func TestStringSchema_Accessors(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, "type: string\nminLength: 2\nmaxLength: 10\npattern: '^[a-z]+$'\nformat: date\n")

	schema, ok := nodes.ClassifySchema(ctx, ctx.Root, nil)
	require.True(t, ok)
	str, ok := schema.(*nodes.StringSchema)
	require.True(t, ok)

	min, _, ok := str.MinLength()
	require.True(t, ok)
	assert.Equal(t, 2, min)

	max, _, ok := str.MaxLength()
	require.True(t, ok)
	assert.Equal(t, 10, max)

	pattern, _, ok := str.Pattern()
	require.True(t, ok)
	assert.Equal(t, "^[a-z]+$", pattern)

	format, _, ok := str.Format()
	require.True(t, ok)
	assert.Equal(t, "date", format)
}

func TestObjectSchema_Composition(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, `
type: object
oneOf:
  - type: object
  - type: object
`)

	schema, ok := nodes.ClassifySchema(ctx, ctx.Root, nil)
	require.True(t, ok)
	obj, ok := schema.(*nodes.ObjectSchema)
	require.True(t, ok)

	members, ok := obj.OneOf()
	require.True(t, ok)
	assert.Len(t, members, 2)

	_, ok = obj.AnyOf()
	assert.False(t, ok)
}

func TestDocument_MissingInfoReportsError(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, "openapi: 3.0.3\npaths: {}\n")

	doc := nodes.NewDocument(ctx)
	_, ok := doc.Info()
	assert.False(t, ok)

	violations := ctx.Sink.Violations()
	require.NotEmpty(t, violations)
	assert.Equal(t, validation.SeverityError, violations[0].Severity)
	assert.Contains(t, violations[0].Message, `"info"`)
}

func TestDocument_UnknownKeyReportsWarning(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, "openapi: 3.0.3\ninfo:\n  title: T\n  version: 1.0.0\nbogus: true\n")

	nodes.NewDocument(ctx)

	var found bool
	for _, v := range ctx.Sink.Violations() {
		if v.Severity == validation.SeverityWarning && v.Code == validation.CodeInvalidSchema {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPathItem_OperationsInDocumentOrder(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, `
post:
  operationId: createWidget
  responses: {}
get:
  operationId: listWidgets
  responses: {}
`)

	item := nodes.NewPathItem(ctx, ctx.Root, nil)
	ops := item.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, "post", ops[0].Verb)
	assert.Equal(t, "get", ops[1].Verb)
}

func TestResolveNode(t *testing.T) {
	t.Parallel()

	text := `
components:
  schemas:
    widget:
      type: object
ref:
  $ref: '#/components/schemas/widget'
badRef:
  $ref: '#/components/schemas/missing'
`
	ctx := newTestContext(t, text)

	_, refNode, ok := yml.GetMapElement(ctx.Root, "ref")
	require.True(t, ok)

	target, _, resolved := nodes.ResolveNode(ctx, refNode, nil)
	require.True(t, resolved)
	_, typeNode, ok := yml.GetMapElement(target, "type")
	require.True(t, ok)
	literal, _ := yml.AsString(typeNode)
	assert.Equal(t, "object", literal)

	_, badRefNode, ok := yml.GetMapElement(ctx.Root, "badRef")
	require.True(t, ok)

	_, _, resolved = nodes.ResolveNode(ctx, badRefNode, nil)
	assert.False(t, resolved)

	var found bool
	for _, v := range ctx.Sink.Violations() {
		if v.Severity == validation.SeverityError && v.Code == validation.CodeInvalidSchema {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolveNode_NonRefPassthrough(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, "type: string\n")

	target, _, ok := nodes.ResolveNode(ctx, ctx.Root, nil)
	require.True(t, ok)
	assert.Equal(t, ctx.Root, target)
}

func TestSchemaRefName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pointer string
		want    string
		ok      bool
	}{
		{name: "named schema", pointer: "#/components/schemas/widget", want: "widget", ok: true},
		{name: "escaped segment", pointer: "#/components/schemas/a~1b", want: "a/b", ok: true},
		{name: "nested pointer", pointer: "#/components/schemas/widget/properties/a", ok: false},
		{name: "other section", pointer: "#/components/responses/widget", ok: false},
		{name: "empty name", pointer: "#/components/schemas/", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := nodes.SchemaRefName(tt.pointer)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
