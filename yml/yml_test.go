package yml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketry/openapi3/yml"
)

func TestParse_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{
			name: "yaml mapping",
			text: "openapi: 3.0.3\ninfo:\n  title: Test\n",
		},
		{
			name: "json document",
			text: `{"openapi": "3.0.3", "info": {"title": "Test"}}`,
		},
		{
			name: "yaml sequence",
			text: "- a\n- b\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := yml.Parse(tt.text)
			require.NoError(t, err)
			require.NotNil(t, root)
		})
	}
}

func TestParse_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		err  error
	}{
		{
			name: "empty document",
			text: "",
			err:  yml.ErrEmptyDocument,
		},
		{
			name: "malformed yaml",
			text: "a: [unclosed",
			err:  yml.ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := yml.Parse(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParse_ResolvesTopLevelAlias(t *testing.T) {
	t.Parallel()

	root, err := yml.Parse("base: &base\n  a: 1\nother: *base\n")
	require.NoError(t, err)

	_, value, ok := yml.GetMapElement(root, "other")
	require.True(t, ok)
	resolved := yml.ResolveAlias(value)
	require.NotNil(t, resolved)
	assert.True(t, yml.IsMapping(resolved))
}

func TestGetMapElement(t *testing.T) {
	t.Parallel()

	root, err := yml.Parse("a: 1\nb: two\n")
	require.NoError(t, err)

	key, value, ok := yml.GetMapElement(root, "b")
	require.True(t, ok)
	assert.Equal(t, "b", key.Value)

	s, ok := yml.AsString(value)
	require.True(t, ok)
	assert.Equal(t, "two", s)

	_, _, ok = yml.GetMapElement(root, "missing")
	assert.False(t, ok)
}

func TestScalarAccessors(t *testing.T) {
	t.Parallel()

	root, err := yml.Parse("s: hello\nb: true\ni: 42\nf: 1.5\nn: null\n")
	require.NoError(t, err)

	_, sNode, _ := yml.GetMapElement(root, "s")
	_, bNode, _ := yml.GetMapElement(root, "b")
	_, iNode, _ := yml.GetMapElement(root, "i")
	_, fNode, _ := yml.GetMapElement(root, "f")
	_, nNode, _ := yml.GetMapElement(root, "n")

	s, ok := yml.AsString(sNode)
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	b, ok := yml.AsBool(bNode)
	require.True(t, ok)
	assert.True(t, b)

	i, ok := yml.AsInt(iNode)
	require.True(t, ok)
	assert.Equal(t, 42, i)

	f, ok := yml.AsNumber(fNode)
	require.True(t, ok)
	assert.InDelta(t, 1.5, f, 0.0001)

	// ints read as numbers too
	fi, ok := yml.AsNumber(iNode)
	require.True(t, ok)
	assert.InDelta(t, 42.0, fi, 0.0001)

	assert.True(t, yml.IsNull(nNode))
	assert.False(t, yml.IsNull(sNode))

	_, ok = yml.AsBool(sNode)
	assert.False(t, ok)
}

func TestDecodeScalar(t *testing.T) {
	t.Parallel()

	root, err := yml.Parse("s: hello\nb: false\ni: 7\nf: 2.25\nn: null\n")
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
		want any
	}{
		{name: "string", key: "s", want: "hello"},
		{name: "bool", key: "b", want: false},
		{name: "int", key: "i", want: int64(7)},
		{name: "float", key: "f", want: 2.25},
		{name: "null", key: "n", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, node, ok := yml.GetMapElement(root, tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, yml.DecodeScalar(node))
		})
	}
}

func TestNodeToAny(t *testing.T) {
	t.Parallel()

	root, err := yml.Parse("a: 1\nlist:\n  - x\n  - y\nnested:\n  k: true\n")
	require.NoError(t, err)

	v, err := yml.NodeToAny(root)
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(1), m["a"])
	assert.Equal(t, []any{"x", "y"}, m["list"])
	assert.Equal(t, map[string]any{"k": true}, m["nested"])
}

func TestLineIndex_NodeRange(t *testing.T) {
	t.Parallel()

	text := "a: 1\nb: hello\n"
	root, err := yml.Parse(text)
	require.NoError(t, err)
	index := yml.NewLineIndex(text)

	_, value, ok := yml.GetMapElement(root, "b")
	require.True(t, ok)

	r := index.NodeRange(value)
	assert.Equal(t, 2, r.Line)
	assert.Equal(t, 4, r.Column)
	assert.Equal(t, "hello", text[r.Start:r.End])
}

func TestLineIndex_MultiByteColumns(t *testing.T) {
	t.Parallel()

	// "café" occupies more bytes than columns; nodes after it on the same
	// line must still slice the right text
	text := "row: {label: café, tail: ok}\n"
	root, err := yml.Parse(text)
	require.NoError(t, err)
	index := yml.NewLineIndex(text)

	_, row, ok := yml.GetMapElement(root, "row")
	require.True(t, ok)

	tailKey, tailValue, ok := yml.GetMapElement(row, "tail")
	require.True(t, ok)

	kr := index.NodeRange(tailKey)
	assert.Equal(t, "tail", text[kr.Start:kr.End])

	vr := index.NodeRange(tailValue)
	assert.Equal(t, "ok", text[vr.Start:vr.End])
}

func TestLineIndex_MappingRangeSpansChildren(t *testing.T) {
	t.Parallel()

	text := "obj:\n  a: 1\n  b: 2\n"
	root, err := yml.Parse(text)
	require.NoError(t, err)
	index := yml.NewLineIndex(text)

	_, value, ok := yml.GetMapElement(root, "obj")
	require.True(t, ok)

	r := index.NodeRange(value)
	assert.Less(t, r.Start, r.End)
	assert.Contains(t, text[r.Start:r.End], "a: 1")
	assert.Contains(t, text[r.Start:r.End], "b: 2")
}
