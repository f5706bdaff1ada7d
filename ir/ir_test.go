package ir_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketry/openapi3/ir"
	"github.com/basketry/openapi3/yml"
)

func TestEncodeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    yml.Range
		want string
	}{
		{name: "positioned", r: yml.Range{Start: 10, End: 25, Line: 3, Column: 5}, want: "10;25;3;5"},
		{name: "zero range is absent", r: yml.Range{}, want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ir.EncodeRange(tt.r))
		})
	}
}

func TestScalarJSON(t *testing.T) {
	t.Parallel()

	positioned := ir.NewScalar("widget", yml.Range{Start: 1, End: 7, Line: 1, Column: 2})
	encoded, err := json.Marshal(positioned)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"widget","loc":"1;7;1;2"}`, string(encoded))

	synthesized := ir.Synthesized("widget")
	encoded, err = json.Marshal(synthesized)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"widget"}`, string(encoded))
}

func TestServiceEnvelopeJSON(t *testing.T) {
	t.Parallel()

	service := &ir.Service{
		Kind:         ir.Kind,
		Basketry:     ir.Version,
		SourcePath:   "api.yaml",
		Title:        ir.Synthesized("Untitled"),
		MajorVersion: ir.Synthesized(1),
		Interfaces:   []*ir.Interface{},
		Types:        []*ir.Type{},
		Enums:        []*ir.Enum{},
		Unions:       []*ir.Union{},
	}

	encoded, err := json.Marshal(service)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "Service", decoded["kind"])
	assert.Equal(t, "1.1-rc", decoded["basketry"])
	assert.Equal(t, "api.yaml", decoded["sourcePath"])

	// empty collections serialize as arrays, not null
	assert.Equal(t, []any{}, decoded["interfaces"])
	assert.Equal(t, []any{}, decoded["types"])
}

func TestSecuritySchemeKindSerializesAsType(t *testing.T) {
	t.Parallel()

	scheme := &ir.SecurityScheme{
		Kind: ir.Synthesized("apiKey"),
		Name: ir.Synthesized("auth"),
	}

	encoded, err := json.Marshal(scheme)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	_, hasType := decoded["type"]
	assert.True(t, hasType)
	_, hasKind := decoded["kind"]
	assert.False(t, hasKind)
}
