// Package ir defines the language-agnostic service model emitted by the
// parser: interfaces, methods, types, enums, unions, and validation rules,
// with every scalar fact carrying an optional source position.
package ir

import (
	"fmt"

	"github.com/basketry/openapi3/yml"
)

// Kind is the document kind discriminator of the root IR object.
const Kind = "Service"

// Version is the IR dialect emitted by this parser.
const Version = "1.1-rc"

// EncodeRange encodes a source range as an opaque loc string. Consumers
// must not assume a structure beyond equality with other loc strings.
func EncodeRange(r yml.Range) string {
	if r.Start == 0 && r.End == 0 {
		return ""
	}
	return fmt.Sprintf("%d;%d;%d;%d", r.Start, r.End, r.Line, r.Column)
}

// Scalar pairs a literal value with its optional source position. Loc is
// absent for synthesized values with no position, such as fallback names.
type Scalar[T any] struct {
	Value T      `json:"value"`
	Loc   string `json:"loc,omitempty"`
}

// NewScalar makes a scalar positioned at r.
func NewScalar[T any](value T, r yml.Range) Scalar[T] {
	return Scalar[T]{Value: value, Loc: EncodeRange(r)}
}

// Synthesized makes a scalar with no source position.
func Synthesized[T any](value T) Scalar[T] {
	return Scalar[T]{Value: value}
}

// MetaEntry is a vendor-extension key/value attached to an IR entity. The
// original `x-` prefix is stripped from the key.
type MetaEntry struct {
	Key   Scalar[string] `json:"key"`
	Value Scalar[any]    `json:"value"`
}

// Service is the root of the IR document.
type Service struct {
	Kind         string         `json:"kind"`
	Basketry     string         `json:"basketry"`
	SourcePath   string         `json:"sourcePath"`
	Title        Scalar[string] `json:"title"`
	MajorVersion Scalar[int]    `json:"majorVersion"`
	Interfaces   []*Interface   `json:"interfaces"`
	Types        []*Type        `json:"types"`
	Enums        []*Enum        `json:"enums"`
	Unions       []*Union       `json:"unions"`
	Loc          string         `json:"loc,omitempty"`
	Meta         []MetaEntry    `json:"meta,omitempty"`
}

// Interface groups the methods that share an operation tag (or fallback
// path segment).
type Interface struct {
	Name      Scalar[string] `json:"name"`
	Methods   []*Method      `json:"methods"`
	Protocols *Protocols     `json:"protocols,omitempty"`
	Meta      []MetaEntry    `json:"meta,omitempty"`
}

// Protocols carries per-protocol wire details for an interface.
type Protocols struct {
	HTTP []*HTTPPath `json:"http,omitempty"`
}

// HTTPPath maps one URL path template to the methods served under it.
type HTTPPath struct {
	Path    Scalar[string] `json:"path"`
	Methods []*HTTPMethod  `json:"methods"`
	Loc     string         `json:"loc,omitempty"`
}

// HTTPMethod carries the HTTP binding of one IR method.
type HTTPMethod struct {
	Name               Scalar[string]   `json:"name"`
	Verb               Scalar[string]   `json:"verb"`
	Parameters         []*HTTPParameter `json:"parameters"`
	SuccessCode        Scalar[int]      `json:"successCode"`
	RequestMediaTypes  []Scalar[string] `json:"requestMediaTypes,omitempty"`
	ResponseMediaTypes []Scalar[string] `json:"responseMediaTypes,omitempty"`
	Loc                string           `json:"loc,omitempty"`
}

// HTTPParameter locates one method parameter on the wire.
type HTTPParameter struct {
	Name  Scalar[string]  `json:"name"`
	In    Scalar[string]  `json:"in"`
	Array *Scalar[string] `json:"array,omitempty"`
	Loc   string          `json:"loc,omitempty"`
}

// Method is a single operation on an interface.
type Method struct {
	Name        Scalar[string]   `json:"name"`
	Description *Scalar[string]  `json:"description,omitempty"`
	Deprecated  *Scalar[bool]    `json:"deprecated,omitempty"`
	Parameters  []*Parameter     `json:"parameters"`
	Returns     *Value           `json:"returns,omitempty"`
	Security    []SecurityOption `json:"security"`
	Loc         string           `json:"loc,omitempty"`
	Meta        []MetaEntry      `json:"meta,omitempty"`
}

// SecurityOption is one satisfiable set of security schemes; a request must
// satisfy every scheme in one option.
type SecurityOption []*SecurityScheme

// Value is the typed-value descriptor produced for every schema occurrence
// and exchanged between the normalizer and all of its callers.
type Value struct {
	TypeName    Scalar[string] `json:"typeName"`
	IsPrimitive bool           `json:"isPrimitive"`
	IsArray     bool           `json:"isArray,omitempty"`
	Rules       []*Rule        `json:"rules"`
	Default     *Scalar[any]   `json:"default,omitempty"`
	Constant    *Scalar[any]   `json:"constant,omitempty"`
	Loc         string         `json:"loc,omitempty"`
}

// Parameter is a named method input.
type Parameter struct {
	Name        Scalar[string]  `json:"name"`
	Description *Scalar[string] `json:"description,omitempty"`
	Deprecated  *Scalar[bool]   `json:"deprecated,omitempty"`
	Value
	Meta []MetaEntry `json:"meta,omitempty"`
}

// Property is a named member of a Type.
type Property struct {
	Name        Scalar[string]  `json:"name"`
	Description *Scalar[string] `json:"description,omitempty"`
	Deprecated  *Scalar[bool]   `json:"deprecated,omitempty"`
	Value
	Meta []MetaEntry `json:"meta,omitempty"`
}

// Type is a named object type.
type Type struct {
	Name          Scalar[string]  `json:"name"`
	Description   *Scalar[string] `json:"description,omitempty"`
	Deprecated    *Scalar[bool]   `json:"deprecated,omitempty"`
	Properties    []*Property     `json:"properties"`
	MapProperties *MapProperties  `json:"mapProperties,omitempty"`
	Rules         []*Rule         `json:"rules"`
	Loc           string          `json:"loc,omitempty"`
	Meta          []MetaEntry     `json:"meta,omitempty"`
}

// MapProperties is the open-ended key/value portion of an object type,
// derived from additionalProperties and propertyNames.
type MapProperties struct {
	Key          Value            `json:"key"`
	RequiredKeys []Scalar[string] `json:"requiredKeys"`
	Value        Value            `json:"value"`
	Loc          string           `json:"loc,omitempty"`
}

// Enum is a named set of string members.
type Enum struct {
	Name        Scalar[string]  `json:"name"`
	Description *Scalar[string] `json:"description,omitempty"`
	Deprecated  *Scalar[bool]   `json:"deprecated,omitempty"`
	Members     []*EnumMember   `json:"members"`
	Loc         string          `json:"loc,omitempty"`
	Meta        []MetaEntry     `json:"meta,omitempty"`
}

// EnumMember is one member of an Enum.
type EnumMember struct {
	Content Scalar[string] `json:"content"`
	Loc     string         `json:"loc,omitempty"`
	Meta    []MetaEntry    `json:"meta,omitempty"`
}

// Union is a named set of alternative values, optionally discriminated by a
// property name.
type Union struct {
	Name          Scalar[string]  `json:"name"`
	Members       []*Value        `json:"members"`
	Discriminator *Scalar[string] `json:"discriminator,omitempty"`
	Loc           string          `json:"loc,omitempty"`
	Meta          []MetaEntry     `json:"meta,omitempty"`
}

// SecurityScheme describes one way a method can be authorized.
type SecurityScheme struct {
	Kind        Scalar[string]  `json:"type"`
	Name        Scalar[string]  `json:"name"`
	Description *Scalar[string] `json:"description,omitempty"`
	Parameter   *Scalar[string] `json:"parameter,omitempty"`
	In          *Scalar[string] `json:"in,omitempty"`
	Flows       []*OAuthFlow    `json:"flows,omitempty"`
	Loc         string          `json:"loc,omitempty"`
	Meta        []MetaEntry     `json:"meta,omitempty"`
}

// OAuthFlow is one oauth2 flow declared by a security scheme.
type OAuthFlow struct {
	Kind             Scalar[string]  `json:"type"`
	AuthorizationURL *Scalar[string] `json:"authorizationUrl,omitempty"`
	TokenURL         *Scalar[string] `json:"tokenUrl,omitempty"`
	RefreshURL       *Scalar[string] `json:"refreshUrl,omitempty"`
	Scopes           []*OAuthScope   `json:"scopes"`
	Loc              string          `json:"loc,omitempty"`
}

// OAuthScope is one named scope of an oauth2 flow.
type OAuthScope struct {
	Name        Scalar[string]  `json:"name"`
	Description *Scalar[string] `json:"description,omitempty"`
	Loc         string          `json:"loc,omitempty"`
}
