package nodes

import (
	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

// Document views the root OpenAPI object.
type Document struct {
	node
}

func NewDocument(ctx *Context) *Document {
	return &Document{newNode(ctx, ctx.Root, nil, NodeTypeDocument)}
}

func (d *Document) OpenAPI() (string, yml.Range, bool) {
	return d.requireString("openapi")
}

func (d *Document) Info() (*Info, bool) {
	keyNode, value, ok := d.child("info")
	if !ok {
		d.ctx.Report(validation.CodeInvalidSchema, validation.SeverityError,
			`Document is missing required key "info"`, d.Range())
		return nil, false
	}
	return &Info{newNode(d.ctx, value, keyNode, NodeTypeInfo)}, true
}

// PathEntry pairs a path template key with its (possibly $ref) path item.
type PathEntry struct {
	Key  *yaml.Node
	Item *yaml.Node
}

// Paths returns the path entries in document order, skipping vendor
// extensions. Constructing the paths view validates the key pattern.
func (d *Document) Paths() []PathEntry {
	keyNode, value, ok := d.child("paths")
	if !ok {
		return nil
	}

	paths := newNode(d.ctx, value, keyNode, NodeTypePaths)

	var out []PathEntry
	for _, entry := range yml.MapEntries(paths.Raw()) {
		if entry.Key == nil || !pathKeyPattern.MatchString(entry.Key.Value) {
			continue
		}
		out = append(out, PathEntry{Key: entry.Key, Item: entry.Value})
	}
	return out
}

func (d *Document) Components() (*Components, bool) {
	keyNode, value, ok := d.child("components")
	if !ok {
		return nil, false
	}
	return &Components{newNode(d.ctx, value, keyNode, NodeTypeComponents)}, true
}

// Security returns the document-level default security requirements and
// whether the key was present at all.
func (d *Document) Security() ([]*SecurityRequirement, bool) {
	return securityRequirements(d.node, "security")
}

// Info views the info object.
type Info struct {
	node
}

func (i *Info) Title() (string, yml.Range, bool)   { return i.requireString("title") }
func (i *Info) Version() (string, yml.Range, bool) { return i.requireString("version") }
func (i *Info) Description() (string, yml.Range, bool) {
	return i.getString("description")
}

// PathItem views one path item object.
type PathItem struct {
	node
}

func NewPathItem(ctx *Context, raw, key *yaml.Node) *PathItem {
	return &PathItem{newNode(ctx, raw, key, NodeTypePathItem)}
}

var httpVerbs = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// OperationEntry pairs a lowercase HTTP verb with its operation.
type OperationEntry struct {
	Verb      string
	VerbRange yml.Range
	Operation *Operation
}

// Operations returns the operations declared on the path item in document
// order.
func (p *PathItem) Operations() []OperationEntry {
	var out []OperationEntry
	for _, entry := range yml.MapEntries(p.raw) {
		if entry.Key == nil {
			continue
		}
		verb := entry.Key.Value
		if !isHTTPVerb(verb) {
			continue
		}
		out = append(out, OperationEntry{
			Verb:      verb,
			VerbRange: p.ctx.Range(entry.Key),
			Operation: &Operation{newNode(p.ctx, entry.Value, entry.Key, NodeTypeOperation)},
		})
	}
	return out
}

// Parameters returns the raw path-level parameter nodes (each a parameter
// or a $ref).
func (p *PathItem) Parameters() []*yaml.Node {
	items, _ := p.getSlice("parameters")
	return items
}

func isHTTPVerb(key string) bool {
	for _, verb := range httpVerbs {
		if key == verb {
			return true
		}
	}
	return false
}

// Operation views one operation object.
type Operation struct {
	node
}

func (o *Operation) OperationID() (string, yml.Range, bool) {
	return o.requireString("operationId")
}

// Tags returns the literal tag values.
func (o *Operation) Tags() []string {
	items, _ := o.getSlice("tags")
	var out []string
	for _, item := range items {
		if s, ok := yml.AsString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func (o *Operation) Parameters() []*yaml.Node {
	items, _ := o.getSlice("parameters")
	return items
}

func (o *Operation) RequestBody() (*yaml.Node, bool) {
	return o.getNode("requestBody")
}

// Responses returns the responses view; the responses object is required
// on every operation.
func (o *Operation) Responses() (*Responses, bool) {
	keyNode, value, ok := o.child("responses")
	if !ok {
		o.ctx.Report(validation.CodeInvalidSchema, validation.SeverityError,
			`Operation is missing required key "responses"`, o.Range())
		return nil, false
	}
	return &Responses{newNode(o.ctx, value, keyNode, NodeTypeResponses)}, true
}

// Security returns operation-level security requirements and whether the
// key was present (an empty present list removes the document default).
func (o *Operation) Security() ([]*SecurityRequirement, bool) {
	return securityRequirements(o.node, "security")
}

func (o *Operation) Deprecated() (bool, yml.Range, bool) { return o.getBool("deprecated") }

// Description returns the operation description, falling back to summary.
func (o *Operation) Description() (string, yml.Range, bool) {
	if s, r, ok := o.getString("description"); ok {
		return s, r, true
	}
	return o.getString("summary")
}

// Responses views the responses object keyed by status code or default.
type Responses struct {
	node
}

// ResponseEntry pairs a status key (three digits or "default") with its raw
// response-or-ref node.
type ResponseEntry struct {
	Key      *yaml.Node
	Response *yaml.Node
}

func (r *Responses) Entries() []ResponseEntry {
	var out []ResponseEntry
	for _, entry := range yml.MapEntries(r.raw) {
		if entry.Key == nil || !responseKey.MatchString(entry.Key.Value) {
			continue
		}
		out = append(out, ResponseEntry{Key: entry.Key, Response: entry.Value})
	}
	return out
}

// Response views one response object.
type Response struct {
	node
}

func NewResponse(ctx *Context, raw, key *yaml.Node) *Response {
	return &Response{newNode(ctx, raw, key, NodeTypeResponse)}
}

func (r *Response) Description() (string, yml.Range, bool) {
	return r.getString("description")
}

// Content returns the declared media types in document order.
func (r *Response) Content() []MediaTypeEntry {
	return mediaTypeEntries(r.node)
}

// RequestBody views one request body object.
type RequestBody struct {
	node
}

func NewRequestBody(ctx *Context, raw, key *yaml.Node) *RequestBody {
	return &RequestBody{newNode(ctx, raw, key, NodeTypeRequestBody)}
}

func (b *RequestBody) Required() (bool, yml.Range, bool) { return b.getBool("required") }
func (b *RequestBody) Description() (string, yml.Range, bool) {
	return b.getString("description")
}

func (b *RequestBody) Content() []MediaTypeEntry {
	return mediaTypeEntries(b.node)
}

// MediaTypeEntry pairs a content-type key with its media type view.
type MediaTypeEntry struct {
	Key       *yaml.Node
	MediaType *MediaType
}

func mediaTypeEntries(n node) []MediaTypeEntry {
	content, ok := n.getMap("content")
	if !ok {
		return nil
	}

	var out []MediaTypeEntry
	for _, entry := range yml.MapEntries(content) {
		if entry.Key == nil {
			continue
		}
		out = append(out, MediaTypeEntry{
			Key:       entry.Key,
			MediaType: &MediaType{newNode(n.ctx, entry.Value, entry.Key, NodeTypeMediaType)},
		})
	}
	return out
}

// MediaType views one media type object.
type MediaType struct {
	node
}

func (m *MediaType) Schema() (*yaml.Node, bool) {
	return m.getNode("schema")
}

// Parameter views one parameter object.
type Parameter struct {
	node
}

func NewParameter(ctx *Context, raw, key *yaml.Node) *Parameter {
	return &Parameter{newNode(ctx, raw, key, NodeTypeParameter)}
}

func (p *Parameter) Name() (string, yml.Range, bool) { return p.requireString("name") }
func (p *Parameter) In() (string, yml.Range, bool)   { return p.requireString("in") }
func (p *Parameter) Required() (bool, yml.Range, bool) {
	return p.getBool("required")
}
func (p *Parameter) Deprecated() (bool, yml.Range, bool) { return p.getBool("deprecated") }
func (p *Parameter) Description() (string, yml.Range, bool) {
	return p.getString("description")
}
func (p *Parameter) Style() (string, yml.Range, bool) { return p.getString("style") }
func (p *Parameter) Explode() (bool, yml.Range, bool) { return p.getBool("explode") }

func (p *Parameter) Schema() (*yaml.Node, bool) {
	return p.getNode("schema")
}

// Components views the components object.
type Components struct {
	node
}

// SchemaEntries returns the declared named schemas in document order.
func (c *Components) SchemaEntries() []yml.MapEntry {
	schemas, ok := c.getMap("schemas")
	if !ok {
		return nil
	}
	return yml.MapEntries(schemas)
}

// SecuritySchemeEntry pairs a declared scheme name with its view.
type SecuritySchemeEntry struct {
	Key    *yaml.Node
	Scheme *SecurityScheme
}

func (c *Components) SecuritySchemes() []SecuritySchemeEntry {
	schemes, ok := c.getMap("securitySchemes")
	if !ok {
		return nil
	}

	var out []SecuritySchemeEntry
	for _, entry := range yml.MapEntries(schemes) {
		if entry.Key == nil {
			continue
		}
		out = append(out, SecuritySchemeEntry{
			Key:    entry.Key,
			Scheme: NewSecurityScheme(c.ctx, entry.Value, entry.Key),
		})
	}
	return out
}

// SecurityScheme views one security scheme object.
type SecurityScheme struct {
	node
}

func NewSecurityScheme(ctx *Context, raw, key *yaml.Node) *SecurityScheme {
	return &SecurityScheme{newNode(ctx, raw, key, NodeTypeSecurityScheme)}
}

func (s *SecurityScheme) Type() (string, yml.Range, bool)   { return s.requireString("type") }
func (s *SecurityScheme) Scheme() (string, yml.Range, bool) { return s.getString("scheme") }
func (s *SecurityScheme) Name() (string, yml.Range, bool)   { return s.getString("name") }
func (s *SecurityScheme) In() (string, yml.Range, bool)     { return s.getString("in") }
func (s *SecurityScheme) Description() (string, yml.Range, bool) {
	return s.getString("description")
}

// FlowEntry pairs a flow kind (implicit, password, clientCredentials,
// authorizationCode) with its flow view.
type FlowEntry struct {
	Kind     string
	KindNode *yaml.Node
	Flow     *OAuthFlow
}

func (s *SecurityScheme) Flows() []FlowEntry {
	keyNode, value, ok := s.child("flows")
	if !ok {
		return nil
	}

	flows := newNode(s.ctx, value, keyNode, NodeTypeOAuthFlows)

	var out []FlowEntry
	for _, entry := range yml.MapEntries(flows.Raw()) {
		if entry.Key == nil || extensionPattern.MatchString(entry.Key.Value) {
			continue
		}
		out = append(out, FlowEntry{
			Kind:     entry.Key.Value,
			KindNode: entry.Key,
			Flow:     &OAuthFlow{newNode(s.ctx, entry.Value, entry.Key, NodeTypeOAuthFlow)},
		})
	}
	return out
}

// OAuthFlow views one oauth2 flow object.
type OAuthFlow struct {
	node
}

func (f *OAuthFlow) AuthorizationURL() (string, yml.Range, bool) {
	return f.getString("authorizationUrl")
}
func (f *OAuthFlow) TokenURL() (string, yml.Range, bool)   { return f.getString("tokenUrl") }
func (f *OAuthFlow) RefreshURL() (string, yml.Range, bool) { return f.getString("refreshUrl") }

// Scopes returns scope name/description pairs in document order.
func (f *OAuthFlow) Scopes() []yml.MapEntry {
	scopes, ok := f.getMap("scopes")
	if !ok {
		return nil
	}
	return yml.MapEntries(scopes)
}

// SecurityRequirement views one entry of a security array: a map from
// scheme name to requested scopes.
type SecurityRequirement struct {
	node
}

// Schemes returns the referenced scheme names with their key nodes.
func (s *SecurityRequirement) Schemes() []yml.MapEntry {
	return yml.MapEntries(s.raw)
}

func securityRequirements(n node, key string) ([]*SecurityRequirement, bool) {
	if !n.has(key) {
		return nil, false
	}

	items, ok := n.getSlice(key)
	if !ok {
		return nil, true
	}

	out := make([]*SecurityRequirement, 0, len(items))
	for _, item := range items {
		out = append(out, &SecurityRequirement{newNode(n.ctx, item, nil, NodeTypeSecurityRequirement)})
	}
	return out, true
}
