package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/ir"
	"github.com/basketry/openapi3/nodes"
	"github.com/basketry/openapi3/pointer"
	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

const defaultInterfaceName = "default"

// buildService orchestrates one full parse: version gate, security scheme
// table, named schema scan, interface assembly, then the sorted collections.
func (c *parseContext) buildService(doc *nodes.Document, sourcePath string) *ir.Service {
	c.checkOpenAPIVersion(doc)

	service := &ir.Service{
		Kind:         ir.Kind,
		Basketry:     ir.Version,
		SourcePath:   sourcePath,
		Title:        c.serviceTitle(doc),
		MajorVersion: c.serviceMajorVersion(doc),
		Loc:          ir.EncodeRange(c.rangeOf(doc.Raw())),
		Meta:         c.meta(doc),
	}

	schemes := c.parseSecuritySchemes(doc)
	c.registerComponentSchemas(doc)

	service.Interfaces = c.parseInterfaces(doc, schemes)

	service.Types = sortedValues(c.types, func(t *ir.Type) string { return t.Name.Value })
	service.Enums = sortedValues(c.enums, func(e *ir.Enum) string { return e.Name.Value })
	service.Unions = sortedValues(c.unions, func(u *ir.Union) string { return u.Name.Value })

	return service
}

func sortedValues[T any](m map[string]T, name func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return name(out[i]) < name(out[j]) })
	return out
}

func (c *parseContext) checkOpenAPIVersion(doc *nodes.Document) {
	value, r, ok := doc.OpenAPI()
	if !ok {
		return
	}

	v, err := semver.StrictNewVersion(value)
	if err != nil || v.Major() != 3 {
		c.report(validation.CodeInvalidSchema, validation.SeverityError,
			fmt.Sprintf("%q is not a supported OpenAPI version", value), r)
	}
}

func (c *parseContext) serviceTitle(doc *nodes.Document) ir.Scalar[string] {
	info, ok := doc.Info()
	if !ok {
		return ir.Synthesized(pascal("untitled"))
	}

	title, r, ok := info.Title()
	if !ok || title == "" {
		return ir.Synthesized(pascal("untitled"))
	}
	return ir.NewScalar(pascal(title), r)
}

func (c *parseContext) serviceMajorVersion(doc *nodes.Document) ir.Scalar[int] {
	info, ok := doc.Info()
	if !ok {
		return ir.Synthesized(1)
	}

	version, r, ok := info.Version()
	if !ok {
		return ir.Synthesized(1)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return ir.Synthesized(1)
	}
	return ir.NewScalar(int(v.Major()), r)
}

// registerComponentSchemas scans the document's named schemas once.
// Object-shaped ones become named types or unions under their literal
// declared names; any other shape is picked up lazily as references to it
// are parsed.
func (c *parseContext) registerComponentSchemas(doc *nodes.Document) {
	components, ok := doc.Components()
	if !ok {
		return
	}

	for _, entry := range components.SchemaEntries() {
		if entry.Key == nil {
			continue
		}
		name := entry.Key.Value

		schema, classified := nodes.ClassifySchema(c.n, entry.Value, entry.Key)
		if !classified {
			continue
		}
		if obj, isObject := schema.(*nodes.ObjectSchema); isObject {
			c.defineObject(name, ir.NewScalar(name, c.rangeOf(entry.Key)), obj)
		}
	}
}

// parseSecuritySchemes builds the scheme table methods resolve their
// security requirements against.
func (c *parseContext) parseSecuritySchemes(doc *nodes.Document) map[string]*ir.SecurityScheme {
	out := map[string]*ir.SecurityScheme{}

	components, ok := doc.Components()
	if !ok {
		return out
	}

	for _, entry := range components.SecuritySchemes() {
		if entry.Key == nil {
			continue
		}
		if scheme := c.parseSecurityScheme(entry.Key, entry.Scheme); scheme != nil {
			out[entry.Key.Value] = scheme
		}
	}
	return out
}

func (c *parseContext) parseSecurityScheme(key *yaml.Node, n *nodes.SecurityScheme) *ir.SecurityScheme {
	kind, kindRange, ok := n.Type()
	if !ok {
		return nil
	}

	scheme := &ir.SecurityScheme{
		Name: ir.NewScalar(key.Value, c.rangeOf(key)),
		Loc:  ir.EncodeRange(n.Range()),
		Meta: c.meta(n),
	}
	if d, r, hasDescription := n.Description(); hasDescription {
		scheme.Description = pointer.From(ir.NewScalar(d, r))
	}

	switch kind {
	case "http":
		httpScheme, schemeRange, hasScheme := n.Scheme()
		if !hasScheme || httpScheme != "basic" {
			c.report(validation.CodeUnsupportedFeature, validation.SeverityWarning,
				fmt.Sprintf("http security scheme %q is not yet supported", httpScheme), schemeRange)
			return nil
		}
		scheme.Kind = ir.NewScalar("basic", kindRange)
	case "apiKey":
		scheme.Kind = ir.NewScalar("apiKey", kindRange)
		if name, r, hasName := n.Name(); hasName {
			scheme.Parameter = pointer.From(ir.NewScalar(name, r))
		}
		if in, r, hasIn := n.In(); hasIn {
			scheme.In = pointer.From(ir.NewScalar(in, r))
		}
	case "oauth2":
		scheme.Kind = ir.NewScalar("oauth2", kindRange)
		scheme.Flows = c.parseOAuthFlows(n)
	default:
		c.report(validation.CodeUnsupportedFeature, validation.SeverityWarning,
			fmt.Sprintf("security scheme type %q is not yet supported", kind), kindRange)
		return nil
	}

	return scheme
}

func (c *parseContext) parseOAuthFlows(n *nodes.SecurityScheme) []*ir.OAuthFlow {
	var out []*ir.OAuthFlow
	for _, entry := range n.Flows() {
		flow := &ir.OAuthFlow{
			Kind:   ir.NewScalar(entry.Kind, c.rangeOf(entry.KindNode)),
			Scopes: []*ir.OAuthScope{},
			Loc:    ir.EncodeRange(entry.Flow.Range()),
		}
		if u, r, ok := entry.Flow.AuthorizationURL(); ok {
			flow.AuthorizationURL = pointer.From(ir.NewScalar(u, r))
		}
		if u, r, ok := entry.Flow.TokenURL(); ok {
			flow.TokenURL = pointer.From(ir.NewScalar(u, r))
		}
		if u, r, ok := entry.Flow.RefreshURL(); ok {
			flow.RefreshURL = pointer.From(ir.NewScalar(u, r))
		}
		for _, scope := range entry.Flow.Scopes() {
			if scope.Key == nil {
				continue
			}
			s := &ir.OAuthScope{
				Name: ir.NewScalar(scope.Key.Value, c.rangeOf(scope.Key)),
				Loc:  ir.EncodeRange(c.rangeOf(scope.Key)),
			}
			if d, ok := yml.AsString(scope.Value); ok {
				s.Description = pointer.From(ir.NewScalar(d, c.rangeOf(scope.Value)))
			}
			flow.Scopes = append(flow.Scopes, s)
		}
		out = append(out, flow)
	}
	return out
}

// interfaceGroup accumulates the methods and HTTP bindings of one
// interface as operations are visited in document order.
type interfaceGroup struct {
	name      string
	methods   []*ir.Method
	pathOrder []string
	paths     map[string]*ir.HTTPPath
}

// parseInterfaces walks every path item and operation, grouping methods by
// the first operation tag (falling back to the first path segment, then to
// a default group). Group names are singularized.
func (c *parseContext) parseInterfaces(doc *nodes.Document, schemes map[string]*ir.SecurityScheme) []*ir.Interface {
	defaultSecurity, hasDefaultSecurity := doc.Security()

	var order []string
	groups := map[string]*interfaceGroup{}

	for _, pathEntry := range doc.Paths() {
		item, ok := nodes.ResolvePathItem(c.n, pathEntry.Item, pathEntry.Key)
		if !ok {
			continue
		}

		pathKey := pathEntry.Key.Value
		pathRange := c.rangeOf(pathEntry.Key)

		for _, opEntry := range item.Operations() {
			method, httpMethod, ok := c.parseOperation(opEntry, item, schemes, defaultSecurity, hasDefaultSecurity)
			if !ok {
				continue
			}

			groupName := interfaceName(opEntry.Operation, pathKey)
			group, exists := groups[groupName]
			if !exists {
				group = &interfaceGroup{name: groupName, paths: map[string]*ir.HTTPPath{}}
				groups[groupName] = group
				order = append(order, groupName)
			}

			group.methods = append(group.methods, method)

			httpPath, pathExists := group.paths[pathKey]
			if !pathExists {
				httpPath = &ir.HTTPPath{
					Path: ir.NewScalar(pathKey, pathRange),
					Loc:  ir.EncodeRange(pathRange),
				}
				group.paths[pathKey] = httpPath
				group.pathOrder = append(group.pathOrder, pathKey)
			}
			httpPath.Methods = append(httpPath.Methods, httpMethod)
		}
	}

	sort.Strings(order)

	interfaces := make([]*ir.Interface, 0, len(order))
	for _, name := range order {
		group := groups[name]

		httpPaths := make([]*ir.HTTPPath, 0, len(group.pathOrder))
		for _, p := range group.pathOrder {
			httpPaths = append(httpPaths, group.paths[p])
		}

		interfaces = append(interfaces, &ir.Interface{
			Name:      ir.Synthesized(name),
			Methods:   group.methods,
			Protocols: &ir.Protocols{HTTP: httpPaths},
		})
	}
	return interfaces
}

func interfaceName(op *nodes.Operation, pathKey string) string {
	if tags := op.Tags(); len(tags) > 0 && tags[0] != "" {
		return singular(camel(tags[0]))
	}
	for _, segment := range strings.Split(pathKey, "/") {
		if segment != "" {
			return singular(camel(segment))
		}
	}
	return defaultInterfaceName
}

func (c *parseContext) parseOperation(
	opEntry nodes.OperationEntry,
	item *nodes.PathItem,
	schemes map[string]*ir.SecurityScheme,
	defaultSecurity []*nodes.SecurityRequirement,
	hasDefaultSecurity bool,
) (*ir.Method, *ir.HTTPMethod, bool) {
	op := opEntry.Operation

	operationID, idRange, ok := op.OperationID()
	if !ok {
		return nil, nil, false
	}
	name := ir.NewScalar(operationID, idRange)

	method := &ir.Method{
		Name:     name,
		Security: []ir.SecurityOption{},
		Loc:      ir.EncodeRange(op.Range()),
		Meta:     c.meta(op),
	}
	if d, r, hasDescription := op.Description(); hasDescription {
		method.Description = pointer.From(ir.NewScalar(d, r))
	}
	if dep, r, hasDeprecated := op.Deprecated(); hasDeprecated && dep {
		method.Deprecated = pointer.From(ir.NewScalar(true, r))
	}

	httpMethod := &ir.HTTPMethod{
		Name:       name,
		Verb:       ir.NewScalar(opEntry.Verb, opEntry.VerbRange),
		Parameters: []*ir.HTTPParameter{},
		Loc:        ir.EncodeRange(op.Range()),
	}

	parameters := []*ir.Parameter{}

	if bodyParam, httpParam, mediaTypes, hasBody := c.parseBody(op, operationID); hasBody {
		parameters = append(parameters, bodyParam)
		httpMethod.Parameters = append(httpMethod.Parameters, httpParam)
		httpMethod.RequestMediaTypes = mediaTypes
	}

	for _, raw := range c.mergeParameters(item, op) {
		param, httpParam, ok := c.parseParameter(raw, operationID)
		if !ok {
			continue
		}
		parameters = append(parameters, param)
		httpMethod.Parameters = append(httpMethod.Parameters, httpParam)
	}
	method.Parameters = parameters

	method.Security = c.resolveSecurity(op, schemes, defaultSecurity, hasDefaultSecurity)

	returns, successCode, responseMediaTypes := c.parseResponses(op, opEntry.Verb, operationID)
	method.Returns = returns
	httpMethod.SuccessCode = successCode
	httpMethod.ResponseMediaTypes = responseMediaTypes

	return method, httpMethod, true
}

// mergeParameters combines path-item and operation parameters; an operation
// parameter replaces a path-item parameter with the same name and location.
func (c *parseContext) mergeParameters(item *nodes.PathItem, op *nodes.Operation) []*yaml.Node {
	opParams := op.Parameters()

	overridden := map[string]struct{}{}
	for _, raw := range opParams {
		if key := c.parameterIdentity(raw); key != "" {
			overridden[key] = struct{}{}
		}
	}

	var out []*yaml.Node
	for _, raw := range item.Parameters() {
		key := c.parameterIdentity(raw)
		if key != "" {
			if _, ok := overridden[key]; ok {
				continue
			}
		}
		out = append(out, raw)
	}
	return append(out, opParams...)
}

// parameterIdentity computes the "in:name" override key of a parameter
// entry, following references so a referenced parameter can be overridden
// by an inline one.
func (c *parseContext) parameterIdentity(raw *yaml.Node) string {
	raw = yml.ResolveAlias(raw)
	if raw == nil {
		return ""
	}

	if nodes.IsRef(raw) {
		target, _, ok := nodes.ResolveNode(c.n, raw, nil)
		if !ok {
			return ""
		}
		raw = yml.ResolveAlias(target)
		if raw == nil {
			return ""
		}
	}

	_, nameNode, hasName := yml.GetMapElement(raw, "name")
	_, inNode, hasIn := yml.GetMapElement(raw, "in")
	if !hasName || !hasIn {
		return ""
	}

	name, nameOK := yml.AsString(nameNode)
	in, inOK := yml.AsString(inNode)
	if !nameOK || !inOK {
		return ""
	}
	return in + ":" + name
}

func (c *parseContext) parseBody(op *nodes.Operation, methodName string) (*ir.Parameter, *ir.HTTPParameter, []ir.Scalar[string], bool) {
	raw, ok := op.RequestBody()
	if !ok {
		return nil, nil, nil, false
	}

	body, ok := nodes.ResolveRequestBody(c.n, raw, nil)
	if !ok {
		return nil, nil, nil, false
	}

	content := body.Content()
	if len(content) == 0 {
		return nil, nil, nil, false
	}

	mediaTypes := make([]ir.Scalar[string], 0, len(content))
	for _, entry := range content {
		mediaTypes = append(mediaTypes, ir.NewScalar(entry.Key.Value, c.rangeOf(entry.Key)))
	}

	schema, hasSchema := content[0].MediaType.Schema()
	if !hasSchema {
		return nil, nil, nil, false
	}

	value := c.parseType(schema, nil, "body", methodName)
	if value == nil {
		return nil, nil, nil, false
	}
	if required, _, ok := body.Required(); ok && required {
		value.Rules = prependRequired(value.Rules)
	}

	bodyRange := c.rangeOf(body.Raw())

	param := &ir.Parameter{
		Name:  ir.NewScalar("body", bodyRange),
		Value: *value,
	}
	if d, r, ok := body.Description(); ok {
		param.Description = pointer.From(ir.NewScalar(d, r))
	}

	httpParam := &ir.HTTPParameter{
		Name: param.Name,
		In:   ir.Synthesized("body"),
		Loc:  ir.EncodeRange(bodyRange),
	}

	return param, httpParam, mediaTypes, true
}

func (c *parseContext) parseParameter(raw *yaml.Node, methodName string) (*ir.Parameter, *ir.HTTPParameter, bool) {
	p, ok := nodes.ResolveParameter(c.n, raw, nil)
	if !ok {
		return nil, nil, false
	}

	name, nameRange, ok := p.Name()
	if !ok {
		return nil, nil, false
	}
	in, inRange, ok := p.In()
	if !ok {
		return nil, nil, false
	}

	if in == "cookie" {
		c.report(validation.CodeUnsupportedFeature, validation.SeverityWarning,
			fmt.Sprintf("cookie parameter %q is not yet supported", name), inRange)
		return nil, nil, false
	}

	schema, hasSchema := p.Schema()
	if !hasSchema {
		return nil, nil, false
	}

	value := c.parseType(schema, nil, name, methodName)
	if value == nil {
		return nil, nil, false
	}
	if required, _, ok := p.Required(); ok && required {
		value.Rules = prependRequired(value.Rules)
	}

	param := &ir.Parameter{
		Name:  ir.NewScalar(name, nameRange),
		Value: *value,
		Meta:  c.meta(p),
	}
	if d, r, ok := p.Description(); ok {
		param.Description = pointer.From(ir.NewScalar(d, r))
	}
	if dep, r, ok := p.Deprecated(); ok && dep {
		param.Deprecated = pointer.From(ir.NewScalar(true, r))
	}

	httpParam := &ir.HTTPParameter{
		Name: param.Name,
		In:   ir.NewScalar(in, inRange),
		Loc:  ir.EncodeRange(p.Range()),
	}
	if value.IsArray {
		httpParam.Array = pointer.From(c.arrayStyle(p, in))
	}

	return param, httpParam, true
}

// arrayStyle maps a parameter's style/explode keywords to a wire array
// format. Path-style and label-style expansion are not supported and fall
// back to comma separation.
func (c *parseContext) arrayStyle(p *nodes.Parameter, in string) ir.Scalar[string] {
	style, styleRange, hasStyle := p.Style()
	if !hasStyle {
		// defaults per location: form for query, simple elsewhere
		if in == "query" {
			return c.formStyle(p, p.Range())
		}
		return ir.Synthesized("csv")
	}

	switch style {
	case "form":
		return c.formStyle(p, styleRange)
	case "simple":
		return ir.NewScalar("csv", styleRange)
	case "spaceDelimited":
		return ir.NewScalar("ssv", styleRange)
	case "pipeDelimited":
		return ir.NewScalar("pipes", styleRange)
	case "matrix", "label":
		c.report(validation.CodeUnsupportedFeature, validation.SeverityWarning,
			fmt.Sprintf("parameter style %q is not yet supported", style), styleRange)
		return ir.NewScalar("csv", styleRange)
	default:
		return ir.NewScalar("csv", styleRange)
	}
}

// formStyle resolves the form style by explode, which defaults to true.
func (c *parseContext) formStyle(p *nodes.Parameter, r yml.Range) ir.Scalar[string] {
	if explode, explodeRange, ok := p.Explode(); ok {
		if explode {
			return ir.NewScalar("multi", explodeRange)
		}
		return ir.NewScalar("csv", explodeRange)
	}
	return ir.NewScalar("multi", r)
}

// resolveSecurity resolves the effective security requirements against the
// declared scheme table. Operation-level requirements replace the document
// default even when empty; unknown scheme names drop silently.
func (c *parseContext) resolveSecurity(
	op *nodes.Operation,
	schemes map[string]*ir.SecurityScheme,
	defaultSecurity []*nodes.SecurityRequirement,
	hasDefaultSecurity bool,
) []ir.SecurityOption {
	requirements, present := op.Security()
	if !present && hasDefaultSecurity {
		requirements = defaultSecurity
	}

	options := []ir.SecurityOption{}
	for _, requirement := range requirements {
		var option ir.SecurityOption
		for _, entry := range requirement.Schemes() {
			if entry.Key == nil {
				continue
			}
			if scheme, ok := schemes[entry.Key.Value]; ok {
				option = append(option, scheme)
			}
		}
		if len(option) > 0 {
			options = append(options, option)
		}
	}
	return options
}

var defaultSuccessCodes = map[string]int{
	"delete":  202,
	"options": 204,
	"post":    201,
}

// parseResponses picks the primary success response (first 2xx status key,
// falling back to default), derives the success code and return type from
// it, and collects its full ordered media type list.
func (c *parseContext) parseResponses(op *nodes.Operation, verb, methodName string) (*ir.Value, ir.Scalar[int], []ir.Scalar[string]) {
	noCode := ir.Synthesized(204)

	responses, ok := op.Responses()
	if !ok {
		return nil, noCode, nil
	}

	entries := responses.Entries()

	primary := pickPrimaryResponse(entries)
	if primary == nil {
		return nil, noCode, nil
	}

	response, ok := nodes.ResolveResponse(c.n, primary.Response, primary.Key)
	if !ok {
		return nil, noCode, nil
	}

	content := response.Content()

	var successCode ir.Scalar[int]
	if primary.Key.Value == "default" {
		code := 204
		if len(content) > 0 {
			code = successCodeForVerb(verb)
		}
		successCode = ir.Synthesized(code)
	} else {
		code, err := strconv.Atoi(primary.Key.Value)
		if err != nil {
			return nil, noCode, nil
		}
		successCode = ir.NewScalar(code, c.rangeOf(primary.Key))
	}

	if len(content) == 0 {
		return nil, successCode, nil
	}

	mediaTypes := make([]ir.Scalar[string], 0, len(content))
	for _, entry := range content {
		mediaTypes = append(mediaTypes, ir.NewScalar(entry.Key.Value, c.rangeOf(entry.Key)))
	}

	schema, hasSchema := content[0].MediaType.Schema()
	if !hasSchema {
		return nil, successCode, mediaTypes
	}

	return c.parseType(schema, nil, "response", methodName), successCode, mediaTypes
}

func pickPrimaryResponse(entries []nodes.ResponseEntry) *nodes.ResponseEntry {
	var fallback *nodes.ResponseEntry
	for i := range entries {
		key := entries[i].Key.Value
		if strings.HasPrefix(key, "2") {
			return &entries[i]
		}
		if key == "default" && fallback == nil {
			fallback = &entries[i]
		}
	}
	return fallback
}

func successCodeForVerb(verb string) int {
	if code, ok := defaultSuccessCodes[verb]; ok {
		return code
	}
	return 200
}
