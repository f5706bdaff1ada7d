package nodes

import "regexp"

var (
	extensionPattern = regexp.MustCompile(`^x-`)
	pathKeyPattern   = regexp.MustCompile(`^/`)
	responseKey      = regexp.MustCompile(`^(\d{3}|default)$`)
	upperVerbPattern = regexp.MustCompile(`^(GET|PUT|POST|DELETE|OPTIONS|HEAD|PATCH|TRACE)$`)
)

// commonSchemaKeys are accepted on every schema variant.
var commonSchemaKeys = []string{
	"type", "format", "title", "description", "default", "const", "enum",
	"nullable", "deprecated", "readOnly", "writeOnly", "example", "examples",
	"externalDocs", "xml",
}

func schemaPolicy(extra ...string) *keyPolicy {
	return &keyPolicy{
		unsupported:     keySet("not", "if", "then", "else"),
		allowed:         keySet(append(append([]string{}, commonSchemaKeys...), extra...)...),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	}
}

// policies is the per-wrapper key-validation table. Wrappers without an
// entry accept any key set (e.g. security requirements, which map
// arbitrary scheme names).
var policies = map[NodeType]*keyPolicy{
	NodeTypeDocument: {
		allowed: keySet("openapi", "info", "jsonSchemaDialect", "servers", "paths",
			"webhooks", "components", "security", "tags", "externalDocs"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeInfo: {
		allowed: keySet("title", "summary", "description", "termsOfService",
			"contact", "license", "version"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypePaths: {
		requiredPatterns: []*regexp.Regexp{pathKeyPattern, extensionPattern},
	},
	NodeTypePathItem: {
		allowed: keySet("$ref", "summary", "description", "get", "put", "post",
			"delete", "options", "head", "patch", "trace", "servers", "parameters"),
		disallowedPatterns: []*regexp.Regexp{upperVerbPattern},
		allowedPatterns:    []*regexp.Regexp{extensionPattern},
	},
	NodeTypeOperation: {
		unsupported: keySet("callbacks"),
		allowed: keySet("tags", "summary", "description", "externalDocs",
			"operationId", "parameters", "requestBody", "responses", "deprecated",
			"security", "servers"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeParameter: {
		allowed: keySet("name", "in", "description", "required", "deprecated",
			"allowEmptyValue", "style", "explode", "allowReserved", "schema",
			"example", "examples", "content"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeRequestBody: {
		allowed:         keySet("description", "content", "required"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeResponses: {
		requiredPatterns: []*regexp.Regexp{responseKey, extensionPattern},
	},
	NodeTypeResponse: {
		unsupported:     keySet("links"),
		allowed:         keySet("description", "headers", "content"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeMediaType: {
		allowed:         keySet("schema", "example", "examples", "encoding"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeComponents: {
		allowed: keySet("schemas", "responses", "parameters", "examples",
			"requestBodies", "headers", "securitySchemes", "links", "callbacks",
			"pathItems"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeSecurityScheme: {
		allowed: keySet("type", "description", "name", "in", "scheme",
			"bearerFormat", "flows", "openIdConnectUrl"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeOAuthFlows: {
		allowed:         keySet("implicit", "password", "clientCredentials", "authorizationCode"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeOAuthFlow: {
		allowed:         keySet("authorizationUrl", "tokenUrl", "refreshUrl", "scopes"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeDiscriminator: {
		allowed:         keySet("propertyName", "mapping"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeRef: {
		allowed:         keySet("$ref", "summary", "description"),
		allowedPatterns: []*regexp.Regexp{extensionPattern},
	},
	NodeTypeStringSchema: schemaPolicy("minLength", "maxLength", "pattern"),
	NodeTypeNumberSchema: schemaPolicy("multipleOf", "minimum", "maximum",
		"exclusiveMinimum", "exclusiveMaximum"),
	NodeTypeBooleanSchema: schemaPolicy(),
	NodeTypeNullSchema:    schemaPolicy(),
	NodeTypeArraySchema:   schemaPolicy("items", "minItems", "maxItems", "uniqueItems"),
	NodeTypeObjectSchema: schemaPolicy("properties", "required",
		"additionalProperties", "propertyNames", "minProperties", "maxProperties",
		"allOf", "oneOf", "anyOf", "discriminator"),
}
