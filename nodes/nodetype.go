package nodes

// NodeType discriminates the typed views over raw tree nodes.
type NodeType int

const (
	NodeTypeUnknown NodeType = iota
	NodeTypeDocument
	NodeTypeInfo
	NodeTypePaths
	NodeTypePathItem
	NodeTypeOperation
	NodeTypeParameter
	NodeTypeRequestBody
	NodeTypeResponses
	NodeTypeResponse
	NodeTypeMediaType
	NodeTypeComponents
	NodeTypeSecurityScheme
	NodeTypeSecurityRequirement
	NodeTypeOAuthFlows
	NodeTypeOAuthFlow
	NodeTypeDiscriminator
	NodeTypeRef
	NodeTypeStringSchema
	NodeTypeNumberSchema
	NodeTypeBooleanSchema
	NodeTypeNullSchema
	NodeTypeArraySchema
	NodeTypeObjectSchema
)

var nodeTypeNames = map[NodeType]string{
	NodeTypeUnknown:             "Unknown",
	NodeTypeDocument:            "Document",
	NodeTypeInfo:                "Info",
	NodeTypePaths:               "Paths",
	NodeTypePathItem:            "PathItem",
	NodeTypeOperation:           "Operation",
	NodeTypeParameter:           "Parameter",
	NodeTypeRequestBody:         "RequestBody",
	NodeTypeResponses:           "Responses",
	NodeTypeResponse:            "Response",
	NodeTypeMediaType:           "MediaType",
	NodeTypeComponents:          "Components",
	NodeTypeSecurityScheme:      "SecurityScheme",
	NodeTypeSecurityRequirement: "SecurityRequirement",
	NodeTypeOAuthFlows:          "OAuthFlows",
	NodeTypeOAuthFlow:           "OAuthFlow",
	NodeTypeDiscriminator:       "Discriminator",
	NodeTypeRef:                 "Ref",
	NodeTypeStringSchema:        "StringSchema",
	NodeTypeNumberSchema:        "NumberSchema",
	NodeTypeBooleanSchema:       "BooleanSchema",
	NodeTypeNullSchema:          "NullSchema",
	NodeTypeArraySchema:         "ArraySchema",
	NodeTypeObjectSchema:        "ObjectSchema",
}

func (nt NodeType) String() string {
	if name, ok := nodeTypeNames[nt]; ok {
		return name
	}
	return "Unknown"
}
