package ir

// Primitive type names produced by the normalizer. Complex values instead
// name a Type, Enum, or Union declared elsewhere in the Service.
const (
	PrimitiveString   = "string"
	PrimitiveNumber   = "number"
	PrimitiveInteger  = "integer"
	PrimitiveLong     = "long"
	PrimitiveFloat    = "float"
	PrimitiveDouble   = "double"
	PrimitiveBoolean  = "boolean"
	PrimitiveDate     = "date"
	PrimitiveDateTime = "date-time"
	PrimitiveBinary   = "binary"
	PrimitiveNull     = "null"
	PrimitiveUntyped  = "untyped"
)
