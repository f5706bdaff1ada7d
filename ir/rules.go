package ir

// RuleID tags a validation rule fact.
type RuleID string

// Rules attached to scalar and array values.
const (
	RuleRequired         RuleID = "required"
	RuleStringMinLength  RuleID = "string-min-length"
	RuleStringMaxLength  RuleID = "string-max-length"
	RuleStringPattern    RuleID = "string-pattern"
	RuleStringFormat     RuleID = "string-format"
	RuleStringEnum       RuleID = "string-enum"
	RuleNumberMultipleOf RuleID = "number-multiple-of"
	RuleNumberGT         RuleID = "number-gt"
	RuleNumberGTE        RuleID = "number-gte"
	RuleNumberLT         RuleID = "number-lt"
	RuleNumberLTE        RuleID = "number-lte"
	RuleArrayMinItems    RuleID = "array-min-items"
	RuleArrayMaxItems    RuleID = "array-max-items"
	RuleArrayUniqueItems RuleID = "array-unique-items"
)

// Rules attached to object types.
const (
	RuleObjectMinProperties       RuleID = "object-min-properties"
	RuleObjectMaxProperties       RuleID = "object-max-properties"
	RuleObjectAdditionalProperties RuleID = "object-additional-properties"
)

// Rule is a single validation fact. Only the facets relevant to the rule's
// ID are populated; each carries the literal constraint value(s) and their
// source positions.
type Rule struct {
	ID        RuleID           `json:"id"`
	Length    *Scalar[int]     `json:"length,omitempty"`
	Value     *Scalar[float64] `json:"value,omitempty"`
	Pattern   *Scalar[string]  `json:"pattern,omitempty"`
	Format    *Scalar[string]  `json:"format,omitempty"`
	Values    []Scalar[string] `json:"values,omitempty"`
	Required  *Scalar[bool]    `json:"required,omitempty"`
	Forbidden *Scalar[bool]    `json:"forbidden,omitempty"`
	Min       *Scalar[int]     `json:"min,omitempty"`
	Max       *Scalar[int]     `json:"max,omitempty"`
	Loc       string           `json:"loc,omitempty"`
}
