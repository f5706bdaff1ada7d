// Package validation defines the violation model produced while parsing a
// document: structural findings with a severity, a rule code, and a source
// range, accumulated in a deduplicating sink.
package validation

import (
	"fmt"

	"github.com/basketry/openapi3/yml"
)

// Severity grades a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Code identifies the class of a violation.
type Code string

const (
	CodeInvalidSchema              Code = "invalid-schema"
	CodeUnsupportedFeature         Code = "unsupported-feature"
	CodeMisconfiguredDiscriminator Code = "misconfigured-discriminator"
)

// Violation is a single structural finding against the source document.
// Violations never cross the public boundary as errors; parsing continues
// and the offending subtree degrades to an absent result.
type Violation struct {
	Code     Code      `json:"code"`
	Message  string    `json:"message"`
	Range    yml.Range `json:"range"`
	Severity Severity  `json:"severity"`
}

func (v *Violation) String() string {
	return fmt.Sprintf("%d:%d\t%s\t%s\t%s", v.Range.Line, v.Range.Column, v.Severity, v.Code, v.Message)
}
