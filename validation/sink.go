package validation

import (
	"slices"

	"github.com/basketry/openapi3/yml"
)

type violationKey struct {
	message string
	start   int
	end     int
}

// Sink accumulates violations for one parse invocation, collapsing
// identical messages reported at the same source range.
type Sink struct {
	seen       map[violationKey]struct{}
	violations []*Violation
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{seen: map[violationKey]struct{}{}}
}

// Report adds a violation unless an identical one was already reported at
// the same range.
func (s *Sink) Report(code Code, severity Severity, message string, r yml.Range) {
	key := violationKey{message: message, start: r.Start, end: r.End}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}

	s.violations = append(s.violations, &Violation{
		Code:     code,
		Message:  message,
		Range:    r,
		Severity: severity,
	})
}

// Violations returns the accumulated violations sorted by source position.
func (s *Sink) Violations() []*Violation {
	out := slices.Clone(s.violations)
	SortViolations(out)
	return out
}

// SortViolations orders violations by start offset, then end offset, then
// severity, then message. The order is stable across parses of the same
// document.
func SortViolations(violations []*Violation) {
	slices.SortStableFunc(violations, func(a, b *Violation) int {
		if a.Range.Start != b.Range.Start {
			return a.Range.Start - b.Range.Start
		}
		if a.Range.End != b.Range.End {
			return a.Range.End - b.Range.End
		}
		if a.Severity != b.Severity {
			if severityRank(a.Severity) < severityRank(b.Severity) {
				return -1
			}
			return 1
		}
		if a.Message != b.Message {
			if a.Message < b.Message {
				return -1
			}
			return 1
		}
		return 0
	})
}

func severityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}
