package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

func TestSink_DeduplicatesIdenticalReports(t *testing.T) {
	t.Parallel()

	sink := validation.NewSink()
	r := yml.Range{Start: 10, End: 20, Line: 2, Column: 3}

	sink.Report(validation.CodeInvalidSchema, validation.SeverityWarning, "duplicate key", r)
	sink.Report(validation.CodeInvalidSchema, validation.SeverityWarning, "duplicate key", r)

	assert.Len(t, sink.Violations(), 1)
}

func TestSink_KeepsDistinctRanges(t *testing.T) {
	t.Parallel()

	sink := validation.NewSink()

	sink.Report(validation.CodeInvalidSchema, validation.SeverityWarning, "same message", yml.Range{Start: 10, End: 20})
	sink.Report(validation.CodeInvalidSchema, validation.SeverityWarning, "same message", yml.Range{Start: 30, End: 40})

	assert.Len(t, sink.Violations(), 2)
}

func TestSink_ViolationsSortedByPosition(t *testing.T) {
	t.Parallel()

	sink := validation.NewSink()

	sink.Report(validation.CodeInvalidSchema, validation.SeverityWarning, "later", yml.Range{Start: 50, End: 60})
	sink.Report(validation.CodeInvalidSchema, validation.SeverityError, "earlier", yml.Range{Start: 5, End: 9})
	sink.Report(validation.CodeUnsupportedFeature, validation.SeverityInfo, "middle", yml.Range{Start: 20, End: 25})

	violations := sink.Violations()
	require.Len(t, violations, 3)
	assert.Equal(t, "earlier", violations[0].Message)
	assert.Equal(t, "middle", violations[1].Message)
	assert.Equal(t, "later", violations[2].Message)
}

func TestSink_SameRangeOrderedBySeverity(t *testing.T) {
	t.Parallel()

	sink := validation.NewSink()
	r := yml.Range{Start: 10, End: 20}

	sink.Report(validation.CodeInvalidSchema, validation.SeverityInfo, "info finding", r)
	sink.Report(validation.CodeInvalidSchema, validation.SeverityError, "error finding", r)
	sink.Report(validation.CodeInvalidSchema, validation.SeverityWarning, "warning finding", r)

	violations := sink.Violations()
	require.Len(t, violations, 3)
	assert.Equal(t, validation.SeverityError, violations[0].Severity)
	assert.Equal(t, validation.SeverityWarning, violations[1].Severity)
	assert.Equal(t, validation.SeverityInfo, violations[2].Severity)
}

func TestHasErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		severities []validation.Severity
		want       bool
	}{
		{name: "empty", severities: nil, want: false},
		{name: "warnings only", severities: []validation.Severity{validation.SeverityWarning, validation.SeverityInfo}, want: false},
		{name: "contains error", severities: []validation.Severity{validation.SeverityWarning, validation.SeverityError}, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := validation.NewSink()
			for i, severity := range tt.severities {
				sink.Report(validation.CodeInvalidSchema, severity, "finding", yml.Range{Start: i * 10, End: i*10 + 5})
			}
			assert.Equal(t, tt.want, validation.HasErrors(sink.Violations()))
		})
	}
}

func TestFormatText(t *testing.T) {
	t.Parallel()

	sink := validation.NewSink()
	sink.Report(validation.CodeInvalidSchema, validation.SeverityError, "missing required key", yml.Range{Start: 1, End: 5, Line: 1, Column: 2})
	sink.Report(validation.CodeUnsupportedFeature, validation.SeverityWarning, "callbacks are not yet supported", yml.Range{Start: 10, End: 15, Line: 3, Column: 1})

	text := validation.FormatText(sink.Violations())

	assert.Contains(t, text, "missing required key")
	assert.Contains(t, text, "callbacks are not yet supported")
	assert.Contains(t, text, "2 problems (1 errors, 1 warnings, 0 info)")
}

func TestFormatText_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validation.FormatText(nil))
}
