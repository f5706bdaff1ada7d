package parser

import (
	"github.com/basketry/openapi3/errors"
	"github.com/basketry/openapi3/ir"
	"github.com/basketry/openapi3/nodes"
	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

// ErrParse wraps failures to read the input text as JSON or YAML. It is the
// only condition under which Parse returns an error; every other problem
// degrades to a violation.
const ErrParse = errors.Error("failed to parse document")

// Result is the outcome of one parse: the best-effort service model plus
// every violation recorded along the way.
type Result struct {
	Service    *ir.Service
	Violations []*validation.Violation
}

// Options configure one Parse call.
type Options struct {
	// SourcePath is recorded in the output for diagnostics; it is never
	// opened.
	SourcePath string

	// DocumentCheck runs the embedded document shape check before
	// normalization, reporting mismatches as warnings.
	DocumentCheck bool
}

// Option mutates Options.
type Option func(*Options)

// WithSourcePath sets the diagnostic source path recorded in the output.
func WithSourcePath(path string) Option {
	return func(o *Options) { o.SourcePath = path }
}

// WithDocumentCheck enables the embedded document shape check.
func WithDocumentCheck() Option {
	return func(o *Options) { o.DocumentCheck = true }
}

// Parse turns an OpenAPI 3.x document, JSON or YAML, into the service IR.
// Unparseable text is the one hard failure; malformed or unsupported
// constructs yield a best-effort service plus violations.
func Parse(text string, opts ...Option) (*Result, error) {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	root, err := yml.Parse(text)
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}

	sink := validation.NewSink()
	nodeCtx := nodes.NewContext(root, yml.NewLineIndex(text), sink)

	if options.DocumentCheck {
		checkDocumentShape(nodeCtx)
	}

	c := newParseContext(nodeCtx)
	service := c.buildService(nodes.NewDocument(nodeCtx), options.SourcePath)

	return &Result{
		Service:    service,
		Violations: sink.Violations(),
	}, nil
}
