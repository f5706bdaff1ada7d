package parser

import (
	"bytes"
	"strconv"
	"strings"
	"sync"

	_ "embed"

	json "github.com/goccy/go-json"
	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/basketry/openapi3/nodes"
	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

//go:embed openapi3.schema.json
var documentSchemaJSON string

var (
	documentSchema     *jsValidator.Schema
	documentSchemaOnce sync.Once
	defaultPrinter     = message.NewPrinter(language.English)
)

func initDocumentSchema() {
	raw, err := jsValidator.UnmarshalJSON(bytes.NewReader([]byte(documentSchemaJSON)))
	if err != nil {
		panic(err)
	}

	c := jsValidator.NewCompiler()
	if err := c.AddResource("openapi3.schema.json", raw); err != nil {
		panic(err)
	}
	documentSchema = c.MustCompile("openapi3.schema.json")
}

// checkDocumentShape validates the document against the embedded shape
// schema and reports each leaf cause as a warning located at the offending
// node. Shape findings never stop normalization.
func checkDocumentShape(ctx *nodes.Context) {
	documentSchemaOnce.Do(initDocumentSchema)

	plain, err := yml.NodeToAny(ctx.Root)
	if err != nil {
		ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
			"document is not representable as json: "+err.Error(), ctx.Range(ctx.Root))
		return
	}

	encoded, err := json.Marshal(plain)
	if err != nil {
		ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
			"document is not representable as json: "+err.Error(), ctx.Range(ctx.Root))
		return
	}

	instance, err := jsValidator.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
			"document is not representable as json: "+err.Error(), ctx.Range(ctx.Root))
		return
	}

	err = documentSchema.Validate(instance)
	if err == nil {
		return
	}

	validationErr, ok := err.(*jsValidator.ValidationError)
	if !ok {
		ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
			"document shape invalid: "+err.Error(), ctx.Range(ctx.Root))
		return
	}

	reportLeafCauses(ctx, validationErr)
}

func reportLeafCauses(ctx *nodes.Context, err *jsValidator.ValidationError) {
	if len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(defaultPrinter)
		if len(err.InstanceLocation) > 0 {
			msg = strings.Join(err.InstanceLocation, ".") + " " + msg
		}
		ctx.Report(validation.CodeInvalidSchema, validation.SeverityWarning,
			msg, locateInstance(ctx, err.InstanceLocation))
		return
	}

	for _, cause := range err.Causes {
		reportLeafCauses(ctx, cause)
	}
}

// locateInstance walks an instance location back to the document tree,
// keeping the deepest node still matched when a segment falls off the tree.
func locateInstance(ctx *nodes.Context, parts []string) yml.Range {
	current := ctx.Root
	best := ctx.Range(ctx.Root)

	for _, part := range parts {
		current = yml.ResolveAlias(current)
		if current == nil {
			break
		}

		switch {
		case yml.IsMapping(current):
			keyNode, value, ok := yml.GetMapElement(current, part)
			if !ok {
				return best
			}
			best = ctx.Range(keyNode)
			current = value
		case yml.IsSequence(current):
			index, err := strconv.Atoi(part)
			items := yml.SequenceItems(current)
			if err != nil || index < 0 || index >= len(items) {
				return best
			}
			current = items[index]
			best = ctx.Range(current)
		default:
			return best
		}
	}

	if resolved := yml.ResolveAlias(current); resolved != nil {
		if r := ctx.Range(resolved); r.Start != 0 || r.End != 0 {
			best = r
		}
	}
	return best
}
