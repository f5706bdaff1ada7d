package parser

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/ir"
	"github.com/basketry/openapi3/nodes"
	"github.com/basketry/openapi3/pointer"
	"github.com/basketry/openapi3/validation"
)

// parseAsUnion registers an object schema composed of oneOf or anyOf
// alternatives as a named union. Inline members are synthesized with
// 1-based ordinal local names so repeated parses produce identical output.
func (c *parseContext) parseAsUnion(name string, nameScalar ir.Scalar[string], s *nodes.ObjectSchema, memberNodes []*yaml.Node) {
	var (
		discriminator *ir.Scalar[string]
		discriminated bool
	)
	if d, ok := s.Discriminator(); ok {
		if prop, r, valid := d.PropertyName(); valid {
			discriminator = pointer.From(ir.NewScalar(prop, r))
			discriminated = true
		}
		if mapping, hasMapping := d.Mapping(); hasMapping {
			c.report(validation.CodeUnsupportedFeature, validation.SeverityInfo,
				"discriminator mappings are not yet supported", c.rangeOf(mapping))
		}
	}

	members := make([]*ir.Value, 0, len(memberNodes))
	for i, member := range memberNodes {
		v := c.parseType(member, nil, strconv.Itoa(i+1), name)
		if v == nil {
			continue
		}
		if discriminated && v.IsPrimitive {
			c.report(validation.CodeMisconfiguredDiscriminator, validation.SeverityError,
				"discriminated unions may only contain object members", c.rangeOf(member))
			continue
		}
		members = append(members, v)
	}

	c.unions[name] = &ir.Union{
		Name:          nameScalar,
		Members:       members,
		Discriminator: discriminator,
		Loc:           ir.EncodeRange(s.Range()),
		Meta:          c.meta(s),
	}
}
