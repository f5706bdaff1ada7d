package parser

import (
	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/ir"
	"github.com/basketry/openapi3/nodes"
	"github.com/basketry/openapi3/pointer"
	"github.com/basketry/openapi3/yml"
)

// valueRuleFactories is the fixed pipeline computing validation rules for a
// schema occurrence. Each factory inspects the schema's own keywords and
// yields a rule fact or nothing; results are concatenated in pipeline
// order. The required rule is not produced here: it comes from the parent's
// required array and is prepended by the caller.
var valueRuleFactories = []func(c *parseContext, s nodes.Schema) []*ir.Rule{
	stringMinLengthRule,
	stringMaxLengthRule,
	stringPatternRule,
	stringFormatRule,
	stringEnumRule,
	numberMultipleOfRule,
	numberBoundRules,
	arrayMinItemsRule,
	arrayMaxItemsRule,
	arrayUniqueItemsRule,
}

func (c *parseContext) valueRules(s nodes.Schema) []*ir.Rule {
	rules := []*ir.Rule{}
	for _, factory := range valueRuleFactories {
		rules = append(rules, factory(c, s)...)
	}
	return rules
}

// requiredRule is prepended to a value's rules when the parent marks the
// occurrence required.
func requiredRule() *ir.Rule {
	return &ir.Rule{ID: ir.RuleRequired}
}

func prependRequired(rules []*ir.Rule) []*ir.Rule {
	return append([]*ir.Rule{requiredRule()}, rules...)
}

func hasRequiredRule(rules []*ir.Rule) bool {
	for _, rule := range rules {
		if rule.ID == ir.RuleRequired {
			return true
		}
	}
	return false
}

func stringMinLengthRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	str, ok := s.(*nodes.StringSchema)
	if !ok {
		return nil
	}
	v, r, ok := str.MinLength()
	if !ok {
		return nil
	}
	return []*ir.Rule{{ID: ir.RuleStringMinLength, Length: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)}}
}

func stringMaxLengthRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	str, ok := s.(*nodes.StringSchema)
	if !ok {
		return nil
	}
	v, r, ok := str.MaxLength()
	if !ok {
		return nil
	}
	return []*ir.Rule{{ID: ir.RuleStringMaxLength, Length: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)}}
}

func stringPatternRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	str, ok := s.(*nodes.StringSchema)
	if !ok {
		return nil
	}
	v, r, ok := str.Pattern()
	if !ok {
		return nil
	}
	return []*ir.Rule{{ID: ir.RuleStringPattern, Pattern: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)}}
}

func stringFormatRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	if _, ok := s.(*nodes.StringSchema); !ok {
		return nil
	}
	v, r, ok := s.Format()
	if !ok {
		return nil
	}
	return []*ir.Rule{{ID: ir.RuleStringFormat, Format: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)}}
}

func stringEnumRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	if _, ok := s.(*nodes.StringSchema); !ok {
		return nil
	}
	items, ok := s.Enum()
	if !ok || len(items) == 0 {
		return nil
	}

	values := make([]ir.Scalar[string], 0, len(items))
	for _, item := range items {
		if v, ok := yml.AsString(item); ok {
			values = append(values, ir.NewScalar(v, c.rangeOf(item)))
		}
	}
	if len(values) == 0 {
		return nil
	}

	return []*ir.Rule{{ID: ir.RuleStringEnum, Values: values}}
}

func numberMultipleOfRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	num, ok := s.(*nodes.NumberSchema)
	if !ok {
		return nil
	}
	v, r, ok := num.MultipleOf()
	if !ok {
		return nil
	}
	return []*ir.Rule{{ID: ir.RuleNumberMultipleOf, Value: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)}}
}

// numberBoundRules derives gt/gte/lt/lte facts from minimum/maximum and
// exclusiveMinimum/exclusiveMaximum, covering both the 3.0 boolean form and
// the 3.1 numeric form of the exclusive keywords.
func numberBoundRules(c *parseContext, s nodes.Schema) []*ir.Rule {
	num, ok := s.(*nodes.NumberSchema)
	if !ok {
		return nil
	}

	var rules []*ir.Rule

	if rule := boundRule(c, num, "minimum", ir.RuleNumberGTE, ir.RuleNumberGT); rule != nil {
		rules = append(rules, rule)
	}
	if rule := boundRule(c, num, "maximum", ir.RuleNumberLTE, ir.RuleNumberLT); rule != nil {
		rules = append(rules, rule)
	}

	return rules
}

func boundRule(c *parseContext, num *nodes.NumberSchema, side string, inclusive, exclusive ir.RuleID) *ir.Rule {
	var (
		bound    float64
		r        yml.Range
		hasBound bool
		exNode   = exclusiveNode(num, side)
	)

	if side == "minimum" {
		bound, r, hasBound = num.Minimum()
	} else {
		bound, r, hasBound = num.Maximum()
	}

	id := inclusive
	if exNode != nil {
		if b, ok := yml.AsBool(exNode); ok {
			if b {
				id = exclusive
			}
		} else if v, ok := yml.AsNumber(exNode); ok {
			// 3.1 numeric form supersedes the inclusive bound
			return &ir.Rule{ID: exclusive, Value: pointer.From(ir.NewScalar(v, c.rangeOf(exNode))), Loc: ir.EncodeRange(c.rangeOf(exNode))}
		}
	}

	if !hasBound {
		return nil
	}

	return &ir.Rule{ID: id, Value: pointer.From(ir.NewScalar(bound, r)), Loc: ir.EncodeRange(r)}
}

func exclusiveNode(num *nodes.NumberSchema, side string) *yaml.Node {
	if side == "minimum" {
		if n, ok := num.ExclusiveMinimum(); ok {
			return n
		}
		return nil
	}
	if n, ok := num.ExclusiveMaximum(); ok {
		return n
	}
	return nil
}

func arrayMinItemsRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	arr, ok := s.(*nodes.ArraySchema)
	if !ok {
		return nil
	}
	v, r, ok := arr.MinItems()
	if !ok {
		return nil
	}
	return []*ir.Rule{{ID: ir.RuleArrayMinItems, Min: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)}}
}

func arrayMaxItemsRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	arr, ok := s.(*nodes.ArraySchema)
	if !ok {
		return nil
	}
	v, r, ok := arr.MaxItems()
	if !ok {
		return nil
	}
	return []*ir.Rule{{ID: ir.RuleArrayMaxItems, Max: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)}}
}

func arrayUniqueItemsRule(c *parseContext, s nodes.Schema) []*ir.Rule {
	arr, ok := s.(*nodes.ArraySchema)
	if !ok {
		return nil
	}
	v, r, ok := arr.UniqueItems()
	if !ok || !v {
		return nil
	}
	return []*ir.Rule{{ID: ir.RuleArrayUniqueItems, Required: pointer.From(ir.NewScalar(true, r)), Loc: ir.EncodeRange(r)}}
}

// objectRules computes the rules attached to an object type rather than to
// a value occurrence.
func (c *parseContext) objectRules(s *nodes.ObjectSchema) []*ir.Rule {
	rules := []*ir.Rule{}

	if v, r, ok := s.MinProperties(); ok {
		rules = append(rules, &ir.Rule{ID: ir.RuleObjectMinProperties, Min: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)})
	}
	if v, r, ok := s.MaxProperties(); ok {
		rules = append(rules, &ir.Rule{ID: ir.RuleObjectMaxProperties, Max: pointer.From(ir.NewScalar(v, r)), Loc: ir.EncodeRange(r)})
	}
	if ap, ok := s.AdditionalProperties(); ok {
		if b, isBool := yml.AsBool(ap); isBool && !b {
			r := c.rangeOf(ap)
			rules = append(rules, &ir.Rule{ID: ir.RuleObjectAdditionalProperties, Forbidden: pointer.From(ir.NewScalar(true, r)), Loc: ir.EncodeRange(r)})
		}
	}

	return rules
}
