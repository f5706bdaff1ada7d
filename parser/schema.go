package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/basketry/openapi3/ir"
	"github.com/basketry/openapi3/nodes"
	"github.com/basketry/openapi3/pointer"
	"github.com/basketry/openapi3/validation"
	"github.com/basketry/openapi3/yml"
)

// parseType is the central recursive normalization algorithm: given a
// schema-or-reference node and a naming context, it produces a typed-value
// descriptor and, as a side effect, registers newly discovered named types,
// enums, and unions. It is invoked for every schema occurrence: property,
// parameter, body, response, array item, union member, and map key/value.
func (c *parseContext) parseType(raw, key *yaml.Node, localName, parentName string) *ir.Value {
	raw = yml.ResolveAlias(raw)
	if raw == nil {
		return nil
	}

	if nodes.IsRef(raw) {
		return c.parseRefType(raw, key, localName, parentName)
	}

	schema, ok := nodes.ClassifySchema(c.n, raw, key)
	if !ok {
		return c.untypedValue(raw)
	}

	return c.parseSchema(schema, localName, parentName)
}

func (c *parseContext) parseSchema(schema nodes.Schema, localName, parentName string) *ir.Value {
	switch s := schema.(type) {
	case *nodes.StringSchema:
		return c.parseStringType(s, localName, parentName)
	case *nodes.NumberSchema:
		return c.parseNumberType(s)
	case *nodes.BooleanSchema:
		return c.parseBooleanType(s)
	case *nodes.NullSchema:
		return c.parseNullType(s)
	case *nodes.ArraySchema:
		return c.parseArrayType(s, localName, parentName)
	case *nodes.ObjectSchema:
		return c.parseObjectType(s, localName, parentName)
	default:
		return c.untypedValue(schema.Raw())
	}
}

// parseRefType handles reference inputs. A ref pointing into the document's
// named-schema section resolving to an object emits a reference to that
// name directly; one resolving to a string enum registers an enum under the
// referenced name. Anything else recurses on the resolved node with the
// original naming context; a target that fails classification degrades to
// an untyped value, the same as an inline schema would.
func (c *parseContext) parseRefType(raw, key *yaml.Node, localName, parentName string) *ir.Value {
	ptr, _ := nodes.RefString(raw)

	target, matchedRange, ok := nodes.ResolveNode(c.n, raw, key)
	if !ok {
		return nil
	}
	if target != raw {
		key = nil
	}

	schema, classified := nodes.ClassifySchema(c.n, target, key)
	if !classified {
		return c.untypedValue(target)
	}

	refRange := c.rangeOf(raw)

	if name, isNamed := nodes.SchemaRefName(ptr); isNamed {
		switch s := schema.(type) {
		case *nodes.ObjectSchema:
			// reuse the referenced name; no new type is synthesized
			return c.complexValue(ir.NewScalar(name, refRange), refRange)
		case *nodes.StringSchema:
			if items, hasEnum := s.Enum(); hasEnum && len(items) > 0 {
				c.registerEnum(name, ir.NewScalar(name, matchedRange), s, items)
				return c.complexValue(ir.NewScalar(name, refRange), refRange)
			}
		}
	}

	if _, busy := c.resolving[ptr]; busy {
		c.report(validation.CodeInvalidSchema, validation.SeverityError,
			fmt.Sprintf("cannot expand circular reference %q", ptr), refRange)
		return nil
	}
	c.resolving[ptr] = struct{}{}
	defer delete(c.resolving, ptr)

	// refs to top-level primitives or composition-only schemas keep the
	// caller's naming context
	return c.parseSchema(schema, localName, parentName)
}

func (c *parseContext) complexValue(name ir.Scalar[string], r yml.Range) *ir.Value {
	return &ir.Value{
		TypeName:    name,
		IsPrimitive: false,
		Rules:       []*ir.Rule{},
		Loc:         ir.EncodeRange(r),
	}
}

func (c *parseContext) untypedValue(raw *yaml.Node) *ir.Value {
	r := c.rangeOf(raw)
	return &ir.Value{
		TypeName:    ir.NewScalar(ir.PrimitiveUntyped, r),
		IsPrimitive: true,
		Rules:       []*ir.Rule{},
		Loc:         ir.EncodeRange(r),
	}
}

func (c *parseContext) parseStringType(s *nodes.StringSchema, localName, parentName string) *ir.Value {
	enumItems, hasEnum := s.Enum()
	constNode, hasConst := s.Const()

	// more than one member, or a single member shadowed by an explicit
	// const, becomes a named enum
	if hasEnum && (len(enumItems) > 1 || (len(enumItems) == 1 && hasConst)) {
		name := enumName(parentName, localName)
		c.registerEnum(name, ir.Synthesized(name), s, enumItems)

		v := c.complexValue(ir.Synthesized(name), s.Range())
		v.Rules = c.valueRules(s)
		return v
	}

	prim := ir.PrimitiveString
	if format, _, ok := s.Format(); ok {
		switch format {
		case "date":
			prim = ir.PrimitiveDate
		case "date-time":
			prim = ir.PrimitiveDateTime
		case "binary":
			prim = ir.PrimitiveBinary
		}
	}

	var constant *ir.Scalar[any]
	switch {
	case hasEnum && len(enumItems) == 1:
		constant = c.anyScalar(enumItems[0])
	case hasConst:
		constant = c.anyScalar(constNode)
	}

	return &ir.Value{
		TypeName:    c.primitiveName(prim, s),
		IsPrimitive: true,
		Rules:       c.valueRules(s),
		Default:     c.defaultScalar(s),
		Constant:    constant,
		Loc:         ir.EncodeRange(s.Range()),
	}
}

func (c *parseContext) parseNumberType(s *nodes.NumberSchema) *ir.Value {
	literal, _, _ := s.TypeKeyword()
	format, _, _ := s.Format()

	prim := ir.PrimitiveNumber
	if literal == "integer" {
		prim = ir.PrimitiveInteger
		if format == "int64" {
			prim = ir.PrimitiveLong
		}
	} else {
		switch format {
		case "float":
			prim = ir.PrimitiveFloat
		case "double":
			prim = ir.PrimitiveDouble
		}
	}

	var constant *ir.Scalar[any]
	if constNode, ok := s.Const(); ok {
		constant = c.anyScalar(constNode)
	} else if items, ok := s.Enum(); ok && len(items) == 1 {
		constant = c.anyScalar(items[0])
	}

	return &ir.Value{
		TypeName:    c.primitiveName(prim, s),
		IsPrimitive: true,
		Rules:       c.valueRules(s),
		Default:     c.defaultScalar(s),
		Constant:    constant,
		Loc:         ir.EncodeRange(s.Range()),
	}
}

func (c *parseContext) parseBooleanType(s *nodes.BooleanSchema) *ir.Value {
	var constant *ir.Scalar[any]
	if constNode, ok := s.Const(); ok {
		constant = c.anyScalar(constNode)
	}

	return &ir.Value{
		TypeName:    c.primitiveName(ir.PrimitiveBoolean, s),
		IsPrimitive: true,
		Rules:       c.valueRules(s),
		Default:     c.defaultScalar(s),
		Constant:    constant,
		Loc:         ir.EncodeRange(s.Range()),
	}
}

func (c *parseContext) parseNullType(s *nodes.NullSchema) *ir.Value {
	// const is only honored when it is literally null
	var constant *ir.Scalar[any]
	if constNode, ok := s.Const(); ok && yml.IsNull(constNode) {
		constant = c.anyScalar(constNode)
	}

	return &ir.Value{
		TypeName:    c.primitiveName(ir.PrimitiveNull, s),
		IsPrimitive: true,
		Rules:       c.valueRules(s),
		Constant:    constant,
		Loc:         ir.EncodeRange(s.Range()),
	}
}

func (c *parseContext) parseArrayType(s *nodes.ArraySchema, localName, parentName string) *ir.Value {
	items, ok := s.Items()
	if !ok {
		c.report(validation.CodeInvalidSchema, validation.SeverityError,
			`ArraySchema is missing required key "items"`, s.Range())
		return nil
	}

	item := c.parseType(items, nil, localName, parentName)
	if item == nil {
		return nil
	}

	// the array's own rules come first, then the item schema's
	rules := append(c.valueRules(s), item.Rules...)

	return &ir.Value{
		TypeName:    item.TypeName,
		IsPrimitive: item.IsPrimitive,
		IsArray:     true,
		Rules:       rules,
		Loc:         ir.EncodeRange(s.Range()),
	}
}

func (c *parseContext) parseObjectType(s *nodes.ObjectSchema, localName, parentName string) *ir.Value {
	name := typeName(parentName, localName)
	c.defineObject(name, ir.Synthesized(name), s)

	v := c.complexValue(ir.Synthesized(name), s.Range())
	v.Rules = c.valueRules(s)
	return v
}

// defineObject registers the named entity an object schema stands for:
// a union when it composes oneOf/anyOf alternatives, a plain type
// otherwise. Later registrations for the same name replace earlier ones.
func (c *parseContext) defineObject(name string, nameScalar ir.Scalar[string], s *nodes.ObjectSchema) {
	if members, ok := s.OneOf(); ok {
		c.parseAsUnion(name, nameScalar, s, members)
		return
	}
	if members, ok := s.AnyOf(); ok {
		c.parseAsUnion(name, nameScalar, s, members)
		return
	}

	t := &ir.Type{
		Name:          nameScalar,
		Properties:    c.parseProperties(s, name),
		MapProperties: c.parseMapProperties(s, name),
		Rules:         c.objectRules(s),
		Loc:           ir.EncodeRange(s.Range()),
		Meta:          c.meta(s),
	}
	if d, r, ok := s.Description(); ok {
		t.Description = pointer.From(ir.NewScalar(d, r))
	}
	if dep, r, ok := s.Deprecated(); ok && dep {
		t.Deprecated = pointer.From(ir.NewScalar(true, r))
	}

	c.types[name] = t
}

// registerEnum collects the enum's string members and registers it under
// name; non-string members are reported and skipped.
func (c *parseContext) registerEnum(name string, nameScalar ir.Scalar[string], s nodes.Schema, items []*yaml.Node) {
	members := make([]*ir.EnumMember, 0, len(items))
	for _, item := range items {
		v, ok := yml.AsString(item)
		if !ok {
			c.report(validation.CodeInvalidSchema, validation.SeverityWarning,
				"enum values must be strings", c.rangeOf(item))
			continue
		}
		r := c.rangeOf(item)
		members = append(members, &ir.EnumMember{Content: ir.NewScalar(v, r), Loc: ir.EncodeRange(r)})
	}

	e := &ir.Enum{
		Name:    nameScalar,
		Members: members,
		Loc:     ir.EncodeRange(s.Range()),
		Meta:    c.meta(s),
	}
	if d, r, ok := s.Description(); ok {
		e.Description = pointer.From(ir.NewScalar(d, r))
	}
	if dep, r, ok := s.Deprecated(); ok && dep {
		e.Deprecated = pointer.From(ir.NewScalar(true, r))
	}

	c.enums[name] = e
}

type requiredEntry struct {
	name string
	r    yml.Range
}

func (c *parseContext) requiredEntries(s *nodes.ObjectSchema) []requiredEntry {
	var out []requiredEntry
	for _, item := range s.Required() {
		if name, ok := yml.AsString(item); ok {
			out = append(out, requiredEntry{name: name, r: c.rangeOf(item)})
		}
	}
	return out
}

// parseProperties flattens the schema's own properties together with any
// allOf composition into a single property list; the schema's own
// declarations override merged ones by name. The required arrays of every
// composed level are unioned and applied against the merged set, so a
// parent may require a property an allOf member declares.
func (c *parseContext) parseProperties(s *nodes.ObjectSchema, owner string) []*ir.Property {
	var (
		order    []string
		required []requiredEntry
	)
	byName := map[string]*ir.Property{}

	c.collectProperties(s, owner, map[*yaml.Node]bool{}, &order, byName, &required)

	for _, e := range required {
		prop, ok := byName[e.name]
		if !ok || hasRequiredRule(prop.Value.Rules) {
			continue
		}
		prop.Value.Rules = prependRequired(prop.Value.Rules)
	}

	props := make([]*ir.Property, 0, len(order))
	for _, name := range order {
		props = append(props, byName[name])
	}
	return props
}

func (c *parseContext) collectProperties(s *nodes.ObjectSchema, owner string, seen map[*yaml.Node]bool, order *[]string, byName map[string]*ir.Property, required *[]requiredEntry) {
	if seen[s.Raw()] {
		return
	}
	seen[s.Raw()] = true

	if members, ok := s.AllOf(); ok {
		for _, member := range members {
			ms, _, ok := nodes.ResolveSchema(c.n, member, nil)
			if !ok {
				continue
			}
			obj, isObject := ms.(*nodes.ObjectSchema)
			if !isObject {
				c.report(validation.CodeInvalidSchema, validation.SeverityWarning,
					"allOf members must be object schemas", c.rangeOf(member))
				continue
			}
			c.collectProperties(obj, owner, seen, order, byName, required)
		}
	}

	*required = append(*required, c.requiredEntries(s)...)

	for _, entry := range s.PropertyEntries() {
		if entry.Key == nil {
			continue
		}
		propName := entry.Key.Value

		v := c.parseType(entry.Value, entry.Key, propName, owner)
		if v == nil {
			continue
		}

		prop := &ir.Property{
			Name:  ir.NewScalar(propName, c.rangeOf(entry.Key)),
			Value: *v,
		}
		c.decorateProperty(prop, entry.Value)

		if _, exists := byName[propName]; !exists {
			*order = append(*order, propName)
		}
		byName[propName] = prop
	}
}

// decorateProperty carries description, deprecation, and vendor extensions
// from an inline property schema onto the IR property.
func (c *parseContext) decorateProperty(prop *ir.Property, raw *yaml.Node) {
	raw = yml.ResolveAlias(raw)
	if raw == nil || !yml.IsMapping(raw) || nodes.IsRef(raw) {
		return
	}

	if _, value, ok := yml.GetMapElement(raw, "description"); ok {
		if d, isString := yml.AsString(value); isString {
			prop.Description = pointer.From(ir.NewScalar(d, c.rangeOf(value)))
		}
	}
	if _, value, ok := yml.GetMapElement(raw, "deprecated"); ok {
		if dep, isBool := yml.AsBool(value); isBool && dep {
			prop.Deprecated = pointer.From(ir.NewScalar(true, c.rangeOf(value)))
		}
	}
	prop.Meta = c.metaFromNode(raw)
}

// parseMapProperties derives the open-ended key/value portion of an object
// from additionalProperties and propertyNames. Required names that match no
// declared property, counting properties contributed by allOf members,
// either become the map's requiredKeys (when a map is allowed) or are
// reported as undefined.
func (c *parseContext) parseMapProperties(s *nodes.ObjectSchema, owner string) *ir.MapProperties {
	declared := map[string]struct{}{}
	c.declaredPropertyNames(s, map[*yaml.Node]bool{}, declared)

	var undeclared []requiredEntry
	for _, e := range c.requiredEntries(s) {
		if _, ok := declared[e.name]; !ok {
			undeclared = append(undeclared, e)
		}
	}

	apNode, hasAP := s.AdditionalProperties()

	var (
		apTrue   bool
		apSchema *yaml.Node
	)
	if hasAP {
		if b, isBool := yml.AsBool(apNode); isBool {
			apTrue = b
		} else if yml.IsMapping(apNode) {
			apSchema = yml.ResolveAlias(apNode)
		} else {
			c.report(validation.CodeInvalidSchema, validation.SeverityWarning,
				`"additionalProperties" must be a boolean or a schema`, c.rangeOf(apNode))
		}
	}

	// absent or literally false: no map; undeclared required names are
	// reported instead of silently dropped
	if !hasAP || (!apTrue && apSchema == nil) {
		c.reportUndefinedRequired(undeclared)
		return nil
	}

	requiredKeys := []ir.Scalar[string]{}
	for _, e := range undeclared {
		requiredKeys = append(requiredKeys, ir.NewScalar(e.name, e.r))
	}

	if apTrue {
		return &ir.MapProperties{
			Key:          primitiveValue(ir.PrimitiveString),
			RequiredKeys: requiredKeys,
			Value:        primitiveValue(ir.PrimitiveUntyped),
			Loc:          ir.EncodeRange(c.rangeOf(apNode)),
		}
	}

	value := c.parseType(apSchema, nil, "mapValue", owner)
	if value == nil {
		c.reportUndefinedRequired(undeclared)
		return nil
	}

	key := primitiveValue(ir.PrimitiveString)
	if pn, ok := s.PropertyNames(); ok {
		if parsed := c.parseType(pn, nil, "mapKey", owner); parsed != nil {
			key = *parsed
		}
	}

	return &ir.MapProperties{
		Key:          key,
		RequiredKeys: requiredKeys,
		Value:        *value,
		Loc:          ir.EncodeRange(c.rangeOf(apNode)),
	}
}

// declaredPropertyNames gathers every property name the schema declares,
// directly or through resolved allOf members.
func (c *parseContext) declaredPropertyNames(s *nodes.ObjectSchema, seen map[*yaml.Node]bool, names map[string]struct{}) {
	if seen[s.Raw()] {
		return
	}
	seen[s.Raw()] = true

	if members, ok := s.AllOf(); ok {
		for _, member := range members {
			ms, _, ok := nodes.ResolveSchema(c.n, member, nil)
			if !ok {
				continue
			}
			if obj, isObject := ms.(*nodes.ObjectSchema); isObject {
				c.declaredPropertyNames(obj, seen, names)
			}
		}
	}

	for _, entry := range s.PropertyEntries() {
		if entry.Key != nil {
			names[entry.Key.Value] = struct{}{}
		}
	}
}

func (c *parseContext) reportUndefinedRequired(entries []requiredEntry) {
	for _, e := range entries {
		c.report(validation.CodeInvalidSchema, validation.SeverityWarning,
			fmt.Sprintf("%q is required but not defined", e.name), e.r)
	}
}

func primitiveValue(name string) ir.Value {
	return ir.Value{
		TypeName:    ir.Synthesized(name),
		IsPrimitive: true,
		Rules:       []*ir.Rule{},
	}
}

func (c *parseContext) primitiveName(name string, s nodes.Schema) ir.Scalar[string] {
	if _, r, ok := s.TypeKeyword(); ok {
		return ir.NewScalar(name, r)
	}
	return ir.NewScalar(name, s.Range())
}

func (c *parseContext) anyScalar(node *yaml.Node) *ir.Scalar[any] {
	if node == nil {
		return nil
	}
	return pointer.From(ir.Scalar[any]{
		Value: yml.DecodeScalar(node),
		Loc:   ir.EncodeRange(c.rangeOf(node)),
	})
}

func (c *parseContext) defaultScalar(s nodes.Schema) *ir.Scalar[any] {
	d, ok := s.Default()
	if !ok {
		return nil
	}
	return c.anyScalar(d)
}
