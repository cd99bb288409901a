package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

const maxPropertyNameLength = 255

// Validate checks every construction-time invariant and returns a
// *ValidationError listing all violations, or nil when the schema is
// valid. Nested schemas (items, properties, dependencies) are validated
// recursively.
func (s *Schema) Validate() error {
	r := &result{}
	s.validate(r, "")
	return r.err()
}

func (s *Schema) validate(r *result, path string) {
	if s.Ref != "" {
		s.validateRef(r, path)
		return
	}

	if s.Type != "" && !IsValidType(s.Type) {
		r.add(joinPath(path, "type"), CodeType, "invalid schema type %q", s.Type)
	}

	s.validateFormat(r, path)
	s.validateEnum(r, path)
	s.validateVariantGroups(r, path)

	if s.String != nil && s.Type == TypeString {
		s.validateString(r, path)
	}
	if s.Number != nil && (s.Type == TypeNumber || s.Type == TypeInteger) {
		s.validateNumber(r, path)
	}
	if s.Array != nil && s.Type == TypeArray {
		s.validateArray(r, path)
	}
	if s.Object != nil && s.Type == TypeObject {
		s.validateObject(r, path)
	}

	if s.Default != nil && s.Type != "" {
		s.validateValueConformance(r, joinPath(path, "default"), CodeDefault, s.Default)
	}
	if s.Example != nil && s.Type != "" {
		s.validateValueConformance(r, joinPath(path, "example"), CodeExample, s.Example)
	}
}

// validateRef enforces that a reference carries no other semantic field:
// only the description (and title) may accompany it.
func (s *Schema) validateRef(r *result, path string) {
	if s.Type != "" {
		r.add(joinPath(path, "$ref"), CodeRef, "cannot specify both $ref and type")
	}
	var extras []string
	if s.Format != "" {
		extras = append(extras, "format")
	}
	if s.Default != nil {
		extras = append(extras, "default")
	}
	if s.Example != nil {
		extras = append(extras, "example")
	}
	if len(s.Examples) > 0 {
		extras = append(extras, "examples")
	}
	if len(s.Enum) > 0 {
		extras = append(extras, "enum")
	}
	if s.String != nil || s.Number != nil || s.Array != nil || s.Object != nil {
		extras = append(extras, "constraints")
	}
	if len(extras) > 0 {
		r.add(joinPath(path, "$ref"), CodeRef,
			"schema with $ref cannot have additional fields: %s", strings.Join(extras, ", "))
	}
}

func (s *Schema) validateFormat(r *result, path string) {
	if s.Format == "" {
		return
	}
	switch s.Type {
	case TypeString:
		if !IsStringFormat(s.Format) {
			r.add(joinPath(path, "format"), CodeFormat, "invalid string format %q", s.Format)
		}
	case TypeNumber, TypeInteger:
		if !IsNumberFormat(s.Format) {
			r.add(joinPath(path, "format"), CodeFormat, "invalid number format %q", s.Format)
		}
	}
}

// validateEnum rejects duplicate entries, compared by canonical value.
func (s *Schema) validateEnum(r *result, path string) {
	if len(s.Enum) == 0 {
		return
	}
	seen := make(map[string]bool, len(s.Enum))
	for _, v := range s.Enum {
		key := canonicalKey(v)
		if seen[key] {
			r.add(joinPath(path, "enum"), CodeEnum, "duplicate values in enum")
			return
		}
		seen[key] = true
	}
}

// validateVariantGroups rejects constraint groups that do not match the
// declared type. A schema only ever carries its own kind's constraints.
func (s *Schema) validateVariantGroups(r *result, path string) {
	if s.String != nil && s.Type != TypeString && s.Type != "" {
		r.add(path, CodeType, "string constraints not allowed for type %q", s.Type)
	}
	if s.Number != nil && s.Type != TypeNumber && s.Type != TypeInteger && s.Type != "" {
		r.add(path, CodeType, "numeric constraints not allowed for type %q", s.Type)
	}
	if s.Array != nil && s.Type != TypeArray && s.Type != "" {
		r.add(path, CodeType, "array constraints not allowed for type %q", s.Type)
	}
	if s.Object != nil && s.Type != TypeObject && s.Type != "" {
		r.add(path, CodeType, "object constraints not allowed for type %q", s.Type)
	}
}

func (s *Schema) validateString(r *result, path string) {
	c := s.String
	if c.MinLength != nil && *c.MinLength < 0 {
		r.add(joinPath(path, "minLength"), CodeBounds, "minLength must be >= 0")
	}
	if c.MaxLength != nil && *c.MaxLength < 0 {
		r.add(joinPath(path, "maxLength"), CodeBounds, "maxLength must be >= 0")
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MaxLength < *c.MinLength {
		r.add(joinPath(path, "maxLength"), CodeBounds, "maxLength must be >= minLength")
	}
	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			r.add(joinPath(path, "pattern"), CodePattern,
				"invalid regular expression pattern: %v", err)
		}
	}
}

func (s *Schema) validateNumber(r *result, path string) {
	c := s.Number
	if c.Minimum != nil && c.Maximum != nil && *c.Maximum < *c.Minimum {
		r.add(joinPath(path, "maximum"), CodeBounds, "maximum must be >= minimum")
	}
	if c.MultipleOf != nil && *c.MultipleOf <= 0 {
		r.add(joinPath(path, "multipleOf"), CodeBounds, "multipleOf must be > 0")
	}
}

func (s *Schema) validateArray(r *result, path string) {
	c := s.Array

	switch {
	case c.Items == nil:
		r.add(joinPath(path, "items"), CodeItems, "items specification is required")
	case c.Items.Schema == nil && len(c.Items.Tuple) == 0:
		r.add(joinPath(path, "items"), CodeItems, "items list cannot be empty")
	case c.Items.Schema != nil && len(c.Items.Tuple) > 0:
		r.add(joinPath(path, "items"), CodeItems,
			"items cannot be both a single schema and a tuple")
	case c.Items.Schema != nil:
		c.Items.Schema.validate(r, joinPath(path, "items"))
	default:
		for i, item := range c.Items.Tuple {
			p := fmt.Sprintf("%s[%d]", joinPath(path, "items"), i)
			if item == nil {
				r.add(p, CodeItems, "tuple item must be a valid schema")
				continue
			}
			item.validate(r, p)
		}
	}

	if c.MinItems != nil && *c.MinItems < 0 {
		r.add(joinPath(path, "minItems"), CodeBounds, "minItems must be >= 0")
	}
	if c.MaxItems != nil && *c.MaxItems < 0 {
		r.add(joinPath(path, "maxItems"), CodeBounds, "maxItems must be >= 0")
	}
	if c.MinItems != nil && c.MaxItems != nil && *c.MaxItems < *c.MinItems {
		r.add(joinPath(path, "maxItems"), CodeBounds, "maxItems must be >= minItems")
	}

	if c.AdditionalItems != nil && c.AdditionalItems.Schema != nil {
		c.AdditionalItems.Schema.validate(r, joinPath(path, "additionalItems"))
	}

	if c.Contains != nil {
		c.Contains.validate(r, joinPath(path, "contains"))
	}
	if c.MinContains != nil && *c.MinContains < 1 {
		r.add(joinPath(path, "minContains"), CodeBounds, "minContains must be >= 1")
	}
	if c.MaxContains != nil && c.MinContains != nil && *c.MaxContains < *c.MinContains {
		r.add(joinPath(path, "maxContains"), CodeBounds, "maxContains must be >= minContains")
	}

	if s.Default != nil {
		if def, ok := s.Default.([]any); ok {
			c.validateArrayValue(r, joinPath(path, "default"), CodeDefault, def)
		}
	}
	for i, ex := range s.Examples {
		if arr, ok := ex.([]any); ok {
			c.validateArrayValue(r, fmt.Sprintf("%s[%d]", joinPath(path, "examples"), i), CodeExample, arr)
		} else {
			r.add(fmt.Sprintf("%s[%d]", joinPath(path, "examples"), i), CodeExample,
				"each example must be an array")
		}
	}
}

// validateArrayValue checks a concrete default/example array against the
// array's own length, uniqueness, and item-type constraints.
func (c *ArrayConstraints) validateArrayValue(r *result, path, code string, arr []any) {
	if c.MinItems != nil && len(arr) < *c.MinItems {
		r.add(path, code, "array length %d is less than minItems %d", len(arr), *c.MinItems)
	}
	if c.MaxItems != nil && len(arr) > *c.MaxItems {
		r.add(path, code, "array length %d is greater than maxItems %d", len(arr), *c.MaxItems)
	}
	if c.UniqueItems {
		seen := make(map[string]bool, len(arr))
		for _, v := range arr {
			key := canonicalKey(v)
			if seen[key] {
				r.add(path, code, "items must be unique when uniqueItems is true")
				break
			}
			seen[key] = true
		}
	}
	if c.Items == nil {
		return
	}
	if c.Items.Schema != nil {
		for i, v := range arr {
			if !valueMatchesType(v, c.Items.Schema.Type) {
				r.add(fmt.Sprintf("%s[%d]", path, i), code, "item does not match schema type %q",
					c.Items.Schema.Type)
			}
		}
		return
	}
	if len(arr) > len(c.Items.Tuple) && c.AdditionalItems != nil && !c.AdditionalItems.Permits() {
		r.add(path, code, "array contains more items than allowed by tuple validation")
	}
	for i, v := range arr {
		if i >= len(c.Items.Tuple) || c.Items.Tuple[i] == nil {
			break
		}
		if !valueMatchesType(v, c.Items.Tuple[i].Type) {
			r.add(fmt.Sprintf("%s[%d]", path, i), code, "item does not match schema at position %d", i)
		}
	}
}

func (s *Schema) validateObject(r *result, path string) {
	c := s.Object

	for name, prop := range c.Properties {
		p := joinPath(joinPath(path, "properties"), name)
		if msg := invalidPropertyName(name); msg != "" {
			r.add(p, CodeProperties, "%s", msg)
		}
		if prop == nil {
			r.add(p, CodeProperties, "property schema must not be nil")
			continue
		}
		prop.validate(r, p)
	}

	for _, req := range c.Required {
		if _, ok := c.Properties[req]; !ok {
			r.add(joinPath(path, "required"), CodeRequired,
				"required property not found: %s", req)
		}
	}

	for pattern, prop := range c.PatternProperties {
		p := joinPath(joinPath(path, "patternProperties"), pattern)
		if _, err := regexp.Compile(pattern); err != nil {
			r.add(p, CodePattern, "invalid regex pattern: %v", err)
		}
		if prop == nil {
			r.add(p, CodeProperties, "pattern property schema must not be nil")
			continue
		}
		prop.validate(r, p)
	}

	for name, dep := range c.Dependencies {
		p := joinPath(joinPath(path, "dependencies"), name)
		if dep == nil || (len(dep.Properties) == 0 && dep.Schema == nil) {
			r.add(p, CodeDependencies,
				"dependencies must be either a list of property names or a schema")
			continue
		}
		if len(dep.Properties) > 0 && dep.Schema != nil {
			r.add(p, CodeDependencies,
				"dependency cannot be both a property list and a schema")
			continue
		}
		for _, companion := range dep.Properties {
			if _, ok := c.Properties[companion]; !ok {
				r.add(p, CodeDependencies, "dependency %s not found in properties", companion)
			}
		}
		if dep.Schema != nil {
			dep.Schema.validate(r, p)
		}
	}

	if c.MinProperties != nil && *c.MinProperties < 0 {
		r.add(joinPath(path, "minProperties"), CodeBounds, "minProperties must be >= 0")
	}
	if c.MaxProperties != nil && *c.MaxProperties < 0 {
		r.add(joinPath(path, "maxProperties"), CodeBounds, "maxProperties must be >= 0")
	}
	if c.MinProperties != nil && c.MaxProperties != nil && *c.MaxProperties < *c.MinProperties {
		r.add(joinPath(path, "maxProperties"), CodeBounds,
			"maxProperties must be >= minProperties")
	}

	if c.AdditionalProperties != nil && c.AdditionalProperties.Schema != nil {
		c.AdditionalProperties.Schema.validate(r, joinPath(path, "additionalProperties"))
	}
}

// invalidPropertyName returns a non-empty message when the property name
// breaks the naming rules: non-empty, no '.' or '/', at most 255 chars.
func invalidPropertyName(name string) string {
	switch {
	case name == "":
		return "property name must not be empty"
	case strings.ContainsAny(name, "./"):
		return "property name must not contain '.' or '/'"
	case len(name) > maxPropertyNameLength:
		return fmt.Sprintf("property name exceeds %d characters", maxPropertyNameLength)
	}
	return ""
}

func (s *Schema) validateValueConformance(r *result, path, code string, v any) {
	if !valueMatchesType(v, s.Type) {
		if s.Type == TypeInteger && isFractional(v) {
			r.add(path, code, "integer schema cannot have a fractional %s value", code)
			return
		}
		r.add(path, code, "%s value type does not match schema type %q", code, s.Type)
	}
}

// valueMatchesType reports whether a concrete value is of the declared
// JSON type. Integral float64 values count as integers since JSON decoding
// produces float64 for every number.
func valueMatchesType(v any, typ string) bool {
	switch typ {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeInteger:
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == math.Trunc(n)
		case float32:
			return float64(n) == math.Trunc(float64(n))
		}
		return false
	case TypeNumber:
		switch v.(type) {
		case int, int32, int64, float32, float64:
			return true
		}
		return false
	case TypeArray:
		_, ok := v.([]any)
		return ok
	case TypeObject:
		_, ok := v.(map[string]any)
		return ok
	case TypeNull:
		return v == nil
	}
	return true
}

func isFractional(v any) bool {
	switch n := v.(type) {
	case float64:
		return n != math.Trunc(n)
	case float32:
		return float64(n) != math.Trunc(float64(n))
	}
	return false
}

// canonicalKey produces a stable comparison key for enum entries and
// uniqueness checks. JSON marshaling sorts map keys, which keeps the key
// independent of insertion order.
func canonicalKey(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
