package parser

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawSchema is the document-level schema node shared by both front-ends.
// Swagger 2.0 documents decode straight into it via yaml.v3; OpenAPI 3
// documents are converted into it from the kin-openapi model. The JSON
// tags let a node be re-serialized as a self-contained schema for request
// body validation.
type rawSchema struct {
	Ref         string `yaml:"$ref" json:"$ref,omitempty"`
	Type        string `yaml:"type" json:"type,omitempty"`
	Format      string `yaml:"format" json:"format,omitempty"`
	Title       string `yaml:"title" json:"title,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
	Default     any    `yaml:"default" json:"default,omitempty"`
	Example     any    `yaml:"example" json:"example,omitempty"`
	Examples    []any  `yaml:"examples" json:"examples,omitempty"`
	Nullable    bool   `yaml:"nullable" json:"nullable,omitempty"`
	Enum        []any  `yaml:"enum" json:"enum,omitempty"`

	MinLength *int   `yaml:"minLength" json:"minLength,omitempty"`
	MaxLength *int   `yaml:"maxLength" json:"maxLength,omitempty"`
	Pattern   string `yaml:"pattern" json:"pattern,omitempty"`

	Minimum          *float64 `yaml:"minimum" json:"minimum,omitempty"`
	Maximum          *float64 `yaml:"maximum" json:"maximum,omitempty"`
	ExclusiveMinimum bool     `yaml:"exclusiveMinimum" json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool     `yaml:"exclusiveMaximum" json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `yaml:"multipleOf" json:"multipleOf,omitempty"`

	Items           *rawItems        `yaml:"items" json:"items,omitempty"`
	MinItems        *int             `yaml:"minItems" json:"minItems,omitempty"`
	MaxItems        *int             `yaml:"maxItems" json:"maxItems,omitempty"`
	UniqueItems     bool             `yaml:"uniqueItems" json:"uniqueItems,omitempty"`
	AdditionalItems *rawBoolOrSchema `yaml:"additionalItems" json:"additionalItems,omitempty"`
	Contains        *rawSchema       `yaml:"contains" json:"contains,omitempty"`
	MinContains     *int             `yaml:"minContains" json:"minContains,omitempty"`
	MaxContains     *int             `yaml:"maxContains" json:"maxContains,omitempty"`

	Properties           map[string]*rawSchema     `yaml:"properties" json:"properties,omitempty"`
	Required             []string                  `yaml:"required" json:"required,omitempty"`
	AdditionalProperties *rawBoolOrSchema          `yaml:"additionalProperties" json:"additionalProperties,omitempty"`
	PatternProperties    map[string]*rawSchema     `yaml:"patternProperties" json:"patternProperties,omitempty"`
	Dependencies         map[string]*rawDependency `yaml:"dependencies" json:"dependencies,omitempty"`
	MinProperties        *int                      `yaml:"minProperties" json:"minProperties,omitempty"`
	MaxProperties        *int                      `yaml:"maxProperties" json:"maxProperties,omitempty"`
}

// MarshalJSON implements json.Marshaler. Serialized nodes feed the
// request body validator, which compiles them under draft 2020-12 where
// exclusive bounds are numbers rather than the boolean modifiers the
// source documents use.
func (r *rawSchema) MarshalJSON() ([]byte, error) {
	type plain rawSchema
	node := plain(*r)

	var exMin, exMax *float64
	if node.ExclusiveMinimum && node.Minimum != nil {
		exMin, node.Minimum = node.Minimum, nil
	}
	if node.ExclusiveMaximum && node.Maximum != nil {
		exMax, node.Maximum = node.Maximum, nil
	}
	node.ExclusiveMinimum, node.ExclusiveMaximum = false, false

	data, err := json.Marshal(node)
	if err != nil || (exMin == nil && exMax == nil) {
		return data, err
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if exMin != nil {
		m["exclusiveMinimum"] = *exMin
	}
	if exMax != nil {
		m["exclusiveMaximum"] = *exMax
	}
	return json.Marshal(m)
}

// rawItems accepts either a single schema applied to every element or a
// tuple of per-position schemas.
type rawItems struct {
	Schema *rawSchema
	Tuple  []*rawSchema
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (it *rawItems) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode(&it.Tuple)
	}
	it.Schema = &rawSchema{}
	return value.Decode(it.Schema)
}

// MarshalJSON implements json.Marshaler.
func (it *rawItems) MarshalJSON() ([]byte, error) {
	if len(it.Tuple) > 0 {
		return json.Marshal(it.Tuple)
	}
	return json.Marshal(it.Schema)
}

// UnmarshalJSON implements json.Unmarshaler.
func (it *rawItems) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &it.Tuple)
	}
	it.Schema = &rawSchema{}
	return json.Unmarshal(data, it.Schema)
}

// rawBoolOrSchema accepts either a boolean or a schema, the shape of
// additionalProperties and additionalItems.
type rawBoolOrSchema struct {
	Allowed bool
	Schema  *rawSchema
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *rawBoolOrSchema) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&b.Allowed)
	}
	b.Schema = &rawSchema{}
	return value.Decode(b.Schema)
}

// MarshalJSON implements json.Marshaler.
func (b *rawBoolOrSchema) MarshalJSON() ([]byte, error) {
	if b.Schema != nil {
		return json.Marshal(b.Schema)
	}
	return json.Marshal(b.Allowed)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *rawBoolOrSchema) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		b.Schema = &rawSchema{}
		return json.Unmarshal(data, b.Schema)
	}
	return json.Unmarshal(data, &b.Allowed)
}

// rawDependency accepts either a list of companion property names or a
// schema, the two legal shapes of a dependencies entry.
type rawDependency struct {
	Properties []string
	Schema     *rawSchema
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *rawDependency) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode(&d.Properties)
	}
	if value.Kind == yaml.MappingNode {
		d.Schema = &rawSchema{}
		return value.Decode(d.Schema)
	}
	return fmt.Errorf("dependency must be a list of property names or a schema, got %s", value.Tag)
}

// MarshalJSON implements json.Marshaler.
func (d *rawDependency) MarshalJSON() ([]byte, error) {
	if d.Schema != nil {
		return json.Marshal(d.Schema)
	}
	return json.Marshal(d.Properties)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *rawDependency) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &d.Properties)
	}
	d.Schema = &rawSchema{}
	return json.Unmarshal(data, d.Schema)
}
