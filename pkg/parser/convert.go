package parser

import (
	"errors"
	"fmt"

	"github.com/mockingj/mockingj/pkg/schema"
)

// buildSchema turns a raw document node into the schema model. The
// result is unvalidated; callers run it through schema.New with a
// document location for error reporting.
func buildSchema(r *rawSchema) *schema.Schema {
	if r == nil {
		return nil
	}
	if r.Ref != "" {
		return &schema.Schema{Ref: r.Ref, Description: r.Description}
	}

	s := &schema.Schema{
		Type:        r.Type,
		Format:      r.Format,
		Title:       r.Title,
		Description: r.Description,
		Default:     r.Default,
		Example:     r.Example,
		Examples:    r.Examples,
		Nullable:    r.Nullable,
		Enum:        r.Enum,
	}

	switch r.Type {
	case schema.TypeString:
		if r.MinLength != nil || r.MaxLength != nil || r.Pattern != "" {
			s.String = &schema.StringConstraints{
				MinLength: r.MinLength,
				MaxLength: r.MaxLength,
				Pattern:   r.Pattern,
			}
		}
	case schema.TypeNumber, schema.TypeInteger:
		if r.Minimum != nil || r.Maximum != nil || r.MultipleOf != nil ||
			r.ExclusiveMinimum || r.ExclusiveMaximum {
			s.Number = &schema.NumberConstraints{
				Minimum:          r.Minimum,
				Maximum:          r.Maximum,
				ExclusiveMinimum: r.ExclusiveMinimum,
				ExclusiveMaximum: r.ExclusiveMaximum,
				MultipleOf:       r.MultipleOf,
			}
		}
	case schema.TypeArray:
		// The model requires an items specification for arrays, so the
		// group is always materialized; validation reports its absence.
		ac := &schema.ArrayConstraints{
			MinItems:    r.MinItems,
			MaxItems:    r.MaxItems,
			UniqueItems: r.UniqueItems,
			Contains:    buildSchema(r.Contains),
			MinContains: r.MinContains,
			MaxContains: r.MaxContains,
		}
		if r.Items != nil {
			if len(r.Items.Tuple) > 0 {
				tuple := make([]*schema.Schema, len(r.Items.Tuple))
				for i, t := range r.Items.Tuple {
					tuple[i] = buildSchema(t)
				}
				ac.Items = &schema.Items{Tuple: tuple}
			} else if r.Items.Schema != nil {
				ac.Items = &schema.Items{Schema: buildSchema(r.Items.Schema)}
			}
		}
		ac.AdditionalItems = buildBoolOrSchema(r.AdditionalItems)
		s.Array = ac
	case schema.TypeObject:
		if r.Properties != nil || r.Required != nil || r.AdditionalProperties != nil ||
			r.PatternProperties != nil || r.Dependencies != nil ||
			r.MinProperties != nil || r.MaxProperties != nil {
			oc := &schema.ObjectConstraints{
				Required:             r.Required,
				AdditionalProperties: buildBoolOrSchema(r.AdditionalProperties),
				MinProperties:        r.MinProperties,
				MaxProperties:        r.MaxProperties,
			}
			if r.Properties != nil {
				oc.Properties = make(map[string]*schema.Schema, len(r.Properties))
				for name, p := range r.Properties {
					oc.Properties[name] = buildSchema(p)
				}
			}
			if r.PatternProperties != nil {
				oc.PatternProperties = make(map[string]*schema.Schema, len(r.PatternProperties))
				for pat, p := range r.PatternProperties {
					oc.PatternProperties[pat] = buildSchema(p)
				}
			}
			if r.Dependencies != nil {
				oc.Dependencies = make(map[string]*schema.Dependency, len(r.Dependencies))
				for name, d := range r.Dependencies {
					if d == nil {
						oc.Dependencies[name] = nil
						continue
					}
					oc.Dependencies[name] = &schema.Dependency{
						Properties: d.Properties,
						Schema:     buildSchema(d.Schema),
					}
				}
			}
			s.Object = oc
		}
	}
	return s
}

func buildBoolOrSchema(b *rawBoolOrSchema) *schema.BoolOrSchema {
	if b == nil {
		return nil
	}
	return &schema.BoolOrSchema{
		Allowed: b.Allowed,
		Schema:  buildSchema(b.Schema),
	}
}

// validatedSchema builds and validates a node, tagging failures with the
// document location (e.g. "definitions.Pet" or "paths./pets.get.responses.200").
func validatedSchema(r *rawSchema, where string) (*schema.Schema, error) {
	if r == nil {
		return nil, nil
	}
	s, err := schema.New(buildSchema(r))
	if err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			return nil, fmt.Errorf("%s: %w", where, ve)
		}
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	return s, nil
}
