package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/mockingj/mockingj/pkg/schema"
)

// Fingerprint computes a structural cache key for a schema: a SHA-256 of
// the canonical serialization of every constraint field. Two schemas with
// identical constraints fingerprint identically regardless of how they
// were constructed.
func Fingerprint(s *schema.Schema) string {
	sum := sha256.Sum256(canonicalBytes(s))
	return hex.EncodeToString(sum[:])
}

// fingerprintSeed derives the rng stream selector for a schema from the
// same canonical form, so randomness is a function of (seed, schema) and
// never of call ordering.
func fingerprintSeed(s *schema.Schema) uint64 {
	h := fnv.New64a()
	h.Write(canonicalBytes(s))
	return h.Sum64()
}

func canonicalBytes(s *schema.Schema) []byte {
	// encoding/json sorts map keys, which makes the serialization stable.
	b, err := json.Marshal(fingerprintNode(s))
	if err != nil {
		return fmt.Appendf(nil, "%#v", s)
	}
	return b
}

func fingerprintNode(s *schema.Schema) map[string]any {
	if s == nil {
		return nil
	}
	n := map[string]any{}
	put := func(key string, v any) { n[key] = v }

	if s.Type != "" {
		put("type", s.Type)
	}
	if s.Ref != "" {
		put("$ref", s.Ref)
	}
	if s.Format != "" {
		put("format", s.Format)
	}
	if s.Nullable {
		put("nullable", true)
	}
	if len(s.Enum) > 0 {
		put("enum", s.Enum)
	}
	if s.Default != nil {
		put("default", s.Default)
	}
	if s.Example != nil {
		put("example", s.Example)
	}

	if c := s.String; c != nil {
		if c.MinLength != nil {
			put("minLength", *c.MinLength)
		}
		if c.MaxLength != nil {
			put("maxLength", *c.MaxLength)
		}
		if c.Pattern != "" {
			put("pattern", c.Pattern)
		}
	}

	if c := s.Number; c != nil {
		if c.Minimum != nil {
			put("minimum", *c.Minimum)
		}
		if c.Maximum != nil {
			put("maximum", *c.Maximum)
		}
		if c.ExclusiveMinimum {
			put("exclusiveMinimum", true)
		}
		if c.ExclusiveMaximum {
			put("exclusiveMaximum", true)
		}
		if c.MultipleOf != nil {
			put("multipleOf", *c.MultipleOf)
		}
	}

	if c := s.Array; c != nil {
		if c.Items != nil {
			if c.Items.IsTuple() {
				tuple := make([]any, len(c.Items.Tuple))
				for i, item := range c.Items.Tuple {
					tuple[i] = fingerprintNode(item)
				}
				put("items", tuple)
			} else {
				put("items", fingerprintNode(c.Items.Schema))
			}
		}
		if c.MinItems != nil {
			put("minItems", *c.MinItems)
		}
		if c.MaxItems != nil {
			put("maxItems", *c.MaxItems)
		}
		if c.UniqueItems {
			put("uniqueItems", true)
		}
		if c.AdditionalItems != nil {
			put("additionalItems", fingerprintBoolOrSchema(c.AdditionalItems))
		}
		if c.Contains != nil {
			put("contains", fingerprintNode(c.Contains))
		}
		if c.MinContains != nil {
			put("minContains", *c.MinContains)
		}
		if c.MaxContains != nil {
			put("maxContains", *c.MaxContains)
		}
	}

	if c := s.Object; c != nil {
		if len(c.Properties) > 0 {
			props := make(map[string]any, len(c.Properties))
			for name, prop := range c.Properties {
				props[name] = fingerprintNode(prop)
			}
			put("properties", props)
		}
		if len(c.Required) > 0 {
			put("required", c.Required)
		}
		if c.AdditionalProperties != nil {
			put("additionalProperties", fingerprintBoolOrSchema(c.AdditionalProperties))
		}
		if len(c.PatternProperties) > 0 {
			pats := make(map[string]any, len(c.PatternProperties))
			for pattern, prop := range c.PatternProperties {
				pats[pattern] = fingerprintNode(prop)
			}
			put("patternProperties", pats)
		}
		if len(c.Dependencies) > 0 {
			deps := make(map[string]any, len(c.Dependencies))
			for name, dep := range c.Dependencies {
				if dep == nil {
					deps[name] = nil
				} else if dep.Schema != nil {
					deps[name] = fingerprintNode(dep.Schema)
				} else {
					deps[name] = dep.Properties
				}
			}
			put("dependencies", deps)
		}
		if c.MinProperties != nil {
			put("minProperties", *c.MinProperties)
		}
		if c.MaxProperties != nil {
			put("maxProperties", *c.MaxProperties)
		}
	}

	return n
}

func fingerprintBoolOrSchema(b *schema.BoolOrSchema) any {
	if b.Schema != nil {
		return fingerprintNode(b.Schema)
	}
	return b.Allowed
}
