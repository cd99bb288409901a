package generator

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"

	"github.com/mockingj/mockingj/pkg/schema"
)

// genObject generates a property map. Every declared property is included
// unless maxProperties forces optional ones out; required properties and
// dependency companions are always present. Property iteration is sorted
// so output is deterministic for a given rng stream.
func (e *engine) genObject(s *schema.Schema, r *rand.Rand) (any, error) {
	c := s.Object
	if c == nil {
		return map[string]any{}, nil
	}

	for name, prop := range c.Properties {
		if prop == nil {
			return nil, genErr(ErrInvalidProperties, "property %q has no schema", name)
		}
	}
	for _, req := range c.Required {
		if _, ok := c.Properties[req]; !ok {
			return nil, genErr(ErrRequiredField, "%q is not a declared property", req)
		}
	}
	for name, dep := range c.Dependencies {
		if dep == nil || (len(dep.Properties) == 0 && dep.Schema == nil) {
			return nil, genErr(ErrInvalidDependency, "dependency for %q", name)
		}
	}
	patterns, err := compilePatternProperties(c.PatternProperties)
	if err != nil {
		return nil, err
	}

	required := make(map[string]bool, len(c.Required))
	for _, name := range c.Required {
		required[name] = true
	}

	include := selectProperties(c, required, r)

	out := make(map[string]any, len(include))
	for _, name := range include {
		v, err := e.generate(c.Properties[name], r)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}

	if err := e.applyDependencies(c, out, r); err != nil {
		return nil, err
	}
	if err := e.fillPatternProperties(c, patterns, out, r); err != nil {
		return nil, err
	}
	if err := e.fillAdditionalProperties(c, out, r); err != nil {
		return nil, err
	}
	return out, nil
}

// selectProperties decides which declared properties appear. All of them
// do unless maxProperties caps the count, in which case required names
// survive and optional ones are dropped in shuffled order.
func selectProperties(c *schema.ObjectConstraints, required map[string]bool, r *rand.Rand) []string {
	names := sortedKeys(c.Properties)
	if c.MaxProperties == nil || len(names) <= *c.MaxProperties {
		return names
	}

	include := make([]string, 0, *c.MaxProperties)
	var optional []string
	for _, name := range names {
		if required[name] {
			include = append(include, name)
		} else {
			optional = append(optional, name)
		}
	}
	r.Shuffle(len(optional), func(i, j int) {
		optional[i], optional[j] = optional[j], optional[i]
	})
	for _, name := range optional {
		if len(include) >= *c.MaxProperties {
			break
		}
		include = append(include, name)
	}
	sort.Strings(include)
	return include
}

// applyDependencies pulls in list-dependency companions and merges
// schema-valued dependencies while their trigger property is present.
func (e *engine) applyDependencies(c *schema.ObjectConstraints, out map[string]any, r *rand.Rand) error {
	for _, trigger := range sortedKeys(c.Dependencies) {
		if _, present := out[trigger]; !present {
			continue
		}
		dep := c.Dependencies[trigger]

		for _, companion := range dep.Properties {
			if _, ok := out[companion]; ok {
				continue
			}
			prop, ok := c.Properties[companion]
			if !ok {
				return genErr(ErrInvalidDependency,
					"companion %q of %q is not a declared property", companion, trigger)
			}
			v, err := e.generate(prop, r)
			if err != nil {
				return err
			}
			out[companion] = v
		}

		// Schema dependencies merge the dependent schema's properties and
		// required names into the enclosing object while the trigger is
		// present.
		if dep.Schema != nil && dep.Schema.Object != nil {
			for _, name := range sortedKeys(dep.Schema.Object.Properties) {
				if _, ok := out[name]; ok {
					continue
				}
				v, err := e.generate(dep.Schema.Object.Properties[name], r)
				if err != nil {
					return err
				}
				out[name] = v
			}
		}
	}
	return nil
}

type compiledPattern struct {
	expr   string
	re     *regexp.Regexp
	schema *schema.Schema
}

func compilePatternProperties(pats map[string]*schema.Schema) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(pats))
	for _, expr := range sortedKeys(pats) {
		sub := pats[expr]
		if sub == nil {
			return nil, genErr(ErrInvalidPatternProperty, "pattern %q has no schema", expr)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, genErr(ErrInvalidPatternProperty, "pattern %q: %v", expr, err)
		}
		compiled = append(compiled, compiledPattern{expr: expr, re: re, schema: sub})
	}
	return compiled, nil
}

// fillPatternProperties adds key/value pairs whose keys match the
// configured patterns: one per pattern, then round-robin until the total
// property count reaches minProperties (never past maxProperties).
func (e *engine) fillPatternProperties(c *schema.ObjectConstraints, patterns []compiledPattern, out map[string]any, r *rand.Rand) error {
	if len(patterns) == 0 {
		return nil
	}

	room := func() bool {
		return c.MaxProperties == nil || len(out) < *c.MaxProperties
	}
	want := func() bool {
		return c.MinProperties != nil && len(out) < *c.MinProperties
	}

	addOne := func(p compiledPattern) error {
		key, err := e.patternKey(p, out, r)
		if err != nil {
			return err
		}
		if key == "" {
			return nil // no fresh key reachable for this pattern
		}
		v, err := e.generate(p.schema, r)
		if err != nil {
			return err
		}
		out[key] = v
		return nil
	}

	for _, p := range patterns {
		if !room() {
			return nil
		}
		if err := addOne(p); err != nil {
			return err
		}
	}
	for round := 0; want() && room() && round < 64; round++ {
		if err := addOne(patterns[round%len(patterns)]); err != nil {
			return err
		}
	}
	return nil
}

// patternKey synthesizes a fresh property name matching the pattern.
// Unanchored patterns get a numeric suffix for distinctness; fully
// anchored ones are retried with further rng draws.
func (e *engine) patternKey(p compiledPattern, out map[string]any, r *rand.Rand) (string, error) {
	base, err := synthesizePattern(p.expr, r, 0)
	if err != nil {
		return "", genErr(ErrInvalidPatternProperty, "pattern %q: %v", p.expr, err)
	}
	if _, taken := out[base]; !taken {
		return base, nil
	}
	for i := 0; i < 100; i++ {
		cand := base + strconv.Itoa(i)
		if !p.re.MatchString(cand) {
			break
		}
		if _, taken := out[cand]; !taken {
			return cand, nil
		}
	}
	for i := 0; i < 10; i++ {
		cand, err := synthesizePattern(p.expr, r, 0)
		if err != nil {
			return "", genErr(ErrInvalidPatternProperty, "pattern %q: %v", p.expr, err)
		}
		if _, taken := out[cand]; !taken {
			return cand, nil
		}
	}
	return "", nil
}

// fillAdditionalProperties tops the object up to minProperties with
// synthetic keys when additionalProperties permits extras.
func (e *engine) fillAdditionalProperties(c *schema.ObjectConstraints, out map[string]any, r *rand.Rand) error {
	if c.MinProperties == nil || len(out) >= *c.MinProperties {
		return nil
	}
	if c.AdditionalProperties != nil && !c.AdditionalProperties.Permits() {
		return nil
	}

	extra := &schema.Schema{Type: schema.TypeString}
	if c.AdditionalProperties != nil && c.AdditionalProperties.Schema != nil {
		extra = c.AdditionalProperties.Schema
	}

	for i := 0; len(out) < *c.MinProperties; i++ {
		key := "extra_" + strconv.Itoa(i)
		if _, taken := out[key]; taken {
			continue
		}
		v, err := e.generate(extra, r)
		if err != nil {
			return err
		}
		out[key] = v
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// canonicalValueKey renders a generated value into a stable comparison
// key for deep-equality dedup.
func canonicalValueKey(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
