package generator

import (
	"math"
	"math/rand/v2"

	"github.com/mockingj/mockingj/pkg/schema"
)

// Default length range when an array schema carries no explicit bounds.
const (
	defaultMinItems = 1
	defaultMaxItems = 3
)

// uniqueAttemptFactor bounds the retry loop for uniqueItems generation:
// attempts are capped at factor*target + a small constant so infeasible
// constraints fail instead of hanging.
const uniqueAttemptFactor = 10

// genArray generates a slice satisfying length, uniqueness, tuple, and
// contains constraints.
func (e *engine) genArray(s *schema.Schema, r *rand.Rand) (any, error) {
	c := s.Array
	if c == nil || c.Items == nil || (c.Items.Schema == nil && len(c.Items.Tuple) == 0) {
		return nil, genErr(ErrInvalidItems, "array schema requires items")
	}

	lo, hi := defaultMinItems, defaultMaxItems
	if c.MinItems != nil {
		lo = *c.MinItems
		if c.MaxItems == nil && lo > hi {
			hi = lo + 2
		}
	}
	if c.MaxItems != nil {
		hi = *c.MaxItems
		if c.MinItems == nil && hi < lo {
			lo = hi
		}
	}
	if lo > hi {
		return nil, genErr(ErrInvalidArrayLength, "minItems %d > maxItems %d", lo, hi)
	}

	if c.Items.IsTuple() {
		return e.genTuple(c, lo, r)
	}

	n := lo
	if hi > lo {
		n = lo + r.IntN(hi-lo+1)
	}

	// Contains seeding happens first so minContains holds. A declared
	// maxItems below the required count is unsatisfiable.
	need := 0
	if c.Contains != nil {
		need = 1
		if c.MinContains != nil {
			need = *c.MinContains
		}
		if c.MaxItems != nil && need > *c.MaxItems {
			return nil, genErr(ErrInvalidArrayLength,
				"minContains %d > maxItems %d", need, *c.MaxItems)
		}
		if need > n {
			n = need
		}
	}

	if c.UniqueItems {
		return e.genUniqueItems(c, n, need, r)
	}

	out := make([]any, 0, n)
	for i := 0; i < need; i++ {
		v, err := e.generate(c.Contains, r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	for len(out) < n {
		v, err := e.generate(c.Items.Schema, r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// genTuple generates one value per positional schema. additionalItems
// false caps the result at the tuple length; a schema-valued
// additionalItems fills up to minItems.
func (e *engine) genTuple(c *schema.ArrayConstraints, minLen int, r *rand.Rand) (any, error) {
	out := make([]any, 0, len(c.Items.Tuple))
	for _, item := range c.Items.Tuple {
		if item == nil {
			return nil, genErr(ErrInvalidItems, "tuple item schema must not be nil")
		}
		v, err := e.generate(item, r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	if c.AdditionalItems != nil && !c.AdditionalItems.Permits() {
		return out, nil
	}
	if c.AdditionalItems != nil && c.AdditionalItems.Schema != nil {
		for len(out) < minLen {
			v, err := e.generate(c.AdditionalItems.Schema, r)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// genUniqueItems fills a slice with pairwise-distinct values (by deep
// value equality), drawing the first `need` from the contains schema.
// Infeasible domains are detected up front where the item schema's
// reachable-value count is enumerable; otherwise a bounded retry loop
// guarantees termination.
func (e *engine) genUniqueItems(c *schema.ArrayConstraints, n, need int, r *rand.Rand) (any, error) {
	item := c.Items.Schema
	if size, known := domainSize(item); known && size < int64(n) {
		return nil, genErr(ErrUniqueItems,
			"item domain holds %d values, %d unique requested", size, n)
	}
	if size, known := domainSize(c.Contains); known && size < int64(need) {
		return nil, genErr(ErrUniqueItems,
			"contains domain holds %d values, %d unique requested", size, need)
	}

	out := make([]any, 0, n)
	seen := make(map[string]bool, n)
	maxAttempts := n*uniqueAttemptFactor + 20

	for attempts := 0; len(out) < n; attempts++ {
		if attempts >= maxAttempts {
			return nil, genErr(ErrUniqueItems,
				"gave up after %d attempts for %d unique items", attempts, n)
		}
		source := item
		if len(out) < need {
			source = c.Contains
		}
		v, err := e.generate(source, r)
		if err != nil {
			return nil, err
		}
		key := canonicalValueKey(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out, nil
}

// domainSize counts the reachable values of a schema when that count is
// enumerable: enums, booleans, and bounded integers (with or without
// multipleOf). The second return is false when the domain is effectively
// unbounded.
func domainSize(s *schema.Schema) (int64, bool) {
	if s == nil {
		return 0, false
	}
	if len(s.Enum) > 0 {
		return int64(len(s.Enum)), true
	}
	switch s.Type {
	case schema.TypeBoolean:
		return 2, true
	case schema.TypeNull:
		return 1, true
	case schema.TypeInteger:
		c := s.Number
		if c == nil || c.Minimum == nil || c.Maximum == nil {
			return 0, false
		}
		lo := math.Ceil(*c.Minimum)
		hi := math.Floor(*c.Maximum)
		if c.ExclusiveMinimum {
			lo = math.Floor(*c.Minimum) + 1
		}
		if c.ExclusiveMaximum {
			hi = math.Ceil(*c.Maximum) - 1
		}
		if hi < lo {
			return 0, true
		}
		if c.MultipleOf != nil && *c.MultipleOf > 0 {
			m := *c.MultipleOf
			return int64(math.Floor(hi/m)-math.Ceil(lo/m)) + 1, true
		}
		return int64(hi-lo) + 1, true
	}
	return 0, false
}
