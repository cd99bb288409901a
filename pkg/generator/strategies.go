package generator

import (
	"github.com/mockingj/mockingj/pkg/schema"
)

// Strategy produces a constraint-satisfying value for one schema kind.
// Implementations must be safe for concurrent use: randomness is derived
// per call from the configured seed and the schema fingerprint, never
// from shared mutable state.
type Strategy interface {
	Generate(s *schema.Schema) (any, error)
}

// FormatSupporter is implemented by strategies that recognize a bounded
// format set. The coordinator consults it before dispatch to fail fast
// with "Unsupported data format".
type FormatSupporter interface {
	SupportsFormat(format string) bool
}

// StringGenerator synthesizes strings from patterns, formats, enums, and
// length constraints.
type StringGenerator struct {
	e *engine
}

// NewStringGenerator creates a string strategy with its own seed.
func NewStringGenerator(seed int64) *StringGenerator {
	return &StringGenerator{e: newEngine(seed)}
}

// Generate implements Strategy.
func (g *StringGenerator) Generate(s *schema.Schema) (any, error) {
	if s == nil {
		return nil, &GeneratorError{Prefix: ErrMissingSchema}
	}
	return g.e.genString(s, g.e.rngFor(s))
}

// SupportsFormat implements FormatSupporter.
func (g *StringGenerator) SupportsFormat(format string) bool {
	return schema.IsStringFormat(format)
}

// NumberGenerator draws integers and floats from constrained ranges.
type NumberGenerator struct {
	e *engine
}

// NewNumberGenerator creates a numeric strategy with its own seed.
func NewNumberGenerator(seed int64) *NumberGenerator {
	return &NumberGenerator{e: newEngine(seed)}
}

// Generate implements Strategy.
func (g *NumberGenerator) Generate(s *schema.Schema) (any, error) {
	if s == nil {
		return nil, &GeneratorError{Prefix: ErrMissingSchema}
	}
	return g.e.genNumber(s, g.e.rngFor(s))
}

// SupportsFormat implements FormatSupporter.
func (g *NumberGenerator) SupportsFormat(format string) bool {
	return schema.IsNumberFormat(format)
}

// ArrayGenerator generates slices, recursing into item schemas of any
// kind.
type ArrayGenerator struct {
	e *engine
}

// NewArrayGenerator creates an array strategy with its own seed.
func NewArrayGenerator(seed int64) *ArrayGenerator {
	return &ArrayGenerator{e: newEngine(seed)}
}

// Generate implements Strategy.
func (g *ArrayGenerator) Generate(s *schema.Schema) (any, error) {
	if s == nil {
		return nil, &GeneratorError{Prefix: ErrMissingSchema}
	}
	return g.e.genArray(s, g.e.rngFor(s))
}

// ObjectGenerator generates property maps, recursing into nested
// property schemas of any kind.
type ObjectGenerator struct {
	e *engine
}

// NewObjectGenerator creates an object strategy with its own seed.
func NewObjectGenerator(seed int64) *ObjectGenerator {
	return &ObjectGenerator{e: newEngine(seed)}
}

// Generate implements Strategy.
func (g *ObjectGenerator) Generate(s *schema.Schema) (any, error) {
	if s == nil {
		return nil, &GeneratorError{Prefix: ErrMissingSchema}
	}
	return g.e.genObject(s, g.e.rngFor(s))
}

// BooleanGenerator generates booleans.
type BooleanGenerator struct {
	e *engine
}

// NewBooleanGenerator creates a boolean strategy with its own seed.
func NewBooleanGenerator(seed int64) *BooleanGenerator {
	return &BooleanGenerator{e: newEngine(seed)}
}

// Generate implements Strategy.
func (g *BooleanGenerator) Generate(s *schema.Schema) (any, error) {
	if s == nil {
		return nil, &GeneratorError{Prefix: ErrMissingSchema}
	}
	return g.e.genBoolean(s, g.e.rngFor(s))
}

// NullGenerator generates the null value.
type NullGenerator struct{}

// Generate implements Strategy.
func (NullGenerator) Generate(s *schema.Schema) (any, error) {
	if s == nil {
		return nil, &GeneratorError{Prefix: ErrMissingSchema}
	}
	return nil, nil
}
