// Package generator turns validated schemas into synthetic,
// constraint-satisfying values.
//
// Each schema kind has a Strategy (StringGenerator, NumberGenerator,
// ArrayGenerator, ObjectGenerator, plus trivial boolean and null
// strategies). The MockDataGenerator coordinator dispatches a schema to
// the strategy registered for its type, resolves top-level references,
// and consults a fingerprint-keyed TTL cache so structurally identical
// schemas yield identical values while caching is enabled.
//
// Generation is deterministic: every call derives its randomness from
// the configured seed and the schema's structural fingerprint, so
// identical (schema, seed) pairs always produce identical output and
// concurrent calls for different schemas never perturb each other.
//
// Failures are reported as *GeneratorError values whose messages begin
// with fixed prefixes ("Invalid numeric bounds", "Cannot generate unique
// items with given constraints", ...) that callers can match on.
package generator
