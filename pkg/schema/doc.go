// Package schema defines the validated data model for OpenAPI/Swagger
// schemas consumed by the generation engine.
//
// A Schema is either tagged by a JSON type (string, number, integer,
// boolean, array, object, null) or carries a reference to another schema;
// the two are mutually exclusive. Type-specific constraints live in
// per-variant groups (StringConstraints, NumberConstraints,
// ArrayConstraints, ObjectConstraints) so that a schema only ever carries
// the fields that apply to its own kind.
//
// Validation runs entirely at construction time: New returns either a
// usable Schema or a ValidationError listing every violated invariant with
// its field path. Schemas are immutable after construction; the generator
// packages only ever borrow them.
package schema
