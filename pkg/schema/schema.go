package schema

// JSON schema types recognized by the model.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeNull    = "null"
)

// Schema describes the constraint set for one generated value.
//
// Exactly one of Type or Ref may be set. The constraint group matching
// Type carries the type-specific fields; groups for other types must be
// nil. Schemas are constructed once (by the parser or a caller) and are
// not mutated afterwards.
type Schema struct {
	// Type is one of the Type* constants, or empty when Ref is set.
	Type string
	// Ref names another schema (e.g. "#/definitions/Pet"). A schema with
	// a reference carries no other semantic field except Description.
	Ref string

	Format      string
	Title       string
	Description string
	Default     any
	Example     any
	Examples    []any
	Nullable    bool
	// Enum restricts generated values to the listed ones. Entries must be
	// pairwise distinct by value.
	Enum []any

	String *StringConstraints
	Number *NumberConstraints
	Array  *ArrayConstraints
	Object *ObjectConstraints
}

// StringConstraints holds constraints that apply to string schemas.
type StringConstraints struct {
	MinLength *int
	MaxLength *int
	// Pattern is a regular expression the value must match. It must
	// compile under Go regexp syntax.
	Pattern string
}

// NumberConstraints holds constraints that apply to number and integer
// schemas.
type NumberConstraints struct {
	Minimum *float64
	Maximum *float64
	// ExclusiveMinimum/ExclusiveMaximum narrow the corresponding bound to
	// a strict inequality.
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	// MultipleOf requires the value to be an exact multiple. Must be > 0.
	MultipleOf *float64
}

// Items is the items specification of an array schema: either one schema
// applied to every element, or an ordered tuple of per-position schemas.
type Items struct {
	Schema *Schema
	Tuple  []*Schema
}

// IsTuple reports whether the items use tuple validation.
func (it *Items) IsTuple() bool { return it != nil && len(it.Tuple) > 0 }

// ArrayConstraints holds constraints that apply to array schemas.
type ArrayConstraints struct {
	Items       *Items
	MinItems    *int
	MaxItems    *int
	UniqueItems bool
	// AdditionalItems is meaningful only for tuple validation: false caps
	// the array at the tuple length, a schema describes elements past it.
	AdditionalItems *BoolOrSchema
	Contains        *Schema
	MinContains     *int
	MaxContains     *int
}

// ObjectConstraints holds constraints that apply to object schemas.
type ObjectConstraints struct {
	Properties map[string]*Schema
	// Required lists property names that must appear; every entry must
	// exist in Properties.
	Required []string
	// AdditionalProperties controls keys beyond Properties and
	// PatternProperties: false forbids them, a schema describes them.
	AdditionalProperties *BoolOrSchema
	// PatternProperties maps a regular expression to the schema of any
	// property whose name matches it.
	PatternProperties map[string]*Schema
	// Dependencies maps a property name to either companion properties
	// that must accompany it or a schema merged in while it is present.
	Dependencies  map[string]*Dependency
	MinProperties *int
	MaxProperties *int
}

// BoolOrSchema models fields that accept either a boolean or a schema
// (additionalProperties, additionalItems). When Schema is non-nil it wins;
// otherwise Allowed carries the boolean.
type BoolOrSchema struct {
	Allowed bool
	Schema  *Schema
}

// Permits reports whether extra members are permitted at all.
func (b *BoolOrSchema) Permits() bool {
	if b == nil {
		return true
	}
	return b.Schema != nil || b.Allowed
}

// Dependency is one entry of an object schema's dependencies mapping:
// either a list of companion property names or a schema, never both.
type Dependency struct {
	Properties []string
	Schema     *Schema
}

// IntPtr returns a pointer to v, for optional integer constraint fields.
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to v, for optional numeric bounds.
func Float64Ptr(v float64) *float64 { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }

// Constraints returns the constraint group matching the schema's type, or
// nil for types without one (boolean, null) and for references.
func (s *Schema) Constraints() any {
	switch s.Type {
	case TypeString:
		if s.String != nil {
			return s.String
		}
	case TypeNumber, TypeInteger:
		if s.Number != nil {
			return s.Number
		}
	case TypeArray:
		if s.Array != nil {
			return s.Array
		}
	case TypeObject:
		if s.Object != nil {
			return s.Object
		}
	}
	return nil
}

// New validates s and returns it unchanged on success. On failure it
// returns a *ValidationError listing every violated invariant.
func New(s *Schema) (*Schema, error) {
	if s == nil {
		return nil, &ValidationError{Errors: []FieldError{{
			Path:    "",
			Code:    CodeMissing,
			Message: "schema must not be nil",
		}}}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
