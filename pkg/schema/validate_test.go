package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_BasicTypes(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
	}{
		{name: "plain string", schema: &Schema{Type: TypeString}},
		{name: "plain integer", schema: &Schema{Type: TypeInteger}},
		{name: "plain number", schema: &Schema{Type: TypeNumber}},
		{name: "plain boolean", schema: &Schema{Type: TypeBoolean}},
		{name: "plain null", schema: &Schema{Type: TypeNull}},
		{
			name: "string with constraints",
			schema: &Schema{
				Type: TypeString,
				String: &StringConstraints{
					MinLength: IntPtr(2),
					MaxLength: IntPtr(10),
					Pattern:   `^[a-z]+$`,
				},
			},
		},
		{
			name: "integer with bounds",
			schema: &Schema{
				Type: TypeInteger,
				Number: &NumberConstraints{
					Minimum:    Float64Ptr(0),
					Maximum:    Float64Ptr(100),
					MultipleOf: Float64Ptr(5),
				},
			},
		},
		{
			name: "array of strings",
			schema: &Schema{
				Type: TypeArray,
				Array: &ArrayConstraints{
					Items:    &Items{Schema: &Schema{Type: TypeString}},
					MinItems: IntPtr(1),
					MaxItems: IntPtr(5),
				},
			},
		},
		{
			name: "object with required",
			schema: &Schema{
				Type: TypeObject,
				Object: &ObjectConstraints{
					Properties: map[string]*Schema{
						"id":   {Type: TypeInteger},
						"name": {Type: TypeString},
					},
					Required: []string{"id"},
				},
			},
		},
		{name: "bare reference", schema: &Schema{Ref: "#/definitions/Pet"}},
		{
			name:   "reference with description",
			schema: &Schema{Ref: "#/definitions/Pet", Description: "a pet"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.schema)
			require.NoError(t, err)
			assert.Same(t, tt.schema, s)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		schema   *Schema
		wantCode string
		wantPath string
	}{
		{
			name:     "unknown type",
			schema:   &Schema{Type: "decimal"},
			wantCode: CodeType,
			wantPath: "type",
		},
		{
			name:     "ref with type",
			schema:   &Schema{Ref: "#/definitions/Pet", Type: TypeString},
			wantCode: CodeRef,
			wantPath: "$ref",
		},
		{
			name:     "ref with enum",
			schema:   &Schema{Ref: "#/definitions/Pet", Enum: []any{"a"}},
			wantCode: CodeRef,
		},
		{
			name:     "invalid string format",
			schema:   &Schema{Type: TypeString, Format: "int32"},
			wantCode: CodeFormat,
			wantPath: "format",
		},
		{
			name:     "invalid number format",
			schema:   &Schema{Type: TypeNumber, Format: "email"},
			wantCode: CodeFormat,
		},
		{
			name:     "duplicate enum values",
			schema:   &Schema{Type: TypeString, Enum: []any{"a", "b", "a"}},
			wantCode: CodeEnum,
			wantPath: "enum",
		},
		{
			name:     "constraint group mismatch",
			schema:   &Schema{Type: TypeString, Number: &NumberConstraints{}},
			wantCode: CodeType,
		},
		{
			name: "minLength greater than maxLength",
			schema: &Schema{
				Type:   TypeString,
				String: &StringConstraints{MinLength: IntPtr(10), MaxLength: IntPtr(2)},
			},
			wantCode: CodeBounds,
			wantPath: "maxLength",
		},
		{
			name: "negative minLength",
			schema: &Schema{
				Type:   TypeString,
				String: &StringConstraints{MinLength: IntPtr(-1)},
			},
			wantCode: CodeBounds,
		},
		{
			name: "uncompilable pattern",
			schema: &Schema{
				Type:   TypeString,
				String: &StringConstraints{Pattern: `[unclosed`},
			},
			wantCode: CodePattern,
			wantPath: "pattern",
		},
		{
			name: "minimum greater than maximum",
			schema: &Schema{
				Type:   TypeInteger,
				Number: &NumberConstraints{Minimum: Float64Ptr(10), Maximum: Float64Ptr(1)},
			},
			wantCode: CodeBounds,
			wantPath: "maximum",
		},
		{
			name: "zero multipleOf",
			schema: &Schema{
				Type:   TypeNumber,
				Number: &NumberConstraints{MultipleOf: Float64Ptr(0)},
			},
			wantCode: CodeBounds,
			wantPath: "multipleOf",
		},
		{
			name:     "array without items",
			schema:   &Schema{Type: TypeArray, Array: &ArrayConstraints{}},
			wantCode: CodeItems,
			wantPath: "items",
		},
		{
			name: "empty tuple",
			schema: &Schema{
				Type:  TypeArray,
				Array: &ArrayConstraints{Items: &Items{}},
			},
			wantCode: CodeItems,
		},
		{
			name: "minItems greater than maxItems",
			schema: &Schema{
				Type: TypeArray,
				Array: &ArrayConstraints{
					Items:    &Items{Schema: &Schema{Type: TypeString}},
					MinItems: IntPtr(5),
					MaxItems: IntPtr(2),
				},
			},
			wantCode: CodeBounds,
		},
		{
			name: "required names undeclared property",
			schema: &Schema{
				Type: TypeObject,
				Object: &ObjectConstraints{
					Properties: map[string]*Schema{"id": {Type: TypeInteger}},
					Required:   []string{"name"},
				},
			},
			wantCode: CodeRequired,
			wantPath: "required",
		},
		{
			name: "property name with dot",
			schema: &Schema{
				Type: TypeObject,
				Object: &ObjectConstraints{
					Properties: map[string]*Schema{"user.name": {Type: TypeString}},
				},
			},
			wantCode: CodeProperties,
		},
		{
			name: "empty property name",
			schema: &Schema{
				Type: TypeObject,
				Object: &ObjectConstraints{
					Properties: map[string]*Schema{"": {Type: TypeString}},
				},
			},
			wantCode: CodeProperties,
		},
		{
			name: "uncompilable pattern property",
			schema: &Schema{
				Type: TypeObject,
				Object: &ObjectConstraints{
					PatternProperties: map[string]*Schema{`(`: {Type: TypeString}},
				},
			},
			wantCode: CodePattern,
		},
		{
			name: "dependency companion undeclared",
			schema: &Schema{
				Type: TypeObject,
				Object: &ObjectConstraints{
					Properties: map[string]*Schema{"card": {Type: TypeString}},
					Dependencies: map[string]*Dependency{
						"card": {Properties: []string{"cvv"}},
					},
				},
			},
			wantCode: CodeDependencies,
		},
		{
			name: "dependency both list and schema",
			schema: &Schema{
				Type: TypeObject,
				Object: &ObjectConstraints{
					Properties: map[string]*Schema{"card": {Type: TypeString}},
					Dependencies: map[string]*Dependency{
						"card": {
							Properties: []string{"card"},
							Schema:     &Schema{Type: TypeObject},
						},
					},
				},
			},
			wantCode: CodeDependencies,
		},
		{
			name: "minProperties greater than maxProperties",
			schema: &Schema{
				Type: TypeObject,
				Object: &ObjectConstraints{
					MinProperties: IntPtr(3),
					MaxProperties: IntPtr(1),
				},
			},
			wantCode: CodeBounds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.schema)
			require.Error(t, err)

			ve, ok := err.(*ValidationError)
			require.True(t, ok, "expected *ValidationError, got %T", err)
			require.NotEmpty(t, ve.Errors)

			found := false
			for _, fe := range ve.Errors {
				if fe.Code == tt.wantCode {
					found = true
					if tt.wantPath != "" {
						assert.Contains(t, fe.Path, tt.wantPath)
					}
				}
			}
			assert.True(t, found, "no error with code %s in %v", tt.wantCode, ve.Errors)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	s := &Schema{
		Type: TypeString,
		Enum: []any{"x", "x"},
		String: &StringConstraints{
			MinLength: IntPtr(5),
			MaxLength: IntPtr(1),
			Pattern:   `[bad`,
		},
	}
	_, err := New(s)
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(ve.Errors), 3)
}

func TestValidate_DefaultConformance(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		wantErr bool
	}{
		{
			name:   "integral float default on integer",
			schema: &Schema{Type: TypeInteger, Default: float64(42)},
		},
		{
			name:    "fractional default on integer",
			schema:  &Schema{Type: TypeInteger, Default: 42.5},
			wantErr: true,
		},
		{
			name:    "string default on number",
			schema:  &Schema{Type: TypeNumber, Default: "many"},
			wantErr: true,
		},
		{
			name:   "string default on string",
			schema: &Schema{Type: TypeString, Default: "hello"},
		},
		{
			name: "array default within bounds",
			schema: &Schema{
				Type:    TypeArray,
				Default: []any{"a", "b"},
				Array: &ArrayConstraints{
					Items:    &Items{Schema: &Schema{Type: TypeString}},
					MaxItems: IntPtr(3),
				},
			},
		},
		{
			name: "array default exceeds maxItems",
			schema: &Schema{
				Type:    TypeArray,
				Default: []any{"a", "b", "c"},
				Array: &ArrayConstraints{
					Items:    &Items{Schema: &Schema{Type: TypeString}},
					MaxItems: IntPtr(2),
				},
			},
			wantErr: true,
		},
		{
			name: "duplicate array default with uniqueItems",
			schema: &Schema{
				Type:    TypeArray,
				Default: []any{"a", "a"},
				Array: &ArrayConstraints{
					Items:       &Items{Schema: &Schema{Type: TypeString}},
					UniqueItems: true,
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.schema)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_NestedErrorsCarryPath(t *testing.T) {
	s := &Schema{
		Type: TypeObject,
		Object: &ObjectConstraints{
			Properties: map[string]*Schema{
				"tags": {
					Type: TypeArray,
					Array: &ArrayConstraints{
						Items: &Items{Schema: &Schema{
							Type:   TypeString,
							String: &StringConstraints{Pattern: `[`},
						}},
					},
				},
			},
		},
	}
	_, err := New(s)
	require.Error(t, err)

	ve := err.(*ValidationError)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "properties.tags.items.pattern", ve.Errors[0].Path)
}

func TestNew_NilSchema(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, CodeMissing, ve.Errors[0].Code)
}

func TestConstraints(t *testing.T) {
	str := &StringConstraints{MinLength: IntPtr(1)}
	num := &NumberConstraints{Minimum: Float64Ptr(0)}

	assert.Equal(t, str, (&Schema{Type: TypeString, String: str}).Constraints())
	assert.Equal(t, num, (&Schema{Type: TypeInteger, Number: num}).Constraints())
	assert.Nil(t, (&Schema{Type: TypeBoolean}).Constraints())
	assert.Nil(t, (&Schema{Type: TypeString}).Constraints())
}

func TestBoolOrSchema_Permits(t *testing.T) {
	assert.True(t, (*BoolOrSchema)(nil).Permits())
	assert.True(t, (&BoolOrSchema{Allowed: true}).Permits())
	assert.False(t, (&BoolOrSchema{Allowed: false}).Permits())
	assert.True(t, (&BoolOrSchema{Schema: &Schema{Type: TypeString}}).Permits())
}
