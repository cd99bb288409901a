package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mockingj/mockingj/pkg/schema"
)

func TestFingerprint_StructuralEquality(t *testing.T) {
	build := func() *schema.Schema {
		return &schema.Schema{
			Type: schema.TypeObject,
			Object: &schema.ObjectConstraints{
				Properties: map[string]*schema.Schema{
					"id": {Type: schema.TypeInteger, Number: &schema.NumberConstraints{
						Minimum: schema.Float64Ptr(1),
					}},
					"name": {Type: schema.TypeString, String: &schema.StringConstraints{
						MaxLength: schema.IntPtr(32),
					}},
				},
				Required: []string{"id"},
			},
		}
	}

	a, b := build(), build()
	assert.NotSame(t, a, b)
	assert.Equal(t, Fingerprint(a), Fingerprint(b),
		"independently constructed identical schemas share a fingerprint")
}

func TestFingerprint_ConstraintSensitivity(t *testing.T) {
	base := &schema.Schema{Type: schema.TypeString}

	variants := []*schema.Schema{
		{Type: schema.TypeInteger},
		{Type: schema.TypeString, Format: schema.FormatEmail},
		{Type: schema.TypeString, Nullable: true},
		{Type: schema.TypeString, Enum: []any{"a"}},
		{Type: schema.TypeString, String: &schema.StringConstraints{MinLength: schema.IntPtr(3)}},
		{Type: schema.TypeString, String: &schema.StringConstraints{Pattern: `^x+$`}},
	}
	for _, v := range variants {
		assert.NotEqual(t, Fingerprint(base), Fingerprint(v), "%+v must not collide with the base", v)
	}
}

func TestFingerprint_EmptyConstraintGroupIsNeutral(t *testing.T) {
	// An empty constraint struct carries no information, so it cannot
	// split the cache.
	bare := &schema.Schema{Type: schema.TypeString}
	grouped := &schema.Schema{Type: schema.TypeString, String: &schema.StringConstraints{}}
	assert.Equal(t, Fingerprint(bare), Fingerprint(grouped))
}

func TestFingerprint_Stable(t *testing.T) {
	s := &schema.Schema{
		Type: schema.TypeArray,
		Array: &schema.ArrayConstraints{
			Items:    &schema.Items{Schema: &schema.Schema{Type: schema.TypeNumber}},
			MinItems: schema.IntPtr(2),
		},
	}
	first := Fingerprint(s)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Fingerprint(s))
	}
	assert.Len(t, first, 64)
}

func TestFingerprintSeed(t *testing.T) {
	a := &schema.Schema{Type: schema.TypeString, Format: schema.FormatUUID}
	b := &schema.Schema{Type: schema.TypeString, Format: schema.FormatUUID}
	c := &schema.Schema{Type: schema.TypeString, Format: schema.FormatEmail}

	assert.Equal(t, fingerprintSeed(a), fingerprintSeed(b))
	assert.NotEqual(t, fingerprintSeed(a), fingerprintSeed(c))
}
