package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockingj/mockingj/pkg/schema"
)

func stringItems() *schema.Items {
	return &schema.Items{Schema: &schema.Schema{Type: schema.TypeString}}
}

func TestArrayGenerator_Basic(t *testing.T) {
	g := NewArrayGenerator(12345)

	v, err := g.Generate(&schema.Schema{
		Type:  schema.TypeArray,
		Array: &schema.ArrayConstraints{Items: stringItems()},
	})
	require.NoError(t, err)
	arr, ok := v.([]any)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(arr), 1)
	assert.LessOrEqual(t, len(arr), 3)
	for _, item := range arr {
		assert.IsType(t, "", item)
	}
}

func TestArrayGenerator_LengthBounds(t *testing.T) {
	tests := []struct {
		name   string
		min    *int
		max    *int
		wantLo int
		wantHi int
	}{
		{name: "explicit range", min: schema.IntPtr(2), max: schema.IntPtr(5), wantLo: 2, wantHi: 5},
		{name: "min beyond default max", min: schema.IntPtr(5), wantLo: 5, wantHi: 7},
		{name: "max below default min", max: schema.IntPtr(0), wantLo: 0, wantHi: 0},
		{name: "exact", min: schema.IntPtr(4), max: schema.IntPtr(4), wantLo: 4, wantHi: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewArrayGenerator(12345)
			v, err := g.Generate(&schema.Schema{
				Type: schema.TypeArray,
				Array: &schema.ArrayConstraints{
					Items:    stringItems(),
					MinItems: tt.min,
					MaxItems: tt.max,
				},
			})
			require.NoError(t, err)
			arr := v.([]any)
			assert.GreaterOrEqual(t, len(arr), tt.wantLo)
			assert.LessOrEqual(t, len(arr), tt.wantHi)
		})
	}
}

func TestArrayGenerator_MissingItems(t *testing.T) {
	g := NewArrayGenerator(1)

	for _, s := range []*schema.Schema{
		{Type: schema.TypeArray},
		{Type: schema.TypeArray, Array: &schema.ArrayConstraints{}},
		{Type: schema.TypeArray, Array: &schema.ArrayConstraints{Items: &schema.Items{}}},
	} {
		_, err := g.Generate(s)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), ErrInvalidItems))
	}
}

func TestArrayGenerator_InvalidLengthBounds(t *testing.T) {
	g := NewArrayGenerator(1)
	_, err := g.Generate(&schema.Schema{
		Type: schema.TypeArray,
		Array: &schema.ArrayConstraints{
			Items:    stringItems(),
			MinItems: schema.IntPtr(5),
			MaxItems: schema.IntPtr(2),
		},
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), ErrInvalidArrayLength))
}

func TestArrayGenerator_NestedItems(t *testing.T) {
	g := NewArrayGenerator(12345)
	v, err := g.Generate(&schema.Schema{
		Type: schema.TypeArray,
		Array: &schema.ArrayConstraints{
			Items: &schema.Items{Schema: &schema.Schema{
				Type: schema.TypeArray,
				Array: &schema.ArrayConstraints{
					Items:    &schema.Items{Schema: &schema.Schema{Type: schema.TypeInteger}},
					MinItems: schema.IntPtr(2),
					MaxItems: schema.IntPtr(2),
				},
			}},
			MinItems: schema.IntPtr(1),
		},
	})
	require.NoError(t, err)
	arr := v.([]any)
	require.NotEmpty(t, arr)
	inner, ok := arr[0].([]any)
	require.True(t, ok)
	assert.Len(t, inner, 2)
	assert.IsType(t, int64(0), inner[0])
}

func TestArrayGenerator_Tuple(t *testing.T) {
	g := NewArrayGenerator(12345)
	v, err := g.Generate(&schema.Schema{
		Type: schema.TypeArray,
		Array: &schema.ArrayConstraints{
			Items: &schema.Items{Tuple: []*schema.Schema{
				{Type: schema.TypeString},
				{Type: schema.TypeInteger},
				{Type: schema.TypeBoolean},
			}},
		},
	})
	require.NoError(t, err)
	arr := v.([]any)
	require.Len(t, arr, 3)
	assert.IsType(t, "", arr[0])
	assert.IsType(t, int64(0), arr[1])
	assert.IsType(t, true, arr[2])
}

func TestArrayGenerator_TupleAdditionalItems(t *testing.T) {
	t.Run("false caps at tuple length", func(t *testing.T) {
		g := NewArrayGenerator(12345)
		v, err := g.Generate(&schema.Schema{
			Type: schema.TypeArray,
			Array: &schema.ArrayConstraints{
				Items: &schema.Items{Tuple: []*schema.Schema{
					{Type: schema.TypeString},
				}},
				AdditionalItems: &schema.BoolOrSchema{Allowed: false},
				MinItems:        schema.IntPtr(5),
			},
		})
		require.NoError(t, err)
		assert.Len(t, v.([]any), 1)
	})

	t.Run("schema fills to minItems", func(t *testing.T) {
		g := NewArrayGenerator(12345)
		v, err := g.Generate(&schema.Schema{
			Type: schema.TypeArray,
			Array: &schema.ArrayConstraints{
				Items: &schema.Items{Tuple: []*schema.Schema{
					{Type: schema.TypeString},
				}},
				AdditionalItems: &schema.BoolOrSchema{
					Schema: &schema.Schema{Type: schema.TypeInteger},
				},
				MinItems: schema.IntPtr(4),
			},
		})
		require.NoError(t, err)
		arr := v.([]any)
		require.Len(t, arr, 4)
		assert.IsType(t, "", arr[0])
		for _, extra := range arr[1:] {
			assert.IsType(t, int64(0), extra)
		}
	})
}

func TestArrayGenerator_UniqueItems(t *testing.T) {
	g := NewArrayGenerator(12345)
	v, err := g.Generate(&schema.Schema{
		Type: schema.TypeArray,
		Array: &schema.ArrayConstraints{
			Items: &schema.Items{Schema: &schema.Schema{
				Type: schema.TypeInteger,
				Number: &schema.NumberConstraints{
					Minimum: schema.Float64Ptr(1),
					Maximum: schema.Float64Ptr(1000000),
				},
			}},
			MinItems:    schema.IntPtr(10),
			MaxItems:    schema.IntPtr(10),
			UniqueItems: true,
		},
	})
	require.NoError(t, err)
	arr := v.([]any)
	require.Len(t, arr, 10)

	seen := map[any]bool{}
	for _, item := range arr {
		assert.False(t, seen[item], "duplicate %v", item)
		seen[item] = true
	}
}

func TestArrayGenerator_UniqueItemsInfeasible(t *testing.T) {
	tests := []struct {
		name string
		item *schema.Schema
		n    int
	}{
		{
			name: "enum domain too small",
			item: &schema.Schema{Type: schema.TypeString, Enum: []any{"on", "off"}},
			n:    5,
		},
		{
			name: "boolean domain",
			item: &schema.Schema{Type: schema.TypeBoolean},
			n:    3,
		},
		{
			name: "bounded integer domain",
			item: &schema.Schema{
				Type: schema.TypeInteger,
				Number: &schema.NumberConstraints{
					Minimum: schema.Float64Ptr(1),
					Maximum: schema.Float64Ptr(3),
				},
			},
			n: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewArrayGenerator(1)
			_, err := g.Generate(&schema.Schema{
				Type: schema.TypeArray,
				Array: &schema.ArrayConstraints{
					Items:       &schema.Items{Schema: tt.item},
					MinItems:    schema.IntPtr(tt.n),
					MaxItems:    schema.IntPtr(tt.n),
					UniqueItems: true,
				},
			})
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), ErrUniqueItems),
				"got %q", err.Error())
		})
	}
}

func TestArrayGenerator_Contains(t *testing.T) {
	g := NewArrayGenerator(12345)
	v, err := g.Generate(&schema.Schema{
		Type: schema.TypeArray,
		Array: &schema.ArrayConstraints{
			Items:       stringItems(),
			Contains:    &schema.Schema{Type: schema.TypeString, Enum: []any{"needle"}},
			MinContains: schema.IntPtr(2),
			MinItems:    schema.IntPtr(3),
			MaxItems:    schema.IntPtr(6),
		},
	})
	require.NoError(t, err)
	arr := v.([]any)

	found := 0
	for _, item := range arr {
		if item == "needle" {
			found++
		}
	}
	assert.GreaterOrEqual(t, found, 2)
	assert.GreaterOrEqual(t, len(arr), 3)
}

func TestArrayGenerator_ContainsHonorsMaxItems(t *testing.T) {
	g := NewArrayGenerator(12345)

	t.Run("count stays within maxItems", func(t *testing.T) {
		for seed := int64(1); seed <= 5; seed++ {
			v, err := NewArrayGenerator(seed).Generate(&schema.Schema{
				Type: schema.TypeArray,
				Array: &schema.ArrayConstraints{
					Items:       stringItems(),
					Contains:    &schema.Schema{Type: schema.TypeString, Enum: []any{"needle"}},
					MinContains: schema.IntPtr(3),
					MaxItems:    schema.IntPtr(4),
				},
			})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(v.([]any)), 4)
		}
	})

	t.Run("minContains beyond maxItems fails", func(t *testing.T) {
		_, err := g.Generate(&schema.Schema{
			Type: schema.TypeArray,
			Array: &schema.ArrayConstraints{
				Items:       stringItems(),
				Contains:    &schema.Schema{Type: schema.TypeString, Enum: []any{"needle"}},
				MinContains: schema.IntPtr(5),
				MaxItems:    schema.IntPtr(3),
			},
		})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), ErrInvalidArrayLength),
			"got %q", err.Error())
	})
}

func TestArrayGenerator_UniqueItemsWithContains(t *testing.T) {
	t.Run("contains seeded into unique arrays", func(t *testing.T) {
		g := NewArrayGenerator(12345)
		v, err := g.Generate(&schema.Schema{
			Type: schema.TypeArray,
			Array: &schema.ArrayConstraints{
				Items: &schema.Items{Schema: &schema.Schema{
					Type: schema.TypeInteger,
					Number: &schema.NumberConstraints{
						Minimum: schema.Float64Ptr(1),
						Maximum: schema.Float64Ptr(1000000),
					},
				}},
				Contains:    &schema.Schema{Type: schema.TypeInteger, Enum: []any{-7}},
				MinItems:    schema.IntPtr(4),
				MaxItems:    schema.IntPtr(4),
				UniqueItems: true,
			},
		})
		require.NoError(t, err)
		arr := v.([]any)
		require.Len(t, arr, 4)
		assert.Contains(t, arr, -7)

		seen := map[any]bool{}
		for _, item := range arr {
			assert.False(t, seen[item], "duplicate %v", item)
			seen[item] = true
		}
	})

	t.Run("contains domain too small for minContains", func(t *testing.T) {
		g := NewArrayGenerator(1)
		_, err := g.Generate(&schema.Schema{
			Type: schema.TypeArray,
			Array: &schema.ArrayConstraints{
				Items:       stringItems(),
				Contains:    &schema.Schema{Type: schema.TypeString, Enum: []any{"only"}},
				MinContains: schema.IntPtr(2),
				MinItems:    schema.IntPtr(4),
				MaxItems:    schema.IntPtr(4),
				UniqueItems: true,
			},
		})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), ErrUniqueItems),
			"got %q", err.Error())
	})
}

func TestArrayGenerator_Deterministic(t *testing.T) {
	s := &schema.Schema{
		Type: schema.TypeArray,
		Array: &schema.ArrayConstraints{
			Items:    stringItems(),
			MinItems: schema.IntPtr(3),
			MaxItems: schema.IntPtr(3),
		},
	}
	a, err := NewArrayGenerator(42).Generate(s)
	require.NoError(t, err)
	b, err := NewArrayGenerator(42).Generate(s)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
