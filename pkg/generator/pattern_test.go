package generator

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patternRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestSynthesizePattern(t *testing.T) {
	patterns := []string{
		`^[A-Z]{3}\d{3}$`,
		`^(alpha|beta|gamma)$`,
		`^v[0-9]+\.[0-9]+\.[0-9]+$`,
		`^[a-f0-9]{8}-[a-f0-9]{4}$`,
		`^user_[a-z]*$`,
		`^.{4}$`,
		`prefix(-suffix)?`,
		`^\w+@\w+$`,
		`^[^0-9]{5}$`,
	}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			re := regexp.MustCompile(pattern)
			r := patternRand(1)
			for i := 0; i < 10; i++ {
				s, err := synthesizePattern(pattern, r, 0)
				require.NoError(t, err)
				assert.Regexp(t, re, s, "draw %d", i)
			}
		})
	}
}

func TestSynthesizePattern_LengthBudget(t *testing.T) {
	// With a budget, every quantifier stays at its minimum.
	r := patternRand(1)

	s, err := synthesizePattern(`^[a-z]{2,10}$`, r, 5)
	require.NoError(t, err)
	assert.Len(t, s, 2)

	s, err = synthesizePattern(`^a+b*c?$`, r, 3)
	require.NoError(t, err)
	assert.Equal(t, "a", s)
}

func TestSynthesizePattern_UnboundedQuantifiers(t *testing.T) {
	r := patternRand(7)
	re := regexp.MustCompile(`^x+$`)
	for i := 0; i < 10; i++ {
		s, err := synthesizePattern(`^x+$`, r, 0)
		require.NoError(t, err)
		assert.Regexp(t, re, s)
		assert.NotEmpty(t, s)
		assert.LessOrEqual(t, len(s), 3)
	}
}

func TestSynthesizePattern_ParseError(t *testing.T) {
	_, err := synthesizePattern(`[unterminated`, patternRand(1), 0)
	assert.Error(t, err)
}

func TestSynthesizePattern_NegatedClassStaysPrintable(t *testing.T) {
	r := patternRand(3)
	for i := 0; i < 20; i++ {
		s, err := synthesizePattern(`^[^\s]{6}$`, r, 0)
		require.NoError(t, err)
		require.Len(t, s, 6)
		for _, c := range s {
			assert.GreaterOrEqual(t, c, rune(0x21))
			assert.LessOrEqual(t, c, rune(0x7e))
		}
	}
}

func TestSynthesizePattern_Deterministic(t *testing.T) {
	a, err := synthesizePattern(`^[A-Za-z0-9]{12}$`, patternRand(42), 0)
	require.NoError(t, err)
	b, err := synthesizePattern(`^[A-Za-z0-9]{12}$`, patternRand(42), 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
