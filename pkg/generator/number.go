package generator

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/mockingj/mockingj/pkg/schema"
)

// Default generation range for bare number schemas without a format.
const defaultNumberBound = 1e6

// genNumber draws a value from the schema's effective range, honoring
// exclusive bounds and multipleOf. The result is int64 for integer
// schemas (and int32/int64 formats), float64 otherwise.
func (e *engine) genNumber(s *schema.Schema, r *rand.Rand) (any, error) {
	c := s.Number
	if c == nil {
		c = &schema.NumberConstraints{}
	}

	if s.Format != "" && !schema.IsNumberFormat(s.Format) {
		return nil, genErr(ErrUnsupportedNumberFormat, "%q", s.Format)
	}
	if c.MultipleOf != nil && *c.MultipleOf <= 0 {
		return nil, genErr(ErrInvalidMultipleOf, "%v", *c.MultipleOf)
	}
	if c.Minimum != nil && c.Maximum != nil && *c.Maximum < *c.Minimum {
		return nil, genErr(ErrInvalidBounds, "minimum %v > maximum %v", *c.Minimum, *c.Maximum)
	}

	if len(s.Enum) > 0 {
		return e.pickEnum(s.Enum), nil
	}

	if s.Type == schema.TypeInteger || schema.IsIntegerFormat(s.Format) {
		return e.genInteger(s, c, r)
	}
	return e.genFloat(s, c, r)
}

func (e *engine) genInteger(s *schema.Schema, c *schema.NumberConstraints, r *rand.Rand) (any, error) {
	var lo, hi int64
	if s.Format == schema.FormatInt64 {
		lo, hi = math.MinInt64, math.MaxInt64
	} else {
		// int32 is the default range for integers without a format.
		lo, hi = math.MinInt32, math.MaxInt32
	}

	if c.Minimum != nil {
		if c.ExclusiveMinimum {
			lo = int64(math.Floor(*c.Minimum)) + 1
		} else {
			lo = int64(math.Ceil(*c.Minimum))
		}
	} else if c.ExclusiveMinimum {
		lo++
	}
	if c.Maximum != nil {
		if c.ExclusiveMaximum {
			hi = int64(math.Ceil(*c.Maximum)) - 1
		} else {
			hi = int64(math.Floor(*c.Maximum))
		}
	} else if c.ExclusiveMaximum {
		hi--
	}

	if lo > hi {
		return nil, genErr(ErrInvalidBounds, "empty integer range [%d, %d]", lo, hi)
	}

	if c.MultipleOf != nil {
		m := *c.MultipleOf
		kLo := int64(math.Ceil(float64(lo) / m))
		kHi := int64(math.Floor(float64(hi) / m))
		if kLo > kHi {
			return nil, genErr(ErrInvalidBounds, "no multiple of %v in [%d, %d]", m, lo, hi)
		}
		k := kLo + r.Int64N(kHi-kLo+1)
		return int64(math.Round(float64(k) * m)), nil
	}

	span := uint64(hi) - uint64(lo) + 1
	if span == 0 {
		// The full int64 domain wraps to zero; draw the raw word.
		return int64(r.Uint64()), nil
	}
	return lo + int64(r.Uint64N(span)), nil
}

func (e *engine) genFloat(s *schema.Schema, c *schema.NumberConstraints, r *rand.Rand) (any, error) {
	lo, hi := -defaultNumberBound, defaultNumberBound
	switch s.Format {
	case schema.FormatFloat:
		lo, hi = -3.4e38, 3.4e38
	case schema.FormatDouble:
		lo, hi = -math.MaxFloat64, math.MaxFloat64
	}
	if c.Minimum != nil {
		lo = *c.Minimum
	}
	if c.Maximum != nil {
		hi = *c.Maximum
	}

	if c.MultipleOf != nil {
		return multipleInRange(c, lo, hi, r)
	}

	var v float64
	span := hi - lo
	if math.IsInf(span, 0) {
		v = (2*r.Float64() - 1) * hi
	} else {
		v = lo + r.Float64()*span
	}

	// Strict bounds: redraw on the measure-zero collisions, then nudge.
	for i := 0; i < 8 && ((c.ExclusiveMinimum && v <= lo) || (c.ExclusiveMaximum && v >= hi)); i++ {
		v = lo + r.Float64()*span
	}
	if c.ExclusiveMinimum && v <= lo {
		v = math.Nextafter(lo, hi)
	}
	if c.ExclusiveMaximum && v >= hi {
		v = math.Nextafter(hi, lo)
	}
	return v, nil
}

// multipleInRange picks an exact multiple of c.MultipleOf inside [lo, hi]
// by drawing an integer multiplier and rounding the product back to the
// multiple's own decimal precision, so 0.1 steps never drift into
// 0.30000000000000004 territory.
func multipleInRange(c *schema.NumberConstraints, lo, hi float64, r *rand.Rand) (any, error) {
	m := *c.MultipleOf
	places := decimalPlaces(m)

	kLo := math.Ceil(lo / m)
	kHi := math.Floor(hi / m)
	if c.ExclusiveMinimum && kLo*m <= lo {
		kLo++
	}
	if c.ExclusiveMaximum && kHi*m >= hi {
		kHi--
	}
	if kLo > kHi {
		return nil, genErr(ErrInvalidBounds, "no multiple of %v in [%v, %v]", m, lo, hi)
	}

	span := kHi - kLo
	if span > 1e15 {
		span = 1e15
	}
	k := kLo + float64(r.Int64N(int64(span)+1))
	return roundToPlaces(k*m, places), nil
}

// decimalPlaces counts the decimal digits of m's shortest representation.
func decimalPlaces(m float64) int {
	s := strconv.FormatFloat(m, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func roundToPlaces(v float64, places int) float64 {
	if places <= 0 {
		return math.Round(v)
	}
	if places > 15 {
		return v
	}
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
