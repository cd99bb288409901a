package generator

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mockingj/mockingj/pkg/schema"
)

// genString synthesizes a string honoring enum, pattern, format, and
// length constraints, in that order of precedence.
func (e *engine) genString(s *schema.Schema, r *rand.Rand) (any, error) {
	c := s.String
	if c == nil {
		c = &schema.StringConstraints{}
	}

	if c.MinLength != nil && c.MaxLength != nil && *c.MaxLength < *c.MinLength {
		return nil, genErr(ErrInvalidLength, "minLength %d > maxLength %d",
			*c.MinLength, *c.MaxLength)
	}
	if s.Format != "" && !schema.IsStringFormat(s.Format) {
		return nil, genErr(ErrUnsupportedStringFormat, "%q", s.Format)
	}
	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return nil, genErr(ErrInvalidPattern, "%v", err)
		}
	}

	if len(s.Enum) > 0 {
		return e.pickEnum(s.Enum), nil
	}

	if c.Pattern != "" {
		maxLen := 0
		if c.MaxLength != nil {
			maxLen = *c.MaxLength
		}
		out, err := synthesizePattern(c.Pattern, r, maxLen)
		if err != nil {
			return nil, genErr(ErrInvalidPattern, "%v", err)
		}
		if maxLen > 0 && len(out) > maxLen {
			// The walker already pinned every quantifier to its minimum, so
			// no match of the pattern fits.
			return nil, genErr(ErrInvalidLength,
				"pattern %q cannot match within maxLength %d", c.Pattern, maxLen)
		}
		return out, nil
	}

	if s.Format != "" {
		return formatString(s.Format, r), nil
	}

	lo := 1
	if c.MinLength != nil {
		lo = *c.MinLength
	}
	hi := lo + 11
	if c.MaxLength != nil {
		hi = *c.MaxLength
		if hi < lo {
			lo = hi
		}
	}
	n := lo
	if hi > lo {
		n = lo + r.IntN(hi-lo+1)
	}
	return randomLetters(r, n), nil
}

// passwordSymbols is the fixed symbol set password values draw from.
const passwordSymbols = "@$!%*#?&"

// formatString produces a value with the well-known shape of the given
// string format, deterministically from the supplied rng.
func formatString(format string, r *rand.Rand) string {
	switch format {
	case schema.FormatDate:
		return fmt.Sprintf("%04d-%02d-%02d", 2000+r.IntN(30), 1+r.IntN(12), 1+r.IntN(28))
	case schema.FormatDateTime:
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ",
			2000+r.IntN(30), 1+r.IntN(12), 1+r.IntN(28),
			r.IntN(24), r.IntN(60), r.IntN(60))
	case schema.FormatEmail:
		locals := []string{"john", "jane", "alex", "maria", "dev", "test", "user"}
		domains := []string{"example.com", "test.io", "demo.org"}
		return locals[r.IntN(len(locals))] + "." + locals[r.IntN(len(locals))] +
			"@" + domains[r.IntN(len(domains))]
	case schema.FormatUUID:
		var b [16]byte
		for i := range b {
			b[i] = byte(r.IntN(256))
		}
		b[6] = (b[6] & 0x0f) | 0x40 // version 4
		b[8] = (b[8] & 0x3f) | 0x80 // RFC 4122 variant
		u, err := uuid.FromBytes(b[:])
		if err != nil {
			return uuid.Nil.String()
		}
		return u.String()
	case schema.FormatURI:
		return "https://" + randomWord(r) + ".example.com/" + randomWord(r)
	case schema.FormatHostname:
		return randomWord(r) + ".example.com"
	case schema.FormatIPv4:
		return fmt.Sprintf("%d.%d.%d.%d", r.IntN(256), r.IntN(256), r.IntN(256), r.IntN(256))
	case schema.FormatIPv6:
		groups := make([]string, 8)
		for i := range groups {
			groups[i] = fmt.Sprintf("%04x", r.IntN(0x10000))
		}
		return strings.Join(groups, ":")
	case schema.FormatPassword:
		return formatPassword(r)
	case schema.FormatByte:
		raw := make([]byte, 6)
		for i := range raw {
			raw[i] = byte(r.IntN(256))
		}
		return base64.StdEncoding.EncodeToString(raw)
	case schema.FormatBinary:
		raw := make([]byte, 8)
		for i := range raw {
			raw[i] = byte(r.IntN(256))
		}
		return hex.EncodeToString(raw)
	default:
		return randomLetters(r, 8)
	}
}

// formatPassword builds a password of at least 8 characters containing an
// uppercase letter, a lowercase letter, a digit, and one fixed symbol.
func formatPassword(r *rand.Rand) string {
	const (
		upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		lower = "abcdefghijklmnopqrstuvwxyz"
		digit = "0123456789"
	)
	all := upper + lower + digit + passwordSymbols

	buf := []byte{
		upper[r.IntN(len(upper))],
		lower[r.IntN(len(lower))],
		digit[r.IntN(len(digit))],
		passwordSymbols[r.IntN(len(passwordSymbols))],
	}
	for len(buf) < 12 {
		buf = append(buf, all[r.IntN(len(all))])
	}
	r.Shuffle(len(buf), func(i, j int) { buf[i], buf[j] = buf[j], buf[i] })
	return string(buf)
}

func randomLetters(r *rand.Rand, n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = letters[r.IntN(len(letters))]
	}
	return string(buf)
}

func randomWord(r *rand.Rand) string {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "omega", "sigma", "theta"}
	return words[r.IntN(len(words))]
}
