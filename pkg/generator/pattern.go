package generator

import (
	"fmt"
	"math/rand/v2"
	"regexp/syntax"
	"strings"
)

// synthesizePattern produces a string matching the given regular
// expression by walking its parse tree. When maxLen > 0 the walker picks
// the minimum count for every unbounded quantifier so the result stays
// inside the length budget where the pattern allows it.
func synthesizePattern(pattern string, r *rand.Rand, maxLen int) (string, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return "", err
	}
	w := &patternWalker{r: r, limited: maxLen > 0}
	var b strings.Builder
	if err := w.walk(re, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

type patternWalker struct {
	r       *rand.Rand
	limited bool
}

func (w *patternWalker) walk(re *syntax.Regexp, b *strings.Builder) error {
	switch re.Op {
	case syntax.OpLiteral:
		b.WriteString(string(re.Rune))

	case syntax.OpCharClass:
		b.WriteRune(w.pickRune(re))

	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		b.WriteByte(byte('a' + w.r.IntN(26)))

	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err := w.walk(sub, b); err != nil {
				return err
			}
		}

	case syntax.OpAlternate:
		return w.walk(re.Sub[w.r.IntN(len(re.Sub))], b)

	case syntax.OpCapture:
		return w.walk(re.Sub[0], b)

	case syntax.OpStar:
		return w.repeat(re.Sub[0], 0, -1, b)
	case syntax.OpPlus:
		return w.repeat(re.Sub[0], 1, -1, b)
	case syntax.OpQuest:
		return w.repeat(re.Sub[0], 0, 1, b)
	case syntax.OpRepeat:
		return w.repeat(re.Sub[0], re.Min, re.Max, b)

	case syntax.OpEmptyMatch,
		syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		// Anchors and boundaries contribute no characters.

	default:
		return fmt.Errorf("unsupported pattern construct %v", re.Op)
	}
	return nil
}

func (w *patternWalker) repeat(sub *syntax.Regexp, min, max int, b *strings.Builder) error {
	n := min
	switch {
	case w.limited:
		// Stay at the minimum so maxLength holds wherever the pattern
		// permits it.
	case max < 0:
		n = min + w.r.IntN(3)
	case max > min:
		n = min + w.r.IntN(max-min+1)
	}
	for i := 0; i < n; i++ {
		if err := w.walk(sub, b); err != nil {
			return err
		}
	}
	return nil
}

// pickRune selects a rune from a character class. Candidates are first
// intersected with printable ASCII so negated classes do not produce
// exotic code points; the full class is the fallback.
func (w *patternWalker) pickRune(re *syntax.Regexp) rune {
	const printableLo, printableHi = rune(0x21), rune(0x7e)

	type runeRange struct{ lo, hi rune }
	var ranges []runeRange
	var total int

	for i := 0; i+1 < len(re.Rune); i += 2 {
		lo, hi := re.Rune[i], re.Rune[i+1]
		if hi < printableLo || lo > printableHi {
			continue
		}
		if lo < printableLo {
			lo = printableLo
		}
		if hi > printableHi {
			hi = printableHi
		}
		ranges = append(ranges, runeRange{lo, hi})
		total += int(hi-lo) + 1
	}

	if total == 0 {
		// Nothing printable in the class; fall back to its first range.
		if len(re.Rune) >= 2 {
			lo, hi := re.Rune[0], re.Rune[1]
			return lo + rune(w.r.IntN(int(hi-lo)+1))
		}
		return '?'
	}

	idx := w.r.IntN(total)
	for _, rr := range ranges {
		size := int(rr.hi-rr.lo) + 1
		if idx < size {
			return rr.lo + rune(idx)
		}
		idx -= size
	}
	return ranges[len(ranges)-1].hi
}
