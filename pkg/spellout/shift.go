package spellout

import "sort"

// ShiftMap translates rune offsets in substituted text back to offsets in
// the original text. Each substitution introduces a cumulative delta that
// applies from just after its start position onward; positions before the
// first substitution shift by zero.
type ShiftMap struct {
	breaks []shiftBreak
}

type shiftBreak struct {
	pos   int // first substituted-text position the shift applies to
	shift int
}

// At returns the cumulative shift in effect at the given substituted-text
// position.
func (m *ShiftMap) At(pos int) int {
	if m == nil || len(m.breaks) == 0 {
		return 0
	}
	idx := sort.Search(len(m.breaks), func(i int) bool { return m.breaks[i].pos > pos })
	if idx == 0 {
		return 0
	}
	return m.breaks[idx-1].shift
}

// Span maps a [start,end) span in substituted text to the corresponding
// original-text span. The end position shifts by the delta in effect at
// its last covered rune, so a span ending inside a substitution still maps
// onto the replaced surface.
func (m *ShiftMap) Span(start, end int) (int, int) {
	return start - m.At(start), end - m.At(end - 1)
}

// Substitute applies the substitutions (which must be sorted by start and
// non-overlapping, as Extract returns them) and builds the ShiftMap for
// translating offsets back.
func Substitute(text string, subs []Substitution) (string, *ShiftMap) {
	runes := []rune(text)
	m := &ShiftMap{}
	if len(subs) == 0 {
		return text, m
	}

	out := make([]rune, 0, len(runes))
	shift := 0
	prev := 0
	for _, sub := range subs {
		out = append(out, runes[prev:sub.Start]...)
		first := len(out)
		out = append(out, []rune(sub.Replacement)...)
		prev = sub.End
		shift += len([]rune(sub.Replacement)) - (sub.End - sub.Start)
		m.breaks = append(m.breaks, shiftBreak{pos: first + 1, shift: shift})
	}
	out = append(out, runes[prev:]...)
	return string(out), m
}
