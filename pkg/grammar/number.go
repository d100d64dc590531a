package grammar

import (
	"sync"

	"github.com/dlclark/regexp2"
)

// NumberMatch is one digit-based number found inside a value string, with
// the exponent sub-parts split out for exponent resolution.
type NumberMatch struct {
	Number   string
	Scale    string // full exponent clause, e.g. "x10^5" or "2^4"
	Base     string
	Exponent string
	Fraction string
}

var (
	numberOnce sync.Once
	numberRe   *regexp2.Regexp
)

// FindNumbers extracts every number in the value string with its named
// sub-parts. The pattern is catalog-independent and compiled once.
func FindNumbers(value string) []NumberMatch {
	numberOnce.Do(func() {
		numberRe = regexp2.MustCompile(numberPattern(true), regexp2.IgnoreCase)
	})
	var out []NumberMatch
	m, _ := numberRe.FindStringMatch(value)
	for m != nil {
		nm := NumberMatch{}
		if g := groupOf(m, "number"); g != nil {
			nm.Number = g.String()
		}
		if g := groupOf(m, "scale"); g != nil {
			nm.Scale = g.String()
		}
		if g := groupOf(m, "base"); g != nil {
			nm.Base = g.String()
		}
		if g := groupOf(m, "exponent"); g != nil {
			nm.Exponent = g.String()
		}
		if g := groupOf(m, "fraction"); g != nil {
			nm.Fraction = g.String()
		}
		if nm.Number != "" || nm.Fraction != "" {
			out = append(out, nm)
		}
		m, _ = numberRe.FindNextMatch(m)
	}
	return out
}
