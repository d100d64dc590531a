package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kittclouds/quantkit/pkg/catalog"
	"github.com/kittclouds/quantkit/pkg/lexicon"
)

const (
	superscripts = "¹²³⁴⁵⁶⁷⁸⁹⁰"
	fractions    = "¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞"
)

// multOpsAlternation is the multiplication operators as an escaped
// alternation, longest first so " times " wins over the bare space.
func multOpsAlternation() string {
	ops := append([]string(nil), lexicon.MultiplicationOperators...)
	sortLongestFirst(ops)
	escaped := make([]string, len(ops))
	for i, op := range ops {
		escaped[i] = regexp.QuoteMeta(op)
	}
	return strings.Join(escaped, "|")
}

// numberPattern is the digit-based number sub-grammar: optional sign,
// digits or a vulgar fraction glyph, optional thousands grouping and
// decimals, optional exponent notation, optional trailing fraction. When
// named is true the sub-parts carry group names for exponent resolution.
func numberPattern(named bool) string {
	name := func(n string) string {
		if named {
			return "?<" + n + ">"
		}
		return "?:"
	}
	return fmt.Sprintf(
		`(%s[+-]?(?:\.?\d+|[%s])(?:[, ]\d{3})*(%s[.]\d+)?)`+
			`(%s(?:%s)?(%s(?:E|e|\d+)\^?)(%s[+-]?\d+|[%s]))?`+
			`(%s \d+/\d+| ?[%s]|/\d+)?`,
		name("number"), fractions, name("decimals"),
		name("scale"), multOpsAlternation(), name("base"), name("exponent"), superscripts,
		name("fraction"), fractions)
}

// rangePattern wraps two number patterns around an optional range or
// uncertainty separator ("3 to 5", "3-5", "3 +/- 0.5").
func rangePattern() string {
	num := numberPattern(false)
	seps := append(append([]string(nil), lexicon.Ranges...), lexicon.Uncertainties...)
	return fmt.Sprintf(`(?:(?<![a-zA-Z0-9+.-])%s)(?: ?(?:(?:- )?(?:%s)) ?%s)?`,
		num, strings.Join(seps, "|"), num)
}

// exponentPattern is the optional trailing exponent of a unit segment:
// "^2", a superscript digit run, or a written power word.
func exponentPattern() string {
	words := make([]string, 0, len(lexicon.Powers))
	for w := range lexicon.Powers {
		words = append(words, w)
	}
	sortLongestFirst(words)
	return fmt.Sprintf(`(?:(?:\^?\-?[0-9%s]+)?(?: (?:%s))?)`, superscripts, strings.Join(words, "|"))
}

// operatorsAlternation joins every multiplication and division operator,
// each allowing surrounding whitespace, longest first.
func operatorsAlternation() string {
	seen := make(map[string]bool)
	var ops []string
	for _, op := range lexicon.MultiplicationOperators {
		if !seen[op] {
			seen[op] = true
			ops = append(ops, op)
		}
	}
	for _, op := range lexicon.DivisionOperators {
		if !seen[op] {
			seen[op] = true
			ops = append(ops, op)
		}
	}
	escaped := make([]string, len(ops))
	for i, op := range ops {
		escaped[i] = `\s*` + regexp.QuoteMeta(op) + `\s*`
	}
	sortLongestFirst(escaped)
	return strings.Join(escaped, "|")
}

// unitsAlternation joins every catalog surface and symbol, longest first
// so compound surfaces win over their own prefixes.
func unitsAlternation(c *catalog.Catalog) string {
	forms := c.SurfaceForms()
	escaped := make([]string, len(forms))
	for i, f := range forms {
		escaped[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(escaped, "|")
}

func prefixAlternation(c *catalog.Catalog) string {
	syms := c.PrefixSymbols()
	escaped := make([]string, len(syms))
	for i, s := range syms {
		escaped[i] = regexp.QuoteMeta(s)
	}
	return strings.Join(escaped, "|")
}

// quantityPattern assembles the full scanner pattern: word-boundary
// anchored, an optional currency prefix symbol, the number, then up to
// four (operator, unit) pairs. Each operator requires a unit to follow
// via lookahead so trailing prose is not absorbed as an operator.
func quantityPattern(c *catalog.Catalog) string {
	units := unitsAlternation(c)
	ops := operatorsAlternation()
	exp := exponentPattern()

	var b strings.Builder
	b.WriteString(`(?<!\w)`)
	fmt.Fprintf(&b, `(?<prefix>(?:%s)(?![a-zA-Z]))?`, prefixAlternation(c))
	fmt.Fprintf(&b, `(?<value>%s)-?`, rangePattern())
	for i := 1; i <= maxSegments; i++ {
		fmt.Fprintf(&b, `(?:(?<operator%d>(?:%s)(?=(?:%s)%s))?(?<unit%d>(?:%s)%s)?)`,
			i, ops, units, exp, i, units, exp)
	}
	b.WriteString(`(?!\w)`)
	return b.String()
}

func sortLongestFirst(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && longer(ss[j], ss[j-1]); j-- {
			ss[j], ss[j-1] = ss[j-1], ss[j]
		}
	}
}

func longer(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a < b
}
