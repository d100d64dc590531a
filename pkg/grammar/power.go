package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kittclouds/quantkit/pkg/lexicon"
)

var (
	digitPowerRe = regexp.MustCompile(`-?[0-9` + superscripts + `]+`)
	powerStripRe = regexp.MustCompile(`\^?-?[0-9` + superscripts + `]+`)
	writtenRe    = func() *regexp.Regexp {
		words := make([]string, 0, len(lexicon.Powers))
		for w := range lexicon.Powers {
			words = append(words, w)
		}
		sortLongestFirst(words)
		return regexp.MustCompile(`\b(` + strings.Join(words, "|") + `)\b`)
	}()
)

// ParsePower splits one matched unit segment into its bare surface and
// its exponent: "m²" yields ("m", 2), "km^2" yields ("km", 2), "metres
// squared" yields ("metres", 2). The slash flag negates the power for
// segments on the divisor side.
func ParsePower(unitText string, slash bool) (string, int) {
	surface := strings.ReplaceAll(unitText, ".", "")

	if digits := digitPowerRe.FindString(surface); digits != "" {
		power, _ := strconv.Atoi(TranslateSuperscripts(digits))
		if slash {
			power = -power
		}
		return powerStripRe.ReplaceAllString(surface, ""), power
	}

	if word := writtenRe.FindString(surface); word != "" {
		power := lexicon.Powers[word]
		if slash {
			power = -power
		}
		surface = strings.TrimSpace(strings.Replace(surface, word, "", 1))
		return surface, power
	}

	if slash {
		return surface, -1
	}
	return surface, 1
}

// TranslateSuperscripts rewrites unicode superscript digits as ASCII.
func TranslateSuperscripts(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := lexicon.SuperscriptDigits[r]; ok {
			return d
		}
		return r
	}, s)
}
