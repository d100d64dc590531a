package lexicon

import (
	"strings"
)

// irregularPlurals covers the unit vocabulary; anything else goes through
// the suffix rules below.
var irregularPlurals = map[string]string{
	"foot":  "feet",
	"tooth": "teeth",
	"man":   "men",
	"woman": "women",
	"penny": "pence",
	"half":  "halves",
	"leaf":  "leaves",
	"knife": "knives",
	"hertz": "hertz",
}

// Pluralize returns the English plural of a unit surface. Multi-word
// surfaces pluralize only the head noun: the segment before " per "
// ("metre per second" -> "metres per second") or the word "degree"
// ("degree Celsius" -> "degrees Celsius").
func Pluralize(singular string) string {
	split := strings.Split(singular, " ")
	for i, word := range split {
		if word == "per" && i > 0 {
			return Pluralize(strings.Join(split[:i], " ")) + " " + strings.Join(split[i:], " ")
		}
	}
	if len(split) >= 2 && split[len(split)-2] == "degree" {
		head := append([]string{}, split[:len(split)-2]...)
		head = append(head, "degrees", split[len(split)-1])
		return strings.Join(head, " ")
	}
	return pluralizeWord(singular)
}

func pluralizeWord(word string) string {
	if word == "" {
		return word
	}
	if p, ok := irregularPlurals[word]; ok {
		return p
	}
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "s"),
		strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	default:
		return word + "s"
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// NumberToWords renders a float as spoken English ("105" -> "one hundred
// and five"). Decimals are read digit by digit after "point".
func NumberToWords(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	intPart := int64(value)
	frac := value - float64(intPart)

	words := intToWords(intPart)
	if frac > 1e-9 {
		// Render up to 6 fractional digits, dropping trailing zeros.
		digits := strings.TrimRight(formatFrac(frac, 6), "0")
		if digits != "" {
			parts := []string{words, "point"}
			for _, d := range digits {
				parts = append(parts, UnitWords[d-'0'])
			}
			words = strings.Join(parts, " ")
		}
	}
	if negative {
		words = "minus " + words
	}
	return words
}

func formatFrac(frac float64, digits int) string {
	var b strings.Builder
	for i := 0; i < digits; i++ {
		frac *= 10
		d := int(frac)
		if d > 9 {
			d = 9
		}
		b.WriteByte(byte('0' + d))
		frac -= float64(d)
	}
	return b.String()
}

func intToWords(n int64) string {
	if n < 20 {
		return UnitWords[n]
	}
	if n < 100 {
		tens := TenWords[n/10]
		if n%10 == 0 {
			return tens
		}
		return tens + "-" + UnitWords[n%10]
	}
	if n < 1000 {
		out := UnitWords[n/100] + " hundred"
		if rest := n % 100; rest != 0 {
			out += " and " + intToWords(rest)
		}
		return out
	}
	scales := []struct {
		value int64
		name  string
	}{
		{1e12, "trillion"},
		{1e9, "billion"},
		{1e6, "million"},
		{1e3, "thousand"},
	}
	for _, s := range scales {
		if n >= s.value {
			out := intToWords(n/s.value) + " " + s.name
			if rest := n % s.value; rest != 0 {
				if rest < 100 {
					out += " and " + intToWords(rest)
				} else {
					out += " " + intToWords(rest)
				}
			}
			return out
		}
	}
	return UnitWords[0]
}
