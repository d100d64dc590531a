// Package lexicon holds the en_US word tables the spellout resolver and the
// unit grammar are built from: number words, magnitude suffixes, operators,
// range/uncertainty markers and superscript/fraction translations.
package lexicon

import "sync"

// UnitWords are the spelled-out numbers 0-19, indexed by value.
var UnitWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen",
}

// TenWords are the tens 20-90. The first two slots are placeholders so the
// index times ten is the value.
var TenWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

// ScaleWords are multiplicative scales; index 0 is worth 100, every
// following index is worth 10^(3*index).
var ScaleWords = []string{"hundred", "thousand", "million", "billion", "trillion"}

// Decimals map spelled-out fractions to their value.
var Decimals = map[string]float64{
	"half":    0.5,
	"third":   1.0 / 3.0,
	"fourth":  0.25,
	"quarter": 0.25,
	"fifth":   0.2,
	"sixth":   1.0 / 6.0,
	"seventh": 1.0 / 7.0,
	"eighth":  1.0 / 8.0,
	"ninth":   1.0 / 9.0,
}

// NumberWord is the (scale, increment) contribution of one token to a
// spelled-out number: current = current*Scale + Increment.
type NumberWord struct {
	Scale     float64
	Increment float64
}

// MiscNum are connector words that may appear inside a spelled-out number.
var MiscNum = map[string]NumberWord{
	"&":   {1, 0},
	"and": {1, 0},
	"a":   {1, 1},
	"an":  {1, 1},
}

// Negatives flip the sign of the phrase they precede.
var Negatives = map[string]bool{"minus": true, "negative": true}

// Suffixes are colloquial magnitude markers ("$3M", "5k miles").
var Suffixes = map[string]float64{
	"k": 1e3, "K": 1e3, "M": 1e6, "B": 1e9, "T": 1e12,
}

// Powers are written exponents trailing a unit ("metres squared").
var Powers = map[string]int{"squared": 2, "cubed": 3}

var (
	MultiplicationOperators = []string{"*", " ", "·", "x", " times "}
	DivisionOperators       = []string{"/", " per ", " a "}
	GroupingOperators       = []string{",", " "}
	DecimalOperators        = []string{"."}

	// Ranges and Uncertainties separate the two halves of "3 to 5" and
	// "3 +/- 0.5" style values.
	Ranges        = []string{"-", "to"}
	Uncertainties = []string{`\+/-`, "±", "plus minus", "plus or minus"}

	// Conjunctions coordinate two adjacent quantities ("45 and 50 mg").
	Conjunctions = map[string]bool{"and": true, "or": true, "but": true}
)

// SuperscriptDigits translates unicode superscripts to ASCII digits.
var SuperscriptDigits = map[rune]rune{
	'¹': '1', '²': '2', '³': '3',
	'⁴': '4', '⁵': '5', '⁶': '6', '⁷': '7',
	'⁸': '8', '⁹': '9', '⁰': '0',
}

// VulgarFractions translates unicode fraction glyphs to ASCII fractions.
var VulgarFractions = map[string]string{
	"¼": "1/4", "½": "1/2", "¾": "3/4",
	"⅐": "1/7", "⅑": "1/9", "⅒": "1/10",
	"⅓": "1/3", "⅔": "2/3",
	"⅕": "1/5", "⅖": "2/5", "⅗": "3/5", "⅘": "4/5",
	"⅙": "1/6", "⅚": "5/6",
	"⅛": "1/8", "⅜": "3/8", "⅝": "5/8", "⅞": "7/8",
}

var (
	numberWordsOnce sync.Once
	numberWords     map[string]NumberWord
)

// NumberWords returns the combined token table used by the spellout
// resolver: units, tens, scales, decimal fractions (singular and plural)
// and connector words.
func NumberWords() map[string]NumberWord {
	numberWordsOnce.Do(func() {
		numberWords = make(map[string]NumberWord, 64)
		for word, nw := range MiscNum {
			numberWords[word] = nw
		}
		for idx, word := range UnitWords {
			numberWords[word] = NumberWord{1, float64(idx)}
		}
		for idx, word := range TenWords {
			if word == "" {
				continue
			}
			numberWords[word] = NumberWord{1, float64(idx * 10)}
		}
		for idx, word := range ScaleWords {
			scale := 100.0
			if idx > 0 {
				scale = pow10(3 * idx)
			}
			numberWords[word] = NumberWord{scale, 0}
		}
		for word, factor := range Decimals {
			numberWords[word] = NumberWord{factor, 0}
			numberWords[Pluralize(word)] = NumberWord{factor, 0}
		}
	})
	return numberWords
}

// IsScaleWord reports whether the word is a bare multiplicative scale.
func IsScaleWord(word string) bool {
	for _, s := range ScaleWords {
		if s == word {
			return true
		}
	}
	return false
}

// ScaleValue returns the numeric value of a scale word, or 0.
func ScaleValue(word string) float64 {
	for idx, s := range ScaleWords {
		if s == word {
			if idx == 0 {
				return 100
			}
			return pow10(3 * idx)
		}
	}
	return 0
}

func pow10(n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
