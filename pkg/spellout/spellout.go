// Package spellout finds spelled-out and mixed digit/word numbers in text
// and computes their decimal value, tracking the original span so callers
// can substitute the text and later map match offsets back.
package spellout

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/kittclouds/quantkit/pkg/lexicon"
)

// Substitution is one spelled-out number found in the text: the original
// rune span and surface, the numeric value, and the decimal string that
// replaces it.
type Substitution struct {
	Start       int
	End         int
	Surface     string
	Value       float64
	Replacement string
}

type category int

const (
	catOther category = iota
	catUnit
	catTen
	catScale
	catDecimal
	catConnector // and, &
	catArticle   // a, an
	catNegative
	catNumeric
	catComma
)

type token struct {
	text  string
	start int // rune offset
	end   int
	cat   category
	value float64 // increment for units/tens/numerics, factor for decimals
	scale float64 // scale value for scale words
}

// Extract scans the text and returns all spellout substitutions in span
// order. The text itself is not modified; see Substitute.
func Extract(text string) []Substitution {
	runes := []rune(text)
	tokens := tokenize(runes)
	var subs []Substitution
	for _, run := range splitRuns(tokens, runes) {
		for _, phrase := range splitPhrases(run) {
			if !keepPhrase(phrase) {
				continue
			}
			value := evalPhrase(phrase)
			start := phrase[0].start
			end := phrase[len(phrase)-1].end
			subs = append(subs, Substitution{
				Start:       start,
				End:         end,
				Surface:     string(runes[start:end]),
				Value:       value,
				Replacement: formatValue(value),
			})
		}
	}
	return subs
}

// tokenize splits the text into word, numeric and comma tokens with rune
// spans. Spaces and hyphens emit no token, so splitRuns sees them only as
// gaps; anything else unrecognized becomes catOther and breaks runs.
func tokenize(runes []rune) []token {
	var tokens []token
	words := lexicon.NumberWords()
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsLetter(r) || r == '&':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || runes[j] == '&') {
				j++
			}
			word := string(runes[i:j])
			tokens = append(tokens, classifyWord(word, i, j, words))
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) {
				if unicode.IsDigit(runes[j]) {
					j++
					continue
				}
				// Grouping comma inside a number, "1,000".
				if runes[j] == ',' && j+3 < len(runes) &&
					unicode.IsDigit(runes[j+1]) && unicode.IsDigit(runes[j+2]) && unicode.IsDigit(runes[j+3]) &&
					(j+4 >= len(runes) || !unicode.IsDigit(runes[j+4])) {
					j += 4
					continue
				}
				if runes[j] == '.' && j+1 < len(runes) && unicode.IsDigit(runes[j+1]) {
					j += 2
					continue
				}
				break
			}
			raw := string(runes[i:j])
			v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			cat := catNumeric
			if err != nil {
				cat = catOther
			}
			tokens = append(tokens, token{text: raw, start: i, end: j, cat: cat, value: v})
			i = j
		case r == ',':
			tokens = append(tokens, token{text: ",", start: i, end: i + 1, cat: catComma})
			i++
		case r == ' ' || r == '-':
			i++
		default:
			tokens = append(tokens, token{text: string(r), start: i, end: i + 1, cat: catOther})
			i++
		}
	}
	return tokens
}

func classifyWord(word string, start, end int, words map[string]lexicon.NumberWord) token {
	lower := strings.ToLower(word)
	tok := token{text: word, start: start, end: end}
	switch {
	case lexicon.Negatives[lower]:
		tok.cat = catNegative
	case lower == "and" || lower == "&":
		tok.cat = catConnector
	case lower == "a" || lower == "an":
		tok.cat = catArticle
	case lexicon.IsScaleWord(lower):
		tok.cat = catScale
		tok.scale = lexicon.ScaleValue(lower)
	default:
		nw, ok := words[lower]
		if !ok {
			tok.cat = catOther
			return tok
		}
		if nw.Scale < 1 {
			tok.cat = catDecimal
			tok.value = nw.Scale
		} else if nw.Increment >= 20 {
			tok.cat = catTen
			tok.value = nw.Increment
		} else {
			tok.cat = catUnit
			tok.value = nw.Increment
		}
	}
	return tok
}

// splitRuns groups consecutive number-ish tokens whose separating text is
// only spaces and hyphens. Runs without any word token are dropped so
// already-numeric text is left alone.
func splitRuns(tokens []token, runes []rune) [][]token {
	var runs [][]token
	var run []token
	flush := func() {
		if hasWordToken(run) {
			runs = append(runs, run)
		}
		run = nil
	}
	prevEnd := -1
	for _, tok := range tokens {
		if tok.cat == catOther {
			flush()
			prevEnd = -1
			continue
		}
		if len(run) > 0 && !gapJoinable(runes[prevEnd:tok.start]) {
			flush()
		}
		run = append(run, tok)
		prevEnd = tok.end
	}
	flush()
	return runs
}

func gapJoinable(gap []rune) bool {
	for _, r := range gap {
		if r != ' ' && r != '-' {
			return false
		}
	}
	return true
}

func hasWordToken(run []token) bool {
	for _, tok := range run {
		switch tok.cat {
		case catUnit, catTen, catScale, catDecimal, catArticle:
			return true
		}
	}
	return false
}

// phraseState tracks the accumulator while deciding phrase boundaries. The
// same update rules are replayed by evalPhrase once boundaries are fixed.
type phraseState struct {
	curr     float64
	result   float64
	maxScale float64
	prevCat  category
	tokens   []token
	hasScale bool
}

func (s *phraseState) empty() bool { return len(s.tokens) == 0 }

func (s *phraseState) push(tok token) {
	switch tok.cat {
	case catUnit, catTen, catNumeric:
		s.curr += tok.value
	case catArticle:
		s.curr++
	case catDecimal:
		if s.prevCat == catArticle {
			s.curr--
		}
		s.curr += tok.value
	case catScale:
		if s.curr == 0 {
			s.curr = 1
		}
		s.curr *= tok.scale
		if tok.scale > 100 {
			s.result += s.curr
			s.curr = 0
		}
		if tok.scale > s.maxScale {
			s.maxScale = tok.scale
		}
		s.hasScale = true
	}
	s.prevCat = tok.cat
	s.tokens = append(s.tokens, tok)
}

// splitPhrases cuts one run into independent numeric phrases. Commas
// always split; "and" splits unless the phrase already carries a scale
// word or a decimal fraction follows; adjacent same-rank words ("twenty
// thirty", "one two") split; a scale word splits when it can no longer
// attach additively to the running total.
func splitPhrases(run []token) [][]token {
	var phrases [][]token
	state := &phraseState{}
	end := func() {
		toks := trimPhrase(state.tokens)
		if len(toks) > 0 {
			phrases = append(phrases, toks)
		}
		state = &phraseState{}
	}

	for i := 0; i < len(run); i++ {
		tok := run[i]
		switch tok.cat {
		case catComma:
			end()
		case catNegative:
			end()
			state.push(tok)
		case catConnector:
			if state.empty() || !connectorJoins(state, run, i) {
				end()
				continue
			}
			state.push(tok)
		case catArticle:
			// A leading article before a plain unit or ten is the
			// indefinite article, not part of the number.
			if state.empty() && i+1 < len(run) &&
				(run[i+1].cat == catUnit || run[i+1].cat == catTen) {
				continue
			}
			state.push(tok)
		case catScale:
			if !state.empty() && !scaleJoins(state, tok.scale) {
				end()
			}
			state.push(tok)
		case catUnit, catNumeric:
			if state.prevCat == catUnit || state.prevCat == catNumeric {
				end()
			}
			state.push(tok)
		case catTen:
			switch state.prevCat {
			case catUnit, catTen, catNumeric:
				end()
			}
			state.push(tok)
		case catDecimal:
			state.push(tok)
		}
	}
	end()
	return phrases
}

// connectorJoins decides whether "and" continues the current phrase.
func connectorJoins(state *phraseState, run []token, i int) bool {
	if state.hasScale {
		return true
	}
	if i+1 < len(run) {
		next := run[i+1]
		if next.cat == catDecimal {
			return true
		}
		if next.cat == catArticle && i+2 < len(run) && run[i+2].cat == catDecimal {
			return true
		}
	}
	return false
}

// scaleJoins decides whether an incoming scale word still attaches
// additively: a larger scale than any seen always joins ("five hundred
// twenty THOUSAND"), as does one whose product stays below the phrase
// maximum ("seventy two HUNDRED" after millions). Otherwise the word
// starts a new number ("hundred and five HUNDRED and six").
func scaleJoins(state *phraseState, scale float64) bool {
	return scale > state.maxScale || state.curr*scale < state.maxScale
}

// trimPhrase drops trailing connectors and articles, which belong to the
// following prose rather than the number. A phrase that is a single
// article survives: "a" on its own reads as one.
func trimPhrase(toks []token) []token {
	for len(toks) > 1 {
		last := toks[len(toks)-1].cat
		if last != catConnector && last != catArticle {
			break
		}
		toks = toks[:len(toks)-1]
	}
	return toks
}

// keepPhrase rejects phrases with no number word in them and the lone
// word "hundred", which in prose is noise ("several hundred years").
// Larger bare scales ("million") do denote a number.
func keepPhrase(toks []token) bool {
	hasWord := false
	for _, tok := range toks {
		switch tok.cat {
		case catUnit, catTen, catScale, catDecimal, catArticle:
			hasWord = true
		}
	}
	if !hasWord {
		return false
	}
	if len(toks) == 1 && toks[0].cat == catScale && toks[0].scale <= 100 {
		return false
	}
	if len(toks) == 1 && toks[0].cat == catNegative {
		return false
	}
	return true
}

// evalPhrase computes the value of a fixed phrase with the accumulator
// rules of push, applying a leading negation sign at the end.
func evalPhrase(toks []token) float64 {
	sign := 1.0
	state := &phraseState{}
	for _, tok := range toks {
		if tok.cat == catNegative {
			sign = -1
			continue
		}
		state.push(tok)
	}
	return sign * (state.result + state.curr)
}

// formatValue renders the value the way the substituted text expects:
// whole numbers keep a trailing ".0" so the scanner still sees a decimal.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
