package parser

import (
	"strings"

	"github.com/kittclouds/quantkit/pkg/lexicon"
)

// rangeGaps are the separators that link two quantities into one range
// when they appear alone between the spans.
var rangeGaps = map[string]bool{"to": true, "-": true, "–": true}

// wordsBeforeSpan returns the last k whitespace-separated words before
// the span, lowercased.
func wordsBeforeSpan(text []rune, span [2]int, k int) []string {
	if span[0] <= 0 {
		return nil
	}
	fields := strings.Fields(string(text[:span[0]]))
	if len(fields) > k {
		fields = fields[len(fields)-k:]
	}
	for i, w := range fields {
		fields[i] = strings.ToLower(w)
	}
	return fields
}

// gapBetween is the text separating two quantity spans, trimmed and
// lowercased.
func gapBetween(text []rune, q1, q2 Quantity) (string, bool) {
	if q1.Span[1] > q2.Span[0] || q2.Span[0] > len(text) {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(string(text[q1.Span[1]:q2.Span[0]]))), true
}

// isRanged reports whether two adjacent quantities form a range
// ("44 mg to 50 mg", "between 44 and 50 mg") and returns the combined
// span.
func isRanged(text []rune, q1, q2 Quantity) ([2]int, bool) {
	gap, ok := gapBetween(text, q1, q2)
	if !ok {
		return [2]int{}, false
	}
	if rangeGaps[gap] {
		return [2]int{q1.Span[0], q2.Span[1]}, true
	}
	if gap == "and" {
		for _, w := range wordsBeforeSpan(text, q1.Span, 2) {
			if w == "between" {
				return [2]int{q1.Span[0], q2.Span[1]}, true
			}
		}
	}
	return [2]int{}, false
}

// isCoordinated reports whether two adjacent quantities are linked by a
// conjunction ("45 and 50 mg"), in which case a dimensionless first
// quantity borrows the second one's unit.
func isCoordinated(text []rune, q1, q2 Quantity) bool {
	gap, ok := gapBetween(text, q1, q2)
	if !ok {
		return false
	}
	if gap == "and/or" {
		return true
	}
	return lexicon.Conjunctions[gap]
}

// handleConsecutive reconciles adjacent quantities: ranges collapse to
// midpoint plus uncertainty, coordinated dimensionless values borrow
// the following unit.
func (p *Parser) handleConsecutive(quantities []Quantity, context string) []Quantity {
	if len(quantities) < 2 {
		return quantities
	}

	text := []rune(context)
	results := make([]Quantity, 0, len(quantities))
	skipNext := false
	for i := 0; i < len(quantities)-1; i++ {
		if skipNext {
			skipNext = false
			continue
		}
		q1, q2 := quantities[i], quantities[i+1]

		if span, ok := isRanged(text, q1, q2); ok {
			if (q1.Unit.Name == q2.Unit.Name || q1.Unit.Name == "dimensionless") &&
				q1.Uncertainty == nil && q2.Uncertainty == nil && q1.Value != q2.Value {
				lo, hi := q1.Value, q2.Value
				if hi < lo {
					lo, hi = hi, lo
				}
				value := (lo + hi) / 2
				uncertainty := hi - value
				q1 = Quantity{
					Value:       value,
					Unit:        q2.Unit,
					Surface:     string(text[span[0]:span[1]]),
					Span:        span,
					Uncertainty: &uncertainty,
				}
				skipNext = true
			}
		} else if isCoordinated(text, q1, q2) && q1.Unit.Name == "dimensionless" {
			q1.Unit = q2.Unit
		}
		results = append(results, q1)
	}
	if !skipNext {
		results = append(results, quantities[len(quantities)-1])
	}
	return results
}
