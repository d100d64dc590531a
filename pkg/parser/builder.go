package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kittclouds/quantkit/pkg/catalog"
	"github.com/kittclouds/quantkit/pkg/grammar"
	"github.com/kittclouds/quantkit/pkg/lexicon"
	"github.com/kittclouds/quantkit/pkg/resolve"
)

var (
	ordinalRe       = regexp.MustCompile(`1st|2nd|3rd|[04-9]th`)
	codeRe          = regexp.MustCompile(`\d+[A-Z]+\d+`)
	aSecondRe       = regexp.MustCompile(`(?i)\ba second\b`)
	decadeRe        = regexp.MustCompile(`^[1-2]\d\d0s`)
	quoteArtifactRe = regexp.MustCompile(`["'][^ .,:;?!()*+-].*?["']`)
)

// buildQuantity applies the correction heuristics to one resolved
// match and emits a quantity per value. A nil slice with nil error
// means the match was judged meaningless and discarded.
func (p *Parser) buildQuantity(orig []rune, text string, m *grammar.Match, values []float64,
	unit *catalog.Unit, segs []resolve.Segment, surface string, span [2]int, uncertainty *float64) ([]Quantity, error) {

	// Cardinal articles, ordinals and serial codes are not quantities.
	lower := strings.ToLower(surface)
	if lower == "a" || lower == "an" || lower == "one" ||
		ordinalRe.MatchString(surface) || codeRe.MatchString(surface) ||
		aSecondRe.MatchString(surface) {
		p.log.Debug("meaningless quantity, discarding", zap.String("surface", surface))
		return nil, nil
	}

	changed := false

	entityDims := unit.Entity.Dimensions
	switch {
	case len(entityDims) > 0:
		// "$3T" is three trillion dollars, not dollar-teslas; "5k
		// miles" is five thousand miles.
		if len(entityDims) > 1 && entityDims[0].Base == "currency" &&
			len(segs) > 1 && isSuffix(segs[1].Surface) {
			suffix := segs[1].Surface
			if regexp.MustCompile(`\d` + suffix + `\b`).MatchString(text) {
				values = scaleValues(values, lexicon.Suffixes[suffix])
				segs = append(segs[:1:1], segs[2:]...)
				changed = true
			}
		} else if len(segs) > 0 && isSuffix(segs[0].Surface) {
			// Only colloquial (non-symbolic) trailing units take a
			// magnitude suffix.
			symbolic := true
			for _, s := range segs[1:] {
				if !s.Unit.HasSymbol(s.Surface) {
					symbolic = false
					break
				}
			}
			if !symbolic {
				values = scaleValues(values, lexicon.Suffixes[segs[0].Surface])
				segs = segs[1:]
				changed = true
			}
		}

	case decadeRe.MatchString(surface):
		// "1990s" is the decade, not seconds.
		segs = nil
		changed = true
		surface = surface[:len(surface)-1]
		span[1]--
		p.log.Debug("corrected decade pattern")
	}

	if len(segs) > 0 {
		// Trailing "in" is usually the preposition, not inches.
		if segs[len(segs)-1].Unit.Name == "inch" &&
			strings.HasSuffix(surface, " in") && !strings.Contains(surface, "/") {
			segs = segs[:len(segs)-1]
			changed = true
			surface = surface[:len(surface)-3]
			span[1] -= 3
			p.log.Debug("corrected trailing in")
		}

		if cut, cutStart, cutSegs := p.commonWordCut(segs, surface); cut {
			span[1] = span[0] + cutStart
			surface = string([]rune(surface)[:cutStart])
			segs = cutSegs
			changed = true
		}
	}

	if isQuoteArtifact(text, m.Start, m.End) && len(surface) > 0 {
		surface = surface[:len(surface)-1]
		span[1]--
		if len(segs) > 0 && segs[len(segs)-1].Surface == `"` {
			segs = segs[:len(segs)-1]
			changed = true
		}
		p.log.Debug("corrected quote artifact")
	}

	// "3 times" is a count of repetitions, not "3 <unit> counts".
	if strings.HasSuffix(surface, " time") && len(segs) > 1 &&
		segs[len(segs)-1].Unit.Name == "count" {
		segs = segs[:len(segs)-1]
		changed = true
		surface = surface[:len(surface)-5]
		span[1] -= 5
		p.log.Debug("corrected trailing time")
	}

	if changed {
		var err error
		unit, err = p.resolver.FromSegments(segs, string(orig))
		if err != nil {
			return nil, err
		}
	}

	quantities := make([]Quantity, 0, len(values))
	for _, value := range values {
		quantities = append(quantities, Quantity{
			Value:       value,
			Unit:        unit,
			Surface:     surface,
			Span:        span,
			Uncertainty: uncertainty,
		})
	}
	return quantities, nil
}

func scaleValues(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}

// commonWordCut looks for a run of consecutive power-1 segments whose
// concatenated surfaces spell an ordinary word ("5 dollars can" must
// not read "can" as a unit). The surface is cut before the word.
func (p *Parser) commonWordCut(segs []resolve.Segment, surface string) (bool, int, []resolve.Segment) {
	flat := make([]bool, len(segs))
	for i, s := range segs {
		flat[i] = s.Power == 1
	}

	for start := 0; start < len(segs); start++ {
		for end := len(segs); end > start; end-- {
			if !allTrue(flat[start:end]) {
				continue
			}
			var b strings.Builder
			for _, s := range segs[start:end] {
				b.WriteString(s.Surface)
			}
			combination := b.String()
			if combination == "" || !plainWordCase(combination) {
				continue
			}
			if !strings.Contains(surface, combination) {
				continue
			}
			if !p.dict.IsCommon(combination) {
				continue
			}
			re := regexp.MustCompile(`[-\s]` + regexp.QuoteMeta(combination) + `\b`)
			loc := re.FindStringIndex(surface)
			if loc == nil {
				continue
			}
			cutStart := utf8.RuneCountInString(surface[:loc[0]])
			p.log.Debug("detected common word, removing it", zap.String("word", combination))
			return true, cutStart, segs[:start]
		}
	}
	return false, 0, nil
}

func allTrue(flags []bool) bool {
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}

// plainWordCase accepts all-lowercase, Capitalized and ALL-CAPS forms;
// anything mixed is unit notation, not a word.
func plainWordCase(s string) bool {
	if s == strings.ToLower(s) {
		return true
	}
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	runes := []rune(s)
	if unicode.IsUpper(runes[0]) && string(runes[1:]) == strings.ToLower(string(runes[1:])) {
		return true
	}
	return s == strings.ToUpper(s)
}

// isQuoteArtifact reports whether the match ends inside a quoted
// phrase, which means a trailing ' or " is a quote mark and not feet
// or inches.
func isQuoteArtifact(text string, matchStart, matchEnd int) bool {
	for _, loc := range quoteArtifactRe.FindAllStringIndex(text, -1) {
		end := utf8.RuneCountInString(text[:loc[1]])
		if matchStart <= end && end <= matchEnd {
			return true
		}
	}
	return false
}
