// Package parser extracts quantities ("4.2 gallons", "$1.3M", "30-35
// °C") from unstructured text. Spelled-out numbers are normalized to
// digits first, the unit grammar scans the normalized text, and every
// match is resolved, corrected and reconciled back to a span in the
// original text.
package parser

import (
	"strings"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"github.com/kittclouds/quantkit/pkg/catalog"
	"github.com/kittclouds/quantkit/pkg/grammar"
	"github.com/kittclouds/quantkit/pkg/lexicon"
	"github.com/kittclouds/quantkit/pkg/resolve"
	"github.com/kittclouds/quantkit/pkg/spellout"
)

var genitiveRe = regexp2.MustCompile(`(?<=\w)('s\b|s')(?!\w)`, 0)

// asciiEquivalents are rune-for-rune replacements, so cleaning never
// moves offsets.
var asciiEquivalents = map[rune]rune{'×': 'x', '–': '-', '−': '-'}

// cleanText normalizes unicode lookalikes and blanks out genitives
// before scanning. The result has the same rune length as the input.
func cleanText(text string) string {
	text = strings.Map(func(r rune) rune {
		if sub, ok := asciiEquivalents[r]; ok {
			return sub
		}
		return r
	}, text)
	cleaned, err := genitiveRe.Replace(text, "  ", -1, -1)
	if err != nil {
		return text
	}
	return cleaned
}

// Parse extracts all quantities from the text. Matches that cannot be
// resolved to a unit or a number are skipped individually; a scan
// budget overrun returns the quantities found so far alongside the
// error.
func (p *Parser) Parse(text string) ([]Quantity, error) {
	orig := []rune(text)
	cleaned := cleanText(text)
	subs := spellout.Extract(cleaned)
	substituted, shifts := spellout.Substitute(cleaned, subs)
	p.log.Debug("text after numeric conversion", zap.String("text", substituted))

	matches, scanErr := p.grammar.FindAll(substituted)

	var quantities []Quantity
	for i := range matches {
		m := &matches[i]
		p.log.Debug("quantity found", zap.String("surface", m.Surface))

		values, uncertainty, err := getValues(m.Value)
		if err != nil {
			p.log.Debug("could not parse quantity", zap.Error(err))
			continue
		}
		unit, segments, shortening, err := p.unitFromMatch(m, substituted)
		if err != nil {
			p.log.Debug("could not parse quantity", zap.Error(err))
			continue
		}
		surface, span := getSurface(shifts, orig, m, []rune(substituted), shortening)
		objs, err := p.buildQuantity(orig, substituted, m, values, unit, segments, surface, span, uncertainty)
		if err != nil {
			p.log.Debug("could not parse quantity", zap.Error(err))
			continue
		}
		quantities = append(quantities, objs...)
	}

	quantities = p.handleConsecutive(quantities, string(orig))
	return quantities, scanErr
}

// unitFromMatch resolves the matched unit segments into one unit.
// Inconsistent operator chains are truncated; the returned shortening
// is how many runes of the match the truncation discards.
func (p *Parser) unitFromMatch(m *grammar.Match, context string) (*catalog.Unit, []resolve.Segment, int, error) {
	if m.Prefix == "" && !m.HasUnits() {
		return p.catalog.Dimensionless(), nil, 0, nil
	}

	var (
		segments     []resolve.Segment
		slash        bool
		consistentOp string
		haveOp       bool
		shortening   int
	)
	for index := 0; index <= grammarSegments; index++ {
		var unitText, op string
		var opStart int
		if index == 0 {
			unitText = m.Prefix
		} else {
			unitText = m.Units[index]
			op = m.Ops[index]
			opStart = m.OpStarts[index]
		}

		// Enforce one multiplication operator per match so prose after
		// the unit is not absorbed ("2 m in front"). The space before
		// the first unit and colloquial suffixes ("5k miles") are
		// exempt; an empty op counts as its own operator kind.
		spaceOp := op != "" && strings.TrimSpace(op) == ""
		if grammar.IsMultiplicationOp(op) ||
			(op == "" && unitText != "" && !(index == 1 && isSuffix(unitText))) {
			if (!haveOp || consistentOp != op) && !(index == 1 && spaceOp) {
				if !haveOp {
					consistentOp = op
					haveOp = true
				} else {
					if op == "" && len(segments) > 0 {
						// No operator here: drop the previous segment
						// and cut from the operator that preceded it.
						segments = segments[:len(segments)-1]
						opStart = m.OpStarts[index-1]
					}
					shortening = m.End - opStart
					p.log.Debug("operator inconsistency, truncating match",
						zap.String("operator", op))
					break
				}
			}
		}

		if op != "" && !slash {
			slash = grammar.ContainsDivisionOp(op)
		}
		if unitText != "" {
			surface, power := grammar.ParsePower(unitText, slash)
			base, err := p.resolver.Atomic(surface, context)
			if err != nil {
				return nil, nil, 0, err
			}
			segments = append(segments, resolve.Segment{Unit: base, Power: power, Surface: surface})
		}
	}

	unit, err := p.resolver.FromSegments(segments, context)
	if err != nil {
		return nil, nil, 0, err
	}
	p.log.Debug("unit resolved", zap.String("unit", unit.Name), zap.String("entity", unit.Entity.Name))
	return unit, segments, shortening, nil
}

const grammarSegments = 4

func isSuffix(s string) bool {
	_, ok := lexicon.Suffixes[s]
	return ok
}

// getSurface maps the match span in substituted text back to the
// original text, re-absorbing runes the substitution shifted and
// trimming ragged edges.
func getSurface(shifts *spellout.ShiftMap, orig []rune, m *grammar.Match, text []rune, shortening int) (string, [2]int) {
	start, end := m.Start, m.End-shortening
	for end < len(text) && text[end] == ' ' {
		end++
	}

	realStart, realEnd := shifts.Span(start, end)
	if realEnd > len(orig) {
		realEnd = len(orig)
	}
	for realEnd > realStart && (orig[realEnd-1] == ' ' || orig[realEnd-1] == '-') {
		realEnd--
	}
	for realStart < realEnd && orig[realStart] == ' ' {
		realStart++
	}
	return string(orig[realStart:realEnd]), [2]int{realStart, realEnd}
}

// InlineParse annotates the text with every parsed quantity, inserted
// after its span: `I ate 3 apples` becomes
// `I ate 3 {Quantity(3, "dimensionless")} apples`.
func (p *Parser) InlineParse(text string) (string, error) {
	quantities, err := p.Parse(text)
	if err != nil {
		return text, err
	}
	runes := []rune(text)
	shift := 0
	for _, q := range quantities {
		index := q.Span[1] + shift
		add := []rune(" {" + q.String() + "}")
		runes = append(runes[:index], append(add, runes[index:]...)...)
		shift += len(add)
	}
	return string(runes), nil
}

// InlineReplace rewrites every quantity span as its normalized form,
// e.g. "two miles" becomes "2 mile".
func (p *Parser) InlineReplace(text string) (string, error) {
	return p.inlineRewrite(text, Quantity.AsString)
}

// InlineExpand rewrites every quantity span as speakable English,
// e.g. "$5" becomes "five dollars".
func (p *Parser) InlineExpand(text string) (string, error) {
	return p.inlineRewrite(text, Quantity.Spoken)
}

func (p *Parser) inlineRewrite(text string, render func(Quantity) string) (string, error) {
	quantities, err := p.Parse(text)
	if err != nil {
		return text, err
	}
	runes := []rune(text)
	shift := 0
	for _, q := range quantities {
		start, end := q.Span[0]+shift, q.Span[1]+shift
		add := []rune(render(q))
		runes = append(runes[:start], append(add, runes[end:]...)...)
		shift += len(add) - (end - start)
	}
	return string(runes), nil
}
