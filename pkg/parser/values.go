package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/kittclouds/quantkit/pkg/grammar"
	"github.com/kittclouds/quantkit/pkg/lexicon"
)

var (
	groupingStripRe = regexp2.MustCompile(`(?<=\d)[, ](?=\d{3})`, 0)
	exponentNormRe  = regexp2.MustCompile(`(?<=\d)(?:`+multOpsAlternation()+`)(?:e|E|10)\^?`, 0)

	rangeSepRe = regexp.MustCompile(`\d+ ?((?:- )?(?:` + strings.Join(lexicon.Ranges, "|") + `)) ?\d`)
	uncerSepRe = regexp.MustCompile(`\d+ ?(` + strings.Join(lexicon.Uncertainties, "|") + `) ?\d`)
	fractionRe = regexp.MustCompile(`\d+/\d+`)
	spacesRe   = regexp.MustCompile(` +`)

	pureBaseRe    = regexp.MustCompile(`^\d+\^?`)
	superscriptRe = regexp.MustCompile(`^[¹²³⁴⁵⁶⁷⁸⁹⁰]`)
)

func multOpsAlternation() string {
	ops := append([]string(nil), lexicon.MultiplicationOperators...)
	// Longest first so " times " wins over the bare space.
	for i := 1; i < len(ops); i++ {
		for j := i; j > 0 && len(ops[j]) > len(ops[j-1]); j-- {
			ops[j], ops[j-1] = ops[j-1], ops[j]
		}
	}
	escaped := make([]string, len(ops))
	for i, op := range ops {
		escaped[i] = regexp.QuoteMeta(op)
	}
	return strings.Join(escaped, "|")
}

// getValues turns the matched value text into one or more numbers plus
// an optional uncertainty. Ranges collapse to their midpoint with the
// half-range as uncertainty.
func getValues(value string) ([]float64, *float64, error) {
	v, _ := groupingStripRe.Replace(value, "", -1, -1)
	v, _ = exponentNormRe.Replace(v, "e", -1, -1)
	v, factors := resolveExponents(v)
	for glyph, ascii := range lexicon.VulgarFractions {
		v = strings.ReplaceAll(v, glyph, " "+ascii)
	}

	rangeSep := rangeSepRe.FindStringSubmatch(v)
	uncerSep := uncerSepRe.FindStringSubmatch(v)
	hasFraction := fractionRe.MatchString(v)
	v = spacesRe.ReplaceAllString(v, " ")

	factor := func(i int) float64 {
		if i < len(factors) {
			return factors[i]
		}
		return 1
	}

	switch {
	case rangeSep != nil:
		parts := strings.Split(v, rangeSep[1])
		if len(parts) < 2 {
			return nil, nil, fmt.Errorf("parser: malformed range %q", value)
		}
		vals := make([]float64, len(parts))
		sum, low := 0.0, math.Inf(1)
		for i, part := range parts {
			f, err := parseNumber(part)
			if err != nil {
				return nil, nil, err
			}
			vals[i] = f * factor(i)
			sum += vals[i]
			low = math.Min(low, vals[i])
		}
		if vals[1] < vals[0] {
			return nil, nil, fmt.Errorf("parser: range %q runs backwards", value)
		}
		mean := sum / float64(len(vals))
		uncertainty := mean - low
		return []float64{mean}, &uncertainty, nil

	case uncerSep != nil:
		parts := strings.SplitN(v, uncerSep[1], 2)
		center, err := parseNumber(parts[0])
		if err != nil {
			return nil, nil, err
		}
		spread, err := parseNumber(parts[1])
		if err != nil {
			return nil, nil, err
		}
		uncertainty := spread * factor(1)
		return []float64{center * factor(0)}, &uncertainty, nil

	case hasFraction:
		fields := strings.Fields(v)
		if len(fields) > 1 {
			whole, err := parseNumber(fields[0])
			if err != nil {
				return nil, nil, err
			}
			frac, err := parseFraction(fields[1])
			if err != nil {
				return nil, nil, err
			}
			return []float64{whole*factor(0) + frac}, nil, nil
		}
		frac, err := parseFraction(fields[0])
		if err != nil {
			return nil, nil, err
		}
		return []float64{frac}, nil, nil

	default:
		f, err := parseNumber(v)
		if err != nil {
			return nil, nil, err
		}
		return []float64{f * factor(0)}, nil, nil
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "-")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parser: %q is not a number", s)
	}
	return f, nil
}

func parseFraction(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseNumber(s)
	}
	n, err := parseNumber(num)
	if err != nil {
		return 0, err
	}
	d, err := parseNumber(den)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("parser: %q divides by zero", s)
	}
	return n / d, nil
}

// resolveExponents rewrites explicit power notations ("3x2^4") into a
// bare number and a multiplication factor per number found. Plain
// scientific notation passes through for the float parser.
func resolveExponents(value string) (string, []float64) {
	var factors []float64
	for _, nm := range grammar.FindNumbers(value) {
		if nm.Base == "" || nm.Exponent == "" || nm.Base == "e" || nm.Base == "E" {
			factors = append(factors, 1)
			continue
		}
		// A pure decimal base is only a power notation when it carries
		// a caret or a superscript exponent.
		if pureBaseRe.MatchString(nm.Base) &&
			!strings.Contains(nm.Base, "^") &&
			!superscriptRe.MatchString(nm.Exponent) {
			factors = append(factors, 1)
			continue
		}
		exp, err := strconv.ParseFloat(grammar.TranslateSuperscripts(nm.Exponent), 64)
		if err != nil {
			factors = append(factors, 1)
			continue
		}
		base, err := strconv.ParseFloat(strings.ReplaceAll(nm.Base, "^", ""), 64)
		if err != nil {
			factors = append(factors, 1)
			continue
		}
		value = strings.ReplaceAll(value, nm.Scale, "")
		factors = append(factors, math.Pow(base, exp))
	}
	return value, factors
}
