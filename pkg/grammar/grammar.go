// Package grammar compiles the quantity scanner pattern from a catalog's
// surface inventory and exposes the matches it finds in substituted text.
// Compiled grammars are cached by catalog fingerprint; all offsets are
// rune offsets.
package grammar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/kittclouds/quantkit/pkg/catalog"
	"github.com/kittclouds/quantkit/pkg/lexicon"
)

// maxSegments is how many chained (operator, unit) pairs one match may
// carry.
const maxSegments = 4

// Grammar is a compiled scanner for one catalog.
type Grammar struct {
	re *regexp2.Regexp
}

var cache sync.Map // fingerprint+timeout -> *Grammar

// For returns the compiled grammar for the catalog, reusing a cached one
// when the catalog fingerprint and timeout match. A zero timeout means
// unbounded scanning.
func For(c *catalog.Catalog, timeout time.Duration) (*Grammar, error) {
	key := fmt.Sprintf("%s/%d", c.Fingerprint(), timeout)
	if g, ok := cache.Load(key); ok {
		return g.(*Grammar), nil
	}
	g, err := Compile(c, timeout)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(key, g)
	return actual.(*Grammar), nil
}

// Compile builds the scanner pattern from the catalog without consulting
// the cache.
func Compile(c *catalog.Catalog, timeout time.Duration) (*Grammar, error) {
	re, err := regexp2.Compile(quantityPattern(c), regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("grammar: compile scanner: %w", err)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return &Grammar{re: re}, nil
}

// Match is one scanner hit after operator compaction: operators that
// matched without a following unit are folded into the next operator so
// segment indices line up pairwise.
type Match struct {
	Start   int // rune offset of the whole match
	End     int
	Surface string
	Prefix  string
	Value   string

	// Segment slots are 1-based; slot 0 is unused.
	Ops        [maxSegments + 1]string
	OpStarts   [maxSegments + 1]int
	Units      [maxSegments + 1]string
	UnitStarts [maxSegments + 1]int
}

// HasUnits reports whether any unit segment matched.
func (m *Match) HasUnits() bool { return m.Units[1] != "" }

// FindAll scans the text and returns every match in order. A scan-budget
// timeout surfaces as an error alongside the matches found so far.
func (g *Grammar) FindAll(text string) ([]Match, error) {
	var out []Match
	m, err := g.re.FindStringMatch(text)
	for m != nil {
		out = append(out, compact(m))
		m, err = g.re.FindNextMatch(m)
	}
	if err != nil {
		return out, fmt.Errorf("grammar: scan: %w", err)
	}
	return out, nil
}

// compact folds operator captures that had no unit of their own into the
// next occupied segment, keeping (operator, unit) pairs aligned.
func compact(m *regexp2.Match) Match {
	out := Match{
		Start:   m.Index,
		End:     m.Index + m.Length,
		Surface: m.String(),
	}
	if g := groupOf(m, "prefix"); g != nil {
		out.Prefix = g.String()
	}
	if g := groupOf(m, "value"); g != nil {
		out.Value = g.String()
	}

	opIdx, unitIdx := 1, 1
	opAcum := ""
	for i := 1; i <= maxSegments; i++ {
		op := groupOf(m, fmt.Sprintf("operator%d", i))
		unit := groupOf(m, fmt.Sprintf("unit%d", i))
		if op != nil && unit != nil {
			out.Ops[opIdx] = opAcum + op.String()
			out.OpStarts[opIdx] = op.Index
			opIdx++
			opAcum = ""
		}
		if op != nil && unit == nil {
			opAcum += op.String()
		}
		if unit != nil {
			out.Units[unitIdx] = unit.String()
			out.UnitStarts[unitIdx] = unit.Index
			unitIdx++
			if opIdx < unitIdx {
				opIdx = unitIdx
			}
		}
	}
	return out
}

func groupOf(m *regexp2.Match, name string) *regexp2.Group {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return nil
	}
	return g
}

// IsMultiplicationOp reports whether the captured operator is a
// multiplication marker (the implicit space included).
func IsMultiplicationOp(op string) bool {
	for _, m := range lexicon.MultiplicationOperators {
		if op == m {
			return true
		}
	}
	return false
}

// ContainsDivisionOp reports whether the captured operator carries a
// division marker.
func ContainsDivisionOp(op string) bool {
	for _, d := range lexicon.DivisionOperators {
		if d != "" && strings.Contains(op, d) {
			return true
		}
	}
	return false
}
