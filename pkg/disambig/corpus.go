package disambig

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coregx/ahocorasick"
	"github.com/orsinium-labs/stopwords"

	"github.com/kittclouds/quantkit/pkg/catalog"
)

//go:embed data/similars.json
var similarsJSON []byte

// WordSet is one training record: keywords observed near a unit or
// entity name. Names may carry several word sets.
type WordSet struct {
	Unit string `json:"unit"`
	Text string `json:"text"`
}

// CorpusMatcher scores candidates by how many of their trained keywords
// occur in the surrounding text. A single automaton over the whole
// vocabulary scans the context once per choice.
type CorpusMatcher struct {
	sets  map[string][]WordSet
	ac    *ahocorasick.Automaton
	words []string // pattern index -> word
	sw    *stopwords.Stopwords
}

// NewCorpusMatcher builds the matcher from the bundled training sets.
func NewCorpusMatcher() (*CorpusMatcher, error) {
	var sets []WordSet
	if err := json.Unmarshal(similarsJSON, &sets); err != nil {
		return nil, fmt.Errorf("disambig: decode similars: %w", err)
	}
	return NewCorpusMatcherFromSets(sets)
}

// NewCorpusMatcherFromSets builds the matcher from caller-provided word
// sets, e.g. a custom training corpus.
func NewCorpusMatcherFromSets(sets []WordSet) (*CorpusMatcher, error) {
	m := &CorpusMatcher{
		sets: make(map[string][]WordSet),
		sw:   stopwords.MustGet("en"),
	}

	seen := make(map[string]bool)
	for _, ws := range sets {
		m.sets[ws.Unit] = append(m.sets[ws.Unit], ws)
		for _, w := range strings.Fields(strings.ToLower(ws.Text)) {
			if seen[w] || m.sw.Contains(w) {
				continue
			}
			seen[w] = true
			m.words = append(m.words, w)
		}
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(m.words).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("disambig: build automaton: %w", err)
	}
	m.ac = ac
	return m, nil
}

// ChooseUnit picks the candidate whose keywords best cover the context.
func (m *CorpusMatcher) ChooseUnit(candidates []*catalog.Unit, context string) (*catalog.Unit, error) {
	names := make([]string, len(candidates))
	for i, u := range candidates {
		names[i] = u.Name
	}
	idx, ok := m.score(names, context)
	if !ok {
		return nil, ErrNoChoice
	}
	return candidates[idx], nil
}

// ChooseEntity picks the entity whose keywords best cover the context.
func (m *CorpusMatcher) ChooseEntity(candidates []*catalog.Entity, context string) (*catalog.Entity, error) {
	names := make([]string, len(candidates))
	for i, e := range candidates {
		names[i] = e.Name
	}
	idx, ok := m.score(names, context)
	if !ok {
		return nil, ErrNoChoice
	}
	return candidates[idx], nil
}

var _ Strategy = (*CorpusMatcher)(nil)

// score ranks names by relative keyword coverage: the keyword hit count
// normalized by the candidate's total training-text length, hit count
// breaking ties. Reports false when nothing matched at all.
func (m *CorpusMatcher) score(names []string, context string) (int, bool) {
	present := m.presentWords(context)

	bestIdx := -1
	bestCount := 0
	bestRel := 0.0
	for i, name := range names {
		count, total := 0, 0
		for _, ws := range m.sets[name] {
			total += len([]rune(ws.Text))
			for _, w := range strings.Fields(strings.ToLower(ws.Text)) {
				if present[w] {
					count++
				}
			}
		}
		rel := 0.0
		if total > 0 {
			rel = float64(count) / float64(total)
		}
		if rel > bestRel || (rel == bestRel && count > bestCount) {
			bestRel = rel
			bestCount = count
			bestIdx = i
		}
	}
	return bestIdx, bestIdx >= 0 && bestCount > 0
}

// presentWords scans the lowercased context once and reports which
// vocabulary words occur in it, as substrings so inflected forms still
// hit their stem keywords.
func (m *CorpusMatcher) presentWords(context string) map[string]bool {
	present := make(map[string]bool)
	if m.ac == nil {
		return present
	}
	haystack := []byte(strings.ToLower(context))
	for _, match := range m.ac.FindAllOverlapping(haystack) {
		present[m.words[match.PatternID]] = true
	}
	return present
}
