// Package words holds a common-word dictionary keyed by word length,
// used to reject unit readings that are really ordinary prose.
package words

import (
	"bufio"
	_ "embed"
	"strings"
	"unicode/utf8"

	"github.com/kittclouds/quantkit/pkg/catalog"
	"github.com/kittclouds/quantkit/pkg/lexicon"
)

//go:embed data/common-words.txt
var commonWordsTxt string

// Dictionary indexes common words by rune length. Words that are also
// unit surfaces or symbols are excluded so genuine unit mentions are
// never rejected; plurals are indexed alongside their singulars.
type Dictionary struct {
	byLength map[int]map[string]bool
}

// New builds the dictionary for one catalog from the bundled word list.
func New(c *catalog.Catalog) *Dictionary {
	exclude := make(map[string]bool)
	for _, form := range c.SurfaceForms() {
		exclude[form] = true
	}

	d := &Dictionary{byLength: make(map[int]map[string]bool)}
	scanner := bufio.NewScanner(strings.NewReader(commonWordsTxt))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !exclude[line] {
			d.add(line)
		}
		if plural := lexicon.Pluralize(line); !exclude[plural] {
			d.add(plural)
		}
	}
	return d
}

func (d *Dictionary) add(word string) {
	n := utf8.RuneCountInString(word)
	if d.byLength[n] == nil {
		d.byLength[n] = make(map[string]bool)
	}
	d.byLength[n][word] = true
}

// IsCommon reports whether the word, lowercased, is a common word.
func (d *Dictionary) IsCommon(word string) bool {
	w := strings.ToLower(word)
	return d.byLength[utf8.RuneCountInString(w)][w]
}
