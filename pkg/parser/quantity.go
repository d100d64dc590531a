package parser

import (
	"fmt"
	"strings"

	"github.com/kittclouds/quantkit/pkg/catalog"
	"github.com/kittclouds/quantkit/pkg/lexicon"
	"github.com/kittclouds/quantkit/pkg/resolve"
)

// Quantity is one extracted quantity: a value, the unit it was
// expressed in and where in the original text it was found. Span holds
// rune offsets into the original text.
type Quantity struct {
	Value       float64
	Unit        *catalog.Unit
	Surface     string
	Span        [2]int
	Uncertainty *float64
}

func (q Quantity) String() string {
	return fmt.Sprintf("Quantity(%g, %q)", q.Value, q.Unit.Name)
}

// AsString renders the quantity as "<value> <unit name>".
func (q Quantity) AsString() string {
	if q.Unit.Name == "dimensionless" {
		return fmt.Sprintf("%g", q.Value)
	}
	return fmt.Sprintf("%g %s", q.Value, q.Unit.Name)
}

// Spoken renders the quantity as speakable English, with the unit
// correctly inflected: "two square metres", "one watt".
func (q Quantity) Spoken() string {
	words := lexicon.NumberToWords(q.Value)
	unit := spokenUnit(q.Unit, q.Value)
	if unit == "" {
		return words
	}
	return words + " " + unit
}

// spokenUnit inflects the unit for the count. Canonical units speak
// through their first surface; synthesized compounds pluralize the
// positive-power half of their derived name.
func spokenUnit(u *catalog.Unit, count float64) string {
	if u.Name == "dimensionless" {
		return ""
	}
	if len(u.Surfaces) > 0 {
		if count == 1 {
			return u.Surfaces[0]
		}
		return lexicon.Pluralize(u.Surfaces[0])
	}

	var numerator []catalog.Dimension
	for _, d := range u.Dimensions {
		if d.Power > 0 {
			numerator = append(numerator, d)
		}
	}
	name := u.Name
	if len(numerator) > 0 && count != 1 {
		head := resolve.NameFromDimensions(numerator)
		name = strings.Replace(name, head, lexicon.Pluralize(head), 1)
	}
	return name
}
