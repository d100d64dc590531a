// Package resolve maps matched unit surfaces and dimension signatures
// onto catalog units, synthesizing compound units the catalog does not
// name.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kittclouds/quantkit/pkg/catalog"
	"github.com/kittclouds/quantkit/pkg/disambig"
)

// ErrUnknownUnit marks a surface no catalog unit answers to. Callers
// discard the whole match rather than guess.
var ErrUnknownUnit = errors.New("unknown unit")

// Segment is one (unit, power) pair of a compound occurrence, with the
// surface text it came from.
type Segment struct {
	Unit    *catalog.Unit
	Power   int
	Surface string
}

// Resolver turns surfaces and segment lists into units, consulting the
// disambiguation strategy when more than one candidate fits.
type Resolver struct {
	catalog  *catalog.Catalog
	strategy disambig.Strategy
}

func New(c *catalog.Catalog, s disambig.Strategy) *Resolver {
	return &Resolver{catalog: c, strategy: s}
}

// Atomic resolves one bare unit surface against the catalog.
func (r *Resolver) Atomic(surface, context string) (*catalog.Unit, error) {
	candidates := r.catalog.Candidates(surface)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("resolve: %w: %q", ErrUnknownUnit, surface)
	}
	return disambig.Choose(r.strategy, candidates, context)
}

// FromSegments resolves a compound occurrence. A canonical unit with
// the same dimension signature wins; otherwise a fresh unit is
// synthesized with a name derived from the signature and the closest
// matching entity.
func (r *Resolver) FromSegments(segs []Segment, context string) (*catalog.Unit, error) {
	if len(segs) == 0 {
		return r.catalog.Dimensionless(), nil
	}
	if len(segs) == 1 && segs[0].Power == 1 {
		return segs[0].Unit, nil
	}

	dims := make([]catalog.Dimension, len(segs))
	for i, s := range segs {
		dims[i] = catalog.Dimension{Base: s.Unit.Name, Power: s.Power}
	}

	if units := r.catalog.UnitsForKey(catalog.KeyFor(dims)); len(units) > 0 {
		return disambig.Choose(r.strategy, units, context)
	}

	entity, err := r.entityFor(segs, context)
	if err != nil {
		return nil, err
	}
	return &catalog.Unit{
		Name:       NameFromDimensions(dims),
		Entity:     entity,
		Dimensions: dims,
	}, nil
}

// entityFor translates unit segments into entity dimensions and looks
// the signature up, synthesizing an "unknown" entity when nothing in
// the catalog decomposes that way.
func (r *Resolver) entityFor(segs []Segment, context string) (*catalog.Entity, error) {
	dims := make([]catalog.Dimension, len(segs))
	for i, s := range segs {
		dims[i] = catalog.Dimension{Base: s.Unit.Entity.Name, Power: s.Power}
	}

	if entities := r.catalog.EntitiesForKey(catalog.KeyFor(dims)); len(entities) > 0 {
		return disambig.ChooseEntity(r.strategy, entities, context)
	}
	return &catalog.Entity{Name: "unknown", Dimensions: dims}, nil
}

// NameFromDimensions builds a spoken name for a dimension signature:
// "square metre", "metre per second", "second to the 4".
func NameFromDimensions(dims []catalog.Dimension) string {
	var parts []string
	for _, d := range dims {
		var b strings.Builder
		if d.Power < 0 {
			b.WriteString("per ")
		}
		switch power := abs(d.Power); power {
		case 1:
			b.WriteString(d.Base)
		case 2:
			b.WriteString("square " + d.Base)
		case 3:
			b.WriteString("cubic " + d.Base)
		default:
			fmt.Fprintf(&b, "%s to the %d", d.Base, power)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " ")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
