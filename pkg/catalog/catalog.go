// Package catalog loads unit and entity definitions from ordered sources
// and indexes them for surface lookup and dimensional resolution.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/kittclouds/quantkit/pkg/lexicon"
)

// DuplicateNameError reports two definitions of the same name inside a
// single source. Across sources the later definition overrides instead.
type DuplicateNameError struct {
	Kind   string // "entity" or "unit"
	Name   string
	Source string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("catalog: duplicate %s %q in source %q", e.Kind, e.Name, e.Source)
}

// Catalog is the immutable, indexed universe of known entities and units.
// Build one with Load and share it freely; all lookups are read-only.
type Catalog struct {
	entities map[string]*Entity
	units    map[string]*Unit

	surfaces      map[string][]*Unit
	symbols       map[string][]*Unit
	lowerSurfaces map[string][]*Unit
	lowerSymbols  map[string][]*Unit

	derivedUnits    map[Key][]*Unit
	derivedEntities map[Key][]*Entity

	prefixSymbols []string
	fingerprint   string
}

// Load merges the given sources in order and builds the catalog. Later
// sources override earlier definitions of the same name field by field;
// a name defined twice inside one source is an error.
func Load(sources ...Source) (*Catalog, error) {
	entityDefs, unitDefs, err := mergeSources(sources)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		entities:        make(map[string]*Entity, len(entityDefs)),
		units:           make(map[string]*Unit, len(unitDefs)),
		surfaces:        make(map[string][]*Unit),
		symbols:         make(map[string][]*Unit),
		lowerSurfaces:   make(map[string][]*Unit),
		lowerSymbols:    make(map[string][]*Unit),
		derivedUnits:    make(map[Key][]*Unit),
		derivedEntities: make(map[Key][]*Entity),
	}

	for _, def := range entityDefs {
		c.entities[def.Name] = &Entity{
			Name:       def.Name,
			Dimensions: append([]Dimension(nil), def.Dimensions...),
			URI:        def.URI,
		}
	}
	for name, ent := range c.entities {
		for _, d := range ent.Dimensions {
			if _, ok := c.entities[d.Base]; !ok {
				return nil, fmt.Errorf("catalog: entity %q references unknown entity %q", name, d.Base)
			}
		}
	}

	unitDefs, err = expandPrefixes(unitDefs)
	if err != nil {
		return nil, err
	}

	for _, def := range unitDefs {
		ent, ok := c.entities[def.Entity]
		if !ok {
			return nil, fmt.Errorf("catalog: unit %q references unknown entity %q", def.Name, def.Entity)
		}
		c.units[def.Name] = &Unit{
			Name:         def.Name,
			Surfaces:     append([]string(nil), def.Surfaces...),
			Symbols:      append([]string(nil), def.Symbols...),
			Entity:       ent,
			URI:          def.URI,
			Dimensions:   append([]Dimension(nil), def.Dimensions...),
			CurrencyCode: def.CurrencyCode,
		}
	}
	for name, u := range c.units {
		for _, d := range u.Dimensions {
			if _, ok := c.units[d.Base]; !ok {
				return nil, fmt.Errorf("catalog: unit %q references unknown unit %q", name, d.Base)
			}
		}
	}

	c.buildSurfaceIndex()
	c.buildDerivedIndexes()

	// Units with no declared decomposition are their own base. Done after
	// indexing so the derived index keys compound units only.
	for _, u := range c.units {
		if len(u.Dimensions) == 0 {
			u.Dimensions = []Dimension{{Base: u.Name, Power: 1}}
		}
	}

	c.collectPrefixSymbols()
	c.fingerprint = fingerprintOf(unitDefs)
	return c, nil
}

// mergeSources flattens the ordered sources into definition lists, later
// sources overriding earlier ones per field.
func mergeSources(sources []Source) ([]EntityDef, []UnitDef, error) {
	entities := make(map[string]EntityDef)
	units := make(map[string]UnitDef)
	var entityOrder, unitOrder []string

	for _, src := range sources {
		seenEnt := make(map[string]bool, len(src.Entities))
		for _, def := range src.Entities {
			if seenEnt[def.Name] {
				return nil, nil, &DuplicateNameError{Kind: "entity", Name: def.Name, Source: src.Name}
			}
			seenEnt[def.Name] = true
			if prev, ok := entities[def.Name]; ok {
				entities[def.Name] = overrideEntity(prev, def)
			} else {
				entities[def.Name] = def
				entityOrder = append(entityOrder, def.Name)
			}
		}

		seenUnit := make(map[string]bool, len(src.Units))
		for _, def := range src.Units {
			if seenUnit[def.Name] {
				return nil, nil, &DuplicateNameError{Kind: "unit", Name: def.Name, Source: src.Name}
			}
			seenUnit[def.Name] = true
			if prev, ok := units[def.Name]; ok {
				units[def.Name] = overrideUnit(prev, def)
			} else {
				units[def.Name] = def
				unitOrder = append(unitOrder, def.Name)
			}
		}
	}

	entityDefs := make([]EntityDef, 0, len(entityOrder))
	for _, name := range entityOrder {
		entityDefs = append(entityDefs, entities[name])
	}
	unitDefs := make([]UnitDef, 0, len(unitOrder))
	for _, name := range unitOrder {
		unitDefs = append(unitDefs, units[name])
	}
	return entityDefs, unitDefs, nil
}

func overrideEntity(prev, next EntityDef) EntityDef {
	out := prev
	if next.Dimensions != nil {
		out.Dimensions = next.Dimensions
	}
	if next.URI != "" {
		out.URI = next.URI
	}
	return out
}

func overrideUnit(prev, next UnitDef) UnitDef {
	out := prev
	if next.Surfaces != nil {
		out.Surfaces = next.Surfaces
	}
	if next.Symbols != nil {
		out.Symbols = next.Symbols
	}
	if next.Entity != "" {
		out.Entity = next.Entity
	}
	if next.Dimensions != nil {
		out.Dimensions = next.Dimensions
	}
	if next.URI != "" {
		out.URI = next.URI
	}
	if next.CurrencyCode != "" {
		out.CurrencyCode = next.CurrencyCode
	}
	if next.Prefixes != nil {
		out.Prefixes = next.Prefixes
	}
	return out
}

// expandPrefixes appends a prefixed copy of each unit per declared prefix
// code. A unit may decompose into at most one base dimension and still
// declare prefixes (hertz is second^-1); compound decompositions may not.
func expandPrefixes(defs []UnitDef) ([]UnitDef, error) {
	out := make([]UnitDef, 0, len(defs))
	for _, def := range defs {
		out = append(out, def)
		if len(def.Prefixes) == 0 {
			continue
		}
		if len(def.Dimensions) > 1 {
			return nil, fmt.Errorf("catalog: unit %q declares prefixes but has compound dimensions", def.Name)
		}
		for _, code := range def.Prefixes {
			pfx, ok := siPrefixes[code]
			if !ok {
				return nil, fmt.Errorf("catalog: unit %q declares unknown prefix %q", def.Name, code)
			}
			exp := UnitDef{
				Name:   pfx.name + def.Name,
				Entity: def.Entity,
				URI:    def.URI,
			}
			for _, s := range def.Surfaces {
				exp.Surfaces = append(exp.Surfaces, pfx.name+s)
			}
			for _, s := range def.Symbols {
				exp.Symbols = append(exp.Symbols, pfx.code+s)
			}
			out = append(out, exp)
		}
	}
	return out, nil
}

// buildSurfaceIndex indexes every unit under its name, surfaces, and their
// plurals, and separately under its symbols. Lowercased mirrors back the
// case-insensitive fallback lookups.
func (c *Catalog) buildSurfaceIndex() {
	addSurface := func(form string, u *Unit) {
		if form == "" {
			return
		}
		c.surfaces[form] = appendUnique(c.surfaces[form], u)
		lower := strings.ToLower(form)
		c.lowerSurfaces[lower] = appendUnique(c.lowerSurfaces[lower], u)
	}
	names := sortedUnitNames(c.units)
	for _, name := range names {
		u := c.units[name]
		addSurface(u.Name, u)
		addSurface(lexicon.Pluralize(u.Name), u)
		for _, s := range u.Surfaces {
			addSurface(s, u)
			addSurface(lexicon.Pluralize(s), u)
		}
		for _, sym := range u.Symbols {
			if sym == "" {
				continue
			}
			c.symbols[sym] = appendUnique(c.symbols[sym], u)
			lower := strings.ToLower(sym)
			c.lowerSymbols[lower] = appendUnique(c.lowerSymbols[lower], u)
		}
	}
}

// buildDerivedIndexes keys compound units and entities by the normalized
// forms of their dimension lists, including one level of base expansion, so
// a synthesized joule per second resolves to watt and newton metre finds
// both energy and torque.
func (c *Catalog) buildDerivedIndexes() {
	unitNames := sortedUnitNames(c.units)
	expandUnit := func(base string) []Dimension {
		if u, ok := c.units[base]; ok {
			return u.Dimensions
		}
		return nil
	}
	for _, name := range unitNames {
		u := c.units[name]
		selfKey := KeyFor([]Dimension{{Base: u.Name, Power: 1}})
		c.derivedUnits[selfKey] = appendUnique(c.derivedUnits[selfKey], u)
		if len(u.Dimensions) == 0 {
			continue
		}
		for _, dims := range dimensionPermutations(u.Dimensions, expandUnit) {
			key := KeyFor(dims)
			c.derivedUnits[key] = appendUnique(c.derivedUnits[key], u)
		}
	}

	entityNames := make([]string, 0, len(c.entities))
	for name := range c.entities {
		entityNames = append(entityNames, name)
	}
	sort.Strings(entityNames)
	expandEntity := func(base string) []Dimension {
		if e, ok := c.entities[base]; ok {
			return e.Dimensions
		}
		return nil
	}
	for _, name := range entityNames {
		e := c.entities[name]
		if len(e.Dimensions) == 0 {
			continue
		}
		for _, dims := range dimensionPermutations(e.Dimensions, expandEntity) {
			key := KeyFor(dims)
			c.derivedEntities[key] = appendEntityUnique(c.derivedEntities[key], e)
		}
	}
}

// collectPrefixSymbols gathers the symbols of currency units, longest
// first. These may legally precede the number ("$20", "US$1.4B").
func (c *Catalog) collectPrefixSymbols() {
	seen := make(map[string]bool)
	for _, name := range sortedUnitNames(c.units) {
		u := c.units[name]
		if u.CurrencyCode == "" {
			continue
		}
		for _, sym := range u.Symbols {
			if !seen[sym] {
				seen[sym] = true
				c.prefixSymbols = append(c.prefixSymbols, sym)
			}
		}
	}
	sort.Slice(c.prefixSymbols, func(i, j int) bool {
		if len(c.prefixSymbols[i]) != len(c.prefixSymbols[j]) {
			return len(c.prefixSymbols[i]) > len(c.prefixSymbols[j])
		}
		return c.prefixSymbols[i] < c.prefixSymbols[j]
	})
}

// fingerprintOf hashes the merged definitions so downstream caches (the
// compiled grammar in particular) can key on catalog content.
func fingerprintOf(defs []UnitDef) string {
	sorted := append([]UnitDef(nil), defs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	h := sha256.New()
	for _, def := range sorted {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00", def.Name, strings.Join(def.Surfaces, ","), strings.Join(def.Symbols, ","))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Unit returns the unit with the given canonical name, or nil.
func (c *Catalog) Unit(name string) *Unit { return c.units[name] }

// Entity returns the entity with the given name, or nil.
func (c *Catalog) Entity(name string) *Entity { return c.entities[name] }

// Dimensionless returns the catalog's dimensionless unit.
func (c *Catalog) Dimensionless() *Unit { return c.units["dimensionless"] }

// Candidates returns the units a matched base-unit segment may denote.
// Symbols win over surfaces and exact case wins over folded case; the
// first populated tier is returned unmixed so that "M" stays molar or
// mega-something rather than picking up metre.
func (c *Catalog) Candidates(form string) []*Unit {
	if us := c.symbols[form]; len(us) > 0 {
		return us
	}
	if us := c.surfaces[form]; len(us) > 0 {
		return us
	}
	lower := strings.ToLower(form)
	if us := c.lowerSymbols[lower]; len(us) > 0 {
		return us
	}
	return c.lowerSurfaces[lower]
}

// UnitsForKey returns the canonical units whose dimensions normalize to
// the given key, in sorted-name order.
func (c *Catalog) UnitsForKey(key Key) []*Unit {
	us := c.derivedUnits[key]
	out := append([]*Unit(nil), us...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EntitiesForKey returns the derived entities whose decomposition
// normalizes to the given key, in sorted-name order.
func (c *Catalog) EntitiesForKey(key Key) []*Entity {
	es := c.derivedEntities[key]
	out := append([]*Entity(nil), es...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PrefixSymbols returns the currency symbols that may precede a number,
// longest first.
func (c *Catalog) PrefixSymbols() []string {
	return append([]string(nil), c.prefixSymbols...)
}

// SurfaceForms returns every indexed surface and symbol string, longest
// first then lexicographic, for grammar assembly.
func (c *Catalog) SurfaceForms() []string {
	seen := make(map[string]bool, len(c.surfaces)+len(c.symbols))
	out := make([]string, 0, len(c.surfaces)+len(c.symbols))
	for form := range c.surfaces {
		if !seen[form] {
			seen[form] = true
			out = append(out, form)
		}
	}
	for form := range c.symbols {
		if !seen[form] {
			seen[form] = true
			out = append(out, form)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := len([]rune(out[i])), len([]rune(out[j]))
		if li != lj {
			return li > lj
		}
		return out[i] < out[j]
	})
	return out
}

// Fingerprint identifies the loaded definition set; equal fingerprints
// mean equal surface and symbol inventories.
func (c *Catalog) Fingerprint() string { return c.fingerprint }

func appendUnique(us []*Unit, u *Unit) []*Unit {
	for _, have := range us {
		if have == u {
			return us
		}
	}
	return append(us, u)
}

func appendEntityUnique(es []*Entity, e *Entity) []*Entity {
	for _, have := range es {
		if have == e {
			return es
		}
	}
	return append(es, e)
}

func sortedUnitNames(units map[string]*Unit) []string {
	names := make([]string, 0, len(units))
	for name := range units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
