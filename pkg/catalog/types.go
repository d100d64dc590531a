package catalog

import "fmt"

// Entity is a semantic measurement category ("length", "currency"),
// independent of which unit expresses it. Entities are immutable after
// catalog load; derived entities decompose into base entities via
// Dimensions.
type Entity struct {
	Name       string
	Dimensions []Dimension
	URI        string
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(name=%q, uri=%s)", e.Name, e.URI)
}

// IsBase reports whether the entity has no decomposition.
func (e *Entity) IsBase() bool { return len(e.Dimensions) == 0 }

// Unit is a concrete unit of measure. Canonical units live in the catalog
// and are shared across parses; they must never be mutated. Synthesized
// compound units (see the resolve package) are fresh per occurrence.
type Unit struct {
	Name         string
	Surfaces     []string
	Symbols      []string
	Entity       *Entity
	URI          string
	Dimensions   []Dimension
	CurrencyCode string
}

func (u *Unit) String() string {
	return fmt.Sprintf("Unit(name=%q, entity=%q, uri=%s)", u.Name, u.Entity.Name, u.URI)
}

// HasSymbol reports whether s is one of the unit's declared symbols.
func (u *Unit) HasSymbol(s string) bool {
	for _, sym := range u.Symbols {
		if sym == s {
			return true
		}
	}
	return false
}
