package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// EntityDef is the declarative form of an entity, as found in the JSON
// definition files.
type EntityDef struct {
	Name       string      `json:"name"`
	Dimensions []Dimension `json:"dimensions"`
	URI        string      `json:"URI"`
}

// UnitDef is the declarative form of a unit. Prefixes lists the SI prefix
// codes the unit may be expanded with ("k", "m", "µ", ...).
type UnitDef struct {
	Name         string      `json:"name"`
	Surfaces     []string    `json:"surfaces"`
	Symbols      []string    `json:"symbols"`
	Entity       string      `json:"entity"`
	Dimensions   []Dimension `json:"dimensions"`
	URI          string      `json:"URI"`
	CurrencyCode string      `json:"currency_code"`
	Prefixes     []string    `json:"prefixes"`
}

// Source is one ordered definition set. Later sources override or extend
// earlier ones field by field (last writer wins); duplicate names inside a
// single source are a load error.
type Source struct {
	Name     string
	Entities []EntityDef
	Units    []UnitDef
}

//go:embed data/entities.json
var entitiesJSON []byte

//go:embed data/units.json
var unitsJSON []byte

// General returns the built-in general-purpose definition set.
func General() (Source, error) {
	var src Source
	src.Name = "general"
	if err := json.Unmarshal(entitiesJSON, &src.Entities); err != nil {
		return src, fmt.Errorf("catalog: parse embedded entities: %w", err)
	}
	if err := json.Unmarshal(unitsJSON, &src.Units); err != nil {
		return src, fmt.Errorf("catalog: parse embedded units: %w", err)
	}
	return src, nil
}

// siPrefix is one SI metric prefix usable for unit expansion.
type siPrefix struct {
	code string // symbol code as used in UnitDef.Prefixes and symbols
	name string // spelled-out form prepended to surfaces
}

// siPrefixes maps prefix codes to their expansion. Kept to the prefixes the
// built-in catalog actually declares plus the common extremes.
var siPrefixes = map[string]siPrefix{
	"n":  {"n", "nano"},
	"µ":  {"µ", "micro"},
	"m":  {"m", "milli"},
	"c":  {"c", "centi"},
	"d":  {"d", "deci"},
	"da": {"da", "deca"},
	"h":  {"h", "hecto"},
	"k":  {"k", "kilo"},
	"M":  {"M", "mega"},
	"G":  {"G", "giga"},
	"T":  {"T", "tera"},
	"P":  {"P", "peta"},
}
