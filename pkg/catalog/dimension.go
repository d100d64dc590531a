package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Dimension is one {base, power} pair of a compound unit or entity
// decomposition. For units Base names another unit; for entities it names
// another entity.
type Dimension struct {
	Base  string `json:"base"`
	Power int    `json:"power"`
}

// Key is an order-independent, duplicate-summing representation of a
// dimension list, usable as a map key. Equal multisets of (base, power)
// pairs produce equal keys regardless of declaration order.
type Key string

// KeyFor derives the Key for a dimension list. Powers of the same base are
// summed; bases whose powers cancel out are dropped.
func KeyFor(dims []Dimension) Key {
	summed := make(map[string]int, len(dims))
	for _, d := range dims {
		summed[d.Base] += d.Power
	}
	bases := make([]string, 0, len(summed))
	for base, power := range summed {
		if power == 0 {
			continue
		}
		bases = append(bases, base)
	}
	sort.Strings(bases)

	var b strings.Builder
	for i, base := range bases {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%s^%d", base, summed[base])
	}
	return Key(b.String())
}

// normalizeDims sorts a dimension list by base and sums duplicate powers,
// keeping the semantics of KeyFor but returning a list.
func normalizeDims(dims []Dimension) []Dimension {
	summed := make(map[string]int, len(dims))
	for _, d := range dims {
		summed[d.Base] += d.Power
	}
	out := make([]Dimension, 0, len(summed))
	for base, power := range summed {
		if power == 0 {
			continue
		}
		out = append(out, Dimension{Base: base, Power: power})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Base < out[j].Base })
	return out
}

// dimensionPermutations expands a dimension list one level of nesting: each
// base that itself has a decomposition (per expand) is substituted by that
// decomposition with multiplied powers. It returns the distinct normalized
// forms, both fully expanded and as declared, so a compound like newton
// metre is findable under its declared form and its SI expansion.
func dimensionPermutations(dims []Dimension, expand func(base string) []Dimension) [][]Dimension {
	expanded := make([]Dimension, 0, len(dims))
	for _, d := range dims {
		inner := expand(d.Base)
		if len(inner) == 0 {
			expanded = append(expanded, d)
			continue
		}
		for _, nd := range inner {
			expanded = append(expanded, Dimension{Base: nd.Base, Power: nd.Power * d.Power})
		}
	}

	candidates := [][]Dimension{normalizeDims(expanded), normalizeDims(dims)}
	if KeyFor(candidates[0]) == KeyFor(candidates[1]) {
		return candidates[:1]
	}
	return candidates
}
