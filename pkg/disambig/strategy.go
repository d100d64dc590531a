// Package disambig chooses among the units and entities a surface form
// or dimension signature can denote, using the surrounding text as
// evidence. The corpus matcher scores keyword co-occurrence; the
// embedding classifier votes by nearest trained sentences.
package disambig

import (
	"errors"

	"github.com/kittclouds/quantkit/pkg/catalog"
)

// ErrNoChoice is returned when a strategy has no evidence either way.
// Callers fall back to the deterministic choice.
var ErrNoChoice = errors.New("disambig: no choice")

// Strategy picks one candidate given the text surrounding the match.
type Strategy interface {
	ChooseUnit(candidates []*catalog.Unit, context string) (*catalog.Unit, error)
	ChooseEntity(candidates []*catalog.Entity, context string) (*catalog.Entity, error)
}

// Deterministic always picks the lexicographically first candidate by
// name. It is the fallback when no trained strategy can decide, keeping
// ambiguous parses stable across runs.
type Deterministic struct{}

func (Deterministic) ChooseUnit(candidates []*catalog.Unit, context string) (*catalog.Unit, error) {
	if len(candidates) == 0 {
		return nil, ErrNoChoice
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Name < best.Name {
			best = c
		}
	}
	return best, nil
}

func (Deterministic) ChooseEntity(candidates []*catalog.Entity, context string) (*catalog.Entity, error) {
	if len(candidates) == 0 {
		return nil, ErrNoChoice
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Name < best.Name {
			best = c
		}
	}
	return best, nil
}

var _ Strategy = Deterministic{}

// Choose runs the strategy and falls back to Deterministic when it
// cannot decide. A single candidate is returned without consulting the
// strategy at all.
func Choose(s Strategy, candidates []*catalog.Unit, context string) (*catalog.Unit, error) {
	if len(candidates) == 0 {
		return nil, ErrNoChoice
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if s != nil {
		if u, err := s.ChooseUnit(candidates, context); err == nil {
			return u, nil
		} else if !errors.Is(err, ErrNoChoice) {
			return nil, err
		}
	}
	return Deterministic{}.ChooseUnit(candidates, context)
}

// ChooseEntity is the entity counterpart of Choose.
func ChooseEntity(s Strategy, candidates []*catalog.Entity, context string) (*catalog.Entity, error) {
	if len(candidates) == 0 {
		return nil, ErrNoChoice
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if s != nil {
		if e, err := s.ChooseEntity(candidates, context); err == nil {
			return e, nil
		} else if !errors.Is(err, ErrNoChoice) {
			return nil, err
		}
	}
	return Deterministic{}.ChooseEntity(candidates, context)
}
