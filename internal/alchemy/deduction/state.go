package deduction

import (
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
)

// Observation is the recorded golem reaction for one trigger.
type Observation uint8

const (
	// Unobserved means no device test names the ingredient.
	Unobserved Observation = iota
	// Triggered means the golem reacted.
	Triggered
	// Quiet means the golem did not react.
	Quiet
)

func observe(reacted bool) Observation {
	if reacted {
		return Triggered
	}
	return Quiet
}

func (o Observation) String() string {
	switch o {
	case Triggered:
		return "triggered"
	case Quiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// Reaction holds the golem observations of one ingredient.
type Reaction struct {
	Ears  Observation
	Chest Observation
}

// State is the derived knowledge after replaying a log.
type State struct {
	sets      [len(ingredient.All)]Set
	reactions [len(ingredient.All)]Reaction
	passes    int
}

// Initial returns the state before any evidence: every ingredient may be
// any formula and no golem reaction is known.
func Initial() State {
	var s State
	for i := range s.sets {
		s.sets[i] = FullSet
	}
	return s
}

// Set returns the candidate set of name. Unknown names yield the empty set.
func (s State) Set(name ingredient.Name) Set {
	i := name.Index()
	if i < 0 {
		return 0
	}
	return s.sets[i]
}

// Candidates returns the formulas name may still be, in universe order.
func (s State) Candidates(name ingredient.Name) []formula.Formula {
	return s.Set(name).List()
}

// Reaction returns the recorded golem reaction of name.
func (s State) Reaction(name ingredient.Name) Reaction {
	i := name.Index()
	if i < 0 {
		return Reaction{}
	}
	return s.reactions[i]
}

// Passes returns how many passes the last replay ran, including the final
// pass that changed nothing.
func (s State) Passes() int {
	return s.passes
}

// Knowledge returns the attributes shared by every remaining candidate of
// name. An ingredient with no candidates has no certain knowledge.
func (s State) Knowledge(name ingredient.Name) formula.Partial {
	return formula.Common(s.Candidates(name))
}

// Solved returns the formula of name once a single candidate remains.
func (s State) Solved(name ingredient.Name) (formula.Formula, bool) {
	return s.Set(name).Only()
}

// Consistent reports whether every ingredient still has a candidate.
func (s State) Consistent() bool {
	return len(s.Contradictions()) == 0
}

// Contradictions lists the ingredients left without candidates.
func (s State) Contradictions() []ingredient.Name {
	var out []ingredient.Name
	for i, name := range ingredient.All {
		if s.sets[i] == 0 {
			out = append(out, name)
		}
	}
	return out
}

// Equal reports whether two states hold the same candidates and reactions.
func (s State) Equal(other State) bool {
	return s.sets == other.sets && s.reactions == other.reactions
}
