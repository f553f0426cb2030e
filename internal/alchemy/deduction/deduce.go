package deduction

import (
	"github.com/louisbranch/alchemists/internal/alchemy/event"
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
)

// PassObserver receives the state after each completed pass.
type PassObserver func(pass int, state State)

// Deduce replays events from the initial state until no rule removes a
// candidate.
func Deduce(events []event.Event) State {
	return Replay(events, nil)
}

// Replay is Deduce with a hook called after every pass.
func Replay(events []event.Event, observer PassObserver) State {
	state := Initial()
	for {
		next := state
		next.reactions = [len(ingredient.All)]Reaction{}
		applyPass(&next, events)
		next.passes = state.passes + 1
		if observer != nil {
			observer(next.passes, next)
		}
		if next.sets == state.sets {
			return next
		}
		state = next
	}
}

func applyPass(s *State, events []event.Event) {
	for _, evt := range events {
		switch e := evt.(type) {
		case event.Mix:
			applyMix(s, e)
		case event.Lookup:
			if i := e.Ingredient.Index(); i >= 0 {
				s.sets[i] = s.sets[i].Filter(e.Alignment.Admits)
			}
		case event.Spy:
			if i := e.Ingredient.Index(); i >= 0 {
				s.sets[i] = s.sets[i].Filter(e.Result.Reveals)
			}
		case event.DeviceTest:
			if i := e.Ingredient.Index(); i >= 0 {
				s.reactions[i] = Reaction{Ears: observe(e.Ears), Chest: observe(e.Chest)}
			}
		}
	}
	applyGolem(s)
	applySingletons(s)
	applyUniqueClaimants(s)
}

// applyMix keeps each formula that brews the observed potion with at least
// one distinct partner formula of the other ingredient.
func applyMix(s *State, e event.Mix) {
	a, b := e.First.Index(), e.Second.Index()
	if a < 0 || b < 0 {
		return
	}
	var keepA, keepB Set
	for i, x := range formula.Universe {
		if s.sets[a]&(1<<i) == 0 {
			continue
		}
		for j, y := range formula.Universe {
			if i == j || s.sets[b]&(1<<j) == 0 {
				continue
			}
			if formula.Compatible(x, y, e.Result) {
				keepA |= 1 << i
				keepB |= 1 << j
			}
		}
	}
	s.sets[a] = keepA
	s.sets[b] = keepB
}

func applyGolem(s *State) {
	ears, chest := deviceSets(s)
	for i, reaction := range s.reactions {
		if reaction.Ears != Unobserved {
			s.sets[i] = s.sets[i].Filter(reactsTo(ears, reaction.Ears))
		}
		if reaction.Chest != Unobserved {
			s.sets[i] = s.sets[i].Filter(reactsTo(chest, reaction.Chest))
		}
	}
}

// reactsTo keeps formulas consistent with the observation for some symbol
// the trigger may still be keyed to.
func reactsTo(symbols formula.SymbolSet, obs Observation) func(formula.Formula) bool {
	return func(f formula.Formula) bool {
		for _, sym := range symbols.List() {
			if obs == Triggered && f.Has(sym) {
				return true
			}
			if obs == Quiet && f.Has(sym.Opposite()) {
				return true
			}
		}
		return false
	}
}

func applySingletons(s *State) {
	for i := range s.sets {
		if s.sets[i].Len() != 1 {
			continue
		}
		for j := range s.sets {
			if j != i {
				s.sets[j] &^= s.sets[i]
			}
		}
	}
}

func applyUniqueClaimants(s *State) {
	for k := range formula.Universe {
		bit := Set(1 << k)
		holder, holders := -1, 0
		for i := range s.sets {
			if s.sets[i]&bit != 0 {
				holder = i
				holders++
			}
		}
		if holders == 1 {
			s.sets[holder] = bit
		}
	}
}
