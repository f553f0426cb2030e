package deduction

import (
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
)

// DeviceSets returns the symbols the golem's ears and chest may still be
// keyed to.
func (s State) DeviceSets() (ears, chest formula.SymbolSet) {
	return deviceSets(&s)
}

// deviceSets narrows both triggers using every ingredient whose size is
// certain for some color. A triggered reaction rules out the opposite size
// of that color; a quiet one rules out the size itself. The two triggers are
// keyed to distinct symbols, so a trigger pinned to one symbol removes it
// from the other.
func deviceSets(s *State) (ears, chest formula.SymbolSet) {
	ears, chest = formula.AllSymbols(), formula.AllSymbols()
	for i, reaction := range s.reactions {
		if reaction == (Reaction{}) {
			continue
		}
		for _, sym := range formula.Common(s.sets[i].List()).Symbols() {
			narrow(&ears, sym, reaction.Ears)
			narrow(&chest, sym, reaction.Chest)
		}
	}
	if only := ears.List(); len(only) == 1 && chest.Has(only[0]) {
		chest.Remove(only[0])
	}
	if only := chest.List(); len(only) == 1 && ears.Has(only[0]) {
		ears.Remove(only[0])
	}
	return ears, chest
}

func narrow(set *formula.SymbolSet, sym formula.Symbol, obs Observation) {
	switch obs {
	case Triggered:
		set.Remove(sym.Opposite())
	case Quiet:
		set.Remove(sym)
	}
}

// Animatable lists the ingredients that may still animate the golem: those
// with a candidate carrying, for both the ears and the chest, the signed
// aspect of some symbol the trigger may be keyed to.
func (s State) Animatable() []ingredient.Name {
	ears, chest := s.DeviceSets()
	qualifying := FullSet.Filter(func(f formula.Formula) bool {
		return charged(f, ears) && charged(f, chest)
	})
	var out []ingredient.Name
	for i, name := range ingredient.All {
		if s.sets[i]&qualifying != 0 {
			out = append(out, name)
		}
	}
	return out
}

func charged(f formula.Formula, symbols formula.SymbolSet) bool {
	for _, sym := range symbols.List() {
		if f[sym.Color].Sign == sym.Charge() {
			return true
		}
	}
	return false
}
