package deduction

import (
	"math/bits"
	"strings"

	"github.com/louisbranch/alchemists/internal/alchemy/formula"
)

// Set is a subset of formula.Universe; bit i stands for Universe[i].
// Iteration always follows universe order.
type Set uint8

// FullSet holds every formula.
const FullSet Set = 0xFF

// SetOf returns the set holding fs. Formulas outside the universe are ignored.
func SetOf(fs ...formula.Formula) Set {
	var s Set
	for _, f := range fs {
		if i := formula.Index(f); i >= 0 {
			s |= 1 << i
		}
	}
	return s
}

// Has reports whether f is in the set.
func (s Set) Has(f formula.Formula) bool {
	i := formula.Index(f)
	return i >= 0 && s&(1<<i) != 0
}

// Len returns the number of formulas in the set.
func (s Set) Len() int {
	return bits.OnesCount8(uint8(s))
}

// Only returns the single member of a one-element set.
func (s Set) Only() (formula.Formula, bool) {
	if s.Len() != 1 {
		return formula.Formula{}, false
	}
	return formula.Universe[bits.TrailingZeros8(uint8(s))], true
}

// List returns the members in universe order.
func (s Set) List() []formula.Formula {
	out := make([]formula.Formula, 0, s.Len())
	for i, f := range formula.Universe {
		if s&(1<<i) != 0 {
			out = append(out, f)
		}
	}
	return out
}

// Filter returns the members for which keep reports true.
func (s Set) Filter(keep func(formula.Formula) bool) Set {
	var out Set
	for i, f := range formula.Universe {
		if s&(1<<i) != 0 && keep(f) {
			out |= 1 << i
		}
	}
	return out
}

func (s Set) String() string {
	names := make([]string, 0, s.Len())
	for _, f := range s.List() {
		names = append(names, f.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
