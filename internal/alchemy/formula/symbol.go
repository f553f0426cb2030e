package formula

import (
	"fmt"
	"strings"
)

// Symbol is an elemental-size pairing such as large red (R) or small blue (b).
type Symbol struct {
	Color Color
	Size  Size
}

// Symbols lists all six symbols in canonical RrGgBb order.
var Symbols = [6]Symbol{
	{Red, Large}, {Red, Small},
	{Green, Large}, {Green, Small},
	{Blue, Large}, {Blue, Small},
}

// Opposite returns the symbol of the same color and the other size.
func (s Symbol) Opposite() Symbol {
	if s.Size == Large {
		return Symbol{Color: s.Color, Size: Small}
	}
	return Symbol{Color: s.Color, Size: Large}
}

// Charge maps the symbol onto a signed aspect of its color: large symbols
// want a positive aspect, small symbols a negative one.
func (s Symbol) Charge() Sign {
	if s.Size == Large {
		return Positive
	}
	return Negative
}

func (s Symbol) String() string {
	return string(sizedLetter(s.Color, s.Size))
}

// ParseSymbol reads a single symbol letter. Case carries size.
func ParseSymbol(s string) (Symbol, error) {
	s = strings.TrimSpace(s)
	for _, sym := range Symbols {
		if s == sym.String() {
			return sym, nil
		}
	}
	return Symbol{}, fmt.Errorf("symbol must be one of RrGgBb: %q", s)
}

// SymbolSet is a set of symbols indexed by canonical position.
type SymbolSet [6]bool

// AllSymbols returns a set holding every symbol.
func AllSymbols() SymbolSet {
	return SymbolSet{true, true, true, true, true, true}
}

func symbolIndex(s Symbol) int {
	i := 2 * int(s.Color)
	if s.Size == Small {
		i++
	}
	return i
}

// Has reports whether the set contains s.
func (set SymbolSet) Has(s Symbol) bool {
	return set[symbolIndex(s)]
}

// Remove deletes s from the set.
func (set *SymbolSet) Remove(s Symbol) {
	set[symbolIndex(s)] = false
}

// Len returns the number of symbols in the set.
func (set SymbolSet) Len() int {
	n := 0
	for _, ok := range set {
		if ok {
			n++
		}
	}
	return n
}

// List returns the members of the set in canonical order.
func (set SymbolSet) List() []Symbol {
	out := make([]Symbol, 0, set.Len())
	for i, ok := range set {
		if ok {
			out = append(out, Symbols[i])
		}
	}
	return out
}

func (set SymbolSet) String() string {
	var b strings.Builder
	for _, s := range set.List() {
		b.WriteString(s.String())
	}
	return b.String()
}

// ParseSymbolSet reads a run of symbol letters such as "RgB".
func ParseSymbolSet(s string) (SymbolSet, error) {
	var set SymbolSet
	for _, r := range strings.TrimSpace(s) {
		sym, err := ParseSymbol(string(r))
		if err != nil {
			return SymbolSet{}, err
		}
		set[symbolIndex(sym)] = true
	}
	return set, nil
}
