package formula

import "strings"

// PartialAspect is an aspect whose attributes may be unknown.
type PartialAspect struct {
	Size      Size
	SizeKnown bool
	Sign      Sign
	SignKnown bool
}

// Partial is a formula with optional attributes in every slot.
type Partial [3]PartialAspect

// Known returns the partial formula that fully determines f.
func Known(f Formula) Partial {
	var p Partial
	for _, c := range Colors {
		p[c] = PartialAspect{Size: f[c].Size, SizeKnown: true, Sign: f[c].Sign, SignKnown: true}
	}
	return p
}

// Common returns the attributes shared by every formula in fs. An empty
// slice yields a partial with nothing known.
func Common(fs []Formula) Partial {
	if len(fs) == 0 {
		return Partial{}
	}
	p := Known(fs[0])
	for _, f := range fs[1:] {
		for _, c := range Colors {
			if f[c].Size != p[c].Size {
				p[c].SizeKnown = false
			}
			if f[c].Sign != p[c].Sign {
				p[c].SignKnown = false
			}
		}
	}
	return p
}

// Complete reports whether every attribute is known.
func (p Partial) Complete() bool {
	for _, a := range p {
		if !a.SizeKnown || !a.SignKnown {
			return false
		}
	}
	return true
}

// Formula returns the formula p describes when it is complete.
func (p Partial) Formula() (Formula, bool) {
	if !p.Complete() {
		return Formula{}, false
	}
	var f Formula
	for _, c := range Colors {
		f[c] = Aspect{Size: p[c].Size, Sign: p[c].Sign}
	}
	return f, true
}

// Symbols returns the symbols whose size is known.
func (p Partial) Symbols() []Symbol {
	var out []Symbol
	for _, c := range Colors {
		if p[c].SizeKnown {
			out = append(out, Symbol{Color: c, Size: p[c].Size})
		}
	}
	return out
}

func (p Partial) String() string {
	var b strings.Builder
	for _, c := range Colors {
		if p[c].SizeKnown {
			b.WriteByte(sizedLetter(c, p[c].Size))
		} else {
			b.WriteByte('_')
		}
		if p[c].SignKnown {
			b.WriteString(p[c].Sign.String())
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
