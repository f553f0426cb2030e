// Package formula implements the alchemical formula codes and the potion
// mixing rule.
//
// A formula is three aspects, one per color in the fixed order red, green,
// blue. Each aspect has a size (large or small) and a sign (positive or
// negative). The game uses exactly eight formulas; Universe lists them in the
// canonical order used for sorting and display.
package formula

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormula indicates a formula string is not in r-g+B- notation.
var ErrInvalidFormula = errors.New("formula must look like r-g+B-")

// Color identifies one of the three aspect slots.
type Color uint8

const (
	Red Color = iota
	Green
	Blue
)

// Colors lists every color in slot order.
var Colors = [3]Color{Red, Green, Blue}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// Letter returns the uppercase single-letter name of the color.
func (c Color) Letter() byte {
	return "RGB"[c]
}

// Size is the magnitude of an aspect.
type Size uint8

const (
	Small Size = iota
	Large
)

func (s Size) String() string {
	if s == Large {
		return "large"
	}
	return "small"
}

// Sign is the polarity of an aspect.
type Sign uint8

const (
	Negative Sign = iota
	Positive
)

func (s Sign) String() string {
	if s == Positive {
		return "+"
	}
	return "-"
}

// Aspect is one colored slot of a formula.
type Aspect struct {
	Size Size
	Sign Sign
}

// Formula is a complete assignment of aspects to the three colors.
type Formula [3]Aspect

// Universe is the fixed set of formulas in canonical order.
var Universe = [8]Formula{
	MustParse("r-g+B-"),
	MustParse("r+g-B+"),
	MustParse("r+G-b-"),
	MustParse("r-G+b+"),
	MustParse("R-g-b+"),
	MustParse("R+g+b-"),
	MustParse("R+G+B+"),
	MustParse("R-G-B-"),
}

// Index returns the position of f in Universe, or -1 when f is not one of the
// game's formulas.
func Index(f Formula) int {
	for i, u := range Universe {
		if u == f {
			return i
		}
	}
	return -1
}

// Parse reads a formula in r-g+B- notation. Letter case carries size.
func Parse(s string) (Formula, error) {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return Formula{}, fmt.Errorf("%w: %q", ErrInvalidFormula, s)
	}
	var f Formula
	for _, c := range Colors {
		letter, sign := s[2*int(c)], s[2*int(c)+1]
		switch letter {
		case c.Letter():
			f[c].Size = Large
		case c.Letter() + 'a' - 'A':
			f[c].Size = Small
		default:
			return Formula{}, fmt.Errorf("%w: %q", ErrInvalidFormula, s)
		}
		switch sign {
		case '+':
			f[c].Sign = Positive
		case '-':
			f[c].Sign = Negative
		default:
			return Formula{}, fmt.Errorf("%w: %q", ErrInvalidFormula, s)
		}
	}
	return f, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Formula {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Formula) String() string {
	var b strings.Builder
	for _, c := range Colors {
		b.WriteByte(sizedLetter(c, f[c].Size))
		b.WriteString(f[c].Sign.String())
	}
	return b.String()
}

// PositiveCount returns how many aspects carry a positive sign.
func (f Formula) PositiveCount() int {
	n := 0
	for _, a := range f {
		if a.Sign == Positive {
			n++
		}
	}
	return n
}

// Has reports whether the formula carries the given symbol.
func (f Formula) Has(s Symbol) bool {
	return f[s.Color].Size == s.Size
}

func sizedLetter(c Color, size Size) byte {
	if size == Large {
		return c.Letter()
	}
	return c.Letter() + 'a' - 'A'
}
