// Package ingredient lists the eight ingredients whose formulas players deduce.
package ingredient

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name identifies an ingredient.
type Name string

const (
	Mushroom Name = "mushroom"
	Fern     Name = "fern"
	Toad     Name = "toad"
	Claw     Name = "claw"
	Flower   Name = "flower"
	Mandrake Name = "mandrake"
	Scorpion Name = "scorpion"
	Feather  Name = "feather"
)

// All lists every ingredient in board order.
var All = [8]Name{Mushroom, Fern, Toad, Claw, Flower, Mandrake, Scorpion, Feather}

// Valid reports whether n is one of the eight ingredients.
func (n Name) Valid() bool {
	return n.Index() >= 0
}

// Index returns the board position of n, or -1 for unknown names.
func (n Name) Index() int {
	for i, name := range All {
		if name == n {
			return i
		}
	}
	return -1
}

// Title returns the display form of the name, e.g. "Mandrake".
func (n Name) Title() string {
	return cases.Title(language.English).String(string(n))
}

func (n Name) String() string {
	return string(n)
}

// Lookup resolves user input to an ingredient. It accepts a name in any
// case or a board index 0-7.
func Lookup(input string) (Name, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if idx, err := strconv.Atoi(input); err == nil {
		if idx < 0 || idx >= len(All) {
			return "", false
		}
		return All[idx], true
	}
	name := Name(input)
	if !name.Valid() {
		return "", false
	}
	return name, true
}
