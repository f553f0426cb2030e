package formula

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResult indicates a result string is not N, a sign, or color+sign.
var ErrInvalidResult = errors.New("result must be N, + or -, optionally prefixed by R, G or B")

// ResultKind distinguishes neutral potions from signed ones.
type ResultKind uint8

const (
	// ResultNeutral is the neutral potion.
	ResultNeutral ResultKind = iota
	// ResultColored is a signed potion whose color was observed.
	ResultColored
	// ResultAnyColor is a signed potion whose color was not observed.
	ResultAnyColor
)

// Result describes an observed potion.
type Result struct {
	Kind  ResultKind
	Sign  Sign
	Color Color
}

// Neutral returns the neutral potion.
func Neutral() Result {
	return Result{Kind: ResultNeutral}
}

// Potion returns a fully observed signed potion.
func Potion(c Color, s Sign) Result {
	return Result{Kind: ResultColored, Color: c, Sign: s}
}

// Signed returns a potion whose sign is known but color is not.
func Signed(s Sign) Result {
	return Result{Kind: ResultAnyColor, Sign: s}
}

// IsNeutral reports whether r is the neutral potion.
func (r Result) IsNeutral() bool {
	return r.Kind == ResultNeutral
}

func (r Result) String() string {
	switch r.Kind {
	case ResultColored:
		return string(r.Color.Letter()) + r.Sign.String()
	case ResultAnyColor:
		return r.Sign.String()
	default:
		return "N"
	}
}

// ParseResult reads N, +, -, or a color letter followed by a sign.
// Case is ignored.
func ParseResult(s string) (Result, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch len(s) {
	case 1:
		switch s[0] {
		case 'N':
			return Neutral(), nil
		case '+':
			return Signed(Positive), nil
		case '-':
			return Signed(Negative), nil
		}
	case 2:
		var sign Sign
		switch s[1] {
		case '+':
			sign = Positive
		case '-':
			sign = Negative
		default:
			return Result{}, fmt.Errorf("%w: %q", ErrInvalidResult, s)
		}
		for _, c := range Colors {
			if s[0] == c.Letter() {
				return Potion(c, sign), nil
			}
		}
	}
	return Result{}, fmt.Errorf("%w: %q", ErrInvalidResult, s)
}

// Outcomes expands r into the concrete potions it is consistent with.
func (r Result) Outcomes() []Result {
	switch r.Kind {
	case ResultColored:
		return []Result{r}
	case ResultAnyColor:
		outcomes := make([]Result, 0, len(Colors))
		for _, c := range Colors {
			outcomes = append(outcomes, Potion(c, r.Sign))
		}
		return outcomes
	default:
		return []Result{Neutral()}
	}
}

// Mix returns the potion brewed from two formulas. The first color, in slot
// order, whose sizes differ while signs agree decides the potion; when no
// color qualifies the potion is neutral. Mix is symmetric.
func Mix(a, b Formula) Result {
	for _, c := range Colors {
		if a[c].Size != b[c].Size && a[c].Sign == b[c].Sign {
			return Potion(c, a[c].Sign)
		}
	}
	return Neutral()
}

// Compatible reports whether mixing a and b could have produced r.
func Compatible(a, b Formula, r Result) bool {
	brewed := Mix(a, b)
	for _, outcome := range r.Outcomes() {
		if brewed == outcome {
			return true
		}
	}
	return false
}

// Reveals reports whether f carries the signed aspect observed in r. A
// result without a color is revealed by any aspect with the same sign.
// The neutral potion reveals nothing and never matches.
func (r Result) Reveals(f Formula) bool {
	if r.IsNeutral() {
		return false
	}
	for _, outcome := range r.Outcomes() {
		if f[outcome.Color].Sign == outcome.Sign {
			return true
		}
	}
	return false
}
