// Package event defines the immutable facts a player records during a game.
//
// Events form a closed set: Mix, Spy, Lookup and DeviceTest. Each carries only
// what was observed; every derived conclusion is rebuilt from the ordered log
// by the deduction package.
package event

import (
	"fmt"
	"strings"

	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

// Kind identifies the kind of an event.
type Kind string

const (
	// KindMix records brewing a potion from two ingredients.
	KindMix Kind = "mix"
	// KindSpy records watching another player brew with one ingredient.
	KindSpy Kind = "spy"
	// KindLookup records consulting the encyclopedia about one ingredient.
	KindLookup Kind = "lookup"
	// KindDeviceTest records feeding one ingredient to the golem.
	KindDeviceTest Kind = "device_test"
)

// Event is an immutable fact in the log.
type Event interface {
	Kind() Kind
	// Ingredients returns the ingredients the event names.
	Ingredients() []ingredient.Name
	isEvent()
}

// Mix records that brewing First with Second produced Result.
type Mix struct {
	First  ingredient.Name
	Second ingredient.Name
	Result formula.Result
}

// Spy records that another player brewed Result using Ingredient.
type Spy struct {
	Ingredient ingredient.Name
	Result     formula.Result
}

// Lookup records the encyclopedia alignment of Ingredient.
type Lookup struct {
	Ingredient ingredient.Name
	Alignment  Alignment
}

// DeviceTest records the golem's reaction to Ingredient.
type DeviceTest struct {
	Ingredient ingredient.Name
	// Ears reports whether the ears steamed.
	Ears bool
	// Chest reports whether the chest glowed.
	Chest bool
}

func (Mix) Kind() Kind        { return KindMix }
func (Spy) Kind() Kind        { return KindSpy }
func (Lookup) Kind() Kind     { return KindLookup }
func (DeviceTest) Kind() Kind { return KindDeviceTest }

func (e Mix) Ingredients() []ingredient.Name        { return []ingredient.Name{e.First, e.Second} }
func (e Spy) Ingredients() []ingredient.Name        { return []ingredient.Name{e.Ingredient} }
func (e Lookup) Ingredients() []ingredient.Name     { return []ingredient.Name{e.Ingredient} }
func (e DeviceTest) Ingredients() []ingredient.Name { return []ingredient.Name{e.Ingredient} }

func (Mix) isEvent()        {}
func (Spy) isEvent()        {}
func (Lookup) isEvent()     {}
func (DeviceTest) isEvent() {}

// Alignment is the encyclopedia category of an ingredient.
type Alignment uint8

const (
	// Moon ingredients have an even number of positive aspects.
	Moon Alignment = iota
	// Sun ingredients have an odd number of positive aspects.
	Sun
)

func (a Alignment) String() string {
	if a == Sun {
		return "sun"
	}
	return "moon"
}

// Admits reports whether f belongs to the alignment.
func (a Alignment) Admits(f formula.Formula) bool {
	return Alignment(f.PositiveCount()%2) == a
}

// ParseAlignment reads "moon" or "sun"; single letters are accepted.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "moon", "m":
		return Moon, nil
	case "sun", "s":
		return Sun, nil
	default:
		return 0, apperrors.Newf(apperrors.CodeAlignmentInvalid, map[string]string{"alignment": s},
			"alignment must be moon or sun, got %q", s)
	}
}

// Validate checks that evt names known ingredients and carries a usable
// observation.
func Validate(evt Event) error {
	if evt == nil {
		return apperrors.New(apperrors.CodeUnknown, "event is required")
	}
	for _, name := range evt.Ingredients() {
		if !name.Valid() {
			return apperrors.Newf(apperrors.CodeIngredientUnknown, map[string]string{"ingredient": string(name)},
				"unknown ingredient %q", name)
		}
	}
	switch e := evt.(type) {
	case Mix:
		if e.First == e.Second {
			return apperrors.Newf(apperrors.CodeMixSameIngredient, map[string]string{"ingredient": string(e.First)},
				"cannot mix %s with itself", e.First)
		}
	case Spy:
		if e.Result.IsNeutral() {
			return apperrors.New(apperrors.CodeResultInvalid, "spied result must not be neutral")
		}
	case Lookup:
		if e.Alignment != Moon && e.Alignment != Sun {
			return apperrors.Newf(apperrors.CodeAlignmentInvalid, nil, "alignment %d is not moon or sun", e.Alignment)
		}
	case DeviceTest:
	}
	return nil
}

// Describe narrates evt for history displays.
func Describe(evt Event) string {
	switch e := evt.(type) {
	case Mix:
		return fmt.Sprintf("Mixed %s and %s to make %s", e.First, e.Second, e.Result)
	case Spy:
		return fmt.Sprintf("Spied someone using %s to make %s", e.Ingredient, e.Result)
	case Lookup:
		return fmt.Sprintf("Looked up %s and found it to be of the %s", e.Ingredient, e.Alignment)
	case DeviceTest:
		return fmt.Sprintf("Fed %s to the golem and %s", e.Ingredient, describeReaction(e.Ears, e.Chest))
	default:
		return "Unknown event"
	}
}

func describeReaction(ears, chest bool) string {
	switch {
	case ears && chest:
		return "the ears steamed and the chest glowed"
	case ears:
		return "the ears steamed"
	case chest:
		return "the chest glowed"
	default:
		return "nothing happened"
	}
}
