// Package notebook owns a player's event log and the knowledge derived from
// it.
//
// Every mutation appends or deletes an event and then rebuilds the derived
// state from scratch while holding a single lock, so readers never observe a
// log and a state that disagree.
package notebook

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/alchemists/internal/alchemy/deduction"
	"github.com/louisbranch/alchemists/internal/alchemy/event"
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

const tracerName = "github.com/louisbranch/alchemists/internal/alchemy/notebook"

// NotRecorded is the index returned for submissions that carry no
// information and are dropped, such as a neutral spied result.
const NotRecorded = -1

var (
	// ErrUnknownIngredient reports a name outside the eight ingredients.
	ErrUnknownIngredient = apperrors.New(apperrors.CodeIngredientUnknown, "unknown ingredient")
	// ErrEventIndexOutOfRange reports a deletion index outside the log.
	ErrEventIndexOutOfRange = apperrors.New(apperrors.CodeEventIndexOutOfRange, "event index out of range")
)

// Option configures a Notebook.
type Option func(*Notebook)

// WithLogger logs recomputes that leave an ingredient without candidates.
func WithLogger(logger *log.Logger) Option {
	return func(n *Notebook) {
		n.logger = logger
	}
}

// WithTracer replaces the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(n *Notebook) {
		if tracer != nil {
			n.tracer = tracer
		}
	}
}

// Notebook records events and keeps the deduced state current.
type Notebook struct {
	mu     sync.Mutex
	log    *event.Log
	state  deduction.State
	logger *log.Logger
	tracer trace.Tracer
}

// New returns an empty notebook.
func New(opts ...Option) *Notebook {
	n := &Notebook{
		log:    event.NewLog(),
		state:  deduction.Initial(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SubmitMix records that brewing a with b produced result.
func (n *Notebook) SubmitMix(ctx context.Context, a, b ingredient.Name, result formula.Result) (int, error) {
	return n.Submit(ctx, event.Mix{First: a, Second: b, Result: result})
}

// SubmitDeviceTest records the golem's reaction to name.
func (n *Notebook) SubmitDeviceTest(ctx context.Context, name ingredient.Name, ears, chest bool) (int, error) {
	return n.Submit(ctx, event.DeviceTest{Ingredient: name, Ears: ears, Chest: chest})
}

// SubmitLookup records the encyclopedia alignment of name.
func (n *Notebook) SubmitLookup(ctx context.Context, name ingredient.Name, alignment event.Alignment) (int, error) {
	return n.Submit(ctx, event.Lookup{Ingredient: name, Alignment: alignment})
}

// SubmitSpy records another player's potion. A neutral result tells nothing
// about the ingredient and is dropped.
func (n *Notebook) SubmitSpy(ctx context.Context, name ingredient.Name, result formula.Result) (int, error) {
	return n.Submit(ctx, event.Spy{Ingredient: name, Result: result})
}

// Submit validates evt, appends it and recomputes. It returns the index of
// the new entry, or NotRecorded when the event was dropped.
func (n *Notebook) Submit(ctx context.Context, evt event.Event) (int, error) {
	if spy, ok := evt.(event.Spy); ok && spy.Result.IsNeutral() {
		if !spy.Ingredient.Valid() {
			return NotRecorded, unknownIngredient(spy.Ingredient)
		}
		return NotRecorded, nil
	}
	if err := event.Validate(evt); err != nil {
		return NotRecorded, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	index := n.log.Append(evt)
	n.recompute(ctx)
	return index, nil
}

// DeleteEvent removes the entry at index and recomputes.
func (n *Notebook) DeleteEvent(ctx context.Context, index int) (event.Event, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	removed, err := n.log.Delete(index)
	if err != nil {
		return nil, err
	}
	n.recompute(ctx)
	return removed, nil
}

func (n *Notebook) recompute(ctx context.Context) {
	_, span := n.tracer.Start(ctx, "notebook.recompute")
	defer span.End()

	events := n.log.Events()
	n.state = deduction.Deduce(events)
	span.SetAttributes(
		attribute.Int("alchemy.events", len(events)),
		attribute.Int("alchemy.passes", n.state.Passes()),
		attribute.Bool("alchemy.consistent", n.state.Consistent()),
	)
	if bad := n.state.Contradictions(); len(bad) > 0 && n.logger != nil {
		n.logger.Printf("notebook: evidence leaves no formula for %v after %d events", bad, len(events))
	}
}

// State returns a snapshot of the derived state.
func (n *Notebook) State() deduction.State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Events returns a snapshot of the log in submission order.
func (n *Notebook) Events() []event.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.log.Events()
}

// Len returns the number of recorded events.
func (n *Notebook) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.log.Len()
}

// Candidates returns the formulas name may still be, in universe order.
func (n *Notebook) Candidates(name ingredient.Name) ([]formula.Formula, error) {
	if !name.Valid() {
		return nil, unknownIngredient(name)
	}
	return n.State().Candidates(name), nil
}

// Knowledge returns what is certain about the formula of name.
func (n *Notebook) Knowledge(name ingredient.Name) (formula.Partial, error) {
	if !name.Valid() {
		return formula.Partial{}, unknownIngredient(name)
	}
	return n.State().Knowledge(name), nil
}

// DeviceSets returns the symbols the golem's ears and chest may be keyed to.
func (n *Notebook) DeviceSets() (ears, chest formula.SymbolSet) {
	return n.State().DeviceSets()
}

// Animatable lists the ingredients that may still animate the golem.
func (n *Notebook) Animatable() []ingredient.Name {
	return n.State().Animatable()
}

// Consistent reports whether every ingredient still has a candidate.
func (n *Notebook) Consistent() bool {
	return n.State().Consistent()
}

// Contradictions lists the ingredients left without candidates.
func (n *Notebook) Contradictions() []ingredient.Name {
	return n.State().Contradictions()
}

func unknownIngredient(name ingredient.Name) error {
	return apperrors.Newf(apperrors.CodeIngredientUnknown, map[string]string{"ingredient": string(name)},
		"unknown ingredient %q", name)
}
