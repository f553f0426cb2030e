package notebook

import (
	"bytes"
	"context"
	"errors"
	"log"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/louisbranch/alchemists/internal/alchemy/deduction"
	"github.com/louisbranch/alchemists/internal/alchemy/event"
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

func mustResult(t *testing.T, s string) formula.Result {
	t.Helper()
	r, err := formula.ParseResult(s)
	if err != nil {
		t.Fatalf("parse result %q: %v", s, err)
	}
	return r
}

func TestSubmitMixRecomputes(t *testing.T) {
	ctx := context.Background()
	n := New()
	index, err := n.SubmitMix(ctx, ingredient.Mushroom, ingredient.Fern, mustResult(t, "R+"))
	if err != nil {
		t.Fatalf("SubmitMix: %v", err)
	}
	if index != 0 {
		t.Fatalf("index = %d, want 0", index)
	}
	candidates, err := n.Candidates(ingredient.Mushroom)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(candidates) != 4 {
		t.Fatalf("mushroom has %d candidates, want 4", len(candidates))
	}
	knowledge, err := n.Knowledge(ingredient.Fern)
	if err != nil {
		t.Fatalf("Knowledge: %v", err)
	}
	if got := knowledge.String(); got != "_+____" {
		t.Fatalf("fern knowledge = %s, want _+____", got)
	}
}

func TestSubmitRejectsUnknownIngredient(t *testing.T) {
	ctx := context.Background()
	n := New()
	tcs := []struct {
		name   string
		submit func() (int, error)
	}{
		{"mix", func() (int, error) { return n.SubmitMix(ctx, "dragon", ingredient.Fern, mustResult(t, "R+")) }},
		{"device", func() (int, error) { return n.SubmitDeviceTest(ctx, "dragon", true, false) }},
		{"lookup", func() (int, error) { return n.SubmitLookup(ctx, "dragon", event.Sun) }},
		{"spy", func() (int, error) { return n.SubmitSpy(ctx, "dragon", mustResult(t, "B-")) }},
		{"neutral spy", func() (int, error) { return n.SubmitSpy(ctx, "dragon", formula.Neutral()) }},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			index, err := tc.submit()
			if !errors.Is(err, ErrUnknownIngredient) {
				t.Fatalf("error = %v, want %v", err, ErrUnknownIngredient)
			}
			if index != NotRecorded {
				t.Fatalf("index = %d, want %d", index, NotRecorded)
			}
		})
	}
	if n.Len() != 0 {
		t.Fatalf("log length = %d, want 0", n.Len())
	}
	if _, err := n.Candidates("dragon"); !errors.Is(err, ErrUnknownIngredient) {
		t.Fatalf("Candidates error = %v, want %v", err, ErrUnknownIngredient)
	}
	if _, err := n.Knowledge("dragon"); !errors.Is(err, ErrUnknownIngredient) {
		t.Fatalf("Knowledge error = %v, want %v", err, ErrUnknownIngredient)
	}
}

func TestSubmitMixWithItselfIsRejected(t *testing.T) {
	n := New()
	_, err := n.SubmitMix(context.Background(), ingredient.Toad, ingredient.Toad, mustResult(t, "N"))
	if got := apperrors.CodeOf(err); got != apperrors.CodeMixSameIngredient {
		t.Fatalf("code = %s, want %s", got, apperrors.CodeMixSameIngredient)
	}
	if n.Len() != 0 {
		t.Fatal("rejected mix must not be recorded")
	}
}

func TestNeutralSpyIsNoOp(t *testing.T) {
	ctx := context.Background()
	n := New()
	if _, err := n.SubmitLookup(ctx, ingredient.Claw, event.Moon); err != nil {
		t.Fatalf("SubmitLookup: %v", err)
	}
	before := n.State()

	index, err := n.SubmitSpy(ctx, ingredient.Claw, formula.Neutral())
	if err != nil {
		t.Fatalf("SubmitSpy: %v", err)
	}
	if index != NotRecorded {
		t.Fatalf("index = %d, want %d", index, NotRecorded)
	}
	if n.Len() != 1 {
		t.Fatalf("log length = %d, want 1", n.Len())
	}
	if !n.State().Equal(before) {
		t.Fatal("neutral spy changed the derived state")
	}
}

func TestDeleteEventMatchesOmission(t *testing.T) {
	ctx := context.Background()
	n := New()
	submissions := []event.Event{
		event.Lookup{Ingredient: ingredient.Toad, Alignment: event.Sun},
		event.Mix{First: ingredient.Toad, Second: ingredient.Claw, Result: mustResult(t, "G-")},
		event.DeviceTest{Ingredient: ingredient.Toad, Ears: true},
		event.Spy{Ingredient: ingredient.Claw, Result: mustResult(t, "+")},
	}
	for _, evt := range submissions {
		if _, err := n.Submit(ctx, evt); err != nil {
			t.Fatalf("Submit(%v): %v", evt, err)
		}
	}

	removed, err := n.DeleteEvent(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if removed != submissions[1] {
		t.Fatalf("removed = %v, want %v", removed, submissions[1])
	}

	omitted := []event.Event{submissions[0], submissions[2], submissions[3]}
	if !reflect.DeepEqual(n.Events(), omitted) {
		t.Fatalf("events = %v, want %v", n.Events(), omitted)
	}
	if !n.State().Equal(deduction.Deduce(omitted)) {
		t.Fatal("state after delete differs from replay without the event")
	}
}

func TestDeleteEventOutOfRange(t *testing.T) {
	ctx := context.Background()
	n := New()
	if _, err := n.SubmitLookup(ctx, ingredient.Flower, event.Sun); err != nil {
		t.Fatalf("SubmitLookup: %v", err)
	}
	for _, index := range []int{-1, 1, 5} {
		if _, err := n.DeleteEvent(ctx, index); !errors.Is(err, ErrEventIndexOutOfRange) {
			t.Fatalf("DeleteEvent(%d) error = %v, want %v", index, err, ErrEventIndexOutOfRange)
		}
	}
	if n.Len() != 1 {
		t.Fatalf("log length = %d, want 1", n.Len())
	}
}

func TestContradictionIsLoggedNotReturned(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	n := New(WithLogger(log.New(&buf, "", 0)))

	if _, err := n.SubmitLookup(ctx, ingredient.Scorpion, event.Sun); err != nil {
		t.Fatalf("SubmitLookup: %v", err)
	}
	if _, err := n.SubmitLookup(ctx, ingredient.Scorpion, event.Moon); err != nil {
		t.Fatalf("contradiction must not be an error: %v", err)
	}
	if n.Consistent() {
		t.Fatal("expected inconsistent notebook")
	}
	if got := n.Contradictions(); !reflect.DeepEqual(got, []ingredient.Name{ingredient.Scorpion}) {
		t.Fatalf("Contradictions = %v, want [scorpion]", got)
	}
	if !strings.Contains(buf.String(), "scorpion") {
		t.Fatalf("log = %q, want it to name scorpion", buf.String())
	}

	if _, err := n.DeleteEvent(ctx, 1); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if !n.Consistent() {
		t.Fatal("expected consistency after removing the conflicting lookup")
	}
}

func TestRecomputeIsTraced(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	n := New(WithTracer(provider.Tracer("test")))

	if _, err := n.SubmitLookup(context.Background(), ingredient.Mandrake, event.Moon); err != nil {
		t.Fatalf("SubmitLookup: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if spans[0].Name() != "notebook.recompute" {
		t.Fatalf("span name = %q, want notebook.recompute", spans[0].Name())
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs["alchemy.events"].AsInt64(); got != 1 {
		t.Fatalf("alchemy.events = %d, want 1", got)
	}
	if got := attrs["alchemy.passes"].AsInt64(); got < 1 {
		t.Fatalf("alchemy.passes = %d, want at least 1", got)
	}
	if !attrs["alchemy.consistent"].AsBool() {
		t.Fatal("alchemy.consistent = false, want true")
	}
}

func TestConcurrentSubmissions(t *testing.T) {
	ctx := context.Background()
	n := New()
	var wg sync.WaitGroup
	for _, name := range ingredient.All {
		wg.Add(1)
		go func(name ingredient.Name) {
			defer wg.Done()
			if _, err := n.SubmitDeviceTest(ctx, name, false, false); err != nil {
				t.Errorf("SubmitDeviceTest(%s): %v", name, err)
			}
			_ = n.State()
		}(name)
	}
	wg.Wait()
	if n.Len() != len(ingredient.All) {
		t.Fatalf("log length = %d, want %d", n.Len(), len(ingredient.All))
	}
	if !n.State().Equal(deduction.Deduce(n.Events())) {
		t.Fatal("state does not match a replay of the log")
	}
}
