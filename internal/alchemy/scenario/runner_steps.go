package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/alchemists/internal/alchemy/deduction"
	"github.com/louisbranch/alchemists/internal/alchemy/event"
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "mix":
		return r.runMixStep(ctx, state, step)
	case "spy":
		return r.runSpyStep(ctx, state, step)
	case "lookup":
		return r.runLookupStep(ctx, state, step)
	case "device":
		return r.runDeviceStep(ctx, state, step)
	case "delete":
		return r.runDeleteStep(ctx, state, step)
	case "expect_candidates":
		return r.runExpectCandidatesStep(state, step)
	case "expect_knowledge":
		return r.runExpectKnowledgeStep(state, step)
	case "expect_device":
		return r.runExpectDeviceStep(state, step)
	case "expect_animatable":
		return r.runExpectAnimatableStep(state, step)
	case "expect_consistent":
		return r.runExpectConsistentStep(state, step)
	case "expect_error":
		return r.runExpectErrorStep(state, step)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

func (r *Runner) runMixStep(ctx context.Context, state *scenarioState, step Step) error {
	result, err := parseResult(step.Args["result"])
	if err != nil {
		return err
	}
	_, err = state.notebook.SubmitMix(ctx, resolveIngredient(step.Args["first"]), resolveIngredient(step.Args["second"]), result)
	return err
}

func (r *Runner) runSpyStep(ctx context.Context, state *scenarioState, step Step) error {
	result, err := parseResult(step.Args["result"])
	if err != nil {
		return err
	}
	_, err = state.notebook.SubmitSpy(ctx, resolveIngredient(step.Args["ingredient"]), result)
	return err
}

func (r *Runner) runLookupStep(ctx context.Context, state *scenarioState, step Step) error {
	alignment, err := event.ParseAlignment(optionalString(step.Args, "alignment"))
	if err != nil {
		return err
	}
	_, err = state.notebook.SubmitLookup(ctx, resolveIngredient(step.Args["ingredient"]), alignment)
	return err
}

func (r *Runner) runDeviceStep(ctx context.Context, state *scenarioState, step Step) error {
	ears, _ := step.Args["ears"].(bool)
	chest, _ := step.Args["chest"].(bool)
	_, err := state.notebook.SubmitDeviceTest(ctx, resolveIngredient(step.Args["ingredient"]), ears, chest)
	return err
}

func (r *Runner) runDeleteStep(ctx context.Context, state *scenarioState, step Step) error {
	index, ok := step.Args["index"].(int)
	if !ok {
		return r.failf("delete index must be an integer")
	}
	_, err := state.notebook.DeleteEvent(ctx, index)
	return err
}

func (r *Runner) runExpectCandidatesStep(state *scenarioState, step Step) error {
	name, err := r.expectIngredient(step)
	if err != nil {
		return err
	}
	var want deduction.Set
	for _, notation := range stringList(step.Args["formulas"]) {
		f, err := formula.Parse(notation)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeFormulaInvalid, "expected candidate", err)
		}
		want |= deduction.SetOf(f)
	}
	if got := state.notebook.State().Set(name); got != want {
		return r.assertf("%s candidates = %s, want %s", name, got, want)
	}
	return nil
}

func (r *Runner) runExpectKnowledgeStep(state *scenarioState, step Step) error {
	name, err := r.expectIngredient(step)
	if err != nil {
		return err
	}
	want := optionalString(step.Args, "knowledge")
	if got := state.notebook.State().Knowledge(name).String(); got != want {
		return r.assertf("%s knowledge = %s, want %s", name, got, want)
	}
	return nil
}

func (r *Runner) runExpectDeviceStep(state *scenarioState, step Step) error {
	ears, chest := state.notebook.DeviceSets()
	for _, trigger := range []struct {
		key string
		got formula.SymbolSet
	}{{"ears", ears}, {"chest", chest}} {
		raw, ok := step.Args[trigger.key]
		if !ok {
			continue
		}
		text, _ := raw.(string)
		want, err := formula.ParseSymbolSet(text)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeSymbolInvalid, "expected "+trigger.key, err)
		}
		if trigger.got != want {
			return r.assertf("%s = %q, want %q", trigger.key, trigger.got, want)
		}
	}
	return nil
}

func (r *Runner) runExpectAnimatableStep(state *scenarioState, step Step) error {
	var want []string
	for _, raw := range stringList(step.Args["ingredients"]) {
		name, ok := ingredient.Lookup(raw)
		if !ok {
			return r.failf("unknown ingredient %q in expectation", raw)
		}
		want = append(want, string(name))
	}
	var got []string
	for _, name := range state.notebook.Animatable() {
		got = append(got, string(name))
	}
	sort.Strings(want)
	sort.Strings(got)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return r.assertf("animatable = [%s], want [%s]", strings.Join(got, ", "), strings.Join(want, ", "))
	}
	return nil
}

func (r *Runner) runExpectConsistentStep(state *scenarioState, step Step) error {
	want, _ := step.Args["consistent"].(bool)
	if got := state.notebook.Consistent(); got != want {
		return r.assertf("consistent = %v, want %v (contradictions: %v)", got, want, state.notebook.Contradictions())
	}
	return nil
}

func (r *Runner) runExpectErrorStep(state *scenarioState, step Step) error {
	want := apperrors.Code(optionalString(step.Args, "code"))
	if state.lastErr == nil {
		return r.assertf("expected error %s, previous step succeeded", want)
	}
	got := apperrors.CodeOf(state.lastErr)
	state.lastErr = nil
	if got != want {
		return r.assertf("error code = %s, want %s", got, want)
	}
	return nil
}

func (r *Runner) expectIngredient(step Step) (ingredient.Name, error) {
	raw := optionalString(step.Args, "ingredient")
	name, ok := ingredient.Lookup(raw)
	if !ok {
		return "", r.failf("unknown ingredient %q in expectation", raw)
	}
	return name, nil
}

// resolveIngredient accepts a name or board index. Unknown input passes
// through unchanged so the notebook rejects it.
func resolveIngredient(value any) ingredient.Name {
	raw, _ := value.(string)
	if name, ok := ingredient.Lookup(raw); ok {
		return name
	}
	return ingredient.Name(raw)
}

func parseResult(value any) (formula.Result, error) {
	raw, _ := value.(string)
	result, err := formula.ParseResult(raw)
	if err != nil {
		return formula.Result{}, apperrors.WrapWithMetadata(apperrors.CodeResultInvalid, "invalid result",
			map[string]string{"result": raw}, err)
	}
	return result, nil
}

func optionalString(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return value
}

// stringList reads a Lua sequence of strings. An empty table arrives as an
// empty map and yields nil.
func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}
