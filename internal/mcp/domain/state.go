package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/alchemists/internal/alchemy/deduction"
	"github.com/louisbranch/alchemists/internal/alchemy/event"
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	"github.com/louisbranch/alchemists/internal/alchemy/notebook"
)

// IngredientState describes what is known about one ingredient.
type IngredientState struct {
	Name          string   `json:"name" jsonschema:"ingredient name"`
	Knowledge     string   `json:"knowledge" jsonschema:"certain attributes in formula notation, _ where unknown (e.g. r__-__)"`
	Candidates    []string `json:"candidates" jsonschema:"formulas the ingredient may still be, in universe order"`
	Contradiction bool     `json:"contradiction,omitempty" jsonschema:"true when no formula fits the evidence"`
}

// StateResult is the full derived state of the notebook.
type StateResult struct {
	Ingredients []IngredientState `json:"ingredients" jsonschema:"one entry per ingredient in board order"`
	Ears        string            `json:"ears" jsonschema:"symbols the golem's ears may be keyed to (RrGgBb)"`
	Chest       string            `json:"chest" jsonschema:"symbols the golem's chest may be keyed to (RrGgBb)"`
	Animatable  []string          `json:"animatable" jsonschema:"ingredients that may still animate the golem"`
	Consistent  bool              `json:"consistent" jsonschema:"false when some ingredient has no candidate left"`
	Events      int               `json:"events" jsonschema:"number of recorded events"`
}

// StateInput takes no arguments.
type StateInput struct{}

// StateTool defines the MCP tool schema for reading the derived state.
func StateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "alchemy_state",
		Description: "Returns candidates and certain knowledge for every ingredient, the golem trigger sets, and the ingredients that may animate the golem.",
	}
}

// StateHandler reports the current derived state.
func StateHandler(nb *notebook.Notebook) mcp.ToolHandlerFor[StateInput, StateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ StateInput) (*mcp.CallToolResult, StateResult, error) {
		return nil, snapshot(nb), nil
	}
}

// HistoryEntry is one recorded event.
type HistoryEntry struct {
	Index       int    `json:"index" jsonschema:"position in the log, used by alchemy_delete_event"`
	Kind        string `json:"kind" jsonschema:"mix, spy, lookup or device_test"`
	Description string `json:"description" jsonschema:"narration of the event"`
}

// HistoryInput takes no arguments.
type HistoryInput struct{}

// HistoryResult lists the event log.
type HistoryResult struct {
	Events []HistoryEntry `json:"events" jsonschema:"recorded events in submission order"`
}

// HistoryTool defines the MCP tool schema for listing events.
func HistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "alchemy_history",
		Description: "Lists every recorded observation in order with its index.",
	}
}

// HistoryHandler lists the event log.
func HistoryHandler(nb *notebook.Notebook) mcp.ToolHandlerFor[HistoryInput, HistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ HistoryInput) (*mcp.CallToolResult, HistoryResult, error) {
		events := nb.Events()
		result := HistoryResult{Events: make([]HistoryEntry, 0, len(events))}
		for i, evt := range events {
			result.Events = append(result.Events, HistoryEntry{
				Index:       i,
				Kind:        string(evt.Kind()),
				Description: event.Describe(evt),
			})
		}
		return nil, result, nil
	}
}

func snapshot(nb *notebook.Notebook) StateResult {
	return stateResult(nb.State(), nb.Len())
}

func stateResult(state deduction.State, events int) StateResult {
	result := StateResult{
		Ingredients: make([]IngredientState, 0, len(ingredient.All)),
		Animatable:  []string{},
		Consistent:  state.Consistent(),
		Events:      events,
	}
	for _, name := range ingredient.All {
		candidates := state.Candidates(name)
		result.Ingredients = append(result.Ingredients, IngredientState{
			Name:          string(name),
			Knowledge:     state.Knowledge(name).String(),
			Candidates:    formulaStrings(candidates),
			Contradiction: len(candidates) == 0,
		})
	}
	ears, chest := state.DeviceSets()
	result.Ears = ears.String()
	result.Chest = chest.String()
	for _, name := range state.Animatable() {
		result.Animatable = append(result.Animatable, string(name))
	}
	return result
}

func formulaStrings(fs []formula.Formula) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.String())
	}
	return out
}
