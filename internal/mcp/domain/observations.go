package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/alchemists/internal/alchemy/event"
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	"github.com/louisbranch/alchemists/internal/alchemy/notebook"
	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

// MutationResult is returned by every tool that records an observation.
type MutationResult struct {
	Index    int         `json:"index" jsonschema:"log index of the new event, -1 when nothing was recorded"`
	Recorded bool        `json:"recorded" jsonschema:"false when the observation carried no information"`
	State    StateResult `json:"state" jsonschema:"derived state after the observation"`
}

// MixInput represents the MCP tool input for recording a brew.
type MixInput struct {
	First  string `json:"first" jsonschema:"first ingredient name or board index 0-7"`
	Second string `json:"second" jsonschema:"second ingredient name or board index 0-7"`
	Result string `json:"result" jsonschema:"potion brewed: N, R+, R-, G+, G-, B+, B-, or + / - when the color was not seen"`
}

// MixTool defines the MCP tool schema for recording a brew.
func MixTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "alchemy_mix",
		Description: "Records the potion brewed from two different ingredients and recomputes every deduction.",
	}
}

// MixHandler records a brew.
func MixHandler(nb *notebook.Notebook) mcp.ToolHandlerFor[MixInput, MutationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MixInput) (*mcp.CallToolResult, MutationResult, error) {
		result, err := parseResult(input.Result)
		if err != nil {
			return nil, MutationResult{}, err
		}
		index, err := nb.SubmitMix(ctx, resolveIngredient(input.First), resolveIngredient(input.Second), result)
		if err != nil {
			return nil, MutationResult{}, fmt.Errorf("mix failed: %w", err)
		}
		return nil, mutationResult(nb, index), nil
	}
}

// SpyInput represents the MCP tool input for recording another player's brew.
type SpyInput struct {
	Ingredient string `json:"ingredient" jsonschema:"ingredient name or board index 0-7"`
	Result     string `json:"result" jsonschema:"potion seen: R+, R-, G+, G-, B+, B-, + or -; N is accepted and ignored"`
}

// SpyTool defines the MCP tool schema for recording a spied brew.
func SpyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "alchemy_spy",
		Description: "Records a potion another player brewed with a known ingredient. Neutral potions reveal nothing and are not recorded.",
	}
}

// SpyHandler records a spied brew.
func SpyHandler(nb *notebook.Notebook) mcp.ToolHandlerFor[SpyInput, MutationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SpyInput) (*mcp.CallToolResult, MutationResult, error) {
		result, err := parseResult(input.Result)
		if err != nil {
			return nil, MutationResult{}, err
		}
		index, err := nb.SubmitSpy(ctx, resolveIngredient(input.Ingredient), result)
		if err != nil {
			return nil, MutationResult{}, fmt.Errorf("spy failed: %w", err)
		}
		return nil, mutationResult(nb, index), nil
	}
}

// LookupInput represents the MCP tool input for an encyclopedia lookup.
type LookupInput struct {
	Ingredient string `json:"ingredient" jsonschema:"ingredient name or board index 0-7"`
	Alignment  string `json:"alignment" jsonschema:"moon (even positive aspects) or sun (odd)"`
}

// LookupTool defines the MCP tool schema for recording a lookup.
func LookupTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "alchemy_lookup",
		Description: "Records whether the encyclopedia lists an ingredient under the moon or the sun.",
	}
}

// LookupHandler records an encyclopedia lookup.
func LookupHandler(nb *notebook.Notebook) mcp.ToolHandlerFor[LookupInput, MutationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LookupInput) (*mcp.CallToolResult, MutationResult, error) {
		alignment, err := event.ParseAlignment(input.Alignment)
		if err != nil {
			return nil, MutationResult{}, err
		}
		index, err := nb.SubmitLookup(ctx, resolveIngredient(input.Ingredient), alignment)
		if err != nil {
			return nil, MutationResult{}, fmt.Errorf("lookup failed: %w", err)
		}
		return nil, mutationResult(nb, index), nil
	}
}

// DeviceTestInput represents the MCP tool input for feeding the golem.
type DeviceTestInput struct {
	Ingredient string `json:"ingredient" jsonschema:"ingredient name or board index 0-7"`
	Ears       bool   `json:"ears,omitempty" jsonschema:"true when the golem's ears steamed"`
	Chest      bool   `json:"chest,omitempty" jsonschema:"true when the golem's chest glowed"`
}

// DeviceTestTool defines the MCP tool schema for recording a golem test.
func DeviceTestTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "alchemy_device_test",
		Description: "Records how the golem reacted to an ingredient. A later test of the same ingredient replaces the earlier reaction.",
	}
}

// DeviceTestHandler records a golem test.
func DeviceTestHandler(nb *notebook.Notebook) mcp.ToolHandlerFor[DeviceTestInput, MutationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeviceTestInput) (*mcp.CallToolResult, MutationResult, error) {
		index, err := nb.SubmitDeviceTest(ctx, resolveIngredient(input.Ingredient), input.Ears, input.Chest)
		if err != nil {
			return nil, MutationResult{}, fmt.Errorf("device test failed: %w", err)
		}
		return nil, mutationResult(nb, index), nil
	}
}

// DeleteEventInput represents the MCP tool input for forgetting an event.
type DeleteEventInput struct {
	Index int `json:"index" jsonschema:"log index from alchemy_history"`
}

// DeleteEventResult represents the MCP tool output for a deletion.
type DeleteEventResult struct {
	Removed string      `json:"removed" jsonschema:"narration of the removed event"`
	State   StateResult `json:"state" jsonschema:"derived state after the deletion"`
}

// DeleteEventTool defines the MCP tool schema for deleting an event.
func DeleteEventTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "alchemy_delete_event",
		Description: "Removes a recorded observation by index and recomputes every deduction from the remaining log.",
	}
}

// DeleteEventHandler removes an event.
func DeleteEventHandler(nb *notebook.Notebook) mcp.ToolHandlerFor[DeleteEventInput, DeleteEventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteEventInput) (*mcp.CallToolResult, DeleteEventResult, error) {
		removed, err := nb.DeleteEvent(ctx, input.Index)
		if err != nil {
			return nil, DeleteEventResult{}, fmt.Errorf("delete failed: %w", err)
		}
		return nil, DeleteEventResult{Removed: event.Describe(removed), State: snapshot(nb)}, nil
	}
}

func mutationResult(nb *notebook.Notebook, index int) MutationResult {
	return MutationResult{
		Index:    index,
		Recorded: index != notebook.NotRecorded,
		State:    snapshot(nb),
	}
}

// resolveIngredient accepts a name or board index. Unknown input passes
// through so the notebook reports it.
func resolveIngredient(input string) ingredient.Name {
	if name, ok := ingredient.Lookup(input); ok {
		return name
	}
	return ingredient.Name(input)
}

func parseResult(input string) (formula.Result, error) {
	result, err := formula.ParseResult(input)
	if err != nil {
		return formula.Result{}, apperrors.WrapWithMetadata(apperrors.CodeResultInvalid, "invalid result",
			map[string]string{"result": input}, err)
	}
	return result, nil
}
