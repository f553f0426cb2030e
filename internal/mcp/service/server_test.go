package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	"github.com/louisbranch/alchemists/internal/alchemy/notebook"
	"github.com/louisbranch/alchemists/internal/mcp/domain"
)

func connect(t *testing.T, server *Server) (*mcp.ClientSession, func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer clientCancel()
	session, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}

	return session, func() {
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Errorf("serve returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
		_ = session.Close()
	}
}

func decodeStructuredContent[T any](t *testing.T, value any) T {
	t.Helper()

	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var output T
	if err := json.Unmarshal(data, &output); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return output
}

func TestServerListsTools(t *testing.T) {
	session, done := connect(t, New("", nil))
	defer done()

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	want := map[string]bool{
		"alchemy_mix": true, "alchemy_spy": true, "alchemy_lookup": true, "alchemy_device_test": true,
		"alchemy_delete_event": true, "alchemy_state": true, "alchemy_history": true,
	}
	if len(result.Tools) != len(want) {
		t.Fatalf("tools = %d, want %d", len(result.Tools), len(want))
	}
	for _, tool := range result.Tools {
		if !want[tool.Name] {
			t.Fatalf("unexpected tool %q", tool.Name)
		}
	}
}

func TestServerRecordsObservations(t *testing.T) {
	nb := notebook.New()
	session, done := connect(t, New("test", nb))
	defer done()
	ctx := context.Background()

	mixResult, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "alchemy_mix",
		Arguments: map[string]any{"first": "mushroom", "second": "fern", "result": "R+"},
	})
	if err != nil {
		t.Fatalf("call alchemy_mix: %v", err)
	}
	if mixResult == nil || mixResult.IsError {
		t.Fatalf("alchemy_mix failed: %+v", mixResult)
	}
	output := decodeStructuredContent[domain.MutationResult](t, mixResult.StructuredContent)
	if !output.Recorded || output.State.Ingredients[0].Knowledge != "_+____" {
		t.Fatalf("mix output = %+v", output)
	}

	candidates, err := nb.Candidates(ingredient.Mushroom)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(candidates) != 4 {
		t.Fatalf("notebook mushroom candidates = %d, want 4", len(candidates))
	}

	rejected, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "alchemy_mix",
		Arguments: map[string]any{"first": "toad", "second": "toad", "result": "N"},
	})
	if err != nil {
		t.Fatalf("call alchemy_mix: %v", err)
	}
	if !rejected.IsError {
		t.Fatal("expected tool error for mixing an ingredient with itself")
	}
	if nb.Len() != 1 {
		t.Fatalf("log length = %d, want 1", nb.Len())
	}
}
