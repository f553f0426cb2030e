package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/alchemists/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("ALCHEMISTS_OTEL_ENDPOINT", "")
	t.Setenv("ALCHEMISTS_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_RejectsMalformedToggle(t *testing.T) {
	t.Setenv("ALCHEMISTS_OTEL_ENABLED", "maybe")

	if _, err := otel.Setup(context.Background(), "test-service"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSetupWithConfig_NoopWhenExplicitlyDisabled(t *testing.T) {
	shutdown, err := otel.SetupWithConfig(context.Background(), "test-service", otel.Config{
		Enabled:  false,
		Endpoint: "http://localhost:4318",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupWithConfig_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Use a non-routable address so no actual export happens.
	shutdown, err := otel.SetupWithConfig(context.Background(), "test-service", otel.Config{
		Enabled:  true,
		Endpoint: "http://192.0.2.1:4318",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Shutdown should flush cleanly even though the endpoint is unreachable.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
