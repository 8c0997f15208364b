package provider_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"gamma-cli/internal/domain"
	"gamma-cli/internal/provider"
)

// Integration tests that hit the real Gamma API.
//
// These tests require a valid GAMMA_API_KEY environment variable and
// sufficient API credits. They are skipped when running with -short or
// when the environment variable is absent.
//
// Run them explicitly:
//
//   GAMMA_API_KEY=your-key go test ./internal/provider/ -run Integration -v
//

func requireAPIKey(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	key := os.Getenv("GAMMA_API_KEY")
	if strings.TrimSpace(key) == "" {
		t.Skip("skipping integration test: GAMMA_API_KEY not set")
	}
	return key
}

func TestIntegration_CreateAndPollGeneration(t *testing.T) {
	apiKey := requireAPIKey(t)
	client := provider.NewAPIClient(apiKey, nil)
	ctx := context.Background()

	handle, err := client.CreateGeneration(ctx, domain.GenerationRequest{
		"inputText": "Three facts about lighthouses",
		"textMode":  "generate",
		"format":    "presentation",
		"numCards":  3,
	})
	if err != nil {
		t.Fatalf("CreateGeneration failed: %v", err)
	}
	t.Logf("Created generation: %s", handle)

	// Poll for status, waiting up to 5 minutes for completion
	deadline := time.Now().Add(5 * time.Minute)
	var status domain.JobStatus
	for time.Now().Before(deadline) {
		status, err = client.GetGenerationStatus(ctx, handle)
		if err != nil {
			t.Fatalf("GetGenerationStatus failed: %v", err)
		}
		t.Logf("Status: %s", status.RawTag)
		if status.Tag.Terminal() {
			break
		}
		time.Sleep(10 * time.Second)
	}

	if status.Tag != domain.StatusCompleted {
		t.Fatalf("generation did not complete within timeout, last status: %q", status.RawTag)
	}
	if !strings.HasPrefix(status.GammaURL, "https://") {
		t.Errorf("gammaUrl doesn't start with https://: %s", status.GammaURL)
	}
}

func TestIntegration_ListThemes(t *testing.T) {
	apiKey := requireAPIKey(t)
	client := provider.NewAPIClient(apiKey, nil)

	themes, err := client.ListResources(context.Background(), domain.ResourceThemes)
	if err != nil {
		t.Fatalf("ListResources failed: %v", err)
	}
	t.Logf("Found %d themes", len(themes))
}

func TestIntegration_GetGenerationStatus_InvalidID(t *testing.T) {
	apiKey := requireAPIKey(t)
	client := provider.NewAPIClient(apiKey, nil)

	_, err := client.GetGenerationStatus(context.Background(), "nonexistent-generation-id-12345")
	if err == nil {
		t.Fatal("expected an error for an unknown generation id")
	}
	t.Logf("Expected error for invalid generation ID: %v", err)
}
