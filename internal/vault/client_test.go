package vault

import (
	"context"
	"testing"

	"docforge/internal/config"
	"docforge/internal/testutil"
)

func TestGetAPIKeyRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-backed test in short mode")
	}

	tc := testutil.SetupTestContainers(t)
	defer tc.Cleanup(t)

	client, err := NewClient(config.VaultConfig{
		Address: tc.VaultAddr,
		Token:   tc.VaultToken,
		KVMount: "secret",
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Health(); err != nil {
		t.Fatalf("vault unhealthy: %v", err)
	}

	ctx := context.Background()
	if err := client.StoreSecret(ctx, "docforge/llm", map[string]interface{}{
		"api_key": "sk-test-123",
	}); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	key, err := client.GetAPIKey(ctx, "docforge/llm", "api_key")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if key != "sk-test-123" {
		t.Errorf("got %q", key)
	}
}

func TestGetAPIKeyMissingField(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-backed test in short mode")
	}

	tc := testutil.SetupTestContainers(t)
	defer tc.Cleanup(t)

	client, err := NewClient(config.VaultConfig{
		Address: tc.VaultAddr,
		Token:   tc.VaultToken,
		KVMount: "secret",
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	ctx := context.Background()
	if err := client.StoreSecret(ctx, "docforge/llm", map[string]interface{}{
		"other": "value",
	}); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	if _, err := client.GetAPIKey(ctx, "docforge/llm", "api_key"); err == nil {
		t.Error("expected error for missing field")
	}
}
