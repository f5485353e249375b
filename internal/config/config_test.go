package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("got port %q", cfg.Server.Port)
	}
	if cfg.Database.Name != "docforge_db" {
		t.Errorf("got database %q", cfg.Database.Name)
	}
	if cfg.LLM.Model != "llama3" {
		t.Errorf("got model %q", cfg.LLM.Model)
	}
	if cfg.LLM.Timeout != 90*time.Second {
		t.Errorf("got timeout %v", cfg.LLM.Timeout)
	}
	if cfg.Vault.Enabled {
		t.Error("vault must default to disabled")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("LLM_MAX_RETRIES", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("got port %q", cfg.Server.Port)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("got temperature %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxRetries != 5 {
		t.Errorf("got retries %d", cfg.LLM.MaxRetries)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("got origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestValidateVaultRequiresToken(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "true")
	t.Setenv("VAULT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Error("expected validation error when vault is enabled without a token")
	}
}

func TestValidateNotionRequiresToken(t *testing.T) {
	t.Setenv("NOTION_ENABLED", "true")
	t.Setenv("NOTION_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Error("expected validation error when notion is enabled without a token")
	}
}

func TestValidateProductionRequiresDBPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Error("expected validation error in production without DB_PASSWORD")
	}
}
