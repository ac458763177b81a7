package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemalens.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
provider:
  type: gigachat
  api_key: secret
  model: GigaChat-Pro
  temperature: 0.2
  max_tokens: 4096
store:
  path: /var/lib/schemalens/data.db
probe:
  timeout: 10s
chat:
  max_history_size: 20
prompts:
  ttl: 1h
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Provider.Type != "gigachat" || cfg.Provider.Model != "GigaChat-Pro" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Provider.Temperature != 0.2 || cfg.Provider.MaxTokens != 4096 {
		t.Errorf("provider tuning = %+v", cfg.Provider)
	}
	if cfg.Chat.MaxHistorySize != 20 {
		t.Errorf("max_history_size = %d", cfg.Chat.MaxHistorySize)
	}
	if cfg.ProbeTimeout() != 10*time.Second {
		t.Errorf("probe timeout = %v", cfg.ProbeTimeout())
	}
	if cfg.PromptTTL() != time.Hour {
		t.Errorf("prompt ttl = %v", cfg.PromptTTL())
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
provider:
  api_key: secret
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Provider.Type != "openai" {
		t.Errorf("default provider type = %q", cfg.Provider.Type)
	}
	if cfg.Chat.MaxHistorySize != 10 {
		t.Errorf("default max_history_size = %d", cfg.Chat.MaxHistorySize)
	}
	if cfg.Probe.Timeout != "30s" {
		t.Errorf("default probe timeout = %q", cfg.Probe.Timeout)
	}
	if cfg.Prompts.TTL != "24h" {
		t.Errorf("default prompt ttl = %q", cfg.Prompts.TTL)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SCHEMALENS_KEY", "from-env")
	path := writeConfig(t, `
provider:
  api_key: ${TEST_SCHEMALENS_KEY}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider.APIKey != "from-env" {
		t.Errorf("api_key = %q, want env value", cfg.Provider.APIKey)
	}
}

func TestLoad_APIKeyEnvFallback(t *testing.T) {
	t.Setenv("SCHEMALENS_API_KEY", "fallback-key")
	path := writeConfig(t, `
provider:
  type: openai
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider.APIKey != "fallback-key" {
		t.Errorf("api_key = %q, want fallback", cfg.Provider.APIKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/schemalens.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "provider: [broken")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Provider.APIKey = "k"
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server:   Server{Port: 99999},
		Provider: Provider{Type: "claude"},
		Probe:    Probe{Timeout: "soon"},
		Chat:     Chat{MaxHistorySize: 10},
		Prompts:  Prompts{TTL: "24h"},
	}
	errs := Validate(cfg)
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), errs)
	}
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, want := range []string{"server.port", "provider.type", "provider.api_key", "probe.timeout"} {
		if !fields[want] {
			t.Errorf("missing error for %s", want)
		}
	}
}

func TestValidate_HistorySize(t *testing.T) {
	tests := []struct {
		size    int
		wantErr string
	}{
		{10, ""},
		{2, ""},
		{7, "must be even"},
		{1, "must be at least 2"},
		{-4, "must be at least 2"},
	}
	for _, tt := range tests {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Provider.APIKey = "k"
		cfg.Chat.MaxHistorySize = tt.size

		errs := Validate(cfg)
		if tt.wantErr == "" {
			if len(errs) != 0 {
				t.Errorf("size %d: unexpected errors %v", tt.size, errs)
			}
			continue
		}
		found := false
		for _, e := range errs {
			if strings.Contains(e.Message, tt.wantErr) {
				found = true
			}
		}
		if !found {
			t.Errorf("size %d: no error containing %q in %v", tt.size, tt.wantErr, errs)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "provider.type", Message: "unrecognized provider \"claude\""}
	if got := e.Error(); got != `provider.type: unrecognized provider "claude"` {
		t.Errorf("got %q", got)
	}
}
