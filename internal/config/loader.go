package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a configuration from the given YAML file path.
// Variables from a local .env file are loaded first and ${VAR} references in
// the YAML are expanded from the environment, so secrets stay out of the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the first
// one found. Search order: ./schemalens.yaml, ~/.schemalens/config.yaml.
// When no file exists the environment-driven defaults are returned, so a bare
// SCHEMALENS_API_KEY is enough to run.
func LoadDefault() (*Config, error) {
	candidates := []string{"schemalens.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".schemalens", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	_ = godotenv.Load()
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills unset fields with their defaults. The provider API key
// falls back to the SCHEMALENS_API_KEY environment variable.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Provider.Type == "" {
		cfg.Provider.Type = "openai"
	}
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv("SCHEMALENS_API_KEY")
	}
	if cfg.Probe.Timeout == "" {
		cfg.Probe.Timeout = "30s"
	}
	if cfg.Chat.MaxHistorySize == 0 {
		cfg.Chat.MaxHistorySize = 10
	}
	if cfg.Prompts.TTL == "" {
		cfg.Prompts.TTL = "24h"
	}
}
