package config

import "time"

// Config is the top-level service configuration parsed from YAML.
type Config struct {
	Server   Server   `yaml:"server"`
	Provider Provider `yaml:"provider"`
	Store    Store    `yaml:"store"`
	Probe    Probe    `yaml:"probe"`
	Chat     Chat     `yaml:"chat"`
	Prompts  Prompts  `yaml:"prompts"`
}

// Server configures the HTTP listener.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Provider selects and parameterizes the reasoning provider.
type Provider struct {
	Type        string  `yaml:"type"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Store locates the SQLite database file. An empty path uses the per-user
// default location.
type Store struct {
	Path string `yaml:"path"`
}

// Probe bounds the best-effort schema probe.
type Probe struct {
	Timeout string `yaml:"timeout"`
}

// Chat bounds per-thread conversation history.
type Chat struct {
	MaxHistorySize int `yaml:"max_history_size"`
}

// Prompts configures the prompt override cache.
type Prompts struct {
	TTL string `yaml:"ttl"`
}

// ProbeTimeout returns the parsed probe timeout. Call Validate first; an
// unparseable value falls back to zero.
func (c *Config) ProbeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Probe.Timeout)
	return d
}

// PromptTTL returns the parsed prompt cache TTL.
func (c *Config) PromptTTL() time.Duration {
	d, _ := time.ParseDuration(c.Prompts.TTL)
	return d
}
