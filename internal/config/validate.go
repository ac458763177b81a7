package config

import (
	"fmt"
	"time"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// recognizedProviders is the closed set of provider types.
var recognizedProviders = map[string]bool{
	"openai":   true,
	"gigachat": true,
	"gemini":   true,
}

// Validate checks a Config for semantic errors. It returns a slice of all
// validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Server.Port),
		})
	}

	if !recognizedProviders[cfg.Provider.Type] {
		errs = append(errs, ValidationError{
			Field:   "provider.type",
			Message: fmt.Sprintf("unrecognized provider %q", cfg.Provider.Type),
		})
	}
	if cfg.Provider.APIKey == "" {
		errs = append(errs, ValidationError{
			Field:   "provider.api_key",
			Message: "is required (set it in the config or via SCHEMALENS_API_KEY)",
		})
	}

	// History is stored as user/assistant pairs; an odd bound would strand
	// half a pair at the head after truncation.
	if cfg.Chat.MaxHistorySize < 2 {
		errs = append(errs, ValidationError{
			Field:   "chat.max_history_size",
			Message: fmt.Sprintf("must be at least 2, got %d", cfg.Chat.MaxHistorySize),
		})
	} else if cfg.Chat.MaxHistorySize%2 != 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.max_history_size",
			Message: fmt.Sprintf("must be even, got %d", cfg.Chat.MaxHistorySize),
		})
	}

	if _, err := time.ParseDuration(cfg.Probe.Timeout); err != nil {
		errs = append(errs, ValidationError{
			Field:   "probe.timeout",
			Message: fmt.Sprintf("invalid duration %q", cfg.Probe.Timeout),
		})
	}
	if _, err := time.ParseDuration(cfg.Prompts.TTL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "prompts.ttl",
			Message: fmt.Sprintf("invalid duration %q", cfg.Prompts.TTL),
		})
	}

	return errs
}
