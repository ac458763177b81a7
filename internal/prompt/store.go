package prompt

import (
	"fmt"
	"sort"
	"time"
)

// Cache is the persistent key/value store backing prompt overrides.
// The zero value of a lookup distinguishes "absent" from "empty override".
type Cache interface {
	GetPrompt(key string) (content string, found bool, err error)
	SetPrompt(key, content string, ttl time.Duration) error
	DeletePrompt(key string) error
	PromptKeys() ([]string, error)
}

// Store resolves prompt templates: cached overrides first, compiled-in
// builtins as fallback. It is constructed once and injected wherever prompts
// are needed; there is no process-wide registry.
type Store struct {
	cache Cache
	ttl   time.Duration
}

// NewStore creates a Store. A nil cache serves builtins only.
func NewStore(cache Cache, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

// Get returns the template for key. Cache errors fall through to the builtin:
// a degraded cache must never take prompt resolution down with it.
func (s *Store) Get(key string) (string, error) {
	if s.cache != nil {
		if content, found, err := s.cache.GetPrompt(key); err == nil && found {
			return content, nil
		}
	}
	if content, ok := builtins[key]; ok {
		if s.cache != nil {
			_ = s.cache.SetPrompt(key, content, s.ttl)
		}
		return content, nil
	}
	return "", fmt.Errorf("prompt %q not found", key)
}

// Set stores an override for key with the configured TTL.
func (s *Store) Set(key, content string) error {
	if s.cache == nil {
		return fmt.Errorf("prompt cache not configured")
	}
	return s.cache.SetPrompt(key, content, s.ttl)
}

// Delete removes a cached override; the builtin, if any, becomes visible again.
func (s *Store) Delete(key string) error {
	if s.cache == nil {
		return fmt.Errorf("prompt cache not configured")
	}
	return s.cache.DeletePrompt(key)
}

// Keys lists every available prompt key: builtins plus cached overrides.
func (s *Store) Keys() []string {
	seen := make(map[string]bool)
	for k := range builtins {
		seen[k] = true
	}
	if s.cache != nil {
		if cached, err := s.cache.PromptKeys(); err == nil {
			for _, k := range cached {
				seen[k] = true
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format fetches the template for key and renders it with vars.
func (s *Store) Format(key string, vars Vars) (string, error) {
	tmpl, err := s.Get(key)
	if err != nil {
		return "", err
	}
	rendered, err := Render(tmpl, vars)
	if err != nil {
		return "", fmt.Errorf("render prompt %q: %w", key, err)
	}
	return rendered, nil
}
