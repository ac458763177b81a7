// Package provider defines the reasoning provider used to turn a composed
// review prompt into a structured response. The variant is chosen once at
// construction time; callers only ever see the Provider interface.
package provider

import (
	"context"
	"fmt"
)

// Message roles, matching the chat-completion wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation sent to the provider.
type Message struct {
	Role    string
	Content string
}

// Provider produces a free-text completion for an ordered sequence of
// messages. Implementations must honor ctx cancellation.
type Provider interface {
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// Func adapts a plain function to the Provider interface. Used for static
// test doubles.
type Func func(ctx context.Context, messages []Message) (string, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// Error marks a failed provider call. The pipeline treats it as fatal and the
// web layer maps it to an upstream failure status.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("reasoning provider: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
