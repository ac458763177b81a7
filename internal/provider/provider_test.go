package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_ClosedVariantSet(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"openai", Config{Type: TypeOpenAI, APIKey: "k"}, ""},
		{"gigachat", Config{Type: TypeGigaChat, APIKey: "k"}, ""},
		{"gemini", Config{Type: TypeGemini, APIKey: "k"}, ""},
		{"unknown", Config{Type: "anthropic", APIKey: "k"}, "unknown provider type"},
		{"empty type", Config{APIKey: "k"}, "unknown provider type"},
		{"missing key", Config{Type: TypeOpenAI}, "api key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestChat_Invoke(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"success\": true}"}}]}`))
	}))
	defer srv.Close()

	p, err := New(Config{Type: TypeOpenAI, APIKey: "k", BaseURL: srv.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	got, err := p.Invoke(context.Background(), []Message{
		{Role: RoleSystem, Content: "you review schemas"},
		{Role: RoleUser, Content: "review this"},
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != `{"success": true}` {
		t.Errorf("content = %q", got)
	}
	if gotBody.Model != "test-model" {
		t.Errorf("model = %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != RoleSystem || gotBody.Messages[1].Content != "review this" {
		t.Errorf("messages = %+v", gotBody.Messages)
	}
}

func TestChat_InvokeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, err := New(Config{Type: TypeOpenAI, APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = p.Invoke(context.Background(), []Message{{Role: RoleUser, Content: "q"}})
	var pErr *Error
	if !errors.As(err, &pErr) {
		t.Fatalf("error = %v, want *provider.Error", err)
	}
	if !strings.HasPrefix(pErr.Error(), "reasoning provider:") {
		t.Errorf("message = %q", pErr.Error())
	}
}

func TestFunc_Adapter(t *testing.T) {
	var seen []Message
	p := Func(func(_ context.Context, messages []Message) (string, error) {
		seen = messages
		return "canned", nil
	})

	got, err := p.Invoke(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil || got != "canned" {
		t.Fatalf("got %q, %v", got, err)
	}
	if len(seen) != 1 || seen[0].Content != "hi" {
		t.Errorf("messages not passed through: %+v", seen)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Err: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
}
