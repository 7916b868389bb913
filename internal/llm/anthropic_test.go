package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func anthropicReply(w http.ResponseWriter, text, stop string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":   "msg_test",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage": map[string]any{
			"input_tokens":  50,
			"output_tokens": 30,
		},
	})
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		anthropicReply(w, `{"word":"Diffusion","meaning":"Sự khuếch tán"}`, "end_turn")
	}

	p := newTestAnthropicProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You are an English teacher.",
		Messages:  []Message{{Role: RoleUser, Content: "Define the word \"diffusion\"."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 50 {
		t.Fatalf("expected 50 input tokens, got %d", resp.Usage.InputTokens)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
	if resp.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("expected the served model, got %q", resp.Model)
	}
}

func TestAnthropicProvider_MaxTokens(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		anthropicReply(w, `{"title":"Coff`, "max_tokens")
	})
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Analyze"}},
		MaxTokens: 10,
	})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func anthropicFailure(status int, typ string, header map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for k, v := range header {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": typ, "message": typ},
		})
	}
}

func TestAnthropicProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{"bad key", anthropicFailure(http.StatusUnauthorized, "authentication_error", nil), func(t *testing.T, err error) {
			var auth *ErrAuth
			if !errors.As(err, &auth) || auth.Status != http.StatusUnauthorized {
				t.Fatalf("expected ErrAuth 401, got %T (%v)", err, err)
			}
		}},
		{"rate limited", anthropicFailure(http.StatusTooManyRequests, "rate_limit_error", map[string]string{"Retry-After": "20"}), func(t *testing.T, err error) {
			var rl *ErrRateLimit
			if !errors.As(err, &rl) || rl.RetryAfter != 20*time.Second {
				t.Fatalf("expected ErrRateLimit after 20s, got %T (%v)", err, err)
			}
		}},
		{"overloaded", anthropicFailure(529, "overloaded_error", nil), func(t *testing.T, err error) {
			var unavail *ErrProviderUnavailable
			if !errors.As(err, &unavail) {
				t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, tt.handler)
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			tt.check(t, err)
		})
	}
}

func TestNewAnthropicProvider(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected error without a key")
	}
	models := map[string]string{
		"":                         "claude-haiku-4-5-20251001",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet":            "claude-sonnet-4-5",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	}
	for model, want := range models {
		p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: model})
		if err != nil {
			t.Fatal(err)
		}
		if p.ModelID() != want {
			t.Errorf("model %q resolved to %q, want %q", model, p.ModelID(), want)
		}
	}
}

func TestBuildAnthropicMessagesAttachments(t *testing.T) {
	msgs := buildAnthropicMessages([]Message{{
		Role:    RoleUser,
		Content: "Transcribe this file.",
		Attachments: []Attachment{
			{MIMEType: "application/pdf", Data: []byte("%PDF-1.4")},
			{MIMEType: "image/png", Data: []byte("png")},
		},
	}})

	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	blocks := msgs[0].Content
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].OfDocument == nil {
		t.Error("expected PDF to become a document block")
	}
	if blocks[1].OfImage == nil {
		t.Error("expected PNG to become an image block")
	}
	if blocks[2].OfText == nil || blocks[2].OfText.Text != "Transcribe this file." {
		t.Error("expected trailing text block")
	}
}
