package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/englishbuddy/internal/logger"
	"github.com/abhisek/englishbuddy/internal/store"
)

// NewProvider builds the configured provider and wraps it so that every
// attempt is logged and transient failures are retried:
//
//	caller -> retry -> logging -> provider
//
// The result implements SpeechProvider whatever the base supports;
// SpeakWith reports ErrSpeechUnsupported for providers without speech.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, cfg.Provider, eventRepo, log), cfg.Retry), nil
}

// SpeakWith synthesizes speech through p if it supports it.
func SpeakWith(ctx context.Context, p Provider, req SpeechRequest) (*Speech, error) {
	sp, ok := p.(SpeechProvider)
	if !ok {
		return nil, ErrSpeechUnsupported
	}
	return sp.Speak(ctx, req)
}
