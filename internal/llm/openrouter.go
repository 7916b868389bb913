package llm

import (
	"context"
	"errors"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterAppTitle       = "EnglishBuddy"
	openRouterAppURL         = "https://github.com/abhisek/englishbuddy"
)

// OpenRouterProvider reaches many hosted models through OpenRouter's
// OpenAI-compatible API. Model IDs are passed through unchanged, e.g.
// "google/gemini-2.5-flash".
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultConfig().OpenRouter.Model
	}

	httpClient := &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}
	inner := newOpenAIProvider(OpenAIConfig{APIKey: cfg.APIKey, BaseURL: baseURL}, httpClient)
	// The OpenAI aliases do not apply to OpenRouter IDs.
	inner.model = model
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// Speak is not offered by the OpenRouter API.
func (p *OpenRouterProvider) Speak(context.Context, SpeechRequest) (*Speech, error) {
	return nil, ErrSpeechUnsupported
}

// attributionTransport adds the headers OpenRouter uses to name the
// calling app on its dashboard.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", openRouterAppURL)
	req.Header.Set("X-Title", openRouterAppTitle)
	return t.base.RoundTrip(req)
}
