package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects a provider and carries the settings of every provider,
// so switching Provider never loses a configured key.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter" or
	// "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one request including its retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	SpeechModel string
	// BaseURL points the client at an OpenAI-compatible API.
	BaseURL string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	SpeechModel string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig shapes the exponential backoff of WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Providers lists the real providers in the order DiscoverConfig probes
// their standard key variables.
var Providers = []string{"gemini", "openai", "anthropic", "openrouter"}

func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini", SpeechModel: "gpt-4o-mini-tts"},
		Gemini:     GeminiConfig{Model: "gemini-flash", SpeechModel: "gemini-tts"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// envPrefix is prepended to the per-provider variables read by
// ConfigFromEnv, e.g. ENGLISHBUDDY_GEMINI_API_KEY.
const envPrefix = "ENGLISHBUDDY_"

// ConfigFromEnv overlays ENGLISHBUDDY_* variables on DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "LLM_PROVIDER")

	setFromEnv(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "ANTHROPIC_MODEL")

	setFromEnv(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "GEMINI_MODEL")
	setFromEnv(&cfg.Gemini.SpeechModel, "GEMINI_SPEECH_MODEL")

	setFromEnv(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "OPENROUTER_MODEL")
	return cfg
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(envPrefix + name); v != "" {
		*dst = v
	}
}

// DiscoverConfig looks for the providers' own key variables (GEMINI_API_KEY
// and so on) and configures the first one set. It reports false when none
// is.
func DiscoverConfig() (Config, bool) {
	for _, name := range Providers {
		k := os.Getenv(strings.ToUpper(name) + "_API_KEY")
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = name
		return cfg.WithAPIKey(k), true
	}
	return Config{}, false
}

// apiKey returns the key slot of the selected provider, or nil for mock
// and unknown providers.
func (c *Config) apiKey() *string {
	switch c.Provider {
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// WithAPIKey returns a copy of c with key given to the selected provider.
// It is how the key saved in the app reaches the provider.
func (c Config) WithAPIKey(key string) Config {
	if slot := c.apiKey(); slot != nil {
		*slot = key
	}
	return c
}

func (c Config) HasAPIKey() bool {
	if c.Provider == "mock" {
		return true
	}
	slot := c.apiKey()
	return slot != nil && *slot != ""
}

// Validate reports an unknown provider or a missing key, naming the
// variable that would supply it.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	slot := c.apiKey()
	if slot == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *slot == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", envPrefix, strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
