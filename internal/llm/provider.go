// Package llm is the tutor's model layer: one Provider interface over
// Gemini, OpenAI, Anthropic and OpenRouter, with schema-checked JSON
// output, optional speech, retries and a persistent call log.
package llm

import (
	"context"
	"encoding/json"
)

// Provider answers a Request. When the request carries a Schema the
// returned Content has been checked against it.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// SpeechProvider is implemented by providers that can read text aloud.
// Use SpeakWith rather than asserting it directly.
type SpeechProvider interface {
	Speak(ctx context.Context, req SpeechRequest) (*Speech, error)
}

type Request struct {
	System string
	// Analysis sends a single user message, with the submitted picture or
	// PDF as an attachment when there is one.
	Messages []Message
	// Schema switches the provider into its structured-output mode. With
	// no schema the answer comes back as plain text.
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role        Role
	Content     string
	Attachments []Attachment
}

type Attachment struct {
	MIMEType string
	Data     []byte
}

// Schema is a JSON Schema with a name. The name doubles as the OpenAI
// schema name and the key of the compiled-schema cache, so keep it
// unique and kebab-case ("lesson-analysis").
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content json.RawMessage
	Usage   Usage
	// Model is the model that actually served the call, which may differ
	// from the configured alias.
	Model string
	// StopReason is "end" for a completed answer. A truncated answer is
	// returned as ErrMaxTokensExceeded instead.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type SpeechRequest struct {
	Text string
	// Instructions describe the delivery ("slowly, like a teacher").
	Instructions string
	// Voice is provider specific; empty picks the provider default.
	Voice string
}

// Speech is signed 16-bit little-endian mono PCM.
type Speech struct {
	PCM        []byte
	SampleRate int
	Model      string
	Usage      Usage
}
