package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-pro":   "gemini-2.5-pro",
	"gemini-tts":   "gemini-2.5-flash-preview-tts",
}

const (
	defaultGeminiVoice      = "Kore"
	defaultSpeechSampleRate = 24000
)

// GeminiProvider is the default provider. It is the only one that reads
// PDFs and speaks through the same API key.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	speechModel string
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model, speech := cfg.Model, cfg.SpeechModel
	if model == "" {
		model = "gemini-flash"
	}
	if speech == "" {
		speech = "gemini-tts"
	}
	return &GeminiProvider{
		client:      client,
		model:       resolveModel(model, geminiModels),
		speechModel: resolveModel(speech, geminiModels),
	}, nil
}

func (p *GeminiProvider) ModelID() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	conf := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		conf.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		conf.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		conf.ResponseMIMEType = "application/json"
		conf.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, buildGeminiContents(req.Messages), conf)
	if err != nil {
		return nil, geminiError(err)
	}

	text := result.Text()
	if geminiFinish(result) == genai.FinishReasonMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: []byte(text)}
	}
	content, err := decodeStructured(req.Schema, []byte(text))
	if err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      geminiUsage(result),
		Model:      p.model,
		StopReason: "end",
	}, nil
}

// Speak uses the audio response modality of the speech model. Gemini has
// no separate instruction field, so the delivery hint is put ahead of the
// text.
func (p *GeminiProvider) Speak(ctx context.Context, req SpeechRequest) (*Speech, error) {
	voice := req.Voice
	if voice == "" {
		voice = defaultGeminiVoice
	}
	conf := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
	prompt := req.Text
	if req.Instructions != "" {
		prompt = req.Instructions + "\n\n" + req.Text
	}

	result, err := p.client.Models.GenerateContent(ctx, p.speechModel, genai.Text(prompt), conf)
	if err != nil {
		return nil, geminiError(err)
	}
	blob := firstGeminiBlob(result)
	if blob == nil || len(blob.Data) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("no audio in Gemini response")}
	}
	return &Speech{
		PCM:        blob.Data,
		SampleRate: sampleRateFromMIME(blob.MIMEType),
		Model:      p.speechModel,
		Usage:      geminiUsage(result),
	}, nil
}

func buildGeminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var parts []*genai.Part
		for _, a := range m.Attachments {
			parts = append(parts, genai.NewPartFromBytes(a.Data, a.MIMEType))
		}
		if m.Content != "" {
			parts = append(parts, genai.NewPartFromText(m.Content))
		}
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromParts(parts, role))
	}
	return out
}

func geminiFinish(result *genai.GenerateContentResponse) genai.FinishReason {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	return result.Candidates[0].FinishReason
}

func geminiUsage(result *genai.GenerateContentResponse) Usage {
	if result == nil || result.UsageMetadata == nil {
		return Usage{}
	}
	u := result.UsageMetadata
	return Usage{
		InputTokens:  int(u.PromptTokenCount),
		OutputTokens: int(u.CandidatesTokenCount),
		TotalTokens:  int(u.TotalTokenCount),
	}
}

func firstGeminiBlob(result *genai.GenerateContentResponse) *genai.Blob {
	if result == nil {
		return nil
	}
	for _, c := range result.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}

// sampleRateFromMIME reads the rate parameter of e.g.
// "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mime string) int {
	for _, param := range strings.Split(mime, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || k != "rate" {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultSpeechSampleRate
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// buildGeminiSchema translates the subset of JSON Schema the tutor's
// schemas use. Unknown types fall back to string.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeString}
	if t, ok := def["type"].(string); ok {
		if gt, ok := geminiTypes[t]; ok {
			s.Type = gt
		}
	}
	s.Description, _ = def["description"].(string)

	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if sub, ok := v.(map[string]any); ok {
				s.Properties[name] = buildGeminiSchema(sub)
			}
		}
	}
	s.Required = stringList(def["required"])
	s.Enum = stringList(def["enum"])
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = buildGeminiSchema(items)
	}
	if alts, ok := def["anyOf"].([]any); ok {
		for _, a := range alts {
			if sub, ok := a.(map[string]any); ok {
				s.AnyOf = append(s.AnyOf, buildGeminiSchema(sub))
			}
		}
	}
	return s
}

func stringList(v any) []string {
	items, _ := v.([]any)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func geminiError(err error) error {
	// The SDK has returned APIError both by value and by pointer.
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, 0, fmt.Errorf("gemini: %w", err))
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return classifyStatus(apiErrPtr.Code, 0, fmt.Errorf("gemini: %w", err))
	}
	return &ErrProviderUnavailable{Err: err}
}
