package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-mini": "gpt-4o-mini",
	"gpt":      "gpt-4o",
}

// The pcm speech format is always 24kHz mono.
const openaiSpeechSampleRate = 24000

// OpenAIProvider talks to the chat completions and speech endpoints. With
// a BaseURL it also serves any OpenAI-compatible API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	speechModel string
}

// NewOpenAIProvider builds a provider from cfg. An empty model selects
// gpt-4o-mini.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return newOpenAIProvider(cfg, nil), nil
}

// newOpenAIProvider builds the client. A non-nil httpClient replaces the
// SDK default.
func newOpenAIProvider(cfg OpenAIConfig, httpClient *http.Client) *OpenAIProvider {
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		conf.HTTPClient = httpClient
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-mini"
	}
	speech := cfg.SpeechModel
	if speech == "" {
		speech = string(openai.TTSModelGPT4oMini)
	}
	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(conf),
		model:       resolveModel(model, openaiModels),
		speechModel: speech,
	}
}

func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := requireImages(req.Messages, "openai"); err != nil {
		return nil, err
	}

	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            openAIMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		format, err := openAIResponseFormat(req.Schema)
		if err != nil {
			return nil, err
		}
		chat.ResponseFormat = format
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("no choices in OpenAI response")}
	}

	choice := resp.Choices[0]
	text := choice.Message.Content
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, &ErrMaxTokensExceeded{Content: []byte(text)}
	}
	content, err := decodeStructured(req.Schema, []byte(text))
	if err != nil {
		return nil, err
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: "end",
	}, nil
}

// Speak asks for raw pcm so the audio layer can wrap it the same way as
// Gemini's output.
func (p *OpenAIProvider) Speak(ctx context.Context, req SpeechRequest) (*Speech, error) {
	voice := openai.VoiceCoral
	if req.Voice != "" {
		voice = openai.SpeechVoice(strings.ToLower(req.Voice))
	}

	body, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.speechModel),
		Input:          req.Text,
		Voice:          voice,
		Instructions:   req.Instructions,
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, openAIError(err)
	}
	defer body.Close()

	pcm, err := io.ReadAll(body)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read speech body: %w", err)}
	}
	if len(pcm) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("empty speech response")}
	}
	return &Speech{PCM: pcm, SampleRate: openaiSpeechSampleRate, Model: p.speechModel}, nil
}

func openAIResponseFormat(s *Schema) (*openai.ChatCompletionResponseFormat, error) {
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", s.Name, err)
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:        s.Name,
			Description: s.Description,
			Schema:      json.RawMessage(raw),
			Strict:      true,
		},
	}, nil
}

// openAIMessages sends plain turns as a string and turns with pictures as
// multi-part content, pictures first.
func openAIMessages(req Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
		if m.Role == RoleAssistant {
			msg.Role = openai.ChatMessageRoleAssistant
		}
		if len(m.Attachments) == 0 {
			msg.Content = m.Content
			out = append(out, msg)
			continue
		}
		for _, a := range m.Attachments {
			msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: dataURL(a), Detail: openai.ImageURLDetailAuto},
			})
		}
		if m.Content != "" {
			msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: m.Content,
			})
		}
		out = append(out, msg)
	}
	return out
}

func dataURL(a Attachment) string {
	return "data:" + a.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, 0, fmt.Errorf("openai: %w", err))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, 0, fmt.Errorf("openai: %w", err))
	}
	return &ErrProviderUnavailable{Err: err}
}

// requireImages rejects attachments the chat API cannot take inline.
func requireImages(msgs []Message, provider string) error {
	for _, m := range msgs {
		for _, a := range m.Attachments {
			if !strings.HasPrefix(a.MIMEType, "image/") {
				return fmt.Errorf("%w: %s cannot read %s attachments", ErrUnsupportedAttachment, provider, a.MIMEType)
			}
		}
	}
	return nil
}
