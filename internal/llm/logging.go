package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/englishbuddy/internal/logger"
	"github.com/abhisek/englishbuddy/internal/store"
)

// LoggingProvider stores every call in the LLM call log, which is what
// `englishbuddy llm list` and the history screen read.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	log      *logger.Logger
}

// WithLogging wraps p. name is the provider label stored with each event
// ("gemini", "openai" and so on). Either repo or log may be nil.
func WithLogging(p Provider, name string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: name, repo: repo, log: log}
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	call := l.begin(ctx, describeRequest(req))
	resp, err := l.inner.Generate(ctx, req)
	if resp != nil {
		call.Model = resp.Model
		call.InputTokens = resp.Usage.InputTokens
		call.OutputTokens = resp.Usage.OutputTokens
		call.ResponseBody = string(resp.Content)
	}
	l.finish(ctx, call, err)
	return resp, err
}

// Speak logs a summary of the audio in place of the response body.
func (l *LoggingProvider) Speak(ctx context.Context, req SpeechRequest) (*Speech, error) {
	sp, ok := l.inner.(SpeechProvider)
	if !ok {
		return nil, ErrSpeechUnsupported
	}

	call := l.begin(ctx, fmt.Sprintf("[speech voice=%q]\n%s", req.Voice, req.Text))
	speech, err := sp.Speak(ctx, req)
	if speech != nil {
		call.Model = speech.Model
		call.InputTokens = speech.Usage.InputTokens
		call.OutputTokens = speech.Usage.OutputTokens
		call.ResponseBody = fmt.Sprintf("[pcm %d bytes @ %d Hz]", len(speech.PCM), speech.SampleRate)
	}
	l.finish(ctx, call, err)
	return speech, err
}

type pendingCall struct {
	store.LLMRequestEventData
	start time.Time
}

func (l *LoggingProvider) begin(ctx context.Context, body string) *pendingCall {
	return &pendingCall{
		LLMRequestEventData: store.LLMRequestEventData{
			Provider:    l.provider,
			Model:       l.inner.ModelID(),
			Purpose:     string(PurposeFrom(ctx)),
			RequestBody: body,
		},
		start: time.Now(),
	}
}

// finish writes the event. A failed write is only logged; the caller
// still gets the provider's result.
func (l *LoggingProvider) finish(ctx context.Context, call *pendingCall, err error) {
	call.LatencyMs = time.Since(call.start).Milliseconds()
	call.Success = err == nil
	if err != nil {
		call.ErrorMessage = err.Error()
	}

	l.log.Debug("llm call",
		"provider", call.Provider,
		"purpose", call.Purpose,
		"model", call.Model,
		"latency_ms", call.LatencyMs,
		"input_tokens", call.InputTokens,
		"output_tokens", call.OutputTokens,
		"error", call.ErrorMessage,
	)
	if l.repo == nil {
		return
	}
	// The event is kept even when the request was cancelled.
	if werr := l.repo.AppendLLMRequest(context.WithoutCancel(ctx), call.LLMRequestEventData); werr != nil {
		l.log.Warn("record llm call", "error", werr)
	}
}

// describeRequest renders req as the plain text shown by `llm show`.
// Attachments appear as a one-line summary.
func describeRequest(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		var body strings.Builder
		for _, a := range m.Attachments {
			fmt.Fprintf(&body, "[attachment %s, %d bytes]\n", a.MIMEType, len(a.Data))
		}
		body.WriteString(m.Content)
		section(string(m.Role), body.String())
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return b.String()
}
