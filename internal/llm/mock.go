package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted answer of a MockProvider. A non-nil Err is
// returned instead of a response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

type MockSpeech struct {
	PCM []byte
	Err error
}

// errScriptExhausted is what a MockProvider returns once its script has
// run out, wrapped as ErrProviderUnavailable.
var errScriptExhausted = errors.New("mock: no scripted reply left")

// MockProvider plays back scripted replies in order and records every
// request. It backs the "mock" provider and the tests of the tutor.
type MockProvider struct {
	mu          sync.Mutex
	replies     []MockResponse
	speech      []MockSpeech
	Calls       []Request
	SpeechCalls []SpeechRequest
}

func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	next, ok := shift(&m.replies)
	switch {
	case !ok:
		return nil, &ErrProviderUnavailable{Err: errScriptExhausted}
	case next.Err != nil:
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) Speak(_ context.Context, req SpeechRequest) (*Speech, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SpeechCalls = append(m.SpeechCalls, req)

	next, ok := shift(&m.speech)
	switch {
	case !ok:
		return nil, &ErrProviderUnavailable{Err: errScriptExhausted}
	case next.Err != nil:
		return nil, next.Err
	}
	return &Speech{PCM: next.PCM, SampleRate: defaultSpeechSampleRate, Model: "mock"}, nil
}

func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	m.replies = append(m.replies, r)
	m.mu.Unlock()
}

func (m *MockProvider) AddSpeech(s MockSpeech) {
	m.mu.Lock()
	m.speech = append(m.speech, s)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockProvider) SpeechCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SpeechCalls)
}

func shift[T any](queue *[]T) (T, bool) {
	var zero T
	if len(*queue) == 0 {
		return zero, false
	}
	head := (*queue)[0]
	*queue = (*queue)[1:]
	return head, true
}
