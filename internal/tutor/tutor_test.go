package tutor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/quiz"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func analysisJSON() json.RawMessage {
	return json.RawMessage(`{
		"title": "Morning Routines",
		"fullText": "Many people start their day with a ritual.",
		"summary": "Nhiều người bắt đầu ngày mới với một thói quen.",
		"vocabulary": [
			{"word": "ritual", "ipa": "/ˈrɪtʃuəl/", "englishDefinition": "a habitual act", "meaning": "nghi thức", "type": "noun"},
			{"word": "Ritual", "ipa": "", "englishDefinition": "dup", "meaning": "dup", "type": "noun"},
			{"word": "start", "ipa": "/stɑːt/", "englishDefinition": "to begin", "meaning": "bắt đầu", "type": "verb"}
		]
	}`)
}

func newTestClient(mock *llm.MockProvider) *Client {
	c := New(mock, DefaultConfig(), nil)
	c.now = func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }
	return c
}

func TestAnalyze_Text(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: analysisJSON()})
	c := newTestClient(mock)

	l, err := c.Analyze(t.Context(), TextInput("Many people start their day with a ritual."))
	require.NoError(t, err)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "Morning Routines", l.Title)
	assert.Empty(t, l.ImageSource)
	require.Len(t, l.Vocabulary, 2, "duplicate words collapse")
	assert.Equal(t, "vocab-0", l.Vocabulary[0].ID)
	assert.Equal(t, "vocab-1", l.Vocabulary[1].ID)
	assert.Equal(t, lesson.StatusResolved, l.Vocabulary[0].Status)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, AnalysisSchema, call.Schema)
	assert.Empty(t, call.Messages[0].Attachments)
	assert.Contains(t, call.Messages[0].Content, "start their day")
}

func TestAnalyze_ImageAttachesAndRemembersSource(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: analysisJSON()})
	c := newTestClient(mock)

	l, err := c.Analyze(t.Context(), FileInput("/tmp/scans/page1.png", pngHeader, ""))
	require.NoError(t, err)
	assert.Equal(t, "page1.png", l.ImageSource)

	atts := mock.Calls[0].Messages[0].Attachments
	require.Len(t, atts, 1)
	assert.Equal(t, "image/png", atts[0].MIMEType)
}

func TestAnalyze_PDFIsNotAnImageSource(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: analysisJSON()})
	c := newTestClient(mock)

	l, err := c.Analyze(t.Context(), FileInput("notes.pdf", []byte("%PDF-1.4\n%âãÏÓ\n"), ""))
	require.NoError(t, err)
	assert.Empty(t, l.ImageSource)
	assert.Equal(t, "application/pdf", mock.Calls[0].Messages[0].Attachments[0].MIMEType)
}

func TestAnalyze_TextFileBecomesText(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: analysisJSON()})
	c := newTestClient(mock)

	_, err := c.Analyze(t.Context(), FileInput("story.txt", []byte("Once upon a time."), "text/plain; charset=utf-8"))
	require.NoError(t, err)
	assert.Empty(t, mock.Calls[0].Messages[0].Attachments)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Once upon a time.")
}

func TestAnalyze_Defaults(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"title":"","fullText":"  ","summary":"","vocabulary":[]}`),
	})
	c := newTestClient(mock)

	l, err := c.Analyze(t.Context(), TextInput("x"))
	require.NoError(t, err)
	assert.Equal(t, "Lesson 2026-03-04", l.Title)
	assert.Equal(t, fallbackFullText, l.FullText)
	assert.Empty(t, l.Vocabulary)
}

func TestAnalyze_Errors(t *testing.T) {
	t.Run("no credential", func(t *testing.T) {
		_, err := New(nil, DefaultConfig(), nil).Analyze(t.Context(), TextInput("hello"))
		assert.ErrorIs(t, err, ErrCredentialMissing)
	})

	t.Run("empty text", func(t *testing.T) {
		mock := llm.NewMockProvider()
		_, err := newTestClient(mock).Analyze(t.Context(), TextInput("   "))
		assert.ErrorIs(t, err, ErrAnalysis)
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.Zero(t, mock.CallCount())
	})

	t.Run("unsupported file", func(t *testing.T) {
		mock := llm.NewMockProvider()
		_, err := newTestClient(mock).Analyze(t.Context(), FileInput("a.zip", []byte("PK\x03\x04rest"), ""))
		assert.ErrorIs(t, err, ErrUnsupportedInput)
		assert.Zero(t, mock.CallCount())
	})

	t.Run("provider failure", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
		_, err := newTestClient(mock).Analyze(t.Context(), TextInput("hello"))
		assert.ErrorIs(t, err, ErrAnalysis)
		var unavailable *llm.ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavailable)
	})

	t.Run("bad json", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)})
		_, err := newTestClient(mock).Analyze(t.Context(), TextInput("hello"))
		assert.ErrorIs(t, err, ErrAnalysis)
	})
}

func TestGenerateQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions": [
		{"id": "q1", "type": "multiple_choice", "question": "What starts the day?", "options": ["A ritual", "A nap"], "correctAnswer": "A ritual", "explanation": "First line."},
		{"id": "", "type": "true_false", "question": "Everyone has a ritual.", "options": [], "correctAnswer": "Doesn't Say", "explanation": ""},
		{"id": "q3", "type": "matching", "question": "Match.", "options": [], "correctAnswer": ["ritual", " habit "], "explanation": ""},
		{"id": "q4", "type": "essay", "question": "Discuss.", "options": [], "correctAnswer": "x", "explanation": ""},
		{"id": "q5", "type": "fill_blank", "question": "", "options": [], "correctAnswer": "x", "explanation": ""}
	]}`)})
	c := newTestClient(mock)

	qs, err := c.GenerateQuiz(t.Context(), "Many people start their day with a ritual.")
	require.NoError(t, err)
	require.Len(t, qs, 3)

	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, quiz.MultipleChoice, qs[0].Type)
	assert.Equal(t, []string{"A ritual", "A nap"}, qs[0].Options)

	assert.NotEmpty(t, qs[1].ID, "missing id is stamped")
	assert.Equal(t, "Doesn't Say", qs[1].CorrectAnswer)

	assert.Equal(t, "ritual, habit", qs[2].CorrectAnswer)

	assert.Equal(t, QuizSchema, mock.Calls[0].Schema)
	assert.True(t, strings.HasPrefix(mock.Calls[0].Messages[0].Content, "Create a quiz for this text: "))
}

func TestGenerateQuiz_AcceptsBareArray(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`[{"type": "fill_blank", "question": "Many people _______ their day.", "correctAnswer": "start"}]`,
	)})
	qs, err := newTestClient(mock).GenerateQuiz(t.Context(), "text")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.NotEmpty(t, qs[0].ID)
}

func TestGenerateQuiz_Failure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	qs, err := newTestClient(mock).GenerateQuiz(t.Context(), "text")
	assert.Error(t, err)
	assert.Empty(t, qs)

	_, err = New(nil, DefaultConfig(), nil).GenerateQuiz(t.Context(), "text")
	assert.ErrorIs(t, err, ErrCredentialMissing)
}

func TestDefineWord(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"word": "ritual", "ipa": "/ˈrɪtʃuəl/", "englishDefinition": "a habitual act", "meaning": "nghi thức", "type": "noun"}`,
	)})
	v := newTestClient(mock).DefineWord(t.Context(), "ritual", "a morning ritual")

	assert.Equal(t, lesson.StatusResolved, v.Status)
	assert.Equal(t, "nghi thức", v.Meaning)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, `"ritual"`)
	assert.Equal(t, DefinitionSchema, mock.Calls[0].Schema)
}

func TestDefineWord_FailureIsSentinel(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	v := newTestClient(mock).DefineWord(t.Context(), "ritual", "ctx")
	assert.Equal(t, lesson.StatusFailed, v.Status)
	assert.Equal(t, "ritual", v.Word)
	assert.Equal(t, NotFoundMeaning, v.Meaning)
	assert.Equal(t, "unknown", v.Type)

	v = New(nil, DefaultConfig(), nil).DefineWord(t.Context(), "ritual", "ctx")
	assert.Equal(t, lesson.StatusFailed, v.Status)
	assert.Equal(t, NoKeyMeaning, v.Meaning)
}

func TestSynthesizeSpeech(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddSpeech(llm.MockSpeech{PCM: []byte{1, 2, 3, 4}})
	c := newTestClient(mock)

	payload, ok := c.SynthesizeSpeech(t.Context(), strings.Repeat("a", maxSpeechChars+10))
	require.True(t, ok)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4}), payload)

	require.Equal(t, 1, mock.SpeechCallCount())
	req := mock.SpeechCalls[0]
	assert.Len(t, req.Text, maxSpeechChars)
	assert.Equal(t, speechInstruction, req.Instructions)
}

func TestSynthesizeSpeech_Unavailable(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddSpeech(llm.MockSpeech{Err: llm.ErrSpeechUnsupported})
	c := newTestClient(mock)

	_, ok := c.SynthesizeSpeech(t.Context(), "hello")
	assert.False(t, ok)

	_, ok = c.SynthesizeSpeech(t.Context(), "  ")
	assert.False(t, ok)
	assert.Equal(t, 1, mock.SpeechCallCount(), "blank text never reaches the provider")

	_, ok = New(nil, DefaultConfig(), nil).SynthesizeSpeech(t.Context(), "hello")
	assert.False(t, ok)
}
