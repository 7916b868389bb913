// Package tutor is the generative-AI collaborator: it turns submitted
// material into lessons, writes quizzes, defines words and reads text
// aloud. A Client lives for one login; logout discards it.
package tutor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/logger"
	"github.com/abhisek/englishbuddy/internal/quiz"
)

var (
	ErrCredentialMissing = errors.New("please enter an API key before continuing")
	ErrAnalysis          = errors.New("could not analyze the content; check the key or the file")
	ErrLookup            = errors.New("word lookup failed")
	ErrSynthesis         = errors.New("speech synthesis failed")
)

const (
	// NotFoundMeaning is the meaning shown when a word could not be defined.
	NotFoundMeaning = "Không tìm thấy định nghĩa"
	// NoKeyMeaning is the meaning shown when lookups run without a credential.
	NoKeyMeaning = "Chưa nhập Key"

	fallbackFullText = "No text extracted. Please try a clearer image."
	maxSpeechChars   = 3000
)

// Config tunes generation.
type Config struct {
	AnalysisMaxTokens int
	QuizMaxTokens     int
	DefineMaxTokens   int
	Temperature       float64
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		AnalysisMaxTokens: 8192,
		QuizMaxTokens:     4096,
		DefineMaxTokens:   512,
		Temperature:       0.2,
	}
}

// Client talks to the model on behalf of the UI.
type Client struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// New returns a Client. A nil provider yields a client whose calls report
// a missing credential.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{provider: provider, cfg: cfg, log: log, now: time.Now}
}

// Ready reports whether the client has a provider to call.
func (c *Client) Ready() bool {
	return c != nil && c.provider != nil
}

type vocabularyOutput struct {
	Word              string `json:"word"`
	IPA               string `json:"ipa"`
	EnglishDefinition string `json:"englishDefinition"`
	Meaning           string `json:"meaning"`
	Type              string `json:"type"`
}

type analysisOutput struct {
	Title      string             `json:"title"`
	FullText   string             `json:"fullText"`
	Summary    string             `json:"summary"`
	Vocabulary []vocabularyOutput `json:"vocabulary"`
}

// Analyze builds a lesson from in. Every failure wraps ErrAnalysis except a
// missing credential, which is ErrCredentialMissing.
func (c *Client) Analyze(ctx context.Context, in Input) (*lesson.Lesson, error) {
	if !c.Ready() {
		return nil, ErrCredentialMissing
	}
	in, err := in.normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysis, err)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeAnalyze)
	msg := llm.Message{Role: llm.RoleUser, Content: buildAnalysisMessage(in)}
	if in.isBinary() {
		msg.Attachments = []llm.Attachment{{MIMEType: in.MIMEType, Data: in.Data}}
	}

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      analysisSystemPrompt,
		Messages:    []llm.Message{msg},
		Schema:      AnalysisSchema,
		MaxTokens:   c.cfg.AnalysisMaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		c.log.Warn("lesson analysis failed", "mime", in.MIMEType, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalysis, err)
	}

	var out analysisOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("%w: parse analysis: %w", ErrAnalysis, err)
	}

	created := c.now()
	l := &lesson.Lesson{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(out.Title),
		FullText:    out.FullText,
		Summary:     out.Summary,
		DateCreated: created,
	}
	if l.Title == "" {
		l.Title = "Lesson " + created.Format("2006-01-02")
	}
	if strings.TrimSpace(l.FullText) == "" {
		l.FullText = fallbackFullText
	}
	if in.isImage() {
		l.ImageSource = in.sourceName()
	}

	words := lo.UniqBy(
		lo.Filter(out.Vocabulary, func(v vocabularyOutput, _ int) bool {
			return strings.TrimSpace(v.Word) != ""
		}),
		func(v vocabularyOutput) string { return strings.ToLower(strings.TrimSpace(v.Word)) },
	)
	l.Vocabulary = lo.Map(words, func(v vocabularyOutput, idx int) lesson.Vocabulary {
		return lesson.Vocabulary{
			ID:                fmt.Sprintf("vocab-%d", idx),
			Word:              strings.TrimSpace(v.Word),
			IPA:               v.IPA,
			EnglishDefinition: v.EnglishDefinition,
			Meaning:           v.Meaning,
			Type:              v.Type,
			Status:            lesson.StatusResolved,
		}
	})

	c.log.Info("lesson analyzed", "lesson_id", l.ID, "words", len(l.Vocabulary))
	return l, nil
}

// GenerateQuiz writes comprehension questions for text. An empty slice
// with a nil error means the model produced nothing usable.
func (c *Client) GenerateQuiz(ctx context.Context, text string) ([]quiz.Question, error) {
	if !c.Ready() {
		return nil, ErrCredentialMissing
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)
	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      quizSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildQuizMessage(text)}},
		Schema:      QuizSchema,
		MaxTokens:   c.cfg.QuizMaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	questions, err := parseQuiz(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	c.log.Info("quiz generated", "questions", len(questions))
	return questions, nil
}

// parseQuiz reads the questions leniently: unknown types and empty
// prompts are skipped, list answers are joined, and blank ids are filled.
func parseQuiz(raw []byte) ([]quiz.Question, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("invalid JSON")
	}
	if gjson.ParseBytes(raw).IsArray() {
		raw = append(append([]byte(`{"questions":`), raw...), '}')
	}

	list := gjson.GetBytes(raw, "questions")
	var err error
	for i, q := range list.Array() {
		if strings.TrimSpace(q.Get("id").String()) == "" {
			raw, err = sjson.SetBytes(raw, fmt.Sprintf("questions.%d.id", i), uuid.NewString())
			if err != nil {
				return nil, err
			}
		}
	}

	var out []quiz.Question
	for _, q := range gjson.GetBytes(raw, "questions").Array() {
		typ := quiz.Type(q.Get("type").String())
		prompt := strings.TrimSpace(q.Get("question").String())
		answer := answerText(q.Get("correctAnswer"))
		if !typ.Valid() || prompt == "" || answer == "" {
			continue
		}

		var options []string
		for _, o := range q.Get("options").Array() {
			if s := strings.TrimSpace(o.String()); s != "" {
				options = append(options, s)
			}
		}

		out = append(out, quiz.Question{
			ID:            q.Get("id").String(),
			Type:          typ,
			Question:      prompt,
			Options:       options,
			CorrectAnswer: answer,
			Explanation:   q.Get("explanation").String(),
		})
	}
	return out, nil
}

func answerText(v gjson.Result) string {
	if v.IsArray() {
		parts := lo.FilterMap(v.Array(), func(r gjson.Result, _ int) (string, bool) {
			s := strings.TrimSpace(r.String())
			return s, s != ""
		})
		return strings.Join(parts, ", ")
	}
	return strings.TrimSpace(v.String())
}

// DefineWord looks word up in the context of a passage. It never fails:
// errors produce an entry with Status lesson.StatusFailed.
func (c *Client) DefineWord(ctx context.Context, word, passage string) lesson.Vocabulary {
	if !c.Ready() {
		return failedEntry(word, NoKeyMeaning)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeDefine)
	resp, err := c.provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildDefineMessage(word, passage)}},
		Schema:      DefinitionSchema,
		MaxTokens:   c.cfg.DefineMaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		c.log.Warn("word lookup failed", "word", word, "error", fmt.Errorf("%w: %w", ErrLookup, err))
		return failedEntry(word, NotFoundMeaning)
	}

	var out vocabularyOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		c.log.Warn("word lookup unreadable", "word", word, "error", err)
		return failedEntry(word, NotFoundMeaning)
	}
	if strings.TrimSpace(out.Word) == "" {
		out.Word = word
	}
	return lesson.Vocabulary{
		Word:              out.Word,
		IPA:               out.IPA,
		EnglishDefinition: out.EnglishDefinition,
		Meaning:           out.Meaning,
		Type:              out.Type,
		Status:            lesson.StatusResolved,
	}
}

func failedEntry(word, meaning string) lesson.Vocabulary {
	return lesson.Vocabulary{
		ID:      "err",
		Word:    word,
		Meaning: meaning,
		Type:    "unknown",
		Status:  lesson.StatusFailed,
	}
}

// SynthesizeSpeech reads text aloud and returns base64-encoded 16-bit mono
// PCM. ok is false when there is no text, no credential, or the provider
// could not speak.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string) (string, bool) {
	if !c.Ready() || strings.TrimSpace(text) == "" {
		return "", false
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeSpeech)
	speech, err := llm.SpeakWith(ctx, c.provider, llm.SpeechRequest{
		Text:         truncateRunes(text, maxSpeechChars),
		Instructions: speechInstruction,
	})
	if err != nil {
		c.log.Warn("speech synthesis failed", "error", fmt.Errorf("%w: %w", ErrSynthesis, err))
		return "", false
	}
	if len(speech.PCM) == 0 {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(speech.PCM), true
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
