// Package screentest builds screen environments for tests.
package screentest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/audio"
	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/quiz"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/store"
	"github.com/abhisek/englishbuddy/internal/tutor"
)

// ErrBadKey is returned by the test connector for the key "bad".
var ErrBadKey = errors.New("invalid key")

// NewEnv returns an Env whose machine is logged in with a tutor client
// backed by provider. Home and Login build stub screens.
func NewEnv(t *testing.T, provider *llm.MockProvider) *screen.Env {
	t.Helper()
	env := NewLoggedOutEnv(t, provider)
	if err := env.Machine.Login(t.Context(), "test-key"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return env
}

// NewLoggedOutEnv is NewEnv without the login.
func NewLoggedOutEnv(t *testing.T, provider *llm.MockProvider) *screen.Env {
	t.Helper()
	if provider == nil {
		provider = llm.NewMockProvider()
	}
	connect := func(_ context.Context, key string) (appstate.Collaborator, error) {
		if key == "bad" {
			return nil, ErrBadKey
		}
		return tutor.New(provider, tutor.DefaultConfig(), nil), nil
	}
	store := lesson.NewStore()
	return &screen.Env{
		Ctx:     t.Context(),
		Machine: appstate.New(store, &appstate.MemoryCredentials{}, connect, nil),
		Player:  &Player{},
		Home:    func() screen.Screen { return &Stub{Name: "home"} },
		Login:   func() screen.Screen { return &Stub{Name: "login"} },
	}
}

// Key builds a key press for a key name such as "enter", "esc", "space",
// "up", "ctrl+s" or a single printable character.
func Key(name string) tea.KeyPressMsg {
	switch name {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	}
	r := []rune(name)[0]
	return tea.KeyPressMsg{Code: r, Text: name}
}

// Type sends each rune of s to sc as a key press.
func Type(sc screen.Screen, s string) screen.Screen {
	for _, r := range s {
		sc, _ = sc.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return sc
}

// Stub is a minimal screen.
type Stub struct {
	Name   string
	Closed bool
}

func (s *Stub) Init() tea.Cmd                           { return nil }
func (s *Stub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *Stub) View(int, int) string                    { return s.Name }
func (s *Stub) Title() string                           { return s.Name }
func (s *Stub) Close()                                  { s.Closed = true }

// Player is an audio.Player whose tracks record their transport calls.
type Player struct {
	Tracks []*Track
	Err    error
}

func (p *Player) Load([]byte) (audio.Track, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	tr := &Track{ended: make(chan struct{}, 1)}
	p.Tracks = append(p.Tracks, tr)
	return tr, nil
}

// Track is a fake audio.Track.
type Track struct {
	Playing bool
	Rate    float64
	Closed  bool
	ended   chan struct{}
}

func (t *Track) Play()                  { t.Playing = true }
func (t *Track) Pause()                 { t.Playing = false }
func (t *Track) Rewind()                {}
func (t *Track) SetRate(r float64)      { t.Rate = r }
func (t *Track) Ended() <-chan struct{} { return t.ended }

func (t *Track) Close() error {
	if !t.Closed {
		t.Closed = true
		close(t.ended)
	}
	return nil
}

// Finish simulates playback reaching the end.
func (t *Track) Finish() { t.ended <- struct{}{} }

// Drain runs cmd and, recursively, any batched commands, returning every
// message produced. Commands that block (timers, audio end waits) must not
// be passed in.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// QuizResponse is a canned quiz generation reply holding questions.
func QuizResponse(t *testing.T, questions ...quiz.Question) llm.MockResponse {
	t.Helper()
	type wire struct {
		ID            string   `json:"id"`
		Type          string   `json:"type"`
		Question      string   `json:"question"`
		Options       []string `json:"options,omitempty"`
		CorrectAnswer string   `json:"correctAnswer"`
		Explanation   string   `json:"explanation,omitempty"`
	}
	out := struct {
		Questions []wire `json:"questions"`
	}{Questions: []wire{}}
	for _, q := range questions {
		out.Questions = append(out.Questions, wire{
			ID: q.ID, Type: string(q.Type), Question: q.Question,
			Options: q.Options, CorrectAnswer: q.CorrectAnswer, Explanation: q.Explanation,
		})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal quiz: %v", err)
	}
	return llm.MockResponse{Content: raw}
}

// EnterQuiz opens the sample lesson and runs a quiz request to completion,
// leaving the machine in Quiz mode. The provider must have a quiz reply
// queued.
func EnterQuiz(t *testing.T, env *screen.Env) *quiz.Session {
	t.Helper()
	m := env.Machine
	if err := m.SelectLesson(lesson.SampleLessonID); err != nil {
		t.Fatalf("select lesson: %v", err)
	}
	job, err := m.StartQuiz(env.Context())
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	if _, err := m.FinishQuiz(job.Run()); err != nil {
		t.Fatalf("finish quiz: %v", err)
	}
	if m.Mode() != appstate.Quiz {
		t.Fatalf("mode = %v, want quiz", m.Mode())
	}
	return m.QuizSession()
}

// Events is an in-memory store.EventRepo. Records are kept newest first.
type Events struct {
	Records []store.LLMEventRecord
	Usage   []store.UsageRow
	Err     error
	Queries []store.QueryOpts
}

var _ store.EventRepo = (*Events)(nil)

func (e *Events) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	rec := store.LLMEventRecord{ID: len(e.Records) + 1, Sequence: int64(len(e.Records) + 1), LLMRequestEventData: data}
	e.Records = append([]store.LLMEventRecord{rec}, e.Records...)
	return e.Err
}

func (e *Events) QueryLLMEvents(_ context.Context, opts store.QueryOpts) ([]store.LLMEventRecord, error) {
	e.Queries = append(e.Queries, opts)
	if e.Err != nil {
		return nil, e.Err
	}
	var out []store.LLMEventRecord
	for _, r := range e.Records {
		if opts.Purpose != "" && r.Purpose != opts.Purpose {
			continue
		}
		out = append(out, r)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (e *Events) GetLLMEvent(_ context.Context, id int) (*store.LLMEventRecord, error) {
	for _, r := range e.Records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, e.Err
}

func (e *Events) LLMUsageByPurpose(context.Context) ([]store.UsageRow, error) {
	return e.Usage, e.Err
}

func (e *Events) LLMUsageByModel(context.Context) ([]store.UsageRow, error) {
	return nil, e.Err
}
