// Package quiz is the quiz-taking screen.
package quiz

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/englishbuddy/internal/quiz"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/screens/summary"
	"github.com/abhisek/englishbuddy/internal/ui/components"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
)

// QuizScreen walks through the machine's quiz session one question at a
// time: answer, see feedback, move on.
type QuizScreen struct {
	env      *screen.Env
	session  *qz.Session
	choices  components.ChoiceList
	input    components.TextInput
	choiceQ  bool // current question is answered by picking
	finished bool
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
)

// New creates a QuizScreen for the machine's current quiz session.
func New(env *screen.Env) *QuizScreen {
	s := &QuizScreen{env: env, session: env.Machine.QuizSession()}
	s.setupQuestion()
	return s
}

func (s *QuizScreen) setupQuestion() {
	if s.session == nil {
		return
	}
	q := s.session.Current()
	if opts := q.Choices(); opts != nil {
		s.choiceQ = true
		s.choices = components.NewChoiceList(opts)
		return
	}
	s.choiceQ = false
	s.input = components.NewTextInput("Type your answer...", false, 120)
}

func (s *QuizScreen) Init() tea.Cmd {
	if !s.choiceQ {
		return s.input.Init()
	}
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.session != nil && s.session.FeedbackVisible() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back to lesson"},
		}
	}
	if s.choiceQ {
		return []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Choose"},
			{Key: "Enter", Description: "Check"},
			{Key: "Esc", Description: "Back to lesson"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Check"},
		{Key: "Esc", Description: "Back to lesson"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.session == nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			return s, s.exit()
		}
		return s, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return s, s.exit()
		case "enter":
			if s.session.FeedbackVisible() {
				return s, s.advance()
			}
			return s, s.check()
		}
		if s.session.FeedbackVisible() {
			if key.String() == "space" || key.String() == "right" {
				return s, s.advance()
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	if s.choiceQ {
		s.choices, cmd = s.choices.Update(msg)
	} else {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *QuizScreen) exit() tea.Cmd {
	if err := s.env.Machine.ExitQuiz(); err != nil {
		s.env.Logger().Warn("exit quiz", "error", err)
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// check records the answer and reveals feedback. Blank answers are
// ignored.
func (s *QuizScreen) check() tea.Cmd {
	answer := s.input.Value()
	if s.choiceQ {
		answer = s.choices.Value()
	}
	if strings.TrimSpace(answer) == "" {
		return nil
	}
	s.session.Answer(answer)
	if !s.session.Reveal() {
		return nil
	}
	q := s.session.Current()
	if s.choiceQ {
		s.choices.Reveal(q.CorrectAnswer)
	} else {
		s.input.Submit(q.Correct())
	}
	return nil
}

func (s *QuizScreen) advance() tea.Cmd {
	if !s.session.Advance() {
		return nil
	}
	if s.session.Completed() {
		if s.finished {
			return nil
		}
		s.finished = true
		results := summary.New(s.env, s.session)
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: results}
		}
	}
	s.setupQuestion()
	return s.Init()
}
