// Package summary shows the result of a finished quiz.
package summary

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/appstate"
	qz "github.com/abhisek/englishbuddy/internal/quiz"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/ui/components"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

// SummaryScreen displays the score and a per-question review.
type SummaryScreen struct {
	env     *screen.Env
	session *qz.Session
	errMsg  string
}

var (
	_ screen.Screen          = (*SummaryScreen)(nil)
	_ screen.KeyHintProvider = (*SummaryScreen)(nil)
)

// New creates a new SummaryScreen for a completed session.
func New(env *screen.Env, session *qz.Session) *SummaryScreen {
	return &SummaryScreen{env: env, session: session}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Try again"},
		{Key: "Enter", Description: "Back to lesson"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.QuizReadyMsg:
		if msg.Applied && msg.Err != nil {
			s.errMsg = msg.Err.Error()
			if n := s.env.Machine.Notice(); n != "" {
				s.errMsg = n
			}
			s.env.Machine.DismissNotice()
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			if err := s.env.Machine.ExitQuiz(); err != nil {
				s.env.Logger().Warn("exit quiz", "error", err)
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			return s, s.retry()
		}
	}
	return s, nil
}

func (s *SummaryScreen) retry() tea.Cmd {
	job, err := s.env.Machine.RestartQuiz(s.env.Context())
	switch {
	case errors.Is(err, appstate.ErrBusy):
		return nil
	case err != nil:
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	return screen.RunQuiz(job)
}

func (s *SummaryScreen) View(width, height int) string {
	if s.session == nil {
		return ""
	}

	var b strings.Builder
	center := func(style lipgloss.Style, text string) {
		b.WriteString(style.Width(width).Align(lipgloss.Center).Render(text))
		b.WriteString("\n")
	}

	score, _ := s.session.Score()
	center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Quiz complete!")
	b.WriteString("\n")
	center(lipgloss.NewStyle().Foreground(scoreColor(score)).Bold(true), fmt.Sprintf("%d%%", score))
	center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%d of %d correct", s.session.CorrectCount(), s.session.Len()))
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 64)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for i := 0; i < s.session.Len(); i++ {
		q := s.session.Question(i)
		mark, style := "✓", theme.Correct
		if !q.Correct() {
			mark, style = "✗", theme.Incorrect
		}
		line := fmt.Sprintf("%s %d. %s", mark, i+1, truncate(q.Question, 56))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
		if !q.Correct() {
			detail := fmt.Sprintf("you: %s   answer: %s", q.UserAnswer, q.CorrectAnswer)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	again := components.NewButton("r", "Try again")
	again.Disabled = s.env.Machine.QuizLoading()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.ButtonRow(again, components.NewButton("Enter", "Back to lesson"))))
	b.WriteString("\n\n")
	switch {
	case s.env.Machine.QuizLoading():
		center(theme.Hint, "Preparing a new quiz...")
	case s.errMsg != "":
		center(theme.Notice, s.errMsg)
	}
	return b.String()
}

func scoreColor(score int) color.Color {
	switch {
	case score >= 80:
		return theme.Success
	case score >= 50:
		return theme.Accent
	default:
		return theme.Error
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
