// Package learning is the study screen: read the lesson, look words up,
// listen to it, export it and start a quiz.
package learning

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/audio"
	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/ui/components"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

type pane int

const (
	paneVocabulary pane = iota
	paneSummary
)

type exportedMsg struct {
	Path string
	Err  error
}

// LearningScreen shows one lesson.
type LearningScreen struct {
	env      *screen.Env
	lessonID string
	reader   *reader
	side     pane
	vocabSel int
	status   string

	passage *audio.Session
	word    *audio.Session
	spinner spinner.Model
}

var (
	_ screen.Screen          = (*LearningScreen)(nil)
	_ screen.Closer          = (*LearningScreen)(nil)
	_ screen.Activator       = (*LearningScreen)(nil)
	_ screen.KeyHintProvider = (*LearningScreen)(nil)
)

// New creates the screen for the machine's active lesson.
func New(env *screen.Env) *LearningScreen {
	l := &LearningScreen{
		env:     env,
		word:    audio.NewSession(""),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	if active := env.Machine.ActiveLesson(); active != nil {
		l.lessonID = active.ID
		l.reader = newReader(active.FullText)
		l.passage = audio.NewSession(active.FullText)
	} else {
		l.reader = newReader("")
		l.passage = audio.NewSession("")
	}
	return l
}

func (l *LearningScreen) lesson() *lesson.Lesson {
	got, err := l.env.Machine.Store().Get(l.lessonID)
	if err != nil {
		return nil
	}
	return got
}

func (l *LearningScreen) Init() tea.Cmd {
	return l.spinner.Tick
}

func (l *LearningScreen) Activate() tea.Cmd {
	return l.spinner.Tick
}

// Close releases both audio sessions.
func (l *LearningScreen) Close() {
	l.passage.Dispose()
	l.word.Dispose()
}

func (l *LearningScreen) Title() string {
	if cur := l.lesson(); cur != nil {
		return cur.Title
	}
	return "Lesson"
}

func (l *LearningScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→↑↓", Description: "Word"},
		{Key: "Enter", Description: "Look up"},
		{Key: "j/k", Description: "Words list"},
		{Key: "Space", Description: "Listen"},
		{Key: "r", Description: "Speed"},
		{Key: "p", Description: "Say word"},
		{Key: "q", Description: "Quiz"},
		{Key: "e", Description: "Export"},
		{Key: "Esc", Description: "Home"},
	}
}

func (l *LearningScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd

	case exportedMsg:
		if msg.Err != nil {
			l.status = "Export failed: " + msg.Err.Error()
		} else {
			l.status = "Saved " + msg.Path
		}
		return l, nil

	case screen.QuizReadyMsg:
		if msg.Applied && msg.Err != nil {
			l.status = msg.Err.Error()
			if n := l.env.Machine.Notice(); n != "" {
				l.status = n
			}
			l.env.Machine.DismissNotice()
		}
		return l, nil

	case tea.KeyPressMsg:
		return l, l.handleKey(msg.String())
	}
	return l, nil
}

func (l *LearningScreen) handleKey(key string) tea.Cmd {
	l.status = ""
	switch key {
	case "esc":
		l.env.Machine.GoHome()
		home := l.env.Home()
		return func() tea.Msg {
			return router.ResetScreenMsg{Screens: []screen.Screen{home}}
		}
	case "left", "h":
		l.reader.Prev()
	case "right", "l":
		l.reader.Next()
	case "up":
		l.reader.Up()
	case "down":
		l.reader.Down()
	case "k":
		if l.vocabSel > 0 {
			l.vocabSel--
		}
	case "j":
		if cur := l.lesson(); cur != nil && l.vocabSel < len(cur.Vocabulary)-1 {
			l.vocabSel++
		}
	case "tab":
		if l.side == paneVocabulary {
			l.side = paneSummary
		} else {
			l.side = paneVocabulary
		}
	case "enter":
		return l.lookUp()
	case "space":
		l.word.Pause()
		return l.toggle(l.passage)
	case "r":
		rate := l.passage.CycleRate()
		l.word.SetRate(rate)
		l.status = fmt.Sprintf("Speed %.2gx", rate)
	case "p":
		return l.pronounce()
	case "e":
		return l.export()
	case "q":
		return l.startQuiz()
	}
	return nil
}

func (l *LearningScreen) lookUp() tea.Cmd {
	word := l.reader.Word()
	if word == "" {
		return nil
	}
	job, ok := l.env.Machine.AddWord(word)
	if !ok {
		l.status = fmt.Sprintf("%q is already in the list", word)
		return nil
	}
	l.side = paneVocabulary
	l.vocabSel = 0
	return screen.Define(l.env, job)
}

func (l *LearningScreen) toggle(s *audio.Session) tea.Cmd {
	req, ok := s.Toggle()
	if !ok {
		return nil
	}
	return tea.Batch(screen.FetchAudio(l.env, s, req), l.spinner.Tick)
}

// pronounce says the selected vocabulary word, or the word under the
// cursor when the vocabulary is empty.
func (l *LearningScreen) pronounce() tea.Cmd {
	word := l.reader.Word()
	if cur := l.lesson(); cur != nil && l.side == paneVocabulary && l.vocabSel < len(cur.Vocabulary) {
		word = cur.Vocabulary[l.vocabSel].Word
	}
	if word == "" {
		return nil
	}
	l.passage.Pause()
	l.word.SetText(word)
	if l.word.State() == audio.Playing {
		return nil
	}
	return l.toggle(l.word)
}

func (l *LearningScreen) export() tea.Cmd {
	cur := l.lesson()
	if cur == nil {
		return nil
	}
	data := lesson.Export(cur)
	path := filepath.Join(l.env.ExportDir, lesson.Filename(cur.Title))
	return func() tea.Msg {
		return exportedMsg{Path: path, Err: os.WriteFile(path, data, 0o644)}
	}
}

func (l *LearningScreen) startQuiz() tea.Cmd {
	job, err := l.env.Machine.StartQuiz(l.env.Context())
	switch {
	case errors.Is(err, appstate.ErrBusy):
		l.status = "The quiz is on its way."
		return nil
	case errors.Is(err, appstate.ErrNotAuthenticated):
		l.status = "Enter an API key to generate quizzes."
		return nil
	case err != nil:
		l.status = err.Error()
		return nil
	}
	return tea.Batch(screen.RunQuiz(job), l.spinner.Tick)
}

func (l *LearningScreen) View(width, height int) string {
	cur := l.lesson()
	if cur == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("This lesson is no longer available. Press Esc."))
	}

	sideW := max(width*2/5, 28)
	readerW := max(width-sideW-2, 20)
	bodyH := max(height-4, 3)

	// Panel adds a border and padding around its content.
	l.reader.layout(readerW - 4)
	text := l.reader.View(bodyH-3, cur.HasWord)
	left := components.Panel(cur.Title, text, readerW, bodyH, true)

	var right string
	if l.side == paneSummary {
		right = components.Panel("Summary", lipgloss.NewStyle().Width(sideW-4).Render(cur.Summary), sideW, bodyH, false)
	} else {
		right = components.Panel(fmt.Sprintf("Vocabulary (%d)", len(cur.Vocabulary)),
			l.vocabularyView(cur.Vocabulary, sideW-4, bodyH-3), sideW, bodyH, false)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	return lipgloss.JoinVertical(lipgloss.Left, body, l.statusBar(width))
}

func (l *LearningScreen) statusBar(width int) string {
	var parts []string
	parts = append(parts, audioLabel("Passage", l.passage, l.spinner.View()))
	if l.word.Text() != "" {
		parts = append(parts, audioLabel(l.word.Text(), l.word, l.spinner.View()))
	}
	if l.env.Machine.QuizLoading() {
		parts = append(parts, theme.Heading.Render(l.spinner.View()+" Preparing quiz"))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, joinSpaced(parts)...)

	msg := l.status
	if n := l.env.Machine.Notice(); n != "" && msg == "" {
		msg = n
	}
	if msg != "" {
		line += "\n" + theme.Notice.Render(msg)
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(line)
}

func joinSpaced(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, "   ")
		}
		out = append(out, p)
	}
	return out
}

func audioLabel(name string, s *audio.Session, spin string) string {
	rate := fmt.Sprintf(" %.2gx", s.Rate())
	switch s.State() {
	case audio.Loading:
		return theme.Hint.Render(spin + " " + name + ": generating audio")
	case audio.Playing:
		return theme.Correct.Render("▶ "+name) + theme.Hint.Render(rate)
	case audio.Paused, audio.Ready:
		return theme.Body.Render("❚❚ "+name) + theme.Hint.Render(rate)
	case audio.Error:
		return theme.Incorrect.Render("✗ " + name + ": " + s.ErrMsg())
	default:
		return theme.Hint.Render("♪ " + name + rate)
	}
}
