package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/audio"
	"github.com/abhisek/englishbuddy/internal/logger"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/screens/home"
	"github.com/abhisek/englishbuddy/internal/screens/learning"
	quizscreen "github.com/abhisek/englishbuddy/internal/screens/quiz"
	"github.com/abhisek/englishbuddy/internal/screens/welcome"
	"github.com/abhisek/englishbuddy/internal/store"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
)

// Options holds the dependencies the TUI runs with.
type Options struct {
	Machine   *appstate.Machine
	Player    audio.Player
	EventRepo store.EventRepo
	Logger    *logger.Logger
	ExportDir string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	env    *screen.Env
	width  int
	height int
}

// newAppModel wires the screen env and picks the first screen: home when
// a key is already connected, the key prompt otherwise.
func newAppModel(ctx context.Context, opts Options) AppModel {
	env := &screen.Env{
		Ctx:       ctx,
		Machine:   opts.Machine,
		Player:    opts.Player,
		Events:    opts.EventRepo,
		Log:       opts.Logger,
		ExportDir: opts.ExportDir,
	}
	env.Home = func() screen.Screen { return home.New(env) }
	env.Login = func() screen.Screen { return welcome.New(env) }

	first := env.Login()
	if env.Machine.Authenticated() {
		first = env.Home()
	}
	return AppModel{router: router.New(first), env: env}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	machine := m.env.Machine

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.router.Close()
			return m, tea.Quit
		}

	// Completion messages reach the machine first so a result lands even
	// when the screen that asked for it is no longer on top.
	case screen.AnalysisDoneMsg:
		if !machine.FinishAnalysis(msg.Done) {
			return m, nil
		}
		if machine.Mode() == appstate.Learning {
			return m, m.router.Reset(m.env.Home(), learning.New(m.env))
		}
		return m, m.router.Pop()

	case screen.QuizReadyMsg:
		wasQuiz := machine.Mode() == appstate.Quiz
		msg.Applied, msg.Err = machine.FinishQuiz(msg.Ready)
		if msg.Applied && msg.Err == nil {
			next := quizscreen.New(m.env)
			if wasQuiz {
				return m, m.router.Replace(next)
			}
			return m, m.router.Push(next)
		}
		return m, m.router.Update(msg)

	case screen.DefinitionMsg:
		machine.ApplyDefinition(msg.Result)
		return m, m.router.Update(msg)

	case screen.AudioLoadedMsg, screen.AudioEndedMsg:
		cmd, _ := screen.ApplyAudio(msg)
		return m, cmd
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	switch {
	case m.width == 0 || m.height == 0:
		return v
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	var title string
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, layout.HeaderStatus{
		Lessons: m.env.Machine.Store().Len(),
		Online:  m.env.Machine.Authenticated(),
	}, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	body := m.router.View(m.width, max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0))
	v.SetContent(layout.RenderFrame(header, body, footer, m.width, m.height))
	return v
}

var (
	nestedHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}, {Key: "Ctrl+C", Description: "Quit"}}
	rootHints   = []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, {Key: "Ctrl+C", Description: "Quit"}}
)

// footerHints asks the active screen first and falls back to generic
// hints for the stack depth.
func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return nestedHints
	}
	return rootHints
}

// Run shows the TUI until the user quits or ctx is cancelled. Screens are
// closed on the way out so a playing clip stops with the program.
func Run(ctx context.Context, opts Options) error {
	model := newAppModel(ctx, opts)
	defer model.router.Close()

	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
