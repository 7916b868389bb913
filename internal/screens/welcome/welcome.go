package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/ui/components"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

const tickInterval = 400 * time.Millisecond

const bookArt = `   _______  _______
  /       \/       \
 | A  b  c || x  y  z|
 |  ~~~~~~ || ~~~~~~ |
 |  ~~~~~~ || ~~~~~~ |
  \_______/\_______/`

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen asks for the API key and logs in with it. Esc continues
// without a key; lessons can still be read but nothing is generated.
type WelcomeScreen struct {
	env          *screen.Env
	input        components.TextInput
	err          string
	tickCount    int
	transitioned bool
}

var (
	_ screen.Screen          = (*WelcomeScreen)(nil)
	_ screen.KeyHintProvider = (*WelcomeScreen)(nil)
)

// New creates the credential entry screen.
func New(env *screen.Env) *WelcomeScreen {
	return &WelcomeScreen{
		env:   env,
		input: components.NewTextInput("paste your API key", true, 256),
	}
}

// Title is empty: the welcome screen draws its own banner.
func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save key"},
		{Key: "Esc", Description: "Continue offline"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(w.input.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return w, w.login()
		case "esc":
			return w, w.transition()
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) login() tea.Cmd {
	if w.transitioned {
		return nil
	}
	if err := w.env.Machine.Login(w.env.Context(), w.input.Value()); err != nil {
		w.err = err.Error()
		w.env.Logger().Warn("login failed", "error", err)
		return nil
	}
	w.err = ""
	return w.transition()
}

// transition swaps this screen for home, at most once.
func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	msg := router.ReplaceScreenMsg{Screen: w.env.Home()}
	return func() tea.Msg { return msg }
}

func (w *WelcomeScreen) View(width, height int) string {
	star := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkleFrames[w.tickCount%len(sparkleFrames)])
	book := strings.Split(lipgloss.NewStyle().Foreground(theme.Secondary).Render(bookArt), "\n")
	book[2] = star + " " + book[2] + " " + star

	form := theme.Heading.Render("API key") + "\n" + w.input.View()
	if w.err != "" {
		form += "\n" + theme.Incorrect.Render(w.err)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center,
		strings.Join(book, "\n"), "",
		RenderBanner(width), "",
		theme.Body.Bold(true).Render("Read it. Hear it. Learn it."), "",
		components.Card(form, min(width-4, 60)),
		theme.Hint.Render("the key is stored locally and cleared on logout"),
	))
}
