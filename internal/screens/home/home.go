package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/screens/compose"
	"github.com/abhisek/englishbuddy/internal/screens/history"
	"github.com/abhisek/englishbuddy/internal/screens/library"
	"github.com/abhisek/englishbuddy/internal/ui/components"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
)

// HomeScreen is the main menu: start a lesson, browse the library, look
// at past model calls, manage the key.
type HomeScreen struct {
	env   *screen.Env
	menu  components.Menu
	stats stats
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.Activator       = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.refresh()
	return h
}

func (h *HomeScreen) refresh() {
	m := h.env.Machine
	h.stats = libraryStats(m.Store().All(), m.Lookup().Pending)

	var items []components.MenuItem
	if m.Authenticated() {
		items = append(items, components.MenuItem{Label: "NEW LESSON", Action: h.push(func() screen.Screen {
			return compose.New(h.env)
		})})
	} else {
		items = append(items, components.MenuItem{Label: "ENTER API KEY", Action: h.toLogin})
	}
	items = append(items, components.MenuItem{Label: "LIBRARY", Action: h.push(func() screen.Screen {
		return library.New(h.env)
	})})
	items = append(items, components.MenuItem{
		Label:    "LLM HISTORY",
		Disabled: h.env.Events == nil,
		Action: h.push(func() screen.Screen {
			return history.New(h.env.Events)
		}),
	})
	if m.Authenticated() {
		items = append(items, components.MenuItem{Label: "LOG OUT", Action: h.logout})
	}
	items = append(items, components.MenuItem{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }})

	if h.menu.Items == nil {
		h.menu = components.NewMenu(items)
	} else {
		h.menu.SetItems(items)
	}
}

func libraryStats(lessons []*lesson.Lesson, pending func(string) []string) stats {
	s := stats{Lessons: len(lessons)}
	for _, l := range lessons {
		s.Words += len(l.Vocabulary)
		s.Pending += len(pending(l.ID))
	}
	return s
}

func (h *HomeScreen) push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		h.env.Machine.DismissNotice()
		next := build()
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: next}
		}
	}
}

func (h *HomeScreen) toLogin() tea.Cmd {
	login := h.env.Login()
	return func() tea.Msg {
		return router.ResetScreenMsg{Screens: []screen.Screen{login}}
	}
}

func (h *HomeScreen) logout() tea.Cmd {
	if err := h.env.Machine.Logout(h.env.Context()); err != nil {
		h.env.Logger().Error("logout failed", "error", err)
	}
	return h.toLogin()
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Activate() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case screen.DefinitionMsg, screen.AnalysisDoneMsg:
		h.refresh()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height excludes the header and footer; compactness is judged on the
	// whole terminal.
	full := height + layout.HeaderHeight + layout.FooterHeight
	d := newDashboard(width, full < layout.CompactHeightThreshold || width < layout.CompactWidthThreshold)
	m := h.env.Machine

	sections := []string{d.banner()}
	if !d.compact {
		mood := MascotIdle
		if m.Notice() != "" {
			mood = MascotAlert
		} else if !m.Authenticated() {
			mood = MascotOffline
		}
		sections = append(sections, renderMascotBox(mood, d.cw))
	}
	sections = append(sections, d.statsBar(h.stats))
	switch {
	case m.Notice() != "":
		sections = append(sections, d.notice(m.Notice()))
	case !m.Authenticated():
		sections = append(sections, d.offline())
	}
	sections = append(sections, d.menu(h.menu.Items, h.menu.Selected))

	gap := "\n\n"
	if d.compact {
		gap = "\n"
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, gap))
}
