package library

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/screens/learning"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

// Filter narrows the lesson list by source.
type Filter int

const (
	FilterAll Filter = iota
	FilterText
	FilterImage
)

var filters = []Filter{FilterAll, FilterText, FilterImage}

func (f Filter) String() string {
	switch f {
	case FilterText:
		return "Text"
	case FilterImage:
		return "Image"
	default:
		return "All"
	}
}

func (f Filter) match(l *lesson.Lesson) bool {
	switch f {
	case FilterText:
		return l.ImageSource == ""
	case FilterImage:
		return l.ImageSource != ""
	default:
		return true
	}
}

// LibraryScreen lists the lessons of this session, newest first.
type LibraryScreen struct {
	env          *screen.Env
	lessons      []*lesson.Lesson
	filter       int // index into filters
	selected     int
	scrollOffset int
	errMsg       string
}

var (
	_ screen.Screen          = (*LibraryScreen)(nil)
	_ screen.Activator       = (*LibraryScreen)(nil)
	_ screen.KeyHintProvider = (*LibraryScreen)(nil)
)

// New creates a new LibraryScreen.
func New(env *screen.Env) *LibraryScreen {
	s := &LibraryScreen{env: env}
	s.reload()
	return s
}

func (s *LibraryScreen) reload() {
	s.lessons = s.env.Machine.Store().All()
	if n := len(s.filtered()); s.selected >= n {
		s.selected = max(n-1, 0)
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return nil
}

func (s *LibraryScreen) Activate() tea.Cmd {
	s.reload()
	return nil
}

func (s *LibraryScreen) Title() string {
	return "Library"
}

func (s *LibraryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Tab", Description: "Filter"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DefinitionMsg:
		s.reload()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			s.filter = (s.filter + 1) % len(filters)
			s.selected, s.scrollOffset = 0, 0
			return s, nil
		case "shift+tab":
			s.filter = (s.filter - 1 + len(filters)) % len(filters)
			s.selected, s.scrollOffset = 0, 0
			return s, nil
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.filtered())-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			return s, s.open()
		}
	}
	return s, nil
}

func (s *LibraryScreen) open() tea.Cmd {
	list := s.filtered()
	if s.selected >= len(list) {
		return nil
	}
	if err := s.env.Machine.SelectLesson(list[s.selected].ID); err != nil {
		s.errMsg = err.Error()
		s.reload()
		return nil
	}
	s.errMsg = ""
	msg := router.PushScreenMsg{Screen: learning.New(s.env)}
	return func() tea.Msg { return msg }
}

func (s *LibraryScreen) filtered() []*lesson.Lesson {
	return lo.Filter(s.lessons, func(l *lesson.Lesson, _ int) bool { return filters[s.filter].match(l) })
}

// follow scrolls just enough to keep the cursor inside a window of rows.
func (s *LibraryScreen) follow(rows int) {
	s.scrollOffset = min(s.scrollOffset, s.selected)
	s.scrollOffset = max(s.scrollOffset, s.selected-rows+1)
}

func (s *LibraryScreen) View(width, height int) string {
	center := func(st lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, st.Render(text))
	}

	tabs := lo.Map(filters, func(f Filter, i int) string {
		n := lo.CountBy(s.lessons, f.match)
		if i == s.filter {
			return theme.Selected.Render(fmt.Sprintf("%s (%d)", f, n))
		}
		return theme.Subtitle.Render(fmt.Sprintf("%s (%d)", f, n))
	})

	out := []string{
		"",
		center(theme.Body, fmt.Sprintf("%d lessons", len(s.lessons))),
		"",
		center(lipgloss.NewStyle(), strings.Join(tabs, "     ")),
		"",
		center(lipgloss.NewStyle().Foreground(theme.Border), strings.Repeat("─", min(width-8, 64))),
		"",
	}
	if s.errMsg != "" {
		out = append(out, center(theme.Notice, "Error: "+s.errMsg), "")
	}

	list := s.filtered()
	if len(list) == 0 {
		return strings.Join(append(out, center(theme.Hint, "No lessons here yet")), "\n")
	}

	s.follow(max(height-10, 3))
	end := min(s.scrollOffset+max(height-10, 3), len(list))
	for i, l := range list[s.scrollOffset:end] {
		out = append(out, center(rowStyle(l, s.scrollOffset+i == s.selected), row(l, s.scrollOffset+i == s.selected)))
	}
	if rest := len(list) - end; rest > 0 {
		out = append(out, "", center(theme.Subtitle, fmt.Sprintf("... %d more", rest)))
	}
	return strings.Join(out, "\n")
}

func row(l *lesson.Lesson, selected bool) string {
	cursor := ""
	if selected {
		cursor = "▸"
	}
	title := []rune(l.Title)
	if len(title) > 32 {
		title = append(title[:31], '…')
	}
	return fmt.Sprintf("%-2s %-32s %3d words  %s", cursor, string(title), len(l.Vocabulary), l.DateCreated.Format("Jan 02, 2006"))
}

// rowStyle tints lessons made from a picture so they stand out from
// pasted text.
func rowStyle(l *lesson.Lesson, selected bool) lipgloss.Style {
	switch {
	case selected:
		return theme.Selected
	case l.ImageSource != "":
		return lipgloss.NewStyle().Foreground(theme.Secondary)
	}
	return theme.Body
}
