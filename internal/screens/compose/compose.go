// Package compose is where a new lesson starts: paste text, or point at
// a text, image or PDF file.
package compose

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/screens/processing"
	"github.com/abhisek/englishbuddy/internal/tutor"
	"github.com/abhisek/englishbuddy/internal/ui/components"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

type field int

const (
	fieldText field = iota
	fieldFile
)

// ComposeScreen collects the material for a new lesson.
type ComposeScreen struct {
	env    *screen.Env
	text   textarea.Model
	file   components.TextInput
	focus  field
	errMsg string
}

var (
	_ screen.Screen          = (*ComposeScreen)(nil)
	_ screen.Activator       = (*ComposeScreen)(nil)
	_ screen.KeyHintProvider = (*ComposeScreen)(nil)
)

// New creates a new ComposeScreen.
func New(env *screen.Env) *ComposeScreen {
	ta := textarea.New()
	ta.Placeholder = "Paste an English text here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	file := components.NewTextInput("or a file path: notes.txt, page.png, chapter.pdf", false, 1024)
	file.Model.Blur()

	return &ComposeScreen{env: env, text: ta, file: file}
}

// SetText replaces the pasted text.
func (c *ComposeScreen) SetText(s string) {
	c.text.SetValue(s)
}

// SetPath replaces the file path.
func (c *ComposeScreen) SetPath(s string) {
	c.file.SetValue(s)
}

func (c *ComposeScreen) Init() tea.Cmd {
	return c.text.Focus()
}

func (c *ComposeScreen) Activate() tea.Cmd {
	c.errMsg = c.env.Machine.Notice()
	c.env.Machine.DismissNotice()
	return nil
}

func (c *ComposeScreen) Title() string {
	return "New Lesson"
}

func (c *ComposeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Analyze"},
		{Key: "Tab", Description: "Text / File"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ComposeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc":
			return c, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "shift+tab":
			return c, c.toggleFocus()
		case "ctrl+s":
			return c, c.submit()
		case "enter":
			if c.focus == fieldFile {
				return c, c.submit()
			}
		}
	}

	var cmd tea.Cmd
	if c.focus == fieldText {
		c.text, cmd = c.text.Update(msg)
	} else {
		c.file, cmd = c.file.Update(msg)
	}
	return c, cmd
}

func (c *ComposeScreen) toggleFocus() tea.Cmd {
	if c.focus == fieldText {
		c.focus = fieldFile
		c.text.Blur()
		return c.file.Model.Focus()
	}
	c.focus = fieldText
	c.file.Model.Blur()
	return c.text.Focus()
}

func (c *ComposeScreen) submit() tea.Cmd {
	var (
		job appstate.AnalysisJob
		err error
	)
	m := c.env.Machine
	ctx := c.env.Context()

	if c.focus == fieldFile {
		path := strings.TrimSpace(c.file.Value())
		var data []byte
		data, err = readFile(path)
		if err == nil {
			job, err = m.SubmitFile(ctx, filepath.Base(path), data, "")
		}
	} else {
		job, err = m.SubmitText(ctx, c.text.Value())
	}
	if err != nil {
		c.errMsg = submitError(err)
		return nil
	}

	c.errMsg = ""
	next := processing.New(c.env, job)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, appstate.ErrEmptyInput
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > tutor.MaxFileSize {
		return nil, fmt.Errorf("%s is larger than %d MB", filepath.Base(path), tutor.MaxFileSize>>20)
	}
	return os.ReadFile(path)
}

func submitError(err error) string {
	switch {
	case errors.Is(err, appstate.ErrEmptyInput):
		return "Nothing to analyze yet."
	case errors.Is(err, appstate.ErrNotAuthenticated):
		return "Enter an API key first."
	case errors.Is(err, appstate.ErrBusy):
		return "Still working on the last submission."
	case errors.Is(err, os.ErrNotExist):
		return "File not found."
	default:
		return err.Error()
	}
}

func (c *ComposeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	textHeight := max(height-14, 3)
	c.text.SetWidth(cw - 4)
	c.text.SetHeight(textHeight)

	label := func(f field, title string) string {
		if c.focus == f {
			return theme.Heading.Render("▸ " + title)
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + title)
	}

	var sections []string
	sections = append(sections,
		theme.Title.Width(cw).Render("Start a new lesson"),
		theme.Subtitle.Width(cw).Render("The text is transcribed, summarized and mined for vocabulary"),
		"",
		label(fieldText, "Text"),
		components.Card(c.text.View(), cw),
		label(fieldFile, "File"),
		components.Card(c.file.View(), cw),
	)
	if c.errMsg != "" {
		sections = append(sections, theme.Notice.Render("⚠ "+c.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
