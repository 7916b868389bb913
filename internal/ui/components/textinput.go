package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

type verdict int

const (
	open verdict = iota
	right
	wrong
)

// TextInput is a single-line field. Once Submit has judged it, it stops
// taking keys and shows a check or a cross after the text.
type TextInput struct {
	Model   textinput.Model
	verdict verdict
}

// NewTextInput returns a focused field. A masked field echoes bullets,
// for keys and passwords. limit <= 0 keeps the bubbles default.
func NewTextInput(placeholder string, masked bool, limit int) TextInput {
	m := textinput.New()
	m.Placeholder = placeholder
	if limit > 0 {
		m.CharLimit = limit
	}
	if masked {
		m.EchoMode, m.EchoCharacter = textinput.EchoPassword, '•'
	}
	m.Focus()
	return TextInput{Model: m}
}

func (t TextInput) Init() tea.Cmd { return t.Model.Focus() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.verdict != open {
		return t, nil
	}
	m, cmd := t.Model.Update(msg)
	t.Model = m
	return t, cmd
}

func (t TextInput) View() string {
	switch t.verdict {
	case right:
		return t.Model.View() + " " + theme.Correct.Render("✓")
	case wrong:
		return t.Model.View() + " " + theme.Incorrect.Render("✗")
	}
	return t.Model.View()
}

func (t TextInput) Value() string { return t.Model.Value() }

func (t *TextInput) SetValue(s string) { t.Model.SetValue(s) }

// Submit freezes the field and marks the answer.
func (t *TextInput) Submit(correct bool) {
	t.verdict = wrong
	if correct {
		t.verdict = right
	}
}
