// Package processing shows the analysis of a submission in flight.
package processing

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/tutor"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

const tipInterval = 4 * time.Second

var tips = []string{
	"Transcribing the text exactly as written",
	"Picking 8-15 words worth learning",
	"Writing English definitions and Vietnamese meanings",
	"Summarizing the passage",
}

type tipMsg struct{}

// ProcessingScreen runs one analysis job. Input is ignored until it
// finishes, except Esc, which abandons it.
type ProcessingScreen struct {
	env     *screen.Env
	job     appstate.AnalysisJob
	spinner spinner.Model
	tip     int
}

var (
	_ screen.Screen          = (*ProcessingScreen)(nil)
	_ screen.KeyHintProvider = (*ProcessingScreen)(nil)
)

// New creates the screen for job. The job starts in Init.
func New(env *screen.Env, job appstate.AnalysisJob) *ProcessingScreen {
	return &ProcessingScreen{
		env: env,
		job: job,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

func (p *ProcessingScreen) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, screen.RunAnalysis(p.job), nextTip())
}

func nextTip() tea.Cmd {
	return tea.Tick(tipInterval, func(time.Time) tea.Msg { return tipMsg{} })
}

func (p *ProcessingScreen) Title() string {
	return "Analyzing"
}

func (p *ProcessingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Cancel"},
	}
}

func (p *ProcessingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tipMsg:
		p.tip = (p.tip + 1) % len(tips)
		return p, nextTip()

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			p.env.Machine.CancelProcessing()
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return p, nil
}

func (p *ProcessingScreen) describe() string {
	in := p.job.Input
	if in.Name != "" {
		mime := in.MIMEType
		if mime == "" {
			mime = tutor.SniffMIME(in.Data)
		}
		return fmt.Sprintf("%s (%s)", in.Name, mime)
	}
	text := strings.Join(strings.Fields(in.Text), " ")
	if r := []rune(text); len(r) > 48 {
		text = string(r[:47]) + "…"
	}
	return fmt.Sprintf("%q", text)
}

func (p *ProcessingScreen) View(width, height int) string {
	lines := []string{
		p.spinner.View() + " " + theme.Heading.Render("Building your lesson"),
		"",
		theme.Body.Render(p.describe()),
		"",
		theme.Hint.Render(tips[p.tip] + "..."),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
