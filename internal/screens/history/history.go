// Package history is the LLM call log browser: the stored request events
// newest first, filterable by purpose, with per-purpose token totals.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/store"
	"github.com/abhisek/englishbuddy/internal/ui/layout"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

// Purposes are the filter tabs in order; "" shows every call.
var Purposes = append([]string{""}, lo.Map(llm.Purposes, func(p llm.Purpose, _ int) string {
	return string(p)
})...)

const pageSize = 100

type loadedMsg struct {
	gen    int
	events []store.LLMEventRecord
	usage  []store.UsageRow
	err    error
}

type HistoryScreen struct {
	repo store.EventRepo
	tab  int
	// gen increases on every reload so an older query's result is dropped.
	gen int

	events   []store.LLMEventRecord
	usage    []store.UsageRow
	selected int
	open     map[int64]bool
	loaded   bool
	err      error
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(repo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo, open: map[int64]bool{}}
}

func (s *HistoryScreen) Title() string { return "LLM History" }

func (s *HistoryScreen) Init() tea.Cmd { return s.query() }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "Tab", Description: "Purpose"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) query() tea.Cmd {
	repo, gen := s.repo, s.gen
	opts := store.QueryOpts{Limit: pageSize, Purpose: Purposes[s.tab]}
	return func() tea.Msg {
		ctx := context.Background()
		events, err := repo.QueryLLMEvents(ctx, opts)
		if err != nil {
			return loadedMsg{gen: gen, err: err}
		}
		// Totals are optional; a failure here still shows the list.
		usage, _ := repo.LLMUsageByPurpose(ctx)
		return loadedMsg{gen: gen, events: events, usage: usage}
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.loaded, s.err = true, msg.err
		if msg.err == nil {
			s.events, s.usage = msg.events, msg.usage
		}
	case tea.KeyMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *HistoryScreen) handleKey(key string) tea.Cmd {
	switch key {
	case "esc":
		return func() tea.Msg { return router.PopScreenMsg{} }
	case "tab":
		return s.selectTab(s.tab + 1)
	case "shift+tab":
		return s.selectTab(s.tab - 1)
	case "up", "k":
		s.selected = max(s.selected-1, 0)
	case "down", "j":
		s.selected = max(min(s.selected+1, len(s.events)-1), 0)
	case "enter":
		if ev, ok := s.current(); ok {
			s.open[ev.Sequence] = !s.open[ev.Sequence]
		}
	}
	return nil
}

func (s *HistoryScreen) current() (store.LLMEventRecord, bool) {
	if s.selected < len(s.events) {
		return s.events[s.selected], true
	}
	return store.LLMEventRecord{}, false
}

func (s *HistoryScreen) selectTab(i int) tea.Cmd {
	n := len(Purposes)
	s.tab = (i%n + n) % n
	s.gen++
	s.selected = 0
	s.loaded = false
	return s.query()
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	lines := []string{"", center(lipgloss.NewStyle(), s.tabBar())}
	if totals := s.totals(); totals != "" {
		lines = append(lines, center(dim, totals))
	}
	lines = append(lines, "")

	switch {
	case s.err != nil:
		return strings.Join(append(lines, center(lipgloss.NewStyle().Foreground(theme.Error), "Error: "+s.err.Error())), "\n")
	case !s.loaded:
		return strings.Join(append(lines, center(dim, "Loading history...")), "\n")
	case len(s.events) == 0:
		return strings.Join(append(lines, center(dim.Italic(true), "No calls yet. Analyze a lesson to get started!")), "\n")
	}

	rows := max(height-8, 3)
	first := max(s.selected-rows+1, 0)
	last := min(first+rows, len(s.events))
	for i := first; i < last; i++ {
		ev := s.events[i]
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if !ev.Success {
			style = style.Foreground(theme.Error)
		}
		if i == s.selected {
			style = style.Bold(true)
		}
		lines = append(lines, center(style, row(ev, i == s.selected)))
		if s.open[ev.Sequence] {
			for _, d := range details(ev, width-12) {
				lines = append(lines, center(dim.Italic(true), d))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (s *HistoryScreen) tabBar() string {
	labels := make([]string, len(Purposes))
	for i, p := range Purposes {
		if p == "" {
			p = "all"
		}
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.tab {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		labels[i] = style.Render(p)
	}
	return strings.Join(labels, "   ")
}

func (s *HistoryScreen) totals() string {
	return strings.Join(lo.Map(s.usage, func(u store.UsageRow, _ int) string {
		return fmt.Sprintf("%s %d calls / %d tok", u.Key, u.Calls, u.InputTokens+u.OutputTokens)
	}), "  ·  ")
}

func row(ev store.LLMEventRecord, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	outcome := "ok"
	if !ev.Success {
		outcome = "failed"
	}
	return fmt.Sprintf("%s%s  %-8s %-24s %6d in %6d out %6dms  %s",
		cursor, ev.Timestamp.Local().Format("Jan 02 15:04"), ev.Purpose, ev.Model,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs, outcome)
}

func details(ev store.LLMEventRecord, width int) []string {
	out := []string{fmt.Sprintf("#%d  provider %s  seq %d", ev.ID, ev.Provider, ev.Sequence)}
	if ev.ErrorMessage != "" {
		out = append(out, "error: "+clip(ev.ErrorMessage, width))
	}
	if ev.ResponseBody != "" {
		out = append(out, "response: "+clip(ev.ResponseBody, width))
	}
	return out
}

// clip folds whitespace and cuts s to n runes with an ellipsis.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
