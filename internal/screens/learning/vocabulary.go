package learning

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

func (l *LearningScreen) vocabularyView(entries []lesson.Vocabulary, width, height int) string {
	if len(entries) == 0 {
		return theme.Hint.Render("Move to a word and press Enter to look it up.")
	}
	if l.vocabSel >= len(entries) {
		l.vocabSel = len(entries) - 1
	}

	var blocks []string
	used := 0
	for i := l.vocabSel; i < len(entries) && used < height; i++ {
		block := renderEntry(entries[i], width, i == l.vocabSel)
		used += lipgloss.Height(block) + 1
		blocks = append(blocks, block)
	}
	if l.vocabSel > 0 {
		blocks = append([]string{theme.Hint.Render(fmt.Sprintf("↑ %d more (k)", l.vocabSel))}, blocks...)
	}
	return strings.Join(blocks, "\n")
}

func renderEntry(v lesson.Vocabulary, width int, selected bool) string {
	head := v.Word
	if selected {
		head = "▸ " + head
	}

	var lines []string
	switch v.Status {
	case lesson.StatusPending:
		lines = append(lines,
			theme.Pending.Render(head),
			theme.Pending.Render("  looking up..."))
	case lesson.StatusFailed:
		lines = append(lines,
			theme.Failed.Render(head),
			theme.Failed.Render("  "+v.Meaning))
	default:
		title := theme.Selected.Render(head)
		if !selected {
			title = theme.Body.Bold(true).Render(head)
		}
		if v.IPA != "" {
			title += " " + theme.Hint.Render(v.IPA)
		}
		if v.Type != "" {
			title += " " + lipgloss.NewStyle().Foreground(theme.Accent).Render("("+v.Type+")")
		}
		lines = append(lines, title)
		if v.Meaning != "" {
			lines = append(lines, theme.Body.Render("  "+v.Meaning))
		}
		if v.EnglishDefinition != "" {
			lines = append(lines, theme.Hint.Render("  "+v.EnglishDefinition))
		}
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}
