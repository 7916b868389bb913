package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/englishbuddy/internal/quiz"
	"github.com/abhisek/englishbuddy/internal/ui/components"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

var typeLabels = map[qz.Type]string{
	qz.MultipleChoice: "Multiple choice",
	qz.TrueFalse:      "True / False / Doesn't say",
	qz.FillBlank:      "Fill in the blank",
	qz.DragDrop:       "Word bank",
	qz.Matching:       "True / False / Doesn't say",
}

func (s *QuizScreen) View(width, height int) string {
	if s.session == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No quiz is running. Press Esc.")
	}

	q := s.session.Current()
	cw := components.ContentWidth(width)

	var b strings.Builder

	bar := components.NewProgressBar("Question", s.session.Index()+1, s.session.Len(), cw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(typeLabels[q.Type])))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Bold(true).
			Render(q.Question)))
	b.WriteString("\n\n")

	if s.choiceQ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(cw).Render(s.choices.View())))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
		b.WriteString("\n")
	}

	if s.session.FeedbackVisible() {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(q, width, cw))
	}
	return b.String()
}

func (s *QuizScreen) renderFeedback(q qz.Question, width, cw int) string {
	var lines []string
	if q.Correct() {
		lines = append(lines, theme.Correct.Render("Correct!"))
	} else {
		lines = append(lines,
			theme.Incorrect.Render("Not quite"),
			theme.Body.Render(fmt.Sprintf("The answer is: %s", q.CorrectAnswer)))
	}
	if q.Explanation != "" {
		lines = append(lines, "", theme.Hint.Width(cw).Render(q.Explanation))
	}
	next := "Enter for the next question"
	if s.session.Index() == s.session.Len()-1 {
		next = "Enter to see your score"
	}
	lines = append(lines, "", theme.Hint.Render(next))

	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
