package quiz

import (
	"slices"
	"strings"
)

// Type is the kind of quiz question.
type Type string

const (
	MultipleChoice Type = "multiple_choice"
	TrueFalse      Type = "true_false"
	FillBlank      Type = "fill_blank"
	DragDrop       Type = "drag_drop"
	Matching       Type = "matching"
)

// Types lists every question type in the order they're described to the model.
var Types = []Type{MultipleChoice, TrueFalse, FillBlank, DragDrop, Matching}

// Valid reports whether t is a known question type.
func (t Type) Valid() bool { return slices.Contains(Types, t) }

// TrueFalseOptions are the fixed answers for true/false and matching questions.
var TrueFalseOptions = []string{"True", "False", "Doesn't Say"}

// Blank marks the gap in fill-in-the-blank questions.
const Blank = "_______"

// Question is one quiz item.
type Question struct {
	ID            string
	Type          Type
	Question      string
	Options       []string
	CorrectAnswer string
	UserAnswer    string
	Explanation   string
}

// Choices returns the answers the user picks from, or nil when the answer
// is typed (fill in the blank, or a choice question with no options).
func (q Question) Choices() []string {
	switch q.Type {
	case TrueFalse, Matching:
		return TrueFalseOptions
	case MultipleChoice, DragDrop:
		if len(q.Options) > 0 {
			return q.Options
		}
	}
	return nil
}

// Answered reports whether the user has given an answer.
func (q Question) Answered() bool {
	return strings.TrimSpace(q.UserAnswer) != ""
}

// Correct reports whether the user's answer matches, ignoring case and
// surrounding whitespace.
func (q Question) Correct() bool {
	if !q.Answered() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(q.UserAnswer), strings.TrimSpace(q.CorrectAnswer))
}
