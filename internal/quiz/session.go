// Package quiz runs one attempt at a generated quiz: answer, reveal,
// advance, score.
package quiz

import "errors"

// ErrInsufficientContent means generation produced no questions.
var ErrInsufficientContent = errors.New("content is too short to build a quiz")

// Session is the state of a single quiz attempt. A new Session is built for
// every start or restart; answers never carry over.
type Session struct {
	source    string
	questions []Question
	cursor    int
	feedback  bool
	completed bool
}

// Start builds a fresh session over questions generated from source.
func Start(source string, questions []Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrInsufficientContent
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	for i := range qs {
		qs[i].UserAnswer = ""
	}
	return &Session{source: source, questions: qs}, nil
}

// Source returns the text the quiz was generated from, for restarts.
func (s *Session) Source() string { return s.source }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Index returns the cursor position.
func (s *Session) Index() int { return s.cursor }

// Current returns the question under the cursor.
func (s *Session) Current() Question { return s.questions[s.cursor] }

// Question returns question i.
func (s *Session) Question(i int) Question { return s.questions[i] }

// FeedbackVisible reports whether the current answer has been revealed.
func (s *Session) FeedbackVisible() bool { return s.feedback }

// Completed reports whether the last question has been advanced past.
func (s *Session) Completed() bool { return s.completed }

// Answer records text as the answer to the current question. Ignored once
// feedback is showing or the quiz is over.
func (s *Session) Answer(text string) bool {
	if s.feedback || s.completed {
		return false
	}
	s.questions[s.cursor].UserAnswer = text
	return true
}

// Reveal shows feedback for the current question. It needs a non-empty
// answer and is idempotent.
func (s *Session) Reveal() bool {
	if s.completed || !s.questions[s.cursor].Answered() {
		return false
	}
	s.feedback = true
	return true
}

// Advance moves to the next question, or completes the quiz on the last
// one. It only works while feedback is showing.
func (s *Session) Advance() bool {
	if !s.feedback || s.completed {
		return false
	}
	if s.cursor == len(s.questions)-1 {
		s.completed = true
		return true
	}
	s.cursor++
	s.feedback = false
	return true
}

// CorrectCount returns how many questions were answered correctly.
func (s *Session) CorrectCount() int {
	n := 0
	for _, q := range s.questions {
		if q.Correct() {
			n++
		}
	}
	return n
}

// Score returns the rounded percentage of correct answers. ok is false
// until the quiz is completed.
func (s *Session) Score() (score int, ok bool) {
	if !s.completed {
		return 0, false
	}
	total := len(s.questions)
	// Integer round half up of 100*correct/total.
	return (200*s.CorrectCount() + total) / (2 * total), true
}

// Progress is the fraction of questions passed, in [0, 1].
func (s *Session) Progress() float64 {
	done := s.cursor
	if s.completed {
		done = len(s.questions)
	}
	return float64(done) / float64(len(s.questions))
}
