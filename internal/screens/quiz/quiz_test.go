package quiz

import (
	"strings"
	"testing"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/llm"
	qz "github.com/abhisek/englishbuddy/internal/quiz"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/screen/screentest"
	"github.com/abhisek/englishbuddy/internal/screens/summary"
)

func newQuizScreen(t *testing.T) (*screen.Env, *QuizScreen) {
	t.Helper()
	provider := llm.NewMockProvider(screentest.QuizResponse(t,
		qz.Question{ID: "q1", Type: qz.TrueFalse, Question: "Coffee is popular.", CorrectAnswer: "True",
			Explanation: "The passage says so."},
		qz.Question{ID: "q2", Type: qz.FillBlank, Question: "Coffee is a _______ ritual.", CorrectAnswer: "daily"},
	))
	env := screentest.NewEnv(t, provider)
	screentest.EnterQuiz(t, env)
	return env, New(env)
}

func TestQuizScreen_Title(t *testing.T) {
	_, s := newQuizScreen(t)
	if s.Title() != "Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz")
	}
}

func TestQuizScreen_ChoiceQuestion(t *testing.T) {
	_, s := newQuizScreen(t)
	if !s.choiceQ {
		t.Fatal("true/false question should use the choice list")
	}

	view := s.View(80, 24)
	for _, want := range []string{"Coffee is popular.", "Doesn't Say", "1/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	s.Update(screentest.Key("1"))
	s.Update(screentest.Key("enter"))
	if !s.session.FeedbackVisible() {
		t.Fatal("enter should reveal feedback")
	}
	if got := s.session.Current().UserAnswer; got != "True" {
		t.Errorf("answer = %q, want True", got)
	}
	view = s.View(80, 24)
	if !strings.Contains(view, "Correct!") || !strings.Contains(view, "The passage says so.") {
		t.Error("feedback should show the verdict and explanation")
	}
}

func TestQuizScreen_WrongAnswerShowsCorrect(t *testing.T) {
	_, s := newQuizScreen(t)
	s.Update(screentest.Key("2"))
	s.Update(screentest.Key("enter"))
	if !strings.Contains(s.View(80, 24), "The answer is: True") {
		t.Error("wrong answer should show the correct one")
	}
}

func TestQuizScreen_BlankTypedAnswerIgnored(t *testing.T) {
	_, s := newQuizScreen(t)
	s.Update(screentest.Key("1"))
	s.Update(screentest.Key("enter"))
	s.Update(screentest.Key("enter"))
	if s.choiceQ {
		t.Fatal("second question is typed")
	}

	s.Update(screentest.Key("enter"))
	if s.session.FeedbackVisible() {
		t.Error("blank answer should not reveal")
	}
}

func TestQuizScreen_CompletesIntoSummary(t *testing.T) {
	_, s := newQuizScreen(t)
	s.Update(screentest.Key("1"))
	s.Update(screentest.Key("enter"))
	s.Update(screentest.Key("enter"))

	screentest.Type(s, "daily")
	s.Update(screentest.Key("enter"))
	if !s.session.FeedbackVisible() {
		t.Fatal("typed answer should reveal")
	}
	if !s.session.Current().Correct() {
		t.Error("daily should be correct")
	}

	_, cmd := s.Update(screentest.Key("enter"))
	msgs := screentest.Drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	replace, ok := msgs[0].(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("got %T, want ReplaceScreenMsg", msgs[0])
	}
	if _, ok := replace.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement = %T, want summary", replace.Screen)
	}
	if score, _ := s.session.Score(); score != 100 {
		t.Errorf("score = %d, want 100", score)
	}

	_, cmd = s.Update(screentest.Key("enter"))
	if cmd != nil {
		t.Error("finished quiz should not navigate twice")
	}
}

func TestQuizScreen_EscReturnsToLesson(t *testing.T) {
	env, s := newQuizScreen(t)
	_, cmd := s.Update(screentest.Key("esc"))

	msgs := screentest.Drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("got %T, want PopScreenMsg", msgs[0])
	}
	if env.Machine.Mode() != appstate.Learning {
		t.Errorf("mode = %v, want learning", env.Machine.Mode())
	}
}

func TestQuizScreen_KeyHints(t *testing.T) {
	_, s := newQuizScreen(t)
	if len(s.KeyHints()) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(s.KeyHints()))
	}
	s.Update(screentest.Key("1"))
	s.Update(screentest.Key("enter"))
	if len(s.KeyHints()) != 2 {
		t.Errorf("feedback KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}
