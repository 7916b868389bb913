package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/screen/screentest"
	"github.com/abhisek/englishbuddy/internal/screens/compose"
	"github.com/abhisek/englishbuddy/internal/screens/history"
	"github.com/abhisek/englishbuddy/internal/screens/library"
)

func labels(h *HomeScreen) []string {
	var out []string
	for _, item := range h.menu.Items {
		out = append(out, item.Label)
	}
	return out
}

func selectLabel(t *testing.T, h *HomeScreen, label string) tea.Cmd {
	t.Helper()
	for range h.menu.Items {
		if h.menu.Items[h.menu.Selected].Label == label {
			_, cmd := h.Update(screentest.Key("enter"))
			return cmd
		}
		h.Update(screentest.Key("down"))
	}
	t.Fatalf("menu item %q not reachable in %v", label, labels(h))
	return nil
}

func pushed(t *testing.T, cmd tea.Cmd) screen.Screen {
	t.Helper()
	msgs := screentest.Drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	push, ok := msgs[0].(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", msgs[0])
	}
	return push.Screen
}

func TestHomeScreen_Title(t *testing.T) {
	h := New(screentest.NewEnv(t, nil))
	if h.Title() != "Home" {
		t.Errorf("Title = %q, want %q", h.Title(), "Home")
	}
}

func TestHomeScreen_MenuLoggedIn(t *testing.T) {
	h := New(screentest.NewEnv(t, nil))
	got := strings.Join(labels(h), ",")
	if got != "NEW LESSON,LIBRARY,LLM HISTORY,LOG OUT,QUIT" {
		t.Errorf("menu = %s", got)
	}
	if !h.menu.Items[2].Disabled {
		t.Error("history should be disabled without an event log")
	}
}

func TestHomeScreen_MenuLoggedOut(t *testing.T) {
	h := New(screentest.NewLoggedOutEnv(t, nil))
	got := strings.Join(labels(h), ",")
	if got != "ENTER API KEY,LIBRARY,LLM HISTORY,QUIT" {
		t.Errorf("menu = %s", got)
	}
	if !strings.Contains(h.View(100, 40), "No API key") {
		t.Error("view should show the offline banner")
	}
}

func TestHomeScreen_NewLesson(t *testing.T) {
	h := New(screentest.NewEnv(t, nil))
	if _, ok := pushed(t, selectLabel(t, h, "NEW LESSON")).(*compose.ComposeScreen); !ok {
		t.Error("NEW LESSON should open the compose screen")
	}
}

func TestHomeScreen_Library(t *testing.T) {
	h := New(screentest.NewEnv(t, nil))
	if _, ok := pushed(t, selectLabel(t, h, "LIBRARY")).(*library.LibraryScreen); !ok {
		t.Error("LIBRARY should open the library screen")
	}
}

func TestHomeScreen_History(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	env.Events = &screentest.Events{}
	h := New(env)
	if _, ok := pushed(t, selectLabel(t, h, "LLM HISTORY")).(*history.HistoryScreen); !ok {
		t.Error("LLM HISTORY should open the history screen")
	}
}

func TestHomeScreen_Logout(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	h := New(env)

	msgs := screentest.Drain(selectLabel(t, h, "LOG OUT"))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	reset, ok := msgs[0].(router.ResetScreenMsg)
	if !ok {
		t.Fatalf("got %T, want ResetScreenMsg", msgs[0])
	}
	if len(reset.Screens) != 1 || reset.Screens[0].Title() != "login" {
		t.Errorf("reset to %v, want the login screen", reset.Screens)
	}
	if env.Machine.Authenticated() {
		t.Error("machine should be logged out")
	}
}

func TestHomeScreen_EnterKey(t *testing.T) {
	env := screentest.NewLoggedOutEnv(t, nil)
	h := New(env)
	msgs := screentest.Drain(selectLabel(t, h, "ENTER API KEY"))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(router.ResetScreenMsg); !ok {
		t.Errorf("got %T, want ResetScreenMsg", msgs[0])
	}
}

func TestHomeScreen_Stats(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	env.Machine.Store().Add(&lesson.Lesson{
		ID:         "l2",
		Title:      "Second",
		FullText:   "x",
		Vocabulary: []lesson.Vocabulary{{Word: "one"}, {Word: "two"}},
	})
	h := New(env)

	sample, err := env.Machine.Store().Get(lesson.SampleLessonID)
	if err != nil {
		t.Fatalf("get sample: %v", err)
	}
	if h.stats.Lessons != 2 {
		t.Errorf("lessons = %d, want 2", h.stats.Lessons)
	}
	if h.stats.Words != len(sample.Vocabulary)+2 {
		t.Errorf("words = %d, want %d", h.stats.Words, len(sample.Vocabulary)+2)
	}
	if !strings.Contains(h.View(100, 40), "2 LESSONS") {
		t.Error("view should show the lesson count")
	}
}

func TestHomeScreen_ActivateRefreshes(t *testing.T) {
	env := screentest.NewLoggedOutEnv(t, nil)
	h := New(env)
	if err := env.Machine.Login(t.Context(), "key"); err != nil {
		t.Fatalf("login: %v", err)
	}
	h.Activate()
	if h.menu.Items[0].Label != "NEW LESSON" {
		t.Errorf("first item = %q, want NEW LESSON", h.menu.Items[0].Label)
	}
}

func TestHomeScreen_NoticeShown(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	if err := env.Machine.SelectLesson("missing"); err == nil {
		t.Fatal("selecting a missing lesson should fail")
	}
	h := New(env)
	if !strings.Contains(h.View(100, 40), "That lesson no longer exists.") {
		t.Error("view should show the notice")
	}
}
