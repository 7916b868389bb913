package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen/screentest"
	"github.com/abhisek/englishbuddy/internal/screens/processing"
	"github.com/abhisek/englishbuddy/internal/tutor"
)

func expectPush(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	msgs := screentest.Drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	push, ok := msgs[0].(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", msgs[0])
	}
	if _, ok := push.Screen.(*processing.ProcessingScreen); !ok {
		t.Errorf("pushed %T, want processing screen", push.Screen)
	}
}

func TestComposeScreen_Title(t *testing.T) {
	c := New(screentest.NewEnv(t, nil))
	if c.Title() != "New Lesson" {
		t.Errorf("Title = %q, want %q", c.Title(), "New Lesson")
	}
	if c.View(80, 30) == "" {
		t.Error("expected non-empty view")
	}
}

func TestComposeScreen_SubmitText(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	c := New(env)
	c.SetText("Coffee culture is everywhere.")

	_, cmd := c.Update(screentest.Key("ctrl+s"))
	expectPush(t, cmd)
	if env.Machine.Mode() != appstate.Processing {
		t.Errorf("mode = %v, want processing", env.Machine.Mode())
	}
}

func TestComposeScreen_TypedText(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	c := New(env)
	screentest.Type(c, "Hi")

	_, cmd := c.Update(screentest.Key("ctrl+s"))
	expectPush(t, cmd)
}

func TestComposeScreen_EmptyText(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	c := New(env)

	_, cmd := c.Update(screentest.Key("ctrl+s"))
	if cmd != nil {
		t.Error("empty submission should not navigate")
	}
	if !strings.Contains(c.View(80, 30), "Nothing to analyze yet.") {
		t.Error("view should explain the empty submission")
	}
	if env.Machine.Mode() != appstate.Home {
		t.Errorf("mode = %v, want home", env.Machine.Mode())
	}
}

func TestComposeScreen_SubmitFile(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Tea is a popular drink."), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(env)
	c.Update(screentest.Key("tab"))
	c.SetPath(path)

	_, cmd := c.Update(screentest.Key("enter"))
	expectPush(t, cmd)
}

func TestComposeScreen_MissingFile(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	c := New(env)
	c.Update(screentest.Key("tab"))
	c.SetPath(filepath.Join(t.TempDir(), "missing.png"))

	_, cmd := c.Update(screentest.Key("enter"))
	if cmd != nil {
		t.Error("missing file should not navigate")
	}
	if !strings.Contains(c.View(80, 30), "File not found.") {
		t.Error("view should report the missing file")
	}
}

func TestComposeScreen_EnterInTextIsNewline(t *testing.T) {
	env := screentest.NewEnv(t, nil)
	c := New(env)
	c.SetText("line one")

	c.Update(screentest.Key("enter"))
	if env.Machine.Mode() != appstate.Home {
		t.Error("enter in the text box should not submit")
	}
}

func TestComposeScreen_NeedsKey(t *testing.T) {
	c := New(screentest.NewLoggedOutEnv(t, nil))
	c.SetText("Some text")

	c.Update(screentest.Key("ctrl+s"))
	if !strings.Contains(c.View(80, 30), "Enter an API key first.") {
		t.Error("view should ask for a key")
	}
}

func TestComposeScreen_ActivateShowsNotice(t *testing.T) {
	env := screentest.NewEnv(t, llm.NewMockProvider())
	c := New(env)

	job, err := env.Machine.SubmitText(env.Context(), "Some text")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !env.Machine.FinishAnalysis(job.Run()) {
		t.Fatal("analysis result should apply")
	}

	c.Activate()
	if !strings.Contains(c.View(100, 30), tutor.ErrAnalysis.Error()) {
		t.Error("view should show the analysis failure")
	}
	if env.Machine.Notice() != "" {
		t.Error("notice should be dismissed once shown")
	}
}

func TestComposeScreen_Esc(t *testing.T) {
	c := New(screentest.NewEnv(t, nil))
	_, cmd := c.Update(screentest.Key("esc"))
	msgs := screentest.Drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("got %T, want PopScreenMsg", msgs[0])
	}
}
