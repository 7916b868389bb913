package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/englishbuddy/internal/router"
	"github.com/abhisek/englishbuddy/internal/screen/screentest"
	"github.com/abhisek/englishbuddy/internal/store"
)

func newEvents() *screentest.Events {
	ts := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	return &screentest.Events{
		Records: []store.LLMEventRecord{
			{ID: 2, Sequence: 2, Timestamp: ts, LLMRequestEventData: store.LLMRequestEventData{
				Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "define",
				InputTokens: 40, OutputTokens: 12, Success: false, ErrorMessage: "quota exceeded",
			}},
			{ID: 1, Sequence: 1, Timestamp: ts, LLMRequestEventData: store.LLMRequestEventData{
				Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "analyze",
				InputTokens: 900, OutputTokens: 300, Success: true, ResponseBody: `{"title":"Coffee"}`,
			}},
		},
		Usage: []store.UsageRow{{Key: "analyze", Calls: 1, InputTokens: 900, OutputTokens: 300}},
	}
}

func loaded(t *testing.T, events *screentest.Events) *HistoryScreen {
	t.Helper()
	s := New(events)
	s.Update(s.Init()())
	return s
}

func TestHistoryScreen_Title(t *testing.T) {
	s := New(newEvents())
	if s.Title() != "LLM History" {
		t.Errorf("Title = %q, want %q", s.Title(), "LLM History")
	}
	if !strings.Contains(s.View(140, 30), "Loading history...") {
		t.Error("view should show loading before the first result")
	}
}

func TestHistoryScreen_Lists(t *testing.T) {
	s := loaded(t, newEvents())
	view := s.View(140, 30)
	for _, want := range []string{"define", "analyze", "failed", "analyze 1 calls / 1200 tok"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := loaded(t, &screentest.Events{})
	if !strings.Contains(s.View(140, 30), "No calls yet") {
		t.Error("view should say there are no calls")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := loaded(t, &screentest.Events{Err: errors.New("db locked")})
	if !strings.Contains(s.View(140, 30), "Error: db locked") {
		t.Error("view should show the query error")
	}
}

func TestHistoryScreen_PurposeTabs(t *testing.T) {
	events := newEvents()
	s := loaded(t, events)

	_, cmd := s.Update(screentest.Key("tab"))
	if cmd == nil {
		t.Fatal("switching purpose should reload")
	}
	s.Update(cmd())
	if got := events.Queries[len(events.Queries)-1].Purpose; got != "analyze" {
		t.Errorf("query purpose = %q, want analyze", got)
	}
	if len(s.events) != 1 || s.events[0].Purpose != "analyze" {
		t.Errorf("events = %v", s.events)
	}

	_, cmd = s.Update(screentest.Key("shift+tab"))
	s.Update(cmd())
	if len(s.events) != 2 {
		t.Errorf("got %d events, want all 2", len(s.events))
	}
}

func TestHistoryScreen_StaleResultDropped(t *testing.T) {
	events := newEvents()
	s := New(events)
	stale := s.Init()

	s.Update(screentest.Key("tab"))
	s.Update(stale())
	if s.loaded {
		t.Error("a result for another purpose should be ignored")
	}
}

func TestHistoryScreen_Expand(t *testing.T) {
	s := loaded(t, newEvents())

	s.Update(screentest.Key("enter"))
	if !strings.Contains(s.View(140, 30), "error: quota exceeded") {
		t.Error("expanded row should show the error")
	}

	s.Update(screentest.Key("down"))
	s.Update(screentest.Key("enter"))
	if !strings.Contains(s.View(140, 30), `response: {"title":"Coffee"}`) {
		t.Error("expanded row should show the response")
	}

	s.Update(screentest.Key("down"))
	if s.selected != 1 {
		t.Errorf("selected = %d, want clamp at 1", s.selected)
	}
}

func TestHistoryScreen_Esc(t *testing.T) {
	s := New(newEvents())
	_, cmd := s.Update(screentest.Key("esc"))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop the screen")
	}
}

func TestClip(t *testing.T) {
	if got := clip("a  b\nc", 10); got != "a b c" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("abcdefgh", 5); got != "abcd…" {
		t.Errorf("clip = %q", got)
	}
}
