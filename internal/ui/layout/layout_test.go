package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) || !IsTooSmall(MinWidth, MinHeight-1) {
		t.Error("below the minimum should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("the minimum itself should fit")
	}
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("Library", HeaderStatus{Lessons: 3, Online: true}, 100)
	for _, want := range []string{"EnglishBuddy", "Library", "3 lessons", "key set"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if lipgloss.Height(out) != HeaderHeight {
		t.Errorf("header height = %d, want %d", lipgloss.Height(out), HeaderHeight)
	}
	if !strings.Contains(RenderHeader("Home", HeaderStatus{}, 100), "offline") {
		t.Error("header should show offline without a key")
	}
}

func TestRenderFooterDropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: strings.Repeat("x", 200)},
	}
	out := RenderFooter(hints, 80)
	if !strings.Contains(out, "Open") {
		t.Error("first hint should fit")
	}
	if strings.Contains(out, "xxxx") {
		t.Error("overflowing hint should be dropped")
	}
	if lipgloss.Height(out) != FooterHeight {
		t.Errorf("footer height = %d, want %d", lipgloss.Height(out), FooterHeight)
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Home", HeaderStatus{}, 80)
	footer := RenderFooter(nil, 80)
	out := RenderFrame(header, "body", footer, 80, 24)
	if lipgloss.Height(out) != 24 {
		t.Errorf("frame height = %d, want 24", lipgloss.Height(out))
	}
}
