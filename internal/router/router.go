// Package router keeps the stack of screens. Screens navigate by returning
// one of the *ScreenMsg messages from a command; the router applies it and
// tells screens when they are closed or uncovered.
package router

import (
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/englishbuddy/internal/screen"
)

// Navigation messages.
type (
	PushScreenMsg    struct{ Screen screen.Screen }
	PopScreenMsg     struct{}
	ReplaceScreenMsg struct{ Screen screen.Screen }
	// ResetScreenMsg installs a new stack, bottom screen first.
	ResetScreenMsg struct{ Screens []screen.Screen }
)

// Router is a stack of screens; only the top one sees messages.
type Router struct {
	stack []screen.Screen
}

func New(first screen.Screen) *Router {
	return &Router{stack: []screen.Screen{first}}
}

func (r *Router) Depth() int { return len(r.stack) }

// Active is the top screen, or nil for an empty stack.
func (r *Router) Active() screen.Screen {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	return nil
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and activates the one below it. The last
// screen is never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) < 2 {
		return nil
	}
	closeScreen(r.Active())
	r.stack = r.stack[:len(r.stack)-1]
	if a, ok := r.Active().(screen.Activator); ok {
		return a.Activate()
	}
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	closeScreen(r.Active())
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Reset swaps the whole stack. Screens that appear in both the old and
// the new stack stay open; only the new top is initialized.
func (r *Router) Reset(screens ...screen.Screen) tea.Cmd {
	if len(screens) == 0 {
		return nil
	}
	for _, old := range slices.Backward(r.stack) {
		if !slices.Contains(screens, old) {
			closeScreen(old)
		}
	}
	r.stack = slices.Clone(screens)
	return r.Active().Init()
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case ResetScreenMsg:
		return r.Reset(msg.Screens...)
	}
	if len(r.stack) == 0 {
		return nil
	}
	next, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if a := r.Active(); a != nil {
		return a.View(width, height)
	}
	return ""
}

// Close closes every screen, top first.
func (r *Router) Close() {
	for _, s := range slices.Backward(r.stack) {
		closeScreen(s)
	}
}

func closeScreen(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}
