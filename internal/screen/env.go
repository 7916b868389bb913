package screen

import (
	"context"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/audio"
	"github.com/abhisek/englishbuddy/internal/logger"
	"github.com/abhisek/englishbuddy/internal/store"
)

// Env is what screens share: the state machine, the audio device, the
// call log and the app lifetime context.
type Env struct {
	Ctx     context.Context
	Machine *appstate.Machine
	Player  audio.Player
	Events  store.EventRepo
	Log     *logger.Logger

	// ExportDir is where lessons are exported. Empty means the working
	// directory.
	ExportDir string

	// Home and Login build the root screens. They are set by the app so
	// screens can navigate to them without importing each other.
	Home  func() Screen
	Login func() Screen
}

// Context returns the env context, or Background when unset.
func (e *Env) Context() context.Context {
	if e == nil || e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

// Logger returns the env logger, or a no-op logger when unset.
func (e *Env) Logger() *logger.Logger {
	if e == nil || e.Log == nil {
		return logger.Nop()
	}
	return e.Log
}
