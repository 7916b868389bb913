package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/audio"
	"github.com/abhisek/englishbuddy/internal/tutor"
	"github.com/abhisek/englishbuddy/internal/vocab"
)

// Completion messages are applied by the app root before the active
// screen sees them, so results that arrive while another screen is on
// top still reach the state machine.

// AnalysisDoneMsg carries a finished lesson analysis.
type AnalysisDoneMsg struct {
	Done appstate.AnalysisDone
}

// QuizReadyMsg carries generated quiz questions.
type QuizReadyMsg struct {
	Ready appstate.QuizReady

	// Applied and Err are filled in by the app root.
	Applied bool
	Err     error
}

// DefinitionMsg carries a resolved vocabulary lookup.
type DefinitionMsg struct {
	Result vocab.Result
}

// AudioLoadedMsg carries synthesized audio for a session.
type AudioLoadedMsg struct {
	Session *audio.Session
	Loaded  audio.Loaded
}

// AudioEndedMsg reports that a session's track played to the end, or that
// the track was closed.
type AudioEndedMsg struct {
	Session *audio.Session
	Gen     uint64
	Closed  bool
}

// RunAnalysis runs job off the update loop.
func RunAnalysis(job appstate.AnalysisJob) tea.Cmd {
	return func() tea.Msg {
		return AnalysisDoneMsg{Done: job.Run()}
	}
}

// RunQuiz runs job off the update loop.
func RunQuiz(job appstate.QuizJob) tea.Cmd {
	return func() tea.Msg {
		return QuizReadyMsg{Ready: job.Run()}
	}
}

// Define resolves a vocabulary lookup off the update loop. Without a
// collaborator the entry resolves to a failed "no key" definition.
func Define(env *Env, job vocab.Job) tea.Cmd {
	var definer vocab.Definer = tutor.New(nil, tutor.DefaultConfig(), nil)
	if collab := env.Machine.Collaborator(); collab != nil {
		definer = collab
	}
	ctx := env.Context()
	return func() tea.Msg {
		return DefinitionMsg{Result: vocab.Resolve(ctx, definer, job)}
	}
}

// FetchAudio synthesizes and loads audio for req off the update loop.
func FetchAudio(env *Env, s *audio.Session, req audio.Request) tea.Cmd {
	collab := env.Machine.Collaborator()
	player := env.Player
	ctx := env.Context()
	return func() tea.Msg {
		if collab == nil || player == nil {
			return AudioLoadedMsg{Session: s, Loaded: audio.Loaded{Gen: req.Gen, Err: audio.ErrUnavailable}}
		}
		return AudioLoadedMsg{Session: s, Loaded: audio.Fetch(ctx, collab, player, req)}
	}
}

// WaitAudioEnd waits for the session's current track to finish.
func WaitAudioEnd(s *audio.Session) tea.Cmd {
	track := s.Track()
	if track == nil {
		return nil
	}
	gen := s.Gen()
	return func() tea.Msg {
		_, ok := <-track.Ended()
		return AudioEndedMsg{Session: s, Gen: gen, Closed: !ok}
	}
}

// ApplyAudio routes audio completion messages into their session. It
// returns the follow-up command and whether msg was an audio message.
func ApplyAudio(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case AudioLoadedMsg:
		if msg.Session.Complete(msg.Loaded) && msg.Session.State() == audio.Playing {
			return WaitAudioEnd(msg.Session), true
		}
		return nil, true
	case AudioEndedMsg:
		if msg.Closed || msg.Gen != msg.Session.Gen() {
			return nil, true
		}
		msg.Session.Ended(msg.Gen)
		return WaitAudioEnd(msg.Session), true
	}
	return nil, false
}
