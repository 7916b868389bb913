// Package audio controls read-aloud playback for one piece of text.
//
// The Session is driven from the UI update loop. Play hands back a Request
// when synthesis is needed; Fetch runs that request off the loop; Complete
// applies the result back on the loop. A generation counter ties each
// Request to the session state that issued it, so results for replaced or
// disposed text are closed and dropped.
package audio

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// State is the playback state.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Playing
	Paused
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// MaxChars caps how much text is sent to synthesis.
const MaxChars = 3000

// Rates are the selectable playback speeds.
var Rates = []float64{0.75, 1.0, 1.25, 1.5}

// ErrUnavailable is reported when synthesis returns no audio.
var ErrUnavailable = errors.New("speech is unavailable right now")

// Synthesizer produces base64 PCM for text. ok is false when synthesis
// failed or is unavailable.
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, text string) (payload string, ok bool)
}

// Request is a pending synthesis issued by Play.
type Request struct {
	Gen  uint64
	Text string
}

// Loaded is the outcome of Fetch.
type Loaded struct {
	Gen   uint64
	Track Track
	Err   error
}

// Session is the playback controller for one text.
type Session struct {
	text     string
	state    State
	rate     float64
	track    Track
	gen      uint64
	errMsg   string
	requests int
}

// NewSession returns an idle session for text.
func NewSession(text string) *Session {
	return &Session{text: text, rate: 1.0}
}

func (s *Session) State() State   { return s.state }
func (s *Session) Rate() float64  { return s.rate }
func (s *Session) Text() string   { return s.text }
func (s *Session) Gen() uint64    { return s.gen }
func (s *Session) ErrMsg() string { return s.errMsg }

// Requests counts synthesis requests issued over the session's lifetime.
func (s *Session) Requests() int { return s.requests }

// Track returns the loaded track, or nil.
func (s *Session) Track() Track { return s.track }

// Play starts playback. From Idle or Error it returns a Request that must
// be fetched; from Ready or Paused it resumes the cached track. It does
// nothing while Loading or Playing.
func (s *Session) Play() (Request, bool) {
	switch s.state {
	case Idle, Error:
		s.gen++
		s.state = Loading
		s.errMsg = ""
		s.requests++
		return Request{Gen: s.gen, Text: truncate(s.text, MaxChars)}, true
	case Ready, Paused:
		s.track.Play()
		s.state = Playing
	}
	return Request{}, false
}

// Toggle pauses while playing and plays otherwise.
func (s *Session) Toggle() (Request, bool) {
	if s.state == Playing {
		s.Pause()
		return Request{}, false
	}
	return s.Play()
}

// Fetch synthesizes, decodes and loads the audio for req. It blocks and
// must run off the UI loop.
func Fetch(ctx context.Context, synth Synthesizer, player Player, req Request) Loaded {
	payload, ok := synth.SynthesizeSpeech(ctx, req.Text)
	if !ok {
		return Loaded{Gen: req.Gen, Err: ErrUnavailable}
	}
	pcm, err := DecodePCM(payload)
	if err != nil {
		return Loaded{Gen: req.Gen, Err: err}
	}
	track, err := player.Load(EncodeWAV(pcm, SampleRate))
	if err != nil {
		return Loaded{Gen: req.Gen, Err: fmt.Errorf("load audio: %w", err)}
	}
	return Loaded{Gen: req.Gen, Track: track}
}

// Complete applies a Fetch result. Stale results are closed and dropped;
// it reports whether res was applied.
func (s *Session) Complete(res Loaded) bool {
	if res.Gen != s.gen || s.state != Loading {
		if res.Track != nil {
			_ = res.Track.Close()
		}
		return false
	}
	if res.Err != nil {
		s.state = Error
		s.errMsg = res.Err.Error()
		return true
	}

	s.track = res.Track
	s.track.SetRate(s.rate)
	s.state = Ready
	s.track.Play()
	s.state = Playing
	return true
}

// Pause pauses playback.
func (s *Session) Pause() {
	if s.state != Playing {
		return
	}
	s.track.Pause()
	s.state = Paused
}

// Ended handles the track reaching its end: playback stops at the start.
func (s *Session) Ended(gen uint64) {
	if gen != s.gen || s.track == nil {
		return
	}
	s.track.Pause()
	s.track.Rewind()
	if s.state == Playing {
		s.state = Paused
	}
}

// SetRate sets the playback speed. Only values in Rates are accepted.
func (s *Session) SetRate(rate float64) bool {
	for _, r := range Rates {
		if r == rate {
			s.rate = rate
			if s.track != nil {
				s.track.SetRate(rate)
			}
			return true
		}
	}
	return false
}

// CycleRate steps to the next rate in Rates, wrapping around.
func (s *Session) CycleRate() float64 {
	next := Rates[0]
	for i, r := range Rates {
		if r == s.rate {
			next = Rates[(i+1)%len(Rates)]
			break
		}
	}
	s.SetRate(next)
	return next
}

// SetText retargets the session. The cached audio is released and any
// in-flight request is orphaned.
func (s *Session) SetText(text string) {
	if text == s.text {
		return
	}
	s.Dispose()
	s.text = text
}

// Dispose releases the cached track and returns to Idle. Safe to call
// repeatedly.
func (s *Session) Dispose() {
	if s.track != nil {
		_ = s.track.Close()
		s.track = nil
	}
	s.gen++
	s.state = Idle
	s.errMsg = ""
}

func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}
