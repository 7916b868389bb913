package screen_test

import (
	"errors"
	"testing"

	"github.com/abhisek/englishbuddy/internal/audio"
	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/screen"
	"github.com/abhisek/englishbuddy/internal/screen/screentest"
	"github.com/abhisek/englishbuddy/internal/tutor"
)

func playing(t *testing.T) (*audio.Session, *screentest.Track) {
	t.Helper()
	s := audio.NewSession("Read me aloud")
	req, ok := s.Play()
	if !ok {
		t.Fatal("expected a fetch request")
	}
	player := &screentest.Player{}
	track, err := player.Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cmd, handled := screen.ApplyAudio(screen.AudioLoadedMsg{Session: s, Loaded: audio.Loaded{Gen: req.Gen, Track: track}})
	if !handled {
		t.Fatal("AudioLoadedMsg should be handled")
	}
	if cmd == nil {
		t.Fatal("playback should wait for the end")
	}
	return s, player.Tracks[0]
}

func TestApplyAudio_IgnoresOtherMessages(t *testing.T) {
	cmd, handled := screen.ApplyAudio(screen.DefinitionMsg{})
	if handled || cmd != nil {
		t.Error("non-audio messages should pass through")
	}
}

func TestApplyAudio_LoadError(t *testing.T) {
	s := audio.NewSession("text")
	req, _ := s.Play()
	cmd, _ := screen.ApplyAudio(screen.AudioLoadedMsg{Session: s, Loaded: audio.Loaded{Gen: req.Gen, Err: errors.New("boom")}})
	if cmd != nil {
		t.Error("a failed load should not wait for an end")
	}
	if s.State() != audio.Error {
		t.Errorf("state = %v, want error", s.State())
	}
}

func TestApplyAudio_StaleLoadClosed(t *testing.T) {
	s := audio.NewSession("text")
	req, _ := s.Play()
	s.Dispose()

	player := &screentest.Player{}
	track, _ := player.Load(nil)
	cmd, _ := screen.ApplyAudio(screen.AudioLoadedMsg{Session: s, Loaded: audio.Loaded{Gen: req.Gen, Track: track}})
	if cmd != nil {
		t.Error("a stale load should not wait for an end")
	}
	if !player.Tracks[0].Closed {
		t.Error("a stale track should be closed")
	}
}

func TestApplyAudio_EndRearms(t *testing.T) {
	s, track := playing(t)
	wait := screen.WaitAudioEnd(s)

	track.Finish()
	msg := wait()
	ended, ok := msg.(screen.AudioEndedMsg)
	if !ok {
		t.Fatalf("got %T, want AudioEndedMsg", msg)
	}
	if ended.Closed {
		t.Error("a finished track is not closed")
	}

	cmd, _ := screen.ApplyAudio(ended)
	if s.State() != audio.Paused {
		t.Errorf("state = %v, want paused at the start", s.State())
	}
	if cmd == nil {
		t.Error("the listener should re-arm for the next play")
	}
}

func TestApplyAudio_ClosedTrack(t *testing.T) {
	s, _ := playing(t)
	wait := screen.WaitAudioEnd(s)

	s.Dispose()
	msg := wait()
	ended, ok := msg.(screen.AudioEndedMsg)
	if !ok || !ended.Closed {
		t.Fatalf("got %#v, want a closed end", msg)
	}
	if cmd, _ := screen.ApplyAudio(ended); cmd != nil {
		t.Error("a closed track should stop listening")
	}
}

func TestApplyAudio_StaleEnd(t *testing.T) {
	s, _ := playing(t)
	cmd, _ := screen.ApplyAudio(screen.AudioEndedMsg{Session: s, Gen: s.Gen() + 1})
	if cmd != nil {
		t.Error("an end for another generation should be dropped")
	}
	if s.State() != audio.Playing {
		t.Errorf("state = %v, want playing", s.State())
	}
}

func TestFetchAudio_NoCollaborator(t *testing.T) {
	env := screentest.NewLoggedOutEnv(t, nil)
	s := audio.NewSession("text")
	req, _ := s.Play()

	msg := screen.FetchAudio(env, s, req)()
	loaded, ok := msg.(screen.AudioLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want AudioLoadedMsg", msg)
	}
	if !errors.Is(loaded.Loaded.Err, audio.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", loaded.Loaded.Err)
	}
}

func TestDefine_NoCollaborator(t *testing.T) {
	env := screentest.NewLoggedOutEnv(t, llm.NewMockProvider())
	if err := env.Machine.SelectLesson(lesson.SampleLessonID); err != nil {
		t.Fatalf("select: %v", err)
	}
	job, ok := env.Machine.AddWord("espresso")
	if !ok {
		t.Fatal("expected a lookup job")
	}

	msg := screen.Define(env, job)()
	def, ok := msg.(screen.DefinitionMsg)
	if !ok {
		t.Fatalf("got %T, want DefinitionMsg", msg)
	}
	if def.Result.Entry.Meaning != tutor.NoKeyMeaning {
		t.Errorf("meaning = %q, want %q", def.Result.Entry.Meaning, tutor.NoKeyMeaning)
	}
}
