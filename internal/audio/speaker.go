package audio

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// SpeakerPlayer plays tracks on the default output device. The device is
// opened on the first Load.
type SpeakerPlayer struct {
	once    sync.Once
	initErr error
	rate    beep.SampleRate
}

// NewSpeakerPlayer returns a player for the system speaker.
func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{}
}

func (p *SpeakerPlayer) init(rate beep.SampleRate) error {
	p.once.Do(func() {
		p.rate = rate
		p.initErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	return p.initErr
}

func (p *SpeakerPlayer) Load(data []byte) (Track, error) {
	src, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if err := p.init(format.SampleRate); err != nil {
		src.Close()
		return nil, fmt.Errorf("open speaker: %w", err)
	}

	t := &speakerTrack{
		src:   src,
		base:  float64(format.SampleRate) / float64(p.rate),
		ended: make(chan struct{}, 1),
	}
	t.resampler = beep.ResampleRatio(4, t.base, endNotifier{t})
	t.ctrl = &beep.Ctrl{Streamer: t.resampler, Paused: true}
	speaker.Play(t.ctrl)
	return t, nil
}

type speakerTrack struct {
	src       beep.StreamSeekCloser
	resampler *beep.Resampler
	ctrl      *beep.Ctrl
	base      float64
	ended     chan struct{}
	closeOnce sync.Once
}

func (t *speakerTrack) Play() {
	speaker.Lock()
	t.ctrl.Paused = false
	speaker.Unlock()
}

func (t *speakerTrack) Pause() {
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
}

func (t *speakerTrack) Rewind() {
	speaker.Lock()
	_ = t.src.Seek(0)
	speaker.Unlock()
}

func (t *speakerTrack) SetRate(rate float64) {
	speaker.Lock()
	t.resampler.SetRatio(t.base * rate)
	speaker.Unlock()
}

func (t *speakerTrack) Ended() <-chan struct{} {
	return t.ended
}

func (t *speakerTrack) Close() error {
	var err error
	t.closeOnce.Do(func() {
		speaker.Lock()
		t.ctrl.Streamer = nil
		speaker.Unlock()
		err = t.src.Close()
		close(t.ended)
	})
	return err
}

// endNotifier pads the end of the track with silence and signals instead of
// finishing, so the speaker keeps the track and it can be replayed.
type endNotifier struct {
	t *speakerTrack
}

func (e endNotifier) Stream(samples [][2]float64) (int, bool) {
	n, _ := e.t.src.Stream(samples)
	if n == len(samples) {
		return n, true
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	// Called under the speaker lock.
	e.t.ctrl.Paused = true
	_ = e.t.src.Seek(0)
	select {
	case e.t.ended <- struct{}{}:
	default:
	}
	return len(samples), true
}

func (e endNotifier) Err() error {
	return e.t.src.Err()
}
