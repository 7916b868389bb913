package audio

// Player turns an encoded WAV into a playable Track.
type Player interface {
	Load(wav []byte) (Track, error)
}

// Track is one loaded audio resource. Tracks start paused.
type Track interface {
	Play()
	Pause()
	// Rewind seeks back to the start without changing play/pause.
	Rewind()
	SetRate(rate float64)
	// Ended receives once each time playback reaches the end. It is
	// closed when the track is closed.
	Ended() <-chan struct{}
	Close() error
}
