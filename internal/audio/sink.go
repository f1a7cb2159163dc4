package audio

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Sink is the audio output the engine renders into. It exists so tests can
// bring the engine up without a real audio device, and so platform bring-up
// failure (the speaker refusing to start) surfaces as an ordinary error
// from Start.
type Sink interface {
	// Start initializes the output at the given sample rate and begins
	// pulling samples from the streamer.
	Start(sampleRate int, s beep.Streamer) error

	// Close stops playback and releases the device.
	Close() error
}

// SpeakerSink plays through the default output device via the beep speaker.
type SpeakerSink struct{}

// NewSpeakerSink creates a speaker-backed sink.
func NewSpeakerSink() *SpeakerSink {
	return &SpeakerSink{}
}

// Start initializes the speaker with a 50 ms buffer and starts playback.
func (s *SpeakerSink) Start(sampleRate int, st beep.Streamer) error {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(st)
	return nil
}

// Close shuts the speaker down.
func (s *SpeakerSink) Close() error {
	speaker.Close()
	return nil
}
