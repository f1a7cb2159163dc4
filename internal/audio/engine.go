package audio

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/paolosand/ascii-drone/internal/music"
)

// State is the engine lifecycle state.
type State int

const (
	// StateUninitialized is the state before the first Init call.
	StateUninitialized State = iota
	// StateInitializing means an Init attempt is in flight.
	StateInitializing
	// StateReady means the voice graph exists and is playing.
	StateReady
	// StateError means the last Init attempt failed. Not terminal: a later
	// Init starts a fresh attempt.
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// DefaultKey is the drone's key before anything is selected.
const DefaultKey = "C"

// Engine is the audio drone synthesizer behind its lifecycle state machine.
// Parameter setters are safe to call in any state: until the engine is ready,
// including while an initialization attempt is in flight, they update logical
// state only, and the latest stored values are pushed to the synthesis layer
// once initialization finishes (latest wins; intermediate values of the
// continuously-sampled control signal are lost). SetKey always updates the
// logical key, and the audible key catches up when the engine becomes ready.
type Engine struct {
	mu       sync.Mutex
	state    State
	initDone chan struct{}
	initErr  error

	sink     Sink
	streamer *droneStreamer

	currentKey music.Key
	intensity  float64
	width      float64
}

// NewEngine creates an engine in the uninitialized state. A nil sink plays
// through the default speaker.
func NewEngine(sink Sink) *Engine {
	if sink == nil {
		sink = NewSpeakerSink()
	}

	key, _ := music.ParseKey(DefaultKey)

	return &Engine{
		sink:       sink,
		currentKey: key,
		intensity:  0.5,
		width:      0.5,
	}
}

// Init brings up the voice graph and audio output. Concurrent calls while
// an attempt is in flight share that attempt rather than starting a second
// one. On failure the engine moves to StateError and a later Init retries;
// browsers gate audio start behind a user gesture, so the composition root
// is expected to call Init from a user-driven trigger and retry on the
// next one if the platform refuses.
func (e *Engine) Init() error {
	e.mu.Lock()

	switch e.state {
	case StateReady:
		e.mu.Unlock()
		return nil
	case StateInitializing:
		done := e.initDone
		e.mu.Unlock()
		<-done

		e.mu.Lock()
		err := e.initErr
		e.mu.Unlock()
		return err
	}

	e.state = StateInitializing
	e.initDone = make(chan struct{})
	done := e.initDone

	// Voices are created once and reused across retries, so a failed sink
	// start never duplicates the graph.
	if e.streamer == nil {
		e.streamer = newDroneStreamer(e.intensity, e.width)
	}
	streamer := e.streamer
	key := e.currentKey
	e.mu.Unlock()

	streamer.setKey(key)
	err := e.sink.Start(SampleRate, streamer)

	e.mu.Lock()
	if err != nil {
		e.state = StateError
		e.initErr = fmt.Errorf("audio bring-up: %w", err)
	} else {
		e.state = StateReady
		e.initErr = nil

		// Replay the values current now, not the ones snapshotted before the
		// sink started: setters arriving while the attempt was in flight only
		// updated logical state.
		if e.currentKey != key {
			streamer.setKey(e.currentKey)
		}
		streamer.setIntensity(e.intensity)
		streamer.setWidth(e.width)
	}
	result := e.initErr
	close(done)
	e.mu.Unlock()

	return result
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetIntensity sets the bank crossfade / filter / chorus-depth control in
// [0,1]. NaN and infinite inputs are dropped, keeping the last valid value:
// the input comes from noisy sensor math and must never interrupt playback.
func (e *Engine) SetIntensity(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	v = clamp01(v)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.intensity = v
	if e.state == StateReady {
		e.streamer.setIntensity(v)
	}
}

// SetWidth sets the detune / chorus-rate / drift / stereo-width control in
// [0,1], with the same invalid-input policy as SetIntensity.
func (e *Engine) SetWidth(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	v = clamp01(v)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.width = v
	if e.state == StateReady {
		e.streamer.setWidth(v)
	}
}

// SetKey changes the drone's key. Unknown key names are rejected with an
// error and leave the engine unchanged. Before initialization only the
// logical state updates; once ready, every voice in both banks glides
// independently to its new chord tone.
func (e *Engine) SetKey(name string) error {
	key, err := music.ParseKey(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentKey = key
	if e.state == StateReady {
		e.streamer.setKey(key)
	} else {
		log.Printf("audio: key %s stored, engine %s", name, e.state)
	}

	return nil
}

// CurrentKey returns the logical key, which may be ahead of the audible
// key while a glide is in progress or before initialization.
func (e *Engine) CurrentKey() music.Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentKey
}

// Intensity returns the last valid intensity value.
func (e *Engine) Intensity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.intensity
}

// Width returns the last valid width value.
func (e *Engine) Width() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width
}

// VoiceCount returns the number of voices in the graph, zero before the
// first initialization attempt.
func (e *Engine) VoiceCount() int {
	e.mu.Lock()
	streamer := e.streamer
	e.mu.Unlock()

	if streamer == nil {
		return 0
	}
	return streamer.voiceCount()
}

// Close stops playback and returns the engine to the uninitialized state, so
// a later Init restarts output with the existing voice graph.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return nil
	}
	e.state = StateUninitialized
	e.mu.Unlock()

	return e.sink.Close()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
