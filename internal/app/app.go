// Package app wires the capture, detection, gesture, audio, menu, and
// render components into the installation's frame pipeline.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/paolosand/ascii-drone/internal/audio"
	"github.com/paolosand/ascii-drone/internal/capture"
	"github.com/paolosand/ascii-drone/internal/detector"
	"github.com/paolosand/ascii-drone/internal/gesture"
	"github.com/paolosand/ascii-drone/internal/music"
	"github.com/paolosand/ascii-drone/internal/render"
	"github.com/paolosand/ascii-drone/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is how long without motion before dropping back to idle.
	IdleTimeoutMs = 2000
	// MenuHideDelay is how long the radial menu lingers after a key commit.
	MenuHideDelay = 1200 * time.Millisecond
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Audio        *audio.Engine
	Menu         *music.Menu
	Converter    *render.Converter
}

// App is the composition root's runtime: it owns the camera, the detector,
// the gesture state machine, and the frame pipeline, and routes gesture
// events into the audio engine, the radial menu, and the renderer knobs.
type App struct {
	config  Config
	camera  capture.Camera
	motion  *capture.MotionDetector
	detect  detector.Detector
	machine *gesture.Machine

	audio     *audio.Engine
	menu      *music.Menu
	converter *render.Converter

	// Pinch-release key commit state, touched only on the pipeline
	// goroutine.
	pinchWasActive bool
	hoveredKey     string

	sessionID string

	enabled  bool
	mu       sync.RWMutex
	stopCh   chan struct{}
	onEvent  func(gesture.Event)
	onGrid   func(*render.Grid)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		motion:    capture.NewMotionDetector(motionThreshold),
		machine:   gesture.NewMachine(),
		audio:     config.Audio,
		menu:      config.Menu,
		converter: config.Converter,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detect = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detect = detector.NewMockDetector()
	}

	a.machine.OnEvent(a.handleGestureEvent)
	a.machine.OnRestartNeeded(a.restartDetection)

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detect = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnEvent registers a listener for every gesture event the pipeline emits,
// in addition to the internal audio/menu routing.
func (a *App) OnEvent(fn func(gesture.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = fn
}

// OnGrid registers a listener for every converted ASCII grid.
func (a *App) OnGrid(fn func(*render.Grid)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGrid = fn
}

// RestoreState loads the persisted key and parameter values into the audio
// engine and menu.
func (a *App) RestoreState() {
	if a.config.Store == nil {
		return
	}
	settings := a.config.Store.Settings()

	if key, err := settings.Get(store.SettingCurrentKey); err == nil {
		if err := a.audio.SetKey(key); err != nil {
			log.Printf("Ignoring persisted key %q: %v", key, err)
		} else if a.menu != nil {
			a.menu.SetCurrentKey(key)
		}
	}

	a.audio.SetIntensity(settings.GetFloat(store.SettingIntensity, 0.5))
	a.audio.SetWidth(settings.GetFloat(store.SettingWidth, 0.5))
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	if a.config.Store != nil {
		if sess, err := a.config.Store.Sessions().Start(); err == nil {
			a.sessionID = sess.ID
		} else {
			log.Printf("Failed to start session: %v", err)
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detect != nil {
		if err := a.detect.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	if a.config.Store != nil && a.sessionID != "" {
		if err := a.config.Store.Sessions().End(a.sessionID); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
		a.sessionID = ""
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Machine returns the gesture state machine.
func (a *App) Machine() *gesture.Machine {
	return a.machine
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detect
}

// restartDetection is the starvation recovery path: cycle the camera and
// the detector subprocess. Failures are logged and retried on the next
// starvation trigger, never fatal.
func (a *App) restartDetection() {
	log.Println("No hands detected for too long, restarting detection")

	if err := a.camera.Reopen(); err != nil {
		log.Printf("Camera reopen failed: %v", err)
	}

	if r, ok := a.Detector().(interface{ Restart() error }); ok {
		if err := r.Restart(); err != nil {
			log.Printf("Detector restart failed: %v", err)
		}
	}
}
