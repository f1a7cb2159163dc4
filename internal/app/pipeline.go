package app

import (
	"log"
	"time"

	"github.com/paolosand/ascii-drone/internal/gesture"
	"github.com/paolosand/ascii-drone/internal/music"
	"github.com/paolosand/ascii-drone/internal/store"
)

// runPipeline is the main loop that processes frames from the camera.
// It manages the transitions between idle and active modes based on motion
// detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS=5)
// 2. On motion detected, switch to active mode (ActiveFPS=15)
// 3. Run hand detection and feed the gesture state machine
// 4. The machine's event callback routes rotations into the audio engine
//    and renderer, and pinches into the radial menu
// 5. Convert the frame to an ASCII grid and fan it out
// 6. After 2s no motion, switch back to idle mode
func (a *App) runPipeline(stopCh <-chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// Step 2: Hand detection, active mode only. Empty frames still go
			// through the machine so its starvation counter sees them.
			if activeMode {
				if d := a.Detector(); d != nil {
					hands, err := d.Detect(frame)
					if err != nil {
						log.Printf("Error detecting hands: %v", err)
					} else {
						a.machine.ProcessFrame(hands)
					}
				}
			}

			// Step 3: ASCII conversion. Runs in idle mode too so the
			// installation keeps rendering the room.
			if a.converter != nil {
				grid := a.converter.Convert(frame)
				a.mu.RLock()
				onGrid := a.onGrid
				a.mu.RUnlock()
				if onGrid != nil {
					onGrid(grid)
				}
			}

			frame.Close()

			// Step 4: menu animation advances at the frame cadence.
			if a.menu != nil {
				a.menu.Step(frameInterval)
			}
		}
	}
}

// handleGestureEvent routes one debounced gesture event into the audio
// engine, the radial menu, and the renderer knobs. It runs synchronously on
// the pipeline goroutine, so the pinch-release commit state needs no lock.
func (a *App) handleGestureEvent(ev gesture.Event) {
	// Rotations drive the drone parameters: left fist tilt sets intensity,
	// right fist tilt sets stereo width. The same values feed the renderer
	// so the picture reacts with the sound.
	intensity := rotationToUnit(ev.LeftRotation)
	width := rotationToUnit(ev.RightRotation)

	if a.audio != nil {
		a.audio.SetIntensity(intensity)
		a.audio.SetWidth(width)
	}
	if a.converter != nil {
		a.converter.SetSaturation(intensity)
		a.converter.SetDrift(width)
	}

	if a.menu != nil {
		a.handleMenuPinch(ev.Pinch)
	}

	a.mu.RLock()
	onEvent := a.onEvent
	a.mu.RUnlock()
	if onEvent != nil {
		onEvent(ev)
	}
}

// handleMenuPinch drives the radial menu from the debounced pinch state.
// While the pinch is held the menu shows and tracks the hovered key; the
// selection commits on release, and only when it names a different key than
// the current one.
func (a *App) handleMenuPinch(p gesture.Pinch) {
	if p.Active {
		a.menu.Show()

		pos := music.Position{X: p.Position.X, Y: p.Position.Y}
		a.menu.SetPinchPosition(&pos)

		a.hoveredKey = a.menu.KeyAtPosition(pos)
		a.menu.SetHoveredKey(a.hoveredKey)
		a.pinchWasActive = true
		return
	}

	if !a.pinchWasActive {
		return
	}
	a.pinchWasActive = false

	hovered := a.hoveredKey
	a.hoveredKey = ""
	a.menu.SetPinchPosition(nil)
	a.menu.SetHoveredKey("")

	if hovered != "" && hovered != a.menu.CurrentKey() {
		a.commitKey(hovered)
	}

	a.menu.HideWithDelay(MenuHideDelay)
}

// commitKey applies a confirmed key selection everywhere it matters: the
// audio engine, the menu's rotate-to-top animation, and the store.
func (a *App) commitKey(name string) {
	if a.audio != nil {
		if err := a.audio.SetKey(name); err != nil {
			log.Printf("Rejected key selection %q: %v", name, err)
			return
		}
	}

	a.menu.SetCurrentKey(name)
	log.Printf("Key changed to %s", name)

	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(store.SettingCurrentKey, name); err != nil {
			log.Printf("Failed to persist key: %v", err)
		}

		a.mu.RLock()
		sessionID := a.sessionID
		a.mu.RUnlock()
		if sessionID != "" {
			if err := a.config.Store.Sessions().RecordKeyChange(sessionID, name); err != nil {
				log.Printf("Failed to record key change: %v", err)
			}
		}
	}
}

// rotationToUnit maps a wrist rotation in [-90, 90] degrees onto [0, 1].
func rotationToUnit(angle float64) float64 {
	v := (angle + 90) / 180
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
