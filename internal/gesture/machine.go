package gesture

import (
	"math"
	"strings"
	"time"

	"github.com/paolosand/ascii-drone/internal/detector"
)

// Debouncing and liveness constants.
const (
	// HoldDuration is how long a raw gesture must persist uninterrupted
	// before it takes effect.
	HoldDuration = 450 * time.Millisecond

	// MaxNoDetectionFrames is the number of consecutive empty frames after
	// which the machine asks for a detector restart.
	MaxNoDetectionFrames = 300
)

// Pinch is the debounced pinch portion of an Event. Position is non-nil
// exactly when Active is true.
type Pinch struct {
	Active   bool            `json:"active"`
	Position *detector.Point `json:"position,omitempty"`
	Hand     string          `json:"hand,omitempty"` // "left" or "right"
}

// Event is the per-frame output of the state machine. The rotation fields
// are held values: they only move while the corresponding fist slot is
// active and no pinch is confirmed, and otherwise retain their last
// published value.
type Event struct {
	LeftRotation  float64 `json:"leftRotation"`
	RightRotation float64 `json:"rightRotation"`
	Pinch         Pinch   `json:"pinch"`
}

// slotState is the debouncer state for one gesture slot.
type slotState int

const (
	slotIdle slotState = iota
	slotHolding
	slotActive
)

// holdSlot debounces one gesture. The raw condition must persist for the
// hold duration before the slot turns active; the instant the condition is
// false for a frame the slot drops back to idle and a re-appearance waits
// the full duration again.
type holdSlot struct {
	state     slotState
	holdStart time.Time
}

// update advances the slot for one frame and reports whether it is active.
func (s *holdSlot) update(present bool, now time.Time) bool {
	if !present {
		s.state = slotIdle
		return false
	}

	switch s.state {
	case slotIdle:
		s.state = slotHolding
		s.holdStart = now
	case slotHolding:
		if now.Sub(s.holdStart) >= HoldDuration {
			s.state = slotActive
		}
	}

	return s.state == slotActive
}

// Machine consumes per-frame classifier outputs for up to two hands and
// emits one debounced Event per frame. It owns all hold-timer state and the
// last-published rotation values; callers only ever see read-only Events.
type Machine struct {
	leftFist  holdSlot
	rightFist holdSlot
	pinch     holdSlot

	lastLeftRotation  float64
	lastRightRotation float64

	noDetectionFrames int

	onEvent   func(Event)
	onRestart func()

	now func() time.Time
}

// NewMachine creates a gesture state machine with all slots idle and both
// rotations at zero.
func NewMachine() *Machine {
	return &Machine{
		now: time.Now,
	}
}

// OnEvent registers the single consumer for per-frame events. The callback
// runs synchronously on the pipeline goroutine.
func (m *Machine) OnEvent(fn func(Event)) {
	m.onEvent = fn
}

// OnRestartNeeded registers a callback fired when no hands have been seen
// for MaxNoDetectionFrames consecutive frames. The callback is expected to
// restart the detector; the counter restarts from zero afterwards so the
// restart retries indefinitely.
func (m *Machine) OnRestartNeeded(fn func()) {
	m.onRestart = fn
}

// ProcessFrame advances the machine by one camera frame and returns the
// resulting event. The registered event callback, if any, is invoked with
// the same event before ProcessFrame returns.
func (m *Machine) ProcessFrame(hands []detector.HandLandmarks) Event {
	now := m.now()

	if len(hands) == 0 {
		m.noDetectionFrames++
		if m.noDetectionFrames >= MaxNoDetectionFrames {
			if m.onRestart != nil {
				m.onRestart()
			}
			m.noDetectionFrames = 0
		}
	} else {
		m.noDetectionFrames = 0
	}

	// Step 1: pick the frame's pinch candidate. When both hands pinch the
	// hand with the higher handedness score wins; an exact tie goes to the
	// left hand so the outcome never depends on detector iteration order.
	var pinchHand *detector.HandLandmarks
	for i := range hands {
		h := &hands[i]
		if !IsPinch(h) {
			continue
		}
		if pinchHand == nil {
			pinchHand = h
			continue
		}
		if h.Score > pinchHand.Score {
			pinchHand = h
		} else if h.Score == pinchHand.Score && h.Handedness == "Left" {
			pinchHand = h
		}
	}

	// Step 2: debounce the pinch. The pinch fields stay inactive until the
	// slot confirms, suppressing accidental activation on momentary touches.
	pinchActive := m.pinch.update(pinchHand != nil, now)

	// Step 3: feed each fist into its per-handedness debouncer. A pinching
	// hand never counts as a fist, and slots not fed this frame reset.
	var leftHand, rightHand *detector.HandLandmarks
	for i := range hands {
		h := &hands[i]
		if h == pinchHand || !IsFist(h) {
			continue
		}
		switch h.Handedness {
		case "Left":
			leftHand = h
		case "Right":
			rightHand = h
		}
	}

	leftActive := m.leftFist.update(leftHand != nil, now)
	rightActive := m.rightFist.update(rightHand != nil, now)

	// Step 4: publish rotations. A confirmed pinch suspends rotation
	// tracking entirely, and NaN angles fall back to the last good value.
	if !pinchActive {
		if leftActive {
			if angle := RotationAngle(leftHand); !math.IsNaN(angle) {
				m.lastLeftRotation = angle
			}
		}
		if rightActive {
			if angle := RotationAngle(rightHand); !math.IsNaN(angle) {
				m.lastRightRotation = angle
			}
		}
	}

	event := Event{
		LeftRotation:  m.lastLeftRotation,
		RightRotation: m.lastRightRotation,
	}

	if pinchActive && pinchHand != nil {
		pos := PinchPosition(pinchHand)
		event.Pinch = Pinch{
			Active:   true,
			Position: &pos,
			Hand:     strings.ToLower(pinchHand.Handedness),
		}
	}

	if m.onEvent != nil {
		m.onEvent(event)
	}

	return event
}
