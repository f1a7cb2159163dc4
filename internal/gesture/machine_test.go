package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/paolosand/ascii-drone/internal/detector"
)

// fakeClock drives a Machine with controlled timestamps.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestMachine(clock *fakeClock) *Machine {
	m := NewMachine()
	m.now = clock.now
	return m
}

func rightFist(degrees float64) detector.HandLandmarks {
	return detector.TiltedFistLandmarks(degrees)
}

func leftFist(degrees float64) detector.HandLandmarks {
	hand := detector.TiltedFistLandmarks(degrees)
	hand.Handedness = "Left"
	return hand
}

func TestMachine_HoldToActivateLatency(t *testing.T) {
	clock := newFakeClock()
	m := newTestMachine(clock)

	// A continuously held fist must not affect published rotation until the
	// hold duration has elapsed.
	hands := []detector.HandLandmarks{rightFist(30)}

	event := m.ProcessFrame(hands)
	for _, elapsed := range []time.Duration{100, 300, 449} {
		clock.t = newFakeClock().t.Add(elapsed * time.Millisecond)
		event = m.ProcessFrame(hands)
		if event.RightRotation != 0 {
			t.Fatalf("at %v: rotation = %f, want 0 (hold not elapsed)", elapsed*time.Millisecond, event.RightRotation)
		}
	}

	clock.t = newFakeClock().t.Add(451 * time.Millisecond)
	event = m.ProcessFrame(hands)
	if math.Abs(event.RightRotation-30) > 0.001 {
		t.Errorf("at 451ms: rotation = %f, want 30", event.RightRotation)
	}
}

func TestMachine_InstantCancel(t *testing.T) {
	clock := newFakeClock()
	m := newTestMachine(clock)

	hands := []detector.HandLandmarks{rightFist(45)}

	// Hold for 400ms, then drop out for one frame.
	m.ProcessFrame(hands)
	clock.advance(400 * time.Millisecond)
	m.ProcessFrame(hands)

	clock.advance(33 * time.Millisecond)
	m.ProcessFrame(nil)

	// Re-appear: the full hold duration must elapse again.
	clock.advance(33 * time.Millisecond)
	m.ProcessFrame(hands)
	restart := clock.t

	clock.t = restart.Add(449 * time.Millisecond)
	event := m.ProcessFrame(hands)
	if event.RightRotation != 0 {
		t.Fatalf("449ms after re-appearance: rotation = %f, want 0", event.RightRotation)
	}

	clock.t = restart.Add(451 * time.Millisecond)
	event = m.ProcessFrame(hands)
	if math.Abs(event.RightRotation-45) > 0.001 {
		t.Errorf("451ms after re-appearance: rotation = %f, want 45", event.RightRotation)
	}
}

func TestMachine_RotationSticky(t *testing.T) {
	clock := newFakeClock()
	m := newTestMachine(clock)

	hands := []detector.HandLandmarks{rightFist(30)}
	m.ProcessFrame(hands)
	clock.advance(500 * time.Millisecond)
	m.ProcessFrame(hands)

	// Fist goes away; the published value must hold.
	clock.advance(33 * time.Millisecond)
	event := m.ProcessFrame(nil)
	if math.Abs(event.RightRotation-30) > 0.001 {
		t.Errorf("rotation after fist release = %f, want held 30", event.RightRotation)
	}
}

func TestMachine_PinchDebounce(t *testing.T) {
	clock := newFakeClock()
	m := newTestMachine(clock)

	hands := []detector.HandLandmarks{detector.PinchLandmarks()}

	event := m.ProcessFrame(hands)
	if event.Pinch.Active || event.Pinch.Position != nil {
		t.Fatal("pinch active before hold elapsed")
	}

	clock.advance(449 * time.Millisecond)
	event = m.ProcessFrame(hands)
	if event.Pinch.Active {
		t.Fatal("pinch active at 449ms")
	}

	clock.advance(2 * time.Millisecond)
	event = m.ProcessFrame(hands)
	if !event.Pinch.Active {
		t.Fatal("pinch not active at 451ms")
	}
	if event.Pinch.Position == nil {
		t.Fatal("active pinch has nil position")
	}
	if event.Pinch.Hand != "right" {
		t.Errorf("pinch hand = %q, want %q", event.Pinch.Hand, "right")
	}

	// Release: fields must clear immediately.
	clock.advance(33 * time.Millisecond)
	event = m.ProcessFrame(nil)
	if event.Pinch.Active || event.Pinch.Position != nil || event.Pinch.Hand != "" {
		t.Errorf("pinch fields not cleared on release: %+v", event.Pinch)
	}
}

func TestMachine_PinchSuspendsRotation(t *testing.T) {
	clock := newFakeClock()
	m := newTestMachine(clock)

	// Confirm a left fist at 30 degrees.
	fist := leftFist(30)
	m.ProcessFrame([]detector.HandLandmarks{fist})
	clock.advance(500 * time.Millisecond)
	m.ProcessFrame([]detector.HandLandmarks{fist})

	// Add a pinching right hand and confirm it.
	pinch := detector.PinchLandmarks()
	both := []detector.HandLandmarks{fist, pinch}
	m.ProcessFrame(both)
	clock.advance(500 * time.Millisecond)
	event := m.ProcessFrame(both)
	if !event.Pinch.Active {
		t.Fatal("pinch not confirmed")
	}

	// The fist moves to 80 while the pinch is confirmed, but a confirmed
	// pinch suspends rotation tracking.
	clock.advance(33 * time.Millisecond)
	event = m.ProcessFrame([]detector.HandLandmarks{leftFist(80), pinch})
	if math.Abs(event.LeftRotation-30) > 0.001 {
		t.Errorf("rotation moved to %f during active pinch, want held at 30", event.LeftRotation)
	}
}

func TestMachine_TwoHandPinchTieBreak(t *testing.T) {
	clock := newFakeClock()
	m := newTestMachine(clock)

	left := detector.PinchLandmarks()
	left.Handedness = "Left"
	left.Score = 0.95
	right := detector.PinchLandmarks()
	right.Score = 0.80

	hands := []detector.HandLandmarks{right, left}
	m.ProcessFrame(hands)
	clock.advance(500 * time.Millisecond)
	event := m.ProcessFrame(hands)

	if !event.Pinch.Active {
		t.Fatal("pinch not confirmed")
	}
	if event.Pinch.Hand != "left" {
		t.Errorf("pinch hand = %q, want %q (higher score wins)", event.Pinch.Hand, "left")
	}

	// Exact score tie: left wins regardless of detector ordering.
	right.Score = 0.95
	for _, hands := range [][]detector.HandLandmarks{{right, left}, {left, right}} {
		event = m.ProcessFrame(hands)
		if event.Pinch.Hand != "left" {
			t.Errorf("tied scores: pinch hand = %q, want %q", event.Pinch.Hand, "left")
		}
	}
}

func TestMachine_RestartAfterStarvation(t *testing.T) {
	clock := newFakeClock()
	m := newTestMachine(clock)

	restarts := 0
	m.OnRestartNeeded(func() { restarts++ })

	for i := 0; i < MaxNoDetectionFrames-1; i++ {
		m.ProcessFrame(nil)
	}
	if restarts != 0 {
		t.Fatalf("restart fired after %d frames", MaxNoDetectionFrames-1)
	}

	m.ProcessFrame(nil)
	if restarts != 1 {
		t.Fatalf("restarts = %d after %d empty frames, want 1", restarts, MaxNoDetectionFrames)
	}

	// A detection resets the counter; the next starvation run needs the full
	// count again.
	m.ProcessFrame([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
	for i := 0; i < MaxNoDetectionFrames-1; i++ {
		m.ProcessFrame(nil)
	}
	if restarts != 1 {
		t.Errorf("restarts = %d, want 1 (counter should reset on detection)", restarts)
	}
}

func TestMachine_EventCallback(t *testing.T) {
	clock := newFakeClock()
	m := newTestMachine(clock)

	var received []Event
	m.OnEvent(func(e Event) { received = append(received, e) })

	m.ProcessFrame(nil)
	m.ProcessFrame([]detector.HandLandmarks{rightFist(0)})

	if len(received) != 2 {
		t.Errorf("callback invoked %d times, want 2", len(received))
	}
}
