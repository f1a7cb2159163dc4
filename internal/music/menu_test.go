package music

import (
	"math"
	"testing"
	"time"
)

func TestMenu_ShowHide(t *testing.T) {
	m := NewMenu("C")

	if m.Visible() {
		t.Error("new menu visible")
	}

	m.Show()
	if !m.Visible() {
		t.Error("menu not visible after Show")
	}

	m.SetHoveredKey("Am")
	m.Hide()
	if m.Visible() {
		t.Error("menu visible after Hide")
	}
	if m.HoveredKey() != "" {
		t.Error("hovered key survived Hide")
	}
}

func TestMenu_HideWithDelay(t *testing.T) {
	m := NewMenu("C")
	m.Show()

	m.HideWithDelay(20 * time.Millisecond)
	if !m.Visible() {
		t.Fatal("menu hid before delay elapsed")
	}

	time.Sleep(60 * time.Millisecond)
	if m.Visible() {
		return
	}
	t.Error("menu still visible after delayed hide")
}

func TestMenu_ShowCancelsPendingHide(t *testing.T) {
	m := NewMenu("C")
	m.Show()

	m.HideWithDelay(20 * time.Millisecond)
	m.Show()

	time.Sleep(60 * time.Millisecond)
	if !m.Visible() {
		t.Error("canceled hide still fired")
	}
}

func TestMenu_RescheduleReplacesPendingHide(t *testing.T) {
	m := NewMenu("C")
	m.Show()

	m.HideWithDelay(10 * time.Millisecond)
	m.HideWithDelay(150 * time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	if !m.Visible() {
		t.Error("superseded hide fired early")
	}
}

func TestMenu_SetCurrentKeyRotatesToTop(t *testing.T) {
	m := NewMenu("C")

	m.SetCurrentKey("A") // index 3
	for i := 0; i < 100; i++ {
		m.Step(16 * time.Millisecond)
	}

	want := -3 * segmentAngle
	got := m.Snapshot().Rotation
	if math.Abs(got-want) > 0.001 {
		t.Errorf("rotation after animation = %f, want %f", got, want)
	}

	// With A rotated to the top, a position straight up resolves to A.
	x, y := atWheelAngle(1, (MinorRingRadius+MajorRingRadius)/2)
	if key := m.KeyAtPosition(Position{X: x, Y: y}); key != "A" {
		t.Errorf("key at top after rotation = %q, want A", key)
	}
}

func TestMenu_SetCurrentKeyUnknownIgnored(t *testing.T) {
	m := NewMenu("C")
	m.SetCurrentKey("nope")
	if m.CurrentKey() != "C" {
		t.Errorf("current key = %q, want C", m.CurrentKey())
	}
}

func TestMenu_OpacityRamp(t *testing.T) {
	m := NewMenu("C")
	m.Show()

	for i := 0; i < 30; i++ {
		m.Step(16 * time.Millisecond)
	}
	if op := m.Snapshot().Opacity; op != 1 {
		t.Errorf("opacity after fade in = %f, want 1", op)
	}

	m.Hide()
	for i := 0; i < 30; i++ {
		m.Step(16 * time.Millisecond)
	}
	if op := m.Snapshot().Opacity; op != 0 {
		t.Errorf("opacity after fade out = %f, want 0", op)
	}
}
