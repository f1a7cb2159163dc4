package music

import (
	"math"
	"sync"
	"time"
)

// Animation tuning.
const (
	// FadeDuration is the opacity ramp time for show/hide.
	FadeDuration = 200 * time.Millisecond

	// RotateDuration is how long the rotate-to-top animation takes to cover
	// a half turn; shorter arcs finish proportionally faster.
	RotateDuration = 400 * time.Millisecond
)

// Position is a point in normalized screen coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is a read-only snapshot of the menu for renderers.
type State struct {
	Visible    bool      `json:"visible"`
	Opacity    float64   `json:"opacity"`
	Rotation   float64   `json:"rotation"`
	CurrentKey string    `json:"currentKey"`
	HoveredKey string    `json:"hoveredKey,omitempty"`
	PinchPos   *Position `json:"pinchPos,omitempty"`
}

// Menu owns the radial menu's animation state: fade in/out, the
// rotate-to-top offset, the hovered key, and at most one pending deferred
// hide. It holds no gesture logic; the app pipeline drives it from gesture
// events and commits key changes on pinch release.
type Menu struct {
	mu sync.Mutex

	visible    bool
	opacity    float64
	rotation   float64
	rotTarget  float64
	currentKey string
	hoveredKey string
	pinchPos   *Position

	hideTimer *time.Timer
}

// NewMenu creates a hidden menu with the given current key rotated to the
// top position.
func NewMenu(currentKey string) *Menu {
	m := &Menu{currentKey: currentKey}
	if idx := KeyIndex(currentKey); idx >= 0 {
		m.rotation = -float64(idx) * segmentAngle
		m.rotTarget = m.rotation
	}
	return m
}

// Show makes the menu fade in and cancels any pending deferred hide.
func (m *Menu) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelHideLocked()
	m.visible = true
}

// Hide makes the menu fade out immediately and clears transient selection
// state.
func (m *Menu) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelHideLocked()
	m.hideLocked()
}

// HideWithDelay schedules a hide after the given delay. Only one hide may be
// pending at a time: rescheduling or a Show cancels the previous one.
func (m *Menu) HideWithDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelHideLocked()
	m.hideTimer = time.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.hideTimer = nil
		m.hideLocked()
	})
}

func (m *Menu) hideLocked() {
	m.visible = false
	m.hoveredKey = ""
	m.pinchPos = nil
}

func (m *Menu) cancelHideLocked() {
	if m.hideTimer != nil {
		m.hideTimer.Stop()
		m.hideTimer = nil
	}
}

// Visible reports whether the menu is shown (fade target, not current
// opacity).
func (m *Menu) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// SetPinchPosition updates the pinch cursor shown over the wheel. Pass nil
// when the pinch is released.
func (m *Menu) SetPinchPosition(pos *Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinchPos = pos
}

// SetHoveredKey updates the highlighted key. Pass "" for no highlight.
func (m *Menu) SetHoveredKey(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hoveredKey = name
}

// HoveredKey returns the currently highlighted key, or "".
func (m *Menu) HoveredKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hoveredKey
}

// SetCurrentKey records the confirmed key and starts the rotate-to-top
// animation for its segment. Unknown names are ignored.
func (m *Menu) SetCurrentKey(name string) {
	idx := KeyIndex(name)
	if idx < 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentKey = name
	m.rotTarget = -float64(idx) * segmentAngle
}

// CurrentKey returns the confirmed key name.
func (m *Menu) CurrentKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentKey
}

// KeyAtPosition resolves a position against the wheel at its current
// animated rotation. Returns "" in the dead zone or outside the wheel.
func (m *Menu) KeyAtPosition(pos Position) string {
	m.mu.Lock()
	rotation := m.rotation
	m.mu.Unlock()
	return KeyAt(pos.X, pos.Y, rotation)
}

// Step advances the fade and rotation animations by dt.
func (m *Menu) Step(dt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Opacity ramp toward the visibility target.
	delta := float64(dt) / float64(FadeDuration)
	if m.visible {
		m.opacity = math.Min(1, m.opacity+delta)
	} else {
		m.opacity = math.Max(0, m.opacity-delta)
	}

	// Rotation eases toward the target along the shortest arc.
	diff := math.Mod(m.rotTarget-m.rotation, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	} else if diff < -math.Pi {
		diff += 2 * math.Pi
	}

	maxStep := math.Pi * float64(dt) / float64(RotateDuration)
	if math.Abs(diff) <= maxStep {
		m.rotation = m.rotTarget
	} else if diff > 0 {
		m.rotation += maxStep
	} else {
		m.rotation -= maxStep
	}
}

// Snapshot returns the menu state for renderers.
func (m *Menu) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return State{
		Visible:    m.visible,
		Opacity:    m.opacity,
		Rotation:   m.rotation,
		CurrentKey: m.currentKey,
		HoveredKey: m.hoveredKey,
		PinchPos:   m.pinchPos,
	}
}
