package music

import "math"

// Radial menu geometry in normalized screen coordinates. The wheel is
// centered in the frame; the three radii split it into a dead zone, a minor
// ring, and a major ring.
const (
	// MenuCenterX and MenuCenterY are the wheel center.
	MenuCenterX = 0.5
	MenuCenterY = 0.5

	// DeadZoneRadius is the inner "no change" zone. Releasing a pinch here
	// cancels without committing a key.
	DeadZoneRadius = 0.10

	// MinorRingRadius is the outer edge of the minor-key ring.
	MinorRingRadius = 0.28

	// MajorRingRadius is the outer edge of the major-key ring. Beyond it the
	// position is outside the wheel.
	MajorRingRadius = 0.45
)

// segmentAngle is the angular width of one of the 12 clock positions.
const segmentAngle = 2 * math.Pi / 12

// KeyAt resolves a pinch position against the wheel, compensating for the
// menu's current visual rotation so the returned key is independent of the
// rotate-to-top animation. Returns "" when the position is in the dead zone
// or outside the wheel.
//
// The angle convention is atan2(dx, -dy): zero straight up, increasing
// clockwise, matching the rendered layout where segment 0 sits at the top.
func KeyAt(x, y, rotation float64) string {
	dx := x - MenuCenterX
	dy := y - MenuCenterY

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < DeadZoneRadius || dist > MajorRingRadius {
		return ""
	}

	angle := math.Atan2(dx, -dy)
	angle -= rotation
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}

	segment := int(angle / segmentAngle)
	if segment > 11 {
		segment = 11 // guard against angle == 2π from float rounding
	}

	if dist < MinorRingRadius {
		return MinorKeys[segment]
	}
	return MajorKeys[segment]
}
