// Package gesture turns raw hand landmarks into debounced application
// events. The vocabulary is fixed: a closed fist tracked for rotation and a
// thumb-index pinch tracked for radial menu selection.
package gesture

import (
	"math"

	"github.com/paolosand/ascii-drone/internal/detector"
)

// Classifier thresholds, tuned against the installation camera setup.
const (
	// PinchThreshold is the maximum normalized thumb-tip/index-tip distance
	// for a pinch.
	PinchThreshold = 0.05

	// fistMinCurled is how many of the five fingertips must sit below their
	// reference knuckle for a fist.
	fistMinCurled = 4
)

// fingertips and their reference joints, index-aligned. The thumb is
// compared against its MCP; the other fingers against their MCPs.
var (
	fingertips = [5]int{detector.ThumbTip, detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	fingerRefs = [5]int{detector.ThumbMCP, detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP}
)

// RotationAngle returns the rotation of the hand in degrees, derived from
// the wrist-to-middle-fingertip vector. A hand pointing straight up yields 0;
// positive values are clockwise in image space. The result is clamped to
// [-90, 90] so a fist twisting past vertical cannot jump into ranges the
// modulation mapping has no use for.
func RotationAngle(hand *detector.HandLandmarks) float64 {
	wrist := hand.Points[detector.Wrist]
	tip := hand.Points[detector.MiddleTip]

	dx := tip.X - wrist.X
	dy := tip.Y - wrist.Y

	angle := math.Atan2(dy, dx)*180/math.Pi + 90

	// Normalize to (-180, 180]
	if angle > 180 {
		angle -= 360
	} else if angle <= -180 {
		angle += 360
	}

	if angle > 90 {
		return 90
	}
	if angle < -90 {
		return -90
	}
	return angle
}

// IsFist reports whether the hand is a closed fist: at least four of the
// five fingertips sit below their reference knuckle in image coordinates.
// The comparison uses y only, so it assumes a roughly upright hand; a
// sideways or inverted hand is a known limitation of this heuristic.
func IsFist(hand *detector.HandLandmarks) bool {
	curled := 0
	for i := range fingertips {
		if hand.Points[fingertips[i]].Y > hand.Points[fingerRefs[i]].Y {
			curled++
		}
	}
	return curled >= fistMinCurled
}

// IsPinch reports whether the thumb tip and index tip are close enough to
// count as a pinch. A closed fist incidentally brings thumb and index
// together, so a fist is never a pinch.
func IsPinch(hand *detector.HandLandmarks) bool {
	if IsFist(hand) {
		return false
	}
	d := detector.Distance(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	return d < PinchThreshold
}

// PinchPosition returns the midpoint of the thumb tip and index tip in
// normalized image coordinates.
func PinchPosition(hand *detector.HandLandmarks) detector.Point {
	return detector.Midpoint(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
}
