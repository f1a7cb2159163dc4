package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FistLandmarks returns a preset HandLandmarks representing an upright closed
// fist. All five fingertips sit below their reference knuckles in image
// coordinates and the wrist-to-middle-tip vector points straight up, so the
// classified rotation is 0 degrees.
func FistLandmarks() HandLandmarks {
	return TiltedFistLandmarks(0)
}

// TiltedFistLandmarks returns a closed fist whose wrist-to-middle-tip vector
// is tilted by the given angle in degrees (positive = clockwise in image
// space). Thumb, index, ring and pinky stay curled regardless of the tilt,
// so the pose classifies as a fist across the whole ±90 degree envelope.
func TiltedFistLandmarks(degrees float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	wrist := Point{X: 0.5, Y: 0.8}
	landmarks.Points[Wrist] = wrist

	// Middle finger column along the tilt direction. The tip sits closer to
	// the wrist than the MCP, matching a curled finger.
	rad := degrees * math.Pi / 180
	dirX := math.Sin(rad)
	dirY := -math.Cos(rad)
	landmarks.Points[MiddleMCP] = Point{X: wrist.X + 0.20*dirX, Y: wrist.Y + 0.20*dirY}
	landmarks.Points[MiddlePIP] = Point{X: wrist.X + 0.17*dirX, Y: wrist.Y + 0.17*dirY}
	landmarks.Points[MiddleDIP] = Point{X: wrist.X + 0.14*dirX, Y: wrist.Y + 0.14*dirY}
	landmarks.Points[MiddleTip] = Point{X: wrist.X + 0.12*dirX, Y: wrist.Y + 0.12*dirY}

	// Thumb curled across the palm.
	landmarks.Points[ThumbCMC] = Point{X: 0.56, Y: 0.76}
	landmarks.Points[ThumbMCP] = Point{X: 0.57, Y: 0.68}
	landmarks.Points[ThumbIP] = Point{X: 0.55, Y: 0.70}
	landmarks.Points[ThumbTip] = Point{X: 0.54, Y: 0.72}

	// Index curled.
	landmarks.Points[IndexMCP] = Point{X: 0.55, Y: 0.62}
	landmarks.Points[IndexPIP] = Point{X: 0.55, Y: 0.58}
	landmarks.Points[IndexDIP] = Point{X: 0.53, Y: 0.64}
	landmarks.Points[IndexTip] = Point{X: 0.52, Y: 0.70}

	// Ring curled.
	landmarks.Points[RingMCP] = Point{X: 0.45, Y: 0.62}
	landmarks.Points[RingPIP] = Point{X: 0.45, Y: 0.58}
	landmarks.Points[RingDIP] = Point{X: 0.46, Y: 0.64}
	landmarks.Points[RingTip] = Point{X: 0.46, Y: 0.70}

	// Pinky curled.
	landmarks.Points[PinkyMCP] = Point{X: 0.41, Y: 0.66}
	landmarks.Points[PinkyPIP] = Point{X: 0.41, Y: 0.62}
	landmarks.Points[PinkyDIP] = Point{X: 0.42, Y: 0.68}
	landmarks.Points[PinkyTip] = Point{X: 0.42, Y: 0.72}

	return landmarks
}

// PinchLandmarks returns a preset HandLandmarks representing a thumb-index
// pinch with the remaining fingers extended, centered near the middle of the
// frame. The thumb-tip/index-tip midpoint is approximately (0.53, 0.54).
func PinchLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point{X: 0.5, Y: 0.85}

	// Thumb reaching up to meet the index tip.
	landmarks.Points[ThumbCMC] = Point{X: 0.56, Y: 0.78}
	landmarks.Points[ThumbMCP] = Point{X: 0.58, Y: 0.70}
	landmarks.Points[ThumbIP] = Point{X: 0.55, Y: 0.62}
	landmarks.Points[ThumbTip] = Point{X: 0.52, Y: 0.55}

	// Index bent down to meet the thumb.
	landmarks.Points[IndexMCP] = Point{X: 0.54, Y: 0.65}
	landmarks.Points[IndexPIP] = Point{X: 0.55, Y: 0.57}
	landmarks.Points[IndexDIP] = Point{X: 0.54, Y: 0.54}
	landmarks.Points[IndexTip] = Point{X: 0.54, Y: 0.53}

	// Middle, ring and pinky extended upward.
	landmarks.Points[MiddleMCP] = Point{X: 0.50, Y: 0.64}
	landmarks.Points[MiddlePIP] = Point{X: 0.50, Y: 0.52}
	landmarks.Points[MiddleDIP] = Point{X: 0.49, Y: 0.45}
	landmarks.Points[MiddleTip] = Point{X: 0.49, Y: 0.40}

	landmarks.Points[RingMCP] = Point{X: 0.46, Y: 0.66}
	landmarks.Points[RingPIP] = Point{X: 0.45, Y: 0.55}
	landmarks.Points[RingDIP] = Point{X: 0.45, Y: 0.49}
	landmarks.Points[RingTip] = Point{X: 0.45, Y: 0.45}

	landmarks.Points[PinkyMCP] = Point{X: 0.42, Y: 0.69}
	landmarks.Points[PinkyPIP] = Point{X: 0.41, Y: 0.61}
	landmarks.Points[PinkyDIP] = Point{X: 0.41, Y: 0.56}
	landmarks.Points[PinkyTip] = Point{X: 0.41, Y: 0.52}

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks with all fingers extended.
// It classifies as neither fist nor pinch.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point{X: 0.5, Y: 0.8}

	landmarks.Points[ThumbCMC] = Point{X: 0.55, Y: 0.75}
	landmarks.Points[ThumbMCP] = Point{X: 0.62, Y: 0.70}
	landmarks.Points[ThumbIP] = Point{X: 0.68, Y: 0.65}
	landmarks.Points[ThumbTip] = Point{X: 0.73, Y: 0.60}

	landmarks.Points[IndexMCP] = Point{X: 0.55, Y: 0.68}
	landmarks.Points[IndexPIP] = Point{X: 0.57, Y: 0.55}
	landmarks.Points[IndexDIP] = Point{X: 0.58, Y: 0.45}
	landmarks.Points[IndexTip] = Point{X: 0.58, Y: 0.35}

	landmarks.Points[MiddleMCP] = Point{X: 0.50, Y: 0.66}
	landmarks.Points[MiddlePIP] = Point{X: 0.50, Y: 0.52}
	landmarks.Points[MiddleDIP] = Point{X: 0.50, Y: 0.40}
	landmarks.Points[MiddleTip] = Point{X: 0.50, Y: 0.28}

	landmarks.Points[RingMCP] = Point{X: 0.45, Y: 0.68}
	landmarks.Points[RingPIP] = Point{X: 0.43, Y: 0.55}
	landmarks.Points[RingDIP] = Point{X: 0.42, Y: 0.45}
	landmarks.Points[RingTip] = Point{X: 0.42, Y: 0.35}

	landmarks.Points[PinkyMCP] = Point{X: 0.40, Y: 0.70}
	landmarks.Points[PinkyPIP] = Point{X: 0.37, Y: 0.60}
	landmarks.Points[PinkyDIP] = Point{X: 0.35, Y: 0.50}
	landmarks.Points[PinkyTip] = Point{X: 0.34, Y: 0.42}

	return landmarks
}
