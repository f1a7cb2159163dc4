package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera is a test implementation of the Camera interface. It hands out
// copies of a configurable frame so pipeline tests can run without a
// device.
type MockCamera struct {
	mu      sync.Mutex
	open    bool
	fps     int
	frame   gocv.Mat
	reopens int
	readErr error
}

// NewMockCamera creates a closed mock camera serving mid-gray frames.
func NewMockCamera() *MockCamera {
	return &MockCamera{
		fps:   DefaultFPS,
		frame: gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3),
	}
}

// SetFrame replaces the frame served by ReadFrame.
func (m *MockCamera) SetFrame(frame gocv.Mat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame.Close()
	m.frame = frame
}

// SetReadError makes ReadFrame fail with the given error.
func (m *MockCamera) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Reopens reports how many times Reopen was called.
func (m *MockCamera) Reopens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reopens
}

// Open marks the camera open.
func (m *MockCamera) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	return nil
}

// Close marks the camera closed.
func (m *MockCamera) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

// Reopen counts the restart and stays open.
func (m *MockCamera) Reopen() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reopens++
	m.open = true
	return nil
}

// ReadFrame returns a copy of the configured frame.
func (m *MockCamera) ReadFrame() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return nil, ErrCameraNotOpen
	}
	if m.readErr != nil {
		return nil, m.readErr
	}

	frame := m.frame.Clone()
	return &frame, nil
}

// SetFPS records the requested frame rate.
func (m *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fps = fps
}

// FPS returns the recorded frame rate.
func (m *MockCamera) FPS() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}

// IsOpen reports whether Open has been called without a matching Close.
func (m *MockCamera) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}
