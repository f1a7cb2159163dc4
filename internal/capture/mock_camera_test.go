package capture

import (
	"errors"
	"testing"
)

func TestMockCamera_OpenClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewMockCamera()

	if m.IsOpen() {
		t.Error("new mock camera should not be open")
	}

	if err := m.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !m.IsOpen() {
		t.Error("camera should be open after Open()")
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if m.IsOpen() {
		t.Error("camera should be closed after Close()")
	}
}

func TestMockCamera_ReadFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewMockCamera()

	if _, err := m.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() on closed camera error = %v, want ErrCameraNotOpen", err)
	}

	m.Open()

	frame, err := m.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer frame.Close()

	if frame.Rows() != DefaultHeight || frame.Cols() != DefaultWidth {
		t.Errorf("frame size = %dx%d, want %dx%d", frame.Cols(), frame.Rows(), DefaultWidth, DefaultHeight)
	}
}

func TestMockCamera_ReadError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewMockCamera()
	m.Open()

	wantErr := errors.New("device gone")
	m.SetReadError(wantErr)

	if _, err := m.ReadFrame(); !errors.Is(err, wantErr) {
		t.Errorf("ReadFrame() error = %v, want %v", err, wantErr)
	}
}

func TestMockCamera_ReopenCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewMockCamera()

	if m.Reopens() != 0 {
		t.Errorf("Reopens() = %d, want 0", m.Reopens())
	}

	m.Reopen()
	m.Reopen()

	if m.Reopens() != 2 {
		t.Errorf("Reopens() = %d, want 2", m.Reopens())
	}
	if !m.IsOpen() {
		t.Error("camera should be open after Reopen()")
	}
}
