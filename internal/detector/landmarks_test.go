package detector

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{
			name: "same point",
			a:    Point{X: 0.5, Y: 0.5},
			b:    Point{X: 0.5, Y: 0.5},
			want: 0,
		},
		{
			name: "unit apart horizontally",
			a:    Point{X: 0, Y: 0},
			b:    Point{X: 1, Y: 0},
			want: 1,
		},
		{
			name: "3-4-5 triangle",
			a:    Point{X: 0, Y: 0},
			b:    Point{X: 0.3, Y: 0.4},
			want: 0.5,
		},
		{
			name: "depth is ignored",
			a:    Point{X: 0, Y: 0, Z: 0},
			b:    Point{X: 0.3, Y: 0.4, Z: 9},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMidpoint(t *testing.T) {
	a := Point{X: 0.2, Y: 0.4}
	b := Point{X: 0.6, Y: 0.8}

	got := Midpoint(a, b)
	if got.X != 0.4 || got.Y != 0.6 {
		t.Errorf("Midpoint() = (%f, %f), want (0.4, 0.6)", got.X, got.Y)
	}
}

func TestPresetLandmarks(t *testing.T) {
	presets := map[string]HandLandmarks{
		"fist":      FistLandmarks(),
		"pinch":     PinchLandmarks(),
		"open palm": OpenPalmLandmarks(),
	}

	for name, h := range presets {
		t.Run(name, func(t *testing.T) {
			if h.Handedness != "Right" {
				t.Errorf("Handedness = %q, want Right", h.Handedness)
			}
			if h.Score <= 0 || h.Score > 1 {
				t.Errorf("Score = %f, want in (0,1]", h.Score)
			}

			// Every landmark should be inside the normalized frame.
			for i, p := range h.Points {
				if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
					t.Errorf("point %d = (%f, %f), outside [0,1]", i, p.X, p.Y)
				}
			}
		})
	}
}
