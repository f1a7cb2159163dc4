// Package render converts camera frames into the ASCII cell grid consumed
// by the DOM and GPU renderers. The renderers themselves live in the web
// client; this package only produces their shared per-cell contract.
package render

import (
	"image"
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// Charset is the brightness ramp, darkest first. A cell's CharIndex points
// into this string.
const Charset = " .:-=+*#%@"

// Default grid dimensions, sized for a 4:3 camera frame rendered in a
// roughly 2:1 terminal-style cell aspect.
const (
	DefaultCols = 120
	DefaultRows = 45
)

// Cell is one grid cell: a glyph index into Charset, an RGB color, and the
// raw brightness the index was derived from.
type Cell struct {
	CharIndex  uint8   `json:"c"`
	R          uint8   `json:"r"`
	G          uint8   `json:"g"`
	B          uint8   `json:"b"`
	Brightness float64 `json:"v"`
}

// Grid is one converted frame.
type Grid struct {
	Cols  int    `json:"cols"`
	Rows  int    `json:"rows"`
	Cells []Cell `json:"cells"` // row-major, Cols*Rows entries
}

// Converter turns frames into grids. Saturation and drift are the two
// renderer knobs driven by fist rotation: saturation scales the cell colors
// toward or away from gray, drift offsets each row horizontally by a slow
// sine wobble.
type Converter struct {
	mu         sync.Mutex
	cols       int
	rows       int
	saturation float64
	drift      float64
	driftPhase float64
	small      gocv.Mat
}

// NewConverter creates a converter with the given grid size. Non-positive
// dimensions fall back to the defaults.
func NewConverter(cols, rows int) *Converter {
	if cols <= 0 {
		cols = DefaultCols
	}
	if rows <= 0 {
		rows = DefaultRows
	}
	return &Converter{
		cols:       cols,
		rows:       rows,
		saturation: 1,
		small:      gocv.NewMat(),
	}
}

// SetSaturation sets the color saturation knob in [0,1].
func (c *Converter) SetSaturation(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saturation = clamp01(v)
}

// SetDrift sets the row-wobble knob in [0,1].
func (c *Converter) SetDrift(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drift = clamp01(v)
}

// Convert downsamples a BGR frame to the grid size and produces one Cell
// per grid position. The drift phase advances once per converted frame.
func (c *Converter) Convert(frame *gocv.Mat) *Grid {
	c.mu.Lock()
	defer c.mu.Unlock()

	gocv.Resize(*frame, &c.small, image.Pt(c.cols, c.rows), 0, 0, gocv.InterpolationArea)

	c.driftPhase += 0.05
	if c.driftPhase > 2*math.Pi {
		c.driftPhase -= 2 * math.Pi
	}

	grid := &Grid{
		Cols:  c.cols,
		Rows:  c.rows,
		Cells: make([]Cell, c.cols*c.rows),
	}

	maxIndex := float64(len(Charset) - 1)
	for row := 0; row < c.rows; row++ {
		// Per-row horizontal offset, stronger toward the frame edges.
		wobble := math.Sin(c.driftPhase+float64(row)*0.35) * c.drift * 4
		offset := int(math.Round(wobble))

		for col := 0; col < c.cols; col++ {
			src := col + offset
			if src < 0 {
				src = 0
			} else if src >= c.cols {
				src = c.cols - 1
			}

			pix := c.small.GetVecbAt(row, src)
			b, g, r := float64(pix[0]), float64(pix[1]), float64(pix[2])

			// Rec. 601 luma.
			luma := (0.299*r + 0.587*g + 0.114*b) / 255

			gray := (r + g + b) / 3
			cell := &grid.Cells[row*c.cols+col]
			cell.R = uint8(clamp255(gray + (r-gray)*c.saturation))
			cell.G = uint8(clamp255(gray + (g-gray)*c.saturation))
			cell.B = uint8(clamp255(gray + (b-gray)*c.saturation))
			cell.Brightness = luma
			cell.CharIndex = uint8(math.Round(luma * maxIndex))
		}
	}

	return grid
}

// Close releases the converter's scratch buffer.
func (c *Converter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.small.Close()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
