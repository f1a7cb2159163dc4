// Package music provides the circle-of-fifths key tables, the radial menu
// hit test, and the menu animation state.
package music

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned when a key name has no entry in the root tables.
var ErrUnknownKey = errors.New("unknown key")

// MajorKeys lists the 12 major keys in circle-of-fifths order. Index 0 sits
// at the top of the radial menu.
var MajorKeys = [12]string{"C", "G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#", "F"}

// MinorKeys lists the 12 relative minors, index-aligned with MajorKeys.
var MinorKeys = [12]string{"Am", "Em", "Bm", "F#m", "C#m", "G#m", "D#m", "A#m", "Fm", "Cm", "Gm", "Dm"}

// rootFrequencies maps pitch class names to equal-tempered root frequencies
// in octave 3 (A3 = 220 Hz).
var rootFrequencies = map[string]float64{
	"C":  130.81,
	"C#": 138.59,
	"D":  146.83,
	"D#": 155.56,
	"E":  164.81,
	"F":  174.61,
	"F#": 185.00,
	"G":  196.00,
	"G#": 207.65,
	"A":  220.00,
	"A#": 233.08,
	"B":  246.94,
}

// Chord-tone frequency ratios over the root: unison, fifth, octave, and a
// third an octave up. The thirds are just-intonation flavored rather than
// equal tempered; the slight beating against the tempered roots is part of
// the drone's character.
var (
	MajorChordRatios = [4]float64{1, 1.5, 2, 2.52}
	MinorChordRatios = [4]float64{1, 1.5, 2, 2.4}
)

// Key is a parsed key name with its root frequency and mode.
type Key struct {
	Name      string
	Root      string
	Frequency float64
	Minor     bool
}

// ChordFrequencies returns the four chord-tone frequencies for the key.
func (k Key) ChordFrequencies() [4]float64 {
	ratios := MajorChordRatios
	if k.Minor {
		ratios = MinorChordRatios
	}

	var freqs [4]float64
	for i, r := range ratios {
		freqs[i] = k.Frequency * r
	}
	return freqs
}

// ParseKey parses a key name like "C" or "Am" into a Key. Returns
// ErrUnknownKey if the root pitch class is not recognized.
func ParseKey(name string) (Key, error) {
	root := name
	minor := false
	if strings.HasSuffix(name, "m") {
		root = strings.TrimSuffix(name, "m")
		minor = true
	}

	freq, ok := rootFrequencies[root]
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}

	return Key{
		Name:      name,
		Root:      root,
		Frequency: freq,
		Minor:     minor,
	}, nil
}

// KeyIndex returns the circle-of-fifths segment index of a key name, looking
// in both rings. Returns -1 if the name is in neither table.
func KeyIndex(name string) int {
	for i := range MajorKeys {
		if MajorKeys[i] == name || MinorKeys[i] == name {
			return i
		}
	}
	return -1
}
