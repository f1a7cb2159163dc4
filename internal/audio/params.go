// Package audio implements the drone synthesizer: an engine state machine
// guarding two four-voice timbral banks, continuous intensity/width
// parameter mapping, and glided key changes, rendered through a beep
// streamer.
package audio

// lerp linearly interpolates between a and b by t in [0,1].
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// intensityTargets is what a single intensity value in [0,1] fans out to:
// the crossfade between the rounded and saturated banks, the filter, and
// the chorus depth.
type intensityTargets struct {
	roundedGain   float64
	saturatedGain float64
	filterCutoff  float64 // Hz
	filterRes     float64
	chorusDepth   float64 // wet mix and modulation amount, 0..1
}

func mapIntensity(v float64) intensityTargets {
	return intensityTargets{
		roundedGain:   lerp(1.0, 0.15, v),
		saturatedGain: lerp(0.0, 0.85, v),
		filterCutoff:  lerp(800, 6000, v),
		filterRes:     lerp(0.6, 2.5, v),
		chorusDepth:   lerp(0.05, 0.45, v),
	}
}

// widthTargets is what a single width value in [0,1] fans out to: oscillator
// detune spread, chorus rate, per-voice drift depth, and stereo image width.
type widthTargets struct {
	detuneSpread float64 // max frequency ratio offset across the bank
	chorusRate   float64 // Hz
	driftDepth   float64 // per-voice drift LFO depth as a frequency ratio
	stereoWidth  float64 // side-channel gain, 0 = mono
}

func mapWidth(v float64) widthTargets {
	return widthTargets{
		detuneSpread: lerp(0.0005, 0.006, v),
		chorusRate:   lerp(0.1, 1.2, v),
		driftDepth:   lerp(0.0002, 0.0025, v),
		stereoWidth:  lerp(0.1, 1.0, v),
	}
}

// ramp moves a parameter toward its target linearly over a fixed number of
// samples, so a continuously-updating control signal never produces an
// audible click. A newer target simply supersedes an in-flight ramp.
type ramp struct {
	current float64
	target  float64
	step    float64
}

func newRamp(v float64) ramp {
	return ramp{current: v, target: v}
}

func (r *ramp) set(target float64) {
	r.target = target
	r.step = (target - r.current) / rampSamples
}

// next advances the ramp one sample and returns the current value.
func (r *ramp) next() float64 {
	if r.step != 0 {
		r.current += r.step
		if (r.step > 0 && r.current >= r.target) || (r.step < 0 && r.current <= r.target) {
			r.current = r.target
			r.step = 0
		}
	}
	return r.current
}
