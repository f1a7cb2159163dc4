package audio

import "math"

// Bank identifies one of the two timbres crossfaded by intensity.
type Bank int

const (
	// BankRounded is the soft timbre: a sine with gentle low harmonics.
	BankRounded Bank = iota
	// BankSaturated is the rich timbre: a driven waveform with strong
	// harmonic content.
	BankSaturated
)

// Chord-tone roles within a bank.
const (
	RoleRoot = iota
	RoleFifth
	RoleOctave
	RoleThird
)

// roleGains balances the four chord tones so the upper voices sit under the
// root rather than dominating it.
var roleGains = [4]float64{1.0, 0.8, 0.6, 0.5}

// Voice is one oscillator of a fixed timbre and chord role. Voices are
// created once at engine bring-up and retuned in place; a key change glides
// the frequency rather than recreating the voice.
type Voice struct {
	bank Bank
	role int

	freq      float64 // current frequency, moves during a glide
	target    float64
	glideStep float64 // per-sample frequency delta while gliding

	phase      float64
	driftPhase float64
	driftRate  float64 // Hz, fixed per voice so the bank never phase-locks
	detunePos  float64 // -1..1 position across the detune spread
	panL, panR float64
}

// newVoice creates a voice for one bank/role pair. The drift rate and
// detune position are derived from the voice's index so each of the eight
// voices wanders independently.
func newVoice(bank Bank, role int, index int) *Voice {
	// Slow, mutually inharmonic drift rates between ~0.05 and ~0.19 Hz.
	driftRate := 0.05 + 0.017*float64(index*index%8)

	// Spread the voices across the detune range and the stereo field,
	// alternating sides per index.
	detunePos := float64(role)/1.5 - 1
	panL, panR := 0.75, 0.25
	if index%2 == 1 {
		panL, panR = 0.25, 0.75
	}

	return &Voice{
		bank:      bank,
		role:      role,
		driftRate: driftRate,
		detunePos: detunePos,
		panL:      panL,
		panR:      panR,
	}
}

// retune starts a glide toward the new target frequency.
func (v *Voice) retune(target float64) {
	v.target = target
	v.glideStep = (target - v.freq) / glideSamples
}

// setFrequency jumps the voice to a frequency with no glide. Used only for
// the very first tuning at bring-up, before anything is audible.
func (v *Voice) setFrequency(f float64) {
	v.freq = f
	v.target = f
	v.glideStep = 0
}

// sample renders one sample of the voice and advances its oscillator,
// glide, and drift state.
func (v *Voice) sample(detuneSpread, driftDepth float64) float64 {
	if v.glideStep != 0 {
		v.freq += v.glideStep
		if (v.glideStep > 0 && v.freq >= v.target) || (v.glideStep < 0 && v.freq <= v.target) {
			v.freq = v.target
			v.glideStep = 0
		}
	}

	v.driftPhase += 2 * math.Pi * v.driftRate / sampleRate
	if v.driftPhase > 2*math.Pi {
		v.driftPhase -= 2 * math.Pi
	}

	f := v.freq * (1 + v.detunePos*detuneSpread + driftDepth*math.Sin(v.driftPhase))

	v.phase += 2 * math.Pi * f / sampleRate
	if v.phase > 2*math.Pi {
		v.phase -= 2 * math.Pi
	}

	var s float64
	switch v.bank {
	case BankRounded:
		s = oscRounded(v.phase)
	case BankSaturated:
		s = oscSaturated(v.phase)
	}

	return s * roleGains[v.role]
}

// oscRounded is a sine with soft second and third harmonics.
func oscRounded(p float64) float64 {
	return (math.Sin(p) + 0.30*math.Sin(2*p) + 0.10*math.Sin(3*p)) / 1.4
}

// oscSaturated drives a harmonic stack through tanh for a warm, dense tone.
func oscSaturated(p float64) float64 {
	raw := math.Sin(p) + 0.50*math.Sin(2*p) + 0.33*math.Sin(3*p) + 0.25*math.Sin(4*p)
	return math.Tanh(1.8*raw) * 0.7
}
