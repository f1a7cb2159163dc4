package audio

import (
	"math"
	"sync"

	"github.com/paolosand/ascii-drone/internal/music"
)

// Synthesis constants.
const (
	// SampleRate is the fixed engine sample rate.
	SampleRate = 44100

	sampleRate = float64(SampleRate)

	// rampSamples is the length of a parameter ramp (100 ms): long enough
	// to avoid clicks under a continuously-updating control signal, short
	// enough to feel immediate.
	rampSamples = sampleRate * 0.1

	// glideSamples is the portamento length of a key change (1.2 s).
	glideSamples = sampleRate * 1.2

	// masterGain keeps the eight-voice sum out of clipping range.
	masterGain = 0.14

	// chorusBaseDelay is the center tap of the chorus delay line in
	// seconds; the LFO modulates around it.
	chorusBaseDelay = 0.020
	chorusModDelay  = 0.007
)

// droneStreamer renders the eight voices plus filter, chorus, and stereo
// width into stereo samples. It implements beep.Streamer; the speaker pulls
// from it on its own goroutine, so all mutable state is guarded by mu and
// every externally-set parameter moves through a ramp.
type droneStreamer struct {
	mu sync.Mutex

	voices []*Voice

	roundedGain   ramp
	saturatedGain ramp
	filterCutoff  ramp
	filterRes     ramp
	chorusDepth   ramp
	detuneSpread  ramp
	chorusRate    ramp
	driftDepth    ramp
	stereoWidth   ramp

	// Chamberlin state-variable filter state, per channel.
	filterLowL, filterBandL float64
	filterLowR, filterBandR float64

	// Chorus delay lines, one per channel.
	delayL, delayR []float64
	delayPos       int
	chorusPhase    float64

	tuned bool // first SetKey applies instantly instead of gliding
}

func newDroneStreamer(intensity, width float64) *droneStreamer {
	s := &droneStreamer{
		delayL: make([]float64, int(sampleRate*0.05)),
		delayR: make([]float64, int(sampleRate*0.05)),
	}

	// One voice per chord role in each bank, eight in total.
	index := 0
	for _, bank := range []Bank{BankRounded, BankSaturated} {
		for role := RoleRoot; role <= RoleThird; role++ {
			s.voices = append(s.voices, newVoice(bank, role, index))
			index++
		}
	}

	it := mapIntensity(intensity)
	wt := mapWidth(width)
	s.roundedGain = newRamp(it.roundedGain)
	s.saturatedGain = newRamp(it.saturatedGain)
	s.filterCutoff = newRamp(it.filterCutoff)
	s.filterRes = newRamp(it.filterRes)
	s.chorusDepth = newRamp(it.chorusDepth)
	s.detuneSpread = newRamp(wt.detuneSpread)
	s.chorusRate = newRamp(wt.chorusRate)
	s.driftDepth = newRamp(wt.driftDepth)
	s.stereoWidth = newRamp(wt.stereoWidth)

	return s
}

// setIntensity ramps the bank crossfade, filter, and chorus depth to the
// mapping of the new value.
func (s *droneStreamer) setIntensity(v float64) {
	t := mapIntensity(v)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roundedGain.set(t.roundedGain)
	s.saturatedGain.set(t.saturatedGain)
	s.filterCutoff.set(t.filterCutoff)
	s.filterRes.set(t.filterRes)
	s.chorusDepth.set(t.chorusDepth)
}

// setWidth ramps detune spread, chorus rate, drift depth, and stereo width
// to the mapping of the new value.
func (s *droneStreamer) setWidth(v float64) {
	t := mapWidth(v)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.detuneSpread.set(t.detuneSpread)
	s.chorusRate.set(t.chorusRate)
	s.driftDepth.set(t.driftDepth)
	s.stereoWidth.set(t.stereoWidth)
}

// setKey glides every voice in both banks to the chord tones of the key.
// The very first tuning jumps instead, since nothing is audible yet.
func (s *droneStreamer) setKey(key music.Key) {
	freqs := key.ChordFrequencies()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voices {
		if s.tuned {
			v.retune(freqs[v.role])
		} else {
			v.setFrequency(freqs[v.role])
		}
	}
	s.tuned = true
}

func (s *droneStreamer) voiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// Stream implements beep.Streamer.
func (s *droneStreamer) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range samples {
		rounded := s.roundedGain.next()
		saturated := s.saturatedGain.next()
		cutoff := s.filterCutoff.next()
		res := s.filterRes.next()
		chorusDepth := s.chorusDepth.next()
		spread := s.detuneSpread.next()
		chorusRate := s.chorusRate.next()
		drift := s.driftDepth.next()
		width := s.stereoWidth.next()

		var l, r float64
		for _, v := range s.voices {
			gain := rounded
			if v.bank == BankSaturated {
				gain = saturated
			}
			sample := v.sample(spread, drift) * gain
			l += sample * v.panL
			r += sample * v.panR
		}

		l, r = s.filter(l, r, cutoff, res)
		l, r = s.chorus(l, r, chorusRate, chorusDepth)

		// Mid/side stereo width.
		mid := (l + r) / 2
		side := (l - r) / 2 * width
		samples[i][0] = (mid + side) * masterGain
		samples[i][1] = (mid - side) * masterGain
	}

	return len(samples), true
}

// Err implements beep.Streamer. The drone never ends and never fails.
func (s *droneStreamer) Err() error {
	return nil
}

// filter runs both channels through a Chamberlin state-variable lowpass.
func (s *droneStreamer) filter(l, r, cutoff, res float64) (float64, float64) {
	f := 2 * math.Sin(math.Pi*cutoff/sampleRate)
	q := 1 / res

	s.filterLowL += f * s.filterBandL
	highL := l - s.filterLowL - q*s.filterBandL
	s.filterBandL += f * highL

	s.filterLowR += f * s.filterBandR
	highR := r - s.filterLowR - q*s.filterBandR
	s.filterBandR += f * highR

	return s.filterLowL, s.filterLowR
}

// chorus mixes in a delay tap modulated by a slow LFO, opposite-phase per
// channel so the wet signal widens the image.
func (s *droneStreamer) chorus(l, r, rate, depth float64) (float64, float64) {
	s.chorusPhase += 2 * math.Pi * rate / sampleRate
	if s.chorusPhase > 2*math.Pi {
		s.chorusPhase -= 2 * math.Pi
	}

	s.delayL[s.delayPos] = l
	s.delayR[s.delayPos] = r

	modL := chorusBaseDelay + chorusModDelay*depth*math.Sin(s.chorusPhase)
	modR := chorusBaseDelay + chorusModDelay*depth*math.Sin(s.chorusPhase+math.Pi)

	wetL := s.readDelay(s.delayL, modL)
	wetR := s.readDelay(s.delayR, modR)

	s.delayPos++
	if s.delayPos >= len(s.delayL) {
		s.delayPos = 0
	}

	return l*(1-depth) + wetL*depth, r*(1-depth) + wetR*depth
}

// readDelay reads a tap the given number of seconds behind the write
// position, with linear interpolation between samples.
func (s *droneStreamer) readDelay(buf []float64, seconds float64) float64 {
	offset := seconds * sampleRate
	idx := float64(s.delayPos) - offset
	for idx < 0 {
		idx += float64(len(buf))
	}

	i0 := int(idx) % len(buf)
	i1 := (i0 + 1) % len(buf)
	frac := idx - math.Floor(idx)

	return buf[i0]*(1-frac) + buf[i1]*frac
}
