package viz

import (
	"math"

	"github.com/Ernestas-t/audirust/params"
)

const (
	fadeFactor   = 0.95
	fadeFloor    = 0.01
	shimmerDelay = 0.06 // seconds, mirrors the reverb delay
)

// Waveform maps recent samples to a row of bar heights in [0, 1],
// shaped by the current effect settings so the display reacts to the
// knobs even between audio buffers.
type Waveform struct {
	vals []float64
}

// NewWaveform returns a waveform with the given number of bars.
func NewWaveform(points int) *Waveform {
	if points <= 0 {
		points = 100
	}
	return &Waveform{vals: make([]float64, points)}
}

// Values returns the current bar heights. The slice is owned by the
// Waveform and valid until the next update.
func (w *Waveform) Values() []float64 {
	return w.vals
}

// Update recomputes the bars from sample magnitudes. When inactive the
// display fades out instead of snapping to zero.
func (w *Waveform) Update(samples []float64, p params.Params, active bool, sampleRate int) {
	if !active || len(samples) == 0 {
		w.fade()
		return
	}

	filterFactor := 1.0
	if p.Cutoff < params.MaxCutoff {
		filterFactor = p.Cutoff / params.MaxCutoff
	}

	n := len(samples)
	for i := range w.vals {
		idx := i * n / len(w.vals)
		if idx >= n {
			idx = n - 1
		}
		v := math.Abs(samples[idx]) * p.Volume * filterFactor

		if p.Reverb {
			ri := (idx + int(shimmerDelay*float64(sampleRate))) % n
			v += math.Abs(samples[ri]) * 0.3 * p.Volume
		}

		if v > 1 {
			v = 1
		}
		w.vals[i] = v
	}
}

// Simulate draws a synthetic wave for visual-only operation, shaped by
// the same parameters as real playback.
func (w *Waveform) Simulate(elapsed float64, p params.Params) {
	filterFactor := 1.0
	if p.Cutoff < params.MaxCutoff {
		filterFactor = p.Cutoff / params.MaxCutoff
	}

	for i := range w.vals {
		x := float64(i) / 10.0
		base := math.Sin(elapsed*5*p.Speed+x) * p.Volume
		harmonic := math.Sin(elapsed*10*p.Speed+x) * 0.3 * filterFactor

		v := math.Abs(base+harmonic) * p.Volume
		if p.Reverb {
			v += math.Abs(math.Sin(elapsed*5*p.Speed+x-0.5)*0.3) * p.Volume
		}

		v *= 0.7
		if v > 1 {
			v = 1
		}
		w.vals[i] = v
	}
}

func (w *Waveform) fade() {
	for i, v := range w.vals {
		v *= fadeFactor
		if v < fadeFloor {
			v = 0
		}
		w.vals[i] = v
	}
}
