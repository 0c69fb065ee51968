// Package effects implements the real-time effect chain applied to
// every buffer on its way to the output device: gain, a variable-rate
// resampler (speed/pitch), a low-pass filter, and a feedback-delay
// reverb. Buffers are interleaved stereo float64 samples.
package effects

import "github.com/Ernestas-t/audirust/params"

// Unit transforms one buffer into another of the same or adjusted
// length, reading the current parameters and carrying its own DSP
// state across calls. Units never fail; parameters arrive pre-clamped.
type Unit interface {
	Process(buf []float64, p params.Params) []float64
	Reset()
}

// Chain applies units in the fixed order gain, speed, filter, reverb.
// Gain first so the filter and reverb see normalized amplitude, speed
// before the filter so cutoff math matches the post-resample rate, and
// reverb last so it colors the final mix.
type Chain struct {
	units []Unit
}

// NewChain builds a chain for a source running at sourceRate, producing
// output at deviceRate with the given channel count.
func NewChain(deviceRate, sourceRate, channels int) *Chain {
	return &Chain{
		units: []Unit{
			NewGain(),
			NewResampler(deviceRate, sourceRate, channels),
			NewLowpass(deviceRate, channels),
			NewReverb(deviceRate, channels),
		},
	}
}

// Process runs buf through every unit in order and returns the result,
// which may alias unit-owned scratch storage; callers must consume it
// before the next call. Parameters are read once per buffer, not per
// sample.
func (c *Chain) Process(buf []float64, p params.Params) []float64 {
	for _, u := range c.units {
		buf = u.Process(buf, p)
	}
	return buf
}

// Reset clears all per-unit DSP state (filter history, delay lines,
// resampler cursor).
func (c *Chain) Reset() {
	for _, u := range c.units {
		u.Reset()
	}
}
