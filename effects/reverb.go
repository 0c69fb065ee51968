package effects

import (
	"math"

	"github.com/cwbudde/algo-approx"
	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/delay"

	"github.com/Ernestas-t/audirust/params"
)

const (
	reverbDelaySeconds = 0.06
	reverbDecaySeconds = 0.9
	reverbWet          = 0.4
)

// Reverb mixes a delayed, attenuated copy of the signal back in through
// a feedback delay line, one line per channel. While disabled it passes
// input through unchanged but keeps recirculating the decaying tail, so
// re-enabling resumes smoothly instead of starting from silence.
type Reverb struct {
	lines        []*delay.Line
	delaySamples int
	feedback     float64
}

// NewReverb returns a reverb sized for the given output rate and
// channel count.
func NewReverb(sampleRate, channels int) *Reverb {
	n := int(reverbDelaySeconds * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	lines := make([]*delay.Line, channels)
	for i := range lines {
		l, err := delay.New(n)
		if err != nil {
			panic("effects: reverb delay line: " + err.Error())
		}
		lines[i] = l
	}
	return &Reverb{
		lines:        lines,
		delaySamples: n,
		feedback:     feedbackForDecay(reverbDelaySeconds, reverbDecaySeconds),
	}
}

// feedbackForDecay maps a -60 dB decay time to the per-pass feedback
// gain of the delay loop.
func feedbackForDecay(delaySec, decaySec float64) float64 {
	x := float32(math.Log(1e-3) * delaySec / decaySec)
	return float64(approx.FastExp(x))
}

// Process mixes the delayed tail in place when reverb is enabled; when
// disabled the tail only decays.
func (r *Reverb) Process(buf []float64, p params.Params) []float64 {
	ch := len(r.lines)
	frames := len(buf) / ch

	for f := 0; f < frames; f++ {
		for c := 0; c < ch; c++ {
			i := f*ch + c
			x := buf[i]
			d := r.lines[c].Read(r.delaySamples)
			if p.Reverb {
				buf[i] = core.Clamp(x+d*reverbWet, -1, 1)
				r.lines[c].Write(core.FlushDenormals(x + d*r.feedback))
			} else {
				r.lines[c].Write(core.FlushDenormals(d * r.feedback))
			}
		}
	}
	return buf
}

// Reset silences the delay lines.
func (r *Reverb) Reset() {
	for _, l := range r.lines {
		l.Reset()
	}
}
