package effects

import (
	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"

	"github.com/Ernestas-t/audirust/params"
)

const lowpassQ = 0.7071067811865476 // Butterworth

// Lowpass is a second-order IIR low-pass with one biquad section per
// channel. Coefficients are redesigned only when the cutoff actually
// changes; section state persists across buffers so there is no
// discontinuity at block boundaries.
//
// A cutoff at or above params.MaxCutoff is an exact bypass. This is the
// boundary policy for the top of the cutoff range: the filter is "off"
// there, matching a pass-through within epsilon.
type Lowpass struct {
	sampleRate float64
	sections   []*biquad.Section

	lastCutoff float64
	bypass     bool
}

// NewLowpass returns a low-pass filter for the given output rate and
// channel count, initially bypassed.
func NewLowpass(sampleRate, channels int) *Lowpass {
	l := &Lowpass{
		sampleRate: float64(sampleRate),
		sections:   make([]*biquad.Section, channels),
		lastCutoff: -1,
	}
	for i := range l.sections {
		l.sections[i] = biquad.NewSection(biquad.Coefficients{})
	}
	return l
}

// Process filters in place, per channel.
func (l *Lowpass) Process(buf []float64, p params.Params) []float64 {
	l.configure(p.Cutoff)
	if l.bypass {
		return buf
	}

	ch := len(l.sections)
	frames := len(buf) / ch
	for f := 0; f < frames; f++ {
		for c := 0; c < ch; c++ {
			i := f*ch + c
			buf[i] = l.sections[c].ProcessSample(buf[i])
		}
	}
	return buf
}

// configure redesigns the biquad coefficients when the cutoff changed.
// Section state is kept so a running signal stays continuous.
func (l *Lowpass) configure(cutoff float64) {
	if cutoff == l.lastCutoff {
		return
	}
	l.lastCutoff = cutoff

	l.bypass = cutoff >= params.MaxCutoff
	if l.bypass {
		return
	}

	// The RBJ design degenerates as freq approaches Nyquist; keep the
	// design frequency inside the stable region.
	freq := core.Clamp(cutoff, params.MinCutoff, l.sampleRate*0.49)
	c := design.Lowpass(freq, lowpassQ, l.sampleRate)
	for _, s := range l.sections {
		s.Coefficients = c
	}
}

// Reset clears the filter history; the next Process redesigns from the
// incoming cutoff.
func (l *Lowpass) Reset() {
	for i, s := range l.sections {
		l.sections[i] = biquad.NewSection(s.Coefficients)
	}
	l.lastCutoff = -1
}
