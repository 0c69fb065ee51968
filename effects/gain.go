package effects

import (
	"github.com/cwbudde/algo-dsp/dsp/core"

	"github.com/Ernestas-t/audirust/params"
)

// Gain scales samples by the current volume. It keeps no state. The
// result is clamped to the valid sample range so a hot signal at
// MaxVolume cannot overflow into later stages.
type Gain struct{}

// NewGain returns the gain unit.
func NewGain() *Gain {
	return &Gain{}
}

// Process multiplies in place.
func (g *Gain) Process(buf []float64, p params.Params) []float64 {
	for i, x := range buf {
		buf[i] = core.Clamp(x*p.Volume, -1, 1)
	}
	return buf
}

// Reset is a no-op; gain is stateless.
func (g *Gain) Reset() {}
