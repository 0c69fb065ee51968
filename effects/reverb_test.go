package effects

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Ernestas-t/audirust/params"
)

const reverbTestRate = 8000

func TestReverbDisabledPassesThrough(t *testing.T) {
	r := NewReverb(reverbTestRate, 2)
	rng := rand.New(rand.NewSource(1))

	in := make([]float64, 512)
	for i := range in {
		in[i] = rng.Float64()*2 - 1
	}
	want := append([]float64(nil), in...)

	out := r.Process(in, params.Params{Reverb: false})
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d altered while disabled: %v vs %v", i, out[i], want[i])
		}
	}
}

func TestReverbEchoAtDelay(t *testing.T) {
	r := NewReverb(reverbTestRate, 2)
	p := params.Params{Reverb: true}
	delayFrames := int(reverbDelaySeconds * reverbTestRate)

	// Impulse on both channels, then silence.
	frames := delayFrames + 8
	in := make([]float64, frames*2)
	in[0], in[1] = 1, 1

	out := r.Process(in, p)
	got := out[delayFrames*2]
	if math.Abs(got-reverbWet) > 1e-9 {
		t.Fatalf("echo = %v at delay, want %v", got, reverbWet)
	}
	// No energy before the first echo (beyond the dry impulse).
	for f := 1; f < delayFrames; f++ {
		if out[f*2] != 0 {
			t.Fatalf("unexpected output %v at frame %d before delay", out[f*2], f)
		}
	}
}

func TestReverbTailDecaysWhileDisabled(t *testing.T) {
	r := NewReverb(reverbTestRate, 2)
	delayFrames := int(reverbDelaySeconds * reverbTestRate)

	// Charge the delay line.
	in := make([]float64, 256*2)
	for i := range in {
		in[i] = 0.5
	}
	r.Process(in, params.Params{Reverb: true})

	// Run disabled silence for many delay periods; the tail must reach
	// exact zero via denormal flushing.
	silence := make([]float64, delayFrames*2)
	for loop := 0; loop < 400; loop++ {
		for i := range silence {
			silence[i] = 0
		}
		r.Process(silence, params.Params{Reverb: false})
	}

	probe := make([]float64, delayFrames*2)
	out := r.Process(probe, params.Params{Reverb: true})
	for i, x := range out {
		if x != 0 {
			t.Fatalf("residual tail %v at %d after decay", x, i)
		}
	}
}

// After the tail has fully decayed, a toggled-off-and-on reverb is
// bit-identical to a fresh one.
func TestReverbToggleRestoresChainOutput(t *testing.T) {
	toggled := NewReverb(reverbTestRate, 2)
	delayFrames := int(reverbDelaySeconds * reverbTestRate)

	noise := make([]float64, 128*2)
	rng := rand.New(rand.NewSource(7))
	for i := range noise {
		noise[i] = rng.Float64() - 0.5
	}
	toggled.Process(append([]float64(nil), noise...), params.Params{Reverb: true})

	silence := make([]float64, delayFrames*2)
	for loop := 0; loop < 400; loop++ {
		for i := range silence {
			silence[i] = 0
		}
		toggled.Process(silence, params.Params{Reverb: false})
	}

	fresh := NewReverb(reverbTestRate, 2)
	inA := append([]float64(nil), noise...)
	inB := append([]float64(nil), noise...)
	outA := toggled.Process(inA, params.Params{Reverb: true})
	outB := fresh.Process(inB, params.Params{Reverb: true})

	for i := range outB {
		if outA[i] != outB[i] {
			t.Fatalf("sample %d differs after toggle cycle: %v vs %v", i, outA[i], outB[i])
		}
	}
}
