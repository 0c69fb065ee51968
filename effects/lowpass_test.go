package effects

import (
	"math"
	"testing"

	"github.com/Ernestas-t/audirust/params"
)

func sineStereo(freq float64, sampleRate, frames int) []float64 {
	buf := make([]float64, 0, frames*2)
	for i := 0; i < frames; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
		buf = append(buf, v, v)
	}
	return buf
}

func TestLowpassCutoffAtCeilingIsIdentity(t *testing.T) {
	l := NewLowpass(44100, 2)
	in := sineStereo(1000, 44100, 256)
	want := append([]float64(nil), in...)

	out := l.Process(in, params.Params{Cutoff: params.MaxCutoff})
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d altered in bypass: %v vs %v", i, out[i], want[i])
		}
	}
}

func TestLowpassAttenuatesAboveCutoff(t *testing.T) {
	const sr = 44100
	l := NewLowpass(sr, 2)
	p := params.Params{Cutoff: 1000}

	// Warm the filter, then measure steady state.
	l.Process(sineStereo(8000, sr, 2048), p)
	out := l.Process(sineStereo(8000, sr, 2048), p)

	var peak float64
	for _, x := range out {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}
	// 8 kHz through a 1 kHz second-order low-pass: ~36 dB down.
	if peak > 0.1 {
		t.Fatalf("peak %v above cutoff, want strong attenuation", peak)
	}
}

func TestLowpassPassesWellBelowCutoff(t *testing.T) {
	const sr = 44100
	l := NewLowpass(sr, 2)
	p := params.Params{Cutoff: 10000}

	l.Process(sineStereo(200, sr, 4096), p)
	out := l.Process(sineStereo(200, sr, 4096), p)

	var peak float64
	for _, x := range out {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}
	if peak < 0.9 || peak > 1.1 {
		t.Fatalf("peak %v in passband, want ~1", peak)
	}
}

func TestLowpassContinuousAcrossBuffers(t *testing.T) {
	const sr = 44100
	p := params.Params{Cutoff: 2000}

	whole := NewLowpass(sr, 2)
	in := sineStereo(500, sr, 512)
	want := append([]float64(nil), whole.Process(append([]float64(nil), in...), p)...)

	split := NewLowpass(sr, 2)
	var got []float64
	for i := 0; i < 512; i += 64 {
		chunk := append([]float64(nil), in[i*2:(i+64)*2]...)
		got = append(got, split.Process(chunk, p)...)
	}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: split %v, whole %v", i, got[i], want[i])
		}
	}
}

func TestLowpassRecomputesOnCutoffChange(t *testing.T) {
	const sr = 44100
	l := NewLowpass(sr, 2)

	l.Process(sineStereo(8000, sr, 1024), params.Params{Cutoff: 1000})
	out := l.Process(sineStereo(8000, sr, 1024), params.Params{Cutoff: params.MaxCutoff})

	// After moving the cutoff to the ceiling, the unit bypasses.
	var peak float64
	for _, x := range out {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}
	if peak < 0.9 {
		t.Fatalf("peak %v after reopening cutoff, want pass-through", peak)
	}
}
