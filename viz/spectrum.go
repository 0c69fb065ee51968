package viz

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

const (
	spectrumFloorDB = -60.0
	spectrumMinFreq = 40.0
)

// Spectrum turns a window of recent samples into log-spaced magnitude
// bars in [0, 1] via a Hann-windowed real FFT.
type Spectrum struct {
	fftSize    int
	sampleRate float64
	window     []float64
	forward    func(dst []complex128, src []float64) error

	in   []float64
	spec []complex128
	bars []float64
}

// NewSpectrum builds an analyzer with the given FFT size (a power of
// two) and number of output bars.
func NewSpectrum(fftSize, bars, sampleRate int) (*Spectrum, error) {
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("viz: fft plan: %w", err)
	}

	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
	}

	return &Spectrum{
		fftSize:    fftSize,
		sampleRate: float64(sampleRate),
		window:     window,
		forward:    plan.Forward,
		in:         make([]float64, fftSize),
		spec:       make([]complex128, fftSize/2+1),
		bars:       make([]float64, bars),
	}, nil
}

// Values returns the current bar heights, valid until the next update.
func (s *Spectrum) Values() []float64 {
	return s.bars
}

// Update analyzes the most recent samples. Shorter inputs are
// zero-padded; an empty input fades the display.
func (s *Spectrum) Update(samples []float64) {
	if len(samples) == 0 {
		for i, v := range s.bars {
			v *= fadeFactor
			if v < fadeFloor {
				v = 0
			}
			s.bars[i] = v
		}
		return
	}

	n := copy(s.in, samples)
	for i := n; i < s.fftSize; i++ {
		s.in[i] = 0
	}
	for i := range s.in {
		s.in[i] *= s.window[i]
	}

	if err := s.forward(s.spec, s.in); err != nil {
		return
	}

	// Log-spaced bands from spectrumMinFreq up to Nyquist.
	nyquist := s.sampleRate / 2
	binHz := s.sampleRate / float64(s.fftSize)
	ratio := math.Pow(nyquist/spectrumMinFreq, 1/float64(len(s.bars)))

	lo := spectrumMinFreq
	for b := range s.bars {
		hi := lo * ratio
		first := int(lo / binHz)
		last := int(hi / binHz)
		if last <= first {
			last = first + 1
		}
		if last > len(s.spec)-1 {
			last = len(s.spec) - 1
		}

		var peak float64
		for i := first; i <= last && i < len(s.spec); i++ {
			if m := cmplx.Abs(s.spec[i]) / float64(s.fftSize); m > peak {
				peak = m
			}
		}

		db := spectrumFloorDB
		if peak > 0 {
			db = 20 * math.Log10(peak)
		}
		v := (db - spectrumFloorDB) / -spectrumFloorDB
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		s.bars[b] = v
		lo = hi
	}
}
