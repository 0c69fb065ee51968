package effects

import "github.com/Ernestas-t/audirust/params"

// Resampler reads its input at a variable rate: speed 1.5 consumes 1.5
// input frames per output frame, changing duration and pitch together.
// A fractional read cursor and the last input frame are carried across
// calls so block boundaries interpolate seamlessly. The source-to-device
// rate ratio is folded into the step so sources at any rate play
// correctly on a fixed-rate device.
type Resampler struct {
	ratio    float64
	channels int

	frac    float64
	prev    []float64
	hasPrev bool

	out []float64
}

// NewResampler returns a linear-interpolating resampler for interleaved
// buffers with the given channel count.
func NewResampler(deviceRate, sourceRate, channels int) *Resampler {
	if deviceRate <= 0 || sourceRate <= 0 || channels <= 0 {
		panic("effects: invalid resampler rates")
	}
	return &Resampler{
		ratio:    float64(sourceRate) / float64(deviceRate),
		channels: channels,
		prev:     make([]float64, channels),
	}
}

// Process consumes buf and returns the rate-converted output. The
// returned slice is reused on the next call.
func (r *Resampler) Process(buf []float64, p params.Params) []float64 {
	ch := r.channels
	frames := len(buf) / ch
	if frames == 0 {
		return buf[:0]
	}

	step := p.Speed * r.ratio
	if step < 1e-6 {
		step = 1e-6
	}

	// Virtual input: the carried boundary frame (if any) followed by
	// this block. Index 0 is the boundary frame.
	off := 0
	total := frames
	if r.hasPrev {
		off = 1
		total++
	}
	sample := func(i, c int) float64 {
		if i < off {
			return r.prev[c]
		}
		return buf[(i-off)*ch+c]
	}

	out := r.out[:0]
	pos := r.frac
	for int(pos)+1 < total {
		i0 := int(pos)
		t := pos - float64(i0)
		for c := 0; c < ch; c++ {
			s0 := sample(i0, c)
			s1 := sample(i0+1, c)
			out = append(out, s0+t*(s1-s0))
		}
		pos += step
	}

	last := total - 1
	r.frac = pos - float64(last)
	for c := 0; c < ch; c++ {
		r.prev[c] = sample(last, c)
	}
	r.hasPrev = true

	r.out = out
	return out
}

// Reset drops the fractional cursor and the carried boundary frame.
func (r *Resampler) Reset() {
	r.frac = 0
	r.hasPrev = false
	for c := range r.prev {
		r.prev[c] = 0
	}
}
