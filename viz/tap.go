// Package viz taps the post-effect sample stream and shapes it into
// waveform bars and a frequency spectrum for the terminal renderer.
package viz

import "sync"

// Tap is a fixed-capacity ring of recent mono sample values, written by
// the audio callback and read by the render loop. The critical section
// is a plain copy, far below one buffer's playback duration; the read
// side only drives visuals, so a stale frame is harmless.
type Tap struct {
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// NewTap returns a ring holding the last size samples.
func NewTap(size int) *Tap {
	if size <= 0 {
		panic("viz: tap size must be > 0")
	}
	return &Tap{
		buf:  make([]float64, size),
		size: size,
	}
}

// Push stores a mono mix of the given stereo frames, overwriting the
// oldest values first.
func (t *Tap) Push(frames [][2]float64) {
	t.mu.Lock()
	for _, f := range frames {
		t.buf[t.pos] = (f[0] + f[1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
}

// Samples returns the most recent n samples in chronological order.
// n is capped at the ring capacity.
func (t *Tap) Samples(n int) []float64 {
	if n > t.size {
		n = t.size
	}
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := 0; i < n; i++ {
		out[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
	return out
}

// Reset zeroes the ring.
func (t *Tap) Reset() {
	t.mu.Lock()
	for i := range t.buf {
		t.buf[i] = 0
	}
	t.pos = 0
	t.mu.Unlock()
}
