package params

import (
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// Parameter bounds and adjustment steps. Out-of-range writes clamp,
// they never fail.
const (
	MinVolume  = 0.0
	MaxVolume  = 2.0
	VolumeStep = 0.1

	MinSpeed  = 0.1
	MaxSpeed  = 3.0
	SpeedStep = 0.1

	// MaxCutoff doubles as the filter's "off" threshold: a cutoff at or
	// above it bypasses the low-pass stage entirely.
	MinCutoff  = 500.0
	MaxCutoff  = 20000.0
	CutoffStep = 500.0
)

// Params is one consistent set of effect settings. Values are always
// within their declared bounds.
type Params struct {
	Volume float64
	Speed  float64
	Cutoff float64
	Reverb bool
}

// Defaults returns the initial parameter set: unity gain and speed,
// filter off, reverb off.
func Defaults() Params {
	return Params{
		Volume: 1.0,
		Speed:  1.0,
		Cutoff: MaxCutoff,
	}
}

// Clamped returns p with every field forced into its valid range.
func (p Params) Clamped() Params {
	p.Volume = core.Clamp(p.Volume, MinVolume, MaxVolume)
	p.Speed = core.Clamp(p.Speed, MinSpeed, MaxSpeed)
	p.Cutoff = core.Clamp(p.Cutoff, MinCutoff, MaxCutoff)
	return p
}

// Store is the shared parameter record. The input loop writes through
// the adjust methods; the audio callback reads via Snapshot. Writers
// serialize on a mutex and publish a fresh copy through an atomic
// pointer, so Snapshot is lock-free and never observes a torn record.
type Store struct {
	mu  sync.Mutex
	cur atomic.Pointer[Params]
}

// NewStore returns a Store holding the default parameters.
func NewStore() *Store {
	s := &Store{}
	p := Defaults()
	s.cur.Store(&p)
	return s
}

// Snapshot returns a consistent copy of the current parameters.
func (s *Store) Snapshot() Params {
	return *s.cur.Load()
}

// Apply replaces the whole record, clamping every field.
func (s *Store) Apply(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(p.Clamped())
}

// AdjustVolume adds delta to the volume, clamped to [MinVolume, MaxVolume].
func (s *Store) AdjustVolume(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.cur.Load()
	p.Volume = core.Clamp(p.Volume+delta, MinVolume, MaxVolume)
	s.publish(p)
}

// AdjustSpeed adds delta to the playback speed, clamped to [MinSpeed, MaxSpeed].
func (s *Store) AdjustSpeed(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.cur.Load()
	p.Speed = core.Clamp(p.Speed+delta, MinSpeed, MaxSpeed)
	s.publish(p)
}

// AdjustCutoff adds delta (Hz) to the filter cutoff, clamped to
// [MinCutoff, MaxCutoff].
func (s *Store) AdjustCutoff(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.cur.Load()
	p.Cutoff = core.Clamp(p.Cutoff+delta, MinCutoff, MaxCutoff)
	s.publish(p)
}

// ToggleReverb flips the reverb enable flag and returns the new value.
func (s *Store) ToggleReverb() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.cur.Load()
	p.Reverb = !p.Reverb
	s.publish(p)
	return p.Reverb
}

func (s *Store) publish(p Params) {
	s.cur.Store(&p)
}
