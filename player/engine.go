package player

import (
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Ernestas-t/audirust/effects"
	"github.com/Ernestas-t/audirust/params"
	"github.com/Ernestas-t/audirust/viz"
)

// State is the playback lifecycle of the engine.
type State int32

const (
	Idle State = iota
	PlayingOnce
	Looping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PlayingOnce:
		return "playing"
	case Looping:
		return "looping"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// ResetChainOnLoop controls whether effect state (filter history,
// reverb tail, resampler cursor) is cleared when a looping source wraps
// around. Continuity is deliberate: resetting would produce an audible
// pop at every loop boundary.
const ResetChainOnLoop = false

const (
	// engineChannels is the interleaved channel count of every buffer
	// that crosses the effect chain and reaches the device.
	engineChannels = 2
	// blockFrames is the source pull granularity inside one callback.
	blockFrames = 512
)

// Engine owns the decoded-source cursor and drives the pull-based
// streaming loop. It implements beep.Streamer, is registered with the
// output device once, and never ends: when nothing plays it supplies
// silence so the device is never starved.
//
// The audio callback (Stream) exclusively owns the effect chain state.
// Command methods only take the engine mutex for O(1) transitions, so
// the callback's worst-case wait stays far below one buffer duration.
type Engine struct {
	sampleRate int
	store      *params.Store
	tap        *viz.Tap
	log        *log.Logger

	// open is swappable for tests.
	open func(string) (Source, error)

	state atomic.Int32

	mu      sync.Mutex
	src     Source
	path    string
	chain   *effects.Chain
	pending []float64
	raw     []float64
	stereo  []float64
}

// New returns an idle engine emitting at the given device sample rate.
func New(sampleRate int, store *params.Store, tap *viz.Tap, logger *log.Logger) *Engine {
	if sampleRate <= 0 {
		panic("player: invalid sample rate")
	}
	return &Engine{
		sampleRate: sampleRate,
		store:      store,
		tap:        tap,
		log:        logger,
		open:       Open,
		raw:        make([]float64, blockFrames*engineChannels),
		stereo:     make([]float64, blockFrames*engineChannels),
	}
}

// PlayOnce stops any current playback and plays path once through.
func (e *Engine) PlayOnce(path string) error {
	return e.start(path, PlayingOnce)
}

// PlayLoop stops any current playback and plays path in a loop until
// stopped.
func (e *Engine) PlayLoop(path string) error {
	return e.start(path, Looping)
}

func (e *Engine) start(path string, st State) error {
	e.Stop()

	src, err := e.open(path)
	if err != nil {
		e.state.Store(int32(Idle))
		return err
	}

	e.mu.Lock()
	e.src = src
	e.path = path
	e.chain = effects.NewChain(e.sampleRate, src.SampleRate(), engineChannels)
	e.pending = e.pending[:0]
	e.mu.Unlock()

	e.state.Store(int32(st))
	return nil
}

// Stop releases the source and resets all effect state. It is honored
// before the next device buffer: Stream checks the state first.
func (e *Engine) Stop() {
	e.state.Store(int32(Stopped))
	e.mu.Lock()
	if e.src != nil {
		e.src.Close()
		e.src = nil
	}
	if e.chain != nil {
		e.chain.Reset()
	}
	e.pending = e.pending[:0]
	e.mu.Unlock()
}

// CurrentState returns the playback state.
func (e *Engine) CurrentState() State {
	return State(e.state.Load())
}

// IsPlaying reports whether a source is actively streaming.
func (e *Engine) IsPlaying() bool {
	s := e.CurrentState()
	return s == PlayingOnce || s == Looping
}

// Path returns the path of the most recently started source.
func (e *Engine) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// Err implements beep.Streamer; the engine itself never fails.
func (e *Engine) Err() error { return nil }

// Stream supplies exactly len(samples) frames, silence-padding the tail
// when the source ends mid-buffer. Parameters are snapshotted once per
// call; a Stop issued between callbacks takes effect here before any
// frame is pulled.
func (e *Engine) Stream(samples [][2]float64) (int, bool) {
	st := e.CurrentState()
	if st != PlayingOnce && st != Looping {
		silence(samples)
		if e.tap != nil {
			e.tap.Push(samples)
		}
		return len(samples), true
	}

	e.mu.Lock()
	snap := e.store.Snapshot()
	filled := e.drainPending(samples, 0)

	for filled < len(samples) && e.src != nil {
		frames, err := e.readStereo()
		if frames > 0 {
			out := e.chain.Process(e.stereo[:frames*engineChannels], snap)
			filled = e.emit(samples, filled, out)
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			if e.log != nil {
				e.log.Printf("player: read %s: %v", e.path, err)
			}
			e.stopLocked()
			break
		}
		if st == Looping {
			if e.reopenLocked() {
				continue
			}
			break
		}
		e.stopLocked()
		break
	}
	e.mu.Unlock()

	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	if e.tap != nil {
		e.tap.Push(samples)
	}
	return len(samples), true
}

// readStereo pulls one block of source frames into e.stereo as
// interleaved stereo, duplicating mono channels.
func (e *Engine) readStereo() (int, error) {
	ch := e.src.Channels()
	if ch <= 0 || ch > engineChannels {
		panic("player: source channel count out of range")
	}

	frames, err := e.src.Read(e.raw[:blockFrames*ch])
	if frames < 0 {
		panic("player: negative frame count from source")
	}

	switch ch {
	case engineChannels:
		copy(e.stereo, e.raw[:frames*engineChannels])
	case 1:
		for f := 0; f < frames; f++ {
			v := e.raw[f]
			e.stereo[f*2] = v
			e.stereo[f*2+1] = v
		}
	}
	return frames, err
}

// reopenLocked restarts a looping source by re-opening its path. Chain
// state carries across the boundary unless ResetChainOnLoop is set.
func (e *Engine) reopenLocked() bool {
	e.src.Close()
	src, err := e.open(e.path)
	if err != nil {
		if e.log != nil {
			e.log.Printf("player: reopen %s: %v", e.path, err)
		}
		e.src = nil
		e.state.Store(int32(Stopped))
		return false
	}
	e.src = src
	if ResetChainOnLoop {
		e.chain.Reset()
	}
	return true
}

func (e *Engine) stopLocked() {
	if e.src != nil {
		e.src.Close()
		e.src = nil
	}
	e.state.Store(int32(Stopped))
}

// drainPending copies carried-over processed samples into the output.
func (e *Engine) drainPending(samples [][2]float64, filled int) int {
	used := 0
	for filled < len(samples) && used+1 < len(e.pending) {
		samples[filled] = [2]float64{e.pending[used], e.pending[used+1]}
		filled++
		used += 2
	}
	if used > 0 {
		e.pending = e.pending[:copy(e.pending, e.pending[used:])]
	}
	return filled
}

// emit copies processed samples into the output, parking any surplus in
// the pending buffer for the next callback.
func (e *Engine) emit(samples [][2]float64, filled int, buf []float64) int {
	i := 0
	for filled < len(samples) && i+1 < len(buf) {
		samples[filled] = [2]float64{buf[i], buf[i+1]}
		filled++
		i += 2
	}
	if i < len(buf) {
		e.pending = append(e.pending, buf[i:]...)
	}
	return filled
}

func silence(samples [][2]float64) {
	for i := range samples {
		samples[i] = [2]float64{}
	}
}
