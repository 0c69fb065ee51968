// Package player owns the playback engine: audio sources decoded from
// disk, the pull-based streaming loop that feeds the output device
// through the effect chain, and the playback state transitions.
package player

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/wav"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
)

var (
	// ErrSourceUnavailable wraps every failure to open a source: bad
	// path, unreadable file, or unsupported format.
	ErrSourceUnavailable = errors.New("player: source unavailable")
	// ErrUnsupportedFormat indicates a file extension no decoder handles.
	ErrUnsupportedFormat = errors.New("player: unsupported format")
)

// Source produces interleaved float64 PCM frames from a decoded audio
// file. It is finite and not restartable in place; restarting means
// re-opening the path.
type Source interface {
	SampleRate() int
	Channels() int
	// Read fills dst with up to len(dst)/Channels() frames and returns
	// the frame count. io.EOF signals exhaustion.
	Read(dst []float64) (int, error)
	Close() error
}

// Open decodes the file at path into a Source, dispatching on the file
// extension. WAV files decode through the wav package; MP3, FLAC and
// OGG stream through their beep decoders.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return openWAV(path)
	case ".mp3", ".flac", ".ogg":
		return openBeep(path)
	default:
		return nil, fmt.Errorf("%w: %w: %q", ErrSourceUnavailable, ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// wavSource holds fully decoded WAV data with a frame cursor.
type wavSource struct {
	data     []float64
	rate     int
	channels int
	pos      int
}

func openWAV(path string) (*wavSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %w: %q is not a valid wav file", ErrSourceUnavailable, ErrUnsupportedFormat, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", ErrSourceUnavailable, path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: decode %q: empty pcm buffer", ErrSourceUnavailable, path)
	}
	if buf.Format.NumChannels > 2 {
		return nil, fmt.Errorf("%w: %w: %q has %d channels", ErrSourceUnavailable, ErrUnsupportedFormat, path, buf.Format.NumChannels)
	}

	bits := int(dec.BitDepth)
	if bits <= 0 {
		bits = 16
	}
	scale := math.Pow(2, float64(bits-1))

	data := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = float64(v) / scale
	}

	return &wavSource{
		data:     data,
		rate:     buf.Format.SampleRate,
		channels: buf.Format.NumChannels,
	}, nil
}

func (s *wavSource) SampleRate() int { return s.rate }
func (s *wavSource) Channels() int   { return s.channels }

func (s *wavSource) Read(dst []float64) (int, error) {
	totalFrames := len(s.data) / s.channels
	if s.pos >= totalFrames {
		return 0, io.EOF
	}
	frames := len(dst) / s.channels
	if rem := totalFrames - s.pos; frames > rem {
		frames = rem
	}
	copy(dst, s.data[s.pos*s.channels:(s.pos+frames)*s.channels])
	s.pos += frames
	return frames, nil
}

func (s *wavSource) Close() error {
	s.pos = len(s.data) / s.channels
	return nil
}

// beepSource adapts a beep streaming decoder. Beep streams always
// deliver stereo frames regardless of the encoded channel count.
type beepSource struct {
	f       *os.File
	stream  beep.StreamSeekCloser
	format  beep.Format
	scratch [][2]float64
}

func openBeep(path string) (*beepSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: decode %q: %w", ErrSourceUnavailable, path, err)
	}

	return &beepSource{f: f, stream: stream, format: format}, nil
}

func (s *beepSource) SampleRate() int { return int(s.format.SampleRate) }
func (s *beepSource) Channels() int   { return 2 }

func (s *beepSource) Read(dst []float64) (int, error) {
	frames := len(dst) / 2
	if cap(s.scratch) < frames {
		s.scratch = make([][2]float64, frames)
	}
	n, ok := s.stream.Stream(s.scratch[:frames])
	for i := 0; i < n; i++ {
		dst[i*2] = s.scratch[i][0]
		dst[i*2+1] = s.scratch[i][1]
	}
	if n == 0 && !ok {
		if err := s.stream.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return n, nil
}

func (s *beepSource) Close() error {
	err := s.stream.Close()
	// The mp3/vorbis decoders close the underlying reader themselves;
	// flac does not. Closing twice is harmless here.
	_ = s.f.Close()
	return err
}
