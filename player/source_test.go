package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeWAV writes a minimal 16-bit PCM WAV file with the given
// interleaved samples in [-1, 1].
func writeWAV(t *testing.T, path string, sampleRate, channels int, samples []float64) {
	t.Helper()

	var data bytes.Buffer
	for _, v := range samples {
		s := int16(math.Round(v * 32767))
		binary.Write(&data, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestOpenWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.wav")
	want := []float64{0, 0.25, 0.5, 0.75, -0.25, -0.5}
	writeWAV(t, path, 8000, 1, want)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if got := src.SampleRate(); got != 8000 {
		t.Fatalf("SampleRate = %d, want 8000", got)
	}
	if got := src.Channels(); got != 1 {
		t.Fatalf("Channels = %d, want 1", got)
	}

	dst := make([]float64, len(want))
	n, err := src.Read(dst)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(want) {
		t.Fatalf("Read = %d frames, want %d", n, len(want))
	}
	for i, w := range want {
		if math.Abs(dst[i]-w) > 1.0/32767*2 {
			t.Fatalf("sample %d = %g, want about %g", i, dst[i], w)
		}
	}

	if _, err := src.Read(dst); !errors.Is(err, io.EOF) {
		t.Fatalf("Read at end = %v, want io.EOF", err)
	}
}

func TestOpenWAVStereoPartialReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	samples := make([]float64, 40) // 20 frames
	for i := range samples {
		samples[i] = float64(i) / 64
	}
	writeWAV(t, path, 44100, 2, samples)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	var got []float64
	dst := make([]float64, 6) // 3 frames per read
	for {
		n, err := src.Read(dst)
		got = append(got, dst[:n*2]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	for i, w := range samples {
		if math.Abs(got[i]-w) > 1.0/32767*2 {
			t.Fatalf("sample %d = %g, want about %g", i, got[i], w)
		}
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Open error = %v, want ErrUnsupportedFormat", err)
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("Open error = %v, want ErrSourceUnavailable in chain", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.wav"))
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("Open error = %v, want ErrSourceUnavailable", err)
	}
}

func TestOpenGarbageWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("RIFFgarbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("Open error = %v, want ErrSourceUnavailable", err)
	}
}
