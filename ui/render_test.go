package ui

import (
	"strings"
	"testing"

	"github.com/Ernestas-t/audirust/params"
)

func TestRenderFrameGeometry(t *testing.T) {
	r := NewRenderer(60, 24)
	f := Frame{
		Mode:   ModeNormal,
		Keys:   DefaultKeymap(),
		State:  "playing",
		Path:   "song.wav",
		Params: params.Defaults(),
		Bars:   make([]float64, 120),
	}

	lines := r.Render(f)
	if len(lines) != 24 {
		t.Fatalf("rendered %d lines, want 24", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n > 60 {
			t.Fatalf("line %d is %d cells wide, want <= 60", i, n)
		}
	}
	if !strings.Contains(lines[0], "playing") || !strings.Contains(lines[0], "song.wav") {
		t.Fatalf("title line %q missing state or track", lines[0])
	}
	if !strings.Contains(lines[len(lines)-1], "NORMAL") {
		t.Fatalf("mode line %q missing mode", lines[len(lines)-1])
	}
}

func TestRenderGauges(t *testing.T) {
	r := NewRenderer(80, 24)
	p := params.Defaults()
	p.Volume = params.MaxVolume
	p.Cutoff = params.MaxCutoff

	out := strings.Join(r.Render(Frame{Mode: ModeNormal, Keys: DefaultKeymap(), State: "idle", Params: p}), "\n")
	if !strings.Contains(out, strings.Repeat("#", gaugeWidth)) {
		t.Fatal("full volume gauge not fully filled")
	}
	if !strings.Contains(out, "off") {
		t.Fatal("cutoff at maximum not labelled off")
	}
}

func TestRenderBrowserSelection(t *testing.T) {
	r := NewRenderer(80, 24)
	f := Frame{
		Mode:      ModeBrowser,
		Keys:      DefaultKeymap(),
		State:     "idle",
		Params:    params.Defaults(),
		Dir:       "/music",
		Entries:   []string{"ambient/", "a.wav", "b.flac"},
		Selection: 1,
	}

	out := r.Render(f)
	var marked string
	for _, line := range out {
		if strings.HasPrefix(line, "> ") {
			marked = line
		}
	}
	if !strings.Contains(marked, "a.wav") {
		t.Fatalf("selection marker on %q, want a.wav", marked)
	}
}

func TestRenderMinHeightKeepsChrome(t *testing.T) {
	r := NewRenderer(40, chromeLines+minVizRows)
	f := Frame{
		Mode:   ModeNormal,
		Keys:   DefaultKeymap(),
		State:  "playing",
		Params: params.Defaults(),
		Bars:   make([]float64, 40),
		Messages: []string{
			"msg 0", "msg 1", "msg 2", "msg 3", "msg 4",
		},
	}

	lines := r.Render(f)
	if len(lines) != chromeLines+minVizRows {
		t.Fatalf("rendered %d lines, want %d", len(lines), chromeLines+minVizRows)
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "NORMAL") {
		t.Fatalf("mode line truncated away, last line = %q", last)
	}
	if !strings.Contains(lines[len(lines)-2], "play") {
		t.Fatalf("help line truncated away, line = %q", lines[len(lines)-2])
	}
	// The newest message survives; the oldest yield to the bars.
	out := strings.Join(lines, "\n")
	if !strings.Contains(out, "msg 4") {
		t.Fatal("newest message dropped instead of oldest")
	}
}

func TestRenderEmptyBars(t *testing.T) {
	r := NewRenderer(40, 20)
	lines := r.Render(Frame{Mode: ModeNormal, Keys: DefaultKeymap(), State: "idle", Params: params.Defaults()})
	if len(lines) != 20 {
		t.Fatalf("rendered %d lines, want 20", len(lines))
	}
}
