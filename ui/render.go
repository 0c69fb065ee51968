package ui

import (
	"fmt"
	"strings"

	"github.com/Ernestas-t/audirust/params"
)

// View selects which visualization the renderer draws.
type View int

const (
	ViewWaveform View = iota
	ViewSpectrum
)

func (v View) String() string {
	if v == ViewSpectrum {
		return "spectrum"
	}
	return "waveform"
}

const (
	gaugeWidth  = 24
	minVizRows  = 4
	chromeLines = 12
)

var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// Frame is everything the renderer needs for one redraw. The renderer
// is a read-only consumer: it never touches the store or the machine.
type Frame struct {
	Mode     Mode
	Keys     Keymap
	State    string
	Path     string
	Params   params.Params
	View     View
	Bars     []float64
	Messages []string

	// Browser listing, only drawn in browser mode.
	Dir       string
	Entries   []string
	Selection int
}

// Renderer draws frames as plain text lines sized to the terminal. The
// application loop owns the cursor and the alternate screen.
type Renderer struct {
	width  int
	height int
}

// NewRenderer returns a renderer for the given terminal size.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{}
	r.Resize(width, height)
	return r
}

// Resize updates the target terminal size.
func (r *Renderer) Resize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < chromeLines+minVizRows {
		height = chromeLines + minVizRows
	}
	r.width = width
	r.height = height
}

// Render lays out one frame as exactly r.height lines of at most
// r.width cells.
func (r *Renderer) Render(f Frame) []string {
	lines := make([]string, 0, r.height)

	track := f.Path
	if track == "" {
		track = "-"
	}
	lines = append(lines,
		r.fit(fmt.Sprintf("audirust  [%s]  %s", f.State, track)),
		"")

	lines = append(lines,
		r.fit(gauge("volume", f.Params.Volume, params.MinVolume, params.MaxVolume, fmt.Sprintf("%.0f%%", f.Params.Volume*100))),
		r.fit(gauge("speed ", f.Params.Speed, params.MinSpeed, params.MaxSpeed, fmt.Sprintf("%.2fx", f.Params.Speed))),
		r.fit(gauge("cutoff", f.Params.Cutoff, params.MinCutoff, params.MaxCutoff, cutoffLabel(f.Params.Cutoff))),
		r.fit(fmt.Sprintf("reverb  %s", onOff(f.Params.Reverb))),
		"")

	if f.Mode == ModeBrowser {
		lines = append(lines, r.browserLines(f, r.height-len(lines)-3)...)
	} else {
		// At small heights the message log yields to the visualization
		// so the help and mode lines are never pushed off screen.
		avail := r.height - len(lines) - 3
		msgs := f.Messages
		for len(msgs) > 0 && avail-len(msgs) < minVizRows {
			msgs = msgs[1:]
		}
		lines = append(lines, r.vizLines(f.Bars, avail-len(msgs))...)
		for _, msg := range msgs {
			lines = append(lines, r.fit("  "+msg))
		}
	}

	lines = append(lines, "", r.fit(helpLine(f.Mode, f.Keys)), r.fit(fmt.Sprintf("-- %s --", f.Mode)))

	for len(lines) < r.height {
		lines = append(lines, "")
	}
	return lines[:r.height]
}

// vizLines draws the bars as a rows-tall column chart, tallest values
// clipped to the top row.
func (r *Renderer) vizLines(bars []float64, rows int) []string {
	if rows < minVizRows {
		rows = minVizRows
	}
	cols := r.width
	if len(bars) < cols {
		cols = len(bars)
	}

	out := make([]string, rows)
	var b strings.Builder
	for row := 0; row < rows; row++ {
		b.Reset()
		// Cell value in [0, 1] covered by this row, top row first.
		hi := float64(rows-row) / float64(rows)
		lo := float64(rows-row-1) / float64(rows)
		for c := 0; c < cols; c++ {
			v := bars[c]
			switch {
			case v >= hi:
				b.WriteRune(barGlyphs[len(barGlyphs)-1])
			case v <= lo:
				b.WriteRune(' ')
			default:
				frac := (v - lo) * float64(rows)
				idx := int(frac * float64(len(barGlyphs)-1))
				b.WriteRune(barGlyphs[idx])
			}
		}
		out[row] = b.String()
	}
	return out
}

func (r *Renderer) browserLines(f Frame, rows int) []string {
	out := make([]string, 0, rows)
	out = append(out, r.fit(fmt.Sprintf("  %s", f.Dir)))
	rows--

	if len(f.Entries) == 0 {
		out = append(out, r.fit("  (no audio files)"))
		return out
	}

	// Keep the selection visible: scroll the window around it.
	start := 0
	if f.Selection >= rows {
		start = f.Selection - rows + 1
	}
	for i := start; i < len(f.Entries) && i-start < rows; i++ {
		marker := "  "
		if i == f.Selection {
			marker = "> "
		}
		out = append(out, r.fit(marker+f.Entries[i]))
	}
	return out
}

func (r *Renderer) fit(s string) string {
	runes := []rune(s)
	if len(runes) > r.width {
		return string(runes[:r.width])
	}
	return s
}

func gauge(label string, v, min, max float64, value string) string {
	frac := 0.0
	if max > min {
		frac = (v - min) / (max - min)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*float64(gaugeWidth) + 0.5)
	return fmt.Sprintf("%s  [%s%s] %s",
		label,
		strings.Repeat("#", filled),
		strings.Repeat("-", gaugeWidth-filled),
		value)
}

func cutoffLabel(cutoff float64) string {
	if cutoff >= params.MaxCutoff {
		return "off"
	}
	return fmt.Sprintf("%.0f Hz", cutoff)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func helpLine(m Mode, k Keymap) string {
	switch m {
	case ModeNormal:
		return fmt.Sprintf("%c play  %c loop  esc stop  %c reverb  %c view  %c menu  %c quit",
			k.PlayOnce, k.PlayLoop, k.ToggleReverb, k.ToggleView, k.Menu, k.Quit)
	case ModeMenu:
		return fmt.Sprintf("%c volume  %c pitch  %c filter  %c browser  esc back",
			k.MenuVolume, k.MenuPitch, k.MenuFilter, k.MenuBrowser)
	case ModeVolume, ModePitch, ModeFilter:
		return fmt.Sprintf("%c/up increase  %c/down decrease  esc back", k.Increase, k.Decrease)
	case ModeBrowser:
		return fmt.Sprintf("%c/%c move  %c parent  enter open  esc back",
			k.BrowserNext, k.BrowserPrev, k.BrowserParent)
	}
	return ""
}
