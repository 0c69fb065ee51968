package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"github.com/Ernestas-t/audirust/browser"
	"github.com/Ernestas-t/audirust/params"
	"github.com/Ernestas-t/audirust/player"
	"github.com/Ernestas-t/audirust/ui"
	"github.com/Ernestas-t/audirust/viz"
)

const spectrumFFTSize = 2048

type appConfig struct {
	targetFPS  float64
	sampleRate int
	visualOnly bool
	keys       ui.Keymap
	log        *log.Logger
}

type keyEvent struct {
	ch  rune
	key keyboard.Key
}

// app ties together the engine, the input machine, and the renderer.
type app struct {
	cfg      appConfig
	engine   *player.Engine
	store    *params.Store
	tap      *viz.Tap
	files    *browser.Browser
	machine  *ui.Machine
	renderer *ui.Renderer
	waveform *viz.Waveform
	spectrum *viz.Spectrum
	view     ui.View

	width  int
	height int
	start  time.Time
	events chan keyEvent
}

func newApp(cfg appConfig, engine *player.Engine, store *params.Store, tap *viz.Tap, files *browser.Browser) (*app, error) {
	if cfg.targetFPS <= 0 {
		cfg.targetFPS = 30
	}
	if cfg.log == nil {
		cfg.log = log.New(os.Stderr, "", log.LstdFlags)
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		width, height = w, h
	}

	spectrum, err := viz.NewSpectrum(spectrumFFTSize, width, cfg.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	a := &app{
		cfg:      cfg,
		engine:   engine,
		store:    store,
		tap:      tap,
		files:    files,
		machine:  ui.NewMachine(cfg.keys, store, files),
		renderer: ui.NewRenderer(width, height),
		waveform: viz.NewWaveform(width),
		spectrum: spectrum,
		width:    width,
		height:   height,
		start:    time.Now(),
	}
	if cfg.visualOnly {
		a.machine.Notef("no audio device, visual-only mode")
	}
	return a, nil
}

// Run drives the redraw ticker and the input listener until quit or
// context cancellation.
func (a *app) Run(ctx context.Context) error {
	frameDuration := time.Duration(float64(time.Second) / a.cfg.targetFPS)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	enterAltScreen()
	clearScreen()
	hideCursor()
	defer func() {
		showCursor()
		exitAltScreen()
	}()

	inputCtx, cancelInput := context.WithCancel(ctx)
	defer cancelInput()
	a.startInputListener(inputCtx)

	for {
		select {
		case <-ctx.Done():
			moveCursorHome()
			return ctx.Err()
		case evt, ok := <-a.events:
			if !ok {
				a.events = nil
				continue
			}
			if quit := a.handle(evt); quit {
				moveCursorHome()
				return nil
			}
		case <-ticker.C:
			a.step()
		}
	}
}

func (a *app) handle(evt keyEvent) (quit bool) {
	cmd := a.machine.Handle(evt.ch, evt.key)
	switch cmd.Kind {
	case ui.CmdQuit:
		return true
	case ui.CmdPlayOnce:
		if err := a.engine.PlayOnce(cmd.Path); err != nil {
			a.machine.Notef("cannot play: %v", err)
		} else {
			a.machine.Notef("playing %s", cmd.Path)
		}
	case ui.CmdPlayLoop:
		if err := a.engine.PlayLoop(cmd.Path); err != nil {
			a.machine.Notef("cannot play: %v", err)
		} else {
			a.machine.Notef("looping %s", cmd.Path)
		}
	case ui.CmdStop:
		if a.engine.IsPlaying() {
			a.engine.Stop()
			a.machine.Notef("stopped")
		}
	case ui.CmdToggleView:
		if a.view == ui.ViewWaveform {
			a.view = ui.ViewSpectrum
		} else {
			a.view = ui.ViewWaveform
		}
	}
	return false
}

func (a *app) step() {
	a.ensureDimensions()

	snap := a.store.Snapshot()
	active := a.engine.IsPlaying()
	samples := a.tap.Samples(spectrumFFTSize)

	var bars []float64
	if a.view == ui.ViewSpectrum {
		a.spectrum.Update(samples)
		bars = a.spectrum.Values()
	} else {
		a.updateWaveform(samples, snap, active)
		bars = a.waveform.Values()
	}

	frame := ui.Frame{
		Mode:      a.machine.Mode(),
		Keys:      a.machine.Keys(),
		State:     a.engine.CurrentState().String(),
		Path:      a.engine.Path(),
		Params:    snap,
		View:      a.view,
		Bars:      bars,
		Messages:  a.machine.Messages(),
		Dir:       a.files.Dir(),
		Entries:   a.files.Entries(),
		Selection: a.files.Selection(),
	}

	moveCursorHome()
	for _, line := range a.renderer.Render(frame) {
		fmt.Print(line, "\x1b[K\r\n")
	}
}

func (a *app) ensureDimensions() {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return
	}
	if w == a.width && h == a.height {
		return
	}
	a.resize(w, h)
	clearScreen()
}

// resize rebuilds the width-dependent visualizers for a new terminal
// geometry.
func (a *app) resize(w, h int) {
	a.width = w
	a.height = h
	a.renderer.Resize(w, h)
	a.waveform = viz.NewWaveform(w)
	if spectrum, err := viz.NewSpectrum(spectrumFFTSize, w, a.cfg.sampleRate); err == nil {
		a.spectrum = spectrum
	}
}

func (a *app) startInputListener(ctx context.Context) {
	if err := keyboard.Open(); err != nil {
		a.cfg.log.Printf("keyboard input disabled: %v", err)
		a.events = nil
		return
	}

	events := make(chan keyEvent, 16)
	a.events = events

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer close(events)
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			ch, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case events <- keyEvent{ch: ch, key: key}:
			}
		}
	}()
}

// updateWaveform feeds the waveform from the tap. Device-less mode
// still decodes through the null sink, so the tap carries real samples;
// the synthetic wave only bridges the moment before any audio has
// flowed.
func (a *app) updateWaveform(samples []float64, snap params.Params, active bool) {
	if a.cfg.visualOnly && active && !hasSignal(samples) {
		a.waveform.Simulate(time.Since(a.start).Seconds(), snap)
		return
	}
	a.waveform.Update(samples, snap, active, a.cfg.sampleRate)
}

func hasSignal(samples []float64) bool {
	for _, v := range samples {
		if v != 0 {
			return true
		}
	}
	return false
}

func clearScreen() {
	fmt.Print("\x1b[2J")
	moveCursorHome()
}

func moveCursorHome() {
	fmt.Print("\x1b[H")
}

func hideCursor() {
	fmt.Print("\x1b[?25l")
}

func showCursor() {
	fmt.Print("\x1b[?25h")
}

func enterAltScreen() {
	fmt.Print("\x1b[?1049h")
}

func exitAltScreen() {
	fmt.Print("\x1b[?1049l\x1b[0m")
}
