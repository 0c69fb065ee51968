package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/Ernestas-t/audirust/browser"
	"github.com/Ernestas-t/audirust/params"
	"github.com/Ernestas-t/audirust/player"
	"github.com/Ernestas-t/audirust/preset"
	"github.com/Ernestas-t/audirust/viz"
)

func main() {
	dir := flag.String("dir", ".", "Directory to browse for audio files")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	sampleRate := flag.Int("rate", 44100, "Output sample rate in Hz")
	bufferMs := flag.Int("buffer", 50, "Output buffer length in milliseconds")
	fps := flag.Float64("fps", 30, "Target redraw rate")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg := preset.Defaults()
	if *presetPath != "" {
		var err error
		cfg, err = preset.LoadJSON(*presetPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		if errors.Is(err, fs.ErrNotExist) {
			logger.Printf("preset %q not found, using defaults", *presetPath)
		}
	}

	files, err := browser.New(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening directory %q: %v\n", *dir, err)
		os.Exit(1)
	}

	bufferFrames := *sampleRate * *bufferMs / 1000
	if bufferFrames < 64 {
		bufferFrames = 64
	}

	store := params.NewStore()
	store.Apply(cfg.Params)
	tap := viz.NewTap(1 << 14)
	engine := player.New(*sampleRate, store, tap, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Without an output device everything but the sound keeps working:
	// the null sink pulls the engine at buffer cadence instead.
	visualOnly := false
	err = speaker.Init(beep.SampleRate(*sampleRate), bufferFrames)
	if err != nil {
		visualOnly = true
		logger.Printf("audio device unavailable, running visual-only: %v", err)
		go player.RunSilent(ctx, engine, *sampleRate, bufferFrames)
	} else {
		speaker.Play(engine)
		defer speaker.Close()
	}

	if err := files.Watch(ctx, logger); err != nil {
		logger.Printf("directory watching disabled: %v", err)
	}

	a, err := newApp(appConfig{
		targetFPS:  *fps,
		sampleRate: *sampleRate,
		visualOnly: visualOnly,
		keys:       cfg.Keys,
		log:        logger,
	}, engine, store, tap, files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	engine.Stop()
	// Give the device one buffer of silence before the screen restores.
	if !visualOnly {
		time.Sleep(time.Duration(*bufferMs) * time.Millisecond)
	}
}
