package player

import (
	"context"
	"time"

	"github.com/gopxl/beep/v2"
)

// RunSilent pulls the streamer at real-time pace without a device,
// discarding the audio. It stands in for the speaker when no output
// device is available so the rest of the program, visualization
// included, keeps working. Blocks until ctx is cancelled.
func RunSilent(ctx context.Context, s beep.Streamer, sampleRate, bufferFrames int) {
	if bufferFrames <= 0 {
		bufferFrames = 2048
	}
	buf := make([][2]float64, bufferFrames)
	interval := time.Duration(bufferFrames) * time.Second / time.Duration(sampleRate)

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			s.Stream(buf)
		}
	}
}
