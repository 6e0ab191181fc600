// Package pipeline drives frame generation: it pulls a background frame,
// renders the overlay layer, alpha-composites the two, and pushes packed
// RGB24 bytes into one or more encoder sinks.
//
// The loop is single-threaded and frame-sequential on purpose: writes to
// an ffmpeg sink block on the process's input buffering, so generation
// rate is throttled by encoder throughput.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/xob0t/GoSyncGen/pkg/overlay"
)

// Config holds the generation parameters for one run.
type Config struct {
	Width     int
	Height    int
	Framerate int
	Frames    int
	Codec     string // h264, h265, av1 (ffmpeg) or mjpeg (built-in AVI)
	Bitrate   string
	Input     string // background video file; empty means solid color
	StartTime string // seconds to skip in the input, ffmpeg -ss syntax
	Output    string
	DumpDir   string // when set, frames are also written as PNGs
	BGColor   color.NRGBA
}

// Sink accepts packed RGB24 frames in display order. Close flushes and
// must be called on every exit path.
type Sink interface {
	Write(p []byte) (int, error)
	Close() error
}

// Pipeline composites overlay frames over backgrounds and feeds sinks.
type Pipeline struct {
	cfg      Config
	renderer *overlay.Renderer
	provider BackgroundProvider
	sinks    []Sink
}

// NewPipeline assembles a pipeline from already-constructed parts. A nil
// provider means the constant-color background from the start.
func NewPipeline(cfg Config, r *overlay.Renderer, provider BackgroundProvider, sinks ...Sink) *Pipeline {
	return &Pipeline{cfg: cfg, renderer: r, provider: provider, sinks: sinks}
}

// Run generates frames 1..cfg.Frames. When the background source runs
// out, the remaining frames use the constant-color fallback; the first
// sink error stops the loop and is returned. Run does not close the
// sinks.
func (p *Pipeline) Run() error {
	w, h := p.cfg.Width, p.cfg.Height
	out := make([]byte, w*h*3)
	fallback := NewSolidBackground(w, h, p.cfg.BGColor)

	provider := p.provider
	if provider == nil {
		provider = fallback
	}

	total := p.cfg.Frames
	report := total / 10
	if report < 1 {
		report = 1
	}

	for frame := 1; frame <= total; frame++ {
		bg, err := provider.Next()
		if err != nil {
			if !errors.Is(err, ErrSourceExhausted) {
				fmt.Fprintf(os.Stderr, "Warning: background source failed: %v, using solid color\n", err)
			}
			provider = fallback
			bg, _ = provider.Next()
		}
		copy(out, bg)

		layer := p.renderer.Render(frame)
		blendOver(out, layer, w, h)

		for _, s := range p.sinks {
			if _, err := s.Write(out); err != nil {
				return fmt.Errorf("write frame %d: %w", frame, err)
			}
		}

		if frame%report == 0 || frame == total {
			fmt.Printf("  frame %d/%d (%d%%)\n", frame, total, 100*frame/total)
		}
	}

	return nil
}

// blendOver alpha-composites the overlay onto the packed RGB24 frame in
// place. Fully transparent overlay pixels leave the background intact,
// fully opaque ones replace it.
func blendOver(dst []byte, src *image.NRGBA, w, h int) {
	for y := 0; y < h; y++ {
		srow := src.Pix[y*src.Stride : y*src.Stride+w*4]
		drow := dst[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			a := uint32(srow[x*4+3])
			switch a {
			case 0:
			case 255:
				drow[x*3] = srow[x*4]
				drow[x*3+1] = srow[x*4+1]
				drow[x*3+2] = srow[x*4+2]
			default:
				for c := 0; c < 3; c++ {
					s := uint32(srow[x*4+c])
					d := uint32(drow[x*3+c])
					drow[x*3+c] = byte((s*a + d*(255-a) + 127) / 255)
				}
			}
		}
	}
}

// Generate wires up the collaborators for cfg and runs the frame loop.
// Both byte channels are closed and awaited on every exit path, so a
// broken encoder or decoder still leaves no orphan processes behind.
func Generate(ocfg overlay.Config, cfg Config) error {
	renderer, err := overlay.NewRenderer(ocfg)
	if err != nil {
		return err
	}

	var sinks []Sink
	closeSinks := func() error {
		var first error
		for _, s := range sinks {
			if err := s.Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	if cfg.Codec == "mjpeg" {
		avi, err := NewAVIWriter(cfg.Output, cfg.Width, cfg.Height, cfg.Framerate)
		if err != nil {
			return err
		}
		sinks = append(sinks, avi)
	} else {
		enc, err := StartEncoder(cfg)
		if err != nil {
			return err
		}
		sinks = append(sinks, enc)
	}

	if cfg.DumpDir != "" {
		dumper, err := NewFrameDumper(cfg.DumpDir, cfg.Width, cfg.Height)
		if err != nil {
			closeSinks()
			return err
		}
		sinks = append(sinks, dumper)
	}

	var provider BackgroundProvider
	var decoder *Decoder
	if cfg.Input != "" {
		decoder, err = StartDecoder(cfg)
		if err != nil {
			closeSinks()
			return err
		}
		provider = NewStreamBackground(decoder.Stdout(), cfg.Width, cfg.Height)
	}

	fmt.Printf("Generating %d frames at %d fps, %dx%d, codec=%s ...\n",
		cfg.Frames, cfg.Framerate, cfg.Width, cfg.Height, cfg.Codec)

	runErr := NewPipeline(cfg, renderer, provider, sinks...).Run()

	// Orderly shutdown regardless of how the loop ended: flush and await
	// the encoder channel, then the decoder channel.
	if err := closeSinks(); err != nil && runErr == nil {
		runErr = err
	}
	if decoder != nil {
		if err := decoder.Close(); err != nil && runErr != nil {
			// Early abort leaves unread decoder output; the non-zero
			// exit is a consequence, not a second failure.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else if err != nil && runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("Done. Output: %s\n", cfg.Output)
	return nil
}
