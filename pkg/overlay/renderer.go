// renderer.go - Overlay composition for a single frame. Builds a fresh
// transparent canvas per call and draws the enabled overlays in a fixed
// order so the binary counter always ends up on top.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
)

// Renderer draws the overlay layer for successive frames. Construct it
// once per run; the ticker strip and snow buffer are precomputed here and
// shared read-only by every Render call.
type Renderer struct {
	cfg    Config
	ticker *tickerStrip
	snow   *snowBuffer
}

// NewRenderer validates the configuration and precomputes the shared
// ticker and snow assets. An unusable ticker source disables the ticker
// with a warning instead of failing the run.
func NewRenderer(cfg Config) (*Renderer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", cfg.Width, cfg.Height)
	}

	r := &Renderer{cfg: cfg}

	if cfg.EnableTicker {
		strip, err := buildTickerStrip(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v, disabling ticker\n", err)
		} else {
			r.ticker = strip
		}
	}

	if cfg.EnableSnow && cfg.SnowBlockSize > 0 {
		r.snow = newSnowBuffer(cfg)
	}

	return r, nil
}

// Render produces the overlay layer for one frame on a fully transparent
// canvas. Draw order is fixed: grid, snow (when covering at most half the
// canvas), bars, snow (when covering more), ticker, sync dots, counter.
// The counter is drawn last so the frame number stays readable over
// every other overlay.
func (r *Renderer) Render(frame int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))

	if r.cfg.EnableGrid {
		r.drawGrid(img)
	}
	if r.snow != nil && r.cfg.SnowCoverage <= 50 {
		r.snow.draw(img)
	}
	if r.cfg.EnableBars {
		r.drawBars(img, frame)
	}
	if r.snow != nil && r.cfg.SnowCoverage > 50 {
		r.snow.draw(img)
	}
	if r.ticker != nil {
		r.ticker.draw(img, frame)
	}
	if r.cfg.EnableSyncDots {
		r.drawSyncDots(img, frame)
	}
	r.drawCounter(img, frame)

	return img
}

// fillRect replaces the pixels of rect with c, clipped to the canvas.
// Replacement rather than blending is what makes the bar, dot, grid and
// counter rectangles layer over each other the way the draw order says.
func fillRect(img *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// mod returns the non-negative remainder of a/n, which the scroll math
// needs for negative dot offsets.
func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
