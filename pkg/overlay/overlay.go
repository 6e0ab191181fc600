// Package overlay renders the per-frame test patterns: a binary frame
// counter, scrolling bars, sync dots, an alignment grid, a scrolling
// ticker and snow noise.
//
// All patterns are pure functions of the frame index and the Config,
// except snow, which draws from its own seeded random source. A Renderer
// produces one fresh transparent RGBA layer per call; compositing it over
// a background frame is the pipeline's job.
package overlay

// Config holds all overlay parameters. It is fixed at Renderer
// construction and never mutated afterwards.
type Config struct {
	Width  int // Canvas width in pixels
	Height int // Canvas height in pixels

	QuadCounters bool // One counter per quadrant (2x2 video wall) instead of bottom-left

	EnableBars bool
	BarWidth   int // Bar thickness in pixels
	BarSpeed   int // Scroll speed in px/frame; also drives the sync dots

	EnableSyncDots bool
	SyncDotCount   int // Dots per side of the center dot (2n+1 total)

	EnableGrid bool

	EnableTicker bool
	TickerSpeed  int    // Scroll speed in px/frame
	TickerText   string // Text to render; takes precedence over TickerImage
	TickerImage  string // Image file path for the ticker strip

	EnableSnow    bool
	SnowBlockSize int // Noise block quantization size in pixels
	SnowCoverage  int // Covered area as a percentage of the canvas

	SnowSeed int64 // 0 seeds from the clock; fixed seeds give reproducible snow
}

// DefaultConfig returns the canonical 1080p configuration with every
// overlay enabled.
func DefaultConfig() Config {
	return Config{
		Width:          1920,
		Height:         1080,
		EnableBars:     true,
		BarWidth:       100,
		BarSpeed:       5,
		EnableSyncDots: true,
		SyncDotCount:   3,
		EnableGrid:     true,
		EnableTicker:   true,
		TickerSpeed:    10,
		EnableSnow:     true,
		SnowBlockSize:  32,
		SnowCoverage:   100,
	}
}
