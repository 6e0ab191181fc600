// snow.go - Noise overlay simulating analog static. A tall buffer of
// block-quantized random rows is generated once; each frame samples a
// random contiguous window from it, which gives temporally incoherent
// noise without per-frame regeneration cost.
package overlay

import (
	"image"
	"image/draw"
	"math/rand"
	"time"
)

// snowPages replicates the covered area this many times in the buffer so
// window sampling has enough distinct rows to avoid short-period
// artifacts.
const snowPages = 10

type snowBuffer struct {
	w, h int      // sampled window size in pixels
	rows [][]byte // RGB pixel rows; rows within one block share backing storage
	rng  *rand.Rand
}

// newSnowBuffer precomputes the noise rows for cfg. The covered area is
// SnowCoverage percent of the canvas, aligned down to the block size.
// Returns nil when the area is smaller than one block.
func newSnowBuffer(cfg Config) *snowBuffer {
	k := cfg.SnowBlockSize
	sw := cfg.Width * cfg.SnowCoverage / 100
	sh := cfg.Height * cfg.SnowCoverage / 100
	sw -= sw % k
	sh -= sh % k
	if sw <= 0 || sh <= 0 {
		return nil
	}

	seed := cfg.SnowSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cols := sw / k
	blockRows := sh / k * snowPages

	rows := make([][]byte, 0, blockRows*k)
	for br := 0; br < blockRows; br++ {
		row := make([]byte, 0, sw*3)
		for c := 0; c < cols; c++ {
			cr, cg, cb := byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256))
			for px := 0; px < k; px++ {
				row = append(row, cr, cg, cb)
			}
		}
		for i := 0; i < k; i++ {
			rows = append(rows, row)
		}
	}

	return &snowBuffer{w: sw, h: sh, rows: rows, rng: rng}
}

// draw samples a random window of rows and pastes it, fully opaque,
// centered on the canvas. The row draw is the renderer's only source of
// non-determinism; everything else is a pure function of the frame index.
func (s *snowBuffer) draw(img *image.NRGBA) {
	start := 0
	if total := len(s.rows); total > s.h {
		start = s.rng.Intn(total - s.h)
	}

	win := image.NewNRGBA(image.Rect(0, 0, s.w, s.h))
	for y := 0; y < s.h; y++ {
		row := s.rows[start+y]
		o := win.PixOffset(0, y)
		for x := 0; x < s.w; x++ {
			win.Pix[o] = row[x*3]
			win.Pix[o+1] = row[x*3+1]
			win.Pix[o+2] = row[x*3+2]
			win.Pix[o+3] = 255
			o += 4
		}
	}

	ox := (img.Bounds().Dx() - s.w) / 2
	oy := (img.Bounds().Dy() - s.h) / 2
	draw.Draw(img, image.Rect(ox, oy, ox+s.w, oy+s.h), win, image.Point{}, draw.Src)
}
