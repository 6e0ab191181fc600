// counter.go - 32-bit binary frame counter, the one overlay that is
// always drawn: without it no frame can be identified downstream.
package overlay

import (
	"encoding/binary"
	"image"
	"image/color"
)

var (
	counterOn    = color.NRGBA{G: 255, A: 255}
	counterOff   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	counterPanel = color.NRGBA{A: 255}
)

// drawCounter renders the frame index as 4 big-endian bytes on a 4-row by
// 8-column grid of bit cells: green for 1, white for 0, on an opaque
// black panel. Cell and margin sizes are fractions of the canvas so the
// layout scales with resolution.
//
// Single mode anchors one panel bottom-left. Quad mode puts one panel at
// the top-left of each quadrant, so every tile of a 2x2 video wall
// carries the frame number at the same relative position.
func (r *Renderer) drawCounter(img *image.NRGBA, frame int) {
	const bits, cols = 32, 8
	w, h := r.cfg.Width, r.cfg.Height

	bitW := w * 2 / 100
	bitH := h * 2 / 100
	padX := w * 4 / 1000
	padY := h * 4 / 1000
	marginX := w * 2 / 100
	marginY := h * 2 / 100

	rows := bits / cols
	panelW := cols*(padX+bitW) + padX
	panelH := rows*(padY+bitH) + padY

	var data [4]byte
	binary.BigEndian.PutUint32(data[:], uint32(frame))

	var origins []image.Point
	if r.cfg.QuadCounters {
		halfW, halfH := w/2, h/2
		origins = []image.Point{
			{X: marginX, Y: marginY},
			{X: halfW + marginX, Y: marginY},
			{X: marginX, Y: halfH + marginY},
			{X: halfW + marginX, Y: halfH + marginY},
		}
	} else {
		origins = []image.Point{{X: marginX, Y: h - marginY - panelH}}
	}

	for _, o := range origins {
		fillRect(img, image.Rect(o.X, o.Y, o.X+panelW, o.Y+panelH), counterPanel)

		for i := 0; i < bits; i++ {
			c := counterOff
			if data[i/8]>>(7-i%8)&1 == 1 {
				c = counterOn
			}
			x := o.X + padX + i%cols*(bitW+padX)
			y := o.Y + padY + i/cols*(bitH+padY)
			fillRect(img, image.Rect(x, y, x+bitW, y+bitH), c)
		}
	}
}
