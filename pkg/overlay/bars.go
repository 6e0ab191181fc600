// bars.go - Translucent scrolling bars, one vertical and one horizontal.
package overlay

import (
	"image"
	"image/color"
)

var barColor = color.NRGBA{R: 204, G: 204, B: 204, A: 200}

// drawBars draws a full-height vertical bar scrolling right and a
// full-width horizontal bar scrolling down, both BarWidth thick and
// moving BarSpeed px/frame. A bar crossing the canvas edge is split into
// two rectangles whose union matches an unwrapped bar on an infinite
// strip, so the scroll never jumps at the seam.
func (r *Renderer) drawBars(img *image.NRGBA, frame int) {
	w, h := r.cfg.Width, r.cfg.Height
	bw := r.cfg.BarWidth

	x := mod(frame*r.cfg.BarSpeed, w)
	if x+bw > w {
		fillRect(img, image.Rect(x, 0, w, h), barColor)
		fillRect(img, image.Rect(0, 0, x+bw-w, h), barColor)
	} else {
		fillRect(img, image.Rect(x, 0, x+bw, h), barColor)
	}

	y := mod(frame*r.cfg.BarSpeed, h)
	if y+bw > h {
		fillRect(img, image.Rect(0, y, w, h), barColor)
		fillRect(img, image.Rect(0, 0, w, y+bw-h), barColor)
	} else {
		fillRect(img, image.Rect(0, y, w, y+bw), barColor)
	}
}
