// grid.go - Static alignment marks for verifying geometry and cropping.
package overlay

import (
	"image"
	"image/color"
)

var gridColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// drawGrid draws 10px white squares every 20px out of all four corners,
// along both edges meeting at each corner, covering a seventh of each
// edge's length. The pattern has no time dependence, so any frame-to-
// frame movement of these marks indicates a geometry problem downstream.
func (r *Renderer) drawGrid(img *image.NRGBA) {
	w, h := r.cfg.Width, r.cfg.Height
	const sq = 10

	// horizontal runs from the top and bottom corners
	for i := 0; i < w/7; i += 20 {
		fillRect(img, image.Rect(i, h-sq, i+sq, h), gridColor)
		fillRect(img, image.Rect(i, 0, i+sq, sq), gridColor)
		fillRect(img, image.Rect(w-sq-i, h-sq, w-i, h), gridColor)
		fillRect(img, image.Rect(w-sq-i, 0, w-i, sq), gridColor)
	}

	// vertical runs from the left and right corners
	for i := 0; i < h/7; i += 20 {
		fillRect(img, image.Rect(0, h-sq-i, sq, h-i), gridColor)
		fillRect(img, image.Rect(w-sq, h-sq-i, w, h-i), gridColor)
		fillRect(img, image.Rect(0, i, sq, i+sq), gridColor)
		fillRect(img, image.Rect(w-sq, i, w, i+sq), gridColor)
	}
}
