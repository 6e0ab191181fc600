// dots.go - Dual-speed sync dot trains on the interior-facing edges of
// the four quadrants.
package overlay

import (
	"image"
	"image/color"
)

const (
	dotSize    = 10
	dotSpacing = 15
)

var dotColor = color.NRGBA{R: 255, A: 255}

// drawSyncDots draws 2*count+1 opaque red dots per edge, index i in
// [-count, count], with the center dot (i=0) drawn at double thickness.
// Set A scrolls uniformly at the bar speed on the quadrants whose origin
// touches the matching axis; set B covers the opposite pair of edges and
// adds i*speed to each dot's position, so the two sets visibly drift
// apart frame by frame. That relative drift is the timing diagnostic
// this overlay exists for.
//
// Positions wrap at the quadrant boundary with the same two-rectangle
// split as the bars.
func (r *Renderer) drawSyncDots(img *image.NRGBA, frame int) {
	w, h := r.cfg.Width, r.cfg.Height
	halfW, halfH := w/2, h/2
	speed := r.cfg.BarSpeed
	count := r.cfg.SyncDotCount

	phaseX := mod(frame*speed, halfW)
	phaseY := mod(frame*speed, halfH)

	for q := 0; q < 4; q++ {
		tx, ty := halfW, halfH
		if q >= 2 {
			tx = 0
		}
		if q%2 == 1 {
			ty = 0
		}

		// set A: uniform scroll
		for i := -count; i <= count; i++ {
			size := dotSize
			if i == 0 {
				size = dotSize * 2
			}
			x := mod(phaseX+i*2*dotSpacing, halfW)
			y := mod(phaseY+i*2*dotSpacing, halfH)

			if ty == 0 {
				// horizontal train hugging the quadrant's bottom edge
				top := halfH - size
				if x+dotSize > halfW {
					fillRect(img, image.Rect(tx, top, tx+x+dotSize-halfW, halfH), dotColor)
					fillRect(img, image.Rect(tx+x, top, tx+halfW, halfH), dotColor)
				} else {
					fillRect(img, image.Rect(tx+x, top, tx+x+dotSize, halfH), dotColor)
				}
			}
			if tx == 0 {
				// vertical train hugging the quadrant's right edge
				left := halfW - size
				if y+dotSize > halfH {
					fillRect(img, image.Rect(left, ty, halfW, ty+y+dotSize-halfH), dotColor)
					fillRect(img, image.Rect(left, ty+y, halfW, ty+halfH), dotColor)
				} else {
					fillRect(img, image.Rect(left, ty+y, halfW, ty+y+dotSize), dotColor)
				}
			}
		}

		// set B: per-dot speed offset on the opposite pair of edges
		for i := -count; i <= count; i++ {
			size := dotSize
			if i == 0 {
				size = dotSize * 2
			}
			x := mod(phaseX+i*2*dotSpacing+i*speed, halfW)
			y := mod(phaseY+i*2*dotSpacing+i*speed, halfH)

			if ty != 0 {
				// horizontal train hugging the quadrant's top edge
				if x+dotSize > halfW {
					fillRect(img, image.Rect(tx, ty, tx+x+dotSize-halfW, ty+size), dotColor)
					fillRect(img, image.Rect(tx+x, ty, tx+halfW, ty+size), dotColor)
				} else {
					fillRect(img, image.Rect(tx+x, ty, tx+x+dotSize, ty+size), dotColor)
				}
			}
			if tx != 0 {
				// vertical train hugging the quadrant's left edge
				if y+dotSize > halfH {
					fillRect(img, image.Rect(tx, ty, tx+size, ty+y+dotSize-halfH), dotColor)
					fillRect(img, image.Rect(tx, ty+y, tx+size, ty+halfH), dotColor)
				} else {
					fillRect(img, image.Rect(tx, ty+y, tx+size, ty+y+dotSize), dotColor)
				}
			}
		}
	}
}
