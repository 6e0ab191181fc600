// ticker.go - Scrolling ticker strip. The strip is built once at
// construction, from rendered text or a loaded image, and rescaled to the
// overlay height; per frame it is wrap-tiled across the canvas at the
// current scroll offset.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "image/jpeg"
	_ "image/png"
)

// tickerHeight is the on-canvas strip height in pixels.
const tickerHeight = 64

// tickerMinWidth keeps text strips at least this wide so the repeat
// period stays several screen widths even on large canvases.
const tickerMinWidth = 7680

// tickerSeparator joins the repeated text segments.
const tickerSeparator = "     +++     "

type tickerStrip struct {
	img   *image.NRGBA // already scaled to tickerHeight
	speed int
}

// buildTickerStrip prepares the shared strip. Text takes precedence over
// an image path; an unreadable or undecodable image is an error so the
// caller can disable the overlay and continue.
func buildTickerStrip(cfg Config) (*tickerStrip, error) {
	var src image.Image

	switch {
	case cfg.TickerText != "":
		rendered, err := renderTickerText(cfg.TickerText)
		if err != nil {
			return nil, err
		}
		src = rendered
	case cfg.TickerImage != "":
		f, err := os.Open(cfg.TickerImage)
		if err != nil {
			return nil, fmt.Errorf("ticker image %q: %w", cfg.TickerImage, err)
		}
		defer f.Close()
		src, _, err = image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("ticker image %q: %w", cfg.TickerImage, err)
		}
	default:
		return nil, fmt.Errorf("ticker enabled with no text or image")
	}

	return &tickerStrip{img: scaleToHeight(src, tickerHeight), speed: cfg.TickerSpeed}, nil
}

// renderTickerText draws text repeated with a separator, white on black,
// onto a strip at least max(tickerMinWidth, 4x one segment) wide. The
// repeat guarantees the scroll wraps without a visible seam.
func renderTickerText(text string) (*image.NRGBA, error) {
	face, err := loadBoldFace(boldFontPaths, tickerHeight*7/10)
	if err != nil {
		return nil, err
	}

	segment := text + tickerSeparator
	segmentW := font.MeasureString(face, segment).Ceil()
	if segmentW <= 0 {
		return nil, fmt.Errorf("ticker text measures zero width")
	}

	minWidth := tickerMinWidth
	if segmentW*4 > minWidth {
		minWidth = segmentW * 4
	}
	repeats := minWidth/segmentW + 1

	full := strings.Repeat(segment, repeats)
	fullW := font.MeasureString(face, full).Ceil()

	img := image.NewNRGBA(image.Rect(0, 0, fullW, tickerHeight))
	fillRect(img, img.Bounds(), color.NRGBA{A: 255})

	m := face.Metrics()
	baseline := (tickerHeight-(m.Ascent+m.Descent).Ceil())/2 + m.Ascent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot:  fixed.P(0, baseline),
	}
	d.DrawString(full)

	return img, nil
}

// scaleToHeight rescales src to height h preserving aspect ratio. Done
// once at construction so the per-frame path only copies pixels.
func scaleToHeight(src image.Image, h int) *image.NRGBA {
	b := src.Bounds()
	if b.Dy() == h {
		out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), h))
		draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
		return out
	}

	w := b.Dx() * h / b.Dy()
	if w < 1 {
		w = 1
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, b, xdraw.Src, nil)
	return out
}

// draw tiles the strip across the full canvas width at the current
// scroll offset, a fixed margin below the top edge. Each copy starts
// where the previous one exhausted the source, wrapping to the strip
// start, so every output column comes from exactly one source column.
func (t *tickerStrip) draw(img *image.NRGBA, frame int) {
	canvasW := img.Bounds().Dx()
	stripW := t.img.Bounds().Dx()
	if stripW <= 0 {
		return
	}

	const y = tickerHeight // one strip height of top margin
	offset := mod(frame*t.speed, stripW)

	x := 0
	srcX := offset
	for x < canvasW {
		chunk := stripW - srcX
		if rem := canvasW - x; chunk > rem {
			chunk = rem
		}
		draw.Draw(img, image.Rect(x, y, x+chunk, y+tickerHeight), t.img, image.Pt(srcX, 0), draw.Over)
		x += chunk
		srcX = 0
	}
}
