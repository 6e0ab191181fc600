package overlay

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTickerTextStripDimensions(t *testing.T) {
	strip, err := renderTickerText("HELLO")
	require.NoError(t, err)

	require.Equal(t, tickerHeight, strip.Bounds().Dy())
	require.GreaterOrEqual(t, strip.Bounds().Dx(), tickerMinWidth,
		"text strip must be wide enough for seamless scrolling")
}

// writeColumnCodedPNG writes a strip whose red channel encodes the
// source column, so tiling can be verified pixel-exactly.
func writeColumnCodedPNG(t *testing.T, w int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, tickerHeight))
	for y := 0; y < tickerHeight; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: 7, B: 3, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "ticker.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestTickerTilingWrapsSeamlessly(t *testing.T) {
	cfg := Config{
		Width:        256,
		Height:       256,
		EnableTicker: true,
		TickerImage:  writeColumnCodedPNG(t, 100),
		TickerSpeed:  7,
	}
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	require.NotNil(t, r.ticker)

	// frame 30: offset = 210 mod 100 = 10. Every output column must come
	// from exactly one source column, wrapping at the strip width.
	img := r.Render(30)
	for x := 0; x < 256; x++ {
		want := color.NRGBA{R: uint8((10 + x) % 100), G: 7, B: 3, A: 255}
		require.Equalf(t, want, img.NRGBAAt(x, tickerHeight+5), "column %d", x)
	}
}

func TestTickerScrollAdvances(t *testing.T) {
	cfg := Config{
		Width:        256,
		Height:       256,
		EnableTicker: true,
		TickerImage:  writeColumnCodedPNG(t, 100),
		TickerSpeed:  7,
	}
	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	// consecutive frames shift the source by exactly the ticker speed
	a := r.Render(4).NRGBAAt(0, tickerHeight+5)
	b := r.Render(5).NRGBAAt(0, tickerHeight+5)
	require.EqualValues(t, (int(a.R)+7)%100, b.R)
}

func TestTickerBandPlacement(t *testing.T) {
	cfg := Config{
		Width:        256,
		Height:       256,
		EnableTicker: true,
		TickerImage:  writeColumnCodedPNG(t, 100),
		TickerSpeed:  7,
	}
	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	img := r.Render(1)
	// one strip height of top margin, one strip tall
	require.Zero(t, img.NRGBAAt(128, tickerHeight-1).A)
	require.EqualValues(t, 255, img.NRGBAAt(128, tickerHeight).A)
	require.EqualValues(t, 255, img.NRGBAAt(128, 2*tickerHeight-1).A)
	require.Zero(t, img.NRGBAAt(128, 2*tickerHeight).A)
}

func TestTickerScaledToHeight(t *testing.T) {
	// a 200x128 source halves to 100x64
	src := image.NewNRGBA(image.Rect(0, 0, 200, 128))
	out := scaleToHeight(src, tickerHeight)
	require.Equal(t, 100, out.Bounds().Dx())
	require.Equal(t, tickerHeight, out.Bounds().Dy())
}
