package overlay

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

// counterOnly is a 320x240 config with every toggleable overlay off; the
// counter is always drawn.
func counterOnly() Config {
	return Config{Width: 320, Height: 240}
}

// Panel geometry at 320x240: 6x4 bit cells, 1px horizontal padding, no
// vertical padding, 57x16 panel, margins 6 and 4.
const (
	testPanelW = 57
	testPanelH = 16
)

func cellAt(origin image.Point, i int) image.Point {
	return image.Pt(origin.X+1+i%8*7, origin.Y+i/8*4)
}

func requireCell(t *testing.T, img *image.NRGBA, origin image.Point, i int, want color.NRGBA) {
	t.Helper()
	p := cellAt(origin, i)
	got := img.NRGBAAt(p.X+3, p.Y+2)
	require.Equal(t, want, got, "bit cell %d at %v", i, p)
}

func TestCounterFrameOne(t *testing.T) {
	r, err := NewRenderer(counterOnly())
	require.NoError(t, err)

	img := r.Render(1)
	origin := image.Pt(6, 220)
	panel := image.Rect(origin.X, origin.Y, origin.X+testPanelW, origin.Y+testPanelH)

	// everything outside the panel is fully transparent
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			if image.Pt(x, y).In(panel) {
				continue
			}
			require.Zerof(t, img.NRGBAAt(x, y).A, "pixel (%d,%d) should be transparent", x, y)
		}
	}

	// frame 1: only the last bit is set
	for i := 0; i < 31; i++ {
		requireCell(t, img, origin, i, counterOff)
	}
	requireCell(t, img, origin, 31, counterOn)
}

func TestCounterBitPattern(t *testing.T) {
	r, err := NewRenderer(counterOnly())
	require.NoError(t, err)

	origin := image.Pt(6, 220)
	for _, frame := range []int{0, 1, 2, 255, 256, 0x12345678, 1<<31 - 1} {
		t.Run(fmt.Sprintf("frame_%d", frame), func(t *testing.T) {
			img := r.Render(frame)
			n := uint32(frame)
			for i := 0; i < 32; i++ {
				want := counterOff
				if n>>(31-i)&1 == 1 {
					want = counterOn
				}
				requireCell(t, img, origin, i, want)
			}
		})
	}
}

func TestCounterQuadPanels(t *testing.T) {
	cfg := counterOnly()
	cfg.QuadCounters = true
	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	img := r.Render(256)

	origins := []image.Point{
		{X: 6, Y: 4},
		{X: 166, Y: 4},
		{X: 6, Y: 124},
		{X: 166, Y: 124},
	}

	// all four panels carry an identical bit grid
	for _, o := range origins[1:] {
		for y := 0; y < testPanelH; y++ {
			for x := 0; x < testPanelW; x++ {
				require.Equal(t,
					img.NRGBAAt(origins[0].X+x, origins[0].Y+y),
					img.NRGBAAt(o.X+x, o.Y+y),
					"panel at %v differs at (%d,%d)", o, x, y)
			}
		}
	}

	// 256 sets exactly bit 23 (byte 2, most significant bit)
	for _, o := range origins {
		for i := 0; i < 32; i++ {
			want := counterOff
			if i == 23 {
				want = counterOn
			}
			requireCell(t, img, o, i, want)
		}
	}
}

func TestCounterWrapsAt32Bits(t *testing.T) {
	r, err := NewRenderer(counterOnly())
	require.NoError(t, err)

	// indices congruent mod 2^32 render identically
	a := r.Render(5)
	b := r.Render(5 + 1<<32)
	require.Equal(t, a.Pix, b.Pix)
}
