package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func gridOnly() Config {
	return Config{Width: 320, Height: 240, EnableGrid: true}
}

func TestGridCornerMarks(t *testing.T) {
	r, err := NewRenderer(gridOnly())
	require.NoError(t, err)

	img := r.Render(1)

	// horizontal runs extend w/7 = 45px: squares at 0, 20, 40
	require.Equal(t, gridColor, img.NRGBAAt(5, 5))
	require.Zero(t, img.NRGBAAt(15, 5).A)
	require.Equal(t, gridColor, img.NRGBAAt(25, 5))
	require.Equal(t, gridColor, img.NRGBAAt(45, 5))
	require.Zero(t, img.NRGBAAt(55, 5).A)

	// mirrored on the right edge
	require.Equal(t, gridColor, img.NRGBAAt(315, 5))
	require.Equal(t, gridColor, img.NRGBAAt(295, 5))
	require.Zero(t, img.NRGBAAt(305, 5).A)

	// bottom edge
	require.Equal(t, gridColor, img.NRGBAAt(5, 235))
	require.Equal(t, gridColor, img.NRGBAAt(315, 235))

	// vertical runs extend h/7 = 34px: squares at 0, 20
	require.Equal(t, gridColor, img.NRGBAAt(5, 25))
	require.Zero(t, img.NRGBAAt(5, 15).A)
	require.Equal(t, gridColor, img.NRGBAAt(5, 215))
	require.Equal(t, gridColor, img.NRGBAAt(315, 215))

	// the middle of each edge stays clear
	require.Zero(t, img.NRGBAAt(160, 5).A)
	require.Zero(t, img.NRGBAAt(5, 120).A)
}

func TestGridIsStatic(t *testing.T) {
	r, err := NewRenderer(gridOnly())
	require.NoError(t, err)

	a := r.Render(1)
	b := r.Render(999)
	require.Equal(t, a.Pix, b.Pix)
}
