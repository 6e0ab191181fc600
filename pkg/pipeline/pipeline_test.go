package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xob0t/GoSyncGen/pkg/overlay"
)

// memSink records every frame it receives.
type memSink struct {
	frames [][]byte
}

func (s *memSink) Write(p []byte) (int, error) {
	s.frames = append(s.frames, append([]byte(nil), p...))
	return len(p), nil
}

func (s *memSink) Close() error { return nil }

// failSink breaks after a number of frames, like an encoder process
// dying mid-run.
type failSink struct {
	after int
	n     int
}

func (s *failSink) Write(p []byte) (int, error) {
	s.n++
	if s.n > s.after {
		return 0, errors.New("broken pipe")
	}
	return len(p), nil
}

func (s *failSink) Close() error { return nil }

// limitedProvider yields a fixed number of frames, then reports
// exhaustion.
type limitedProvider struct {
	frame []byte
	left  int
}

func (p *limitedProvider) Next() ([]byte, error) {
	if p.left <= 0 {
		return nil, ErrSourceExhausted
	}
	p.left--
	return p.frame, nil
}

func testConfig() (overlay.Config, Config) {
	ocfg := overlay.Config{Width: 320, Height: 240} // counter only
	pcfg := Config{
		Width:   320,
		Height:  240,
		Frames:  4,
		BGColor: color.NRGBA{B: 255, A: 255},
	}
	return ocfg, pcfg
}

func pixelAt(frame []byte, w, x, y int) []byte {
	o := (y*w + x) * 3
	return frame[o : o+3]
}

func TestPipelineFallbackAfterExhaustion(t *testing.T) {
	ocfg, pcfg := testConfig()
	r, err := overlay.NewRenderer(ocfg)
	require.NoError(t, err)

	red := NewSolidBackground(320, 240, color.NRGBA{R: 200, A: 255})
	redFrame, _ := red.Next()
	provider := &limitedProvider{frame: redFrame, left: 2}

	sink := &memSink{}
	require.NoError(t, NewPipeline(pcfg, r, provider, sink).Run())
	require.Len(t, sink.frames, 4)

	// (200,50) is far from the counter panel, so it shows the background
	for i, want := range [][]byte{
		{200, 0, 0},
		{200, 0, 0},
		{0, 0, 255},
		{0, 0, 255},
	} {
		require.Equalf(t, want, pixelAt(sink.frames[i], 320, 200, 50), "frame %d", i+1)
	}
}

func TestPipelineSolidBackgroundByDefault(t *testing.T) {
	ocfg, pcfg := testConfig()
	pcfg.Frames = 1
	r, err := overlay.NewRenderer(ocfg)
	require.NoError(t, err)

	sink := &memSink{}
	require.NoError(t, NewPipeline(pcfg, r, nil, sink).Run())
	require.Len(t, sink.frames, 1)
	require.Equal(t, []byte{0, 0, 255}, pixelAt(sink.frames[0], 320, 200, 50))
	require.Len(t, sink.frames[0], 320*240*3)
}

func TestPipelineCounterVisibleInOutput(t *testing.T) {
	ocfg, pcfg := testConfig()
	pcfg.Frames = 1
	r, err := overlay.NewRenderer(ocfg)
	require.NoError(t, err)

	sink := &memSink{}
	require.NoError(t, NewPipeline(pcfg, r, nil, sink).Run())

	// frame 1: last bit cell green, first white; panel at (6,220)
	frame := sink.frames[0]
	require.Equal(t, []byte{255, 255, 255}, pixelAt(frame, 320, 6+1+3, 220+2))
	require.Equal(t, []byte{0, 255, 0}, pixelAt(frame, 320, 6+1+7*7+3, 220+3*4+2))
}

func TestPipelineStopsOnSinkError(t *testing.T) {
	ocfg, pcfg := testConfig()
	r, err := overlay.NewRenderer(ocfg)
	require.NoError(t, err)

	err = NewPipeline(pcfg, r, nil, &failSink{after: 2}).Run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "frame 3")
}

func TestBlendOver(t *testing.T) {
	dst := []byte{200, 100, 50, 200, 100, 50, 200, 100, 50}
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 9, G: 9, B: 9, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 128})

	blendOver(dst, src, 3, 1)

	require.Equal(t, []byte{200, 100, 50}, dst[0:3], "transparent overlay leaves background")
	require.Equal(t, []byte{1, 2, 3}, dst[3:6], "opaque overlay replaces background")
	require.Equal(t, []byte{150, 100, 75}, dst[6:9], "translucent overlay blends")
}

func TestStreamBackgroundExhaustion(t *testing.T) {
	// one and a half 2x2 frames
	data := make([]byte, 18)
	for i := range data {
		data[i] = byte(i)
	}
	p := NewStreamBackground(bytes.NewReader(data), 2, 2)

	frame, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, data[:12], frame)

	_, err = p.Next()
	require.ErrorIs(t, err, ErrSourceExhausted)
	_, err = p.Next()
	require.ErrorIs(t, err, ErrSourceExhausted, "exhaustion is permanent")
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#0000ff")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{B: 255, A: 255}, c)

	c, err = ParseColor("ff8000")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 255, G: 128, A: 255}, c)

	_, err = ParseColor("random")
	require.NoError(t, err)

	_, err = ParseColor("#12345")
	require.Error(t, err)
	_, err = ParseColor("#zzzzzz")
	require.Error(t, err)
}

func TestEncoderName(t *testing.T) {
	for codec, want := range map[string]string{
		"h264": "libx264",
		"h265": "libx265",
		"av1":  "libaom-av1",
	} {
		name, ok := EncoderName(codec)
		require.True(t, ok)
		require.Equal(t, want, name)
	}

	_, ok := EncoderName("vp9")
	require.False(t, ok)
	_, ok = EncoderName("mjpeg")
	require.False(t, ok, "mjpeg is handled by the AVI writer, not ffmpeg")
}
