// background.go - Background frame sources. Frames are raw interleaved
// RGB24 byte slices of exactly width*height*3 bytes.
package pipeline

import (
	"crypto/rand"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// ErrSourceExhausted reports that a background provider has no more
// frames. The pipeline treats it as a permanent switch to the fallback
// color, not a failure.
var ErrSourceExhausted = errors.New("background source exhausted")

// BackgroundProvider supplies background frames in display order. Next
// blocks until a full frame is available and returns ErrSourceExhausted
// once the source runs dry. The returned slice is only valid until the
// following call.
type BackgroundProvider interface {
	Next() ([]byte, error)
}

// SolidBackground returns the same constant-color frame forever.
type SolidBackground struct {
	frame []byte
}

// NewSolidBackground builds a w x h RGB24 frame filled with c.
func NewSolidBackground(w, h int, c color.NRGBA) *SolidBackground {
	frame := make([]byte, w*h*3)
	for i := 0; i < len(frame); i += 3 {
		frame[i], frame[i+1], frame[i+2] = c.R, c.G, c.B
	}
	return &SolidBackground{frame: frame}
}

func (s *SolidBackground) Next() ([]byte, error) { return s.frame, nil }

// StreamBackground reads frames from a byte stream, typically the
// decoder collaborator's stdout. A short read marks the stream exhausted
// for good; stream errors other than end-of-data are returned as-is.
type StreamBackground struct {
	r         io.Reader
	buf       []byte
	exhausted bool
}

// NewStreamBackground wraps r as a provider of w x h frames.
func NewStreamBackground(r io.Reader, w, h int) *StreamBackground {
	return &StreamBackground{r: r, buf: make([]byte, w*h*3)}
}

func (s *StreamBackground) Next() ([]byte, error) {
	if s.exhausted {
		return nil, ErrSourceExhausted
	}
	if _, err := io.ReadFull(s.r, s.buf); err != nil {
		s.exhausted = true
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrSourceExhausted
		}
		return nil, fmt.Errorf("read background frame: %w", err)
	}
	return s.buf, nil
}

// ParseColor parses "#rrggbb" (the "#" is optional) or "random" into an
// opaque color. Empty input is treated as "random".
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" || s == "random" {
		var buf [3]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return color.NRGBA{}, fmt.Errorf("random color: %w", err)
		}
		return color.NRGBA{R: buf[0], G: buf[1], B: buf[2], A: 255}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected 6-char hex", s)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}

	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}
