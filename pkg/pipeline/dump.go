// dump.go - PNG frame dumper for pixel-level inspection of composited
// frames alongside (or instead of) video encoding.
package pipeline

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// FrameDumper writes each frame it receives as frame-NNNNNN.png in a
// directory.
type FrameDumper struct {
	dir  string
	w, h int
	n    int
}

// NewFrameDumper creates dir if needed.
func NewFrameDumper(dir string, w, h int) (*FrameDumper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("dump dir: %w", err)
	}
	return &FrameDumper{dir: dir, w: w, h: h}, nil
}

// Write saves one raw RGB24 frame as a PNG.
func (d *FrameDumper) Write(p []byte) (int, error) {
	if len(p) != d.w*d.h*3 {
		return 0, fmt.Errorf("dump frame: got %d bytes, want %d", len(p), d.w*d.h*3)
	}
	d.n++

	img := image.NewNRGBA(image.Rect(0, 0, d.w, d.h))
	for i := 0; i < d.w*d.h; i++ {
		img.Pix[i*4] = p[i*3]
		img.Pix[i*4+1] = p[i*3+1]
		img.Pix[i*4+2] = p[i*3+2]
		img.Pix[i*4+3] = 255
	}

	path := filepath.Join(d.dir, fmt.Sprintf("frame-%06d.png", d.n))
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("dump frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return 0, fmt.Errorf("dump frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	return len(p), nil
}

func (d *FrameDumper) Close() error { return nil }
