// avi.go - Pure Go MJPEG AVI encoder sink. Unlike an ffmpeg sink it
// needs no external process: each incoming RGB24 frame is JPEG-encoded
// and appended as a movi chunk, the index accumulates in memory, and the
// RIFF headers are back-patched with the final sizes on Close.
package pipeline

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
)

// Header field offsets that are unknown until the final frame count is
// in; written as zero up front and patched on Close.
const (
	aviPosRIFFSize     = 4
	aviPosMaxBytesSec  = 36
	aviPosTotalFrames  = 48
	aviPosSuggBuf      = 60
	aviPosStreamLength = 140
	aviPosStreamBuf    = 144
	aviPosMoviSize     = 216
	aviMoviStart       = 220 // offset of the "movi" fourcc
)

const aviJPEGQuality = 95

// AVIWriter streams an MJPEG AVI file frame by frame.
type AVIWriter struct {
	f      *os.File
	width  int
	height int
	fps    int

	frames   uint32
	maxChunk uint32
	moviSize uint32 // includes the "movi" fourcc
	index    []aviIndexEntry
	jpegBuf  bytes.Buffer
}

type aviIndexEntry struct {
	offset uint32 // relative to aviMoviStart
	size   uint32
}

// NewAVIWriter creates the output file and writes the RIFF/hdrl headers
// with placeholder sizes.
func NewAVIWriter(path string, width, height, fps int) (*AVIWriter, error) {
	if fps <= 0 {
		fps = 15
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create avi: %w", err)
	}

	w := &AVIWriter{f: f, width: width, height: height, fps: fps, moviSize: 4}
	if err := w.writeHeader(); err != nil {
		f.Close()
		return nil, fmt.Errorf("write avi header: %w", err)
	}
	return w, nil
}

func (w *AVIWriter) writeHeader() error {
	var b bytes.Buffer
	u32 := func(v uint32) { binary.Write(&b, binary.LittleEndian, v) }
	u16 := func(v uint16) { binary.Write(&b, binary.LittleEndian, v) }
	cc := func(s string) { b.WriteString(s) }

	cc("RIFF")
	u32(0) // riff size, patched
	cc("AVI ")

	cc("LIST")
	u32(192) // hdrl: 4 + avih(64) + strl list(124)
	cc("hdrl")

	cc("avih")
	u32(56)
	u32(uint32(1000000 / w.fps)) // microseconds per frame
	u32(0)                       // max bytes/sec, patched
	u32(0)                       // padding granularity
	u32(0x10)                    // AVIF_HASINDEX
	u32(0)                       // total frames, patched
	u32(0)                       // initial frames
	u32(1)                       // streams
	u32(0)                       // suggested buffer size, patched
	u32(uint32(w.width))
	u32(uint32(w.height))
	u32(0)
	u32(0)
	u32(0)
	u32(0)

	cc("LIST")
	u32(116) // strl: 4 + strh(64) + strf(48)
	cc("strl")

	cc("strh")
	u32(56)
	cc("vids")
	cc("MJPG")
	u32(0)              // flags
	u16(0)              // priority
	u16(0)              // language
	u32(0)              // initial frames
	u32(1)              // scale
	u32(uint32(w.fps))  // rate
	u32(0)              // start
	u32(0)              // length, patched
	u32(0)              // suggested buffer size, patched
	u32(0)              // quality
	u32(0)              // sample size
	u16(0)              // rect left
	u16(0)              // rect top
	u16(uint16(w.width))
	u16(uint16(w.height))

	cc("strf")
	u32(40)
	u32(40) // biSize
	u32(uint32(w.width))
	u32(uint32(w.height))
	u16(1)  // planes
	u16(24) // bit count
	cc("MJPG")
	u32(uint32(w.width * w.height * 3))
	u32(0)
	u32(0)
	u32(0)
	u32(0)

	cc("LIST")
	u32(0) // movi size, patched
	cc("movi")

	_, err := w.f.Write(b.Bytes())
	return err
}

// Write appends one raw RGB24 frame as an MJPEG chunk. The slice must be
// exactly width*height*3 bytes.
func (w *AVIWriter) Write(p []byte) (int, error) {
	if len(p) != w.width*w.height*3 {
		return 0, fmt.Errorf("avi frame: got %d bytes, want %d", len(p), w.width*w.height*3)
	}

	w.jpegBuf.Reset()
	frame := &rgbFrame{pix: p, w: w.width, h: w.height}
	if err := jpeg.Encode(&w.jpegBuf, frame, &jpeg.Options{Quality: aviJPEGQuality}); err != nil {
		return 0, fmt.Errorf("encode jpeg: %w", err)
	}
	data := w.jpegBuf.Bytes()
	size := uint32(len(data))

	var hdr [8]byte
	copy(hdr[:4], "00dc")
	binary.LittleEndian.PutUint32(hdr[4:], size)
	if _, err := w.f.Write(hdr[:]); err != nil {
		return 0, err
	}
	if _, err := w.f.Write(data); err != nil {
		return 0, err
	}
	padded := size
	if size%2 != 0 {
		if _, err := w.f.Write([]byte{0}); err != nil {
			return 0, err
		}
		padded++
	}

	w.index = append(w.index, aviIndexEntry{offset: w.moviSize, size: size})
	w.moviSize += 8 + padded
	w.frames++
	if size > w.maxChunk {
		w.maxChunk = size
	}

	return len(p), nil
}

// Close writes the idx1 index, patches the header sizes and syncs the
// file. The AVI is not playable until Close succeeds.
func (w *AVIWriter) Close() error {
	defer w.f.Close()

	var b bytes.Buffer
	b.WriteString("idx1")
	binary.Write(&b, binary.LittleEndian, uint32(len(w.index)*16))
	for _, e := range w.index {
		b.WriteString("00dc")
		binary.Write(&b, binary.LittleEndian, uint32(0x10)) // AVIIF_KEYFRAME
		binary.Write(&b, binary.LittleEndian, e.offset)
		binary.Write(&b, binary.LittleEndian, e.size)
	}
	if _, err := w.f.Write(b.Bytes()); err != nil {
		return fmt.Errorf("write avi index: %w", err)
	}

	end, err := w.f.Seek(0, 2)
	if err != nil {
		return err
	}

	patch := func(off int64, v uint32) {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], v)
		if err == nil {
			_, err = w.f.WriteAt(buf[:], off)
		}
	}
	patch(aviPosRIFFSize, uint32(end)-8)
	patch(aviPosMaxBytesSec, w.maxChunk*uint32(w.fps))
	patch(aviPosTotalFrames, w.frames)
	patch(aviPosSuggBuf, w.maxChunk)
	patch(aviPosStreamLength, w.frames)
	patch(aviPosStreamBuf, w.maxChunk)
	patch(aviPosMoviSize, w.moviSize)
	if err != nil {
		return fmt.Errorf("patch avi header: %w", err)
	}

	return w.f.Sync()
}

// rgbFrame adapts a packed RGB24 buffer to image.Image for the JPEG
// encoder without copying.
type rgbFrame struct {
	pix  []byte
	w, h int
}

func (f *rgbFrame) ColorModel() color.Model { return color.NRGBAModel }
func (f *rgbFrame) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }
func (f *rgbFrame) Opaque() bool            { return true }

func (f *rgbFrame) At(x, y int) color.Color {
	o := (y*f.w + x) * 3
	return color.NRGBA{R: f.pix[o], G: f.pix[o+1], B: f.pix[o+2], A: 255}
}
