// ffmpeg.go - External encoder and decoder collaborators, run as ffmpeg
// subprocesses reachable only through their byte-stream pipes, plus the
// ffprobe frame-count probe and RTP streaming.
package pipeline

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// codecNames maps CLI codec names onto ffmpeg encoder names. "mjpeg" is
// absent on purpose: it selects the built-in AVI writer instead of an
// ffmpeg process.
var codecNames = map[string]string{
	"h264": "libx264",
	"h265": "libx265",
	"av1":  "libaom-av1",
}

// EncoderName resolves a CLI codec name to its ffmpeg encoder, reporting
// whether the codec is known.
func EncoderName(codec string) (string, bool) {
	name, ok := codecNames[codec]
	return name, ok
}

// FFmpegEncoder pipes raw RGB24 frames into an ffmpeg process that
// encodes them to the output file. Writes block on the process's input
// buffering, which throttles generation to encoder throughput.
type FFmpegEncoder struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// StartEncoder launches ffmpeg reading rawvideo frames on stdin.
func StartEncoder(cfg Config) (*FFmpegEncoder, error) {
	enc, ok := EncoderName(cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("unsupported codec %q", cfg.Codec)
	}

	cmd := exec.Command("ffmpeg",
		"-y", "-hide_banner", "-loglevel", "warning",
		"-f", "rawvideo", "-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-r", strconv.Itoa(cfg.Framerate),
		"-i", "pipe:0",
		"-an",
		"-c:v", enc,
		"-b:v", cfg.Bitrate,
		"-pix_fmt", "yuv420p",
		cfg.Output,
	)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start encoder: %w", err)
	}

	return &FFmpegEncoder{cmd: cmd, stdin: stdin}, nil
}

func (e *FFmpegEncoder) Write(p []byte) (int, error) {
	return e.stdin.Write(p)
}

// Close closes the encoder's input channel and waits for the process to
// finish flushing the output file. Must be called on every exit path.
func (e *FFmpegEncoder) Close() error {
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("encoder: %w", err)
	}
	return nil
}

// Decoder decodes the background input file to raw RGB24 frames on its
// stdout, rescaled to the output resolution.
type Decoder struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

// StartDecoder launches ffmpeg decoding cfg.Input, optionally skipping
// cfg.StartTime seconds, limited to cfg.Frames frames.
func StartDecoder(cfg Config) (*Decoder, error) {
	args := []string{"-hide_banner", "-loglevel", "warning"}
	if cfg.StartTime != "" {
		args = append(args, "-ss", cfg.StartTime)
	}
	args = append(args,
		"-i", cfg.Input,
		"-vframes", strconv.Itoa(cfg.Frames),
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-pix_fmt", "rgb24",
		"-f", "rawvideo", "pipe:1",
	)

	cmd := exec.Command("ffmpeg", args...)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start decoder: %w", err)
	}

	return &Decoder{cmd: cmd, stdout: stdout}, nil
}

// Stdout is the decoder's frame byte channel.
func (d *Decoder) Stdout() io.Reader { return d.stdout }

// Close closes the read channel and waits for the process. A non-zero
// exit here is expected when the run stopped before consuming every
// decoded frame.
func (d *Decoder) Close() error {
	d.stdout.Close()
	if err := d.cmd.Wait(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	return nil
}

// ProbeFrameCount asks ffprobe for the input's frame count, first from
// container metadata, then from duration times framerate. The startTime
// offset (seconds, as given to the decoder) is subtracted. Returns 0
// when neither probe works.
func ProbeFrameCount(path string, framerate int, startTime string) int {
	out, err := exec.Command("ffprobe", "-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_frames",
		"-print_format", "csv=p=0",
		path).Output()
	if err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(string(out))); err == nil && n > 0 {
			if off := startOffsetFrames(startTime, framerate); off < n {
				n -= off
			}
			return n
		}
	}

	out, err = exec.Command("ffprobe", "-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=duration",
		"-print_format", "csv=p=0",
		path).Output()
	if err == nil {
		if d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64); err == nil {
			if st, err := strconv.ParseFloat(startTime, 64); err == nil {
				d -= st
			}
			if n := int(d * float64(framerate)); n > 0 {
				return n
			}
		}
	}

	return 0
}

func startOffsetFrames(startTime string, framerate int) int {
	if startTime == "" {
		return 0
	}
	st, err := strconv.ParseFloat(startTime, 64)
	if err != nil || st <= 0 {
		return 0
	}
	return int(st * float64(framerate))
}

// Stream loops an already-encoded file to an RTP destination until the
// process is interrupted. The destination must be IP:PORT.
func Stream(input, destination string) error {
	host, port, err := net.SplitHostPort(destination)
	if err != nil {
		return fmt.Errorf("destination must be IP:PORT: %w", err)
	}

	url := fmt.Sprintf("rtp://%s:%s", host, port)
	fmt.Printf("Streaming %s to %s (Ctrl+C to stop)\n", input, url)

	cmd := exec.Command("ffmpeg",
		"-re", "-stream_loop", "-1",
		"-i", input,
		"-c:v", "copy", "-an",
		"-f", "rtp", url,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
