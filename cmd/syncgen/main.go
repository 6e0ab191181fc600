// syncgen — Sync test video generator.
//
// Usage:
//
//	syncgen generate --output <file> [options]
//	syncgen stream <file> <ip:port>
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xob0t/GoSyncGen/pkg/overlay"
	"github.com/xob0t/GoSyncGen/pkg/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		if err := runGenerate(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "stream":
		if err := runStream(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)

	var (
		resolution string
		framerate  int
		frames     int
		codec      string
		bitrate    string
		input      string
		startTime  string
		output     string
		bgColor    string
		dumpDir    string

		noBars   bool
		barWidth int
		barSpeed int

		noSyncDots   bool
		syncDotCount int

		noGrid       bool
		quadCounters bool

		noTicker    bool
		tickerSpeed int
		tickerText  string
		tickerImage string

		noSnow        bool
		snowBlockSize int
		snowCoverage  int
		snowSeed      int64
	)

	fs.StringVar(&resolution, "resolution", "1920x1080", "Video resolution as WxH")
	fs.IntVar(&framerate, "framerate", 30, "Frame rate in fps")
	fs.IntVar(&frames, "frames", 0, "Number of frames (default: full input video, or 1000 without input)")
	fs.StringVar(&codec, "codec", "h264", "Video codec: h264, h265, av1, mjpeg")
	fs.StringVar(&bitrate, "bitrate", "4M", "Encoding bitrate")
	fs.StringVar(&input, "input", "", "Video file to use as background (default: solid color)")
	fs.StringVar(&startTime, "start-time", "", "Skip first N seconds of the input video")
	fs.StringVar(&output, "output", "", "Output video file path (required)")
	fs.StringVar(&output, "o", "", "Output video file path (required)")
	fs.StringVar(&bgColor, "bg-color", "#0000ff", "Fallback background color: hex or 'random'")
	fs.StringVar(&dumpDir, "dump-frames", "", "Also write every frame as PNG into this directory")

	fs.BoolVar(&noBars, "no-bars", false, "Disable scrolling bars")
	fs.IntVar(&barWidth, "bar-width", 100, "Bar width in pixels")
	fs.IntVar(&barSpeed, "bar-speed", 5, "Bar scroll speed in px/frame")
	fs.BoolVar(&noSyncDots, "no-sync-dots", false, "Disable sync dots")
	fs.IntVar(&syncDotCount, "sync-dot-count", 3, "Sync dots per side of the center dot")
	fs.BoolVar(&noGrid, "no-grid", false, "Disable alignment grid")
	fs.BoolVar(&quadCounters, "quad-counters", false, "One counter per quadrant (2x2 video wall)")
	fs.BoolVar(&noTicker, "no-ticker", false, "Disable scrolling ticker")
	fs.IntVar(&tickerSpeed, "ticker-speed", 10, "Ticker scroll speed in px/frame")
	fs.StringVar(&tickerText, "ticker-text", "SYNC TEST", "Ticker text (overrides --ticker-image)")
	fs.StringVar(&tickerImage, "ticker-image", "", "Ticker image file")
	fs.BoolVar(&noSnow, "no-snow", false, "Disable snow/noise pattern")
	fs.IntVar(&snowBlockSize, "snow-block-size", 32, "Snow block size in pixels (0 disables)")
	fs.IntVar(&snowCoverage, "snow-coverage", 100, "Snow area as % of the canvas")
	fs.Int64Var(&snowSeed, "snow-seed", 0, "Snow random seed (0: from clock)")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (--output)")
	}

	width, height, err := parseResolution(resolution)
	if err != nil {
		return err
	}
	if framerate <= 0 {
		return fmt.Errorf("invalid framerate %d", framerate)
	}
	if codec != "mjpeg" {
		if _, ok := pipeline.EncoderName(codec); !ok {
			return fmt.Errorf("unsupported codec %q (h264, h265, av1, mjpeg)", codec)
		}
	}

	bg, err := pipeline.ParseColor(bgColor)
	if err != nil {
		return err
	}

	// An explicit image beats the default ticker text.
	if tickerImage != "" {
		tickerText = ""
	}

	if frames <= 0 {
		frames = 1000
		if input != "" {
			fmt.Println("Probing input video for frame count ...")
			if n := pipeline.ProbeFrameCount(input, framerate, startTime); n > 0 {
				frames = n
				fmt.Printf("  detected %d frames\n", n)
			} else {
				fmt.Println("  could not detect frame count, using default 1000")
			}
		}
	}

	ocfg := overlay.Config{
		Width:          width,
		Height:         height,
		QuadCounters:   quadCounters,
		EnableBars:     !noBars,
		BarWidth:       barWidth,
		BarSpeed:       barSpeed,
		EnableSyncDots: !noSyncDots,
		SyncDotCount:   syncDotCount,
		EnableGrid:     !noGrid,
		EnableTicker:   !noTicker,
		TickerSpeed:    tickerSpeed,
		TickerText:     tickerText,
		TickerImage:    tickerImage,
		EnableSnow:     !noSnow,
		SnowBlockSize:  snowBlockSize,
		SnowCoverage:   snowCoverage,
		SnowSeed:       snowSeed,
	}

	pcfg := pipeline.Config{
		Width:     width,
		Height:    height,
		Framerate: framerate,
		Frames:    frames,
		Codec:     codec,
		Bitrate:   bitrate,
		Input:     input,
		StartTime: startTime,
		Output:    output,
		DumpDir:   dumpDir,
		BGColor:   bg,
	}

	return pipeline.Generate(ocfg, pcfg)
}

func runStream(args []string) error {
	fs := flag.NewFlagSet("stream", flag.ExitOnError)
	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		printUsage()
		return fmt.Errorf("stream needs an input file and an IP:PORT destination")
	}
	return pipeline.Stream(fs.Arg(0), fs.Arg(1))
}

// parseResolution parses "WxH" into positive width and height.
func parseResolution(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid resolution %q: expected WxH (e.g. 1920x1080)", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid resolution %q: dimensions must be positive", s)
	}
	return w, h, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`syncgen — Sync test video generator

USAGE:
    syncgen generate --output <file> [options]
    syncgen stream <file> <ip:port>

GENERATE:
    --resolution WxH       Video resolution (default: 1920x1080)
    --framerate N          Frame rate in fps (default: 30)
    --frames N             Frame count (default: full input video, or 1000)
    --codec NAME           h264, h265, av1 (via ffmpeg) or mjpeg (built-in AVI)
    --bitrate RATE         Encoding bitrate (default: 4M)
    --input FILE           Background video file (default: solid color)
    --start-time SECONDS   Skip first N seconds of the input
    --output FILE          Output video file (required)
    --bg-color COLOR       Fallback background: hex or 'random' (default: #0000ff)
    --dump-frames DIR      Also write every frame as PNG

OVERLAYS:
    --no-bars              Disable scrolling bars
    --bar-width N          Bar width in pixels (default: 100)
    --bar-speed N          Bar scroll speed px/frame (default: 5)
    --no-sync-dots         Disable sync dots
    --sync-dot-count N     Dots per side of the center dot (default: 3)
    --no-grid              Disable alignment grid
    --quad-counters        One binary counter per quadrant (2x2 video wall)
    --no-ticker            Disable scrolling ticker
    --ticker-speed N       Ticker scroll speed px/frame (default: 10)
    --ticker-text TEXT     Ticker text (default: "SYNC TEST")
    --ticker-image FILE    Ticker image file instead of text
    --no-snow              Disable snow/noise pattern
    --snow-block-size N    Snow block size in pixels (default: 32, 0 disables)
    --snow-coverage PCT    Snow area as % of the canvas (default: 100)
    --snow-seed N          Snow random seed (default: from clock)

STREAM:
    syncgen stream out.mp4 227.10.0.1:5000
`)
}
