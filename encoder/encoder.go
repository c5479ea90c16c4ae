// Package encoder turns rendered frames into video files and
// screenshots. Video frames stream to FFmpeg over a raw RGBA pipe; the
// consumer runs on its own goroutine so rendering never waits on the
// muxer.
package encoder

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/matthewjberger/gl-examples/options"
)

// Frame is a single rendered frame. Pixels are tightly packed RGBA
// rows, bottom-up as OpenGL reads them back.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// videoCodec picks the encoder for the requested codec. VideoToolbox
// ships with macOS; everywhere else the software encoders are the only
// ones present on a stock ffmpeg build.
func videoCodec(preference string) string {
	hevc := preference == "hevc"
	if runtime.GOOS == "darwin" {
		if hevc {
			return "hevc_videotoolbox"
		}
		return "h264_videotoolbox"
	}
	if hevc {
		return "libx265"
	}
	return "libx264"
}

func buildArgs(opts *options.Options, width, height int) (inputArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": *opts.FPS,
	}
	outputArgs = ffmpeg.KwArgs{
		"c:v":     videoCodec(*opts.Codec),
		"pix_fmt": "yuv420p",
		"vf":      "vflip",
		"b:v":     "25M",
	}
	// QuickTime only plays HEVC in mp4 under the hvc1 tag.
	if *opts.Codec == "hevc" && strings.HasSuffix(*opts.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return inputArgs, outputArgs
}

// Run consumes frames until the channel closes, streaming them into
// FFmpeg. Width and height describe the incoming frames, which may
// differ from the -width and -height flags when an example configures
// its own window size. Run blocks until FFmpeg exits, so callers
// usually run it on a dedicated goroutine and collect the result over
// a done channel.
func Run(opts *options.Options, width, height int, frames <-chan *Frame) error {
	frameSize := width * height * 4
	inputArgs, outputArgs := buildArgs(opts, width, height)

	log.Info().
		Str("codec", outputArgs["c:v"].(string)).
		Str("output", *opts.OutputFile).
		Int("fps", *opts.FPS).
		Msg("starting encoder")

	pipeReader, pipeWriter := io.Pipe()
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(*opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if *opts.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(*opts.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		// Unblocks a pending frame write if FFmpeg died mid-stream.
		_ = pipeReader.Close()
		errc <- err
	}()

	writeErr := writeFrames(pipeWriter, frames, frameSize)
	_ = pipeWriter.Close()

	if err := <-errc; err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return writeErr
}

// writeFrames streams frames to w in arrival order, ending the run on
// the first mis-sized frame or write failure.
func writeFrames(w io.Writer, frames <-chan *Frame, frameSize int) error {
	for frame := range frames {
		if len(frame.Pixels) != frameSize {
			return fmt.Errorf("frame %d has %d bytes, want %d", frame.PTS, len(frame.Pixels), frameSize)
		}
		if _, err := w.Write(frame.Pixels); err != nil {
			return fmt.Errorf("write frame %d: %w", frame.PTS, err)
		}
	}
	return nil
}

// WritePNG writes bottom-up RGBA pixels to path as a PNG, flipping rows
// into the top-down order image formats expect.
func WritePNG(path string, pixels []byte, width, height int) error {
	if len(pixels) != width*height*4 {
		return fmt.Errorf("pixel buffer has %d bytes, want %d", len(pixels), width*height*4)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	stride := width * 4
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:], src)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
