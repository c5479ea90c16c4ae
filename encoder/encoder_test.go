package encoder

import (
	"bytes"
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthewjberger/gl-examples/options"
)

func testOptions(t *testing.T, args ...string) *options.Options {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := options.BindFlagSet(fs)
	require.NoError(t, fs.Parse(args))
	return opts
}

func TestBuildArgs(t *testing.T) {
	opts := testOptions(t, "-fps", "30")
	inputArgs, outputArgs := buildArgs(opts, 1280, 720)

	require.Equal(t, "rawvideo", inputArgs["f"])
	require.Equal(t, "rgba", inputArgs["pix_fmt"])
	require.Equal(t, "1280x720", inputArgs["s"])
	require.Equal(t, 30, inputArgs["framerate"])

	require.Equal(t, "yuv420p", outputArgs["pix_fmt"])
	require.Equal(t, "vflip", outputArgs["vf"])
	require.Contains(t, outputArgs["c:v"], "264")
	require.NotContains(t, outputArgs, "tag:v")
}

func TestBuildArgsHEVC(t *testing.T) {
	opts := testOptions(t, "-codec", "hevc")
	_, outputArgs := buildArgs(opts, 1280, 720)

	require.Contains(t, []string{"libx265", "hevc_videotoolbox"}, outputArgs["c:v"])
	require.Equal(t, "hvc1", outputArgs["tag:v"])

	opts = testOptions(t, "-codec", "hevc", "-output", "out.mkv")
	_, outputArgs = buildArgs(opts, 1280, 720)
	require.NotContains(t, outputArgs, "tag:v")
}

func TestWriteFrames(t *testing.T) {
	frames := make(chan *Frame, 2)
	frames <- &Frame{Pixels: []byte{1, 2, 3, 4}, PTS: 0}
	frames <- &Frame{Pixels: []byte{5, 6, 7, 8}, PTS: 1}
	close(frames)

	var buf bytes.Buffer
	require.NoError(t, writeFrames(&buf, frames, 4))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, buf.Bytes())
}

func TestWriteFramesRejectsWrongSize(t *testing.T) {
	frames := make(chan *Frame, 1)
	frames <- &Frame{Pixels: []byte{1, 2}, PTS: 7}
	close(frames)

	var buf bytes.Buffer
	err := writeFrames(&buf, frames, 4)
	require.Error(t, err)
	require.Contains(t, err.Error(), "frame 7")
}

func TestWritePNGFlipsRows(t *testing.T) {
	// Bottom-up input: first row red, second row blue.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, WritePNG(path, pixels, 2, 2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	// Blue ends up on top, red on the bottom.
	r, g, b, _ := img.At(0, 0).RGBA()
	require.Equal(t, []uint32{0, 0, 0xffff}, []uint32{r, g, b})
	r, g, b, _ = img.At(0, 1).RGBA()
	require.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}

func TestWritePNGRejectsShortBuffer(t *testing.T) {
	err := WritePNG(filepath.Join(t.TempDir(), "frame.png"), []byte{1, 2, 3}, 2, 2)
	require.Error(t, err)
}
