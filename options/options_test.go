package options

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBindDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := BindFlagSet(fs)
	require.NoError(t, fs.Parse(nil))

	require.Equal(t, 800, *opts.Width)
	require.Equal(t, 600, *opts.Height)
	require.False(t, *opts.Record)
	require.Equal(t, 10.0, *opts.Duration)
	require.Equal(t, 60, *opts.FPS)
	require.Equal(t, "output.mp4", *opts.OutputFile)
	require.Equal(t, "h264", *opts.Codec)
	require.Empty(t, *opts.Screenshot)
	require.False(t, *opts.Headless)
	require.False(t, opts.Capturing())
}

func TestBindParsesOverrides(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := BindFlagSet(fs)
	require.NoError(t, fs.Parse([]string{"-width", "1280", "-height", "720", "-record", "-fps", "30"}))

	require.Equal(t, 1280, *opts.Width)
	require.Equal(t, 720, *opts.Height)
	require.True(t, *opts.Record)
	require.Equal(t, 30, *opts.FPS)
	require.True(t, opts.Capturing())
}

func TestCapturingWithScreenshot(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := BindFlagSet(fs)
	require.NoError(t, fs.Parse([]string{"-screenshot", "frame.png"}))
	require.True(t, opts.Capturing())
}
