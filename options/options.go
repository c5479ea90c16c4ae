// Package options holds the command line surface shared by every
// example.
package options

import "flag"

// Options are the shared flags. Fields are pointers into the flag set,
// so values are valid only after the set has been parsed. Examples can
// register their own flags alongside these before parsing.
type Options struct {
	Width      *int
	Height     *int
	Record     *bool
	Duration   *float64
	FPS        *int
	OutputFile *string
	Codec      *string
	FFmpegPath *string
	Screenshot *string
	Headless   *bool
}

// Bind registers the shared flags on the default flag set.
func Bind() *Options {
	return BindFlagSet(flag.CommandLine)
}

// BindFlagSet registers the shared flags on fs.
func BindFlagSet(fs *flag.FlagSet) *Options {
	return &Options{
		Width:      fs.Int("width", 800, "width of the window or capture target"),
		Height:     fs.Int("height", 600, "height of the window or capture target"),
		Record:     fs.Bool("record", false, "render offscreen and encode video to -output"),
		Duration:   fs.Float64("duration", 10.0, "seconds of video to record"),
		FPS:        fs.Int("fps", 60, "frames per second when recording"),
		OutputFile: fs.String("output", "output.mp4", "output file for recording"),
		Codec:      fs.String("codec", "h264", "video codec when recording, h264 or hevc"),
		FFmpegPath: fs.String("ffmpeg", "", "path to the ffmpeg executable"),
		Screenshot: fs.String("screenshot", "", "write a single frame to this PNG path and exit"),
		Headless:   fs.Bool("headless", false, "capture without a window (EGL, Linux only)"),
	}
}

// Capturing reports whether any flag asks for offscreen capture.
func (o *Options) Capturing() bool {
	return *o.Record || *o.Screenshot != ""
}
