// Package app owns the main loop and the machinery every example
// shares: window and context setup, input routing, the GUI overlay,
// and the capture pipeline behind the -record and -screenshot flags.
package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matthewjberger/gl-examples/encoder"
	"github.com/matthewjberger/gl-examples/glfwcontext"
	"github.com/matthewjberger/gl-examples/graphics"
	"github.com/matthewjberger/gl-examples/gui"
	"github.com/matthewjberger/gl-examples/headless"
	"github.com/matthewjberger/gl-examples/input"
	"github.com/matthewjberger/gl-examples/options"
	"github.com/matthewjberger/gl-examples/renderer"
	"github.com/matthewjberger/gl-examples/system"
)

// Application is the set of callbacks an example implements. Embed
// Base to pick up no-op defaults for the ones it does not need.
type Application interface {
	Initialize(r *renderer.Renderer) error
	Update(r *renderer.Renderer, in *input.Input, sys *system.System) error
	UpdateGUI(r *renderer.Renderer) error
	Resize(r *renderer.Renderer, width, height int) error
	Render(r *renderer.Renderer) error
	OnKey(key glfw.Key, action glfw.Action) error
	OnMouse(button glfw.MouseButton, action glfw.Action) error
	Cleanup() error
}

// Base is a no-op Application for embedding.
type Base struct{}

func (Base) Initialize(*renderer.Renderer) error { return nil }

func (Base) Update(*renderer.Renderer, *input.Input, *system.System) error { return nil }

func (Base) UpdateGUI(*renderer.Renderer) error { return nil }

func (Base) Resize(*renderer.Renderer, int, int) error { return nil }

func (Base) Render(*renderer.Renderer) error { return nil }

func (Base) OnKey(glfw.Key, glfw.Action) error { return nil }

func (Base) OnMouse(glfw.MouseButton, glfw.Action) error { return nil }

func (Base) Cleanup() error { return nil }

// Config is the window setup an example requests. The -width and
// -height flags override the size when passed on the command line.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Run drives an application until its window closes or a capture run
// completes. It must be called from the main goroutine with the OS
// thread locked.
func Run(application Application, config Config, opts *options.Options) error {
	configureLogging()

	capturing := opts != nil && opts.Capturing()
	headlessMode := opts != nil && *opts.Headless
	if headlessMode && !capturing {
		return errors.New("headless mode requires -record or -screenshot")
	}

	width, height := resolveSize(config, opts, flag.CommandLine)
	log.Info().Str("title", config.Title).Int("width", width).Int("height", height).Msg("app started")

	var ctx graphics.Context
	var window *glfwcontext.Context
	if headlessMode {
		h, err := headless.New(width, height)
		if err != nil {
			return fmt.Errorf("creating headless context: %w", err)
		}
		ctx = h
	} else {
		if err := glfwcontext.InitGraphics(); err != nil {
			return err
		}
		defer glfwcontext.TerminateGraphics()
		w, err := glfwcontext.New(config.Title, width, height, true)
		if err != nil {
			return fmt.Errorf("creating window: %w", err)
		}
		window = w
		ctx = w
	}
	defer ctx.Shutdown()

	r, err := renderer.New(ctx, width, height)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer r.Shutdown()

	ui, err := gui.New()
	if err != nil {
		return fmt.Errorf("creating gui: %w", err)
	}
	defer ui.Destroy()

	in := input.New()
	sys := system.New(width, height)

	if window != nil {
		wireHandlers(window, application, r, ui, in, sys)
	}

	if err := application.Initialize(r); err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	var runErr error
	if capturing {
		runErr = runCapture(application, r, ui, in, sys, ctx, opts)
	} else {
		runErr = runWindowed(application, r, ui, in, sys, ctx)
	}

	cleanupErr := application.Cleanup()
	if runErr != nil {
		if cleanupErr != nil {
			log.Error().Err(cleanupErr).Msg("cleanup failed")
		}
		return runErr
	}
	return cleanupErr
}

// resolveSize starts from the example's configured size and lets
// explicitly passed -width and -height flags win.
func resolveSize(config Config, opts *options.Options, fs *flag.FlagSet) (int, int) {
	width, height := config.Width, config.Height
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if opts == nil || fs == nil {
		return width, height
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			width = *opts.Width
		case "height":
			height = *opts.Height
		}
	})
	return width, height
}

// wireHandlers routes window events to the gui first, then to input
// state and the application when the gui does not claim them.
func wireHandlers(window *glfwcontext.Context, application Application, r *renderer.Renderer, ui *gui.GUI, in *input.Input, sys *system.System) {
	window.SetHandlers(glfwcontext.Handlers{
		Key: func(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
			ui.OnKey(key, action)
			if ui.WantCaptureKeyboard() {
				return
			}
			in.OnKey(key, action)
			if err := application.OnKey(key, action); err != nil {
				log.Error().Err(err).Msg("key handler failed")
			}
		},
		MouseButton: func(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
			ui.OnMouseButton(button, action)
			if ui.WantCaptureMouse() {
				return
			}
			in.OnMouseButton(button, action)
			if err := application.OnMouse(button, action); err != nil {
				log.Error().Err(err).Msg("mouse handler failed")
			}
		},
		CursorPos: func(x, y float64) {
			ui.OnCursorPos(x, y)
			in.OnCursorMoved(x, y, sys.WindowCenter())
		},
		Scroll: func(xoff, yoff float64) {
			ui.OnScroll(xoff, yoff)
			if ui.WantCaptureMouse() {
				return
			}
			in.OnScroll(xoff, yoff)
		},
		Char: func(char rune) {
			ui.OnChar(char)
		},
		FramebufferSize: func(width, height int) {
			sys.Resize(width, height)
			r.Resize(width, height)
			if err := application.Resize(r, width, height); err != nil {
				log.Error().Err(err).Msg("resize handler failed")
			}
		},
	})
}

func runWindowed(application Application, r *renderer.Renderer, ui *gui.GUI, in *input.Input, sys *system.System, ctx graphics.Context) error {
	for !ctx.ShouldClose() && !sys.ExitRequested {
		in.BeginFrame()
		sys.BeginFrame()

		width, height := r.Size()
		if err := frame(application, r, ui, in, sys, width, height); err != nil {
			return err
		}
		ctx.EndFrame()
	}
	return nil
}

// frame runs one update and draw cycle into the bound framebuffer.
func frame(application Application, r *renderer.Renderer, ui *gui.GUI, in *input.Input, sys *system.System, width, height int) error {
	ui.BeginFrame(width, height, float32(sys.DeltaTime))
	if err := application.UpdateGUI(r); err != nil {
		return fmt.Errorf("updating gui: %w", err)
	}
	if err := application.Update(r, in, sys); err != nil {
		return fmt.Errorf("updating application: %w", err)
	}

	r.BeginFrame()
	if err := application.Render(r); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	ui.Render(width, height)
	return nil
}

func runCapture(application Application, r *renderer.Renderer, ui *gui.GUI, in *input.Input, sys *system.System, ctx graphics.Context, opts *options.Options) error {
	width, height := r.Size()
	target, err := renderer.NewOffscreenTarget(width, height, renderer.NumBuffers)
	if err != nil {
		return fmt.Errorf("creating offscreen target: %w", err)
	}
	defer target.Destroy()

	if *opts.Screenshot != "" {
		return captureScreenshot(application, r, ui, in, sys, ctx, target, *opts.Screenshot)
	}
	return captureVideo(application, r, ui, in, sys, ctx, target, opts)
}

// captureFrame draws one frame into the offscreen target and starts
// its readback. Pixels stay nil until the transfer ring fills.
func captureFrame(application Application, r *renderer.Renderer, ui *gui.GUI, in *input.Input, sys *system.System, ctx graphics.Context, target *renderer.OffscreenTarget) ([]byte, error) {
	width, height := target.Size()

	target.Bind()
	if err := frame(application, r, ui, in, sys, width, height); err != nil {
		return nil, err
	}
	pixels, err := target.ReadPixels()
	target.Unbind()
	if err != nil {
		return nil, err
	}

	if err := r.Present(target); err != nil {
		return nil, err
	}
	ctx.EndFrame()
	return pixels, nil
}

func captureScreenshot(application Application, r *renderer.Renderer, ui *gui.GUI, in *input.Input, sys *system.System, ctx graphics.Context, target *renderer.OffscreenTarget, path string) error {
	width, height := target.Size()
	for !ctx.ShouldClose() {
		in.BeginFrame()
		sys.BeginFrame()

		pixels, err := captureFrame(application, r, ui, in, sys, ctx, target)
		if err != nil {
			return err
		}
		if pixels == nil {
			continue
		}

		if err := encoder.WritePNG(path, pixels, width, height); err != nil {
			return fmt.Errorf("writing screenshot: %w", err)
		}
		log.Info().Str("path", path).Msg("screenshot saved")
		return nil
	}
	return errors.New("window closed before the capture completed")
}

func captureVideo(application Application, r *renderer.Renderer, ui *gui.GUI, in *input.Input, sys *system.System, ctx graphics.Context, target *renderer.OffscreenTarget, opts *options.Options) error {
	totalFrames := int(*opts.Duration * float64(*opts.FPS))
	if totalFrames <= 0 {
		return fmt.Errorf("nothing to record: %.2fs at %d fps", *opts.Duration, *opts.FPS)
	}

	width, height := target.Size()
	frames := make(chan *encoder.Frame, renderer.NumBuffers)
	done := make(chan error, 1)
	go func() {
		done <- encoder.Run(opts, width, height, frames)
	}()

	log.Info().
		Int("frames", totalFrames).
		Float64("duration", *opts.Duration).
		Int("fps", *opts.FPS).
		Msg("recording")

	emitted := 0
	for emitted < totalFrames && !ctx.ShouldClose() {
		in.BeginFrame()
		sys.BeginFrame()
		// Captures advance by a fixed step, not wall time.
		sys.DeltaTime = 1 / float64(*opts.FPS)

		pixels, err := captureFrame(application, r, ui, in, sys, ctx, target)
		if err != nil {
			close(frames)
			<-done
			return err
		}
		if pixels == nil {
			continue
		}

		select {
		case frames <- &encoder.Frame{Pixels: pixels, PTS: int64(emitted)}:
			emitted++
		case err := <-done:
			close(frames)
			if err != nil {
				return fmt.Errorf("encoder stopped early: %w", err)
			}
			return errors.New("encoder stopped early")
		}
	}

	close(frames)
	if err := <-done; err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	log.Info().Str("path", *opts.OutputFile).Int("frames", emitted).Msg("recording complete")
	return nil
}

func configureLogging() {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
