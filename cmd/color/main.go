package main

import (
	"flag"
	"runtime"

	imgui "github.com/inkyblackness/imgui-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/matthewjberger/gl-examples/app"
	"github.com/matthewjberger/gl-examples/options"
	"github.com/matthewjberger/gl-examples/renderer"
)

func init() {
	runtime.LockOSThread()
}

// App clears to the default background and draws nothing else.
type App struct {
	app.Base
}

func (a *App) UpdateGUI(*renderer.Renderer) error {
	imgui.SetNextWindowPos(imgui.Vec2{X: 10, Y: 10})
	imgui.BeginV("opengl", nil, imgui.WindowFlagsNoResize)
	imgui.Text("Solid Color")
	imgui.End()
	return nil
}

func main() {
	opts := options.Bind()
	flag.Parse()

	if err := app.Run(&App{}, app.Config{Title: "Solid Color", Width: 800, Height: 600}, opts); err != nil {
		log.Fatal().Err(err).Msg("color example failed")
	}
}
