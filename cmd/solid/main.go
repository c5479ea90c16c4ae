package main

import (
	"flag"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/matthewjberger/gl-examples/app"
	"github.com/matthewjberger/gl-examples/options"
)

func init() {
	runtime.LockOSThread()
}

// App is the smallest possible example: every frame is just the clear.
type App struct {
	app.Base
}

func main() {
	opts := options.Bind()
	flag.Parse()

	if err := app.Run(&App{}, app.Config{Title: "Hello", Width: 800, Height: 600}, opts); err != nil {
		log.Fatal().Err(err).Msg("solid example failed")
	}
}
