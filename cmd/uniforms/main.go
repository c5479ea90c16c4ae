package main

import (
	"flag"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	imgui "github.com/inkyblackness/imgui-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/matthewjberger/gl-examples/app"
	"github.com/matthewjberger/gl-examples/geometry"
	"github.com/matthewjberger/gl-examples/input"
	"github.com/matthewjberger/gl-examples/options"
	"github.com/matthewjberger/gl-examples/renderer"
	"github.com/matthewjberger/gl-examples/shader"
	"github.com/matthewjberger/gl-examples/system"
)

func init() {
	runtime.LockOSThread()
}

// Interleaved position and color.
var vertices = []float32{
	1.0, -1.0, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0,
	-1.0, -1.0, 0.0, 1.0, 0.0, 1.0, 0.0, 1.0,
	0.0, 1.0, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0,
}

// Clockwise winding order
var indices = []uint32{0, 1, 2}

func vertexLayout() geometry.Layout {
	return geometry.Layout{
		Stride: 8 * 4,
		Attributes: []geometry.Attribute{
			{Location: 0, Size: 4, Offset: 0},
			{Location: 1, Size: 4, Offset: 16},
		},
	}
}

const vertexSource = `
layout (location = 0) in vec4 in_position;
layout (location = 1) in vec4 in_color;

uniform mat4 u_mvp;

out vec4 frag_color;

void main() {
    frag_color = in_color;
    gl_Position = u_mvp * in_position;
}
`

const fragmentSource = `
in vec4 frag_color;

out vec4 out_color;

void main() {
    out_color = frag_color;
}
`

// App spins the triangle by accumulating a model rotation each frame
// and pushing the combined MVP to the shader.
type App struct {
	app.Base

	geometry *geometry.Geometry
	program  *renderer.Program
	model    mgl32.Mat4
	mvp      mgl32.Mat4
}

func (a *App) Initialize(*renderer.Renderer) error {
	geo, err := geometry.New(vertices, indices, vertexLayout())
	if err != nil {
		return err
	}
	program, err := renderer.NewProgram(shader.Assemble(vertexSource), shader.Assemble(fragmentSource))
	if err != nil {
		geo.Destroy()
		return err
	}
	a.geometry = geo
	a.program = program
	a.model = mgl32.Ident4()
	return nil
}

func (a *App) Update(_ *renderer.Renderer, _ *input.Input, sys *system.System) error {
	projection := mgl32.Perspective(mgl32.DegToRad(80), sys.AspectRatio(), 0.1, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	a.model = a.model.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(1)))
	a.mvp = projection.Mul4(view).Mul4(a.model)
	return nil
}

func (a *App) UpdateGUI(*renderer.Renderer) error {
	imgui.SetNextWindowPos(imgui.Vec2{X: 10, Y: 10})
	imgui.BeginV("opengl", nil, imgui.WindowFlagsNoResize)
	imgui.Text("Uniforms")
	imgui.End()
	return nil
}

func (a *App) Render(*renderer.Renderer) error {
	a.program.Use()
	a.program.SetMat4("u_mvp", a.mvp)
	a.geometry.Draw()
	return nil
}

func (a *App) Cleanup() error {
	if a.program != nil {
		a.program.Destroy()
	}
	if a.geometry != nil {
		a.geometry.Destroy()
	}
	return nil
}

func main() {
	opts := options.Bind()
	flag.Parse()

	if err := app.Run(&App{}, app.Config{Title: "Uniforms", Width: 800, Height: 600}, opts); err != nil {
		log.Fatal().Err(err).Msg("uniforms example failed")
	}
}
