package main

import (
	"flag"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	imgui "github.com/inkyblackness/imgui-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/matthewjberger/gl-examples/app"
	"github.com/matthewjberger/gl-examples/camera"
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

const instancesPerRow = 10

// Interleaved position and color.
var vertices = []float32{
	1.0, -1.0, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0,
	-1.0, -1.0, 0.0, 1.0, 0.0, 1.0, 0.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 1.0, 1.0, 0.5, 1.0, 1.0,
}

// Clockwise winding order
var indices = []uint32{0, 1, 2, 1, 2, 3}

func vertexLayout() geometry.Layout {
	return geometry.Layout{
		Stride: 8 * 4,
		Attributes: []geometry.Attribute{
			{Location: 0, Size: 4, Offset: 0},
			{Location: 1, Size: 4, Offset: 16},
		},
	}
}

func instanceMatrices() []mgl32.Mat4 {
	displacement := mgl32.Vec3{instancesPerRow, 0, instancesPerRow}
	matrices := make([]mgl32.Mat4, 0, instancesPerRow*instancesPerRow)
	for z := 0; z < instancesPerRow; z++ {
		for x := 0; x < instancesPerRow; x++ {
			position := mgl32.Vec3{float32(x), 0, float32(z)}.Sub(displacement)

			rotation := mgl32.QuatIdent()
			if position.Len() > 0 {
				rotation = mgl32.QuatRotate(mgl32.DegToRad(45), position.Normalize())
			}

			model := mgl32.Translate3D(position.X(), position.Y(), position.Z()).Mul4(rotation.Mat4())
			matrices = append(matrices, model)
		}
	}
	return matrices
}

const vertexSource = `
layout (location = 0) in vec4 in_position;
layout (location = 1) in vec4 in_color;
layout (location = 2) in mat4 in_model;

uniform mat4 u_mvp;

out vec4 frag_color;

void main() {
    vec4 position = in_position;
    position.y *= -1.0;

    frag_color = in_color;
    gl_Position = u_mvp * in_model * position;
}
`

const fragmentSource = `
in vec4 frag_color;

out vec4 out_color;

void main() {
    out_color = frag_color;
}
`

// App fills the view with instanced quads and exposes the renderer's
// fill mode as a GUI toggle.
type App struct {
	app.Base

	geometry  *geometry.Geometry
	program   *renderer.Program
	camera    *camera.MouseOrbit
	count     int32
	mvp       mgl32.Mat4
	wireframe bool
}

func (a *App) Initialize(*renderer.Renderer) error {
	geo, err := geometry.New(vertices, indices, vertexLayout())
	if err != nil {
		return err
	}
	matrices := instanceMatrices()
	geo.AttachInstanceMatrices(2, matrices)

	program, err := renderer.NewProgram(shader.Assemble(vertexSource), shader.Assemble(fragmentSource))
	if err != nil {
		geo.Destroy()
		return err
	}

	a.camera = camera.NewMouseOrbit()
	a.camera.Transform.Translation = mgl32.Vec3{4, 0, 4}
	a.camera.Orientation.Sensitivity = mgl32.Vec2{0.1, 0.1}

	a.geometry = geo
	a.program = program
	a.count = int32(len(matrices))
	return nil
}

func (a *App) Update(_ *renderer.Renderer, in *input.Input, sys *system.System) error {
	a.camera.Update(in, sys)
	a.mvp = a.camera.ProjectionViewMatrix(sys.AspectRatio())
	return nil
}

func (a *App) UpdateGUI(r *renderer.Renderer) error {
	imgui.SetNextWindowPos(imgui.Vec2{X: 10, Y: 10})
	imgui.BeginV("opengl", nil, imgui.WindowFlagsNoResize)
	imgui.Text("Shapes")
	if imgui.Checkbox("Wireframe", &a.wireframe) {
		r.SetWireframe(a.wireframe)
	}
	imgui.End()
	return nil
}

func (a *App) Render(*renderer.Renderer) error {
	a.program.Use()
	a.program.SetMat4("u_mvp", a.mvp)
	a.geometry.DrawInstanced(a.count)
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

	if err := app.Run(&App{}, app.Config{Title: "Shapes", Width: 1920, Height: 1080}, opts); err != nil {
		log.Fatal().Err(err).Msg("shapes example failed")
	}
}
