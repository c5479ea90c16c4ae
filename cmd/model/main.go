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
	"github.com/matthewjberger/gl-examples/world"
)

func init() {
	runtime.LockOSThread()
}

const vertexSource = `
layout (location = 0) in vec3 in_position;
layout (location = 1) in vec3 in_normal;

uniform mat4 u_mvp;

out vec3 frag_normal;

void main() {
    frag_normal = in_normal;
    gl_Position = u_mvp * vec4(in_position, 1.0);
}
`

const fragmentSource = `
in vec3 frag_normal;

out vec4 out_color;

void main() {
    out_color = vec4(frag_normal, 1.0);
}
`

// App loads a glTF document into a world, uploads the pooled geometry
// once, and draws every mesh node at its global transform while the
// whole model spins.
type App struct {
	app.Base

	path     string
	world    *world.World
	geometry *geometry.Geometry
	program  *renderer.Program
	model    mgl32.Mat4
	projView mgl32.Mat4
}

func (a *App) Initialize(*renderer.Renderer) error {
	w, err := world.Load(a.path)
	if err != nil {
		return err
	}

	geo, err := geometry.New(world.Flatten(w.Vertices), w.Indices, world.VertexLayout())
	if err != nil {
		return err
	}
	program, err := renderer.NewProgram(shader.Assemble(vertexSource), shader.Assemble(fragmentSource))
	if err != nil {
		geo.Destroy()
		return err
	}

	a.world = w
	a.geometry = geo
	a.program = program
	a.model = mgl32.Ident4()
	return nil
}

func (a *App) Update(_ *renderer.Renderer, _ *input.Input, sys *system.System) error {
	projection := mgl32.Perspective(mgl32.DegToRad(80), sys.AspectRatio(), 0.1, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	a.model = a.model.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(1)))
	a.projView = projection.Mul4(view)
	return nil
}

func (a *App) UpdateGUI(*renderer.Renderer) error {
	imgui.SetNextWindowPos(imgui.Vec2{X: 10, Y: 10})
	imgui.BeginV("opengl", nil, imgui.WindowFlagsNoResize)
	imgui.Text("Model")
	imgui.End()
	return nil
}

func (a *App) Render(*renderer.Renderer) error {
	a.program.Use()
	for _, id := range a.world.MeshNodes() {
		node := a.world.Graph.Node(id)
		if node == nil || node.Value.Mesh < 0 {
			continue
		}
		global := a.world.Graph.GlobalTransform(id).Matrix()
		a.program.SetMat4("u_mvp", a.projView.Mul4(a.model).Mul4(global))
		for _, prim := range a.world.Meshes[node.Value.Mesh].Primitives {
			a.geometry.DrawRange(int32(prim.FirstIndex), int32(prim.IndexCount))
		}
	}
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
	modelPath := flag.String("model", "assets/DamagedHelmet.glb", "path to a glTF 2.0 document (.gltf or .glb)")
	flag.Parse()

	application := &App{path: *modelPath}
	if err := app.Run(application, app.Config{Title: "Model", Width: 800, Height: 600}, opts); err != nil {
		log.Fatal().Err(err).Msg("model example failed")
	}
}
