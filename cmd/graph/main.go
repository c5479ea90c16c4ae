package main

import (
	"flag"
	"fmt"
	"runtime"

	imgui "github.com/inkyblackness/imgui-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/matthewjberger/gl-examples/app"
	"github.com/matthewjberger/gl-examples/geometry"
	"github.com/matthewjberger/gl-examples/nodegraph"
	"github.com/matthewjberger/gl-examples/options"
	"github.com/matthewjberger/gl-examples/renderer"
	"github.com/matthewjberger/gl-examples/shader"
	"github.com/matthewjberger/gl-examples/texture"
)

func init() {
	runtime.LockOSThread()
}

type shape string

const shapeRectangle shape = "Rectangle"

// Interleaved position and texture coordinates.
var vertices = []float32{
	0.6, -0.6, 0.0, 1.0, 1.0, 0.0,
	-0.6, -0.6, 0.0, 1.0, 0.0, 0.0,
	0.6, 0.6, 0.0, 1.0, 1.0, 1.0,
	-0.6, 0.6, 0.0, 1.0, 0.0, 1.0,
}

// Clockwise winding order
var indices = []uint32{0, 1, 2, 1, 2, 3}

func vertexLayout() geometry.Layout {
	return geometry.Layout{
		Stride: 6 * 4,
		Attributes: []geometry.Attribute{
			{Location: 0, Size: 4, Offset: 0},
			{Location: 1, Size: 2, Offset: 16},
		},
	}
}

const vertexSource = `
layout (location = 0) in vec4 in_position;
layout (location = 1) in vec2 in_uv;

out vec2 frag_uv;

void main() {
    frag_uv = in_uv;
    gl_Position = in_position;
}
`

const fragmentSource = `
in vec2 frag_uv;

uniform sampler2D u_diffuse;

out vec4 out_color;

void main() {
    out_color = texture(u_diffuse, frag_uv);
}
`

// App builds a small node graph, checks its connectivity, and shows the
// graph's DOT form in the overlay next to a textured quad.
type App struct {
	app.Base

	geometry *geometry.Geometry
	program  *renderer.Program
	diffuse  *texture.Handle
	dot      string
}

func (a *App) Initialize(r *renderer.Renderer) error {
	graph := nodegraph.New[string, string, shape]()
	if err := graph.AddNode("node1", shapeRectangle); err != nil {
		return err
	}
	if err := graph.AddNode("node2", shapeRectangle); err != nil {
		return err
	}
	if err := graph.AddEdge("node1", "node2", "edge1-2"); err != nil {
		return err
	}

	edges, ok := graph.EdgesConnectedTo("node1")
	if !ok || len(edges) != 1 || edges[0].ID != "node2" || edges[0].Edge != "edge1-2" {
		return fmt.Errorf("unexpected edges connected to node1: %v", edges)
	}

	dot, err := graph.ToDot()
	if err != nil {
		return err
	}
	a.dot = dot
	log.Info().Int("nodes", graph.NodeCount()).Int("edges", graph.EdgeCount()).Msg("node graph ready")

	geo, err := geometry.New(vertices, indices, vertexLayout())
	if err != nil {
		return err
	}
	program, err := renderer.NewProgram(shader.Assemble(vertexSource), shader.Assemble(fragmentSource))
	if err != nil {
		geo.Destroy()
		return err
	}
	diffuse, err := texture.Upload(texture.Checkerboard(256, 256, 32))
	if err != nil {
		program.Destroy()
		geo.Destroy()
		return err
	}
	a.geometry = geo
	a.program = program
	a.diffuse = diffuse
	r.SetDepthTest(false)
	return nil
}

func (a *App) UpdateGUI(*renderer.Renderer) error {
	imgui.SetNextWindowPos(imgui.Vec2{X: 10, Y: 10})
	imgui.BeginV("opengl", nil, imgui.WindowFlagsNoResize)
	imgui.Text("Graph")
	imgui.Separator()
	imgui.Text(a.dot)
	imgui.End()
	return nil
}

func (a *App) Render(*renderer.Renderer) error {
	a.program.Use()
	a.diffuse.Bind(0)
	a.program.SetInt("u_diffuse", 0)
	a.geometry.Draw()
	return nil
}

func (a *App) Cleanup() error {
	if a.diffuse != nil {
		a.diffuse.Destroy()
	}
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

	if err := app.Run(&App{}, app.Config{Title: "Graph", Width: 800, Height: 600}, opts); err != nil {
		log.Fatal().Err(err).Msg("graph example failed")
	}
}
