// Package renderer owns the OpenGL state shared by every example:
// context bring-up, program compilation, per-frame clearing, and the
// offscreen targets used for capture.
package renderer

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"

	"github.com/matthewjberger/gl-examples/graphics"
	"github.com/matthewjberger/gl-examples/shader"
)

// glInitOnce guards gl.Init, which must run exactly once per process
// even when contexts are recreated.
var glInitOnce sync.Once

// DefaultClearColor is the background every example starts from.
var DefaultClearColor = mgl32.Vec4{0.1, 0.2, 0.3, 1.0}

// Renderer tracks the GL state the frame loop depends on: clear color,
// fill and depth modes, and the fullscreen pass used to present
// offscreen targets.
type Renderer struct {
	context    graphics.Context
	width      int
	height     int
	clearColor mgl32.Vec4
	wireframe  bool
	depthTest  bool

	blitProgram *Program
	quadVAO     uint32
	quadVBO     uint32
}

// quadVertices covers the screen with two triangles.
var quadVertices = []float32{
	-1.0, -1.0,
	1.0, -1.0,
	-1.0, 1.0,
	1.0, -1.0,
	1.0, 1.0,
	-1.0, 1.0,
}

// New makes the context current, loads the GL function pointers, and
// prepares the default per-frame state.
func New(ctx graphics.Context, width, height int) (*Renderer, error) {
	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	log.Info().Str("version", version).Msg("opengl context ready")

	r := &Renderer{
		context:    ctx,
		width:      width,
		height:     height,
		clearColor: DefaultClearColor,
		depthTest:  true,
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Viewport(0, 0, int32(width), int32(height))

	return r, nil
}

// BeginFrame re-asserts the fill and depth modes and clears the bound
// framebuffer.
func (r *Renderer) BeginFrame() {
	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	if r.depthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Resize updates the default framebuffer viewport.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) SetClearColor(c mgl32.Vec4) { r.clearColor = c }

func (r *Renderer) SetWireframe(enabled bool) { r.wireframe = enabled }

func (r *Renderer) Wireframe() bool { return r.wireframe }

// SetDepthTest controls depth testing for example draws. Flat
// screen-space examples turn it off.
func (r *Renderer) SetDepthTest(enabled bool) { r.depthTest = enabled }

func (r *Renderer) DepthTest() bool { return r.depthTest }

func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Present draws the target's color attachment as a fullscreen quad to
// the default framebuffer, so capture runs still show up in the window.
func (r *Renderer) Present(t *OffscreenTarget) error {
	if r.blitProgram == nil {
		if err := r.initBlitPass(); err != nil {
			return err
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.Disable(gl.DEPTH_TEST)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	r.blitProgram.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.ColorTexture())
	r.blitProgram.SetInt("u_texture", 0)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if r.depthTest {
		gl.Enable(gl.DEPTH_TEST)
	}
	return nil
}

func (r *Renderer) initBlitPass() error {
	program, err := NewProgram(shader.BlitVertexSource, shader.BlitFragmentSource)
	if err != nil {
		return fmt.Errorf("failed to create blit program: %w", err)
	}
	r.blitProgram = program

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

// Shutdown releases the resources owned by the renderer. The GL context
// itself is shut down by whoever created it.
func (r *Renderer) Shutdown() {
	if r.blitProgram != nil {
		r.blitProgram.Destroy()
		gl.DeleteVertexArrays(1, &r.quadVAO)
		gl.DeleteBuffers(1, &r.quadVBO)
	}
}
