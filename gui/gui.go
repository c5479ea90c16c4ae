// Package gui draws an immediate mode interface over the scene. It owns
// the imgui context, feeds it window events, and renders the draw lists
// with its own program so example GL state stays untouched.
package gui

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/matthewjberger/gl-examples/renderer"
)

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec2 in_position;
layout (location = 1) in vec2 in_uv;
layout (location = 2) in vec4 in_color;
uniform mat4 u_projection;
out vec2 frag_uv;
out vec4 frag_color;
void main() {
    frag_uv = in_uv;
    frag_color = in_color;
    gl_Position = u_projection * vec4(in_position, 0.0, 1.0);
}
`

const fragmentShaderSource = `#version 410 core
in vec2 frag_uv;
in vec4 frag_color;
uniform sampler2D u_texture;
out vec4 out_color;
void main() { out_color = frag_color * texture(u_texture, frag_uv.st); }
`

// GUI wraps an imgui context together with its GL resources.
type GUI struct {
	context *imgui.Context
	io      imgui.IO

	program     *renderer.Program
	fontTexture uint32
	vao         uint32
	vbo         uint32
	ebo         uint32
}

// New creates the imgui context and uploads the font atlas. Requires a
// current GL context.
func New() (*GUI, error) {
	context := imgui.CreateContext(nil)

	g := &GUI{
		context: context,
		io:      imgui.CurrentIO(),
	}
	g.setKeyMapping()

	if err := g.createDeviceObjects(); err != nil {
		context.Destroy()
		return nil, err
	}
	return g, nil
}

func (g *GUI) createDeviceObjects() error {
	program, err := renderer.NewProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return fmt.Errorf("failed to create gui program: %w", err)
	}
	g.program = program

	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.GenBuffers(1, &g.ebo)

	g.createFontTexture()
	return nil
}

func (g *GUI) createFontTexture() {
	fontImage := g.io.Fonts().TextureDataRGBA32()

	var lastTexture int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &lastTexture)
	gl.GenTextures(1, &g.fontTexture)
	gl.BindTexture(gl.TEXTURE_2D, g.fontTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(fontImage.Width), int32(fontImage.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, fontImage.Pixels)
	g.io.Fonts().SetTextureID(imgui.TextureID(g.fontTexture))
	gl.BindTexture(gl.TEXTURE_2D, uint32(lastTexture))
}

func (g *GUI) setKeyMapping() {
	keys := map[int]int{
		imgui.KeyTab:        int(glfw.KeyTab),
		imgui.KeyLeftArrow:  int(glfw.KeyLeft),
		imgui.KeyRightArrow: int(glfw.KeyRight),
		imgui.KeyUpArrow:    int(glfw.KeyUp),
		imgui.KeyDownArrow:  int(glfw.KeyDown),
		imgui.KeyPageUp:     int(glfw.KeyPageUp),
		imgui.KeyPageDown:   int(glfw.KeyPageDown),
		imgui.KeyHome:       int(glfw.KeyHome),
		imgui.KeyEnd:        int(glfw.KeyEnd),
		imgui.KeyInsert:     int(glfw.KeyInsert),
		imgui.KeyDelete:     int(glfw.KeyDelete),
		imgui.KeyBackspace:  int(glfw.KeyBackspace),
		imgui.KeySpace:      int(glfw.KeySpace),
		imgui.KeyEnter:      int(glfw.KeyEnter),
		imgui.KeyEscape:     int(glfw.KeyEscape),
		imgui.KeyA:          int(glfw.KeyA),
		imgui.KeyC:          int(glfw.KeyC),
		imgui.KeyV:          int(glfw.KeyV),
		imgui.KeyX:          int(glfw.KeyX),
		imgui.KeyY:          int(glfw.KeyY),
		imgui.KeyZ:          int(glfw.KeyZ),
	}
	for imguiKey, nativeKey := range keys {
		g.io.KeyMap(imguiKey, nativeKey)
	}
}

// BeginFrame starts a new interface frame sized to the framebuffer.
func (g *GUI) BeginFrame(width, height int, deltaTime float32) {
	g.io.SetDisplaySize(imgui.Vec2{X: float32(width), Y: float32(height)})
	if deltaTime <= 0 {
		deltaTime = 1.0 / 60.0
	}
	g.io.SetDeltaTime(deltaTime)
	imgui.NewFrame()
}

// Render finalizes the frame and draws it into the bound framebuffer.
func (g *GUI) Render(width, height int) {
	imgui.Render()
	g.renderDrawData(imgui.RenderedDrawData(), width, height)
}

func (g *GUI) renderDrawData(drawData imgui.DrawData, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	// Interface coordinates put the origin at the top left, y down.
	projection := mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
	g.program.Use()
	g.program.SetInt("u_texture", 0)
	g.program.SetMat4("u_projection", projection)
	gl.BindSampler(0, 0)

	vertexSize, posOffset, uvOffset, colorOffset := imgui.VertexBufferLayout()
	indexSize := imgui.IndexBufferLayout()
	drawType := uint32(gl.UNSIGNED_SHORT)
	if indexSize == 4 {
		drawType = gl.UNSIGNED_INT
	}

	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.EnableVertexAttribArray(0)
	gl.EnableVertexAttribArray(1)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, int32(vertexSize), uintptr(posOffset))
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, int32(vertexSize), uintptr(uvOffset))
	gl.VertexAttribPointerWithOffset(2, 4, gl.UNSIGNED_BYTE, true, int32(vertexSize), uintptr(colorOffset))

	for _, list := range drawData.CommandLists() {
		var indexBufferOffset uintptr

		vertexBuffer, vertexBufferSize := list.VertexBuffer()
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, vertexBufferSize, vertexBuffer, gl.STREAM_DRAW)

		indexBuffer, indexBufferSize := list.IndexBuffer()
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBufferSize, indexBuffer, gl.STREAM_DRAW)

		for _, command := range list.Commands() {
			if command.HasUserCallback() {
				command.CallUserCallback(list)
			} else {
				clipRect := command.ClipRect()
				gl.Scissor(int32(clipRect.X), int32(float32(height)-clipRect.W),
					int32(clipRect.Z-clipRect.X), int32(clipRect.W-clipRect.Y))
				gl.BindTexture(gl.TEXTURE_2D, uint32(command.TextureID()))
				gl.DrawElementsWithOffset(gl.TRIANGLES, int32(command.ElementCount()), drawType, indexBufferOffset)
			}
			indexBufferOffset += uintptr(command.ElementCount() * indexSize)
		}
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.SCISSOR_TEST)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// WantCaptureMouse reports whether the interface is using the mouse, so
// examples can skip camera input.
func (g *GUI) WantCaptureMouse() bool { return g.io.WantCaptureMouse() }

// WantCaptureKeyboard reports whether a widget has keyboard focus.
func (g *GUI) WantCaptureKeyboard() bool { return g.io.WantCaptureKeyboard() }

// OnKey forwards a key event to the interface.
func (g *GUI) OnKey(key glfw.Key, action glfw.Action) {
	switch action {
	case glfw.Press:
		g.io.KeyPress(int(key))
	case glfw.Release:
		g.io.KeyRelease(int(key))
	}
	g.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
	g.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
	g.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
	g.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
}

// OnChar forwards typed text.
func (g *GUI) OnChar(char rune) {
	g.io.AddInputCharacters(string(char))
}

// OnMouseButton forwards a mouse button event.
func (g *GUI) OnMouseButton(button glfw.MouseButton, action glfw.Action) {
	index := -1
	switch button {
	case glfw.MouseButtonLeft:
		index = 0
	case glfw.MouseButtonRight:
		index = 1
	case glfw.MouseButtonMiddle:
		index = 2
	}
	if index >= 0 {
		g.io.SetMouseButtonDown(index, action == glfw.Press)
	}
}

// OnCursorPos forwards the cursor position in framebuffer pixels.
func (g *GUI) OnCursorPos(x, y float64) {
	g.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
}

// OnScroll forwards scroll wheel movement.
func (g *GUI) OnScroll(x, y float64) {
	g.io.AddMouseWheelDelta(float32(x), float32(y))
}

// Destroy releases the GL objects and the imgui context.
func (g *GUI) Destroy() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
	}
	if g.fontTexture != 0 {
		gl.DeleteTextures(1, &g.fontTexture)
		g.io.Fonts().SetTextureID(0)
	}
	if g.program != nil {
		g.program.Destroy()
	}
	g.context.Destroy()
}
