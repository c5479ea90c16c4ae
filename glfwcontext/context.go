// Package glfwcontext provides the windowed OpenGL context used by the
// interactive examples.
package glfwcontext

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog/log"
)

// Handlers are the window callbacks an application can register. Nil
// fields are ignored. Cursor positions are reported in framebuffer
// pixels, matching FramebufferSize.
type Handlers struct {
	Key             func(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey)
	MouseButton     func(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey)
	CursorPos       func(x, y float64)
	Scroll          func(xoff, yoff float64)
	Char            func(char rune)
	FramebufferSize func(width, height int)
}

// Context wraps a GLFW window holding an OpenGL 4.1 core context.
type Context struct {
	window   *glfw.Window
	handlers Handlers
}

// InitGraphics initializes the windowing subsystem. Must be called from
// the main thread before any context is created.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	log.Debug().Msg("glfw initialized")
	return nil
}

// TerminateGraphics shuts the windowing subsystem down. Must be called
// from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Debug().Msg("glfw terminated")
}

// New creates a window with an OpenGL 4.1 core profile context. The
// Escape key closes the window.
func New(title string, width, height int, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	c := &Context{window: win}
	win.SetKeyCallback(c.onKey)
	win.SetMouseButtonCallback(c.onMouseButton)
	win.SetCursorPosCallback(c.onCursorPos)
	win.SetScrollCallback(c.onScroll)
	win.SetCharCallback(c.onChar)
	win.SetFramebufferSizeCallback(c.onFramebufferSize)

	return c, nil
}

// SetHandlers registers the application callbacks.
func (c *Context) SetHandlers(h Handlers) {
	c.handlers = h
}

func (c *Context) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	if c.handlers.Key != nil {
		c.handlers.Key(key, scancode, action, mods)
	}
}

func (c *Context) onMouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if c.handlers.MouseButton != nil {
		c.handlers.MouseButton(button, action, mods)
	}
}

func (c *Context) onCursorPos(w *glfw.Window, x, y float64) {
	if c.handlers.CursorPos != nil {
		scaleX, scaleY := c.contentScale()
		c.handlers.CursorPos(x*scaleX, y*scaleY)
	}
}

func (c *Context) onScroll(w *glfw.Window, xoff, yoff float64) {
	if c.handlers.Scroll != nil {
		c.handlers.Scroll(xoff, yoff)
	}
}

func (c *Context) onChar(w *glfw.Window, char rune) {
	if c.handlers.Char != nil {
		c.handlers.Char(char)
	}
}

func (c *Context) onFramebufferSize(w *glfw.Window, width, height int) {
	if c.handlers.FramebufferSize != nil {
		c.handlers.FramebufferSize(width, height)
	}
}

// contentScale maps window coordinates to framebuffer pixels. The two
// differ on high-DPI displays.
func (c *Context) contentScale() (float64, float64) {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	if winWidth == 0 || winHeight == 0 {
		return 1, 1
	}
	return float64(fbWidth) / float64(winWidth), float64(fbHeight) / float64(winHeight)
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// EndFrame swaps the back buffer and pumps window events.
func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

// FramebufferSize returns the drawable size in pixels.
func (c *Context) FramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// ShouldClose reports whether the window was asked to close.
func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// RequestClose asks the window to close at the end of the frame.
func (c *Context) RequestClose() {
	c.window.SetShouldClose(true)
}

// Time returns seconds since GLFW was initialized.
func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

// Window returns the underlying *glfw.Window for callers that need
// window services the Context does not wrap.
func (c *Context) Window() *glfw.Window {
	return c.window
}
