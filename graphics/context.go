// Package graphics abstracts where frames go: a visible GLFW window or
// a headless EGL surface.
package graphics

// Context is an OpenGL context plus the surface it presents to.
type Context interface {
	// MakeCurrent binds the context to the calling thread.
	MakeCurrent()
	// EndFrame presents the rendered frame and pumps platform events.
	EndFrame()
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (int, int)
	// ShouldClose reports whether the surface asked to close.
	ShouldClose() bool
	// Time returns seconds since the context was created.
	Time() float64
	// Shutdown destroys the surface.
	Shutdown()
}
