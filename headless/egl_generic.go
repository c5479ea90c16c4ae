//go:build !linux

package headless

import "fmt"

// Headless is only implemented on Linux, where EGL device enumeration
// can reach a GPU without a display server.
type Headless struct{}

func New(width, height int) (*Headless, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}

func (h *Headless) MakeCurrent() {}

func (h *Headless) EndFrame() {}

func (h *Headless) FramebufferSize() (int, int) { return 0, 0 }

func (h *Headless) ShouldClose() bool { return false }

func (h *Headless) Time() float64 { return 0 }

func (h *Headless) Shutdown() {}
