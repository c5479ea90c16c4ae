package input

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Mouse is the per-frame mouse state. Deltas are valid between one
// BeginFrame and the next.
type Mouse struct {
	Position         mgl32.Vec2
	PositionDelta    mgl32.Vec2
	OffsetFromCenter mgl32.Vec2
	WheelDelta       mgl32.Vec2
	LeftClicked      bool
	RightClicked     bool

	moved    bool
	scrolled bool
}

// Input gathers keyboard and mouse state from window callbacks.
type Input struct {
	Mouse     Mouse
	keystates map[glfw.Key]glfw.Action
}

func New() *Input {
	return &Input{keystates: make(map[glfw.Key]glfw.Action)}
}

func (in *Input) IsKeyPressed(key glfw.Key) bool {
	action, ok := in.keystates[key]
	return ok && (action == glfw.Press || action == glfw.Repeat)
}

// BeginFrame clears deltas that received no event since the previous
// frame. Call before polling window events.
func (in *Input) BeginFrame() {
	if !in.Mouse.scrolled {
		in.Mouse.WheelDelta = mgl32.Vec2{}
	}
	in.Mouse.scrolled = false

	if !in.Mouse.moved {
		in.Mouse.PositionDelta = mgl32.Vec2{}
	}
	in.Mouse.moved = false
}

func (in *Input) OnKey(key glfw.Key, action glfw.Action) {
	in.keystates[key] = action
}

func (in *Input) OnMouseButton(button glfw.MouseButton, action glfw.Action) {
	clicked := action == glfw.Press
	switch button {
	case glfw.MouseButtonLeft:
		in.Mouse.LeftClicked = clicked
	case glfw.MouseButtonRight:
		in.Mouse.RightClicked = clicked
	}
}

func (in *Input) OnCursorMoved(x, y float64, windowCenter mgl32.Vec2) {
	last := in.Mouse.Position
	current := mgl32.Vec2{float32(x), float32(y)}
	in.Mouse.Position = current
	in.Mouse.PositionDelta = current.Sub(last)
	in.Mouse.OffsetFromCenter = windowCenter.Sub(current)
	in.Mouse.moved = true
}

func (in *Input) OnScroll(xoffset, yoffset float64) {
	in.Mouse.WheelDelta = mgl32.Vec2{float32(xoffset), float32(yoffset)}
	in.Mouse.scrolled = true
}
