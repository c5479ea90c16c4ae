package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestKeyStates(t *testing.T) {
	in := New()

	assert.False(t, in.IsKeyPressed(glfw.KeyW))

	in.OnKey(glfw.KeyW, glfw.Press)
	assert.True(t, in.IsKeyPressed(glfw.KeyW))

	in.OnKey(glfw.KeyW, glfw.Repeat)
	assert.True(t, in.IsKeyPressed(glfw.KeyW))

	in.OnKey(glfw.KeyW, glfw.Release)
	assert.False(t, in.IsKeyPressed(glfw.KeyW))
}

func TestMouseButtons(t *testing.T) {
	in := New()

	in.OnMouseButton(glfw.MouseButtonLeft, glfw.Press)
	assert.True(t, in.Mouse.LeftClicked)
	assert.False(t, in.Mouse.RightClicked)

	in.OnMouseButton(glfw.MouseButtonRight, glfw.Press)
	assert.True(t, in.Mouse.RightClicked)

	in.OnMouseButton(glfw.MouseButtonLeft, glfw.Release)
	assert.False(t, in.Mouse.LeftClicked)
}

func TestCursorDelta(t *testing.T) {
	in := New()
	center := mgl32.Vec2{400, 300}

	in.OnCursorMoved(10, 20, center)
	in.BeginFrame()
	in.OnCursorMoved(15, 26, center)

	assert.InDelta(t, 5, float64(in.Mouse.PositionDelta.X()), 1e-6)
	assert.InDelta(t, 6, float64(in.Mouse.PositionDelta.Y()), 1e-6)
	assert.InDelta(t, 385, float64(in.Mouse.OffsetFromCenter.X()), 1e-6)
	assert.InDelta(t, 274, float64(in.Mouse.OffsetFromCenter.Y()), 1e-6)
}

func TestBeginFrameClearsStaleDeltas(t *testing.T) {
	in := New()
	center := mgl32.Vec2{0, 0}

	in.OnCursorMoved(5, 5, center)
	in.OnScroll(0, 2)

	// Events arrived this frame, deltas survive one BeginFrame.
	in.BeginFrame()
	assert.InDelta(t, 2, float64(in.Mouse.WheelDelta.Y()), 1e-6)

	// No events since, deltas reset.
	in.BeginFrame()
	assert.Equal(t, mgl32.Vec2{}, in.Mouse.WheelDelta)
	assert.Equal(t, mgl32.Vec2{}, in.Mouse.PositionDelta)
}
