package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s := New(800, 600)

	assert.Equal(t, 800, s.Width)
	assert.Equal(t, 600, s.Height)
	assert.InDelta(t, 0.01, s.DeltaTime, 1e-9)
	assert.False(t, s.ExitRequested)
}

func TestAspectRatio(t *testing.T) {
	s := New(1920, 1080)
	assert.InDelta(t, 16.0/9.0, float64(s.AspectRatio()), 1e-4)

	s.Resize(100, 0)
	assert.InDelta(t, 100, float64(s.AspectRatio()), 1e-4)
}

func TestWindowCenter(t *testing.T) {
	s := New(800, 600)
	center := s.WindowCenter()
	assert.InDelta(t, 400, float64(center.X()), 1e-6)
	assert.InDelta(t, 300, float64(center.Y()), 1e-6)
}

func TestBeginFrameUpdatesDelta(t *testing.T) {
	s := New(1, 1)
	time.Sleep(5 * time.Millisecond)
	s.BeginFrame()

	require.Greater(t, s.DeltaTime, 0.0)
	assert.Less(t, s.DeltaTime, 5.0)
	assert.GreaterOrEqual(t, s.SinceStart(), time.Duration(0))
}

func TestResize(t *testing.T) {
	s := New(10, 10)
	s.Resize(640, 480)
	assert.Equal(t, 640, s.Width)
	assert.Equal(t, 480, s.Height)
}

func TestRequestExit(t *testing.T) {
	s := New(1, 1)
	s.RequestExit()
	assert.True(t, s.ExitRequested)
}
