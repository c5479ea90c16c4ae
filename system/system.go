package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// System tracks frame timing and window geometry for a running example.
type System struct {
	Width         int
	Height        int
	DeltaTime     float64
	StartTime     time.Time
	ExitRequested bool

	lastFrame time.Time
}

func New(width, height int) *System {
	now := time.Now()
	return &System{
		Width:     width,
		Height:    height,
		DeltaTime: 0.01,
		StartTime: now,
		lastFrame: now,
	}
}

// BeginFrame advances the frame clock. Call once at the top of each
// iteration of the main loop.
func (s *System) BeginFrame() {
	now := time.Now()
	s.DeltaTime = now.Sub(s.lastFrame).Seconds()
	s.lastFrame = now
}

func (s *System) Resize(width, height int) {
	s.Width = width
	s.Height = height
}

func (s *System) RequestExit() {
	s.ExitRequested = true
}

func (s *System) SinceStart() time.Duration {
	return time.Since(s.StartTime)
}

func (s *System) AspectRatio() float32 {
	height := s.Height
	if height == 0 {
		height = 1
	}
	return float32(s.Width) / float32(height)
}

func (s *System) WindowCenter() mgl32.Vec2 {
	return mgl32.Vec2{float32(s.Width) / 2, float32(s.Height) / 2}
}
