package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matthewjberger/gl-examples/input"
	"github.com/matthewjberger/gl-examples/system"
	"github.com/matthewjberger/gl-examples/transform"
)

// PerspectiveCamera projects with a fixed vertical field of view.
type PerspectiveCamera struct {
	YFOV  float32
	ZNear float32
	ZFar  float32
}

func NewPerspectiveCamera() PerspectiveCamera {
	return PerspectiveCamera{
		YFOV:  mgl32.DegToRad(80),
		ZNear: 0.1,
		ZFar:  1000,
	}
}

func (c PerspectiveCamera) ProjectionMatrix(aspectRatio float32) mgl32.Mat4 {
	return mgl32.Perspective(c.YFOV, aspectRatio, c.ZNear, c.ZFar)
}

// MouseOrbit is an orbital camera driven by mouse input: left drag
// rotates, right drag pans, the wheel zooms.
type MouseOrbit struct {
	Camera      PerspectiveCamera
	Transform   transform.Transform
	Orientation Orientation
}

func NewMouseOrbit() *MouseOrbit {
	return &MouseOrbit{
		Camera:      NewPerspectiveCamera(),
		Transform:   transform.New(),
		Orientation: NewOrientation(),
	}
}

func (m *MouseOrbit) Update(in *input.Input, sys *system.System) {
	dt := float32(sys.DeltaTime)

	m.Orientation.Zoom(2 * in.Mouse.WheelDelta.Y() * dt)

	if in.Mouse.LeftClicked {
		delta := in.Mouse.PositionDelta
		delta[0] = -delta.X()
		m.Orientation.Rotate(delta.Mul(dt))
	}

	if in.Mouse.RightClicked {
		m.Orientation.Pan(in.Mouse.PositionDelta.Mul(dt))
	}

	m.Transform.Translation = m.Orientation.Position()
	m.Transform.Rotation = m.Orientation.LookAtOffset()
}

func (m *MouseOrbit) ProjectionViewMatrix(aspectRatio float32) mgl32.Mat4 {
	return m.Camera.ProjectionMatrix(aspectRatio).Mul4(m.Transform.ViewMatrix())
}

// Orientation is a spherical-coordinate pose around a pannable target.
// Direction holds azimuth and polar angles in radians.
type Orientation struct {
	MinRadius   float32
	MaxRadius   float32
	Radius      float32
	Offset      mgl32.Vec3
	Sensitivity mgl32.Vec2
	Direction   mgl32.Vec2
}

func NewOrientation() Orientation {
	return Orientation{
		MinRadius:   1,
		MaxRadius:   100,
		Radius:      5,
		Sensitivity: mgl32.Vec2{1, 1},
		Direction:   mgl32.Vec2{0, mgl32.DegToRad(45)},
	}
}

func (o *Orientation) DirectionVector() mgl32.Vec3 {
	azimuth := float64(o.Direction.X())
	polar := float64(o.Direction.Y())
	return mgl32.Vec3{
		float32(math.Sin(polar) * math.Sin(azimuth)),
		float32(math.Cos(polar)),
		float32(math.Sin(polar) * math.Cos(azimuth)),
	}
}

// Rotate applies a drag delta. The polar angle stays clamped away from
// the poles so the up vector never degenerates.
func (o *Orientation) Rotate(positionDelta mgl32.Vec2) {
	o.Direction[0] += positionDelta.X() * o.Sensitivity.X()
	o.Direction[1] = mgl32.Clamp(
		o.Direction.Y()+positionDelta.Y()*o.Sensitivity.Y(),
		mgl32.DegToRad(10),
		mgl32.DegToRad(170),
	)
}

func (o *Orientation) Up() mgl32.Vec3 {
	return o.Right().Cross(o.DirectionVector())
}

func (o *Orientation) Right() mgl32.Vec3 {
	return o.DirectionVector().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (o *Orientation) Pan(offset mgl32.Vec2) {
	o.Offset = o.Offset.Add(o.Right().Mul(offset.X()))
	o.Offset = o.Offset.Add(o.Up().Mul(offset.Y()))
}

func (o *Orientation) Position() mgl32.Vec3 {
	return o.DirectionVector().Mul(o.Radius).Add(o.Offset)
}

func (o *Orientation) Zoom(distance float32) {
	o.Radius -= distance
	if o.Radius < o.MinRadius {
		o.Radius = o.MinRadius
	}
	if o.Radius > o.MaxRadius {
		o.Radius = o.MaxRadius
	}
}

func (o *Orientation) LookAtOffset() mgl32.Quat {
	return o.look(o.Offset.Sub(o.Position()))
}

func (o *Orientation) LookForward() mgl32.Quat {
	return o.look(o.DirectionVector().Mul(-1))
}

// look returns the model-space rotation facing point. QuatLookAtV
// yields the view-space rotation, hence the conjugate.
func (o *Orientation) look(point mgl32.Vec3) mgl32.Quat {
	return mgl32.QuatLookAtV(mgl32.Vec3{0, 0, 0}, point, mgl32.Vec3{0, 1, 0}).Conjugate()
}
