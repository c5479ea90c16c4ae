package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a translation/rotation/scale triple describing a local
// coordinate frame. The zero value is not useful; use New.
type Transform struct {
	Translation mgl32.Vec3 `json:"translation"`
	Rotation    mgl32.Quat `json:"rotation"`
	Scale       mgl32.Vec3 `json:"scale"`
}

// New returns a transform at the origin facing +Z with unit scale.
func New() Transform {
	return Transform{
		Translation: mgl32.Vec3{0, 0, 0},
		Rotation:    lookAt(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// lookAt builds the model-space rotation facing the given direction.
// QuatLookAtV returns the view-space rotation, so the conjugate is the
// orientation of the object itself.
func lookAt(direction, up mgl32.Vec3) mgl32.Quat {
	return mgl32.QuatLookAtV(mgl32.Vec3{0, 0, 0}, direction, up).Conjugate()
}

// Matrix composes translation, rotation and scale, in that order.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// ViewMatrix treats the transform as a camera pose and returns the
// corresponding look-at matrix.
func (t Transform) ViewMatrix() mgl32.Mat4 {
	eye := t.Translation
	target := eye.Add(t.Forward())
	return mgl32.LookAtV(eye, target, t.Up())
}

func (t Transform) Right() mgl32.Vec3 {
	return t.Rotation.Normalize().Rotate(mgl32.Vec3{1, 0, 0})
}

func (t Transform) Up() mgl32.Vec3 {
	return t.Rotation.Normalize().Rotate(mgl32.Vec3{0, 1, 0})
}

func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Normalize().Rotate(mgl32.Vec3{0, 0, -1})
}

// Rotate orbits the translation about the world axes by the given
// increments in radians, applied X then Y then Z.
func (t *Transform) Rotate(increment mgl32.Vec3) {
	t.Translation = mgl32.Rotate3DX(increment.X()).Mul3x1(t.Translation)
	t.Translation = mgl32.Rotate3DY(increment.Y()).Mul3x1(t.Translation)
	t.Translation = mgl32.Rotate3DZ(increment.Z()).Mul3x1(t.Translation)
}

// LookAt orients the transform toward the given direction.
func (t *Transform) LookAt(target, up mgl32.Vec3) {
	t.Rotation = lookAt(target, up)
}

// Mul composes two transforms, applying rhs in t's local frame.
func (t Transform) Mul(rhs Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(rhs.Translation)),
		Rotation:    t.Rotation.Mul(rhs.Rotation),
		Scale: mgl32.Vec3{
			t.Scale.X() * rhs.Scale.X(),
			t.Scale.Y() * rhs.Scale.Y(),
			t.Scale.Z() * rhs.Scale.Z(),
		},
	}
}
