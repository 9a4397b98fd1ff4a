package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Local axes. Forward is +Z (the direction a directional light travels),
// Right is +X and Up is +Y.
var (
	AxisRight   = mgl32.Vec3{1, 0, 0}
	AxisUp      = mgl32.Vec3{0, 1, 0}
	AxisForward = mgl32.Vec3{0, 0, 1}
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
	}
}

func (t *Transform) Forward() mgl32.Vec3 { return t.Rotation.Rotate(AxisForward) }
func (t *Transform) Right() mgl32.Vec3   { return t.Rotation.Rotate(AxisRight) }
func (t *Transform) Up() mgl32.Vec3      { return t.Rotation.Rotate(AxisUp) }

// CopyFrom overwrites position and rotation with the values of src.
func (t *Transform) CopyFrom(src *Transform) {
	t.Position = src.Position
	t.Rotation = src.Rotation
}

func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	return translate.Mul4(t.Rotation.Mat4())
}

// LookAt rotates the transform so Forward points from Position at target.
func (t *Transform) LookAt(target, up mgl32.Vec3) {
	t.Rotation = LookRotation(target.Sub(t.Position), up)
}

// LookRotation builds the rotation whose Forward axis is forward and whose
// Up axis lies in the plane of forward and up.
func LookRotation(forward, up mgl32.Vec3) mgl32.Quat {
	if forward.LenSqr() == 0 {
		return mgl32.QuatIdent()
	}
	f := forward.Normalize()
	r := up.Cross(f)
	if r.LenSqr() < 1e-12 {
		// forward is parallel to up, pick any perpendicular right axis
		r = AxisRight
		if math.Abs(float64(f.X())) > 0.9 {
			r = AxisForward
		}
		r = r.Sub(f.Mul(f.Dot(r)))
	}
	r = r.Normalize()
	u := f.Cross(r)
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(r, u, f).Mat4()).Normalize()
}

// EulerPitch returns the rotation about the local X axis in degrees, in the
// range [0, 360). 0 is horizontal and 90 points straight down.
func (t *Transform) EulerPitch() float32 {
	return PitchOf(t.Rotation)
}

func PitchOf(q mgl32.Quat) float32 {
	f := q.Rotate(AxisForward)
	y := float64(-f.Y())
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	deg := float32(math.Asin(y) * 180 / math.Pi)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// RollDegrees rotates the transform around its own forward axis.
func (t *Transform) RollDegrees(deg float32) {
	t.Rotation = t.Rotation.Mul(mgl32.QuatRotate(mgl32.DegToRad(deg), AxisForward)).Normalize()
}
