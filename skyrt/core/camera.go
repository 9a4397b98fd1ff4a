package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the host camera as seen by the compositor. FieldOfView is the
// vertical angle in degrees.
type Camera struct {
	Transform
	FieldOfView float32
	Aspect      float32
	Near        float32
	Far         float32
}

func NewCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		Transform:   *NewTransform(),
		FieldOfView: fov,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
	}
}

func (c *Camera) CameraToWorld() mgl32.Mat4 {
	return c.ObjectToWorld()
}

// Data packs the frustum the way the satellite shader expects it:
// (aspect*tan(fov/2), tan(fov/2), near, far).
func (c *Camera) Data() mgl32.Vec4 {
	tanHalf := float32(math.Tan(0.5 * float64(c.FieldOfView) * math.Pi / 180))
	return mgl32.Vec4{c.Aspect * tanHalf, tanHalf, c.Near, c.Far}
}
