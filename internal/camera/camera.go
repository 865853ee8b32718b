package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	// HOT DATA - read every frame
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	Up         mgl32.Vec3
	Projection mgl32.Mat4

	// COLD DATA - configuration
	Fov         float32 // vertical field of view in degrees
	Near        float32
	Far         float32
	AspectRatio float32
}

// NewPerspective builds the scene camera: 35 degrees, near 0.1, far 100.
func NewPerspective(width, height int) *Camera {
	c := &Camera{
		Position:    mgl32.Vec3{-5, 5, 12},
		Up:          mgl32.Vec3{0, 1, 0},
		Fov:         35,
		Near:        0.1,
		Far:         100,
		AspectRatio: aspect(width, height),
	}
	c.UpdateProjection()
	return c
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}
