package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-6

// spherical coordinates around the orbit target, y up.
type spherical struct {
	Radius float64
	Phi    float64 // polar angle from +y
	Theta  float64 // azimuth around +y, from +z
}

func sphericalFromVec(v mgl32.Vec3) spherical {
	r := float64(v.Len())
	if r == 0 {
		return spherical{}
	}
	return spherical{
		Radius: r,
		Theta:  math.Atan2(float64(v.X()), float64(v.Z())),
		Phi:    math.Acos(clamp(float64(v.Y())/r, -1, 1)),
	}
}

func (s spherical) vec() mgl32.Vec3 {
	sinPhi := math.Sin(s.Phi)
	return mgl32.Vec3{
		float32(s.Radius * sinPhi * math.Sin(s.Theta)),
		float32(s.Radius * math.Cos(s.Phi)),
		float32(s.Radius * sinPhi * math.Cos(s.Theta)),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// OrbitControls rotates and dollies a camera around its target. Input accumulates a
// pending delta that Update applies a fraction of each frame when damping is on.
type OrbitControls struct {
	camera *Camera

	EnableDamping bool
	DampingFactor float64
	RotateSpeed   float64
	ZoomSpeed     float64
	MinDistance   float64
	MaxDistance   float64

	delta spherical
	scale float64
}

func NewOrbitControls(c *Camera) *OrbitControls {
	return &OrbitControls{
		camera:        c,
		EnableDamping: true,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		scale:         1,
	}
}

// Rotate queues a drag of dx, dy pixels on a viewport of the given height.
func (o *OrbitControls) Rotate(dx, dy float64, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float64(viewportHeight)
	o.delta.Theta -= 2 * math.Pi * dx / h * o.RotateSpeed
	o.delta.Phi -= 2 * math.Pi * dy / h * o.RotateSpeed
}

// Zoom queues a wheel step. Positive steps move the camera closer.
func (o *OrbitControls) Zoom(steps float64) {
	factor := math.Pow(0.95, o.ZoomSpeed)
	if steps > 0 {
		o.scale *= math.Pow(factor, steps)
	} else if steps < 0 {
		o.scale /= math.Pow(factor, -steps)
	}
}

// Update moves the camera and reports whether it changed.
func (o *OrbitControls) Update() bool {
	offset := o.camera.Position.Sub(o.camera.Target)
	s := sphericalFromVec(offset)

	if o.EnableDamping {
		s.Theta += o.delta.Theta * o.DampingFactor
		s.Phi += o.delta.Phi * o.DampingFactor
	} else {
		s.Theta += o.delta.Theta
		s.Phi += o.delta.Phi
	}
	s.Phi = clamp(s.Phi, epsilon, math.Pi-epsilon)
	s.Radius = clamp(s.Radius*o.scale, o.MinDistance, o.MaxDistance)

	next := o.camera.Target.Add(s.vec())
	moved := next.Sub(o.camera.Position).LenSqr() > epsilon
	o.camera.Position = next

	if o.EnableDamping {
		o.delta.Theta *= 1 - o.DampingFactor
		o.delta.Phi *= 1 - o.DampingFactor
	} else {
		o.delta = spherical{}
	}
	o.scale = 1

	return moved
}
