package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowCamera is the orthographic volume a directional light renders depth into.
type ShadowCamera struct {
	Left, Right, Bottom, Top float32
	Near, Far                float32
}

// DirectionalLight shines from Position toward Target.
type DirectionalLight struct {
	Color      mgl32.Vec3 // linear
	Intensity  float32
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	CastShadow bool
	MapSize    int
	NormalBias float32
	Shadow     ShadowCamera
}

func NewDirectionalLight(color mgl32.Vec3, intensity float32) *DirectionalLight {
	return &DirectionalLight{
		Color:     color,
		Intensity: intensity,
		Position:  mgl32.Vec3{0, 1, 0},
		MapSize:   512,
		Shadow:    ShadowCamera{Left: -5, Right: 5, Bottom: -5, Top: 5, Near: 0.5, Far: 500},
	}
}

// Direction is the unit vector the light travels along.
func (l *DirectionalLight) Direction() mgl32.Vec3 {
	d := l.Target.Sub(l.Position)
	if d.LenSqr() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// LightSpace is the view-projection of the shadow camera.
func (l *DirectionalLight) LightSpace() mgl32.Mat4 {
	up := mgl32.Vec3{0, 1, 0}
	if d := l.Direction(); mgl32.Abs(d.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(l.Position, l.Target, up)
	s := l.Shadow
	proj := mgl32.Ortho(s.Left, s.Right, s.Bottom, s.Top, s.Near, s.Far)
	return proj.Mul4(view)
}
