package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerspective(t *testing.T) {
	cam := NewPerspective(800, 600)

	require.NotNil(t, cam)
	assert.Equal(t, mgl32.Vec3{-5, 5, 12}, cam.Position)
	assert.Equal(t, float32(35), cam.Fov)
	assert.InDelta(t, 800.0/600.0, cam.AspectRatio, 1e-6)

	if cam.Projection.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}

func TestNewPerspectiveZeroSize(t *testing.T) {
	cam := NewPerspective(0, 0)

	assert.Equal(t, float32(1), cam.AspectRatio)
}

func TestCameraViewMatrixLooksAtTarget(t *testing.T) {
	cam := NewPerspective(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.LookAt(mgl32.Vec3{})

	p := cam.GetViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})

	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, -5, p.Z(), 1e-5)
}

func TestCameraSetAspectRatioUpdatesProjection(t *testing.T) {
	cam := NewPerspective(800, 600)
	before := cam.GetProjectionMatrix()

	cam.SetAspectRatio(2)

	assert.NotEqual(t, before, cam.GetProjectionMatrix())
	assert.Equal(t, float32(2), cam.AspectRatio)
}

type fakeSurface struct {
	width, height int
	ratio         float32
	calls         int
}

func (f *fakeSurface) SetSize(w, h int) {
	f.width, f.height = w, h
	f.calls++
}

func (f *fakeSurface) SetPixelRatio(r float32) {
	f.ratio = r
	f.calls++
}

func TestViewportResizeUpdatesEverything(t *testing.T) {
	cam := NewPerspective(800, 600)
	surface := &fakeSurface{}
	vp := NewViewport(cam, surface, 2)

	ok := vp.Resize(1920, 1080, 1.5)

	require.True(t, ok)
	assert.InDelta(t, 1920.0/1080.0, cam.AspectRatio, 1e-6)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(35), cam.AspectRatio, 0.1, 100), cam.Projection)
	assert.Equal(t, 1920, surface.width)
	assert.Equal(t, 1080, surface.height)
	assert.Equal(t, float32(1.5), surface.ratio)
	assert.Equal(t, Sizes{Width: 1920, Height: 1080, PixelRatio: 1.5}, vp.Sizes)
}

func TestViewportPixelRatioCapped(t *testing.T) {
	cam := NewPerspective(800, 600)
	surface := &fakeSurface{}
	vp := NewViewport(cam, surface, 2)

	vp.Resize(1000, 500, 3)

	assert.Equal(t, float32(2), surface.ratio)
	w, h := vp.FramebufferSize()
	assert.Equal(t, 2000, w)
	assert.Equal(t, 1000, h)
}

func TestViewportIgnoresZeroArea(t *testing.T) {
	cam := NewPerspective(800, 600)
	surface := &fakeSurface{}
	vp := NewViewport(cam, surface, 2)

	assert.False(t, vp.Resize(0, 600, 1))
	assert.Equal(t, 0, surface.calls)
	assert.InDelta(t, 800.0/600.0, cam.AspectRatio, 1e-6)
}

func TestOrbitControlsDampingConverges(t *testing.T) {
	cam := NewPerspective(800, 600)
	controls := NewOrbitControls(cam)
	radius := cam.Position.Len()

	controls.Rotate(100, 0, 600)

	require.True(t, controls.Update())
	first := cam.Position

	for i := 0; i < 500; i++ {
		controls.Update()
	}

	assert.NotEqual(t, first, cam.Position, "damping keeps moving after the first frame")
	assert.InDelta(t, radius, cam.Position.Len(), 1e-3, "rotation keeps the distance")
	assert.False(t, controls.Update(), "the pending delta decays to nothing")
}

func TestOrbitControlsWithoutDamping(t *testing.T) {
	cam := NewPerspective(800, 600)
	controls := NewOrbitControls(cam)
	controls.EnableDamping = false

	controls.Rotate(0, 0, 600)
	assert.False(t, controls.Update())

	controls.Zoom(1)
	require.True(t, controls.Update())
	assert.InDelta(t, float64(mgl32.Vec3{-5, 5, 12}.Len())*0.95, float64(cam.Position.Len()), 1e-3)
}

func TestOrbitControlsClampsPolarAngle(t *testing.T) {
	cam := NewPerspective(800, 600)
	controls := NewOrbitControls(cam)
	controls.EnableDamping = false

	controls.Rotate(0, 10000, 600)
	controls.Update()

	s := sphericalFromVec(cam.Position.Sub(cam.Target))
	assert.GreaterOrEqual(t, s.Phi, 0.0)
	assert.LessOrEqual(t, s.Phi, math.Pi)
	assert.False(t, math.IsNaN(float64(cam.Position.X())))
}
