package renderer

import (
	"testing"

	"RoboticArm/internal/material"
	"RoboticArm/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshNode(t *testing.T, name string, m material.Material, x float32) *scene.Node {
	t.Helper()
	mesh, err := scene.NewMesh(name, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, []uint32{0, 1, 2})
	require.NoError(t, err)
	n := scene.NewMeshNode(name, mesh)
	n.Material = m
	n.SetPosition(x, 0, 0)
	n.UpdateWorldMatrix(true)
	return n
}

func TestSurfaceOf(t *testing.T) {
	lib := material.NewLibrary()
	sliced, err := material.NewSliced(lib.Get(material.SurfaceRobotCircuit), material.Program{}, nil)
	require.NoError(t, err)

	p, extra := surfaceOf(lib.Get(material.SurfaceRobot1))
	assert.Same(t, lib.Get(material.SurfaceRobot1), p)
	assert.Nil(t, extra)

	p, extra = surfaceOf(sliced.Visible())
	assert.Same(t, lib.Get(material.SurfaceRobotCircuit), p)
	assert.Contains(t, extra, material.UniformSliceStart)

	p, extra = surfaceOf(sliced.Depth())
	assert.Nil(t, p)
	assert.Contains(t, extra, material.UniformSliceArc)

	p, _ = surfaceOf(nil)
	assert.Same(t, material.DefaultMaterial, p)
}

func TestSideOf(t *testing.T) {
	lib := material.NewLibrary()

	assert.Equal(t, material.DoubleSide, sideOf(lib.Get(material.SurfaceRobotCircuit)))
	assert.Equal(t, material.FrontSide, sideOf(lib.Get(material.SurfaceRobot1)))
	assert.Equal(t, material.FrontSide, sideOf(nil))
}

func TestSplitDrawablesSortsTransparentBackToFront(t *testing.T) {
	lib := material.NewLibrary()
	glass := lib.Get(material.SurfaceElectronic2)
	metal := lib.Get(material.SurfaceRobot1)

	near := meshNode(t, "near", glass, 1)
	far := meshNode(t, "far", glass, 9)
	solid := meshNode(t, "solid", metal, 5)

	opaque, transparent := splitDrawables([]*scene.Node{near, solid, far}, mgl32.Vec3{0, 0, 0})

	assert.Equal(t, []*scene.Node{solid}, opaque)
	assert.Equal(t, []*scene.Node{far, near}, transparent)
}

func TestShadowCasters(t *testing.T) {
	a := meshNode(t, "a", nil, 0)
	b := meshNode(t, "b", nil, 0)
	a.CastShadow = true

	assert.Equal(t, []*scene.Node{a}, shadowCasters([]*scene.Node{a, b}))
}

func TestScaledSize(t *testing.T) {
	w, h := scaledSize(800, 600, 2)
	assert.Equal(t, 1600, w)
	assert.Equal(t, 1200, h)

	w, h = scaledSize(800, 600, 0)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	w, h = scaledSize(0, 0, 1)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestMipLevels(t *testing.T) {
	assert.Equal(t, 12, mipLevels(2048, 1024))
	assert.Equal(t, 1, mipLevels(1, 1))
	assert.Equal(t, 2, mipLevels(3, 2))
}

func TestFlipRows(t *testing.T) {
	env := &scene.Environment{
		Width:  1,
		Height: 3,
		Pixels: []float32{1, 1, 1, 2, 2, 2, 3, 3, 3},
	}

	assert.Equal(t, []float32{3, 3, 3, 2, 2, 2, 1, 1, 1}, flipRows(env))
	assert.Equal(t, float32(1), env.Pixels[0], "source is untouched")
}

func TestUnwindRunsInReverse(t *testing.T) {
	var order []int
	var u Unwind
	u.Add(func() { order = append(order, 1) })
	u.Add(func() { order = append(order, 2) })

	u.Unwind()
	u.Unwind()

	assert.Equal(t, []int{2, 1}, order)
}

func TestUnwindDiscard(t *testing.T) {
	ran := false
	var u Unwind
	u.Add(func() { ran = true })

	u.Discard()
	u.Unwind()

	assert.False(t, ran)
}

func TestBuiltinProgramsResolve(t *testing.T) {
	bg := builtin(backgroundProgram)
	assert.NotContains(t, bg.Fragment, "#include")
	assert.Contains(t, bg.Fragment, "equirectUv")

	phys := builtin(material.PhysicalProgram)
	assert.NotContains(t, phys.Vertex, "csm_main")
	assert.Contains(t, phys.Vertex, "shadowNormalBias")
}
