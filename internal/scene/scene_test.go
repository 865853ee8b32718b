package scene

import (
	"testing"

	"RoboticArm/internal/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewMesh("tri", []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, nil)
	require.NoError(t, err)
	return m
}

func robotModel(t *testing.T, skip ...string) *Node {
	t.Helper()
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}

	root := NewNode("Scene")
	names := []string{SlicedNodeName}
	for _, b := range MeshBindings {
		names = append(names, b.Node)
	}
	for _, name := range names {
		if !skipped[name] {
			root.Add(NewMeshNode(name, triangle(t)))
		}
	}
	root.Add(NewNode("Empty"))
	return root
}

func newSliced(t *testing.T, lib *material.Library) *material.SlicedMaterial {
	t.Helper()
	s, err := material.NewSliced(lib.Get(material.SurfaceRobotCircuit), material.Program{}, nil)
	require.NoError(t, err)
	return s
}

func TestNewMeshComputesNormalsAndBounds(t *testing.T) {
	m := triangle(t)

	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.Equal(t, int32(3), m.IndexCount)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, m.Normals)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, m.BoundsMin)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.BoundsMax)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, m.Center())
}

func TestNewMeshRejectsBadBuffers(t *testing.T) {
	_, err := NewMesh("bad", []float32{0, 0}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidMesh)

	_, err = NewMesh("bad", []float32{0, 0, 0}, nil, []uint32{0, 0, 1})
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestPlaneFacesPositiveZ(t *testing.T) {
	p := NewPlane(10, 10, 10)

	assert.Len(t, p.Positions, 11*11*3)
	assert.Len(t, p.Indices, 10*10*6)
	assert.Equal(t, mgl32.Vec3{-5, -5, 0}, p.BoundsMin)
	assert.Equal(t, mgl32.Vec3{5, 5, 0}, p.BoundsMax)

	a, b, c := p.vertex(p.Indices[0]), p.vertex(p.Indices[1]), p.vertex(p.Indices[2])
	assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Z(), float32(0))
}

func TestNodeWorldMatrixFollowsParent(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.Add(child)
	parent.SetPosition(1, 2, 3)
	parent.SetScale(2, 2, 2)
	child.SetPosition(1, 0, 0)

	parent.UpdateWorldMatrix(false)

	p := child.WorldMatrix.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 3, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 3, p.Z(), 1e-5)
}

func TestNodeLookAt(t *testing.T) {
	n := NewNode("plane")
	n.SetPosition(-5, -2, -5)

	n.LookAt(mgl32.Vec3{})

	z := n.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	want := mgl32.Vec3{5, 2, 5}.Normalize()
	assert.InDelta(t, want.X(), z.X(), 1e-4)
	assert.InDelta(t, want.Y(), z.Y(), 1e-4)
	assert.InDelta(t, want.Z(), z.Z(), 1e-4)
}

func TestNodeAddReparents(t *testing.T) {
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	a.Add(c)
	b.Add(c)

	assert.Empty(t, a.Children)
	assert.Equal(t, b, c.Parent)
	assert.Equal(t, c, b.Find("c"))
	assert.Nil(t, b.Find("a"))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestComposeAssignsMaterials(t *testing.T) {
	lib := material.NewLibrary()
	sliced := newSliced(t, lib)
	root := robotModel(t)

	require.NoError(t, Compose(root, lib, sliced, ComposeOptions{Strict: true}))

	base := root.Find(SlicedNodeName)
	assert.Same(t, sliced.Visible(), base.Material)
	assert.Same(t, sliced.Depth(), base.DepthMaterial)

	assert.Same(t, lib.Get(material.SurfaceWireElectronic), root.Find("WE").Material)
	assert.Same(t, lib.Get(material.SurfaceBaseComponent), root.Find("BaseElectronicComponent").Material)
	assert.Same(t, root.Find("Screws").Material, root.Find("ScrewsRobot").Material, "screws share a descriptor")
	assert.Nil(t, root.Find("Robot1").DepthMaterial)

	root.Traverse(func(n *Node) {
		assert.True(t, n.CastShadow, n.Name)
		assert.True(t, n.ReceiveShadow, n.Name)
	})
}

func TestComposeStrictMissingName(t *testing.T) {
	lib := material.NewLibrary()
	root := robotModel(t, "Robot2", SlicedNodeName)

	err := Compose(root, lib, newSliced(t, lib), ComposeOptions{Strict: true})

	require.ErrorIs(t, err, ErrMissingNode)
	var missing *MissingNodesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{SlicedNodeName, "Robot2"}, missing.Names)
	assert.Same(t, material.DefaultMaterial, root.Find("Robot1").Material, "strict failure leaves the model untouched")
}

func TestComposeLenientMissingName(t *testing.T) {
	lib := material.NewLibrary()
	root := robotModel(t, "Wire")

	require.NoError(t, Compose(root, lib, newSliced(t, lib), ComposeOptions{}))

	assert.Same(t, lib.Get(material.SurfaceRobot1), root.Find("Robot1").Material)
	assert.Nil(t, root.Find("Wire"))
}

func TestComposeIgnoresNonMeshNodesWithBoundNames(t *testing.T) {
	lib := material.NewLibrary()
	root := robotModel(t, "Robot3")
	group := NewNode("Robot3")
	root.Add(group)

	err := Compose(root, lib, newSliced(t, lib), ComposeOptions{Strict: true})

	assert.ErrorIs(t, err, ErrMissingNode)
}

func TestComposeMultiPrimitiveMesh(t *testing.T) {
	lib := material.NewLibrary()
	root := robotModel(t, "Electronic2")
	group := NewNode("Electronic2")
	group.Add(NewMeshNode("Electronic2", triangle(t)))
	group.Add(NewMeshNode("Electronic2", triangle(t)))
	root.Add(group)

	require.NoError(t, Compose(root, lib, newSliced(t, lib), ComposeOptions{Strict: true}))

	for _, c := range group.Children {
		assert.Same(t, lib.Get(material.SurfaceElectronic2), c.Material)
	}
}

func TestNewScene(t *testing.T) {
	lib := material.NewLibrary()
	s := New(lib, material.NewOverlay(material.Program{}))

	assert.Same(t, lib.Get(material.SurfacePlane), s.Plane.Material)
	assert.True(t, s.Plane.ReceiveShadow)
	assert.Equal(t, float32(0.4), s.BackgroundBlurriness)
	assert.Equal(t, 1024, s.Light.MapSize)
	assert.Equal(t, float32(5), s.Light.Intensity)
	assert.Equal(t, float32(30), s.Light.Shadow.Far)
	assert.Len(t, s.Meshes(), 1)

	model := NewNode("Scene")
	model.Add(NewMeshNode("Robot1", triangle(t)))
	s.SetModel(model)

	assert.Len(t, s.Meshes(), 2)
	assert.Equal(t, mgl32.Vec3{0, -2, 0}, model.Position)
	assert.Equal(t, mgl32.Vec3{1.2, 1.2, 1.2}, model.Scale)
}

func TestLightSpaceMapsTargetInsideVolume(t *testing.T) {
	lib := material.NewLibrary()
	s := New(lib, nil)

	p := s.Light.LightSpace().Mul4x1(mgl32.Vec4{0, 0, 0, 1})

	assert.InDelta(t, 0, p.X(), 1e-4)
	assert.InDelta(t, 0, p.Y(), 1e-4)
	assert.True(t, p.Z() > -1 && p.Z() < 1)
}
