package material

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sliceVertex = `out vec3 vSlicePosition;
void main() {
    vSlicePosition = position;
}`

const sliceFragment = `in vec3 vSlicePosition;
uniform float uSliceStart;
uniform float uSliceArc;
void main() {
    float angle = atan(vSlicePosition.y, vSlicePosition.x);
    angle -= uSliceStart;
    angle = mod(angle, PI2);
    if (angle > 0.0 && angle < uSliceArc) discard;
    csm_Slice;
}`

func TestLibraryHasEveryDescriptor(t *testing.T) {
	lib := NewLibrary()

	all := lib.All()
	require.Len(t, all, 13)
	for i, p := range all {
		require.NotNil(t, p)
		assert.Equal(t, Surface(i).String(), p.Name)
	}
	assert.Nil(t, lib.Get(Surface(-1)))
	assert.Nil(t, lib.Get(surfaceCount))
}

func TestLibraryValues(t *testing.T) {
	lib := NewLibrary()

	circuit := lib.Get(SurfaceRobotCircuit)
	assert.Equal(t, "#000000", HexString(circuit.Color))
	assert.Equal(t, float32(1), circuit.Metalness)
	assert.Equal(t, float32(0.28), circuit.Roughness)
	assert.Equal(t, float32(0.199), circuit.Transmission)
	assert.Equal(t, float32(1.242), circuit.IOR)
	assert.Equal(t, float32(1.263), circuit.Thickness)
	assert.Equal(t, float32(0.5), circuit.EnvMapIntensity)
	assert.Equal(t, DoubleSide, circuit.Side)
	assert.False(t, circuit.Transparent)

	robot := lib.Get(SurfaceRobot1)
	assert.Equal(t, "#690000", HexString(robot.Color))
	assert.Equal(t, float32(1.5), robot.IOR, "unset ior keeps the default")
	assert.Equal(t, float32(1), robot.EnvMapIntensity)
	assert.Equal(t, FrontSide, robot.Side)

	assert.True(t, lib.Get(SurfaceElectronic2).Transparent)
	assert.True(t, lib.Get(SurfacePlane).Transparent)
}

func TestLibraryInstancesAreIndependent(t *testing.T) {
	a, b := NewLibrary(), NewLibrary()

	a.Get(SurfaceRobot1).Roughness = 0.9

	assert.Equal(t, float32(0.311594), b.Get(SurfaceRobot1).Roughness)
}

func TestHexRoundTrip(t *testing.T) {
	c, err := Hex("#adab00")
	require.NoError(t, err)

	assert.Less(t, c.X(), float32(0.68), "linear is darker than the sRGB value")
	assert.Equal(t, "#adab00", HexString(c))

	srgb := ToSRGB(c)
	assert.InDelta(t, 0xad/255.0, srgb[0], 1e-4)
	assert.InDelta(t, c.Y(), FromSRGB(srgb).Y(), 1e-5)

	_, err = Hex("nope")
	assert.Error(t, err)
}

func TestResolveIncludes(t *testing.T) {
	chunks := Chunks{
		"a": "A\n#include <b>",
		"b": "B",
	}

	out, err := ResolveIncludes("start\n#include <a>\nend", chunks)

	require.NoError(t, err)
	assert.Equal(t, "start\nA\nB\nend", out)
}

func TestResolveIncludesUnknown(t *testing.T) {
	_, err := ResolveIncludes("#include <missing>", Chunks{})

	assert.ErrorIs(t, err, ErrUnknownInclude)
	assert.Contains(t, err.Error(), "missing")
}

func TestResolveIncludesCycle(t *testing.T) {
	chunks := Chunks{"a": "#include <b>", "b": "#include <a>"}

	_, err := ResolveIncludes("#include <a>", chunks)

	assert.ErrorIs(t, err, ErrIncludeCycle)
}

func TestComposeInjectsCustomMain(t *testing.T) {
	base := Program{
		Vertex:   "#include <csm_pars_vertex>\nvoid main() {\n#include <csm_main_vertex>\n}",
		Fragment: "#include <csm_pars_fragment>\nvoid main() {\n#include <csm_main_fragment>\n#include <colorspace_fragment>\n}",
	}
	chunks := Chunks{"colorspace_fragment": "CS;"}

	out, err := Compose(base, Program{Vertex: sliceVertex, Fragment: sliceFragment}, SlicePatches, chunks)

	require.NoError(t, err)
	assert.Contains(t, out.Vertex, "void csm_main()")
	assert.Contains(t, out.Vertex, "csm_main();")
	assert.Equal(t, 1, strings.Count(out.Vertex, "void main()"))
	assert.NotContains(t, out.Fragment, "csm_Slice")
	assert.Contains(t, out.Fragment, "CS;\n    if (!gl_FrontFacing) FragColor = vec4(0.8, 0.8, 0.8, 1.0);")
}

func TestComposeSkipsPatchWithoutKeyword(t *testing.T) {
	custom := Program{Fragment: strings.Replace(sliceFragment, "csm_Slice;", "", 1)}

	out, err := Compose(PhysicalProgram, custom, SlicePatches, DefaultChunks)

	require.NoError(t, err)
	assert.NotContains(t, out.Fragment, "gl_FrontFacing) FragColor")
}

func TestComposeEmptyCustomSources(t *testing.T) {
	out, err := Compose(PhysicalProgram, Program{}, SlicePatches, DefaultChunks)

	require.NoError(t, err)
	assert.NotContains(t, out.Vertex, "csm_main")
	assert.NotContains(t, out.Fragment, "#include")
}

func TestComposeUnknownIncludeInCustomSource(t *testing.T) {
	_, err := Compose(PhysicalProgram, Program{Fragment: "#include <nope>\nvoid main() {}"}, nil, DefaultChunks)

	assert.ErrorIs(t, err, ErrUnknownInclude)
}

func TestSlicedMaterialSharesUniforms(t *testing.T) {
	lib := NewLibrary()
	s, err := NewSliced(lib.Get(SurfaceRobotCircuit), Program{Vertex: sliceVertex, Fragment: sliceFragment}, nil)
	require.NoError(t, err)

	assert.Equal(t, float32(1.75), s.SliceStart())
	assert.Equal(t, float32(1.25), s.SliceArc())

	s.SetSliceArc(2.5)

	assert.Equal(t, float32(2.5), s.Visible().Uniforms[UniformSliceArc].Value)
	assert.Equal(t, float32(2.5), s.Depth().Uniforms[UniformSliceArc].Value)
	assert.Same(t, s.Visible().Uniforms[UniformSliceStart], s.Depth().Uniforms[UniformSliceStart])
}

func TestSlicedMaterialPrograms(t *testing.T) {
	s, err := NewSliced(NewLibrary().Get(SurfaceRobotCircuit), Program{Vertex: sliceVertex, Fragment: sliceFragment}, nil)
	require.NoError(t, err)

	vis := s.Visible().Program()
	dep := s.Depth().Program()

	assert.Contains(t, vis.Fragment, "discard")
	assert.Contains(t, dep.Fragment, "discard", "the shadow is cut as well")
	assert.Contains(t, vis.Fragment, "if (!gl_FrontFacing) FragColor = vec4(0.8, 0.8, 0.8, 1.0);")
	assert.NotContains(t, dep.Fragment, "vec4(0.8, 0.8, 0.8, 1.0)")
	assert.NotContains(t, vis.Fragment, "#include")
	assert.Equal(t, "RobotCircuit", s.Visible().Physical.Name)
	assert.Equal(t, BaseDepth, s.Depth().Base)
	assert.False(t, s.Depth().IsTransparent())
}

func TestSlicedMaterialRecompileIsAtomic(t *testing.T) {
	custom := Program{Vertex: sliceVertex, Fragment: sliceFragment}
	s, err := NewSliced(NewLibrary().Get(SurfaceRobotCircuit), custom, nil)
	require.NoError(t, err)
	before := s.Visible().Program()

	err = s.Recompile(Program{Vertex: sliceVertex, Fragment: "#include <nope>\n" + sliceFragment})

	require.Error(t, err)
	assert.Equal(t, before, s.Visible().Program())
	assert.Equal(t, custom, s.Custom())
	assert.Equal(t, 1, s.Version())

	require.NoError(t, s.Recompile(Program{Vertex: sliceVertex, Fragment: strings.Replace(sliceFragment, "0.0 &&", "0.1 &&", 1)}))
	assert.Equal(t, 2, s.Version())
	assert.Contains(t, s.Depth().Program().Fragment, "angle > 0.1")
}

func TestNewSlicedNilDescriptor(t *testing.T) {
	_, err := NewSliced(nil, Program{}, nil)

	assert.Error(t, err)
}

func TestOverlayDefaults(t *testing.T) {
	o := NewOverlay(Program{})

	assert.Equal(t, float32(1), o.Alpha())
	assert.True(t, o.Loading())
	assert.False(t, o.Failed())

	o.SetAlpha(-1)
	o.SetProgress(2)
	assert.Equal(t, float32(0), o.Alpha())
	assert.Equal(t, float32(1), o.Uniforms[UniformProgress].Value)
}

func TestSlicedViewsAreTwins(t *testing.T) {
	s, err := NewSliced(NewLibrary().Get(SurfaceRobotCircuit), Program{Vertex: sliceVertex, Fragment: sliceFragment}, nil)
	require.NoError(t, err)

	assert.Same(t, s.Depth(), s.Visible().Twin())
	assert.Same(t, s.Visible(), s.Depth().Twin())

	src, version := s.Depth().Source()
	assert.Equal(t, s.Depth().Program(), src)
	assert.Equal(t, s.Version(), version)
}
