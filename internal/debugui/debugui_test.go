package debugui

import (
	"math"
	"testing"

	"RoboticArm/internal/material"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPanel(t *testing.T) (*material.Library, *material.SlicedMaterial, *Panel) {
	t.Helper()
	lib := material.NewLibrary()
	sliced, err := material.NewSliced(lib.Get(material.SurfaceRobotCircuit), material.Program{}, nil)
	require.NoError(t, err)
	return lib, sliced, NewPanel(lib, sliced)
}

func TestPanelLayout(t *testing.T) {
	_, _, p := newPanel(t)

	require.Len(t, p.Folders, 3)
	assert.False(t, p.Folder("Plane").Open, "the plane folder starts closed")
	assert.True(t, p.Folder("Base Circuit").Open)
	assert.Len(t, p.Folder("Plane").Controls, 6)
	assert.Len(t, p.Folder("Robot").Controls, 5)
	assert.Nil(t, p.Folder("Lights"))
}

func TestSliceSlidersDriveBothViews(t *testing.T) {
	_, sliced, p := newPanel(t)
	arc := p.Folder("Base Circuit").Find("Slice Arc").(*Slider)

	arc.Set(3)

	assert.InDelta(t, 3, sliced.Visible().Uniforms[material.UniformSliceArc].Value, 1e-6)
	assert.InDelta(t, 3, sliced.Depth().Uniforms[material.UniformSliceArc].Value, 1e-6)
}

func TestSliderClampsAndSnaps(t *testing.T) {
	_, sliced, p := newPanel(t)
	start := p.Folder("Base Circuit").Find("Slice Start").(*Slider)

	got := start.Set(10)
	assert.InDelta(t, math.Pi, got, 1e-6)

	got = start.Set(-10)
	assert.InDelta(t, -math.Pi, got, 1e-6)

	got = start.Set(0.12345)
	assert.InDelta(t, 0.123, got, 1e-6)
	assert.Equal(t, got, sliced.SliceStart())
}

func TestPlaneSlidersMutateDescriptor(t *testing.T) {
	lib, _, p := newPanel(t)
	plane := p.Folder("Plane")

	plane.Find("ior").(*Slider).Set(1.8)
	plane.Find("thickness").(*Slider).Set(12)

	assert.InDelta(t, 1.8, lib.Get(material.SurfacePlane).IOR, 1e-6)
	assert.Equal(t, float32(10), lib.Get(material.SurfacePlane).Thickness)
}

func TestColorControlEditsInSRGB(t *testing.T) {
	lib, _, p := newPanel(t)
	metal1 := p.Folder("Robot").Find("Metal 1").(*Color)

	assert.Equal(t, "#690000", metal1.Hex())

	metal1.SetSRGB([3]float32{1, 0.5, 2})

	c := lib.Get(material.SurfaceRobot1).Color
	assert.InDelta(t, 1, c.X(), 1e-5)
	assert.InDelta(t, 0.214, c.Y(), 1e-3, "sRGB 0.5 is about 0.214 linear")
	assert.InDelta(t, 1, c.Z(), 1e-5, "out of range input is clamped")

	require.NoError(t, metal1.SetHex("#00ff00"))
	assert.Equal(t, "#00ff00", metal1.Hex())
	assert.Error(t, metal1.SetHex("green"))
}

func TestCircuitColorsAreSwapped(t *testing.T) {
	lib, _, p := newPanel(t)
	robot := p.Folder("Robot")

	assert.Same(t, &lib.Get(material.SurfaceElectronic2).Color, robot.Find("Circuit 1").(*Color).Value)
	assert.Same(t, &lib.Get(material.SurfaceElectronic1).Color, robot.Find("Circuit 2").(*Color).Value)
}
