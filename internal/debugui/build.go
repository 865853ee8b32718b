package debugui

import (
	"math"

	"RoboticArm/internal/material"
)

const sliderStep = 0.001

// NewPanel binds the tweak controls: the ground plane material, the slice angles,
// and the robot colours.
func NewPanel(lib *material.Library, sliced *material.SlicedMaterial) *Panel {
	p := &Panel{Title: "Debug"}

	plane := lib.Get(material.SurfacePlane)
	pf := p.AddFolder("Plane")
	pf.Open = false
	pf.Slider("metalness", &plane.Metalness, 0, 1, sliderStep)
	pf.Slider("roughness", &plane.Roughness, 0, 1, sliderStep)
	pf.Slider("transmission", &plane.Transmission, 0, 1, sliderStep)
	pf.Slider("ior", &plane.IOR, 0, 2, sliderStep)
	pf.Slider("thickness", &plane.Thickness, 0, 10, sliderStep)
	pf.Color("color", &plane.Color)

	base := p.AddFolder("Base Circuit")
	base.Slider("Slice Start", &sliced.Uniforms[material.UniformSliceStart].Value, -math.Pi, math.Pi, sliderStep)
	base.Slider("Slice Arc", &sliced.Uniforms[material.UniformSliceArc].Value, 0, 2*math.Pi, sliderStep)

	robot := p.AddFolder("Robot")
	robot.Color("Metal 1", &lib.Get(material.SurfaceRobot1).Color)
	robot.Color("Metal 2", &lib.Get(material.SurfaceRobot2).Color)
	robot.Color("Metal 3", &lib.Get(material.SurfaceRobot3).Color)
	robot.Color("Circuit 1", &lib.Get(material.SurfaceElectronic2).Color)
	robot.Color("Circuit 2", &lib.Get(material.SurfaceElectronic1).Color)

	return p
}
