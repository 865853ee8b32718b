package material

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Side int

const (
	FrontSide Side = iota
	DoubleSide
)

// Material is anything a scene node can be drawn with.
type Material interface {
	MaterialName() string
	IsTransparent() bool
}

// Physical is a metallic-roughness material with optional transmission.
type Physical struct {
	// HOT DATA - uploaded as uniforms on every draw
	Color           mgl32.Vec3 // linear RGB
	Metalness       float32
	Roughness       float32
	Transmission    float32
	IOR             float32
	Thickness       float32
	EnvMapIntensity float32
	Transparent     bool
	Side            Side

	// COLD DATA
	Name string
}

func (p *Physical) MaterialName() string { return p.Name }
func (p *Physical) IsTransparent() bool  { return p.Transparent }

// NewPhysical returns a physical material with the renderer defaults: white, ior 1.5,
// full environment intensity.
func NewPhysical(name string) *Physical {
	return &Physical{
		Name:            name,
		Color:           mgl32.Vec3{1, 1, 1},
		Roughness:       1,
		IOR:             1.5,
		EnvMapIntensity: 1,
	}
}

// DefaultMaterial is what a mesh keeps when composition does not bind it.
var DefaultMaterial = NewPhysical("default")

// Surface names one logical surface of the scene.
type Surface int

const (
	SurfaceRobot1 Surface = iota
	SurfaceRobot2
	SurfaceRobot3
	SurfaceScrews
	SurfaceBaseRobot
	SurfaceWire
	SurfaceWireElectronic
	SurfaceBaseElectronic
	SurfaceBaseComponent
	SurfaceElectronic1
	SurfaceElectronic2
	SurfacePlane
	SurfaceRobotCircuit
	surfaceCount
)

var surfaceNames = [surfaceCount]string{
	"Robot1", "Robot2", "Robot3", "Screws", "BaseRobot", "Wire", "WireElectronic",
	"BaseElectronic", "BaseComponent", "Electronic1", "Electronic2", "Plane", "RobotCircuit",
}

func (s Surface) String() string {
	if s < 0 || s >= surfaceCount {
		return "Surface(?)"
	}
	return surfaceNames[s]
}

// Library holds one descriptor per surface. Descriptors are shared by reference
// wherever the surface recurs.
type Library struct {
	surfaces [surfaceCount]*Physical
}

func (l *Library) Get(s Surface) *Physical {
	if s < 0 || s >= surfaceCount {
		return nil
	}
	return l.surfaces[s]
}

// All returns the descriptors in Surface order.
func (l *Library) All() []*Physical {
	out := make([]*Physical, 0, surfaceCount)
	for _, p := range l.surfaces {
		out = append(out, p)
	}
	return out
}

type physicalParams struct {
	color           string
	metalness       float32
	roughness       float32
	transmission    float32
	ior             float32
	thickness       float32
	envMapIntensity float32
	transparent     bool
	side            Side
}

var surfaceParams = [surfaceCount]physicalParams{
	SurfaceRobot1:         {color: "#690000", metalness: 1, roughness: 0.311594},
	SurfaceRobot2:         {color: "#adab00", metalness: 1, roughness: 0.4},
	SurfaceRobot3:         {color: "#cecece", metalness: 1, roughness: 0.09},
	SurfaceScrews:         {color: "#000000", metalness: 1, roughness: 0.09},
	SurfaceBaseRobot:      {color: "#a7a7a7", metalness: 1, roughness: 0.5},
	SurfaceWire:           {color: "#000000", metalness: 0.406, roughness: 0.659},
	SurfaceWireElectronic: {color: "#454545", metalness: 0.768, roughness: 0.5},
	SurfaceBaseElectronic: {color: "#002e38", metalness: 0.754, roughness: 0.674},
	SurfaceBaseComponent:  {color: "#6d6c6c", metalness: 1, roughness: 0.355},
	SurfaceElectronic1: {color: "#620000", metalness: 1, roughness: 0.362,
		transmission: 0.151, ior: 1.15, thickness: 1.4, transparent: true},
	SurfaceElectronic2: {color: "#005856", metalness: 0, roughness: 0,
		transmission: 0.921, ior: 1.15, thickness: 0, transparent: true},
	SurfacePlane: {color: "#4d4d4d", metalness: 0, roughness: 1,
		transmission: 0.459, ior: 1.291, thickness: 3.282, transparent: true},
	SurfaceRobotCircuit: {color: "#000000", metalness: 1, roughness: 0.28,
		transmission: 0.199, ior: 1.242, thickness: 1.263, envMapIntensity: 0.5, side: DoubleSide},
}

// NewLibrary builds every descriptor from the constants above.
func NewLibrary() *Library {
	lib := &Library{}
	for s := Surface(0); s < surfaceCount; s++ {
		p := surfaceParams[s]
		m := NewPhysical(s.String())
		m.Color = MustHex(p.color)
		m.Metalness = p.metalness
		m.Roughness = p.roughness
		m.Transmission = p.transmission
		if p.ior != 0 {
			m.IOR = p.ior
		}
		m.Thickness = p.thickness
		if p.envMapIntensity != 0 {
			m.EnvMapIntensity = p.envMapIntensity
		}
		m.Transparent = p.transparent
		m.Side = p.side
		lib.surfaces[s] = m
	}
	return lib
}
