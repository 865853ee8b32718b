package scene

import (
	"math"

	"RoboticArm/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Environment is a decoded equirectangular HDR image in linear RGB.
type Environment struct {
	Width  int
	Height int
	Pixels []float32 // rgb, row major, top row first
}

// Scene is everything the renderer draws in one frame.
type Scene struct {
	Root  *Node
	Light *DirectionalLight
	Plane *Node
	Model *Node // nil until the model has loaded

	Environment          *Environment // lighting and background, nil until loaded
	BackgroundBlurriness float32
	ToneMappingExposure  float32

	Overlay *material.Overlay
}

// New builds the static part of the scene: ground plane and key light. The loaded
// model is attached later by SetModel.
func New(lib *material.Library, overlay *material.Overlay) *Scene {
	s := &Scene{
		Root:                 NewNode("scene"),
		BackgroundBlurriness: 0.4,
		ToneMappingExposure:  1,
		Overlay:              overlay,
	}

	s.Plane = NewMeshNode("Plane", NewPlane(10, 10, 10))
	s.Plane.Material = lib.Get(material.SurfacePlane)
	s.Plane.ReceiveShadow = true
	s.Plane.SetPosition(-5, -2, -5)
	s.Plane.LookAt(mgl32.Vec3{0, 0, 0})
	s.Root.Add(s.Plane)

	s.Light = NewDirectionalLight(mgl32.Vec3{1, 1, 1}, 5)
	s.Light.Position = mgl32.Vec3{10, 2.747, 6.802}
	s.Light.CastShadow = true
	s.Light.MapSize = 1024
	s.Light.NormalBias = 0.05
	s.Light.Shadow = ShadowCamera{Left: -8, Right: 8, Bottom: -8, Top: 8, Near: 0.1, Far: 30}

	return s
}

// SetModel places the loaded model: lowered by 2, turned a fifth of a half turn, and
// scaled by 1.2.
func (s *Scene) SetModel(model *Node) {
	model.SetPosition(0, -2, 0)
	model.RotateY(math.Pi * 0.2)
	model.SetScale(1.2, 1.2, 1.2)
	s.Model = model
	s.Root.Add(model)
}

// Meshes returns every visible drawable node.
func (s *Scene) Meshes() []*Node {
	var out []*Node
	s.Root.Traverse(func(n *Node) {
		if n.IsMesh() && n.Visible {
			out = append(out, n)
		}
	})
	return out
}
