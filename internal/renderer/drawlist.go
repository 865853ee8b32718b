package renderer

import (
	"math"
	"sort"

	"RoboticArm/internal/material"
	"RoboticArm/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// surfaceOf returns the descriptor and extra uniforms a material is drawn with.
// Unknown materials draw with the default descriptor.
func surfaceOf(m material.Material) (*material.Physical, material.Uniforms) {
	switch m := m.(type) {
	case *material.Physical:
		return m, nil
	case *material.ShaderMaterial:
		return m.Physical, m.Uniforms
	}
	return material.DefaultMaterial, nil
}

func sideOf(m material.Material) material.Side {
	if p, _ := surfaceOf(m); p != nil {
		return p.Side
	}
	return material.FrontSide
}

func worldPosition(n *scene.Node) mgl32.Vec3 {
	return n.WorldMatrix.Col(3).Vec3()
}

// splitDrawables separates opaque from transparent nodes. Opaque keep scene order;
// transparent are sorted back to front from eye.
func splitDrawables(nodes []*scene.Node, eye mgl32.Vec3) (opaque, transparent []*scene.Node) {
	for _, n := range nodes {
		if n.Material != nil && n.Material.IsTransparent() {
			transparent = append(transparent, n)
		} else {
			opaque = append(opaque, n)
		}
	}
	sort.SliceStable(transparent, func(i, j int) bool {
		return worldPosition(transparent[i]).Sub(eye).LenSqr() > worldPosition(transparent[j]).Sub(eye).LenSqr()
	})
	return opaque, transparent
}

// shadowCasters returns the nodes drawn into the shadow map.
func shadowCasters(nodes []*scene.Node) []*scene.Node {
	var out []*scene.Node
	for _, n := range nodes {
		if n.CastShadow {
			out = append(out, n)
		}
	}
	return out
}

// scaledSize is the drawing buffer size for a logical size and pixel ratio.
func scaledSize(width, height int, ratio float32) (int, int) {
	if ratio <= 0 {
		ratio = 1
	}
	w := int(float32(width) * ratio)
	h := int(float32(height) * ratio)
	return max(w, 1), max(h, 1)
}

// mipLevels is the number of levels in a full chain for a width x height texture.
func mipLevels(width, height int) int {
	return int(math.Floor(math.Log2(float64(max(width, height, 1))))) + 1
}

// flipRows returns rgb pixels with the row order reversed, for upload with a
// bottom-left origin.
func flipRows(env *scene.Environment) []float32 {
	stride := env.Width * 3
	out := make([]float32, len(env.Pixels))
	for y := 0; y < env.Height; y++ {
		copy(out[(env.Height-1-y)*stride:(env.Height-y)*stride], env.Pixels[y*stride:(y+1)*stride])
	}
	return out
}
