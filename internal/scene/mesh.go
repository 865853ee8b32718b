package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is indexed triangle geometry. The GPU handles are filled in by the renderer
// on first draw.
type Mesh struct {
	// HOT DATA
	VAO        uint32
	VBO        uint32
	NBO        uint32
	EBO        uint32
	IndexCount int32

	// COLD DATA
	Name      string
	Positions []float32 // xyz
	Normals   []float32 // xyz, same count as Positions
	Indices   []uint32
	BoundsMin mgl32.Vec3
	BoundsMax mgl32.Vec3
}

// NewMesh validates the buffers, computes normals when missing, and computes bounds.
// Nil indices mean non-indexed triangles.
func NewMesh(name string, positions, normals []float32, indices []uint32) (*Mesh, error) {
	if len(positions) == 0 || len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w %q: %d position floats", ErrInvalidMesh, name, len(positions))
	}
	count := uint32(len(positions) / 3)
	if indices == nil {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w %q: %d indices", ErrInvalidMesh, name, len(indices))
	}
	for _, idx := range indices {
		if idx >= count {
			return nil, fmt.Errorf("%w %q: index %d out of range", ErrInvalidMesh, name, idx)
		}
	}

	m := &Mesh{Name: name, Positions: positions, Normals: normals, Indices: indices, IndexCount: int32(len(indices))}
	if len(normals) != len(positions) {
		m.ComputeNormals()
	}
	m.computeBounds()
	return m, nil
}

func (m *Mesh) vertex(i uint32) mgl32.Vec3 {
	return mgl32.Vec3{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
}

// ComputeNormals averages area weighted face normals per vertex.
func (m *Mesh) ComputeNormals() {
	acc := make([]mgl32.Vec3, len(m.Positions)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		va, vb, vc := m.vertex(a), m.vertex(b), m.vertex(c)
		n := vb.Sub(va).Cross(vc.Sub(va))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}

	m.Normals = make([]float32, len(m.Positions))
	for i, n := range acc {
		if n.LenSqr() > 0 {
			n = n.Normalize()
		} else {
			n = mgl32.Vec3{0, 1, 0}
		}
		m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2] = n[0], n[1], n[2]
	}
}

func (m *Mesh) computeBounds() {
	m.BoundsMin = m.vertex(0)
	m.BoundsMax = m.BoundsMin
	for i := uint32(1); i < uint32(len(m.Positions)/3); i++ {
		v := m.vertex(i)
		for k := 0; k < 3; k++ {
			if v[k] < m.BoundsMin[k] {
				m.BoundsMin[k] = v[k]
			}
			if v[k] > m.BoundsMax[k] {
				m.BoundsMax[k] = v[k]
			}
		}
	}
}

// Center is the midpoint of the bounding box.
func (m *Mesh) Center() mgl32.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Mul(0.5)
}

// NewPlane builds a width x height plane in the xy plane facing +z, split into
// segments x segments quads.
func NewPlane(width, height float32, segments int) *Mesh {
	if segments < 1 {
		segments = 1
	}
	stride := segments + 1
	positions := make([]float32, 0, stride*stride*3)
	normals := make([]float32, 0, stride*stride*3)
	for iy := 0; iy <= segments; iy++ {
		y := height/2 - float32(iy)*height/float32(segments)
		for ix := 0; ix <= segments; ix++ {
			x := -width/2 + float32(ix)*width/float32(segments)
			positions = append(positions, x, y, 0)
			normals = append(normals, 0, 0, 1)
		}
	}

	indices := make([]uint32, 0, segments*segments*6)
	for iy := 0; iy < segments; iy++ {
		for ix := 0; ix < segments; ix++ {
			a := uint32(iy*stride + ix)
			b := uint32((iy+1)*stride + ix)
			c := uint32((iy+1)*stride + ix + 1)
			d := uint32(iy*stride + ix + 1)
			indices = append(indices, a, b, d, b, c, d)
		}
	}

	m, err := NewMesh("plane", positions, normals, indices)
	if err != nil {
		panic(err)
	}
	return m
}
