package scene

import (
	"RoboticArm/internal/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Node is an element of the scene graph. A node with a Mesh is drawable.
type Node struct {
	// HOT DATA - read every frame by the renderer
	WorldMatrix   mgl32.Mat4
	Position      mgl32.Vec3
	Scale         mgl32.Vec3
	Rotation      mgl32.Quat
	Mesh          *Mesh
	Material      material.Material
	DepthMaterial material.Material // overrides the default depth program in the shadow pass
	CastShadow    bool
	ReceiveShadow bool
	Visible       bool

	// COLD DATA
	ID       uuid.UUID
	Name     string
	Parent   *Node
	Children []*Node
	dirty    bool
}

func NewNode(name string) *Node {
	return &Node{
		ID:          uuid.New(),
		Name:        name,
		Position:    mgl32.Vec3{0, 0, 0},
		Scale:       mgl32.Vec3{1, 1, 1},
		Rotation:    mgl32.QuatIdent(),
		WorldMatrix: mgl32.Ident4(),
		Visible:     true,
		dirty:       true,
	}
}

// NewMeshNode returns a drawable node with the default material.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	n.Material = material.DefaultMaterial
	return n
}

func (n *Node) IsMesh() bool { return n.Mesh != nil }

// Add reparents child under n.
func (n *Node) Add(child *Node) {
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = n
	child.dirty = true
	n.Children = append(n.Children, child)
}

func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Traverse visits n and its descendants depth first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) SetPosition(x, y, z float32) {
	n.Position = mgl32.Vec3{x, y, z}
	n.dirty = true
}

func (n *Node) SetScale(x, y, z float32) {
	n.Scale = mgl32.Vec3{x, y, z}
	n.dirty = true
}

// RotateY sets the rotation to angle radians around +y.
func (n *Node) RotateY(angle float32) {
	n.Rotation = mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})
	n.dirty = true
}

// LookAt orients the node so its local +z axis points at target.
func (n *Node) LookAt(target mgl32.Vec3) {
	z := target.Sub(n.Position)
	if z.LenSqr() == 0 {
		return
	}
	z = z.Normalize()
	up := mgl32.Vec3{0, 1, 0}
	x := up.Cross(z)
	if x.LenSqr() == 0 {
		// target straight above or below
		x = mgl32.Vec3{1, 0, 0}
	}
	x = x.Normalize()
	y := z.Cross(x)

	basis := mgl32.Mat3FromCols(x, y, z)
	n.Rotation = mgl32.Mat4ToQuat(basis.Mat4()).Normalize()
	n.dirty = true
}

// LocalMatrix is translation * rotation * scale.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	r := n.Rotation.Mat4()
	t := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	return t.Mul4(r).Mul4(s)
}

// UpdateWorldMatrix recomputes world matrices of n and its subtree.
func (n *Node) UpdateWorldMatrix(force bool) {
	if n.dirty || force {
		if n.Parent != nil {
			n.WorldMatrix = n.Parent.WorldMatrix.Mul4(n.LocalMatrix())
		} else {
			n.WorldMatrix = n.LocalMatrix()
		}
		n.dirty = false
		force = true
	}
	for _, c := range n.Children {
		c.UpdateWorldMatrix(force)
	}
}
