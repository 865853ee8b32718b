package loader

import (
	"errors"
	"fmt"

	"RoboticArm/internal/logger"
	"RoboticArm/internal/material"
	"RoboticArm/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

var (
	ErrCompressedMesh = errors.New("invalid compressed mesh")
	ErrInvalidModel   = errors.New("invalid model")
)

// LoadGLTF opens a .glb or .gltf file and returns its default scene as one root node.
func LoadGLTF(path string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	return SceneFromDocument(doc)
}

// SceneFromDocument converts a decoded document into a node hierarchy. Mesh nodes
// keep the glTF node names; a mesh with several primitives becomes one child per
// primitive, each carrying the node's name.
func SceneFromDocument(doc *gltf.Document) (*scene.Node, error) {
	if err := checkHierarchy(doc); err != nil {
		return nil, err
	}

	meshes := make([][]*scene.Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		if gm == nil {
			return nil, fmt.Errorf("%w: mesh %d is empty", ErrInvalidModel, mi)
		}
		for pi, prim := range gm.Primitives {
			m, err := loadPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			meshes[mi] = append(meshes[mi], m)
		}
	}

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := scene.NewNode(name)

		t := gn.TranslationOrDefault()
		n.SetPosition(float32(t[0]), float32(t[1]), float32(t[2]))
		s := gn.ScaleOrDefault()
		n.SetScale(float32(s[0]), float32(s[1]), float32(s[2]))
		r := gn.RotationOrDefault() // x, y, z, w
		n.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}

		if gn.Mesh != nil && *gn.Mesh >= 0 && *gn.Mesh < len(meshes) {
			prims := meshes[*gn.Mesh]
			if len(prims) == 1 {
				n.Mesh = prims[0]
				n.Material = material.DefaultMaterial
			} else {
				for _, p := range prims {
					n.Add(scene.NewMeshNode(name, p))
				}
			}
		}
		nodes[i] = n
	}

	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			nodes[i].Add(nodes[c])
		}
	}

	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	root := scene.NewNode("Scene")
	if sceneIdx >= 0 && sceneIdx < len(doc.Scenes) && doc.Scenes[sceneIdx] != nil {
		root.Name = doc.Scenes[sceneIdx].Name
		for _, idx := range doc.Scenes[sceneIdx].Nodes {
			if idx >= 0 && idx < len(nodes) && nodes[idx].Parent == nil {
				root.Add(nodes[idx])
			}
		}
	} else {
		for _, n := range nodes {
			if n.Parent == nil {
				root.Add(n)
			}
		}
	}
	if root.Name == "" {
		root.Name = "Scene"
	}

	logger.Log.Info("Model decoded",
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)))
	return root, nil
}

// checkHierarchy rejects child references that would not form a forest: indices out
// of range, nodes with two parents, and cycles.
func checkHierarchy(doc *gltf.Document) error {
	parent := make([]int, len(doc.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, gn := range doc.Nodes {
		if gn == nil {
			return fmt.Errorf("%w: node %d is empty", ErrInvalidModel, i)
		}
		for _, c := range gn.Children {
			switch {
			case c < 0 || c >= len(doc.Nodes):
				return fmt.Errorf("%w: node %d child %d out of range", ErrInvalidModel, i, c)
			case c == i:
				return fmt.Errorf("%w: node %d is its own child", ErrInvalidModel, i)
			case parent[c] >= 0:
				return fmt.Errorf("%w: node %d has parents %d and %d", ErrInvalidModel, c, parent[c], i)
			}
			parent[c] = i
		}
	}
	// With one parent per node, a walk longer than the node count is a cycle.
	for i := range parent {
		steps := 0
		for p := parent[i]; p >= 0; p = parent[p] {
			if steps++; steps > len(parent) {
				return fmt.Errorf("%w: node %d is part of a cycle", ErrInvalidModel, i)
			}
		}
	}
	return nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrInvalidModel, idx)
	}
	return doc.Accessors[idx], nil
}

func loadPrimitive(doc *gltf.Document, meshName string, index int, prim *gltf.Primitive) (*scene.Mesh, error) {
	if prim == nil {
		return nil, fmt.Errorf("%w: empty primitive", ErrInvalidModel)
	}
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %d", prim.Mode)
	}
	name := fmt.Sprintf("%s_p%d", meshName, index)

	dp, compressed, err := compressedPrimitive(prim)
	if err != nil {
		return nil, err
	}
	if compressed {
		geom, err := loadDracoPrimitive(doc, name, dp)
		if err != nil {
			return nil, err
		}
		return scene.NewMesh(name, geom.positions, geom.normals, geom.indices)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if acr, err = accessor(doc, *prim.Indices); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	return scene.NewMesh(name, flatten(positions), flatten(normals), indices)
}

func flatten(v [][3]float32) []float32 {
	if len(v) == 0 {
		return nil
	}
	out := make([]float32, 0, len(v)*3)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2])
	}
	return out
}
