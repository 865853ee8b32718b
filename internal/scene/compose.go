package scene

import (
	"errors"
	"fmt"
	"strings"

	"RoboticArm/internal/logger"
	"RoboticArm/internal/material"

	"go.uber.org/zap"
)

// SlicedNodeName is the mesh that gets the sliced material.
const SlicedNodeName = "Base"

// Binding assigns a surface descriptor to a named mesh.
type Binding struct {
	Node    string
	Surface material.Surface
}

// MeshBindings maps the model's mesh names to their descriptors. Both screw meshes
// share one descriptor.
var MeshBindings = []Binding{
	{"Robot1", material.SurfaceRobot1},
	{"Robot2", material.SurfaceRobot2},
	{"Robot3", material.SurfaceRobot3},
	{"BaseRobot", material.SurfaceBaseRobot},
	{"Wire", material.SurfaceWire},
	{"WE", material.SurfaceWireElectronic},
	{"BaseElectronic", material.SurfaceBaseElectronic},
	{"BaseElectronicComponent", material.SurfaceBaseComponent},
	{"Electronic1", material.SurfaceElectronic1},
	{"Electronic2", material.SurfaceElectronic2},
	{"Screws", material.SurfaceScrews},
	{"ScrewsRobot", material.SurfaceScrews},
}

var ErrMissingNode = errors.New("named mesh missing from model")

// MissingNodesError lists every expected mesh name that was not found.
type MissingNodesError struct {
	Names []string
}

func (e *MissingNodesError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingNode, strings.Join(e.Names, ", "))
}

func (e *MissingNodesError) Unwrap() error { return ErrMissingNode }

type ComposeOptions struct {
	// Strict fails composition when a named mesh is absent. Otherwise the mesh
	// keeps its default material and a warning is logged.
	Strict bool
}

// Compose assigns materials onto the loaded hierarchy and turns on shadows for every
// node. In strict mode nothing is modified when a name is missing.
func Compose(root *Node, lib *material.Library, sliced *material.SlicedMaterial, opts ComposeOptions) error {
	type assignment struct {
		node     *Node
		material material.Material
		depth    material.Material
	}
	var (
		plan    []assignment
		missing []string
	)

	bases := findMeshes(root, SlicedNodeName)
	if len(bases) == 0 {
		missing = append(missing, SlicedNodeName)
	}
	for _, n := range bases {
		plan = append(plan, assignment{n, sliced.Visible(), sliced.Depth()})
	}
	for _, b := range MeshBindings {
		nodes := findMeshes(root, b.Node)
		if len(nodes) == 0 {
			missing = append(missing, b.Node)
		}
		for _, n := range nodes {
			plan = append(plan, assignment{node: n, material: lib.Get(b.Surface)})
		}
	}

	if len(missing) > 0 {
		if opts.Strict {
			return &MissingNodesError{Names: missing}
		}
		logger.Log.Warn("Model is missing named meshes, they keep the default material",
			zap.Strings("names", missing))
	}

	for _, a := range plan {
		a.node.Material = a.material
		a.node.DepthMaterial = a.depth
	}
	root.Traverse(func(n *Node) {
		n.CastShadow = true
		n.ReceiveShadow = true
	})

	logger.Log.Info("Composed model materials",
		zap.Int("assigned", len(plan)),
		zap.Int("missing", len(missing)))
	return nil
}

// findMeshes returns the drawable nodes named name. A glTF mesh with several
// primitives loads as one node per primitive, all carrying the mesh's name.
func findMeshes(root *Node, name string) []*Node {
	var found []*Node
	root.Traverse(func(n *Node) {
		if n.IsMesh() && n.Name == name {
			found = append(found, n)
		}
	})
	return found
}
