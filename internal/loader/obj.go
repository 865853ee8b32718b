package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"RoboticArm/internal/logger"
	"RoboticArm/internal/scene"

	"go.uber.org/zap"
)

// LoadOBJ loads a Wavefront file as a model. Each "o" or "g" block becomes a mesh
// node named after the block, so OBJ exports bind to materials the same way glTF
// nodes do.
func LoadOBJ(path string) (*scene.Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeOBJ(file)
}

// FaceVertex holds zero-based indices; NormalIdx is -1 when the face has no normal.
type FaceVertex struct {
	VertexIdx int
	NormalIdx int
}

type objObject struct {
	name  string
	faces []FaceVertex
}

func DecodeOBJ(r io.Reader) (*scene.Node, error) {
	var (
		vertices []float32
		normals  []float32
		objects  []*objObject
		current  *objObject
	)
	startObject := func(name string) {
		current = &objObject{name: name}
		objects = append(objects, current)
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "v":
			vertex, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vertices = append(vertices, vertex...)
		case "vn":
			normal, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			normals = append(normals, normal...)
		case "o", "g":
			name := "default"
			if len(parts) > 1 {
				name = parts[1]
			}
			startObject(name)
		case "f":
			faceVertices, err := parseFace(parts[1:], len(vertices)/3, len(normals)/3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if current == nil {
				startObject("default")
			}
			current.faces = append(current.faces, faceVertices...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	root := scene.NewNode("Scene")
	for _, obj := range objects {
		if len(obj.faces) == 0 {
			continue
		}
		mesh, err := unify(obj, vertices, normals)
		if err != nil {
			return nil, err
		}
		root.Add(scene.NewMeshNode(obj.name, mesh))
	}

	logger.Log.Info("OBJ model decoded",
		zap.Int("objects", len(root.Children)),
		zap.Int("vertices", len(vertices)/3))
	return root, nil
}

// unify builds one index buffer from the separate position and normal indices.
func unify(obj *objObject, vertices, normals []float32) (*scene.Mesh, error) {
	type vertexKey struct{ v, vn int }

	vertexMap := make(map[vertexKey]uint32)
	var positions, outNormals []float32
	indices := make([]uint32, 0, len(obj.faces))
	hasNormals := true

	for _, fv := range obj.faces {
		key := vertexKey{fv.VertexIdx, fv.NormalIdx}
		if idx, ok := vertexMap[key]; ok {
			indices = append(indices, idx)
			continue
		}
		if fv.VertexIdx < 0 || fv.VertexIdx*3+2 >= len(vertices) {
			return nil, fmt.Errorf("object %q: vertex index %d out of range", obj.name, fv.VertexIdx+1)
		}
		idx := uint32(len(positions) / 3)
		vertexMap[key] = idx
		positions = append(positions, vertices[fv.VertexIdx*3:fv.VertexIdx*3+3]...)

		if fv.NormalIdx >= 0 && fv.NormalIdx*3+2 < len(normals) {
			outNormals = append(outNormals, normals[fv.NormalIdx*3:fv.NormalIdx*3+3]...)
		} else {
			hasNormals = false
		}
		indices = append(indices, idx)
	}

	if !hasNormals {
		outNormals = nil
	}
	return scene.NewMesh(obj.name, positions, outNormals, indices)
}

func parseVertex(parts []string) ([]float32, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("vertex needs 3 components, got %d", len(parts))
	}
	vertex := make([]float32, 0, 3)
	for _, part := range parts[:3] {
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex value %v: %w", part, err)
		}
		vertex = append(vertex, float32(val))
	}
	return vertex, nil
}

// parseFace reads "v", "v/vt", "v//vn" or "v/vt/vn" entries and triangulates as a fan.
// Negative indices count back from the last vertex or normal read so far.
func parseFace(parts []string, numVertices, numNormals int) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs 3 vertices, got %d", len(parts))
	}
	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")

		vertexIdx, err := objIndex(vals[0], numVertices)
		if err != nil {
			return nil, fmt.Errorf("vertex index: %w", err)
		}

		normalIdx := -1
		if len(vals) > 2 && vals[2] != "" {
			if normalIdx, err = objIndex(vals[2], numNormals); err != nil {
				return nil, fmt.Errorf("normal index: %w", err)
			}
		}

		face = append(face, FaceVertex{VertexIdx: vertexIdx, NormalIdx: normalIdx})
	}

	if len(face) == 3 {
		return face, nil
	}
	if len(face) > 4 {
		logger.Log.Debug("Face with more than 4 vertices, using fan triangulation", zap.Int("vertexCount", len(face)))
	}
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// objIndex converts a one-based or relative index to a zero-based one.
func objIndex(s string, count int) (int, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %v: %w", s, err)
	}
	idx := int(v)
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += count
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %v out of range (%d defined)", s, count)
	}
	return idx, nil
}
