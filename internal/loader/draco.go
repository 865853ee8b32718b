package loader

import (
	"encoding/json"
	"fmt"

	"github.com/qmuntal/draco-go/draco"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// DracoExtension marks Draco compressed primitives.
const DracoExtension = "KHR_draco_mesh_compression"

// dracoPrimitive is the KHR_draco_mesh_compression object of a primitive. Attributes
// map glTF semantics to Draco attribute unique ids.
type dracoPrimitive struct {
	BufferView int            `json:"bufferView"`
	Attributes map[string]int `json:"attributes"`
}

type dracoGeometry struct {
	positions []float32
	normals   []float32
	indices   []uint32
}

// decodeDraco is swapped in tests.
var decodeDraco = decodeDracoMesh

// compressedPrimitive returns the Draco extension of prim, if it has one.
func compressedPrimitive(prim *gltf.Primitive) (*dracoPrimitive, bool, error) {
	ext, ok := prim.Extensions[DracoExtension]
	if !ok {
		return nil, false, nil
	}
	var raw []byte
	switch v := ext.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, true, fmt.Errorf("%w: %v", ErrCompressedMesh, err)
		}
		raw = b
	}
	dp := new(dracoPrimitive)
	if err := json.Unmarshal(raw, dp); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrCompressedMesh, err)
	}
	return dp, true, nil
}

func loadDracoPrimitive(doc *gltf.Document, name string, dp *dracoPrimitive) (*dracoGeometry, error) {
	if dp.BufferView < 0 || dp.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("%w: buffer view %d out of range", ErrCompressedMesh, dp.BufferView)
	}
	if _, ok := dp.Attributes[gltf.POSITION]; !ok {
		return nil, fmt.Errorf("%w: no %s attribute", ErrCompressedMesh, gltf.POSITION)
	}
	data, err := modeler.ReadBufferView(doc, doc.BufferViews[dp.BufferView])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressedMesh, err)
	}
	geom, err := decodeDraco(data, dp.Attributes)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrCompressedMesh, name, err)
	}
	return geom, nil
}

// decodeDracoMesh decodes one Draco bitstream into flat triangle buffers.
func decodeDracoMesh(data []byte, attributes map[string]int) (*dracoGeometry, error) {
	m := draco.NewMesh()
	if err := draco.NewDecoder().DecodeMesh(m, data); err != nil {
		return nil, err
	}

	positions, err := dracoFloats(m, attributes[gltf.POSITION], 3)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	geom := &dracoGeometry{positions: positions, indices: m.Faces(nil)}
	if id, ok := attributes[gltf.NORMAL]; ok {
		if geom.normals, err = dracoFloats(m, id, 3); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	return geom, nil
}

func dracoFloats(m *draco.Mesh, id, components int) ([]float32, error) {
	if id < 0 {
		return nil, fmt.Errorf("attribute id %d", id)
	}
	pa := m.AttrByUniqueID(uint32(id))
	if pa == nil {
		return nil, fmt.Errorf("attribute id %d missing", id)
	}
	if int(pa.NumComponents()) != components {
		return nil, fmt.Errorf("attribute id %d has %d components", id, pa.NumComponents())
	}
	data, ok := m.AttrData(pa, []float32(nil))
	if !ok {
		return nil, fmt.Errorf("attribute id %d unreadable", id)
	}
	floats, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("attribute id %d is %T", id, data)
	}
	return floats, nil
}
