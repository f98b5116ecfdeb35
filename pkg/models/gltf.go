package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/vox/pkg/math3d"
)

var errNoBufferData = errors.New("buffer has no data")

// LoadGLTF reads every triangle primitive of a glTF or GLB document into a
// single mesh. Winding is kept as stored: glTF fronts are counter-clockwise,
// which is what the renderer expects.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return meshFromDocument(doc, filepath.Base(path))
}

func meshFromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	b := NewBuilder(name)
	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			if err := addPrimitive(doc, prim, b); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
		}
	}
	return b.Mesh(), nil
}

func addPrimitive(doc *gltf.Document, prim *gltf.Primitive, b *Builder) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := readVec3(doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	ids := make([]int, len(positions))
	for i, p := range positions {
		ids[i] = b.AddVertex(p)
	}

	if prim.Indices == nil {
		for i := 0; i+2 < len(ids); i += 3 {
			b.AddFace(ids[i], ids[i+1], ids[i+2])
		}
		return nil
	}

	indices, err := readIndices(doc, *prim.Indices)
	if err != nil {
		return fmt.Errorf("read indices: %w", err)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a, c, d := indices[i], indices[i+1], indices[i+2]
		if a >= len(ids) || c >= len(ids) || d >= len(ids) {
			return fmt.Errorf("index out of range at %d", i)
		}
		b.AddFace(ids[a], ids[c], ids[d])
	}
	return nil
}

func accessorBytes(doc *gltf.Document, idx int) (*gltf.Accessor, []byte, int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor %d out of range", idx)
	}
	acr := doc.Accessors[idx]
	if acr.BufferView == nil {
		return nil, nil, 0, fmt.Errorf("accessor %d has no buffer view", idx)
	}
	vi := *acr.BufferView
	if vi < 0 || vi >= len(doc.BufferViews) || doc.BufferViews[vi] == nil {
		return nil, nil, 0, fmt.Errorf("accessor %d: buffer view %d out of range", idx, vi)
	}
	view := doc.BufferViews[vi]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) || doc.Buffers[view.Buffer] == nil {
		return nil, nil, 0, fmt.Errorf("buffer view %d: buffer %d out of range", vi, view.Buffer)
	}
	data := doc.Buffers[view.Buffer].Data
	if data == nil {
		return nil, nil, 0, errNoBufferData
	}
	start := view.ByteOffset + acr.ByteOffset
	if start > len(data) {
		return nil, nil, 0, fmt.Errorf("accessor %d starts past buffer end", idx)
	}
	return acr, data[start:], view.ByteStride, nil
}

func readVec3(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acr, data, stride, err := accessorBytes(doc, idx)
	if err != nil {
		return nil, err
	}
	if acr.Type != gltf.AccessorVec3 || acr.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v %v", acr.ComponentType, acr.Type)
	}
	if stride == 0 {
		stride = 12
	}
	if acr.Count > 0 && (acr.Count-1)*stride+12 > len(data) {
		return nil, fmt.Errorf("accessor %d overruns its buffer", idx)
	}

	out := make([]math3d.Vec3, acr.Count)
	for i := range out {
		p := data[i*stride:]
		out[i] = math3d.V3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(p[0:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(p[4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(p[8:]))),
		)
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acr, data, stride, err := accessorBytes(doc, idx)
	if err != nil {
		return nil, err
	}
	if acr.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", acr.Type)
	}

	var size int
	switch acr.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index type %v", acr.ComponentType)
	}
	if stride == 0 {
		stride = size
	}
	if acr.Count > 0 && (acr.Count-1)*stride+size > len(data) {
		return nil, fmt.Errorf("accessor %d overruns its buffer", idx)
	}

	out := make([]int, acr.Count)
	for i := range out {
		p := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(p[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(p))
		default:
			out[i] = int(binary.LittleEndian.Uint32(p))
		}
	}
	return out, nil
}
