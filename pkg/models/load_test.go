package models

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/vox/pkg/math3d"
)

var tetra = [4][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

var tetraFaces = [4][3]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func asciiSTL() []byte {
	var sb strings.Builder
	sb.WriteString("solid tetra\n")
	for _, f := range tetraFaces {
		sb.WriteString("  facet normal 0 0 0\n    outer loop\n")
		for _, i := range f {
			p := tetra[i]
			sb.WriteString("      vertex ")
			sb.WriteString(strings.Join([]string{ftoa(p[0]), ftoa(p[1]), ftoa(p[2])}, " "))
			sb.WriteString("\n")
		}
		sb.WriteString("    endloop\n  endfacet\n")
	}
	sb.WriteString("endsolid tetra\n")
	return []byte(sb.String())
}

func ftoa(f float32) string {
	if f == 0 {
		return "0"
	}
	return "1"
}

func binarySTL() []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(tetraFaces)))
	for _, f := range tetraFaces {
		var rec [12]float32
		for k, i := range f {
			copy(rec[3+3*k:], tetra[i][:])
		}
		_ = binary.Write(&buf, binary.LittleEndian, rec)
		_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func checkTetra(t *testing.T, m *Mesh) {
	t.Helper()
	if m.VertexCount() != 4 || m.TriangleCount() != 4 {
		t.Fatalf("got %d vertices, %d faces, want 4 and 4", m.VertexCount(), m.TriangleCount())
	}
	b := m.Bounds()
	if !b.Min.ApproxEqual(math3d.Vec3{}, epsilon) || !b.Max.ApproxEqual(math3d.V3(1, 1, 1), epsilon) {
		t.Errorf("bounds = %+v", b)
	}
	for i := range m.Vertices {
		if len(m.Vertices[i].Faces) != 3 {
			t.Errorf("vertex %d used by %d faces, want 3", i, len(m.Vertices[i].Faces))
		}
	}
	// Every face points away from the centroid.
	centroid := math3d.V3(0.25, 0.25, 0.25)
	for i := range m.TriangleCount() {
		tri := m.Triangle(i)
		if m.FaceNormal(i).Dot(tri[0].Sub(centroid)) <= 0 {
			t.Errorf("face %d winding flipped", i)
		}
	}
}

func TestLoadSTL(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"ascii", asciiSTL()},
		{"binary", binarySTL()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Load(writeFile(t, "tetra.stl", tc.data))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if m.Name != "tetra.stl" {
				t.Errorf("name = %q", m.Name)
			}
			checkTetra(t, m)
		})
	}
}

func tetraDocument(indexed bool) *gltf.Document {
	var data bytes.Buffer
	var positions [][3]float32
	if indexed {
		positions = tetra[:]
	} else {
		for _, f := range tetraFaces {
			for _, i := range f {
				positions = append(positions, tetra[i])
			}
		}
	}
	for _, p := range positions {
		for _, c := range p {
			_ = binary.Write(&data, binary.LittleEndian, math.Float32bits(c))
		}
	}
	posLen := data.Len()

	doc := gltf.NewDocument()
	doc.BufferViews = []*gltf.BufferView{
		{Buffer: 0, ByteLength: posLen, Target: gltf.TargetArrayBuffer},
	}
	doc.Accessors = []*gltf.Accessor{{
		BufferView:    gltf.Index(0),
		ComponentType: gltf.ComponentFloat,
		Count:         len(positions),
		Type:          gltf.AccessorVec3,
	}}
	prim := &gltf.Primitive{
		Attributes: map[string]int{gltf.POSITION: 0},
		Mode:       gltf.PrimitiveTriangles,
	}

	if indexed {
		for _, f := range tetraFaces {
			for _, i := range f {
				_ = binary.Write(&data, binary.LittleEndian, uint16(i))
			}
		}
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     0,
			ByteOffset: posLen,
			ByteLength: data.Len() - posLen,
			Target:     gltf.TargetElementArrayBuffer,
		})
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    gltf.Index(1),
			ComponentType: gltf.ComponentUshort,
			Count:         3 * len(tetraFaces),
			Type:          gltf.AccessorScalar,
		})
		prim.Indices = gltf.Index(1)
	}

	doc.Buffers = []*gltf.Buffer{{ByteLength: data.Len(), Data: data.Bytes()}}
	doc.Meshes = []*gltf.Mesh{{Name: "tetra", Primitives: []*gltf.Primitive{prim}}}
	return doc
}

func TestLoadGLB(t *testing.T) {
	for _, indexed := range []bool{true, false} {
		name := "sequential"
		if indexed {
			name = "indexed"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tetra.glb")
			if err := gltf.SaveBinary(tetraDocument(indexed), path); err != nil {
				t.Fatalf("SaveBinary: %v", err)
			}
			m, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			checkTetra(t, m)
		})
	}
}

func TestMeshFromDocumentErrors(t *testing.T) {
	t.Run("index out of range", func(t *testing.T) {
		doc := tetraDocument(true)
		binary.LittleEndian.PutUint16(doc.Buffers[0].Data[48:], 9)
		if _, err := meshFromDocument(doc, "bad"); err == nil {
			t.Error("expected an error for an out of range index")
		}
	})
	t.Run("buffer view out of range", func(t *testing.T) {
		doc := tetraDocument(false)
		doc.Accessors[0].BufferView = gltf.Index(42)
		if _, err := meshFromDocument(doc, "bad"); err == nil {
			t.Error("expected an error for a missing buffer view")
		}
	})
	t.Run("buffer out of range", func(t *testing.T) {
		doc := tetraDocument(false)
		doc.BufferViews[0].Buffer = 3
		if _, err := meshFromDocument(doc, "bad"); err == nil {
			t.Error("expected an error for a missing buffer")
		}
	})
	t.Run("missing buffer data", func(t *testing.T) {
		doc := tetraDocument(false)
		doc.Buffers[0].Data = nil
		if _, err := meshFromDocument(doc, "bad"); err == nil {
			t.Error("expected an error for an empty buffer")
		}
	})
	t.Run("non-triangle primitives skipped", func(t *testing.T) {
		doc := tetraDocument(false)
		doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines
		m, err := meshFromDocument(doc, "lines")
		if err != nil {
			t.Fatalf("meshFromDocument: %v", err)
		}
		if m.TriangleCount() != 0 {
			t.Errorf("got %d faces from a line primitive", m.TriangleCount())
		}
	})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing glb", "/nonexistent/path.glb"},
		{"missing stl", "/nonexistent/path.stl"},
		{"unsupported", "model.fbx"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.path); err == nil {
				t.Errorf("Load(%q) succeeded", tc.path)
			}
		})
	}
}
