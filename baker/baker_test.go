package baker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/types"
)

func buildTestModel() ImportedModel {
	white := material.Material{Name: "white", NameHash: material.HashName("white"), BaseColor: types.Vec3{0.8, 0.8, 0.8}, Shader: material.DisneySolid}

	return ImportedModel{
		Camera: scene.NewCamera(types.Vec3{0, 0, -3}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 1.0, 1.0),
		AABB:   types.AABB{Min: types.Vec3{-1, -1, -1}, Max: types.Vec3{1, 1, 1}},
		Sphere: types.Sphere{Center: types.Vec3{}, Radius: 1.7},

		Materials: []material.Material{white},

		Meshes: []scene.MeshMeta{
			{IndexCount: 3, IndexOffset: 0, VertexCount: 3, VertexOffset: 0, MaterialHash: white.NameHash, IndicesPerFace: 3},
		},

		Positions: []types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []types.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []types.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
}

func TestBakeMetaGeometryRoundTrip(t *testing.T) {
	model := buildTestModel()

	metaBlob, err := BakeMeta(&model)
	if err != nil {
		t.Fatalf("BakeMeta: %v", err)
	}
	geomBlob, err := BakeGeometry(&model)
	if err != nil {
		t.Fatalf("BakeGeometry: %v", err)
	}

	res, err := scene.Read(metaBlob, geomBlob)
	if err != nil {
		t.Fatalf("scene.Read: %v", err)
	}

	if res.Camera.FovY != model.Camera.FovY {
		t.Fatalf("camera fovY got %v, want %v", res.Camera.FovY, model.Camera.FovY)
	}
	if res.AABB != model.AABB {
		t.Fatalf("AABB got %v, want %v", res.AABB, model.AABB)
	}
	if len(res.Meshes) != 1 || res.Meshes[0].MaterialHash != model.Meshes[0].MaterialHash {
		t.Fatalf("mesh metadata did not round-trip: %+v", res.Meshes)
	}
	if len(res.Positions) != len(model.Positions) {
		t.Fatalf("position count got %d, want %d", len(res.Positions), len(model.Positions))
	}
	for i := range model.Positions {
		if res.Positions[i] != model.Positions[i] {
			t.Fatalf("position %d got %v, want %v", i, res.Positions[i], model.Positions[i])
		}
	}
	if len(res.Indices) != len(model.Indices) {
		t.Fatalf("index count got %d, want %d", len(res.Indices), len(model.Indices))
	}
	mat := res.Materials.Lookup(model.Materials[0].NameHash)
	if mat.BaseColor != model.Materials[0].BaseColor {
		t.Fatalf("material lookup got %v, want %v", mat.BaseColor, model.Materials[0].BaseColor)
	}
}

func TestBakeGeometryEmptyModel(t *testing.T) {
	model := ImportedModel{}
	geomBlob, err := BakeGeometry(&model)
	if err != nil {
		t.Fatalf("BakeGeometry on an empty model should not error: %v", err)
	}
	metaBlob, err := BakeMeta(&model)
	if err != nil {
		t.Fatalf("BakeMeta on an empty model should not error: %v", err)
	}

	res, err := scene.Read(metaBlob, geomBlob)
	if err != nil {
		t.Fatalf("scene.Read on an empty baked model: %v", err)
	}
	if len(res.Meshes) != 0 || len(res.Positions) != 0 || len(res.Indices) != 0 {
		t.Fatalf("expected an empty resource, got %+v", res)
	}
}

func TestWriteAtomicCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	if err := WriteAtomic(path, []byte("hello")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("got %q, want %q", data, "hello")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("WriteAtomic should leave no temp files behind, found %d entries", len(entries))
	}
}

func TestWriteAtomicOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	if err := WriteAtomic(path, []byte("first")); err != nil {
		t.Fatalf("first WriteAtomic: %v", err)
	}
	if err := WriteAtomic(path, []byte("second, and longer")); err != nil {
		t.Fatalf("second WriteAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "second, and longer" {
		t.Fatalf("got %q", data)
	}
}
