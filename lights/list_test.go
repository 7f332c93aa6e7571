package lights

import (
	"testing"

	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// buildEmissiveQuadResource assembles a minimal already-bound scene.Resource
// with a single emissive quad mesh, skipping scene.Read/BindTraversal since
// lights.Build only reads the fields it touches (UserData, Meshes,
// Positions, Indices).
func buildEmissiveQuadResource() *scene.Resource {
	mat := material.Material{Emissive: types.Vec3{4, 4, 4}}
	res := &scene.Resource{
		Meshes: []scene.MeshMeta{
			{IndexCount: 4, IndexOffset: 0, VertexCount: 4, VertexOffset: 0, IndicesPerFace: 4},
		},
		Positions: []types.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Indices:   []uint32{0, 1, 2, 3},
		UserData: []*scene.GeometryUserData{
			{Material: &mat, Geometry: traversal.GeometryHandle(0), MeshIndex: 0},
		},
	}
	return res
}

func TestBuildFindsEmissiveFaces(t *testing.T) {
	res := buildEmissiveQuadResource()
	list := Build(res, nil)
	if list.Len() != 1 {
		t.Fatalf("expected 1 area light from a single emissive quad, got %d", list.Len())
	}
}

func TestBuildSkipsNonEmissiveFaces(t *testing.T) {
	res := buildEmissiveQuadResource()
	res.UserData[0].Material.Emissive = types.Vec3{}
	list := Build(res, nil)
	if list.Len() != 0 {
		t.Fatalf("a material with zero emission should not produce a light, got %d", list.Len())
	}
}

func TestBuildAppendsEnvironment(t *testing.T) {
	res := buildEmissiveQuadResource()
	env := ConstantEnvironment{Color: types.Vec3{1, 1, 1}}
	list := Build(res, env)
	if list.Len() != 2 {
		t.Fatalf("expected the area light plus the environment, got %d", list.Len())
	}
	if list.Environment() != env {
		t.Fatal("Environment() should return the environment passed to Build")
	}
}

func TestListLookupResolvesHitToLight(t *testing.T) {
	res := buildEmissiveQuadResource()
	list := Build(res, nil)

	al, ok := list.Lookup(traversal.GeometryHandle(0), 0)
	if !ok {
		t.Fatal("Lookup should resolve the face Build registered")
	}
	if al.emission != res.UserData[0].Material.Emissive {
		t.Fatalf("looked-up light emission got %v, want %v", al.emission, res.UserData[0].Material.Emissive)
	}

	if _, ok := list.Lookup(traversal.GeometryHandle(0), 99); ok {
		t.Fatal("Lookup should fail for a primitive id that was never registered")
	}
}

func TestSampleLightUniformOverIndexRange(t *testing.T) {
	l := &List{}
	for i := 0; i < 4; i++ {
		l.lights = append(l.lights, ConstantEnvironment{Color: types.Vec3{float32(i), 0, 0}})
	}

	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		u := float32(i) / 100
		light, pdf, ok := l.SampleLight(u)
		if !ok {
			t.Fatal("SampleLight should succeed on a non-empty list")
		}
		if pdf != 0.25 {
			t.Fatalf("uniform selection pdf got %v, want 0.25", pdf)
		}
		for idx, candidate := range l.lights {
			if candidate == light {
				seen[idx] = true
			}
		}
	}
	if len(seen) != 4 {
		t.Fatalf("SampleLight should eventually select every light in the list, saw %d distinct", len(seen))
	}
}

func TestSampleLightEmptyListFails(t *testing.T) {
	l := &List{}
	if _, _, ok := l.SampleLight(0.5); ok {
		t.Fatal("SampleLight on an empty list should report ok=false")
	}
	if l.SelectionPdf() != 0 {
		t.Fatal("SelectionPdf on an empty list should be zero")
	}
}

func TestConstantEnvironmentFurnaceTest(t *testing.T) {
	env := ConstantEnvironment{Color: types.Vec3{1, 1, 1}}
	s, ok := env.Sample(types.Vec3{}, 0.2, 0.8)
	if !ok {
		t.Fatal("ConstantEnvironment.Sample should always succeed")
	}
	if s.Emission != env.Color {
		t.Fatalf("sampled emission got %v, want %v", s.Emission, env.Color)
	}
	if s.Pdf != env.SolidAnglePdf(types.Vec3{}, s.Direction) {
		t.Fatal("Sample's reported pdf should match SolidAnglePdf for the same direction")
	}
	if env.Evaluate(types.Vec3{0, 1, 0}) != env.Color {
		t.Fatal("Evaluate should return the constant color regardless of direction")
	}
}
