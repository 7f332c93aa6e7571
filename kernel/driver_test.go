package kernel

import (
	"testing"

	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/baker"
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// buildSingleQuadResource bakes and reads back a scene whose only geometry
// is one emissive quad facing a camera placed on its normal, mirroring
// cmd.BakeDemoScene's construction but trimmed to the minimum a kernel test
// needs: a real baker.BakeMeta/BakeGeometry -> scene.Read -> BindTraversal
// round trip instead of a hand-built Resource.
func buildSingleQuadResource(t *testing.T) (*scene.Resource, *traversal.BruteForce) {
	t.Helper()

	light := material.Material{
		Name:      "light",
		NameHash:  material.HashName("light"),
		BaseColor: types.Vec3{1, 1, 1},
		Emissive:  types.Vec3{3, 2, 1},
		Shader:    material.DisneySolid,
	}

	model := baker.ImportedModel{
		Materials: []material.Material{light},
		Camera:    scene.NewCamera(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 0.9, 1.0),
		Positions: []types.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Indices:   []uint32{0, 1, 2, 3},
		Meshes: []scene.MeshMeta{
			{IndexCount: 4, IndexOffset: 0, VertexCount: 4, VertexOffset: 0, MaterialHash: light.NameHash, IndicesPerFace: 4},
		},
		AABB: types.AABB{Min: types.Vec3{-1, -1, 0}, Max: types.Vec3{1, 1, 0}},
	}

	metaBlob, err := baker.BakeMeta(&model)
	if err != nil {
		t.Fatalf("BakeMeta: %v", err)
	}
	geomBlob, err := baker.BakeGeometry(&model)
	if err != nil {
		t.Fatalf("BakeGeometry: %v", err)
	}

	res, err := scene.Read(metaBlob, geomBlob)
	if err != nil {
		t.Fatalf("scene.Read: %v", err)
	}

	backend := traversal.NewBruteForce()
	if _, err := res.BindTraversal(backend, scene.BindOptions{}); err != nil {
		t.Fatalf("BindTraversal: %v", err)
	}

	return res, backend
}

func TestRenderSampleAccumulatesDirectEmissionWithoutMIS(t *testing.T) {
	res, backend := buildSingleQuadResource(t)

	opts := Options{
		MaxPathLength:    1,
		RayStackCapacity: 3,
		RouletteStart:    1,
		SamplesPerPixel:  1,
		TileSize:         1,
	}
	accum := make([]types.Vec3, 1)
	counts := make([]uint32, 1)
	ctx := NewContext(opts, accum, counts, sampling.NewSession(1), 0)

	// A single pixel at the center of a 1x1 "image" looks straight down
	// the camera's forward axis, landing on the quad's center.
	ctx.RenderSample(res, backend, nil, res.Camera, 0.5, 0.5, 1, 1, 0)

	want := types.Vec3{3, 2, 1}
	if accum[0] != want {
		t.Fatalf("direct hit on an emissive quad with no bounce budget should accumulate exactly its emissive color, got %v want %v", accum[0], want)
	}
	if counts[0] != 1 {
		t.Fatalf("expected SampleCounts[0] == 1, got %d", counts[0])
	}
}

func TestRenderSampleMissAccumulatesNothingWithoutEnvironment(t *testing.T) {
	res, backend := buildSingleQuadResource(t)
	// Point the camera away from the quad entirely.
	res.Camera.Forward = types.Vec3{0, 0, -1}
	res.Camera.Right = types.Vec3{1, 0, 0}
	res.Camera.Up = types.Vec3{0, 1, 0}

	opts := Options{
		MaxPathLength:    4,
		RayStackCapacity: 6,
		RouletteStart:    4,
		SamplesPerPixel:  1,
		TileSize:         1,
	}
	accum := make([]types.Vec3, 1)
	counts := make([]uint32, 1)
	ctx := NewContext(opts, accum, counts, sampling.NewSession(1), 0)

	ctx.RenderSample(res, backend, nil, res.Camera, 0.5, 0.5, 1, 1, 0)

	if accum[0] != (types.Vec3{}) {
		t.Fatalf("a miss with no environment light should contribute nothing, got %v", accum[0])
	}
}
