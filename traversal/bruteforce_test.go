package traversal

import (
	"testing"

	"github.com/schuttejoe/ShootyEngine/asset"
	"github.com/schuttejoe/ShootyEngine/types"
)

func buildSingleTriangleScene(t *testing.T) (*BruteForce, SceneHandle) {
	t.Helper()
	b := NewBruteForce()
	scene := b.NewScene()
	geom := b.NewGeometry(scene, Triangle)

	verts := []types.Vec3{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}}
	indices := []uint32{0, 1, 2}

	b.SetSharedBuffer(geom, VertexBuffer, 0, FormatFloat3, asset.EncodeVec3Slice(verts), 0, 12, 3)
	b.SetSharedBuffer(geom, IndexBuffer, 0, FormatUint3, asset.EncodeUint32Slice(indices), 0, 4, 3)
	b.CommitGeometry(geom)
	b.AttachGeometryByID(scene, geom, 0)
	b.CommitScene(scene)

	return b, scene
}

func TestIntersect1Hit(t *testing.T) {
	b, scene := buildSingleTriangleScene(t)

	ray := Ray{Origin: types.Vec3{0, 0, -5}, Dir: types.Vec3{0, 0, 1}, TNear: 1e-4, TFar: 1e6}
	hit, ok := b.Intersect1(scene, ray)
	if !ok {
		t.Fatal("expected a hit through the triangle's center")
	}
	if hit.T <= 0 {
		t.Fatalf("expected a positive hit distance, got %v", hit.T)
	}
}

func TestIntersect1Miss(t *testing.T) {
	b, scene := buildSingleTriangleScene(t)

	ray := Ray{Origin: types.Vec3{5, 5, -5}, Dir: types.Vec3{0, 0, 1}, TNear: 1e-4, TFar: 1e6}
	_, ok := b.Intersect1(scene, ray)
	if ok {
		t.Fatal("expected a miss well outside the triangle")
	}
}

func TestOccluded1MatchesIntersect1(t *testing.T) {
	b, scene := buildSingleTriangleScene(t)

	hitRay := Ray{Origin: types.Vec3{0, 0, -5}, Dir: types.Vec3{0, 0, 1}, TNear: 1e-4, TFar: 1e6}
	if !b.Occluded1(scene, hitRay) {
		t.Fatal("expected Occluded1 to agree with Intersect1's hit")
	}

	missRay := Ray{Origin: types.Vec3{5, 5, -5}, Dir: types.Vec3{0, 0, 1}, TNear: 1e-4, TFar: 1e6}
	if b.Occluded1(scene, missRay) {
		t.Fatal("expected Occluded1 to agree with Intersect1's miss")
	}
}

func TestIntersectFilterRejectsHit(t *testing.T) {
	b, scene := buildSingleTriangleScene(t)
	geom := GeometryHandle(0)
	b.SetIntersectFilter(geom, func(userData interface{}, primID uint32, u, v float32) bool {
		return false
	})

	ray := Ray{Origin: types.Vec3{0, 0, -5}, Dir: types.Vec3{0, 0, 1}, TNear: 1e-4, TFar: 1e6}
	_, ok := b.Intersect1(scene, ray)
	if ok {
		t.Fatal("expected the intersect filter to reject every hit")
	}
}

func TestQuadTriangulation(t *testing.T) {
	b := NewBruteForce()
	scene := b.NewScene()
	geom := b.NewGeometry(scene, Quad)

	verts := []types.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	indices := []uint32{0, 1, 2, 3}

	b.SetSharedBuffer(geom, VertexBuffer, 0, FormatFloat3, asset.EncodeVec3Slice(verts), 0, 12, 4)
	b.SetSharedBuffer(geom, IndexBuffer, 0, FormatUint4, asset.EncodeUint32Slice(indices), 0, 4, 4)
	b.AttachGeometryByID(scene, geom, 0)

	ray := Ray{Origin: types.Vec3{0, 0, -5}, Dir: types.Vec3{0, 0, 1}, TNear: 1e-4, TFar: 1e6}
	hit, ok := b.Intersect1(scene, ray)
	if !ok {
		t.Fatal("expected a hit through the quad's center")
	}
	if hit.PrimID != 0 {
		t.Fatalf("expected the quad's single logical primID (0), got %d", hit.PrimID)
	}
}
