package traversal

import (
	"math"

	"github.com/schuttejoe/ShootyEngine/types"
)

// BruteForce is a linear-scan Backend implementation: every Intersect1/
// Occluded1 call walks every triangle of every committed geometry in the
// scene. It exists only to give scene/surface/kernel package tests a real
// traversal collaborator without requiring Embree; production renders use
// a real RTC-backed implementation instead (out of scope, spec section 1).
type BruteForce struct {
	scenes    []bruteScene
	geometry  []bruteGeometry
	userData  []interface{}
	filters   []IntersectFilterFunc
	displace  []DisplacementFunc
	nextScene SceneHandle
	nextGeom  GeometryHandle
}

type bruteScene struct {
	geometryIDs []GeometryHandle
}

type bruteGeometry struct {
	kind     GeometryType
	scene    SceneHandle
	vertices []types.Vec3
	indices  []uint32
	stride   int // indices per primitive (3 for triangle, 4 for quad)
}

// NewBruteForce creates an empty backend.
func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

func (b *BruteForce) NewScene() SceneHandle {
	id := b.nextScene
	b.nextScene++
	b.scenes = append(b.scenes, bruteScene{})
	return id
}

func (b *BruteForce) NewGeometry(scene SceneHandle, kind GeometryType) GeometryHandle {
	id := b.nextGeom
	b.nextGeom++
	stride := 3
	if kind == Quad {
		stride = 4
	}
	b.geometry = append(b.geometry, bruteGeometry{kind: kind, scene: scene, stride: stride})
	b.userData = append(b.userData, nil)
	b.filters = append(b.filters, nil)
	b.displace = append(b.displace, nil)
	return id
}

// SetSharedBuffer stores a borrowed view over data. count is always an
// element count (vertex count, or total flat index count) rather than a
// primitive count, matching this backend's flat triangle-list model
// regardless of the geometry's original index stride (triangles vs
// quads, where a quad expands to two triangles sharing its diagonal).
func (b *BruteForce) SetSharedBuffer(geom GeometryHandle, slot BufferSlot, attributeIndex int, format BufferFormat, data []byte, byteOffset, byteStride uint64, count uint32) {
	g := &b.geometry[geom]
	switch slot {
	case VertexBuffer:
		g.vertices = decodeVec3Buffer(data, byteOffset, byteStride, count)
	case IndexBuffer:
		indices := decodeUint32Buffer(data, byteOffset, byteStride, count)
		g.indices = triangulate(indices, g.stride)
	}
}

// triangulate expands a quad index stream (4 indices per face) into a
// triangle-list (two triangles sharing the 0-1-2 / 0-2-3 diagonal) so the
// rest of this backend only ever walks triangles. Triangle input passes
// through unchanged.
func triangulate(indices []uint32, stride int) []uint32 {
	if stride == 3 {
		return indices
	}
	out := make([]uint32, 0, len(indices)/4*6)
	for i := 0; i+3 < len(indices); i += 4 {
		a, b, c, d := indices[i], indices[i+1], indices[i+2], indices[i+3]
		out = append(out, a, b, c, a, c, d)
	}
	return out
}

func (b *BruteForce) SetVertexAttributeCount(GeometryHandle, uint32)      {}
func (b *BruteForce) SetTessellationRate(GeometryHandle, float32)        {}
func (b *BruteForce) SetSubdivisionMode(GeometryHandle, uint32, SubdivisionMode) {}

func (b *BruteForce) SetIntersectFilter(geom GeometryHandle, fn IntersectFilterFunc) {
	b.filters[geom] = fn
}

func (b *BruteForce) SetDisplacementFunction(geom GeometryHandle, fn DisplacementFunc) {
	b.displace[geom] = fn
}

func (b *BruteForce) SetGeometryUserData(geom GeometryHandle, userData interface{}) {
	b.userData[geom] = userData
}

func (b *BruteForce) AttachGeometryByID(scene SceneHandle, geom GeometryHandle, id uint32) {
	s := &b.scenes[scene]
	for uint32(len(s.geometryIDs)) <= id {
		s.geometryIDs = append(s.geometryIDs, InvalidGeometry)
	}
	s.geometryIDs[id] = geom
}

func (b *BruteForce) CommitGeometry(GeometryHandle) {}
func (b *BruteForce) CommitScene(SceneHandle)       {}
func (b *BruteForce) ReleaseGeometry(GeometryHandle) {}
func (b *BruteForce) ReleaseScene(SceneHandle)       {}

// Intersect1 walks every triangle/quad of every geometry attached to
// scene and returns the closest hit within [ray.TNear, ray.TFar], honoring
// each geometry's intersect filter.
func (b *BruteForce) Intersect1(scene SceneHandle, ray Ray) (Hit, bool) {
	best := Hit{}
	bestT := ray.TFar
	found := false

	for _, geomID := range b.scenes[scene].geometryIDs {
		if geomID == InvalidGeometry {
			continue
		}
		g := &b.geometry[geomID]
		triCount := len(g.indices) / 3
		for tri := 0; tri < triCount; tri++ {
			primID := uint32(tri)
			if g.stride == 4 {
				primID = uint32(tri / 2)
			}
			i0, i1, i2 := g.indices[tri*3], g.indices[tri*3+1], g.indices[tri*3+2]
			u, v, t, ng, ok := intersectTriangle(ray, g.vertices[i0], g.vertices[i1], g.vertices[i2], ray.TNear, bestT)
			if !ok {
				continue
			}
			if filter := b.filters[geomID]; filter != nil && !filter(b.userData[geomID], primID, u, v) {
				continue
			}
			bestT = t
			best = Hit{GeomID: geomID, PrimID: primID, U: u, V: v, Ng: ng, T: t}
			found = true
		}
	}
	return best, found
}

// Occluded1 is a cheaper Intersect1 that stops at the first accepted hit.
func (b *BruteForce) Occluded1(scene SceneHandle, ray Ray) bool {
	for _, geomID := range b.scenes[scene].geometryIDs {
		if geomID == InvalidGeometry {
			continue
		}
		g := &b.geometry[geomID]
		triCount := len(g.indices) / 3
		for tri := 0; tri < triCount; tri++ {
			primID := uint32(tri)
			if g.stride == 4 {
				primID = uint32(tri / 2)
			}
			i0, i1, i2 := g.indices[tri*3], g.indices[tri*3+1], g.indices[tri*3+2]
			u, v, _, _, ok := intersectTriangle(ray, g.vertices[i0], g.vertices[i1], g.vertices[i2], ray.TNear, ray.TFar)
			if !ok {
				continue
			}
			if filter := b.filters[geomID]; filter != nil && !filter(b.userData[geomID], primID, u, v) {
				continue
			}
			return true
		}
	}
	return false
}

// intersectTriangle is the standard Moller-Trumbore ray/triangle test.
func intersectTriangle(ray Ray, p0, p1, p2 types.Vec3, tMin, tMax float32) (u, v, t float32, ng types.Vec3, ok bool) {
	const epsilon = 1e-8

	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	ng = e1.Cross(e2)

	pvec := ray.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -epsilon && det < epsilon {
		return 0, 0, 0, ng, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(p0)
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, ng, false
	}

	qvec := tvec.Cross(e1)
	v = ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, ng, false
	}

	t = e2.Dot(qvec) * invDet
	if t < tMin || t > tMax {
		return 0, 0, 0, ng, false
	}

	return u, v, t, ng.Normalize(), true
}

func decodeVec3Buffer(data []byte, byteOffset, byteStride uint64, count uint32) []types.Vec3 {
	out := make([]types.Vec3, count)
	for i := uint32(0); i < count; i++ {
		off := byteOffset + uint64(i)*byteStride
		out[i] = types.Vec3{
			readLEFloat32(data[off:]),
			readLEFloat32(data[off+4:]),
			readLEFloat32(data[off+8:]),
		}
	}
	return out
}

func decodeUint32Buffer(data []byte, byteOffset, byteStride uint64, count uint32) []uint32 {
	out := make([]uint32, count)
	for i := uint32(0); i < count; i++ {
		off := byteOffset + uint64(i)*byteStride
		out[i] = readLEUint32(data[off:])
	}
	return out
}

func readLEUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func readLEFloat32(b []byte) float32 {
	return math.Float32frombits(readLEUint32(b))
}
