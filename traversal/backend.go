// Package traversal declares the engine's contract with an external ray
// traversal backend, shaped directly after the Embree 3 API calls the
// original engine issued from Core/SceneLib/ModelResource.cpp
// (rtcNewScene, rtcNewGeometry, rtcSetSharedGeometryBuffer,
// rtcSetGeometryIntersectFilterFunction, rtcSetGeometryDisplacementFunction,
// rtcSetGeometryTessellationRate, rtcSetGeometrySubdivisionMode,
// rtcAttachGeometryByID, rtcCommitGeometry/rtcCommitScene, rtcIntersect1/
// rtcOccluded1, rtcGetHitFromHitN). Building and linking a real Embree
// acceleration structure is explicitly out of scope (spec section 1); this
// package only defines the shape of that collaborator plus a brute-force
// implementation of it so the scene and kernel packages have something
// real to run their tests against.
package traversal

import "github.com/schuttejoe/ShootyEngine/types"

// SceneHandle and GeometryHandle are opaque identifiers returned by a
// Backend; callers never inspect their representation.
type SceneHandle uint32
type GeometryHandle uint32

// InvalidGeometry mirrors Embree's RTC_INVALID_GEOMETRY_ID sentinel, used
// by scene.Resource to mark a not-yet-instanced geometry's instanceID.
const InvalidGeometry GeometryHandle = 0xFFFFFFFF

// GeometryType selects the primitive representation for a NewGeometry
// call, mirroring RTC_GEOMETRY_TYPE_{TRIANGLE,QUAD,SUBDIVISION,
// ROUND_BSPLINE_CURVE}.
type GeometryType int

const (
	Triangle GeometryType = iota
	Quad
	Subdivision
	RoundCurve
)

// BufferSlot mirrors RTC_BUFFER_TYPE_{VERTEX,VERTEX_ATTRIBUTE,INDEX,FACE}.
type BufferSlot int

const (
	VertexBuffer BufferSlot = iota
	VertexAttributeBuffer
	IndexBuffer
	FaceBuffer
)

// BufferFormat mirrors the RTC_FORMAT_* constants relevant to the shapes
// this engine shares with the backend.
type BufferFormat int

const (
	FormatFloat2 BufferFormat = iota
	FormatFloat3
	FormatFloat4
	FormatUint
	FormatUint3
	FormatUint4
)

// SubdivisionMode mirrors RTC_SUBDIVISION_MODE_*.
type SubdivisionMode int

const (
	SubdivisionPinBoundary SubdivisionMode = iota
	SubdivisionSmoothBoundary
)

// Ray is the query type passed to Intersect1/Occluded1. TNear/TFar bound
// the valid hit-distance range along Dir from Origin.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
	TNear  float32
	TFar   float32
}

// Hit mirrors the fields of RTCHit/RTCRayHit the shading code actually
// consumes: geometry/primitive identity, barycentric coordinates, the
// geometric normal, and the hit distance.
type Hit struct {
	GeomID GeometryHandle
	PrimID uint32
	U, V   float32
	Ng     types.Vec3
	T      float32
}

// IntersectFilterFunc mirrors RTCFilterFunctionN's single-hit contract:
// given the geometry's user data and a candidate hit's barycentrics,
// return whether the hit should be accepted. Installed per-geometry for
// alpha-tested materials (spec section 4.1's intersection filter
// callback).
type IntersectFilterFunc func(userData interface{}, primID uint32, u, v float32) bool

// DisplacementFunc mirrors RTCDisplacementFunctionN: given the geometry's
// user data, a primitive, its barycentrics and geometric normal, return
// the signed offset to apply along that normal.
type DisplacementFunc func(userData interface{}, primID uint32, u, v float32, normal types.Vec3) float32

// Backend is the traversal collaborator contract. A production build
// wires this to Embree via cgo; this package's BruteForce implementation
// exists purely so scene/surface/kernel code has something to run against
// without that native dependency.
type Backend interface {
	NewScene() SceneHandle
	NewGeometry(scene SceneHandle, kind GeometryType) GeometryHandle

	SetSharedBuffer(geom GeometryHandle, slot BufferSlot, attributeIndex int, format BufferFormat, data []byte, byteOffset, byteStride uint64, count uint32)
	SetVertexAttributeCount(geom GeometryHandle, count uint32)
	SetIntersectFilter(geom GeometryHandle, fn IntersectFilterFunc)
	SetDisplacementFunction(geom GeometryHandle, fn DisplacementFunc)
	SetTessellationRate(geom GeometryHandle, rate float32)
	SetSubdivisionMode(geom GeometryHandle, faceIndex uint32, mode SubdivisionMode)
	SetGeometryUserData(geom GeometryHandle, userData interface{})

	AttachGeometryByID(scene SceneHandle, geom GeometryHandle, id uint32)
	CommitGeometry(geom GeometryHandle)
	CommitScene(scene SceneHandle)
	ReleaseGeometry(geom GeometryHandle)
	ReleaseScene(scene SceneHandle)

	Intersect1(scene SceneHandle, ray Ray) (Hit, bool)
	Occluded1(scene SceneHandle, ray Ray) bool
}
