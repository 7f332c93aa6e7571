package scene

import (
	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// GeometryFlags records which optional vertex attributes a geometry
// carries, mirroring the teacher's EmbreeGeometryFlags bitmask
// (HasNormals/HasTangents/HasUVs) set from ModelGeometryData's per-array
// size fields.
type GeometryFlags uint32

const (
	HasNormals GeometryFlags = 1 << iota
	HasTangents
	HasUVs
)

// MeshMeta describes one baked triangle/quad mesh's slice of the shared
// index/position/normal/tangent/uv buffers, grounded on
// ModelResource.cpp's MeshMetaData.
type MeshMeta struct {
	IndexCount     uint32
	IndexOffset    uint32
	VertexCount    uint32
	VertexOffset   uint32
	MaterialHash   uint32
	IndicesPerFace uint32
	NameHash       uint32
}

// CurveMeta describes one baked curve's slice of the shared curve index
// and vertex buffers, grounded on ModelResource.cpp's CurveMetaData.
type CurveMeta struct {
	IndexOffset uint32
	IndexCount  uint32
	NameHash    uint32
}

// GeometryUserData is attached to every traversal.GeometryHandle via
// SetGeometryUserData, mirroring ModelResource.cpp's GeometryUserData
// struct: it is what the intersection filter and displacement callbacks
// receive, and what the surface builder reads back out of a Hit to
// resolve a material.
type GeometryUserData struct {
	Flags       GeometryFlags
	Material    *material.Material
	InstanceID  traversal.GeometryHandle
	Scene       traversal.SceneHandle
	Geometry    traversal.GeometryHandle
	WorldToLocal types.Mat4
	AABB        types.AABB

	// MeshIndex/CurveIndex identify which entry of Resource.Meshes or
	// Resource.Curves this geometry bakes from the scene blob, so the
	// surface builder can reach back to the mesh's vertex-attribute
	// slice given just a traversal.Hit.
	MeshIndex  int
	CurveIndex int
	IsCurve    bool
}

// UserDataFor resolves a traversal.Hit's GeomID back to the
// GeometryUserData BindTraversal attached to it, the inverse of the
// backend's SetGeometryUserData call. Built lazily from r.GeometryHandles/
// r.UserData (appended in lockstep during BindTraversal) rather than
// assuming handle values are dense small integers, since a production
// Embree backend's handle allocation is its own concern.
func (r *Resource) UserDataFor(geom traversal.GeometryHandle) *GeometryUserData {
	if r.userDataByHandle == nil {
		r.userDataByHandle = make(map[traversal.GeometryHandle]*GeometryUserData, len(r.GeometryHandles))
		for i, h := range r.GeometryHandles {
			r.userDataByHandle[h] = r.UserData[i]
		}
	}
	return r.userDataByHandle[geom]
}
