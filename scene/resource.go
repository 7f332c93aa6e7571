// Package scene implements the ModelResource equivalent described in
// spec section 4.2: the in-memory representation of a baked scene (meshes,
// curves, materials, texture references) and its lifecycle
// (read -> initialize -> bind_traversal -> shutdown), grounded on
// original_source/Source/Core/SceneLib/ModelResource.cpp.
package scene

import (
	"fmt"

	"github.com/schuttejoe/ShootyEngine/asset"
	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/texture"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// MetaVersion/GeometryVersion are the blob version tags for the two baked
// outputs, mirroring ModelResource::kDataVersion (a single shared version
// in the teacher; split in two here because this engine bakes meta and
// geometry as separate blobs per spec section 4.6).
const (
	MetaVersion     uint64 = 1
	GeometryVersion uint64 = 1
)

// Resource is the runtime, attached form of a baked scene: the decoded
// meta blob (camera/AABB/materials/textures/mesh+curve metadata) plus the
// decoded geometry blob (shared vertex/index buffers), together with
// whatever traversal/texture state Initialize and BindTraversal have
// attached.
type Resource struct {
	AABB   types.AABB
	Sphere types.Sphere
	Camera Camera

	TextureNames []string
	Materials    *material.Table

	Meshes []MeshMeta
	Curves []CurveMeta

	Positions []types.Vec3
	Normals   []types.Vec3
	Tangents  []types.Vec4
	UVs       []types.Vec2

	Indices         []uint32
	FaceIndexCounts []uint32
	CurveIndices    []uint32
	CurveVertices   []types.Vec4

	Textures     []*texture.Texture
	textureIndex map[string]int

	TraversalScene  traversal.SceneHandle
	GeometryHandles []traversal.GeometryHandle
	UserData        []*GeometryUserData

	userDataByHandle map[traversal.GeometryHandle]*GeometryUserData
}

// Read decodes the meta and geometry blobs produced by the baker into a
// Resource. It performs no I/O of its own (texture loads, traversal
// binding); that is Initialize's and BindTraversal's job, matching the
// teacher's split between ReadModelResource and InitializeModelResource/
// InitializeEmbreeScene.
func Read(metaBlob, geometryBlob []byte) (*Resource, error) {
	meta, err := asset.Attach(metaBlob)
	if err != nil {
		return nil, asset.NewError(asset.BlobCorrupt, "scene-meta", err)
	}
	if err := meta.CheckVersion("scene-meta", MetaVersion); err != nil {
		return nil, err
	}

	geom, err := asset.Attach(geometryBlob)
	if err != nil {
		return nil, asset.NewError(asset.BlobCorrupt, "scene-geometry", err)
	}
	if err := geom.CheckVersion("scene-geometry", GeometryVersion); err != nil {
		return nil, err
	}

	r := &Resource{}
	if err := r.readMeta(meta); err != nil {
		return nil, err
	}
	if err := r.readGeometry(geom); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resource) readMeta(b *asset.Blob) error {
	root, err := b.Root()
	if err != nil {
		return err
	}

	// Root layout: cameraPosition(12) cameraForward(12) cameraUp(12)
	// cameraRight(12) cameraFovY(4) cameraAspectRatio(4) aabbMin(12)
	// aabbMax(12) sphereCenter(12) sphereRadius(4) textureNamesSite(8)
	// materialsSite(8) meshesSite(8) curvesSite(8) meshCount(4)
	// curveCount(4) textureCount(4) materialCount(4).
	off := 0
	r.Camera.Position = decodeVec3At(root, off)
	off += 12
	r.Camera.Forward = decodeVec3At(root, off)
	off += 12
	r.Camera.Up = decodeVec3At(root, off)
	off += 12
	r.Camera.Right = decodeVec3At(root, off)
	off += 12
	r.Camera.FovY = asset.ReadFloat32(root[off:])
	off += 4
	r.Camera.AspectRatio = asset.ReadFloat32(root[off:])
	off += 4

	r.AABB.Min = decodeVec3At(root, off)
	off += 12
	r.AABB.Max = decodeVec3At(root, off)
	off += 12
	r.Sphere.Center = decodeVec3At(root, off)
	off += 12
	r.Sphere.Radius = asset.ReadFloat32(root[off:])
	off += 4

	textureNamesSite := siteOffsetOf(b, off)
	off += 8
	materialsSite := siteOffsetOf(b, off)
	off += 8
	meshesSite := siteOffsetOf(b, off)
	off += 8
	curvesSite := siteOffsetOf(b, off)
	off += 8

	meshCount := asset.ReadUint32(root[off:])
	off += 4
	curveCount := asset.ReadUint32(root[off:])
	off += 4
	textureCount := asset.ReadUint32(root[off:])
	off += 4
	materialCount := asset.ReadUint32(root[off:])

	if textureCount > 0 {
		view, err := b.View(textureNamesSite)
		if err != nil {
			return err
		}
		r.TextureNames = decodeStringArray(view, int(textureCount))
	}

	if materialCount > 0 {
		view, err := b.View(materialsSite)
		if err != nil {
			return err
		}
		materials, err := decodeMaterialArray(view, int(materialCount))
		if err != nil {
			return err
		}
		r.Materials = material.NewTable(materials)
	} else {
		r.Materials = material.NewTable(nil)
	}

	if meshCount > 0 {
		view, err := b.View(meshesSite)
		if err != nil {
			return err
		}
		r.Meshes = decodeMeshMetaArray(view, int(meshCount))
	}

	if curveCount > 0 {
		view, err := b.View(curvesSite)
		if err != nil {
			return err
		}
		r.Curves = decodeCurveMetaArray(view, int(curveCount))
	}

	return nil
}

func (r *Resource) readGeometry(b *asset.Blob) error {
	root, err := b.Root()
	if err != nil {
		return err
	}

	// Root layout: 8 relocation sites, in order, each followed by its
	// element count as a uint32: indices, faceIndexCounts, positions,
	// normals, tangents, uvs, curveIndices, curveVertices.
	type slot struct {
		dst   interface{}
		count uint32
	}

	sites := make([]uint64, 8)
	counts := make([]uint32, 8)
	off := 0
	for i := 0; i < 8; i++ {
		sites[i] = siteOffsetOf(b, off)
		off += 8
		counts[i] = asset.ReadUint32(root[off:])
		off += 4
	}

	views := make([][]byte, 8)
	for i, site := range sites {
		if counts[i] == 0 {
			continue
		}
		v, err := b.ViewAligned(site, asset.GeometryAlignment)
		if err != nil {
			return err
		}
		views[i] = v
	}

	if counts[0] > 0 {
		r.Indices = asset.DecodeUint32Slice(views[0], int(counts[0]))
	}
	if counts[1] > 0 {
		r.FaceIndexCounts = asset.DecodeUint32Slice(views[1], int(counts[1]))
	}
	if counts[2] > 0 {
		r.Positions = asset.DecodeVec3Slice(views[2], int(counts[2]))
	}
	if counts[3] > 0 {
		r.Normals = asset.DecodeVec3Slice(views[3], int(counts[3]))
	}
	if counts[4] > 0 {
		r.Tangents = asset.DecodeVec4Slice(views[4], int(counts[4]))
	}
	if counts[5] > 0 {
		r.UVs = asset.DecodeVec2Slice(views[5], int(counts[5]))
	}
	if counts[6] > 0 {
		r.CurveIndices = asset.DecodeUint32Slice(views[6], int(counts[6]))
	}
	if counts[7] > 0 {
		r.CurveVertices = asset.DecodeVec4Slice(views[7], int(counts[7]))
	}

	return nil
}

// siteOffsetOf returns the absolute blob offset of the relocation site at
// relOff within the root, i.e. the address View/ViewAligned should
// dereference -- not the value stored there. View/ViewAligned already do
// the one dereference from site to pointee; reading the site's value here
// and handing that to View would dereference twice.
func siteOffsetOf(b *asset.Blob, relOff int) uint64 {
	return b.Header.RootOffset + uint64(relOff)
}

func decodeVec3At(buf []byte, off int) types.Vec3 {
	return types.Vec3{
		asset.ReadFloat32(buf[off:]),
		asset.ReadFloat32(buf[off+4:]),
		asset.ReadFloat32(buf[off+8:]),
	}
}

func decodeStringArray(view []byte, count int) []string {
	out := make([]string, count)
	off := 0
	for i := 0; i < count; i++ {
		n := int(asset.ReadUint32(view[off:]))
		off += 4
		out[i] = string(view[off : off+n])
		off += n
	}
	return out
}

func decodeMeshMetaArray(view []byte, count int) []MeshMeta {
	const stride = 4 * 7
	out := make([]MeshMeta, count)
	for i := 0; i < count; i++ {
		off := i * stride
		out[i] = MeshMeta{
			IndexCount:     asset.ReadUint32(view[off:]),
			IndexOffset:    asset.ReadUint32(view[off+4:]),
			VertexCount:    asset.ReadUint32(view[off+8:]),
			VertexOffset:   asset.ReadUint32(view[off+12:]),
			MaterialHash:   asset.ReadUint32(view[off+16:]),
			IndicesPerFace: asset.ReadUint32(view[off+20:]),
			NameHash:       asset.ReadUint32(view[off+24:]),
		}
	}
	return out
}

func decodeCurveMetaArray(view []byte, count int) []CurveMeta {
	const stride = 4 * 3
	out := make([]CurveMeta, count)
	for i := 0; i < count; i++ {
		off := i * stride
		out[i] = CurveMeta{
			IndexOffset: asset.ReadUint32(view[off:]),
			IndexCount:  asset.ReadUint32(view[off+4:]),
			NameHash:    asset.ReadUint32(view[off+8:]),
		}
	}
	return out
}

func decodeMaterialArray(view []byte, count int) ([]material.Material, error) {
	// Materials are not fixed-size on disk (variable-length texture
	// names), so the array is itself a relocation table: count 8-byte
	// sites pointing at individually length-prefixed encoded materials.
	out := make([]material.Material, count)
	for i := 0; i < count; i++ {
		site := asset.ReadUint64(view[i*8:])
		if site+4 > uint64(len(view)) {
			return nil, fmt.Errorf("scene: material %d site out of bounds", i)
		}
		encodedLen := asset.ReadUint32(view[site:])
		body := view[site+4 : site+4+uint64(encodedLen)]
		m, err := decodeMaterial(body)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}
