// Package baker implements spec section 4.6's BakeMeta/BakeGeometry: it
// transforms an in-memory ImportedModel (the importer-agnostic scene
// description an out-of-scope mesh/curve file reader would produce) into
// the two on-disk blobs scene.Read expects, following the teacher's
// BakeScene two-output split (ModelResource.cpp's small "meta"
// blob/larger "geometry" blob separation) ported onto this engine's
// relative-pointer asset.Writer instead of Selas's BuildProcessorContext.
package baker

import (
	"github.com/schuttejoe/ShootyEngine/asset"
	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/log"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/types"
)

// baker holds the logger a bake operation reports through, mirroring the
// teacher's sceneCompiler: BakeMeta/BakeGeometry stay free functions for
// callers, each constructing one of these per call rather than sharing a
// package-level logger.
type baker struct {
	logger log.Logger
}

// ImportedModel is the baker's input: a fully-resolved, importer-agnostic
// scene description. Building one from a specific mesh/curve file format
// is the out-of-scope "importer" spec section 1 names; this package only
// owns turning it into the baked blob pair.
type ImportedModel struct {
	Camera scene.Camera
	AABB   types.AABB
	Sphere types.Sphere

	TextureNames []string
	Materials    []material.Material

	Meshes []scene.MeshMeta
	Curves []scene.CurveMeta

	Positions []types.Vec3
	Normals   []types.Vec3
	Tangents  []types.Vec4
	UVs       []types.Vec2

	Indices         []uint32
	FaceIndexCounts []uint32
	CurveIndices    []uint32
	CurveVertices   []types.Vec4
}

// BakeMeta encodes model's camera, bounds, materials, and mesh/curve
// metadata into the meta blob scene.Read's readMeta half decodes,
// mirroring its root layout field-for-field.
func BakeMeta(model *ImportedModel) ([]byte, error) {
	b := &baker{logger: log.New("baker")}
	return b.bakeMeta(model)
}

func (b *baker) bakeMeta(model *ImportedModel) ([]byte, error) {
	w := asset.NewWriter()
	asset.WriteHeader(w, "scnmeta", scene.MetaVersion, 0, 0)
	rootStart := w.Len()

	appendVec3W(w, model.Camera.Position)
	appendVec3W(w, model.Camera.Forward)
	appendVec3W(w, model.Camera.Up)
	appendVec3W(w, model.Camera.Right)
	w.WriteFloat32(model.Camera.FovY)
	w.WriteFloat32(model.Camera.AspectRatio)

	appendVec3W(w, model.AABB.Min)
	appendVec3W(w, model.AABB.Max)
	appendVec3W(w, model.Sphere.Center)
	w.WriteFloat32(model.Sphere.Radius)

	textureNamesSite := w.PromisePointer()
	materialsSite := w.PromisePointer()
	meshesSite := w.PromisePointer()
	curvesSite := w.PromisePointer()

	w.WriteUint32(uint32(len(model.Meshes)))
	w.WriteUint32(uint32(len(model.Curves)))
	w.WriteUint32(uint32(len(model.TextureNames)))
	w.WriteUint32(uint32(len(model.Materials)))

	if len(model.TextureNames) > 0 {
		var names []byte
		for _, n := range model.TextureNames {
			names = appendString(names, n)
		}
		w.EmbedBuffer(textureNamesSite, names, 4)
	}

	if len(model.Materials) > 0 {
		// Materials are a relocation table of individually
		// length-prefixed records (scene.decodeMaterialArray's
		// inverse), since encoded material size varies with name and
		// texture-name lengths.
		table := make([]byte, len(model.Materials)*8)
		var bodies []byte
		for i, m := range model.Materials {
			enc := scene.EncodeMaterial(m)
			// site is an offset relative to the embedded buffer's own
			// start, matching decodeMaterialArray's "view[site:]"
			// dereference (view already starts at this buffer's base).
			site := uint64(len(table) + len(bodies))
			putUint64(table[i*8:], site)
			bodies = appendUint32Bytes(bodies, uint32(len(enc)))
			bodies = append(bodies, enc...)
		}
		payload := append(table, bodies...)
		w.EmbedBuffer(materialsSite, payload, 4)
	}

	if len(model.Meshes) > 0 {
		var meshes []byte
		for _, m := range model.Meshes {
			meshes = append(meshes, scene.EncodeMeshMeta(m)...)
		}
		w.EmbedBuffer(meshesSite, meshes, 4)
	}

	if len(model.Curves) > 0 {
		var curves []byte
		for _, c := range model.Curves {
			curves = append(curves, scene.EncodeCurveMeta(c)...)
		}
		w.EmbedBuffer(curvesSite, curves, 4)
	}

	payloadSize := w.Len() - rootStart
	b.logger.Noticef("baked scene meta: %d materials, %d meshes, %d curves, %d bytes", len(model.Materials), len(model.Meshes), len(model.Curves), payloadSize)

	return finalizeBlob(w, payloadSize, rootStart), nil
}

// BakeGeometry encodes model's shared vertex/index buffers into the
// geometry blob scene.Read's readGeometry half decodes, mirroring its
// eight-site relocation table in the same order.
func BakeGeometry(model *ImportedModel) ([]byte, error) {
	b := &baker{logger: log.New("baker")}
	return b.bakeGeometry(model)
}

func (b *baker) bakeGeometry(model *ImportedModel) ([]byte, error) {
	w := asset.NewWriter()
	asset.WriteHeader(w, "scngeom", scene.GeometryVersion, 0, 0)
	rootStart := w.Len()

	type slot struct {
		site uint64
		data []byte
	}

	// Order matches readGeometry's counts[0..7] exactly: indices,
	// faceIndexCounts, positions, normals, tangents, uvs, curveIndices,
	// curveVertices.
	buffers := [][]byte{
		asset.EncodeUint32Slice(model.Indices),
		asset.EncodeUint32Slice(model.FaceIndexCounts),
		asset.EncodeVec3Slice(model.Positions),
		asset.EncodeVec3Slice(model.Normals),
		asset.EncodeVec4Slice(model.Tangents),
		asset.EncodeVec2Slice(model.UVs),
		asset.EncodeUint32Slice(model.CurveIndices),
		asset.EncodeVec4Slice(model.CurveVertices),
	}
	counts := []int{
		len(model.Indices), len(model.FaceIndexCounts),
		len(model.Positions), len(model.Normals),
		len(model.Tangents), len(model.UVs),
		len(model.CurveIndices), len(model.CurveVertices),
	}

	slots := make([]slot, len(buffers))
	for i, data := range buffers {
		slots[i].site = w.PromisePointer()
		slots[i].data = data
		w.WriteUint32(uint32(counts[i]))
	}

	for _, s := range slots {
		w.EmbedBuffer(s.site, s.data, asset.GeometryAlignment)
	}

	payloadSize := w.Len() - rootStart
	b.logger.Noticef("baked scene geometry: %d indices, %d positions, %d bytes", len(model.Indices), len(model.Positions), payloadSize)

	return finalizeBlob(w, payloadSize, rootStart), nil
}

// finalizeBlob backpatches the header asset.WriteHeader wrote at offset 0
// (with placeholder zeros) with the final payload size and root offset,
// now that the body is complete and both are known.
func finalizeBlob(w *asset.Writer, payloadSize, rootStart uint64) []byte {
	out := append([]byte(nil), w.Bytes()...)
	patchHeader(out, payloadSize, rootStart)
	return out
}

func appendVec3W(w *asset.Writer, v types.Vec3) {
	w.WriteFloat32(v[0])
	w.WriteFloat32(v[1])
	w.WriteFloat32(v[2])
}

func appendString(dst []byte, s string) []byte {
	dst = appendUint32Bytes(dst, uint32(len(s)))
	return append(dst, s...)
}

func appendUint32Bytes(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func putUint64(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

// patchHeader rewrites the payload-size and root-offset fields of the
// header already written at the start of out, once the body is finished
// and both values are known. The header's layout (magic(4) tag(8)
// version(8) payloadSize(8) rootOffset(8)) is asset.WriteHeader's, kept
// in sync with it here rather than re-deriving it from ParseHeader since
// this is a write-time patch, not a read.
func patchHeader(out []byte, payloadSize, rootOffset uint64) {
	const payloadSizeOff = 4 + 8 + 8
	const rootOffsetOff = payloadSizeOff + 8
	putUint64(out[payloadSizeOff:], payloadSize)
	putUint64(out[rootOffsetOff:], rootOffset)
}
