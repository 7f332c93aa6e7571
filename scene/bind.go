package scene

import (
	"github.com/schuttejoe/ShootyEngine/asset"
	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/texture"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// DefaultTessellationRate mirrors the teacher's #define TessellationRate_
// 64.0f. The original hardcodes displacement off entirely at compile time
// (EnableDisplacement_ 0); this engine exposes both as kernel.Options
// fields (spec section 6) forwarded to BindTraversal via BindOptions
// instead.
const DefaultTessellationRate float32 = 64.0

// Initialize reads every texture the scene's meta blob references via
// backend, matching InitializeModelResource's texture-load loop. It must
// be called before BindTraversal for any mesh with a texture-backed
// material attribute.
func (r *Resource) Initialize(backend texture.Backend, resourceRoot string) error {
	r.Textures = make([]*texture.Texture, len(r.TextureNames))
	r.textureIndex = make(map[string]int, len(r.TextureNames))
	for i, name := range r.TextureNames {
		res, err := asset.NewResource(resourceRoot+"/"+name, nil)
		if err != nil {
			return asset.NewError(asset.MissingAsset, name, err)
		}
		tex, err := backend.ReadTextureResource(res)
		res.Close()
		if err != nil {
			return asset.NewError(asset.TextureError, name, err)
		}
		r.Textures[i] = tex
		r.textureIndex[name] = i
	}
	return nil
}

// TextureByName resolves a baked texture name to its decoded Texture, or
// nil if name is empty or unresolved.
func (r *Resource) TextureByName(name string) *texture.Texture {
	if name == "" {
		return nil
	}
	if i, ok := r.textureIndex[name]; ok {
		return r.Textures[i]
	}
	return nil
}

// BindOptions carries the build-time/render-time toggles BindTraversal
// needs from kernel.Options without this package importing kernel (kernel
// imports scene for surface construction, so the reverse import would
// cycle).
type BindOptions struct {
	EnableDisplacement bool
	TessellationRate   float32
	AlphaThreshold      float32
}

// BindTraversal registers every mesh and curve with backend, mirroring
// InitializeEmbreeScene / PopulateEmbreeScene / InitializeMeshes /
// InitializeCurves. It returns the backend scene handle, which the caller
// (render.Pool) aliases read-only across all worker goroutines once this
// call returns (spec section 5).
func (r *Resource) BindTraversal(backend traversal.Backend, opts BindOptions) (traversal.SceneHandle, error) {
	sceneHandle := backend.NewScene()
	r.TraversalScene = sceneHandle

	indexBytes := asset.EncodeUint32Slice(r.Indices)
	positionBytes := asset.EncodeVec3Slice(r.Positions)

	var normalBytes, tangentBytes, uvBytes []byte
	if len(r.Normals) > 0 {
		normalBytes = asset.EncodeVec3Slice(r.Normals)
	}
	if len(r.Tangents) > 0 {
		tangentBytes = asset.EncodeVec4Slice(r.Tangents)
	}
	if len(r.UVs) > 0 {
		uvBytes = encodeVec2Slice(r.UVs)
	}

	var offset uint32

	for meshIndex := range r.Meshes {
		mesh := &r.Meshes[meshIndex]
		mat := r.Materials.Lookup(mesh.MaterialHash)

		hasDisplacement := mat.Flags.Has(material.DisplacementEnabled) && opts.EnableDisplacement
		hasAlphaTest := mat.Flags.Has(material.AlphaTested)

		var geomHandle traversal.GeometryHandle
		if hasDisplacement {
			geomHandle = backend.NewGeometry(sceneHandle, traversal.Subdivision)
			r.setMeshVertexAttributes(backend, geomHandle, positionBytes, normalBytes, tangentBytes, uvBytes)
			backend.SetSharedBuffer(geomHandle, traversal.IndexBuffer, 0, traversal.FormatUint,
				indexBytes, uint64(mesh.IndexOffset)*4, 4, mesh.IndexCount)
			backend.SetSharedBuffer(geomHandle, traversal.FaceBuffer, 0, traversal.FormatUint,
				asset.EncodeUint32Slice(r.FaceIndexCounts), 0, 4, mesh.IndexCount/mesh.IndicesPerFace)
			backend.SetDisplacementFunction(geomHandle, r.displacementFunc(meshIndex))
			rate := opts.TessellationRate
			if rate == 0 {
				rate = DefaultTessellationRate
			}
			backend.SetTessellationRate(geomHandle, rate)
			backend.SetSubdivisionMode(geomHandle, 0, traversal.SubdivisionPinBoundary)
		} else {
			kind := traversal.Triangle
			format := traversal.FormatUint3
			if mesh.IndicesPerFace == 4 {
				kind = traversal.Quad
				format = traversal.FormatUint4
			}
			geomHandle = backend.NewGeometry(sceneHandle, kind)
			r.setMeshVertexAttributes(backend, geomHandle, positionBytes, normalBytes, tangentBytes, uvBytes)
			backend.SetSharedBuffer(geomHandle, traversal.IndexBuffer, 0, format,
				indexBytes, uint64(mesh.IndexOffset)*4, 4, mesh.IndexCount)
		}

		if hasAlphaTest {
			threshold := opts.AlphaThreshold
			if threshold == 0 {
				threshold = 0.5
			}
			backend.SetIntersectFilter(geomHandle, r.alphaTestFilter(meshIndex, threshold))
		}

		ud := &GeometryUserData{
			Flags:        geometryFlags(normalBytes, tangentBytes, uvBytes),
			Material:     &mat,
			InstanceID:   traversal.InvalidGeometry,
			Scene:        sceneHandle,
			Geometry:     geomHandle,
			WorldToLocal: types.Ident4(),
			AABB:         types.InvalidAABB(),
			MeshIndex:    meshIndex,
		}
		r.UserData = append(r.UserData, ud)
		backend.SetGeometryUserData(geomHandle, ud)

		backend.CommitGeometry(geomHandle)
		backend.AttachGeometryByID(sceneHandle, geomHandle, offset)
		r.GeometryHandles = append(r.GeometryHandles, geomHandle)
		offset++
	}

	if len(r.Curves) > 0 {
		curveVertexBytes := asset.EncodeVec4Slice(r.CurveVertices)
		curveIndexBytes := asset.EncodeUint32Slice(r.CurveIndices)

		for curveIndex := range r.Curves {
			curve := &r.Curves[curveIndex]
			mat := r.Materials.Lookup(curve.NameHash)

			geomHandle := backend.NewGeometry(sceneHandle, traversal.RoundCurve)
			backend.SetSharedBuffer(geomHandle, traversal.IndexBuffer, 0, traversal.FormatUint,
				curveIndexBytes, uint64(curve.IndexOffset)*4, 4, curve.IndexCount)
			backend.SetSharedBuffer(geomHandle, traversal.VertexBuffer, 0, traversal.FormatFloat4,
				curveVertexBytes, 0, 16, uint32(len(r.CurveVertices)))

			ud := &GeometryUserData{
				Material:     &mat,
				InstanceID:   traversal.InvalidGeometry,
				Scene:        sceneHandle,
				Geometry:     geomHandle,
				WorldToLocal: types.Ident4(),
				AABB:         types.InvalidAABB(),
				CurveIndex:   curveIndex,
				IsCurve:      true,
			}
			r.UserData = append(r.UserData, ud)
			backend.SetGeometryUserData(geomHandle, ud)

			backend.CommitGeometry(geomHandle)
			backend.AttachGeometryByID(sceneHandle, geomHandle, offset)
			r.GeometryHandles = append(r.GeometryHandles, geomHandle)
			offset++
		}
	}

	backend.CommitScene(sceneHandle)
	return sceneHandle, nil
}

func (r *Resource) setMeshVertexAttributes(backend traversal.Backend, geom traversal.GeometryHandle, positionBytes, normalBytes, tangentBytes, uvBytes []byte) {
	backend.SetSharedBuffer(geom, traversal.VertexBuffer, 0, traversal.FormatFloat3,
		positionBytes, 0, 12, uint32(len(r.Positions)))

	hasNormals := len(normalBytes) > 0
	hasTangents := len(tangentBytes) > 0
	hasUVs := len(uvBytes) > 0

	attributeCount := 0
	if hasNormals {
		attributeCount++
	}
	if hasTangents {
		attributeCount++
	}
	if hasUVs {
		attributeCount++
	}
	if attributeCount == 0 {
		return
	}
	backend.SetVertexAttributeCount(geom, uint32(attributeCount))

	slot := 0
	if hasNormals {
		backend.SetSharedBuffer(geom, traversal.VertexAttributeBuffer, slot, traversal.FormatFloat3,
			normalBytes, 0, 12, uint32(len(r.Normals)))
		slot++
	}
	if hasTangents {
		backend.SetSharedBuffer(geom, traversal.VertexAttributeBuffer, slot, traversal.FormatFloat4,
			tangentBytes, 0, 16, uint32(len(r.Tangents)))
		slot++
	}
	if hasUVs {
		backend.SetSharedBuffer(geom, traversal.VertexAttributeBuffer, slot, traversal.FormatFloat2,
			uvBytes, 0, 8, uint32(len(r.UVs)))
	}
}

func geometryFlags(normalBytes, tangentBytes, uvBytes []byte) GeometryFlags {
	var flags GeometryFlags
	if len(normalBytes) > 0 {
		flags |= HasNormals
	}
	if len(tangentBytes) > 0 {
		flags |= HasTangents
	}
	if len(uvBytes) > 0 {
		flags |= HasUVs
	}
	return flags
}

func encodeVec2Slice(values []types.Vec2) []byte {
	out := make([]byte, 0, len(values)*8)
	for _, v := range values {
		out = append(out, asset.EncodeFloat32Slice([]float32{v[0], v[1]})...)
	}
	return out
}

// Shutdown releases the traversal scene and every decoded texture,
// mirroring ShutdownModelResource's release order (scene, then textures).
func (r *Resource) Shutdown(backend traversal.Backend, texBackend texture.Backend) {
	for _, g := range r.GeometryHandles {
		backend.ReleaseGeometry(g)
	}
	r.GeometryHandles = nil

	backend.ReleaseScene(r.TraversalScene)

	for _, tex := range r.Textures {
		if tex != nil {
			texBackend.ShutdownTextureResource(tex)
		}
	}
	r.Textures = nil
}
