// Package surface builds SurfaceParameters, the resolved shading state at
// a ray/scene intersection, from a traversal.Hit plus the scene resource
// it was shot against, per spec section 4.3. It reconstructs the tangent
// frame, interpolates vertex attributes, samples textures with
// ray-differential-derived filter widths, and resolves the material's
// scalar attribute table.
package surface

import (
	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/texture"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// Parameters is the resolved shading state at a hit (spec section 3).
type Parameters struct {
	Position types.Vec3

	GeometricNormal types.Vec3
	ShadingNormal   types.Vec3
	Tangent         types.Vec3
	Bitangent       types.Vec3

	View types.Vec3

	BaseColor types.Vec3
	Alpha     float32

	Roughness      float32
	Metallic       float32
	SpecularTint   float32
	Anisotropic    float32
	Sheen          float32
	SheenTint      float32
	Clearcoat      float32
	ClearcoatGloss float32
	IOR            float32
	Transmission   float32
	Specular       float32
	Flatness       float32

	Flags material.Flags

	// DnDu/DnDv hold the partial derivatives of the shading normal with
	// respect to the surface's (u, v) parameterization. Build leaves them
	// zero, and the bsdf package's differential transfer does not read them.
	DnDu, DnDv types.Vec3
	// DuDx/DuDy (spec's duvdx/duvdy) are the texture-space footprint of
	// one pixel, estimated from the ray differentials.
	DuDx, DuDy types.Vec2
	// DpDx/DpDy are the world-space position differentials the same
	// tangent-plane projection produces alongside DuDx/DuDy, consumed by
	// the bsdf package's differential transfer through a bounce (the
	// transferred ray's origin offset, Igehy 1999's "rxOrigin = p +
	// dpdx").
	DpDx, DpDy types.Vec3

	HasDifferentials bool
	RxDirection      types.Vec3
	RyDirection      types.Vec3

	Material *material.Material
}

// Differentials carries the auxiliary rx/ry rays the camera attaches to a
// primary ray, used to estimate texture filter widths (spec glossary: "ray
// differentials"). A zero-value Differentials (Valid == false) means the
// ray carries no footprint information, e.g. because
// PreserveRayDifferentials is disabled or the path has already bounced
// through a lobe that does not propagate them.
type Differentials struct {
	Valid               bool
	RxOrigin, RxDir     types.Vec3
	RyOrigin, RyDir     types.Vec3
}

// Build reconstructs shading state at a hit against mesh geometry. rayOrigin
// and rayDir are the primary ray that produced hit; diff carries its
// (optional) differentials.
func Build(res *scene.Resource, ud *scene.GeometryUserData, hit traversal.Hit, rayOrigin, rayDir types.Vec3, diff Differentials) (*Parameters, error) {
	p := &Parameters{
		Material: ud.Material,
		Flags:    ud.Material.Flags,
	}

	p.Position = rayOrigin.Add(rayDir.Mul(hit.T))
	p.View = rayDir.Neg().Normalize()
	p.GeometricNormal = faceForward(hit.Ng.Normalize(), p.View)

	var shNormal = p.GeometricNormal
	var tangent, bitangent types.Vec3
	var uv types.Vec2
	var haveUV bool

	if ud.IsCurve {
		shNormal = p.GeometricNormal
		tangent, bitangent = sampling.OrthonormalBasis(shNormal)
	} else {
		mesh := &res.Meshes[ud.MeshIndex]
		i0, i1, i2, ok := res.FaceVertices(mesh, hit.PrimID)
		if !ok {
			tangent, bitangent = sampling.OrthonormalBasis(shNormal)
		} else {
			w := 1 - hit.U - hit.V
			if len(res.Normals) > 0 {
				n0, n1, n2 := res.Normals[i0], res.Normals[i1], res.Normals[i2]
				interp := n0.Mul(w).Add(n1.Mul(hit.U)).Add(n2.Mul(hit.V))
				if interp.LenSq() > 0 {
					shNormal = faceForward(interp.Normalize(), p.View)
				}
			}
			if len(res.Tangents) > 0 {
				t0, t1, t2 := res.Tangents[i0], res.Tangents[i1], res.Tangents[i2]
				interp := t0.Mul(w).Add(t1.Mul(hit.U)).Add(t2.Mul(hit.V)).Vec3()
				tangent = orthogonalize(interp, shNormal)
			} else {
				tangent, _ = sampling.OrthonormalBasis(shNormal)
			}
			bitangent = shNormal.Cross(tangent)

			if len(res.UVs) > 0 {
				uv0, uv1, uv2 := res.UVs[i0], res.UVs[i1], res.UVs[i2]
				uv = types.Vec2{
					w*uv0[0] + hit.U*uv1[0] + hit.V*uv2[0],
					w*uv0[1] + hit.U*uv1[1] + hit.V*uv2[1],
				}
				haveUV = true
			}
		}
	}

	p.ShadingNormal = shNormal
	p.Tangent = tangent.Normalize()
	p.Bitangent = bitangent.Normalize()

	if diff.Valid {
		p.HasDifferentials = true
		p.RxDirection = diff.RxDir
		p.RyDirection = diff.RyDir
		p.DuDx, p.DuDy, p.DpDx, p.DpDy = estimateUVFootprint(p.Position, p.GeometricNormal, rayOrigin, diff)
	}

	resolveScalars(p, ud.Material)
	resolveTextures(res, p, ud.Material, uv, haveUV)

	return p, nil
}

func faceForward(n, v types.Vec3) types.Vec3 {
	if n.Dot(v) < 0 {
		return n.Neg()
	}
	return n
}

// orthogonalize re-orthogonalizes t against n via Gram-Schmidt, matching
// spec section 4.3's "build an orthonormal tangent frame (re-orthogonalize
// against the interpolated normal)".
func orthogonalize(t, n types.Vec3) types.Vec3 {
	t = t.Sub(n.Mul(n.Dot(t)))
	if t.LenSq() < 1e-12 {
		tan, _ := sampling.OrthonormalBasis(n)
		return tan
	}
	return t.Normalize()
}

func resolveScalars(p *Parameters, m *material.Material) {
	p.Roughness = m.Scalar(material.Roughness)
	p.Metallic = m.Scalar(material.Metallic)
	p.SpecularTint = m.Scalar(material.SpecularTint)
	p.Anisotropic = m.Scalar(material.Anisotropic)
	p.Sheen = m.Scalar(material.Sheen)
	p.SheenTint = m.Scalar(material.SheenTint)
	p.Clearcoat = m.Scalar(material.Clearcoat)
	p.ClearcoatGloss = m.Scalar(material.ClearcoatGloss)
	p.IOR = m.Scalar(material.IOR)
	p.Transmission = m.Scalar(material.Transmission)
	p.Specular = m.Scalar(material.Specular)
	p.Flatness = m.Scalar(material.Flatness)
	p.BaseColor = m.BaseColor
	p.Alpha = 1
}

func resolveTextures(res *scene.Resource, p *Parameters, m *material.Material, uv types.Vec2, haveUV bool) {
	if !haveUV {
		return
	}
	if handle, ok := m.Texture(material.SlotAlbedo); ok {
		if tex := res.TextureByName(handle.Name); tex != nil {
			c := sampleWithFootprint(tex, uv, p)
			p.BaseColor = c.Vec3()
			p.Alpha = c[3]
		}
	}
	if handle, ok := m.Texture(material.SlotNormal); ok {
		if tex := res.TextureByName(handle.Name); tex != nil {
			c := sampleWithFootprint(tex, uv, p)
			tangentNormal := c.Vec3().Mul(2).Sub(types.Vec3{1, 1, 1})
			p.ShadingNormal = p.Tangent.Mul(tangentNormal[0]).
				Add(p.Bitangent.Mul(tangentNormal[1])).
				Add(p.ShadingNormal.Mul(tangentNormal[2])).Normalize()
		}
	}
	if handle, ok := m.Texture(material.SlotRoughnessMetallic); ok {
		if tex := res.TextureByName(handle.Name); tex != nil {
			c := sampleWithFootprint(tex, uv, p)
			p.Roughness = c[1]
			p.Metallic = c[2]
		}
	}
}

func sampleWithFootprint(tex *texture.Texture, uv types.Vec2, p *Parameters) types.Vec4 {
	if p.HasDifferentials {
		return tex.SampleFiltered(uv, p.DuDx, p.DuDy)
	}
	return tex.SampleBilinear(uv)
}

// estimateUVFootprint intersects the auxiliary rx/ry rays with the hit's
// tangent plane and returns their position offsets dpdx/dpdy. The (u, v)
// footprint it reports is each offset's length, copied into both
// components; it does not solve for a true (u, v) offset (spec section
// 4.3, "screen-space derivatives estimated from the ray differentials").
func estimateUVFootprint(p, n, rayOrigin types.Vec3, diff Differentials) (duDx, duDy types.Vec2, dpdx, dpdy types.Vec3) {
	d := -n.Dot(p)

	denomX := n.Dot(diff.RxDir)
	denomY := n.Dot(diff.RyDir)
	if absf(denomX) < 1e-8 || absf(denomY) < 1e-8 {
		return types.Vec2{}, types.Vec2{}, types.Vec3{}, types.Vec3{}
	}

	tx := -(n.Dot(diff.RxOrigin) + d) / denomX
	ty := -(n.Dot(diff.RyOrigin) + d) / denomY

	px := diff.RxOrigin.Add(diff.RxDir.Mul(tx))
	py := diff.RyOrigin.Add(diff.RyDir.Mul(ty))

	dpdx = px.Sub(p)
	dpdy = py.Sub(p)

	// Approximate duvdx/duvdy magnitude from the positional footprint; a
	// full implementation would solve against dPdu/dPdv directly, but the
	// texture package only needs the footprint's magnitude to choose a
	// filter width (spec section 4.3 does not require true anisotropic
	// mip selection).
	duDx = types.XY(dpdx.Len(), dpdx.Len())
	duDy = types.XY(dpdy.Len(), dpdy.Len())
	return duDx, duDy, dpdx, dpdy
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
