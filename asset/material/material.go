// Package material describes the baked Material record consumed by the
// surface and bsdf packages: a shader-tag variant, a fixed table of scalar
// attributes, texture-slot handles, and a bitset of feature flags. It
// replaces the teacher's Mitsuba-style material-expression tree (a
// free-form node graph compiled from a yacc grammar) with the engine's
// actual closed shader family, since the distilled scene format never
// carries arbitrary expression graphs, only resolved per-material values
// (see DESIGN.md's dropped-modules entry for `material_expr.y.go`).
package material

import "github.com/schuttejoe/ShootyEngine/types"

// ShaderTag selects which BSDF variant a material is shaded with. Modeled
// as a closed enum dispatched by a switch in the bsdf package rather than
// as an interface with one implementation per tag, per the "polymorphic
// BSDF dispatch" redesign: a tag switch inlines better than a vtable call
// for the handful of variants this engine supports.
type ShaderTag uint8

const (
	DisneySolid ShaderTag = iota
	DisneyThin
	TransparentGGX
)

func (t ShaderTag) String() string {
	switch t {
	case DisneySolid:
		return "disneySolid"
	case DisneyThin:
		return "disneyThin"
	case TransparentGGX:
		return "transparentGGX"
	}
	return "unknown"
}

// Attribute indexes the material's scalar attribute table. The set is
// fixed and shared by every shader tag; a tag simply ignores the
// attributes it has no lobe for (e.g. TransparentGGX never reads Sheen).
type Attribute int

const (
	Roughness Attribute = iota
	Metallic
	SpecularTint
	Anisotropic
	Sheen
	SheenTint
	Clearcoat
	ClearcoatGloss
	IOR
	Transmission
	Specular
	Flatness
	attributeCount
)

// TextureSlot indexes the material's texture handle table.
type TextureSlot int

const (
	SlotAlbedo TextureSlot = iota
	SlotNormal
	SlotRoughnessMetallic
	slotCount
)

// Flags is a bitset of per-material feature toggles gating surface and
// traversal behavior (spec section 4.2/4.3).
type Flags uint32

const (
	AlphaTested Flags = 1 << iota
	DisplacementEnabled
	PreserveRayDifferentials
	ThinSurface
	HasNormals
	HasTangents
	HasUVs
)

func (f Flags) Has(bit Flags) bool {
	return f&bit != 0
}

// TextureHandle names a baked texture asset; it is resolved against the
// texture package's registry at bind time. A zero-value handle (empty
// Name) means "no texture bound for this slot" and the material's scalar
// fallback or default.Attribute value is used instead.
type TextureHandle struct {
	Name string
}

func (h TextureHandle) IsValid() bool {
	return h.Name != ""
}

// Material is the resolved, baked material record. NameHash is the 32-bit
// hash used for the binary-search lookup described in spec section 4.2;
// materials are kept sorted by NameHash in the scene's material array.
type Material struct {
	NameHash  uint32
	Name      string
	BaseColor types.Vec3
	// Emissive is a radiance value (not a color swatch): a zero vector
	// means the surface emits nothing, and the kernel's hit path adds
	// Emissive·throughput to the pixel for any material with a nonzero
	// component (spec section 6.1e, "if emissive, accumulate Le ·
	// throughput").
	Emissive types.Vec3
	Shader   ShaderTag
	Flags    Flags
	Textures [slotCount]TextureHandle
	Scalars  [attributeCount]float32
}

// IsEmissive reports whether any channel of Emissive is nonzero, used to
// gate both hit-path Le accumulation and light-list construction at bind
// time (any emissive mesh triangle becomes a sampleable area light).
func (m *Material) IsEmissive() bool {
	return m.Emissive[0] != 0 || m.Emissive[1] != 0 || m.Emissive[2] != 0
}

// Scalar returns the material's value for attribute a.
func (m *Material) Scalar(a Attribute) float32 {
	return m.Scalars[a]
}

// Texture returns the texture handle bound to slot s, and whether it is
// valid (bound) at all.
func (m *Material) Texture(s TextureSlot) (TextureHandle, bool) {
	h := m.Textures[s]
	return h, h.IsValid()
}

// DefaultMaterial mirrors the teacher's CreateDefaultMaterial: a neutral
// gray Disney-solid surface used whenever a mesh's material hash fails to
// resolve in the scene's sorted material array (spec section 4.2).
func DefaultMaterial() Material {
	m := Material{
		Name:      "__default",
		BaseColor: types.Vec3{0.6, 0.6, 0.6},
		Shader:    DisneySolid,
	}
	m.Scalars[Roughness] = 0.5
	m.Scalars[Metallic] = 0
	m.Scalars[SpecularTint] = 0
	m.Scalars[Anisotropic] = 0
	m.Scalars[Sheen] = 0
	m.Scalars[SheenTint] = 0.5
	m.Scalars[Clearcoat] = 0
	m.Scalars[ClearcoatGloss] = 1
	m.Scalars[IOR] = 1.5
	m.Scalars[Transmission] = 0
	m.Scalars[Specular] = 0.5
	m.Scalars[Flatness] = 0
	m.NameHash = HashName(m.Name)
	return m
}

// HashName computes the 32-bit FNV-1a hash used to key a material's
// position in the scene's sorted material array, matching the teacher's
// use of a simple non-cryptographic string hash for fast binary-search
// lookups (scene/material.go's material-by-name resolution, generalized
// from a map lookup to a sorted-array search per spec section 4.2).
func HashName(name string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= 16777619
	}
	return h
}
