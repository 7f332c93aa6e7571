// Package bsdf implements the shader family dispatched over a material's
// shader tag (spec section 4.4): Disney Solid, Disney Thin, Transparent
// GGX, and the Isotropic Medium phase function. Dispatch is a plain switch
// over material.ShaderTag rather than an interface with one implementation
// per tag, per spec section 9's "Polymorphic BSDF dispatch" redesign note
// (a tag switch inlines better than a vtable call for this small, closed
// family).
package bsdf

import (
	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/surface"
	"github.com/schuttejoe/ShootyEngine/types"
)

// LobeFlags classifies the lobe a Sample was drawn from. Spec section 9's
// open question ("pdf == 0 vs delta lobes is conflated in the source")
// is resolved by carrying Delta as its own bit here rather than inferring
// it from Pdf, so next-event estimation can tell a legitimately
// zero-probability non-delta sample (e.g. wo below the hemisphere) apart
// from a delta lobe that reports Pdf == 1 by convention.
type LobeFlags uint8

const (
	Diffuse LobeFlags = 1 << iota
	Specular
	Transmission
	Delta
)

func (f LobeFlags) Has(bit LobeFlags) bool { return f&bit != 0 }

// Sample is the output of a shader's Sample call (spec section 3,
// "BsdfSample"). Throughput is the value the kernel multiplies the path's
// running throughput by: reflectance*|cosTheta|/pdf for non-delta lobes,
// or just reflectance for delta lobes (division by a pdf reported as 1 by
// convention would be a no-op anyway, but skipping it sidesteps any
// numerical noise from the convention value).
type Sample struct {
	Wi          types.Vec3
	Reflectance types.Vec3
	Pdf         float32
	Flags       LobeFlags
	Throughput  types.Vec3
	Valid       bool
}

// epsilon guards |cosTheta| divisions across every shader in this package,
// resolving spec section 9's open question on the differential/Fresnel
// epsilon policy at grazing angles: clamp the magnitude away from zero
// before any divide, uniformly, rather than special-casing each shader.
const epsilon float32 = 1e-4

func clampCos(c float32) float32 {
	if c < 0 {
		if c > -epsilon {
			return -epsilon
		}
		return c
	}
	if c < epsilon {
		return epsilon
	}
	return c
}

// Sample draws a scattered direction at p for outgoing direction wo,
// dispatching on the surface's material shader tag.
func Sample(p *surface.Parameters, wo types.Vec3, sampler sampling.Sampler) Sample {
	if p.ShadingNormal.Dot(wo) == 0 {
		return Sample{}
	}
	switch p.Material.Shader {
	case material.DisneyThin:
		return sampleDisney(p, wo, sampler, true)
	case material.TransparentGGX:
		return sampleTransparentGGX(p, wo, sampler)
	default:
		return sampleDisney(p, wo, sampler, false)
	}
}

// Evaluate returns the reflectance and pdf of scattering from wo to wi,
// used by next-event estimation's MIS weighting against the light
// sampler's pdf. Delta lobes (perfect mirror/refraction) can never be hit
// by a finite-probability light sample, so they evaluate to zero.
func Evaluate(p *surface.Parameters, wo, wi types.Vec3) (types.Vec3, float32) {
	switch p.Material.Shader {
	case material.DisneyThin:
		return evaluateDisney(p, wo, wi, true)
	case material.TransparentGGX:
		return types.Vec3{}, 0
	default:
		return evaluateDisney(p, wo, wi, false)
	}
}

// Pdf returns the analytic pdf of scattering from wo to wi with no
// reflectance computation, used wherever only the probability is needed
// (the light-sampling half of MIS's balance heuristic).
func Pdf(p *surface.Parameters, wo, wi types.Vec3) float32 {
	switch p.Material.Shader {
	case material.DisneyThin:
		_, pdf := evaluateDisney(p, wo, wi, true)
		return pdf
	case material.TransparentGGX:
		return 0
	default:
		_, pdf := evaluateDisney(p, wo, wi, false)
		return pdf
	}
}
