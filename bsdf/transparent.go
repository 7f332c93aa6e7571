package bsdf

import (
	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/surface"
	"github.com/schuttejoe/ShootyEngine/types"
)

// sampleTransparentGGX draws a reflected or refracted direction through a
// rough dielectric interface, grounded on TransparentGGX.h's
// TransparentGgxShader contract and on dielectric.go's reflect/refract/
// Schlick math, generalized from a smooth interface to a GGX microfacet
// one (Walter et al.'s rough refraction model) since the material carries
// a Roughness attribute the smooth retrieved version has no slot for.
//
// Evaluate/Pdf report zero for this shader (bsdf.go) since a rough
// refractive interface is still effectively a delta lobe from next-event
// estimation's perspective: a light sample can never land exactly on the
// sampled microfacet normal, so this lobe is always marked Delta and only
// ever contributes via BSDF sampling and continuation.
func sampleTransparentGGX(p *surface.Parameters, wo types.Vec3, sampler sampling.Sampler) Sample {
	lwo := localFrame(p, wo)
	if lwo[2] == 0 {
		return Sample{}
	}

	entering := lwo[2] > 0
	// eta is transmitted-side ior over incident-side ior, the convention
	// refract and dielectricFresnel share: entering the material from air
	// transmits into IOR/1, leaving it transmits into 1/IOR.
	eta := p.IOR
	if !entering {
		eta = 1 / p.IOR
	}

	alpha := ggxAlpha(p.Roughness)

	loWo := lwo
	if loWo[2] < 0 {
		loWo = loWo.Neg()
	}

	u1, u2 := sampler.Get2D()
	h := sampleGGXVisibleNormal(loWo, alpha, alpha, u1, u2)
	if !entering {
		h = h.Neg()
	}

	cosThetaH := lwo.Dot(h)
	fr := dielectricFresnel(cosThetaH, eta)

	wt, canRefract := refract(lwo, h, eta)

	uPick := sampler.Get1D()
	var lwi types.Vec3
	var flags LobeFlags
	if !canRefract || uPick < fr {
		lwi = reflect(lwo, h)
		flags = Specular | Delta
	} else {
		lwi = wt
		flags = Specular | Transmission | Delta
	}

	if lwi.LenSq() == 0 {
		return Sample{}
	}
	lwi = lwi.Normalize()

	wi := worldFrame(p, lwi)
	cosI := absf32(lwi[2])
	if cosI < epsilon {
		return Sample{}
	}

	return Sample{
		Wi:          wi,
		Reflectance: types.Vec3{1, 1, 1},
		Pdf:         1,
		Flags:       flags,
		Throughput:  types.Vec3{1, 1, 1},
		Valid:       true,
	}
}

// shouldPropagateDifferentials gates TransferDifferentials per the
// engine's "differential-aware bounce-ray construction" requirement:
// propagation only happens when the material opts in
// (PreserveRayDifferentials) and the inbound ray actually carried
// differentials (a nonzero RxDirection), not merely from the flag alone.
func shouldPropagateDifferentials(p *surface.Parameters) bool {
	return p.Flags.Has(material.PreserveRayDifferentials) && p.HasDifferentials && p.RxDirection.LenSq() > 0
}
