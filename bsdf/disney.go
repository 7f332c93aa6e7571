package bsdf

import (
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/surface"
	"github.com/schuttejoe/ShootyEngine/types"
)

// disneyLobe names the sampled lobe within the Disney Solid/Thin family,
// used only to route Sample's returned direction through the right pdf
// term; Evaluate always sums every lobe regardless of which one a given
// sample came from (spec section 4.4).
type disneyLobe int

const (
	lobeDiffuse disneyLobe = iota
	lobeSpecular
	lobeClearcoat
	lobeTransmission
)

// disneyWeights returns the probability mass assigned to each lobe when
// sampling, derived from {metallic, clearcoat, transmission} per spec
// section 4.4. Sheen has no dedicated lobe; it rides along as an additive
// term on the diffuse lobe's evaluation, matching the original principled
// BRDF writeup where sheen is a low-frequency grazing term too small to
// warrant its own importance sampling strategy.
func disneyWeights(p *surface.Parameters, thin bool) (wDiffuse, wSpecular, wClearcoat, wTransmission float32) {
	wClearcoat = clampf(p.Clearcoat, 0, 1) * 0.25
	wSpecular = (1 - wClearcoat) * lerp(0.5, 1, p.Metallic)
	remainder := 1 - wClearcoat - wSpecular
	if thin {
		t := clampf(p.Transmission, 0, 1) * (1 - p.Metallic)
		wTransmission = remainder * t
		wDiffuse = remainder - wTransmission
	} else {
		wDiffuse = remainder
	}
	return
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func localFrame(p *surface.Parameters, v types.Vec3) types.Vec3 {
	return types.Vec3{v.Dot(p.Tangent), v.Dot(p.Bitangent), v.Dot(p.ShadingNormal)}
}

func worldFrame(p *surface.Parameters, v types.Vec3) types.Vec3 {
	return p.Tangent.Mul(v[0]).Add(p.Bitangent.Mul(v[1])).Add(p.ShadingNormal.Mul(v[2]))
}

func sampleDisney(p *surface.Parameters, wo types.Vec3, sampler sampling.Sampler, thin bool) Sample {
	wDiffuse, wSpecular, wClearcoat, _ := disneyWeights(p, thin)

	lwo := localFrame(p, wo)
	if lwo[2] <= 0 {
		return Sample{}
	}

	u := sampler.Get1D()
	var lobe disneyLobe
	switch {
	case u < wDiffuse:
		lobe = lobeDiffuse
	case u < wDiffuse+wSpecular:
		lobe = lobeSpecular
	case u < wDiffuse+wSpecular+wClearcoat:
		lobe = lobeClearcoat
	default:
		lobe = lobeTransmission
	}

	u1, u2 := sampler.Get2D()

	var lwi types.Vec3
	switch lobe {
	case lobeDiffuse:
		dir, _ := sampling.CosineHemisphere(types.Vec3{0, 0, 1}, u1, u2)
		lwi = dir
	case lobeTransmission:
		dir, _ := sampling.CosineHemisphere(types.Vec3{0, 0, -1}, u1, u2)
		lwi = dir
	case lobeSpecular:
		alpha := ggxAlpha(p.Roughness)
		loWo := lwo
		if loWo[2] < 0 {
			loWo = loWo.Neg()
		}
		h := sampleGGXVisibleNormal(loWo, alpha, alpha, u1, u2)
		lwi = reflect(lwo, h)
	case lobeClearcoat:
		alpha := ggxAlpha(lerp(0.1, 0.001, p.ClearcoatGloss))
		loWo := lwo
		if loWo[2] < 0 {
			loWo = loWo.Neg()
		}
		h := sampleGGXVisibleNormal(loWo, alpha, alpha, u1, u2)
		lwi = reflect(lwo, h)
	}

	if lwi.LenSq() == 0 {
		return Sample{}
	}
	lwi = lwi.Normalize()

	wi := worldFrame(p, lwi)
	reflectance, pdf := evaluateDisney(p, wo, wi, thin)
	if pdf <= 0 {
		return Sample{}
	}

	flags := Diffuse
	if lobe == lobeSpecular || lobe == lobeClearcoat {
		flags = Specular
	}
	if lobe == lobeTransmission {
		flags = Transmission
	}

	cosTheta := absf32(lwi[2])
	throughput := reflectance.Mul(cosTheta / pdf)

	return Sample{
		Wi:          wi,
		Reflectance: reflectance,
		Pdf:         pdf,
		Flags:       flags,
		Throughput:  throughput,
		Valid:       true,
	}
}

func evaluateDisney(p *surface.Parameters, wo, wi types.Vec3, thin bool) (types.Vec3, float32) {
	lwo := localFrame(p, wo)
	lwi := localFrame(p, wi)

	if lwo[2] <= 0 {
		return types.Vec3{}, 0
	}

	wDiffuse, wSpecular, wClearcoat, wTransmission := disneyWeights(p, thin)

	sameSide := lwi[2] > 0
	var reflectance types.Vec3
	var pdf float32

	if sameSide {
		diffuse, diffusePdf := evaluateDiffuseLobe(p, lwo, lwi)
		reflectance = reflectance.Add(diffuse)
		pdf += wDiffuse * diffusePdf

		specular, specularPdf := evaluateGGXLobe(lwo, lwi, ggxAlpha(p.Roughness), specularF0(p))
		reflectance = reflectance.Add(specular)
		pdf += wSpecular * specularPdf

		if p.Clearcoat > 0 {
			alpha := ggxAlpha(lerp(0.1, 0.001, p.ClearcoatGloss))
			coat, coatPdf := evaluateGGXLobe(lwo, lwi, alpha, types.Vec3{0.04, 0.04, 0.04})
			reflectance = reflectance.Add(coat.Mul(0.25 * p.Clearcoat))
			pdf += wClearcoat * coatPdf
		}
	} else if thin && lwi[2] < 0 {
		trans, transPdf := evaluateDiffuseLobe(p, lwo, types.Vec3{lwi[0], lwi[1], -lwi[2]})
		reflectance = reflectance.Add(trans.Mul(p.Transmission))
		pdf += wTransmission * transPdf
	}

	if pdf <= 0 {
		return types.Vec3{}, 0
	}
	return reflectance, pdf
}

// evaluateDiffuseLobe is the Disney diffuse term plus its additive sheen
// grazing term, both evaluated over a cosine-weighted hemisphere pdf.
func evaluateDiffuseLobe(p *surface.Parameters, lwo, lwi types.Vec3) (types.Vec3, float32) {
	cosO := absf32(lwo[2])
	cosI := absf32(lwi[2])
	if cosI <= 0 {
		return types.Vec3{}, 0
	}

	h := lwo.Add(lwi).Normalize()
	cosD := lwi.Dot(h)

	fd90 := 0.5 + 2*p.Roughness*cosD*cosD
	fo := schlickWeight(cosO)
	fi := schlickWeight(cosI)
	fd := lerp(1, fd90, fo) * lerp(1, fd90, fi)

	diffuse := p.BaseColor.Mul((1 - p.Metallic) * (1 / piF32) * fd * cosI)

	if p.Sheen > 0 {
		sheenColor := tintedColor(p.BaseColor, p.SheenTint)
		sheenWeight := schlickWeight(cosD)
		diffuse = diffuse.Add(sheenColor.Mul(p.Sheen * sheenWeight * (1 - p.Metallic)))
	}

	return diffuse, sampling.CosineHemispherePdf(cosI)
}

func evaluateGGXLobe(lwo, lwi types.Vec3, alpha float32, f0 types.Vec3) (types.Vec3, float32) {
	cosO := lwo[2]
	cosI := lwi[2]
	if cosO <= 0 || cosI <= 0 {
		return types.Vec3{}, 0
	}

	h := lwo.Add(lwi)
	if h.LenSq() == 0 {
		return types.Vec3{}, 0
	}
	h = h.Normalize()

	ndotH := h[2]
	d := ggxD(ndotH, alpha)
	g := ggxG(cosO, cosI, alpha)
	f := schlickFresnel(f0, lwo.Dot(h))

	specular := f.Mul(d * g / (4 * cosO * cosI))

	// pdf of the visible-normal sampling routine, expressed over solid
	// angle of wi via the standard reflection Jacobian 1/(4*|wo.h|).
	g1 := ggxG1(cosO, alpha)
	pdfWi := g1 * d / (4 * cosO)

	return specular.Mul(cosI), pdfWi
}

func schlickWeight(cosTheta float32) float32 {
	m := clampf(1-cosTheta, 0, 1)
	m2 := m * m
	return m2 * m2 * m
}

func specularF0(p *surface.Parameters) types.Vec3 {
	dielectric := types.Vec3{1, 1, 1}.Mul(0.08 * p.Specular)
	tinted := tintedColor(types.Vec3{1, 1, 1}, p.SpecularTint)
	return lerpVec3(dielectric.MulVec(tinted), p.BaseColor, p.Metallic)
}

func tintedColor(baseColor types.Vec3, tint float32) types.Vec3 {
	lum := 0.3*baseColor[0] + 0.6*baseColor[1] + 0.1*baseColor[2]
	white := types.Vec3{1, 1, 1}
	var tintColor types.Vec3
	if lum > 0 {
		tintColor = baseColor.Mul(1 / lum)
	} else {
		tintColor = white
	}
	return lerpVec3(white, tintColor, tint)
}

func lerpVec3(a, b types.Vec3, t float32) types.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
