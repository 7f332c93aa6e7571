package bsdf

import (
	"math"

	"github.com/schuttejoe/ShootyEngine/types"
)

const piF32 float32 = math.Pi

// ggxAlpha converts a perceptual roughness in [0, 1] to the GGX
// distribution's alpha parameter, matching the common squared-roughness
// remapping used throughout Disney's principled BRDF writeup.
func ggxAlpha(roughness float32) float32 {
	r := roughness
	if r < 0.001 {
		r = 0.001
	}
	return r * r
}

// ggxD evaluates the GGX (Trowbridge-Reitz) normal distribution function
// for the half vector h in the local shading frame (NdotH is h.z).
func ggxD(ndotH, alpha float32) float32 {
	if ndotH <= 0 {
		return 0
	}
	a2 := alpha * alpha
	d := ndotH*ndotH*(a2-1) + 1
	return a2 / (piF32 * d * d)
}

// ggxLambda is Smith's masking term helper for the GGX distribution.
func ggxLambda(cosTheta, alpha float32) float32 {
	cosTheta = clampCos(cosTheta)
	tan2 := (1 - cosTheta*cosTheta) / (cosTheta * cosTheta)
	return 0.5 * (float32(math.Sqrt(float64(1+alpha*alpha*tan2))) - 1)
}

// ggxG is the Smith height-correlated masking-shadowing term for GGX.
func ggxG(ndotV, ndotL, alpha float32) float32 {
	return 1 / (1 + ggxLambda(ndotV, alpha) + ggxLambda(ndotL, alpha))
}

// ggxG1 is the single-direction Smith masking term, used when sampling the
// visible normal distribution.
func ggxG1(ndotV, alpha float32) float32 {
	return 1 / (1 + ggxLambda(ndotV, alpha))
}

// sampleGGXVisibleNormal draws a microfacet normal from the GGX
// distribution of visible normals, Heitz's 2017 construction. wo is in the
// local shading frame (z == shading normal).
func sampleGGXVisibleNormal(wo types.Vec3, alphaX, alphaY, u1, u2 float32) types.Vec3 {
	vh := types.Vec3{alphaX * wo[0], alphaY * wo[1], wo[2]}.Normalize()

	lensq := vh[0]*vh[0] + vh[1]*vh[1]
	var t1 types.Vec3
	if lensq > 0 {
		t1 = types.Vec3{-vh[1], vh[0], 0}.Mul(1 / float32(math.Sqrt(float64(lensq))))
	} else {
		t1 = types.Vec3{1, 0, 0}
	}
	t2 := vh.Cross(t1)

	r := float32(math.Sqrt(float64(u1)))
	phi := 2 * math.Pi * float64(u2)
	p1 := r * float32(math.Cos(phi))
	p2 := r * float32(math.Sin(phi))
	s := 0.5 * (1 + vh[2])
	p2 = (1-s)*float32(math.Sqrt(float64(1-p1*p1))) + s*p2

	nh := t1.Mul(p1).Add(t2.Mul(p2)).Add(vh.Mul(float32(math.Sqrt(float64(maxf(0, 1-p1*p1-p2*p2))))))

	return types.Vec3{alphaX * nh[0], alphaY * nh[1], maxf(1e-6, nh[2])}.Normalize()
}

// schlickFresnel is the Schlick approximation of the Fresnel reflectance
// at normal incidence f0, evaluated at angle cosTheta.
func schlickFresnel(f0 types.Vec3, cosTheta float32) types.Vec3 {
	c := clampCos(cosTheta)
	m := 1 - c
	m2 := m * m
	w := m2 * m2 * m
	return f0.Add(types.Vec3{1, 1, 1}.Sub(f0).Mul(w))
}

func schlickFresnelScalar(f0, cosTheta float32) float32 {
	c := clampCos(cosTheta)
	m := 1 - c
	m2 := m * m
	w := m2 * m2 * m
	return f0 + (1-f0)*w
}

// dielectricFresnel evaluates the exact (unpolarized) Fresnel reflectance
// for a dielectric interface with relative index of refraction eta
// (transmitted-side ior / incident-side ior), used by TransparentGGX where
// Schlick's approximation is too coarse near total internal reflection.
func dielectricFresnel(cosThetaI, eta float32) float32 {
	cosThetaI = clampf(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := 1 - cosThetaI*cosThetaI
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := float32(math.Sqrt(float64(1 - sin2ThetaT)))

	rParallel := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return 0.5 * (rParallel*rParallel + rPerp*rPerp)
}

func refract(wo, n types.Vec3, eta float32) (types.Vec3, bool) {
	cosThetaI := n.Dot(wo)
	sin2ThetaI := maxf(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return types.Vec3{}, false
	}
	cosThetaT := float32(math.Sqrt(float64(1 - sin2ThetaT)))
	wt := wo.Neg().Mul(1 / eta).Add(n.Mul(cosThetaI/eta - cosThetaT))
	return wt.Normalize(), true
}

func reflect(wo, n types.Vec3) types.Vec3 {
	return n.Mul(2 * n.Dot(wo)).Sub(wo)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
