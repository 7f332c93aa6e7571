package bsdf

import (
	"math"

	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/types"
)

// MediumParameters describes a homogeneous participating medium by its
// absorption and scattering coefficients, ported from IsotropicScattering.h's
// MediumParameters forward declaration (SigmaA/SigmaS, with SigmaT implied
// as their sum).
type MediumParameters struct {
	SigmaA types.Vec3
	SigmaS types.Vec3
}

func (m MediumParameters) sigmaT() types.Vec3 {
	return m.SigmaA.Add(m.SigmaS)
}

// SampleDistance draws a free-flight distance along the current ray from
// the medium's transmittance, one channel (the max sigmaT component) used
// to pick the distance per the IsotropicScattering.h contract's single
// pdf out-parameter.
func SampleDistance(sampler sampling.Sampler, medium MediumParameters, pdf *float32) float32 {
	sigmaT := medium.sigmaT().MaxComponent()
	if sigmaT <= 0 {
		*pdf = 1
		return math.MaxFloat32
	}

	u := sampler.Get1D()
	distance := -float32(math.Log(float64(1-u))) / sigmaT
	*pdf = sigmaT * float32(math.Exp(float64(-sigmaT*distance)))
	return distance
}

// SampleScatterDirection draws a uniformly distributed direction over the
// sphere, the isotropic phase function's defining property (constant
// phase value in every direction).
func SampleScatterDirection(sampler sampling.Sampler, medium MediumParameters, wo types.Vec3, pdf *float32) types.Vec3 {
	u1, u2 := sampler.Get2D()
	*pdf = sampling.UniformSpherePdf()
	return sampling.UniformSphere(u1, u2)
}

// ScatterDirectionPdf returns the isotropic phase function's (constant)
// pdf of scattering from wo to wi.
func ScatterDirectionPdf(medium MediumParameters, wo, wi types.Vec3) float32 {
	return sampling.UniformSpherePdf()
}

// Transmission returns the Beer-Lambert transmittance of the medium over
// distance, per channel.
func Transmission(medium MediumParameters, distance float32) types.Vec3 {
	sigmaT := medium.sigmaT()
	return types.Vec3{
		float32(math.Exp(float64(-sigmaT[0] * distance))),
		float32(math.Exp(float64(-sigmaT[1] * distance))),
		float32(math.Exp(float64(-sigmaT[2] * distance))),
	}
}
