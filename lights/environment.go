package lights

import (
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/types"
)

// environmentDistance stands in for infinity when a shadow ray is aimed
// at the environment: large enough that no real scene geometry sits
// beyond it, small enough to stay finite for the traversal backend's
// TNear/TFar bounds.
const environmentDistance float32 = 1e8

// Environment extends Light with the miss-ray evaluation the kernel needs
// when a BSDF-sampled ray leaves the scene without hitting geometry (spec
// section 4.5's "on miss, evaluate environment contribution x
// throughput").
type Environment interface {
	Light
	Evaluate(dir types.Vec3) types.Vec3
}

// ConstantEnvironment is a single uniform-radiance environment, the
// "furnace test" background spec section 8's testable properties call
// for (a scene lit only by a constant environment, used to validate that
// a diffuse material's integrated reflectance matches its albedo). It is
// modeled after the retrieved go-progressive-raytracer's
// UniformInfiniteLight, simplified to uniform-sphere sampling since this
// engine has no BDPT emission-sampling path to justify that light's extra
// cosine-hemisphere and world-radius machinery.
type ConstantEnvironment struct {
	Color types.Vec3
}

// Sample draws a direction uniformly over the full sphere rather than the
// shading hemisphere, since this interface has no normal to cosine-weight
// against; the resulting pdf is exact (constant over the sphere) even
// though it wastes roughly half its samples on directions a diffuse
// surface cannot use.
func (e ConstantEnvironment) Sample(shadingPoint types.Vec3, u1, u2 float32) (Sample, bool) {
	dir := sampling.UniformSphere(u1, u2)
	return Sample{
		Direction: dir,
		Distance:  environmentDistance,
		Emission:  e.Color,
		Pdf:       sampling.UniformSpherePdf(),
	}, true
}

// SolidAnglePdf is constant: every direction is equally likely under
// Sample's uniform-sphere strategy.
func (e ConstantEnvironment) SolidAnglePdf(shadingPoint, dir types.Vec3) float32 {
	return sampling.UniformSpherePdf()
}

// Evaluate returns the environment's radiance visible along dir, used
// when a ray leaves the scene with no intersection.
func (e ConstantEnvironment) Evaluate(dir types.Vec3) types.Vec3 {
	return e.Color
}
