package sampling

import (
	"math"

	"github.com/schuttejoe/ShootyEngine/types"
)

const pi32 float32 = math.Pi

// CosineHemisphere draws a cosine-weighted direction in the hemisphere
// around normal, ported from the shape of
// go-progressive-raytracer/pkg/core/sampling.go's SampleCosineHemisphere,
// rebased from float64 Vec3 onto this module's float32 types.Vec3.
func CosineHemisphere(normal types.Vec3, u, v float32) (dir types.Vec3, pdf float32) {
	a := 2 * math.Pi * float64(u)
	r := float32(math.Sqrt(float64(v)))

	x := r * float32(math.Cos(a))
	y := r * float32(math.Sin(a))
	z := sqrtClamp(1 - v)

	tangent, bitangent := OrthonormalBasis(normal)
	dir = tangent.Mul(x).Add(bitangent.Mul(y)).Add(normal.Mul(z))
	pdf = z / pi32
	return dir, pdf
}

// CosineHemispherePdf returns the pdf of CosineHemisphere for a given
// cosine between the sampled direction and the normal.
func CosineHemispherePdf(cosTheta float32) float32 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / pi32
}

// UniformSphere draws a direction uniformly distributed over the full
// sphere, grounded on SampleOnUnitSphere in the same retrieved file;
// used by the isotropic-medium shader's scatter-direction sampling.
func UniformSphere(u, v float32) types.Vec3 {
	z := 1 - 2*v
	r := sqrtClamp(1 - z*z)
	phi := 2 * math.Pi * float64(u)
	return types.Vec3{r * float32(math.Cos(phi)), r * float32(math.Sin(phi)), z}
}

// UniformSpherePdf is constant over the sphere: 1/(4*pi).
func UniformSpherePdf() float32 {
	return 1.0 / (4.0 * pi32)
}

// OrthonormalBasis builds an arbitrary tangent/bitangent pair perpendicular
// to n, using Duff et al.'s branchless construction (avoids the
// if-|x|>0.1-else singularity used in the retrieved code, which degrades
// near the poles of that particular branch).
func OrthonormalBasis(n types.Vec3) (tangent, bitangent types.Vec3) {
	sign := float32(1)
	if n[2] < 0 {
		sign = -1
	}
	a := -1.0 / (sign + n[2])
	b := n[0] * n[1] * a

	tangent = types.Vec3{1 + sign*n[0]*n[0]*a, sign * b, -sign * n[0]}
	bitangent = types.Vec3{b, sign + n[1]*n[1]*a, -n[1]}
	return tangent, bitangent
}

func sqrtClamp(x float32) float32 {
	if x < 0 {
		x = 0
	}
	return float32(math.Sqrt(float64(x)))
}
