// Package lights builds the sampleable light list next-event estimation
// draws from: one area light per emissive mesh face, plus the scene's
// environment. It is grounded on the retrieved go-progressive-raytracer's
// lights package (Light/LightSample/LightSampler shape), adapted from that
// renderer's generic multi-shape lights to this engine's flat baked
// triangle-mesh representation and float32 math.
package lights

import "github.com/schuttejoe/ShootyEngine/types"

// Sample is the result of sampling a Light for next-event estimation: a
// direction and distance toward a point on the light, its emitted
// radiance, and the pdf of having drawn that direction (solid-angle
// measure, as required by the kernel's MIS weighting against the BSDF
// pdf).
type Sample struct {
	Direction types.Vec3
	Distance  float32
	Emission  types.Vec3
	Pdf       float32
}

// Light is one next-event-estimation target. Implementations are the
// per-triangle area light (areaLight) and the scene's environment
// (Environment), unified so the kernel's light list can draw from either
// without a type switch.
type Light interface {
	// Sample draws a direction from shadingPoint toward the light using
	// the two canonical random numbers u1, u2, returning ok == false if
	// the light contributes nothing from this point (e.g. the sampled
	// point on an area light's triangle faces away from shadingPoint).
	Sample(shadingPoint types.Vec3, u1, u2 float32) (Sample, bool)

	// SolidAnglePdf returns the pdf Sample would have assigned to
	// direction dir from shadingPoint, used by the kernel to MIS-weight
	// a BSDF-sampled ray that happens to land on this light.
	SolidAnglePdf(shadingPoint, dir types.Vec3) float32
}
