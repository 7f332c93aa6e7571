package kernel

import (
	"github.com/schuttejoe/ShootyEngine/bsdf"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// Ray is a path-stack entry (spec section 3). It is immutable once pushed
// via KernelContext.InsertRay; RenderSample only ever builds a new Ray
// value to push a continuation, never mutates one in place.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3

	// HasDifferentials/RxOrigin/RxDir/RyOrigin/RyDir carry the auxiliary
	// rx/ry rays for texture-filter-width estimation at the next hit;
	// zero-valued when PreserveRayDifferentials is off or the path has
	// bounced through a lobe TransferDifferentials declined to carry
	// through.
	HasDifferentials bool
	RxOrigin, RxDir  types.Vec3
	RyOrigin, RyDir  types.Vec3

	Throughput types.Vec3
	PixelIndex uint32
	Bounce     int

	// Medium is the participating medium the ray currently travels
	// through, or nil for vacuum.
	Medium *bsdf.MediumParameters

	// BsdfPdf/Specular record how this ray was produced by the previous
	// hit's shader sample, so that if it goes on to hit emissive
	// geometry directly, the kernel can MIS-weight that contribution
	// against the light sampler's pdf for the same direction. Bounce 0
	// (the primary camera ray) carries BsdfPdf == 0 and Specular ==
	// false, which RenderSample treats as "always full weight, no MIS
	// partner" since there is no light-sampling strategy that could have
	// produced a camera ray.
	BsdfPdf  float32
	Specular bool
}

// HitParameters is the post-intersection record the kernel passes to
// AccumulatePixelEnergy on the hit path (spec section 3). It mirrors the
// subset of Ray's fields the accumulation contract cares about plus the
// traversal backend's raw hit identity.
type HitParameters struct {
	Position   types.Vec3
	View       types.Vec3
	Throughput types.Vec3
	PixelIndex uint32
	Bounce     int
	GeomID     traversal.GeometryHandle
	PrimID     uint32
	U, V       float32
}
