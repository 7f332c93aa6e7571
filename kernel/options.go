// Package kernel implements the path-tracing driver described in spec
// section 4.5: per-pixel ray generation, a LIFO ray stack in place of
// recursion, next-event estimation with multiple importance sampling,
// Russian roulette termination, and the KernelContext each render worker
// owns exclusively. It is grounded on
// original_source/Source/Core/Shading/IntegratorContexts.cpp for the
// context/stack shape and on the retrieved go-progressive-raytracer's
// path_tracing.go for the NEE/MIS control flow, adapted onto this
// engine's explicit-stack, surface/bsdf/lights collaborators instead of a
// recursive RayColor call.
package kernel

import (
	"fmt"
	"math/bits"
)

// Options configures a render: path length and Russian roulette policy,
// the ray stack's fixed capacity, sample count, tiling, and the
// differential/displacement toggles BindTraversal also consults (spec
// section 6, "External Interfaces").
type Options struct {
	// MaxPathLength caps the number of bounces (camera ray counts as
	// bounce 0) a path may accumulate before InsertRay silently refuses
	// to push its continuation.
	MaxPathLength int
	// RayStackCapacity bounds how many in-flight rays (bounce and medium
	// scatter continuations; next-event shadow rays are tested at once and
	// never pushed) a single pixel's KernelContext may hold at once. Pushing past capacity is a
	// configuration fault, not a path truncation: see InsertRay.
	RayStackCapacity int
	// RouletteStart is the bounce index at which Russian roulette
	// termination begins being considered.
	RouletteStart int
	// SamplesPerPixel is the number of primary samples accumulated per
	// pixel before the image is considered converged for that tile.
	SamplesPerPixel int
	// TileSize is the edge length (in pixels) of the square tiles the
	// render pool partitions the image into.
	TileSize int
	// PreserveRayDifferentials enables ray-differential propagation
	// through bounces for texture-filter-width estimation; disabling it
	// falls back to point-sampled texture lookups.
	PreserveRayDifferentials bool
	// EnableDisplacement and TessellationRate are forwarded to
	// scene.BindOptions; they are mirrored here so a single Options value
	// configures both binding and rendering.
	EnableDisplacement bool
	TessellationRate   float32
	// AlphaThreshold is forwarded to scene.BindOptions the same way.
	AlphaThreshold float32
}

// Validate checks the invariants the kernel's stack and loop rely on,
// matching spec section 7's "fail fast on a misconfigured kernel rather
// than corrupt a render silently" design note.
func (o Options) Validate() error {
	if o.MaxPathLength < 1 {
		return fmt.Errorf("kernel: MaxPathLength must be >= 1, got %d", o.MaxPathLength)
	}
	// Capacity must exceed the max path length: every bounce can spawn
	// both a continuation ray and, when NEE fires, a shadow-ray
	// occlusion test that is resolved synchronously rather than pushed,
	// so the stack only ever needs headroom for the continuation chain
	// plus the medium's occasional extra scatter-continuation push.
	if o.RayStackCapacity < o.MaxPathLength+2 {
		return fmt.Errorf("kernel: RayStackCapacity (%d) must be >= MaxPathLength+2 (%d)", o.RayStackCapacity, o.MaxPathLength+2)
	}
	if o.RouletteStart < 0 {
		return fmt.Errorf("kernel: RouletteStart must be >= 0, got %d", o.RouletteStart)
	}
	if o.SamplesPerPixel < 1 {
		return fmt.Errorf("kernel: SamplesPerPixel must be >= 1, got %d", o.SamplesPerPixel)
	}
	if o.TileSize < 1 || bits.OnesCount(uint(o.TileSize)) != 1 {
		return fmt.Errorf("kernel: TileSize must be a power of two, got %d", o.TileSize)
	}
	return nil
}
