package kernel

import (
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/types"
)

// Stats are the per-worker statistics counters spec section 3's
// KernelContext carries, surfaced in a render session summary (spec
// section 7).
type Stats struct {
	PathsTraced      uint64
	NonFiniteDropped uint64
	ZeroPdfSkipped   uint64
	RouletteKilled   uint64
}

// Context is the per-worker transient state a render.Pool worker owns
// exclusively for its lifetime (spec section 3, "KernelContext"): the
// image accumulator, a fixed-capacity ray stack, a sampler session, and
// statistics counters. It is grounded on
// original_source/Source/Core/Shading/IntegratorContexts.cpp's
// CPUKernelContext, generalized from that file's OpenCL-host-side staging
// buffers to a plain Go slice since this engine's workers run the kernel
// directly rather than dispatching it to a device.
type Context struct {
	Options Options

	// Accum is the full image's pixel accumulator, shared read/write
	// across every worker's Context: spec section 5 requires no atomics
	// in the hot path because each tile only ever touches the disjoint
	// set of pixel indices it owns, so concurrent non-overlapping writes
	// to this one backing array are safe without synchronization.
	Accum []types.Vec3
	// SampleCounts tracks how many samples have been accumulated into
	// each pixel, so the render pool can normalize Accum into a final
	// image by dividing each entry by its count.
	SampleCounts []uint32

	Sampler *sampling.Session
	WorkerID int
	Stats   Stats

	// lightSampleIndex drives the quasi-random sequence next-event
	// estimation draws light-selection/light-surface samples from,
	// decorrelated from the session's pseudo-random stream (spec
	// glossary's "quasi-random sequences"). RenderSample zeroes it via
	// reset() at the start of every (pixel, sample-pass) call, so its
	// value at each sampleLightContribution call depends only on how
	// many NEE draws this one path has made so far, never on tile/
	// worker scheduling order (spec section 8 property 7, section 5's
	// "invariant to inter-pixel interleaving").
	lightSampleIndex uint32

	stack      []Ray
	stackCount int
}

// NewContext allocates a Context sized by opts. accum/counts are shared
// slices owned by the caller (render.Pool), sized to the full image so
// pixel indices need no per-tile translation.
func NewContext(opts Options, accum []types.Vec3, counts []uint32, sampler *sampling.Session, workerID int) *Context {
	return &Context{
		Options:      opts,
		Accum:        accum,
		SampleCounts: counts,
		Sampler:      sampler,
		WorkerID:     workerID,
		stack:        make([]Ray, opts.RayStackCapacity),
	}
}

// InsertRay is the stack's sole mutator (spec section 4.5's "Insertion
// contract"). It silently refuses a ray whose bounce count has already
// reached MaxPathLength (spec's testable property 6: "InsertRay with
// bounceCount == maxPathLength is a no-op; never appears on the stack"),
// and panics if the stack is genuinely full, since a full stack at a
// correctly sized capacity (MaxPathLength+2, enforced by Options.Validate)
// indicates a configuration or logic fault rather than a recoverable
// runtime condition (spec section 7: "stack-full is a configuration
// fault (fatal)").
func (c *Context) InsertRay(r Ray) bool {
	if r.Bounce >= c.Options.MaxPathLength {
		return false
	}
	if c.stackCount >= len(c.stack) {
		panic("kernel: ray stack overflow, RayStackCapacity is too small for MaxPathLength")
	}
	c.stack[c.stackCount] = r
	c.stackCount++
	return true
}

// popRay pops the most recently pushed ray (LIFO, per spec section 5's
// "bounces are strictly ordered (LIFO stack, depth-first)").
func (c *Context) popRay() (Ray, bool) {
	if c.stackCount == 0 {
		return Ray{}, false
	}
	c.stackCount--
	return c.stack[c.stackCount], true
}

// reset empties the stack between primary samples without reallocating
// its backing array.
func (c *Context) reset() {
	c.stackCount = 0
	c.lightSampleIndex = 0
}

// AccumulatePixelEnergy adds throughput*value into pixel pixelIndex's
// accumulator cell (spec section 4.5's "Accumulation contract"). A
// non-finite or negative-component result is dropped and counted rather
// than written, per spec section 3's invariant "Pixel accumulator
// entries only accept finite, non-negative contributions."
func (c *Context) AccumulatePixelEnergy(pixelIndex uint32, throughput, value types.Vec3) {
	contribution := throughput.MulVec(value)
	if !isFiniteNonNegative(contribution) {
		c.Stats.NonFiniteDropped++
		return
	}
	c.Accum[pixelIndex] = c.Accum[pixelIndex].Add(contribution)
}

// AccumulateRay is AccumulatePixelEnergy using a Ray's throughput, the
// "callers pass either a Ray ... or a HitParameters" half of spec section
// 4.5's accumulation contract.
func (c *Context) AccumulateRay(r Ray, value types.Vec3) {
	c.AccumulatePixelEnergy(r.PixelIndex, r.Throughput, value)
}

// AccumulateHit is AccumulatePixelEnergy using a HitParameters'
// throughput, the other half of the accumulation contract. Both this and
// AccumulateRay funnel through the same AccumulatePixelEnergy call so
// they are guaranteed to "yield the identical result for the same
// throughput value" as spec section 4.5 requires.
func (c *Context) AccumulateHit(h HitParameters, value types.Vec3) {
	c.AccumulatePixelEnergy(h.PixelIndex, h.Throughput, value)
}

func isFiniteNonNegative(v types.Vec3) bool {
	if !v.IsFinite() {
		return false
	}
	return v[0] >= 0 && v[1] >= 0 && v[2] >= 0
}
