package sampling

import (
	"math"
	"math/rand"

	"github.com/schuttejoe/ShootyEngine/types"
)

// Sampler hands out 1D/2D random samples. Modeled on the
// core.Sampler interface from the retrieved go-progressive-raytracer code
// (Get1D/Get2D), widened with Get3D dropped in favor of explicit 2D pixel
// jitter + 1D lobe-selection calls since that is all the BSDF layer needs.
type Sampler interface {
	Get1D() float32
	Get2D() (float32, float32)
}

// Session is a seeded sampler handle. render.Pool creates one per (tile,
// sample pass), seeded from (tileIndex, sampleIndex) so that re-runs
// reproduce identical images regardless of worker-thread assignment.
type Session struct {
	rng    *rand.Rand
	stratified
}

// NewSession creates a deterministic sampler session. Matching
// tracer/scheduler.go's "(tileIndex, sampleIndex)" seeding contract, the
// caller is expected to derive seed from those two values (see
// render.seedFor) rather than from wall-clock time.
func NewSession(seed uint64) *Session {
	return &Session{
		rng: rand.New(rand.NewSource(int64(seed))),
	}
}

// Get1D returns a uniform random value in [0, 1).
func (s *Session) Get1D() float32 {
	return float32(s.rng.Float64())
}

// Get2D returns two independent uniform random values in [0, 1).
func (s *Session) Get2D() (float32, float32) {
	return float32(s.rng.Float64()), float32(s.rng.Float64())
}

// stratified holds the jittered-grid state used for primary-ray image-plane
// sampling, so that samplesPerPixel rays within a pixel spread out instead
// of clumping (spec glossary: "stratified samplers").
type stratified struct {
	// sqrtSamples is the side length of the jitter grid; 0 means "use
	// pure random jitter" (the sample count isn't a perfect square).
	sqrtSamples int
}

// ConfigureStrata sets up the jittered grid for a given samples-per-pixel
// count. Call once per pixel before drawing PixelJitter samples.
func (s *Session) ConfigureStrata(samplesPerPixel int) {
	root := int(math.Sqrt(float64(samplesPerPixel)))
	if root*root == samplesPerPixel {
		s.sqrtSamples = root
	} else {
		s.sqrtSamples = 0
	}
}

// PixelJitter returns a sub-pixel offset in [0,1)x[0,1) for sample index i
// (0-based) out of samplesPerPixel total samples for the pixel.
func (s *Session) PixelJitter(i, samplesPerPixel int) types.Vec2 {
	if s.sqrtSamples == 0 {
		return types.XY(s.Get1D(), s.Get1D())
	}

	cellX := i % s.sqrtSamples
	cellY := (i / s.sqrtSamples) % s.sqrtSamples
	inv := 1.0 / float32(s.sqrtSamples)

	jx, jy := s.Get2D()
	return types.XY(
		(float32(cellX)+jx)*inv,
		(float32(cellY)+jy)*inv,
	)
}

// VanDerCorput computes the base-2 van der Corput quasi-random sequence
// value for index n, used as a low-discrepancy fallback decorrelated from
// the session's RNG stream for light-sampling selection.
func VanDerCorput(n uint32) float32 {
	n = (n << 16) | (n >> 16)
	n = ((n & 0x55555555) << 1) | ((n & 0xAAAAAAAA) >> 1)
	n = ((n & 0x33333333) << 2) | ((n & 0xCCCCCCCC) >> 2)
	n = ((n & 0x0F0F0F0F) << 4) | ((n & 0xF0F0F0F0) >> 4)
	n = ((n & 0x00FF00FF) << 8) | ((n & 0xFF00FF00) >> 8)
	v := float32(n) * 2.3283064365386963e-10 // 1 / 2^32
	if v >= 1 {
		// float32 rounds indices near 2^32 up to 1; keep the result in [0, 1).
		v = math.Nextafter32(1, 0)
	}
	return v
}

// Halton2D returns the (base-2, base-3) Halton sequence pair for index n,
// a deterministic quasi-random point used where pure RNG jitter would be
// noisier for a fixed sample budget (e.g. light selection in next-event
// estimation).
func Halton2D(n uint32) (float32, float32) {
	return VanDerCorput(n), haltonBase(n, 3)
}

func haltonBase(n uint32, base uint32) float32 {
	f := float32(1)
	r := float32(0)
	for n > 0 {
		f /= float32(base)
		r += f * float32(n%base)
		n /= base
	}
	return r
}
