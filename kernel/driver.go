package kernel

import (
	"math"

	"github.com/schuttejoe/ShootyEngine/bsdf"
	"github.com/schuttejoe/ShootyEngine/lights"
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/surface"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// rayEpsilon/shadowEpsilon bound the traversal backend's TNear/TFar range
// around a spawned ray's endpoints, absorbing the offset OffsetOrigin
// already applies plus the floating-point slop of the hit distance
// itself, so a shadow ray doesn't immediately re-hit the surface it left.
const rayEpsilon float32 = 1e-4
const shadowEpsilon float32 = 1e-3

// qMin is Russian roulette's survival-probability floor (spec section
// 4.5h: "q = clamp(max(throughput), qmin, 1)"), chosen low enough that a
// bright but not-yet-converged path still has a reasonable chance of
// surviving another bounce.
const qMin float32 = 0.05

// RenderSample runs the complete per-pixel driver of spec section 4.5 for
// one primary sample at image coordinates (px, py): generate a camera
// ray, push it, and drain the stack (camera ray, NEE shadow tests are
// resolved synchronously rather than pushed, medium scatter
// continuations, and bounce continuations) until empty, accumulating
// every contribution into c.Accum[pixelIndex]. c must be reset between
// samples, which this method does itself via c.reset().
func (c *Context) RenderSample(res *scene.Resource, backend traversal.Backend, lightList *lights.List, cam scene.Camera, px, py float32, width, height int, pixelIndex uint32) {
	c.reset()

	origin, dir, rxOrigin, rxDir, ryOrigin, ryDir := cam.GenerateDifferentialRay(px, py, width, height)
	primary := Ray{
		Origin:     origin,
		Dir:        dir,
		Throughput: types.Vec3{1, 1, 1},
		PixelIndex: pixelIndex,
		Bounce:     0,
	}
	if c.Options.PreserveRayDifferentials {
		primary.HasDifferentials = true
		primary.RxOrigin, primary.RxDir = rxOrigin, rxDir
		primary.RyOrigin, primary.RyDir = ryOrigin, ryDir
	}

	if !c.InsertRay(primary) {
		return
	}
	c.Stats.PathsTraced++

	for {
		ray, ok := c.popRay()
		if !ok {
			break
		}
		c.traceRay(res, backend, lightList, ray)
	}

	c.SampleCounts[pixelIndex]++
}

// traceRay handles one popped stack entry: medium free-flight sampling
// (spec section 4.5b), traversal intersection (4.5c), and dispatches to
// handleIntersection for the miss/hit branches (4.5d/e/f/g/h/i/j).
func (c *Context) traceRay(res *scene.Resource, backend traversal.Backend, lightList *lights.List, ray Ray) {
	sceneRay := traversal.Ray{Origin: ray.Origin, Dir: ray.Dir, TNear: rayEpsilon, TFar: math.MaxFloat32}

	if ray.Medium == nil {
		hit, hasHit := backend.Intersect1(res.TraversalScene, sceneRay)
		c.handleIntersection(res, backend, lightList, ray, hit, hasHit)
		return
	}

	var distPdf float32
	freeFlight := bsdf.SampleDistance(c.Sampler, *ray.Medium, &distPdf)

	hit, hasHit := backend.Intersect1(res.TraversalScene, sceneRay)
	surfaceDist := float32(math.MaxFloat32)
	if hasHit {
		surfaceDist = hit.T
	}

	if freeFlight < surfaceDist {
		// Scattering happens inside the medium before the ray reaches a
		// surface. The free-flight pdf (sigmaT*exp(-sigmaT*d)) and the
		// in-scattering coefficient's exponential both cancel against
		// the same exponential term, leaving sigmaS/sigmaT as the
		// per-channel single-scatter albedo weight; this is the
		// standard free-flight estimator for a homogeneous medium
		// sampled along its extinction-weighted max channel (see
		// bsdf.SampleDistance's doc comment on that channel choice).
		sigmaT := ray.Medium.SigmaA.Add(ray.Medium.SigmaS)
		albedo := types.Vec3{
			divOrZero(ray.Medium.SigmaS[0], sigmaT[0]),
			divOrZero(ray.Medium.SigmaS[1], sigmaT[1]),
			divOrZero(ray.Medium.SigmaS[2], sigmaT[2]),
		}
		newThroughput := ray.Throughput.MulVec(albedo)

		scatterPos := ray.Origin.Add(ray.Dir.Mul(freeFlight))
		var dirPdf float32
		wi := bsdf.SampleScatterDirection(c.Sampler, *ray.Medium, ray.Dir.Neg(), &dirPdf)

		c.InsertRay(Ray{
			Origin:     scatterPos,
			Dir:        wi,
			Throughput: newThroughput,
			PixelIndex: ray.PixelIndex,
			Bounce:     ray.Bounce + 1,
			Medium:     ray.Medium,
			BsdfPdf:    dirPdf,
		})
		return
	}

	// The ray exits the medium before scattering: attenuate its
	// throughput by the medium's transmittance over the traveled
	// distance, then fall through to ordinary surface/miss handling
	// using the intersection already computed above.
	trans := bsdf.Transmission(*ray.Medium, surfaceDist)
	ray.Throughput = ray.Throughput.MulVec(trans)
	c.handleIntersection(res, backend, lightList, ray, hit, hasHit)
}

func divOrZero(a, b float32) float32 {
	if b <= 0 {
		return 0
	}
	return a / b
}

// handleIntersection implements spec section 4.5's steps d through j for
// a single popped ray once its intersection (or lack of one) is known.
func (c *Context) handleIntersection(res *scene.Resource, backend traversal.Backend, lightList *lights.List, ray Ray, hit traversal.Hit, hasHit bool) {
	if !hasHit {
		c.accumulateEnvironment(lightList, ray)
		return
	}

	ud := res.UserDataFor(hit.GeomID)
	if ud == nil {
		return
	}

	var diff surface.Differentials
	if ray.HasDifferentials {
		diff = surface.Differentials{
			Valid:    true,
			RxOrigin: ray.RxOrigin, RxDir: ray.RxDir,
			RyOrigin: ray.RyOrigin, RyDir: ray.RyDir,
		}
	}

	p, err := surface.Build(res, ud, hit, ray.Origin, ray.Dir, diff)
	if err != nil {
		return
	}

	if p.Material.IsEmissive() {
		c.accumulateEmission(lightList, ray, hit, p.Material.Emissive)
	}

	wo := p.View

	if lightList != nil && lightList.Len() > 0 {
		c.sampleLightContribution(res, backend, lightList, ray, p, wo)
	}

	c.continuePath(p, ray, wo)
}

// accumulateEnvironment handles spec section 4.5d, "on miss, evaluate
// environment contribution x throughput", MIS-weighting it against the
// BSDF pdf the ray that missed was sampled with when that strategy isn't
// a delta lobe or the primary camera ray.
func (c *Context) accumulateEnvironment(lightList *lights.List, ray Ray) {
	if lightList == nil {
		return
	}
	env := lightList.Environment()
	if env == nil {
		return
	}
	radiance := env.Evaluate(ray.Dir)
	if ray.Bounce == 0 || ray.Specular {
		c.AccumulateRay(ray, radiance)
		return
	}
	lightPdf := env.SolidAnglePdf(ray.Origin, ray.Dir) * lightList.SelectionPdf()
	weight := powerHeuristic(ray.BsdfPdf, lightPdf)
	c.AccumulateRay(ray, radiance.Mul(weight))
}

// accumulateEmission handles spec section 4.5e, "on hit, ... if emissive,
// accumulate Le * throughput", MIS-weighting a BSDF-sampled ray's direct
// hit on a light against next-event estimation's pdf for the same light.
func (c *Context) accumulateEmission(lightList *lights.List, ray Ray, hit traversal.Hit, emissive types.Vec3) {
	if ray.Bounce == 0 || ray.Specular || lightList == nil {
		c.AccumulateRay(ray, emissive)
		return
	}
	al, ok := lightList.Lookup(hit.GeomID, hit.PrimID)
	if !ok {
		c.AccumulateRay(ray, emissive)
		return
	}
	lightPdf := al.SolidAnglePdf(ray.Origin, ray.Dir) * lightList.SelectionPdf()
	weight := powerHeuristic(ray.BsdfPdf, lightPdf)
	c.AccumulateRay(ray, emissive.Mul(weight))
}

// sampleLightContribution implements spec section 4.5f, next-event
// estimation: sample a light, evaluate the shadow ray's visibility and
// the BSDF at the hit, and accumulate the MIS-weighted contribution.
func (c *Context) sampleLightContribution(res *scene.Resource, backend traversal.Backend, lightList *lights.List, ray Ray, p *surface.Parameters, wo types.Vec3) {
	selectU := sampling.VanDerCorput(c.lightSampleIndex)
	u1, u2 := sampling.Halton2D(c.lightSampleIndex)
	c.lightSampleIndex++

	light, selectPdf, ok := lightList.SampleLight(selectU)
	if !ok {
		return
	}
	ls, ok := light.Sample(p.Position, u1, u2)
	if !ok || ls.Pdf <= 0 {
		return
	}

	f, bsdfPdf := bsdf.Evaluate(p, wo, ls.Direction)
	if bsdfPdf <= 0 || f.IsZero() {
		c.Stats.ZeroPdfSkipped++
		return
	}

	shadowOrigin := surface.OffsetOrigin(p.Position, p.GeometricNormal, ls.Direction)
	shadowRay := traversal.Ray{
		Origin: shadowOrigin,
		Dir:    ls.Direction,
		TNear:  rayEpsilon,
		TFar:   ls.Distance - shadowEpsilon,
	}
	if backend.Occluded1(res.TraversalScene, shadowRay) {
		return
	}

	lightPdf := ls.Pdf * selectPdf
	cosTheta := p.ShadingNormal.AbsDot(ls.Direction)
	weight := powerHeuristic(lightPdf, bsdfPdf)
	contribution := f.MulVec(ls.Emission).Mul(cosTheta * weight / lightPdf)
	c.AccumulateRay(ray, contribution)
}

// continuePath implements spec section 4.5g-j: sample the shader for a
// continuation direction, apply Russian roulette once the path is deep
// enough, and push the bounce ray (with transferred differentials, if
// configured) back onto the stack.
func (c *Context) continuePath(p *surface.Parameters, ray Ray, wo types.Vec3) {
	sample := bsdf.Sample(p, wo, c.Sampler)
	if !sample.Valid {
		c.Stats.ZeroPdfSkipped++
		return
	}
	if sample.Pdf <= 0 && !sample.Flags.Has(bsdf.Delta) {
		c.Stats.ZeroPdfSkipped++
		return
	}

	newThroughput := ray.Throughput.MulVec(sample.Throughput)
	bounce := ray.Bounce + 1

	if bounce >= c.Options.RouletteStart {
		q := newThroughput.MaxComponent()
		if q < qMin {
			q = qMin
		}
		if q > 1 {
			q = 1
		}
		if c.Sampler.Get1D() > q {
			c.Stats.RouletteKilled++
			return
		}
		newThroughput = newThroughput.Mul(1 / q)
	}

	diffOut := bsdf.TransferDifferentials(p, wo, sample.Wi)

	cont := Ray{
		Origin:     surface.OffsetOrigin(p.Position, p.GeometricNormal, sample.Wi),
		Dir:        sample.Wi,
		Throughput: newThroughput,
		PixelIndex: ray.PixelIndex,
		Bounce:     bounce,
		// The medium a bounce ray travels through is inherited from its
		// parent: this engine attaches MediumParameters per ray rather
		// than per material interface, so entering/leaving a
		// participating medium volume is a scene-construction concern
		// outside this kernel's scope (spec section 1 excludes importers
		// for specific scene formats).
		Medium:   ray.Medium,
		BsdfPdf:  sample.Pdf,
		Specular: sample.Flags.Has(bsdf.Delta),
	}
	if diffOut.Valid {
		cont.HasDifferentials = true
		cont.RxOrigin, cont.RxDir = diffOut.RxOrigin, diffOut.RxDir
		cont.RyOrigin, cont.RyDir = diffOut.RyOrigin, diffOut.RyDir
	}
	c.InsertRay(cont)
}

// powerHeuristic is MIS's power (beta=2) heuristic: given the sampling
// strategy whose weight is being computed (pdfA) and its one competing
// strategy (pdfB), returns pdfA^2 / (pdfA^2 + pdfB^2). Spec glossary
// defines MIS via "the balance heuristic"; this engine uses the power
// heuristic instead, Veach's documented lower-variance refinement of the
// same two-strategy combination rule.
func powerHeuristic(pdfA, pdfB float32) float32 {
	if pdfA <= 0 {
		return 0
	}
	a := pdfA * pdfA
	b := pdfB * pdfB
	return a / (a + b)
}
