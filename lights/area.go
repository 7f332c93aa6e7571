package lights

import (
	"math"

	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// areaLightEpsilon guards the grazing-angle and degenerate-distance cases
// in both Sample and SolidAnglePdf, mirroring bsdf's shared clamp-before-
// divide policy rather than special-casing each caller.
const areaLightEpsilon float32 = 1e-6

// triSpan is one planar triangle within an areaLight, carrying its own
// area so a quad face (two triangles sharing a diagonal) can be sampled
// proportionally to each half's size.
type triSpan struct {
	p0, p1, p2 types.Vec3
	area       float32
}

// areaLight is one emissive mesh face, sampleable as a next-event
// estimation target. A triangle face holds one triSpan; a quad face holds
// two, split along its diagonal the same way traversal.BruteForce
// triangulates quads, so areaLight.prim stays equal to the backend's
// per-face PrimID regardless of the face's vertex count. Emission is
// constant over the face (the baked material's Emissive value), matching
// the Lambertian-emitter model spec section 4.2 assumes ("any emissive
// mesh triangle becomes a sampleable area light").
type areaLight struct {
	tris     []triSpan
	area     float32
	normal   types.Vec3
	emission types.Vec3
	geom     traversal.GeometryHandle
	prim     uint32
}

// newAreaLight builds a light from a face's 3 or 4 world-space corners
// (in winding order), returning ok == false for a degenerate (near-zero
// area) face.
func newAreaLight(corners []types.Vec3, emission types.Vec3, geom traversal.GeometryHandle, prim uint32) (*areaLight, bool) {
	var tris []triSpan
	switch len(corners) {
	case 3:
		tris = []triSpan{{corners[0], corners[1], corners[2], 0}}
	case 4:
		tris = []triSpan{
			{corners[0], corners[1], corners[2], 0},
			{corners[0], corners[2], corners[3], 0},
		}
	default:
		return nil, false
	}

	var totalArea float32
	var normalSum types.Vec3
	for i := range tris {
		e1 := tris[i].p1.Sub(tris[i].p0)
		e2 := tris[i].p2.Sub(tris[i].p0)
		cross := e1.Cross(e2)
		tris[i].area = cross.Len() * 0.5
		totalArea += tris[i].area
		normalSum = normalSum.Add(cross)
	}
	if totalArea < areaLightEpsilon {
		return nil, false
	}

	return &areaLight{
		tris:     tris,
		area:     totalArea,
		normal:   normalSum.Normalize(),
		emission: emission,
		geom:     geom,
		prim:     prim,
	}, true
}

// Key identifies which traversal hit this light corresponds to, letting
// the kernel look up the exact light a BSDF-sampled ray landed on instead
// of testing every light in the list.
func (l *areaLight) Key() (traversal.GeometryHandle, uint32) {
	return l.geom, l.prim
}

// pickTri chooses one of the face's sub-triangles proportionally to area,
// reusing u (rescaled into [0,1) for the chosen triangle) as the first
// barycentric random number so a single Get2D draw still fully determines
// the sample.
func (l *areaLight) pickTri(u float32) (triSpan, float32) {
	if len(l.tris) == 1 {
		return l.tris[0], u
	}
	p0 := l.tris[0].area / l.area
	if u < p0 {
		return l.tris[0], u / p0
	}
	return l.tris[1], (u - p0) / (1 - p0)
}

// Sample draws a uniformly distributed point on the face via the standard
// sqrt-based barycentric map, then converts its area-measure density to
// the solid-angle measure the kernel's MIS weighting expects.
func (l *areaLight) Sample(shadingPoint types.Vec3, u1, u2 float32) (Sample, bool) {
	tri, su := l.pickTri(u1)

	su0 := float32(math.Sqrt(float64(su)))
	b0 := 1 - su0
	b1 := u2 * su0
	point := tri.p0.Mul(b0).Add(tri.p1.Mul(b1)).Add(tri.p2.Mul(1 - b0 - b1))

	toLight := point.Sub(shadingPoint)
	dist := toLight.Len()
	if dist < areaLightEpsilon {
		return Sample{}, false
	}
	dir := toLight.Mul(1 / dist)

	cosLight := l.normal.Dot(dir.Neg())
	if cosLight <= areaLightEpsilon {
		return Sample{}, false
	}

	pdf := (dist * dist) / (l.area * cosLight)
	return Sample{Direction: dir, Distance: dist, Emission: l.emission, Pdf: pdf}, true
}

// SolidAnglePdf answers "what pdf would Sample have assigned to dir",
// needed when a BSDF-sampled ray (not a light sample) happens to land on
// this face, so the kernel can MIS-weight that contribution against the
// light-sampling strategy. It re-derives the hit distance with its own
// ray/triangle test against whichever sub-triangle dir actually crosses,
// rather than trusting the caller's traversal.Hit.T, to keep this
// package's math independent of traversal.Hit's field layout.
func (l *areaLight) SolidAnglePdf(shadingPoint, dir types.Vec3) float32 {
	for _, tri := range l.tris {
		t, ok := intersectTriangle(shadingPoint, dir, tri.p0, tri.p1, tri.p2)
		if !ok {
			continue
		}
		cosLight := l.normal.Dot(dir.Neg())
		if cosLight <= areaLightEpsilon {
			return 0
		}
		return (t * t) / (l.area * cosLight)
	}
	return 0
}

// intersectTriangle is a minimal Moller-Trumbore test used only to answer
// SolidAnglePdf's "does this ray hit this specific triangle" question; it
// intentionally does not return barycentrics since the pdf calculation
// only needs the hit distance.
func intersectTriangle(origin, dir, p0, p1, p2 types.Vec3) (float32, bool) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	pvec := dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -areaLightEpsilon && det < areaLightEpsilon {
		return 0, false
	}
	invDet := 1 / det
	tvec := origin.Sub(p0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(e1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(qvec) * invDet
	if t <= areaLightEpsilon {
		return 0, false
	}
	return t, true
}
