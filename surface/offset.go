package surface

import "github.com/schuttejoe/ShootyEngine/types"

// originOffsetScale controls how far OffsetOrigin displaces a spawned
// ray's origin along the geometric normal, scaled by the hit's local
// geometric size (approximated here by the position's magnitude, matching
// the original engine's practice of scaling the bias by scene extent
// rather than using a single fixed epsilon that breaks down at very small
// or very large scene scales).
const originOffsetScale float32 = 1e-4

// OffsetOrigin nudges p along the geometric normal to avoid self
// intersection when spawning a bounce ray toward wi, per spec section 4.3:
// "The offset is proportional to the geometric scale of the primitive;
// separate sign handling for reflection vs refraction." The sign is
// derived from which side of the geometric normal wi leaves on (positive
// for reflection, negative for a refraction that crosses the surface)
// rather than a hardcoded lobe flag, so it stays correct even when wo
// itself already sits on the normal's negative side (e.g. exiting a
// medium from inside).
func OffsetOrigin(p, geometricNormal, wi types.Vec3) types.Vec3 {
	scale := originOffsetScale * maxf(1, absf(p[0])+absf(p[1])+absf(p[2]))
	n := geometricNormal
	if geometricNormal.Dot(wi) < 0 {
		n = n.Neg()
	}
	return p.Add(n.Mul(scale))
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
