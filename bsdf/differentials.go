package bsdf

import (
	"github.com/schuttejoe/ShootyEngine/surface"
	"github.com/schuttejoe/ShootyEngine/types"
)

// TransferDifferentials analytically transforms a hit's inbound ray
// differentials into the auxiliary rx/ry rays for a bounce sampled toward
// wi, per spec section 4.4's "propagates differentials through reflection
// or refraction when the PreserveRayDifferentials flag is set." It
// implements Igehy's 1999 transfer/reflect formulas with the curvature
// term (dn/dx) dropped, since this engine's surface builder does not
// track dn/du and dn/dv (p.DnDu/DnDv are always zero), an acceptable
// simplification for the shading-normal variation this engine's meshes
// exhibit. The transfer divides by no cosine, so no grazing-angle epsilon
// (such as clampCos) is applied here; a transferred direction of zero
// length yields empty differentials instead. The same formula is reused
// for both reflection and refraction lobes rather than deriving
// refraction's eta-scaled variant, trading a small amount of footprint
// accuracy at strongly refractive interfaces for one shared code path.
func TransferDifferentials(p *surface.Parameters, wo, wi types.Vec3) surface.Differentials {
	if !shouldPropagateDifferentials(p) {
		return surface.Differentials{}
	}

	ns := p.ShadingNormal

	dwodx := p.RxDirection.Neg().Sub(wo)
	dwody := p.RyDirection.Neg().Sub(wo)

	dDNdx := dwodx.Dot(ns)
	dDNdy := dwody.Dot(ns)

	rxDir := wi.Sub(dwodx).Add(ns.Mul(2 * dDNdx))
	ryDir := wi.Sub(dwody).Add(ns.Mul(2 * dDNdy))
	if rxDir.LenSq() == 0 || ryDir.LenSq() == 0 {
		return surface.Differentials{}
	}

	return surface.Differentials{
		Valid:    true,
		RxOrigin: p.Position.Add(p.DpDx),
		RxDir:    rxDir.Normalize(),
		RyOrigin: p.Position.Add(p.DpDy),
		RyDir:    ryDir.Normalize(),
	}
}
