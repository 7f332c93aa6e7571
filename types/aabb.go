package types

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// InvalidAABB returns a box whose Min/Max are set to +inf/-inf, matching
// the "infinitely inverted" convention used by the resource loader before a
// geometry's real bounds are known.
func InvalidAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// IsValid reports whether the box has been grown at least once.
func (b AABB) IsValid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Extend grows the box to include p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{Min: MinVec3(b.Min, p), Max: MaxVec3(b.Max, p)}
}

// Union returns the smallest box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{Min: MinVec3(b.Min, other.Min), Max: MaxVec3(b.Max, other.Max)}
}

// Center returns the box midpoint.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns Max - Min.
func (b AABB) Extents() Vec3 {
	return b.Max.Sub(b.Min)
}

// SurfaceArea returns the total surface area of the box, used by SAH-style
// split scoring in the (out-of-scope) traversal backend's own BVH, and by
// the baker for reporting.
func (b AABB) SurfaceArea() float32 {
	e := b.Extents()
	if e[0] < 0 || e[1] < 0 || e[2] < 0 {
		return 0
	}
	return 2 * (e[0]*e[1] + e[1]*e[2] + e[2]*e[0])
}

// Transform returns the AABB of the box after applying m to all 8 corners.
func (b AABB) Transform(m Mat4) AABB {
	out := InvalidAABB()
	for i := 0; i < 8; i++ {
		corner := Vec3{
			pick(i&1 != 0, b.Min[0], b.Max[0]),
			pick(i&2 != 0, b.Min[1], b.Max[1]),
			pick(i&4 != 0, b.Min[2], b.Max[2]),
		}
		out = out.Extend(m.MulPoint(corner))
	}
	return out
}

func pick(cond bool, a, b float32) float32 {
	if cond {
		return b
	}
	return a
}

// Sphere is a bounding sphere, used alongside the AABB in the scene blob
// header (spec section 3, "Scene blob").
type Sphere struct {
	Center Vec3
	Radius float32
}

// BoundingSphere computes the sphere that circumscribes the AABB, centered
// at the box midpoint.
func (b AABB) BoundingSphere() Sphere {
	c := b.Center()
	return Sphere{Center: c, Radius: b.Max.Sub(c).Len()}
}
