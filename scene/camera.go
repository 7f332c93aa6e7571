package scene

import (
	"math"

	"github.com/schuttejoe/ShootyEngine/types"
)

// Camera is the baked, ready-to-shoot-rays-from camera state embedded in
// the scene blob header (spec section 3, "Scene blob: header (camera,
// aabb, bounding sphere)"). The kernel's ray-generation step builds a
// primary Ray from these fields plus a pixel's jittered sub-pixel offset.
type Camera struct {
	Position types.Vec3
	Forward  types.Vec3
	Up       types.Vec3
	Right    types.Vec3

	FovY        float32
	AspectRatio float32
}

// NewCamera builds a Camera's orthonormal basis from a look-at triple,
// the same convention as types.LookAtV but kept as plain vectors here
// since the kernel consumes basis vectors directly rather than a matrix.
func NewCamera(position, target, up types.Vec3, fovY, aspectRatio float32) Camera {
	forward := target.Sub(position).Normalize()
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward).Normalize()

	return Camera{
		Position:    position,
		Forward:     forward,
		Up:          trueUp,
		Right:       right,
		FovY:        fovY,
		AspectRatio: aspectRatio,
	}
}

// GenerateRay builds a world-space ray direction for normalized
// screen-space coordinates ndc in [-1, 1]^2, used by the kernel's primary
// ray generation step.
func (c Camera) GenerateRay(ndc types.Vec2) (origin, dir types.Vec3) {
	halfHeight := tanHalfFov(c.FovY)
	halfWidth := halfHeight * c.AspectRatio

	dir = c.Forward.
		Add(c.Right.Mul(ndc[0] * halfWidth)).
		Add(c.Up.Mul(ndc[1] * halfHeight)).
		Normalize()
	return c.Position, dir
}

func tanHalfFov(fovY float32) float32 {
	return float32(math.Tan(float64(fovY) * 0.5))
}

// GenerateDifferentialRay returns the primary ray for pixel (px, py) (with
// sub-pixel jitter already folded in) plus the auxiliary rx/ry rays
// offset by one pixel along each image-plane axis, used to estimate
// texture filter widths (spec glossary: "ray differentials").
func (c Camera) GenerateDifferentialRay(px, py float32, width, height int) (origin, dir, rxOrigin, rxDir, ryOrigin, ryDir types.Vec3) {
	toNDC := func(x, y float32) types.Vec2 {
		return types.XY(2*x/float32(width)-1, 1-2*y/float32(height))
	}

	origin, dir = c.GenerateRay(toNDC(px, py))
	rxOrigin, rxDir = c.GenerateRay(toNDC(px+1, py))
	ryOrigin, ryDir = c.GenerateRay(toNDC(px, py+1))
	return
}
