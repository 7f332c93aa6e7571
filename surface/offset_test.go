package surface

import (
	"testing"

	"github.com/schuttejoe/ShootyEngine/types"
)

func TestOffsetOriginReflectionMovesAlongPositiveNormal(t *testing.T) {
	p := types.Vec3{0, 0, 0}
	n := types.Vec3{0, 0, 1}
	wi := types.Vec3{0, 0, 1} // leaving on the same side as n: a reflection

	got := OffsetOrigin(p, n, wi)
	if got[2] <= 0 {
		t.Fatalf("a reflection offset should move along +n, got %v", got)
	}
}

func TestOffsetOriginTransmissionMovesAlongNegativeNormal(t *testing.T) {
	p := types.Vec3{0, 0, 0}
	n := types.Vec3{0, 0, 1}
	wi := types.Vec3{0, 0, -1} // leaving on the opposite side: a refraction

	got := OffsetOrigin(p, n, wi)
	if got[2] >= 0 {
		t.Fatalf("a transmission offset should move along -n, got %v", got)
	}
}

func TestOffsetOriginScalesWithPositionMagnitude(t *testing.T) {
	n := types.Vec3{0, 0, 1}
	wi := types.Vec3{0, 0, 1}

	near := OffsetOrigin(types.Vec3{0, 0, 0}, n, wi)
	far := OffsetOrigin(types.Vec3{1e6, 0, 0}, n, wi)

	nearOffset := near[2]
	farOffset := far[2]
	if !(farOffset > nearOffset) {
		t.Fatalf("a hit far from the origin should get a proportionally larger bias than one at the origin, near=%v far=%v", nearOffset, farOffset)
	}
}

func TestOffsetOriginPreservesXYComponents(t *testing.T) {
	p := types.Vec3{3, 4, 0}
	n := types.Vec3{0, 0, 1}
	wi := types.Vec3{0, 0, 1}

	got := OffsetOrigin(p, n, wi)
	if got[0] != p[0] || got[1] != p[1] {
		t.Fatalf("offsetting along a z-axis normal should not touch x/y, got %v", got)
	}
}
