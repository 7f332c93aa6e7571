package kernel

import (
	"math"
	"testing"

	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/types"
)

func newTestContext(maxPathLength int) *Context {
	opts := Options{
		MaxPathLength:    maxPathLength,
		RayStackCapacity: maxPathLength + 2,
		RouletteStart:    maxPathLength,
		SamplesPerPixel:  1,
		TileSize:         1,
	}
	accum := make([]types.Vec3, 1)
	counts := make([]uint32, 1)
	return NewContext(opts, accum, counts, sampling.NewSession(1), 0)
}

func TestInsertRayAtMaxPathLengthIsNoOp(t *testing.T) {
	c := newTestContext(4)
	ok := c.InsertRay(Ray{Bounce: 4})
	if ok {
		t.Fatal("InsertRay with Bounce == MaxPathLength should be refused")
	}
	if c.stackCount != 0 {
		t.Fatalf("a refused ray should never land on the stack, stackCount=%d", c.stackCount)
	}
}

func TestInsertRayBelowMaxPathLengthSucceeds(t *testing.T) {
	c := newTestContext(4)
	ok := c.InsertRay(Ray{Bounce: 3})
	if !ok {
		t.Fatal("InsertRay with Bounce < MaxPathLength should succeed")
	}
	if c.stackCount != 1 {
		t.Fatalf("expected stackCount == 1, got %d", c.stackCount)
	}
}

func TestInsertRayPopIsLIFO(t *testing.T) {
	c := newTestContext(8)
	c.InsertRay(Ray{Bounce: 0, PixelIndex: 1})
	c.InsertRay(Ray{Bounce: 1, PixelIndex: 2})
	c.InsertRay(Ray{Bounce: 2, PixelIndex: 3})

	first, ok := c.popRay()
	if !ok || first.PixelIndex != 3 {
		t.Fatalf("expected the most recently pushed ray first, got %+v ok=%v", first, ok)
	}
	second, ok := c.popRay()
	if !ok || second.PixelIndex != 2 {
		t.Fatalf("expected the second-most recent ray next, got %+v ok=%v", second, ok)
	}
}

func TestInsertRayOverflowPanics(t *testing.T) {
	c := newTestContext(1) // RayStackCapacity == 3
	c.InsertRay(Ray{Bounce: 0})
	c.InsertRay(Ray{Bounce: 0})
	c.InsertRay(Ray{Bounce: 0})

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when the stack is genuinely full")
		}
	}()
	c.InsertRay(Ray{Bounce: 0})
}

func TestResetEmptiesStackWithoutReallocating(t *testing.T) {
	c := newTestContext(4)
	c.InsertRay(Ray{Bounce: 0})
	c.InsertRay(Ray{Bounce: 1})
	backing := c.stack

	c.reset()
	if c.stackCount != 0 {
		t.Fatalf("expected stackCount == 0 after reset, got %d", c.stackCount)
	}
	if &c.stack[0] != &backing[0] {
		t.Fatal("reset should not reallocate the stack's backing array")
	}
}

func TestAccumulatePixelEnergyDropsNonFinite(t *testing.T) {
	c := newTestContext(4)
	nan := types.Vec3{float32(math.NaN()), 0, 0}
	c.AccumulatePixelEnergy(0, types.Vec3{1, 1, 1}, nan)
	if c.Accum[0] != (types.Vec3{}) {
		t.Fatalf("a non-finite contribution should never reach the accumulator, got %v", c.Accum[0])
	}
	if c.Stats.NonFiniteDropped != 1 {
		t.Fatalf("expected NonFiniteDropped to increment, got %d", c.Stats.NonFiniteDropped)
	}
}

func TestAccumulatePixelEnergyDropsNegative(t *testing.T) {
	c := newTestContext(4)
	c.AccumulatePixelEnergy(0, types.Vec3{1, 1, 1}, types.Vec3{-1, 0, 0})
	if c.Accum[0] != (types.Vec3{}) {
		t.Fatalf("a negative-component contribution should never reach the accumulator, got %v", c.Accum[0])
	}
}

func TestAccumulatePixelEnergyAddsFiniteContribution(t *testing.T) {
	c := newTestContext(4)
	c.AccumulatePixelEnergy(0, types.Vec3{2, 2, 2}, types.Vec3{1, 0.5, 0})
	want := types.Vec3{2, 1, 0}
	if c.Accum[0] != want {
		t.Fatalf("got %v, want %v", c.Accum[0], want)
	}
}

func TestAccumulateRayAndAccumulateHitAgree(t *testing.T) {
	throughput := types.Vec3{0.5, 0.25, 1}
	value := types.Vec3{2, 2, 2}

	rayCtx := newTestContext(4)
	ray := Ray{Throughput: throughput, PixelIndex: 0}
	rayCtx.AccumulateRay(ray, value)

	hitCtx := newTestContext(4)
	hit := HitParameters{Throughput: throughput, PixelIndex: 0}
	hitCtx.AccumulateHit(hit, value)

	if rayCtx.Accum[0] != hitCtx.Accum[0] {
		t.Fatalf("AccumulateRay and AccumulateHit should produce identical results for the same throughput, got %v vs %v", rayCtx.Accum[0], hitCtx.Accum[0])
	}
}
