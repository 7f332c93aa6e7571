package types

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestVec3Add(t *testing.T) {
	got := Vec3{1, 2, 3}.Add(Vec3{4, 5, 6})
	want := Vec3{5, 7, 9}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestVec3Sub(t *testing.T) {
	got := Vec3{4, 5, 6}.Sub(Vec3{1, 2, 3})
	want := Vec3{3, 3, 3}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestVec3Dot(t *testing.T) {
	got := Vec3{1, 0, 0}.Dot(Vec3{0, 1, 0})
	if got != 0 {
		t.Fatalf("orthogonal dot = %v, want 0", got)
	}
	got = Vec3{2, 3, 4}.Dot(Vec3{2, 3, 4})
	if got != 29 {
		t.Fatalf("got %v, want 29", got)
	}
}

func TestVec3AbsDot(t *testing.T) {
	got := Vec3{0, -1, 0}.AbsDot(Vec3{0, 1, 0})
	if got != 1 {
		t.Fatalf("got %v, want 1", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}.Normalize()
	if !almostEqual(v.Len(), 1) {
		t.Fatalf("normalized length = %v, want 1", v.Len())
	}
	if !almostEqual(v[0], 0.6) || !almostEqual(v[1], 0.8) {
		t.Fatalf("got %v, want {0.6 0.8 0}", v)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	v := Vec3{}.Normalize()
	if v != (Vec3{}) {
		t.Fatalf("normalizing the zero vector should return zero, got %v", v)
	}
}

func TestVec3LenSq(t *testing.T) {
	v := Vec3{1, 2, 2}
	if v.LenSq() != 9 {
		t.Fatalf("got %v, want 9", v.LenSq())
	}
}

func TestVec3MaxComponent(t *testing.T) {
	v := Vec3{1, 5, 3}
	if v.MaxComponent() != 5 {
		t.Fatalf("got %v, want 5", v.MaxComponent())
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Fatal("finite vector reported as non-finite")
	}
	nan := Vec3{float32(math.NaN()), 0, 0}
	if nan.IsFinite() {
		t.Fatal("NaN component should make IsFinite false")
	}
	inf := Vec3{float32(math.Inf(1)), 0, 0}
	if inf.IsFinite() {
		t.Fatal("Inf component should make IsFinite false")
	}
}

func TestVec3IsZero(t *testing.T) {
	if !(Vec3{}).IsZero() {
		t.Fatal("zero vector reported as nonzero")
	}
	if (Vec3{0, 0.0001, 0}).IsZero() {
		t.Fatal("nonzero vector reported as zero")
	}
}

func TestMinMaxVec3(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 2, -4}
	min := MinVec3(a, b)
	max := MaxVec3(a, b)
	if min != (Vec3{1, 2, -4}) {
		t.Fatalf("min got %v", min)
	}
	if max != (Vec3{3, 5, -2}) {
		t.Fatalf("max got %v", max)
	}
}

func TestVec4Vec3(t *testing.T) {
	got := Vec4{1, 2, 3, 4}.Vec3()
	if got != (Vec3{1, 2, 3}) {
		t.Fatalf("got %v, want {1 2 3}", got)
	}
}

func TestVec3Vec4(t *testing.T) {
	got := Vec3{1, 2, 3}.Vec4(1)
	if got != (Vec4{1, 2, 3, 1}) {
		t.Fatalf("got %v, want {1 2 3 1}", got)
	}
}
