package types

import (
	"math"
	"testing"
)

func mat4AlmostEqual(a, b Mat4) bool {
	for i := range a {
		if !almostEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestIdent4MulPointIsIdentity(t *testing.T) {
	p := Vec3{1, 2, 3}
	if got := Ident4().MulPoint(p); got != p {
		t.Fatalf("got %v, want %v", got, p)
	}
}

func TestTranslate4MulPoint(t *testing.T) {
	m := Translate4(Vec3{1, 2, 3})
	got := m.MulPoint(Vec3{0, 0, 0})
	if got != (Vec3{1, 2, 3}) {
		t.Fatalf("got %v, want {1 2 3}", got)
	}
}

func TestTranslate4MulDirIgnoresTranslation(t *testing.T) {
	m := Translate4(Vec3{1, 2, 3})
	got := m.MulDir(Vec3{1, 0, 0})
	if got != (Vec3{1, 0, 0}) {
		t.Fatalf("direction should be unaffected by translation, got %v", got)
	}
}

func TestScale4MulPoint(t *testing.T) {
	m := Scale4(Vec3{2, 3, 4})
	got := m.MulPoint(Vec3{1, 1, 1})
	if got != (Vec3{2, 3, 4}) {
		t.Fatalf("got %v, want {2 3 4}", got)
	}
}

func TestMul4Identity(t *testing.T) {
	m := Translate4(Vec3{1, 2, 3})
	got := m.Mul4(Ident4())
	if !mat4AlmostEqual(got, m) {
		t.Fatalf("m * identity changed the matrix: got %v, want %v", got, m)
	}
	got = Ident4().Mul4(m)
	if !mat4AlmostEqual(got, m) {
		t.Fatalf("identity * m changed the matrix: got %v, want %v", got, m)
	}
}

func TestMul4Composition(t *testing.T) {
	translate := Translate4(Vec3{1, 0, 0})
	scale := Scale4(Vec3{2, 2, 2})
	combined := translate.Mul4(scale)
	got := combined.MulPoint(Vec3{1, 1, 1})
	want := Vec3{3, 2, 2}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTransposeInvolution(t *testing.T) {
	m := Translate4(Vec3{1, 2, 3}).Mul4(Scale4(Vec3{4, 5, 6}))
	got := m.Transpose().Transpose()
	if !mat4AlmostEqual(got, m) {
		t.Fatalf("double transpose should be identity, got %v, want %v", got, m)
	}
}

func TestInvRoundTrip(t *testing.T) {
	m := Translate4(Vec3{3, -2, 5}).Mul4(Scale4(Vec3{2, 4, 0.5}))
	inv := m.Inv()
	got := m.Mul4(inv)
	if !mat4AlmostEqual(got, Ident4()) {
		t.Fatalf("m * m.Inv() should be identity, got %v", got)
	}
}

func TestInvSingularReturnsIdentity(t *testing.T) {
	singular := Scale4(Vec3{0, 1, 1})
	got := singular.Inv()
	if got != Ident4() {
		t.Fatalf("inverse of a singular matrix should fall back to identity, got %v", got)
	}
}

func TestLookAtVOrthonormalBasis(t *testing.T) {
	m := LookAtV(Vec3{0, 0, -5}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	right := Vec3{m[0], m[1], m[2]}
	up := Vec3{m[4], m[5], m[6]}
	if !almostEqual(right.Len(), 1) || !almostEqual(up.Len(), 1) {
		t.Fatalf("basis vectors should be unit length, right=%v up=%v", right, up)
	}
	if !almostEqual(right.Dot(up), 0) {
		t.Fatalf("right and up should be orthogonal, dot = %v", right.Dot(up))
	}
}

func TestPerspective4MapsNearPlane(t *testing.T) {
	m := Perspective4(float32(math.Pi)/2, 1, 1, 100)
	v := m.MulVec4(Vec4{0, 0, -1, 1})
	if v[3] == 0 {
		t.Fatal("w should be nonzero for a point on the near plane")
	}
	ndcZ := v[2] / v[3]
	if !almostEqual(ndcZ, -1) {
		t.Fatalf("near plane should map to ndc z = -1, got %v", ndcZ)
	}
}
