package sampling

import "testing"

func TestSessionDeterministicForSameSeed(t *testing.T) {
	a := NewSession(42)
	b := NewSession(42)
	for i := 0; i < 8; i++ {
		ax, ay := a.Get2D()
		bx, by := b.Get2D()
		if ax != bx || ay != by {
			t.Fatalf("sample %d diverged between sessions sharing a seed: (%v %v) vs (%v %v)", i, ax, ay, bx, by)
		}
	}
}

func TestSessionDifferentSeedsDiverge(t *testing.T) {
	a := NewSession(1)
	b := NewSession(2)
	same := true
	for i := 0; i < 8; i++ {
		if a.Get1D() != b.Get1D() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("sessions with different seeds produced the same stream")
	}
}

func TestGet1DAndGet2DStayInUnitRange(t *testing.T) {
	s := NewSession(7)
	for i := 0; i < 256; i++ {
		v := s.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Get1D returned %v, want [0,1)", v)
		}
		x, y := s.Get2D()
		if x < 0 || x >= 1 || y < 0 || y >= 1 {
			t.Fatalf("Get2D returned (%v, %v), want both in [0,1)", x, y)
		}
	}
}

func TestConfigureStrataPerfectSquare(t *testing.T) {
	s := NewSession(1)
	s.ConfigureStrata(16)
	if s.sqrtSamples != 4 {
		t.Fatalf("sqrtSamples got %d, want 4", s.sqrtSamples)
	}
}

func TestConfigureStrataNonSquareFallsBackToJitter(t *testing.T) {
	s := NewSession(1)
	s.ConfigureStrata(10)
	if s.sqrtSamples != 0 {
		t.Fatalf("sqrtSamples got %d, want 0 for a non-square sample count", s.sqrtSamples)
	}
}

func TestPixelJitterCoversDistinctCells(t *testing.T) {
	s := NewSession(3)
	s.ConfigureStrata(4)
	seen := map[[2]int]bool{}
	for i := 0; i < 4; i++ {
		p := s.PixelJitter(i, 4)
		if p[0] < 0 || p[0] >= 1 || p[1] < 0 || p[1] >= 1 {
			t.Fatalf("jitter sample %d out of [0,1)^2: %v", i, p)
		}
		cell := [2]int{int(p[0] * 2), int(p[1] * 2)}
		seen[cell] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 distinct stratified cells, saw %d", len(seen))
	}
}

func TestVanDerCorputStartsAtZero(t *testing.T) {
	if got := VanDerCorput(0); got != 0 {
		t.Fatalf("VanDerCorput(0) got %v, want 0", got)
	}
}

func TestVanDerCorputStaysInUnitRange(t *testing.T) {
	for _, n := range []uint32{1, 2, 3, 1000, 0xFFFFFFFF} {
		v := VanDerCorput(n)
		if v < 0 || v >= 1 {
			t.Fatalf("VanDerCorput(%d) = %v, want [0,1)", n, v)
		}
	}
}

func TestHalton2DDeterministic(t *testing.T) {
	x1, y1 := Halton2D(5)
	x2, y2 := Halton2D(5)
	if x1 != x2 || y1 != y2 {
		t.Fatal("Halton2D should be a pure function of its index")
	}
}

func TestHalton2DDistinctIndices(t *testing.T) {
	x1, y1 := Halton2D(1)
	x2, y2 := Halton2D(2)
	if x1 == x2 && y1 == y2 {
		t.Fatal("distinct Halton indices produced the same point")
	}
}
