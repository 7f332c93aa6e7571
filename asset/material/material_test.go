package material

import "testing"

func TestDefaultMaterial(t *testing.T) {
	m := DefaultMaterial()
	if m.Shader != DisneySolid {
		t.Fatalf("expected DisneySolid shader, got %v", m.Shader)
	}
	if m.BaseColor != [3]float32{0.6, 0.6, 0.6} {
		t.Fatalf("expected gray base color, got %v", m.BaseColor)
	}
	if m.Scalar(IOR) != 1.5 {
		t.Fatalf("expected ior 1.5, got %v", m.Scalar(IOR))
	}
}

func TestTableLookupHit(t *testing.T) {
	a := Material{Name: "a", NameHash: HashName("a")}
	b := Material{Name: "b", NameHash: HashName("b")}
	table := NewTable([]Material{b, a})

	got := table.Lookup(HashName("a"))
	if got.Name != "a" {
		t.Fatalf("expected material %q, got %q", "a", got.Name)
	}
}

func TestTableLookupMiss(t *testing.T) {
	table := NewTable([]Material{{Name: "a", NameHash: HashName("a")}})
	got := table.Lookup(HashName("does-not-exist"))
	if got.Name != "__default" {
		t.Fatalf("expected default material on miss, got %q", got.Name)
	}
}

func TestHashNameDeterministic(t *testing.T) {
	if HashName("metal") != HashName("metal") {
		t.Fatal("HashName must be deterministic")
	}
	if HashName("metal") == HashName("glass") {
		t.Fatal("expected distinct hashes for distinct names")
	}
}

func TestFlagsHas(t *testing.T) {
	f := AlphaTested | ThinSurface
	if !f.Has(AlphaTested) || !f.Has(ThinSurface) {
		t.Fatal("expected both bits set")
	}
	if f.Has(DisplacementEnabled) {
		t.Fatal("did not expect DisplacementEnabled to be set")
	}
}
