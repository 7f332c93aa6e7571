package kernel

import "testing"

func validOptions() Options {
	return Options{
		MaxPathLength:    8,
		RayStackCapacity: 10,
		RouletteStart:    4,
		SamplesPerPixel:  16,
		TileSize:         32,
	}
}

func TestValidOptionsPasses(t *testing.T) {
	if err := validOptions().Validate(); err != nil {
		t.Fatalf("expected a valid Options to pass, got %v", err)
	}
}

func TestValidateRejectsZeroMaxPathLength(t *testing.T) {
	o := validOptions()
	o.MaxPathLength = 0
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for MaxPathLength == 0")
	}
}

func TestValidateRejectsUndersizedStack(t *testing.T) {
	o := validOptions()
	o.RayStackCapacity = o.MaxPathLength + 1
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error when RayStackCapacity < MaxPathLength+2")
	}
}

func TestValidateRejectsNegativeRouletteStart(t *testing.T) {
	o := validOptions()
	o.RouletteStart = -1
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for a negative RouletteStart")
	}
}

func TestValidateRejectsZeroSamplesPerPixel(t *testing.T) {
	o := validOptions()
	o.SamplesPerPixel = 0
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for SamplesPerPixel == 0")
	}
}

func TestValidateRejectsNonPowerOfTwoTileSize(t *testing.T) {
	o := validOptions()
	o.TileSize = 24
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for a non-power-of-two TileSize")
	}
}

func TestValidateAcceptsTileSizeOne(t *testing.T) {
	o := validOptions()
	o.TileSize = 1
	if err := o.Validate(); err != nil {
		t.Fatalf("TileSize == 1 is a valid (degenerate) power of two, got %v", err)
	}
}
