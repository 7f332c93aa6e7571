package render

import (
	"strings"
	"testing"

	"github.com/schuttejoe/ShootyEngine/kernel"
	"github.com/schuttejoe/ShootyEngine/types"
)

func TestAddTileAggregatesStatsAcrossTiles(t *testing.T) {
	s := newSummary(4, 4)
	s.addTile(TileResult{Tile: Tile{Index: 0}, Stats: kernel.Stats{PathsTraced: 10, RouletteKilled: 2}, Completed: true})
	s.addTile(TileResult{Tile: Tile{Index: 1}, Stats: kernel.Stats{PathsTraced: 5, NonFiniteDropped: 1}, Completed: false})

	if s.TotalTiles != 2 {
		t.Fatalf("TotalTiles got %d, want 2", s.TotalTiles)
	}
	if s.CompletedTiles != 1 || s.IncompleteTiles != 1 {
		t.Fatalf("expected 1 completed and 1 incomplete tile, got completed=%d incomplete=%d", s.CompletedTiles, s.IncompleteTiles)
	}
	if s.Stats.PathsTraced != 15 {
		t.Fatalf("PathsTraced should sum across tiles, got %d want 15", s.Stats.PathsTraced)
	}
	if s.Stats.RouletteKilled != 2 || s.Stats.NonFiniteDropped != 1 {
		t.Fatalf("per-field stats should sum independently, got %+v", s.Stats)
	}
}

func TestResolveDividesByPerPixelSampleCount(t *testing.T) {
	s := newSummary(2, 1)
	s.Accum = []types.Vec3{{4, 2, 0}, {1, 1, 1}}
	s.SampleCounts = []uint32{2, 0}

	resolved := s.Resolve()
	if resolved[0] != (types.Vec3{2, 1, 0}) {
		t.Fatalf("pixel 0 got %v, want {2 1 0}", resolved[0])
	}
	if resolved[1] != (types.Vec3{}) {
		t.Fatalf("a pixel with zero samples should resolve to black, not divide by zero, got %v", resolved[1])
	}
}

func TestSummaryStringRendersWithoutPanicking(t *testing.T) {
	s := newSummary(4, 4)
	s.addTile(TileResult{Tile: Tile{Index: 0}, Stats: kernel.Stats{PathsTraced: 1}, Completed: true})

	out := s.String()
	if !strings.Contains(out, "4x4") {
		t.Fatalf("summary should report the resolution, got:\n%s", out)
	}
	if !strings.Contains(out, "Paths traced") {
		t.Fatalf("summary should report paths traced, got:\n%s", out)
	}
}

func TestSummaryStringReportsIncompleteTilesOnlyWhenPresent(t *testing.T) {
	s := newSummary(2, 2)
	s.addTile(TileResult{Tile: Tile{Index: 0}, Completed: true})
	if strings.Contains(s.String(), "Incomplete tiles") {
		t.Fatal("a fully completed render should not mention incomplete tiles")
	}

	s.addTile(TileResult{Tile: Tile{Index: 1}, Completed: false})
	if !strings.Contains(s.String(), "Incomplete tiles") {
		t.Fatal("a render with a cancelled tile should report it")
	}
}
