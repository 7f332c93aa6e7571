package render

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schuttejoe/ShootyEngine/kernel"
	"github.com/schuttejoe/ShootyEngine/types"
)

// Summary is the render session's aggregate report (spec section 7's
// "session summary"): the final pixel accumulator, per-pixel sample
// counts, and the merged kernel.Stats plus incomplete-tile count across
// every worker, rendered as a table in the style of scene.Resource.Stats.
type Summary struct {
	Width, Height int
	Accum         []types.Vec3
	SampleCounts  []uint32

	Started time.Time

	mu              sync.Mutex
	Stats           kernel.Stats
	TotalTiles      int
	CompletedTiles  int
	IncompleteTiles int
}

func newSummary(width, height int) *Summary {
	return &Summary{Width: width, Height: height, Started: time.Now()}
}

func (s *Summary) addTile(r TileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TotalTiles++
	s.Stats.PathsTraced += r.Stats.PathsTraced
	s.Stats.NonFiniteDropped += r.Stats.NonFiniteDropped
	s.Stats.ZeroPdfSkipped += r.Stats.ZeroPdfSkipped
	s.Stats.RouletteKilled += r.Stats.RouletteKilled
	if r.Completed {
		s.CompletedTiles++
	} else {
		s.IncompleteTiles++
	}
}

// String renders the session summary as a table, matching the texture
// and register scene.Resource.Stats uses.
func (s *Summary) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})

	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", s.Width, s.Height)})
	table.Append([]string{"Tiles", fmt.Sprintf("%d/%d complete", s.CompletedTiles, s.TotalTiles)})
	if s.IncompleteTiles > 0 {
		table.Append([]string{"Incomplete tiles", fmt.Sprintf("%d", s.IncompleteTiles)})
	}
	table.Append([]string{"Paths traced", fmt.Sprintf("%d", s.Stats.PathsTraced)})
	table.Append([]string{"Non-finite dropped", fmt.Sprintf("%d", s.Stats.NonFiniteDropped)})
	table.Append([]string{"Zero-pdf skipped", fmt.Sprintf("%d", s.Stats.ZeroPdfSkipped)})
	table.Append([]string{"Roulette killed", fmt.Sprintf("%d", s.Stats.RouletteKilled)})
	table.Append([]string{"Render time", time.Since(s.Started).Round(time.Millisecond).String()})

	table.Render()
	return buf.String()
}

// Resolve converts the accumulator into a final per-pixel radiance image
// by dividing each cell by its sample count; pixels with zero samples
// (possible only when cancellation stopped a tile during its first sample
// pass) stay black rather than dividing by zero.
func (s *Summary) Resolve() []types.Vec3 {
	out := make([]types.Vec3, len(s.Accum))
	for i, c := range s.SampleCounts {
		if c == 0 {
			continue
		}
		out[i] = s.Accum[i].Mul(1 / float32(c))
	}
	return out
}
