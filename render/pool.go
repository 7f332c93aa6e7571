// Package render implements the worker pool and tile scheduler spec
// section 5 describes: the image is partitioned into fixed-size tiles,
// each handed to a pool worker that owns one kernel.Context for its
// lifetime and writes only the pixel range its assigned tiles cover, so
// the shared accumulator needs no atomics. It is grounded on the
// retrieved go-progressive-raytracer's renderer/worker_pool.go
// channel-based task/result queue, adapted from that renderer's
// recursive-call-per-tile model onto this engine's explicit
// kernel.Context.RenderSample driver.
package render

import (
	"context"
	"runtime"
	"sync"

	"github.com/schuttejoe/ShootyEngine/kernel"
	"github.com/schuttejoe/ShootyEngine/lights"
	"github.com/schuttejoe/ShootyEngine/log"
	"github.com/schuttejoe/ShootyEngine/sampling"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// TileResult is one tile's outcome, reported on the pool's result channel
// (spec section 5's per-tile completion signal).
type TileResult struct {
	Tile      Tile
	Stats     kernel.Stats
	Completed bool
}

// Pool renders an image by distributing Tiles across a fixed set of
// goroutines, each backed by its own kernel.Context (spec section 3,
// "KernelContext ... exclusive per-worker ownership").
type Pool struct {
	NumWorkers int

	logger log.Logger
}

// NewPool creates a Pool with numWorkers goroutines; numWorkers <= 0
// defaults to runtime.NumCPU(), matching the retrieved worker pool's
// NewWorkerPool default.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers, logger: log.New("render")}
}

// Render drives a full image render: opts.SamplesPerPixel passes over
// every tile, accumulating into a shared Accum/SampleCounts buffer pair
// sized width*height. Cancellation via ctx is polled once per pixel (spec
// section 5: "cancellation is checked between pixels, not between
// bounces"), so an in-flight bounce loop for one pixel always completes
// before the tile acknowledges cancellation.
func (p *Pool) Render(ctx context.Context, res *scene.Resource, backend traversal.Backend, lightList *lights.List, opts kernel.Options, width, height int) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	accum := make([]types.Vec3, width*height)
	counts := make([]uint32, width*height)

	work := tiles(width, height, opts.TileSize)
	jobs := make(chan Tile, len(work))
	results := make(chan TileResult, len(work))

	var wg sync.WaitGroup
	for w := 0; w < p.NumWorkers; w++ {
		wg.Add(1)
		workerID := w
		go func() {
			defer wg.Done()
			kctx := kernel.NewContext(opts, accum, counts, sampling.NewSession(0), workerID)
			for tile := range jobs {
				kctx.Stats = kernel.Stats{}
				completed := renderTile(ctx, kctx, res, backend, lightList, tile, width, height, opts.SamplesPerPixel)
				results <- TileResult{Tile: tile, Stats: kctx.Stats, Completed: completed}
			}
		}()
	}

	for _, t := range work {
		jobs <- t
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := newSummary(width, height)
	for r := range results {
		summary.addTile(r)
		if r.Completed {
			p.logger.Noticef("tile %d (%d,%d %dx%d) complete", r.Tile.Index, r.Tile.X, r.Tile.Y, r.Tile.Width, r.Tile.Height)
		} else {
			p.logger.Warningf("tile %d (%d,%d %dx%d) incomplete: render cancelled", r.Tile.Index, r.Tile.X, r.Tile.Y, r.Tile.Width, r.Tile.Height)
		}
	}

	summary.Accum = accum
	summary.SampleCounts = counts
	return summary, nil
}

// renderTile drives every sample pass for one tile. Each pass reseeds the
// worker's sampler session from (tile.Index, sampleIndex) so the result is
// independent of which worker processed the tile (spec section 5's
// reproducibility requirement), then sweeps the tile's pixels in row-major
// order, checking ctx for cancellation between pixels.
func renderTile(ctx context.Context, kctx *kernel.Context, res *scene.Resource, backend traversal.Backend, lightList *lights.List, tile Tile, width, height, samplesPerPixel int) bool {
	for s := 0; s < samplesPerPixel; s++ {
		session := sampling.NewSession(seedFor(tile.Index, s))
		session.ConfigureStrata(samplesPerPixel)
		kctx.Sampler = session

		for ty := 0; ty < tile.Height; ty++ {
			for tx := 0; tx < tile.Width; tx++ {
				select {
				case <-ctx.Done():
					return false
				default:
				}

				px, py := tile.X+tx, tile.Y+ty
				pixelIndex := uint32(py*width + px)
				jitter := session.PixelJitter(s, samplesPerPixel)
				kctx.RenderSample(res, backend, lightList, res.Camera, float32(px)+jitter[0], float32(py)+jitter[1], width, height, pixelIndex)
			}
		}
	}
	return true
}

// seedFor derives a deterministic sampler seed from a tile's scan-order
// index and a sample pass number, the same (tileIndex, sampleIndex)
// contract sampling.Session's doc comment names. It is a splitmix64-style
// finalizer mix rather than a hash from the standard library, since the
// stdlib has no fixed-width integer hash primitive suited to this.
func seedFor(tileIndex, sampleIndex int) uint64 {
	h := uint64(tileIndex)*0x9E3779B97F4A7C15 + uint64(sampleIndex)*0xBF58476D1CE4E5B9 + 1
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	return h
}
