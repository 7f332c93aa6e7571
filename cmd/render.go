package cmd

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/schuttejoe/ShootyEngine/kernel"
	"github.com/schuttejoe/ShootyEngine/lights"
	"github.com/schuttejoe/ShootyEngine/render"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/texture"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
	"github.com/urfave/cli"
)

// RenderFrame drives one still-frame render of a baked scene: read the
// blob pair, attach textures and a traversal backend, assemble the light
// list, run the tile pool for the requested sample count, then tone-map
// and encode the resolved accumulator to a PNG. It replaces the teacher's
// OpenCL-device-targeted RenderFrame with the CPU worker-pool pipeline
// this engine actually has (spec section 1 excludes GPU execution).
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 2 {
		return errors.New("usage: render <meta.bin> <geom.bin>")
	}

	metaBlob, err := readFile(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	geomBlob, err := readFile(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	res, err := scene.Read(metaBlob, geomBlob)
	if err != nil {
		return err
	}

	if err := res.Initialize(texture.OiioBackend{}, ctx.String("resources")); err != nil {
		return err
	}

	backend := traversal.NewBruteForce()
	bindOpts := scene.BindOptions{
		EnableDisplacement: ctx.Bool("displacement"),
		TessellationRate:   float32(ctx.Float64("tessellation-rate")),
		AlphaThreshold:     float32(ctx.Float64("alpha-threshold")),
	}
	if _, err := res.BindTraversal(backend, bindOpts); err != nil {
		return err
	}

	lightList := lights.Build(res, nil)
	if lightList.Len() == 0 {
		logger.Warning("scene contains no emissive geometry or environment; rendered frame will be black")
	}

	width := ctx.Int("width")
	height := ctx.Int("height")
	res.Camera.AspectRatio = float32(width) / float32(height)

	numBounces := ctx.Int("num-bounces")
	rrStart := ctx.Int("rr-bounces")
	if rrStart <= 0 || rrStart >= numBounces {
		logger.Notice("disabling russian roulette for this path length")
		rrStart = numBounces + 1
	}

	opts := kernel.Options{
		MaxPathLength:            numBounces,
		RayStackCapacity:         numBounces + 2,
		RouletteStart:            rrStart,
		SamplesPerPixel:          ctx.Int("spp"),
		TileSize:                 32,
		PreserveRayDifferentials: true,
		EnableDisplacement:       bindOpts.EnableDisplacement,
		TessellationRate:         bindOpts.TessellationRate,
		AlphaThreshold:           bindOpts.AlphaThreshold,
	}

	pool := render.NewPool(ctx.Int("workers"))
	summary, err := pool.Render(context.Background(), res, backend, lightList, opts, width, height)
	if err != nil {
		return err
	}

	logger.Noticef("render session summary:\n%s", summary.String())

	img := tonemap(summary.Resolve(), width, height, float32(ctx.Float64("exposure")))

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", out)
	return nil
}

// tonemap converts a linear-radiance accumulator into an 8-bit sRGB-ish
// image via a flat exposure scale followed by a 1/2.2 gamma curve, the
// same two-step mapping the teacher's renderer.Options.Exposure field fed
// into before its (now-dropped) OpenGL blit; kept here since spec section
// 6 still calls for a displayable PNG as the render command's output.
func tonemap(pixels []types.Vec3, width, height int, exposure float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := pixels[y*width+x].Mul(exposure)
			img.Set(x, y, color.RGBA{
				R: toneChannel(c[0]),
				G: toneChannel(c[1]),
				B: toneChannel(c[2]),
				A: 255,
			})
		}
	}
	return img
}

func toneChannel(v float32) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	v = float32(math.Pow(float64(v), 1.0/2.2))
	return uint8(v*255 + 0.5)
}
