package main

import (
	"os"

	"github.com/schuttejoe/ShootyEngine/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "shootyengine"
	app.Usage = "bake and render scenes using path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "bake-demo",
			Usage: "bake a built-in diffuse box scene to a meta/geometry blob pair",
			Description: `
Builds an enclosed diffuse room lit by a single emissive quad, entirely in
memory, and bakes it to the two blob files the render command expects.
Stands in for the mesh/curve file importer this engine does not ship.`,
			ArgsUsage: "out-meta.bin out-geom.bin",
			Action:    cmd.BakeDemoScene,
		},
		{
			Name:      "scene-info",
			Usage:     "print the resource footprint of a baked scene",
			ArgsUsage: "meta.bin geom.bin",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:        "render",
			Usage:       "render a single frame from a baked scene",
			Description: `Render a single frame to a PNG file using the CPU tile-based worker pool.`,
			ArgsUsage:   "meta.bin geom.bin",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 16,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "num-bounces",
					Value: 8,
					Usage: "maximum path length",
				},
				cli.IntFlag{
					Name:  "rr-bounces",
					Value: 4,
					Usage: "bounce index at which russian roulette starts",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render worker goroutines (0 = number of CPUs)",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "linear exposure scale applied before tone-mapping",
				},
				cli.BoolFlag{
					Name:  "displacement",
					Usage: "enable displacement mapping for materials that request it",
				},
				cli.Float64Flag{
					Name:  "tessellation-rate",
					Value: 64.0,
					Usage: "tessellation rate for displaced geometry",
				},
				cli.Float64Flag{
					Name:  "alpha-threshold",
					Value: 0.5,
					Usage: "alpha test threshold for alpha-tested materials",
				},
				cli.StringFlag{
					Name:  "resources, r",
					Value: ".",
					Usage: "directory to resolve texture resource names against",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
	}

	app.Run(os.Args)
}
