package cmd

import (
	"errors"
	"math"
	"os"

	"github.com/schuttejoe/ShootyEngine/asset/material"
	"github.com/schuttejoe/ShootyEngine/baker"
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/types"
	"github.com/urfave/cli"
)

// readFile is the minimal whole-file read shared by ShowSceneInfo and
// RenderFrame to load a baked blob; both blobs are small enough (meta and
// per-scene geometry) that streaming would add complexity without benefit.
func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// BakeDemoScene builds the enclosed-box-and-area-light scene spec section
// 8's "Lambertian box" end-to-end scenario names (a diffuse room lit by a
// single emissive quad) and bakes it to the two blob files scene.Read
// expects, in place of the out-of-scope mesh/curve file importer. It
// exists so the render command below has something real to read without
// this engine needing to ship a wavefront/gltf/usd parser.
func BakeDemoScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 2 {
		return errors.New("usage: bake-demo <out-meta.bin> <out-geom.bin>")
	}
	metaPath := ctx.Args().Get(0)
	geomPath := ctx.Args().Get(1)

	model := buildDemoBox()

	metaBlob, err := baker.BakeMeta(&model)
	if err != nil {
		return err
	}
	geomBlob, err := baker.BakeGeometry(&model)
	if err != nil {
		return err
	}

	if err := baker.WriteAtomic(metaPath, metaBlob); err != nil {
		return err
	}
	if err := baker.WriteAtomic(geomPath, geomBlob); err != nil {
		return err
	}

	logger.Noticef("baked demo scene: %s (%d bytes), %s (%d bytes)", metaPath, len(metaBlob), geomPath, len(geomBlob))
	return nil
}

// ShowSceneInfo decodes a baked meta/geometry blob pair and prints their
// resource footprint, the equivalent of the teacher's compiled-scene
// zip-inspection command retargeted onto this engine's blob format.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 2 {
		return errors.New("usage: scene-info <meta.bin> <geom.bin>")
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

	logger.Noticef("scene information:\n%s", res.Stats())
	return nil
}

// diffuseMaterial builds a fully rough, non-metallic Disney-solid material,
// the closest lobe configuration to an ideal Lambertian diffuse this
// engine's closed shader family supports (spec section 9's testable
// "Lambertian box" scenario only requires energy-conserving diffuse
// reflectance, not a dedicated pure-diffuse BSDF).
func diffuseMaterial(name string, baseColor types.Vec3) material.Material {
	m := material.Material{
		Name:      name,
		NameHash:  material.HashName(name),
		BaseColor: baseColor,
		Shader:    material.DisneySolid,
	}
	m.Scalars[material.Roughness] = 1.0
	m.Scalars[material.IOR] = 1.5
	m.Scalars[material.SheenTint] = 0.5
	m.Scalars[material.ClearcoatGloss] = 1.0
	return m
}

// emissiveMaterial is diffuseMaterial plus a nonzero Emissive radiance,
// making every triangle baked against it a sampleable area light once
// lights.Build scans the bound scene.
func emissiveMaterial(name string, baseColor, emissive types.Vec3) material.Material {
	m := diffuseMaterial(name, baseColor)
	m.Emissive = emissive
	return m
}

// quad appends a 4-vertex, 1-face planar patch to model, returning nothing:
// callers chain calls in winding order matching the room interior.
func quad(model *baker.ImportedModel, materialHash uint32, corners [4]types.Vec3) {
	base := uint32(len(model.Positions))
	indexOffset := uint32(len(model.Indices))

	model.Positions = append(model.Positions, corners[:]...)
	model.Indices = append(model.Indices, base, base+1, base+2, base+3)

	model.Meshes = append(model.Meshes, scene.MeshMeta{
		IndexCount:     4,
		IndexOffset:    indexOffset,
		VertexCount:    4,
		VertexOffset:   base,
		MaterialHash:   materialHash,
		IndicesPerFace: 4,
	})
}

// buildDemoBox assembles a five-wall room (floor, ceiling, back, left,
// right) open toward the camera, lit by a single emissive quad recessed
// into the ceiling, mirroring the classic Cornell-box furnace-adjacent
// test scene spec section 8 describes in prose.
func buildDemoBox() baker.ImportedModel {
	const half float32 = 2.0
	const depth float32 = 4.0

	white := diffuseMaterial("white", types.Vec3{0.73, 0.73, 0.73})
	red := diffuseMaterial("red", types.Vec3{0.65, 0.05, 0.05})
	green := diffuseMaterial("green", types.Vec3{0.12, 0.45, 0.15})
	light := emissiveMaterial("light", types.Vec3{1, 1, 1}, types.Vec3{15, 15, 15})

	model := baker.ImportedModel{
		Materials: []material.Material{white, red, green, light},
		Camera: scene.NewCamera(
			types.Vec3{0, 0, -3},
			types.Vec3{0, 0, 1},
			types.Vec3{0, 1, 0},
			float32(60*math.Pi/180),
			1.0,
		),
	}

	quad(&model, white.NameHash, [4]types.Vec3{
		{-half, -half, 0}, {half, -half, 0}, {half, -half, depth}, {-half, -half, depth},
	})
	quad(&model, white.NameHash, [4]types.Vec3{
		{-half, half, 0}, {half, half, 0}, {half, half, depth}, {-half, half, depth},
	})
	quad(&model, white.NameHash, [4]types.Vec3{
		{-half, -half, depth}, {half, -half, depth}, {half, half, depth}, {-half, half, depth},
	})
	quad(&model, red.NameHash, [4]types.Vec3{
		{-half, -half, 0}, {-half, -half, depth}, {-half, half, depth}, {-half, half, 0},
	})
	quad(&model, green.NameHash, [4]types.Vec3{
		{half, -half, 0}, {half, -half, depth}, {half, half, depth}, {half, half, 0},
	})
	quad(&model, light.NameHash, [4]types.Vec3{
		{-0.5, half - 0.02, depth/2 - 0.5}, {0.5, half - 0.02, depth/2 - 0.5},
		{0.5, half - 0.02, depth/2 + 0.5}, {-0.5, half - 0.02, depth/2 + 0.5},
	})

	model.AABB = types.AABB{
		Min: types.Vec3{-half, -half, 0},
		Max: types.Vec3{half, half, depth},
	}
	model.Sphere = model.AABB.BoundingSphere()

	return model
}
