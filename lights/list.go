package lights

import (
	"github.com/schuttejoe/ShootyEngine/scene"
	"github.com/schuttejoe/ShootyEngine/traversal"
	"github.com/schuttejoe/ShootyEngine/types"
)

// lightKey identifies an area light by the same (geometry, primitive)
// pair a traversal.Hit carries, letting the kernel resolve "which light
// did this BSDF-sampled ray land on" with a map lookup instead of testing
// every light's SolidAnglePdf.
type lightKey struct {
	geom traversal.GeometryHandle
	prim uint32
}

// List is the scene's complete set of next-event-estimation targets: one
// areaLight per emissive mesh face plus, if present, the environment.
// Selection among them is uniform, matching the retrieved
// go-progressive-raytracer's NewUniformLightSampler rather than its
// power-weighted variant, since this engine's baked materials carry no
// pre-integrated power estimate to weight by.
type List struct {
	lights []Light
	byKey  map[lightKey]*areaLight
	env    Environment
}

// Build scans res's bound geometry for emissive mesh faces and assembles
// them into a List, appending env (if non-nil) as an additional
// sampleable light. res.BindTraversal must have already run, since area
// lights need each mesh's bound traversal.GeometryHandle to key their hit
// lookup.
func Build(res *scene.Resource, env Environment) *List {
	l := &List{byKey: make(map[lightKey]*areaLight)}

	for _, ud := range res.UserData {
		if ud.IsCurve || ud.Material == nil || !ud.Material.IsEmissive() {
			continue
		}
		mesh := res.Meshes[ud.MeshIndex]
		if mesh.IndicesPerFace == 0 {
			continue
		}
		faceCount := mesh.IndexCount / mesh.IndicesPerFace
		corners := make([]types.Vec3, mesh.IndicesPerFace)
		for f := uint32(0); f < faceCount; f++ {
			base := mesh.IndexOffset + f*mesh.IndicesPerFace
			for k := uint32(0); k < mesh.IndicesPerFace; k++ {
				corners[k] = res.Positions[res.Indices[base+k]]
			}
			al, ok := newAreaLight(corners, ud.Material.Emissive, ud.Geometry, f)
			if !ok {
				continue
			}
			l.lights = append(l.lights, al)
			l.byKey[lightKey{al.geom, al.prim}] = al
		}
	}

	if env != nil {
		l.env = env
		l.lights = append(l.lights, env)
	}

	return l
}

// Len returns the total number of sampleable lights, including the
// environment if one was supplied to Build.
func (l *List) Len() int {
	return len(l.lights)
}

// SampleLight uniformly selects one light using u (the kernel passes
// sampling.VanDerCorput of its light-sample index), returning it and the probability with which it
// was selected. ok is false for an empty list (a scene with no emissive
// geometry and no environment).
func (l *List) SampleLight(u float32) (Light, float32, bool) {
	n := len(l.lights)
	if n == 0 {
		return nil, 0, false
	}
	i := int(u * float32(n))
	if i >= n {
		i = n - 1
	}
	return l.lights[i], 1.0 / float32(n), true
}

// SelectionPdf returns the uniform selection probability SampleLight would
// have assigned to any light in a non-empty list, needed by the kernel to
// MIS-weight a BSDF-sampled ray against the specific light it landed on.
func (l *List) SelectionPdf() float32 {
	if len(l.lights) == 0 {
		return 0
	}
	return 1.0 / float32(len(l.lights))
}

// Lookup resolves a traversal.Hit's (GeomID, PrimID) back to the area
// light it corresponds to, or ok == false if the hit face carries no
// emission (the common case).
func (l *List) Lookup(geom traversal.GeometryHandle, prim uint32) (*areaLight, bool) {
	al, ok := l.byKey[lightKey{geom, prim}]
	return al, ok
}

// Environment returns the scene's environment light, or nil if Build was
// called without one.
func (l *List) Environment() Environment {
	return l.env
}
