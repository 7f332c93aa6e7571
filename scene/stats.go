package scene

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/olekukonko/tablewriter"
)

// Stats renders a table summarizing the resource's memory footprint,
// ported from the teacher's optimized_scene.go Stats()/fmtSize, retargeted
// from its BVH/mesh-instance shape onto this resource's baked buffers.
func (r *Resource) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Size"})

	table.Append([]string{"Geometry", "---", fmtSize(r.Positions, r.Normals, r.Tangents, r.UVs, r.Indices)})
	table.Append([]string{"", "Positions", fmtSize(r.Positions)})
	table.Append([]string{"", "Normals", fmtSize(r.Normals)})
	table.Append([]string{"", "Tangents", fmtSize(r.Tangents)})
	table.Append([]string{"", "UVs", fmtSize(r.UVs)})
	table.Append([]string{"", "Indices", fmtSize(r.Indices)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Curves", "---", fmtSize(r.CurveIndices, r.CurveVertices)})
	table.Append([]string{"", "Indices", fmtSize(r.CurveIndices)})
	table.Append([]string{"", "Vertices", fmtSize(r.CurveVertices)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Meshes", "---", fmt.Sprintf("%3d meshes", len(r.Meshes))})
	table.Append([]string{"Materials", "---", fmt.Sprintf("%3d materials", r.Materials.Len())})
	table.Append([]string{"Textures", "---", fmt.Sprintf("%3d textures", len(r.TextureNames))})

	table.SetFooter([]string{"Total", " ", fmtSize(r.Positions, r.Normals, r.Tangents, r.UVs, r.Indices, r.CurveIndices, r.CurveVertices)})
	table.Render()
	return buf.String()
}

// fmtSize sums the byte footprint of a set of slices and formats it with
// the appropriate byte/kb/mb unit, identical in shape to the teacher's
// optimized_scene.go helper of the same name.
func fmtSize(items ...interface{}) string {
	var totalBytes float32
	for _, item := range items {
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}
		totalBytes += float32(int(v.Type().Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
