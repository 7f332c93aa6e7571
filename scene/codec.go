package scene

import (
	"fmt"
	"math"

	"github.com/schuttejoe/ShootyEngine/asset"
	"github.com/schuttejoe/ShootyEngine/asset/material"
)

// decodeMaterial/EncodeMaterial are the symmetric halves of this
// package's material wire format: a variable-length record (name +
// baseColor + emissive + shader tag + flags + the fixed scalar table +
// three variable-length texture names), framed with a leading uint32 byte
// count so decodeMaterialArray's relocation table can locate each record
// without every material needing the same size. The baker calls
// EncodeMaterial when writing the meta blob; scene.Read calls
// decodeMaterial when reading it back.
func decodeMaterial(body []byte) (material.Material, error) {
	var m material.Material
	off := 0

	if len(body) < 8 {
		return m, fmt.Errorf("scene: material record too short")
	}
	m.NameHash = asset.ReadUint32(body[off:])
	off += 4
	nameLen := int(asset.ReadUint32(body[off:]))
	off += 4
	m.Name = string(body[off : off+nameLen])
	off += nameLen

	m.BaseColor = decodeVec3At(body, off)
	off += 12

	m.Emissive = decodeVec3At(body, off)
	off += 12

	m.Shader = material.ShaderTag(asset.ReadUint32(body[off:]))
	off += 4
	m.Flags = material.Flags(asset.ReadUint32(body[off:]))
	off += 4

	for i := range m.Scalars {
		m.Scalars[i] = asset.ReadFloat32(body[off:])
		off += 4
	}

	for slot := 0; slot < 3; slot++ {
		texLen := int(asset.ReadUint32(body[off:]))
		off += 4
		if texLen > 0 {
			m.Textures[slot] = material.TextureHandle{Name: string(body[off : off+texLen])}
		}
		off += texLen
	}

	return m, nil
}

// EncodeMaterial is decodeMaterial's inverse, used by the baker.
func EncodeMaterial(m material.Material) []byte {
	out := make([]byte, 0, 64+len(m.Name))
	out = appendUint32(out, m.NameHash)
	out = appendUint32(out, uint32(len(m.Name)))
	out = append(out, m.Name...)
	out = appendVec3(out, m.BaseColor)
	out = appendVec3(out, m.Emissive)
	out = appendUint32(out, uint32(m.Shader))
	out = appendUint32(out, uint32(m.Flags))
	for _, s := range m.Scalars {
		out = appendFloat32(out, s)
	}
	for slot := 0; slot < 3; slot++ {
		name := m.Textures[slot].Name
		out = appendUint32(out, uint32(len(name)))
		out = append(out, name...)
	}
	return out
}

// EncodeMeshMeta/EncodeCurveMeta mirror decodeMeshMetaArray/
// decodeCurveMetaArray's fixed-stride layout.
func EncodeMeshMeta(m MeshMeta) []byte {
	out := make([]byte, 0, 28)
	out = appendUint32(out, m.IndexCount)
	out = appendUint32(out, m.IndexOffset)
	out = appendUint32(out, m.VertexCount)
	out = appendUint32(out, m.VertexOffset)
	out = appendUint32(out, m.MaterialHash)
	out = appendUint32(out, m.IndicesPerFace)
	out = appendUint32(out, m.NameHash)
	return out
}

func EncodeCurveMeta(c CurveMeta) []byte {
	out := make([]byte, 0, 12)
	out = appendUint32(out, c.IndexOffset)
	out = appendUint32(out, c.IndexCount)
	out = appendUint32(out, c.NameHash)
	return out
}

func appendUint32(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendFloat32(dst []byte, v float32) []byte {
	return appendUint32(dst, math.Float32bits(v))
}

func appendVec3(dst []byte, v [3]float32) []byte {
	dst = appendFloat32(dst, v[0])
	dst = appendFloat32(dst, v[1])
	dst = appendFloat32(dst, v[2])
	return dst
}
