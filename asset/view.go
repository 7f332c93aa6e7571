package asset

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/schuttejoe/ShootyEngine/types"
)

// Blob wraps a fully loaded byte slice (header + payload) and resolves the
// relative pointer fields within it on demand. It never rewrites the
// buffer: callers dereference a relocation site through View/ViewAligned,
// which hands back a borrowed slice rooted at the pointee's absolute blob
// offset. This is the "reader keeps offsets, adds base at dereference"
// discipline recorded in DESIGN.md, chosen over an eager fixup pass because
// a loaded blob is frequently mapped read-only and shared across worker
// goroutines (spec section 3's KernelContext isolation would otherwise
// require per-worker copies to fix up pointers independently).
type Blob struct {
	Header Header
	Raw    []byte
}

// Attach validates raw's header and wraps it for reading. It does not
// validate the payload beyond the length check; structural corruption
// inside the payload surfaces lazily as a BlobCorrupt error from whichever
// View call first walks off the end of the buffer.
func Attach(raw []byte) (*Blob, error) {
	header, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	if uint64(len(raw)) != uint64(HeaderSize)+header.PayloadSize {
		return nil, NewError(BlobCorrupt, "", fmt.Errorf(
			"payload size mismatch: header says %d, blob has %d", header.PayloadSize, uint64(len(raw))-HeaderSize))
	}
	return &Blob{Header: header, Raw: raw}, nil
}

// CheckVersion returns a BlobVersionMismatch error if the blob's version
// tag does not equal want. Every reader that walks a versioned data type
// (spec section 4.1: "a version tag per data type") calls this before
// touching the payload.
func (b *Blob) CheckVersion(assetName string, want uint64) error {
	if b.Header.Version != want {
		return NewError(BlobVersionMismatch, assetName,
			fmt.Errorf("have version %d, want %d", b.Header.Version, want))
	}
	return nil
}

// Root returns a view starting at the header's root-offset field.
func (b *Blob) Root() ([]byte, error) {
	if b.Header.RootOffset >= uint64(len(b.Raw)) {
		return nil, NewError(BlobCorrupt, "", fmt.Errorf("root offset %d out of bounds", b.Header.RootOffset))
	}
	return b.Raw[b.Header.RootOffset:], nil
}

// View dereferences the 8-byte relocation site at absolute offset
// siteOffset and returns a slice of Raw starting at the pointee. A null
// pointer (value 0) returns a nil slice and a nil error.
func (b *Blob) View(siteOffset uint64) ([]byte, error) {
	if siteOffset+8 > uint64(len(b.Raw)) {
		return nil, NewError(BlobCorrupt, "", fmt.Errorf("relocation site %d out of bounds", siteOffset))
	}
	ptr := binary.LittleEndian.Uint64(b.Raw[siteOffset : siteOffset+8])
	if ptr == 0 {
		return nil, nil
	}
	if ptr >= uint64(len(b.Raw)) {
		return nil, NewError(BlobCorrupt, "", fmt.Errorf("pointer %d out of bounds", ptr))
	}
	return b.Raw[ptr:], nil
}

// SliceAt returns Raw starting at an already-resolved absolute blob
// offset (as opposed to View, which first dereferences a relocation
// site). offset == 0 is treated as a null pointer, same as View.
func (b *Blob) SliceAt(offset uint64) ([]byte, error) {
	if offset == 0 {
		return nil, nil
	}
	if offset >= uint64(len(b.Raw)) {
		return nil, NewError(BlobCorrupt, "", fmt.Errorf("offset %d out of bounds", offset))
	}
	return b.Raw[offset:], nil
}

// ViewAligned is View with an additional alignment check on the pointee's
// absolute blob offset, used for bulk geometry buffers that the traversal
// backend expects to receive at a specific alignment (spec section 4.1).
func (b *Blob) ViewAligned(siteOffset uint64, alignment uint32) ([]byte, error) {
	view, err := b.View(siteOffset)
	if err != nil || view == nil {
		return view, err
	}
	ptr := uint64(len(b.Raw)) - uint64(len(view))
	if ptr%uint64(alignment) != 0 {
		return nil, NewError(BlobAlignment, "", fmt.Errorf("pointee at %d is not %d-byte aligned", ptr, alignment))
	}
	return view, nil
}

// ReadUint32 decodes a little-endian uint32 at the start of view.
func ReadUint32(view []byte) uint32 {
	return binary.LittleEndian.Uint32(view[0:4])
}

// ReadUint64 decodes a little-endian uint64 at the start of view.
func ReadUint64(view []byte) uint64 {
	return binary.LittleEndian.Uint64(view[0:8])
}

// ReadFloat32 decodes a little-endian IEEE-754 float32 at the start of view.
func ReadFloat32(view []byte) float32 {
	return math.Float32frombits(ReadUint32(view))
}

// DecodeFloat32Slice decodes count consecutive float32 values starting at
// the head of view, without retaining a reference to view itself.
func DecodeFloat32Slice(view []byte, count int) []float32 {
	out := make([]float32, count)
	for i := 0; i < count; i++ {
		out[i] = ReadFloat32(view[i*4:])
	}
	return out
}

// DecodeUint32Slice decodes count consecutive uint32 values (vertex/index
// buffers) starting at the head of view.
func DecodeUint32Slice(view []byte, count int) []uint32 {
	out := make([]uint32, count)
	for i := 0; i < count; i++ {
		out[i] = ReadUint32(view[i*4:])
	}
	return out
}

// DecodeVec2Slice decodes count consecutive Vec2 values.
func DecodeVec2Slice(view []byte, count int) []types.Vec2 {
	out := make([]types.Vec2, count)
	for i := 0; i < count; i++ {
		off := i * 8
		out[i] = types.Vec2{ReadFloat32(view[off:]), ReadFloat32(view[off+4:])}
	}
	return out
}

// DecodeVec3Slice decodes count consecutive Vec3 values.
func DecodeVec3Slice(view []byte, count int) []types.Vec3 {
	out := make([]types.Vec3, count)
	for i := 0; i < count; i++ {
		off := i * 12
		out[i] = types.Vec3{ReadFloat32(view[off:]), ReadFloat32(view[off+4:]), ReadFloat32(view[off+8:])}
	}
	return out
}

// DecodeVec4Slice decodes count consecutive Vec4 values.
func DecodeVec4Slice(view []byte, count int) []types.Vec4 {
	out := make([]types.Vec4, count)
	for i := 0; i < count; i++ {
		off := i * 16
		out[i] = types.Vec4{
			ReadFloat32(view[off:]), ReadFloat32(view[off+4:]),
			ReadFloat32(view[off+8:]), ReadFloat32(view[off+12:]),
		}
	}
	return out
}

// EncodeFloat32Slice appends a buffer of little-endian float32 values,
// the inverse of DecodeFloat32Slice, for use by the baker when embedding
// vertex attribute arrays.
func EncodeFloat32Slice(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// EncodeUint32Slice appends a buffer of little-endian uint32 values.
func EncodeUint32Slice(values []uint32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// EncodeVec2Slice appends a buffer of little-endian Vec2 values, used for
// UV coordinates.
func EncodeVec2Slice(values []types.Vec2) []byte {
	out := make([]byte, len(values)*8)
	for i, v := range values {
		off := i * 8
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(out[off+4:], math.Float32bits(v[1]))
	}
	return out
}

// EncodeVec3Slice appends a buffer of little-endian Vec3 values.
func EncodeVec3Slice(values []types.Vec3) []byte {
	out := make([]byte, len(values)*12)
	for i, v := range values {
		off := i * 12
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(out[off+4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(out[off+8:], math.Float32bits(v[2]))
	}
	return out
}

// EncodeVec4Slice appends a buffer of little-endian Vec4 values, used for
// tangents (xyz + handedness sign) and curve control points (xyz + radius).
func EncodeVec4Slice(values []types.Vec4) []byte {
	out := make([]byte, len(values)*16)
	for i, v := range values {
		off := i * 16
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(out[off+4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(out[off+8:], math.Float32bits(v[2]))
		binary.LittleEndian.PutUint32(out[off+12:], math.Float32bits(v[3]))
	}
	return out
}
