package asset

import (
	"testing"

	"github.com/schuttejoe/ShootyEngine/types"
)

func TestBlobRoundTrip(t *testing.T) {
	positions := []types.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	indices := []uint32{0, 1, 2}

	w := NewWriter()
	WriteHeader(w, "mesh", 1, 0, 0) // payloadSize/rootOffset patched below

	rootOffset := w.Len()
	positionsSite := w.PromisePointer()
	indicesSite := w.PromisePointer()
	w.WriteUint32(uint32(len(positions)))
	w.WriteUint32(uint32(len(indices)))

	w.EmbedBuffer(positionsSite, EncodeVec3Slice(positions), GeometryAlignment)
	w.EmbedBuffer(indicesSite, EncodeUint32Slice(indices), GeometryAlignment)

	raw := w.Bytes()
	payloadSize := uint64(len(raw)) - HeaderSize
	// Backpatch the header's payload-size and root-offset fields directly;
	// WriteHeader wrote them as 0 before the payload existed.
	patchHeader(raw, payloadSize, rootOffset)

	blob, err := Attach(raw)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := blob.CheckVersion("mesh", 1); err != nil {
		t.Fatalf("CheckVersion: %v", err)
	}

	root, err := blob.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}

	count := ReadUint32(root[16:20])
	if count != uint32(len(positions)) {
		t.Fatalf("position count: got %d want %d", count, len(positions))
	}

	posView, err := blob.ViewAligned(rootOffset, GeometryAlignment)
	if err != nil {
		t.Fatalf("ViewAligned(positions): %v", err)
	}
	decodedPositions := DecodeVec3Slice(posView, len(positions))
	for i := range positions {
		if decodedPositions[i] != positions[i] {
			t.Fatalf("position %d: got %v want %v", i, decodedPositions[i], positions[i])
		}
	}

	idxView, err := blob.ViewAligned(rootOffset+8, GeometryAlignment)
	if err != nil {
		t.Fatalf("ViewAligned(indices): %v", err)
	}
	decodedIndices := DecodeUint32Slice(idxView, len(indices))
	for i := range indices {
		if decodedIndices[i] != indices[i] {
			t.Fatalf("index %d: got %d want %d", i, decodedIndices[i], indices[i])
		}
	}
}

func TestBlobNullPointer(t *testing.T) {
	w := NewWriter()
	WriteHeader(w, "mesh", 1, 0, 0)
	rootOffset := w.Len()
	site := w.PromisePointer()
	w.EmbedBuffer(site, nil, GeometryAlignment)

	raw := w.Bytes()
	patchHeader(raw, uint64(len(raw))-HeaderSize, rootOffset)

	blob, err := Attach(raw)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	view, err := blob.View(rootOffset)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if view != nil {
		t.Fatalf("expected nil view for null pointer, got %d bytes", len(view))
	}
}

func TestBlobVersionMismatch(t *testing.T) {
	w := NewWriter()
	WriteHeader(w, "mesh", 2, 0, 0)
	raw := w.Bytes()
	patchHeader(raw, uint64(len(raw))-HeaderSize, HeaderSize)

	blob, err := Attach(raw)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	err = blob.CheckVersion("mesh", 1)
	if err == nil {
		t.Fatal("expected a version mismatch error")
	}
	var assetErr *Error
	if !asErrorAs(err, &assetErr) || assetErr.Kind != BlobVersionMismatch {
		t.Fatalf("expected BlobVersionMismatch, got %v", err)
	}
}

func TestBlobCorruptTruncated(t *testing.T) {
	_, err := Attach(make([]byte, 4))
	if err == nil {
		t.Fatal("expected a corrupt-blob error for a truncated buffer")
	}
}

func TestAlignmentViolation(t *testing.T) {
	w := NewWriter()
	WriteHeader(w, "mesh", 1, 0, 0)
	site := w.PromisePointer()
	// Misalign the pointee deliberately by writing one stray byte first.
	w.WriteBytes([]byte{0})
	w.ResolvePointer(site, w.Len())
	w.WriteBytes([]byte{1, 2, 3, 4})

	raw := w.Bytes()
	patchHeader(raw, uint64(len(raw))-HeaderSize, HeaderSize)

	blob, err := Attach(raw)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	_, err = blob.ViewAligned(HeaderSize, GeometryAlignment)
	if err == nil {
		t.Fatal("expected a BlobAlignment error")
	}
}

func patchHeader(raw []byte, payloadSize, rootOffset uint64) {
	putLE64(raw[20:28], payloadSize)
	putLE64(raw[28:36], rootOffset)
}

func putLE64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func asErrorAs(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
