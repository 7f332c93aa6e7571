package asset

import "fmt"

// ErrKind enumerates the error taxonomy from spec section 7.
type ErrKind int

const (
	IoError ErrKind = iota
	BlobCorrupt
	BlobVersionMismatch
	BlobAlignment
	MissingAsset
	TextureError
	BackendError
	OutOfCapacity
	NumericInvalid
)

func (k ErrKind) String() string {
	switch k {
	case IoError:
		return "IoError"
	case BlobCorrupt:
		return "BlobCorrupt"
	case BlobVersionMismatch:
		return "BlobVersionMismatch"
	case BlobAlignment:
		return "BlobAlignment"
	case MissingAsset:
		return "MissingAsset"
	case TextureError:
		return "TextureError"
	case BackendError:
		return "BackendError"
	case OutOfCapacity:
		return "OutOfCapacity"
	case NumericInvalid:
		return "NumericInvalid"
	}
	return "Unknown"
}

// Error is the structured error type returned by resource and baker
// operations (spec section 7). Resource/baker errors are fatal for the
// asset they concern and are skipped by the caller; they are never used for
// kernel-internal conditions, which are recovered locally instead (see the
// kernel package statistics counters).
type Error struct {
	Kind  ErrKind
	Asset string
	Err   error
}

func (e *Error) Error() string {
	if e.Asset != "" {
		return fmt.Sprintf("asset: %s (%s): %v", e.Kind, e.Asset, e.Err)
	}
	return fmt.Sprintf("asset: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and the offending asset name.
func NewError(kind ErrKind, asset string, err error) *Error {
	return &Error{Kind: kind, Asset: asset, Err: err}
}
