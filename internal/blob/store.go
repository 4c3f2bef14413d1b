// Package blob stores uploaded product images as opaque files and
// hands back stable references. The catalog never inspects image
// contents; it only carries the reference this package returns.
package blob

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured
	// size limit.
	ErrTooLarge = errors.New("image exceeds maximum size")

	// ErrUnsupportedType is returned when the payload is not a
	// recognized image format.
	ErrUnsupportedType = errors.New("unsupported image type")
)

// Store commits raw upload bytes and produces stable references.
//
// Save must be atomic: a failed or partial commit never leaves a
// readable blob behind. Remove is the rollback half of the ingest
// pipeline's compensation path and must tolerate already-removed refs.
type Store interface {
	// Save commits the bytes from r and returns a stable reference.
	Save(ctx context.Context, r io.Reader) (ref string, err error)

	// Remove deletes a committed blob. Removing an unknown ref is not
	// an error.
	Remove(ctx context.Context, ref string) error

	// URL resolves a reference to the public path clients fetch it from.
	URL(ref string) string
}
