package store

import (
	"context"
	"errors"
)

// ErrDocumentMissing is returned by Backend.Read when no document exists under the name.
var ErrDocumentMissing = errors.New("document missing")

// Backend persists whole named documents. Every Write replaces the
// previous content in full; there is no partial update path.
type Backend interface {
	// Read returns the full document or ErrDocumentMissing.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write replaces the document with data.
	Write(ctx context.Context, name string, data []byte) error
	// Init stores data only when the document does not exist yet.
	Init(ctx context.Context, name string, data []byte) error
}
