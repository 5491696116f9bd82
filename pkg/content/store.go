// Package content stores the bytes of sandbox files.
//
// The sandbox client keeps the item tree in an itemstore.Store and file bodies
// here, keyed by item ID. The split mirrors a real document store, where
// metadata and blobs live in different systems and can be scaled or swapped
// independently.
//
// Implementations:
//   - memory: map-backed, for tests and ephemeral sandboxes
//   - fs:     one file per content ID under a base directory
//   - s3:     Amazon S3 or any S3-compatible object store
package content

import (
	"context"
	"io"
)

// ContentID identifies a blob. The sandbox uses the owning item's ID.
type ContentID string

// Store is the blob persistence contract.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// ReadContent opens the blob. The caller closes the reader.
	// Returns ErrContentNotFound if the blob does not exist.
	ReadContent(ctx context.Context, id ContentID) (io.ReadCloser, error)

	// WriteContent replaces the blob with data.
	WriteContent(ctx context.Context, id ContentID, data []byte) error

	// WriteFrom replaces the blob with everything read from r and returns the
	// number of bytes stored.
	WriteFrom(ctx context.Context, id ContentID, r io.Reader) (int64, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, id ContentID) error

	// ContentExists reports whether the blob exists.
	ContentExists(ctx context.Context, id ContentID) (bool, error)
}

// ReadAll reads a whole blob into memory.
func ReadAll(ctx context.Context, store Store, id ContentID) ([]byte, error) {
	rc, err := store.ReadContent(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}
