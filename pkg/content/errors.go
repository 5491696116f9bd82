package content

import "errors"

var (
	// ErrContentNotFound indicates the requested blob does not exist.
	//
	// Implementations wrap it with the ID:
	//
	//	return fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
	ErrContentNotFound = errors.New("content not found")

	// ErrInvalidContentID indicates an ID the store cannot address
	// (empty, or containing path separators for the filesystem store).
	ErrInvalidContentID = errors.New("invalid content id")
)
