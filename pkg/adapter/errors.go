package adapter

import (
	"errors"
	"fmt"
)

// ErrNotFound is the uniform negative outcome: the path does not resolve to a
// file or folder, the caller lacks the required capability, or the operation
// could not be verified afterwards. The three cases are deliberately
// indistinguishable.
var ErrNotFound = errors.New("not found or not permitted")

// IsNotFound reports whether err is the uniform negative outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// RemoteError wraps a failure raised by the remote client. The adapter
// neither retries nor rolls back multi-step operations; a RemoteError may
// therefore follow a partially applied change.
type RemoteError struct {
	// Op is the adapter operation that failed (e.g. "rename").
	Op string

	// Path is the logical path the operation addressed.
	Path string

	// Err is the client error.
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %q: remote failure: %v", e.Op, e.Path, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// classify leaves nil and ErrNotFound untouched and wraps everything else.
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote
	}
	return &RemoteError{Op: op, Path: path, Err: err}
}
