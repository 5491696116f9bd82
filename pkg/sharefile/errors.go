package sharefile

import "errors"

// ErrItemNotFound indicates a lookup addressed a node that does not exist.
//
// Clients wrap it with context; callers test with errors.Is. Every other error
// returned by a Client (transport, authentication, server faults) is a hard
// failure.
var ErrItemNotFound = errors.New("sharefile: item not found")

// IsNotFound reports whether err signals a structurally missing item.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}
