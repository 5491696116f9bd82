// Package itemstore persists the item tree of the sandbox document store.
//
// A Store holds flat item records plus a parent-to-children index. It knows
// nothing about paths, capabilities or content: the sandbox client builds
// those semantics on top.
package itemstore

import (
	"context"
	"errors"

	"github.com/marmos91/sharefs/pkg/sharefile"
)

// ErrNotFound indicates the requested item does not exist.
var ErrNotFound = errors.New("item not found")

// Store persists items and their parent/child relationships.
//
// Stored items never carry Children; ListChildren reconstructs them from the
// index. All methods must be safe for concurrent use.
type Store interface {
	// GetItem returns a copy of the item. Returns ErrNotFound if absent.
	GetItem(ctx context.Context, id string) (*sharefile.Item, error)

	// PutItem inserts or replaces an item, moving it in the child index when
	// its ParentID changed.
	PutItem(ctx context.Context, item *sharefile.Item) error

	// DeleteItem removes a single item and its index entry. It does not
	// cascade; callers delete descendants first. Returns ErrNotFound if absent.
	DeleteItem(ctx context.Context, id string) error

	// ListChildren returns the direct children of parentID sorted by name.
	ListChildren(ctx context.Context, parentID string) ([]*sharefile.Item, error)

	// Close releases resources held by the store.
	Close() error
}

// Strip returns a copy of item suitable for persistence.
func Strip(item *sharefile.Item) *sharefile.Item {
	c := item.Clone()
	c.Children = nil
	return c
}
