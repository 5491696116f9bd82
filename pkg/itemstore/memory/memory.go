package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/marmos91/sharefs/pkg/itemstore"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// MemoryItemStore keeps items in maps guarded by a single RWMutex.
type MemoryItemStore struct {
	mu       sync.RWMutex
	items    map[string]*sharefile.Item
	children map[string]map[string]struct{}
}

// NewMemoryItemStore creates an empty store.
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{
		items:    make(map[string]*sharefile.Item),
		children: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryItemStore) GetItem(ctx context.Context, id string) (*sharefile.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, itemstore.ErrNotFound)
	}
	return item.Clone(), nil
}

func (s *MemoryItemStore) PutItem(ctx context.Context, item *sharefile.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if item == nil || item.ID == "" {
		return fmt.Errorf("item id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.items[item.ID]; ok && old.ParentID != item.ParentID {
		s.unlink(old.ParentID, old.ID)
	}

	s.items[item.ID] = itemstore.Strip(item)
	if item.ParentID != "" {
		set, ok := s.children[item.ParentID]
		if !ok {
			set = make(map[string]struct{})
			s.children[item.ParentID] = set
		}
		set[item.ID] = struct{}{}
	}
	return nil
}

func (s *MemoryItemStore) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, itemstore.ErrNotFound)
	}

	s.unlink(item.ParentID, id)
	delete(s.items, id)
	delete(s.children, id)
	return nil
}

func (s *MemoryItemStore) ListChildren(ctx context.Context, parentID string) ([]*sharefile.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.children[parentID]
	out := make([]*sharefile.Item, 0, len(set))
	for id := range set {
		if item, ok := s.items[id]; ok {
			out = append(out, item.Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryItemStore) Close() error {
	return nil
}

// unlink must be called with mu held.
func (s *MemoryItemStore) unlink(parentID, id string) {
	if set, ok := s.children[parentID]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(s.children, parentID)
		}
	}
}
